package entity

import (
	"github.com/handlebridge/bridge/pkg/core"
	"github.com/handlebridge/bridge/pkg/engine"
)

// EntityBone is one bone of an entity's skeleton.
type EntityBone struct {
	owner *Entity
	index int
}

// Owner returns the entity the bone belongs to.
func (b *EntityBone) Owner() *Entity {
	return b.owner
}

// Index returns the bone index, -1 when the lookup failed.
func (b *EntityBone) Index() int {
	return b.index
}

// Position returns the bone's world position.
func (b *EntityBone) Position() core.Vector3 {
	return b.owner.natives.WorldPositionOfEntityBone(b.owner.handle, b.index)
}

// Rotation returns the bone rotation in world space.
func (b *EntityBone) Rotation() core.Vector3 {
	return b.owner.natives.EntityBoneRotation(b.owner.handle, b.index)
}

// IsValid reports whether the owner exists and the bone was found.
func (b *EntityBone) IsValid() bool {
	return b.owner.Exists() && b.index != engine.NoBone
}

// BoneCollection looks bones up on one entity.
type BoneCollection struct {
	owner *Entity
}

// ByIndex returns the bone at index.
func (c *BoneCollection) ByIndex(index int) *EntityBone {
	return &EntityBone{owner: c.owner, index: index}
}

// ByName resolves a bone by name. The result is invalid if the entity has no
// such bone.
func (c *BoneCollection) ByName(name string) *EntityBone {
	return &EntityBone{owner: c.owner, index: c.owner.natives.EntityBoneIndexByName(c.owner.handle, name)}
}

// HasBone reports whether the entity has a bone called name.
func (c *BoneCollection) HasBone(name string) bool {
	return c.owner.natives.EntityBoneIndexByName(c.owner.handle, name) != engine.NoBone
}
