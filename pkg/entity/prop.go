package entity

import (
	"github.com/handlebridge/bridge/pkg/core"
	"github.com/handlebridge/bridge/pkg/engine"
)

// Prop is a placed world object.
type Prop struct {
	*Entity
}

// Kind returns TagProp.
func (p *Prop) Kind() core.TypeTag {
	return core.TagProp
}

// Exists also requires the handle to still be an object.
func (p *Prop) Exists() bool {
	return p.Entity.Exists() && p.natives.EntityType(p.handle) == engine.TypeCodeObject
}

// PlaceOnGround snaps the prop onto the ground below it.
func (p *Prop) PlaceOnGround() bool {
	return p.natives.PlaceObjectOnGroundProperly(p.handle)
}
