package entity

import (
	"errors"

	"github.com/handlebridge/bridge/pkg/core"
	"github.com/handlebridge/bridge/pkg/engine"
)

// ErrSelfAttach is returned when an entity is attached to itself, which
// crashes the engine.
var ErrSelfAttach = errors.New("cannot attach an entity to itself")

// AttachOption configures AttachTo and AttachToBone.
type AttachOption func(*attachConfig)

type attachConfig struct {
	collision     bool
	fixedRotation bool
	softPinning   bool
	rotationOrder int
}

func defaultAttachConfig() attachConfig {
	return attachConfig{
		collision:     false,
		fixedRotation: true,
		softPinning:   true,
		rotationOrder: 1,
	}
}

// WithCollision keeps collisions between the attached entities.
func WithCollision(enabled bool) AttachOption {
	return func(c *attachConfig) {
		c.collision = enabled
	}
}

// WithFixedRotation controls whether the attached entity keeps its rotation.
func WithFixedRotation(fixed bool) AttachOption {
	return func(c *attachConfig) {
		c.fixedRotation = fixed
	}
}

// WithSoftPinning lets the attachment break under force.
func WithSoftPinning(soft bool) AttachOption {
	return func(c *attachConfig) {
		c.softPinning = soft
	}
}

// WithRotationOrder sets the euler rotation order.
func WithRotationOrder(order int) AttachOption {
	return func(c *attachConfig) {
		c.rotationOrder = order
	}
}

// AttachTo attaches e to the root of target at the given offset.
func (e *Entity) AttachTo(target Variant, pos, rot core.Vector3, opts ...AttachOption) error {
	return e.attach(target.Handle(), engine.NoBone, pos, rot, opts)
}

// AttachToBone attaches e to bone at the given offset.
func (e *Entity) AttachToBone(bone *EntityBone, pos, rot core.Vector3, opts ...AttachOption) error {
	return e.attach(bone.Owner().Handle(), bone.Index(), pos, rot, opts)
}

func (e *Entity) attach(target engine.Handle, bone int, pos, rot core.Vector3, opts []AttachOption) error {
	if target == e.handle {
		return ErrSelfAttach
	}

	cfg := defaultAttachConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	e.natives.AttachEntityToEntity(engine.Attachment{
		Entity:        e.handle,
		Target:        target,
		Bone:          bone,
		Offset:        pos,
		Rotation:      rot,
		FixedRotation: cfg.fixedRotation,
		SoftPinning:   cfg.softPinning,
		Collision:     cfg.collision,
		IsPed:         e.natives.IsEntityAPed(target),
		RotationOrder: cfg.rotationOrder,
	})
	return nil
}

// Detach releases e from whatever it is attached to.
func (e *Entity) Detach() {
	e.natives.DetachEntity(e.handle)
}

// IsAttached reports whether the entity is attached to anything.
func (e *Entity) IsAttached() bool {
	return e.natives.IsEntityAttached(e.handle)
}

// IsAttachedTo reports whether the entity is attached to other.
func (e *Entity) IsAttachedTo(other Variant) bool {
	return e.natives.IsEntityAttachedToEntity(e.handle, other.Handle())
}

// AttachedTo returns the entity e is attached to, or nil.
func (e *Entity) AttachedTo() Variant {
	return e.resolver.FromHandle(e.natives.EntityAttachedTo(e.handle))
}
