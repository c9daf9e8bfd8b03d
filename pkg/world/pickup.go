// Package world wraps engine objects that are not entities: pickups and
// networked synchronised scenes.
package world

import (
	"github.com/handlebridge/bridge/pkg/core"
	"github.com/handlebridge/bridge/pkg/engine"
)

// Pickup is a placed pickup.
type Pickup struct {
	handle  engine.PickupHandle
	natives engine.PickupNatives
}

// NewPickup wraps h.
func NewPickup(natives engine.PickupNatives, h engine.PickupHandle) *Pickup {
	return &Pickup{handle: h, natives: natives}
}

func (p *Pickup) Handle() engine.PickupHandle {
	return p.handle
}

func (p *Pickup) Position() core.Vector3 {
	return p.natives.PickupCoords(p.handle)
}

func (p *Pickup) IsCollected() bool {
	return p.natives.HasPickupBeenCollected(p.handle)
}

func (p *Pickup) Exists() bool {
	return p.natives.DoesPickupExist(p.handle)
}

// Delete removes the pickup from the world.
func (p *Pickup) Delete() {
	p.natives.RemovePickup(p.handle)
}
