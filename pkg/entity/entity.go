package entity

import (
	"github.com/handlebridge/bridge/pkg/core"
	"github.com/handlebridge/bridge/pkg/engine"
	"github.com/handlebridge/bridge/pkg/statebag"
)

// Variant is implemented by *Ped, *Vehicle and *Prop.
type Variant interface {
	Handle() engine.Handle
	Kind() core.TypeTag
	Exists() bool
	Position() core.Vector3
	Health() int
	NetworkID() engine.NetworkID
	IsNetworked() bool
	Delete() bool
	Base() *Entity
}

// Compile-time interface checks
var (
	_ Variant = (*Ped)(nil)
	_ Variant = (*Vehicle)(nil)
	_ Variant = (*Prop)(nil)
)

// Entity is the behaviour shared by every variant.
type Entity struct {
	handle   engine.Handle
	natives  engine.Natives
	resolver *Resolver

	netID       engine.NetworkID
	netIDCached bool

	listeners *statebag.Listeners
	bones     *BoneCollection
}

func newEntity(r *Resolver, h engine.Handle) *Entity {
	e := &Entity{
		handle:   h,
		natives:  r.natives,
		resolver: r,
	}
	if r.natives.IsEntityNetworked(h) {
		e.netID = r.natives.NetworkIDFromEntity(h)
		e.netIDCached = true
	}
	e.listeners = statebag.NewListeners(r.registry, e.StateBagName)
	return e
}

// Handle returns the wrapped engine handle.
func (e *Entity) Handle() engine.Handle {
	return e.handle
}

// Kind returns TagEntity; variants override it.
func (e *Entity) Kind() core.TypeTag {
	return core.TagEntity
}

// Base returns e.
func (e *Entity) Base() *Entity {
	return e
}

// Exists reports whether the engine still knows the handle.
func (e *Entity) Exists() bool {
	return e.natives.DoesEntityExist(e.handle)
}

// IsNetworked reports whether the entity is replicated.
func (e *Entity) IsNetworked() bool {
	return e.natives.IsEntityNetworked(e.handle)
}

// SetNetworked registers or unregisters the entity for replication.
func (e *Entity) SetNetworked(networked bool) {
	if networked {
		e.natives.RegisterEntityAsNetworked(e.handle)
	} else {
		e.natives.UnregisterNetworkedEntity(e.handle)
	}
}

// NetworkID returns the entity's network id. The first non-zero id read is
// kept for the lifetime of e, even if the engine later reports another.
func (e *Entity) NetworkID() engine.NetworkID {
	if e.netIDCached {
		return e.netID
	}
	id := e.natives.NetworkIDFromEntity(e.handle)
	if id != 0 {
		e.netID = id
		e.netIDCached = true
	}
	return id
}

// StateBagName is the bag the entity's state lives in.
func (e *Entity) StateBagName() string {
	if e.IsNetworked() {
		return statebag.EntityScope(e.NetworkID())
	}
	return statebag.LocalEntityScope(e.handle)
}

// State returns the entity's state bag.
func (e *Entity) State() *statebag.State {
	return statebag.NewState(e.natives, e.StateBagName())
}

// AddStateBagChangeHandler subscribes h to the entity's bag. A nil filter
// matches every key. The subscription is dropped when the entity is deleted.
func (e *Entity) AddStateBagChangeHandler(filter *string, h statebag.Handler) engine.Cookie {
	return e.listeners.Add(filter, h)
}

// ListenForStateChange is AddStateBagChangeHandler with a plain key; an
// empty key matches every key.
func (e *Entity) ListenForStateChange(key string, h statebag.Handler) engine.Cookie {
	return e.listeners.Listen(key, h)
}

// RemoveStateListener drops one subscription created through e.
func (e *Entity) RemoveStateListener(c engine.Cookie) bool {
	return e.listeners.Remove(c)
}

// RemoveAllStateListeners drops every subscription created through e.
func (e *Entity) RemoveAllStateListeners() int {
	return e.listeners.RemoveAll()
}

// StateListenerCount returns the number of subscriptions e holds.
func (e *Entity) StateListenerCount() int {
	return e.listeners.Len()
}

// Delete removes the entity from the world and drops its subscriptions.
// The local player's ped is never deleted; Delete reports false for it.
func (e *Entity) Delete() bool {
	if local := e.natives.LocalPlayerPed(); local != 0 && local == e.handle {
		e.resolver.logger.Debug("refusing to delete local player ped", "handle", e.handle)
		return false
	}
	e.natives.SetEntityAsMissionEntity(e.handle, false, false)
	e.natives.DeleteEntity(e.handle)
	e.listeners.RemoveAll()
	return true
}

// MarkAsNoLongerNeeded hands the entity back to the engine's cleanup.
func (e *Entity) MarkAsNoLongerNeeded() {
	e.natives.SetEntityAsNoLongerNeeded(e.handle)
}

// IsMissionEntity reports whether the script owns the entity.
func (e *Entity) IsMissionEntity() bool {
	return e.natives.IsEntityAMissionEntity(e.handle)
}

// SetMissionEntity claims the entity for the script, or releases it.
func (e *Entity) SetMissionEntity(mission bool) {
	if mission {
		e.natives.SetEntityAsMissionEntity(e.handle, false, false)
	} else {
		e.natives.SetEntityAsNoLongerNeeded(e.handle)
	}
}

// Health returns the raw engine health.
func (e *Entity) Health() int {
	return e.natives.EntityHealth(e.handle)
}

// SetHealth sets the raw engine health.
func (e *Entity) SetHealth(health int) {
	e.natives.SetEntityHealth(e.handle, health)
}

// MaxHealth returns the raw engine maximum health.
func (e *Entity) MaxHealth() int {
	return e.natives.EntityMaxHealth(e.handle)
}

// SetMaxHealth sets the raw engine maximum health.
func (e *Entity) SetMaxHealth(health int) {
	e.natives.SetEntityMaxHealth(e.handle, health)
}

// IsDead reports the engine death flag.
func (e *Entity) IsDead() bool {
	return e.natives.IsEntityDead(e.handle)
}

// IsAlive is !IsDead.
func (e *Entity) IsAlive() bool {
	return !e.IsDead()
}

// SetDead sets health to 0, or back to 200 when dead is false.
func (e *Entity) SetDead(dead bool) {
	if dead {
		e.natives.SetEntityHealth(e.handle, 0)
	} else {
		e.natives.SetEntityHealth(e.handle, 200)
	}
}

// Model returns the model hash.
func (e *Entity) Model() uint32 {
	return e.natives.EntityModel(e.handle)
}

// Position returns world coordinates.
func (e *Entity) Position() core.Vector3 {
	return e.natives.EntityCoords(e.handle)
}

// SetPosition teleports the entity to pos.
func (e *Entity) SetPosition(pos core.Vector3) {
	e.natives.SetEntityCoords(e.handle, pos)
}

// Rotation returns the rotation in degrees.
func (e *Entity) Rotation() core.Vector3 {
	return e.natives.EntityRotation(e.handle)
}

// SetRotation sets the rotation in degrees.
func (e *Entity) SetRotation(rot core.Vector3) {
	e.natives.SetEntityRotation(e.handle, rot)
}

// Quaternion returns the orientation as a quaternion.
func (e *Entity) Quaternion() core.Quaternion {
	return e.natives.EntityQuaternion(e.handle)
}

// SetQuaternion sets the orientation from a quaternion.
func (e *Entity) SetQuaternion(q core.Quaternion) {
	e.natives.SetEntityQuaternion(e.handle, q)
}

// Heading returns the yaw in degrees.
func (e *Entity) Heading() float64 {
	return e.natives.EntityHeading(e.handle)
}

// SetHeading sets the yaw in degrees.
func (e *Entity) SetHeading(heading float64) {
	e.natives.SetEntityHeading(e.handle, heading)
}

// Velocity returns the current velocity.
func (e *Entity) Velocity() core.Vector3 {
	return e.natives.EntityVelocity(e.handle)
}

// SetVelocity sets the current velocity.
func (e *Entity) SetVelocity(v core.Vector3) {
	e.natives.SetEntityVelocity(e.handle, v)
}

// IsPositionFrozen reports whether the entity is pinned in place.
func (e *Entity) IsPositionFrozen() bool {
	return e.natives.IsEntityPositionFrozen(e.handle)
}

// SetPositionFrozen pins or releases the entity.
func (e *Entity) SetPositionFrozen(frozen bool) {
	e.natives.FreezeEntityPosition(e.handle, frozen)
}

// IsVisible reports whether the entity is rendered.
func (e *Entity) IsVisible() bool {
	return e.natives.IsEntityVisible(e.handle)
}

// SetVisible shows or hides the entity.
func (e *Entity) SetVisible(visible bool) {
	e.natives.SetEntityVisible(e.handle, visible)
}

// Opacity returns the alpha value, 0..255.
func (e *Entity) Opacity() int {
	return e.natives.EntityAlpha(e.handle)
}

// SetOpacity sets the alpha value, 0..255.
func (e *Entity) SetOpacity(alpha int) {
	e.natives.SetEntityAlpha(e.handle, alpha)
}

// ResetOpacity restores the default alpha.
func (e *Entity) ResetOpacity() {
	e.natives.ResetEntityAlpha(e.handle)
}

// IsInRangeOf reports whether the entity is strictly closer than r to pos.
func (e *Entity) IsInRangeOf(pos core.Vector3, r float64) bool {
	return e.Position().DistanceSquared(pos) < r*r
}

// Bones returns the entity's bone lookup.
func (e *Entity) Bones() *BoneCollection {
	if e.bones == nil {
		e.bones = &BoneCollection{owner: e}
	}
	return e.bones
}
