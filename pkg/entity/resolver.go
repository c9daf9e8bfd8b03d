// Package entity turns engine handles into typed, script-facing objects.
//
// The engine hands out bare integer handles that carry no type information.
// The Resolver asks the engine for a handle's type code and wraps it in the
// matching variant. Wrapping is cheap and not unique: two variants built for
// the same handle are distinct values that share engine-held state.
package entity

import (
	"log/slog"

	"github.com/handlebridge/bridge/internal/cache"
	"github.com/handlebridge/bridge/pkg/engine"
	"github.com/handlebridge/bridge/pkg/statebag"
)

// Resolver builds entity variants and players on top of the engine natives.
type Resolver struct {
	natives  engine.Natives
	registry *statebag.Registry
	logger   *slog.Logger
	players  *cache.PlayerCache[*Player]
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the resolver logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = l
	}
}

// NewResolver creates a Resolver. Entities it builds subscribe to state bag
// changes through registry.
func NewResolver(natives engine.Natives, registry *statebag.Registry, opts ...Option) *Resolver {
	r := &Resolver{
		natives:  natives,
		registry: registry,
		logger:   slog.Default(),
		players:  cache.NewPlayerCache[*Player](),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// FromHandle wraps h in the variant matching its engine type code.
// Codes other than ped, vehicle and object yield nil.
func (r *Resolver) FromHandle(h engine.Handle) Variant {
	switch r.natives.EntityType(h) {
	case engine.TypeCodePed:
		return r.NewPed(h)
	case engine.TypeCodeVehicle:
		return r.NewVehicle(h)
	case engine.TypeCodeObject:
		return r.NewProp(h)
	default:
		return nil
	}
}

// FromNetworkID resolves id to a local handle and then to a variant.
func (r *Resolver) FromNetworkID(id engine.NetworkID) Variant {
	return r.FromHandle(r.natives.EntityFromNetworkID(id))
}

// EntityFromNetworkID is FromNetworkID under the name used by event decoding.
func (r *Resolver) EntityFromNetworkID(id engine.NetworkID) Variant {
	return r.FromNetworkID(id)
}

// PedFromNetworkID wraps the handle behind id as a Ped without checking its
// type. Use Exists to validate. Unregistered ids yield nil.
func (r *Resolver) PedFromNetworkID(id engine.NetworkID) *Ped {
	h, ok := r.handleOf(id)
	if !ok {
		return nil
	}
	return r.NewPed(h)
}

// VehicleFromNetworkID wraps the handle behind id as a Vehicle without
// checking its type. Unregistered ids yield nil.
func (r *Resolver) VehicleFromNetworkID(id engine.NetworkID) *Vehicle {
	h, ok := r.handleOf(id)
	if !ok {
		return nil
	}
	return r.NewVehicle(h)
}

// PropFromNetworkID wraps the handle behind id as a Prop without checking its
// type. Unregistered ids yield nil.
func (r *Resolver) PropFromNetworkID(id engine.NetworkID) *Prop {
	h, ok := r.handleOf(id)
	if !ok {
		return nil
	}
	return r.NewProp(h)
}

func (r *Resolver) handleOf(id engine.NetworkID) (engine.Handle, bool) {
	if !r.natives.DoesEntityExistWithNetworkID(id) {
		return 0, false
	}
	return r.natives.EntityFromNetworkID(id), true
}

// NewEntity wraps h without any variant behaviour.
func (r *Resolver) NewEntity(h engine.Handle) *Entity {
	return newEntity(r, h)
}

// NewPed wraps h as a Ped.
func (r *Resolver) NewPed(h engine.Handle) *Ped {
	return &Ped{Entity: newEntity(r, h)}
}

// NewVehicle wraps h as a Vehicle.
func (r *Resolver) NewVehicle(h engine.Handle) *Vehicle {
	return &Vehicle{Entity: newEntity(r, h)}
}

// NewProp wraps h as a Prop.
func (r *Resolver) NewProp(h engine.Handle) *Prop {
	return &Prop{Entity: newEntity(r, h)}
}

// PlayerFromServerID returns the player with the given server id, or nil if
// the engine knows no such player. On the server the server id is the player
// handle.
func (r *Resolver) PlayerFromServerID(id engine.ServerID) *Player {
	handle := engine.PlayerHandle(id)
	if !r.natives.IsServer() {
		handle = r.natives.PlayerFromServerID(id)
	}
	if handle < 0 || !r.natives.DoesPlayerExist(handle) {
		return nil
	}
	return r.player(id, handle)
}

// PlayerFromPedHandle returns the player controlling ped h, or nil.
func (r *Resolver) PlayerFromPedHandle(h engine.Handle) *Player {
	handle := r.natives.PlayerIndexFromPed(h)
	if handle < 0 {
		return nil
	}
	return r.player(r.serverIDOf(handle), handle)
}

// LocalPlayer returns the controlling player of this client. It is nil on
// the server.
func (r *Resolver) LocalPlayer() *Player {
	if r.natives.IsServer() {
		return nil
	}
	ped := r.natives.LocalPlayerPed()
	if ped == 0 {
		return nil
	}
	return r.PlayerFromPedHandle(ped)
}

// ForgetPlayer drops the cached projection for id, for example when the
// player disconnects.
func (r *Resolver) ForgetPlayer(id engine.ServerID) {
	r.players.Remove(id)
}

// CachedPlayers returns the number of cached player projections.
func (r *Resolver) CachedPlayers() int {
	return r.players.Len()
}

func (r *Resolver) player(id engine.ServerID, handle engine.PlayerHandle) *Player {
	if p, ok := r.players.Get(id, handle); ok {
		return p
	}
	p := newPlayer(r, handle)
	r.players.Put(id, handle, p)
	return p
}

func (r *Resolver) serverIDOf(handle engine.PlayerHandle) engine.ServerID {
	if r.natives.IsServer() {
		return engine.ServerID(handle)
	}
	return r.natives.PlayerServerID(handle)
}
