package entity

import (
	"github.com/handlebridge/bridge/pkg/core"
	"github.com/handlebridge/bridge/pkg/engine"
	"github.com/handlebridge/bridge/pkg/statebag"
)

// Player is a connected participant. Its server id is fixed at construction;
// its ped is looked up on every access because the engine swaps it on
// respawn or model change.
type Player struct {
	handle   engine.PlayerHandle
	serverID engine.ServerID
	natives  engine.Natives
	resolver *Resolver

	ped       *Ped
	pvp       bool
	listeners *statebag.Listeners
}

func newPlayer(r *Resolver, handle engine.PlayerHandle) *Player {
	p := &Player{
		handle:   handle,
		natives:  r.natives,
		resolver: r,
	}
	p.serverID = r.serverIDOf(handle)
	p.listeners = statebag.NewListeners(r.registry, p.StateBagName)
	return p
}

// Handle returns the engine-local player index.
func (p *Player) Handle() engine.PlayerHandle {
	return p.handle
}

// Kind returns TagPlayer.
func (p *Player) Kind() core.TypeTag {
	return core.TagPlayer
}

// ServerID returns the id captured when p was built.
func (p *Player) ServerID() engine.ServerID {
	return p.serverID
}

// Ped returns the player's current ped. The same *Ped is returned until the
// engine reports a different ped handle.
func (p *Player) Ped() *Ped {
	h := p.natives.PlayerPed(p.handle)
	if p.ped == nil || p.ped.Handle() != h {
		p.ped = p.resolver.NewPed(h)
	}
	return p.ped
}

// Character is Ped.
func (p *Player) Character() *Ped {
	return p.Ped()
}

// Name returns the player name.
func (p *Player) Name() string {
	return p.natives.PlayerName(p.handle)
}

// IsDead reports whether the player is dead.
func (p *Player) IsDead() bool {
	return p.natives.IsPlayerDead(p.handle)
}

// Team returns the player team, -1 when unset.
func (p *Player) Team() int {
	return p.natives.PlayerTeam(p.handle)
}

// PvPEnabled reports the last value set through SetPvPEnabled.
func (p *Player) PvPEnabled() bool {
	return p.pvp
}

// SetPvPEnabled toggles friendly fire and whether the player's ped can attack
// friendly players.
func (p *Player) SetPvPEnabled(enabled bool) {
	p.natives.SetFriendlyFire(enabled)
	p.natives.SetCanAttackFriendly(p.Ped().Handle(), enabled)
	p.pvp = enabled
}

// StateBagName is the player's bag.
func (p *Player) StateBagName() string {
	return statebag.PlayerScope(p.serverID)
}

// State returns the player's state bag.
func (p *Player) State() *statebag.State {
	return statebag.NewState(p.natives, p.StateBagName())
}

// AddStateBagChangeHandler subscribes h to the player's bag. A nil filter
// matches every key.
func (p *Player) AddStateBagChangeHandler(filter *string, h statebag.Handler) engine.Cookie {
	return p.listeners.Add(filter, h)
}

// ListenForStateChange is AddStateBagChangeHandler with a plain key; an
// empty key matches every key.
func (p *Player) ListenForStateChange(key string, h statebag.Handler) engine.Cookie {
	return p.listeners.Listen(key, h)
}

// RemoveStateListener drops one subscription created through p.
func (p *Player) RemoveStateListener(c engine.Cookie) bool {
	return p.listeners.Remove(c)
}

// RemoveAllStateListeners drops every subscription created through p.
func (p *Player) RemoveAllStateListeners() int {
	return p.listeners.RemoveAll()
}

// StateListenerCount returns the number of subscriptions p holds.
func (p *Player) StateListenerCount() int {
	return p.listeners.Len()
}
