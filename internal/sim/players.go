package sim

import (
	"github.com/handlebridge/bridge/pkg/core"
	"github.com/handlebridge/bridge/pkg/engine"
)

type playerState struct {
	serverID      engine.ServerID
	name          string
	ped           engine.Handle
	team          int
	canAttackPeds map[engine.Handle]bool
}

// AddPlayer creates a player with its own ped and returns the player handle.
func (e *Engine) AddPlayer(serverID engine.ServerID, name string) engine.PlayerHandle {
	p := e.nextPlayer
	e.nextPlayer++
	e.players[p] = &playerState{
		serverID:      serverID,
		name:          name,
		ped:           e.SpawnPed(core.Vector3{}),
		canAttackPeds: make(map[engine.Handle]bool),
	}
	return p
}

// SetLocalPlayer makes p the controlling player of this client.
func (e *Engine) SetLocalPlayer(p engine.PlayerHandle) {
	e.localPlayer = p
}

// Respawn gives p a fresh ped, as the engine does after death or a model swap.
func (e *Engine) Respawn(p engine.PlayerHandle) engine.Handle {
	ps, ok := e.players[p]
	if !ok {
		return 0
	}
	ps.ped = e.SpawnPed(e.get(ps.ped).coords)
	return ps.ped
}

// RemovePlayer drops p.
func (e *Engine) RemovePlayer(p engine.PlayerHandle) {
	delete(e.players, p)
}

// FriendlyFire reports the last friendly fire option set.
func (e *Engine) FriendlyFire() bool {
	return e.friendly
}

func (e *Engine) IsServer() bool { return e.server }

func (e *Engine) LocalPlayerPed() engine.Handle {
	if e.server {
		return 0
	}
	if p, ok := e.players[e.localPlayer]; ok {
		return p.ped
	}
	return 0
}

func (e *Engine) PlayerPed(p engine.PlayerHandle) engine.Handle {
	if ps, ok := e.players[p]; ok {
		return ps.ped
	}
	return 0
}

func (e *Engine) DoesPlayerExist(p engine.PlayerHandle) bool {
	_, ok := e.players[p]
	return ok
}

func (e *Engine) PlayerServerID(p engine.PlayerHandle) engine.ServerID {
	if ps, ok := e.players[p]; ok {
		return ps.serverID
	}
	return 0
}

func (e *Engine) PlayerFromServerID(id engine.ServerID) engine.PlayerHandle {
	for h, ps := range e.players {
		if ps.serverID == id {
			return h
		}
	}
	return -1
}

func (e *Engine) PlayerIndexFromPed(h engine.Handle) engine.PlayerHandle {
	for p, ps := range e.players {
		if ps.ped == h {
			return p
		}
	}
	return -1
}

func (e *Engine) PlayerName(p engine.PlayerHandle) string {
	if ps, ok := e.players[p]; ok {
		return ps.name
	}
	return ""
}

func (e *Engine) IsPlayerDead(p engine.PlayerHandle) bool {
	if ps, ok := e.players[p]; ok {
		return e.IsEntityDead(ps.ped)
	}
	return false
}

func (e *Engine) PlayerTeam(p engine.PlayerHandle) int {
	if ps, ok := e.players[p]; ok {
		return ps.team
	}
	return -1
}

func (e *Engine) SetFriendlyFire(enabled bool) { e.friendly = enabled }

func (e *Engine) SetCanAttackFriendly(h engine.Handle, canAttack bool) {
	for _, ps := range e.players {
		if ps.ped == h {
			ps.canAttackPeds[h] = canAttack
		}
	}
}
