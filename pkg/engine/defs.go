// Package engine describes the boundary to the simulation engine: the opaque
// identifiers it hands out and the native calls it answers. Everything behind
// these interfaces is treated as a black box.
package engine

import (
	"time"

	"github.com/handlebridge/bridge/pkg/core"
)

// Handle is an engine-local entity reference. It carries no type information
// and may be reused by the engine once the entity it named is gone.
type Handle int32

// NetworkID identifies a replicated entity consistently across participants.
type NetworkID int32

// ServerID is a player's id as assigned by the server ("source").
type ServerID int32

// PlayerHandle is the engine-local index of a player.
type PlayerHandle int32

// Cookie identifies one registered state bag change handler.
type Cookie int32

// SoundID identifies a sound instance; -1 means "no id".
type SoundID int32

// SceneID identifies a networked synchronised scene.
type SceneID int32

// PickupHandle is an engine-local pickup reference.
type PickupHandle int32

// Entity type codes returned by EntityNatives.EntityType.
const (
	TypeCodeNone    = 0
	TypeCodePed     = 1
	TypeCodeVehicle = 2
	TypeCodeObject  = 3
)

// NoBone is the bone index used to attach to an entity's root.
const NoBone = -1

// StateBagChangeHandler is called by the engine when a key of a state bag changes.
type StateBagChangeHandler func(bagName, key string, value any, replicated bool)

// EventHandler receives the msgpack-encoded argument array of an event.
// source is the sender's server id for network events and 0 for local ones.
type EventHandler func(source ServerID, payload []byte)

// TickHandler is invoked once per engine frame.
type TickHandler func()

// Attachment carries the parameters of an entity-to-entity attachment.
type Attachment struct {
	Entity        Handle
	Target        Handle
	Bone          int
	Offset        core.Vector3
	Rotation      core.Vector3
	FixedRotation bool
	SoftPinning   bool
	Collision     bool
	IsPed         bool
	RotationOrder int
}

// SceneSpec describes a networked synchronised scene.
type SceneSpec struct {
	Position      core.Vector3
	Rotation      core.Vector3
	RotationOrder int
	HoldLastFrame bool
	Looped        bool
	Hash          uint32
	Phase         float64
	Speed         float64
}

// ScenePed describes a ped's part in a synchronised scene.
type ScenePed struct {
	AnimDict     string
	AnimName     string
	BlendIn      float64
	BlendOut     float64
	Duration     int
	Flag         int
	PlaybackRate float64
	IKFlag       float64
}

// SceneEntity describes a non-ped entity's part in a synchronised scene.
type SceneEntity struct {
	AnimDict        string
	AnimName        string
	Speed           float64
	SpeedMultiplier float64
	Flag            int
}

// Clock exposes the engine's game timer.
type Clock interface {
	// GameTimer returns the time elapsed since the engine started.
	GameTimer() time.Duration
}
