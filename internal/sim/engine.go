// Package sim is an in-process engine that answers every native the bridge
// needs. It keeps all world state in maps and advances a game clock one fixed
// step per Step call. It is single-threaded like the real engine loop: callers
// must not use it from more than one logical thread at a time.
package sim

import (
	"time"

	"github.com/handlebridge/bridge/pkg/core"
	"github.com/handlebridge/bridge/pkg/engine"
)

// Compile-time interface check
var _ engine.Natives = (*Engine)(nil)

// DefaultTickDuration is the frame time of a 60 Hz engine loop.
const DefaultTickDuration = 16 * time.Millisecond

// Option configures an Engine.
type Option func(*Engine)

// WithTickDuration sets how far the game clock advances per Step.
func WithTickDuration(d time.Duration) Option {
	return func(e *Engine) {
		e.tickDuration = d
	}
}

// WithLoadDelay sets how many steps a requested resource takes to load.
func WithLoadDelay(steps int) Option {
	return func(e *Engine) {
		e.loadDelay = steps
	}
}

// AsServer makes the engine answer as the server side (no local player).
func AsServer() Option {
	return func(e *Engine) {
		e.server = true
	}
}

type entityState struct {
	typeCode     int
	model        uint32
	networked    bool
	netID        engine.NetworkID
	mission      bool
	health       int
	maxHealth    int
	coords       core.Vector3
	rotation     core.Vector3
	quaternion   core.Quaternion
	heading      float64
	velocity     core.Vector3
	frozen       bool
	visible      bool
	alpha        int
	attachment   *engine.Attachment
	bones        map[string]int
	armour       int
	vehicle      engine.Handle
	lastVehicle  engine.Handle
	seats        map[int]engine.Handle
	engineHealth float64
	plate        string
	onGround     bool
	speech       []string
}

// Engine is the simulated engine.
type Engine struct {
	clock        time.Duration
	tickDuration time.Duration
	loadDelay    int
	server       bool
	tick         engine.TickHandler
	steps        int

	nextHandle engine.Handle
	nextNetID  engine.NetworkID
	entities   map[engine.Handle]*entityState
	netIDs     map[engine.NetworkID]engine.Handle
	deleted    []engine.Handle

	players     map[engine.PlayerHandle]*playerState
	nextPlayer  engine.PlayerHandle
	localPlayer engine.PlayerHandle
	friendly    bool

	bags          map[string]map[string]any
	stateHandlers []*stateHandler
	nextCookie    engine.Cookie
	removedCalls  int

	events map[eventKey][]engine.EventHandler

	animDicts map[string]*resource
	models    map[uint32]*resource
	valid     map[uint32]bool
	blocked   map[string]bool

	nextSound  engine.SoundID
	sounds     map[engine.SoundID]*sound
	audioFlags map[string]bool
	music      map[string]bool
	musicLog   []string

	nextScene engine.SceneID
	scenes    map[engine.SceneID]*Scene

	nextPickup engine.PickupHandle
	pickups    map[engine.PickupHandle]*pickupState
}

// New creates an empty simulated engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		tickDuration: DefaultTickDuration,
		loadDelay:    2,
		nextHandle:   100,
		nextNetID:    1,
		entities:     make(map[engine.Handle]*entityState),
		netIDs:       make(map[engine.NetworkID]engine.Handle),
		players:      make(map[engine.PlayerHandle]*playerState),
		localPlayer:  -1,
		bags:         make(map[string]map[string]any),
		nextCookie:   1,
		events:       make(map[eventKey][]engine.EventHandler),
		animDicts:    make(map[string]*resource),
		models:       make(map[uint32]*resource),
		valid:        make(map[uint32]bool),
		blocked:      make(map[string]bool),
		nextSound:    1,
		sounds:       make(map[engine.SoundID]*sound),
		audioFlags:   make(map[string]bool),
		music:        make(map[string]bool),
		nextScene:    1,
		scenes:       make(map[engine.SceneID]*Scene),
		nextPickup:   1,
		pickups:      make(map[engine.PickupHandle]*pickupState),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// GameTimer returns the simulated time since start.
func (e *Engine) GameTimer() time.Duration {
	return e.clock
}

// TickDuration returns the clock advance per Step.
func (e *Engine) TickDuration() time.Duration {
	return e.tickDuration
}

// SetTickHandler installs the per-frame callback.
func (e *Engine) SetTickHandler(h engine.TickHandler) {
	e.tick = h
}

// Step advances the clock by one frame, progresses pending resource loads and
// runs the tick handler.
func (e *Engine) Step() {
	e.clock += e.tickDuration
	e.steps++
	e.progressLoads()
	if e.tick != nil {
		e.tick()
	}
}

// Run calls Step n times.
func (e *Engine) Run(n int) {
	for i := 0; i < n; i++ {
		e.Step()
	}
}

// Steps returns how many frames have run.
func (e *Engine) Steps() int {
	return e.steps
}
