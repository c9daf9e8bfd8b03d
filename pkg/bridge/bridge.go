// Package bridge wires the resolver, event bus, state bag registry,
// scheduler, audio and streaming helpers on top of one engine.
package bridge

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rs/zerolog"

	"github.com/handlebridge/bridge/internal/dispatcher"
	"github.com/handlebridge/bridge/internal/logging"
	"github.com/handlebridge/bridge/pkg/audio"
	"github.com/handlebridge/bridge/pkg/engine"
	"github.com/handlebridge/bridge/pkg/entity"
	"github.com/handlebridge/bridge/pkg/events"
	"github.com/handlebridge/bridge/pkg/scheduler"
	"github.com/handlebridge/bridge/pkg/statebag"
	"github.com/handlebridge/bridge/pkg/streaming"
	"github.com/handlebridge/bridge/pkg/world"
)

// Journal receives every decoded event and every delivered state change.
type Journal interface {
	statebag.Journal
	events.Journal
}

// Runtime is the entry point scripts use.
type Runtime struct {
	natives   engine.Natives
	logger    *slog.Logger
	resolver  *entity.Resolver
	registry  *statebag.Registry
	events    *events.Events
	scheduler *scheduler.Scheduler
	audio     *audio.Audio
	streaming *streaming.Loader
}

type options struct {
	logger           *slog.Logger
	dispatchLogger   zerolog.Logger
	journal          Journal
	streamingTimeout time.Duration
}

// Option configures a Runtime.
type Option func(*options)

// WithLogger sets the logger shared by every component.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithDispatchLogger sets the logger for event handler tracing.
func WithDispatchLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.dispatchLogger = l
	}
}

// WithJournal records events and state changes to j.
func WithJournal(j Journal) Option {
	return func(o *options) {
		o.journal = j
	}
}

// WithStreamingTimeout sets the default wait for streamed resources.
func WithStreamingTimeout(d time.Duration) Option {
	return func(o *options) {
		o.streamingTimeout = d
	}
}

// New builds a Runtime on natives and installs its tick handler.
func New(natives engine.Natives, opts ...Option) (*Runtime, error) {
	o := options{
		logger:         slog.Default(),
		dispatchLogger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	regOpts := []statebag.Option{statebag.WithLogger(o.logger)}
	evOpts := []events.Option{events.WithLogger(o.logger)}
	if o.journal != nil {
		regOpts = append(regOpts, statebag.WithJournal(o.journal))
		evOpts = append(evOpts, events.WithJournal(o.journal))
	}

	registry, err := statebag.NewRegistry(natives, regOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create state bag registry: %w", err)
	}
	d, err := dispatcher.New(logging.NewDispatcherLogger(o.dispatchLogger))
	if err != nil {
		return nil, fmt.Errorf("failed to create dispatcher: %w", err)
	}

	resolver := entity.NewResolver(natives, registry, entity.WithLogger(o.logger))
	sched := scheduler.New(scheduler.WithLogger(o.logger))

	r := &Runtime{
		natives:   natives,
		logger:    o.logger,
		resolver:  resolver,
		registry:  registry,
		events:    events.New(natives, events.NewMarshaller(resolver), d, evOpts...),
		scheduler: sched,
		audio:     audio.New(natives, audio.WithLogger(o.logger)),
		streaming: streaming.New(natives, sched,
			streaming.WithTimeout(o.streamingTimeout),
			streaming.WithLogger(o.logger),
		),
	}
	natives.SetTickHandler(r.Tick)
	return r, nil
}

// Resolver returns the identity resolver.
func (r *Runtime) Resolver() *entity.Resolver { return r.resolver }

// Events returns the event bus.
func (r *Runtime) Events() *events.Events { return r.events }

// StateBags returns the subscription registry.
func (r *Runtime) StateBags() *statebag.Registry { return r.registry }

func (r *Runtime) Scheduler() *scheduler.Scheduler { return r.scheduler }
func (r *Runtime) Audio() *audio.Audio { return r.audio }
func (r *Runtime) Streaming() *streaming.Loader { return r.streaming }
func (r *Runtime) Natives() engine.Natives { return r.natives }
func (r *Runtime) Logger() *slog.Logger { return r.logger }

// Pickup wraps an engine pickup handle.
func (r *Runtime) Pickup(h engine.PickupHandle) *world.Pickup {
	return world.NewPickup(r.natives, h)
}

// NewNetworkedScene creates a synchronised scene described by spec.
func (r *Runtime) NewNetworkedScene(spec engine.SceneSpec) *world.NetworkedScene {
	return world.NewNetworkedScene(r.natives, spec)
}

// Tick runs one frame of the scheduler. The engine calls it through the
// installed tick handler.
func (r *Runtime) Tick() {
	r.scheduler.Tick()
}

// Go starts fn as a coroutine resumed on each tick.
func (r *Runtime) Go(ctx context.Context, fn func(ctx context.Context)) {
	r.scheduler.Go(ctx, fn)
}

// WaitFor polls ready once per tick until it returns true or timeout
// elapses on the game timer. It must be called from a coroutine.
func (r *Runtime) WaitFor(ctx context.Context, timeout time.Duration, ready func() bool) bool {
	return scheduler.Poll(ctx, r.scheduler, r.natives, timeout, ready)
}
