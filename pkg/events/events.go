package events

import (
	"log/slog"
	"time"

	"github.com/handlebridge/bridge/internal/dispatcher"
	"github.com/handlebridge/bridge/pkg/engine"
)

// Handler receives the rebuilt arguments of an event. source is the sender's
// server id for network events and 0 for local ones.
type Handler func(source engine.ServerID, args ...any)

// Journal receives every decoded event before handlers run.
type Journal interface {
	EventReceived(name string, networked bool, source engine.ServerID, args []any)
}

// Events binds script handlers to engine events. Each (name, networked) pair
// is bound to the engine once; later registrations only add handlers.
type Events struct {
	natives    engine.EventNatives
	marshaller *Marshaller
	dispatcher *dispatcher.Dispatcher
	logger     *slog.Logger
	journal    Journal

	bound map[string]bool
}

// Option configures Events.
type Option func(*Events)

// WithLogger sets the logger for payload decode failures.
func WithLogger(l *slog.Logger) Option {
	return func(e *Events) {
		e.logger = l
	}
}

// WithJournal records every decoded event to j.
func WithJournal(j Journal) Option {
	return func(e *Events) {
		e.journal = j
	}
}

// New creates Events on top of the engine's event natives.
func New(natives engine.EventNatives, m *Marshaller, d *dispatcher.Dispatcher, opts ...Option) *Events {
	e := &Events{
		natives:    natives,
		marshaller: m,
		dispatcher: d,
		logger:     slog.Default(),
		bound:      make(map[string]bool),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// On registers h for the local event name.
func (e *Events) On(name string, h Handler) {
	e.register(name, false, h)
}

// OnNet registers h for the network event name.
func (e *Events) OnNet(name string, h Handler) {
	e.register(name, true, h)
}

// Emit triggers a local event, tagging rich arguments for the wire.
func (e *Events) Emit(name string, args ...any) error {
	wire := make([]any, len(args))
	for i, a := range args {
		wire[i] = ToWire(a)
	}
	return e.natives.TriggerEvent(name, wire...)
}

func (e *Events) register(name string, networked bool, h Handler) {
	key := dispatchKey(name, networked)
	e.dispatcher.Register(key, func(ev dispatcher.Event) error {
		h(engine.ServerID(ev.Source), ev.Args...)
		return nil
	}, dispatcher.Logged())

	if e.bound[key] {
		return
	}
	e.bound[key] = true
	e.natives.AddEventHandler(name, networked, func(source engine.ServerID, payload []byte) {
		e.deliver(name, key, networked, source, payload)
	})
}

func (e *Events) deliver(name, key string, networked bool, source engine.ServerID, payload []byte) {
	raw, err := DecodeEnvelope(payload)
	if err != nil {
		e.logger.Error("dropping undecodable event", "event", name, "networked", networked, "error", err)
		return
	}
	if e.journal != nil {
		e.journal.EventReceived(name, networked, source, raw)
	}

	err = e.dispatcher.Dispatch(dispatcher.Event{
		Name:      key,
		Source:    int32(source),
		Args:      e.marshaller.Marshal(raw),
		Timestamp: time.Now(),
	})
	if err != nil {
		e.logger.Warn("event handlers failed", "event", name, "error", err)
	}
}

func dispatchKey(name string, networked bool) string {
	if networked {
		return "net:" + name
	}
	return "local:" + name
}
