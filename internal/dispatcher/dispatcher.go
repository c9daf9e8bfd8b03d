package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Event is one script event after its arguments were decoded.
type Event struct {
	Name      string
	Source    int32
	Args      []any
	Timestamp time.Time
}

// HandlerFunc processes an event.
type HandlerFunc func(Event) error

// Logger interface for pluggable logging.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Option configures handler registration.
type Option func(*config)

type config struct {
	logged bool
}

// Logged adds debug logging to the handler.
func Logged() Option {
	return func(c *config) {
		c.logged = true
	}
}

// Dispatcher routes events to every handler registered for their name, in
// registration order.
type Dispatcher struct {
	logger Logger

	// guards handlers against the metrics callback goroutine
	mu       sync.RWMutex
	handlers map[string][]HandlerFunc

	metrics *metrics
}

// New creates a new Dispatcher with the given logger.
func New(logger Logger) (*Dispatcher, error) {
	d := &Dispatcher{
		handlers: make(map[string][]HandlerFunc),
		logger:   logger,
	}
	m, err := newMetrics(d)
	if err != nil {
		return nil, err
	}
	d.metrics = m
	return d, nil
}

// Register appends a handler for name with optional configuration.
func (d *Dispatcher) Register(name string, h HandlerFunc, opts ...Option) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	handler := d.withRecover(name, h)

	if cfg.logged {
		handler = d.withLogging(name, handler)
	}

	d.mu.Lock()
	d.handlers[name] = append(d.handlers[name], handler)
	d.mu.Unlock()
}

// Dispatch runs every handler registered for e.Name. Handlers registered
// while dispatching only see later events. A failing handler does not stop
// the others; their errors are joined.
func (d *Dispatcher) Dispatch(e Event) error {
	d.mu.RLock()
	hs, ok := d.handlers[e.Name]
	snapshot := append([]HandlerFunc(nil), hs...)
	d.mu.RUnlock()

	if !ok {
		return fmt.Errorf("unknown event: %s", e.Name)
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	ctx := context.Background()
	attrs := eventAttr(e.Name)
	var errs []error
	for _, h := range snapshot {
		if err := h(e); err != nil {
			d.metrics.failed.Add(ctx, 1, attrs)
			errs = append(errs, err)
		}
	}
	d.metrics.processed.Add(ctx, 1, attrs)

	return errors.Join(errs...)
}

// HasHandler returns true if a handler is registered for the event.
func (d *Dispatcher) HasHandler(name string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.handlers[name]
	return ok
}

// HandlerCount returns the number of handlers registered for name.
func (d *Dispatcher) HandlerCount(name string) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.handlers[name])
}

func (d *Dispatcher) withRecover(name string, h HandlerFunc) HandlerFunc {
	return func(e Event) (err error) {
		defer func() {
			if r := recover(); r != nil {
				d.logger.Error("event handler panicked", "event", name, "panic", r)
				err = fmt.Errorf("handler for %s panicked: %v", name, r)
			}
		}()
		return h(e)
	}
}

func (d *Dispatcher) withLogging(name string, h HandlerFunc) HandlerFunc {
	return func(e Event) error {
		start := time.Now()
		d.logger.Debug("handling event", "event", name, "source", e.Source, "args", len(e.Args))

		err := h(e)

		if err != nil {
			d.logger.Error("event failed", "event", name, "duration", time.Since(start), "error", err)
		} else {
			d.logger.Debug("event complete", "event", name, "duration", time.Since(start))
		}

		return err
	}
}
