// Package scheduler runs script coroutines on the engine's tick. Only one
// coroutine executes at a time: Tick hands control to each parked coroutine in
// turn and waits for it to park again or return before moving on.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"
	"sync"
)

// ErrNotCoroutine is returned by Yield when ctx was not produced by Go.
var ErrNotCoroutine = errors.New("yield called outside a coroutine")

// Callback is a function posted to run on the next tick.
type Callback func()

// Yielder suspends the calling coroutine until the next tick.
type Yielder interface {
	Yield(ctx context.Context) error
}

type coroutineKey struct{}

type coroutine struct {
	resume chan struct{}
	parked chan struct{}
}

// Scheduler owns the posted callbacks and parked coroutines.
type Scheduler struct {
	logger *slog.Logger

	mu     sync.Mutex
	posted []Callback

	waiting []*coroutine
	ticks   uint64
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the logger used for recovered panics.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = l
	}
}

// New creates a Scheduler.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Go starts fn as a coroutine and runs it until it first yields or returns.
func (s *Scheduler) Go(ctx context.Context, fn func(ctx context.Context)) {
	co := &coroutine{
		resume: make(chan struct{}),
		parked: make(chan struct{}),
	}
	cctx := context.WithValue(ctx, coroutineKey{}, co)

	go func() {
		<-co.resume
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("coroutine panicked", "panic", r, "stack", string(debug.Stack()))
			}
			co.parked <- struct{}{}
		}()
		fn(cctx)
	}()

	s.run(co)
}

// Yield parks the calling coroutine until the next Tick. Cancellation is only
// observed when the coroutine resumes.
func (s *Scheduler) Yield(ctx context.Context) error {
	co, ok := ctx.Value(coroutineKey{}).(*coroutine)
	if !ok {
		return ErrNotCoroutine
	}
	s.waiting = append(s.waiting, co)
	co.parked <- struct{}{}
	<-co.resume
	return ctx.Err()
}

// Post queues f to run at the start of the next Tick. Callbacks posted while
// a Tick runs its queue wait for the following Tick. Safe to call from any
// goroutine.
func (s *Scheduler) Post(f Callback) {
	s.mu.Lock()
	s.posted = append(s.posted, f)
	s.mu.Unlock()
}

// Tick runs the callbacks posted before it started, then resumes every
// coroutine that was parked before it started. Work queued during the Tick
// waits for the next one.
func (s *Scheduler) Tick() {
	s.ticks++

	s.mu.Lock()
	callbacks := s.posted
	s.posted = nil
	s.mu.Unlock()
	for _, f := range callbacks {
		s.runPanicless(f)
	}

	waiting := s.waiting
	s.waiting = nil
	for _, co := range waiting {
		s.run(co)
	}
}

// Pending returns the number of coroutines parked for the next tick.
func (s *Scheduler) Pending() int {
	return len(s.waiting)
}

// Ticks returns how many times Tick has run.
func (s *Scheduler) Ticks() uint64 {
	return s.ticks
}

func (s *Scheduler) run(co *coroutine) {
	co.resume <- struct{}{}
	<-co.parked
}

func (s *Scheduler) runPanicless(f Callback) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("posted callback panicked", "panic", r)
		}
	}()
	f()
}
