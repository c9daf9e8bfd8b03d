// Package streaming loads engine resources that arrive asynchronously, such
// as animation dictionaries and models, by polling on the engine tick.
package streaming

import (
	"context"
	"log/slog"
	"time"

	"github.com/handlebridge/bridge/pkg/engine"
	"github.com/handlebridge/bridge/pkg/scheduler"
)

// DefaultTimeout is how long a load waits when no timeout is given.
const DefaultTimeout = time.Second

// Natives is the engine surface the loader needs.
type Natives interface {
	engine.Clock
	engine.StreamingNatives
}

// Loader requests resources and waits for them inside a coroutine.
type Loader struct {
	natives Natives
	yielder scheduler.Yielder
	timeout time.Duration
	logger  *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithTimeout sets the timeout used when a call passes zero.
func WithTimeout(d time.Duration) Option {
	return func(l *Loader) {
		if d > 0 {
			l.timeout = d
		}
	}
}

// WithLogger sets the loader logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// New creates a Loader that yields through y between checks.
func New(natives Natives, y scheduler.Yielder, opts ...Option) *Loader {
	l := &Loader{
		natives: natives,
		yielder: y,
		timeout: DefaultTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Timeout returns the default load timeout.
func (l *Loader) Timeout() time.Duration {
	return l.timeout
}

func (l *Loader) effective(timeout time.Duration) time.Duration {
	if timeout <= 0 {
		return l.timeout
	}
	return timeout
}

// LoadAnimDict requests dict and waits until it is loaded or timeout passes.
// Callers should RemoveAnimDict once they are done with it.
func (l *Loader) LoadAnimDict(ctx context.Context, dict string, timeout time.Duration) bool {
	if !l.natives.HasAnimDictLoaded(dict) {
		l.natives.RequestAnimDict(dict)
	}
	ok := scheduler.Poll(ctx, l.yielder, l.natives, l.effective(timeout), func() bool {
		return l.natives.HasAnimDictLoaded(dict)
	})
	if !ok {
		l.logger.Debug("animation dictionary did not load", "dict", dict)
	}
	return ok
}

// LoadAnimDicts requests every dict and waits for all of them under one
// deadline. On timeout it returns false and the dicts that never loaded.
func (l *Loader) LoadAnimDicts(ctx context.Context, dicts []string, timeout time.Duration) (bool, []string) {
	for _, dict := range dicts {
		if !l.natives.HasAnimDictLoaded(dict) {
			l.natives.RequestAnimDict(dict)
		}
	}
	ok, missing := scheduler.PollAll(ctx, l.yielder, l.natives, l.effective(timeout), dicts, l.natives.HasAnimDictLoaded)
	if !ok {
		l.logger.Debug("animation dictionaries did not load", "missing", missing)
	}
	return ok, missing
}

// RemoveAnimDicts releases every dict.
func (l *Loader) RemoveAnimDicts(dicts []string) {
	for _, dict := range dicts {
		l.natives.RemoveAnimDict(dict)
	}
}

// LoadModel requests the model and waits for it. Models the engine does not
// know fail immediately.
func (l *Loader) LoadModel(ctx context.Context, hash uint32, timeout time.Duration) bool {
	if !l.natives.IsModelValid(hash) {
		return false
	}
	if !l.natives.HasModelLoaded(hash) {
		l.natives.RequestModel(hash)
	}
	return scheduler.Poll(ctx, l.yielder, l.natives, l.effective(timeout), func() bool {
		return l.natives.HasModelLoaded(hash)
	})
}

// ReleaseModel tells the engine the model may be unloaded.
func (l *Loader) ReleaseModel(hash uint32) {
	l.natives.SetModelAsNoLongerNeeded(hash)
}
