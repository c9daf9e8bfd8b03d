package streaming

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handlebridge/bridge/internal/sim"
	"github.com/handlebridge/bridge/pkg/scheduler"
)

const tick = 10 * time.Millisecond

func newTestLoader(t *testing.T, opts ...Option) (*Loader, *sim.Engine, *scheduler.Scheduler) {
	t.Helper()
	eng := sim.New(sim.WithTickDuration(tick))
	s := scheduler.New()
	eng.SetTickHandler(s.Tick)
	return New(eng, s, opts...), eng, s
}

// runUntil starts fn as a coroutine and steps the engine until it returns.
func runUntil(t *testing.T, eng *sim.Engine, s *scheduler.Scheduler, fn func(ctx context.Context)) {
	t.Helper()
	done := false
	s.Go(context.Background(), func(ctx context.Context) {
		fn(ctx)
		done = true
	})
	for i := 0; i < 1000 && !done; i++ {
		eng.Step()
	}
	require.True(t, done, "coroutine never finished")
}

func TestLoadAnimDict(t *testing.T) {
	l, eng, s := newTestLoader(t)

	var ok bool
	runUntil(t, eng, s, func(ctx context.Context) {
		ok = l.LoadAnimDict(ctx, "move_m@generic", 0)
	})

	assert.True(t, ok)
	assert.True(t, eng.HasAnimDictLoaded("move_m@generic"))
	assert.Equal(t, 1, eng.AnimDictRequests("move_m@generic"))
}

func TestLoadAnimDict_AlreadyLoadedIsNotRequested(t *testing.T) {
	l, eng, s := newTestLoader(t)
	eng.RequestAnimDict("idle")
	eng.Run(5)

	var ok bool
	runUntil(t, eng, s, func(ctx context.Context) {
		ok = l.LoadAnimDict(ctx, "idle", 0)
	})

	assert.True(t, ok)
	assert.Equal(t, 1, eng.AnimDictRequests("idle"))
}

func TestLoadAnimDict_Timeout(t *testing.T) {
	l, eng, s := newTestLoader(t)
	eng.BlockResource("missing")

	start := eng.GameTimer()
	var ok bool
	runUntil(t, eng, s, func(ctx context.Context) {
		ok = l.LoadAnimDict(ctx, "missing", 50*time.Millisecond)
	})

	assert.False(t, ok)
	elapsed := eng.GameTimer() - start
	assert.GreaterOrEqual(t, elapsed, 50*time.Millisecond)
	assert.LessOrEqual(t, elapsed, 50*time.Millisecond+tick)
}

func TestLoadAnimDict_DefaultTimeout(t *testing.T) {
	l, eng, s := newTestLoader(t, WithTimeout(30*time.Millisecond))
	eng.BlockResource("missing")
	assert.Equal(t, 30*time.Millisecond, l.Timeout())

	start := eng.GameTimer()
	runUntil(t, eng, s, func(ctx context.Context) {
		l.LoadAnimDict(ctx, "missing", 0)
	})

	assert.GreaterOrEqual(t, eng.GameTimer()-start, 30*time.Millisecond)
	assert.LessOrEqual(t, eng.GameTimer()-start, 40*time.Millisecond)
}

func TestLoadAnimDicts(t *testing.T) {
	l, eng, s := newTestLoader(t)

	var ok bool
	var missing []string
	runUntil(t, eng, s, func(ctx context.Context) {
		ok, missing = l.LoadAnimDicts(ctx, []string{"a", "b", "c"}, 0)
	})

	assert.True(t, ok)
	assert.Empty(t, missing)
}

func TestLoadAnimDicts_ReportsMissing(t *testing.T) {
	l, eng, s := newTestLoader(t)
	eng.BlockResource("b")
	eng.BlockResource("d")

	var ok bool
	var missing []string
	runUntil(t, eng, s, func(ctx context.Context) {
		ok, missing = l.LoadAnimDicts(ctx, []string{"a", "b", "c", "d"}, 100*time.Millisecond)
	})

	assert.False(t, ok)
	assert.Equal(t, []string{"b", "d"}, missing)
	assert.True(t, eng.HasAnimDictLoaded("a"))
}

func TestRemoveAnimDicts(t *testing.T) {
	l, eng, s := newTestLoader(t)
	runUntil(t, eng, s, func(ctx context.Context) {
		l.LoadAnimDicts(ctx, []string{"a", "b"}, 0)
	})

	l.RemoveAnimDicts([]string{"a", "b"})

	assert.False(t, eng.HasAnimDictLoaded("a"))
	assert.False(t, eng.HasAnimDictLoaded("b"))
}

func TestLoadModel(t *testing.T) {
	l, eng, s := newTestLoader(t)
	eng.MarkModelValid(0x1234)

	var ok bool
	runUntil(t, eng, s, func(ctx context.Context) {
		ok = l.LoadModel(ctx, 0x1234, 0)
	})

	assert.True(t, ok)
	assert.True(t, eng.HasModelLoaded(0x1234))

	l.ReleaseModel(0x1234)
	assert.False(t, eng.HasModelLoaded(0x1234))
}

func TestLoadModel_InvalidFailsImmediately(t *testing.T) {
	l, eng, s := newTestLoader(t)

	ok := true
	done := false
	s.Go(context.Background(), func(ctx context.Context) {
		ok = l.LoadModel(ctx, 0xdead, 0)
		done = true
	})

	assert.True(t, done)
	assert.False(t, ok)
	assert.Zero(t, eng.Steps())
}

func TestLoadAnimDict_Cancelled(t *testing.T) {
	l, eng, s := newTestLoader(t)
	eng.BlockResource("missing")
	ctx, cancel := context.WithCancel(context.Background())

	ok := true
	done := false
	s.Go(ctx, func(ctx context.Context) {
		ok = l.LoadAnimDict(ctx, "missing", time.Hour)
		done = true
	})
	cancel()
	eng.Step()

	assert.True(t, done)
	assert.False(t, ok)
}
