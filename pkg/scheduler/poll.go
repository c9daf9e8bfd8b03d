package scheduler

import (
	"context"
	"time"

	"github.com/handlebridge/bridge/pkg/engine"
)

// Poll waits until ready reports true or timeout of game time has passed,
// yielding one tick between checks. It returns false on timeout or when ctx
// is cancelled. A timeout is reported no earlier than timeout and no later
// than one tick after it.
func Poll(ctx context.Context, y Yielder, clock engine.Clock, timeout time.Duration, ready func() bool) bool {
	start := clock.GameTimer()
	for !ready() {
		if clock.GameTimer()-start >= timeout {
			return false
		}
		if err := y.Yield(ctx); err != nil {
			return false
		}
	}
	return true
}

// PollAll polls every key with ready under one shared deadline. On failure it
// returns the keys that were still not ready, in input order.
func PollAll(ctx context.Context, y Yielder, clock engine.Clock, timeout time.Duration, keys []string, ready func(key string) bool) (bool, []string) {
	pending := append([]string(nil), keys...)
	check := func() bool {
		remaining := pending[:0]
		for _, k := range pending {
			if !ready(k) {
				remaining = append(remaining, k)
			}
		}
		pending = remaining
		return len(pending) == 0
	}

	if Poll(ctx, y, clock, timeout, check) {
		return true, nil
	}
	return false, pending
}
