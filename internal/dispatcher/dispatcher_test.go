package dispatcher

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testLogger implements Logger for testing
type testLogger struct {
	mu       sync.Mutex
	messages []string
}

func (l *testLogger) Debug(msg string, keysAndValues ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, fmt.Sprintf("DEBUG: %s %v", msg, keysAndValues))
}

func (l *testLogger) Info(msg string, keysAndValues ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, fmt.Sprintf("INFO: %s %v", msg, keysAndValues))
}

func (l *testLogger) Error(msg string, keysAndValues ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, fmt.Sprintf("ERROR: %s %v", msg, keysAndValues))
}

func (l *testLogger) hasPrefix(prefix string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, msg := range l.messages {
		if strings.HasPrefix(msg, prefix) {
			return true
		}
	}
	return false
}

func newTestDispatcher(t *testing.T) (*Dispatcher, *testLogger) {
	logger := &testLogger{}

	d, err := New(logger)
	require.NoError(t, err)

	return d, logger
}

func TestDispatcher_Handler(t *testing.T) {
	d, _ := newTestDispatcher(t)

	var got Event
	d.Register("local:test", func(e Event) error {
		got = e
		return nil
	})

	err := d.Dispatch(Event{Name: "local:test", Source: 4, Args: []any{"arg1"}})

	require.NoError(t, err)
	assert.Equal(t, int32(4), got.Source)
	assert.Equal(t, []any{"arg1"}, got.Args)
	assert.False(t, got.Timestamp.IsZero())
}

func TestDispatcher_UnknownEvent(t *testing.T) {
	d, _ := newTestDispatcher(t)

	err := d.Dispatch(Event{Name: "net:unknown"})

	assert.Error(t, err)
}

func TestDispatcher_HandlersRunInOrder(t *testing.T) {
	d, _ := newTestDispatcher(t)
	var order []int

	for i := 0; i < 3; i++ {
		i := i
		d.Register("ordered", func(Event) error {
			order = append(order, i)
			return nil
		})
	}

	require.NoError(t, d.Dispatch(Event{Name: "ordered"}))
	assert.Equal(t, []int{0, 1, 2}, order)
	assert.Equal(t, 3, d.HandlerCount("ordered"))
}

func TestDispatcher_RegisterDuringDispatch(t *testing.T) {
	d, _ := newTestDispatcher(t)
	calls := 0

	d.Register("grow", func(Event) error {
		d.Register("grow", func(Event) error {
			calls++
			return nil
		})
		return nil
	})

	require.NoError(t, d.Dispatch(Event{Name: "grow"}))
	assert.Zero(t, calls, "handler added during dispatch must wait for the next event")

	require.NoError(t, d.Dispatch(Event{Name: "grow"}))
	assert.Equal(t, 1, calls)
}

func TestDispatcher_ErrorsAreJoined(t *testing.T) {
	d, _ := newTestDispatcher(t)
	errA := errors.New("a failed")
	errB := errors.New("b failed")
	ran := false

	d.Register("multi", func(Event) error { return errA })
	d.Register("multi", func(Event) error { ran = true; return nil })
	d.Register("multi", func(Event) error { return errB })

	err := d.Dispatch(Event{Name: "multi"})

	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
	assert.True(t, ran)
}

func TestDispatcher_PanicIsRecovered(t *testing.T) {
	d, logger := newTestDispatcher(t)
	ran := false

	d.Register("boom", func(Event) error { panic("kaboom") })
	d.Register("boom", func(Event) error { ran = true; return nil })

	var err error
	assert.NotPanics(t, func() { err = d.Dispatch(Event{Name: "boom"}) })
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "kaboom")
	assert.True(t, ran)
	assert.True(t, logger.hasPrefix("ERROR: event handler panicked"))
}

func TestDispatcher_LoggedHandler(t *testing.T) {
	d, logger := newTestDispatcher(t)

	d.Register("net:logged", func(e Event) error {
		return nil
	}, Logged())

	require.NoError(t, d.Dispatch(Event{Name: "net:logged", Args: []any{"a", "b"}}))

	logger.mu.Lock()
	defer logger.mu.Unlock()
	assert.GreaterOrEqual(t, len(logger.messages), 2)
}

func TestDispatcher_LoggedHandlerError(t *testing.T) {
	d, logger := newTestDispatcher(t)

	d.Register("net:error", func(e Event) error {
		return fmt.Errorf("test error")
	}, Logged())

	assert.Error(t, d.Dispatch(Event{Name: "net:error"}))
	assert.True(t, logger.hasPrefix("ERROR"))
}

func TestDispatcher_HasHandler(t *testing.T) {
	d, _ := newTestDispatcher(t)

	d.Register("exists", func(e Event) error { return nil })

	assert.True(t, d.HasHandler("exists"))
	assert.False(t, d.HasHandler("not_exists"))
	assert.Zero(t, d.HandlerCount("not_exists"))
}
