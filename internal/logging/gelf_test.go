package logging

import (
	"log/slog"
	"testing"

	"github.com/Graylog2/go-gelf/gelf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureGELF struct {
	messages []*gelf.Message
}

func (c *captureGELF) WriteMessage(m *gelf.Message) error {
	c.messages = append(c.messages, m)
	return nil
}

func TestGELFHandler_WritesMessage(t *testing.T) {
	w := &captureGELF{}
	logger := slog.New(NewGELFHandler(w, slog.LevelInfo))

	logger.Warn("tick overrun", "tick", 42)

	require.Len(t, w.messages, 1)
	m := w.messages[0]
	assert.Equal(t, "tick overrun", m.Short)
	assert.Equal(t, gelfWarning, m.Level)
	assert.Equal(t, ServiceName, m.Facility)
	assert.EqualValues(t, 42, m.Extra["_tick"])
	assert.NotZero(t, m.TimeUnix)
}

func TestGELFHandler_FiltersLevel(t *testing.T) {
	w := &captureGELF{}
	logger := slog.New(NewGELFHandler(w, slog.LevelInfo))

	logger.Debug("hidden")

	assert.Empty(t, w.messages)
}

func TestGELFHandler_AttrsAndGroups(t *testing.T) {
	w := &captureGELF{}
	logger := slog.New(NewGELFHandler(w, slog.LevelDebug)).
		With("component", "events").
		WithGroup("event")

	logger.Debug("dispatched", "name", "spawn")

	require.Len(t, w.messages, 1)
	assert.Equal(t, "events", w.messages[0].Extra["_component"])
	assert.Equal(t, "spawn", w.messages[0].Extra["_event.name"])
	assert.Equal(t, gelfDebug, w.messages[0].Level)
}

func TestGELFLevel(t *testing.T) {
	assert.Equal(t, gelfError, gelfLevel(slog.LevelError))
	assert.Equal(t, gelfWarning, gelfLevel(slog.LevelWarn))
	assert.Equal(t, gelfInfo, gelfLevel(slog.LevelInfo))
	assert.Equal(t, gelfDebug, gelfLevel(slog.LevelDebug))
}

func TestSetup_WithGELFHandler(t *testing.T) {
	w := &captureGELF{}
	m := NewSlogManager()
	m.Setup(&discard{}, "info", nil, WithHandler(NewGELFHandler(w, slog.LevelInfo)))

	m.Logger().Info("to graylog")

	// Setup logs its own "Logging initialized" line first.
	require.Len(t, w.messages, 2)
	assert.Equal(t, "to graylog", w.messages[1].Short)
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
