package otel

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handlebridge/bridge/internal/config"
)

func TestNew_Disabled(t *testing.T) {
	p, err := New(Config{})
	require.NoError(t, err)

	assert.False(t, p.Enabled())
	assert.Nil(t, p.LoggerProvider())
	assert.NoError(t, p.Flush(context.Background()))
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestNew_EnabledWithoutSink(t *testing.T) {
	_, err := New(Config{Enabled: true, ServiceName: "test"})
	assert.ErrorIs(t, err, ErrNoSink)
}

func TestNew_FileExporter(t *testing.T) {
	var buf bytes.Buffer
	p, err := New(Config{
		Enabled:      true,
		ServiceName:  "test",
		BatchTimeout: time.Second,
		LogWriter:    &buf,
	})
	require.NoError(t, err)
	require.NotNil(t, p.LoggerProvider())
	assert.True(t, p.Enabled())

	assert.NoError(t, p.Flush(context.Background()))
	assert.NoError(t, p.Shutdown(context.Background()))

	assert.False(t, p.Enabled())
	assert.NoError(t, p.Shutdown(context.Background()), "second shutdown is a no-op")
}

func TestMeter(t *testing.T) {
	p, err := New(Config{})
	require.NoError(t, err)

	counter, err := p.Meter("test").Int64Counter("test.count")
	require.NoError(t, err)
	counter.Add(context.Background(), 1)
}

func TestFromSettings(t *testing.T) {
	var buf bytes.Buffer
	cfg := FromSettings(config.OTelConfig{
		Enabled:      true,
		ServiceName:  "svc",
		BatchTimeout: 2 * time.Second,
		Endpoint:     "collector:4318",
		Insecure:     true,
	}, &buf)

	assert.True(t, cfg.Enabled)
	assert.Equal(t, "svc", cfg.ServiceName)
	assert.Equal(t, 2*time.Second, cfg.BatchTimeout)
	assert.Equal(t, "collector:4318", cfg.Endpoint)
	assert.True(t, cfg.Insecure)
	assert.Same(t, &buf, cfg.LogWriter)
}
