package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// ServiceName is the instrumentation scope of records sent to OTel.
const ServiceName = "handle-bridge"

// Swapped by tests that capture console output.
var (
	osStdout io.Writer = os.Stdout
	osPipe             = os.Pipe
)

// SlogManager manages slog-based logging with optional OTel integration.
type SlogManager struct {
	logger      *slog.Logger
	logProvider *sdklog.LoggerProvider
}

// NewSlogManager creates a new slog-based logging manager.
func NewSlogManager() *SlogManager {
	return &SlogManager{}
}

// SetupOption adds sinks or decorations to Setup.
type SetupOption func(*setupConfig)

type setupConfig struct {
	extra   []slog.Handler
	context ContextProvider
}

// WithHandler adds h as another fan-out target, for example a GELF sink.
func WithHandler(h slog.Handler) SetupOption {
	return func(c *setupConfig) {
		c.extra = append(c.extra, h)
	}
}

// WithContext attaches attributes from p to every record. Attributes added
// to a context with ContextWith are attached regardless.
func WithContext(p ContextProvider) SetupOption {
	return func(c *setupConfig) {
		c.context = p
	}
}

var levels = map[string]slog.Level{
	"DEBUG": slog.LevelDebug,
	"INFO":  slog.LevelInfo,
	"WARN":  slog.LevelWarn,
	"ERROR": slog.LevelError,
}

// parseLevel maps a config level name to slog. Unknown names mean info.
func parseLevel(level string) slog.Level {
	if lvl, ok := levels[strings.ToUpper(level)]; ok {
		return lvl
	}
	return slog.LevelInfo
}

// utcTime renders record times as RFC3339 in UTC.
func utcTime(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.TimeKey {
		return a
	}
	if t, ok := a.Value.Any().(time.Time); ok {
		a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
	}
	return a
}

// Setup builds the logger. Text records go to file, or to stdout when file
// is nil. A non-nil provider adds the OTel bridge as a second sink.
func (m *SlogManager) Setup(file io.Writer, level string, provider *sdklog.LoggerProvider, opts ...SetupOption) {
	cfg := &setupConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	m.logProvider = provider

	text := file
	if text == nil {
		text = osStdout
	}
	sinks := []slog.Handler{
		slog.NewTextHandler(text, &slog.HandlerOptions{Level: parseLevel(level), ReplaceAttr: utcTime}),
	}
	if provider != nil {
		sinks = append(sinks, otelslog.NewHandler(ServiceName, otelslog.WithLoggerProvider(provider)))
	}
	sinks = append(sinks, cfg.extra...)

	m.logger = slog.New(NewContextHandler(NewMultiHandler(sinks...), cfg.context))
	m.logger.Info("Logging initialized", "level", level)
}

// Logger returns the configured slog.Logger.
func (m *SlogManager) Logger() *slog.Logger {
	if m.logger != nil {
		return m.logger
	}
	return slog.Default()
}

// Flush exports buffered OTel records. It is a no-op without a provider.
func (m *SlogManager) Flush(ctx context.Context) error {
	if m.logProvider == nil {
		return nil
	}
	return m.logProvider.ForceFlush(ctx)
}
