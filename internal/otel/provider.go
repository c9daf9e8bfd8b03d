// Package otel owns the OpenTelemetry log pipeline of the bridge process.
package otel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutlog"
	"go.opentelemetry.io/otel/metric"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/handlebridge/bridge/internal/config"
)

// ErrNoSink is returned when the pipeline is enabled without any destination.
var ErrNoSink = errors.New("otel enabled without log writer or endpoint")

// Config describes the log pipeline. LogWriter and Endpoint are independent
// sinks; at least one must be set when Enabled.
type Config struct {
	Enabled      bool
	ServiceName  string
	BatchTimeout time.Duration
	LogWriter    io.Writer
	Endpoint     string
	Insecure     bool
}

// FromSettings builds a Config from the loaded settings. w receives the
// file-exported log records.
func FromSettings(s config.OTelConfig, w io.Writer) Config {
	return Config{
		Enabled:      s.Enabled,
		ServiceName:  s.ServiceName,
		BatchTimeout: s.BatchTimeout,
		LogWriter:    w,
		Endpoint:     s.Endpoint,
		Insecure:     s.Insecure,
	}
}

// Provider wraps the SDK logger provider. A disabled Provider is valid and
// every method on it is a no-op.
type Provider struct {
	logs *sdklog.LoggerProvider
}

// New builds the pipeline described by cfg.
func New(cfg Config) (*Provider, error) {
	if !cfg.Enabled {
		return &Provider{}, nil
	}

	ctx := context.Background()
	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(cfg.ServiceName)))
	if err != nil {
		return nil, fmt.Errorf("building otel resource: %w", err)
	}

	exporters, err := buildExporters(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if len(exporters) == 0 {
		return nil, ErrNoSink
	}

	opts := []sdklog.LoggerProviderOption{sdklog.WithResource(res)}
	for _, exp := range exporters {
		opts = append(opts, sdklog.WithProcessor(
			sdklog.NewBatchProcessor(exp, sdklog.WithExportTimeout(cfg.BatchTimeout)),
		))
	}
	return &Provider{logs: sdklog.NewLoggerProvider(opts...)}, nil
}

func buildExporters(ctx context.Context, cfg Config) ([]sdklog.Exporter, error) {
	var out []sdklog.Exporter

	if cfg.LogWriter != nil {
		exp, err := stdoutlog.New(stdoutlog.WithWriter(cfg.LogWriter), stdoutlog.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("creating file log exporter: %w", err)
		}
		out = append(out, exp)
	}

	if cfg.Endpoint != "" {
		httpOpts := []otlploghttp.Option{otlploghttp.WithEndpoint(cfg.Endpoint)}
		if cfg.Insecure {
			httpOpts = append(httpOpts, otlploghttp.WithInsecure())
		}
		exp, err := otlploghttp.New(ctx, httpOpts...)
		if err != nil {
			return nil, fmt.Errorf("creating otlp log exporter: %w", err)
		}
		out = append(out, exp)
	}

	return out, nil
}

// Enabled reports whether a pipeline was built.
func (p *Provider) Enabled() bool { return p.logs != nil }

// LoggerProvider returns the SDK provider for the otelslog bridge, or nil
// when disabled.
func (p *Provider) LoggerProvider() *sdklog.LoggerProvider { return p.logs }

// Meter returns a meter from the global meter provider. Instruments are
// no-ops until a meter provider is installed.
func (p *Provider) Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Flush exports buffered records.
func (p *Provider) Flush(ctx context.Context) error {
	if p.logs == nil {
		return nil
	}
	if err := p.logs.ForceFlush(ctx); err != nil {
		return fmt.Errorf("flushing otel logs: %w", err)
	}
	return nil
}

// Shutdown flushes and stops every exporter. The Provider is disabled
// afterwards.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.logs == nil {
		return nil
	}
	logs := p.logs
	p.logs = nil
	if err := logs.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down otel logs: %w", err)
	}
	return nil
}
