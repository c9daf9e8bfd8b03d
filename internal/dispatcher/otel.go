package dispatcher

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/handlebridge/bridge/internal/dispatcher"

// metrics are the dispatcher's OTel instruments. They are no-ops until a
// global meter provider is installed.
type metrics struct {
	registered metric.Int64ObservableGauge
	processed  metric.Int64Counter
	failed     metric.Int64Counter
}

func newMetrics(d *Dispatcher) (*metrics, error) {
	m := otel.Meter(instrumentationName)
	var (
		ms  metrics
		err error
	)

	ms.registered, err = m.Int64ObservableGauge(
		"dispatcher.handlers.registered",
		metric.WithDescription("Current number of handlers per event"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating handlers gauge: %w", err)
	}
	_, err = m.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		d.mu.RLock()
		defer d.mu.RUnlock()
		for name, hs := range d.handlers {
			o.ObserveInt64(ms.registered, int64(len(hs)), eventAttr(name))
		}
		return nil
	}, ms.registered)
	if err != nil {
		return nil, fmt.Errorf("registering handlers callback: %w", err)
	}

	ms.processed, err = m.Int64Counter(
		"dispatcher.events.processed",
		metric.WithDescription("Total events processed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating processed counter: %w", err)
	}

	ms.failed, err = m.Int64Counter(
		"dispatcher.handlers.failed",
		metric.WithDescription("Total handler invocations that returned an error or panicked"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating failed counter: %w", err)
	}
	return &ms, nil
}

func eventAttr(name string) metric.MeasurementOption {
	return metric.WithAttributes(attribute.String("event", name))
}
