package statebag

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/handlebridge/bridge/pkg/statebag"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}
