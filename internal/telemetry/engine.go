package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const engineMeterName = "github.com/nutrilog/nutrilog/internal/report"

// EngineMetrics holds the instruments of the report engine.
type EngineMetrics struct {
	computeDuration metric.Float64Histogram
	computeTotal    metric.Int64Counter
}

// NewEngineMetrics creates the report engine instruments on the global meter.
func NewEngineMetrics() (*EngineMetrics, error) {
	meter := Meter(engineMeterName)

	computeDuration, err := meter.Float64Histogram(
		"nutrilog.report.compute.duration",
		metric.WithDescription("Duration of report computations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	computeTotal, err := meter.Int64Counter(
		"nutrilog.report.compute.total",
		metric.WithDescription("Total number of report computations"),
		metric.WithUnit("{report}"),
	)
	if err != nil {
		return nil, err
	}

	return &EngineMetrics{
		computeDuration: computeDuration,
		computeTotal:    computeTotal,
	}, nil
}

// RecordCompute records one computation of the given report kind.
// A nil receiver records nothing.
func (m *EngineMetrics) RecordCompute(ctx context.Context, kind string, d time.Duration, err error) {
	if m == nil {
		return
	}

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	attrs := metric.WithAttributes(
		attribute.String("report.kind", kind),
		attribute.String("outcome", outcome),
	)

	m.computeDuration.Record(ctx, d.Seconds(), attrs)
	m.computeTotal.Add(ctx, 1, attrs)
}
