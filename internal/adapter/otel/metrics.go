package otel

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "glasspane"

// Metrics holds all GlassPane metric instruments.
type Metrics struct {
	StreamsStarted   metric.Int64Counter
	StreamsCompleted metric.Int64Counter
	StreamsFailed    metric.Int64Counter
	SanitizedBytes   metric.Int64Counter
	StreamDuration   metric.Float64Histogram
}

// NewMetrics creates all metric instruments.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.StreamsStarted, err = meter.Int64Counter("glasspane.streams.started",
		metric.WithDescription("Number of reply streams started"))
	if err != nil {
		return nil, err
	}

	m.StreamsCompleted, err = meter.Int64Counter("glasspane.streams.completed",
		metric.WithDescription("Number of reply streams completed"))
	if err != nil {
		return nil, err
	}

	m.StreamsFailed, err = meter.Int64Counter("glasspane.streams.failed",
		metric.WithDescription("Number of reply streams failed"))
	if err != nil {
		return nil, err
	}

	m.SanitizedBytes, err = meter.Int64Counter("glasspane.sanitized.bytes",
		metric.WithDescription("Bytes of sanitized output delivered"))
	if err != nil {
		return nil, err
	}

	m.StreamDuration, err = meter.Float64Histogram("glasspane.stream.duration_seconds",
		metric.WithDescription("Reply stream duration in seconds"))
	if err != nil {
		return nil, err
	}

	return m, nil
}
