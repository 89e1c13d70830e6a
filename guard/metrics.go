package guard

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// handlerMetrics records pipeline telemetry.
type handlerMetrics struct {
	outcomes metric.Int64Counter
	duration metric.Float64Histogram
}

func newHandlerMetrics(meter metric.Meter) (*handlerMetrics, error) {
	outcomes, err := meter.Int64Counter(
		"guard.outcomes",
		metric.WithDescription("Terminal outcomes of the handling pipeline"),
		metric.WithUnit("{result}"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		"guard.handling_duration",
		metric.WithDescription("Wall clock time from classification to final result"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &handlerMetrics{outcomes: outcomes, duration: duration}, nil
}

func noopHandlerMetrics() *handlerMetrics {
	m, _ := newHandlerMetrics(noop.NewMeterProvider().Meter("guard"))
	return m
}

func (m *handlerMetrics) recordResult(outcome Outcome, errorType string, d time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("guard.outcome", outcome.String()),
		attribute.String("error.type", errorType),
	)
	m.outcomes.Add(context.Background(), 1, attrs)
	m.duration.Record(context.Background(), d.Seconds(), attrs)
}
