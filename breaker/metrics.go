package breaker

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// breakerMetrics records gate and transition telemetry for a breaker.
type breakerMetrics struct {
	transitions metric.Int64Counter
	rejections  metric.Int64Counter
	outcomes    metric.Int64Counter
}

func newBreakerMetrics(meter metric.Meter) (*breakerMetrics, error) {
	transitions, err := meter.Int64Counter(
		"breaker.transitions",
		metric.WithDescription("Circuit breaker state transitions"),
		metric.WithUnit("{transition}"),
	)
	if err != nil {
		return nil, err
	}

	rejections, err := meter.Int64Counter(
		"breaker.rejections",
		metric.WithDescription("Calls rejected by the gate"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	outcomes, err := meter.Int64Counter(
		"breaker.outcomes",
		metric.WithDescription("Recorded operation outcomes"),
		metric.WithUnit("{outcome}"),
	)
	if err != nil {
		return nil, err
	}

	return &breakerMetrics{
		transitions: transitions,
		rejections:  rejections,
		outcomes:    outcomes,
	}, nil
}

func noopBreakerMetrics() *breakerMetrics {
	m, _ := newBreakerMetrics(noop.NewMeterProvider().Meter("breaker"))
	return m
}

func (m *breakerMetrics) recordTransition(name string, from, to State) {
	m.transitions.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("breaker.name", name),
		attribute.String("from", from.String()),
		attribute.String("to", to.String()),
	))
}

func (m *breakerMetrics) recordRejection(name string, state State) {
	m.rejections.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("breaker.name", name),
		attribute.String("state", state.String()),
	))
}

func (m *breakerMetrics) recordOutcome(name string, success bool) {
	m.outcomes.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("breaker.name", name),
		attribute.Bool("success", success),
	))
}
