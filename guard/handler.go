package guard

import (
	"context"

	"github.com/benbjohnson/clock"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/jonwraymond/guardrail/breaker"
	"github.com/jonwraymond/guardrail/classify"
	"github.com/jonwraymond/guardrail/observe"
	"github.com/jonwraymond/guardrail/recovery"
)

// Config configures a Handler.
type Config struct {
	// Breaker gates the protected resource. Optional; without it Do is
	// unavailable and Handle runs recovery without breaker
	// consultation.
	Breaker *breaker.CircuitBreaker

	// Classifier maps failures to classifications.
	// Default: classify.New with the default rule table.
	Classifier *classify.Classifier

	// Coordinator executes recovery strategies.
	// Default: recovery.New with defaults.
	Coordinator *recovery.Coordinator

	// Reporter files incidents for unrecovered failures.
	// Default: an in-memory reporter.
	Reporter Reporter

	// Clock measures handling duration. Injectable for deterministic
	// tests.
	Clock clock.Clock

	// Logger receives pipeline logs.
	// Default: discard.
	Logger observe.Logger

	// Meter records pipeline telemetry.
	// Default: noop.
	Meter metric.Meter

	// Tracer spans each handled failure.
	// Default: noop.
	Tracer trace.Tracer
}

// Handler runs the handling pipeline: classify, recover, report,
// assemble. Safe for concurrent use.
type Handler struct {
	cb         *breaker.CircuitBreaker
	classifier *classify.Classifier
	coord      *recovery.Coordinator
	reporter   Reporter
	clock      clock.Clock
	log        observe.Logger
	metrics    *handlerMetrics
	tracer     trace.Tracer
}

// New creates a handler.
func New(cfg Config) *Handler {
	if cfg.Classifier == nil {
		cfg.Classifier = classify.New(classify.Config{})
	}
	if cfg.Coordinator == nil {
		cfg.Coordinator = recovery.New(recovery.Config{Logger: cfg.Logger})
	}
	if cfg.Reporter == nil {
		cfg.Reporter = NewMemoryReporter()
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	if cfg.Logger == nil {
		cfg.Logger = observe.NopLogger()
	}

	metrics := noopHandlerMetrics()
	if cfg.Meter != nil {
		if m, err := newHandlerMetrics(cfg.Meter); err == nil {
			metrics = m
		}
	}
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = tracenoop.NewTracerProvider().Tracer("guard")
	}

	return &Handler{
		cb:         cfg.Breaker,
		classifier: cfg.Classifier,
		coord:      cfg.Coordinator,
		reporter:   cfg.Reporter,
		clock:      cfg.Clock,
		log:        cfg.Logger.WithComponent("guard"),
		metrics:    metrics,
		tracer:     tracer,
	}
}

// Do gates op through the breaker, executes it, and records the
// outcome. A rejection is returned as an error without invoking op;
// the caller decides whether and when to try again. When op fails, the
// full handling pipeline runs and its result is returned with a nil
// error. When op succeeds the result outcome is OutcomeRecovered with
// no recovery attempts.
func (h *Handler) Do(ctx context.Context, op recovery.Operation) (Result, error) {
	start := h.clock.Now()

	if err := h.cb.Allow(); err != nil {
		return Result{}, err
	}

	err := op(ctx)
	h.cb.RecordOutcome(err == nil)
	if err == nil {
		return Result{
			Outcome:          OutcomeRecovered,
			Timestamp:        start,
			HandlingDuration: h.clock.Since(start),
			Message:          "operation succeeded",
		}, nil
	}

	return h.Handle(ctx, err, op), nil
}

// Handle runs the pipeline for a failure that already happened:
// classify the cause, execute the recovery strategy, file an incident
// when recovery cannot resolve it, and assemble the result.
func (h *Handler) Handle(ctx context.Context, cause error, op recovery.Operation) Result {
	start := h.clock.Now()

	ctx, span := h.tracer.Start(ctx, "guard.handle")
	defer span.End()

	cls := h.classifier.Classify(cause)
	span.SetAttributes(
		attribute.String("error.type", cls.Type.String()),
		attribute.String("error.recoverability", cls.Recoverability.String()),
	)

	rec := h.coord.Recover(ctx, cls, h.cb, op)

	res := Result{
		Classification:   cls,
		Recovery:         rec,
		Timestamp:        start,
		HandlingDuration: h.clock.Since(start),
	}
	res.Outcome, res.Message = h.decide(ctx, cls, rec, &res)

	span.SetAttributes(attribute.String("guard.outcome", res.Outcome.String()))
	h.metrics.recordResult(res.Outcome, cls.Type.String(), res.HandlingDuration)
	h.log.Info(ctx, "failure handled",
		observe.String("outcome", res.Outcome.String()),
		observe.String("type", cls.Type.String()),
		observe.String("recoverability", cls.Recoverability.String()),
		observe.Int("attempts", rec.Attempts),
		observe.Duration("duration", res.HandlingDuration),
		observe.Err(cause),
	)
	return res
}

// decide maps a classification and recovery result to the terminal
// outcome, filing an incident where one is owed.
func (h *Handler) decide(ctx context.Context, cls classify.Classification, rec recovery.Result, res *Result) (Outcome, string) {
	if rec.Succeeded {
		switch rec.Strategy {
		case recovery.StrategyRetry:
			return OutcomeRecovered, rec.Message
		default:
			// Fallback and degrade paths keep the system working
			// without resolving the underlying failure.
			return OutcomeGracefullyDegraded, rec.Message
		}
	}

	retriesExhausted := rec.Strategy == recovery.StrategyRetry && rec.Attempted
	if cls.Recoverability == classify.Permanent || retriesExhausted || cls.RequiresReport {
		id, err := h.reporter.Report(ctx, cls, rec)
		if err != nil {
			h.log.Error(ctx, "incident report failed", observe.Err(err))
			return OutcomeFailed, "incident report failed: " + err.Error()
		}
		res.IncidentID = id
		return OutcomeIncidentReported, "incident " + id + ": " + rec.Message
	}

	return OutcomeFailed, rec.Message
}
