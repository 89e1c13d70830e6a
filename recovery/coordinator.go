package recovery

import (
	"context"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/jonwraymond/guardrail/breaker"
	"github.com/jonwraymond/guardrail/classify"
	"github.com/jonwraymond/guardrail/observe"
)

// Operation is the unit of work being recovered. A nil error means the
// operation succeeded.
type Operation func(ctx context.Context) error

// Config configures a Coordinator.
type Config struct {
	// MaxRetries bounds retry attempts for transient failures.
	// Default: 3
	MaxRetries int

	// Backoff shapes the delay between retry attempts.
	Backoff Backoff

	// MaxConcurrent caps recoveries running at once. Excess recoveries
	// are skipped immediately, not queued.
	// Default: 10
	MaxConcurrent int

	// Fallback, when set, runs for permanent failures and as the
	// degrade path after a failed conservative retry.
	Fallback Operation

	// OnRetry is called before each retry attempt.
	OnRetry func(attempt int, err error, delay time.Duration)

	// Logger receives retry and strategy logs.
	// Default: discard.
	Logger observe.Logger
}

// Coordinator selects and executes recovery strategies. Safe for
// concurrent use.
type Coordinator struct {
	maxRetries int
	backoff    Backoff
	fallback   Operation
	onRetry    func(attempt int, err error, delay time.Duration)
	sem        *semaphore.Weighted
	log        observe.Logger
}

// New creates a coordinator.
func New(cfg Config) *Coordinator {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 10
	}
	if cfg.Logger == nil {
		cfg.Logger = observe.NopLogger()
	}

	return &Coordinator{
		maxRetries: cfg.MaxRetries,
		backoff:    cfg.Backoff.withDefaults(),
		fallback:   cfg.Fallback,
		onRetry:    cfg.OnRetry,
		sem:        semaphore.NewWeighted(int64(cfg.MaxConcurrent)),
		log:        cfg.Logger.WithComponent("recovery"),
	}
}

// Recover executes the strategy the classification calls for and
// reports every retry outcome to the breaker. The breaker may be nil
// when the failure is not tied to a gated resource.
//
// Permanent failures are never retried. Transient failures are retried
// up to MaxRetries, but only after consulting the breaker: an open
// circuit skips retries entirely. Unknown recoverability gets a single
// conservative retry, then the degrade path.
func (c *Coordinator) Recover(ctx context.Context, cls classify.Classification, cb *breaker.CircuitBreaker, op Operation) Result {
	start := time.Now()

	if !c.sem.TryAcquire(1) {
		return Result{
			Strategy:      StrategyNone,
			TotalDuration: time.Since(start),
			Message:       "recovery capacity exhausted",
		}
	}
	defer c.sem.Release(1)

	switch cls.Recoverability {
	case classify.Permanent:
		if c.fallback == nil {
			return Result{
				Strategy:      StrategyNone,
				TotalDuration: time.Since(start),
				Message:       "permanent failure, no fallback configured",
			}
		}
		return c.runFallback(ctx, StrategyFallback, start)

	case classify.Transient:
		if cb != nil && cb.State() == breaker.StateOpen {
			return Result{
				Strategy:      StrategyNone,
				TotalDuration: time.Since(start),
				Message:       "circuit open, retries skipped",
			}
		}
		return c.retry(ctx, cb, op, c.maxRetries, start)

	default: // classify.Unknown
		res := c.retry(ctx, cb, op, 1, start)
		if res.Succeeded || c.fallback == nil {
			return res
		}
		return c.runFallback(ctx, StrategyDegrade, start)
	}
}

func (c *Coordinator) retry(ctx context.Context, cb *breaker.CircuitBreaker, op Operation, maxAttempts int, start time.Time) Result {
	if op == nil {
		return Result{
			Strategy:      StrategyNone,
			TotalDuration: time.Since(start),
			Message:       "no operation to retry",
		}
	}

	attempts := 0
	message := "retries exhausted"

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		// The circuit may open mid-loop from our own failure reports or
		// from concurrent callers; stop retrying into it either way.
		if cb != nil && cb.State() == breaker.StateOpen {
			message = "circuit opened during retries"
			break
		}

		attempts++
		err := op(ctx)
		if cb != nil {
			cb.RecordOutcome(err == nil)
		}

		if err == nil {
			return Result{
				Attempted:     true,
				Succeeded:     true,
				Strategy:      StrategyRetry,
				Attempts:      attempts,
				TotalDuration: time.Since(start),
				Message:       "recovered by retry",
			}
		}

		if attempt >= maxAttempts {
			break
		}

		delay := c.backoff.Delay(attempt)
		if c.onRetry != nil {
			c.onRetry(attempt, err, delay)
		}
		c.log.Debug(ctx, "retrying",
			observe.Int("attempt", attempt),
			observe.Duration("delay", delay),
			observe.Err(err),
		)

		select {
		case <-ctx.Done():
			return Result{
				Attempted:     attempts > 0,
				Strategy:      StrategyRetry,
				Attempts:      attempts,
				TotalDuration: time.Since(start),
				Message:       "context canceled during retries",
			}
		case <-time.After(delay):
		}
	}

	strategy := StrategyRetry
	if attempts == 0 {
		strategy = StrategyNone
	}
	return Result{
		Attempted:     attempts > 0,
		Strategy:      strategy,
		Attempts:      attempts,
		TotalDuration: time.Since(start),
		Message:       message,
	}
}

func (c *Coordinator) runFallback(ctx context.Context, strategy Strategy, start time.Time) Result {
	err := c.fallback(ctx)

	res := Result{
		Attempted:     true,
		Succeeded:     err == nil,
		Strategy:      strategy,
		Attempts:      1,
		TotalDuration: time.Since(start),
	}
	if err == nil {
		res.Message = strategy.String() + " succeeded"
	} else {
		res.Message = strategy.String() + " failed: " + err.Error()
	}

	c.log.Info(ctx, "fallback executed",
		observe.String("strategy", strategy.String()),
		observe.Err(err),
	)
	return res
}
