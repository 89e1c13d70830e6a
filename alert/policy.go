package alert

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/jonwraymond/guardrail/breaker"
	"github.com/jonwraymond/guardrail/observe"
)

// Assessment is the policy's verdict on an alert type.
type Assessment struct {
	Critical          bool
	Immediate         bool
	RecommendedAction string
}

// PolicyConfig configures a Policy.
type PolicyConfig struct {
	// Breaker is the designated resource breaker that receives
	// synthetic failure signals. Optional; without it the policy only
	// assesses.
	Breaker *breaker.CircuitBreaker

	// FeedbackInterval is the minimum time between synthetic failures
	// forwarded to the breaker.
	// Default: 30s
	FeedbackInterval time.Duration

	// FeedbackBurst is how many forwards may happen back to back
	// before the interval applies.
	// Default: 1
	FeedbackBurst int

	// Logger receives forwarded-alert logs.
	// Default: discard.
	Logger observe.Logger
}

// Policy assesses performance alerts and forwards the ones requiring
// immediate attention to a designated breaker as synthetic failures.
// Safe for concurrent use.
type Policy struct {
	cb      *breaker.CircuitBreaker
	limiter *rate.Limiter
	log     observe.Logger
}

// NewPolicy creates a policy.
func NewPolicy(cfg PolicyConfig) *Policy {
	if cfg.FeedbackInterval <= 0 {
		cfg.FeedbackInterval = 30 * time.Second
	}
	if cfg.FeedbackBurst <= 0 {
		cfg.FeedbackBurst = 1
	}
	if cfg.Logger == nil {
		cfg.Logger = observe.NopLogger()
	}

	return &Policy{
		cb:      cfg.Breaker,
		limiter: rate.NewLimiter(rate.Every(cfg.FeedbackInterval), cfg.FeedbackBurst),
		log:     cfg.Logger.WithComponent("alert"),
	}
}

// Evaluate returns the assessment for an alert type. Pure lookup, no
// side effects.
func (p *Policy) Evaluate(t AlertType) Assessment {
	return Assessment{
		Critical:          t.Critical(),
		Immediate:         t.Immediate(),
		RecommendedAction: t.RecommendedAction(),
	}
}

// Observe assesses an alert and, when the type requires immediate
// attention, forwards a synthetic failure to the designated breaker.
// Forwarding is rate limited; an alert storm degrades to assessment
// only. Returns true when a failure was forwarded.
func (p *Policy) Observe(ctx context.Context, a Alert) bool {
	assessment := p.Evaluate(a.Type)
	if !assessment.Immediate || p.cb == nil {
		return false
	}
	if !p.limiter.Allow() {
		p.log.Debug(ctx, "alert feedback suppressed by rate limit",
			observe.String("type", a.Type.String()),
		)
		return false
	}

	p.cb.RecordOutcome(false)
	p.log.Warn(ctx, "synthetic failure forwarded to breaker",
		observe.String("type", a.Type.String()),
		observe.String("severity", a.Severity.String()),
		observe.String("action", assessment.RecommendedAction),
	)
	return true
}
