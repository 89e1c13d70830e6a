package recovery

import "time"

// Strategy identifies the recovery path taken.
type Strategy int

const (
	// StrategyNone means no recovery ran.
	StrategyNone Strategy = iota
	// StrategyRetry means the operation was re-executed.
	StrategyRetry
	// StrategyFallback means a configured fallback ran instead.
	StrategyFallback
	// StrategyDegrade means the fallback ran after a failed
	// conservative retry, trading functionality for availability.
	StrategyDegrade
)

func (s Strategy) String() string {
	switch s {
	case StrategyRetry:
		return "retry"
	case StrategyFallback:
		return "fallback"
	case StrategyDegrade:
		return "degrade"
	default:
		return "none"
	}
}

// Result is the outcome of an attempted recovery. It is created by the
// Coordinator and consumed once by the handling pipeline.
//
// Succeeded means the strategy ran to success; combined with Strategy
// it distinguishes full recovery (retry succeeded) from degraded
// operation (fallback succeeded).
type Result struct {
	Attempted     bool
	Succeeded     bool
	Strategy      Strategy
	Attempts      int
	TotalDuration time.Duration
	Message       string
}
