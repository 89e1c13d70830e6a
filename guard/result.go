package guard

import (
	"time"

	"github.com/jonwraymond/guardrail/classify"
	"github.com/jonwraymond/guardrail/recovery"
)

// Outcome is the terminal verdict of the handling pipeline.
type Outcome int

const (
	// OutcomeFailed means neither recovery nor reporting resolved the
	// failure.
	OutcomeFailed Outcome = iota
	// OutcomeRecovered means the operation ultimately succeeded.
	OutcomeRecovered
	// OutcomeGracefullyDegraded means a fallback or degrade path
	// executed in place of the failed operation.
	OutcomeGracefullyDegraded
	// OutcomeIncidentReported means recovery failed and an incident was
	// filed with the external reporter.
	OutcomeIncidentReported
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRecovered:
		return "recovered"
	case OutcomeGracefullyDegraded:
		return "gracefully_degraded"
	case OutcomeIncidentReported:
		return "incident_reported"
	default:
		return "failed"
	}
}

// Result is the immutable record of one handled failure. All fields
// are known at construction; it is never mutated after the pipeline
// returns it.
type Result struct {
	Outcome          Outcome
	Classification   classify.Classification
	Recovery         recovery.Result
	IncidentID       string
	Timestamp        time.Time
	HandlingDuration time.Duration
	Message          string
}

// Successful reports whether the pipeline left the system in a working
// state, fully recovered or degraded.
func (r Result) Successful() bool {
	return r.Outcome == OutcomeRecovered || r.Outcome == OutcomeGracefullyDegraded
}
