package classify

import "time"

// ErrorType is the failure category.
type ErrorType int

const (
	// TypeUnknown is the fallback category.
	TypeUnknown ErrorType = iota
	// TypeNetwork covers transport and connection failures.
	TypeNetwork
	// TypeTimeout covers deadline and timeout expiry.
	TypeTimeout
	// TypeIO covers filesystem and stream failures.
	TypeIO
	// TypeValidation covers malformed or rejected input.
	TypeValidation
	// TypeMemory covers resource exhaustion.
	TypeMemory
	// TypeConcurrency covers cancellation and coordination failures.
	TypeConcurrency
	// TypeExternalDependency covers failures reported by a downstream
	// service (rate limits, auth rejections, 5xx-style responses).
	TypeExternalDependency
)

func (t ErrorType) String() string {
	switch t {
	case TypeNetwork:
		return "network"
	case TypeTimeout:
		return "timeout"
	case TypeIO:
		return "io"
	case TypeValidation:
		return "validation"
	case TypeMemory:
		return "memory"
	case TypeConcurrency:
		return "concurrency"
	case TypeExternalDependency:
		return "external_dependency"
	default:
		return "unknown"
	}
}

// Recoverability states whether retrying the failed operation is
// expected to help.
type Recoverability int

const (
	// Unknown means there is not enough signal either way.
	Unknown Recoverability = iota
	// Transient means a retry is expected to help.
	Transient
	// Permanent means retrying cannot help.
	Permanent
)

func (r Recoverability) String() string {
	switch r {
	case Transient:
		return "transient"
	case Permanent:
		return "permanent"
	default:
		return "unknown"
	}
}

// Severity grades the impact of a failure.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Classification is the verdict for one failure. It is created fresh
// per failure and never mutated or reused, even when the same cause
// repeats.
type Classification struct {
	Type            ErrorType
	Recoverability  Recoverability
	Severity        Severity
	RequiresReport  bool
	Cause           error
	ClassifiedAt    time.Time
	PreviousRetries int
}

// WithRetries returns a copy refined with the number of retries already
// spent on this failure. Three or more prior retries downgrade the
// verdict to permanent: a failure that keeps repeating is not transient.
func (c Classification) WithRetries(retries int) Classification {
	c.PreviousRetries = retries
	if retries >= 3 {
		c.Recoverability = Permanent
	}
	return c
}
