package breaker

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for breaker operations. RejectedError values match
// these through errors.Is.
var (
	// ErrOpen is returned when the circuit is open and the gate rejects
	// the call.
	ErrOpen = errors.New("breaker: circuit is open")

	// ErrHalfOpenAtCapacity is returned when the circuit is half-open
	// and all probe slots are taken.
	ErrHalfOpenAtCapacity = errors.New("breaker: half-open probe capacity reached")

	// ErrInvalidTransition is returned for a state change not in the
	// legal transition table.
	ErrInvalidTransition = errors.New("breaker: illegal state transition")

	// ErrNotRegistered is returned when a registry lookup misses.
	ErrNotRegistered = errors.New("breaker: not registered")

	// ErrAlreadyRegistered is returned when registering a duplicate name.
	ErrAlreadyRegistered = errors.New("breaker: already registered")
)

// RejectedError reports a call rejected by the gate. It carries enough
// context for the caller to decide to back off or fail fast without
// guessing.
//
// Two construction paths exist: open-circuit rejections carry the full
// timing context (OpenedAt, TimeUntilHalfOpen, RecentFailures), while
// half-open capacity rejections are immediate and timeless: OpenedAt
// is the zero time and TimeUntilHalfOpen is zero.
type RejectedError struct {
	Name              string
	State             State
	OpenedAt          time.Time
	TimeUntilHalfOpen time.Duration
	RecentFailures    int
}

func newCircuitOpen(name string, openedAt time.Time, untilHalfOpen time.Duration, recentFailures int) *RejectedError {
	return &RejectedError{
		Name:              name,
		State:             StateOpen,
		OpenedAt:          openedAt,
		TimeUntilHalfOpen: untilHalfOpen,
		RecentFailures:    recentFailures,
	}
}

func newHalfOpenAtCapacity(name string) *RejectedError {
	return &RejectedError{
		Name:  name,
		State: StateHalfOpen,
	}
}

// Error implements the error interface.
func (e *RejectedError) Error() string {
	if e.State == StateHalfOpen {
		return fmt.Sprintf("breaker %q is half-open and at probe capacity, request rejected", e.Name)
	}
	return fmt.Sprintf(
		"breaker %q is open, request rejected (opened at %s, half-open in %s, recent failures %d)",
		e.Name, e.OpenedAt.Format(time.RFC3339), e.TimeUntilHalfOpen, e.RecentFailures,
	)
}

// Is matches the sentinel corresponding to the rejection kind, so
// errors.Is(err, ErrOpen) and errors.Is(err, ErrHalfOpenAtCapacity)
// work without unwrapping the struct.
func (e *RejectedError) Is(target error) bool {
	switch target {
	case ErrOpen:
		return e.State == StateOpen
	case ErrHalfOpenAtCapacity:
		return e.State == StateHalfOpen
	}
	return false
}

// IsRetryPossible reports whether retrying later can succeed: true iff
// the circuit is open and the half-open transition is still pending.
// Capacity rejections return false; the resource is already being probed.
func (e *RejectedError) IsRetryPossible() bool {
	return e.State == StateOpen && e.TimeUntilHalfOpen > 0
}

// RetryAdvice returns a human-readable hint about when to retry.
func (e *RejectedError) RetryAdvice() string {
	if !e.IsRetryPossible() {
		return "circuit state does not allow retries at this time"
	}
	return fmt.Sprintf("circuit transitions to half-open in %s, retry after that", e.TimeUntilHalfOpen)
}

// IsRejection reports whether err is a gate rejection, as opposed to a
// failure of the protected operation itself.
func IsRejection(err error) bool {
	var rej *RejectedError
	return errors.As(err, &rej)
}
