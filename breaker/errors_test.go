package breaker

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestRejectedError_CircuitOpen(t *testing.T) {
	openedAt := time.Unix(100, 0)
	rej := newCircuitOpen("payments", openedAt, 5*time.Second, 3)

	if rej.Name != "payments" {
		t.Errorf("Name = %q, want payments", rej.Name)
	}
	if rej.State != StateOpen {
		t.Errorf("State = %v, want open", rej.State)
	}
	if !rej.OpenedAt.Equal(openedAt) {
		t.Errorf("OpenedAt = %v, want %v", rej.OpenedAt, openedAt)
	}
	if rej.TimeUntilHalfOpen != 5*time.Second {
		t.Errorf("TimeUntilHalfOpen = %v, want 5s", rej.TimeUntilHalfOpen)
	}
	if rej.RecentFailures != 3 {
		t.Errorf("RecentFailures = %d, want 3", rej.RecentFailures)
	}
	if !strings.Contains(rej.Error(), `"payments"`) {
		t.Errorf("Error() = %q, missing breaker name", rej.Error())
	}
}

func TestRejectedError_HalfOpenAtCapacity(t *testing.T) {
	rej := newHalfOpenAtCapacity("payments")

	if rej.State != StateHalfOpen {
		t.Errorf("State = %v, want half-open", rej.State)
	}
	// Capacity rejection is immediate and timeless.
	if !rej.OpenedAt.IsZero() {
		t.Errorf("OpenedAt = %v, want zero", rej.OpenedAt)
	}
	if rej.TimeUntilHalfOpen != 0 {
		t.Errorf("TimeUntilHalfOpen = %v, want 0", rej.TimeUntilHalfOpen)
	}
	if rej.RecentFailures != 0 {
		t.Errorf("RecentFailures = %d, want 0", rej.RecentFailures)
	}
}

func TestRejectedError_SentinelMatching(t *testing.T) {
	open := error(newCircuitOpen("a", time.Unix(0, 0), time.Second, 1))
	capacity := error(newHalfOpenAtCapacity("a"))

	if !errors.Is(open, ErrOpen) {
		t.Error("open rejection should match ErrOpen")
	}
	if errors.Is(open, ErrHalfOpenAtCapacity) {
		t.Error("open rejection should not match ErrHalfOpenAtCapacity")
	}
	if !errors.Is(capacity, ErrHalfOpenAtCapacity) {
		t.Error("capacity rejection should match ErrHalfOpenAtCapacity")
	}
	if errors.Is(capacity, ErrOpen) {
		t.Error("capacity rejection should not match ErrOpen")
	}

	// Matching survives wrapping.
	wrapped := fmt.Errorf("calling payments: %w", open)
	if !errors.Is(wrapped, ErrOpen) {
		t.Error("wrapped rejection should match ErrOpen")
	}
}

func TestRejectedError_IsRetryPossible(t *testing.T) {
	tests := []struct {
		name string
		rej  *RejectedError
		want bool
	}{
		{"open with time remaining", newCircuitOpen("a", time.Unix(0, 0), 5*time.Second, 3), true},
		{"open with zero remaining", newCircuitOpen("a", time.Unix(0, 0), 0, 3), false},
		{"half-open capacity", newHalfOpenAtCapacity("a"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rej.IsRetryPossible(); got != tt.want {
				t.Errorf("IsRetryPossible() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRejectedError_RetryAdvice(t *testing.T) {
	rej := newCircuitOpen("a", time.Unix(0, 0), 7*time.Second, 3)
	if !strings.Contains(rej.RetryAdvice(), "7s") {
		t.Errorf("RetryAdvice() = %q, want time remaining mentioned", rej.RetryAdvice())
	}

	if advice := newHalfOpenAtCapacity("a").RetryAdvice(); !strings.Contains(advice, "does not allow") {
		t.Errorf("RetryAdvice() = %q, want no-retry advice", advice)
	}
}

func TestIsRejection(t *testing.T) {
	if !IsRejection(newHalfOpenAtCapacity("a")) {
		t.Error("IsRejection() = false for a rejection")
	}
	if IsRejection(errors.New("operation failed")) {
		t.Error("IsRejection() = true for an operation failure")
	}
	if IsRejection(nil) {
		t.Error("IsRejection(nil) = true")
	}
}
