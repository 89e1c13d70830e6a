package breaker

import (
	"sync"
	"time"
)

// FailureWindow is a concurrency-safe rolling counter of recent
// failures and successes.
//
// When constructed with a positive window, Failures counts only
// failures younger than the window, so stale failures stop counting
// toward a threshold. With a zero window it degrades to a plain
// counter. In both cases the count drops to zero only through an
// explicit Reset; elapsed time alone never zeroes a non-empty window
// all at once.
type FailureWindow struct {
	mu       sync.Mutex
	window   time.Duration
	failures []time.Time

	totalFailures  uint64
	totalSuccesses uint64
}

// NewFailureWindow creates a failure window. A non-positive window
// disables time-based decay.
func NewFailureWindow(window time.Duration) *FailureWindow {
	return &FailureWindow{window: window}
}

// RecordFailure records a failure observed at the given time.
func (w *FailureWindow) RecordFailure(now time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.totalFailures++
	w.pruneLocked(now)
	w.failures = append(w.failures, now)
}

// RecordSuccess records a success. Successes are counted for
// statistics only; they do not erase recorded failures.
func (w *FailureWindow) RecordSuccess() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.totalSuccesses++
}

// Failures returns the number of failures within the active window as
// of the given time.
func (w *FailureWindow) Failures(now time.Time) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pruneLocked(now)
	return len(w.failures)
}

// Reset clears the active failure window. Lifetime totals are kept.
func (w *FailureWindow) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.failures = w.failures[:0]
}

// TotalFailures returns the lifetime failure count.
func (w *FailureWindow) TotalFailures() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.totalFailures
}

// TotalSuccesses returns the lifetime success count.
func (w *FailureWindow) TotalSuccesses() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.totalSuccesses
}

func (w *FailureWindow) pruneLocked(now time.Time) {
	if w.window <= 0 {
		return
	}
	cutoff := now.Add(-w.window)
	stale := 0
	for stale < len(w.failures) && !w.failures[stale].After(cutoff) {
		stale++
	}
	if stale > 0 {
		w.failures = append(w.failures[:0], w.failures[stale:]...)
	}
}
