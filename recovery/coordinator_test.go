package recovery

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonwraymond/guardrail/breaker"
	"github.com/jonwraymond/guardrail/classify"
)

var testErr = errors.New("test error")

func fastBackoff() Backoff {
	return Backoff{Base: time.Millisecond, Strategy: BackoffConstant}
}

func transient() classify.Classification {
	return classify.Classification{Type: classify.TypeNetwork, Recoverability: classify.Transient}
}

func permanent() classify.Classification {
	return classify.Classification{Type: classify.TypeValidation, Recoverability: classify.Permanent}
}

func unknown() classify.Classification {
	return classify.Classification{Type: classify.TypeUnknown, Recoverability: classify.Unknown}
}

func TestRecover_PermanentNoFallback(t *testing.T) {
	c := New(Config{Backoff: fastBackoff()})
	cb := breaker.New(breaker.Config{Name: "r"})

	calls := 0
	res := c.Recover(context.Background(), permanent(), cb, func(ctx context.Context) error {
		calls++
		return testErr
	})

	if res.Attempted {
		t.Error("Attempted = true, want false for permanent failure without fallback")
	}
	if res.Strategy != StrategyNone {
		t.Errorf("Strategy = %v, want none", res.Strategy)
	}
	if calls != 0 {
		t.Errorf("operation ran %d times, want 0 (permanent failures are never retried)", calls)
	}
}

func TestRecover_PermanentWithFallback(t *testing.T) {
	c := New(Config{
		Backoff:  fastBackoff(),
		Fallback: func(ctx context.Context) error { return nil },
	})

	res := c.Recover(context.Background(), permanent(), nil, func(ctx context.Context) error {
		t.Error("operation must not be retried for a permanent failure")
		return testErr
	})

	if !res.Attempted || !res.Succeeded {
		t.Errorf("result = %+v, want attempted and succeeded", res)
	}
	if res.Strategy != StrategyFallback {
		t.Errorf("Strategy = %v, want fallback", res.Strategy)
	}
}

func TestRecover_TransientRetriesUntilSuccess(t *testing.T) {
	c := New(Config{MaxRetries: 5, Backoff: fastBackoff()})
	cb := breaker.New(breaker.Config{Name: "r", FailureThreshold: 10})

	calls := 0
	res := c.Recover(context.Background(), transient(), cb, func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return testErr
		}
		return nil
	})

	if !res.Succeeded {
		t.Fatalf("result = %+v, want success", res)
	}
	if res.Strategy != StrategyRetry {
		t.Errorf("Strategy = %v, want retry", res.Strategy)
	}
	if res.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", res.Attempts)
	}

	// Every attempt outcome was reported to the breaker.
	stats := cb.Stats()
	if stats.TotalFailures != 2 || stats.TotalSuccesses != 1 {
		t.Errorf("breaker saw %d/%d failure/success, want 2/1", stats.TotalFailures, stats.TotalSuccesses)
	}
}

func TestRecover_TransientSkipsRetriesWhenCircuitOpen(t *testing.T) {
	c := New(Config{Backoff: fastBackoff()})
	cb := breaker.New(breaker.Config{Name: "r", FailureThreshold: 1})
	cb.RecordOutcome(false) // open it

	res := c.Recover(context.Background(), transient(), cb, func(ctx context.Context) error {
		t.Error("operation must not be retried through an open circuit")
		return testErr
	})

	if res.Attempted {
		t.Error("Attempted = true, want false when circuit is open")
	}
	if res.Strategy != StrategyNone {
		t.Errorf("Strategy = %v, want none", res.Strategy)
	}
}

func TestRecover_TransientRetriesExhausted(t *testing.T) {
	c := New(Config{MaxRetries: 3, Backoff: fastBackoff()})
	cb := breaker.New(breaker.Config{Name: "r", FailureThreshold: 10})

	calls := 0
	res := c.Recover(context.Background(), transient(), cb, func(ctx context.Context) error {
		calls++
		return testErr
	})

	if res.Succeeded {
		t.Error("Succeeded = true, want false")
	}
	if !res.Attempted || res.Attempts != 3 {
		t.Errorf("result = %+v, want 3 attempts", res)
	}
	if calls != 3 {
		t.Errorf("operation ran %d times, want 3", calls)
	}
}

func TestRecover_RetryStopsWhenCircuitOpensMidLoop(t *testing.T) {
	c := New(Config{MaxRetries: 5, Backoff: fastBackoff()})
	cb := breaker.New(breaker.Config{Name: "r", FailureThreshold: 2})

	calls := 0
	res := c.Recover(context.Background(), transient(), cb, func(ctx context.Context) error {
		calls++
		return testErr
	})

	// Our own failure reports open the circuit after two attempts; the
	// loop must stop there rather than retry into it.
	if calls != 2 {
		t.Errorf("operation ran %d times, want 2", calls)
	}
	if res.Attempts != 2 {
		t.Errorf("Attempts = %d, want 2", res.Attempts)
	}
	if cb.State() != breaker.StateOpen {
		t.Errorf("breaker state = %v, want open", cb.State())
	}
}

func TestRecover_UnknownSingleRetryThenDegrade(t *testing.T) {
	fallbackRan := false
	c := New(Config{
		MaxRetries: 5,
		Backoff:    fastBackoff(),
		Fallback: func(ctx context.Context) error {
			fallbackRan = true
			return nil
		},
	})
	cb := breaker.New(breaker.Config{Name: "r", FailureThreshold: 10})

	calls := 0
	res := c.Recover(context.Background(), unknown(), cb, func(ctx context.Context) error {
		calls++
		return testErr
	})

	if calls != 1 {
		t.Errorf("operation ran %d times, want exactly 1 conservative retry", calls)
	}
	if !fallbackRan {
		t.Error("degrade fallback did not run")
	}
	if res.Strategy != StrategyDegrade {
		t.Errorf("Strategy = %v, want degrade", res.Strategy)
	}
	if !res.Succeeded {
		t.Error("Succeeded = false, want true (fallback succeeded)")
	}
}

func TestRecover_UnknownRetrySucceeds(t *testing.T) {
	c := New(Config{
		Backoff:  fastBackoff(),
		Fallback: func(ctx context.Context) error { t.Error("fallback must not run"); return nil },
	})

	res := c.Recover(context.Background(), unknown(), nil, func(ctx context.Context) error {
		return nil
	})

	if !res.Succeeded || res.Strategy != StrategyRetry {
		t.Errorf("result = %+v, want retry success", res)
	}
}

func TestRecover_NilOperation(t *testing.T) {
	c := New(Config{Backoff: fastBackoff()})

	res := c.Recover(context.Background(), transient(), nil, nil)

	if res.Attempted {
		t.Error("Attempted = true, want false with no operation")
	}
	if res.Strategy != StrategyNone {
		t.Errorf("Strategy = %v, want none", res.Strategy)
	}
}

func TestRecover_CapacityExhausted(t *testing.T) {
	c := New(Config{MaxConcurrent: 1, Backoff: fastBackoff()})

	// Occupy the only recovery slot.
	if !c.sem.TryAcquire(1) {
		t.Fatal("could not occupy recovery slot")
	}
	defer c.sem.Release(1)

	res := c.Recover(context.Background(), transient(), nil, func(ctx context.Context) error {
		t.Error("operation must not run past capacity")
		return testErr
	})

	if res.Attempted {
		t.Error("Attempted = true, want false at capacity")
	}
	if res.Message != "recovery capacity exhausted" {
		t.Errorf("Message = %q, want capacity message", res.Message)
	}
}

func TestRecover_ContextCanceledDuringBackoff(t *testing.T) {
	c := New(Config{
		MaxRetries: 3,
		Backoff:    Backoff{Base: time.Hour, Strategy: BackoffConstant},
	})

	ctx, cancel := context.WithCancel(context.Background())
	res := make(chan Result, 1)
	go func() {
		res <- c.Recover(ctx, transient(), nil, func(ctx context.Context) error {
			return testErr
		})
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case got := <-res:
		if got.Succeeded {
			t.Error("Succeeded = true, want false after cancellation")
		}
		if got.Attempts != 1 {
			t.Errorf("Attempts = %d, want 1", got.Attempts)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Recover did not return after context cancellation")
	}
}

func TestRecover_OnRetryCallback(t *testing.T) {
	var attempts []int
	c := New(Config{
		MaxRetries: 3,
		Backoff:    fastBackoff(),
		OnRetry: func(attempt int, err error, delay time.Duration) {
			attempts = append(attempts, attempt)
		},
	})

	_ = c.Recover(context.Background(), transient(), nil, func(ctx context.Context) error {
		return testErr
	})

	// Called before each retry, not after the final attempt.
	if len(attempts) != 2 || attempts[0] != 1 || attempts[1] != 2 {
		t.Errorf("OnRetry attempts = %v, want [1 2]", attempts)
	}
}
