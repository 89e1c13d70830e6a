package recovery

import (
	"testing"
	"time"
)

func TestBackoff_Exponential(t *testing.T) {
	b := Backoff{Base: 100 * time.Millisecond, Max: time.Minute, Multiplier: 2.0}.withDefaults()

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 100 * time.Millisecond},
		{2, 200 * time.Millisecond},
		{3, 400 * time.Millisecond},
		{4, 800 * time.Millisecond},
	}

	for _, tt := range tests {
		if got := b.Delay(tt.attempt); got != tt.want {
			t.Errorf("Delay(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestBackoff_Linear(t *testing.T) {
	b := Backoff{Base: 50 * time.Millisecond, Strategy: BackoffLinear}.withDefaults()

	if got := b.Delay(3); got != 150*time.Millisecond {
		t.Errorf("Delay(3) = %v, want 150ms", got)
	}
}

func TestBackoff_Constant(t *testing.T) {
	b := Backoff{Base: 50 * time.Millisecond, Strategy: BackoffConstant}.withDefaults()

	for attempt := 1; attempt <= 5; attempt++ {
		if got := b.Delay(attempt); got != 50*time.Millisecond {
			t.Errorf("Delay(%d) = %v, want 50ms", attempt, got)
		}
	}
}

func TestBackoff_CappedAtMax(t *testing.T) {
	b := Backoff{Base: time.Second, Max: 3 * time.Second, Multiplier: 10}.withDefaults()

	if got := b.Delay(5); got != 3*time.Second {
		t.Errorf("Delay(5) = %v, want capped 3s", got)
	}
}

func TestBackoff_Jitter(t *testing.T) {
	b := Backoff{Base: 100 * time.Millisecond, Jitter: true}.withDefaults()

	for i := 0; i < 100; i++ {
		got := b.Delay(1)
		if got < 100*time.Millisecond || got > 125*time.Millisecond {
			t.Fatalf("Delay(1) with jitter = %v, want within [100ms, 125ms]", got)
		}
	}
}

func TestBackoff_Defaults(t *testing.T) {
	b := Backoff{}.withDefaults()

	if b.Base != 100*time.Millisecond {
		t.Errorf("Base = %v, want 100ms", b.Base)
	}
	if b.Max != 30*time.Second {
		t.Errorf("Max = %v, want 30s", b.Max)
	}
	if b.Multiplier != 2.0 {
		t.Errorf("Multiplier = %v, want 2.0", b.Multiplier)
	}
}
