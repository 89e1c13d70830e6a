package recovery

import (
	"math"
	"math/rand"
	"time"
)

// BackoffStrategy defines how delays increase between retries.
type BackoffStrategy int

const (
	// BackoffExponential multiplies the delay each attempt.
	BackoffExponential BackoffStrategy = iota
	// BackoffLinear increases delay linearly.
	BackoffLinear
	// BackoffConstant uses the same delay for all retries.
	BackoffConstant
)

// Backoff computes the delay before each retry attempt.
type Backoff struct {
	// Base is the delay before the first retry.
	// Default: 100ms
	Base time.Duration

	// Max caps the delay between retries.
	// Default: 30s
	Max time.Duration

	// Multiplier is the growth factor for exponential backoff.
	// Default: 2.0
	Multiplier float64

	// Strategy is the backoff curve.
	// Default: BackoffExponential
	Strategy BackoffStrategy

	// Jitter adds up to 25% randomness to prevent thundering herd.
	Jitter bool
}

func (b Backoff) withDefaults() Backoff {
	if b.Base <= 0 {
		b.Base = 100 * time.Millisecond
	}
	if b.Max <= 0 {
		b.Max = 30 * time.Second
	}
	if b.Multiplier <= 0 {
		b.Multiplier = 2.0
	}
	return b
}

// Delay returns the delay before the given retry attempt (1-based).
func (b Backoff) Delay(attempt int) time.Duration {
	var delay time.Duration

	switch b.Strategy {
	case BackoffConstant:
		delay = b.Base

	case BackoffLinear:
		delay = b.Base * time.Duration(attempt)

	case BackoffExponential:
		multiplier := math.Pow(b.Multiplier, float64(attempt-1))
		delay = time.Duration(float64(b.Base) * multiplier)
	}

	if delay > b.Max {
		delay = b.Max
	}

	if b.Jitter && delay >= 4 {
		// #nosec G404 -- jitter is non-cryptographic timing variance.
		delay += time.Duration(rand.Int63n(int64(delay / 4)))
	}

	return delay
}
