package breaker

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.opentelemetry.io/otel/metric"

	"github.com/jonwraymond/guardrail/observe"
)

// Config configures a circuit breaker.
type Config struct {
	// Name identifies the protected resource.
	Name string

	// FailureThreshold is the number of failures within the window that
	// forces the circuit open.
	// Default: 5
	FailureThreshold int

	// OpenTimeout is how long the circuit stays open before a gate call
	// may transition it to half-open.
	// Default: 30 seconds
	OpenTimeout time.Duration

	// HalfOpenCapacity is the max number of probe calls in flight while
	// half-open. Capacity rejections are immediate, there is no queue.
	// Default: 1
	HalfOpenCapacity int

	// Window bounds how long a failure counts toward the threshold.
	// Zero disables time-based decay and the failure count behaves as a
	// plain counter until the circuit closes.
	Window time.Duration

	// Clock is the time source. Injectable for deterministic tests.
	// Default: the wall clock.
	Clock clock.Clock

	// OnStateChange is called after each state transition while the
	// breaker lock is held. Keep it fast and do not call back into the
	// breaker.
	OnStateChange func(name string, from, to State)

	// Logger receives state-change and rejection logs.
	// Default: discard.
	Logger observe.Logger

	// Meter receives breaker telemetry.
	// Default: noop.
	Meter metric.Meter
}

// CircuitBreaker is the state machine guarding one resource.
//
// All fields behind mu form one unit: every read-modify-write sequence
// (threshold check + transition, capacity check + increment) happens
// under the single mutex, so concurrent Allow and RecordOutcome calls
// observe a consistent machine.
type CircuitBreaker struct {
	name             string
	failureThreshold int
	openTimeout      time.Duration
	halfOpenCapacity int
	clock            clock.Clock
	onStateChange    func(name string, from, to State)
	log              observe.Logger
	metrics          *breakerMetrics

	mu               sync.Mutex
	state            State
	openedAt         time.Time
	window           *FailureWindow
	halfOpenInFlight int
}

// New creates a circuit breaker in the closed state.
func New(cfg Config) *CircuitBreaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}
	if cfg.HalfOpenCapacity <= 0 {
		cfg.HalfOpenCapacity = 1
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	if cfg.Logger == nil {
		cfg.Logger = observe.NopLogger()
	}

	metrics := noopBreakerMetrics()
	if cfg.Meter != nil {
		if m, err := newBreakerMetrics(cfg.Meter); err == nil {
			metrics = m
		}
	}

	return &CircuitBreaker{
		name:             cfg.Name,
		failureThreshold: cfg.FailureThreshold,
		openTimeout:      cfg.OpenTimeout,
		halfOpenCapacity: cfg.HalfOpenCapacity,
		clock:            cfg.Clock,
		onStateChange:    cfg.OnStateChange,
		log:              cfg.Logger.WithComponent("breaker"),
		metrics:          metrics,
		state:            StateClosed,
		window:           NewFailureWindow(cfg.Window),
	}
}

// Name returns the protected resource name.
func (cb *CircuitBreaker) Name() string { return cb.name }

// Allow gates a call. It returns nil when the call may proceed and a
// *RejectedError otherwise. Allow never blocks.
//
// Closed: always allowed. Open: allowed once the open timeout elapsed,
// in which case the circuit transitions to half-open and the call
// becomes a probe. Half-open: allowed while probe slots remain.
//
// Every allowed call must be matched by exactly one RecordOutcome.
func (cb *CircuitBreaker) Allow() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	now := cb.clock.Now()

	switch cb.state {
	case StateOpen:
		elapsed := now.Sub(cb.openedAt)
		if elapsed < cb.openTimeout {
			rej := newCircuitOpen(cb.name, cb.openedAt, cb.openTimeout-elapsed, cb.window.Failures(now))
			cb.metrics.recordRejection(cb.name, StateOpen)
			return rej
		}
		// Timeout elapsed: this call wins the probe slot.
		cb.transitionLocked(StateHalfOpen, now)
		cb.halfOpenInFlight = 1
		return nil

	case StateHalfOpen:
		if cb.halfOpenInFlight >= cb.halfOpenCapacity {
			cb.metrics.recordRejection(cb.name, StateHalfOpen)
			return newHalfOpenAtCapacity(cb.name)
		}
		cb.halfOpenInFlight++
		return nil

	default: // StateClosed
		return nil
	}
}

// RecordOutcome records the result of a call previously admitted by
// Allow. In the closed state a failure counts toward the threshold and
// may open the circuit. In the half-open state the probe outcome
// decides the next state: success closes the circuit and resets the
// failure window, failure reopens it and restamps the opened-at time.
//
// Callers that abandon the protected operation must still call
// RecordOutcome(false); skipping it leaks a probe slot and skews the
// failure accounting.
func (cb *CircuitBreaker) RecordOutcome(success bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	now := cb.clock.Now()
	cb.metrics.recordOutcome(cb.name, success)

	switch cb.state {
	case StateClosed:
		if success {
			cb.window.RecordSuccess()
			return
		}
		cb.window.RecordFailure(now)
		if cb.window.Failures(now) >= cb.failureThreshold {
			cb.transitionLocked(StateOpen, now)
		}

	case StateHalfOpen:
		if cb.halfOpenInFlight > 0 {
			cb.halfOpenInFlight--
		}
		if success {
			cb.window.RecordSuccess()
			cb.transitionLocked(StateClosed, now)
			return
		}
		cb.window.RecordFailure(now)
		cb.transitionLocked(StateOpen, now)

	case StateOpen:
		// Late outcome from a call admitted before the circuit opened.
		// It still counts in the window but cannot move the machine.
		if success {
			cb.window.RecordSuccess()
		} else {
			cb.window.RecordFailure(now)
		}
	}
}

// Execute runs the operation through the breaker: gate, run, record.
// Gate rejections are returned as-is and the operation is not invoked.
func (cb *CircuitBreaker) Execute(ctx context.Context, op func(context.Context) error) error {
	if err := cb.Allow(); err != nil {
		return err
	}

	err := op(ctx)
	cb.RecordOutcome(err == nil)
	return err
}

// State returns the current circuit state. The state reported is the
// stored one; an expired open timeout shows as open until the next
// Allow performs the transition.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// ForceClose is an operator override that closes the circuit and
// resets the failure window regardless of the legal transition table.
func (cb *CircuitBreaker) ForceClose() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.forceLocked(StateClosed)
}

// ForceOpen is an operator override that opens the circuit regardless
// of the legal transition table.
func (cb *CircuitBreaker) ForceOpen() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.forceLocked(StateOpen)
}

// Stats is a point-in-time snapshot of the breaker.
type Stats struct {
	Name           string
	State          State
	OpenedAt       time.Time
	RecentFailures int
	TotalFailures  uint64
	TotalSuccesses uint64
	ProbesInFlight int
}

// Stats returns a snapshot of the breaker state and counters.
func (cb *CircuitBreaker) Stats() Stats {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return Stats{
		Name:           cb.name,
		State:          cb.state,
		OpenedAt:       cb.openedAt,
		RecentFailures: cb.window.Failures(cb.clock.Now()),
		TotalFailures:  cb.window.TotalFailures(),
		TotalSuccesses: cb.window.TotalSuccesses(),
		ProbesInFlight: cb.halfOpenInFlight,
	}
}

// transitionLocked performs a legal-table transition. Internal call
// sites only request legal moves; a rejected request indicates an
// accounting bug and is logged rather than ignored.
func (cb *CircuitBreaker) transitionLocked(to State, now time.Time) {
	next, err := Transition(cb.state, to)
	if err != nil {
		cb.log.Error(context.Background(), "illegal transition requested",
			observe.String("name", cb.name),
			observe.String("from", cb.state.String()),
			observe.String("to", to.String()),
		)
		return
	}

	from := cb.state
	cb.applyLocked(from, next, now)
}

// forceLocked applies an operator override, bypassing the legal table.
func (cb *CircuitBreaker) forceLocked(to State) {
	if cb.state == to {
		return
	}
	cb.applyLocked(cb.state, to, cb.clock.Now())
}

func (cb *CircuitBreaker) applyLocked(from, to State, now time.Time) {
	cb.state = to

	switch to {
	case StateOpen:
		cb.openedAt = now
		cb.halfOpenInFlight = 0
	case StateHalfOpen:
		cb.openedAt = time.Time{}
		cb.halfOpenInFlight = 0
	case StateClosed:
		cb.openedAt = time.Time{}
		cb.halfOpenInFlight = 0
		cb.window.Reset()
	}

	cb.metrics.recordTransition(cb.name, from, to)
	cb.log.Info(context.Background(), "state change",
		observe.String("name", cb.name),
		observe.String("from", from.String()),
		observe.String("to", to.String()),
	)

	if cb.onStateChange != nil {
		cb.onStateChange(cb.name, from, to)
	}
}
