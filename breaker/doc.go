// Package breaker implements a named circuit breaker that protects a
// downstream resource from cascading failure.
//
// A breaker is a three-state machine (closed, open, half-open) with an
// explicit gate/record contract:
//
//	cb := breaker.New(breaker.Config{
//	    Name:             "payments-db",
//	    FailureThreshold: 5,
//	    OpenTimeout:      30 * time.Second,
//	    HalfOpenCapacity: 1,
//	})
//
//	if err := cb.Allow(); err != nil {
//	    return err // *RejectedError with state and timing context
//	}
//	err := doWork(ctx)
//	cb.RecordOutcome(err == nil)
//
// Execute composes the two calls for the common case. Neither Allow nor
// RecordOutcome blocks or performs I/O; the protected operation runs
// entirely on the caller's side between them.
//
// State transitions follow the legal table closed→open, open→half-open,
// half-open→{closed, open}. ForceOpen and ForceClose are operator
// overrides that bypass the table but remain atomic with respect to
// concurrent gate and record calls.
//
// Breakers are long-lived: one instance per protected resource,
// typically held in a Registry keyed by resource name.
package breaker
