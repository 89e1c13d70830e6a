// Package recovery selects and executes a recovery strategy for a
// classified failure.
//
// The Coordinator turns a classification into action: permanent
// failures are never retried (a fallback runs if one is configured),
// transient failures get bounded retries with backoff, and failures of
// unknown recoverability get a single conservative retry before
// degrading. Retries always consult the circuit breaker first, since
// retrying into an open circuit defeats its purpose, and every retry
// outcome is reported back to the breaker so interception by the
// recovery layer never hides failures from the breaker's accounting.
//
//	coord := recovery.New(recovery.Config{
//	    MaxRetries: 3,
//	    Backoff:    recovery.Backoff{Base: 100 * time.Millisecond},
//	    Fallback:   serveFromCache,
//	})
//	res := coord.Recover(ctx, cls, cb, op)
package recovery
