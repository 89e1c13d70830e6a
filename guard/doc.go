// Package guard assembles the full error handling pipeline: gate the
// call through a circuit breaker, classify the failure, run the
// recovery strategy the classification calls for, report incidents
// recovery could not resolve, and return a single typed result.
//
// A gate rejection is surfaced synchronously to the caller and never
// retried internally. Operation failures are handled inside the
// pipeline up to the configured retry and fallback budget; past that
// the pipeline escalates to an incident report or a terminal failure,
// both returned as data.
package guard
