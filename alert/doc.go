// Package alert classifies externally supplied performance alerts and
// feeds the ones that demand immediate attention back into a circuit
// breaker as synthetic failure signals.
//
// The package does not collect metrics. Alerts arrive already computed
// from a monitoring collaborator; the Policy decides whether an alert
// is critical, whether it needs immediate attention, and whether the
// designated breaker should be nudged toward opening before outright
// call failures accumulate. Feedback is rate limited so an alert storm
// cannot repeatedly force state transitions.
package alert
