package breaker

// State represents the circuit breaker state.
type State int

const (
	// StateClosed means the circuit is operating normally.
	StateClosed State = iota
	// StateOpen means the circuit is blocking all requests.
	StateOpen
	// StateHalfOpen means the circuit is testing if the resource recovered.
	StateHalfOpen
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// legalTransitions is the transition table. A breaker may only move
// closed→open, open→half-open, and half-open→{closed, open}.
var legalTransitions = map[State][]State{
	StateClosed:   {StateOpen},
	StateOpen:     {StateHalfOpen},
	StateHalfOpen: {StateClosed, StateOpen},
}

// CanTransition reports whether moving from one state to another is legal.
func CanTransition(from, to State) bool {
	for _, next := range legalTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition validates a requested state change against the legal table.
// It returns the target state, or ErrInvalidTransition without changing
// anything. Illegal requests are rejected, never silently ignored.
func Transition(from, to State) (State, error) {
	if !CanTransition(from, to) {
		return from, ErrInvalidTransition
	}
	return to, nil
}
