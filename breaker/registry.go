package breaker

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry holds circuit breakers keyed by resource name. Callers hold
// a reference to the registry (or to individual breakers); tests can
// construct isolated instances instead of sharing ambient state.
type Registry struct {
	mu       sync.RWMutex
	breakers map[string]*CircuitBreaker
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{breakers: make(map[string]*CircuitBreaker)}
}

// Register adds a breaker under its resource name.
func (r *Registry) Register(cb *CircuitBreaker) error {
	if cb == nil || strings.TrimSpace(cb.Name()) == "" {
		return fmt.Errorf("breaker: invalid registration")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.breakers[cb.Name()]; exists {
		return fmt.Errorf("breaker %q: %w", cb.Name(), ErrAlreadyRegistered)
	}
	r.breakers[cb.Name()] = cb
	return nil
}

// Get returns the breaker registered under name.
func (r *Registry) Get(name string) (*CircuitBreaker, error) {
	r.mu.RLock()
	cb, ok := r.breakers[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("breaker %q: %w", name, ErrNotRegistered)
	}
	return cb, nil
}

// GetOrCreate returns the breaker registered under cfg.Name, creating
// and registering one from cfg if absent.
func (r *Registry) GetOrCreate(cfg Config) *CircuitBreaker {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cb, ok := r.breakers[cfg.Name]; ok {
		return cb
	}
	cb := New(cfg)
	r.breakers[cfg.Name] = cb
	return cb
}

// Names returns registered resource names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.breakers))
	for name := range r.breakers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
