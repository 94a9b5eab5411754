package pattern

import (
	"fmt"
	"sort"
	"sync"
)

// Registry stores patterns by name, providing discovery and duplication
// safeguards. Callers can embed or wrap this for dependency injection.
type Registry struct {
	mu       sync.RWMutex
	patterns map[string]Pattern
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		patterns: make(map[string]Pattern),
	}
}

// Register adds a pattern by its Name(). Duplicate names return an error.
func (r *Registry) Register(p Pattern) error {
	if p == nil {
		return fmt.Errorf("pattern: pattern is required")
	}
	name := p.Name()
	if name == "" {
		return fmt.Errorf("pattern: pattern name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.patterns[name]; exists {
		return fmt.Errorf("pattern: pattern %q already registered", name)
	}

	r.patterns[name] = p
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(p Pattern) {
	if err := r.Register(p); err != nil {
		panic(err)
	}
}

// Get retrieves a pattern by name.
func (r *Registry) Get(name string) (Pattern, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.patterns[name]
	if !ok {
		return nil, fmt.Errorf("pattern: pattern %q not found", name)
	}
	return p, nil
}

// List returns a sorted list of pattern names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.patterns))
	for name := range r.patterns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether a pattern is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.patterns[name]
	return ok
}
