package schema

import (
	"fmt"
	"sort"
	"sync"
)

// Registry is a process-wide name -> Binding table, the way applications
// register their config record types once at startup and then look them up
// by name from a dotted "create(schema_name)" entry point (spec.md §6.2),
// grounded on the teacher's schema/registry.go sync.RWMutex-guarded map.
type Registry struct {
	mu       sync.RWMutex
	bindings map[string]*Binding
}

// NewRegistry returns an empty schema registry.
func NewRegistry() *Registry {
	return &Registry{bindings: map[string]*Binding{}}
}

// ErrSchemaExists is returned by Register when name is already bound and
// replace is false.
var ErrSchemaExists = fmt.Errorf("schema already registered")

// Register binds name to b.
func (r *Registry) Register(name string, b *Binding, replace bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.bindings[name]; exists && !replace {
		return fmt.Errorf("%s: %w", name, ErrSchemaExists)
	}
	r.bindings[name] = b
	return nil
}

// Lookup returns the binding registered under name, if any.
func (r *Registry) Lookup(name string) (*Binding, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bindings[name]
	return b, ok
}

// All returns every registered schema name, sorted.
func (r *Registry) All() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.bindings))
	for n := range r.bindings {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Clear removes every registered schema, for test isolation.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bindings = map[string]*Binding{}
}
