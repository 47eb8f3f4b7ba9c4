package sunit

import (
	"fmt"
	"sync"
)

// Declarer is anything that yields a type declaration (a *Type or a Builder).
type Declarer interface {
	Declare() *Type
}

// Registry is the closed set of candidate types a host runs tests from.
type Registry struct {
	mu         sync.RWMutex
	types      []*Type
	byName     map[string]*Type
	generation uint64
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Type)}
}

// Default is the process-wide registry used by Register and MustRegister.
var Default = NewRegistry()

// Register adds types in order. Names must be unique and non-empty. The
// batch is all or nothing: on error the registry is left unchanged.
func (r *Registry) Register(decls ...Declarer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	batch := make([]*Type, 0, len(decls))
	seen := make(map[string]struct{}, len(decls))
	for _, d := range decls {
		t := d.Declare()
		if t == nil || t.Name == "" {
			return fmt.Errorf("register: type name is required")
		}
		if _, ok := r.byName[t.Name]; ok {
			return fmt.Errorf("register %q: %w", t.Name, ErrDuplicateType)
		}
		if _, ok := seen[t.Name]; ok {
			return fmt.Errorf("register %q: %w", t.Name, ErrDuplicateType)
		}
		seen[t.Name] = struct{}{}
		batch = append(batch, t)
	}

	for _, t := range batch {
		r.types = append(r.types, t)
		r.byName[t.Name] = t
	}
	r.generation++
	return nil
}

// Lookup returns the type registered under name.
func (r *Registry) Lookup(name string) (*Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byName[name]
	return t, ok
}

// Types returns the registered types in registration order.
func (r *Registry) Types() []*Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Type, len(r.types))
	copy(out, r.types)
	return out
}

// Reset drops every registered type.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types = nil
	r.byName = make(map[string]*Type)
	r.generation++
}

// Generation changes every time the set of registered types changes.
func (r *Registry) Generation() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.generation
}

// Register adds types to the Default registry.
func Register(decls ...Declarer) error {
	return Default.Register(decls...)
}

// MustRegister adds types to the Default registry and panics on error.
// Intended for init functions.
func MustRegister(decls ...Declarer) {
	if err := Default.Register(decls...); err != nil {
		panic(err)
	}
}
