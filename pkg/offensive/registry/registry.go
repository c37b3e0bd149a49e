// Package registry provides the lookup tables that map assertion and
// operator names to their implementations.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Sentinel errors for registration.
var (
	// ErrEmptyName indicates a registration without a name.
	ErrEmptyName = errors.New("name is required")

	// ErrNotFound indicates an alias points at an unknown name.
	ErrNotFound = errors.New("name not registered")
)

// Registry is a thread-safe table of named entries with aliases.
// An alias resolves to the entry of its target at lookup time, so
// re-registering the target also changes what the alias returns.
// It uses sync.RWMutex for read-heavy workloads.
type Registry[V any] struct {
	mu      sync.RWMutex
	entries map[string]V
	aliases map[string]string
}

// New creates a new empty registry.
func New[V any]() *Registry[V] {
	return &Registry[V]{
		entries: make(map[string]V),
		aliases: make(map[string]string),
	}
}

// Register adds or replaces an entry. Registering a name that was an alias
// turns it into a plain entry.
func (r *Registry[V]) Register(name string, value V) error {
	if name == "" {
		return ErrEmptyName
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.aliases, name)
	r.entries[name] = value
	return nil
}

// RegisterMany adds multiple entries.
func (r *Registry[V]) RegisterMany(entries map[string]V) error {
	for name, value := range entries {
		if err := r.Register(name, value); err != nil {
			return err
		}
	}
	return nil
}

// Alias makes alias resolve to target. Target may itself be an alias; the
// chain is collapsed to the entry name.
func (r *Registry[V]) Alias(alias, target string) error {
	if alias == "" || target == "" {
		return ErrEmptyName
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	canonical, ok := r.resolve(target)
	if !ok {
		return fmt.Errorf("alias %q -> %q: %w", alias, target, ErrNotFound)
	}
	if canonical == alias {
		return fmt.Errorf("alias %q refers to itself", alias)
	}
	delete(r.entries, alias)
	r.aliases[alias] = canonical
	return nil
}

// resolve must be called with the lock held.
func (r *Registry[V]) resolve(name string) (string, bool) {
	if canonical, ok := r.aliases[name]; ok {
		name = canonical
	}
	_, ok := r.entries[name]
	return name, ok
}

// Get returns the entry for name, following aliases.
func (r *Registry[V]) Get(name string) (V, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	canonical, ok := r.resolve(name)
	if !ok {
		var zero V
		return zero, false
	}
	return r.entries[canonical], true
}

// Canonical returns the entry name an alias resolves to. For plain entries
// it returns name itself.
func (r *Registry[V]) Canonical(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.resolve(name)
}

// Has returns true if name resolves to an entry.
func (r *Registry[V]) Has(name string) bool {
	_, ok := r.Canonical(name)
	return ok
}

// Names returns all entry and alias names, sorted.
func (r *Registry[V]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries)+len(r.aliases))
	for name := range r.entries {
		names = append(names, name)
	}
	for name := range r.aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of entries, not counting aliases.
func (r *Registry[V]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Clone returns an independent copy. Entries themselves are copied by value.
func (r *Registry[V]) Clone() *Registry[V] {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c := New[V]()
	for name, value := range r.entries {
		c.entries[name] = value
	}
	for alias, target := range r.aliases {
		c.aliases[alias] = target
	}
	return c
}
