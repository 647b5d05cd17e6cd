// Package registry tracks the live categorizer per domain and supports
// hot-swapping instances without locking out concurrent readers.
package registry

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/MaksimVF/AI-BackLog-Assistant-sub002/internal/domain"
)

// slot holds the current categorizer for one domain. Replacement is a single
// atomic store, so a reader sees either the old or the new instance.
type slot struct {
	current atomic.Value // cell
}

// cell wraps the interface in one concrete type. atomic.Value requires every
// store to carry the same dynamic type, and registered categorizer
// implementations may differ.
type cell struct {
	categorizer domain.Categorizer
}

// Registry implements the domain.CategorizerRegistry interface with one
// atomic cell per domain. The mutex only guards the slot map itself; swapping
// domain A never blocks a categorization on domain B.
type Registry struct {
	mu    sync.RWMutex
	slots map[string]*slot
}

// NewRegistry creates an empty categorizer registry.
func NewRegistry() *Registry {
	return &Registry{
		mu:    sync.RWMutex{},
		slots: make(map[string]*slot),
	}
}

// Register publishes a categorizer for a domain, replacing any previous one.
// The categorizer must be fully constructed before this call.
func (r *Registry) Register(domainKey string, categorizer domain.Categorizer) {
	if domainKey == "" || categorizer == nil {
		return
	}

	r.mu.Lock()
	s, exists := r.slots[domainKey]
	if !exists {
		s = &slot{}
		r.slots[domainKey] = s
	}
	r.mu.Unlock()

	s.current.Store(cell{categorizer: categorizer})
}

// Get retrieves the live categorizer for a domain.
func (r *Registry) Get(domainKey string) (domain.Categorizer, bool) {
	r.mu.RLock()
	s, exists := r.slots[domainKey]
	r.mu.RUnlock()

	if !exists {
		return nil, false
	}

	c, ok := s.current.Load().(cell)
	if !ok {
		return nil, false
	}

	return c.categorizer, true
}

// Domains returns all registered domain keys in stable order.
func (r *Registry) Domains() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.slots))
	for key := range r.slots {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return keys
}
