// Package strategyrepo stores strategy graph drafts for the editor.
package strategyrepo

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/bigking1998/algo-trade-bot-sub010/internal/core/strategy"
)

// InMemoryRepository provides an in-memory strategy draft store
// PRINCIPLES:
// - KISS: Simple map-based storage
// - SRP: Only responsible for draft storage
// - Thread-safe
type InMemoryRepository struct {
	mu     sync.RWMutex
	drafts map[string]*strategy.Graph
}

// NewInMemoryRepository creates an empty draft store.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		drafts: make(map[string]*strategy.Graph),
	}
}

// Save stores a draft under its graph ID, replacing any previous version.
// Structural integrity is checked before saving; semantic validation is
// the rule engine's job and unvalidated drafts are legal here.
func (r *InMemoryRepository) Save(ctx context.Context, g *strategy.Graph) error {
	if g == nil {
		return strategy.ErrNilGraph
	}
	if g.ID == "" {
		return strategy.ErrInvalidGraphName
	}
	if err := g.Validate(); err != nil {
		return fmt.Errorf("invalid graph: %w", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drafts[g.ID] = g
	return nil
}

// Get returns the draft with the given ID.
func (r *InMemoryRepository) Get(ctx context.Context, id string) (*strategy.Graph, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.drafts[id]
	if !ok {
		return nil, strategy.ErrGraphNotFound
	}
	return g, nil
}

// List returns all drafts sorted by ID.
func (r *InMemoryRepository) List(ctx context.Context) ([]*strategy.Graph, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*strategy.Graph, 0, len(r.drafts))
	for _, g := range r.drafts {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Delete removes a draft. Returns true if it existed.
func (r *InMemoryRepository) Delete(ctx context.Context, id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.drafts[id]
	delete(r.drafts, id)
	return ok
}
