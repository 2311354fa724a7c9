package testkit

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"lizardflip/domain/core"
	"lizardflip/domain/flip"
	"lizardflip/ports"
)

// TestKit provides in-memory adapters and fixtures for tests and for running
// the tool without a database
type TestKit struct {
	repo *InMemoryAnalysisRepository
	rng  *SeededRNG
}

// NewTestKit creates a new test kit instance
func NewTestKit() *TestKit {
	return &TestKit{
		repo: NewInMemoryAnalysisRepository(),
		rng:  NewSeededRNG(),
	}
}

// AnalysisRepository returns the in-memory repository
func (t *TestKit) AnalysisRepository() ports.AnalysisRepository {
	return t.repo
}

// RNG returns the deterministic RNG adapter
func (t *TestKit) RNG() ports.RNGPort {
	return t.rng
}

// InMemoryAnalysisRepository implements ports.AnalysisRepository backed by a map
type InMemoryAnalysisRepository struct {
	mu       sync.RWMutex
	analyses map[core.AnalysisID]*flip.Analysis
}

// NewInMemoryAnalysisRepository creates an empty in-memory repository
func NewInMemoryAnalysisRepository() *InMemoryAnalysisRepository {
	return &InMemoryAnalysisRepository{
		analyses: make(map[core.AnalysisID]*flip.Analysis),
	}
}

// Save stores an analysis (idempotent on ID)
func (r *InMemoryAnalysisRepository) Save(ctx context.Context, analysis *flip.Analysis) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *analysis
	r.analyses[analysis.ID] = &copied
	return nil
}

// Get retrieves an analysis by ID
func (r *InMemoryAnalysisRepository) Get(ctx context.Context, id core.AnalysisID) (*flip.Analysis, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	analysis, ok := r.analyses[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %s", core.ErrAnalysisNotFound, id)
	}
	copied := *analysis
	return &copied, nil
}

// List returns analyses newest first
func (r *InMemoryAnalysisRepository) List(ctx context.Context, limit int) ([]*flip.Analysis, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*flip.Analysis, 0, len(r.analyses))
	for _, analysis := range r.analyses {
		copied := *analysis
		all = append(all, &copied)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[j].CreatedAt.Before(all[i].CreatedAt)
	})

	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// Delete removes an analysis by ID
func (r *InMemoryAnalysisRepository) Delete(ctx context.Context, id core.AnalysisID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.analyses[id]; !ok {
		return fmt.Errorf("%w: id %s", core.ErrAnalysisNotFound, id)
	}
	delete(r.analyses, id)
	return nil
}

// Len reports how many analyses are stored
func (r *InMemoryAnalysisRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.analyses)
}
