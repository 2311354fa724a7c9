package ports

import (
	"context"

	"lizardflip/domain/core"
	"lizardflip/domain/flip"
)

// AnalysisRepository persists completed analyses
type AnalysisRepository interface {
	// Save stores an analysis (idempotent on ID)
	Save(ctx context.Context, analysis *flip.Analysis) error

	// Get retrieves an analysis by ID, returning core.ErrAnalysisNotFound
	// when absent
	Get(ctx context.Context, id core.AnalysisID) (*flip.Analysis, error)

	// List returns the most recent analyses, newest first
	List(ctx context.Context, limit int) ([]*flip.Analysis, error)

	// Delete removes an analysis by ID
	Delete(ctx context.Context, id core.AnalysisID) error
}
