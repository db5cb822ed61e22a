package driven

import (
	"context"

	"github.com/custodia-labs/cytoset/internal/core/domain"
)

// RunStore persists analysis run summaries.
type RunStore interface {
	// Save stores a run with its statistics.
	Save(ctx context.Context, run *domain.AnalysisRun) error

	// Get retrieves a run by ID.
	// Returns domain.ErrNotFound if the run does not exist.
	Get(ctx context.Context, id string) (*domain.AnalysisRun, error)

	// List returns runs, most recent first. A limit of zero returns all runs.
	List(ctx context.Context, limit int) ([]domain.AnalysisRun, error)

	// Delete removes a run and its statistics.
	Delete(ctx context.Context, id string) error
}
