package driving

import (
	"context"

	"github.com/custodia-labs/cytoset/internal/core/domain"
)

// RunHistory exposes persisted analysis runs.
type RunHistory interface {
	List(ctx context.Context, limit int) ([]domain.AnalysisRun, error)
	Get(ctx context.Context, id string) (*domain.AnalysisRun, error)
	Delete(ctx context.Context, id string) error
}
