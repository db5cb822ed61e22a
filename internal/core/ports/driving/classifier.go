package driving

import (
	"context"

	"github.com/custodia-labs/cytoset/internal/core/domain"
)

// Classifier resolves set membership for one particle population.
type Classifier interface {
	// Resolve returns a resolved copy of sets. The input list is not modified.
	// The result depends only on list order, the exclusive flag and the
	// particles' features, so repeated calls yield identical memberships.
	Resolve(ctx context.Context, sets *domain.SetsList, particles []domain.Particle) (*domain.SetsList, error)
}
