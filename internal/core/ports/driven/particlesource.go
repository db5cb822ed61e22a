package driven

import (
	"context"

	"github.com/custodia-labs/cytoset/internal/core/domain"
)

// ParticleSource loads a data file's particles and measurement metadata.
type ParticleSource interface {
	Load(ctx context.Context, path string) (*domain.DataFile, error)
}
