package driven

import (
	"context"

	"github.com/custodia-labs/cytoset/internal/core/domain"
)

// DefinitionSource loads set definitions for a data file.
type DefinitionSource interface {
	// LoadOverride reads a user-supplied definition file.
	// Fails with domain.ErrUnsupportedFormat for unknown extensions,
	// domain.ErrLegacyFormatUnsupported for obsolete schemas and
	// domain.ErrUnsupportedImagingMode when the file uses SmartGrid imaging.
	LoadOverride(ctx context.Context, path string, file *domain.DataFile) (*domain.SetsList, error)

	// LoadEmbedded decodes the definition carried by the data file itself.
	// Fails with domain.ErrMissingRegionDefinition when there is none and
	// domain.ErrUnsupportedImagingMode for SmartGrid imaging.
	LoadEmbedded(ctx context.Context, file *domain.DataFile) (*domain.SetsList, error)
}
