package driven

import (
	"time"

	"github.com/custodia-labs/cytoset/internal/core/domain"
)

// DefinitionSerializer renders a SetsList as a self-describing document
// tagged with the instrument configuration date. Every set is written,
// in list order.
type DefinitionSerializer interface {
	Serialize(sets *domain.SetsList, configurationDate time.Time) (string, error)
}
