package driving

import (
	"context"

	"github.com/custodia-labs/cytoset/internal/core/domain"
)

// VolumeEstimator attributes analysed sample volume to resolved sets.
type VolumeEstimator interface {
	// Estimate computes the imaged volume of a set defined by the file's own
	// imaging configuration. NaN means the volume is undefined.
	Estimate(ctx context.Context, mc domain.MeasurementContext, set *domain.Set, numInSet, numImaged int) (float64, error)

	// EstimateOverride computes the imaged volume of a set that came from an
	// override definition, by testing containment in the file's own resolved
	// imaging sets.
	EstimateOverride(
		ctx context.Context,
		mc domain.MeasurementContext,
		imagingSets *domain.SetsList,
		set *domain.Set,
		numInSet, numImaged int,
	) (float64, error)

	// Statistics builds the per-set statistics table in list order.
	// A nil imagingSets selects direct estimation. An empty, non-nil list
	// means the file's own imaging definition was unavailable, so override
	// volumes are NaN except under target-all imaging.
	Statistics(
		ctx context.Context,
		file *domain.DataFile,
		sets *domain.SetsList,
		imagingSets *domain.SetsList,
	) ([]domain.SetStatistics, error)
}
