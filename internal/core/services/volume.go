package services

import (
	"context"
	"fmt"
	"math"

	"github.com/custodia-labs/cytoset/internal/core/domain"
	"github.com/custodia-labs/cytoset/internal/core/ports/driven"
	"github.com/custodia-labs/cytoset/internal/core/ports/driving"
	"github.com/custodia-labs/cytoset/internal/logger"
)

// Ensure VolumeEstimator implements the interface.
var _ driving.VolumeEstimator = (*VolumeEstimator)(nil)

const (
	volumeModeDirect   = "direct"
	volumeModeOverride = "override"
)

// VolumeEstimator attributes the analysed volume to sets' imaged particles.
type VolumeEstimator struct {
	metrics driven.MetricsRecorder
}

// NewVolumeEstimator creates a volume estimator.
// The metrics parameter is optional (can be nil).
func NewVolumeEstimator(metrics driven.MetricsRecorder) *VolumeEstimator {
	return &VolumeEstimator{metrics: metrics}
}

// Estimate computes a set's imaged volume from the file's own imaging
// configuration.
func (v *VolumeEstimator) Estimate(
	_ context.Context, mc domain.MeasurementContext, set *domain.Set, numInSet, numImaged int,
) (float64, error) {
	var volume float64
	switch mc.ImagingMode {
	case domain.ImagingModeTargetRange:
		// The default set is "everything"; no imaging target attaches to it.
		if set.IsDefault() {
			volume = math.NaN()
		} else {
			volume = scaledVolume(mc.AnalyzedVolume, numInSet, numImaged)
		}
	case domain.ImagingModeSetDefinitionSelector:
		if mc.WantsImagesFor(set.ListID) {
			volume = scaledVolume(mc.AnalyzedVolume, numInSet, numImaged)
		} else {
			volume = math.NaN()
		}
	case domain.ImagingModeTargetAll:
		volume = scaledVolume(mc.AnalyzedVolume, numInSet, numImaged)
	default:
		return math.NaN(), unvalidatedMode(mc.ImagingMode)
	}
	v.observe(volumeModeDirect, volume)
	return volume, nil
}

// EstimateOverride computes the imaged volume of an override-defined set.
// The volume is only defined when every member of the set lies inside a
// set the instrument was actually imaging.
func (v *VolumeEstimator) EstimateOverride(
	_ context.Context,
	mc domain.MeasurementContext,
	imagingSets *domain.SetsList,
	set *domain.Set,
	numInSet, numImaged int,
) (float64, error) {
	if imagingSets == nil {
		return math.NaN(), fmt.Errorf("%w: override estimate without imaging sets", domain.ErrInternalConfiguration)
	}

	var volume float64
	if imagingSets.Len() == 0 {
		// The file's own definition was unavailable: nothing to be contained in.
		switch mc.ImagingMode {
		case domain.ImagingModeTargetAll:
			volume = scaledVolume(mc.AnalyzedVolume, numInSet, numImaged)
		case domain.ImagingModeSmartGrid:
			return math.NaN(), unvalidatedMode(mc.ImagingMode)
		default:
			volume = math.NaN()
		}
		v.observe(volumeModeOverride, volume)
		return volume, nil
	}

	switch mc.ImagingMode {
	case domain.ImagingModeTargetRange:
		// A target range is always the default set plus one target.
		if imagingSets.Len() != 2 {
			return math.NaN(), fmt.Errorf("%w: target range has %d sets, want 2",
				domain.ErrInternalConfiguration, imagingSets.Len())
		}
		target := &imagingSets.Sets[1]
		if !set.IsDefault() && domain.IsSubset(set.ParticleIndices, target.ParticleIndices) {
			volume = scaledVolume(mc.AnalyzedVolume, numInSet, numImaged)
		} else {
			volume = math.NaN()
		}
	case domain.ImagingModeSetDefinitionSelector:
		volume = math.NaN()
		for i := range imagingSets.Sets {
			imaging := &imagingSets.Sets[i]
			if !mc.WantsImagesFor(imaging.ListID) {
				continue
			}
			if domain.IsSubset(set.ParticleIndices, imaging.ParticleIndices) {
				logger.Debug("  %s: contained in imaging set %s", set.Name, imaging.Name)
				volume = scaledVolume(mc.AnalyzedVolume, numInSet, numImaged)
				break
			}
		}
	case domain.ImagingModeTargetAll:
		volume = scaledVolume(mc.AnalyzedVolume, numInSet, numImaged)
	default:
		return math.NaN(), unvalidatedMode(mc.ImagingMode)
	}
	v.observe(volumeModeOverride, volume)
	return volume, nil
}

// Statistics builds the per-set statistics table, default set included,
// in list order.
func (v *VolumeEstimator) Statistics(
	ctx context.Context,
	file *domain.DataFile,
	sets *domain.SetsList,
	imagingSets *domain.SetsList,
) ([]domain.SetStatistics, error) {
	stats := make([]domain.SetStatistics, 0, sets.Len())
	imaged := file.ImagedIndices()
	for i := range sets.Sets {
		s := &sets.Sets[i]
		count := s.Count()
		images := len(domain.Intersect(s.ParticleIndices, imaged))

		var (
			volume float64
			err    error
		)
		if imagingSets == nil {
			volume, err = v.Estimate(ctx, file.Context, s, count, images)
		} else {
			volume, err = v.EstimateOverride(ctx, file.Context, imagingSets, s, count, images)
		}
		if err != nil {
			return nil, fmt.Errorf("estimate volume for %q: %w", s.Name, err)
		}

		stats = append(stats, domain.SetStatistics{
			ListID:       s.ListID,
			Name:         s.Name,
			Count:        count,
			Images:       images,
			ImagedVolume: volume,
		})
	}
	return stats, nil
}

func (v *VolumeEstimator) observe(mode string, volume float64) {
	if v.metrics != nil {
		v.metrics.ObserveVolume(mode, !math.IsNaN(volume))
	}
}

// scaledVolume is the share of the analysed volume represented by the
// imaged particles. An empty set yields NaN.
func scaledVolume(analyzedVolume float64, numInSet, numImaged int) float64 {
	if numInSet == 0 {
		return math.NaN()
	}
	return analyzedVolume * float64(numImaged) / float64(numInSet)
}

// unvalidatedMode reports a mode that should have been rejected when the
// definition was loaded. Reaching it is a programming error.
func unvalidatedMode(mode domain.ImagingTargetMode) error {
	return fmt.Errorf("%w: imaging mode %q reached volume estimation", domain.ErrInternalConfiguration, mode.String())
}
