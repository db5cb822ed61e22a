package services

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/cytoset/internal/adapters/driven/gating"
	"github.com/custodia-labs/cytoset/internal/core/domain"
)

// spyMetrics records metrics calls.
type spyMetrics struct {
	mu             sync.Mutex
	classified     int
	volumes        map[string]int
	failureReasons []string
}

func newSpyMetrics() *spyMetrics {
	return &spyMetrics{volumes: make(map[string]int)}
}

func (m *spyMetrics) ObserveClassification(_ time.Duration, _, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.classified++
}

func (m *spyMetrics) ObserveVolume(mode string, defined bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := mode + "/undefined"
	if defined {
		key = mode + "/defined"
	}
	m.volumes[key]++
}

func (m *spyMetrics) ObserveFailure(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failureReasons = append(m.failureReasons, reason)
}

func setWith(id int, indices ...int) *domain.Set {
	return &domain.Set{
		SetDefinition:   domain.SetDefinition{ListID: id, Name: "S", Kind: domain.SetKindGateBased},
		ParticleIndices: indices,
	}
}

func TestVolume_TargetAllScalesByImagedShare(t *testing.T) {
	sets, particles := overlappingGates(true)
	resolved, err := NewClassifier(gating.New()).Resolve(context.Background(), sets, particles)
	require.NoError(t, err)

	file := &domain.DataFile{
		Context:   domain.MeasurementContext{AnalyzedVolume: 100, ImagingMode: domain.ImagingModeTargetAll},
		Particles: particles,
	}
	// Particle 1 is imaged, 2 is not, 3 is imaged.
	stats, err := NewVolumeEstimator(nil).Statistics(context.Background(), file, resolved, nil)
	require.NoError(t, err)

	require.Len(t, stats, 3)
	assert.Equal(t, 2, stats[1].Count)
	assert.Equal(t, 1, stats[1].Images)
	assert.InDelta(t, 50.0, stats[1].ImagedVolume, 1e-9)
	assert.Equal(t, 1, stats[2].Count)
	assert.InDelta(t, 100.0, stats[2].ImagedVolume, 1e-9)
	assert.True(t, math.IsNaN(stats[0].ImagedVolume), "empty default set has no volume")
}

func TestVolume_TargetRangeDefaultSetIsNaN(t *testing.T) {
	mc := domain.MeasurementContext{AnalyzedVolume: 10, ImagingMode: domain.ImagingModeTargetRange}
	v := NewVolumeEstimator(nil)

	for _, imaged := range []int{0, 1, 5} {
		vol, err := v.Estimate(context.Background(), mc, setWith(domain.DefaultListID), 5, imaged)
		require.NoError(t, err)
		assert.True(t, math.IsNaN(vol))
	}

	vol, err := v.Estimate(context.Background(), mc, setWith(1), 4, 1)
	require.NoError(t, err)
	assert.InDelta(t, 2.5, vol, 1e-9)
}

func TestVolume_OverrideOutsideTargetIsNaN(t *testing.T) {
	mc := domain.MeasurementContext{AnalyzedVolume: 10, ImagingMode: domain.ImagingModeTargetRange}
	imaging := domain.NewSetsList("")
	imaging.Sets = append(imaging.Sets, *setWith(1, 1, 2))

	vol, err := NewVolumeEstimator(nil).EstimateOverride(context.Background(), mc, imaging, setWith(5, 1, 2, 3), 3, 3)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(vol))

	vol, err = NewVolumeEstimator(nil).EstimateOverride(context.Background(), mc, imaging, setWith(5, 1, 2), 2, 1)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, vol, 1e-9)
}

func TestVolume_SelectorWithoutWantsImagesIsNaN(t *testing.T) {
	mc := domain.MeasurementContext{
		AnalyzedVolume: 10,
		ImagingMode:    domain.ImagingModeSetDefinitionSelector,
		WantsImages:    map[int]bool{1: true},
	}
	v := NewVolumeEstimator(nil)

	vol, err := v.Estimate(context.Background(), mc, setWith(2, 0, 1), 2, 2)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(vol), "absent id means no images wanted")

	vol, err = v.Estimate(context.Background(), mc, setWith(1, 0, 1), 2, 1)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, vol, 1e-9)
}

func TestVolume_UnsupportedModeIsInternalError(t *testing.T) {
	v := NewVolumeEstimator(nil)
	for _, mode := range []domain.ImagingTargetMode{domain.ImagingModeSmartGrid, domain.ImagingModeNone, "mystery"} {
		mc := domain.MeasurementContext{AnalyzedVolume: 10, ImagingMode: mode}

		vol, err := v.Estimate(context.Background(), mc, setWith(1, 0), 1, 1)
		assert.ErrorIs(t, err, domain.ErrInternalConfiguration, mode)
		assert.True(t, math.IsNaN(vol))

		vol, err = v.EstimateOverride(context.Background(), mc, domain.NewSetsList(""), setWith(1, 0), 1, 1)
		assert.ErrorIs(t, err, domain.ErrInternalConfiguration, mode)
		assert.True(t, math.IsNaN(vol))
	}
}

func TestVolume_EmptySetIsNaN(t *testing.T) {
	mc := domain.MeasurementContext{AnalyzedVolume: 10, ImagingMode: domain.ImagingModeTargetAll}

	vol, err := NewVolumeEstimator(nil).Estimate(context.Background(), mc, setWith(1), 0, 0)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(vol))
}

func TestVolume_ZeroImagedIsZero(t *testing.T) {
	mc := domain.MeasurementContext{AnalyzedVolume: 10, ImagingMode: domain.ImagingModeTargetAll}

	vol, err := NewVolumeEstimator(nil).Estimate(context.Background(), mc, setWith(1, 0, 1), 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, vol, "zero images is a defined volume, not NaN")
}

func TestVolume_OverrideSelectorFirstContainingWantedSet(t *testing.T) {
	mc := domain.MeasurementContext{
		AnalyzedVolume: 8,
		ImagingMode:    domain.ImagingModeSetDefinitionSelector,
		WantsImages:    map[int]bool{2: true, 3: true},
	}
	imaging := domain.NewSetsList("")
	imaging.Sets = append(imaging.Sets,
		*setWith(1, 1, 2, 3, 4), // contains but not wanted
		*setWith(2, 1, 2),       // wanted, partial overlap
		*setWith(3, 2, 3, 4),    // wanted, contains
	)
	v := NewVolumeEstimator(nil)

	vol, err := v.EstimateOverride(context.Background(), mc, imaging, setWith(9, 2, 3), 2, 1)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, vol, 1e-9)

	vol, err = v.EstimateOverride(context.Background(), mc, imaging, setWith(9, 1, 4), 2, 1)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(vol), "only unwanted set contains it")
}

func TestVolume_OverrideTargetRange(t *testing.T) {
	mc := domain.MeasurementContext{AnalyzedVolume: 8, ImagingMode: domain.ImagingModeTargetRange}
	imaging := domain.NewSetsList("")
	imaging.Sets = append(imaging.Sets, *setWith(1, 1, 2, 3))
	v := NewVolumeEstimator(nil)

	vol, err := v.EstimateOverride(context.Background(), mc, imaging, setWith(domain.DefaultListID, 1), 1, 1)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(vol), "default set never gets an override volume")

	vol, err = v.EstimateOverride(context.Background(), mc, imaging, setWith(4), 0, 0)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(vol), "empty candidate is contained but has no volume")

	badImaging := domain.NewSetsList("")
	_, err = v.EstimateOverride(context.Background(), mc, badImaging, setWith(4, 1), 1, 1)
	assert.ErrorIs(t, err, domain.ErrInternalConfiguration)

	_, err = v.EstimateOverride(context.Background(), mc, nil, setWith(4, 1), 1, 1)
	assert.ErrorIs(t, err, domain.ErrInternalConfiguration)
}

func TestVolume_OverrideTargetAll(t *testing.T) {
	mc := domain.MeasurementContext{AnalyzedVolume: 6, ImagingMode: domain.ImagingModeTargetAll}

	vol, err := NewVolumeEstimator(nil).EstimateOverride(context.Background(), mc, domain.NewSetsList(""), setWith(4, 7, 8, 9), 3, 1)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, vol, 1e-9)
}

func TestVolume_ContainmentSymmetry(t *testing.T) {
	mc := domain.MeasurementContext{AnalyzedVolume: 1, ImagingMode: domain.ImagingModeTargetRange}
	target := []int{0, 2, 4, 6, 8, 10}
	imaging := domain.NewSetsList("")
	imaging.Sets = append(imaging.Sets, *setWith(1, target...))
	v := NewVolumeEstimator(nil)

	vol, err := v.EstimateOverride(context.Background(), mc, imaging, setWith(2, target...), len(target), 3)
	require.NoError(t, err)
	assert.False(t, math.IsNaN(vol))

	for missing := range target {
		candidate := append(append([]int{}, target[:missing]...), target[missing+1:]...)
		candidate = domain.Union(candidate, []int{target[missing] + 1})

		vol, err := v.EstimateOverride(context.Background(), mc, imaging, setWith(2, candidate...), len(candidate), 1)
		require.NoError(t, err)
		assert.True(t, math.IsNaN(vol), "one index outside the target forces NaN")
	}
}

func TestVolume_Bounds(t *testing.T) {
	v := NewVolumeEstimator(nil)
	modes := []domain.MeasurementContext{
		{AnalyzedVolume: 3.5, ImagingMode: domain.ImagingModeTargetAll},
		{AnalyzedVolume: 3.5, ImagingMode: domain.ImagingModeTargetRange},
		{AnalyzedVolume: 3.5, ImagingMode: domain.ImagingModeSetDefinitionSelector, WantsImages: map[int]bool{1: true, 3: true}},
	}

	for seed := int64(1); seed <= 10; seed++ {
		sets, particles := randomGates(seed, seed%2 == 0)
		resolved, err := NewClassifier(gating.New()).Resolve(context.Background(), sets, particles)
		require.NoError(t, err)

		for _, mc := range modes {
			file := &domain.DataFile{Context: mc, Particles: particles}
			stats, err := v.Statistics(context.Background(), file, resolved, nil)
			require.NoError(t, err)
			require.Len(t, stats, resolved.Len())

			for i, st := range stats {
				assert.Equal(t, resolved.Sets[i].Name, st.Name, "list order")
				assert.LessOrEqual(t, st.Images, st.Count)
				if !math.IsNaN(st.ImagedVolume) {
					assert.GreaterOrEqual(t, st.ImagedVolume, 0.0)
					assert.LessOrEqual(t, st.ImagedVolume, mc.AnalyzedVolume)
				}
			}
		}
	}
}

func TestVolume_StatisticsWrapsErrors(t *testing.T) {
	sets, particles := overlappingGates(false)
	file := &domain.DataFile{
		Context:   domain.MeasurementContext{ImagingMode: domain.ImagingModeSmartGrid},
		Particles: particles,
	}

	_, err := NewVolumeEstimator(nil).Statistics(context.Background(), file, sets, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInternalConfiguration)
	assert.Contains(t, err.Error(), `estimate volume for "Default"`)
}

func TestVolume_RecordsMetrics(t *testing.T) {
	m := newSpyMetrics()
	v := NewVolumeEstimator(m)
	mc := domain.MeasurementContext{AnalyzedVolume: 1, ImagingMode: domain.ImagingModeTargetAll}

	_, _ = v.Estimate(context.Background(), mc, setWith(1, 0), 1, 1)
	_, _ = v.Estimate(context.Background(), mc, setWith(1), 0, 0)
	_, _ = v.EstimateOverride(context.Background(), mc, domain.NewSetsList(""), setWith(1, 0), 1, 0)

	assert.Equal(t, map[string]int{
		"direct/defined":   1,
		"direct/undefined": 1,
		"override/defined": 1,
	}, m.volumes)
}

func TestVolume_OverrideWithoutImagingSets(t *testing.T) {
	v := NewVolumeEstimator(nil)
	unavailable := &domain.SetsList{}

	for _, mode := range []domain.ImagingTargetMode{
		domain.ImagingModeTargetRange, domain.ImagingModeSetDefinitionSelector, domain.ImagingModeNone,
	} {
		mc := domain.MeasurementContext{AnalyzedVolume: 6, ImagingMode: mode, WantsImages: map[int]bool{1: true}}
		vol, err := v.EstimateOverride(context.Background(), mc, unavailable, setWith(4, 1, 2), 2, 1)
		require.NoError(t, err, mode)
		assert.True(t, math.IsNaN(vol), mode)
	}

	mc := domain.MeasurementContext{AnalyzedVolume: 6, ImagingMode: domain.ImagingModeTargetAll}
	vol, err := v.EstimateOverride(context.Background(), mc, unavailable, setWith(4, 1, 2), 2, 1)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, vol, 1e-9)

	mc.ImagingMode = domain.ImagingModeSmartGrid
	_, err = v.EstimateOverride(context.Background(), mc, unavailable, setWith(4, 1, 2), 2, 1)
	assert.ErrorIs(t, err, domain.ErrInternalConfiguration)
}
