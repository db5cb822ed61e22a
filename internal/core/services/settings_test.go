package services

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/cytoset/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/cytoset/internal/core/domain"
)

func TestNewSettingsService(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	require.NotNil(t, service)
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	settings, err := service.Get()

	require.NoError(t, err)
	require.NotNil(t, settings)

	defaults := service.GetDefaults()
	assert.Equal(t, defaults, *settings)
	assert.Equal(t, domain.ExportFormatJSON, settings.Export.Format)
	assert.Equal(t, 4, settings.Analysis.Jobs)
	assert.Empty(t, settings.Metrics.TextfilePath)
}

func TestSettingsService_GetDefaults_RootedAtConfigDir(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	defaults := service.GetDefaults()
	// The memory store's path is ":memory:", so its directory is ".".
	assert.Equal(t, filepath.Join(".", "data"), defaults.Storage.DataDir)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("export.format", "table")
	_ = store.Set("export.particles", true)
	_ = store.Set("analysis.jobs", int64(8))
	_ = store.Set("storage.enabled", true)
	_ = store.Set("storage.data_dir", "/srv/cytoset")
	_ = store.Set("metrics.textfile", "/var/lib/node_exporter/cytoset.prom")

	settings, err := NewSettingsService(store).Get()

	require.NoError(t, err)
	assert.Equal(t, domain.ExportFormatTable, settings.Export.Format)
	assert.True(t, settings.Export.Particles)
	assert.Equal(t, 8, settings.Analysis.Jobs)
	assert.True(t, settings.Storage.Enabled)
	assert.Equal(t, "/srv/cytoset", settings.Storage.DataDir)
	assert.Equal(t, "/var/lib/node_exporter/cytoset.prom", settings.Metrics.TextfilePath)
}

func TestSettingsService_Get_InvalidValuesReturnDefaults(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("export.format", "xml")
	_ = store.Set("analysis.jobs", "many")

	service := NewSettingsService(store)
	settings, err := service.Get()

	require.NoError(t, err)
	defaults := service.GetDefaults()
	assert.Equal(t, defaults.Export.Format, settings.Export.Format)
	assert.Equal(t, defaults.Analysis.Jobs, settings.Analysis.Jobs)
}

func TestSettingsService_Save(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	settings := service.GetDefaults()
	settings.Export.Format = domain.ExportFormatCSV
	settings.Analysis.Jobs = 2
	settings.Storage.Enabled = true

	require.NoError(t, service.Save(&settings))

	assert.Equal(t, "csv", store.GetString("export.format"))
	assert.Equal(t, 2, store.GetInt("analysis.jobs"))
	assert.True(t, store.GetBool("storage.enabled"))

	got, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, settings, *got)
}

func TestSettingsService_Save_Invalid(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	settings := service.GetDefaults()
	settings.Analysis.Jobs = 0

	err := service.Save(&settings)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestSettingsService_Set(t *testing.T) {
	tests := []struct {
		key   string
		value string
		check func(t *testing.T, s *domain.AppSettings)
	}{
		{"export.format", "csv", func(t *testing.T, s *domain.AppSettings) {
			assert.Equal(t, domain.ExportFormatCSV, s.Export.Format)
		}},
		{"export.particles", "true", func(t *testing.T, s *domain.AppSettings) {
			assert.True(t, s.Export.Particles)
		}},
		{"analysis.jobs", "12", func(t *testing.T, s *domain.AppSettings) {
			assert.Equal(t, 12, s.Analysis.Jobs)
		}},
		{"storage.enabled", "1", func(t *testing.T, s *domain.AppSettings) {
			assert.True(t, s.Storage.Enabled)
		}},
		{"storage.data_dir", "/tmp/runs", func(t *testing.T, s *domain.AppSettings) {
			assert.Equal(t, "/tmp/runs", s.Storage.DataDir)
		}},
		{"metrics.textfile", "/tmp/cytoset.prom", func(t *testing.T, s *domain.AppSettings) {
			assert.Equal(t, "/tmp/cytoset.prom", s.Metrics.TextfilePath)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			service := NewSettingsService(memory.NewConfigStore())

			require.NoError(t, service.Set(tt.key, tt.value))

			settings, err := service.Get()
			require.NoError(t, err)
			tt.check(t, settings)
		})
	}
}

func TestSettingsService_Set_Invalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"export.format", "yaml"},
		{"export.particles", "sometimes"},
		{"analysis.jobs", "0"},
		{"analysis.jobs", "-3"},
		{"analysis.jobs", "two"},
		{"storage.enabled", "nope"},
		{"export.compression", "gzip"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			store := memory.NewConfigStore()
			service := NewSettingsService(store)

			err := service.Set(tt.key, tt.value)

			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			_, stored := store.Get(tt.key)
			assert.False(t, stored, "invalid values are not written")
		})
	}
}

func TestSettingsService_Keys(t *testing.T) {
	keys := NewSettingsService(memory.NewConfigStore()).Keys()

	assert.ElementsMatch(t, []string{
		"export.format", "export.particles", "analysis.jobs",
		"storage.enabled", "storage.data_dir", "metrics.textfile",
	}, keys)
}
