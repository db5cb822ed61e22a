package services

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/custodia-labs/cytoset/internal/core/domain"
	"github.com/custodia-labs/cytoset/internal/core/ports/driven"
	"github.com/custodia-labs/cytoset/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyExportFormat    = "export.format"
	keyExportParticles = "export.particles"
	keyAnalysisJobs    = "analysis.jobs"
	keyStorageEnabled  = "storage.enabled"
	keyStorageDataDir  = "storage.data_dir"
	keyMetricsTextfile = "metrics.textfile"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := s.GetDefaults()

	settings := &domain.AppSettings{
		Export: domain.ExportSettings{
			Format:    s.getExportFormat(defaults.Export.Format),
			Particles: s.getBool(keyExportParticles, defaults.Export.Particles),
		},
		Analysis: domain.AnalysisSettings{
			Jobs: s.getInt(keyAnalysisJobs, defaults.Analysis.Jobs),
		},
		Storage: domain.StorageSettings{
			Enabled: s.getBool(keyStorageEnabled, defaults.Storage.Enabled),
			DataDir: s.getString(keyStorageDataDir, defaults.Storage.DataDir),
		},
		Metrics: domain.MetricsSettings{
			TextfilePath: s.configStore.GetString(keyMetricsTextfile), // No default - empty disables metrics
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	if err := s.configStore.Set(keyExportFormat, settings.Export.Format.String()); err != nil {
		return fmt.Errorf("save export format: %w", err)
	}
	if err := s.configStore.Set(keyExportParticles, settings.Export.Particles); err != nil {
		return fmt.Errorf("save export particles: %w", err)
	}
	if err := s.configStore.Set(keyAnalysisJobs, settings.Analysis.Jobs); err != nil {
		return fmt.Errorf("save analysis jobs: %w", err)
	}
	if err := s.configStore.Set(keyStorageEnabled, settings.Storage.Enabled); err != nil {
		return fmt.Errorf("save storage enabled: %w", err)
	}
	if err := s.configStore.Set(keyStorageDataDir, settings.Storage.DataDir); err != nil {
		return fmt.Errorf("save storage data_dir: %w", err)
	}
	if err := s.configStore.Set(keyMetricsTextfile, settings.Metrics.TextfilePath); err != nil {
		return fmt.Errorf("save metrics textfile: %w", err)
	}
	return nil
}

// Set updates a single setting by key.
func (s *SettingsService) Set(key, value string) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	switch key {
	case keyExportFormat:
		format := domain.ExportFormat(value)
		if !format.IsValid() {
			return fmt.Errorf("%w: export format %q", domain.ErrInvalidInput, value)
		}
		settings.Export.Format = format
	case keyExportParticles:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, key)
		}
		settings.Export.Particles = b
	case keyAnalysisJobs:
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("%w: %s must be a positive integer", domain.ErrInvalidInput, key)
		}
		settings.Analysis.Jobs = n
	case keyStorageEnabled:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, key)
		}
		settings.Storage.Enabled = b
	case keyStorageDataDir:
		settings.Storage.DataDir = value
	case keyMetricsTextfile:
		settings.Metrics.TextfilePath = value
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	return s.Save(settings)
}

// Keys lists the recognised setting keys.
func (s *SettingsService) Keys() []string {
	return []string{
		keyExportFormat,
		keyExportParticles,
		keyAnalysisJobs,
		keyStorageEnabled,
		keyStorageDataDir,
		keyMetricsTextfile,
	}
}

// GetDefaults returns default settings, rooted next to the config file.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings(filepath.Dir(s.configStore.Path()))
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getExportFormat(defaultVal domain.ExportFormat) domain.ExportFormat {
	val := s.configStore.GetString(keyExportFormat)
	if val == "" {
		return defaultVal
	}
	format := domain.ExportFormat(val)
	if !format.IsValid() {
		return defaultVal
	}
	return format
}
