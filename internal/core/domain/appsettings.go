package domain

import "path/filepath"

// ExportFormat selects how analysis results are written.
type ExportFormat string

// Available export formats.
const (
	ExportFormatJSON  ExportFormat = "json"
	ExportFormatCSV   ExportFormat = "csv"
	ExportFormatTable ExportFormat = "table"
)

// IsValid returns true if the export format is recognised.
func (f ExportFormat) IsValid() bool {
	switch f {
	case ExportFormatJSON, ExportFormatCSV, ExportFormatTable:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (f ExportFormat) String() string {
	return string(f)
}

// AppSettings holds all user-configurable settings.
type AppSettings struct {
	Export   ExportSettings
	Analysis AnalysisSettings
	Storage  StorageSettings
	Metrics  MetricsSettings
}

// ExportSettings controls result output.
type ExportSettings struct {
	Format    ExportFormat
	Particles bool
}

// AnalysisSettings controls batch analysis.
type AnalysisSettings struct {
	// Jobs is the maximum number of files analysed concurrently.
	Jobs int
}

// StorageSettings controls the run history database.
type StorageSettings struct {
	Enabled bool
	DataDir string
}

// MetricsSettings controls metrics output.
type MetricsSettings struct {
	// TextfilePath is where Prometheus metrics are written after a command.
	// Empty disables metrics output.
	TextfilePath string
}

// DefaultAppSettings returns the default settings rooted at configDir.
func DefaultAppSettings(configDir string) AppSettings {
	return AppSettings{
		Export: ExportSettings{
			Format: ExportFormatJSON,
		},
		Analysis: AnalysisSettings{
			Jobs: 4,
		},
		Storage: StorageSettings{
			Enabled: false,
			DataDir: filepath.Join(configDir, "data"),
		},
	}
}

// Validate checks the settings.
func (s AppSettings) Validate() error {
	if !s.Export.Format.IsValid() {
		return ErrInvalidInput
	}
	if s.Analysis.Jobs < 1 {
		return ErrInvalidInput
	}
	return nil
}
