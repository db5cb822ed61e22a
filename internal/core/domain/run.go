package domain

import "time"

// AnalysisRequest describes one file to analyse.
type AnalysisRequest struct {
	// DataPath is the particle data file.
	DataPath string

	// OverridePath is an optional set definition file that replaces the
	// definition embedded in the data file.
	OverridePath string

	// IncludeParticles requests per-particle membership records.
	IncludeParticles bool
}

// AnalysisResult is the outcome of analysing one file.
type AnalysisResult struct {
	// RunID identifies the persisted run, if history is enabled.
	RunID string `json:"runId,omitempty"`

	Filename    string            `json:"filename"`
	ImagingMode ImagingTargetMode `json:"imagingMode"`

	Info SetInformation `json:"sets"`

	// Particles is only populated when requested.
	Particles []ParticleMembership `json:"particles,omitempty"`
}

// AnalysisRun is the persisted summary of one analysis.
type AnalysisRun struct {
	ID             string
	Filename       string
	OverridePath   string
	ImagingMode    ImagingTargetMode
	AnalyzedVolume float64
	ExclusiveSets  bool
	Definition     string
	Statistics     []SetStatistics
	CreatedAt      time.Time
}
