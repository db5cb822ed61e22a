package domain

import "time"

// ImagingTargetMode describes how the instrument selected particles to image.
type ImagingTargetMode string

// Available imaging target modes.
const (
	// ImagingModeNone means the file carries no usable imaging configuration.
	ImagingModeNone ImagingTargetMode = ""

	// ImagingModeTargetRange images particles inside one target gate.
	ImagingModeTargetRange ImagingTargetMode = "target_range"

	// ImagingModeSetDefinitionSelector images particles in selected sets of
	// an embedded set definition.
	ImagingModeSetDefinitionSelector ImagingTargetMode = "set_definition_selector"

	// ImagingModeTargetAll images any particle.
	ImagingModeTargetAll ImagingTargetMode = "target_all"

	// ImagingModeSmartGrid has no set semantics and is always rejected.
	ImagingModeSmartGrid ImagingTargetMode = "smart_grid"
)

// IsValid returns true if the mode is a recognised, non-empty mode.
func (m ImagingTargetMode) IsValid() bool {
	switch m {
	case ImagingModeTargetRange, ImagingModeSetDefinitionSelector, ImagingModeTargetAll, ImagingModeSmartGrid:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (m ImagingTargetMode) String() string {
	if m == ImagingModeNone {
		return "none"
	}
	return string(m)
}

// Description returns a human-readable description of the mode.
func (m ImagingTargetMode) Description() string {
	switch m {
	case ImagingModeTargetRange:
		return "Target range"
	case ImagingModeSetDefinitionSelector:
		return "Set definition selector"
	case ImagingModeTargetAll:
		return "Target all"
	case ImagingModeSmartGrid:
		return "Smart grid"
	default:
		return "None"
	}
}

// MeasurementContext is the per-file scalar metadata used by classification
// and volume estimation.
type MeasurementContext struct {
	// AnalyzedVolume is the analysed sample volume in µL.
	AnalyzedVolume float64

	// ImagingEnabled reports whether imaging was switched on for the measurement.
	ImagingEnabled bool

	// ImagingMode is the configured imaging target mode.
	ImagingMode ImagingTargetMode

	// WantsImages maps list ids to the "wants images" flag. Only meaningful
	// for ImagingModeSetDefinitionSelector. Absent ids mean false.
	WantsImages map[int]bool

	// SerialNumber identifies the instrument.
	SerialNumber string

	// ConfigurationDate is the instrument hardware configuration release date.
	ConfigurationDate time.Time
}

// WantsImagesFor returns the "wants images" flag for a list id.
func (mc MeasurementContext) WantsImagesFor(listID int) bool {
	return mc.WantsImages[listID]
}

// EmbeddedDefinition holds the raw set definitions carried by a data file.
type EmbeddedDefinition struct {
	// TargetRange is the markup of the single gate-based target set.
	TargetRange string

	// LegacyTargetRange is an obsolete CytoClus 3 target range definition.
	LegacyTargetRange string

	// SetDefinitionXML is a complete SetList document.
	SetDefinitionXML string
}

// DataFile is one analysed measurement as exposed by the particle provider.
type DataFile struct {
	// Path is the file location the data was loaded from.
	Path string

	Context   MeasurementContext
	Particles []Particle
	Embedded  EmbeddedDefinition
}

// ImagedIndices returns the ordered set of indices of particles with an image.
func (f *DataFile) ImagedIndices() []int {
	out := make([]int, 0, len(f.Particles))
	for i := range f.Particles {
		if f.Particles[i].HasImage {
			out = append(out, f.Particles[i].Index)
		}
	}
	return Normalize(out)
}

// ImagedCount returns how many of the given ordered indices belong to
// particles with an image. Callers counting several sets should intersect
// with ImagedIndices once instead.
func (f *DataFile) ImagedCount(indices []int) int {
	return len(Intersect(indices, f.ImagedIndices()))
}
