package domain

import "errors"

// Domain errors represent classification and configuration failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Set definition errors.

	// ErrUnsupportedFormat indicates an override file extension that is
	// neither a markup (.xml) nor an instrument-native (.iif) definition.
	ErrUnsupportedFormat = errors.New("unsupported set definition format")

	// ErrLegacyFormatUnsupported indicates a recognised but obsolete
	// definition, such as a CytoClus 3 target range.
	ErrLegacyFormatUnsupported = errors.New("legacy set definition format not supported")

	// ErrMissingRegionDefinition indicates that neither the data file nor an
	// override supplies a usable set definition.
	ErrMissingRegionDefinition = errors.New("no region definition available")

	// ErrUnsupportedImagingMode indicates an imaging mode without set semantics.
	// SmartGrid imaging is always rejected.
	ErrUnsupportedImagingMode = errors.New("unsupported imaging mode")

	// ErrImagingDisabled indicates the data file was recorded without imaging,
	// so no imaging set information exists.
	ErrImagingDisabled = errors.New("imaging not used in data file")

	// ErrInternalConfiguration indicates an imaging mode reached volume
	// estimation without having been validated at load time.
	ErrInternalConfiguration = errors.New("internal configuration error")
)
