package driven

import "time"

// MetricsRecorder receives classification and estimation measurements.
// Implementations must be safe for concurrent use.
type MetricsRecorder interface {
	// ObserveClassification records one completed classification.
	ObserveClassification(duration time.Duration, particles, sets int)

	// ObserveVolume records one volume estimate and whether it was defined.
	ObserveVolume(mode string, defined bool)

	// ObserveFailure records an aborted file analysis.
	ObserveFailure(reason string)
}
