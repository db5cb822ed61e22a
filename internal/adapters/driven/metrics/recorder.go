// Package metrics records analysis metrics in a Prometheus registry.
//
// The CLI is short-lived, so metrics are not served over HTTP. They are
// written to a node_exporter textfile when a path is configured.
package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/custodia-labs/cytoset/internal/core/ports/driven"
)

// Ensure Recorder implements the interface.
var _ driven.MetricsRecorder = (*Recorder)(nil)

const namespace = "cytoset"

// Recorder holds the analysis metrics in its own registry.
type Recorder struct {
	registry *prometheus.Registry

	// ClassificationSeconds measures one SetsList resolution.
	ClassificationSeconds prometheus.Histogram

	// ParticlesTotal counts particles classified.
	ParticlesTotal prometheus.Counter

	// SetsTotal counts sets resolved.
	SetsTotal prometheus.Counter

	// VolumeEstimatesTotal counts volume estimates.
	// Labels: mode (direct, override), defined (true, false)
	VolumeEstimatesTotal *prometheus.CounterVec

	// FailuresTotal counts aborted analyses.
	// Labels: reason
	FailuresTotal *prometheus.CounterVec
}

// NewRecorder creates a recorder with a fresh registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		ClassificationSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "classifier",
			Name:      "duration_seconds",
			Help:      "Time to resolve one set list",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
		ParticlesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "classifier",
			Name:      "particles_total",
			Help:      "Particles classified",
		}),
		SetsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "classifier",
			Name:      "sets_total",
			Help:      "Sets resolved",
		}),
		VolumeEstimatesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "volume",
			Name:      "estimates_total",
			Help:      "Imaged volume estimates by mode and whether the estimate was defined",
		}, []string{"mode", "defined"}),
		FailuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "failures_total",
			Help:      "Aborted file analyses by reason",
		}, []string{"reason"}),
	}
	r.registry.MustRegister(
		r.ClassificationSeconds,
		r.ParticlesTotal,
		r.SetsTotal,
		r.VolumeEstimatesTotal,
		r.FailuresTotal,
	)
	return r
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveClassification records one resolution.
func (r *Recorder) ObserveClassification(duration time.Duration, particles, sets int) {
	r.ClassificationSeconds.Observe(duration.Seconds())
	r.ParticlesTotal.Add(float64(particles))
	r.SetsTotal.Add(float64(sets))
}

// ObserveVolume records one volume estimate.
func (r *Recorder) ObserveVolume(mode string, defined bool) {
	r.VolumeEstimatesTotal.WithLabelValues(mode, strconv.FormatBool(defined)).Inc()
}

// ObserveFailure records one aborted analysis.
func (r *Recorder) ObserveFailure(reason string) {
	r.FailuresTotal.WithLabelValues(reason).Inc()
}

// WriteTextfile writes the registry in the text exposition format.
// The file is replaced atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
