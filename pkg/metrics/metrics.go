// Package metrics counts what one run produced and writes the counters to a
// node-exporter textfile.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder holds the counters of one run. A nil Recorder ignores every call.
type Recorder struct {
	reg       *prometheus.Registry
	features  *prometheus.CounterVec
	documents *prometheus.CounterVec
	warnings  prometheus.Counter
	ids       prometheus.Gauge
}

// New creates a recorder tagged with the command and tool version.
func New(command, version string) *Recorder {
	reg := prometheus.NewRegistry()

	build := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "trailsroc_run_info",
			Help: "Command and version of the last run (value is always 1).",
		},
		[]string{"command", "version"},
	)
	if version == "" {
		version = "dev"
	}
	build.WithLabelValues(command, version).Set(1)

	r := &Recorder{
		reg: reg,
		features: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trailsroc_features_built_total",
			Help: "Features emitted, by feature type.",
		}, []string{"type"}),
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trailsroc_documents_total",
			Help: "Source documents processed, by outcome.",
		}, []string{"outcome"}),
		warnings: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trailsroc_warnings_total",
			Help: "Non-fatal anomalies reported during the run.",
		}),
		ids: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "trailsroc_registered_ids",
			Help: "Identifiers registered during the run.",
		}),
	}
	reg.MustRegister(build, r.features, r.documents, r.warnings, r.ids)
	return r
}

// Feature counts one emitted feature of type typ.
func (r *Recorder) Feature(typ string) {
	if r == nil {
		return
	}
	r.features.WithLabelValues(typ).Inc()
}

// Document counts one processed document ("built", "migrated", "skipped").
func (r *Recorder) Document(outcome string) {
	if r == nil {
		return
	}
	r.documents.WithLabelValues(outcome).Inc()
}

// Warning counts one non-fatal anomaly.
func (r *Recorder) Warning() {
	if r == nil {
		return
	}
	r.warnings.Inc()
}

// RegisteredIDs records the registry size at the end of the run.
func (r *Recorder) RegisteredIDs(n int) {
	if r == nil {
		return
	}
	r.ids.Set(float64(n))
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.reg
}

// WriteTextfile writes all counters to path atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, r.reg); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}
