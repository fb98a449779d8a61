// Package metrics counts what a validation run produced, for export in the
// Prometheus textfile format.
//
// All methods are safe on a nil *Metrics, which records nothing.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"addonlint/internal/diag"
	"addonlint/internal/rules"
)

const namespace = "addonlint"

// File outcomes.
const (
	OutcomeChecked = "checked"
	OutcomeCached  = "cached"
	OutcomeFailed  = "failed"
	OutcomeSkipped = "skipped"
)

// Metrics owns a private registry so several runs in one process never
// collide on the default one.
type Metrics struct {
	reg         *prometheus.Registry
	diagnostics *prometheus.CounterVec
	hooks       *prometheus.CounterVec
	files       *prometheus.CounterVec
	duration    prometheus.Histogram
}

func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		diagnostics: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "diagnostics_total",
			Help:      "Diagnostics emitted, by rule and severity.",
		}, []string{"rule", "severity"}),
		hooks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hook_invocations_total",
			Help:      "Property hooks fired during traversal.",
		}, []string{"property", "mode"}),
		files: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_total",
			Help:      "Files processed, by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "file_duration_seconds",
			Help:      "Time spent validating one file.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
	}
	m.reg.MustRegister(m.diagnostics, m.hooks, m.files, m.duration)
	return m
}

// Registry exposes the underlying registry as a gatherer.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.reg
}

// ObserveHook counts one hook invocation. Its signature matches
// scripting.Options.OnHook.
func (m *Metrics) ObserveHook(property string, mode rules.Mode) {
	if m == nil {
		return
	}
	m.hooks.WithLabelValues(property, mode.String()).Inc()
}

// FileDone records one processed file.
func (m *Metrics) FileDone(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.files.WithLabelValues(outcome).Inc()
	if outcome == OutcomeChecked {
		m.duration.Observe(elapsed.Seconds())
	}
}

// Reporter counts every diagnostic and forwards it to next.
func (m *Metrics) Reporter(next diag.Reporter) diag.Reporter {
	if m == nil {
		return next
	}
	return diag.ReporterFunc(func(d diag.Diagnostic) {
		m.diagnostics.WithLabelValues(d.Rule.String(), d.Severity.Label()).Inc()
		if next != nil {
			next.Report(d)
		}
	})
}

// WriteTextfile writes every metric to path for the node exporter's
// textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.reg); err != nil {
		return fmt.Errorf("write metrics %s: %w", path, err)
	}
	return nil
}
