package driver

import (
	"runtime"

	"addonlint/internal/compat"
	"addonlint/internal/config"
	"addonlint/internal/metrics"
	"addonlint/internal/rules"
	"addonlint/internal/scripting"
	"addonlint/internal/suppress"
)

// Options configures a validation run. The zero value validates with the
// default registry, include patterns and no filtering.
type Options struct {
	// Include and Exclude are doublestar patterns matched against paths
	// relative to the validated directory or package root.
	Include []string
	Exclude []string

	// Jobs bounds parallel workers; 0 means GOMAXPROCS.
	Jobs int
	// MaxDiagnostics caps each file's bag; 0 means unlimited.
	MaxDiagnostics int
	MaxDepth       int
	ContextWidth   int

	// Registry defaults to rules.Default().
	Registry  *rules.Registry
	Overrides rules.Overrides
	Targets   compat.TargetSet
	Suppress  *suppress.Set
	Metrics   *metrics.Metrics
	// Dedup drops repeated rule/location/title findings within a file.
	Dedup bool

	Cache    *DiskCache
	Progress ProgressSink
	// Timings records per-file and per-run phase durations.
	Timings bool
}

func (o Options) withDefaults() Options {
	if len(o.Include) == 0 {
		o.Include = config.DefaultInclude
	}
	if o.Jobs <= 0 {
		o.Jobs = runtime.GOMAXPROCS(0)
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = scripting.DefaultMaxDepth
	}
	if o.ContextWidth <= 0 {
		o.ContextWidth = scripting.DefaultContextWidth
	}
	if o.Registry == nil {
		o.Registry = rules.Default()
	}
	return o
}

// cacheable reports whether results may be stored: a custom registry has
// no fingerprint.
func (o Options) cacheable() bool {
	return o.Cache != nil && o.Registry == rules.Default()
}

func (o Options) analyzerOptions() scripting.Options {
	return scripting.Options{
		MaxDepth:     o.MaxDepth,
		ContextWidth: o.ContextWidth,
		Registry:     o.Registry,
		Targets:      o.Targets,
		Overrides:    o.Overrides,
		OnHook:       o.Metrics.ObserveHook,
	}
}
