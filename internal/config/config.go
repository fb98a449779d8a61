// Package config loads addonlint.toml.
package config

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"

	"addonlint/internal/compat"
)

var (
	// ErrBadPattern reports an include/exclude glob doublestar cannot parse.
	ErrBadPattern = errors.New("invalid glob pattern")
	// ErrBadFormat reports an unknown [report].format.
	ErrBadFormat = errors.New("unknown report format")
)

// Formats lists the accepted [report].format values.
var Formats = []string{"pretty", "json", "sarif", "short"}

// DefaultInclude selects every file type the validator understands.
var DefaultInclude = []string{
	"**/*.js", "**/*.jsm", "**/*.mjs",
	"**/*.html", "**/*.htm", "**/*.xhtml", "**/*.xul",
	"**/install.rdf",
}

type Validate struct {
	Include        []string `toml:"include"`
	Exclude        []string `toml:"exclude"`
	MaxDepth       int      `toml:"max_depth"`
	MaxDiagnostics int      `toml:"max_diagnostics"`
	Jobs           int      `toml:"jobs"`
}

type Suppress struct {
	Expressions []string `toml:"expressions"`
}

type Report struct {
	Format      string `toml:"format"`
	MetricsFile string `toml:"metrics_file"`
}

// Config is the decoded file. Fields absent from the file keep the values
// of Default.
type Config struct {
	// Path is the file the config was read from; empty for defaults.
	Path      string            `toml:"-"`
	Validate  Validate          `toml:"validate"`
	Overrides map[string]string `toml:"-"`
	Targets   map[string]string `toml:"targets"`
	Suppress  Suppress          `toml:"suppress"`
	Report    Report            `toml:"report"`

	meta toml.MetaData
}

// Default returns the configuration used when no file is found.
func Default() Config {
	return Config{
		Validate: Validate{
			Include:  slices.Clone(DefaultInclude),
			MaxDepth: 8,
		},
		Overrides: map[string]string{},
		Targets:   map[string]string{},
		Report:    Report{Format: "pretty"},
	}
}

// fileShape mirrors Config for decoding; overrides accept strings, bools
// and numbers.
type fileShape struct {
	Validate  Validate          `toml:"validate"`
	Overrides map[string]any    `toml:"overrides"`
	Targets   map[string]string `toml:"targets"`
	Suppress  Suppress          `toml:"suppress"`
	Report    Report            `toml:"report"`
}

// Load decodes path over Default and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	shape := fileShape{
		Validate: cfg.Validate,
		Report:   cfg.Report,
	}
	meta, err := toml.DecodeFile(path, &shape)
	if err != nil {
		return Config{}, fmt.Errorf("%s: parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	cfg.Path = path
	cfg.meta = meta
	cfg.Validate = shape.Validate
	if !meta.IsDefined("validate", "include") {
		cfg.Validate.Include = slices.Clone(DefaultInclude)
	}
	cfg.Report = shape.Report
	cfg.Suppress = shape.Suppress
	if shape.Targets != nil {
		cfg.Targets = shape.Targets
	}
	for k, v := range shape.Overrides {
		cfg.Overrides[k] = fmt.Sprint(v)
	}

	if err := cfg.Check(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Discover finds addonlint.toml above start and loads it; without one it
// returns Default.
func Discover(start string) (Config, error) {
	path, ok, err := Find(start)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Defined reports whether the file set key explicitly, e.g.
// Defined("validate", "jobs").
func (c Config) Defined(key ...string) bool {
	return c.Path != "" && c.meta.IsDefined(key...)
}

// Check validates patterns, targets and the report format.
func (c Config) Check() error {
	for _, p := range slices.Concat(c.Validate.Include, c.Validate.Exclude) {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("%w: %q", ErrBadPattern, p)
		}
	}
	if c.Validate.MaxDepth < 0 || c.Validate.MaxDiagnostics < 0 || c.Validate.Jobs < 0 {
		return errors.New("validate: max_depth, max_diagnostics and jobs must not be negative")
	}
	if _, err := c.TargetSet(); err != nil {
		return err
	}
	if c.Report.Format != "" && !slices.Contains(Formats, c.Report.Format) {
		return fmt.Errorf("%w %q (expected: %s)", ErrBadFormat, c.Report.Format, strings.Join(Formats, "|"))
	}
	return nil
}

// TargetSet builds the compatibility targets from [targets].
func (c Config) TargetSet() (compat.TargetSet, error) {
	ts, err := compat.NewTargetSet(c.Targets)
	if err != nil {
		return compat.TargetSet{}, fmt.Errorf("targets: %w", err)
	}
	return ts, nil
}

// OverrideKeys returns the override names in sorted order.
func (c Config) OverrideKeys() []string {
	return slices.Sorted(maps.Keys(c.Overrides))
}
