package rules

import (
	"maps"
	"strconv"
	"strings"

	"addonlint/internal/compat"
	"addonlint/internal/diag"
)

// Mode is the kind of property access a hook intercepts.
type Mode uint8

const (
	ModeGet Mode = 1 << iota
	ModeSet
)

func (m Mode) String() string {
	switch m {
	case ModeGet:
		return "get"
	case ModeSet:
		return "set"
	case ModeGet | ModeSet:
		return "get+set"
	}
	return ""
}

// Context is what a handler sees of the traversal that invoked it.
// Implementations are owned by one validation and never shared.
type Context interface {
	Filename() string
	Line() int
	Column() int
	// SourceContext is the source line around the current node.
	SourceContext() string
	Targets() compat.TargetSet
	Overrides() Overrides
	Reporter() diag.Reporter
	// Analyzer re-enters script analysis for code found in literals.
	// It may be nil when nested analysis is unavailable.
	Analyzer() ScriptAnalyzer
}

// ScriptAnalyzer analyzes a piece of script discovered while checking
// another one. Depth limiting belongs to the implementation.
type ScriptAnalyzer interface {
	AnalyzeNested(code string, at diag.Location)
}

// Location assembles the current position from a Context.
func Location(ctx Context) diag.Location {
	return diag.Location{
		File:    ctx.Filename(),
		Line:    ctx.Line(),
		Column:  ctx.Column(),
		Context: ctx.SourceContext(),
	}
}

// Overrides are named flags set once per run, e.g. ignore_empty_name.
// The zero value is empty; values are never mutated after construction.
type Overrides struct {
	values map[string]string
}

// NewOverrides copies values into a new Overrides.
func NewOverrides(values map[string]string) Overrides {
	if len(values) == 0 {
		return Overrides{}
	}
	return Overrides{values: maps.Clone(values)}
}

// ParseOverride splits a "key=value" flag; a bare key means "true".
func ParseOverride(s string) (key, value string) {
	key, value, ok := strings.Cut(s, "=")
	if !ok {
		value = "true"
	}
	return strings.TrimSpace(key), strings.TrimSpace(value)
}

// String returns the raw value of key.
func (o Overrides) String(key string) (string, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Bool interprets key as a boolean; missing or malformed values are false.
func (o Overrides) Bool(key string) bool {
	v, ok := o.values[key]
	if !ok {
		return false
	}
	b, err := strconv.ParseBool(v)
	return err == nil && b
}

func (o Overrides) Len() int {
	return len(o.values)
}

// Map returns a copy of every override.
func (o Overrides) Map() map[string]string {
	if o.values == nil {
		return map[string]string{}
	}
	return maps.Clone(o.values)
}

// StaticContext is a fixed-position Context for callers without a syntax
// tree, such as tests and manifest-level checks.
type StaticContext struct {
	File      string
	Pos       diag.Location
	Targeting compat.TargetSet
	Flags     Overrides
	Sink      diag.Reporter
	Nested    ScriptAnalyzer
}

func (c *StaticContext) Filename() string {
	if c.File != "" {
		return c.File
	}
	return c.Pos.File
}

func (c *StaticContext) Line() int                 { return c.Pos.Line }
func (c *StaticContext) Column() int               { return c.Pos.Column }
func (c *StaticContext) SourceContext() string     { return c.Pos.Context }
func (c *StaticContext) Targets() compat.TargetSet { return c.Targeting }
func (c *StaticContext) Overrides() Overrides      { return c.Flags }
func (c *StaticContext) Analyzer() ScriptAnalyzer  { return c.Nested }

func (c *StaticContext) Reporter() diag.Reporter {
	if c.Sink == nil {
		return diag.NopReporter{}
	}
	return c.Sink
}
