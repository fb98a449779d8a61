package diag

import (
	"fmt"
	"slices"
)

// Location points at the code a diagnostic refers to.
type Location struct {
	File    string `json:"file"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Context string `json:"context,omitempty"`
}

// IsZero reports whether no location was attached.
func (l Location) IsZero() bool {
	return l.File == "" && l.Line == 0 && l.Column == 0
}

func (l Location) String() string {
	if l.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// VersionRange is a half-open [Min, Max) span of one application's versions.
// App is the application GUID; Min and Max are Mozilla version strings.
type VersionRange struct {
	App string `json:"app"`
	Min string `json:"min"`
	Max string `json:"max"`
}

// Diagnostic is one finding. Values are treated as immutable once emitted:
// the builder hands out copies and nothing in this package mutates a stored one.
type Diagnostic struct {
	Severity    Severity
	Rule        RuleID
	Title       string
	Description []string
	Location    Location
	Versions    []VersionRange
	Compat      CompatType
	Signing     SigningSeverity
	Tier        int
}

// Clone returns a deep copy so callers can keep a record past further edits.
func (d Diagnostic) Clone() Diagnostic {
	d.Rule = slices.Clone(d.Rule)
	d.Description = slices.Clone(d.Description)
	d.Versions = slices.Clone(d.Versions)
	return d
}

// Summary returns the title followed by the first description entry, if any.
func (d Diagnostic) Summary() string {
	if len(d.Description) == 0 {
		return d.Title
	}
	return d.Title + ": " + d.Description[0]
}
