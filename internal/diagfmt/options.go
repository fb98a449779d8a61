package diagfmt

import (
	"path/filepath"
	"strings"

	"addonlint/internal/source"
)

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto keeps paths as the driver recorded them.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// ParsePathMode maps a flag value to a PathMode.
func ParsePathMode(s string) (PathMode, bool) {
	switch strings.ToLower(s) {
	case "", "auto":
		return PathModeAuto, true
	case "absolute", "full":
		return PathModeAbsolute, true
	case "relative":
		return PathModeRelative, true
	case "basename":
		return PathModeBasename, true
	}
	return PathModeAuto, false
}

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color    bool
	PathMode PathMode
	BaseDir  string
	// Width bounds the displayed source context; 0 means 100 columns.
	Width           int
	ShowContext     bool
	ShowDescription bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	PathMode PathMode
	BaseDir  string
	Max      int // trims the output, not the run
	// RunID identifies the run; a random UUID when empty.
	RunID  string
	Indent bool
}

// SarifRunMeta provides metadata for SARIF output.
type SarifRunMeta struct {
	ToolName       string
	ToolVersion    string
	InformationURI string
	InvocationArgs []string
	PathMode       PathMode
	BaseDir        string
}

// Summary is the per-run tally shown after the diagnostics.
type Summary struct {
	Files      int   `json:"files"`
	Errors     int   `json:"errors"`
	Warnings   int   `json:"warnings"`
	Notices    int   `json:"notices"`
	Dropped    int   `json:"dropped,omitempty"`
	Suppressed int64 `json:"suppressed,omitempty"`
}

// formatPath renders a diagnostic path. Paths inside packages
// ("addon.xpi!/content/main.js") are only shortened on their outer part.
func formatPath(path string, mode PathMode, baseDir string) string {
	if path == "" {
		return ""
	}
	outer, inner, packaged := strings.Cut(path, "!/")
	switch mode {
	case PathModeAbsolute:
		if abs, err := source.AbsolutePath(outer); err == nil {
			outer = abs
		}
	case PathModeRelative:
		if baseDir != "" {
			if rel, err := source.RelativePath(outer, baseDir); err == nil {
				outer = rel
			}
		}
	case PathModeBasename:
		return source.BaseName(path)
	}
	outer = filepath.ToSlash(outer)
	if packaged {
		return outer + "!/" + inner
	}
	return outer
}
