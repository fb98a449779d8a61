package diag

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

type goldenDiagnostic struct {
	Severity string
	Rule     string
	Path     string
	Line     int
	Column   int
	Title    string
}

// FormatGoldenDiagnostics renders diagnostics into a stable, single-line-per-entry
// representation suitable for golden files and the "short" output format:
//
//	warning testcases_javascript_instancetypes/set_innerHTML/event_assignment a.js:3:5 Event handler assignment via innerHTML
//
// Entries are sorted by path, line, column, severity and rule.
func FormatGoldenDiagnostics(diags []Diagnostic) string {
	if len(diags) == 0 {
		return ""
	}

	rendered := make([]goldenDiagnostic, 0, len(diags))
	for _, d := range diags {
		rendered = append(rendered, goldenDiagnostic{
			Severity: d.Severity.Label(),
			Rule:     d.Rule.String(),
			Path:     normalizePath(d.Location.File),
			Line:     d.Location.Line,
			Column:   d.Location.Column,
			Title:    sanitizeMessage(d.Title),
		})
	}

	sort.SliceStable(rendered, func(i, j int) bool {
		di, dj := rendered[i], rendered[j]
		if di.Path != dj.Path {
			return di.Path < dj.Path
		}
		if di.Line != dj.Line {
			return di.Line < dj.Line
		}
		if di.Column != dj.Column {
			return di.Column < dj.Column
		}
		if di.Severity != dj.Severity {
			return di.Severity < dj.Severity
		}
		if di.Rule != dj.Rule {
			return di.Rule < dj.Rule
		}
		return di.Title < dj.Title
	})

	var b strings.Builder
	for i, d := range rendered {
		path := d.Path
		if path == "" {
			path = "-"
		}
		fmt.Fprintf(&b, "%s %s %s:%d:%d %s", d.Severity, d.Rule, path, d.Line, d.Column, d.Title)
		if i < len(rendered)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func normalizePath(path string) string {
	p := filepath.ToSlash(path)
	for strings.HasPrefix(p, "./") {
		p = strings.TrimPrefix(p, "./")
	}
	return p
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
