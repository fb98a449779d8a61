package diagfmt

import (
	"encoding/json"
	"io"

	"github.com/google/uuid"

	"addonlint/internal/compat"
	"addonlint/internal/diag"
)

// VersionJSON is one application range a diagnostic applies to.
type VersionJSON struct {
	App     string `json:"app"`
	AppName string `json:"app_name,omitempty"`
	Min     string `json:"min"`
	Max     string `json:"max"`
}

// LocationJSON is where a diagnostic points.
type LocationJSON struct {
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
	Context string `json:"context,omitempty"`
}

// DiagnosticJSON is one diagnostic in JSON output.
type DiagnosticJSON struct {
	ID            []string      `json:"id"`
	Rule          string        `json:"rule"`
	Severity      string        `json:"severity"`
	Message       string        `json:"message"`
	Description   []string      `json:"description,omitempty"`
	Location      LocationJSON  `json:"location"`
	Versions      []VersionJSON `json:"for_appversions,omitempty"`
	Signing       string        `json:"signing_severity,omitempty"`
	Compatibility string        `json:"compatibility_type,omitempty"`
	Tier          int           `json:"tier,omitempty"`
}

// DiagnosticsOutput is the root of JSON output.
type DiagnosticsOutput struct {
	RunID       string           `json:"run_id"`
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
	Summary     Summary          `json:"summary"`
}

// BuildDiagnosticsOutput assembles the JSON document without encoding it.
func BuildDiagnosticsOutput(items []diag.Diagnostic, summary Summary, opts JSONOpts) DiagnosticsOutput {
	n := len(items)
	if opts.Max > 0 && opts.Max < n {
		n = opts.Max
	}
	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	out := DiagnosticsOutput{
		RunID:       runID,
		Diagnostics: make([]DiagnosticJSON, 0, n),
		Count:       len(items),
		Summary:     summary,
	}
	for _, d := range items[:n] {
		out.Diagnostics = append(out.Diagnostics, toJSON(d, opts.PathMode, opts.BaseDir))
	}
	return out
}

func toJSON(d diag.Diagnostic, mode PathMode, baseDir string) DiagnosticJSON {
	dj := DiagnosticJSON{
		ID:            append([]string{}, d.Rule...),
		Rule:          d.Rule.String(),
		Severity:      d.Severity.Label(),
		Message:       d.Title,
		Description:   d.Description,
		Signing:       d.Signing.String(),
		Compatibility: d.Compat.String(),
		Tier:          d.Tier,
		Location: LocationJSON{
			File:    formatPath(d.Location.File, mode, baseDir),
			Line:    d.Location.Line,
			Column:  d.Location.Column,
			Context: d.Location.Context,
		},
	}
	for _, v := range d.Versions {
		dj.Versions = append(dj.Versions, VersionJSON{
			App:     v.App,
			AppName: compat.AppName(v.App),
			Min:     v.Min,
			Max:     v.Max,
		})
	}
	return dj
}

// JSON encodes diagnostics as a single JSON document.
func JSON(w io.Writer, items []diag.Diagnostic, summary Summary, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	if opts.Indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(BuildDiagnosticsOutput(items, summary, opts))
}
