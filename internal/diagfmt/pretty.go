package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"addonlint/internal/diag"
)

const defaultWidth = 100

type palette struct {
	sev     map[diag.Severity]*color.Color
	rule    *color.Color
	path    *color.Color
	gutter  *color.Color
	summary *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		sev: map[diag.Severity]*color.Color{
			diag.SevError:   color.New(color.FgRed, color.Bold),
			diag.SevWarning: color.New(color.FgYellow, color.Bold),
			diag.SevNotice:  color.New(color.FgCyan),
		},
		rule:    color.New(color.Faint),
		path:    color.New(color.Bold),
		gutter:  color.New(color.FgBlue),
		summary: color.New(color.Bold),
	}
	all := []*color.Color{p.rule, p.path, p.gutter, p.summary}
	for _, c := range p.sev {
		all = append(all, c)
	}
	for _, c := range all {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Pretty writes diagnostics in human-readable form, in the order given
// (callers sort first). For each diagnostic:
//
//	<path>:<line>:<col>: <SEV> <rule/id>: <title>
//	    <description lines>
//	    | <source context>
func Pretty(w io.Writer, items []diag.Diagnostic, opts PrettyOpts) error {
	pal := newPalette(opts.Color)
	width := opts.Width
	if width <= 0 {
		width = defaultWidth
	}

	for _, d := range items {
		var b strings.Builder
		b.WriteString(pal.path.Sprint(locationPrefix(d.Location, opts.PathMode, opts.BaseDir)))
		b.WriteString(": ")
		b.WriteString(pal.sev[d.Severity].Sprint(d.Severity.String()))
		b.WriteByte(' ')
		b.WriteString(pal.rule.Sprint(d.Rule.String()))
		b.WriteString(": ")
		b.WriteString(d.Title)
		b.WriteByte('\n')

		if opts.ShowDescription {
			for _, line := range d.Description {
				for _, part := range strings.Split(strings.TrimSpace(line), "\n") {
					b.WriteString("    ")
					b.WriteString(part)
					b.WriteByte('\n')
				}
			}
		}
		if opts.ShowContext && d.Location.Context != "" {
			b.WriteString("    ")
			b.WriteString(pal.gutter.Sprint("|"))
			b.WriteByte(' ')
			b.WriteString(runewidth.Truncate(d.Location.Context, width, "..."))
			b.WriteByte('\n')
		}
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
	}
	return nil
}

// PrettySummary writes the closing tally line.
func PrettySummary(w io.Writer, s Summary, colorOn bool) error {
	pal := newPalette(colorOn)
	parts := []string{
		plural(s.Errors, "error"),
		plural(s.Warnings, "warning"),
		plural(s.Notices, "notice"),
	}
	line := fmt.Sprintf("%s in %s", strings.Join(parts, ", "), plural(s.Files, "file"))
	if s.Suppressed > 0 {
		line += fmt.Sprintf(" (%d suppressed)", s.Suppressed)
	}
	if s.Dropped > 0 {
		line += fmt.Sprintf(" (%d over the limit not shown)", s.Dropped)
	}
	_, err := fmt.Fprintln(w, pal.summary.Sprint(line))
	return err
}

func locationPrefix(loc diag.Location, mode PathMode, baseDir string) string {
	path := formatPath(loc.File, mode, baseDir)
	switch {
	case path == "":
		return "addonlint"
	case loc.Line <= 0:
		return path
	case loc.Column <= 0:
		return fmt.Sprintf("%s:%d", path, loc.Line)
	}
	return fmt.Sprintf("%s:%d:%d", path, loc.Line, loc.Column)
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// Summarize counts severities in items.
func Summarize(items []diag.Diagnostic) Summary {
	var s Summary
	for _, d := range items {
		switch d.Severity {
		case diag.SevError:
			s.Errors++
		case diag.SevWarning:
			s.Warnings++
		default:
			s.Notices++
		}
	}
	return s
}

// Short writes one golden-form line per diagnostic.
func Short(w io.Writer, items []diag.Diagnostic, mode PathMode, baseDir string) error {
	if len(items) == 0 {
		return nil
	}
	shown := make([]diag.Diagnostic, len(items))
	for i, d := range items {
		d.Location.File = formatPath(d.Location.File, mode, baseDir)
		shown[i] = d
	}
	_, err := io.WriteString(w, diag.FormatGoldenDiagnostics(shown)+"\n")
	return err
}
