package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"addonlint/internal/diag"
)

func sampleDiagnostics() []diag.Diagnostic {
	return []diag.Diagnostic{
		{
			Severity:    diag.SevWarning,
			Rule:        diag.ID("testcases_javascript_instancetypes", "set_innerHTML", "event_assignment"),
			Title:       "Event handler assignment via innerHTML",
			Description: []string{"Assigning markup with event handlers is unsafe.", "Event handler code: onclick=go()"},
			Location:    diag.Location{File: "/work/addon/content/main.js", Line: 7, Column: 3, Context: "el.innerHTML = '<a onclick=go()>'"},
			Signing:     diag.SigningMedium,
		},
		{
			Severity: diag.SevNotice,
			Rule:     diag.ID("testcases_javascript", "syntax_error"),
			Title:    "JavaScript syntax error",
			Location: diag.Location{File: "/work/addon.xpi!/lib/util.js", Line: 1, Column: 9},
		},
		{
			Severity: diag.SevError,
			Rule:     diag.ID("validator", "load_failed"),
			Title:    "Could not read input",
		},
	}
}

func TestPrettyPlain(t *testing.T) {
	var buf bytes.Buffer
	err := Pretty(&buf, sampleDiagnostics(), PrettyOpts{
		PathMode:        PathModeRelative,
		BaseDir:         "/work",
		ShowContext:     true,
		ShowDescription: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"addon/content/main.js:7:3: WARNING testcases_javascript_instancetypes/set_innerHTML/event_assignment: Event handler assignment via innerHTML",
		"    Assigning markup with event handlers is unsafe.",
		"    Event handler code: onclick=go()",
		"    | el.innerHTML = '<a onclick=go()>'",
		"addon.xpi!/lib/util.js:1:9: NOTICE testcases_javascript/syntax_error: JavaScript syntax error",
		"addonlint: ERROR validator/load_failed: Could not read input",
		"",
	}, "\n")
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("pretty output mismatch (-want +got):\n%s", diff)
	}
}

func TestPrettyTruncatesContext(t *testing.T) {
	d := sampleDiagnostics()[0]
	d.Location.Context = strings.Repeat("x", 50)
	var buf bytes.Buffer
	if err := Pretty(&buf, []diag.Diagnostic{d}, PrettyOpts{ShowContext: true, Width: 20}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "| "+strings.Repeat("x", 17)+"...\n") {
		t.Errorf("context not truncated:\n%s", buf.String())
	}
}

func TestPrettySummary(t *testing.T) {
	var buf bytes.Buffer
	s := Summarize(sampleDiagnostics())
	s.Files = 1
	s.Suppressed = 2
	if err := PrettySummary(&buf, s, false); err != nil {
		t.Fatal(err)
	}
	want := "1 error, 1 warning, 1 notice in 1 file (2 suppressed)\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}
}

func TestShort(t *testing.T) {
	var buf bytes.Buffer
	if err := Short(&buf, sampleDiagnostics(), PathModeBasename, ""); err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"error validator/load_failed -:0:0 Could not read input",
		"warning testcases_javascript_instancetypes/set_innerHTML/event_assignment main.js:7:3 Event handler assignment via innerHTML",
		"notice testcases_javascript/syntax_error util.js:1:9 JavaScript syntax error",
		"",
	}, "\n")
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("short output mismatch (-want +got):\n%s", diff)
	}

	buf.Reset()
	if err := Short(&buf, nil, PathModeAuto, ""); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output for no diagnostics, got %q", buf.String())
	}
}

func TestFormatPath(t *testing.T) {
	tests := []struct {
		path string
		mode PathMode
		base string
		want string
	}{
		{"", PathModeRelative, "/work", ""},
		{"/work/a/b.js", PathModeAuto, "/work", "/work/a/b.js"},
		{"/work/a/b.js", PathModeRelative, "/work", "a/b.js"},
		{"/work/a/b.js", PathModeRelative, "", "/work/a/b.js"},
		{"/other/b.js", PathModeRelative, "/work", "/other/b.js"},
		{"/work/pkg.xpi!/content/x.js", PathModeRelative, "/work", "pkg.xpi!/content/x.js"},
		{"/work/pkg.xpi!/content/x.js", PathModeBasename, "", "x.js"},
		{"/work/pkg.xpi!/content/x.js", PathModeAbsolute, "", "/work/pkg.xpi!/content/x.js"},
	}
	for _, tt := range tests {
		if got := formatPath(tt.path, tt.mode, tt.base); got != tt.want {
			t.Errorf("formatPath(%q, %d, %q) = %q, want %q", tt.path, tt.mode, tt.base, got, tt.want)
		}
	}
}

func TestParsePathMode(t *testing.T) {
	for in, want := range map[string]PathMode{
		"":         PathModeAuto,
		"auto":     PathModeAuto,
		"FULL":     PathModeAbsolute,
		"relative": PathModeRelative,
		"basename": PathModeBasename,
	} {
		got, ok := ParsePathMode(in)
		if !ok || got != want {
			t.Errorf("ParsePathMode(%q) = %d, %v; want %d", in, got, ok, want)
		}
	}
	if _, ok := ParsePathMode("nope"); ok {
		t.Error("ParsePathMode accepted an unknown mode")
	}
}
