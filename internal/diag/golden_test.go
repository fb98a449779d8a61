package diag

import (
	"testing"
)

func TestFormatGoldenDiagnostics(t *testing.T) {
	diags := []Diagnostic{
		{
			Severity: SevWarning,
			Rule:     ID("testcases_javascript_instancetypes", "set_innerHTML", "variable_assignment"),
			Title:    "Markup should not be passed to `innerHTML` dynamically.",
			Location: Location{File: "./content/b.js", Line: 2, Column: 1},
		},
		{
			Severity: SevError,
			Rule:     ID("testcases_javascript_instanceproperties", "get_iECW"),
			Title:    "isElementContentWhitespace property\nremoved in Gecko 10.",
			Location: Location{File: "content/a.js", Line: 7, Column: 3},
		},
		{
			Severity: SevNotice,
			Rule:     ID("testcases_scripting", "test_js_file", "syntax_error"),
			Title:    "JavaScript syntax error",
		},
	}

	expected := "notice testcases_scripting/test_js_file/syntax_error -:0:0 JavaScript syntax error\n" +
		"error testcases_javascript_instanceproperties/get_iECW content/a.js:7:3 isElementContentWhitespace property removed in Gecko 10.\n" +
		"warning testcases_javascript_instancetypes/set_innerHTML/variable_assignment content/b.js:2:1 Markup should not be passed to `innerHTML` dynamically."

	if got := FormatGoldenDiagnostics(diags); got != expected {
		t.Fatalf("unexpected golden diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}

func TestFormatGoldenDiagnosticsEmpty(t *testing.T) {
	if got := FormatGoldenDiagnostics(nil); got != "" {
		t.Fatalf("want empty output, got %q", got)
	}
}
