package suppress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"addonlint/internal/diag"
)

func sample() diag.Diagnostic {
	return diag.Diagnostic{
		Severity: diag.SevNotice,
		Rule:     diag.ID("testcases_javascript_instanceproperties", "get_startendMarker"),
		Title:    "`_startMarker` and `_endMarker` changed in Gecko 13",
		Location: diag.Location{File: "lib/vendor/tree.js", Line: 12, Column: 4},
		Compat:   diag.CompatError,
		Tier:     5,
	}
}

func TestMatch(t *testing.T) {
	tests := []struct {
		expr string
		want bool
	}{
		{`rule.startsWith("testcases_javascript_instanceproperties") && severity == "notice"`, true},
		{`severity == "error"`, false},
		{`file.matches("^lib/vendor/")`, true},
		{`rule_parts[1] == "get_startendMarker"`, true},
		{`tier >= 5 && compat == "error"`, true},
		{`line > 100`, false},
		{`line == 12 && column == 4`, true},
		{`column > 4`, false},
		{`signing == "high"`, false},
		{`overrides["vendor_ok"] == "true"`, true},
	}
	for _, tt := range tests {
		set, err := Compile([]string{tt.expr}, map[string]string{"vendor_ok": "true"})
		require.NoError(t, err, tt.expr)
		assert.Equal(t, tt.want, set.Match(sample()), tt.expr)
	}
}

func TestCompileRejectsBadExpressions(t *testing.T) {
	_, err := Compile([]string{`severity ==`}, nil)
	require.Error(t, err)

	_, err = Compile([]string{`tier + 1`}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must evaluate to bool")

	_, err = Compile([]string{`unknown_var == 1`}, nil)
	require.Error(t, err)
}

func TestEvalErrorsKeepDiagnostics(t *testing.T) {
	set, err := Compile([]string{`overrides["missing"] == "x"`}, nil)
	require.NoError(t, err)
	assert.False(t, set.Match(sample()))
	assert.EqualValues(t, 1, set.EvalErrors())
}

func TestFilterForwardsUnmatched(t *testing.T) {
	set, err := Compile([]string{`severity == "notice"`, `file == "skip.js"`}, nil)
	require.NoError(t, err)

	bag := diag.NewBag(0)
	f := Filter{Set: set, Next: diag.BagReporter{Bag: bag}}

	f.Report(sample())
	warn := sample()
	warn.Severity = diag.SevWarning
	f.Report(warn)
	skipped := warn
	skipped.Location.File = "skip.js"
	f.Report(skipped)

	require.Equal(t, 1, bag.Len())
	assert.Equal(t, diag.SevWarning, bag.Items()[0].Severity)
	assert.EqualValues(t, 2, set.Suppressed())
	assert.Equal(t, 2, set.Len())
}

func TestEmptySetPassesEverything(t *testing.T) {
	var set *Set
	bag := diag.NewBag(0)
	Filter{Set: set, Next: diag.BagReporter{Bag: bag}}.Report(sample())
	assert.Equal(t, 1, bag.Len())
	assert.Zero(t, set.Suppressed())
}
