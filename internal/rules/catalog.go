package rules

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"
	"strings"

	"addonlint/internal/compat"
	"addonlint/internal/diag"
	"addonlint/internal/markup"
)

// BugzillaBug formats a bug link.
const BugzillaBug = "https://bugzilla.mozilla.org/show_bug.cgi?id=%d"

// Rule describes one diagnostic the validator can emit.
type Rule struct {
	ID       diag.RuleID
	Severity diag.Severity
	Title    string
	// Property and Access are empty for rules not tied to a property hook.
	Property string
	Access   Mode
	Signing  diag.SigningSeverity
	Compat   diag.CompatType
	Tier     int
	Versions compat.Definition
}

// Report starts a diagnostic pre-filled from the rule.
func (r *Rule) Report(rep diag.Reporter) *diag.ReportBuilder {
	b := diag.NewReportBuilder(rep, r.Severity, r.ID, r.Title)
	if r.Signing != diag.SigningNone {
		b.Signing(r.Signing)
	}
	if r.Compat != diag.CompatNone {
		b.Compat(r.Compat)
	}
	if r.Tier != 0 {
		b.Tier(r.Tier)
	}
	if len(r.Versions) > 0 {
		b.ForVersions(r.Versions.Diag()...)
	}
	return b
}

var catalog []*Rule

func define(r Rule) *Rule {
	p := &r
	catalog = append(catalog, p)
	return p
}

// Rules emitted outside property hooks.
var (
	RuleSyntaxError = define(Rule{
		ID:       diag.ID("testcases_scripting", "test_js_file", "syntax_error"),
		Severity: diag.SevNotice,
		Title:    "JavaScript syntax error",
	})
	RuleRecursionLimit = define(Rule{
		ID:       diag.ID("testcases_scripting", "test_js_file", "recursion_limit"),
		Severity: diag.SevNotice,
		Title:    "Nested script analysis depth exceeded",
	})
	RuleLoadFailed = define(Rule{
		ID:       diag.ID("addonlint", "io", "load_failed"),
		Severity: diag.SevError,
		Title:    "File could not be read",
	})
	RuleRemoteSrc = define(Rule{
		ID:       markup.RuleRemoteSrc,
		Severity: diag.SevWarning,
		Title:    "Remote content loaded in markup",
		Signing:  diag.SigningHigh,
	})
	RuleUnclosedTag = define(Rule{
		ID:       markup.RuleUnclosedTag,
		Severity: diag.SevNotice,
		Title:    "Unclosed element",
	})
	RuleMismatchedClose = define(Rule{
		ID:       markup.RuleMismatchedClose,
		Severity: diag.SevNotice,
		Title:    "Closing tag without an open element",
	})
)

// Catalog returns every rule sorted by id.
func Catalog() []Rule {
	out := make([]Rule, len(catalog))
	for i, r := range catalog {
		out[i] = *r
	}
	slices.SortFunc(out, func(a, b Rule) int {
		return strings.Compare(a.ID.String(), b.ID.String())
	})
	return out
}

// LookupRule finds a rule by id.
func LookupRule(id diag.RuleID) (Rule, bool) {
	for _, r := range catalog {
		if r.ID.Equal(id) {
			return *r, true
		}
	}
	return Rule{}, false
}

// Fingerprint identifies the rule set, so cached results are discarded when
// rules change.
func Fingerprint() string {
	h := sha256.New()
	for _, r := range Catalog() {
		fmt.Fprintf(h, "%s|%d|%s|%d|%d|%d\n", r.ID, r.Severity, r.Title, r.Signing, r.Compat, r.Tier)
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}
