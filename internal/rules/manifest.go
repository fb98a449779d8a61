package rules

import (
	"fmt"
	"slices"
	"strings"

	"addonlint/internal/diag"
	"addonlint/internal/manifest"
)

const manifestNamespace = "testcases_installrdf"

// Rules emitted while checking install.rdf predicates.
var (
	RuleManifestBanned = define(Rule{
		ID:       diag.ID(manifestNamespace, "_test_rdf", "shouldnt_exist"),
		Severity: diag.SevError,
		Title:    "Banned element in install.rdf",
	})
	RuleManifestObsolete = define(Rule{
		ID:       diag.ID(manifestNamespace, "_test_rdf", "obsolete"),
		Severity: diag.SevNotice,
		Title:    "Obsolete element in install.rdf",
	})
	RuleManifestOptionsType = define(Rule{
		ID:       diag.ID(manifestNamespace, "_test_rdf", "optionsType"),
		Severity: diag.SevWarning,
		Title:    "<em:optionsType> has bad value.",
	})
	RuleManifestUnrecognized = define(Rule{
		ID:       diag.ID(manifestNamespace, "_test_rdf", "unrecognized"),
		Severity: diag.SevNotice,
		Title:    "Unrecognized element in install.rdf",
	})
	RuleManifestMissing = define(Rule{
		ID:       diag.ID(manifestNamespace, "_test_rdf", "missing_addon"),
		Severity: diag.SevError,
		Title:    "install.rdf missing element(s).",
	})
	RuleManifestMissingUpdateURL = define(Rule{
		ID:       diag.ID(manifestNamespace, "_test_rdf", "missing_updateURL"),
		Severity: diag.SevWarning,
		Title:    "Missing updateURL element",
		Signing:  diag.SigningTrivial,
	})
	RuleManifestMissingUpdateKey = define(Rule{
		ID:       diag.ID(manifestNamespace, "_test_rdf", "missing_updateKey"),
		Severity: diag.SevWarning,
		Title:    "Missing updateKey element",
		Signing:  diag.SigningTrivial,
	})
	RuleManifestUnparseable = define(Rule{
		ID:       diag.ID("addonlint", "manifest", "parse_error"),
		Severity: diag.SevError,
		Title:    "install.rdf could not be parsed",
	})
)

// Override keys read by the manifest rules.
const (
	OverrideIgnoreEmptyName = "ignore_empty_name"
	OverrideListed          = "listed"
)

var (
	mustExistOnce = []string{"id", "version", "name", "targetApplication"}
	mayExistOnce  = []string{
		"about", "bootstrap", "optionsURL", "aboutURL", "iconURL", "icon64URL",
		"homepageURL", "creator", "multiprocessCompatible", "optionsType", "type",
		"updateInfoURL", "updateKey", "updateURL", "updateHash", "signature",
		"skinnable", "strictCompatibility", "unpack",
	}
	mayExist = []string{
		"targetApplication", "localized", "description", "creator", "translator",
		"contributor", "targetPlatform", "requires", "developer",
	}
	obsoletePredicates = []string{"file", "skin", "requires"}
	optionsTypes       = []string{"1", "2", "3"}
)

// CheckManifest reports banned, obsolete, malformed, unrecognized and
// missing predicates of an install manifest. Entry diagnostics point at
// the predicate; missing-element diagnostics point at the manifest node.
func CheckManifest(m *manifest.Manifest, ctx Context) {
	if m == nil {
		return
	}
	flags := ctx.Overrides()
	listed := flags.Bool(OverrideListed)

	once := append([]string(nil), mustExistOnce...)
	optional := append([]string(nil), mayExistOnce...)
	if flags.Bool(OverrideIgnoreEmptyName) {
		once = remove(once, "name")
		optional = append(optional, "name")
	}
	banned := []string{"hidden"}
	if listed {
		banned = append(banned, "updateURL", "updateKey")
	}

	rep := ctx.Reporter()
	for _, e := range m.Entries {
		at := diag.Location{File: ctx.Filename(), Line: e.Line, Column: e.Column}
		switch {
		case slices.Contains(banned, e.Name):
			RuleManifestBanned.Report(rep).
				WithDescription(fmt.Sprintf("<em:%s> is banned in install.rdf.", e.Name)).
				At(at).
				Emit()
			continue
		case slices.Contains(obsoletePredicates, e.Name):
			RuleManifestObsolete.Report(rep).
				WithDescription(fmt.Sprintf("<em:%s> is no longer supported and will be ignored.", e.Name)).
				At(at).
				Emit()
			continue
		}
		if e.Name == "optionsType" && !slices.Contains(optionsTypes, e.Value) {
			RuleManifestOptionsType.Report(rep).
				WithDescription("The value of <em:optionsType> must be either 1, 2, 3.", "Value found: "+e.Value).
				At(at).
				Emit()
		}
		// A blank name counts as absent.
		if e.Name == "name" && strings.TrimSpace(e.Value) == "" {
			continue
		}
		switch {
		case slices.Contains(once, e.Name):
			once = remove(once, e.Name)
		case slices.Contains(optional, e.Name):
			optional = remove(optional, e.Name)
		case slices.Contains(mayExist, e.Name):
		default:
			RuleManifestUnrecognized.Report(rep).
				WithDescription(fmt.Sprintf("<em:%s> is not recognized or appears more often than allowed.", e.Name)).
				At(at).
				Emit()
		}
	}

	if len(once) > 0 {
		RuleManifestMissing.Report(rep).
			WithDescription("One or more elements that are required in install.rdf are missing.",
				"Missing elements: "+strings.Join(once, ", ")).
			At(Location(ctx)).
			Emit()
	}
	if listed {
		return
	}
	updateURL, hasURL := m.Lookup("updateURL")
	if !hasURL {
		RuleManifestMissingUpdateURL.Report(rep).
			WithDescription("Unlisted add-ons should declare <em:updateURL> so users receive updates.").
			At(Location(ctx)).
			Emit()
		return
	}
	if !strings.HasPrefix(strings.ToLower(updateURL.Value), "https:") && !m.Has("updateKey") {
		RuleManifestMissingUpdateKey.Report(rep).
			WithDescription("An <em:updateURL> that is not served over HTTPS requires an <em:updateKey>.").
			At(diag.Location{File: ctx.Filename(), Line: updateURL.Line, Column: updateURL.Column}).
			Emit()
	}
}

func remove(list []string, s string) []string {
	for i, v := range list {
		if v == s {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}
