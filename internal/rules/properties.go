package rules

import (
	"fmt"

	"addonlint/internal/compat"
	"addonlint/internal/diag"
	"addonlint/internal/jsval"
)

const propertiesNamespace = "testcases_javascript_instanceproperties"

var (
	ruleIsElementContentWhitespace = define(Rule{
		ID:       diag.ID(propertiesNamespace, "get_iECW"),
		Severity: diag.SevError,
		Title:    "isElementContentWhitespace property removed in Gecko 10.",
		Property: "isElementContentWhitespace",
		Access:   ModeGet,
		Compat:   diag.CompatError,
		Tier:     5,
		Versions: compat.FX10,
	})
	ruleStartEndMarker = define(Rule{
		ID:       diag.ID(propertiesNamespace, "get_startendMarker"),
		Severity: diag.SevNotice,
		Title:    "`_startMarker` and `_endMarker` changed in Gecko 13",
		Property: "_startMarker, _endMarker",
		Access:   ModeGet | ModeSet,
		Compat:   diag.CompatError,
		Tier:     5,
		Versions: compat.FX13,
	})
	ruleProto = define(Rule{
		ID:       diag.ID(propertiesNamespace, "__proto__"),
		Severity: diag.SevWarning,
		Title:    "Using __proto__ or setPrototypeOf to set a prototype is now deprecated.",
		Property: "__proto__",
		Access:   ModeSet,
	})
	ruleExposedProps = define(Rule{
		ID:       diag.ID(propertiesNamespace, "__exposedProps__"),
		Severity: diag.SevWarning,
		Title:    "Use of deprecated __exposedProps__ declaration",
		Property: "__exposedProps__",
		Access:   ModeSet,
		Signing:  diag.SigningHigh,
	})
	ruleDOMVKEnter = define(Rule{
		ID:       diag.ID(propertiesNamespace, "get_DOM_VK_ENTER"),
		Severity: diag.SevWarning,
		Title:    "DOM_VK_ENTER has been removed.",
		Property: "DOM_VK_ENTER",
		Access:   ModeGet,
		Compat:   diag.CompatWarning,
		Tier:     5,
		Versions: compat.FX30,
	})
	ruleContentScript = define(Rule{
		ID:       diag.ID(propertiesNamespace, "contentScript", "set_non_literal"),
		Severity: diag.SevWarning,
		Title:    "`contentScript` properties should not be used",
		Property: "contentScript",
		Access:   ModeSet,
		Signing:  diag.SigningHigh,
	})
)

var xmlBugs = []struct {
	name string
	bug  int
}{
	{"xmlEncoding", 687426},
	{"xmlStandalone", 693154},
	{"xmlVersion", 693162},
}

// xmlRules holds the per-property rules for the xml* removals.
var xmlRules = defineXMLRules()

func defineXMLRules() map[string]*Rule {
	out := make(map[string]*Rule, len(xmlBugs))
	for _, x := range xmlBugs {
		out[x.name] = define(Rule{
			ID:       diag.ID(propertiesNamespace, "_get_xml", x.name),
			Severity: diag.SevError,
			Title:    fmt.Sprintf("%s has been removed in Gecko 10", x.name),
			Property: x.name,
			Access:   ModeGet,
			Compat:   diag.CompatError,
			Tier:     5,
			Versions: compat.FX10,
		})
	}
	return out
}

func getIsElementContentWhitespace(ctx Context) {
	ruleIsElementContentWhitespace.Report(ctx.Reporter()).
		WithDescription(`The "isElementContentWhitespace" property has been removed. See ` + fmt.Sprintf(BugzillaBug, 687422) + " for more information.").
		At(Location(ctx)).
		Emit()
}

func startEndMarker(ctx Context) {
	ruleStartEndMarker.Report(ctx.Reporter()).
		WithDescription("The `_startMarker` and `_endMarker` variables have changed in a backward-incompatible way in Gecko 13. They are now element references instead of numeric indices. See " + fmt.Sprintf(BugzillaBug, 731563) + " for more information.").
		At(Location(ctx)).
		Emit()
}

func getXML(name string, bug int) GetFunc {
	rule := xmlRules[name]
	return func(ctx Context) {
		rule.Report(ctx.Reporter()).
			WithDescription(fmt.Sprintf(`The "%s" property has been removed. See %s for more information.`, name, fmt.Sprintf(BugzillaBug, bug))).
			At(Location(ctx)).
			Emit()
	}
}

func setProto(_ jsval.Value, ctx Context) {
	ruleProto.Report(ctx.Reporter()).
		WithDescription("Use of __proto__ or setPrototypeOf to set a prototype causes severe performance degradation, and is deprecated. You should use Object.create instead. See bug " + fmt.Sprintf(BugzillaBug, 948227) + " for more information.").
		At(Location(ctx)).
		Emit()
}

func setExposedProps(_ jsval.Value, ctx Context) {
	ruleExposedProps.Report(ctx.Reporter()).
		WithDescription("The use of __exposedProps__ to expose objects to unprivileged scopes is dangerous, and has been deprecated. If objects must be exposed to unprivileged scopes, `cloneInto` or `exportFunction` should be used instead.").
		At(Location(ctx)).
		Emit()
}

func getDOMVKEnter(ctx Context) {
	ruleDOMVKEnter.Report(ctx.Reporter()).
		WithDescription("DOM_VK_ENTER has been removed. Removing it from your code shouldn't have any impact since it was never triggered in Firefox anyway. See bug " + fmt.Sprintf(BugzillaBug, 969247) + " for more information.").
		At(Location(ctx)).
		Emit()
}

// setContentScript treats literal content scripts as code and analyzes them
// in place; anything else is as opaque as eval.
func setContentScript(v jsval.Value, ctx Context) {
	if v.IsLiteral() {
		code, _ := jsval.ToString(v)
		if a := ctx.Analyzer(); a != nil {
			a.AnalyzeNested(code, Location(ctx))
		}
		return
	}
	ruleContentScript.Report(ctx.Reporter()).
		WithDescription("Creating content scripts from dynamic values is dangerous and error-prone. Please use a separate JavaScript file, along with the `contentScriptFile` property instead.").
		At(Location(ctx)).
		Emit()
}
