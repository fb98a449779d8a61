package rules

import (
	"addonlint/internal/diag"
	"addonlint/internal/jsval"
)

var (
	ruleOnEventString = define(Rule{
		ID:       diag.ID("testcases_javascript_instancetypes", "set_on_event", "on*_str_assignment"),
		Severity: diag.SevWarning,
		Title:    "on* property being assigned string",
		Property: "on*",
		Access:   ModeSet,
		Signing:  diag.SigningMedium,
	})
	ruleHandleEvent = define(Rule{
		ID:       diag.ID("js", "on*", "handleEvent"),
		Severity: diag.SevWarning,
		Title:    "`handleEvent` no longer implemented in Gecko 18.",
		Property: "on*",
		Access:   ModeSet,
	})
)

// setOnEvent is the fallback for every on* property without its own entry.
// The prefix test also catches names like "online" or "one"; such
// properties get the same treatment.
func setOnEvent(v jsval.Value, ctx Context) {
	if _, ok := v.Text(); ok {
		ruleOnEventString.Report(ctx.Reporter()).
			WithDescription("Event handlers in JavaScript should not be assigned by setting an on* property to a string of JS code. Rather, consider using addEventListener.").
			At(Location(ctx)).
			Emit()
		return
	}
	if v.IsObject() && v.AsObject().Has(jsval.CapHandleEvent) {
		ruleHandleEvent.Report(ctx.Reporter()).
			WithDescription("As of Gecko 18, objects with `handleEvent` methods may no longer be assigned to `on*` properties. Doing so will be equivalent to assigning `null` to the property.").
			At(Location(ctx)).
			Emit()
	}
}
