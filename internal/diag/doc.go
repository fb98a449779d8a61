// Package diag defines the diagnostic model shared by every validation stage.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity: Notice, Warning or Error, ordered so Error compares highest.
//   - Rule: an opaque RuleID tuple such as
//     ("testcases_javascript_instancetypes", "set_innerHTML", "event_assignment").
//     Downstream suppression and reporting match on it, so ids must stay stable.
//   - Title and Description: a short headline and zero or more detail lines.
//     Several lines render as an ordered list, usually an explanation followed
//     by an escaped excerpt of the offending value.
//   - Location: file, line, column and a context snippet.
//   - Versions, Compat and Tier: set only by version-bound compatibility rules.
//   - Signing: how strongly the finding blocks automated signing.
//
// # Emitting diagnostics
//
// Rule handlers never return errors for violations. They build a record with
// ReportError / ReportWarning / ReportNotice, chain the optional setters, and
// call Emit, which forwards a copy to the Reporter exactly once:
//
//	diag.ReportWarning(r, id, "Markup should not be passed to `innerHTML` dynamically.").
//		WithDescription(desc).
//		At(loc).
//		Emit()
//
// BagReporter collects into a Bag, which supports limits, sorting,
// deduplication and filtering. Reporters compose: the driver wraps a bag with
// metrics, suppression and target filtering before handing it to the analyzer.
//
// Package diag does no formatting beyond the golden one-line form; renderers
// live in internal/diagfmt.
package diag
