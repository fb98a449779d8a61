// Package rules holds the property hook registry and the rule bodies it
// dispatches to.
//
// A traversal that reaches a property read or write calls
// Registry.Resolve(name, mode). Exact names win; when the exact bundle has
// no handler for the mode, ordered fallbacks are tried (the only built-in
// one routes every other "on"-prefixed write to the event handler rule).
// A miss means there is nothing to check.
//
// Handlers never return errors. Every finding is a diagnostic written to
// Context.Reporter, built from the matching Rule in the catalog so ids,
// titles, severities and version data stay in one place. Misusing the
// registry or a jsval accessor panics with a typed error.
//
// The registry returned by Default is built once and shared by every
// concurrent validation.
package rules
