package diag

import (
	"slices"
	"strings"
)

// RuleID is an opaque ordered tuple of strings identifying the rule that
// produced a diagnostic, e.g. ("testcases_javascript_instancetypes",
// "set_innerHTML", "event_assignment").
type RuleID []string

// ID builds a RuleID from its parts.
func ID(parts ...string) RuleID {
	return RuleID(slices.Clone(parts))
}

// ParseRuleID splits a slash-joined identifier back into its parts.
func ParseRuleID(s string) RuleID {
	if s == "" {
		return nil
	}
	return RuleID(strings.Split(s, "/"))
}

func (id RuleID) String() string {
	return strings.Join(id, "/")
}

// Last returns the final element, or "" for an empty id.
func (id RuleID) Last() string {
	if len(id) == 0 {
		return ""
	}
	return id[len(id)-1]
}

// Equal compares ids element by element.
func (id RuleID) Equal(other RuleID) bool {
	return slices.Equal(id, other)
}

// HasPrefix reports whether id starts with all of prefix's parts.
func (id RuleID) HasPrefix(prefix RuleID) bool {
	if len(prefix) > len(id) {
		return false
	}
	return slices.Equal(id[:len(prefix)], prefix)
}

// Match compares id against a pattern where "*" matches any single part.
func (id RuleID) Match(pattern RuleID) bool {
	if len(id) != len(pattern) {
		return false
	}
	for i, p := range pattern {
		if p != "*" && p != id[i] {
			return false
		}
	}
	return true
}
