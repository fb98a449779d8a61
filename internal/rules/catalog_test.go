package rules

import (
	"testing"

	"addonlint/internal/diag"
)

func TestCatalogIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, r := range Catalog() {
		id := r.ID.String()
		if seen[id] {
			t.Fatalf("duplicate rule id %s", id)
		}
		seen[id] = true
		if r.Title == "" {
			t.Fatalf("%s: empty title", id)
		}
	}
}

func TestCatalogIsSorted(t *testing.T) {
	rules := Catalog()
	for i := 1; i < len(rules); i++ {
		if rules[i-1].ID.String() > rules[i].ID.String() {
			t.Fatalf("catalog out of order at %d: %s > %s", i, rules[i-1].ID, rules[i].ID)
		}
	}
}

func TestEveryHookPropertyHasRules(t *testing.T) {
	covered := make(map[string]bool)
	for _, r := range Catalog() {
		if r.Property != "" {
			covered[r.Property] = true
		}
	}
	for _, name := range Default().Properties() {
		if name == "_startMarker" || name == "_endMarker" {
			continue
		}
		if !covered[name] {
			t.Fatalf("property %s has a hook but no catalog entry", name)
		}
	}
}

func TestLookupRule(t *testing.T) {
	r, ok := LookupRule(diag.ParseRuleID("testcases_javascript_instanceproperties/get_iECW"))
	if !ok || r.Severity != diag.SevError {
		t.Fatalf("lookup get_iECW: %+v %v", r, ok)
	}
	if _, ok := LookupRule(diag.ID("no", "such")); ok {
		t.Fatalf("unknown id must not resolve")
	}
}

func TestFingerprintIsStable(t *testing.T) {
	a, b := Fingerprint(), Fingerprint()
	if a != b || len(a) != 16 {
		t.Fatalf("fingerprint %q vs %q", a, b)
	}
}
