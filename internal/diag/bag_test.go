package diag

import (
	"testing"
)

func TestBagLimit(t *testing.T) {
	bag := NewBag(2)
	for i := range 3 {
		ok := bag.Add(Diagnostic{Severity: SevNotice, Rule: ID("n"), Location: Location{Line: i + 1}})
		if want := i < 2; ok != want {
			t.Fatalf("Add #%d: want %v, got %v", i, want, ok)
		}
	}
	if bag.Len() != 2 || bag.Dropped() != 1 {
		t.Fatalf("want len 2 dropped 1, got %d/%d", bag.Len(), bag.Dropped())
	}
}

func TestBagSeverityQueries(t *testing.T) {
	bag := NewBag(0)
	bag.Add(Diagnostic{Severity: SevNotice})
	if bag.HasWarnings() || bag.HasErrors() {
		t.Fatalf("notice-only bag must not report warnings or errors")
	}
	bag.Add(Diagnostic{Severity: SevError})
	if !bag.HasWarnings() || !bag.HasErrors() {
		t.Fatalf("error implies warning threshold")
	}
	if bag.Count(SevNotice) != 1 || bag.Count(SevWarning) != 0 {
		t.Fatalf("unexpected counts")
	}
}

func TestBagSort(t *testing.T) {
	bag := NewBag(0)
	bag.Add(Diagnostic{Severity: SevNotice, Rule: ID("c"), Location: Location{File: "b.js", Line: 1}})
	bag.Add(Diagnostic{Severity: SevNotice, Rule: ID("b"), Location: Location{File: "a.js", Line: 2}})
	bag.Add(Diagnostic{Severity: SevError, Rule: ID("z"), Location: Location{File: "a.js", Line: 2}})
	bag.Add(Diagnostic{Severity: SevWarning, Rule: ID("a"), Location: Location{File: "a.js", Line: 1}})
	bag.Sort()

	want := []string{"a", "z", "b", "c"}
	for i, d := range bag.Items() {
		if d.Rule.String() != want[i] {
			t.Fatalf("position %d: want %s, got %s", i, want[i], d.Rule.String())
		}
	}
}

func TestBagMergeAndFilter(t *testing.T) {
	a := NewBag(1)
	a.Add(Diagnostic{Severity: SevWarning, Rule: ID("w")})
	b := NewBag(0)
	b.Add(Diagnostic{Severity: SevNotice, Rule: ID("n")})
	b.Add(Diagnostic{Severity: SevError, Rule: ID("e")})
	a.Merge(b)
	if a.Len() != 3 {
		t.Fatalf("merge must grow the limit, got len %d", a.Len())
	}
	a.Filter(func(d Diagnostic) bool { return d.Severity >= SevWarning })
	if a.Len() != 2 {
		t.Fatalf("filter: want 2, got %d", a.Len())
	}
}

func TestBagDedup(t *testing.T) {
	bag := NewBag(0)
	loc := Location{File: "a.js", Line: 1, Column: 1}
	bag.Add(Diagnostic{Rule: ID("x"), Location: loc, Title: "first"})
	bag.Add(Diagnostic{Rule: ID("x"), Location: loc, Title: "second"})
	bag.Add(Diagnostic{Rule: ID("y"), Location: loc})
	bag.Dedup()
	if bag.Len() != 2 || bag.Items()[0].Title != "first" {
		t.Fatalf("unexpected dedup result: %#v", bag.Items())
	}
}

func TestRuleIDMatching(t *testing.T) {
	id := ID("testcases_javascript_instancetypes", "set_innerHTML", "event_assignment")
	if !id.HasPrefix(ID("testcases_javascript_instancetypes")) {
		t.Fatalf("HasPrefix failed")
	}
	if id.HasPrefix(ID("testcases_javascript_instancetypes", "set_outerHTML")) {
		t.Fatalf("HasPrefix matched wrong handler")
	}
	if !id.Match(ID("*", "set_innerHTML", "event_assignment")) {
		t.Fatalf("wildcard match failed")
	}
	if id.Last() != "event_assignment" {
		t.Fatalf("Last: got %q", id.Last())
	}
	if !ParseRuleID(id.String()).Equal(id) {
		t.Fatalf("ParseRuleID did not invert String")
	}
}

func TestParseSeverity(t *testing.T) {
	cases := map[string]Severity{"notice": SevNotice, "WARNING": SevWarning, " error ": SevError}
	for in, want := range cases {
		got, err := ParseSeverity(in)
		if err != nil || got != want {
			t.Fatalf("ParseSeverity(%q): want %v, got %v (%v)", in, want, got, err)
		}
	}
	if _, err := ParseSeverity("fatal"); err == nil {
		t.Fatalf("want error for unknown severity")
	}
}
