package diag

import (
	"testing"
)

func TestReportBuilderEmitsOnce(t *testing.T) {
	bag := NewBag(0)
	b := ReportWarning(BagReporter{Bag: bag}, ID("js", "on*", "handleEvent"), "title").
		WithDescription("first", "second").
		At(Location{File: "a.js", Line: 1, Column: 2, Context: "x.onclick = o;"}).
		Signing(SigningMedium).
		Tier(3)
	b.Emit()
	b.Emit()

	if bag.Len() != 1 {
		t.Fatalf("want 1 diagnostic, got %d", bag.Len())
	}
	d := bag.Items()[0]
	if d.Severity != SevWarning {
		t.Fatalf("severity: want %v, got %v", SevWarning, d.Severity)
	}
	if d.Rule.String() != "js/on*/handleEvent" {
		t.Fatalf("rule: got %q", d.Rule.String())
	}
	if len(d.Description) != 2 || d.Description[1] != "second" {
		t.Fatalf("description: got %#v", d.Description)
	}
	if d.Signing != SigningMedium || d.Tier != 3 {
		t.Fatalf("signing/tier: got %v/%d", d.Signing, d.Tier)
	}
	if d.Location.String() != "a.js:1:2" {
		t.Fatalf("location: got %q", d.Location.String())
	}
}

func TestEmittedDiagnosticIsDetachedFromBuilderInputs(t *testing.T) {
	bag := NewBag(0)
	id := ID("a", "b")
	versions := []VersionRange{{App: "x", Min: "1", Max: "2"}}
	ReportError(BagReporter{Bag: bag}, id, "t").ForVersions(versions...).Emit()

	id[0] = "mutated"
	versions[0].Min = "9"

	d := bag.Items()[0]
	if d.Rule[0] != "a" {
		t.Fatalf("rule id aliased caller slice: %v", d.Rule)
	}
	if d.Versions[0].Min != "1" {
		t.Fatalf("versions aliased caller slice: %v", d.Versions)
	}
}

func TestNilBuilderIsSafe(t *testing.T) {
	var b *ReportBuilder
	b.WithDescription("x").At(Location{}).Signing(SigningHigh).Emit()
	if got := b.Diagnostic(); got.Title != "" {
		t.Fatalf("want zero diagnostic, got %#v", got)
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(0)
	r := NewDedupReporter(BagReporter{Bag: bag})
	loc := Location{File: "a.js", Line: 1, Column: 1}
	for range 3 {
		ReportNotice(r, ID("x", "y"), "same").At(loc).Emit()
	}
	ReportNotice(r, ID("x", "y"), "same").At(Location{File: "a.js", Line: 2, Column: 1}).Emit()
	if bag.Len() != 2 {
		t.Fatalf("want 2 diagnostics after dedup, got %d", bag.Len())
	}
}

func TestMultiReporterFansOut(t *testing.T) {
	a, b := NewBag(0), NewBag(0)
	r := MultiReporter{BagReporter{Bag: a}, nil, BagReporter{Bag: b}}
	ReportError(r, ID("x"), "t").Emit()
	if a.Len() != 1 || b.Len() != 1 {
		t.Fatalf("want one diagnostic in each bag, got %d and %d", a.Len(), b.Len())
	}
}
