package testkit

import (
	"testing"

	"addonlint/internal/diag"
	"addonlint/internal/source"
)

func TestCheckLocations(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("a.html", []byte("<p>\n<div>\n")))
	at := func(line, col int) []diag.Diagnostic {
		return []diag.Diagnostic{{Rule: diag.ID("r"), Title: "t", Location: diag.Location{File: file.Path, Line: line, Column: col}}}
	}

	if err := CheckLocations(at(2, 1), file); err != nil {
		t.Fatalf("valid location rejected: %v", err)
	}
	if err := CheckLocations(at(2, 6), file); err != nil {
		t.Fatalf("end-of-line column rejected: %v", err)
	}
	for _, bad := range [][2]int{{0, 1}, {3, 1}, {1, 9}} {
		if err := CheckLocations(at(bad[0], bad[1]), file); err == nil {
			t.Errorf("line %d col %d accepted", bad[0], bad[1])
		}
	}
	other := at(99, 99)
	other[0].Location.File = "elsewhere.js"
	if err := CheckLocations(other, file); err != nil {
		t.Fatalf("foreign file checked: %v", err)
	}
}

func TestCheckRules(t *testing.T) {
	if err := CheckRules([]diag.Diagnostic{{Rule: diag.ID("a", "b"), Title: "x"}}); err != nil {
		t.Fatal(err)
	}
	if err := CheckRules([]diag.Diagnostic{{Title: "x"}}); err == nil {
		t.Fatal("missing rule accepted")
	}
	if err := CheckRules([]diag.Diagnostic{{Rule: diag.ID("a")}}); err == nil {
		t.Fatal("missing title accepted")
	}
}
