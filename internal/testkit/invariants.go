// Package testkit holds assertions shared by checker tests.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"addonlint/internal/diag"
	"addonlint/internal/source"
)

// CheckLocations verifies that every diagnostic located in sf points at an
// existing line, and at a byte column no further than one past its end.
// Columns are 1-based; a zero column means "whole line".
func CheckLocations(items []diag.Diagnostic, sf *source.File) error {
	if sf == nil {
		return fmt.Errorf("nil file")
	}
	lines := sf.LineCount()
	for i, d := range items {
		loc := d.Location
		if loc.File != sf.Path {
			continue
		}
		if loc.Line < 1 || loc.Line > lines {
			return fmt.Errorf("diagnostic %d (%s): line %d outside 1..%d", i, d.Rule, loc.Line, lines)
		}
		n, err := safecast.Conv[uint32](loc.Line)
		if err != nil {
			return fmt.Errorf("diagnostic %d (%s): %w", i, d.Rule, err)
		}
		width := len(sf.GetLine(n))
		if loc.Column < 0 || loc.Column > width+1 {
			return fmt.Errorf("diagnostic %d (%s): column %d outside 0..%d on line %d", i, d.Rule, loc.Column, width+1, loc.Line)
		}
	}
	return nil
}

// CheckRules verifies that every diagnostic carries a rule and a title.
func CheckRules(items []diag.Diagnostic) error {
	for i, d := range items {
		if d.Rule.String() == "" {
			return fmt.Errorf("diagnostic %d at %s has no rule", i, d.Location)
		}
		if d.Title == "" {
			return fmt.Errorf("diagnostic %d (%s) has no title", i, d.Rule)
		}
	}
	return nil
}
