package fuzztests

import (
	"testing"

	"addonlint/internal/diag"
	"addonlint/internal/markup"
	"addonlint/internal/source"
	"addonlint/internal/testkit"
)

func FuzzMarkupCheck(f *testing.F) {
	addSeeds(f, markupSeeds)
	f.Fuzz(func(t *testing.T, input []byte) {
		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.html", clampInput(input)))
		for _, strict := range []bool{false, true} {
			bag := diag.NewBag(256)
			markup.Check(diag.BagReporter{Bag: bag}, string(file.Content), markup.Options{
				Strict: strict,
				Base:   diag.Location{File: file.Path, Line: 1, Column: 1},
			})
			if err := testkit.CheckRules(bag.Items()); err != nil {
				t.Fatal(err)
			}
			if err := testkit.CheckLocations(bag.Items(), file); err != nil {
				t.Fatal(err)
			}
		}
	})
}
