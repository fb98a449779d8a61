package fuzztests

import (
	"context"
	"errors"
	"testing"
	"time"

	"addonlint/internal/diag"
	"addonlint/internal/scripting"
	"addonlint/internal/testkit"
)

// analyzeTimeout bounds one input; exceeding it means the walker loops.
const analyzeTimeout = 5 * time.Second

func checkFindings(t *testing.T, bag *diag.Bag) {
	t.Helper()
	if err := testkit.CheckRules(bag.Items()); err != nil {
		t.Fatal(err)
	}
	for _, d := range bag.Items() {
		if d.Location.Line < 0 || d.Location.Column < 0 {
			t.Fatalf("negative position: %+v", d.Location)
		}
	}
}

func FuzzAnalyzeScript(f *testing.F) {
	addSeeds(f, scriptSeeds)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		bag := diag.NewBag(256)
		a := scripting.NewAnalyzer(context.Background(), diag.BagReporter{Bag: bag}, scripting.Options{MaxDepth: 3})
		if err := a.AnalyzeSource("fuzz.js", input); err != nil {
			t.Skip(err)
		}
		checkFindings(t, bag)
	})
}

// FuzzAnalyzeScriptNoHang feeds content scripts that re-enter the analyzer
// through nested evaluation and requires every run to finish in time.
func FuzzAnalyzeScriptNoHang(f *testing.F) {
	addSeeds(f, scriptSeeds)
	f.Add([]byte("w.contentScript = \"w.contentScript = 'w.contentScript = \\\"x\\\"'\";"))
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		ctx, cancel := context.WithTimeout(context.Background(), analyzeTimeout)
		defer cancel()

		done := make(chan error, 1)
		go func() {
			a := scripting.NewAnalyzer(ctx, diag.NopReporter{}, scripting.Options{})
			done <- a.AnalyzeSource("fuzz.js", input)
		}()
		select {
		case err := <-done:
			if errors.Is(err, context.DeadlineExceeded) {
				t.Fatalf("analysis of %d bytes exceeded %s", len(input), analyzeTimeout)
			}
		case <-time.After(2 * analyzeTimeout):
			t.Fatalf("analysis of %d bytes ignored cancellation", len(input))
		}
	})
}
