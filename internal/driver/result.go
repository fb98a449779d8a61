package driver

import (
	"addonlint/internal/diag"
	"addonlint/internal/observ"
	"addonlint/internal/scripting"
)

// FileResult is the outcome of checking one file or package member.
type FileResult struct {
	// Path is the display path; package members read "pkg.xpi!/member".
	Path    string
	Kind    Kind
	Bag     *diag.Bag
	Outcome string // one of the metrics.Outcome* values
	Stats   scripting.Stats
	Timing  *observ.Report
}

// Result collects every file of a run in input order.
type Result struct {
	Root   string
	Files  []FileResult
	Timing *observ.Report
}

// Diagnostics merges every file's findings, sorted by location.
func (r *Result) Diagnostics() []diag.Diagnostic {
	if r == nil {
		return nil
	}
	n := 0
	for _, f := range r.Files {
		if f.Bag != nil {
			n += f.Bag.Len()
		}
	}
	merged := diag.NewBag(n)
	for _, f := range r.Files {
		if f.Bag != nil {
			merged.Merge(f.Bag)
		}
	}
	merged.Sort()
	return merged.Items()
}

// Dropped sums diagnostics discarded by per-file caps.
func (r *Result) Dropped() int {
	if r == nil {
		return 0
	}
	total := 0
	for _, f := range r.Files {
		if f.Bag != nil {
			total += f.Bag.Dropped()
		}
	}
	return total
}

// HasErrors reports whether any file has an Error diagnostic.
func (r *Result) HasErrors() bool {
	return r.has((*diag.Bag).HasErrors)
}

// HasWarnings reports whether any file has a Warning diagnostic.
func (r *Result) HasWarnings() bool {
	return r.has((*diag.Bag).HasWarnings)
}

func (r *Result) has(pred func(*diag.Bag) bool) bool {
	if r == nil {
		return false
	}
	for _, f := range r.Files {
		if f.Bag != nil && pred(f.Bag) {
			return true
		}
	}
	return false
}

// Counts tallies files by outcome.
func (r *Result) Counts() map[string]int {
	out := map[string]int{}
	if r == nil {
		return out
	}
	for _, f := range r.Files {
		out[f.Outcome]++
	}
	return out
}
