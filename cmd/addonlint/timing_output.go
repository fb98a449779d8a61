package main

import (
	"cmp"
	"fmt"
	"io"
	"slices"

	"addonlint/internal/driver"
)

// slowestFiles is how many per-file timings --timings lists.
const slowestFiles = 5

func printTimings(out io.Writer, res *driver.Result) {
	if out == nil || res == nil || res.Timing == nil {
		return
	}
	fmt.Fprint(out, res.Timing.Summary())

	files := slices.Clone(res.Files)
	files = slices.DeleteFunc(files, func(f driver.FileResult) bool { return f.Timing == nil })
	slices.SortFunc(files, func(a, b driver.FileResult) int {
		return cmp.Compare(b.Timing.TotalMS, a.Timing.TotalMS)
	})
	if len(files) == 0 {
		return
	}
	fmt.Fprintln(out, "slowest files:")
	for _, f := range files[:min(slowestFiles, len(files))] {
		fmt.Fprintf(out, "  %7.2f ms  %-8s %s\n", f.Timing.TotalMS, f.Outcome, f.Path)
	}
}
