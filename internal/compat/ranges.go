package compat

import (
	"fmt"

	"addonlint/internal/diag"
)

// Range is a half-open [Min, Max) span of one application's versions.
type Range struct {
	App string // GUID
	Min string
	Max string
}

// Contains reports whether version falls inside r.
func (r Range) Contains(version string) bool {
	v := VersionInt(version)
	return v >= VersionInt(r.Min) && v < VersionInt(r.Max)
}

func (r Range) String() string {
	return fmt.Sprintf("%s [%s, %s)", AppName(r.App), r.Min, r.Max)
}

// Definition lists the ranges a version-bound rule applies to.
type Definition []Range

// Diag converts the definition into the diagnostic representation.
func (d Definition) Diag() []diag.VersionRange {
	out := make([]diag.VersionRange, len(d))
	for i, r := range d {
		out[i] = diag.VersionRange{App: r.App, Min: r.Min, Max: r.Max}
	}
	return out
}

// For returns the range for one application, if the definition has one.
func (d Definition) For(guid string) (Range, bool) {
	for _, r := range d {
		if r.App == guid {
			return r, true
		}
	}
	return Range{}, false
}

// Gecko builds the definition for one Gecko major release: Firefox, Firefox
// for Android and Thunderbird share the Gecko number, SeaMonkey trails as
// 2.(n-3).
func Gecko(n int) Definition {
	gecko := func(app App) Range {
		return Range{App: app.GUID, Min: fmt.Sprintf("%d.0a1", n), Max: fmt.Sprintf("%d.0a1", n+1)}
	}
	return Definition{
		gecko(Firefox),
		gecko(Android),
		gecko(Thunderbird),
		{App: SeaMonkey.GUID, Min: fmt.Sprintf("2.%da1", n-3), Max: fmt.Sprintf("2.%da1", n-2)},
	}
}

var (
	FX10 = Gecko(10)
	FX13 = Gecko(13)
	FX30 = Gecko(30)
)
