package compat

import (
	"context"
	"testing"

	"addonlint/internal/diag"
)

func TestVersionInt(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"10.0", 10000000200100},
		{"10.0a1", 10000000001100},
		{"3.6.*", 3069900200100},
		{"4.0b12", 4000000112100},
		{"4.0pre1", 4000000200001},
		{"", 200100},
	}
	for _, tt := range tests {
		if got := VersionInt(tt.in); got != tt.want {
			t.Fatalf("VersionInt(%q): want %d, got %d", tt.in, tt.want, got)
		}
	}
}

func TestVersionOrdering(t *testing.T) {
	ordered := []string{"9.0", "10.0a1", "10.0a2", "10.0b1", "10.0", "10.0.1", "11.0a1"}
	for i := 1; i < len(ordered); i++ {
		if CompareVersions(ordered[i-1], ordered[i]) >= 0 {
			t.Fatalf("%s must sort before %s", ordered[i-1], ordered[i])
		}
	}
}

func TestGeckoDefinition(t *testing.T) {
	fx, ok := FX10.For(Firefox.GUID)
	if !ok {
		t.Fatalf("FX10 must cover Firefox")
	}
	if !fx.Contains("10.0") || !fx.Contains("10.0b3") || fx.Contains("11.0") || fx.Contains("9.0.1") {
		t.Fatalf("unexpected Firefox range %v", fx)
	}
	sm, ok := FX13.For(SeaMonkey.GUID)
	if !ok || sm.Min != "2.10a1" || sm.Max != "2.11a1" {
		t.Fatalf("unexpected SeaMonkey range %+v", sm)
	}
	if got := len(FX30.Diag()); got != 4 {
		t.Fatalf("FX30 ranges: want 4, got %d", got)
	}
}

func TestSemverCoercion(t *testing.T) {
	tests := map[string]string{
		"10.0":     "10.0.0",
		"10.0a1":   "10.0.0-a1",
		"3.6.28":   "3.6.28",
		"2.0.0.20": "2.0.0+20",
	}
	for in, want := range tests {
		v, err := Semver(in)
		if err != nil {
			t.Fatalf("Semver(%q): %v", in, err)
		}
		if v.String() != want {
			t.Fatalf("Semver(%q): want %s, got %s", in, want, v.String())
		}
	}
	if _, err := Semver("latest"); err == nil {
		t.Fatalf("want error for non-version input")
	}
}

func TestTargetSetRelevance(t *testing.T) {
	d := diag.Diagnostic{Severity: diag.SevError, Versions: FX10.Diag()}

	var empty TargetSet
	if !empty.Relevant(d) {
		t.Fatalf("without targets every diagnostic is relevant")
	}

	ts, err := NewTargetSet(map[string]string{"firefox": ">= 10.0, < 31.0"})
	if err != nil {
		t.Fatalf("NewTargetSet: %v", err)
	}
	if !ts.Relevant(d) {
		t.Fatalf("Firefox 10-30 must include Gecko 10")
	}

	modern, err := NewTargetSet(map[string]string{Firefox.GUID: ">= 45"})
	if err != nil {
		t.Fatalf("NewTargetSet: %v", err)
	}
	if modern.Relevant(d) {
		t.Fatalf("Firefox 45+ must not include Gecko 10")
	}
	if !modern.Relevant(diag.Diagnostic{}) {
		t.Fatalf("unversioned diagnostics are always relevant")
	}

	tbOnly, _ := NewTargetSet(map[string]string{"thunderbird": "~10.0"})
	if !tbOnly.Relevant(d) {
		t.Fatalf("Thunderbird 10.x overlaps FX10")
	}
}

func TestTargetFilter(t *testing.T) {
	ts, _ := NewTargetSet(map[string]string{"firefox": ">= 45"})
	bag := diag.NewBag(0)
	f := TargetFilter{Targets: ts, Next: diag.BagReporter{Bag: bag}}
	diag.ReportError(f, diag.ID("x", "gecko10"), "old").ForVersions(FX10.Diag()...).Emit()
	diag.ReportWarning(f, diag.ID("x", "always"), "any").Emit()
	if bag.Len() != 1 || bag.Items()[0].Rule.Last() != "always" {
		t.Fatalf("unexpected filter result: %#v", bag.Items())
	}
}

func TestParseTargetAndUnknownApp(t *testing.T) {
	app, c, err := ParseTarget("seamonkey= >=2.7")
	if err != nil || app != "seamonkey" || c != ">=2.7" {
		t.Fatalf("ParseTarget: %q %q %v", app, c, err)
	}
	if _, _, err := ParseTarget("nope"); err == nil {
		t.Fatalf("want error without '='")
	}
	var ts TargetSet
	if err := ts.Add("netscape", "*"); err == nil {
		t.Fatalf("want error for unknown application")
	}
	if err := ts.Add("firefox", ">= banana"); err == nil {
		t.Fatalf("want error for bad constraint")
	}
}

type fakeSource map[string][]string

func (f fakeSource) Versions(_ context.Context, guid string) ([]string, error) {
	return f[guid], nil
}

func TestExpand(t *testing.T) {
	ts, _ := NewTargetSet(map[string]string{"firefox": ">= 10, < 12"})
	src := fakeSource{Firefox.GUID: {"13.0", "11.0", "10.0.2", "10.0a1", "9.0"}}
	got, err := ts.Expand(context.Background(), src)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	want := []string{"11.0", "10.0.2", "10.0a1"}
	if len(got[Firefox.GUID]) != len(want) {
		t.Fatalf("want %v, got %v", want, got[Firefox.GUID])
	}
	for i := range want {
		if got[Firefox.GUID][i] != want[i] {
			t.Fatalf("want %v, got %v", want, got[Firefox.GUID])
		}
	}
}
