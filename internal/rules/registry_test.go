package rules

import (
	"errors"
	"testing"

	"addonlint/internal/jsval"
)

func expectRegistrationPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		err, _ := recover().(error)
		var re *RegistrationError
		if !errors.As(err, &re) {
			t.Fatalf("want *RegistrationError panic, got %#v", err)
		}
	}()
	fn()
}

func TestResolveExactBeforeFallback(t *testing.T) {
	reg := Default()

	h, ok := reg.Resolve("innerHTML", ModeSet)
	if !ok || h.Property != "innerHTML" || h.Mode != ModeSet {
		t.Fatalf("innerHTML set: got %v %v", h, ok)
	}
	if _, ok := reg.Resolve("innerHTML", ModeGet); ok {
		t.Fatalf("innerHTML has no get handler and is not an on* name")
	}
	h, ok = reg.Resolve("isElementContentWhitespace", ModeGet)
	if !ok || h.Mode != ModeGet {
		t.Fatalf("isElementContentWhitespace get: got %v %v", h, ok)
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	reg := Default()
	first, _ := reg.Resolve("innerHTML", ModeSet)
	for range 10 {
		again, _ := Default().Resolve("innerHTML", ModeSet)
		if again != first {
			t.Fatalf("Resolve returned a different hook: %p vs %p", again, first)
		}
	}
	onA, _ := reg.Resolve("onclick", ModeSet)
	onB, _ := reg.Resolve("onload", ModeSet)
	if onA == nil || onA != onB {
		t.Fatalf("every on* name must resolve to the one fallback hook")
	}
}

func TestFallbackOnlyForSet(t *testing.T) {
	reg := Default()
	if _, ok := reg.Resolve("onclick", ModeGet); ok {
		t.Fatalf("reading on* properties is not intercepted")
	}
	if h, ok := reg.Resolve("onclick", ModeSet); !ok || h.Property != "on*" {
		t.Fatalf("onclick set: got %v %v", h, ok)
	}
}

func TestFallbackPrefixIsCaseSensitive(t *testing.T) {
	reg := Default()
	for _, name := range []string{"OnClick", "ONLOAD", "button", "xon"} {
		if _, ok := reg.Resolve(name, ModeSet); ok {
			t.Fatalf("%q must not match the on* fallback", name)
		}
	}
}

// The on* fallback is a plain prefix test. Properties that merely start with
// "on" are treated as event handlers too; these cases pin that behaviour.
func TestFallbackKnownFalsePositives(t *testing.T) {
	reg := Default()
	for _, name := range []string{"online", "one", "onto", "on"} {
		if h, ok := reg.Resolve(name, ModeSet); !ok || h.Property != "on*" {
			t.Fatalf("%q: want on* fallback, got %v %v", name, h, ok)
		}
	}
}

func TestExactNamesAreCaseSensitive(t *testing.T) {
	reg := Default()
	for _, name := range []string{"innerhtml", "InnerHTML", "innerHTML "} {
		if _, ok := reg.Resolve(name, ModeSet); ok {
			t.Fatalf("%q must not resolve", name)
		}
	}
}

func TestExactEntryShadowsFallbackForItsMode(t *testing.T) {
	var got []string
	reg := NewBuilder().
		Register("onspecial", Bundle{OnSet: func(jsval.Value, Context) { got = append(got, "exact") }}).
		Register("onlyget", Bundle{OnGet: func(Context) { got = append(got, "get") }}).
		Fallback("on*", HasPrefix("on"), Bundle{OnSet: func(jsval.Value, Context) { got = append(got, "fallback") }}).
		Build()

	ctx := &StaticContext{}
	for _, name := range []string{"onspecial", "onlyget", "onother"} {
		h, ok := reg.Resolve(name, ModeSet)
		if !ok {
			t.Fatalf("%s: not resolved", name)
		}
		h.Set("x", ctx)
	}
	want := []string{"exact", "fallback", "fallback"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("dispatch order: want %v, got %v", want, got)
		}
	}
}

func TestFallbacksAreOrdered(t *testing.T) {
	var hit string
	reg := NewBuilder().
		Fallback("first", HasPrefix("data"), Bundle{OnGet: func(Context) { hit = "first" }}).
		Fallback("second", HasPrefix("d"), Bundle{OnGet: func(Context) { hit = "second" }}).
		Build()
	h, _ := reg.Resolve("dataset", ModeGet)
	h.Get(&StaticContext{})
	if hit != "first" {
		t.Fatalf("want first fallback, got %q", hit)
	}
	h, _ = reg.Resolve("dir", ModeGet)
	h.Get(&StaticContext{})
	if hit != "second" {
		t.Fatalf("want second fallback, got %q", hit)
	}
}

func TestRegistrationPreconditions(t *testing.T) {
	expectRegistrationPanic(t, func() {
		NewBuilder().Register("x", Bundle{})
	})
	expectRegistrationPanic(t, func() {
		noop := Bundle{OnGet: func(Context) {}}
		NewBuilder().Register("x", noop).Register("x", noop)
	})
	expectRegistrationPanic(t, func() {
		NewBuilder().Register("", Bundle{OnGet: func(Context) {}})
	})
	expectRegistrationPanic(t, func() {
		b := NewBuilder()
		b.Build()
		b.Register("late", Bundle{OnGet: func(Context) {}})
	})
	expectRegistrationPanic(t, func() {
		NewBuilder().Fallback("nil", nil, Bundle{OnGet: func(Context) {}})
	})
}

func TestHookModeMisusePanics(t *testing.T) {
	h, _ := Default().Resolve("innerHTML", ModeSet)
	expectRegistrationPanic(t, func() { h.Get(&StaticContext{}) })
}

func TestRegistryListing(t *testing.T) {
	reg := Default()
	props := reg.Properties()
	if len(props) != 12 {
		t.Fatalf("want 12 exact properties, got %d: %v", len(props), props)
	}
	if reg.Modes("_startMarker") != ModeGet|ModeSet {
		t.Fatalf("_startMarker must intercept reads and writes")
	}
	if reg.FallbackCount() != 1 {
		t.Fatalf("want one fallback, got %d", reg.FallbackCount())
	}
}

func TestParseOverride(t *testing.T) {
	k, v := ParseOverride("ignore_empty_name")
	if k != "ignore_empty_name" || v != "true" {
		t.Fatalf("bare key: got %q=%q", k, v)
	}
	k, v = ParseOverride(" mode = strict ")
	if k != "mode" || v != "strict" {
		t.Fatalf("pair: got %q=%q", k, v)
	}
	src := map[string]string{"ignore_empty_name": "true"}
	o := NewOverrides(src)
	src["ignore_empty_name"] = "false"
	if !o.Bool("ignore_empty_name") {
		t.Fatalf("overrides must not alias the caller's map")
	}
	if o.Bool("missing") {
		t.Fatalf("missing override must read as false")
	}
}
