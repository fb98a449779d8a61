package rules

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"addonlint/internal/compat"
	"addonlint/internal/diag"
	"addonlint/internal/jsval"
)

func newTestContext() (*StaticContext, *diag.Bag) {
	bag := diag.NewBag(0)
	ctx := &StaticContext{
		Pos:  diag.Location{File: "content/main.js", Line: 7, Column: 3, Context: "el.innerHTML = x;"},
		Sink: diag.BagReporter{Bag: bag},
	}
	return ctx, bag
}

func set(t *testing.T, ctx Context, property string, raw any) {
	t.Helper()
	h, ok := Default().Resolve(property, ModeSet)
	if !ok {
		t.Fatalf("%s: no set hook", property)
	}
	h.Set(raw, ctx)
}

func get(t *testing.T, ctx Context, property string) {
	t.Helper()
	h, ok := Default().Resolve(property, ModeGet)
	if !ok {
		t.Fatalf("%s: no get hook", property)
	}
	h.Get(ctx)
}

func onlyRule(t *testing.T, bag *diag.Bag) diag.Diagnostic {
	t.Helper()
	if bag.Len() != 1 {
		t.Fatalf("want exactly one diagnostic, got %d: %+v", bag.Len(), bag.Items())
	}
	return bag.Items()[0]
}

func TestInnerHTMLEventAssignment(t *testing.T) {
	ctx, bag := newTestContext()
	set(t, ctx, "innerHTML", "onclick=alert(1)")

	d := onlyRule(t, bag)
	if got := d.Rule.String(); got != "testcases_javascript_instancetypes/set_innerHTML/event_assignment" {
		t.Fatalf("rule: %s", got)
	}
	if d.Severity != diag.SevWarning || d.Signing != diag.SigningMedium {
		t.Fatalf("severity/signing: %v %v", d.Severity, d.Signing)
	}
	if len(d.Description) != 2 || d.Description[1] != "Event handler code: onclick=alert(1)" {
		t.Fatalf("description: %q", d.Description)
	}
	if d.Location.File != "content/main.js" || d.Location.Line != 7 || d.Location.Column != 3 {
		t.Fatalf("location: %+v", d.Location)
	}
}

func TestInnerHTMLEventAttributeInMarkup(t *testing.T) {
	ctx, bag := newTestContext()
	set(t, ctx, "innerHTML", `<div ONCLICK="go()">x</div>`)
	if d := onlyRule(t, bag); d.Rule.Last() != "event_assignment" {
		t.Fatalf("rule: %s", d.Rule)
	}
}

func TestOuterHTMLScriptAssignment(t *testing.T) {
	ctx, bag := newTestContext()
	set(t, ctx, "outerHTML", "<script>evil()</script>")

	d := onlyRule(t, bag)
	if got := d.Rule.String(); got != "testcases_javascript_instancetypes/set_outerHTML/script_assignment" {
		t.Fatalf("rule: %s", got)
	}
	if !strings.Contains(d.Title, "outerHTML") {
		t.Fatalf("title should name the property: %q", d.Title)
	}
}

func TestInnerHTMLJavaScriptURL(t *testing.T) {
	ctx, bag := newTestContext()
	set(t, ctx, "innerHTML", `<a href="JavaScript:void(0)">x</a>`)
	if d := onlyRule(t, bag); d.Rule.Last() != "script_assignment" {
		t.Fatalf("rule: %s", d.Rule)
	}
}

func TestEventWinsOverScript(t *testing.T) {
	ctx, bag := newTestContext()
	set(t, ctx, "innerHTML", `<img onerror="x()"><script>y()</script>`)
	if d := onlyRule(t, bag); d.Rule.Last() != "event_assignment" {
		t.Fatalf("first matching classifier must win, got %s", d.Rule)
	}
}

func TestInnerHTMLVariableAssignment(t *testing.T) {
	ctx, bag := newTestContext()
	set(t, ctx, "innerHTML", jsval.Unknown(jsval.Origin{Kind: "identifier", Text: "userInput"}))

	d := onlyRule(t, bag)
	if got := d.Rule.String(); got != "testcases_javascript_instancetypes/set_innerHTML/variable_assignment" {
		t.Fatalf("rule: %s", got)
	}
}

func TestInnerHTMLObjectIsDynamic(t *testing.T) {
	ctx, bag := newTestContext()
	set(t, ctx, "innerHTML", jsval.NewObject())
	if d := onlyRule(t, bag); d.Rule.Last() != "variable_assignment" {
		t.Fatalf("rule: %s", d.Rule)
	}
}

func TestInnerHTMLSafeLiterals(t *testing.T) {
	for _, raw := range []any{"<b>hello</b>", "", 42, true, nil, jsval.Null()} {
		ctx, bag := newTestContext()
		set(t, ctx, "innerHTML", raw)
		if bag.Len() != 0 {
			t.Fatalf("%#v: want no diagnostics, got %+v", raw, bag.Items())
		}
	}
}

func TestInnerHTMLRemoteMarkup(t *testing.T) {
	ctx, bag := newTestContext()
	set(t, ctx, "innerHTML", `<iframe src="https://example.com/frame"></iframe>`)
	d := onlyRule(t, bag)
	if !d.Rule.Equal(RuleRemoteSrc.ID) {
		t.Fatalf("rule: %s", d.Rule)
	}
	if d.Location.File != "content/main.js" {
		t.Fatalf("markup findings must use the assignment location, got %+v", d.Location)
	}
}

func TestIsElementContentWhitespace(t *testing.T) {
	ctx, bag := newTestContext()
	get(t, ctx, "isElementContentWhitespace")

	d := onlyRule(t, bag)
	if d.Severity != diag.SevError || d.Compat != diag.CompatError || d.Tier != 5 {
		t.Fatalf("unexpected shape: %+v", d)
	}
	if len(d.Versions) != len(compat.FX10) {
		t.Fatalf("want FX10 versions, got %+v", d.Versions)
	}
	fx, ok := compat.FX10.For(compat.Firefox.GUID)
	if !ok {
		t.Fatalf("FX10 lacks Firefox")
	}
	var found bool
	for _, v := range d.Versions {
		if v.App == fx.App && v.Min == fx.Min && v.Max == fx.Max {
			found = true
		}
	}
	if !found {
		t.Fatalf("Firefox range missing from %+v", d.Versions)
	}
	if !strings.Contains(d.Description[0], "687422") {
		t.Fatalf("description should cite the bug: %q", d.Description)
	}
}

func TestStartEndMarkerBothModes(t *testing.T) {
	for _, name := range []string{"_startMarker", "_endMarker"} {
		ctx, bag := newTestContext()
		get(t, ctx, name)
		set(t, ctx, name, 3)
		if bag.Len() != 2 {
			t.Fatalf("%s: want one diagnostic per access, got %d", name, bag.Len())
		}
		for _, d := range bag.Items() {
			if d.Severity != diag.SevNotice || d.Rule.Last() != "get_startendMarker" {
				t.Fatalf("%s: unexpected %+v", name, d)
			}
		}
	}
}

func TestXMLPropertyRules(t *testing.T) {
	cases := map[string]string{
		"xmlEncoding":   "687426",
		"xmlStandalone": "693154",
		"xmlVersion":    "693162",
	}
	for name, bug := range cases {
		ctx, bag := newTestContext()
		get(t, ctx, name)
		d := onlyRule(t, bag)
		if d.Rule.Last() != name || d.Severity != diag.SevError {
			t.Fatalf("%s: unexpected %+v", name, d)
		}
		if !strings.Contains(d.Description[0], bug) {
			t.Fatalf("%s: description should cite bug %s: %q", name, bug, d.Description)
		}
	}
}

func TestSimpleSetRules(t *testing.T) {
	cases := []struct {
		property string
		last     string
		signing  diag.SigningSeverity
	}{
		{"__proto__", "__proto__", diag.SigningNone},
		{"__exposedProps__", "__exposedProps__", diag.SigningHigh},
	}
	for _, tc := range cases {
		ctx, bag := newTestContext()
		set(t, ctx, tc.property, jsval.NewObject())
		d := onlyRule(t, bag)
		if d.Rule.Last() != tc.last || d.Signing != tc.signing {
			t.Fatalf("%s: unexpected %+v", tc.property, d)
		}
	}
}

func TestDOMVKEnter(t *testing.T) {
	ctx, bag := newTestContext()
	get(t, ctx, "DOM_VK_ENTER")
	d := onlyRule(t, bag)
	if d.Rule.Last() != "get_DOM_VK_ENTER" || d.Compat != diag.CompatWarning {
		t.Fatalf("unexpected %+v", d)
	}
}

type recordingAnalyzer struct {
	code []string
	at   []diag.Location
}

func (r *recordingAnalyzer) AnalyzeNested(code string, at diag.Location) {
	r.code = append(r.code, code)
	r.at = append(r.at, at)
}

func TestContentScriptLiteralIsAnalyzed(t *testing.T) {
	ctx, bag := newTestContext()
	nested := &recordingAnalyzer{}
	ctx.Nested = nested

	set(t, ctx, "contentScript", "self.port.emit('x');")
	if bag.Len() != 0 {
		t.Fatalf("literal content scripts are not reported themselves: %+v", bag.Items())
	}
	if len(nested.code) != 1 || nested.code[0] != "self.port.emit('x');" {
		t.Fatalf("nested analyzer calls: %q", nested.code)
	}
	if nested.at[0].Line != 7 {
		t.Fatalf("nested analysis must start at the assignment: %+v", nested.at[0])
	}
}

func TestContentScriptNumberIsStringified(t *testing.T) {
	ctx, _ := newTestContext()
	nested := &recordingAnalyzer{}
	ctx.Nested = nested
	set(t, ctx, "contentScript", 1.5)
	if len(nested.code) != 1 || nested.code[0] != "1.5" {
		t.Fatalf("nested analyzer calls: %q", nested.code)
	}
}

func TestContentScriptDynamic(t *testing.T) {
	ctx, bag := newTestContext()
	ctx.Nested = &recordingAnalyzer{}
	set(t, ctx, "contentScript", jsval.Unknown(jsval.Origin{Kind: "call_expression"}))
	d := onlyRule(t, bag)
	if d.Rule.String() != "testcases_javascript_instanceproperties/contentScript/set_non_literal" {
		t.Fatalf("rule: %s", d.Rule)
	}
	if d.Signing != diag.SigningHigh {
		t.Fatalf("signing: %v", d.Signing)
	}
}

func TestContentScriptWithoutAnalyzer(t *testing.T) {
	ctx, bag := newTestContext()
	set(t, ctx, "contentScript", "alert(1)")
	if bag.Len() != 0 {
		t.Fatalf("want nothing, got %+v", bag.Items())
	}
}

func TestOnEventString(t *testing.T) {
	ctx, bag := newTestContext()
	set(t, ctx, "onclick", "doSomething()")
	d := onlyRule(t, bag)
	if d.Rule.String() != "testcases_javascript_instancetypes/set_on_event/on*_str_assignment" {
		t.Fatalf("rule: %s", d.Rule)
	}
}

func TestOnEventHandleEventObject(t *testing.T) {
	obj := jsval.NewObject()
	obj.Set("handleEvent", jsval.Ref(jsval.NewFunction()))

	ctx, bag := newTestContext()
	set(t, ctx, "onload", obj)
	d := onlyRule(t, bag)
	if d.Rule.String() != "js/on*/handleEvent" {
		t.Fatalf("rule: %s", d.Rule)
	}
}

func TestOnEventQuietCases(t *testing.T) {
	plain := jsval.NewObject()
	plain.Set("handle", jsval.Null())
	for _, raw := range []any{plain, jsval.NewFunction(), nil, 0, false,
		jsval.Unknown(jsval.Origin{Kind: "identifier", Text: "handler"})} {
		ctx, bag := newTestContext()
		set(t, ctx, "onclick", raw)
		if bag.Len() != 0 {
			t.Fatalf("%#v: want no diagnostics, got %+v", raw, bag.Items())
		}
	}
}

func TestOnlineIsTreatedAsEvent(t *testing.T) {
	ctx, bag := newTestContext()
	set(t, ctx, "online", "yes")
	if d := onlyRule(t, bag); d.Rule.Last() != "on*_str_assignment" {
		t.Fatalf("rule: %s", d.Rule)
	}
}

func TestExcerpt(t *testing.T) {
	if got := Excerpt("café\nline"); got != "cafe line" {
		t.Fatalf("Excerpt folded to %q", got)
	}
	if got := Excerpt("中"); got != "?" {
		t.Fatalf("Excerpt of CJK: %q", got)
	}
	long := strings.Repeat("a", excerptLimit+10)
	got := Excerpt(long)
	if got != strings.Repeat("a", excerptLimit)+"..." {
		t.Fatalf("Excerpt did not truncate: %d runes", len(got))
	}
}

func TestHTMLHandlerProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("inline handlers always give exactly one event warning", prop.ForAll(
		func(event, body string) bool {
			ctx, bag := newTestContext()
			h, _ := Default().Resolve("innerHTML", ModeSet)
			h.Set(`<div on`+event+`="`+body+`">x</div>`, ctx)
			if bag.Len() != 1 {
				return false
			}
			d := bag.Items()[0]
			return d.Rule.Last() == "event_assignment" && d.Severity == diag.SevWarning
		},
		gen.RegexMatch(`[a-z]{1,12}`),
		gen.AlphaString(),
	))

	properties.Property("non-literal values always give exactly one variable warning", prop.ForAll(
		func(property, text string) bool {
			ctx, bag := newTestContext()
			h, _ := Default().Resolve(property, ModeSet)
			h.Set(jsval.Unknown(jsval.Origin{Kind: "identifier", Text: text}), ctx)
			if bag.Len() != 1 {
				return false
			}
			return bag.Items()[0].Rule.Last() == "variable_assignment"
		},
		gen.OneConstOf("innerHTML", "outerHTML"),
		gen.Identifier(),
	))

	properties.Property("plain text never reports", prop.ForAll(
		func(text string) bool {
			ctx, bag := newTestContext()
			h, _ := Default().Resolve("outerHTML", ModeSet)
			h.Set(text, ctx)
			return bag.Len() == 0
		},
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
