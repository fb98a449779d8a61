package rules

import "addonlint/internal/jsval"

// registerBuiltins adds every built-in hook to b.
func registerBuiltins(b *Builder) *Builder {
	b.Register("innerHTML", Bundle{OnSet: setHTML(innerHTMLRules)}).
		Register("outerHTML", Bundle{OnSet: setHTML(outerHTMLRules)}).
		Register("contentScript", Bundle{OnSet: setContentScript}).
		Register("isElementContentWhitespace", Bundle{OnGet: getIsElementContentWhitespace}).
		Register("_startMarker", Bundle{
			OnGet: startEndMarker,
			OnSet: func(_ jsval.Value, ctx Context) { startEndMarker(ctx) },
		}).
		Register("_endMarker", Bundle{
			OnGet: startEndMarker,
			OnSet: func(_ jsval.Value, ctx Context) { startEndMarker(ctx) },
		}).
		Register("__proto__", Bundle{OnSet: setProto}).
		Register("__exposedProps__", Bundle{OnSet: setExposedProps}).
		Register("DOM_VK_ENTER", Bundle{OnGet: getDOMVKEnter})

	for _, x := range xmlBugs {
		b.Register(x.name, Bundle{OnGet: getXML(x.name, x.bug)})
	}

	return b.Fallback("on*", HasPrefix("on"), Bundle{OnSet: setOnEvent})
}
