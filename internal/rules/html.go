package rules

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"addonlint/internal/diag"
	"addonlint/internal/jsval"
	"addonlint/internal/markup"
)

const htmlNamespace = "testcases_javascript_instancetypes"

var (
	// eventAttrRe finds inline handler attributes such as `onclick=` at the
	// start of the text or after a tag, quote, slash or whitespace.
	eventAttrRe = regexp.MustCompile(`(?:^|[\s"'/<])on[a-z]+\s*=`)
	jsURLRe     = regexp.MustCompile(`\b(?:href|src|action|formaction)\s*=\s*["']?\s*javascript:`)
)

// excerptLimit bounds the number of runes quoted from an offending value.
const excerptLimit = 120

type htmlRules struct {
	property string
	event    *Rule
	script   *Rule
	variable *Rule
}

func defineHTMLRules(property string) htmlRules {
	handler := "set_" + property
	return htmlRules{
		property: property,
		event: define(Rule{
			ID:       diag.ID(htmlNamespace, handler, "event_assignment"),
			Severity: diag.SevWarning,
			Title:    "Event handler assignment via " + property,
			Property: property,
			Access:   ModeSet,
			Signing:  diag.SigningMedium,
		}),
		script: define(Rule{
			ID:       diag.ID(htmlNamespace, handler, "script_assignment"),
			Severity: diag.SevWarning,
			Title:    fmt.Sprintf("Scripts should not be created with `%s`", property),
			Property: property,
			Access:   ModeSet,
			Signing:  diag.SigningMedium,
		}),
		variable: define(Rule{
			ID:       diag.ID(htmlNamespace, handler, "variable_assignment"),
			Severity: diag.SevWarning,
			Title:    fmt.Sprintf("Markup should not be passed to `%s` dynamically.", property),
			Property: property,
			Access:   ModeSet,
		}),
	}
}

var (
	innerHTMLRules = defineHTMLRules("innerHTML")
	outerHTMLRules = defineHTMLRules("outerHTML")
)

// contentClassifier tests lowercased literal text. The first matching
// classifier reports and stops the chain.
type contentClassifier struct {
	name   string
	match  func(lower string) bool
	report func(rs htmlRules, text string, ctx Context)
}

var htmlClassifiers = []contentClassifier{
	{
		name:  "event_assignment",
		match: eventAttrRe.MatchString,
		report: func(rs htmlRules, text string, ctx Context) {
			rs.event.Report(ctx.Reporter()).
				WithDescription(
					fmt.Sprintf("When assigning event handlers, %s should never be used. Rather, use a proper technique, like addEventListener.", rs.property),
					"Event handler code: "+Excerpt(text),
				).
				At(Location(ctx)).
				Emit()
		},
	},
	{
		name: "script_assignment",
		match: func(lower string) bool {
			return strings.Contains(lower, "<script") || jsURLRe.MatchString(lower)
		},
		report: func(rs htmlRules, _ string, ctx Context) {
			rs.script.Report(ctx.Reporter()).
				WithDescription(fmt.Sprintf("`%s` should not be used to add scripts to pages via script tags or JavaScript URLs. Instead, use event listeners and external JavaScript.", rs.property)).
				At(Location(ctx)).
				Emit()
		},
	},
}

func setHTML(rs htmlRules) SetFunc {
	return func(v jsval.Value, ctx Context) {
		if !v.IsLiteral() {
			rs.variable.Report(ctx.Reporter()).
				WithDescription(fmt.Sprintf("Due to both security and performance concerns, %s may not be set using dynamic values which have not been adequately sanitized. This can lead to security issues or fairly serious performance degradation.", rs.property)).
				At(Location(ctx)).
				Emit()
			return
		}
		text, ok := v.Text()
		if !ok {
			return
		}
		lower := strings.ToLower(text)
		for _, c := range htmlClassifiers {
			if c.match(lower) {
				c.report(rs, text, ctx)
				return
			}
		}
		markup.Check(ctx.Reporter(), text, markup.Options{Strict: false, Base: Location(ctx)})
	}
}

// asciiSafe folds accents and replaces everything else outside printable
// ASCII with '?'. Chains carry buffers, so each call builds its own.
func asciiSafe() transform.Transformer {
	return transform.Chain(
		norm.NFKD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Map(func(r rune) rune {
			if r == '\t' || (r >= 0x20 && r < 0x7f) {
				return r
			}
			if r == '\n' || r == '\r' {
				return ' '
			}
			return '?'
		}),
	)
}

// Excerpt renders a value for inclusion in a description: ASCII only,
// single line, at most excerptLimit runes.
func Excerpt(s string) string {
	truncated := false
	if utf8.RuneCountInString(s) > excerptLimit {
		s = string([]rune(s)[:excerptLimit])
		truncated = true
	}
	out, _, err := transform.String(asciiSafe(), s)
	if err != nil {
		out = strings.Map(func(r rune) rune {
			if r < 0x20 || r >= 0x7f {
				return '?'
			}
			return r
		}, s)
	}
	if truncated {
		out += "..."
	}
	return out
}
