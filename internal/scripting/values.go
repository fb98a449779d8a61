package scripting

import (
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"addonlint/internal/jsval"
)

// value builds the analysis value of an expression. Anything that is not
// statically known becomes an unknown value carrying its origin.
func (w *walker) value(n *sitter.Node) jsval.Value {
	if n == nil {
		return jsval.Unknown(jsval.Origin{Kind: "missing"})
	}

	switch n.Type() {
	case "string":
		raw := w.text(n)
		if len(raw) >= 2 {
			return jsval.String(unescape(raw[1 : len(raw)-1]))
		}
	case "template_string":
		if !hasChild(n, "template_substitution") {
			raw := w.text(n)
			if len(raw) >= 2 {
				return jsval.String(unescape(raw[1 : len(raw)-1]))
			}
		}
	case "number":
		if f, ok := parseNumber(w.text(n)); ok {
			return jsval.Number(f)
		}
	case "true":
		return jsval.Bool(true)
	case "false":
		return jsval.Bool(false)
	case "null", "undefined":
		return jsval.Null()
	case "identifier":
		if w.text(n) == "undefined" {
			return jsval.Null()
		}
	case "parenthesized_expression":
		if n.NamedChildCount() == 1 {
			return w.value(n.NamedChild(0))
		}
	case "binary_expression":
		op := n.ChildByFieldName("operator")
		if op != nil && op.Type() == "+" {
			if v, ok := jsval.Add(w.value(n.ChildByFieldName("left")), w.value(n.ChildByFieldName("right"))); ok {
				return v
			}
		}
	case "object":
		return jsval.Ref(w.object(n))
	case "function", "function_expression", "arrow_function", "generator_function", "class":
		return jsval.Ref(jsval.NewFunction())
	}
	return jsval.Unknown(w.origin(n))
}

// object collects the statically named members of an object literal.
func (w *walker) object(n *sitter.Node) *jsval.Object {
	obj := jsval.NewObject()
	for i := range int(n.NamedChildCount()) {
		member := n.NamedChild(i)
		switch member.Type() {
		case "pair":
			if key, ok := w.memberKey(member.ChildByFieldName("key")); ok {
				obj.Set(key, w.value(member.ChildByFieldName("value")))
			}
		case "method_definition":
			if key, ok := w.memberKey(member.ChildByFieldName("name")); ok {
				obj.Set(key, jsval.Ref(jsval.NewFunction()))
			}
		case "shorthand_property_identifier":
			obj.Set(w.text(member), jsval.Unknown(w.origin(member)))
		}
	}
	return obj
}

func (w *walker) memberKey(n *sitter.Node) (string, bool) {
	if n == nil {
		return "", false
	}
	switch n.Type() {
	case "property_identifier", "identifier":
		return w.text(n), true
	case "string", "number":
		v := w.value(n)
		if !v.IsLiteral() {
			return "", false
		}
		return jsval.ToString(v)
	}
	return "", false
}

func (w *walker) origin(n *sitter.Node) jsval.Origin {
	p := n.StartPoint()
	return jsval.Origin{
		Kind:   n.Type(),
		Text:   firstLine(w.text(n)),
		Line:   w.baseLine + int(p.Row) + 1,
		Column: int(p.Column) + 1,
	}
}

func hasChild(n *sitter.Node, typ string) bool {
	for i := range int(n.NamedChildCount()) {
		if n.NamedChild(i).Type() == typ {
			return true
		}
	}
	return false
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

// parseNumber reads a numeric literal: decimal, 0x/0o/0b integers, legacy
// octal and numeric separators. BigInt literals are not numbers.
func parseNumber(s string) (float64, bool) {
	s = strings.ReplaceAll(s, "_", "")
	if s == "" || strings.HasSuffix(s, "n") {
		return 0, false
	}
	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			u, err := strconv.ParseUint(s[2:], base, 64)
			return float64(u), err == nil
		}
		if isOctalDigits(s[1:]) {
			u, err := strconv.ParseUint(s[1:], 8, 64)
			return float64(u), err == nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}

func isOctalDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '7' {
			return false
		}
	}
	return s != ""
}
