// Package jsval models script values as seen by static analysis.
//
// A Value is exactly one of: a literal primitive whose content is known,
// a reference to an Object with named members, or an unknown value that
// only remembers where it came from.
package jsval

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	// KindUnknown is a non-literal value; only its Origin is known.
	KindUnknown Kind = iota
	// KindLiteral is a primitive with known content.
	KindLiteral
	// KindObject is a reference to an Object.
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindUnknown:
		return "unknown"
	case KindLiteral:
		return "literal"
	case KindObject:
		return "object"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// LiteralKind identifies the primitive type of a literal.
type LiteralKind uint8

const (
	LitString LiteralKind = iota + 1
	LitNumber
	LitBool
	// LitNull covers both null and undefined.
	LitNull
)

func (k LiteralKind) String() string {
	switch k {
	case LitString:
		return "string"
	case LitNumber:
		return "number"
	case LitBool:
		return "boolean"
	case LitNull:
		return "null"
	default:
		return fmt.Sprintf("LiteralKind(%d)", k)
	}
}

// Origin records the expression an unknown value came from.
type Origin struct {
	Kind   string // syntax node type, e.g. "identifier", "call_expression"
	Text   string
	Line   int
	Column int
}

// Literal is the content of a literal Value.
type Literal struct {
	Kind LiteralKind
	Str  string
	Num  float64
	Bool bool
}

// Value is the analysis-time representation of a script value.
// Values are small and passed by value. They support ==, which compares
// object literals by identity; a NaN number literal is not equal to itself.
type Value struct {
	kind   Kind
	lit    Literal
	obj    *Object
	origin Origin
}

// String creates a string literal.
func String(s string) Value {
	return Value{kind: KindLiteral, lit: Literal{Kind: LitString, Str: s}}
}

// Number creates a number literal.
func Number(f float64) Value {
	return Value{kind: KindLiteral, lit: Literal{Kind: LitNumber, Num: f}}
}

// Bool creates a boolean literal.
func Bool(b bool) Value {
	return Value{kind: KindLiteral, lit: Literal{Kind: LitBool, Bool: b}}
}

// Null creates the null literal.
func Null() Value {
	return Value{kind: KindLiteral, lit: Literal{Kind: LitNull}}
}

// Ref wraps an object reference. A nil object yields Null.
func Ref(o *Object) Value {
	if o == nil {
		return Null()
	}
	return Value{kind: KindObject, obj: o}
}

// Unknown creates a non-literal value with the given provenance.
func Unknown(origin Origin) Value {
	return Value{kind: KindUnknown, origin: origin}
}

// Kind returns the variant tag.
func (v Value) Kind() Kind {
	return v.kind
}

// IsLiteral reports whether the value's content is statically known.
func (v Value) IsLiteral() bool {
	return v.kind == KindLiteral
}

// IsObject reports whether the value is an object reference.
func (v Value) IsObject() bool {
	return v.kind == KindObject
}

// Literal returns the literal content. It panics with *InvalidStateError
// when the value is not a literal; check IsLiteral first.
func (v Value) Literal() Literal {
	if v.kind != KindLiteral {
		panic(&InvalidStateError{Op: "Literal", Kind: v.kind})
	}
	return v.lit
}

// Text returns the string content when the value is a string literal.
func (v Value) Text() (string, bool) {
	if v.kind != KindLiteral || v.lit.Kind != LitString {
		return "", false
	}
	return v.lit.Str, true
}

// AsObject returns the referenced object. It panics with *TypeMismatchError
// when the value is not an object reference.
func (v Value) AsObject() *Object {
	if v.kind != KindObject {
		panic(&TypeMismatchError{Op: "AsObject", Want: KindObject, Got: v.kind})
	}
	return v.obj
}

// Origin returns provenance for unknown values and the zero Origin otherwise.
func (v Value) Origin() Origin {
	return v.origin
}

// String renders the value for diagnostics and excerpts.
func (v Value) String() string {
	switch v.kind {
	case KindLiteral:
		s, _ := ToString(v)
		return s
	case KindObject:
		if v.obj.Has(CapCallable) {
			return "function"
		}
		return "[object Object]"
	default:
		if v.origin.Text != "" {
			return v.origin.Text
		}
		return "<unknown>"
	}
}

// Wrap normalizes a raw value into a Value. It is idempotent: wrapping a
// Value returns that same Value. Wrap(Wrap(x)) == Wrap(x) holds for every x
// except NaN, where == is false even though nothing changed.
//
// Accepted inputs: Value, *Value, string, bool, nil, every Go integer and
// float type, *Object and Origin. Anything else becomes an unknown value whose
// origin names the Go type.
func Wrap(raw any) Value {
	switch x := raw.(type) {
	case Value:
		return x
	case *Value:
		if x == nil {
			return Null()
		}
		return *x
	case nil:
		return Null()
	case string:
		return String(x)
	case bool:
		return Bool(x)
	case float64:
		return Number(x)
	case float32:
		return Number(float64(x))
	case int:
		return Number(float64(x))
	case int8:
		return Number(float64(x))
	case int16:
		return Number(float64(x))
	case int32:
		return Number(float64(x))
	case int64:
		return Number(float64(x))
	case uint:
		return Number(float64(x))
	case uint8:
		return Number(float64(x))
	case uint16:
		return Number(float64(x))
	case uint32:
		return Number(float64(x))
	case uint64:
		return Number(float64(x))
	case *Object:
		return Ref(x)
	case Origin:
		return Unknown(x)
	default:
		return Unknown(Origin{Kind: fmt.Sprintf("%T", raw)})
	}
}

// ToString applies script string coercion to a literal. The second result is
// false for non-literal values, whose string form is not statically known.
func ToString(v Value) (string, bool) {
	if v.kind != KindLiteral {
		return "", false
	}
	switch v.lit.Kind {
	case LitString:
		return v.lit.Str, true
	case LitNumber:
		return formatNumber(v.lit.Num), true
	case LitBool:
		return strconv.FormatBool(v.lit.Bool), true
	default:
		return "null", true
	}
}

// Add folds the binary + operator over two literals. It returns false when
// either operand is not a literal.
func Add(a, b Value) (Value, bool) {
	if !a.IsLiteral() || !b.IsLiteral() {
		return Value{}, false
	}
	if a.lit.Kind == LitString || b.lit.Kind == LitString {
		sa, _ := ToString(a)
		sb, _ := ToString(b)
		return String(sa + sb), true
	}
	return Number(toNumber(a.lit) + toNumber(b.lit)), true
}

func toNumber(l Literal) float64 {
	switch l.Kind {
	case LitNumber:
		return l.Num
	case LitBool:
		if l.Bool {
			return 1
		}
		return 0
	default:
		return 0
	}
}

func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	if abs := math.Abs(f); abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	// Go pads exponents to two digits, script output does not.
	if i := strings.IndexByte(s, 'e'); i >= 0 {
		mant, exp := s[:i], s[i+1:]
		sign := exp[0]
		digits := strings.TrimLeft(exp[1:], "0")
		s = mant + "e" + string(sign) + digits
	}
	return s
}
