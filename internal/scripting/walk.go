package scripting

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"addonlint/internal/diag"
	"addonlint/internal/jsval"
	"addonlint/internal/rules"
	"addonlint/internal/source"
	"addonlint/internal/trace"
)

// walker visits one parsed script. Nested scripts get their own walker one
// level deeper.
type walker struct {
	a        *Analyzer
	file     *source.File
	filename string
	baseLine int
	depth    int
	// ctx carries the script's trace span.
	ctx      context.Context
}

func (w *walker) text(n *sitter.Node) string {
	return n.Content(w.file.Content)
}

func (w *walker) visit(n *sitter.Node) {
	if n == nil || n.IsError() || n.IsMissing() {
		return
	}

	switch n.Type() {
	case "assignment_expression":
		left, right := n.ChildByFieldName("left"), n.ChildByFieldName("right")
		if name, ok := w.propertyName(left); ok {
			w.visitTarget(left)
			w.visit(right)
			w.fireSet(name, w.value(right), left)
			return
		}
	case "augmented_assignment_expression":
		left, right := n.ChildByFieldName("left"), n.ChildByFieldName("right")
		if name, ok := w.propertyName(left); ok {
			w.visitTarget(left)
			w.visit(right)
			w.fireSet(name, jsval.Unknown(w.origin(n)), left)
			return
		}
	case "update_expression":
		arg := n.ChildByFieldName("argument")
		if name, ok := w.propertyName(arg); ok {
			w.visitTarget(arg)
			w.fireSet(name, jsval.Unknown(w.origin(n)), arg)
			return
		}
	case "member_expression", "subscript_expression":
		if name, ok := w.propertyName(n); ok {
			w.visitTarget(n)
			w.fireGet(name, n)
			return
		}
	}

	for i := range int(n.NamedChildCount()) {
		w.visit(n.NamedChild(i))
	}
}

// visitTarget walks the object and index parts of a member access without
// treating the access itself as a read.
func (w *walker) visitTarget(n *sitter.Node) {
	w.visit(n.ChildByFieldName("object"))
	if n.Type() == "subscript_expression" {
		w.visit(n.ChildByFieldName("index"))
	}
}

// propertyName returns the statically known property of a member access:
// `a.name` or `a["name"]`.
func (w *walker) propertyName(n *sitter.Node) (string, bool) {
	if n == nil {
		return "", false
	}
	switch n.Type() {
	case "member_expression":
		prop := n.ChildByFieldName("property")
		if prop == nil || prop.Type() != "property_identifier" {
			return "", false
		}
		return w.text(prop), true
	case "subscript_expression":
		idx := n.ChildByFieldName("index")
		if idx == nil {
			return "", false
		}
		v := w.value(idx)
		return v.Text()
	}
	return "", false
}

func (w *walker) fireGet(name string, at *sitter.Node) {
	h, ok := w.a.opts.Registry.Resolve(name, rules.ModeGet)
	if !ok {
		return
	}
	w.observe(name, rules.ModeGet)
	h.Get(w.contextAt(at))
}

func (w *walker) fireSet(name string, v jsval.Value, at *sitter.Node) {
	h, ok := w.a.opts.Registry.Resolve(name, rules.ModeSet)
	if !ok {
		return
	}
	w.observe(name, rules.ModeSet)
	h.Set(v, w.contextAt(at))
}

func (w *walker) observe(name string, mode rules.Mode) {
	w.a.stats.Hooks++
	trace.Hook(w.ctx, name, mode.String())
	if w.a.opts.OnHook != nil {
		w.a.opts.OnHook(name, mode)
	}
}

func (w *walker) contextAt(n *sitter.Node) rules.Context {
	return &nodeContext{w: w, node: n}
}

// AnalyzeNested implements rules.ScriptAnalyzer for code found in literals
// of this script.
func (w *walker) AnalyzeNested(code string, at diag.Location) {
	depth := w.depth + 1
	if depth > w.a.opts.MaxDepth {
		w.a.stats.DepthLimited++
		rules.RuleRecursionLimit.Report(w.a.reporter).
			WithDescription(fmt.Sprintf("Nested script analysis stops after %d levels; the innermost script was not checked.", w.a.opts.MaxDepth)).
			At(at).
			Emit()
		return
	}

	w.a.stats.Nested++
	name := fmt.Sprintf("%s#nested%d", at.File, depth)
	id := w.a.files.AddVirtual(name, []byte(code))
	baseLine := max(at.Line-1, 0)
	// Errors here are cancellation or parser failures; the outer run
	// observes cancellation on its own.
	_ = w.a.run(w.ctx, w.a.files.Get(id), at.File, baseLine, depth)
}

func (w *walker) reportSyntaxError(root *sitter.Node) {
	bad := firstError(root)
	if bad == nil {
		return
	}
	w.a.stats.SyntaxErrors++

	detail := "Unexpected input " + quoteExcerpt(w.text(bad))
	if bad.IsMissing() {
		detail = fmt.Sprintf("Expected %q", bad.Type())
	}
	rules.RuleSyntaxError.Report(w.a.reporter).
		WithDescription(
			"There is a JavaScript syntax error in your code, which might limit the effectiveness of automatic checks.",
			detail,
		).
		At(w.location(bad)).
		Emit()
}

// firstError finds the first error or missing node in document order.
func firstError(n *sitter.Node) *sitter.Node {
	if n.IsError() || n.IsMissing() {
		return n
	}
	if !n.HasError() {
		return nil
	}
	for i := range int(n.ChildCount()) {
		if bad := firstError(n.Child(i)); bad != nil {
			return bad
		}
	}
	return nil
}

func quoteExcerpt(s string) string {
	s = strings.TrimSpace(s)
	if line, _, found := strings.Cut(s, "\n"); found {
		s = line + "..."
	}
	return fmt.Sprintf("%q", rules.Excerpt(s))
}
