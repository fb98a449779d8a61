// Package suppress drops diagnostics matching user-supplied CEL expressions
// before they reach the sink.
//
// Expressions see one diagnostic at a time:
//
//	rule        string               "testcases_javascript_instancetypes/set_innerHTML/event_assignment"
//	rule_parts  list(string)
//	severity    string               "notice" | "warning" | "error"
//	title       string
//	file        string
//	line        int
//	column      int
//	signing     string               "" | "trivial" | "low" | "medium" | "high"
//	compat      string               "" | "error" | "warning"
//	tier        int
//	overrides   map(string, string)  run overrides
//
// A diagnostic is suppressed when any expression evaluates to true.
package suppress

import (
	"fmt"
	"sync/atomic"

	"github.com/google/cel-go/cel"

	"addonlint/internal/diag"
)

// costLimit bounds the work a single expression may do per diagnostic.
const costLimit = 10000

// Set is a compiled list of suppression expressions. It is safe for
// concurrent use.
type Set struct {
	sources    []string
	programs   []cel.Program
	overrides  map[string]string
	suppressed atomic.Int64
	evalErrors atomic.Int64
}

// Compile type-checks every expression. Each must produce a bool.
func Compile(exprs []string, overrides map[string]string) (*Set, error) {
	env, err := cel.NewEnv(
		cel.Variable("rule", cel.StringType),
		cel.Variable("rule_parts", cel.ListType(cel.StringType)),
		cel.Variable("severity", cel.StringType),
		cel.Variable("title", cel.StringType),
		cel.Variable("file", cel.StringType),
		cel.Variable("line", cel.IntType),
		cel.Variable("column", cel.IntType),
		cel.Variable("signing", cel.StringType),
		cel.Variable("compat", cel.StringType),
		cel.Variable("tier", cel.IntType),
		cel.Variable("overrides", cel.MapType(cel.StringType, cel.StringType)),
	)
	if err != nil {
		return nil, fmt.Errorf("create CEL environment: %w", err)
	}

	s := &Set{overrides: overrides}
	if s.overrides == nil {
		s.overrides = map[string]string{}
	}
	for i, expr := range exprs {
		ast, issues := env.Compile(expr)
		if issues != nil && issues.Err() != nil {
			return nil, fmt.Errorf("suppress expression %d %q: %w", i+1, expr, issues.Err())
		}
		if !ast.OutputType().IsExactType(cel.BoolType) {
			return nil, fmt.Errorf("suppress expression %d %q: must evaluate to bool, got %s", i+1, expr, ast.OutputType())
		}
		prg, err := env.Program(ast,
			cel.InterruptCheckFrequency(100),
			cel.CostLimit(costLimit),
		)
		if err != nil {
			return nil, fmt.Errorf("suppress expression %d %q: %w", i+1, expr, err)
		}
		s.sources = append(s.sources, expr)
		s.programs = append(s.programs, prg)
	}
	return s, nil
}

// Len returns the number of expressions.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.programs)
}

// Expressions returns the source of every compiled expression.
func (s *Set) Expressions() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.sources...)
}

// Match reports whether d should be dropped. Evaluation errors count as
// "no match" so a broken expression never hides findings.
func (s *Set) Match(d diag.Diagnostic) bool {
	if s.Len() == 0 {
		return false
	}
	input := s.activation(d)
	for _, prg := range s.programs {
		out, _, err := prg.Eval(input)
		if err != nil {
			s.evalErrors.Add(1)
			continue
		}
		if b, ok := out.Value().(bool); ok && b {
			return true
		}
	}
	return false
}

func (s *Set) activation(d diag.Diagnostic) map[string]any {
	parts := make([]string, len(d.Rule))
	copy(parts, d.Rule)
	return map[string]any{
		"rule":       d.Rule.String(),
		"rule_parts": parts,
		"severity":   d.Severity.Label(),
		"title":      d.Title,
		"file":       d.Location.File,
		"line":       int64(d.Location.Line),
		"column":     int64(d.Location.Column),
		"signing":    d.Signing.String(),
		"compat":     d.Compat.String(),
		"tier":       int64(d.Tier),
		"overrides":  s.overrides,
	}
}

// Suppressed is the number of diagnostics dropped so far.
func (s *Set) Suppressed() int64 {
	if s == nil {
		return 0
	}
	return s.suppressed.Load()
}

// EvalErrors is the number of failed evaluations so far.
func (s *Set) EvalErrors() int64 {
	if s == nil {
		return 0
	}
	return s.evalErrors.Load()
}

// Filter is a diag.Reporter that forwards everything the Set does not match.
type Filter struct {
	Set  *Set
	Next diag.Reporter
}

func (f Filter) Report(d diag.Diagnostic) {
	if f.Next == nil {
		return
	}
	if f.Set.Match(d) {
		f.Set.suppressed.Add(1)
		return
	}
	f.Next.Report(d)
}
