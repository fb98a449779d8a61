// Package scripting walks JavaScript syntax trees and fires the property
// hooks registered in package rules.
//
// Scripts are parsed with tree-sitter, which recovers from syntax errors:
// the first error is reported as a notice and the rest of the tree is still
// checked. Literal content scripts found by a hook are analyzed in place,
// up to Options.MaxDepth levels deep.
package scripting

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"

	"addonlint/internal/compat"
	"addonlint/internal/diag"
	"addonlint/internal/rules"
	"addonlint/internal/source"
	"addonlint/internal/trace"
)

const (
	// DefaultMaxDepth bounds nested content-script analysis.
	DefaultMaxDepth = 8
	// DefaultContextWidth is the display width of the source line attached
	// to diagnostics.
	DefaultContextWidth = 140
)

// Options configures an Analyzer.
type Options struct {
	MaxDepth     int
	ContextWidth int
	// Registry defaults to rules.Default().
	Registry  *rules.Registry
	Targets   compat.TargetSet
	Overrides rules.Overrides
	// OnHook observes every resolved hook just before it runs.
	OnHook func(property string, mode rules.Mode)
}

func (o Options) withDefaults() Options {
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.ContextWidth <= 0 {
		o.ContextWidth = DefaultContextWidth
	}
	if o.Registry == nil {
		o.Registry = rules.Default()
	}
	return o
}

// Stats counts what an Analyzer has done so far.
type Stats struct {
	Scripts      int // top-level and nested scripts parsed
	Nested       int
	Hooks        int
	SyntaxErrors int
	DepthLimited int
}

// Analyzer checks the scripts of one file. It is not safe for concurrent
// use; the driver creates one per file.
type Analyzer struct {
	ctx      context.Context
	opts     Options
	reporter diag.Reporter
	files    *source.FileSet
	stats    Stats
}

// NewAnalyzer returns an Analyzer reporting into r. The tracer, if any, is
// taken from ctx.
func NewAnalyzer(ctx context.Context, r diag.Reporter, opts Options) *Analyzer {
	if r == nil {
		r = diag.NopReporter{}
	}
	return &Analyzer{
		ctx:      ctx,
		opts:     opts.withDefaults(),
		reporter: r,
		files:    source.NewFileSet(),
	}
}

// Stats returns the counters accumulated so far.
func (a *Analyzer) Stats() Stats {
	return a.stats
}

// AnalyzeFile checks a loaded source file. Only cancellation and parser
// failures are returned; findings go to the reporter.
func (a *Analyzer) AnalyzeFile(f *source.File) error {
	if f == nil {
		return fmt.Errorf("scripting: nil file")
	}
	return a.run(a.ctx, f, f.Path, 0, 0)
}

// AnalyzeSource checks code held in memory under the given display name.
func (a *Analyzer) AnalyzeSource(name string, code []byte) error {
	id := a.files.AddVirtual(name, code)
	return a.run(a.ctx, a.files.Get(id), name, 0, 0)
}

// run parses and walks one script. ctx carries the span of the enclosing
// file or script.
func (a *Analyzer) run(ctx context.Context, f *source.File, filename string, baseLine, depth int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ctx, span := trace.Script(ctx, filename, depth)
	defer span.End("")

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(javascript.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, f.Content)
	if err != nil {
		return fmt.Errorf("parse %s: %w", filename, err)
	}
	defer tree.Close()

	a.stats.Scripts++
	w := &walker{
		a:        a,
		file:     f,
		filename: filename,
		baseLine: baseLine,
		depth:    depth,
		ctx:      ctx,
	}
	root := tree.RootNode()
	if root.HasError() {
		w.reportSyntaxError(root)
	}
	w.visit(root)
	return nil
}
