package scripting

import (
	"strings"

	"github.com/mattn/go-runewidth"
	sitter "github.com/smacker/go-tree-sitter"

	"addonlint/internal/compat"
	"addonlint/internal/diag"
	"addonlint/internal/rules"
)

// nodeContext is the rules.Context for one hook invocation.
type nodeContext struct {
	w    *walker
	node *sitter.Node
}

func (c *nodeContext) Filename() string { return c.w.filename }

func (c *nodeContext) Line() int {
	return c.w.baseLine + int(c.node.StartPoint().Row) + 1
}

func (c *nodeContext) Column() int {
	return int(c.node.StartPoint().Column) + 1
}

func (c *nodeContext) SourceContext() string {
	return c.w.contextLine(c.node)
}

func (c *nodeContext) Targets() compat.TargetSet       { return c.w.a.opts.Targets }
func (c *nodeContext) Overrides() rules.Overrides      { return c.w.a.opts.Overrides }
func (c *nodeContext) Reporter() diag.Reporter         { return c.w.a.reporter }
func (c *nodeContext) Analyzer() rules.ScriptAnalyzer { return c.w }

func (w *walker) location(n *sitter.Node) diag.Location {
	p := n.StartPoint()
	return diag.Location{
		File:    w.filename,
		Line:    w.baseLine + int(p.Row) + 1,
		Column:  int(p.Column) + 1,
		Context: w.contextLine(n),
	}
}

// contextLine is the trimmed source line holding n, cut to the configured
// display width.
func (w *walker) contextLine(n *sitter.Node) string {
	row := n.StartPoint().Row
	line := strings.TrimSpace(w.file.GetLine(row + 1))
	return runewidth.Truncate(line, w.a.opts.ContextWidth, "...")
}
