// Package markup runs a lenient structural and security pass over HTML/XUL
// fragments, either assigned from script or read from package files.
package markup

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"addonlint/internal/diag"
)

// RuleNamespace prefixes every rule id the checker emits.
const RuleNamespace = "testcases_markup_markuptester"

var (
	RuleRemoteSrc       = diag.ID(RuleNamespace, "remote_src")
	RuleUnclosedTag     = diag.ID(RuleNamespace, "unclosed_tag")
	RuleMismatchedClose = diag.ID(RuleNamespace, "mismatched_close")
)

// remoteElements load their src/data attribute as content.
var remoteElements = map[string]bool{
	"iframe":  true,
	"frame":   true,
	"browser": true,
	"embed":   true,
	"object":  true,
	"img":     true,
	"script":  true,
}

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// Options configure one check.
type Options struct {
	// Strict adds structural findings; lenient mode reports only
	// security-relevant ones.
	Strict bool
	// Base is the location of the fragment's first byte. Fragments embedded
	// in script keep the script's file and line.
	Base diag.Location
}

type openTag struct {
	name string
	loc  diag.Location
}

// Check tokenizes content and reports findings to r.
func Check(r diag.Reporter, content string, opts Options) {
	c := checker{r: r, opts: opts, src: content}
	c.run()
}

type checker struct {
	r     diag.Reporter
	opts  Options
	src   string
	off   int
	stack []openTag
}

func (c *checker) run() {
	z := html.NewTokenizer(strings.NewReader(c.src))
	for {
		tt := z.Next()
		raw := z.Raw()
		loc := c.locationAt(c.off)
		c.off += len(raw)

		switch tt {
		case html.ErrorToken:
			if err := z.Err(); err != nil && !errors.Is(err, io.EOF) {
				return
			}
			c.finish()
			return
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			tag := string(name)
			if hasAttr && remoteElements[tag] {
				c.checkRemote(z, tag, loc)
			}
			if tt == html.StartTagToken && !voidElements[tag] {
				c.stack = append(c.stack, openTag{name: tag, loc: loc})
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			c.close(string(name), loc)
		}
	}
}

func (c *checker) checkRemote(z *html.Tokenizer, tag string, loc diag.Location) {
	for {
		key, val, more := z.TagAttr()
		k := string(key)
		if (k == "src" || k == "data") && isRemoteURL(val) {
			diag.ReportWarning(c.r, RuleRemoteSrc, "Remote content loaded in markup").
				WithDescription(
					fmt.Sprintf("A `<%s>` element loads content from a remote URL. Remote content must not be loaded into privileged documents.", tag),
					"URL: "+string(val)).
				At(loc).
				Signing(diag.SigningHigh).
				Emit()
		}
		if !more {
			return
		}
	}
}

func (c *checker) close(name string, loc diag.Location) {
	for i := len(c.stack) - 1; i >= 0; i-- {
		if c.stack[i].name != name {
			continue
		}
		for _, skipped := range c.stack[i+1:] {
			c.unclosed(skipped)
		}
		c.stack = c.stack[:i]
		return
	}
	if c.opts.Strict {
		diag.ReportNotice(c.r, RuleMismatchedClose, "Closing tag without an open element").
			WithDescription(fmt.Sprintf("`</%s>` does not close any open element.", name)).
			At(loc).
			Emit()
	}
}

func (c *checker) finish() {
	for i := len(c.stack) - 1; i >= 0; i-- {
		c.unclosed(c.stack[i])
	}
	c.stack = nil
}

func (c *checker) unclosed(t openTag) {
	if !c.opts.Strict {
		return
	}
	diag.ReportNotice(c.r, RuleUnclosedTag, "Unclosed element").
		WithDescription(fmt.Sprintf("`<%s>` is never closed.", t.name)).
		At(t.loc).
		Emit()
}

// locationAt maps a byte offset in the fragment onto the base location.
func (c *checker) locationAt(off int) diag.Location {
	loc := c.opts.Base
	prefix := c.src[:min(off, len(c.src))]
	nl := strings.Count(prefix, "\n")
	if nl == 0 {
		if loc.Column == 0 {
			loc.Column = 1
		}
		loc.Column += len(prefix)
		if loc.Line == 0 {
			loc.Line = 1
		}
		return loc
	}
	loc.Line = max(loc.Line, 1) + nl
	loc.Column = len(prefix) - strings.LastIndexByte(prefix, '\n')
	return loc
}

func isRemoteURL(v []byte) bool {
	v = bytes.ToLower(bytes.TrimSpace(v))
	return bytes.HasPrefix(v, []byte("http:")) ||
		bytes.HasPrefix(v, []byte("https:")) ||
		bytes.HasPrefix(v, []byte("//"))
}
