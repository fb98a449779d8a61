// Package manifest reads the install manifest (install.rdf) of a legacy
// add-on into the flat predicate list the manifest rules inspect.
package manifest

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// FileName is the manifest's name at the package root.
const FileName = "install.rdf"

// ManifestURN is the rdf:about value of the description holding the
// add-on's own predicates.
const ManifestURN = "urn:mozilla:install-manifest"

const rdfNS = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"

// ErrNoManifest reports a well-formed RDF document without the install
// manifest description.
var ErrNoManifest = errors.New("no " + ManifestURN + " description")

// Entry is one predicate of the manifest description, in document order.
// Value is the trimmed text content, or the rdf:resource of an empty
// element. Predicates with nested descriptions (targetApplication) have an
// empty Value.
type Entry struct {
	Name   string
	Value  string
	Line   int
	Column int
}

// Manifest is the install manifest description. Line and Column locate its
// opening tag.
type Manifest struct {
	Entries []Entry
	Line    int
	Column  int
}

// Has reports whether a predicate appears at least once.
func (m *Manifest) Has(name string) bool {
	_, ok := m.Lookup(name)
	return ok
}

// Lookup returns the first entry for name.
func (m *Manifest) Lookup(name string) (Entry, bool) {
	for _, e := range m.Entries {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// Parse decodes an install.rdf document. Predicates may be child elements
// or attributes of the manifest description; both keep document order.
func Parse(data []byte) (*Manifest, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = xml.HTMLEntity

	var (
		m        *Manifest
		depth    int
		top      int // depth of the manifest description, 0 when outside it
		open     *Entry
		text     strings.Builder
		finished bool
	)
	for {
		line, col := dec.InputPos()
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", FileName, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			switch {
			case top == 0 && !finished && t.Name.Local == "Description" && about(t) == ManifestURN:
				top = depth
				m = &Manifest{Line: line, Column: col}
				for _, a := range t.Attr {
					if isPredicateAttr(a.Name) {
						m.Entries = append(m.Entries, Entry{Name: a.Name.Local, Value: strings.TrimSpace(a.Value), Line: line, Column: col})
					}
				}
			case top != 0 && depth == top+1:
				open = &Entry{Name: t.Name.Local, Line: line, Column: col}
				text.Reset()
				for _, a := range t.Attr {
					if a.Name.Local == "resource" && (a.Name.Space == "" || a.Name.Space == rdfNS) {
						open.Value = strings.TrimSpace(a.Value)
					}
				}
			}
		case xml.CharData:
			if open != nil && depth == top+1 {
				text.Write(t)
			}
		case xml.EndElement:
			switch {
			case open != nil && depth == top+1:
				if v := strings.TrimSpace(text.String()); v != "" {
					open.Value = v
				}
				m.Entries = append(m.Entries, *open)
				open = nil
			case top != 0 && depth == top:
				top = 0
				finished = true
			}
			depth--
		}
	}
	if m == nil {
		return nil, fmt.Errorf("parse %s: %w", FileName, ErrNoManifest)
	}
	return m, nil
}

func about(t xml.StartElement) string {
	for _, a := range t.Attr {
		if a.Name.Local == "about" && (a.Name.Space == "" || a.Name.Space == rdfNS) {
			return strings.TrimSpace(a.Value)
		}
	}
	return ""
}

// isPredicateAttr excludes RDF syntax attributes and namespace
// declarations from the attribute form of predicates.
func isPredicateAttr(n xml.Name) bool {
	if n.Space == "xmlns" || n.Space == "" || n.Space == rdfNS {
		return false
	}
	return n.Local != "about"
}
