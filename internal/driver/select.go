package driver

import (
	"io/fs"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"addonlint/internal/manifest"
)

// Kind classifies a file by how it is checked.
type Kind uint8

const (
	KindOther Kind = iota
	KindScript
	KindMarkup
	KindPackage
	KindManifest
)

func (k Kind) String() string {
	switch k {
	case KindScript:
		return "script"
	case KindMarkup:
		return "markup"
	case KindPackage:
		return "package"
	case KindManifest:
		return "manifest"
	}
	return "other"
}

var kindByExt = map[string]Kind{
	".js":    KindScript,
	".jsm":   KindScript,
	".mjs":   KindScript,
	".html":  KindMarkup,
	".htm":   KindMarkup,
	".xhtml": KindMarkup,
	".xul":   KindMarkup,
	".xpi":   KindPackage,
	".zip":   KindPackage,
	".jar":   KindPackage,
}

// KindOf classifies name by its extension, ignoring case. An install.rdf
// is a manifest wherever it sits.
func KindOf(name string) Kind {
	if strings.EqualFold(path.Base(name), manifest.FileName) {
		return KindManifest
	}
	return kindByExt[strings.ToLower(path.Ext(name))]
}

// selected reports whether rel (slash separated) matches an include pattern
// and no exclude pattern. Patterns were validated by config.Check; a
// malformed one matches nothing.
func selected(rel string, include, exclude []string) bool {
	matchAny := func(patterns []string) bool {
		for _, p := range patterns {
			if ok, err := doublestar.Match(p, rel); err == nil && ok {
				return true
			}
		}
		return false
	}
	return matchAny(include) && !matchAny(exclude)
}

// listFiles returns the selected files under dir in sorted order.
func listFiles(dir string, include, exclude []string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		if selected(filepath.ToSlash(rel), include, exclude) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(files)
	return files, nil
}
