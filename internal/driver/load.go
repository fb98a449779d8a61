package driver

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/klauspost/compress/zip"

	"addonlint/internal/source"
)

const (
	// maxMemberSize bounds how much of one package member is read.
	maxMemberSize = 32 << 20
	// maxPackageDepth bounds packages nested in packages (chrome .jar files
	// inside an .xpi).
	maxPackageDepth = 2
)

var errMemberTooLarge = errors.New("package member exceeds size limit")

// unit is one file queued for checking.
type unit struct {
	path    string
	kind    Kind
	file    *source.File
	loadErr error
}

// loader reads inputs into a FileSet ahead of the parallel phase. It runs
// on a single goroutine; workers only read the loaded files.
type loader struct {
	fset    *source.FileSet
	include []string
	exclude []string
	units   []unit
	ids     []source.FileID
}

func newLoader(fset *source.FileSet, opts Options) *loader {
	return &loader{fset: fset, include: opts.Include, exclude: opts.Exclude}
}

// disk loads one file from disk; packages are expanded into their members.
func (l *loader) disk(path string, kind Kind) {
	if kind == KindPackage {
		l.packageFile(path)
		return
	}
	id, err := l.fset.Load(path)
	if err != nil {
		l.failed(path, kind, fmt.Errorf("read %s: %w", path, err))
		return
	}
	l.add(id, kind)
}

func (l *loader) packageFile(path string) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		l.failed(path, KindPackage, fmt.Errorf("open package %s: %w", path, err))
		return
	}
	defer rc.Close()
	l.members(path, &rc.Reader, 1)
}

// members loads the selected members of r. Nested packages are opened from
// memory up to maxPackageDepth.
func (l *loader) members(display string, r *zip.Reader, depth int) {
	files := slices.Clone(r.File)
	slices.SortFunc(files, func(a, b *zip.File) int { return strings.Compare(a.Name, b.Name) })

	for _, f := range files {
		if f.FileInfo().IsDir() || strings.HasSuffix(f.Name, "/") {
			continue
		}
		name := display + "!/" + f.Name
		kind := KindOf(f.Name)
		if kind == KindPackage {
			if depth >= maxPackageDepth {
				continue
			}
			data, err := readMember(f)
			if err != nil {
				l.failed(name, kind, err)
				continue
			}
			nested, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
			if err != nil {
				l.failed(name, kind, fmt.Errorf("open package %s: %w", name, err))
				continue
			}
			l.members(name, nested, depth+1)
			continue
		}
		if !selected(f.Name, l.include, l.exclude) {
			continue
		}
		data, err := readMember(f)
		if err != nil {
			l.failed(name, kind, err)
			continue
		}
		l.add(l.fset.AddNormalized(name, data, source.FilePackaged), kind)
	}
}

func readMember(f *zip.File) ([]byte, error) {
	if f.UncompressedSize64 > maxMemberSize {
		return nil, fmt.Errorf("%s: %w", f.Name, errMemberTooLarge)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open member %s: %w", f.Name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(io.LimitReader(rc, maxMemberSize+1))
	if err != nil {
		return nil, fmt.Errorf("read member %s: %w", f.Name, err)
	}
	if len(data) > maxMemberSize {
		return nil, fmt.Errorf("%s: %w", f.Name, errMemberTooLarge)
	}
	return data, nil
}

func (l *loader) add(id source.FileID, kind Kind) {
	f := l.fset.Get(id)
	l.units = append(l.units, unit{path: f.Path, kind: kind})
	l.ids = append(l.ids, id)
}

func (l *loader) failed(path string, kind Kind, err error) {
	l.units = append(l.units, unit{path: path, kind: kind, loadErr: err})
	l.ids = append(l.ids, 0)
}

// finish resolves file pointers once the FileSet stops growing.
func (l *loader) finish() []unit {
	for i := range l.units {
		if l.units[i].loadErr == nil {
			l.units[i].file = l.fset.Get(l.ids[i])
		}
	}
	return l.units
}
