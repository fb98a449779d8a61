package driver

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"addonlint/internal/observ"
	"addonlint/internal/source"
	"addonlint/internal/trace"
)

// ValidatePath validates a directory, a package (.xpi, .zip, .jar) or a
// single file, depending on what path names.
func ValidatePath(ctx context.Context, path string, opts Options) (*Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("validate %s: %w", path, err)
	}
	switch {
	case info.IsDir():
		return ValidateDir(ctx, path, opts)
	case KindOf(path) == KindPackage:
		return ValidatePackage(ctx, path, opts)
	}
	return ValidateFile(ctx, path, opts)
}

// ValidateFile checks one file. Include and exclude patterns do not apply;
// a file of unknown type is checked as a script.
func ValidateFile(ctx context.Context, path string, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	timer := newTimer(opts)

	idx := timer.Begin("load")
	l := newLoader(source.NewFileSet(), opts)
	kind := KindOf(path)
	if kind == KindOther {
		kind = KindScript
	}
	l.disk(path, kind)
	units := l.finish()
	timer.End(idx, "")

	return run(ctx, path, units, opts, timer)
}

// ValidateDir checks every selected file under dir. Packages are only
// expanded when an include pattern selects them.
func ValidateDir(ctx context.Context, dir string, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	timer := newTimer(opts)

	idx := timer.Begin("discover")
	files, err := listFiles(dir, opts.Include, opts.Exclude)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	timer.End(idx, fmt.Sprintf("%d files", len(files)))

	idx = timer.Begin("load")
	l := newLoader(source.NewFileSetWithBase(dir), opts)
	for _, path := range files {
		kind := KindOf(path)
		if kind == KindOther {
			kind = KindScript
		}
		l.disk(path, kind)
	}
	units := l.finish()
	timer.End(idx, fmt.Sprintf("%d units", len(units)))

	return run(ctx, dir, units, opts, timer)
}

// ValidatePackage checks the selected members of an .xpi/.zip archive.
// Member paths read "<package>!/<member>". An archive that cannot be opened
// yields a load_failed diagnostic rather than an error.
func ValidatePackage(ctx context.Context, path string, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	timer := newTimer(opts)

	idx := timer.Begin("load")
	l := newLoader(source.NewFileSet(), opts)
	l.packageFile(path)
	units := l.finish()
	timer.End(idx, fmt.Sprintf("%d members", len(units)))

	return run(ctx, path, units, opts, timer)
}

func newTimer(opts Options) *observ.Timer {
	if !opts.Timings {
		return nil
	}
	return observ.NewTimer()
}

// run checks units in parallel. Each worker writes only its own slot in
// results, so no mutex is needed.
func run(ctx context.Context, root string, units []unit, opts Options, timer *observ.Timer) (*Result, error) {
	ctx, span := trace.Run(ctx, root, len(units))
	defer span.End("")

	paths := make([]string, len(units))
	for i, u := range units {
		paths[i] = u.path
	}
	emitQueued(opts.Progress, paths)

	start := time.Now()
	idx := timer.Begin("check")
	results := make([]FileResult, len(units))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(opts.Jobs, len(units))))
	for i, u := range units {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := checkUnit(gctx, u, opts)
			results[i] = res
			return err
		})
	}
	err := g.Wait()
	timer.End(idx, fmt.Sprintf("%d files, %d jobs", len(units), opts.Jobs))

	res := &Result{Root: root, Files: results}
	if opts.Timings {
		r := timer.Report()
		res.Timing = &r
	}
	if err != nil {
		emit(opts.Progress, Event{Stage: StageCheck, Status: StatusError, Err: err, Elapsed: time.Since(start)})
		return res, fmt.Errorf("validate %s: %w", root, err)
	}
	emit(opts.Progress, Event{Stage: StageCheck, Status: StatusDone, Elapsed: time.Since(start)})
	return res, nil
}
