package driver

import (
	"context"
	"time"

	"addonlint/internal/compat"
	"addonlint/internal/diag"
	"addonlint/internal/manifest"
	"addonlint/internal/markup"
	"addonlint/internal/metrics"
	"addonlint/internal/observ"
	"addonlint/internal/rules"
	"addonlint/internal/scripting"
	"addonlint/internal/suppress"
	"addonlint/internal/trace"
)

// reporterChain builds the per-file sink:
// metrics -> suppress -> target filter -> dedup -> bag.
func reporterChain(bag *diag.Bag, opts Options) diag.Reporter {
	var r diag.Reporter = diag.BagReporter{Bag: bag}
	if opts.Dedup {
		r = diag.NewDedupReporter(r)
	}
	if !opts.Targets.Empty() {
		r = compat.TargetFilter{Targets: opts.Targets, Next: r}
	}
	if opts.Suppress != nil {
		r = suppress.Filter{Set: opts.Suppress, Next: r}
	}
	return opts.Metrics.Reporter(r)
}

// recorder keeps a copy of every raw finding for the disk cache and traces
// each one.
type recorder struct {
	ctx   context.Context
	next  diag.Reporter
	items []diag.Diagnostic
}

func (r *recorder) Report(d diag.Diagnostic) {
	trace.Finding(r.ctx, d.Rule.String(), d.Location.Line)
	r.items = append(r.items, d.Clone())
	r.next.Report(d)
}

// checkUnit validates one loaded file. The returned error is non-nil only
// when ctx was cancelled; everything else becomes a diagnostic.
func checkUnit(ctx context.Context, u unit, opts Options) (FileResult, error) {
	start := time.Now()
	ctx, span := trace.File(ctx, u.path, u.kind.String())

	var timer *observ.Timer
	if opts.Timings {
		timer = observ.NewTimer()
	}
	bag := diag.NewBag(opts.MaxDiagnostics)
	sink := reporterChain(bag, opts)
	res := FileResult{Path: u.path, Kind: u.kind, Bag: bag}

	done := func(outcome string, err error) (FileResult, error) {
		res.Outcome = outcome
		if opts.Timings {
			r := timer.Report()
			res.Timing = &r
		}
		elapsed := time.Since(start)
		opts.Metrics.FileDone(outcome, elapsed)
		status := StatusDone
		if outcome == metrics.OutcomeFailed || err != nil {
			status = StatusError
		}
		emit(opts.Progress, Event{File: u.path, Stage: StageCheck, Status: status, Err: err, Elapsed: elapsed})
		span.End(outcome)
		return res, err
	}

	if u.loadErr != nil {
		rules.RuleLoadFailed.Report(sink).
			At(diag.Location{File: u.path}).
			WithDescription(u.loadErr.Error()).
			Emit()
		return done(metrics.OutcomeFailed, nil)
	}
	emit(opts.Progress, Event{File: u.path, Stage: StageParse, Status: StatusWorking})

	var key Digest
	if opts.cacheable() {
		key = cacheKey(Digest(u.file.Hash), u.path, opts)
		idx := timer.Begin("cache")
		var payload DiskPayload
		hit, err := opts.Cache.Get(key, &payload)
		timer.End(idx, "lookup")
		if err != nil {
			span.Set("cache_error", err.Error())
		}
		if hit && payload.Path == u.path {
			for _, d := range payload.Diagnostics {
				sink.Report(d)
			}
			res.Stats = payload.Stats
			return done(metrics.OutcomeCached, nil)
		}
	}

	rec := &recorder{ctx: ctx, next: sink}
	emit(opts.Progress, Event{File: u.path, Stage: StageCheck, Status: StatusWorking})
	idx := timer.Begin("analyze")
	err := analyze(ctx, u, rec, opts, &res)
	timer.End(idx, u.kind.String())
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return done(metrics.OutcomeFailed, ctxErr)
		}
		rules.RuleLoadFailed.Report(sink).
			At(diag.Location{File: u.path}).
			WithDescription(err.Error()).
			Emit()
		return done(metrics.OutcomeFailed, nil)
	}

	if opts.cacheable() {
		idx := timer.Begin("cache")
		err := opts.Cache.Put(key, &DiskPayload{
			Path:        u.path,
			ContentHash: Digest(u.file.Hash),
			Rules:       rules.Fingerprint(),
			Diagnostics: rec.items,
			Stats:       res.Stats,
		})
		timer.End(idx, "store")
		if err != nil {
			span.Set("cache_error", err.Error())
		}
	}
	return done(metrics.OutcomeChecked, nil)
}

func analyze(ctx context.Context, u unit, r diag.Reporter, opts Options, res *FileResult) error {
	switch u.kind {
	case KindManifest:
		checkManifest(u, r, opts)
		return ctx.Err()
	case KindMarkup:
		markup.Check(r, string(u.file.Content), markup.Options{
			Strict: true,
			Base:   diag.Location{File: u.path, Line: 1, Column: 1},
		})
		return ctx.Err()
	}
	a := scripting.NewAnalyzer(ctx, r, opts.analyzerOptions())
	err := a.AnalyzeFile(u.file)
	res.Stats = a.Stats()
	return err
}

func checkManifest(u unit, r diag.Reporter, opts Options) {
	m, err := manifest.Parse(u.file.Content)
	if err != nil {
		rules.RuleManifestUnparseable.Report(r).
			WithDescription(err.Error()).
			At(diag.Location{File: u.path}).
			Emit()
		return
	}
	rules.CheckManifest(m, &rules.StaticContext{
		File:      u.path,
		Pos:       diag.Location{File: u.path, Line: m.Line, Column: m.Column},
		Targeting: opts.Targets,
		Flags:     opts.Overrides,
		Sink:      r,
	})
}
