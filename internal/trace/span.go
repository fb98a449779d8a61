package trace

import (
	"context"
	"maps"
	"strconv"
	"sync/atomic"
	"time"
)

var (
	eventSeq atomic.Uint64
	spanSeq  atomic.Uint64
)

func nextSeq() uint64 { return eventSeq.Add(1) }

// Span is one timed region of a validation. Spans the level filters out
// are nil; every method accepts a nil receiver.
type Span struct {
	tracer  Tracer
	begin   Event
	started time.Time
	attrs   map[string]string
}

// Run opens the span covering one validation of root.
func Run(ctx context.Context, root string, files int) (context.Context, *Span) {
	return open(ctx, ScopeRun, "validate", func(a Active) Active { return a },
		"root", root, "files", strconv.Itoa(files))
}

// File opens the span for checking one file and makes path the current
// file for the spans and points below it.
func File(ctx context.Context, path, kind string) (context.Context, *Span) {
	return open(ctx, ScopeFile, path, func(a Active) Active {
		return Active{SpanID: a.SpanID, File: path}
	}, "kind", kind)
}

// Script opens the span for one parsed script. depth is 0 for a file's own
// code and grows by one per nested analysis.
func Script(ctx context.Context, name string, depth int) (context.Context, *Span) {
	return open(ctx, ScopeScript, "script:"+name, func(a Active) Active {
		if a.File == "" {
			a.File = name
		}
		a.Depth = depth
		return a
	}, "depth", strconv.Itoa(depth))
}

// Hook records one property hook firing in the innermost script.
func Hook(ctx context.Context, property, mode string) {
	s := load(ctx)
	point(s, ScopeHook, property, mode,
		"property", property,
		"depth", strconv.Itoa(s.active.Depth),
		"file", s.active.File)
}

// Finding records a diagnostic reported for the current file.
func Finding(ctx context.Context, rule string, line int) {
	s := load(ctx)
	point(s, ScopeHook, rule, "",
		"rule", rule,
		"line", strconv.Itoa(line),
		"file", s.active.File)
}

// Note records a run-level message that is not tied to a span.
func Note(ctx context.Context, name, detail string) {
	point(load(ctx), ScopeRun, name, detail)
}

// open emits the begin event of a span parented to the innermost span on
// ctx. descend derives the new Active from the parent's; its SpanID is
// replaced afterwards.
func open(ctx context.Context, scope Scope, name string, descend func(Active) Active, kv ...string) (context.Context, *Span) {
	s := load(ctx)
	if !s.tracer.Enabled() || !s.tracer.Level().ShouldEmit(scope) {
		return ctx, nil
	}
	sp := &Span{
		tracer:  s.tracer,
		started: time.Now(),
		attrs:   pairs(kv),
		begin: Event{
			Kind:     KindSpanBegin,
			Scope:    scope,
			SpanID:   spanSeq.Add(1),
			ParentID: s.active.SpanID,
			Name:     name,
		},
	}
	ev := sp.begin
	ev.Time = sp.started
	ev.Extra = maps.Clone(sp.attrs)
	s.tracer.Emit(&ev)

	next := descend(s.active)
	next.SpanID = sp.begin.SpanID
	return WithSpan(ctx, next), sp
}

func point(s state, scope Scope, name, detail string, kv ...string) {
	if !s.tracer.Enabled() || !s.tracer.Level().ShouldEmit(scope) {
		return
	}
	s.tracer.Emit(&Event{
		Time:     time.Now(),
		Kind:     KindPoint,
		Scope:    scope,
		ParentID: s.active.SpanID,
		Name:     name,
		Detail:   detail,
		Extra:    pairs(kv),
	})
}

// pairs turns alternating keys and values into a map, skipping empty values.
func pairs(kv []string) map[string]string {
	var m map[string]string
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] == "" {
			continue
		}
		if m == nil {
			m = make(map[string]string, len(kv)/2)
		}
		m[kv[i]] = kv[i+1]
	}
	return m
}

// Set adds an attribute reported with the end event.
func (s *Span) Set(key, value string) *Span {
	if s == nil {
		return nil
	}
	if s.attrs == nil {
		s.attrs = make(map[string]string)
	}
	s.attrs[key] = value
	return s
}

// End emits the end event and returns how long the span was open.
func (s *Span) End(detail string) time.Duration {
	if s == nil {
		return 0
	}
	dur := time.Since(s.started)
	ev := s.begin
	ev.Time = time.Now()
	ev.Kind = KindSpanEnd
	ev.Detail = detail
	ev.Extra = s.attrs
	s.tracer.Emit(&ev)
	return dur
}

// ID returns the span id, 0 for a filtered span.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.begin.SpanID
}
