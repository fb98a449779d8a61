package trace

import "context"

type stateKey struct{}

// state is everything tracing keeps on a context.
type state struct {
	tracer Tracer
	active Active
}

// Active is the innermost span on a context together with the file it
// belongs to and how deep in nested script analysis it sits.
type Active struct {
	SpanID uint64
	File   string
	Depth  int
}

func load(ctx context.Context) state {
	if ctx != nil {
		if s, ok := ctx.Value(stateKey{}).(state); ok {
			return s
		}
	}
	return state{tracer: Nop}
}

// FromContext returns the tracer attached to ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	return load(ctx).tracer
}

// WithTracer attaches t to ctx. Spans started earlier on ctx are not
// parents of spans started under the new tracer.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, stateKey{}, state{tracer: t})
}

// CurrentSpan returns the innermost span started on ctx; zero when none.
func CurrentSpan(ctx context.Context) Active {
	return load(ctx).active
}

// WithSpan makes a the innermost span of ctx, keeping its tracer.
func WithSpan(ctx context.Context, a Active) context.Context {
	s := load(ctx)
	s.active = a
	return context.WithValue(ctx, stateKey{}, s)
}
