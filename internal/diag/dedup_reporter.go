package diag

type dedupKey struct {
	rule   string
	sev    Severity
	file   string
	line   int
	column int
	title  string
}

// DedupReporter wraps another Reporter and suppresses duplicate diagnostics
// with the same rule, severity, location and title.
type DedupReporter struct {
	next Reporter
	seen map[dedupKey]struct{}
}

// NewDedupReporter returns a Reporter that filters out duplicates while
// forwarding unique diagnostics to the provided reporter.
func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{
		next: next,
		seen: make(map[dedupKey]struct{}),
	}
}

func (r *DedupReporter) Report(d Diagnostic) {
	if r == nil {
		return
	}
	key := dedupKey{
		rule:   d.Rule.String(),
		sev:    d.Severity,
		file:   d.Location.File,
		line:   d.Location.Line,
		column: d.Location.Column,
		title:  d.Title,
	}
	if _, ok := r.seen[key]; ok {
		return
	}
	r.seen[key] = struct{}{}
	if r.next != nil {
		r.next.Report(d)
	}
}
