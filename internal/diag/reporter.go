package diag

// Reporter is the sink diagnostics are emitted into.
// Implementations: BagReporter, DedupReporter, MultiReporter, ReporterFunc.
type Reporter interface {
	Report(d Diagnostic)
}

// ReporterFunc adapts a plain function to Reporter.
type ReporterFunc func(d Diagnostic)

func (f ReporterFunc) Report(d Diagnostic) {
	if f != nil {
		f(d)
	}
}

// NopReporter drops everything.
type NopReporter struct{}

func (NopReporter) Report(Diagnostic) {}

// MultiReporter fans a diagnostic out to every reporter in order.
type MultiReporter []Reporter

func (m MultiReporter) Report(d Diagnostic) {
	for _, r := range m {
		if r != nil {
			r.Report(d.Clone())
		}
	}
}

// ReportBuilder accumulates diagnostic details before emitting to Reporter.
type ReportBuilder struct {
	reporter Reporter
	diag     Diagnostic
	emitted  bool
}

// NewReportBuilder constructs a builder bound to Reporter.
func NewReportBuilder(r Reporter, sev Severity, id RuleID, title string) *ReportBuilder {
	return &ReportBuilder{
		reporter: r,
		diag: Diagnostic{
			Severity: sev,
			Rule:     ID(id...),
			Title:    title,
		},
	}
}

// ReportError is a shortcut for SevError diagnostics.
func ReportError(r Reporter, id RuleID, title string) *ReportBuilder {
	return NewReportBuilder(r, SevError, id, title)
}

// ReportWarning is a shortcut for SevWarning diagnostics.
func ReportWarning(r Reporter, id RuleID, title string) *ReportBuilder {
	return NewReportBuilder(r, SevWarning, id, title)
}

// ReportNotice is a shortcut for SevNotice diagnostics.
func ReportNotice(r Reporter, id RuleID, title string) *ReportBuilder {
	return NewReportBuilder(r, SevNotice, id, title)
}

// WithDescription appends description entries. A single entry renders as a
// plain string, several as an ordered list.
func (b *ReportBuilder) WithDescription(lines ...string) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag.Description = append(b.diag.Description, lines...)
	return b
}

// At attaches a source location.
func (b *ReportBuilder) At(loc Location) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag.Location = loc
	return b
}

// ForVersions records the version ranges the diagnostic applies to.
func (b *ReportBuilder) ForVersions(ranges ...VersionRange) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag.Versions = append(b.diag.Versions, ranges...)
	return b
}

// Compat sets the compatibility classification.
func (b *ReportBuilder) Compat(c CompatType) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag.Compat = c
	return b
}

// Signing sets the signing severity.
func (b *ReportBuilder) Signing(s SigningSeverity) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag.Signing = s
	return b
}

// Tier sets the report ordering tier.
func (b *ReportBuilder) Tier(n int) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag.Tier = n
	return b
}

// Emit sends diagnostic to underlying reporter exactly once.
func (b *ReportBuilder) Emit() {
	if b == nil || b.emitted {
		return
	}
	if b.reporter != nil {
		b.reporter.Report(b.diag.Clone())
	}
	b.emitted = true
}

// Diagnostic returns accumulated diagnostic without emitting.
func (b *ReportBuilder) Diagnostic() Diagnostic {
	if b == nil {
		return Diagnostic{}
	}
	return b.diag.Clone()
}

// BagReporter is an adapter that writes into *Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d Diagnostic) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(d)
}
