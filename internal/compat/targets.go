package compat

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"

	"addonlint/internal/diag"
)

// Semver coerces a Mozilla version into a semantic version. Alpha and beta
// markers become prerelease tags ("10.0a1" -> "10.0.0-a1"); the fourth
// component is kept as build metadata.
func Semver(s string) (*semver.Version, error) {
	p, ok := ParseVersion(s)
	if !ok {
		return nil, fmt.Errorf("invalid application version %q", s)
	}
	var pre []string
	if p.Alpha != "" {
		pre = append(pre, fmt.Sprintf("%s%d", p.Alpha, p.AlphaVer))
	}
	if p.Pre {
		pre = append(pre, fmt.Sprintf("pre%d", p.PreVer))
	}
	meta := ""
	if p.Minor3 != 0 {
		meta = fmt.Sprintf("%d", p.Minor3)
	}
	return semver.New(uint64(p.Major), uint64(p.Minor1), uint64(p.Minor2), strings.Join(pre, "."), meta), nil // #nosec G115 -- components are non-negative
}

// TargetSet maps application GUIDs to the version constraint the package
// declares support for. An empty set means "every version".
type TargetSet struct {
	constraints map[string]*semver.Constraints
	raw         map[string]string
}

// NewTargetSet builds a set from app → constraint pairs. Keys may be GUIDs
// or short names.
func NewTargetSet(pairs map[string]string) (TargetSet, error) {
	ts := TargetSet{}
	keys := make([]string, 0, len(pairs))
	for k := range pairs {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if err := ts.Add(k, pairs[k]); err != nil {
			return TargetSet{}, err
		}
	}
	return ts, nil
}

// ParseTarget splits an "app=constraint" flag value.
func ParseTarget(s string) (app, constraint string, err error) {
	app, constraint, ok := strings.Cut(s, "=")
	if !ok || strings.TrimSpace(app) == "" {
		return "", "", fmt.Errorf("target %q: want app=constraint", s)
	}
	return strings.TrimSpace(app), strings.TrimSpace(constraint), nil
}

// Add registers one target. Later entries for the same app replace earlier ones.
func (ts *TargetSet) Add(app, constraint string) error {
	a, ok := LookupApp(app)
	if !ok {
		return fmt.Errorf("unknown application %q", app)
	}
	if constraint == "" {
		constraint = "*"
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("target %s: %w", a.Short, err)
	}
	if ts.constraints == nil {
		ts.constraints = make(map[string]*semver.Constraints)
		ts.raw = make(map[string]string)
	}
	ts.constraints[a.GUID] = c
	ts.raw[a.GUID] = constraint
	return nil
}

// Empty reports whether no targets are configured.
func (ts TargetSet) Empty() bool {
	return len(ts.constraints) == 0
}

// GUIDs returns the configured applications in sorted order.
func (ts TargetSet) GUIDs() []string {
	out := make([]string, 0, len(ts.constraints))
	for g := range ts.constraints {
		out = append(out, g)
	}
	slices.Sort(out)
	return out
}

// Constraint returns the textual constraint for an application.
func (ts TargetSet) Constraint(guid string) (string, bool) {
	c, ok := ts.raw[guid]
	return c, ok
}

// Accepts reports whether a concrete version of app satisfies the targets.
// Applications that are not targeted never match.
func (ts TargetSet) Accepts(guid, version string) bool {
	c, ok := ts.constraints[guid]
	if !ok {
		return false
	}
	v, err := Semver(version)
	if err != nil {
		return false
	}
	if v.Prerelease() != "" {
		// constraints without prerelease tags never match prereleases
		rel := semver.New(v.Major(), v.Minor(), v.Patch(), "", "")
		return c.Check(rel)
	}
	return c.Check(v)
}

// Overlaps reports whether some targeted version falls inside r. The range
// is sampled at its first release and at the last release before Max.
func (ts TargetSet) Overlaps(r Range) bool {
	c, ok := ts.constraints[r.App]
	if !ok {
		return false
	}
	for _, v := range rangeSamples(r) {
		if c.Check(v) {
			return true
		}
	}
	return false
}

// Relevant reports whether a diagnostic applies to the configured targets.
// Diagnostics without versions, and every diagnostic when no targets are
// configured, are relevant.
func (ts TargetSet) Relevant(d diag.Diagnostic) bool {
	if ts.Empty() || len(d.Versions) == 0 {
		return true
	}
	for _, vr := range d.Versions {
		if ts.Overlaps(Range{App: vr.App, Min: vr.Min, Max: vr.Max}) {
			return true
		}
	}
	return false
}

func rangeSamples(r Range) []*semver.Version {
	var out []*semver.Version
	if lo, ok := ParseVersion(r.Min); ok {
		out = append(out, semver.New(uint64(lo.Major), uint64(lo.Minor1), uint64(lo.Minor2), "", "")) // #nosec G115
	}
	if hi, ok := ParseVersion(r.Max); ok {
		switch {
		case hi.Minor1 > 0:
			out = append(out, semver.New(uint64(hi.Major), uint64(hi.Minor1-1), 99, "", "")) // #nosec G115
		case hi.Major > 0:
			out = append(out, semver.New(uint64(hi.Major-1), 99, 99, "", "")) // #nosec G115
		}
	}
	return out
}

// VersionSource lists the known versions of an application, newest first.
type VersionSource interface {
	Versions(ctx context.Context, guid string) ([]string, error)
}

// Expand lists every known version accepted by the targets, per application.
func (ts TargetSet) Expand(ctx context.Context, src VersionSource) (map[string][]string, error) {
	out := make(map[string][]string, len(ts.constraints))
	for _, guid := range ts.GUIDs() {
		versions, err := src.Versions(ctx, guid)
		if err != nil {
			return nil, fmt.Errorf("list %s versions: %w", AppName(guid), err)
		}
		for _, v := range versions {
			if ts.Accepts(guid, v) {
				out[guid] = append(out[guid], v)
			}
		}
	}
	return out, nil
}

// TargetFilter drops version-bound diagnostics that do not apply to any
// configured target before forwarding the rest.
type TargetFilter struct {
	Targets TargetSet
	Next    diag.Reporter
}

func (f TargetFilter) Report(d diag.Diagnostic) {
	if f.Next == nil || !f.Targets.Relevant(d) {
		return
	}
	f.Next.Report(d)
}
