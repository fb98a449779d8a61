package rules

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"addonlint/internal/jsval"
)

// GetFunc handles a property read.
type GetFunc func(ctx Context)

// SetFunc handles a property write with the assigned value.
type SetFunc func(v jsval.Value, ctx Context)

// Bundle groups the handlers registered for one property name.
// At least one handler must be set.
type Bundle struct {
	OnGet GetFunc
	OnSet SetFunc
}

func (b Bundle) empty() bool {
	return b.OnGet == nil && b.OnSet == nil
}

// Hook is a resolved handler. Hooks are allocated once at registration, so
// resolving the same name and mode always yields the same pointer.
type Hook struct {
	Property string
	Mode     Mode
	get      GetFunc
	set      SetFunc
}

// Get invokes a read hook.
func (h *Hook) Get(ctx Context) {
	if h.get == nil {
		panic(&RegistrationError{Property: h.Property, Reason: "hook has no get handler"})
	}
	h.get(ctx)
}

// Set invokes a write hook. raw is normalized through jsval.Wrap.
func (h *Hook) Set(raw any, ctx Context) {
	if h.set == nil {
		panic(&RegistrationError{Property: h.Property, Reason: "hook has no set handler"})
	}
	h.set(jsval.Wrap(raw), ctx)
}

func (h *Hook) String() string {
	return h.Property + ":" + h.Mode.String()
}

// NamePredicate selects property names for a fallback hook.
type NamePredicate func(name string) bool

// HasPrefix returns a case-sensitive prefix predicate.
func HasPrefix(prefix string) NamePredicate {
	return func(name string) bool { return strings.HasPrefix(name, prefix) }
}

type entry struct {
	get *Hook
	set *Hook
}

type fallback struct {
	match NamePredicate
	entry entry
}

// Registry maps property names to hooks. It is immutable once built and
// safe for concurrent use.
type Registry struct {
	exact     map[string]entry
	fallbacks []fallback
}

// Resolve finds the hook for an access:
//  1. the exact-name bundle, when it has a handler for mode;
//  2. otherwise the first fallback whose predicate matches and that has a
//     handler for mode;
//  3. otherwise nothing.
//
// Names compare by exact byte equality.
func (r *Registry) Resolve(name string, mode Mode) (*Hook, bool) {
	if e, ok := r.exact[name]; ok {
		if h := e.pick(mode); h != nil {
			return h, true
		}
	}
	for _, fb := range r.fallbacks {
		if h := fb.entry.pick(mode); h != nil && fb.match(name) {
			return h, true
		}
	}
	return nil, false
}

// Properties lists the exact-match property names in sorted order.
func (r *Registry) Properties() []string {
	out := make([]string, 0, len(r.exact))
	for name := range r.exact {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// Modes reports which access modes a property has exact handlers for.
func (r *Registry) Modes(name string) Mode {
	e := r.exact[name]
	var m Mode
	if e.get != nil {
		m |= ModeGet
	}
	if e.set != nil {
		m |= ModeSet
	}
	return m
}

// FallbackCount returns the number of registered fallbacks.
func (r *Registry) FallbackCount() int {
	return len(r.fallbacks)
}

func (e entry) pick(mode Mode) *Hook {
	switch mode {
	case ModeGet:
		return e.get
	case ModeSet:
		return e.set
	}
	return nil
}

// Builder assembles a Registry. Misuse panics with *RegistrationError.
type Builder struct {
	reg   *Registry
	built bool
}

func NewBuilder() *Builder {
	return &Builder{reg: &Registry{exact: make(map[string]entry)}}
}

// Register binds a bundle to an exact property name.
func (b *Builder) Register(name string, bundle Bundle) *Builder {
	b.check(name, bundle)
	if _, dup := b.reg.exact[name]; dup {
		panic(&RegistrationError{Property: name, Reason: "already registered"})
	}
	b.reg.exact[name] = newEntry(name, bundle)
	return b
}

// Fallback appends a predicate-selected bundle. Fallbacks are consulted in
// registration order, only after the exact lookup found nothing for the mode.
func (b *Builder) Fallback(label string, match NamePredicate, bundle Bundle) *Builder {
	b.check(label, bundle)
	if match == nil {
		panic(&RegistrationError{Property: label, Reason: "nil name predicate"})
	}
	b.reg.fallbacks = append(b.reg.fallbacks, fallback{match: match, entry: newEntry(label, bundle)})
	return b
}

// Build freezes the registry. The builder cannot be used afterwards.
func (b *Builder) Build() *Registry {
	if b.built {
		panic(&RegistrationError{Reason: "registry already built"})
	}
	b.built = true
	return b.reg
}

func (b *Builder) check(name string, bundle Bundle) {
	if b.built {
		panic(&RegistrationError{Property: name, Reason: "registry already built"})
	}
	if name == "" {
		panic(&RegistrationError{Reason: "empty property name"})
	}
	if bundle.empty() {
		panic(&RegistrationError{Property: name, Reason: "bundle has neither get nor set handler"})
	}
}

func newEntry(name string, bundle Bundle) entry {
	var e entry
	if bundle.OnGet != nil {
		e.get = &Hook{Property: name, Mode: ModeGet, get: bundle.OnGet}
	}
	if bundle.OnSet != nil {
		e.set = &Hook{Property: name, Mode: ModeSet, set: bundle.OnSet}
	}
	return e
}

// RegistrationError is the panic value for registry misuse.
type RegistrationError struct {
	Property string
	Reason   string
}

func (e *RegistrationError) Error() string {
	if e.Property == "" {
		return "rules: " + e.Reason
	}
	return fmt.Sprintf("rules: %s: %s", e.Property, e.Reason)
}

// Default returns the shared registry holding every built-in rule.
var Default = sync.OnceValue(func() *Registry {
	return registerBuiltins(NewBuilder()).Build()
})
