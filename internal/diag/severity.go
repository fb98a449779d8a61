package diag

import (
	"fmt"
	"strings"
)

// Severity defines the importance of a diagnostic.
// Ordering matters: SevError > SevWarning > SevNotice.
type Severity uint8

const (
	// SevNotice is informational: deprecations, analysis limits.
	SevNotice Severity = iota
	// SevWarning flags a risky pattern that does not block acceptance.
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevNotice:
		return "NOTICE"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// Label is the lowercase form used by machine-readable outputs.
func (s Severity) Label() string {
	return strings.ToLower(s.String())
}

// ParseSeverity accepts "notice", "warning" or "error" in any case.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "notice", "info":
		return SevNotice, nil
	case "warning", "warn":
		return SevWarning, nil
	case "error":
		return SevError, nil
	}
	return SevNotice, fmt.Errorf("unknown severity %q", s)
}

// SigningSeverity classifies how strongly a diagnostic blocks automated
// signing of a package.
type SigningSeverity uint8

const (
	SigningNone SigningSeverity = iota
	SigningTrivial
	SigningLow
	SigningMedium
	SigningHigh
)

func (s SigningSeverity) String() string {
	switch s {
	case SigningTrivial:
		return "trivial"
	case SigningLow:
		return "low"
	case SigningMedium:
		return "medium"
	case SigningHigh:
		return "high"
	}
	return ""
}

// CompatType classifies a version-bound diagnostic for compatibility reports.
type CompatType uint8

const (
	CompatNone CompatType = iota
	CompatError
	CompatWarning
)

func (c CompatType) String() string {
	switch c {
	case CompatError:
		return "error"
	case CompatWarning:
		return "warning"
	}
	return ""
}
