package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"
	"strings"

	"addonlint/internal/rules"
)

// Digest is a SHA-256 sum.
type Digest [32]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// IsZero reports whether the digest was never computed.
func (d Digest) IsZero() bool { return d == Digest{} }

// combineDigest: H(content || part1 || part2 ...).
func combineDigest(content Digest, parts ...string) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, p := range parts {
		_, _ = h.Write([]byte{0})
		_, _ = h.Write([]byte(p))
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// analysisFingerprint covers every option that changes what the rules
// report for a given file. Suppression, target filtering and dedup happen
// after the cache and are left out.
func analysisFingerprint(opts Options) string {
	var b strings.Builder
	fmt.Fprintf(&b, "depth=%d;width=%d;", opts.MaxDepth, opts.ContextWidth)
	overrides := opts.Overrides.Map()
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "o:%s=%s;", k, overrides[k])
	}
	for _, guid := range opts.Targets.GUIDs() {
		c, _ := opts.Targets.Constraint(guid)
		fmt.Fprintf(&b, "t:%s=%s;", guid, c)
	}
	return b.String()
}

// cacheKey identifies the raw findings of one file at one path; findings
// carry the path, so identical content elsewhere gets its own entry.
func cacheKey(content Digest, path string, opts Options) Digest {
	return combineDigest(content, path, rules.Fingerprint(), analysisFingerprint(opts))
}
