package compat

import (
	"fmt"
	"regexp"
	"strconv"
)

// versionRe matches Mozilla toolkit versions such as "10.0", "3.6.*",
// "17.0b3" or "4.0pre1". Matching is anchored at the start only; trailing
// text is ignored.
var versionRe = regexp.MustCompile(`^(\d+|\*)\.?(\d+|\*)?\.?(\d+|\*)?\.?(\d+|\*)?([ab]?)(\d*)(pre)?(\d)?`)

// Parts is a decomposed Mozilla version.
type Parts struct {
	Major, Minor1, Minor2, Minor3 int
	Alpha                         string // "a", "b" or ""
	AlphaVer                      int
	Pre                           bool
	PreVer                        int
}

// ParseVersion decomposes a version string. "*" components become 99.
// Unparseable input yields zero Parts and false.
func ParseVersion(s string) (Parts, bool) {
	m := versionRe.FindStringSubmatch(s)
	if m == nil {
		return Parts{}, false
	}
	num := func(g string) int {
		if g == "*" {
			return 99
		}
		n, err := strconv.Atoi(g)
		if err != nil {
			return 0
		}
		return n
	}
	return Parts{
		Major:    num(m[1]),
		Minor1:   num(m[2]),
		Minor2:   num(m[3]),
		Minor3:   num(m[4]),
		Alpha:    m[5],
		AlphaVer: num(m[6]),
		Pre:      m[7] != "",
		PreVer:   num(m[8]),
	}, true
}

// VersionInt encodes a version into the sortable integer stored in the
// version catalog: major, three two-digit minors, alpha rank (a=0, b=1,
// release=2), two-digit alpha version, pre flag (pre=0, final=1) and a
// two-digit pre version, truncated to 18 digits.
func VersionInt(s string) int64 {
	p, _ := ParseVersion(s)
	return p.Int()
}

// Int returns the catalog integer for p.
func (p Parts) Int() int64 {
	alpha := 2
	switch p.Alpha {
	case "a":
		alpha = 0
	case "b":
		alpha = 1
	}
	pre := 1
	if p.Pre {
		pre = 0
	}
	v := fmt.Sprintf("%d%02d%02d%02d%d%02d%d%02d",
		p.Major, p.Minor1, p.Minor2, p.Minor3, alpha, p.AlphaVer, pre, p.PreVer)
	if len(v) > 18 {
		v = v[:18]
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// CompareVersions orders two version strings by their catalog integers.
func CompareVersions(a, b string) int {
	ia, ib := VersionInt(a), VersionInt(b)
	switch {
	case ia < ib:
		return -1
	case ia > ib:
		return 1
	}
	return 0
}
