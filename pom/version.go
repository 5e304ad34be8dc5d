package pom

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Version is a parsed Maven version. Ordering follows Maven's
// ComparableVersion rules closely enough for mediation: numeric and
// qualifier parts split at separators and digit/letter boundaries,
// trailing null parts trimmed, known qualifiers ranked below plain
// releases and unknown ones alongside them.
type Version struct {
	Raw   string
	parts []versionPart
}

type versionPart struct {
	num     int64
	qual    string // lowercased; empty when numeric
	numeric bool
	sep     byte // separator preceding the part: '.', '-', '_', or 0
}

func ParseVersion(s string) *Version {
	s = strings.TrimSpace(s)
	v := &Version{Raw: s}
	var sep byte
	for i := 0; i < len(s); {
		c := s[i]
		if c == '.' || c == '-' || c == '_' {
			sep = c
			i++
			continue
		}
		j := i
		if isDigitByte(c) {
			for j < len(s) && isDigitByte(s[j]) {
				j++
			}
			n, _ := strconv.ParseInt(s[i:j], 10, 64)
			v.parts = append(v.parts, versionPart{num: n, numeric: true, sep: sep})
		} else {
			for j < len(s) && !isDigitByte(s[j]) && s[j] != '.' && s[j] != '-' && s[j] != '_' {
				j++
			}
			v.parts = append(v.parts, versionPart{qual: strings.ToLower(s[i:j]), sep: sep})
		}
		sep = 0
		i = j
	}
	v.trimNulls()
	return v
}

func isDigitByte(b byte) bool { return b >= '0' && b <= '9' }

// trimNulls drops trailing parts that compare equal to nothing, so
// "1.0.0" and "1" parse to the same part sequence.
func (v *Version) trimNulls() {
	for n := len(v.parts); n > 0; n-- {
		p := v.parts[n-1]
		if p.numeric && p.num == 0 {
			continue
		}
		if !p.numeric && nullQualifiers[p.qual] {
			continue
		}
		v.parts = v.parts[:n]
		return
	}
	v.parts = nil
}

var nullQualifiers = map[string]bool{"": true, "final": true, "ga": true, "release": true}

const releaseRank = 6

var qualifierRanks = map[string]int{
	"alpha": 1, "a": 1,
	"beta": 2, "b": 2,
	"milestone": 3, "m": 3,
	"rc": 4, "cr": 4,
	"snapshot": 5,
	"": releaseRank, "final": releaseRank, "ga": releaseRank, "release": releaseRank,
	"sp": 7,
}

func rankOf(qual string) int {
	if r, ok := qualifierRanks[qual]; ok {
		return r
	}
	return releaseRank
}

// CompareVersions orders two versions. When one runs out of parts the
// other's remainder is compared against implicit padding: numeric zero
// is equal to nothing, a pre-release qualifier sorts below it, anything
// else above.
func CompareVersions(a, b *Version) int {
	n := len(a.parts)
	if len(b.parts) > n {
		n = len(b.parts)
	}
	for i := 0; i < n; i++ {
		var c int
		switch {
		case i >= len(a.parts):
			c = -comparePadded(b.parts[i])
		case i >= len(b.parts):
			c = comparePadded(a.parts[i])
		default:
			c = compareParts(a.parts[i], b.parts[i])
		}
		if c != 0 {
			return c
		}
	}
	return 0
}

func comparePadded(p versionPart) int {
	if p.numeric {
		if p.num == 0 {
			return 0
		}
		return 1
	}
	if rankOf(p.qual) < releaseRank {
		return -1
	}
	return 1
}

func compareParts(a, b versionPart) int {
	switch {
	case a.numeric && b.numeric:
		if a.num != b.num {
			return sign(a.num - b.num)
		}
	case a.numeric:
		return 1
	case b.numeric:
		return -1
	default:
		ra, rb := rankOf(a.qual), rankOf(b.qual)
		if ra != rb {
			return sign(int64(ra - rb))
		}
		if a.qual != b.qual {
			return strings.Compare(a.qual, b.qual)
		}
	}
	return sign(int64(sepWeight(a.sep) - sepWeight(b.sep)))
}

func sign(n int64) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

// Hyphenated parts sort below dotted ones when everything else ties.
func sepWeight(sep byte) int {
	switch sep {
	case '-':
		return 1
	case '.':
		return 2
	}
	return 0
}

// Requirement is one version constraint on an artifact: either a soft
// preference ("1.2") or hard ranges ("[1.0,2.0)", possibly several).
type Requirement struct {
	Raw       string
	Preferred *Version       // soft preference; nil when hard
	Ranges    []VersionRange // hard ranges; empty when soft
}

func (r *Requirement) hard() bool { return r.Preferred == nil }

// ParseRequirement reads a Maven version string. Anything without range
// punctuation is a soft requirement.
func ParseRequirement(s string) (*Requirement, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.New("missing version")
	}
	if !strings.ContainsAny(s, "[](,)") {
		return &Requirement{Raw: s, Preferred: ParseVersion(s)}, nil
	}
	req := &Requirement{Raw: s}
	for rest := s; ; {
		rest = strings.TrimLeft(rest, ", \t")
		if rest == "" {
			break
		}
		end := strings.IndexAny(rest, "])")
		if end < 0 {
			return nil, fmt.Errorf("unclosed version range %q", s)
		}
		r, err := parseRange(rest[:end+1])
		if err != nil {
			return nil, err
		}
		req.Ranges = append(req.Ranges, r)
		rest = rest[end+1:]
	}
	if len(req.Ranges) == 0 {
		return nil, fmt.Errorf("malformed version range %q", s)
	}
	return req, nil
}

// VersionRange is one bracketed interval. A nil bound is unbounded;
// "[1.0]" pins both bounds to the same version.
type VersionRange struct {
	Min          *Version
	Max          *Version
	MinInclusive bool
	MaxInclusive bool
}

func parseRange(s string) (VersionRange, error) {
	if len(s) < 2 || (s[0] != '[' && s[0] != '(') {
		return VersionRange{}, fmt.Errorf("malformed version range %q", s)
	}
	lo, hi, bounded := strings.Cut(s[1:len(s)-1], ",")
	if !bounded {
		v := ParseVersion(strings.TrimSpace(lo))
		return VersionRange{Min: v, Max: v, MinInclusive: true, MaxInclusive: true}, nil
	}
	r := VersionRange{MinInclusive: s[0] == '[', MaxInclusive: s[len(s)-1] == ']'}
	if lo = strings.TrimSpace(lo); lo != "" {
		r.Min = ParseVersion(lo)
	}
	if hi = strings.TrimSpace(hi); hi != "" {
		r.Max = ParseVersion(hi)
	}
	return r, nil
}

func (r VersionRange) Contains(v *Version) bool {
	if r.Min != nil {
		c := CompareVersions(v, r.Min)
		if c < 0 || (c == 0 && !r.MinInclusive) {
			return false
		}
	}
	if r.Max != nil {
		c := CompareVersions(v, r.Max)
		if c > 0 || (c == 0 && !r.MaxInclusive) {
			return false
		}
	}
	return true
}

// exact returns the pinned version of a "[1.0]"-style range, nil for a
// genuine interval.
func (r VersionRange) exact() *Version {
	if r.Min != nil && r.Max != nil && r.MinInclusive && r.MaxInclusive && r.Min.Raw == r.Max.Raw {
		return r.Min
	}
	return nil
}

// mediate picks one version from the requirements collected for an
// artifact. Hard requirements override soft ones entirely; among soft
// ones the first wins, which for a depth-first walk is Maven's
// nearest-declaration rule.
func mediate(reqs []*Requirement) (string, error) {
	var pins []*Version
	var ranges []VersionRange
	soft := ""
	for _, req := range reqs {
		if !req.hard() {
			if soft == "" {
				soft = req.Preferred.Raw
			}
			continue
		}
		for _, r := range req.Ranges {
			if pin := r.exact(); pin != nil {
				pins = append(pins, pin)
			} else {
				ranges = append(ranges, r)
			}
		}
	}

	if len(pins) > 0 {
		pin := pins[0]
		for _, other := range pins[1:] {
			if other.Raw != pin.Raw {
				return "", fmt.Errorf("pinned versions disagree: %s vs %s", pin.Raw, other.Raw)
			}
		}
		for _, r := range ranges {
			if !r.Contains(pin) {
				return "", fmt.Errorf("pinned version %s falls outside a required range", pin.Raw)
			}
		}
		return pin.Raw, nil
	}
	if len(ranges) > 0 {
		best := bestInRanges(ranges)
		if best == nil {
			return "", errors.New("version ranges have no common version")
		}
		return best.Raw, nil
	}
	if soft != "" {
		return soft, nil
	}
	return "", errors.New("no version requirement")
}

// bestInRanges picks the highest range endpoint that satisfies every
// range. Without a version list to choose from, endpoints are the only
// concrete versions available.
func bestInRanges(ranges []VersionRange) *Version {
	var best *Version
	for _, r := range ranges {
		for _, v := range [2]*Version{r.Min, r.Max} {
			if v == nil || !inAll(v, ranges) {
				continue
			}
			if best == nil || CompareVersions(v, best) > 0 {
				best = v
			}
		}
	}
	return best
}

func inAll(v *Version, ranges []VersionRange) bool {
	for _, r := range ranges {
		if !r.Contains(v) {
			return false
		}
	}
	return true
}
