// Package rank orders completion candidates: a fuzzy matcher filters
// against the typed prefix, and a fixed signal tuple decides the final
// order deterministically.
package rank

const (
	// A case-insensitive prefix match always beats any subsequence
	// match; among prefix matches, shorter candidates come first.
	prefixBase = 1_000_000

	baseMatch        = 10
	bonusWordStart   = 15
	bonusConsecutive = 5
	bonusCaseMatch   = 2
	gapPenalty       = 1
)

// noMatch is low enough that no bonus chain can climb back over zero,
// and high enough not to overflow when penalties are subtracted.
const noMatch = -1 << 30

// Matcher scores query text against candidate labels. The zero value is
// ready to use; reusing one Matcher across candidates reuses its
// scratch rows instead of allocating per call.
type Matcher struct {
	prev []int
	cur  []int
}

// NewMatcher returns a matcher with room for typical label lengths.
func NewMatcher() *Matcher {
	return &Matcher{}
}

// Score rates how well query matches candidate. The second result
// reports whether the candidate matches at all; a candidate that does
// not match must be discarded regardless of score.
//
// An empty query matches everything at score zero. A case-insensitive
// prefix match scores far above any subsequence match. Subsequence
// matches are scored per matched character with bonuses for word
// starts, consecutive runs and exact case, minus one per skipped
// character.
func (m *Matcher) Score(query, candidate string) (int, bool) {
	if query == "" {
		return 0, true
	}
	if len(query) > len(candidate) {
		return 0, false
	}
	if hasFoldPrefix(candidate, query) {
		return prefixBase - len(candidate), true
	}
	return m.subsequence(query, candidate)
}

// subsequence runs the scoring DP. prev[j] is the best score with the
// previous query character matched exactly at candidate position j.
func (m *Matcher) subsequence(query, candidate string) (int, bool) {
	n := len(candidate)
	if cap(m.prev) < n {
		m.prev = make([]int, n)
		m.cur = make([]int, n)
	}
	prev := m.prev[:n]
	cur := m.cur[:n]

	for qi := 0; qi < len(query); qi++ {
		q := query[qi]
		// carry is the best previous-row score usable at position j,
		// decayed one per candidate character skipped since it.
		carry := noMatch
		for j := 0; j < n; j++ {
			if qi > 0 && j > 0 {
				carry -= gapPenalty
				if prev[j-1] > carry {
					carry = prev[j-1]
				}
			}
			c := candidate[j]
			score := noMatch
			if foldEq(q, c) {
				if qi == 0 {
					score = baseMatch - j*gapPenalty
				} else {
					if carry > noMatch/2 {
						score = carry + baseMatch
					}
					if j > 0 && prev[j-1] > noMatch/2 {
						if run := prev[j-1] + baseMatch + bonusConsecutive; run > score {
							score = run
						}
					}
				}
				if score > noMatch/2 {
					if wordStart(candidate, j) {
						score += bonusWordStart
					}
					if q == c {
						score += bonusCaseMatch
					}
				}
			}
			cur[j] = score
		}
		prev, cur = cur, prev
	}

	best := noMatch
	for j := 0; j < n; j++ {
		if prev[j] == noMatch {
			continue
		}
		if s := prev[j] - (n-1-j)*gapPenalty; s > best {
			best = s
		}
	}
	m.prev, m.cur = prev, cur
	if best <= noMatch/2 {
		return 0, false
	}
	return best, true
}

func foldEq(a, b byte) bool {
	return toLower(a) == toLower(b)
}

func toLower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

func hasFoldPrefix(s, prefix string) bool {
	if len(s) < len(prefix) {
		return false
	}
	for i := 0; i < len(prefix); i++ {
		if !foldEq(s[i], prefix[i]) {
			return false
		}
	}
	return true
}

// wordStart reports whether position j begins a word: the label start,
// a position after a separator, a case boundary, or a letter/digit
// boundary.
func wordStart(s string, j int) bool {
	if j == 0 {
		return true
	}
	prev, c := s[j-1], s[j]
	switch prev {
	case '_', '-', ' ', '/', '\\', '.', ':', '<', '>', '(', ')', '[', ']':
		return true
	}
	if isLower(prev) && isUpper(c) {
		return true
	}
	if isLetter(prev) != isLetter(c) && (isDigit(prev) || isDigit(c)) {
		return true
	}
	return false
}

func isLower(c byte) bool  { return c >= 'a' && c <= 'z' }
func isUpper(c byte) bool  { return c >= 'A' && c <= 'Z' }
func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return isLower(c) || isUpper(c) }
