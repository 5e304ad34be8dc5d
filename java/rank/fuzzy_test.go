package rank

import "testing"

func TestScorePrefix(t *testing.T) {
	tests := []struct {
		query     string
		candidate string
		want      int
	}{
		{"pr", "print", prefixBase - 5},
		{"pr", "println", prefixBase - 7},
		{"pr", "private", prefixBase - 7},
		{"STR", "string", prefixBase - 6},
		{"toS", "toString", prefixBase - 8},
		{"equals", "equals", prefixBase - 6},
	}
	m := NewMatcher()
	for _, tt := range tests {
		got, ok := m.Score(tt.query, tt.candidate)
		if !ok {
			t.Errorf("Score(%q, %q) did not match", tt.query, tt.candidate)
			continue
		}
		if got != tt.want {
			t.Errorf("Score(%q, %q) = %d, want %d", tt.query, tt.candidate, got, tt.want)
		}
	}
}

func TestScoreEmptyQueryMatchesEverything(t *testing.T) {
	m := NewMatcher()
	for _, candidate := range []string{"", "x", "toString", "List<String>"} {
		got, ok := m.Score("", candidate)
		if !ok || got != 0 {
			t.Errorf("Score(%q, %q) = %d, %v, want 0, true", "", candidate, got, ok)
		}
	}
}

func TestScoreRejectsNonSubsequences(t *testing.T) {
	tests := []struct {
		query     string
		candidate string
	}{
		{"xyz", "print"},
		{"printx", "print"},
		{"ba", "ab"},
		{"aa", "a"},
		{"length", ""},
	}
	m := NewMatcher()
	for _, tt := range tests {
		if got, ok := m.Score(tt.query, tt.candidate); ok {
			t.Errorf("Score(%q, %q) = %d, matched; want no match", tt.query, tt.candidate, got)
		}
	}
}

func TestScoreSubsequenceOrdering(t *testing.T) {
	// Relative order matters more than exact totals: the better-aligned
	// candidate on the left must strictly outscore the right.
	tests := []struct {
		name   string
		query  string
		better string
		worse  string
	}{
		{"word starts beat scattered hits", "fb", "fooBar", "fabab"},
		{"adjacent hits beat gapped hits", "ab", "xxab", "xaxb"},
		{"prefix beats subsequence", "get", "getClass", "digest"},
		{"shorter tail wins", "stl", "settle", "settlement"},
		{"underscore starts a word", "mv", "MAX_VALUE", "remove"},
	}
	m := NewMatcher()
	for _, tt := range tests {
		better, ok := m.Score(tt.query, tt.better)
		if !ok {
			t.Errorf("%s: Score(%q, %q) did not match", tt.name, tt.query, tt.better)
			continue
		}
		worse, ok := m.Score(tt.query, tt.worse)
		if !ok {
			t.Errorf("%s: Score(%q, %q) did not match", tt.name, tt.query, tt.worse)
			continue
		}
		if better <= worse {
			t.Errorf("%s: Score(%q, %q) = %d, not above Score(%q, %q) = %d",
				tt.name, tt.query, tt.better, better, tt.query, tt.worse, worse)
		}
	}
}

func TestScoreCaseMatchBonus(t *testing.T) {
	// Same candidate, same alignment, no word starts involved; only the
	// exact-case bonus separates the two queries.
	m := NewMatcher()
	exact, ok := m.Score("sb", "xsb")
	if !ok {
		t.Fatalf("Score(%q, %q) did not match", "sb", "xsb")
	}
	folded, ok := m.Score("SB", "xsb")
	if !ok {
		t.Fatalf("Score(%q, %q) did not match", "SB", "xsb")
	}
	if exact <= folded {
		t.Errorf("Score(%q, %q) = %d, not above Score(%q, %q) = %d",
			"sb", "xsb", exact, "SB", "xsb", folded)
	}
}

func TestScoreSubsequenceValue(t *testing.T) {
	// One fully traced case keeps the scoring constants honest:
	// f at 0 is a word start with exact case (10+15+2), B at 3 is a
	// case-boundary word start reached over a two-character gap
	// (10+15-2), and the trailing "ar" costs two more.
	m := NewMatcher()
	got, ok := m.Score("fb", "fooBar")
	if !ok {
		t.Fatalf("Score(%q, %q) did not match", "fb", "fooBar")
	}
	if want := 48; got != want {
		t.Errorf("Score(%q, %q) = %d, want %d", "fb", "fooBar", got, want)
	}
}

func TestWordStart(t *testing.T) {
	tests := []struct {
		s    string
		j    int
		want bool
	}{
		{"foo", 0, true},
		{"foo", 1, false},
		{"fooBar", 3, true},
		{"fooBar", 4, false},
		{"FOO", 1, false},
		{"max_value", 4, true},
		{"a.b", 2, true},
		{"utf8", 3, true},
		{"v2x", 2, true},
		{"List<String>", 5, true},
		{"args[0]", 5, true},
	}
	for _, tt := range tests {
		if got := wordStart(tt.s, tt.j); got != tt.want {
			t.Errorf("wordStart(%q, %d) = %v, want %v", tt.s, tt.j, got, tt.want)
		}
	}
}

func TestMatcherReuseIsStable(t *testing.T) {
	// Scratch rows persist across calls; earlier candidates must not
	// leak into later scores.
	m := NewMatcher()
	first, ok := m.Score("ab", "axxbxxab")
	if !ok {
		t.Fatalf("Score(%q, %q) did not match", "ab", "axxbxxab")
	}
	if _, ok := m.Score("zz", "axxbxxab"); ok {
		t.Fatalf("Score(%q, %q) matched, want no match", "zz", "axxbxxab")
	}
	if _, ok := m.Score("ab", "xx"); ok {
		t.Fatalf("Score(%q, %q) matched, want no match", "ab", "xx")
	}
	again, ok := m.Score("ab", "axxbxxab")
	if !ok {
		t.Fatalf("repeat Score(%q, %q) did not match", "ab", "axxbxxab")
	}
	if again != first {
		t.Errorf("repeat Score = %d, first Score = %d", again, first)
	}
}
