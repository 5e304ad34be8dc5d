package rank

import "sort"

// Kind tags what a completion candidate is. The tag both drives the
// kind weight during ranking and survives into the final result so
// clients can render an icon for it.
type Kind string

const (
	KindMethod       Kind = "method"
	KindConstructor  Kind = "constructor"
	KindEnumConstant Kind = "enum-constant"
	KindField        Kind = "field"
	KindVariable     Kind = "variable"
	KindClass        Kind = "class"
	KindPackage      Kind = "package"
	KindSnippet      Kind = "snippet"
	KindKeyword      Kind = "keyword"
)

// kindWeights orders candidate kinds when every other signal ties.
// Callables outrank data members, data members outrank names that only
// describe types, and keywords come last.
var kindWeights = map[Kind]int{
	KindMethod:       100,
	KindConstructor:  100,
	KindEnumConstant: 90,
	KindField:        80,
	KindVariable:     70,
	KindClass:        60,
	KindPackage:      60,
	KindSnippet:      50,
	KindKeyword:      10,
}

// Targeted kind-weight bumps for candidates that deserve to rise above
// their peers of the same kind.
const (
	BumpArrayLength   = 15 // the length pseudo-field on arrays
	BumpLambdaSnippet = 10 // lambda snippet offered for functional parameters
	BumpStaticImport  = 5  // members already reachable through a static import
)

// Edit is an auxiliary text edit applied alongside an accepted
// candidate, such as inserting a missing import.
type Edit struct {
	Start int
	End   int
	Text  string
}

// Candidate is one completion suggestion plus the signals that rank it.
// Producers fill the signal fields; Rank never mutates anything except
// the order.
type Candidate struct {
	Label      string
	Kind       Kind
	Detail     string
	// Documentation is the raw javadoc of the declaration behind the
	// candidate, when one was recorded. Rendering is the client's job.
	Documentation string
	InsertText    string // text to insert; Label when empty
	Edits         []Edit

	TypeCompatible bool // assignable to the expected type at the cursor
	InScope        bool // declared in the enclosing lexical scope
	LastSeen       int  // offset of the nearest earlier use, -1 for none
	NoImport       bool // usable without adding an import
	Workspace      bool // declared in the workspace, not a library
	Direct         bool // declared directly on the receiver type
	Bump           int  // targeted kind-weight adjustment
}

// signalCount is the length of the ranking tuple compared
// field by field, most significant first.
const signalCount = 8

type scored struct {
	cand    Candidate
	signals [signalCount]int
}

// Rank filters candidates against the typed prefix and returns the
// survivors best first. The order is a strict total order: the signal
// tuple decides, and exact ties fall back to shorter label, then
// lexicographic label, then kind tag, so equal inputs always produce
// equal output.
func Rank(prefix string, cands []Candidate) []Candidate {
	m := NewMatcher()
	keep := make([]scored, 0, len(cands))
	for _, c := range cands {
		fuzzy, ok := m.Score(prefix, c.Label)
		if !ok {
			continue
		}
		keep = append(keep, scored{cand: c, signals: [signalCount]int{
			fuzzy,
			boolSignal(c.TypeCompatible),
			boolSignal(c.InScope),
			c.LastSeen,
			boolSignal(c.NoImport),
			boolSignal(c.Workspace),
			kindWeights[c.Kind] + c.Bump,
			boolSignal(c.Direct),
		}})
	}
	sort.Slice(keep, func(i, j int) bool {
		a, b := &keep[i], &keep[j]
		for k := 0; k < signalCount; k++ {
			if a.signals[k] != b.signals[k] {
				return a.signals[k] > b.signals[k]
			}
		}
		if len(a.cand.Label) != len(b.cand.Label) {
			return len(a.cand.Label) < len(b.cand.Label)
		}
		if a.cand.Label != b.cand.Label {
			return a.cand.Label < b.cand.Label
		}
		return a.cand.Kind < b.cand.Kind
	})
	out := make([]Candidate, len(keep))
	for i, s := range keep {
		out[i] = s.cand
	}
	return out
}

func boolSignal(b bool) int {
	if b {
		return 1
	}
	return 0
}
