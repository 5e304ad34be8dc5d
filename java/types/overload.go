package types

// MatchOutcome classifies the result of overload resolution.
type MatchOutcome int

const (
	MatchNotFound MatchOutcome = iota
	MatchFound
	MatchAmbiguous
)

func (o MatchOutcome) String() string {
	switch o {
	case MatchFound:
		return "found"
	case MatchAmbiguous:
		return "ambiguous"
	}
	return "not-found"
}

// OverloadResult is the outcome of picking a method for a call site.
// Applicable holds every candidate that accepts the call's arity, in
// declaration order, which is what signature help lists.
type OverloadResult struct {
	Outcome    MatchOutcome
	Member     Member
	Applicable []Member
}

// ResolveOverload picks the best of the named overloads for the given
// argument types. Arity filters first, with a trailing varargs parameter
// accepting zero or more extra arguments. Remaining candidates are rated
// argument by argument: exact matches beat widening, widening beats
// boxing, and Unknown arguments accept anything. A tie is reported as
// ambiguous and resolved to the first candidate in declaration order, so
// completion stays deterministic.
func (s *Store) ResolveOverload(candidates []Member, args []Type) OverloadResult {
	var res OverloadResult
	best := -1
	bestCount := 0
	for _, m := range candidates {
		if m.Method == nil || !arityAccepts(m, len(args)) {
			continue
		}
		res.Applicable = append(res.Applicable, m)
		score, ok := s.callScore(m, args)
		if !ok {
			continue
		}
		switch {
		case best < 0 || score > best:
			best = score
			bestCount = 1
			res.Member = m
		case score == best:
			bestCount++
		}
	}
	switch {
	case best < 0:
		res.Outcome = MatchNotFound
		if len(res.Applicable) > 0 {
			// No candidate accepts the argument types, but the arity
			// matches; keep the first so chains can continue.
			res.Member = res.Applicable[0]
		}
	case bestCount > 1:
		res.Outcome = MatchAmbiguous
	default:
		res.Outcome = MatchFound
	}
	return res
}

// arityAccepts reports whether a method can be called with n arguments.
func arityAccepts(m Member, n int) bool {
	params := m.Method.Parameters
	if m.Method.IsVarargs() {
		return n >= len(params)-1
	}
	return n == len(params)
}

// callScore sums per-argument fit. Varargs arguments past the fixed
// parameters score against the element type, and an array passed in the
// varargs position binds the parameter directly.
func (s *Store) callScore(m Member, args []Type) (int, bool) {
	params := m.Params
	varargs := m.Method.IsVarargs()
	fixed := len(params)
	if varargs {
		fixed--
	}
	total := 0
	for i, arg := range args {
		var sc int
		switch {
		case i < fixed:
			sc = s.argScore(arg, paramAt(params, i))
		case varargs:
			elem := paramAt(params, fixed)
			sc = s.argScore(arg, elem)
			if i == fixed && len(args) == len(params) {
				if arr := s.argScore(arg, Array{Elem: elem}); arr > sc {
					sc = arr
				}
			}
		default:
			return 0, false
		}
		if sc < 0 {
			return 0, false
		}
		total += sc
	}
	return total, true
}

func paramAt(params []Type, i int) Type {
	if i < 0 || i >= len(params) {
		return Unknown{}
	}
	return params[i]
}

// ExpectedArgTypes returns the parameter type each applicable overload
// expects at the given argument position. Ranking uses these to float
// type-compatible candidates while an argument list is being typed.
func ExpectedArgTypes(applicable []Member, argIndex int) []Type {
	var out []Type
	for _, m := range applicable {
		if m.Method == nil {
			continue
		}
		params := m.Params
		idx := argIndex
		if m.Method.IsVarargs() && idx >= len(params)-1 {
			idx = len(params) - 1
		}
		if idx < 0 || idx >= len(params) {
			continue
		}
		t := params[idx]
		dup := false
		for _, seen := range out {
			if Same(seen, t) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, t)
		}
	}
	return out
}
