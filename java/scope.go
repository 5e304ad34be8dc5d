package java

import (
	"sort"

	"github.com/dhamidi/jig/java/lexer"
)

// TokenEndingAt returns the index of the last token whose span ends at or
// before offset, or -1 when no token does.
func (an *Analysis) TokenEndingAt(offset int) int {
	i := sort.Search(len(an.Tokens), func(i int) bool {
		return an.Tokens[i].Span.End.Offset > offset
	})
	return i - 1
}

// TokenContaining returns the index of the token whose span contains offset,
// or -1.
func (an *Analysis) TokenContaining(offset int) int {
	i := sort.Search(len(an.Tokens), func(i int) bool {
		return an.Tokens[i].Span.End.Offset > offset
	})
	if i < len(an.Tokens) && an.Tokens[i].Span.Contains(offset) {
		return i
	}
	return -1
}

// BraceStackAt computes the open-brace stack at offset, comparable against
// VarDecl.BraceStack snapshots.
func (an *Analysis) BraceStackAt(offset int) []int {
	var stack []int
	for _, tok := range an.Tokens {
		if tok.Span.Start.Offset >= offset {
			break
		}
		switch {
		case tok.Sym('{'):
			stack = append(stack, tok.Span.Start.Offset)
		case tok.Sym('}'):
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}
	return stack
}

// EnclosingClass returns the index of the innermost class whose body
// contains offset, or -1.
func (an *Analysis) EnclosingClass(offset int) int {
	best, bestLen := -1, -1
	for i := range an.Classes {
		body := an.Classes[i].BodySpan
		if body.Len() == 0 || !body.Contains(offset) {
			continue
		}
		if best == -1 || body.Len() < bestLen {
			best, bestLen = i, body.Len()
		}
	}
	return best
}

// EnclosingMethod returns the index of the innermost method whose body
// contains offset, or -1.
func (an *Analysis) EnclosingMethod(offset int) int {
	best, bestLen := -1, -1
	for i := range an.Methods {
		if !an.Methods[i].HasBody {
			continue
		}
		body := an.Methods[i].BodySpan
		if !body.Contains(offset) {
			continue
		}
		if best == -1 || body.Len() < bestLen {
			best, bestLen = i, body.Len()
		}
	}
	return best
}

// VarsInScope returns the variables visible at offset, outermost first. A
// variable declared more than once (shadowing) appears once, with the
// nearest declaration winning.
func (an *Analysis) VarsInScope(offset int) []*VarDecl {
	stack := an.BraceStackAt(offset)
	byName := make(map[string]int)
	var order []string
	for i := range an.Vars {
		v := &an.Vars[i]
		if !v.InScopeAt(offset, stack) {
			continue
		}
		if _, seen := byName[v.Name]; !seen {
			order = append(order, v.Name)
		}
		// Later declarations are nearer; the scan is in source order.
		byName[v.Name] = i
	}
	out := make([]*VarDecl, 0, len(order))
	for _, name := range order {
		out = append(out, &an.Vars[byName[name]])
	}
	return out
}

// LookupVar finds the nearest in-scope declaration of name at offset.
func (an *Analysis) LookupVar(name string, offset int) *VarDecl {
	stack := an.BraceStackAt(offset)
	var found *VarDecl
	for i := range an.Vars {
		v := &an.Vars[i]
		if v.Name != name || !v.InScopeAt(offset, stack) {
			continue
		}
		found = v
	}
	return found
}

// LookupParam finds a parameter of the method enclosing offset.
func (an *Analysis) LookupParam(name string, offset int) (*ParameterModel, *MethodDecl) {
	mi := an.EnclosingMethod(offset)
	if mi < 0 {
		return nil, nil
	}
	m := &an.Methods[mi]
	for i := range m.Params {
		if m.Params[i].Name == name {
			return &m.Params[i], m
		}
	}
	return nil, m
}

// FieldsOf returns the fields declared on the class at index ci.
func (an *Analysis) FieldsOf(ci int) []*FieldDecl {
	var out []*FieldDecl
	for i := range an.Fields {
		if an.Fields[i].Owner == ci {
			out = append(out, &an.Fields[i])
		}
	}
	return out
}

// MethodsOf returns the methods declared on the class at index ci.
func (an *Analysis) MethodsOf(ci int) []*MethodDecl {
	var out []*MethodDecl
	for i := range an.Methods {
		if an.Methods[i].Owner == ci {
			out = append(out, &an.Methods[i])
		}
	}
	return out
}

// CallContaining returns the innermost recorded call whose parentheses
// contain offset, for signature help. The second result is the zero-based
// index of the argument the offset falls in.
func (an *Analysis) CallContaining(offset int) (*CallExpr, int) {
	var best *CallExpr
	for i := range an.Calls {
		c := &an.Calls[i]
		if c.LParen >= offset {
			continue
		}
		if c.RParen >= 0 && c.RParen < offset {
			continue
		}
		if best == nil || c.LParen > best.LParen {
			best = c
		}
	}
	if best == nil {
		return nil, 0
	}
	arg := 0
	for i, start := range best.ArgStarts {
		if start <= offset {
			arg = i
		}
	}
	return best, arg
}

// IdentifierBefore returns the byte offset of the nearest occurrence of the
// identifier text strictly before offset, or -1. Ranking uses this as its
// recency signal.
func (an *Analysis) IdentifierBefore(text string, offset int) int {
	best := -1
	for _, tok := range an.Tokens {
		if tok.Span.End.Offset > offset {
			break
		}
		if tok.Kind == lexer.TokenIdent && tok.Literal == text {
			best = tok.Span.Start.Offset
		}
	}
	return best
}

// CallAt returns the recorded call whose opening parenthesis sits at the
// given byte offset, or nil.
func (an *Analysis) CallAt(lparen int) *CallExpr {
	for i := range an.Calls {
		if an.Calls[i].LParen == lparen {
			return &an.Calls[i]
		}
	}
	return nil
}

// TypeTextAt reads a type text written in expression position starting at
// token index i, such as "java.util.List<String>[]". It returns the text,
// the index of the first token after it, and whether a type was present.
func (an *Analysis) TypeTextAt(i int) (string, int, bool) {
	a := &analyzer{src: an.Source, tokens: an.Tokens, out: an}
	return a.parseTypeTextExpr(i)
}
