package types

import (
	"github.com/dhamidi/jig/java"
)

// SignatureInfo describes the call surrounding a cursor: the overloads
// under consideration in declaration order, the argument the cursor sits
// in, and the parameter types those overloads expect there.
type SignatureInfo struct {
	Name       string
	Candidates []Member
	ActiveArg  int
	Expected   []Type
}

// SignatureAt finds the innermost call or constructor invocation
// enclosing the byte offset and resolves its overload set. It returns
// nil when the offset is not inside an argument list or the callee
// cannot be resolved.
func (in *Inferrer) SignatureAt(offset int) *SignatureInfo {
	if in.an == nil {
		return nil
	}
	*in.budget = inferBudget

	if call, arg := in.an.CallContaining(offset); call != nil {
		cands := in.callCandidates(call)
		if len(cands) == 0 {
			return nil
		}
		return &SignatureInfo{
			Name:       call.Name,
			Candidates: cands,
			ActiveArg:  arg,
			Expected:   ExpectedArgTypes(cands, arg),
		}
	}
	return in.ctorSignatureAt(offset)
}

// ExpectedTypesAt returns the parameter types the enclosing call expects
// at the cursor's argument position. Ranking uses this to float
// candidates the surrounding call can actually accept.
func (in *Inferrer) ExpectedTypesAt(offset int) []Type {
	info := in.SignatureAt(offset)
	if info == nil {
		return nil
	}
	return info.Expected
}

// callCandidates resolves the overload set of a recorded call site.
func (in *Inferrer) callCandidates(call *java.CallExpr) []Member {
	if call.ReceiverEnd >= 0 {
		recv := in.exprEndingAtTok(in.an.TokenEndingAt(call.ReceiverEnd))
		if IsErrorish(recv.Type) {
			return nil
		}
		return in.store.MethodsNamed(recv.Type, call.Name, recv.Static)
	}
	if enc, ok := in.enclosingClassType(call.NameSpan.Start.Offset); ok {
		if cands := in.store.MethodsNamed(enc.Type, call.Name, false); len(cands) > 0 {
			return cands
		}
	}
	for _, owner := range in.staticImportOwners(call.Name) {
		if cands := in.store.MethodsNamed(owner, call.Name, true); len(cands) > 0 {
			return cands
		}
	}
	return nil
}

const ctorScanLimit = 256

// ctorSignatureAt recognizes a cursor inside `new Foo(...)`, which the
// call scanner deliberately leaves out of recorded calls.
func (in *Inferrer) ctorSignatureAt(offset int) *SignatureInfo {
	cursor := in.an.TokenEndingAt(offset)
	depth := 0
	for k, steps := cursor, 0; k >= 0 && steps < ctorScanLimit; k, steps = k-1, steps+1 {
		switch {
		case in.sym(k, ')'):
			depth++
		case in.sym(k, '('):
			if depth > 0 {
				depth--
				continue
			}
			nk := in.newBefore(k)
			if nk < 0 {
				continue
			}
			text, _, ok := in.an.TypeTextAt(nk + 1)
			if !ok {
				return nil
			}
			t := in.store.ResolveText(text, in.ctxAt(in.tok(nk).Span.Start.Offset))
			cls, isClass := t.(Class)
			if !isClass {
				return nil
			}
			cands := in.store.ConstructorsOf(cls.Id)
			if len(cands) == 0 {
				return nil
			}
			arg := in.activeArgIndex(k, cursor)
			return &SignatureInfo{
				Name:       cls.Id.Simple(),
				Candidates: cands,
				ActiveArg:  arg,
				Expected:   ExpectedArgTypes(cands, arg),
			}
		case depth == 0 && (in.sym(k, ';') || in.sym(k, '{') || in.sym(k, '}')):
			return nil
		}
	}
	return nil
}

// activeArgIndex counts the top-level commas between an opening paren
// and the cursor token.
func (in *Inferrer) activeArgIndex(open, cursor int) int {
	arg, depth := 0, 0
	for t := open + 1; t <= cursor; t++ {
		switch {
		case in.sym(t, '(') || in.sym(t, '[') || in.sym(t, '{'):
			depth++
		case in.sym(t, ')') || in.sym(t, ']') || in.sym(t, '}'):
			depth--
		case in.sym(t, ',') && depth == 0:
			arg++
		}
	}
	return arg
}
