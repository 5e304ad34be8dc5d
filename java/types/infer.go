package types

import (
	"strings"

	"github.com/dhamidi/jig/java"
	"github.com/dhamidi/jig/java/lexer"
)

// inferBudget bounds the recursive work a single inference may spend:
// every nested call return, initializer, and argument inference costs
// one unit. Deeply chained or self-referential code degrades to Unknown
// instead of looping.
const inferBudget = 8

// Result is an inferred receiver: the type, plus whether the receiver is
// the type itself rather than a value of it. A static receiver narrows
// member lookup to static members and nested classes.
type Result struct {
	Type   Type
	Static bool
}

func unknownResult() Result { return Result{Type: Unknown{}} }

// Inferrer determines the static types of expressions in one analyzed
// file. It never fails: expressions it cannot type come back as Unknown,
// and malformed input is stepped over token by token.
type Inferrer struct {
	store  *Store
	file   *java.SourceFile
	an     *java.Analysis
	base   ResolveCtx
	budget *int

	// Initializer fragments are analyzed in isolation but keep a way
	// back to the declaring scope for names the fragment cannot see.
	outer   *Inferrer
	outerAt int
}

// NewInferrer builds an inferrer for a parsed file backed by the store.
func NewInferrer(store *Store, file *java.SourceFile) *Inferrer {
	budget := 0
	in := &Inferrer{store: store, file: file, base: ContextOf(file), budget: &budget}
	if file != nil {
		in.an = file.Analysis
	}
	return in
}

// TypeAt infers the type of the expression ending at the given byte
// offset, typically the position of the '.' the user just typed.
func (in *Inferrer) TypeAt(offset int) Result {
	if in.an == nil {
		return unknownResult()
	}
	*in.budget = inferBudget
	return in.exprEndingAtTok(in.an.TokenEndingAt(offset))
}

// VarType resolves the declared or inferred type of a local variable.
func (in *Inferrer) VarType(v *java.VarDecl) Type {
	if in.an == nil || v == nil {
		return Unknown{}
	}
	*in.budget = inferBudget
	return in.varType(v)
}

func (in *Inferrer) spend() bool {
	if *in.budget <= 0 {
		return false
	}
	*in.budget--
	return true
}

func (in *Inferrer) exprEndingAtTok(i int) Result {
	if in.an == nil || i < 0 || i >= len(in.an.Tokens) {
		return unknownResult()
	}
	if !in.spend() {
		return unknownResult()
	}
	return in.walkChain(in.chainStart(i), i)
}

// Token helpers; all of them tolerate out-of-range indexes.

func (in *Inferrer) tok(i int) lexer.Token {
	if i < 0 || i >= len(in.an.Tokens) {
		return lexer.Token{Kind: lexer.TokenEOF}
	}
	return in.an.Tokens[i]
}

func (in *Inferrer) sym(i int, ch byte) bool   { return in.tok(i).Sym(ch) }
func (in *Inferrer) word(i int, s string) bool { return in.tok(i).Is(s) }
func (in *Inferrer) identAt(i int) bool        { return in.tok(i).Kind == lexer.TokenIdent }
func (in *Inferrer) text(i int) string         { return in.tok(i).Literal }

func (in *Inferrer) closeFwd(open int) int {
	var opc, clc byte
	switch {
	case in.sym(open, '('):
		opc, clc = '(', ')'
	case in.sym(open, '['):
		opc, clc = '[', ']'
	case in.sym(open, '{'):
		opc, clc = '{', '}'
	default:
		return -1
	}
	depth := 0
	for k := open; k < len(in.an.Tokens); k++ {
		switch {
		case in.sym(k, opc):
			depth++
		case in.sym(k, clc):
			depth--
			if depth == 0 {
				return k
			}
		}
	}
	return -1
}

func (in *Inferrer) openBack(close int) int {
	var opc, clc byte
	switch {
	case in.sym(close, ')'):
		opc, clc = '(', ')'
	case in.sym(close, ']'):
		opc, clc = '[', ']'
	default:
		return -1
	}
	depth := 0
	for k := close; k >= 0; k-- {
		switch {
		case in.sym(k, clc):
			depth++
		case in.sym(k, opc):
			depth--
			if depth == 0 {
				return k
			}
		}
	}
	return -1
}

func (in *Inferrer) angleOpenBack(close int) int {
	depth := 0
	for k := close; k >= 0 && close-k < 100; k-- {
		switch {
		case in.sym(k, '>'):
			depth++
		case in.sym(k, '<'):
			depth--
			if depth == 0 {
				return k
			}
		}
	}
	return -1
}

func (in *Inferrer) angleCloseFwd(open int) int {
	depth := 0
	for k := open; k < len(in.an.Tokens) && k-open < 100; k++ {
		switch {
		case in.sym(k, '<'):
			depth++
		case in.sym(k, '>'):
			depth--
			if depth == 0 {
				return k
			}
		}
	}
	return -1
}

const chainScanLimit = 64

// chainStart walks backward from the last token of an expression to the
// first token of its postfix chain: the literal, name, parenthesized
// group, or new-expression everything else hangs off.
func (in *Inferrer) chainStart(i int) int {
	j := i
	for steps := 0; steps < chainScanLimit && j >= 0; steps++ {
		switch {
		case in.sym(j, ')'):
			o := in.openBack(j)
			if o < 0 {
				return j
			}
			before := o - 1
			if in.identAt(before) && !java.IsStatementWord(in.text(before)) {
				j = before
				continue
			}
			if k := in.newBefore(o); k >= 0 {
				j = k
				continue
			}
			return in.castsBefore(o)

		case in.sym(j, ']'):
			o := in.openBack(j)
			if o < 0 {
				return j
			}
			j = o - 1

		case in.identAt(j) || in.tok(j).Kind == lexer.TokenString ||
			in.tok(j).Kind == lexer.TokenChar || in.tok(j).Kind == lexer.TokenNumber:
			if in.sym(j-1, '.') {
				j -= 2
				continue
			}
			if in.word(j-1, "new") {
				j--
			}
			return in.castsBefore(j)

		case in.sym(j, '>'):
			// Explicit type arguments of a generic invocation.
			o := in.angleOpenBack(j)
			if o < 0 {
				return j
			}
			j = o - 1

		default:
			return j
		}
	}
	return j
}

// newBefore reports the index of the "new" keyword when the tokens just
// before open spell `new Type` or `new Type<...>`, and -1 otherwise.
func (in *Inferrer) newBefore(open int) int {
	k := open - 1
	if in.sym(k, '>') {
		k = in.angleOpenBack(k)
		if k < 0 {
			return -1
		}
		k--
	}
	if !in.identAt(k) {
		return -1
	}
	k--
	for in.sym(k, '.') && in.identAt(k-1) {
		k -= 2
	}
	if in.word(k, "new") {
		return k
	}
	return -1
}

// castsBefore extends the chain start leftward over any cast prefixes:
// for `(List<String>) (Object) x` the chain starts at the first '('.
func (in *Inferrer) castsBefore(k int) int {
	for in.sym(k-1, ')') {
		o := in.openBack(k - 1)
		if o < 0 || !in.isTypeGroup(o, k-1) {
			return k
		}
		k = o
	}
	return k
}

// isTypeGroup reports whether the tokens strictly inside a paren pair
// form exactly one type text, which is what distinguishes a cast from a
// parenthesized expression.
func (in *Inferrer) isTypeGroup(open, close int) bool {
	if close <= open+1 {
		return false
	}
	_, next, ok := in.an.TypeTextAt(open + 1)
	return ok && next == close
}

// walkChain types the postfix chain from token s through token end.
func (in *Inferrer) walkChain(s, end int) Result {
	cur, j := in.baseUnit(s, end)
	for j <= end {
		switch {
		case in.sym(j, '.'):
			cur, j = in.memberSegment(cur, j+1, end)
		case in.sym(j, '['):
			m := in.closeFwd(j)
			if m < 0 || m > end {
				return unknownResult()
			}
			// Empty brackets on a type receiver build an array type,
			// as in String[].class; indexing always has an index.
			if cur.Static && m == j+1 {
				cur = Result{Type: Array{Elem: cur.Type}, Static: true}
			} else {
				cur = Result{Type: elemOf(cur.Type)}
			}
			j = m + 1
		default:
			return unknownResult()
		}
	}
	return cur
}

func elemOf(t Type) Type {
	if arr, ok := t.(Array); ok {
		return arr.Elem
	}
	return Unknown{}
}

// baseUnit types the first unit of a chain and returns the index after it.
func (in *Inferrer) baseUnit(s, end int) (Result, int) {
	tok := in.tok(s)
	switch {
	case tok.Kind == lexer.TokenString:
		return Result{Type: Class{Id: "java.lang.String"}}, s + 1
	case tok.Kind == lexer.TokenChar:
		return Result{Type: Primitive{Kind: Char}}, s + 1
	case tok.Kind == lexer.TokenNumber:
		return Result{Type: Primitive{Kind: Int}}, s + 1
	case tok.Is("true") || tok.Is("false"):
		return Result{Type: Primitive{Kind: Boolean}}, s + 1
	case tok.Is("null"):
		return Result{Type: Null{}}, s + 1
	case tok.Is("this"):
		if enc, ok := in.enclosingClassType(tok.Span.Start.Offset); ok {
			return enc, s + 1
		}
		return unknownResult(), s + 1
	case tok.Is("super"):
		return Result{Type: in.enclosingSuper(tok.Span.Start.Offset)}, s + 1
	case tok.Is("new"):
		return in.newExpr(s, end)
	case tok.Sym('('):
		return in.parenUnit(s, end)
	case tok.Kind == lexer.TokenIdent && !java.IsStatementWord(tok.Literal):
		if in.sym(s+1, '(') {
			return in.bareCall(s, end)
		}
		return in.bareIdent(s), s + 1
	}
	return unknownResult(), end + 1
}

// parenUnit handles '(': either a cast, whose type covers the whole rest
// of the chain, or a parenthesized subexpression.
func (in *Inferrer) parenUnit(s, end int) (Result, int) {
	m := in.closeFwd(s)
	if m < 0 || m > end {
		return unknownResult(), end + 1
	}
	if m < end && in.isTypeGroup(s, m) {
		text, _, _ := in.an.TypeTextAt(s + 1)
		t := in.store.ResolveText(text, in.ctxAt(in.tok(s).Span.Start.Offset))
		return Result{Type: t}, end + 1
	}
	inner := in.exprEndingAtTok(m - 1)
	return inner, m + 1
}

// newExpr types `new Foo(...)`, `new Foo(...) {...}`, `new int[3]` and
// `new int[]{...}` starting at the "new" keyword.
func (in *Inferrer) newExpr(s, end int) (Result, int) {
	text, next, ok := in.an.TypeTextAt(s + 1)
	if !ok {
		return unknownResult(), end + 1
	}
	t := in.store.ResolveText(text, in.ctxAt(in.tok(s).Span.Start.Offset))

	if in.sym(next, '(') {
		m := in.closeFwd(next)
		if m < 0 || m > end {
			return Result{Type: t}, end + 1
		}
		j := m + 1
		// An anonymous class body still yields the named type.
		if in.sym(j, '{') {
			if b := in.closeFwd(j); b >= 0 {
				j = b + 1
			} else {
				j = end + 1
			}
		}
		return Result{Type: t}, j
	}

	dims := 0
	for in.sym(next, '[') {
		m := in.closeFwd(next)
		if m < 0 || m > end {
			break
		}
		dims++
		next = m + 1
	}
	for ; dims > 0; dims-- {
		t = Array{Elem: t}
	}
	if in.sym(next, '{') {
		if b := in.closeFwd(next); b >= 0 && b <= end {
			next = b + 1
		} else {
			next = end + 1
		}
	}
	return Result{Type: t}, next
}

// memberSegment types one `.name`, `.name(...)`, `.this`, `.class` or
// `.<T>name(...)` step of a chain. j is the token after the dot.
func (in *Inferrer) memberSegment(cur Result, j, end int) (Result, int) {
	if in.sym(j, '<') {
		c := in.angleCloseFwd(j)
		if c < 0 || c >= end {
			return unknownResult(), end + 1
		}
		j = c + 1
	}
	if !in.identAt(j) {
		return unknownResult(), end + 1
	}
	name := in.text(j)

	switch name {
	case "this":
		// Qualified this: Outer.this is a value of Outer.
		if cur.Static {
			return Result{Type: cur.Type}, j + 1
		}
		return unknownResult(), j + 1
	case "super":
		// Outer.super is a value of Outer's superclass.
		if cur.Static {
			if cls, ok := cur.Type.(Class); ok {
				return Result{Type: in.store.SuperclassOf(cls)}, j + 1
			}
		}
		return unknownResult(), j + 1
	case "class":
		return Result{Type: Class{Id: "java.lang.Class", Args: []Type{cur.Type}}}, j + 1
	case "new":
		return unknownResult(), end + 1
	}

	if in.sym(j+1, '(') {
		m := in.closeFwd(j + 1)
		ret := in.callReturn(cur, name, j+1, m)
		if m < 0 || m > end {
			return Result{Type: ret}, end + 1
		}
		return Result{Type: ret}, m + 1
	}
	return in.memberAccess(cur, name), j + 1
}

// memberAccess types a plain `.name` field or nested-class access.
func (in *Inferrer) memberAccess(cur Result, name string) Result {
	if IsErrorish(cur.Type) {
		return unknownResult()
	}
	if m, ok := in.store.FieldNamed(cur.Type, name, cur.Static); ok {
		return Result{Type: m.Type}
	}
	if cur.Static {
		if cls, ok := cur.Type.(Class); ok {
			id := ClassId(string(cls.Id) + "$" + name)
			if in.store.Has(id) {
				return Result{Type: Class{Id: id}, Static: true}
			}
			return Result{Type: VirtualInner{Owner: cls.Id, Name: name}, Static: true}
		}
	}
	return unknownResult()
}

// Chains whose receiver has no usable definition still continue through
// a few well-known method names, so stream-style pipelines complete on
// any source.
var fallbackReturns = map[string]Type{
	"stream":   Class{Id: "java.util.stream.Stream"},
	"toString": Class{Id: "java.lang.String"},
	"iterator": Class{Id: "java.util.Iterator"},
	"get":      Unknown{},
}

// callReturn types a `.name(args)` step on a receiver.
func (in *Inferrer) callReturn(cur Result, name string, lparen, close int) Type {
	if !IsErrorish(cur.Type) {
		cands := in.store.MethodsNamed(cur.Type, name, cur.Static)
		if len(cands) > 0 {
			res := in.store.ResolveOverload(cands, in.argTypes(lparen, close))
			if res.Member.Method != nil {
				return res.Member.Type
			}
		}
	}
	if t, ok := fallbackReturns[name]; ok {
		return t
	}
	return Unknown{}
}

// argTypes infers the type of each argument of a call. The recorded call
// site supplies the argument boundaries; when it is missing or the
// budget runs out, arguments degrade to Unknown.
func (in *Inferrer) argTypes(lparen, close int) []Type {
	call := in.an.CallAt(in.tok(lparen).Span.Start.Offset)
	if call == nil {
		return in.countedUnknowns(lparen, close)
	}
	args := make([]Type, len(call.ArgStarts))
	for k := range args {
		args[k] = Unknown{}
		endTok := -1
		if k+1 < len(call.ArgStarts) {
			comma := in.an.TokenEndingAt(call.ArgStarts[k+1])
			endTok = comma - 1
		} else if call.RParen >= 0 {
			endTok = in.an.TokenEndingAt(call.RParen)
		}
		if endTok >= 0 {
			args[k] = in.exprEndingAtTok(endTok).Type
		}
	}
	return args
}

// countedUnknowns approximates an argument list as Unknowns by counting
// top-level commas.
func (in *Inferrer) countedUnknowns(lparen, close int) []Type {
	if close < 0 {
		close = len(in.an.Tokens)
	}
	if close <= lparen+1 {
		return nil
	}
	n := 1
	depth := 0
	for k := lparen + 1; k < close; k++ {
		switch {
		case in.sym(k, '(') || in.sym(k, '[') || in.sym(k, '{'):
			depth++
		case in.sym(k, ')') || in.sym(k, ']') || in.sym(k, '}'):
			depth--
		case in.sym(k, ',') && depth == 0:
			n++
		}
	}
	args := make([]Type, n)
	for i := range args {
		args[i] = Unknown{}
	}
	return args
}

// bareCall types a call with no explicit receiver: a method of the
// enclosing class or one pulled in by a static import.
func (in *Inferrer) bareCall(s, end int) (Result, int) {
	name := in.text(s)
	m := in.closeFwd(s + 1)
	next := end + 1
	if m >= 0 && m <= end {
		next = m + 1
	}

	if enc, ok := in.enclosingClassType(in.tok(s).Span.Start.Offset); ok {
		cands := in.store.MethodsNamed(enc.Type, name, false)
		if len(cands) > 0 {
			res := in.store.ResolveOverload(cands, in.argTypes(s+1, m))
			if res.Member.Method != nil {
				return Result{Type: res.Member.Type}, next
			}
		}
	}
	if t, ok := in.staticImportCall(name, s, m); ok {
		return Result{Type: t}, next
	}
	return unknownResult(), next
}

// staticImportOwners lists the classes a bare name may come from under
// the file's static imports.
func (in *Inferrer) staticImportOwners(name string) []Class {
	var owners []Class
	for _, imp := range in.base.Statics {
		switch {
		case imp.Star:
			owners = append(owners, Class{Id: in.store.bindQualified(imp.Path)})
		case lastSegment(imp.Path) == name:
			owner := imp.Path[:len(imp.Path)-len(name)-1]
			owners = append(owners, Class{Id: in.store.bindQualified(owner)})
		}
	}
	return owners
}

// staticImportCall resolves a bare call through the file's static
// imports.
func (in *Inferrer) staticImportCall(name string, s, m int) (Type, bool) {
	for _, owner := range in.staticImportOwners(name) {
		cands := in.store.MethodsNamed(owner, name, true)
		if len(cands) == 0 {
			continue
		}
		res := in.store.ResolveOverload(cands, in.argTypes(s+1, m))
		if res.Member.Method != nil {
			return res.Member.Type, true
		}
	}
	return nil, false
}

func lastSegment(path string) string {
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		return path[i+1:]
	}
	return path
}

// bareIdent types a name with no receiver. Lookup follows Java
// shadowing: local variables, then parameters, then fields of the
// enclosing class and its supertypes, then statically imported
// constants, and finally type names.
func (in *Inferrer) bareIdent(s int) Result {
	name := in.text(s)
	off := in.tok(s).Span.End.Offset

	if v := in.an.LookupVar(name, off); v != nil {
		return Result{Type: in.varType(v)}
	}
	if p, _ := in.an.LookupParam(name, off); p != nil {
		return Result{Type: in.store.ResolveText(p.Type, in.ctxAt(off))}
	}
	if enc, ok := in.enclosingClassType(off); ok {
		if m, found := in.store.FieldNamed(enc.Type, name, false); found {
			return Result{Type: m.Type}
		}
	}
	if t, ok := in.staticImportField(name); ok {
		return Result{Type: t}
	}
	switch t := in.store.Resolve(name, in.ctxAt(off)).(type) {
	case Class:
		return Result{Type: t, Static: true}
	case TypeVar:
		return Result{Type: t, Static: true}
	case Primitive:
		// Only a type position can use a bare primitive name, as in
		// int[].class.
		return Result{Type: t, Static: true}
	}
	if in.outer != nil {
		return in.outer.bareIdentAt(name, in.outerAt)
	}
	return unknownResult()
}

// bareIdentAt is bareIdent for a caller that knows the name text and the
// offset but has no token index, which is how initializer fragments ask
// their declaring scope.
func (in *Inferrer) bareIdentAt(name string, off int) Result {
	if v := in.an.LookupVar(name, off); v != nil {
		return Result{Type: in.varType(v)}
	}
	if p, _ := in.an.LookupParam(name, off); p != nil {
		return Result{Type: in.store.ResolveText(p.Type, in.ctxAt(off))}
	}
	if enc, ok := in.enclosingClassType(off); ok {
		if m, found := in.store.FieldNamed(enc.Type, name, false); found {
			return Result{Type: m.Type}
		}
	}
	if t, ok := in.staticImportField(name); ok {
		return Result{Type: t}
	}
	switch t := in.store.Resolve(name, in.ctxAt(off)).(type) {
	case Class:
		return Result{Type: t, Static: true}
	case TypeVar:
		return Result{Type: t, Static: true}
	case Primitive:
		return Result{Type: t, Static: true}
	}
	return unknownResult()
}

func (in *Inferrer) staticImportField(name string) (Type, bool) {
	for _, owner := range in.staticImportOwners(name) {
		if m, ok := in.store.FieldNamed(owner, name, true); ok {
			return m.Type, true
		}
	}
	return nil, false
}

// varType resolves a variable's type, inferring through `var` and
// for-each element types.
func (in *Inferrer) varType(v *java.VarDecl) Type {
	declared := strings.TrimSpace(v.Type)
	if v.Kind == java.VarForEach {
		if declared != "" && declared != "var" {
			return in.store.ResolveText(declared, in.ctxAt(v.NameSpan.Start.Offset))
		}
		return in.elementOf(in.fragmentType(v.Initializer, v.NameSpan.Start.Offset))
	}
	if declared != "" && declared != "var" {
		return in.store.ResolveText(declared, in.ctxAt(v.NameSpan.Start.Offset))
	}
	return in.fragmentType(v.Initializer, v.NameSpan.Start.Offset)
}

// elementOf finds the element type an enhanced for loop iterates over.
func (in *Inferrer) elementOf(t Type) Type {
	switch t := t.(type) {
	case Array:
		if t.Elem == nil {
			return Unknown{}
		}
		return t.Elem
	case Class:
		if it, ok := in.store.AsSupertype(t, "java.lang.Iterable"); ok && len(it.Args) == 1 {
			return it.Args[0]
		}
	}
	return Unknown{}
}

// fragmentType analyzes an expression fragment, such as an initializer
// text, and infers the type of its final expression. The fragment shares
// the declaring file's budget and falls back to the declaring scope for
// names it cannot see.
func (in *Inferrer) fragmentType(src string, at int) Type {
	src = strings.TrimSpace(src)
	if src == "" || !in.spend() {
		return Unknown{}
	}
	path := ""
	if in.file != nil {
		path = in.file.Path
	}
	fr := java.Analyze([]byte(src), path)
	sub := &Inferrer{
		store:   in.store,
		an:      fr,
		base:    in.ctxAt(at),
		budget:  in.budget,
		outer:   in,
		outerAt: at,
	}
	return sub.exprEndingAtTok(len(fr.Tokens) - 1).Type
}

// ctxAt is the file context extended with the type parameters of the
// class and method enclosing the offset.
func (in *Inferrer) ctxAt(off int) ResolveCtx {
	ctx := in.base
	var vars []string
	if ci := in.an.EnclosingClass(off); ci >= 0 {
		for k := ci; k >= 0 && k < len(in.an.Classes); k = in.an.Classes[k].Parent {
			vars = append(vars, in.an.Classes[k].TypeParams...)
		}
	}
	if mi := in.an.EnclosingMethod(off); mi >= 0 {
		vars = append(vars, in.an.Methods[mi].TypeParams...)
	}
	return ctx.WithTypeVars(vars)
}

// enclosingClassType is the instance type of the class enclosing offset.
// A generic class is seen from inside with its own variables as
// arguments, so a field of type T on C<T> keeps its name.
func (in *Inferrer) enclosingClassType(off int) (Result, bool) {
	ci := in.an.EnclosingClass(off)
	if ci < 0 {
		if in.outer != nil {
			return in.outer.enclosingClassType(in.outerAt)
		}
		return unknownResult(), false
	}
	cls := Class{Id: in.classIdOf(ci)}
	for _, tp := range in.an.Classes[ci].TypeParams {
		cls.Args = append(cls.Args, TypeVar{Name: tp})
	}
	return Result{Type: cls}, true
}

// enclosingSuper resolves the superclass of the enclosing class, for
// `super.` receivers.
func (in *Inferrer) enclosingSuper(off int) Type {
	ci := in.an.EnclosingClass(off)
	if ci < 0 {
		if in.outer != nil {
			return in.outer.enclosingSuper(in.outerAt)
		}
		return Class{Id: objectId}
	}
	ext := in.an.Classes[ci].Extends
	if ext == "" {
		return Class{Id: objectId}
	}
	if t, ok := in.store.ResolveText(ext, in.ctxAt(off)).(Class); ok {
		return t
	}
	return Class{Id: objectId}
}

// classIdOf maps an analysis class index to its binary name.
func (in *Inferrer) classIdOf(ci int) ClassId {
	name := in.an.Classes[ci].Name
	if in.file != nil {
		for i := range in.file.Classes {
			if in.file.Classes[i].Name == name {
				return ClassId(in.file.Classes[i].BinaryName)
			}
		}
	}
	bin := strings.ReplaceAll(name, ".", "$")
	if in.base.Package != "" {
		return ClassId(in.base.Package + "." + bin)
	}
	return ClassId(bin)
}
