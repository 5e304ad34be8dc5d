package java

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dhamidi/jig/java/lexer"
)

// Analysis is the per-request quick model of one source file: declarations
// and call sites extracted from the token sequence by bounded scans, without
// a grammar. It is built fresh for every request and never cached across
// edits. All results carry byte spans into Source.
type Analysis struct {
	Source   []byte
	Tokens   []lexer.Token
	Comments []lexer.Comment
	Classes  []ClassDecl
	Methods  []MethodDecl
	Fields   []FieldDecl
	Vars     []VarDecl
	Calls    []CallExpr
}

type ClassDecl struct {
	Name       string
	Kind       ClassKind
	Modifiers  []string
	TypeParams []string
	Extends    string
	Implements []string
	// Components holds the header parameters of a record declaration.
	Components []ParameterModel
	NameSpan   lexer.Span
	DeclSpan   lexer.Span
	BodySpan   lexer.Span
	Parent     int // index of the enclosing class in Classes, -1 at top level
}

// SimpleName returns the declared name without any Outer. prefix.
func (c *ClassDecl) SimpleName() string {
	if i := strings.LastIndexByte(c.Name, '.'); i >= 0 {
		return c.Name[i+1:]
	}
	return c.Name
}

type MethodDecl struct {
	Name        string
	ReturnType  string
	Params      []ParameterModel
	TypeParams  []string
	Modifiers   []string
	Constructor bool
	HasBody     bool
	NameSpan    lexer.Span
	BodySpan    lexer.Span
	Owner       int // index into Classes, -1 if orphaned
}

type FieldDecl struct {
	Name         string
	Type         string
	Modifiers    []string
	Initializer  string
	EnumConstant bool
	NameSpan     lexer.Span
	Owner        int
}

type VarKind int

const (
	VarLocal VarKind = iota
	VarForEach
	VarForInit
	VarCatch
	VarPattern
	VarResource
)

var varKindNames = map[VarKind]string{
	VarLocal:    "local",
	VarForEach:  "for-each",
	VarForInit:  "for-init",
	VarCatch:    "catch",
	VarPattern:  "pattern",
	VarResource: "resource",
}

func (k VarKind) String() string {
	if name, ok := varKindNames[k]; ok {
		return name
	}
	return "local"
}

// VarDecl is a variable declared inside a method body. BraceStack records
// the byte offsets of the '{' tokens open at the declaration site; a
// declaration is in scope at a cursor when its stack is a prefix of the
// cursor's stack and it textually precedes the cursor.
type VarDecl struct {
	Name        string
	Type        string // type text; may be "var"
	Kind        VarKind
	Initializer string
	NameSpan    lexer.Span
	BraceStack  []int
	Method      int // index into Methods
}

// InScopeAt reports whether the declaration is visible at the given offset,
// where stack is the cursor's open-brace stack.
func (v *VarDecl) InScopeAt(offset int, stack []int) bool {
	if v.NameSpan.End.Offset > offset {
		return false
	}
	if len(v.BraceStack) > len(stack) {
		return false
	}
	for i, b := range v.BraceStack {
		if stack[i] != b {
			return false
		}
	}
	return true
}

// CallExpr is a token-level approximation of a call site. Offsets are byte
// offsets into the source; RParen is -1 when the call is unclosed.
type CallExpr struct {
	Receiver    string // source text of the receiver expression, "" if none
	ReceiverEnd int    // byte offset just past the receiver, -1 if none
	Name        string
	NameSpan    lexer.Span
	LParen      int
	RParen      int
	ArgStarts   []int
}

// Analyze tokenizes src and extracts declarations and calls.
func Analyze(src []byte, path string) *Analysis {
	tokens, comments := lexer.Scan(src, path)
	return AnalyzeTokens(src, tokens, comments)
}

// AnalyzeTokens extracts declarations and calls from an existing token
// sequence. It never fails: on broken input it returns whatever subset could
// be identified.
func AnalyzeTokens(src []byte, tokens []lexer.Token, comments []lexer.Comment) *Analysis {
	a := &analyzer{
		src:    src,
		tokens: tokens,
		out: &Analysis{
			Source:   src,
			Tokens:   tokens,
			Comments: comments,
		},
	}
	a.scanClasses()
	a.scanMembers()
	a.scanLocals()
	a.scanCalls()
	return a.out
}

type analyzer struct {
	src    []byte
	tokens []lexer.Token
	out    *Analysis
	// bodyTok[i] holds the token indexes of class i's body braces.
	bodyTok [][2]int
}

func (a *analyzer) at(i int) lexer.Token {
	if i < 0 || i >= len(a.tokens) {
		return lexer.Token{Kind: lexer.TokenEOF}
	}
	return a.tokens[i]
}

func (a *analyzer) sym(i int, ch byte) bool { return a.at(i).Sym(ch) }
func (a *analyzer) ident(i int) bool        { return a.at(i).Kind == lexer.TokenIdent }
func (a *analyzer) is(i int, s string) bool { return a.at(i).Is(s) }
func (a *analyzer) text(i int) string       { return a.at(i).Literal }

func (a *analyzer) matchingBrace(open int) int {
	depth := 0
	for i := open; i < len(a.tokens); i++ {
		switch {
		case a.sym(i, '{'):
			depth++
		case a.sym(i, '}'):
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func (a *analyzer) matchingParen(open int) int {
	depth := 0
	for i := open; i < len(a.tokens); i++ {
		switch {
		case a.sym(i, '('):
			depth++
		case a.sym(i, ')'):
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// skipAnnotation advances past "@Name", "@a.b.Name" and "@Name(...)".
func (a *analyzer) skipAnnotation(i int) int {
	j := i + 1
	if !a.ident(j) {
		return j
	}
	j++
	for a.sym(j, '.') && a.ident(j+1) {
		j += 2
	}
	if a.sym(j, '(') {
		if close := a.matchingParen(j); close >= 0 {
			return close + 1
		}
		return len(a.tokens)
	}
	return j
}

var modifierWords = map[string]bool{
	"public": true, "protected": true, "private": true,
	"static": true, "final": true, "abstract": true,
	"synchronized": true, "native": true, "strictfp": true,
	"transient": true, "volatile": true, "default": true,
	"sealed": true,
}

var statementWords = map[string]bool{
	"return": true, "throw": true, "break": true, "continue": true,
	"yield": true, "assert": true, "case": true, "new": true,
	"else": true, "do": true, "if": true, "while": true, "for": true,
	"switch": true, "try": true, "catch": true, "finally": true,
	"this": true, "super": true, "instanceof": true, "default": true,
	"package": true, "import": true,
}

// IsStatementWord reports whether an identifier is a keyword that starts
// or structures a statement, and so can never name a method or variable.
func IsStatementWord(s string) bool {
	return statementWords[s]
}

func classKeywordKind(s string) (ClassKind, bool) {
	switch s {
	case "class":
		return KindClass, true
	case "interface":
		return KindInterface, true
	case "enum":
		return KindEnum, true
	case "record":
		return KindRecord, true
	}
	return "", false
}

// scanClasses finds every class/interface/enum/record declaration, nested
// ones included. The scan keeps walking into class bodies, so nesting falls
// out of span containment afterwards.
func (a *analyzer) scanClasses() {
	mods := []string(nil)
	modStart := -1
	i := 0
	for i < len(a.tokens) {
		tok := a.at(i)
		switch {
		case tok.Sym('@') && a.is(i+1, "interface") && a.ident(i+2):
			i = a.parseClassDecl(i+1, i+2, KindAnnotation, mods, declStart(modStart, i))
			mods, modStart = nil, -1
		case tok.Sym('@'):
			if modStart == -1 {
				modStart = i
			}
			i = a.skipAnnotation(i)
		case tok.Kind == lexer.TokenIdent && modifierWords[tok.Literal]:
			if modStart == -1 {
				modStart = i
			}
			mods = append(mods, tok.Literal)
			i++
		default:
			kind, ok := classKeywordKind(tok.Literal)
			if ok && a.ident(i+1) && a.looksLikeClassHeader(kind, i+1) {
				i = a.parseClassDecl(i, i+1, kind, mods, declStart(modStart, i))
			} else {
				i++
			}
			mods, modStart = nil, -1
		}
	}
	a.assignParents()
}

func declStart(modStart, kw int) int {
	if modStart >= 0 {
		return modStart
	}
	return kw
}

// looksLikeClassHeader filters out contextual keywords used as identifiers
// ("record" before Java made it a keyword, a variable named "enum" in old
// code) by requiring header-shaped continuation after the name.
func (a *analyzer) looksLikeClassHeader(kind ClassKind, name int) bool {
	next := a.at(name + 1)
	switch {
	case next.Sym('{'), next.Sym('<'):
		return true
	case next.Sym('('):
		return kind == KindRecord
	case next.Is("extends"), next.Is("implements"), next.Is("permits"):
		return true
	}
	return false
}

func (a *analyzer) parseClassDecl(kw, name int, kind ClassKind, mods []string, start int) int {
	decl := ClassDecl{
		Name:      a.text(name),
		Kind:      kind,
		Modifiers: append([]string(nil), mods...),
		NameSpan:  a.at(name).Span,
		DeclSpan:  lexer.Span{Start: a.at(start).Span.Start, End: a.at(name).Span.End},
		Parent:    -1,
	}

	j := name + 1
	if a.sym(j, '<') {
		decl.TypeParams, j = a.parseTypeParamNames(j)
	}
	if kind == KindRecord && a.sym(j, '(') {
		var close int
		decl.Components, close = a.parseParams(j)
		j = close + 1
	}
	if a.is(j, "extends") {
		names, nj := a.parseTypeTextList(j + 1)
		j = nj
		if kind == KindInterface {
			decl.Implements = append(decl.Implements, names...)
		} else if len(names) > 0 {
			decl.Extends = names[0]
		}
	}
	if a.is(j, "implements") {
		names, nj := a.parseTypeTextList(j + 1)
		decl.Implements = append(decl.Implements, names...)
		j = nj
	}
	if a.is(j, "permits") {
		_, j = a.parseTypeTextList(j + 1)
	}

	// Find the body, tolerating junk between header and brace.
	open := -1
	for k := j; k < len(a.tokens); k++ {
		if a.sym(k, '{') {
			open = k
			break
		}
		if a.sym(k, ';') {
			break
		}
	}

	body := [2]int{-1, -1}
	if open >= 0 {
		close := a.matchingBrace(open)
		if close < 0 {
			close = len(a.tokens) - 1
		}
		body = [2]int{open, close}
		decl.BodySpan = lexer.Span{Start: a.at(open).Span.Start, End: a.at(close).Span.End}
	}

	a.out.Classes = append(a.out.Classes, decl)
	a.bodyTok = append(a.bodyTok, body)

	if open >= 0 {
		return open + 1 // keep scanning inside the body for nested classes
	}
	return j + 1
}

func (a *analyzer) assignParents() {
	classes := a.out.Classes
	for i := range classes {
		best, bestLen := -1, -1
		for j := range classes {
			if i == j || classes[j].BodySpan.Len() == 0 {
				continue
			}
			if !classes[j].BodySpan.Contains(classes[i].NameSpan.Start.Offset) {
				continue
			}
			if best == -1 || classes[j].BodySpan.Len() < bestLen {
				best, bestLen = j, classes[j].BodySpan.Len()
			}
		}
		classes[i].Parent = best
		if best >= 0 {
			classes[i].Name = classes[best].Name + "." + classes[i].Name
		}
	}
}

// parseTypeParamNames reads "<T, U extends Bound>" and returns the declared
// names.
func (a *analyzer) parseTypeParamNames(open int) ([]string, int) {
	var names []string
	depth := 0
	expect := true
	for j := open; j < len(a.tokens); j++ {
		tok := a.at(j)
		switch {
		case tok.Sym('<'):
			depth++
			if depth == 1 {
				expect = true
			}
		case tok.Sym('>'):
			depth--
			if depth <= 0 {
				return names, j + 1
			}
		case tok.Sym('{'), tok.Sym(';'), tok.Sym(')'):
			return names, j
		case depth == 1 && tok.Sym(','):
			expect = true
		case depth == 1 && expect && tok.Kind == lexer.TokenIdent:
			names = append(names, tok.Literal)
			expect = false
		}
	}
	return names, len(a.tokens)
}

// parseTypeText reads a type reference in declaration position, where '<'
// after a name is always a generic argument list. Returns the compact type
// text, the next token index, and whether a type was present.
func (a *analyzer) parseTypeText(i int) (string, int, bool) {
	if !a.ident(i) {
		return "", i, false
	}
	j := i
	var sb strings.Builder
	sb.WriteString(a.text(j))
	j++
	for a.sym(j, '.') && a.ident(j+1) {
		sb.WriteByte('.')
		sb.WriteString(a.text(j + 1))
		j += 2
	}
	if a.sym(j, '<') {
		if close, ok := a.matchingAngle(j); ok {
			sb.WriteString(a.angleText(j, close))
			j = close + 1
		}
	}
	for a.sym(j, '[') && a.sym(j+1, ']') {
		sb.WriteString("[]")
		j += 2
	}
	return sb.String(), j, true
}

// parseTypeTextExpr is parseTypeText for expression context, where '<' is
// only consumed when the generic heuristic accepts it.
func (a *analyzer) parseTypeTextExpr(i int) (string, int, bool) {
	if !a.ident(i) {
		return "", i, false
	}
	j := i
	var sb strings.Builder
	sb.WriteString(a.text(j))
	j++
	for a.sym(j, '.') && a.ident(j+1) {
		sb.WriteByte('.')
		sb.WriteString(a.text(j + 1))
		j += 2
	}
	if a.sym(j, '<') {
		if close, ok := a.genericAngle(j); ok {
			sb.WriteString(a.angleText(j, close))
			j = close + 1
		}
	}
	for a.sym(j, '[') && a.sym(j+1, ']') {
		sb.WriteString("[]")
		j += 2
	}
	return sb.String(), j, true
}

// matchingAngle finds the '>' closing the '<' at open. Bounded; gives up on
// tokens that cannot appear inside a type argument list.
func (a *analyzer) matchingAngle(open int) (int, bool) {
	depth := 0
	limit := open + 100
	for j := open; j < len(a.tokens) && j < limit; j++ {
		tok := a.at(j)
		switch {
		case tok.Sym('<'):
			depth++
		case tok.Sym('>'):
			depth--
			if depth == 0 {
				return j, true
			}
		case tok.Sym(';'), tok.Sym('{'), tok.Sym('}'), tok.Sym('('), tok.Sym(')'), tok.Sym('='):
			return 0, false
		case tok.Kind == lexer.TokenString, tok.Kind == lexer.TokenChar, tok.Kind == lexer.TokenNumber:
			return 0, false
		}
	}
	return 0, false
}

// genericAngle decides whether the '<' at open starts a generic argument
// list rather than a less-than comparison. The previous token must look like
// a type name (or '.'), the list must close with a matching '>', and the
// contents must either contain a top-level comma or be followed by a
// call-like continuation.
func (a *analyzer) genericAngle(open int) (int, bool) {
	prev := a.at(open - 1)
	switch {
	case prev.Sym('.'):
	case prev.Kind == lexer.TokenIdent && startsUpper(prev.Literal):
	default:
		return 0, false
	}

	depth := 0
	sawComma := false
	limit := open + 100
	for j := open; j < len(a.tokens) && j < limit; j++ {
		tok := a.at(j)
		switch {
		case tok.Sym('<'):
			depth++
		case tok.Sym('>'):
			depth--
			if depth == 0 {
				if sawComma {
					return j, true
				}
				next := a.at(j + 1)
				if next.Kind == lexer.TokenIdent || next.Sym('(') || next.Sym('.') ||
					next.Sym(':') || next.Sym('[') || next.Sym('>') {
					return j, true
				}
				return 0, false
			}
		case tok.Sym(','):
			if depth == 1 {
				sawComma = true
			}
		case tok.Kind == lexer.TokenIdent, tok.Sym('.'), tok.Sym('?'),
			tok.Sym('['), tok.Sym(']'), tok.Sym('&'):
			// plausible type-argument content
		default:
			return 0, false
		}
	}
	return 0, false
}

func startsUpper(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}

// angleText renders the tokens of a generic argument list compactly.
func (a *analyzer) angleText(open, close int) string {
	var sb strings.Builder
	for j := open; j <= close; j++ {
		tok := a.at(j)
		if tok.Kind == lexer.TokenIdent && j > open {
			prev := a.at(j - 1)
			if prev.Kind == lexer.TokenIdent || prev.Sym('?') {
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(tok.Literal)
	}
	return sb.String()
}

// parseTypeTextList reads a comma-separated list of type references.
func (a *analyzer) parseTypeTextList(i int) ([]string, int) {
	var names []string
	j := i
	for {
		text, nj, ok := a.parseTypeText(j)
		if !ok {
			return names, j
		}
		names = append(names, text)
		j = nj
		if !a.sym(j, ',') {
			return names, j
		}
		j++
	}
}

// parseParams reads a parenthesized parameter list starting at the '('.
// Returns the parameters and the index of the closing ')'.
func (a *analyzer) parseParams(open int) ([]ParameterModel, int) {
	var params []ParameterModel
	j := open + 1
	for j < len(a.tokens) && !a.sym(j, ')') {
		for {
			if a.sym(j, '@') {
				j = a.skipAnnotation(j)
				continue
			}
			if a.is(j, "final") {
				j++
				continue
			}
			break
		}
		typeText, nj, ok := a.parseTypeText(j)
		if !ok {
			j = a.skipToParamEnd(j)
			continue
		}
		j = nj
		varargs := false
		if a.sym(j, '.') && a.sym(j+1, '.') && a.sym(j+2, '.') {
			varargs = true
			j += 3
		}
		name := ""
		if a.ident(j) {
			name = a.text(j)
			j++
		}
		for a.sym(j, '[') && a.sym(j+1, ']') {
			typeText += "[]"
			j += 2
		}
		params = append(params, ParameterModel{Name: name, Type: typeText, IsVarargs: varargs})
		j = a.skipToParamEnd(j)
	}
	return params, j
}

func (a *analyzer) skipToParamEnd(j int) int {
	depth := 0
	for j < len(a.tokens) {
		switch {
		case a.sym(j, '('), a.sym(j, '['), a.sym(j, '{'):
			depth++
		case a.sym(j, ')'), a.sym(j, ']'), a.sym(j, '}'):
			if depth == 0 {
				return j
			}
			depth--
		case a.sym(j, ','):
			if depth == 0 {
				return j + 1
			}
		}
		j++
	}
	return j
}

// scanMembers extracts methods and fields for each class at class-body brace
// depth 1. Nested class bodies are skipped here; their members are picked up
// when the nested class itself is processed.
func (a *analyzer) scanMembers() {
	for ci := range a.out.Classes {
		a.scanClassBody(ci)
	}
}

func (a *analyzer) scanClassBody(ci int) {
	body := a.bodyTok[ci]
	if body[0] < 0 {
		return
	}
	c := &a.out.Classes[ci]
	simple := c.SimpleName()

	j := body[0] + 1
	close := body[1]

	if c.Kind == KindEnum {
		j = a.scanEnumConstants(ci, j, close)
	}
	if c.Kind == KindRecord {
		a.addRecordMembers(ci)
	}

	for j < close {
		prev := j

		switch {
		case a.sym(j, ';'):
			j++
			continue
		case a.sym(j, '{'): // instance initializer
			if end := a.matchingBrace(j); end > j {
				j = end + 1
			} else {
				j = close
			}
			continue
		}

		var mods []string
		for {
			if a.sym(j, '@') && !a.is(j+1, "interface") {
				j = a.skipAnnotation(j)
				continue
			}
			if a.ident(j) && modifierWords[a.text(j)] && !a.sym(j+1, '(') {
				mods = append(mods, a.text(j))
				j++
				continue
			}
			break
		}

		if _, isClass := classKeywordKind(a.text(j)); isClass && a.ident(j+1) ||
			a.sym(j, '@') && a.is(j+1, "interface") {
			j = a.skipNestedClass(j, close)
			continue
		}

		if a.sym(j, '{') { // static initializer: modifiers consumed the "static"
			if end := a.matchingBrace(j); end > j {
				j = end + 1
			} else {
				j = close
			}
			continue
		}

		var typeParams []string
		if a.sym(j, '<') {
			typeParams, j = a.parseTypeParamNames(j)
		}

		if a.ident(j) && a.text(j) == simple && a.sym(j+1, '(') {
			j = a.parseMethodDecl(ci, j, "", typeParams, mods, true)
			continue
		}

		typeText, k, ok := a.parseTypeText(j)
		if ok && a.ident(k) && a.sym(k+1, '(') {
			j = a.parseMethodDecl(ci, k, typeText, typeParams, mods, false)
			continue
		}
		if ok && a.ident(k) && (a.sym(k+1, '=') || a.sym(k+1, ';') || a.sym(k+1, ',')) {
			j = a.parseFieldDecl(ci, typeText, mods, k)
			continue
		}

		if j <= prev {
			j = prev + 1
		}
	}
}

func (a *analyzer) skipNestedClass(j, close int) int {
	for k := j; k < close; k++ {
		if a.sym(k, '{') {
			if end := a.matchingBrace(k); end > k {
				return end + 1
			}
			return close
		}
		if a.sym(k, ';') {
			return k + 1
		}
	}
	return close
}

// parseMethodDecl records a method or constructor whose name token is at
// nameIdx with its '(' immediately following.
func (a *analyzer) parseMethodDecl(ci, nameIdx int, returnType string, typeParams, mods []string, ctor bool) int {
	params, closeParen := a.parseParams(nameIdx + 1)
	j := closeParen + 1

	// throws clause
	if a.is(j, "throws") {
		_, j = a.parseTypeTextList(j + 1)
	}

	decl := MethodDecl{
		Name:        a.text(nameIdx),
		ReturnType:  returnType,
		Params:      params,
		TypeParams:  typeParams,
		Modifiers:   append([]string(nil), mods...),
		Constructor: ctor,
		NameSpan:    a.at(nameIdx).Span,
		Owner:       ci,
	}

	switch {
	case a.sym(j, '{'):
		end := a.matchingBrace(j)
		if end < 0 {
			end = len(a.tokens) - 1
		}
		decl.HasBody = true
		decl.BodySpan = lexer.Span{Start: a.at(j).Span.Start, End: a.at(end).Span.End}
		j = end + 1
	case a.sym(j, ';'):
		j++
	case a.is(j, "default"): // annotation member default value
		for j < len(a.tokens) && !a.sym(j, ';') {
			j++
		}
		j++
	default:
		// Broken declaration; take what we have.
		j++
	}

	a.out.Methods = append(a.out.Methods, decl)
	return j
}

// parseFieldDecl records one or more field declarators sharing a type.
// nameIdx is the first declarator's name token.
func (a *analyzer) parseFieldDecl(ci int, typeText string, mods []string, nameIdx int) int {
	j := nameIdx
	for {
		if !a.ident(j) {
			break
		}
		declType := typeText
		name := a.text(j)
		nameSpan := a.at(j).Span
		j++
		for a.sym(j, '[') && a.sym(j+1, ']') {
			declType += "[]"
			j += 2
		}
		init := ""
		if a.sym(j, '=') {
			init, j = a.captureInitializer(j + 1)
		}
		a.out.Fields = append(a.out.Fields, FieldDecl{
			Name:        name,
			Type:        declType,
			Modifiers:   append([]string(nil), mods...),
			Initializer: init,
			NameSpan:    nameSpan,
			Owner:       ci,
		})
		if a.sym(j, ',') {
			j++
			continue
		}
		break
	}
	if a.sym(j, ';') {
		j++
	}
	return j
}

// captureInitializer slices the source text of an initializer expression,
// stopping at the first ',' or ';' outside any bracket nesting. Returns the
// text and the index of the stopping token.
func (a *analyzer) captureInitializer(start int) (string, int) {
	depth := 0
	last := start - 1
	j := start
	for j < len(a.tokens) {
		tok := a.at(j)
		switch {
		case tok.Sym('('), tok.Sym('['), tok.Sym('{'):
			depth++
		case tok.Sym(')'), tok.Sym(']'), tok.Sym('}'):
			if depth == 0 {
				return a.sliceText(start, last), j
			}
			depth--
		case tok.Sym(','), tok.Sym(';'):
			if depth == 0 {
				return a.sliceText(start, last), j
			}
		}
		last = j
		j++
	}
	return a.sliceText(start, last), j
}

func (a *analyzer) sliceText(first, last int) string {
	if last < first || first >= len(a.tokens) {
		return ""
	}
	from := a.at(first).Span.Start.Offset
	to := a.at(last).Span.End.Offset
	if from < 0 || to > len(a.src) || from > to {
		return ""
	}
	return strings.TrimSpace(string(a.src[from:to]))
}

// enum constants become implicit public static final fields of the enum
// type, so member completion on the enum offers them.
func (a *analyzer) scanEnumConstants(ci, j, close int) int {
	c := &a.out.Classes[ci]
	simple := c.SimpleName()
	for j < close {
		for a.sym(j, '@') {
			j = a.skipAnnotation(j)
		}
		if !a.ident(j) {
			break
		}
		// A constant is an identifier followed by ',', ';', '}', '(' or '{'.
		next := a.at(j + 1)
		if !(next.Sym(',') || next.Sym(';') || next.Sym('}') || next.Sym('(') || next.Sym('{')) {
			break
		}
		a.out.Fields = append(a.out.Fields, FieldDecl{
			Name:         a.text(j),
			Type:         simple,
			Modifiers:    []string{"public", "static", "final"},
			EnumConstant: true,
			NameSpan:     a.at(j).Span,
			Owner:        ci,
		})
		j++
		if a.sym(j, '(') {
			if end := a.matchingParen(j); end > j {
				j = end + 1
			}
		}
		if a.sym(j, '{') {
			if end := a.matchingBrace(j); end > j {
				j = end + 1
			}
		}
		if a.sym(j, ',') {
			j++
			continue
		}
		if a.sym(j, ';') {
			j++
		}
		break
	}
	return j
}

// record components become final fields plus zero-argument accessors, and
// the header doubles as the canonical constructor.
func (a *analyzer) addRecordMembers(ci int) {
	c := &a.out.Classes[ci]
	for _, comp := range c.Components {
		if comp.Name == "" {
			continue
		}
		a.out.Fields = append(a.out.Fields, FieldDecl{
			Name:      comp.Name,
			Type:      comp.Type,
			Modifiers: []string{"private", "final"},
			Owner:     ci,
		})
		a.out.Methods = append(a.out.Methods, MethodDecl{
			Name:       comp.Name,
			ReturnType: comp.Type,
			Modifiers:  []string{"public"},
			Owner:      ci,
		})
	}
	a.out.Methods = append(a.out.Methods, MethodDecl{
		Name:        c.SimpleName(),
		Params:      c.Components,
		Modifiers:   []string{"public"},
		Constructor: true,
		Owner:       ci,
	})
}

// scanLocals walks the whole token sequence once with a live open-brace
// stack, attempting variable-declaration patterns at statement boundaries
// inside method bodies.
func (a *analyzer) scanLocals() {
	type bodyRange struct {
		start, end, method int
	}
	var ranges []bodyRange
	for mi, m := range a.out.Methods {
		if !m.HasBody {
			continue
		}
		ranges = append(ranges, bodyRange{m.BodySpan.Start.Offset, m.BodySpan.End.Offset, mi})
	}
	// Methods are discovered class by class, so sort by start for the sweep.
	for i := 1; i < len(ranges); i++ {
		for k := i; k > 0 && ranges[k].start < ranges[k-1].start; k-- {
			ranges[k], ranges[k-1] = ranges[k-1], ranges[k]
		}
	}

	var braceStack []int
	var active []bodyRange
	next := 0

	for i := 0; i < len(a.tokens); i++ {
		off := a.tokens[i].Span.Start.Offset
		for next < len(ranges) && ranges[next].start <= off {
			active = append(active, ranges[next])
			next++
		}
		for len(active) > 0 && off >= active[len(active)-1].end {
			active = active[:len(active)-1]
		}

		tok := a.at(i)
		switch {
		case tok.Sym('{'):
			braceStack = append(braceStack, off)
			continue
		case tok.Sym('}'):
			if len(braceStack) > 0 {
				braceStack = braceStack[:len(braceStack)-1]
			}
			continue
		}
		if len(active) == 0 {
			continue
		}
		mi := active[len(active)-1].method

		switch {
		case tok.Is("for") && a.sym(i+1, '('):
			a.tryForVars(i+2, mi, braceStack)
		case tok.Is("catch") && a.sym(i+1, '('):
			a.tryCatchVar(i+2, mi, braceStack)
		case tok.Is("try") && a.sym(i+1, '('):
			a.tryResourceVars(i+2, mi, braceStack)
		case tok.Is("instanceof"):
			a.tryPatternVar(i+1, mi, braceStack)
		default:
			if i == 0 || statementBoundary(a.at(i-1)) {
				a.tryLocalVar(i, mi, braceStack)
			}
		}
	}
}

func statementBoundary(t lexer.Token) bool {
	return t.Sym('{') || t.Sym(';') || t.Sym('}')
}

func snapshot(stack []int) []int {
	return append([]int(nil), stack...)
}

func (a *analyzer) addVar(name string, nameSpan lexer.Span, typeText, init string, kind VarKind, mi int, stack []int) {
	a.out.Vars = append(a.out.Vars, VarDecl{
		Name:        name,
		Type:        typeText,
		Kind:        kind,
		Initializer: init,
		NameSpan:    nameSpan,
		BraceStack:  snapshot(stack),
		Method:      mi,
	})
}

func (a *analyzer) skipFinalAndAnnotations(j int) int {
	for {
		if a.sym(j, '@') {
			j = a.skipAnnotation(j)
			continue
		}
		if a.is(j, "final") {
			j++
			continue
		}
		return j
	}
}

// tryLocalVar matches `[final] Type name (= init)? (, name (= init)?)* ;`.
func (a *analyzer) tryLocalVar(i, mi int, stack []int) {
	j := a.skipFinalAndAnnotations(i)
	if !a.ident(j) || statementWords[a.text(j)] {
		return
	}
	typeText, k, ok := a.parseTypeTextExpr(j)
	if !ok {
		return
	}
	for {
		if !a.ident(k) || statementWords[a.text(k)] {
			return
		}
		declType := typeText
		name := a.text(k)
		nameSpan := a.at(k).Span
		k++
		for a.sym(k, '[') && a.sym(k+1, ']') {
			declType += "[]"
			k += 2
		}
		init := ""
		switch {
		case a.sym(k, '='):
			init, k = a.captureInitializer(k + 1)
		case a.sym(k, ';'), a.sym(k, ','):
		default:
			return
		}
		a.addVar(name, nameSpan, declType, init, VarLocal, mi, stack)
		if a.sym(k, ',') {
			k++
			continue
		}
		return
	}
}

// tryForVars matches both `for (Type x : xs)` and `for (Type i = 0; ...)`.
// i is the first token inside the parenthesis.
func (a *analyzer) tryForVars(i, mi int, stack []int) {
	j := a.skipFinalAndAnnotations(i)
	typeText, k, ok := a.parseTypeTextExpr(j)
	if !ok || !a.ident(k) {
		return
	}
	name := a.text(k)
	nameSpan := a.at(k).Span
	switch {
	case a.sym(k+1, ':'):
		init, _ := a.captureForClause(k + 2)
		a.addVar(name, nameSpan, typeText, init, VarForEach, mi, stack)
	case a.sym(k+1, '='):
		init, nk := a.captureInitializer(k + 2)
		a.addVar(name, nameSpan, typeText, init, VarForInit, mi, stack)
		for a.sym(nk, ',') {
			nk++
			if !a.ident(nk) {
				return
			}
			n2 := a.text(nk)
			s2 := a.at(nk).Span
			nk++
			init2 := ""
			if a.sym(nk, '=') {
				init2, nk = a.captureInitializer(nk + 1)
			}
			a.addVar(n2, s2, typeText, init2, VarForInit, mi, stack)
		}
	}
}

// captureForClause slices text up to the ')' closing the for header.
func (a *analyzer) captureForClause(start int) (string, int) {
	depth := 0
	last := start - 1
	j := start
	for j < len(a.tokens) {
		tok := a.at(j)
		switch {
		case tok.Sym('('), tok.Sym('['), tok.Sym('{'):
			depth++
		case tok.Sym(')'), tok.Sym(']'), tok.Sym('}'):
			if depth == 0 {
				return a.sliceText(start, last), j
			}
			depth--
		case tok.Sym(';'):
			if depth == 0 {
				return a.sliceText(start, last), j
			}
		}
		last = j
		j++
	}
	return a.sliceText(start, last), j
}

// tryCatchVar matches `catch (A | B e)`. The first alternative's type is
// recorded.
func (a *analyzer) tryCatchVar(i, mi int, stack []int) {
	j := a.skipFinalAndAnnotations(i)
	typeText, k, ok := a.parseTypeTextExpr(j)
	if !ok {
		return
	}
	for a.sym(k, '|') {
		_, nk, ok2 := a.parseTypeTextExpr(k + 1)
		if !ok2 {
			return
		}
		k = nk
	}
	if a.ident(k) && a.sym(k+1, ')') {
		a.addVar(a.text(k), a.at(k).Span, typeText, "", VarCatch, mi, stack)
	}
}

// tryResourceVars matches try-with-resources declarations.
func (a *analyzer) tryResourceVars(i, mi int, stack []int) {
	j := i
	for j < len(a.tokens) {
		j = a.skipFinalAndAnnotations(j)
		typeText, k, ok := a.parseTypeTextExpr(j)
		if !ok || !a.ident(k) || !a.sym(k+1, '=') {
			return
		}
		init, nk := a.captureResource(k + 2)
		a.addVar(a.text(k), a.at(k).Span, typeText, init, VarResource, mi, stack)
		if !a.sym(nk, ';') {
			return
		}
		j = nk + 1
	}
}

func (a *analyzer) captureResource(start int) (string, int) {
	depth := 0
	last := start - 1
	j := start
	for j < len(a.tokens) {
		tok := a.at(j)
		switch {
		case tok.Sym('('), tok.Sym('['), tok.Sym('{'):
			depth++
		case tok.Sym(')'), tok.Sym(']'), tok.Sym('}'):
			if depth == 0 {
				return a.sliceText(start, last), j
			}
			depth--
		case tok.Sym(';'):
			if depth == 0 {
				return a.sliceText(start, last), j
			}
		}
		last = j
		j++
	}
	return a.sliceText(start, last), j
}

// tryPatternVar matches the binding of `x instanceof Type name`.
func (a *analyzer) tryPatternVar(i, mi int, stack []int) {
	j := a.skipFinalAndAnnotations(i)
	typeText, k, ok := a.parseTypeTextExpr(j)
	if !ok {
		return
	}
	if a.ident(k) && !statementWords[a.text(k)] {
		a.addVar(a.text(k), a.at(k).Span, typeText, "", VarPattern, mi, stack)
	}
}

// call names that are really statement or expression keywords
var callExcluded = map[string]bool{
	"if": true, "for": true, "while": true, "switch": true, "catch": true,
	"synchronized": true, "return": true, "new": true, "assert": true,
	"this": true, "super": true, "do": true, "else": true, "try": true,
	"finally": true, "throw": true, "case": true, "yield": true,
	"instanceof": true,
}

// identifiers after which `name(` is still a call, not a declaration
var callFriendlyWords = map[string]bool{
	"return": true, "throw": true, "else": true, "do": true,
	"yield": true, "case": true, "assert": true,
}

func (a *analyzer) scanCalls() {
	for i := 0; i < len(a.tokens); i++ {
		if !a.ident(i) || !a.sym(i+1, '(') || callExcluded[a.text(i)] {
			continue
		}
		prev := a.at(i - 1)
		isCall := false
		hasReceiver := false
		switch {
		case i == 0:
			isCall = true
		case prev.Sym('.'):
			isCall = true
			hasReceiver = true
		case prev.Kind == lexer.TokenSymbol:
			isCall = true
		case prev.Kind == lexer.TokenIdent:
			isCall = callFriendlyWords[prev.Literal]
		}
		if !isCall {
			continue
		}

		call := CallExpr{
			Name:        a.text(i),
			NameSpan:    a.at(i).Span,
			LParen:      a.at(i + 1).Span.Start.Offset,
			ReceiverEnd: -1,
			RParen:      -1,
		}
		if hasReceiver {
			startIdx := a.receiverStart(i - 2)
			if startIdx >= 0 {
				from := a.at(startIdx).Span.Start.Offset
				to := a.at(i - 2).Span.End.Offset
				if from <= to && to <= len(a.src) {
					call.Receiver = string(a.src[from:to])
					call.ReceiverEnd = to
				}
			}
		}
		call.ArgStarts, call.RParen = a.scanArgs(i + 1)
		a.out.Calls = append(a.out.Calls, call)
	}
}

// receiverStart walks backwards from the token just before the '.' to the
// first token of the receiver expression. Bounded.
func (a *analyzer) receiverStart(end int) int {
	i := end
	for steps := 0; steps < 64; steps++ {
		tok := a.at(i)
		switch {
		case tok.Kind == lexer.TokenIdent, tok.Kind == lexer.TokenString,
			tok.Kind == lexer.TokenChar, tok.Kind == lexer.TokenNumber:
			// primary; fall through to chain check
		case tok.Sym(')'), tok.Sym(']'):
			open := a.matchingOpenBackward(i)
			if open < 0 {
				return i
			}
			i = open
			before := a.at(i - 1)
			if before.Kind == lexer.TokenIdent && !statementWords[before.Literal] {
				i-- // call or array name
				if a.is(i-1, "new") {
					i--
				}
				continue
			}
			if a.is(i-1, "new") { // new int[3]
				// keep walking left below
				i--
				continue
			}
			return i
		default:
			return -1
		}
		if a.sym(i-1, '.') && i-2 >= 0 {
			i -= 2
			continue
		}
		if a.is(i-1, "new") {
			return i - 1
		}
		return i
	}
	return i
}

func (a *analyzer) matchingOpenBackward(close int) int {
	target := byte('(')
	opener := byte(')')
	if a.sym(close, ']') {
		target, opener = '[', ']'
	}
	depth := 0
	for i := close; i >= 0; i-- {
		switch {
		case a.sym(i, opener):
			depth++
		case a.sym(i, target):
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// scanArgs records where each argument of a call begins and locates the
// closing ')'. Commas inside nested (), [], {} or a plausible generic
// argument list do not split arguments. A trailing comma with nothing
// typed after it still opens an argument, starting right past the comma,
// so the active-argument count matches the commas the user has typed.
func (a *analyzer) scanArgs(open int) ([]int, int) {
	var starts []int
	depth := 1
	curly, bracket := 0, 0
	expectArg := true
	pending := -1
	for j := open + 1; j < len(a.tokens); j++ {
		tok := a.at(j)
		if expectArg && !tok.Sym(')') && !(tok.Sym('}') && curly == 0) {
			starts = append(starts, tok.Span.Start.Offset)
			expectArg = false
			pending = -1
		}
		switch {
		case tok.Sym('('):
			depth++
		case tok.Sym(')'):
			depth--
			if depth == 0 {
				if pending >= 0 {
					starts = append(starts, pending)
				}
				return starts, tok.Span.Start.Offset
			}
		case tok.Sym('{'):
			curly++
		case tok.Sym('}'):
			if curly == 0 {
				// Ran out of the enclosing block: unterminated call.
				if pending >= 0 {
					starts = append(starts, pending)
				}
				return starts, -1
			}
			curly--
		case tok.Sym('['):
			bracket++
		case tok.Sym(']'):
			bracket--
		case tok.Sym('<'):
			if close, ok := a.genericAngle(j); ok {
				j = close
			}
		case tok.Sym(','):
			if depth == 1 && curly == 0 && bracket == 0 {
				expectArg = true
				pending = tok.Span.End.Offset
			}
		}
	}
	if pending >= 0 {
		starts = append(starts, pending)
	}
	return starts, -1
}
