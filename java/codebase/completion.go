package codebase

import (
	"fmt"
	"strings"

	"github.com/dhamidi/jig/java"
	"github.com/dhamidi/jig/java/lexer"
	"github.com/dhamidi/jig/java/rank"
	"github.com/dhamidi/jig/java/types"
)

// maxClassCandidates caps how many type names one completion request
// offers; the overflow is silently dropped.
const maxClassCandidates = 200

// CompletionsAt computes ranked completion candidates for path at a
// byte offset. The prefix is what the user has already typed of the
// name being completed; the candidates conceptually insert at offset
// minus the prefix length.
func (c *Codebase) CompletionsAt(path string, offset int, prefix string) []rank.Candidate {
	snap, ok := c.Snapshot(path)
	if !ok {
		return nil
	}
	point := offset - len(prefix)
	if point < 0 {
		point = 0
	}
	q := &completionQuery{
		snap:      snap,
		in:        types.NewInferrer(snap.Store, snap.File),
		an:        snap.File.Analysis,
		prefix:    prefix,
		point:     point,
		valueSeen: make(map[string]bool),
	}
	return rank.Rank(prefix, q.collect())
}

// completionQuery gathers the candidates of one request before ranking.
type completionQuery struct {
	snap   *Snapshot
	in     *types.Inferrer
	an     *java.Analysis
	prefix string
	point  int

	ctx       types.ResolveCtx
	expected  []types.Type
	valueSeen map[string]bool
	cands     []rank.Candidate
}

func (q *completionQuery) collect() []rank.Candidate {
	q.ctx = q.ctxAtPoint()
	q.expected = q.in.ExpectedTypesAt(q.point)

	if dot, ok := q.receiverDot(); ok {
		q.memberCandidates(dot)
		return q.cands
	}
	if q.afterNew() {
		q.constructorCandidates()
		q.packageRootCandidates()
		return q.cands
	}
	q.localCandidates()
	q.paramCandidates()
	q.enclosingMemberCandidates()
	q.staticImportCandidates()
	q.classCandidates()
	q.packageRootCandidates()
	q.lambdaCandidate()
	q.keywordCandidates()
	return q.cands
}

// add records one candidate, filling the recency signal from the
// nearest earlier occurrence of the label. Value names are deduplicated
// in shadowing order: the sources run locals first, then parameters,
// then fields, so the nearest declaration wins.
func (q *completionQuery) add(cand rank.Candidate) {
	switch cand.Kind {
	case rank.KindVariable, rank.KindField, rank.KindEnumConstant:
		if q.valueSeen[cand.Label] {
			return
		}
		q.valueSeen[cand.Label] = true
	}
	cand.LastSeen = q.an.IdentifierBefore(cand.Label, q.point)
	q.cands = append(q.cands, cand)
}

// receiverDot finds the '.' the completion hangs off: the byte right
// before the completion point.
func (q *completionQuery) receiverDot() (int, bool) {
	src := q.an.Source
	if q.point > 0 && q.point <= len(src) && src[q.point-1] == '.' {
		return q.point - 1, true
	}
	return 0, false
}

// afterNew reports whether the completion point follows a `new`
// keyword, where only types can appear.
func (q *completionQuery) afterNew() bool {
	return tokenAt(q.an, q.an.TokenEndingAt(q.point)).Is("new")
}

// memberCandidates completes after a '.': the members of the inferred
// receiver, or the contents of a package when the dotted name before
// the dot is not an expression.
func (q *completionQuery) memberCandidates(dot int) {
	recv := q.in.TypeAt(dot)
	if types.IsErrorish(recv.Type) {
		q.packageMemberCandidates(dot)
		return
	}
	var directOwner types.ClassId
	if cls, ok := recv.Type.(types.Class); ok {
		directOwner = cls.Id
	}
	_, isArray := recv.Type.(types.Array)
	for _, m := range q.snap.Store.MembersOf(recv.Type, recv.Static) {
		if !q.accessible(m) {
			continue
		}
		cand := q.memberCandidate(m)
		// Synthesized array members carry no owner and count as direct.
		cand.Direct = m.Owner == directOwner
		if isArray && m.Kind == types.MemberField && m.Name == "length" {
			cand.Bump = rank.BumpArrayLength
		}
		q.add(cand)
	}
}

// memberCandidate converts a resolved member into a candidate. The
// caller fills the signals that depend on where the member was found.
func (q *completionQuery) memberCandidate(m types.Member) rank.Candidate {
	cand := rank.Candidate{
		Label:         m.Name,
		Detail:        m.Detail(),
		Documentation: m.Javadoc,
		NoImport:      true,
		Workspace:     q.snap.fromWorkspace(m.Owner),
	}
	switch m.Kind {
	case types.MemberMethod:
		cand.Kind = rank.KindMethod
		cand.InsertText = insertCall(m.Name, m.Method)
	case types.MemberConstructor:
		cand.Kind = rank.KindConstructor
		cand.InsertText = insertCall(m.Name, m.Method)
	case types.MemberEnumConstant:
		cand.Kind = rank.KindEnumConstant
	case types.MemberNested:
		cand.Kind = rank.KindClass
		cand.Label = m.Nested.Simple()
	default:
		cand.Kind = rank.KindField
	}
	if m.Kind != types.MemberNested {
		cand.TypeCompatible = q.compatible(m.Type)
	}
	return cand
}

// insertCall renders the snippet inserted for a call: one numbered
// placeholder per declared parameter, named after the parameter.
func insertCall(name string, m *java.MethodModel) string {
	if m == nil || len(m.Parameters) == 0 {
		return name + "()"
	}
	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('(')
	for i, p := range m.Parameters {
		if i > 0 {
			b.WriteString(", ")
		}
		pname := p.Name
		if pname == "" {
			pname = p.Type
		}
		fmt.Fprintf(&b, "${%d:%s}", i+1, pname)
	}
	b.WriteByte(')')
	return b.String()
}

// compatible reports whether a value of type t suits the argument
// position the cursor is in.
func (q *completionQuery) compatible(t types.Type) bool {
	if t == nil || len(q.expected) == 0 {
		return false
	}
	for _, want := range q.expected {
		if q.snap.Store.AssignableTo(t, want) {
			return true
		}
	}
	return false
}

// accessible filters members by visibility from the completing file:
// private members show only inside their own top-level class, package
// visibility only inside the same package, protected additionally from
// subclasses.
func (q *completionQuery) accessible(m types.Member) bool {
	switch m.Visibility {
	case java.VisibilityPublic, "":
		return true
	case java.VisibilityPrivate:
		encl, ok := q.enclosingClassId()
		return ok && topLevelOf(encl) == topLevelOf(m.Owner)
	case java.VisibilityProtected:
		if m.Owner.Package() == q.snap.File.Package {
			return true
		}
		encl, ok := q.enclosingClassId()
		if !ok {
			return false
		}
		_, sub := q.snap.Store.AsSupertype(types.Class{Id: encl}, m.Owner)
		return sub
	default:
		return m.Owner.Package() == q.snap.File.Package
	}
}

func topLevelOf(id types.ClassId) types.ClassId {
	if i := strings.IndexByte(string(id), '$'); i >= 0 {
		return id[:i]
	}
	return id
}

func (q *completionQuery) enclosingClassId() (types.ClassId, bool) {
	ci := q.an.EnclosingClass(q.point)
	if ci < 0 {
		return "", false
	}
	name := q.an.Classes[ci].Name
	for i := range q.snap.File.Classes {
		if q.snap.File.Classes[i].Name == name {
			return types.ClassId(q.snap.File.Classes[i].BinaryName), true
		}
	}
	return "", false
}

// enclosingClassType is the instance type of the class enclosing the
// point, carrying its own type parameters as arguments.
func (q *completionQuery) enclosingClassType() (types.Class, bool) {
	id, ok := q.enclosingClassId()
	if !ok {
		return types.Class{}, false
	}
	cls := types.Class{Id: id}
	if ci := q.an.EnclosingClass(q.point); ci >= 0 {
		for _, tp := range q.an.Classes[ci].TypeParams {
			cls.Args = append(cls.Args, types.TypeVar{Name: tp})
		}
	}
	return cls, true
}

// ctxAtPoint is the file's import context extended with the type
// parameters in scope at the completion point.
func (q *completionQuery) ctxAtPoint() types.ResolveCtx {
	ctx := types.ContextOf(q.snap.File)
	var vars []string
	if ci := q.an.EnclosingClass(q.point); ci >= 0 {
		for k := ci; k >= 0 && k < len(q.an.Classes); k = q.an.Classes[k].Parent {
			vars = append(vars, q.an.Classes[k].TypeParams...)
		}
	}
	if mi := q.an.EnclosingMethod(q.point); mi >= 0 {
		vars = append(vars, q.an.Methods[mi].TypeParams...)
	}
	return ctx.WithTypeVars(vars)
}

// localCandidates offers the variables in scope at the point.
func (q *completionQuery) localCandidates() {
	for _, v := range q.an.VarsInScope(q.point) {
		t := q.in.VarType(v)
		detail := v.Name
		if !types.IsErrorish(t) {
			detail += ": " + types.Display(t)
		}
		q.add(rank.Candidate{
			Label:          v.Name,
			Kind:           rank.KindVariable,
			Detail:         detail,
			InScope:        true,
			NoImport:       true,
			Workspace:      true,
			TypeCompatible: q.compatible(t),
		})
	}
}

// paramCandidates offers the parameters of the enclosing method.
func (q *completionQuery) paramCandidates() {
	mi := q.an.EnclosingMethod(q.point)
	if mi < 0 {
		return
	}
	for _, p := range q.an.Methods[mi].Params {
		if p.Name == "" {
			continue
		}
		t := q.snap.Store.ResolveText(p.Type, q.ctx)
		detail := p.Name
		if !types.IsErrorish(t) {
			detail += ": " + types.Display(t)
		}
		q.add(rank.Candidate{
			Label:          p.Name,
			Kind:           rank.KindVariable,
			Detail:         detail,
			InScope:        true,
			NoImport:       true,
			Workspace:      true,
			TypeCompatible: q.compatible(t),
		})
	}
}

// enclosingMemberCandidates offers everything reachable on the
// enclosing class without a receiver, including inherited members.
func (q *completionQuery) enclosingMemberCandidates() {
	encl, ok := q.enclosingClassType()
	if !ok {
		return
	}
	for _, m := range q.snap.Store.MembersOf(encl, false) {
		if !q.accessible(m) {
			continue
		}
		cand := q.memberCandidate(m)
		cand.Direct = m.Owner == encl.Id
		q.add(cand)
	}
}

// staticImportCandidates offers members pulled in by the file's static
// imports.
func (q *completionQuery) staticImportCandidates() {
	for _, imp := range q.snap.File.StaticImports() {
		ownerPath, only := imp.Path, ""
		if !imp.Star {
			i := strings.LastIndexByte(imp.Path, '.')
			if i < 0 {
				continue
			}
			ownerPath, only = imp.Path[:i], imp.Path[i+1:]
		}
		owner, ok := q.snap.Store.Resolve(ownerPath, q.ctx).(types.Class)
		if !ok {
			continue
		}
		for _, m := range q.snap.Store.MembersOf(owner, true) {
			if m.Kind == types.MemberNested || (only != "" && m.Name != only) {
				continue
			}
			if !q.accessible(m) {
				continue
			}
			cand := q.memberCandidate(m)
			cand.Bump = rank.BumpStaticImport
			q.add(cand)
		}
	}
}

// classCandidates offers type names matching the prefix, with an import
// edit attached when accepting the name needs one. An empty prefix
// offers no types; the list would be all of them.
func (q *completionQuery) classCandidates() {
	if q.prefix == "" {
		return
	}
	for _, name := range q.snap.Store.ClassNamesWithPrefix(q.prefix, maxClassCandidates) {
		id := types.ClassId(name)
		simple := id.Simple()
		if simple == "" {
			continue
		}
		cand := rank.Candidate{
			Label:     simple,
			Kind:      rank.KindClass,
			Detail:    id.SourceName(),
			Workspace: q.snap.fromWorkspace(id),
		}
		q.applyImportFix(&cand, id)
		q.add(cand)
	}
}

// maxConstructorClasses bounds how many classes `new` completion
// expands into constructor candidates; each expansion may load a stub.
const maxConstructorClasses = 50

// constructorCandidates completes `new Prefix`: matching classes,
// inserted as constructor calls.
func (q *completionQuery) constructorCandidates() {
	for _, name := range q.snap.Store.ClassNamesWithPrefix(q.prefix, maxConstructorClasses) {
		id := types.ClassId(name)
		for _, ctor := range q.snap.Store.ConstructorsOf(id) {
			if !q.accessible(ctor) {
				continue
			}
			cand := q.memberCandidate(ctor)
			cand.Direct = true
			cand.NoImport = false
			q.applyImportFix(&cand, id)
			q.add(cand)
		}
	}
}

type importState int

const (
	importNeeded importState = iota
	importPresent
	importConflict
)

// applyImportFix sets the import signal of a type-name candidate: no
// edit when the name is already visible, an import edit when it can be
// added, a fully qualified insert when the simple name is taken.
func (q *completionQuery) applyImportFix(cand *rank.Candidate, id types.ClassId) {
	switch q.importStateOf(id) {
	case importPresent:
		cand.NoImport = true
	case importNeeded:
		at := importInsertOffset(q.snap.File)
		cand.Edits = []rank.Edit{importEdit(at, id)}
	case importConflict:
		if cand.InsertText == "" {
			cand.InsertText = id.SourceName()
		} else {
			cand.InsertText = id.SourceName() + strings.TrimPrefix(cand.InsertText, id.Simple())
		}
	}
}

func (q *completionQuery) importStateOf(id types.ClassId) importState {
	pkg := id.Package()
	if pkg == "" || pkg == "java.lang" || pkg == q.snap.File.Package {
		return importPresent
	}
	if got, ok := q.snap.File.SingleImports()[id.Simple()]; ok {
		if got == id.SourceName() {
			return importPresent
		}
		return importConflict
	}
	for _, star := range q.snap.File.StarImports() {
		if star == pkg {
			return importPresent
		}
	}
	return importNeeded
}

// importInsertOffset is where a new import directive goes: after the
// last import, else after the package directive, else the top of file.
func importInsertOffset(f *java.SourceFile) int {
	an := f.Analysis
	off := 0
	for i := 0; i < len(an.Tokens); i++ {
		tok := an.Tokens[i]
		if tok.Sym('{') {
			break
		}
		if tok.Is("package") || tok.Is("import") {
			for ; i < len(an.Tokens); i++ {
				if an.Tokens[i].Sym(';') {
					off = an.Tokens[i].Span.End.Offset
					break
				}
			}
		}
	}
	return off
}

func importEdit(at int, id types.ClassId) rank.Edit {
	text := "import " + id.SourceName() + ";\n"
	if at > 0 {
		text = "\nimport " + id.SourceName() + ";"
	}
	return rank.Edit{Start: at, End: at, Text: text}
}

// packageMemberCandidates completes `java.util.` style names that are
// not expressions: the classes of the package and its subpackages.
func (q *completionQuery) packageMemberCandidates(dot int) {
	pkg := q.dottedNameBefore(dot)
	if pkg == "" {
		return
	}
	seen := make(map[string]bool)
	for _, p := range q.snap.Store.Packages() {
		rest, ok := strings.CutPrefix(p, pkg+".")
		if !ok {
			continue
		}
		seg, _, _ := strings.Cut(rest, ".")
		if seg == "" || seen[seg] {
			continue
		}
		seen[seg] = true
		q.add(rank.Candidate{
			Label:    seg,
			Kind:     rank.KindPackage,
			Detail:   pkg + "." + seg,
			NoImport: true,
		})
	}
	for _, name := range q.snap.Store.ClassNamesWithPrefix(pkg+".", maxClassCandidates) {
		rest := name[len(pkg)+1:]
		if strings.ContainsAny(rest, ".$") {
			continue
		}
		q.add(rank.Candidate{
			Label:     rest,
			Kind:      rank.KindClass,
			Detail:    types.ClassId(name).SourceName(),
			NoImport:  true,
			Workspace: q.snap.fromWorkspace(types.ClassId(name)),
		})
	}
}

// packageRootCandidates offers the first segment of known packages, so
// fully qualified names can be typed through completion too.
func (q *completionQuery) packageRootCandidates() {
	if q.prefix == "" {
		return
	}
	seen := make(map[string]bool)
	for _, p := range q.snap.Store.Packages() {
		root, _, _ := strings.Cut(p, ".")
		if root == "" || seen[root] {
			continue
		}
		seen[root] = true
		q.add(rank.Candidate{
			Label:    root,
			Kind:     rank.KindPackage,
			NoImport: true,
		})
	}
}

// dottedNameBefore reads a plain dotted identifier chain ending right
// before the dot, such as "java.util". Anything with calls or brackets
// in it does not qualify.
func (q *completionQuery) dottedNameBefore(dot int) string {
	i := q.an.TokenEndingAt(dot)
	var parts []string
	for {
		tok := tokenAt(q.an, i)
		if tok.Kind != lexer.TokenIdent || java.IsStatementWord(tok.Literal) {
			return ""
		}
		parts = append(parts, tok.Literal)
		if !tokenAt(q.an, i-1).Sym('.') {
			break
		}
		i -= 2
	}
	for l, r := 0, len(parts)-1; l < r; l, r = l+1, r-1 {
		parts[l], parts[r] = parts[r], parts[l]
	}
	return strings.Join(parts, ".")
}

func tokenAt(an *java.Analysis, i int) lexer.Token {
	if i < 0 || i >= len(an.Tokens) {
		return lexer.Token{Kind: lexer.TokenEOF}
	}
	return an.Tokens[i]
}

// lambdaCandidate offers a lambda skeleton when the surrounding call
// expects a functional interface at the cursor's argument position.
func (q *completionQuery) lambdaCandidate() {
	if q.prefix != "" {
		return
	}
	for _, want := range q.expected {
		m, ok := functionalMethod(q.snap.Store, want)
		if !ok {
			continue
		}
		label, insert := lambdaSnippet(m)
		q.add(rank.Candidate{
			Label:          label,
			Kind:           rank.KindSnippet,
			Detail:         types.Display(want),
			InsertText:     insert,
			NoImport:       true,
			TypeCompatible: true,
			Bump:           rank.BumpLambdaSnippet,
		})
		return
	}
}

// functionalMethod returns the single abstract method of a functional
// interface type. Models that never mark abstractness, such as the
// built-in core model, fall back to counting declared instance methods.
func functionalMethod(s *types.Store, t types.Type) (*java.MethodModel, bool) {
	cls, ok := t.(types.Class)
	if !ok {
		return nil, false
	}
	def, found := s.Lookup(cls.Id)
	if !found || def.Model.Kind != java.KindInterface {
		return nil, false
	}
	var abstract, instance []*java.MethodModel
	for i := range def.Model.Methods {
		m := &def.Model.Methods[i]
		if m.IsStatic {
			continue
		}
		instance = append(instance, m)
		if m.IsAbstract {
			abstract = append(abstract, m)
		}
	}
	pick := abstract
	if len(pick) == 0 {
		pick = instance
	}
	if len(pick) != 1 {
		return nil, false
	}
	return pick[0], true
}

// lambdaSnippet renders a lambda skeleton matching the functional
// method's parameter list.
func lambdaSnippet(m *java.MethodModel) (label, insert string) {
	names := make([]string, len(m.Parameters))
	for i, p := range m.Parameters {
		names[i] = p.Name
		if names[i] == "" {
			names[i] = fmt.Sprintf("arg%d", i)
		}
	}
	head := "(" + strings.Join(names, ", ") + ")"
	if len(names) == 1 {
		head = names[0]
	}
	return head + " ->", head + " -> ${1}"
}

// javaKeywords are offered on every scope completion; the kind weight
// keeps them at the bottom unless nothing else matches the prefix.
var javaKeywords = []string{
	"abstract", "assert", "boolean", "break", "byte", "case", "catch",
	"char", "class", "continue", "default", "do", "double", "else",
	"enum", "extends", "false", "final", "finally", "float", "for",
	"if", "implements", "import", "instanceof", "int", "interface",
	"long", "native", "new", "null", "package", "private", "protected",
	"public", "record", "return", "sealed", "short", "static",
	"strictfp", "super", "switch", "synchronized", "this", "throw",
	"throws", "transient", "true", "try", "var", "void", "volatile",
	"while", "yield",
}

func (q *completionQuery) keywordCandidates() {
	for _, kw := range javaKeywords {
		q.add(rank.Candidate{
			Label:    kw,
			Kind:     rank.KindKeyword,
			NoImport: true,
		})
	}
}
