package java

import (
	"sort"
	"strings"

	"github.com/dhamidi/jig/java/lexer"
)

// ParseSource builds the indexed view of one source file: package and import
// directives plus class models for every declared type, with javadoc
// attached. It never fails; broken input produces a partial view.
func ParseSource(src []byte, path string) *SourceFile {
	analysis := Analyze(src, path)
	return SourceFileFromAnalysis(analysis, path)
}

// SourceFileFromAnalysis converts an existing Analysis into the indexed
// view.
func SourceFileFromAnalysis(analysis *Analysis, path string) *SourceFile {
	f := &SourceFile{
		Path:     path,
		Analysis: analysis,
	}
	f.Package, f.Imports = scanDirectives(analysis.Tokens)

	docs := collectJavadocs(analysis)

	for ci := range analysis.Classes {
		c := &analysis.Classes[ci]
		model := ClassModel{
			Package:    f.Package,
			Name:       c.Name,
			BinaryName: binaryName(f.Package, c.Name),
			Kind:       c.Kind,
			Visibility: visibilityOf(c.Modifiers),
			IsStatic:   hasModifier(c.Modifiers, "static"),
			IsAbstract: hasModifier(c.Modifiers, "abstract"),
			IsFinal:    hasModifier(c.Modifiers, "final"),
			SuperClass: c.Extends,
			Interfaces: c.Implements,
			TypeParams: c.TypeParams,
			Javadoc:    docs.forClass(ci),
			Span:       classSpan(c),
		}

		for _, fd := range analysis.FieldsOf(ci) {
			model.Fields = append(model.Fields, FieldModel{
				Name:           fd.Name,
				Type:           fd.Type,
				Visibility:     visibilityOf(fd.Modifiers),
				IsStatic:       hasModifier(fd.Modifiers, "static"),
				IsFinal:        hasModifier(fd.Modifiers, "final"),
				IsEnumConstant: fd.EnumConstant,
				Initializer:    fd.Initializer,
				Javadoc:        docs.forField(fd),
				Span:           fd.NameSpan,
			})
		}

		for _, md := range analysis.MethodsOf(ci) {
			mm := MethodModel{
				Name:          md.Name,
				ReturnType:    md.ReturnType,
				Parameters:    md.Params,
				TypeParams:    md.TypeParams,
				Visibility:    methodVisibility(c, md.Modifiers),
				IsStatic:      hasModifier(md.Modifiers, "static"),
				IsAbstract:    methodAbstract(c, md),
				IsFinal:       hasModifier(md.Modifiers, "final"),
				IsConstructor: md.Constructor,
				Javadoc:       docs.forMethod(md),
				Span:          md.NameSpan,
			}
			if md.Constructor {
				model.Constructors = append(model.Constructors, mm)
			} else {
				model.Methods = append(model.Methods, mm)
			}
		}

		f.Classes = append(f.Classes, model)
	}
	return f
}

// binaryName joins nested source names with '$': pkg + Outer.Inner becomes
// pkg.Outer$Inner.
func binaryName(pkg, name string) string {
	bin := strings.ReplaceAll(name, ".", "$")
	if pkg == "" {
		return bin
	}
	return pkg + "." + bin
}

func classSpan(c *ClassDecl) lexer.Span {
	span := c.DeclSpan
	if c.BodySpan.Len() > 0 {
		span.End = c.BodySpan.End
	}
	return span
}

// Interface members without an access modifier are implicitly public.
func methodVisibility(c *ClassDecl, modifiers []string) Visibility {
	v := visibilityOf(modifiers)
	if v == VisibilityPackage && (c.Kind == KindInterface || c.Kind == KindAnnotation) {
		return VisibilityPublic
	}
	return v
}

func methodAbstract(c *ClassDecl, md *MethodDecl) bool {
	if hasModifier(md.Modifiers, "abstract") {
		return true
	}
	// Bodyless interface methods that are neither default nor static are
	// abstract.
	if (c.Kind == KindInterface || c.Kind == KindAnnotation) && !md.HasBody &&
		!hasModifier(md.Modifiers, "default") && !hasModifier(md.Modifiers, "static") {
		return true
	}
	return false
}

// scanDirectives reads the package declaration and import directives from
// the token stream at brace depth zero.
func scanDirectives(tokens []lexer.Token) (string, []Import) {
	pkg := ""
	var imports []Import
	depth := 0
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch {
		case tok.Sym('{'):
			depth++
		case tok.Sym('}'):
			if depth > 0 {
				depth--
			}
		case depth == 0 && tok.Is("package") && pkg == "":
			pkg, i = qualifiedName(tokens, i+1)
		case depth == 0 && tok.Is("import"):
			imp := Import{}
			j := i + 1
			if j < len(tokens) && tokens[j].Is("static") {
				imp.Static = true
				j++
			}
			imp.Path, j = qualifiedName(tokens, j)
			if strings.HasSuffix(imp.Path, ".*") {
				imp.Path = strings.TrimSuffix(imp.Path, ".*")
				imp.Star = true
			}
			if imp.Path != "" {
				imports = append(imports, imp)
			}
			i = j
		}
	}
	return pkg, imports
}

// qualifiedName reads `a.b.c` or `a.b.*` starting at index i and returns
// the joined text plus the index of the last consumed token.
func qualifiedName(tokens []lexer.Token, i int) (string, int) {
	var sb strings.Builder
	last := i - 1
	for i < len(tokens) {
		tok := tokens[i]
		switch {
		case tok.Kind == lexer.TokenIdent:
			sb.WriteString(tok.Literal)
		case tok.Sym('.'):
			sb.WriteByte('.')
		case tok.Sym('*'):
			sb.WriteByte('*')
			return sb.String(), i
		default:
			return sb.String(), last
		}
		last = i
		i++
	}
	return sb.String(), last
}

// javadocIndex maps declarations to their documentation comment. A javadoc
// belongs to the next declaration after it when only the declaration head
// (modifiers, annotations, type text) separates them.
type javadocIndex struct {
	classDocs  map[int]string
	fieldDocs  map[int]string // keyed by name-span start offset
	methodDocs map[int]string
}

func (d *javadocIndex) forClass(ci int) string { return d.classDocs[ci] }

func (d *javadocIndex) forField(fd *FieldDecl) string {
	return d.fieldDocs[fd.NameSpan.Start.Offset]
}

func (d *javadocIndex) forMethod(md *MethodDecl) string {
	return d.methodDocs[md.NameSpan.Start.Offset]
}

func collectJavadocs(an *Analysis) *javadocIndex {
	idx := &javadocIndex{
		classDocs:  make(map[int]string),
		fieldDocs:  make(map[int]string),
		methodDocs: make(map[int]string),
	}

	type declSite struct {
		offset int
		kind   int // 0 class, 1 field, 2 method
		index  int
	}
	var sites []declSite
	for i := range an.Classes {
		sites = append(sites, declSite{an.Classes[i].DeclSpan.Start.Offset, 0, i})
	}
	for i := range an.Fields {
		sites = append(sites, declSite{an.Fields[i].NameSpan.Start.Offset, 1, i})
	}
	for i := range an.Methods {
		sites = append(sites, declSite{an.Methods[i].NameSpan.Start.Offset, 2, i})
	}
	sort.Slice(sites, func(i, j int) bool { return sites[i].offset < sites[j].offset })

	for _, com := range an.Comments {
		if !com.Javadoc() {
			continue
		}
		end := com.Span.End.Offset
		pos := sort.Search(len(sites), func(i int) bool { return sites[i].offset >= end })
		if pos == len(sites) {
			continue
		}
		site := sites[pos]
		if !cleanGap(an.Source, end, site.offset) {
			continue
		}
		switch site.kind {
		case 0:
			idx.classDocs[site.index] = com.Text
		case 1:
			idx.fieldDocs[site.offset] = com.Text
		case 2:
			idx.methodDocs[site.offset] = com.Text
		}
	}
	return idx
}

// cleanGap reports whether the source between a comment and a declaration
// contains only declaration-head material, so the comment documents that
// declaration and not something farther away.
func cleanGap(src []byte, from, to int) bool {
	if from < 0 || to > len(src) || from > to {
		return false
	}
	for _, b := range src[from:to] {
		switch b {
		case ';', '{', '}':
			return false
		}
	}
	return true
}
