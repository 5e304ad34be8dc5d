package java

import (
	"strings"

	"github.com/dhamidi/jig/java/lexer"
)

type ClassKind string

const (
	KindClass      ClassKind = "class"
	KindInterface  ClassKind = "interface"
	KindEnum       ClassKind = "enum"
	KindRecord     ClassKind = "record"
	KindAnnotation ClassKind = "annotation"
)

type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityProtected Visibility = "protected"
	VisibilityPrivate   Visibility = "private"
	VisibilityPackage   Visibility = "package-private"
)

// ClassModel is the indexed view of a class declared in workspace source.
// Type references are stored as source text (e.g. "List<String>", "int[]")
// and resolved lazily by the type store.
type ClassModel struct {
	Package    string
	Name       string // simple name; nested classes use Outer.Inner
	BinaryName string // pkg.Outer$Inner
	Kind       ClassKind
	Visibility Visibility
	IsStatic   bool
	IsAbstract bool
	IsFinal    bool

	SuperClass string // type text, "" if none
	Interfaces []string
	TypeParams []string

	Fields       []FieldModel
	Methods      []MethodModel
	Constructors []MethodModel

	Javadoc string
	Span    lexer.Span
}

// SimpleName returns the last segment of a possibly nested name.
func (c *ClassModel) SimpleName() string {
	if i := strings.LastIndexByte(c.Name, '.'); i >= 0 {
		return c.Name[i+1:]
	}
	return c.Name
}

type FieldModel struct {
	Name       string
	Type       string // type text
	Visibility Visibility
	IsStatic   bool
	IsFinal    bool
	// IsEnumConstant marks the implicit constant fields of an enum, as
	// opposed to fields the enum declares itself.
	IsEnumConstant bool
	// Initializer is the source text of the initializer expression, if any.
	// Lets the engine infer types for fields declared with var.
	Initializer string
	Javadoc     string
	Span        lexer.Span
}

type MethodModel struct {
	Name          string
	ReturnType    string // type text, "void" for void, "" for constructors
	Parameters    []ParameterModel
	TypeParams    []string
	Visibility    Visibility
	IsStatic      bool
	IsAbstract    bool
	IsFinal       bool
	IsConstructor bool
	Javadoc       string
	Span          lexer.Span
}

// IsVarargs reports whether the final parameter is a varargs parameter.
func (m *MethodModel) IsVarargs() bool {
	if len(m.Parameters) == 0 {
		return false
	}
	return m.Parameters[len(m.Parameters)-1].IsVarargs
}

// Signature renders a human-readable signature for completion detail and
// signature help, e.g. "substring(beginIndex: int): String".
func (m *MethodModel) Signature() string {
	var sb strings.Builder
	sb.WriteString(m.Name)
	sb.WriteByte('(')
	for i, p := range m.Parameters {
		if i > 0 {
			sb.WriteString(", ")
		}
		if p.Name != "" {
			sb.WriteString(p.Name)
			sb.WriteString(": ")
		}
		sb.WriteString(p.Type)
		if p.IsVarargs {
			sb.WriteString("...")
		}
	}
	sb.WriteByte(')')
	if !m.IsConstructor && m.ReturnType != "" {
		sb.WriteString(": ")
		sb.WriteString(m.ReturnType)
	}
	return sb.String()
}

type ParameterModel struct {
	Name      string
	Type      string // type text; varargs recorded as element type + IsVarargs
	IsVarargs bool
}

// Import is one import directive.
type Import struct {
	Path   string // qualified name without the trailing .*
	Star   bool
	Static bool
}

// SourceFile is the fully extracted view of one workspace file: package and
// import directives plus the classes declared in it. The Analysis it was
// built from is retained so position queries do not re-scan.
type SourceFile struct {
	Path     string
	Package  string
	Imports  []Import
	Classes  []ClassModel
	Analysis *Analysis
}

// SingleImports returns a map from simple name to qualified name for
// non-star, non-static imports.
func (f *SourceFile) SingleImports() map[string]string {
	out := make(map[string]string)
	for _, imp := range f.Imports {
		if imp.Star || imp.Static {
			continue
		}
		if i := strings.LastIndexByte(imp.Path, '.'); i >= 0 {
			out[imp.Path[i+1:]] = imp.Path
		} else {
			out[imp.Path] = imp.Path
		}
	}
	return out
}

// StarImports returns the package prefixes of star imports.
func (f *SourceFile) StarImports() []string {
	var out []string
	for _, imp := range f.Imports {
		if imp.Star && !imp.Static {
			out = append(out, imp.Path)
		}
	}
	return out
}

// StaticImports returns static imports, both single and star.
func (f *SourceFile) StaticImports() []Import {
	var out []Import
	for _, imp := range f.Imports {
		if imp.Static {
			out = append(out, imp)
		}
	}
	return out
}

func visibilityOf(modifiers []string) Visibility {
	for _, m := range modifiers {
		switch m {
		case "public":
			return VisibilityPublic
		case "protected":
			return VisibilityProtected
		case "private":
			return VisibilityPrivate
		}
	}
	return VisibilityPackage
}

func hasModifier(modifiers []string, name string) bool {
	for _, m := range modifiers {
		if m == name {
			return true
		}
	}
	return false
}
