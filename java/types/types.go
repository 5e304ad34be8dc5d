// Package types models Java types and resolves source-level type names
// against a store of class definitions. Types form a small closed set of
// shapes; anything the resolver cannot bind stays representable instead of
// failing, so callers always get a value they can render or walk.
package types

import (
	"strings"
)

// ClassId is the binary name of a class, with '$' separating nested
// classes: "java.util.Map$Entry".
type ClassId string

// Simple returns the bare class name without package or enclosing classes.
func (id ClassId) Simple() string {
	s := string(id)
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		s = s[i+1:]
	}
	if i := strings.LastIndexByte(s, '$'); i >= 0 {
		s = s[i+1:]
	}
	return s
}

// Package returns the package portion of the binary name, or "".
func (id ClassId) Package() string {
	s := string(id)
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		return s[:i]
	}
	return ""
}

// SourceName returns the name as written in source, with '$' turned back
// into '.': "java.util.Map$Entry" becomes "java.util.Map.Entry".
func (id ClassId) SourceName() string {
	return strings.ReplaceAll(string(id), "$", ".")
}

// Type is one of the variants declared in this file. The zero-information
// variants Unknown and Error absorb failures: operations on them produce
// more Unknown values rather than Go errors.
type Type interface {
	String() string
	isType()
}

// PrimitiveKind names one of the eight Java primitive types.
type PrimitiveKind string

const (
	Boolean PrimitiveKind = "boolean"
	Byte    PrimitiveKind = "byte"
	Short   PrimitiveKind = "short"
	Char    PrimitiveKind = "char"
	Int     PrimitiveKind = "int"
	Long    PrimitiveKind = "long"
	Float   PrimitiveKind = "float"
	Double  PrimitiveKind = "double"
)

// Primitive is a primitive type such as int or boolean.
type Primitive struct {
	Kind PrimitiveKind
}

// Void is the return type of void methods.
type Void struct{}

// Null is the type of the null literal. It is assignable to any reference
// type.
type Null struct{}

// Class is a reference to a known class, possibly with type arguments.
type Class struct {
	Id   ClassId
	Args []Type
}

// Array is a Java array type.
type Array struct {
	Elem Type
}

// Named is a type reference that did not resolve to a known class. The
// original text is kept so the type still renders the way it was written.
type Named struct {
	Name string
}

// TypeVar is a reference to a type parameter such as T or E.
type TypeVar struct {
	Name string
}

// Wildcard is an unbounded or bounded wildcard type argument. Bounds are
// not tracked.
type Wildcard struct{}

// Intersection is a type of the form A & B, as in cast expressions and
// type parameter bounds.
type Intersection struct {
	Parts []Type
}

// VirtualInner refers to a nested class through its owner before the
// nested class itself has been loaded. Owner$Name may load later.
type VirtualInner struct {
	Owner ClassId
	Name  string
}

// Unknown means inference could not determine a type. It never carries a
// reason; it exists so expression walks can continue past gaps.
type Unknown struct{}

// Error means resolution failed in a way that should not be retried.
type Error struct{}

func (Primitive) isType()    {}
func (Void) isType()         {}
func (Null) isType()         {}
func (Class) isType()        {}
func (Array) isType()        {}
func (Named) isType()        {}
func (TypeVar) isType()      {}
func (Wildcard) isType()     {}
func (Intersection) isType() {}
func (VirtualInner) isType() {}
func (Unknown) isType()      {}
func (Error) isType()        {}

func (t Primitive) String() string { return string(t.Kind) }
func (Void) String() string        { return "void" }
func (Null) String() string        { return "null" }

func (t Class) String() string {
	if len(t.Args) == 0 {
		return string(t.Id)
	}
	var sb strings.Builder
	sb.WriteString(string(t.Id))
	sb.WriteByte('<')
	for i, a := range t.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(a.String())
	}
	sb.WriteByte('>')
	return sb.String()
}

func (t Array) String() string {
	if t.Elem == nil {
		return "[]"
	}
	return t.Elem.String() + "[]"
}

func (t Named) String() string   { return t.Name }
func (t TypeVar) String() string { return t.Name }
func (Wildcard) String() string  { return "?" }

func (t Intersection) String() string {
	parts := make([]string, len(t.Parts))
	for i, p := range t.Parts {
		parts[i] = p.String()
	}
	return strings.Join(parts, " & ")
}

func (t VirtualInner) String() string {
	return t.Owner.SourceName() + "." + t.Name
}

func (Unknown) String() string { return "unknown" }
func (Error) String() string   { return "error" }

// Display renders a type with simple class names, the way completion and
// hover text show it: "List<String>" instead of "java.util.List<String>".
func Display(t Type) string {
	switch t := t.(type) {
	case Class:
		if len(t.Args) == 0 {
			return t.Id.Simple()
		}
		var sb strings.Builder
		sb.WriteString(t.Id.Simple())
		sb.WriteByte('<')
		for i, a := range t.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(Display(a))
		}
		sb.WriteByte('>')
		return sb.String()
	case Array:
		if t.Elem == nil {
			return "[]"
		}
		return Display(t.Elem) + "[]"
	case Intersection:
		parts := make([]string, len(t.Parts))
		for i, p := range t.Parts {
			parts[i] = Display(p)
		}
		return strings.Join(parts, " & ")
	case VirtualInner:
		return t.Owner.Simple() + "." + t.Name
	case Named:
		if i := strings.LastIndexByte(t.Name, '.'); i >= 0 && i+1 < len(t.Name) {
			return t.Name[i+1:]
		}
		return t.Name
	case nil:
		return "unknown"
	default:
		return t.String()
	}
}

// IsErrorish reports whether t is Unknown or Error. Operations that walk
// types short-circuit on errorish input instead of compounding guesses.
func IsErrorish(t Type) bool {
	switch t.(type) {
	case Unknown, Error, nil:
		return true
	}
	return false
}

// Same reports structural equality of two types.
func Same(a, b Type) bool {
	switch a := a.(type) {
	case Primitive:
		b, ok := b.(Primitive)
		return ok && a.Kind == b.Kind
	case Void:
		_, ok := b.(Void)
		return ok
	case Null:
		_, ok := b.(Null)
		return ok
	case Class:
		bc, ok := b.(Class)
		if !ok || a.Id != bc.Id || len(a.Args) != len(bc.Args) {
			return false
		}
		for i := range a.Args {
			if !Same(a.Args[i], bc.Args[i]) {
				return false
			}
		}
		return true
	case Array:
		b, ok := b.(Array)
		return ok && Same(a.Elem, b.Elem)
	case Named:
		b, ok := b.(Named)
		return ok && a.Name == b.Name
	case TypeVar:
		b, ok := b.(TypeVar)
		return ok && a.Name == b.Name
	case Wildcard:
		_, ok := b.(Wildcard)
		return ok
	case Intersection:
		bi, ok := b.(Intersection)
		if !ok || len(a.Parts) != len(bi.Parts) {
			return false
		}
		for i := range a.Parts {
			if !Same(a.Parts[i], bi.Parts[i]) {
				return false
			}
		}
		return true
	case VirtualInner:
		b, ok := b.(VirtualInner)
		return ok && a.Owner == b.Owner && a.Name == b.Name
	case Unknown:
		_, ok := b.(Unknown)
		return ok
	case Error:
		_, ok := b.(Error)
		return ok
	}
	return a == nil && b == nil
}

// Substitute replaces type variables by name according to bind. Unbound
// variables are left alone.
func Substitute(t Type, bind map[string]Type) Type {
	if len(bind) == 0 || t == nil {
		return t
	}
	switch t := t.(type) {
	case TypeVar:
		if r, ok := bind[t.Name]; ok && r != nil {
			return r
		}
		return t
	case Class:
		if len(t.Args) == 0 {
			return t
		}
		args := make([]Type, len(t.Args))
		for i, a := range t.Args {
			args[i] = Substitute(a, bind)
		}
		return Class{Id: t.Id, Args: args}
	case Array:
		return Array{Elem: Substitute(t.Elem, bind)}
	case Intersection:
		parts := make([]Type, len(t.Parts))
		for i, p := range t.Parts {
			parts[i] = Substitute(p, bind)
		}
		return Intersection{Parts: parts}
	default:
		return t
	}
}

var primitiveKinds = map[string]PrimitiveKind{
	"boolean": Boolean,
	"byte":    Byte,
	"short":   Short,
	"char":    Char,
	"int":     Int,
	"long":    Long,
	"float":   Float,
	"double":  Double,
}

// PrimitiveNamed returns the primitive kind for a source-level name, if
// the name is one of the eight primitives.
func PrimitiveNamed(name string) (PrimitiveKind, bool) {
	k, ok := primitiveKinds[name]
	return k, ok
}

// IsNumeric reports whether the kind participates in numeric widening.
func (k PrimitiveKind) IsNumeric() bool {
	return k != Boolean
}
