package types

import (
	"strings"
)

// Resolve binds a source-level type name in the given context. Simple
// names go through the Java shadowing order: type variables, then single
// imports, then the file's own package, then star imports, then
// java.lang, and finally a workspace class whose simple name is unique.
// Dotted names are tried as binary names, as nested classes of a
// resolvable head, and otherwise kept as written.
//
// Resolve never fails: a name that binds nowhere comes back as Named.
func (s *Store) Resolve(name string, ctx ResolveCtx) Type {
	name = strings.TrimSpace(name)
	if name == "" {
		return Unknown{}
	}
	if name == "void" {
		return Void{}
	}
	if k, ok := PrimitiveNamed(name); ok {
		return Primitive{Kind: k}
	}
	if strings.Contains(name, ".") {
		return s.resolveDotted(name, ctx)
	}
	return s.resolveSimple(name, ctx)
}

func (s *Store) resolveSimple(name string, ctx ResolveCtx) Type {
	if ctx.hasTypeVar(name) {
		return TypeVar{Name: name}
	}
	if fqn, ok := ctx.Single[name]; ok {
		return Class{Id: s.bindQualified(fqn)}
	}
	if ctx.Package != "" {
		if id := ClassId(ctx.Package + "." + name); s.Has(id) {
			return Class{Id: id}
		}
	} else if s.Has(ClassId(name)) {
		return Class{Id: ClassId(name)}
	}
	for _, pkg := range ctx.Stars {
		if id := ClassId(pkg + "." + name); s.Has(id) {
			return Class{Id: id}
		}
	}
	if id := ClassId("java.lang." + name); s.Has(id) {
		return Class{Id: id}
	}
	if id, ok := s.uniqueSimple(name); ok {
		return Class{Id: id}
	}
	return Named{Name: name}
}

func (s *Store) resolveDotted(name string, ctx ResolveCtx) Type {
	if id := ClassId(name); s.Has(id) {
		return Class{Id: id}
	}
	if id, ok := s.dollarVariant(name); ok {
		return Class{Id: id}
	}

	segs := strings.Split(name, ".")
	head := s.resolveSimple(segs[0], ctx)
	owner, ok := head.(Class)
	if !ok {
		return Named{Name: name}
	}
	id := owner.Id
	for i := 1; i < len(segs); i++ {
		cand := ClassId(string(id) + "$" + segs[i])
		if s.Has(cand) {
			id = cand
			continue
		}
		if i == len(segs)-1 {
			return VirtualInner{Owner: id, Name: segs[i]}
		}
		return Named{Name: name}
	}
	return Class{Id: id}
}

// dollarVariant turns trailing dots of a qualified name into '$' one at a
// time, looking for a binary name that exists: a.b.C.D is tried as
// a.b.C$D, then a.b$C$D, and so on.
func (s *Store) dollarVariant(name string) (ClassId, bool) {
	cand := name
	for {
		i := strings.LastIndexByte(cand, '.')
		if i < 0 {
			return "", false
		}
		cand = cand[:i] + "$" + cand[i+1:]
		if id := ClassId(cand); s.Has(id) {
			return id, true
		}
	}
}

// bindQualified maps an import path to a binary name, accepting the
// nested-class import form a.b.Outer.Inner. An unloadable path is kept
// as written; the import is still authoritative for the simple name.
func (s *Store) bindQualified(fqn string) ClassId {
	if id := ClassId(fqn); s.Has(id) {
		return id
	}
	if id, ok := s.dollarVariant(fqn); ok {
		return id
	}
	return ClassId(fqn)
}

// ResolveText parses a source-level type text such as
// "java.util.Map<String, Integer>[]" and resolves every name in it.
func (s *Store) ResolveText(text string, ctx ResolveCtx) Type {
	text = strings.TrimSpace(text)
	if text == "" || text == "var" {
		return Unknown{}
	}
	if strings.HasPrefix(text, "?") {
		return Wildcard{}
	}

	if parts := splitTop(text, '&'); len(parts) > 1 {
		inter := Intersection{Parts: make([]Type, len(parts))}
		for i, p := range parts {
			inter.Parts[i] = s.ResolveText(p, ctx)
		}
		return inter
	}

	if strings.HasSuffix(text, "...") {
		return Array{Elem: s.ResolveText(text[:len(text)-3], ctx)}
	}
	if strings.HasSuffix(text, "[]") {
		return Array{Elem: s.ResolveText(text[:len(text)-2], ctx)}
	}

	base := text
	var argTexts []string
	if i := strings.IndexByte(text, '<'); i >= 0 {
		if !strings.HasSuffix(text, ">") {
			return Named{Name: text}
		}
		base = strings.TrimSpace(text[:i])
		argTexts = splitTop(text[i+1:len(text)-1], ',')
	}

	t := s.Resolve(base, ctx)
	if len(argTexts) == 0 {
		return t
	}
	cls, ok := t.(Class)
	if !ok {
		// Unresolvable generic base: keep the whole text for display.
		if _, named := t.(Named); named {
			return Named{Name: text}
		}
		return t
	}
	cls.Args = make([]Type, len(argTexts))
	for i, at := range argTexts {
		cls.Args[i] = s.ResolveText(at, ctx)
	}
	return cls
}

// splitTop splits text at top-level occurrences of sep, ignoring
// separators nested inside angle brackets.
func splitTop(text string, sep byte) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '<':
			depth++
		case '>':
			if depth > 0 {
				depth--
			}
		case sep:
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(text[start:i]))
				start = i + 1
			}
		}
	}
	parts = append(parts, strings.TrimSpace(text[start:]))
	return parts
}
