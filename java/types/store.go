package types

import (
	"sort"
	"strings"
	"sync"

	"github.com/dhamidi/jig/java"
)

// StubProvider supplies class definitions from outside the workspace,
// typically decoded from classfiles on a configured classpath.
//
// Implementations must be safe for concurrent use.
type StubProvider interface {
	// LookupType returns the class model for a binary name, or nil when
	// the provider does not know the class.
	LookupType(binaryName string) *java.ClassModel

	// ClassNamesWithPrefix returns binary names of classes whose simple
	// name starts with prefix. A prefix containing '.' or '$' is matched
	// against the binary name instead, which lets callers enumerate the
	// nested classes of an owner or the classes of a package.
	ClassNamesWithPrefix(prefix string, limit int) []string

	// Packages returns the package names known to the provider.
	Packages() []string
}

// LoadState tracks what the store knows about one binary name. A name
// moves NotLoaded -> Loading -> Loaded exactly once; Loaded covers both
// "definition present" and "definitively absent", so empty marker
// interfaces are never re-requested.
type LoadState int

const (
	NotLoaded LoadState = iota
	Loading
	Loaded
)

// ResolveCtx is the import context a type name is resolved in: the
// declaring file's package, its imports, and any type variables in scope.
type ResolveCtx struct {
	Package  string
	Single   map[string]string
	Stars    []string
	Statics  []java.Import
	TypeVars []string
}

// ContextOf builds the resolve context of a parsed source file.
func ContextOf(f *java.SourceFile) ResolveCtx {
	if f == nil {
		return ResolveCtx{}
	}
	return ResolveCtx{
		Package: f.Package,
		Single:  f.SingleImports(),
		Stars:   f.StarImports(),
		Statics: f.StaticImports(),
	}
}

// WithTypeVars returns a copy of the context with additional type
// variables in scope. Type variables shadow classes of the same name.
func (c ResolveCtx) WithTypeVars(names []string) ResolveCtx {
	if len(names) == 0 {
		return c
	}
	vars := make([]string, 0, len(c.TypeVars)+len(names))
	vars = append(vars, c.TypeVars...)
	vars = append(vars, names...)
	c.TypeVars = vars
	return c
}

func (c ResolveCtx) hasTypeVar(name string) bool {
	for _, v := range c.TypeVars {
		if v == name {
			return true
		}
	}
	return false
}

// ClassDef is a class definition held by the store, together with the
// context its member type texts must be resolved in.
type ClassDef struct {
	Id     ClassId
	Model  *java.ClassModel
	Ctx    ResolveCtx
	Origin string
}

// MemberCtx is the context for resolving the declared types of this
// class's members: the defining file's imports plus the class's own type
// parameters.
func (d *ClassDef) MemberCtx() ResolveCtx {
	return d.Ctx.WithTypeVars(d.Model.TypeParams)
}

// Store indexes class definitions from workspace sources, a stub
// provider, and a built-in core library model, in that order of
// precedence. Classes outside the workspace load lazily the first time a
// resolution touches them.
type Store struct {
	mu       sync.Mutex
	provider StubProvider

	classes  map[ClassId]*ClassDef
	state    map[ClassId]LoadState
	builtin  map[ClassId]*ClassDef
	bySimple map[string]map[ClassId]bool
	byPath   map[string][]ClassId
	nested   map[ClassId][]ClassId
	packages map[string]bool
}

// NewStore returns a store backed by the given provider. A nil provider
// is allowed; the store then serves workspace classes and the built-in
// core model only.
func NewStore(provider StubProvider) *Store {
	s := &Store{
		provider: provider,
		classes:  make(map[ClassId]*ClassDef),
		state:    make(map[ClassId]LoadState),
		builtin:  make(map[ClassId]*ClassDef),
		bySimple: make(map[string]map[ClassId]bool),
		byPath:   make(map[string][]ClassId),
		nested:   make(map[ClassId][]ClassId),
		packages: make(map[string]bool),
	}
	for _, def := range builtinDefs() {
		s.builtin[def.Id] = def
	}
	return s
}

// Clone returns a request-private copy of the store. Definitions are
// immutable and stay shared; the index maps are copied, so lazy loads
// and source updates on either side never show through to the other.
func (s *Store) Clone() *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := &Store{
		provider: s.provider,
		classes:  make(map[ClassId]*ClassDef, len(s.classes)),
		state:    make(map[ClassId]LoadState, len(s.state)),
		builtin:  s.builtin,
		bySimple: make(map[string]map[ClassId]bool, len(s.bySimple)),
		byPath:   make(map[string][]ClassId, len(s.byPath)),
		nested:   make(map[ClassId][]ClassId, len(s.nested)),
		packages: make(map[string]bool, len(s.packages)),
	}
	for id, def := range s.classes {
		c.classes[id] = def
	}
	for id, st := range s.state {
		c.state[id] = st
	}
	for simple, set := range s.bySimple {
		dup := make(map[ClassId]bool, len(set))
		for id := range set {
			dup[id] = true
		}
		c.bySimple[simple] = dup
	}
	for path, ids := range s.byPath {
		c.byPath[path] = append([]ClassId(nil), ids...)
	}
	for owner, ids := range s.nested {
		c.nested[owner] = append([]ClassId(nil), ids...)
	}
	for pkg := range s.packages {
		c.packages[pkg] = true
	}
	return c
}

// AddSource indexes every class declared in a parsed file, replacing
// whatever the store previously held for the same path.
func (s *Store) AddSource(f *java.SourceFile) {
	if f == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeLocked(f.Path)
	ctx := ContextOf(f)
	if f.Package != "" {
		s.packages[f.Package] = true
	}
	for i := range f.Classes {
		model := &f.Classes[i]
		id := ClassId(model.BinaryName)
		def := &ClassDef{Id: id, Model: model, Ctx: ctx, Origin: f.Path}
		s.classes[id] = def
		s.state[id] = Loaded
		s.byPath[f.Path] = append(s.byPath[f.Path], id)

		simple := model.SimpleName()
		if s.bySimple[simple] == nil {
			s.bySimple[simple] = make(map[ClassId]bool)
		}
		s.bySimple[simple][id] = true

		if j := strings.LastIndexByte(string(id), '$'); j >= 0 {
			owner := id[:j]
			s.nested[owner] = append(s.nested[owner], id)
		}
	}
}

// RemoveSource drops every class the store indexed from the given path.
func (s *Store) RemoveSource(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(path)
}

func (s *Store) removeLocked(path string) {
	ids := s.byPath[path]
	if len(ids) == 0 {
		return
	}
	delete(s.byPath, path)
	for _, id := range ids {
		def := s.classes[id]
		if def == nil || def.Origin != path {
			continue
		}
		delete(s.classes, id)
		delete(s.state, id)

		simple := id.Simple()
		if set := s.bySimple[simple]; set != nil {
			delete(set, id)
			if len(set) == 0 {
				delete(s.bySimple, simple)
			}
		}
		if j := strings.LastIndexByte(string(id), '$'); j >= 0 {
			owner := id[:j]
			kept := s.nested[owner][:0]
			for _, n := range s.nested[owner] {
				if n != id {
					kept = append(kept, n)
				}
			}
			if len(kept) == 0 {
				delete(s.nested, owner)
			} else {
				s.nested[owner] = kept
			}
		}
	}
}

// Lookup returns the definition for a binary name. The first lookup of a
// name outside the workspace consults the stub provider; the outcome,
// present or absent, is remembered.
func (s *Store) Lookup(id ClassId) (*ClassDef, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookupLocked(id)
}

func (s *Store) lookupLocked(id ClassId) (*ClassDef, bool) {
	if def, ok := s.classes[id]; ok {
		return def, true
	}
	switch s.state[id] {
	case Loading:
		return nil, false
	case Loaded:
		if def, ok := s.builtin[id]; ok {
			return def, true
		}
		return nil, false
	}

	s.state[id] = Loading
	var model *java.ClassModel
	if s.provider != nil {
		model = s.provider.LookupType(string(id))
	}
	s.state[id] = Loaded
	if model != nil {
		def := &ClassDef{Id: id, Model: model, Ctx: ResolveCtx{Package: model.Package}}
		s.classes[id] = def
		return def, true
	}
	if def, ok := s.builtin[id]; ok {
		return def, true
	}
	return nil, false
}

// Has reports whether a binary name is known, loading it if necessary.
func (s *Store) Has(id ClassId) bool {
	_, ok := s.Lookup(id)
	return ok
}

// State returns the load state recorded for a binary name.
func (s *Store) State(id ClassId) LoadState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.classes[id]; ok {
		return Loaded
	}
	return s.state[id]
}

// ClassNamesWithPrefix merges class name candidates from the workspace,
// the provider, and the built-in model. See StubProvider for how the
// prefix is interpreted.
func (s *Store) ClassNamesWithPrefix(prefix string, limit int) []string {
	qualified := strings.ContainsAny(prefix, ".$")
	seen := make(map[string]bool)
	var names []string
	add := func(name, simple string) {
		if qualified {
			if !strings.HasPrefix(name, prefix) {
				return
			}
		} else if !strings.HasPrefix(simple, prefix) {
			return
		}
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	s.mu.Lock()
	for id, def := range s.classes {
		add(string(id), def.Model.SimpleName())
	}
	for id, def := range s.builtin {
		add(string(id), def.Model.SimpleName())
	}
	s.mu.Unlock()

	if s.provider != nil {
		for _, name := range s.provider.ClassNamesWithPrefix(prefix, limit) {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	if limit > 0 && len(names) > limit {
		names = names[:limit]
	}
	return names
}

// Packages returns every known package name, sorted.
func (s *Store) Packages() []string {
	seen := make(map[string]bool)
	s.mu.Lock()
	for pkg := range s.packages {
		seen[pkg] = true
	}
	for id := range s.builtin {
		if pkg := id.Package(); pkg != "" {
			seen[pkg] = true
		}
	}
	s.mu.Unlock()
	if s.provider != nil {
		for _, pkg := range s.provider.Packages() {
			seen[pkg] = true
		}
	}
	pkgs := make([]string, 0, len(seen))
	for pkg := range seen {
		pkgs = append(pkgs, pkg)
	}
	sort.Strings(pkgs)
	return pkgs
}

// NestedOf returns the known nested classes of an owner, sorted by name.
func (s *Store) NestedOf(owner ClassId) []ClassId {
	seen := make(map[ClassId]bool)
	var ids []ClassId
	s.mu.Lock()
	for _, id := range s.nested[owner] {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	prefix := string(owner) + "$"
	for id := range s.builtin {
		if strings.HasPrefix(string(id), prefix) && !strings.Contains(string(id)[len(prefix):], "$") && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	s.mu.Unlock()
	if s.provider != nil {
		for _, name := range s.provider.ClassNamesWithPrefix(prefix, 0) {
			id := ClassId(name)
			if !strings.Contains(name[len(prefix):], "$") && !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// uniqueSimple returns the only workspace class with the given simple
// name, or false when the name is absent or ambiguous.
func (s *Store) uniqueSimple(name string) (ClassId, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := s.bySimple[name]
	if len(set) != 1 {
		return "", false
	}
	for id := range set {
		return id, true
	}
	return "", false
}
