package types

import (
	"github.com/dhamidi/jig/java"
)

// MemberKind says what a Member is.
type MemberKind int

const (
	MemberField MemberKind = iota
	MemberEnumConstant
	MemberMethod
	MemberConstructor
	MemberNested
)

// Member is one field, method, constructor, enum constant, or nested
// class reachable on a receiver type, with its declared type already
// resolved and substituted for the receiver's type arguments.
type Member struct {
	Kind       MemberKind
	Name       string
	Owner      ClassId
	Type       Type
	Static     bool
	Visibility java.Visibility
	Javadoc    string

	// Method is set for MemberMethod and MemberConstructor, and Params
	// holds its parameter types resolved in the declaring context.
	Method *java.MethodModel
	Params []Type
	// Field is set for MemberField and MemberEnumConstant.
	Field *java.FieldModel
	// Nested is set for MemberNested.
	Nested ClassId
}

// Detail renders the member the way completion items and hover text show
// it: "size(): int", "length: int", "Entry".
func (m Member) Detail() string {
	switch m.Kind {
	case MemberMethod, MemberConstructor:
		sig := m.Name + "("
		for i, p := range m.Method.Parameters {
			if i > 0 {
				sig += ", "
			}
			sig += p.Name + ": " + p.Type
			if p.IsVarargs {
				sig += "..."
			}
		}
		sig += ")"
		if m.Kind == MemberMethod {
			sig += ": " + Display(m.Type)
		}
		return sig
	case MemberNested:
		return m.Nested.Simple()
	default:
		return m.Name + ": " + Display(m.Type)
	}
}

// Arity returns the number of declared parameters for method-like
// members and -1 otherwise.
func (m Member) Arity() int {
	if m.Method == nil {
		return -1
	}
	return len(m.Method.Parameters)
}

const memberWalkDepth = 32

// MembersOf enumerates the members reachable on a receiver type. With
// static set, the receiver is a type reference and the result narrows to
// static members plus nested classes. Walk order is the declaration
// order of the receiver class, then its superclass chain, then its
// interfaces; overriding members hide inherited ones.
func (s *Store) MembersOf(t Type, static bool) []Member {
	w := &memberWalk{store: s, static: static, visited: make(map[ClassId]bool)}
	switch t := t.(type) {
	case Class:
		w.collect(t.Id, t.Args, memberWalkDepth)
		if !static {
			w.collect(objectId, nil, 1)
		}
	case Array:
		return s.arrayMembers(t, static)
	case TypeVar, Wildcard:
		if !static {
			w.collect(objectId, nil, memberWalkDepth)
		}
	case Intersection:
		for _, p := range t.Parts {
			if c, ok := p.(Class); ok {
				w.collect(c.Id, c.Args, memberWalkDepth)
			}
		}
		if !static {
			w.collect(objectId, nil, 1)
		}
	case VirtualInner:
		id := ClassId(string(t.Owner) + "$" + t.Name)
		if s.Has(id) {
			return s.MembersOf(Class{Id: id}, static)
		}
	}
	return w.members
}

// FieldNamed finds a field or enum constant by name on a receiver type.
func (s *Store) FieldNamed(t Type, name string, static bool) (Member, bool) {
	for _, m := range s.MembersOf(t, static) {
		if m.Name == name && (m.Kind == MemberField || m.Kind == MemberEnumConstant) {
			return m, true
		}
	}
	return Member{}, false
}

// MethodsNamed finds all methods with the given name on a receiver type.
func (s *Store) MethodsNamed(t Type, name string, static bool) []Member {
	var out []Member
	for _, m := range s.MembersOf(t, static) {
		if m.Name == name && m.Kind == MemberMethod {
			out = append(out, m)
		}
	}
	return out
}

// ConstructorsOf returns the constructors of a class. A class that
// declares none gets the implicit no-argument constructor.
func (s *Store) ConstructorsOf(id ClassId) []Member {
	def, ok := s.Lookup(id)
	if !ok {
		return nil
	}
	ctx := def.MemberCtx()
	var out []Member
	for i := range def.Model.Constructors {
		ctor := &def.Model.Constructors[i]
		cctx := ctx.WithTypeVars(ctor.TypeParams)
		out = append(out, Member{
			Kind:       MemberConstructor,
			Name:       def.Model.SimpleName(),
			Owner:      id,
			Type:       Class{Id: id},
			Visibility: ctor.Visibility,
			Javadoc:    ctor.Javadoc,
			Method:     ctor,
			Params:     s.paramTypes(ctor, cctx, nil),
		})
	}
	if len(out) == 0 && def.Model.Kind == java.KindClass {
		out = append(out, Member{
			Kind:       MemberConstructor,
			Name:       def.Model.SimpleName(),
			Owner:      id,
			Type:       Class{Id: id},
			Visibility: java.VisibilityPublic,
			Method:     &java.MethodModel{Name: def.Model.SimpleName(), IsConstructor: true},
		})
	}
	return out
}

const objectId = ClassId("java.lang.Object")

type memberWalk struct {
	store   *Store
	static  bool
	visited map[ClassId]bool
	fields  map[string]bool
	methods map[string]map[int]bool
	members []Member
}

func (w *memberWalk) collect(id ClassId, args []Type, depth int) {
	if depth <= 0 || id == "" || w.visited[id] {
		return
	}
	w.visited[id] = true
	def, ok := w.store.Lookup(id)
	if !ok {
		return
	}
	if w.fields == nil {
		w.fields = make(map[string]bool)
		w.methods = make(map[string]map[int]bool)
	}

	model := def.Model
	ctx := def.MemberCtx()
	bind := bindArgs(model.TypeParams, args)

	for i := range model.Fields {
		f := &model.Fields[i]
		if w.static && !f.IsStatic {
			continue
		}
		if w.fields[f.Name] {
			continue
		}
		w.fields[f.Name] = true
		kind := MemberField
		if f.IsEnumConstant {
			kind = MemberEnumConstant
		}
		w.members = append(w.members, Member{
			Kind:       kind,
			Name:       f.Name,
			Owner:      id,
			Type:       Substitute(w.store.ResolveText(f.Type, ctx), bind),
			Static:     f.IsStatic,
			Visibility: f.Visibility,
			Javadoc:    f.Javadoc,
			Field:      f,
		})
	}

	for i := range model.Methods {
		m := &model.Methods[i]
		if w.static && !m.IsStatic {
			continue
		}
		if w.seenMethod(m.Name, len(m.Parameters)) {
			continue
		}
		mctx := ctx.WithTypeVars(m.TypeParams)
		w.members = append(w.members, Member{
			Kind:       MemberMethod,
			Name:       m.Name,
			Owner:      id,
			Type:       Substitute(w.store.ResolveText(m.ReturnType, mctx), bind),
			Static:     m.IsStatic,
			Visibility: m.Visibility,
			Javadoc:    m.Javadoc,
			Method:     m,
			Params:     w.store.paramTypes(m, mctx, bind),
		})
	}

	if model.Kind == java.KindEnum {
		w.enumImplicits(id, model)
	}
	if w.static {
		for _, nid := range w.store.NestedOf(id) {
			w.members = append(w.members, Member{
				Kind:   MemberNested,
				Name:   nid.Simple(),
				Owner:  id,
				Type:   Class{Id: nid},
				Static: true,
				Nested: nid,
			})
		}
	}

	super := model.SuperClass
	if super == "" && model.Kind == java.KindEnum {
		super = "java.lang.Enum"
	}
	if super != "" {
		if st, ok := Substitute(w.store.ResolveText(super, ctx), bind).(Class); ok {
			w.collect(st.Id, st.Args, depth-1)
		}
	}
	for _, iface := range model.Interfaces {
		if it, ok := Substitute(w.store.ResolveText(iface, ctx), bind).(Class); ok {
			w.collect(it.Id, it.Args, depth-1)
		}
	}
}

// enumImplicits adds the values() and valueOf(String) methods every enum
// declares implicitly.
func (w *memberWalk) enumImplicits(id ClassId, model *java.ClassModel) {
	simple := model.SimpleName()
	if !w.seenMethod("values", 0) {
		m := &java.MethodModel{
			Name: "values", ReturnType: simple + "[]",
			Visibility: java.VisibilityPublic, IsStatic: true,
		}
		w.members = append(w.members, Member{
			Kind: MemberMethod, Name: "values", Owner: id,
			Type: Array{Elem: Class{Id: id}}, Static: true,
			Visibility: java.VisibilityPublic, Method: m,
		})
	}
	if !w.seenMethod("valueOf", 1) {
		m := &java.MethodModel{
			Name: "valueOf", ReturnType: simple,
			Parameters: []java.ParameterModel{{Name: "name", Type: "String"}},
			Visibility: java.VisibilityPublic, IsStatic: true,
		}
		w.members = append(w.members, Member{
			Kind: MemberMethod, Name: "valueOf", Owner: id,
			Type: Class{Id: id}, Static: true,
			Visibility: java.VisibilityPublic, Method: m,
			Params:     []Type{Class{Id: "java.lang.String"}},
		})
	}
}

// paramTypes resolves a method's declared parameter types. Varargs
// parameters resolve to their element type; the flag on the parameter
// model says how the last one binds.
func (s *Store) paramTypes(m *java.MethodModel, ctx ResolveCtx, bind map[string]Type) []Type {
	if len(m.Parameters) == 0 {
		return nil
	}
	out := make([]Type, len(m.Parameters))
	for i, p := range m.Parameters {
		out[i] = Substitute(s.ResolveText(p.Type, ctx), bind)
	}
	return out
}

func (w *memberWalk) seenMethod(name string, arity int) bool {
	arities := w.methods[name]
	if arities == nil {
		arities = make(map[int]bool)
		w.methods[name] = arities
	}
	if arities[arity] {
		return true
	}
	arities[arity] = true
	return false
}

// arrayMembers synthesizes the members of an array type: the length
// field, the covariant clone method, and everything from Object.
func (s *Store) arrayMembers(t Array, static bool) []Member {
	if static {
		return nil
	}
	elem := "Object"
	if t.Elem != nil {
		elem = t.Elem.String()
	}
	members := []Member{
		{
			Kind: MemberField, Name: "length",
			Type:       Primitive{Kind: Int},
			Visibility: java.VisibilityPublic,
			Field:      &java.FieldModel{Name: "length", Type: "int", IsFinal: true},
		},
		{
			Kind: MemberMethod, Name: "clone",
			Type:       t,
			Visibility: java.VisibilityPublic,
			Method:     &java.MethodModel{Name: "clone", ReturnType: elem + "[]"},
		},
	}
	return append(members, s.MembersOf(Class{Id: objectId}, false)...)
}

// SuperclassOf resolves the direct superclass of cls with the
// receiver's type arguments substituted in. Classes without an extends
// clause, and classes the store cannot see, report java.lang.Object.
func (s *Store) SuperclassOf(cls Class) Class {
	def, ok := s.Lookup(cls.Id)
	if !ok {
		return Class{Id: objectId}
	}
	super := def.Model.SuperClass
	if super == "" {
		if def.Model.Kind == java.KindEnum {
			return Class{Id: "java.lang.Enum", Args: []Type{cls}}
		}
		return Class{Id: objectId}
	}
	bind := bindArgs(def.Model.TypeParams, cls.Args)
	if st, ok := Substitute(s.ResolveText(super, def.MemberCtx()), bind).(Class); ok {
		return st
	}
	return Class{Id: objectId}
}

// AsSupertype walks the supertype graph of cls looking for target,
// carrying type-argument substitution along so that, for example, an
// ArrayList<String> is seen as an Iterable<String>.
func (s *Store) AsSupertype(cls Class, target ClassId) (Class, bool) {
	if cls.Id == target {
		return cls, true
	}
	visited := make(map[ClassId]bool)
	return s.supertypeWalk(cls, target, visited, subtypeWalkDepth)
}

func (s *Store) supertypeWalk(cls Class, target ClassId, visited map[ClassId]bool, depth int) (Class, bool) {
	if depth <= 0 || cls.Id == "" || visited[cls.Id] {
		return Class{}, false
	}
	visited[cls.Id] = true
	def, ok := s.Lookup(cls.Id)
	if !ok {
		return Class{}, false
	}
	ctx := def.MemberCtx()
	bind := bindArgs(def.Model.TypeParams, cls.Args)
	try := func(text string) (Class, bool) {
		st, ok := Substitute(s.ResolveText(text, ctx), bind).(Class)
		if !ok {
			return Class{}, false
		}
		if st.Id == target {
			return st, true
		}
		return s.supertypeWalk(st, target, visited, depth-1)
	}
	if def.Model.SuperClass != "" {
		if st, ok := try(def.Model.SuperClass); ok {
			return st, true
		}
	}
	for _, iface := range def.Model.Interfaces {
		if st, ok := try(iface); ok {
			return st, true
		}
	}
	return Class{}, false
}

// bindArgs zips a class's type parameters with the receiver's type
// arguments. Extra parameters stay unbound.
func bindArgs(params []string, args []Type) map[string]Type {
	if len(params) == 0 || len(args) == 0 {
		return nil
	}
	bind := make(map[string]Type, len(params))
	for i, p := range params {
		if i < len(args) {
			bind[p] = args[i]
		}
	}
	return bind
}
