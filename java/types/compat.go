package types

import (
	"github.com/dhamidi/jig/java"
)

// Argument scores order overload candidates: exact beats widening beats
// boxing. A negative score means the argument cannot bind the parameter.
const (
	scoreIncompatible = -1
	scoreBoxed        = 1
	scoreWidened      = 2
	scoreExact        = 3
)

var widenRank = map[PrimitiveKind]int{
	Byte:   1,
	Short:  2,
	Char:   2,
	Int:    3,
	Long:   4,
	Float:  5,
	Double: 6,
}

// widensTo reports whether a primitive widening conversion exists from
// one kind to another. Nothing widens into char, and char widens only to
// int and beyond.
func widensTo(from, to PrimitiveKind) bool {
	if from == to {
		return true
	}
	if from == Boolean || to == Boolean || to == Char {
		return false
	}
	if from == Char {
		return widenRank[to] >= widenRank[Int]
	}
	return widenRank[from] < widenRank[to]
}

var boxOf = map[PrimitiveKind]ClassId{
	Boolean: "java.lang.Boolean",
	Byte:    "java.lang.Byte",
	Short:   "java.lang.Short",
	Char:    "java.lang.Character",
	Int:     "java.lang.Integer",
	Long:    "java.lang.Long",
	Float:   "java.lang.Float",
	Double:  "java.lang.Double",
}

var unboxOf = map[ClassId]PrimitiveKind{
	"java.lang.Boolean":   Boolean,
	"java.lang.Byte":      Byte,
	"java.lang.Short":     Short,
	"java.lang.Character": Char,
	"java.lang.Integer":   Int,
	"java.lang.Long":      Long,
	"java.lang.Float":     Float,
	"java.lang.Double":    Double,
}

// Unbox returns the primitive kind a wrapper class unboxes to.
func Unbox(id ClassId) (PrimitiveKind, bool) {
	k, ok := unboxOf[id]
	return k, ok
}

// Box returns the wrapper class of a primitive kind.
func Box(k PrimitiveKind) (ClassId, bool) {
	id, ok := boxOf[k]
	return id, ok
}

// AssignableTo reports whether an argument of type arg can bind a
// parameter of type param.
func (s *Store) AssignableTo(arg, param Type) bool {
	return s.argScore(arg, param) >= 0
}

// argScore rates how well an argument type fits a parameter type.
// Unknown is compatible with everything so that partial inference never
// rules out the call the user is actually making.
func (s *Store) argScore(arg, param Type) int {
	if IsErrorish(arg) || IsErrorish(param) {
		return scoreBoxed
	}
	if Same(arg, param) {
		return scoreExact
	}

	switch p := param.(type) {
	case Void:
		return scoreIncompatible

	case Primitive:
		switch a := arg.(type) {
		case Primitive:
			if widensTo(a.Kind, p.Kind) {
				return scoreWidened
			}
			return scoreIncompatible
		case Class:
			if k, ok := unboxOf[a.Id]; ok && widensTo(k, p.Kind) {
				return scoreBoxed
			}
			return scoreIncompatible
		case Named, TypeVar, Wildcard:
			return scoreBoxed
		}
		return scoreIncompatible

	case Class:
		switch a := arg.(type) {
		case Null:
			return scoreWidened
		case Primitive:
			box, ok := boxOf[a.Kind]
			if !ok {
				return scoreIncompatible
			}
			if box == p.Id {
				return scoreWidened
			}
			if s.isSubclassOf(box, p.Id) {
				return scoreBoxed
			}
			return scoreIncompatible
		case Class:
			if a.Id == p.Id {
				return scoreExact
			}
			if s.isSubclassOf(a.Id, p.Id) {
				return scoreWidened
			}
			return scoreIncompatible
		case Array:
			switch p.Id {
			case objectId, "java.lang.Cloneable", "java.io.Serializable":
				return scoreWidened
			}
			return scoreIncompatible
		case Named, TypeVar, Wildcard, Intersection, VirtualInner:
			return scoreBoxed
		}
		return scoreIncompatible

	case Array:
		switch a := arg.(type) {
		case Null:
			return scoreWidened
		case Array:
			ae, pe := a.Elem, p.Elem
			if Same(ae, pe) {
				return scoreExact
			}
			// Arrays are covariant for references only.
			if _, prim := ae.(Primitive); prim {
				return scoreIncompatible
			}
			if _, prim := pe.(Primitive); prim {
				return scoreIncompatible
			}
			if s.argScore(ae, pe) >= scoreWidened {
				return scoreWidened
			}
			return scoreIncompatible
		case Named, TypeVar, Wildcard:
			return scoreBoxed
		}
		return scoreIncompatible

	case Named, TypeVar, Wildcard, Intersection:
		// Unresolved or erased parameter: do not reject anything.
		return scoreBoxed
	}

	switch arg.(type) {
	case Named, TypeVar, Wildcard:
		return scoreBoxed
	}
	return scoreIncompatible
}

const subtypeWalkDepth = 32

// isSubclassOf walks the erased supertype graph of sub looking for super.
func (s *Store) isSubclassOf(sub, super ClassId) bool {
	if super == objectId {
		return sub != ""
	}
	visited := make(map[ClassId]bool)
	return s.subclassWalk(sub, super, visited, subtypeWalkDepth)
}

func (s *Store) subclassWalk(sub, super ClassId, visited map[ClassId]bool, depth int) bool {
	if depth <= 0 || sub == "" || visited[sub] {
		return false
	}
	visited[sub] = true
	def, ok := s.Lookup(sub)
	if !ok {
		return false
	}
	ctx := def.MemberCtx()
	check := func(text string) bool {
		c, ok := s.ResolveText(text, ctx).(Class)
		if !ok {
			return false
		}
		return c.Id == super || s.subclassWalk(c.Id, super, visited, depth-1)
	}
	parent := def.Model.SuperClass
	if parent == "" && def.Model.Kind == java.KindEnum {
		parent = "java.lang.Enum"
	}
	if parent != "" && check(parent) {
		return true
	}
	for _, iface := range def.Model.Interfaces {
		if check(iface) {
			return true
		}
	}
	return false
}
