package types

import (
	"testing"
)

func classOf(t *testing.T, got Type, id ClassId) Class {
	t.Helper()
	c, ok := got.(Class)
	if !ok {
		t.Fatalf("resolved to %T (%v), want Class %s", got, got, id)
	}
	if c.Id != id {
		t.Fatalf("resolved to %v, want %s", c.Id, id)
	}
	return c
}

func TestResolvePrimitivesAndVoid(t *testing.T) {
	s := NewStore(nil)
	tests := []struct {
		name string
		want Type
	}{
		{"int", Primitive{Kind: Int}},
		{"boolean", Primitive{Kind: Boolean}},
		{"double", Primitive{Kind: Double}},
		{"char", Primitive{Kind: Char}},
		{"void", Void{}},
		{"", Unknown{}},
	}
	for _, tt := range tests {
		got := s.Resolve(tt.name, ResolveCtx{})
		if !Same(got, tt.want) {
			t.Errorf("Resolve(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

const resolveFixture = `
package com.example;

import java.util.List;
import java.util.concurrent.*;

public class Widget {
    public static class Config {}
}
`

func resolveStore(t *testing.T) (*Store, ResolveCtx) {
	t.Helper()
	s := NewStore(nil)
	f := addSource(t, s, "/ws/Widget.java", resolveFixture)
	addSource(t, s, "/ws/Helper.java", `
package com.example;

class Helper {}
`)
	addSource(t, s, "/ws/Distinctive.java", `
package org.other;

public class Distinctive {}
`)
	return s, ContextOf(f)
}

func TestResolveSimpleNames(t *testing.T) {
	s, ctx := resolveStore(t)

	tests := []struct {
		name string
		want ClassId
	}{
		{"List", "java.util.List"},               // single import
		{"Widget", "com.example.Widget"},         // same package
		{"Helper", "com.example.Helper"},         // same package, package-private
		{"String", "java.lang.String"},           // java.lang fallback
		{"Distinctive", "org.other.Distinctive"}, // unique in workspace
	}
	for _, tt := range tests {
		classOf(t, s.Resolve(tt.name, ctx), tt.want)
	}

	if _, ok := s.Resolve("Nonexistent", ctx).(Named); !ok {
		t.Errorf("Resolve(Nonexistent) = %v, want Named", s.Resolve("Nonexistent", ctx))
	}
}

func TestResolveTypeVarShadowsImport(t *testing.T) {
	s, ctx := resolveStore(t)
	got := s.Resolve("List", ctx.WithTypeVars([]string{"List"}))
	if _, ok := got.(TypeVar); !ok {
		t.Errorf("Resolve(List) with type variable in scope = %v, want TypeVar", got)
	}
}

func TestResolveSingleImportIsAuthoritative(t *testing.T) {
	s := NewStore(nil)
	f := addSource(t, s, "/ws/Main.java", `
package com.example;

import com.vendor.List;

public class Main {}
`)
	// The import wins over java.util.List even though com.vendor.List
	// cannot be loaded.
	classOf(t, s.Resolve("List", ContextOf(f)), "com.vendor.List")
}

func TestResolveStarImports(t *testing.T) {
	s := NewStore(nil)
	f := addSource(t, s, "/ws/Main.java", `
package com.example;

import java.util.*;

public class Main {}
`)
	ctx := ContextOf(f)
	classOf(t, s.Resolve("ArrayList", ctx), "java.util.ArrayList")
	classOf(t, s.Resolve("Map", ctx), "java.util.Map")
}

func TestResolveDottedNames(t *testing.T) {
	s, ctx := resolveStore(t)

	classOf(t, s.Resolve("java.lang.String", ctx), "java.lang.String")
	classOf(t, s.Resolve("java.util.Map.Entry", ctx), "java.util.Map$Entry")
	classOf(t, s.Resolve("Widget.Config", ctx), "com.example.Widget$Config")

	got := s.Resolve("Widget.Missing", ctx)
	vi, ok := got.(VirtualInner)
	if !ok {
		t.Fatalf("Resolve(Widget.Missing) = %T (%v), want VirtualInner", got, got)
	}
	if vi.Owner != "com.example.Widget" || vi.Name != "Missing" {
		t.Errorf("VirtualInner = %v.%v, want com.example.Widget.Missing", vi.Owner, vi.Name)
	}

	if _, ok := s.Resolve("no.such.pkg.Thing", ctx).(Named); !ok {
		t.Errorf("unresolvable dotted name should stay Named, got %v", s.Resolve("no.such.pkg.Thing", ctx))
	}
}

func TestResolveDeeplyNested(t *testing.T) {
	s := NewStore(nil)
	f := addSource(t, s, "/ws/Outer.java", `
package com.example;

public class Outer {
    public static class Inner {
        public static class Deepest {}
    }
}
`)
	ctx := ContextOf(f)
	classOf(t, s.Resolve("Outer.Inner.Deepest", ctx), "com.example.Outer$Inner$Deepest")
	classOf(t, s.Resolve("com.example.Outer.Inner", ctx), "com.example.Outer$Inner")
}

func TestResolveText(t *testing.T) {
	s, ctx := resolveStore(t)

	t.Run("generic", func(t *testing.T) {
		got := classOf(t, s.ResolveText("List<String>", ctx), "java.util.List")
		if len(got.Args) != 1 {
			t.Fatalf("List<String> args = %v", got.Args)
		}
		classOf(t, got.Args[0], "java.lang.String")
	})

	t.Run("nested generic", func(t *testing.T) {
		got := classOf(t, s.ResolveText("java.util.Map<String, List<String>>", ctx), "java.util.Map")
		if len(got.Args) != 2 {
			t.Fatalf("Map args = %v", got.Args)
		}
		classOf(t, got.Args[0], "java.lang.String")
		inner := classOf(t, got.Args[1], "java.util.List")
		classOf(t, inner.Args[0], "java.lang.String")
	})

	t.Run("arrays", func(t *testing.T) {
		got := s.ResolveText("int[]", ctx)
		arr, ok := got.(Array)
		if !ok || !Same(arr.Elem, Primitive{Kind: Int}) {
			t.Errorf("ResolveText(int[]) = %v", got)
		}
		got = s.ResolveText("String...", ctx)
		arr, ok = got.(Array)
		if !ok {
			t.Fatalf("ResolveText(String...) = %v", got)
		}
		classOf(t, arr.Elem, "java.lang.String")
	})

	t.Run("wildcard", func(t *testing.T) {
		if _, ok := s.ResolveText("? extends Number", ctx).(Wildcard); !ok {
			t.Errorf("ResolveText(? extends Number) = %v, want Wildcard", s.ResolveText("? extends Number", ctx))
		}
	})

	t.Run("var", func(t *testing.T) {
		if _, ok := s.ResolveText("var", ctx).(Unknown); !ok {
			t.Errorf("ResolveText(var) = %v, want Unknown", s.ResolveText("var", ctx))
		}
	})

	t.Run("intersection", func(t *testing.T) {
		got := s.ResolveText("Comparable<String> & java.io.Serializable", ctx)
		inter, ok := got.(Intersection)
		if !ok || len(inter.Parts) != 2 {
			t.Fatalf("ResolveText(intersection) = %v", got)
		}
		classOf(t, inter.Parts[0], "java.lang.Comparable")
		classOf(t, inter.Parts[1], "java.io.Serializable")
	})

	t.Run("generic array", func(t *testing.T) {
		got := s.ResolveText("List<String>[]", ctx)
		arr, ok := got.(Array)
		if !ok {
			t.Fatalf("ResolveText(List<String>[]) = %v", got)
		}
		classOf(t, arr.Elem, "java.util.List")
	})
}

func TestSubstitute(t *testing.T) {
	bind := map[string]Type{"E": Class{Id: "java.lang.String"}}

	got := Substitute(TypeVar{Name: "E"}, bind)
	classOf(t, got, "java.lang.String")

	got = Substitute(Class{Id: "java.util.List", Args: []Type{TypeVar{Name: "E"}}}, bind)
	cls := classOf(t, got, "java.util.List")
	classOf(t, cls.Args[0], "java.lang.String")

	got = Substitute(Array{Elem: TypeVar{Name: "E"}}, bind)
	arr, ok := got.(Array)
	if !ok {
		t.Fatalf("Substitute(E[]) = %v", got)
	}
	classOf(t, arr.Elem, "java.lang.String")

	// Unbound variables stay as they are.
	got = Substitute(TypeVar{Name: "T"}, bind)
	if tv, ok := got.(TypeVar); !ok || tv.Name != "T" {
		t.Errorf("Substitute(T) = %v, want T unchanged", got)
	}
}
