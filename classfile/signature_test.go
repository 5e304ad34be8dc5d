package classfile

import (
	"reflect"
	"testing"
)

func TestParseClassSignature(t *testing.T) {
	tests := []struct {
		name       string
		sig        string
		typeParams []string
		super      string
		interfaces []string
	}{
		{
			name:       "single type parameter",
			sig:        "<E:Ljava/lang/Object;>Ljava/lang/Object;Ljava/lang/Iterable<TE;>;",
			typeParams: []string{"E"},
			super:      "java.lang.Object",
			interfaces: []string{"java.lang.Iterable<E>"},
		},
		{
			name:       "recursive bound",
			sig:        "<E:Ljava/lang/Enum<TE;>;>Ljava/lang/Object;Ljava/lang/Comparable<TE;>;",
			typeParams: []string{"E"},
			super:      "java.lang.Object",
			interfaces: []string{"java.lang.Comparable<E>"},
		},
		{
			name:       "two parameters no interfaces",
			sig:        "<K:Ljava/lang/Object;V:Ljava/lang/Object;>Ljava/util/AbstractMap<TK;TV;>;",
			typeParams: []string{"K", "V"},
			super:      "java.util.AbstractMap<K, V>",
		},
		{
			name:  "no type parameters",
			sig:   "Ljava/lang/Object;Ljava/io/Serializable;",
			super: "java.lang.Object",
			interfaces: []string{
				"java.io.Serializable",
			},
		},
		{
			name:       "interface-only bound",
			sig:        "<T::Ljava/lang/Comparable<TT;>;>Ljava/lang/Object;",
			typeParams: []string{"T"},
			super:      "java.lang.Object",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs := ParseClassSignature(tt.sig)
			if cs == nil {
				t.Fatalf("ParseClassSignature(%q) = nil", tt.sig)
			}
			var names []string
			for _, tp := range cs.TypeParams {
				names = append(names, tp.Name)
			}
			if !reflect.DeepEqual(names, tt.typeParams) {
				t.Errorf("TypeParams = %v, want %v", names, tt.typeParams)
			}
			if cs.Super != tt.super {
				t.Errorf("Super = %q, want %q", cs.Super, tt.super)
			}
			if !reflect.DeepEqual(cs.Interfaces, tt.interfaces) {
				t.Errorf("Interfaces = %v, want %v", cs.Interfaces, tt.interfaces)
			}
		})
	}
}

func TestParseClassSignatureBounds(t *testing.T) {
	cs := ParseClassSignature("<T:Ljava/lang/Number;:Ljava/lang/Comparable<TT;>;>Ljava/lang/Object;")
	if cs == nil {
		t.Fatal("ParseClassSignature returned nil")
	}
	if len(cs.TypeParams) != 1 {
		t.Fatalf("TypeParams = %+v, want one", cs.TypeParams)
	}
	want := []string{"java.lang.Number", "java.lang.Comparable<T>"}
	if !reflect.DeepEqual(cs.TypeParams[0].Bounds, want) {
		t.Errorf("Bounds = %v, want %v", cs.TypeParams[0].Bounds, want)
	}
}

func TestParseMethodSignature(t *testing.T) {
	tests := []struct {
		name       string
		sig        string
		typeParams []string
		params     []string
		ret        string
		throws     []string
	}{
		{
			name:       "map with own type parameter",
			sig:        "<R:Ljava/lang/Object;>(Ljava/util/function/Function<-TT;+TR;>;)Ljava/util/stream/Stream<TR;>;",
			typeParams: []string{"R"},
			params:     []string{"java.util.function.Function<? super T, ? extends R>"},
			ret:        "java.util.stream.Stream<R>",
		},
		{
			name:   "primitives and arrays",
			sig:    "(I[Ljava/lang/String;)V",
			params: []string{"int", "java.lang.String[]"},
			ret:    "void",
		},
		{
			name: "wildcard",
			sig:  "(Ljava/lang/Class<*>;)Ljava/lang/Object;",
			params: []string{
				"java.lang.Class<?>",
			},
			ret: "java.lang.Object",
		},
		{
			name:   "type variable return",
			sig:    "(I)TT;",
			params: []string{"int"},
			ret:    "T",
		},
		{
			name:   "throws clause",
			sig:    "()V^Ljava/io/IOException;",
			ret:    "void",
			throws: []string{"java.io.IOException"},
		},
		{
			name:   "no parameters",
			sig:    "()Ljava/util/Set<Ljava/util/Map$Entry<TK;TV;>;>;",
			ret:    "java.util.Set<java.util.Map.Entry<K, V>>",
			params: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ms := ParseMethodSignature(tt.sig)
			if ms == nil {
				t.Fatalf("ParseMethodSignature(%q) = nil", tt.sig)
			}
			var names []string
			for _, tp := range ms.TypeParams {
				names = append(names, tp.Name)
			}
			if !reflect.DeepEqual(names, tt.typeParams) {
				t.Errorf("TypeParams = %v, want %v", names, tt.typeParams)
			}
			if !reflect.DeepEqual(ms.Parameters, tt.params) {
				t.Errorf("Parameters = %v, want %v", ms.Parameters, tt.params)
			}
			if ms.Return != tt.ret {
				t.Errorf("Return = %q, want %q", ms.Return, tt.ret)
			}
			if !reflect.DeepEqual(ms.Throws, tt.throws) {
				t.Errorf("Throws = %v, want %v", ms.Throws, tt.throws)
			}
		})
	}
}

func TestParseFieldSignature(t *testing.T) {
	tests := []struct {
		sig  string
		want string
	}{
		{"TT;", "T"},
		{"[TT;", "T[]"},
		{"Ljava/util/List<Ljava/lang/String;>;", "java.util.List<java.lang.String>"},
		{"Ljava/util/List<Ljava/util/Map$Entry<TK;TV;>;>;", "java.util.List<java.util.Map.Entry<K, V>>"},
		{"Ljava/util/Map<TK;TV;>.Entry<TK;TV;>;", "java.util.Map<K, V>.Entry<K, V>"},
		{"[[I", "int[][]"},
		{"Ljava/util/List<+Ljava/lang/Number;>;", "java.util.List<? extends java.lang.Number>"},
		{"Ljava/util/List<-Ljava/lang/Integer;>;", "java.util.List<? super java.lang.Integer>"},
	}
	for _, tt := range tests {
		if got := ParseFieldSignature(tt.sig); got != tt.want {
			t.Errorf("ParseFieldSignature(%q) = %q, want %q", tt.sig, got, tt.want)
		}
	}
}

func TestParseSignatureMalformed(t *testing.T) {
	for _, sig := range []string{"", "Ljava/util/List", "<T:>", "(I", "QQ;", "Ljava/util/List<TT;>"} {
		if cs := ParseClassSignature(sig); cs != nil {
			t.Errorf("ParseClassSignature(%q) = %+v, want nil", sig, cs)
		}
		if got := ParseFieldSignature(sig); got != "" {
			t.Errorf("ParseFieldSignature(%q) = %q, want empty", sig, got)
		}
	}
	for _, sig := range []string{"", "I", "(X)V", "()"} {
		if ms := ParseMethodSignature(sig); ms != nil {
			t.Errorf("ParseMethodSignature(%q) = %+v, want nil", sig, ms)
		}
	}
}
