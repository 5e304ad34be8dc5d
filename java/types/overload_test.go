package types

import (
	"testing"
)

func methodsOf(t *testing.T, s *Store, id ClassId, name string, static bool) []Member {
	t.Helper()
	cands := s.MethodsNamed(Class{Id: id}, name, static)
	if len(cands) == 0 {
		t.Fatalf("%s has no methods named %s", id, name)
	}
	return cands
}

func TestResolveOverloadExact(t *testing.T) {
	s := NewStore(nil)
	abs := methodsOf(t, s, "java.lang.Math", "abs", true)

	res := s.ResolveOverload(abs, []Type{Primitive{Kind: Int}})
	if res.Outcome != MatchFound {
		t.Fatalf("abs(int) outcome = %v, want found", res.Outcome)
	}
	if !Same(res.Member.Type, Primitive{Kind: Int}) {
		t.Errorf("abs(int) returns %v, want int", res.Member.Type)
	}
	if len(res.Applicable) != 3 {
		t.Errorf("abs applicable = %d overloads, want 3", len(res.Applicable))
	}
}

func TestResolveOverloadWidening(t *testing.T) {
	s := NewStore(nil)
	abs := methodsOf(t, s, "java.lang.Math", "abs", true)

	// float fits only the double overload.
	res := s.ResolveOverload(abs, []Type{Primitive{Kind: Float}})
	if res.Outcome != MatchFound {
		t.Fatalf("abs(float) outcome = %v, want found", res.Outcome)
	}
	if !Same(res.Member.Type, Primitive{Kind: Double}) {
		t.Errorf("abs(float) picked %v, want the double overload", res.Member.Type)
	}
}

func TestResolveOverloadPrefersReferenceOverUnboxing(t *testing.T) {
	s := NewStore(nil)
	println := methodsOf(t, s, "java.io.PrintStream", "println", false)

	res := s.ResolveOverload(println, []Type{Class{Id: "java.lang.Integer"}})
	if res.Outcome != MatchFound {
		t.Fatalf("println(Integer) outcome = %v, want found", res.Outcome)
	}
	if got := res.Member.Method.Parameters[0].Type; got != "Object" {
		t.Errorf("println(Integer) bound the %s overload, want Object", got)
	}
}

func TestResolveOverloadVarargs(t *testing.T) {
	s := NewStore(nil)
	format := methodsOf(t, s, "java.lang.String", "format", true)
	str := Class{Id: "java.lang.String"}

	for _, args := range [][]Type{
		{str},
		{str, Class{Id: "java.lang.Integer"}},
		{str, Primitive{Kind: Int}, str, Null{}},
	} {
		res := s.ResolveOverload(format, args)
		if res.Outcome != MatchFound {
			t.Errorf("format with %d args outcome = %v, want found", len(args), res.Outcome)
		}
	}

	// Too few arguments for even the varargs form.
	res := s.ResolveOverload(format, nil)
	if res.Outcome != MatchNotFound || len(res.Applicable) != 0 {
		t.Errorf("format() outcome = %v applicable = %v, want not-found", res.Outcome, res.Applicable)
	}
}

func TestResolveOverloadVarargsArrayBindsDirectly(t *testing.T) {
	s := NewStore(nil)
	format := methodsOf(t, s, "java.lang.String", "format", true)
	str := Class{Id: "java.lang.String"}
	objArr := Array{Elem: Class{Id: "java.lang.Object"}}

	res := s.ResolveOverload(format, []Type{str, objArr})
	if res.Outcome != MatchFound {
		t.Fatalf("format(String, Object[]) outcome = %v, want found", res.Outcome)
	}
}

func TestResolveOverloadArityRejects(t *testing.T) {
	s := NewStore(nil)
	charAt := methodsOf(t, s, "java.lang.String", "charAt", false)

	res := s.ResolveOverload(charAt, []Type{Primitive{Kind: Int}, Primitive{Kind: Int}})
	if res.Outcome != MatchNotFound {
		t.Errorf("charAt with two args outcome = %v, want not-found", res.Outcome)
	}
	if len(res.Applicable) != 0 {
		t.Errorf("charAt with two args applicable = %v, want none", res.Applicable)
	}
}

func TestResolveOverloadAmbiguousKeepsFirst(t *testing.T) {
	s := NewStore(nil)
	max := methodsOf(t, s, "java.lang.Math", "max", true)

	// Unknown arguments fit both overloads equally.
	res := s.ResolveOverload(max, []Type{Unknown{}, Unknown{}})
	if res.Outcome != MatchAmbiguous {
		t.Fatalf("max(?, ?) outcome = %v, want ambiguous", res.Outcome)
	}
	// Declaration order breaks the tie: the int overload comes first.
	if !Same(res.Member.Type, Primitive{Kind: Int}) {
		t.Errorf("ambiguous max resolved to %v, want the first declared overload", res.Member.Type)
	}
}

func TestResolveOverloadNotFoundKeepsFirstApplicable(t *testing.T) {
	s := NewStore(nil)
	charAt := methodsOf(t, s, "java.lang.String", "charAt", false)

	res := s.ResolveOverload(charAt, []Type{Class{Id: "java.lang.String"}})
	if res.Outcome != MatchNotFound {
		t.Fatalf("charAt(String) outcome = %v, want not-found", res.Outcome)
	}
	// The arity matches, so the member is kept for chains to continue on.
	if res.Member.Method == nil || res.Member.Name != "charAt" {
		t.Errorf("not-found result lost the applicable member: %+v", res.Member)
	}
}

func TestMatchOutcomeString(t *testing.T) {
	tests := []struct {
		o    MatchOutcome
		want string
	}{
		{MatchFound, "found"},
		{MatchAmbiguous, "ambiguous"},
		{MatchNotFound, "not-found"},
	}
	for _, tt := range tests {
		if got := tt.o.String(); got != tt.want {
			t.Errorf("MatchOutcome(%d).String() = %q, want %q", int(tt.o), got, tt.want)
		}
	}
}

func TestExpectedArgTypes(t *testing.T) {
	s := NewStore(nil)
	substring := methodsOf(t, s, "java.lang.String", "substring", false)

	// Both overloads expect int at position 0; duplicates collapse.
	got := ExpectedArgTypes(substring, 0)
	if len(got) != 1 || !Same(got[0], Primitive{Kind: Int}) {
		t.Errorf("ExpectedArgTypes(substring, 0) = %v, want [int]", got)
	}

	// Only the two-argument overload reaches position 1.
	got = ExpectedArgTypes(substring, 1)
	if len(got) != 1 || !Same(got[0], Primitive{Kind: Int}) {
		t.Errorf("ExpectedArgTypes(substring, 1) = %v, want [int]", got)
	}

	format := methodsOf(t, s, "java.lang.String", "format", true)
	got = ExpectedArgTypes(format, 7)
	if len(got) != 1 {
		t.Fatalf("ExpectedArgTypes(format, 7) = %v", got)
	}
	classOf(t, got[0], "java.lang.Object")

	max := methodsOf(t, s, "java.lang.Math", "max", true)
	got = ExpectedArgTypes(max, 1)
	if len(got) != 2 {
		t.Errorf("ExpectedArgTypes(max, 1) = %v, want int and double", got)
	}
}
