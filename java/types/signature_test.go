package types

import (
	"strings"
	"testing"
)

const callerSrc = `
package com.example;

public class Caller {
    public int helper(int a, String b) { return a; }

    public void go(int n) {
        Math.max(1, 2);
        helper(n, "x");
        helper(Math.abs(n), "y");
        ghost.frob(1);
        var sb = new StringBuilder("a");
        int plain = n + 1;
    }
}
`

func sigOffset(t *testing.T, src, marker string) int {
	t.Helper()
	i := strings.Index(src, marker)
	if i < 0 {
		t.Fatalf("marker %q not in source", marker)
	}
	return i + len(marker)
}

func TestSignatureAtStaticCall(t *testing.T) {
	fx := newInferFixture(t, callerSrc)

	info := fx.in.SignatureAt(sigOffset(t, callerSrc, "Math.max(1, "))
	if info == nil {
		t.Fatalf("SignatureAt inside Math.max returned nil")
	}
	if info.Name != "max" {
		t.Errorf("Name = %q, want max", info.Name)
	}
	if info.ActiveArg != 1 {
		t.Errorf("ActiveArg = %d, want 1", info.ActiveArg)
	}
	if len(info.Candidates) != 2 {
		t.Errorf("candidates = %d, want the int and double overloads", len(info.Candidates))
	}
	if len(info.Expected) != 2 || !Same(info.Expected[0], Primitive{Kind: Int}) || !Same(info.Expected[1], Primitive{Kind: Double}) {
		t.Errorf("Expected = %v, want [int double]", info.Expected)
	}

	first := fx.in.SignatureAt(sigOffset(t, callerSrc, "Math.max("))
	if first == nil || first.ActiveArg != 0 {
		t.Errorf("SignatureAt after the open paren = %+v, want arg 0", first)
	}
}

func TestSignatureAtBareCall(t *testing.T) {
	fx := newInferFixture(t, callerSrc)

	info := fx.in.SignatureAt(sigOffset(t, callerSrc, `helper(n, `))
	if info == nil {
		t.Fatalf("SignatureAt inside helper returned nil")
	}
	if info.Name != "helper" || len(info.Candidates) != 1 {
		t.Errorf("info = %+v, want the enclosing class's helper", info)
	}
	if info.ActiveArg != 1 {
		t.Errorf("ActiveArg = %d, want 1", info.ActiveArg)
	}
	if len(info.Expected) != 1 {
		t.Fatalf("Expected = %v", info.Expected)
	}
	classOf(t, info.Expected[0], "java.lang.String")
}

func TestSignatureInnermostCallWins(t *testing.T) {
	fx := newInferFixture(t, callerSrc)

	info := fx.in.SignatureAt(sigOffset(t, callerSrc, "helper(Math.abs("))
	if info == nil {
		t.Fatalf("SignatureAt inside nested abs returned nil")
	}
	if info.Name != "abs" {
		t.Errorf("Name = %q, want the inner call abs", info.Name)
	}
	if info.ActiveArg != 0 {
		t.Errorf("ActiveArg = %d, want 0", info.ActiveArg)
	}
}

func TestSignatureAtConstructor(t *testing.T) {
	fx := newInferFixture(t, callerSrc)

	info := fx.in.SignatureAt(sigOffset(t, callerSrc, "new StringBuilder("))
	if info == nil {
		t.Fatalf("SignatureAt inside a constructor call returned nil")
	}
	if info.Name != "StringBuilder" {
		t.Errorf("Name = %q, want StringBuilder", info.Name)
	}
	if len(info.Candidates) != 3 {
		t.Errorf("candidates = %d, want 3 constructors", len(info.Candidates))
	}
	if info.ActiveArg != 0 {
		t.Errorf("ActiveArg = %d, want 0", info.ActiveArg)
	}
	for _, c := range info.Candidates {
		if c.Kind != MemberConstructor {
			t.Errorf("candidate kind = %v, want constructor", c.Kind)
		}
	}
	// The no-argument form contributes nothing at position 0.
	if len(info.Expected) != 2 {
		t.Errorf("Expected = %v, want the String and int forms", info.Expected)
	}
}

const trailingCommaSrc = `
package com.example;

public class Register {
    public void record(int count) { }
    public void record(int count, String label) { }

    public void go(int n) {
        record(n,
    }
}
`

func TestSignatureAtTrailingComma(t *testing.T) {
	fx := newInferFixture(t, trailingCommaSrc)

	info := fx.in.SignatureAt(sigOffset(t, trailingCommaSrc, "record(n,"))
	if info == nil {
		t.Fatalf("SignatureAt after the trailing comma returned nil")
	}
	if info.Name != "record" || len(info.Candidates) != 2 {
		t.Errorf("info = %+v, want both record overloads", info)
	}
	if info.ActiveArg != 1 {
		t.Errorf("ActiveArg = %d, want 1 even though the argument is still empty", info.ActiveArg)
	}
	// Only the two-argument overload reaches position 1.
	if len(info.Expected) != 1 {
		t.Fatalf("Expected = %v, want [java.lang.String]", info.Expected)
	}
	classOf(t, info.Expected[0], "java.lang.String")
}

func TestSignatureOutsideAnyCall(t *testing.T) {
	fx := newInferFixture(t, callerSrc)
	if info := fx.in.SignatureAt(sigOffset(t, callerSrc, "int plain = n")); info != nil {
		t.Errorf("SignatureAt outside a call = %+v, want nil", info)
	}
}

func TestSignatureUnresolvableReceiver(t *testing.T) {
	fx := newInferFixture(t, callerSrc)
	if info := fx.in.SignatureAt(sigOffset(t, callerSrc, "ghost.frob(")); info != nil {
		t.Errorf("SignatureAt on an unresolvable receiver = %+v, want nil", info)
	}
}

func TestExpectedTypesAt(t *testing.T) {
	fx := newInferFixture(t, callerSrc)

	got := fx.in.ExpectedTypesAt(sigOffset(t, callerSrc, "helper(n"))
	if len(got) != 1 || !Same(got[0], Primitive{Kind: Int}) {
		t.Errorf("ExpectedTypesAt(helper arg 0) = %v, want [int]", got)
	}

	if got := fx.in.ExpectedTypesAt(sigOffset(t, callerSrc, "int plain = n")); got != nil {
		t.Errorf("ExpectedTypesAt outside a call = %v, want nil", got)
	}
}
