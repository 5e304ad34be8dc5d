package codebase

import (
	"strings"
	"testing"

	"github.com/dhamidi/jig/java/rank"
)

const sessionSrc = `
package com.example;

import java.util.List;

import static java.lang.Math.max;

public class Session {
    private String title;
    private int count;

    String describe() { return title; }

    void run(List<String> names, int depth) {
        String local = title;
        Handler handler = null;
        local.;
        String part = local.su;
        int[] nums = {1, 2, 3};
        nums.;
        Color.;
        String.;
        java.util.;
        java.;
        send(local);
        onPick(handler);
        int top = max(depth, count);
    }

    void send(String msg) {}
    void onPick(Handler h) {}

    void shadow(String title) {
        send(title);
    }
}

interface Handler {
    void handle(String event);
}

enum Color { RED, GREEN }
`

func sessionWorkspace(t *testing.T) *workspace {
	t.Helper()
	return newWorkspace(t, map[string]string{"com/example/Session.java": sessionSrc})
}

// complete runs a completion with the cursor just past upTo, located by
// the unique marker. The prefix is what the user typed of the name.
func (ws *workspace) complete(t *testing.T, rel, marker, upTo, prefix string) []rank.Candidate {
	t.Helper()
	return ws.c.CompletionsAt(ws.path(rel), ws.at(t, rel, marker, upTo), prefix)
}

func hasLabel(cands []rank.Candidate, label string) bool {
	for _, c := range cands {
		if c.Label == label {
			return true
		}
	}
	return false
}

func countLabel(cands []rank.Candidate, label string) int {
	n := 0
	for _, c := range cands {
		if c.Label == label {
			n++
		}
	}
	return n
}

func findCand(t *testing.T, cands []rank.Candidate, kind rank.Kind, label string) rank.Candidate {
	t.Helper()
	for _, c := range cands {
		if c.Kind == kind && c.Label == label {
			return c
		}
	}
	t.Fatalf("no %s candidate %q in %v", kind, label, labelsOf(cands))
	return rank.Candidate{}
}

func indexOfLabel(t *testing.T, cands []rank.Candidate, label string) int {
	t.Helper()
	for i, c := range cands {
		if c.Label == label {
			return i
		}
	}
	t.Fatalf("no candidate %q in %v", label, labelsOf(cands))
	return -1
}

func labelsOf(cands []rank.Candidate) []string {
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.Label
	}
	return out
}

func TestCompleteMembersAfterDot(t *testing.T) {
	ws := sessionWorkspace(t)
	rel := "com/example/Session.java"
	cands := ws.complete(t, rel, "local.;", "local.", "")

	length := findCand(t, cands, rank.KindMethod, "length")
	if !length.Direct {
		t.Errorf("length is declared on String itself, want Direct")
	}
	toString := findCand(t, cands, rank.KindMethod, "toString")
	if toString.Direct {
		t.Errorf("toString is inherited from Object, want not Direct")
	}
	if toString.InsertText != "toString()" {
		t.Errorf("InsertText = %q, want toString()", toString.InsertText)
	}
	findCand(t, cands, rank.KindMethod, "substring")
	if hasLabel(cands, "if") {
		t.Errorf("keywords offered after a dot")
	}
	if hasLabel(cands, "depth") {
		t.Errorf("locals offered after a dot")
	}
}

func TestCompleteMemberPrefixFilters(t *testing.T) {
	ws := sessionWorkspace(t)
	rel := "com/example/Session.java"
	cands := ws.complete(t, rel, "local.su", "local.su", "su")

	if !hasLabel(cands, "substring") {
		t.Fatalf("substring missing from %v", labelsOf(cands))
	}
	if hasLabel(cands, "length") || hasLabel(cands, "toString") {
		t.Errorf("prefix su kept unrelated members: %v", labelsOf(cands))
	}
}

func TestCompleteMemberCarriesJavadoc(t *testing.T) {
	src := `
package com.example;

public class Library {
    /** Finds a book by exact title. Returns null when absent. */
    public String find(String title) { return title; }
}

class Desk {
    void use(Library lib) {
        lib.;
    }
}
`
	ws := newWorkspace(t, map[string]string{"com/example/Library.java": src})
	cands := ws.complete(t, "com/example/Library.java", "lib.;", "lib.", "")

	find := findCand(t, cands, rank.KindMethod, "find")
	if !strings.Contains(find.Documentation, "Finds a book by exact title.") {
		t.Errorf("Documentation = %q, want the declaration javadoc", find.Documentation)
	}
}

func TestCompleteArrayMembers(t *testing.T) {
	ws := sessionWorkspace(t)
	rel := "com/example/Session.java"
	cands := ws.complete(t, rel, "nums.;", "nums.", "")

	length := findCand(t, cands, rank.KindField, "length")
	if length.Bump != rank.BumpArrayLength {
		t.Errorf("length Bump = %d, want %d", length.Bump, rank.BumpArrayLength)
	}
	findCand(t, cands, rank.KindMethod, "clone")
	if len(cands) == 0 || cands[0].Label != "clone" {
		t.Errorf("first candidate = %v, want clone", labelsOf(cands))
	}
}

func TestCompleteEnumMembers(t *testing.T) {
	ws := sessionWorkspace(t)
	rel := "com/example/Session.java"
	cands := ws.complete(t, rel, "Color.;", "Color.", "")

	red := findCand(t, cands, rank.KindEnumConstant, "RED")
	if !red.Workspace {
		t.Errorf("RED comes from a workspace enum, want Workspace set")
	}
	findCand(t, cands, rank.KindEnumConstant, "GREEN")
	findCand(t, cands, rank.KindMethod, "values")
	findCand(t, cands, rank.KindMethod, "valueOf")
}

func TestCompleteStaticReference(t *testing.T) {
	ws := sessionWorkspace(t)
	rel := "com/example/Session.java"
	cands := ws.complete(t, rel, "String.;", "String.", "")

	findCand(t, cands, rank.KindMethod, "valueOf")
	if hasLabel(cands, "length") {
		t.Errorf("instance member offered on a type reference: %v", labelsOf(cands))
	}
}

func TestCompletePackageMembers(t *testing.T) {
	ws := sessionWorkspace(t)
	rel := "com/example/Session.java"
	cands := ws.complete(t, rel, "java.util.;", "java.util.", "")

	list := findCand(t, cands, rank.KindClass, "List")
	if list.Detail != "java.util.List" {
		t.Errorf("List Detail = %q, want java.util.List", list.Detail)
	}
	findCand(t, cands, rank.KindClass, "Map")
	findCand(t, cands, rank.KindPackage, "function")
	findCand(t, cands, rank.KindPackage, "stream")
	if hasLabel(cands, "Entry") {
		t.Errorf("nested class offered as a package member: %v", labelsOf(cands))
	}
}

func TestCompletePackageRoots(t *testing.T) {
	ws := sessionWorkspace(t)
	rel := "com/example/Session.java"
	cands := ws.complete(t, rel, "java.;", "java.", "")

	findCand(t, cands, rank.KindPackage, "lang")
	findCand(t, cands, rank.KindPackage, "util")
	if hasLabel(cands, "List") {
		t.Errorf("classes of a subpackage offered one level up: %v", labelsOf(cands))
	}
}

func TestCompleteScopeRanking(t *testing.T) {
	ws := sessionWorkspace(t)
	rel := "com/example/Session.java"
	cands := ws.complete(t, rel, "send(local", "send(", "")

	findCand(t, cands, rank.KindVariable, "depth")
	findCand(t, cands, rank.KindMethod, "describe")
	findCand(t, cands, rank.KindKeyword, "return")

	if local, part := indexOfLabel(t, cands, "local"), indexOfLabel(t, cands, "part"); local > part {
		t.Errorf("local at %d ranked below part at %d despite being used more recently", local, part)
	}
	if title, count := indexOfLabel(t, cands, "title"), indexOfLabel(t, cands, "count"); title > count {
		t.Errorf("title at %d ranked below count at %d despite matching the expected String", title, count)
	}
	if local, ret := indexOfLabel(t, cands, "local"), indexOfLabel(t, cands, "return"); local > ret {
		t.Errorf("keyword return at %d outranked local at %d", ret, local)
	}
}

func TestCompleteLambdaSnippet(t *testing.T) {
	ws := sessionWorkspace(t)
	rel := "com/example/Session.java"
	cands := ws.complete(t, rel, "onPick(handler", "onPick(", "")

	snippet := findCand(t, cands, rank.KindSnippet, "event ->")
	if snippet.InsertText != "event -> ${1}" {
		t.Errorf("InsertText = %q, want the placeholder body", snippet.InsertText)
	}
	if snippet.Detail != "Handler" {
		t.Errorf("Detail = %q, want Handler", snippet.Detail)
	}
	if !snippet.TypeCompatible {
		t.Errorf("lambda snippet not marked compatible with the expected type")
	}
	if len(cands) == 0 || cands[0].Label != "handler" {
		t.Errorf("first candidate = %v, want the matching variable handler", labelsOf(cands))
	}
	if sn, local := indexOfLabel(t, cands, "event ->"), indexOfLabel(t, cands, "local"); sn > local {
		t.Errorf("lambda snippet at %d ranked below the incompatible local at %d", sn, local)
	}
}

func TestCompleteStaticImport(t *testing.T) {
	ws := sessionWorkspace(t)
	rel := "com/example/Session.java"
	cands := ws.complete(t, rel, "= max", "= max", "max")

	if len(cands) != 2 {
		t.Fatalf("candidates = %v, want the two max overloads", labelsOf(cands))
	}
	for _, c := range cands {
		if c.Label != "max" || c.Kind != rank.KindMethod {
			t.Errorf("candidate = %+v, want a max method", c)
		}
		if c.Bump != rank.BumpStaticImport {
			t.Errorf("Bump = %d, want %d", c.Bump, rank.BumpStaticImport)
		}
	}
}

func TestCompleteShadowedNameOnce(t *testing.T) {
	ws := sessionWorkspace(t)
	rel := "com/example/Session.java"
	cands := ws.complete(t, rel, "send(title", "send(", "")

	if n := countLabel(cands, "title"); n != 1 {
		t.Fatalf("title offered %d times, want once", n)
	}
	findCand(t, cands, rank.KindVariable, "title")
}

func TestCompleteUnknownFile(t *testing.T) {
	ws := sessionWorkspace(t)
	if cands := ws.c.CompletionsAt(ws.path("com/example/Nope.java"), 0, ""); cands != nil {
		t.Errorf("CompletionsAt on an unindexed file = %v, want nil", labelsOf(cands))
	}
}

const importsSrc = `
package com.example;

import java.util.List;

public class Imports {
    void build() {
        ArrayLis x;
        List keep;
        var box = new ArrayL;
    }
}
`

func TestCompleteClassAddsImport(t *testing.T) {
	ws := newWorkspace(t, map[string]string{"com/example/Imports.java": importsSrc})
	rel := "com/example/Imports.java"
	cands := ws.complete(t, rel, "ArrayLis", "ArrayLis", "ArrayLis")

	cand := findCand(t, cands, rank.KindClass, "ArrayList")
	if cand.Detail != "java.util.ArrayList" {
		t.Errorf("Detail = %q, want java.util.ArrayList", cand.Detail)
	}
	if cand.NoImport {
		t.Errorf("candidate claims no import is needed")
	}
	if len(cand.Edits) != 1 {
		t.Fatalf("Edits = %v, want one import edit", cand.Edits)
	}
	at := offsetAfter(t, importsSrc, "import java.util.List;")
	edit := cand.Edits[0]
	if edit.Start != at || edit.End != at {
		t.Errorf("edit at [%d,%d], want insertion at %d", edit.Start, edit.End, at)
	}
	if edit.Text != "\nimport java.util.ArrayList;" {
		t.Errorf("edit text = %q", edit.Text)
	}
}

func TestCompleteClassAlreadyImported(t *testing.T) {
	ws := newWorkspace(t, map[string]string{"com/example/Imports.java": importsSrc})
	rel := "com/example/Imports.java"
	cands := ws.complete(t, rel, "List keep", "List", "List")

	cand := findCand(t, cands, rank.KindClass, "List")
	if !cand.NoImport || len(cand.Edits) != 0 {
		t.Errorf("imported class still carries an import fix: %+v", cand)
	}
	if cand.Detail != "java.util.List" {
		t.Errorf("Detail = %q, want java.util.List", cand.Detail)
	}
}

func TestCompleteConstructorsAfterNew(t *testing.T) {
	ws := newWorkspace(t, map[string]string{"com/example/Imports.java": importsSrc})
	rel := "com/example/Imports.java"
	cands := ws.complete(t, rel, "new ArrayL", "new ArrayL", "ArrayL")

	if len(cands) < 3 {
		t.Fatalf("candidates = %v, want the three ArrayList constructors", labelsOf(cands))
	}
	var inserts []string
	for _, c := range cands {
		if c.Label != "ArrayList" || c.Kind != rank.KindConstructor {
			t.Errorf("candidate = %+v, want an ArrayList constructor", c)
			continue
		}
		if len(c.Edits) != 1 {
			t.Errorf("constructor without an import edit: %+v", c)
		}
		inserts = append(inserts, c.InsertText)
	}
	joined := strings.Join(inserts, " ")
	if !strings.Contains(joined, "ArrayList()") {
		t.Errorf("no-argument form missing from %v", inserts)
	}
	if !strings.Contains(joined, "${1:initialCapacity}") {
		t.Errorf("capacity form missing from %v", inserts)
	}
}

const conflictSrc = `
package com.example;

import java.awt.List;

public class Legacy {
    void build() {
        Lis x;
    }
}
`

func TestCompleteConflictingNameInsertsQualified(t *testing.T) {
	ws := newWorkspace(t, map[string]string{"com/example/Legacy.java": conflictSrc})
	rel := "com/example/Legacy.java"
	cands := ws.complete(t, rel, "Lis x", "Lis", "Lis")

	cand := findCand(t, cands, rank.KindClass, "List")
	if cand.InsertText != "java.util.List" {
		t.Errorf("InsertText = %q, want the qualified name", cand.InsertText)
	}
	if len(cand.Edits) != 0 {
		t.Errorf("conflicting import still got an edit: %v", cand.Edits)
	}
}

const boxSrc = `
package com.example;

public class Box {
    int size() { return 1; }
}
`

const boxOverlaySrc = `
package com.example;

public class Box {
    int size() { return 1; }

    String label() { return "x"; }

    void poke() {
        this.;
    }
}
`

func TestCompleteOnOverlayContent(t *testing.T) {
	ws := newWorkspace(t, map[string]string{"com/example/Box.java": boxSrc})
	path := ws.path("com/example/Box.java")

	ws.c.UpdateFile(path, []byte(boxOverlaySrc))
	cands := ws.c.CompletionsAt(path, offsetAfter(t, boxOverlaySrc, "this."), "")

	findCand(t, cands, rank.KindMethod, "label")
	findCand(t, cands, rank.KindMethod, "size")
}
