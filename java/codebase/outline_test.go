package codebase

import "testing"

const shapeSrc = `
package com.example;

/** A square shape. Width doubles as height. */
public class Shape {
    private int width;

    public Shape(int width) { this.width = width; }

    /** Computes the squared area. */
    public int area() { return width * width; }

    static class Corner {
        int x;

        int offset() { return x; }
    }
}

enum Direction { NORTH, SOUTH }
`

// lineOf is the 1-based line the unique marker starts on.
func lineOf(t *testing.T, src, marker string) int {
	t.Helper()
	line, _ := OffsetToLineCol([]byte(src), offsetAfter(t, src, marker)-len(marker))
	return line
}

func TestOutlineTree(t *testing.T) {
	ws := newWorkspace(t, map[string]string{"com/example/Shape.java": shapeSrc})
	items := ws.c.Outline(ws.path("com/example/Shape.java"))

	if len(items) != 2 {
		t.Fatalf("top level items = %+v, want Shape and Direction", items)
	}

	shape := items[0]
	if shape.Kind != "class" || shape.Name != "Shape" || shape.Detail != "com.example.Shape" {
		t.Errorf("shape item = %+v", shape)
	}
	if shape.Doc != "A square shape." {
		t.Errorf("shape Doc = %q, want first javadoc sentence", shape.Doc)
	}
	if want := lineOf(t, shapeSrc, "public class Shape"); shape.Line != want {
		t.Errorf("shape Line = %d, want %d", shape.Line, want)
	}
	if len(shape.Children) != 4 {
		t.Fatalf("shape children = %+v, want field, constructor, method, nested class", shape.Children)
	}

	width := shape.Children[0]
	if width.Kind != "field" || width.Name != "width" || width.Detail != "int" {
		t.Errorf("width item = %+v", width)
	}
	if width.Doc != "" {
		t.Errorf("width Doc = %q, want empty for an undocumented field", width.Doc)
	}
	ctor := shape.Children[1]
	if ctor.Kind != "constructor" || ctor.Name != "Shape" || ctor.Detail != "Shape(width: int)" {
		t.Errorf("constructor item = %+v", ctor)
	}
	area := shape.Children[2]
	if area.Kind != "method" || area.Detail != "area(): int" {
		t.Errorf("area item = %+v", area)
	}
	if area.Doc != "Computes the squared area." {
		t.Errorf("area Doc = %q", area.Doc)
	}
	if want := lineOf(t, shapeSrc, "public int area"); area.Line != want {
		t.Errorf("area Line = %d, want %d", area.Line, want)
	}

	corner := shape.Children[3]
	if corner.Kind != "class" || corner.Name != "Corner" || corner.Detail != "com.example.Shape$Corner" {
		t.Errorf("corner item = %+v", corner)
	}
	if len(corner.Children) != 2 || corner.Children[0].Name != "x" || corner.Children[1].Name != "offset" {
		t.Errorf("corner children = %+v", corner.Children)
	}

	direction := items[1]
	if direction.Kind != "enum" || direction.Name != "Direction" {
		t.Errorf("direction item = %+v", direction)
	}
	if len(direction.Children) != 2 {
		t.Fatalf("direction children = %+v, want both constants", direction.Children)
	}
	for i, want := range []string{"NORTH", "SOUTH"} {
		c := direction.Children[i]
		if c.Kind != "enum constant" || c.Name != want {
			t.Errorf("constant %d = %+v, want %s", i, c, want)
		}
	}
}

func TestOutlineOfUnknownFile(t *testing.T) {
	ws := newWorkspace(t, map[string]string{"com/example/Shape.java": shapeSrc})
	if items := ws.c.Outline(ws.path("com/example/Nope.java")); items != nil {
		t.Errorf("Outline on an unindexed file = %+v, want nil", items)
	}
}
