package codebase

import (
	"sort"
	"strings"

	"github.com/dhamidi/jig/java/javadoc"
)

// OutlineItem is one node of a file outline: a declared type with its
// members as children, nested types below the type that declares them.
type OutlineItem struct {
	Kind     string        `json:"kind"`
	Name     string        `json:"name"`
	Detail   string        `json:"detail,omitempty"`
	Doc      string        `json:"doc,omitempty"`
	Line     int           `json:"line"`
	Children []OutlineItem `json:"children,omitempty"`
}

// docSummary reduces a javadoc comment to its first sentence, capped so
// outline payloads stay small.
func docSummary(raw string) string {
	if raw == "" {
		return ""
	}
	text := javadoc.FormatPlainText(javadoc.Parse(raw))
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	if i := strings.Index(text, ". "); i >= 0 {
		text = text[:i+1]
	}
	text = strings.TrimSpace(text)
	const maxDoc = 120
	if len(text) > maxDoc {
		text = text[:maxDoc]
	}
	return text
}

// Outline returns the declaration tree of one indexed file. Children
// are in source order; nil when the path is not indexed.
func (c *Codebase) Outline(path string) []OutlineItem {
	f := c.File(path)
	if f == nil {
		return nil
	}
	an := f.Analysis

	nested := make(map[int][]int)
	var tops []int
	for i := range an.Classes {
		if p := an.Classes[i].Parent; p >= 0 {
			nested[p] = append(nested[p], i)
		} else {
			tops = append(tops, i)
		}
	}

	var build func(i int) OutlineItem
	build = func(i int) OutlineItem {
		cls := &f.Classes[i]
		item := OutlineItem{
			Kind:   string(cls.Kind),
			Name:   cls.SimpleName(),
			Detail: cls.BinaryName,
			Doc:    docSummary(cls.Javadoc),
			Line:   cls.Span.Start.Line,
		}
		for fi := range cls.Fields {
			fld := &cls.Fields[fi]
			kind := "field"
			if fld.IsEnumConstant {
				kind = "enum constant"
			}
			item.Children = append(item.Children, OutlineItem{
				Kind:   kind,
				Name:   fld.Name,
				Detail: fld.Type,
				Doc:    docSummary(fld.Javadoc),
				Line:   fld.Span.Start.Line,
			})
		}
		for mi := range cls.Constructors {
			ctor := &cls.Constructors[mi]
			item.Children = append(item.Children, OutlineItem{
				Kind:   "constructor",
				Name:   ctor.Name,
				Detail: ctor.Signature(),
				Doc:    docSummary(ctor.Javadoc),
				Line:   ctor.Span.Start.Line,
			})
		}
		for mi := range cls.Methods {
			m := &cls.Methods[mi]
			item.Children = append(item.Children, OutlineItem{
				Kind:   "method",
				Name:   m.Name,
				Detail: m.Signature(),
				Doc:    docSummary(m.Javadoc),
				Line:   m.Span.Start.Line,
			})
		}
		for _, k := range nested[i] {
			item.Children = append(item.Children, build(k))
		}
		sort.SliceStable(item.Children, func(a, b int) bool {
			return item.Children[a].Line < item.Children[b].Line
		})
		return item
	}

	out := make([]OutlineItem, 0, len(tops))
	for _, i := range tops {
		out = append(out, build(i))
	}
	return out
}
