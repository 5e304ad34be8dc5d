// Package javadoc parses doc comments into a small structured form and
// renders them as markdown (for editor popups) or plain text (for
// one-line summaries). It covers the tags that show up in completion
// documentation; anything it does not recognize degrades to its raw
// text instead of being dropped.
package javadoc

import "strings"

// Doc is the parsed form of one doc comment: the main description
// followed by the block tags that matter for member documentation.
// Unrecognized block tags are preserved in Other so renderers can
// choose to show them verbatim.
type Doc struct {
	Body       []Inline
	Params     []ParamTag
	Returns    []Inline
	Throws     []ThrowsTag
	Deprecated []Inline
	Since      string
	See        []string
	Other      []BlockTag
}

// Empty reports whether the comment had no content at all.
func (d *Doc) Empty() bool {
	return len(d.Body) == 0 && len(d.Params) == 0 && len(d.Returns) == 0 &&
		len(d.Throws) == 0 && d.Deprecated == nil && d.Since == "" &&
		len(d.See) == 0 && len(d.Other) == 0
}

// ParamTag is one @param entry. TypeParam is set for @param <T> entries.
type ParamTag struct {
	Name        string
	TypeParam   bool
	Description []Inline
}

// ThrowsTag is one @throws or @exception entry.
type ThrowsTag struct {
	Exception   string
	Description []Inline
}

// BlockTag is a block tag the parser has no dedicated slot for.
type BlockTag struct {
	Name    string
	Content []Inline
}

// InlineKind distinguishes the inline fragments a description is made of.
type InlineKind int

const (
	// KindText is plain prose, HTML included.
	KindText InlineKind = iota
	// KindCode is an {@code ...} or {@literal ...} span.
	KindCode
	// KindLink is an {@link ...}, {@linkplain ...}, or {@value ...}
	// reference; Ref holds the target, Text the optional label.
	KindLink
)

// Inline is one fragment of description text.
type Inline struct {
	Kind InlineKind
	Text string
	Ref  string
}

// Parse parses a raw doc comment. The comment may arrive with its
// delimiters (`/** ... */`) and per-line asterisk margins intact, or
// already stripped; both forms are handled. Parse never fails: malformed
// input degrades to plain text.
func Parse(raw string) *Doc {
	doc := &Doc{}
	text := stripMargins(raw)
	if text == "" {
		return doc
	}
	body, tags := splitBlockTags(text)
	doc.Body = parseInlines(body)
	for _, t := range tags {
		applyBlockTag(doc, t.name, t.content)
	}
	return doc
}

// stripMargins removes the comment delimiters and the leading ` * `
// margin that javadoc convention puts on every continuation line.
func stripMargins(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "/**")
	s = strings.TrimPrefix(s, "/*")
	s = strings.TrimSuffix(s, "*/")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		if strings.HasPrefix(trimmed, "*") {
			trimmed = trimmed[1:]
			// One space after the asterisk is margin, not content.
			trimmed = strings.TrimPrefix(trimmed, " ")
			lines[i] = trimmed
		} else {
			lines[i] = strings.TrimRight(line, " \t")
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

type rawTag struct {
	name    string
	content string
}

// splitBlockTags separates the leading description from the block tag
// section. A block tag starts a line with `@name`; inline tags are
// always brace-wrapped and never start a line after margin stripping,
// except inside {@code} bodies, which blockTagLine guards against by
// tracking brace depth.
func splitBlockTags(text string) (body string, tags []rawTag) {
	lines := strings.Split(text, "\n")
	depth := 0
	cur := -1 // index into tags; -1 while still in the body
	var bodyLines []string
	for _, line := range lines {
		if depth == 0 {
			if name, rest, ok := blockTagLine(line); ok {
				tags = append(tags, rawTag{name: name, content: rest})
				cur = len(tags) - 1
				depth += braceBalance(line)
				continue
			}
		}
		depth += braceBalance(line)
		if depth < 0 {
			depth = 0
		}
		if cur >= 0 {
			tags[cur].content += "\n" + line
		} else {
			bodyLines = append(bodyLines, line)
		}
	}
	return strings.Join(bodyLines, "\n"), tags
}

func blockTagLine(line string) (name, rest string, ok bool) {
	t := strings.TrimLeft(line, " \t")
	if len(t) < 2 || t[0] != '@' || !isTagByte(t[1]) {
		return "", "", false
	}
	i := 1
	for i < len(t) && isTagByte(t[i]) {
		i++
	}
	return t[1:i], strings.TrimSpace(t[i:]), true
}

func isTagByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

func braceBalance(line string) int {
	return strings.Count(line, "{") - strings.Count(line, "}")
}

func applyBlockTag(doc *Doc, name, content string) {
	switch name {
	case "param":
		word, rest := splitWord(content)
		p := ParamTag{Name: word, Description: parseInlines(rest)}
		if strings.HasPrefix(word, "<") {
			p.Name = strings.Trim(word, "<>")
			p.TypeParam = true
		}
		doc.Params = append(doc.Params, p)
	case "return", "returns":
		doc.Returns = parseInlines(content)
	case "throws", "exception":
		word, rest := splitWord(content)
		doc.Throws = append(doc.Throws, ThrowsTag{Exception: word, Description: parseInlines(rest)})
	case "deprecated":
		d := parseInlines(content)
		if d == nil {
			d = []Inline{}
		}
		doc.Deprecated = d
	case "since":
		doc.Since = strings.TrimSpace(content)
	case "see":
		doc.See = append(doc.See, strings.TrimSpace(content))
	default:
		doc.Other = append(doc.Other, BlockTag{Name: name, Content: parseInlines(content)})
	}
}

func splitWord(s string) (word, rest string) {
	s = strings.TrimSpace(s)
	i := strings.IndexAny(s, " \t\n")
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimSpace(s[i:])
}

// parseInlines scans description text for {@tag ...} inline tags. Braces
// inside a tag body nest ({@code new int[]{1}} is one tag), and an
// unterminated tag runs to the end of the text rather than being lost.
func parseInlines(text string) []Inline {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	var out []Inline
	for len(text) > 0 {
		i := strings.Index(text, "{@")
		if i < 0 {
			out = appendText(out, text)
			break
		}
		out = appendText(out, text[:i])
		tag, body, next := readInlineTag(text[i:])
		out = append(out, inlineFor(tag, body))
		text = text[i+next:]
	}
	return out
}

// readInlineTag consumes `{@name body}` from the start of s, matching
// nested braces. It returns the tag name, body, and consumed length.
func readInlineTag(s string) (name, body string, n int) {
	// s starts with "{@".
	i := 2
	for i < len(s) && isTagByte(s[i]) {
		i++
	}
	name = s[2:i]
	depth := 1
	j := i
	for j < len(s) {
		switch s[j] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return name, strings.TrimSpace(s[i:j]), j + 1
			}
		}
		j++
	}
	// Unterminated: take everything.
	return name, strings.TrimSpace(s[i:]), len(s)
}

func inlineFor(tag, body string) Inline {
	switch tag {
	case "code", "literal":
		return Inline{Kind: KindCode, Text: body}
	case "link", "linkplain":
		ref, label := splitWord(body)
		return Inline{Kind: KindLink, Ref: ref, Text: label}
	case "value", "systemProperty":
		return Inline{Kind: KindLink, Ref: body}
	case "inheritDoc", "docRoot":
		return Inline{Kind: KindText, Text: ""}
	case "return":
		// JDK 16 {@return x} shorthand.
		return Inline{Kind: KindText, Text: "Returns " + body + "."}
	default:
		return Inline{Kind: KindText, Text: body}
	}
}

func appendText(out []Inline, s string) []Inline {
	if s == "" {
		return out
	}
	return append(out, Inline{Kind: KindText, Text: s})
}
