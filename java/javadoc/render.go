package javadoc

import "strings"

// Format renders a parsed comment as markdown for completion and hover
// popups. Common HTML in the prose is rewritten to its markdown
// equivalent; tags with no equivalent are stripped.
func Format(doc *Doc) string {
	if doc == nil || doc.Empty() {
		return ""
	}
	var b strings.Builder
	if doc.Deprecated != nil {
		b.WriteString("**Deprecated.**")
		if s := renderInlines(doc.Deprecated, true); s != "" {
			b.WriteString(" " + s)
		}
		b.WriteString("\n\n")
	}
	if s := renderInlines(doc.Body, true); s != "" {
		b.WriteString(s)
		b.WriteString("\n")
	}
	if len(doc.Params) > 0 {
		b.WriteString("\n**Parameters:**\n\n")
		for _, p := range doc.Params {
			name := p.Name
			if p.TypeParam {
				name = "<" + name + ">"
			}
			b.WriteString("- `" + name + "`")
			if s := renderInlines(p.Description, true); s != "" {
				b.WriteString(" - " + s)
			}
			b.WriteString("\n")
		}
	}
	if len(doc.Returns) > 0 {
		b.WriteString("\n**Returns:** " + renderInlines(doc.Returns, true) + "\n")
	}
	for _, t := range doc.Throws {
		b.WriteString("\n**Throws:** `" + t.Exception + "`")
		if s := renderInlines(t.Description, true); s != "" {
			b.WriteString(" - " + s)
		}
		b.WriteString("\n")
	}
	if doc.Since != "" {
		b.WriteString("\n**Since:** " + doc.Since + "\n")
	}
	for _, see := range doc.See {
		b.WriteString("\n**See:** " + see + "\n")
	}
	return strings.TrimSpace(b.String())
}

// FormatPlainText renders only the main description, with all markup
// stripped, for one-line summaries.
func FormatPlainText(doc *Doc) string {
	if doc == nil {
		return ""
	}
	return renderInlines(doc.Body, false)
}

func renderInlines(inlines []Inline, markdown bool) string {
	var b strings.Builder
	for _, in := range inlines {
		switch in.Kind {
		case KindCode:
			if markdown {
				b.WriteString("`" + in.Text + "`")
			} else {
				b.WriteString(in.Text)
			}
		case KindLink:
			label := in.Text
			if label == "" {
				label = in.Ref
			}
			if markdown {
				b.WriteString("`" + label + "`")
			} else {
				b.WriteString(label)
			}
		default:
			b.WriteString(renderHTML(in.Text, markdown))
		}
	}
	return strings.TrimSpace(b.String())
}

// htmlEntities covers the entities that actually occur in JDK and
// workspace comments. Unknown entities pass through untouched.
var htmlEntities = map[string]string{
	"amp":   "&",
	"lt":    "<",
	"gt":    ">",
	"quot":  `"`,
	"apos":  "'",
	"nbsp":  " ",
	"ndash": "–",
	"mdash": "—",
}

// renderHTML rewrites the HTML subset javadoc prose uses. In markdown
// mode <code> becomes backticks, <b>/<i> become emphasis, <p>/<br>/<li>
// become line structure; in plain mode every tag reduces to spacing.
func renderHTML(s string, markdown bool) string {
	var b strings.Builder
	for i := 0; i < len(s); {
		switch s[i] {
		case '<':
			tag, n := readHTMLTag(s[i:])
			if n == 0 {
				b.WriteByte('<')
				i++
				continue
			}
			b.WriteString(replacementFor(tag, markdown))
			i += n
		case '&':
			name, n := readEntity(s[i:])
			if n == 0 {
				b.WriteByte('&')
				i++
				continue
			}
			if r, ok := htmlEntities[name]; ok {
				b.WriteString(r)
			} else {
				b.WriteString(s[i : i+n])
			}
			i += n
		default:
			b.WriteByte(s[i])
			i++
		}
	}
	return collapseBlankRuns(b.String())
}

// readHTMLTag consumes `<name ...>` or `</name>`; n is 0 when s does
// not start a plausible tag (a bare `<` in prose).
func readHTMLTag(s string) (name string, n int) {
	i := 1
	if i < len(s) && s[i] == '/' {
		i++
	}
	start := i
	for i < len(s) && isTagByte(s[i]) {
		i++
	}
	if i == start {
		return "", 0
	}
	name = strings.ToLower(s[start:i])
	for i < len(s) && s[i] != '>' {
		i++
	}
	if i == len(s) {
		return "", 0
	}
	return name, i + 1
}

func readEntity(s string) (name string, n int) {
	i := 1
	if i < len(s) && s[i] == '#' {
		i++
	}
	start := i
	for i < len(s) && isTagByte(s[i]) {
		i++
	}
	if i == start || i == len(s) || s[i] != ';' {
		return "", 0
	}
	return s[start:i], i + 1
}

func replacementFor(tag string, markdown bool) string {
	switch tag {
	case "p":
		return "\n\n"
	case "br":
		return "\n"
	case "li":
		if markdown {
			return "\n- "
		}
		return "\n"
	case "ul", "ol", "pre", "blockquote":
		return "\n"
	case "code", "tt", "kbd":
		if markdown {
			return "`"
		}
	case "b", "strong":
		if markdown {
			return "**"
		}
	case "i", "em":
		if markdown {
			return "*"
		}
	}
	return ""
}

// collapseBlankRuns caps consecutive newlines at two so <p></p> pairs
// do not produce towers of blank lines.
func collapseBlankRuns(s string) string {
	for strings.Contains(s, "\n\n\n") {
		s = strings.ReplaceAll(s, "\n\n\n", "\n\n")
	}
	return s
}
