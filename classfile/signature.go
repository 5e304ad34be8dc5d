package classfile

import "strings"

// The Signature attribute carries the generic shape erasure removed
// from descriptors. These parsers render it back as Java source type
// text ("java.util.List<T>", "? extends Number", "int[]"). A malformed
// signature yields nil so callers can fall back to the descriptor.

type TypeParam struct {
	Name   string
	Bounds []string
}

type ClassSignature struct {
	TypeParams []TypeParam
	Super      string
	Interfaces []string
}

type MethodSignature struct {
	TypeParams []TypeParam
	Parameters []string
	Return     string
	Throws     []string
}

func ParseClassSignature(sig string) *ClassSignature {
	p := &sigParser{s: sig}
	cs := &ClassSignature{
		TypeParams: p.typeParams(),
		Super:      p.refType(),
	}
	for !p.bad && p.pos < len(p.s) {
		cs.Interfaces = append(cs.Interfaces, p.refType())
	}
	if p.bad {
		return nil
	}
	return cs
}

func ParseMethodSignature(sig string) *MethodSignature {
	p := &sigParser{s: sig}
	ms := &MethodSignature{TypeParams: p.typeParams()}
	p.expect('(')
	for !p.bad && p.peek() != ')' {
		ms.Parameters = append(ms.Parameters, p.anyType())
	}
	p.expect(')')
	if !p.bad && p.peek() == 'V' {
		p.next()
		ms.Return = "void"
	} else {
		ms.Return = p.anyType()
	}
	for !p.bad && p.pos < len(p.s) && p.s[p.pos] == '^' {
		p.next()
		ms.Throws = append(ms.Throws, p.refType())
	}
	if p.bad {
		return nil
	}
	return ms
}

func ParseFieldSignature(sig string) string {
	p := &sigParser{s: sig}
	text := p.anyType()
	if p.bad || p.pos != len(p.s) {
		return ""
	}
	return text
}

type sigParser struct {
	s   string
	pos int
	bad bool
}

func (p *sigParser) peek() byte {
	if p.pos < len(p.s) {
		return p.s[p.pos]
	}
	p.bad = true
	return 0
}

func (p *sigParser) next() byte {
	c := p.peek()
	p.pos++
	return c
}

func (p *sigParser) expect(c byte) {
	if p.next() != c {
		p.bad = true
	}
}

func (p *sigParser) typeParams() []TypeParam {
	if p.pos >= len(p.s) || p.s[p.pos] != '<' {
		return nil
	}
	p.next()
	var out []TypeParam
	for !p.bad && p.peek() != '>' {
		tp := TypeParam{Name: p.identifier(':')}
		p.expect(':')
		// class bound may be empty when only interface bounds follow
		if c := p.peek(); c == 'L' || c == 'T' || c == '[' {
			tp.Bounds = append(tp.Bounds, p.refType())
		}
		for !p.bad && p.peek() == ':' {
			p.next()
			tp.Bounds = append(tp.Bounds, p.refType())
		}
		out = append(out, tp)
	}
	p.expect('>')
	return out
}

func (p *sigParser) identifier(stop byte) string {
	start := p.pos
	for p.pos < len(p.s) && p.s[p.pos] != stop {
		p.pos++
	}
	if p.pos == start || p.pos >= len(p.s) {
		p.bad = true
	}
	return p.s[start:p.pos]
}

// anyType parses a JavaTypeSignature: a primitive or a reference type.
func (p *sigParser) anyType() string {
	switch p.peek() {
	case 'L', 'T', '[':
		return p.refType()
	case 'B':
		p.next()
		return "byte"
	case 'C':
		p.next()
		return "char"
	case 'D':
		p.next()
		return "double"
	case 'F':
		p.next()
		return "float"
	case 'I':
		p.next()
		return "int"
	case 'J':
		p.next()
		return "long"
	case 'S':
		p.next()
		return "short"
	case 'Z':
		p.next()
		return "boolean"
	}
	p.bad = true
	return ""
}

func (p *sigParser) refType() string {
	switch p.peek() {
	case 'L':
		return p.classType()
	case 'T':
		p.next()
		name := p.identifier(';')
		p.expect(';')
		return name
	case '[':
		p.next()
		return p.anyType() + "[]"
	}
	p.bad = true
	return ""
}

func (p *sigParser) classType() string {
	p.expect('L')
	var sb strings.Builder
	for !p.bad {
		start := p.pos
		for p.pos < len(p.s) && !classTypeStop(p.s[p.pos]) {
			p.pos++
		}
		if p.pos >= len(p.s) {
			p.bad = true
			return ""
		}
		sb.WriteString(strings.ReplaceAll(p.s[start:p.pos], "$", "."))
		switch p.s[p.pos] {
		case '/':
			p.pos++
			sb.WriteByte('.')
		case '.':
			p.pos++
			sb.WriteByte('.')
		case '<':
			sb.WriteString(p.typeArgs())
			if p.bad {
				return ""
			}
			if p.peek() == '.' {
				p.next()
				sb.WriteByte('.')
				continue
			}
			p.expect(';')
			return sb.String()
		case ';':
			p.pos++
			return sb.String()
		}
	}
	return ""
}

func classTypeStop(c byte) bool {
	return c == '/' || c == '<' || c == ';' || c == '.'
}

func (p *sigParser) typeArgs() string {
	p.expect('<')
	var parts []string
	for !p.bad && p.peek() != '>' {
		switch p.peek() {
		case '*':
			p.next()
			parts = append(parts, "?")
		case '+':
			p.next()
			parts = append(parts, "? extends "+p.refType())
		case '-':
			p.next()
			parts = append(parts, "? super "+p.refType())
		default:
			parts = append(parts, p.refType())
		}
	}
	p.expect('>')
	return "<" + strings.Join(parts, ", ") + ">"
}
