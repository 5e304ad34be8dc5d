package lexer

import "fmt"

// Position is a location in a source file. Offset is a byte offset from the
// start of the input; Line and Column are 1-based.
type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Span is a half-open byte range [Start.Offset, End.Offset) in the input.
type Span struct {
	Start Position
	End   Position
}

// Contains reports whether the byte offset falls inside the span.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start.Offset && offset < s.End.Offset
}

func (s Span) Len() int {
	return s.End.Offset - s.Start.Offset
}

type TokenKind int

const (
	TokenEOF TokenKind = iota
	// TokenIdent covers identifiers and keywords alike. The engine matches
	// keyword text where it matters instead of keeping separate kinds, so
	// that broken source degrades to plain identifiers.
	TokenIdent
	// TokenSymbol is a single punctuation or operator character. Multi-char
	// operators arrive as consecutive symbol tokens.
	TokenSymbol
	TokenString
	TokenChar
	TokenNumber
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:    "EOF",
	TokenIdent:  "Ident",
	TokenSymbol: "Symbol",
	TokenString: "String",
	TokenChar:   "Char",
	TokenNumber: "Number",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

type Token struct {
	Kind    TokenKind
	Literal string
	Span    Span
}

// Sym reports whether the token is the given symbol character.
func (t Token) Sym(ch byte) bool {
	return t.Kind == TokenSymbol && len(t.Literal) == 1 && t.Literal[0] == ch
}

// Is reports whether the token is an identifier with the given text. Keyword
// checks go through this.
func (t Token) Is(text string) bool {
	return t.Kind == TokenIdent && t.Literal == text
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)", t.Kind, t.Literal)
}

// Comment is trivia collected during lexing, kept aside for javadoc
// attachment. Text includes the comment delimiters.
type Comment struct {
	Text string
	Span Span
}

// Javadoc reports whether the comment is a documentation block comment.
// The empty block comment "/**/" does not count.
func (c Comment) Javadoc() bool {
	return len(c.Text) >= 5 && c.Text[:3] == "/**" && c.Text[3] != '/'
}
