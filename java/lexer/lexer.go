package lexer

import (
	"unicode"
	"unicode/utf8"
)

// Lexer scans Java source into a flat token sequence. It has no keyword
// table and no multi-character operators: the downstream analyzer works on
// identifier text and single symbol characters, which keeps the scan useful
// on broken, mid-edit input. Comments and whitespace are consumed as trivia;
// comments are collected for javadoc attachment.
//
// The lexer never panics. Unterminated literals produce a token extending to
// the end of the input.
type Lexer struct {
	input    []byte
	file     string
	pos      int
	line     int
	column   int
	comments []Comment
}

func NewLexer(input []byte, file string) *Lexer {
	return &Lexer{
		input:  input,
		file:   file,
		line:   1,
		column: 1,
	}
}

// Position returns the lexer's current position.
func (l *Lexer) Position() Position {
	return Position{File: l.file, Offset: l.pos, Line: l.line, Column: l.column}
}

// Comments returns the comments collected so far, in source order.
func (l *Lexer) Comments() []Comment {
	return l.comments
}

func (l *Lexer) atEOF() bool {
	return l.pos >= len(l.input)
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) || l.pos+n < 0 {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) advance() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	ch := l.input[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

// NextToken scans and returns the next token. At the end of input it returns
// a zero-width EOF token and keeps returning it on further calls.
func (l *Lexer) NextToken() Token {
	l.skipTrivia()
	start := l.Position()
	if l.atEOF() {
		return Token{Kind: TokenEOF, Span: Span{Start: start, End: start}}
	}

	ch := l.peek()
	switch {
	case isIdentStart(ch):
		return l.scanIdentifier(start)
	case ch >= utf8.RuneSelf:
		r, _ := utf8.DecodeRune(l.input[l.pos:])
		if unicode.IsLetter(r) {
			return l.scanIdentifier(start)
		}
		l.advanceRune()
		return l.token(TokenSymbol, start)
	case isDigit(ch):
		return l.scanNumber(start)
	case ch == '"':
		if l.peekN(1) == '"' && l.peekN(2) == '"' {
			return l.scanTextBlock(start)
		}
		return l.scanString(start)
	case ch == '\'':
		return l.scanChar(start)
	default:
		l.advance()
		return l.token(TokenSymbol, start)
	}
}

func (l *Lexer) token(kind TokenKind, start Position) Token {
	end := l.Position()
	return Token{
		Kind:    kind,
		Literal: string(l.input[start.Offset:end.Offset]),
		Span:    Span{Start: start, End: end},
	}
}

func (l *Lexer) advanceRune() {
	_, size := utf8.DecodeRune(l.input[l.pos:])
	for i := 0; i < size; i++ {
		l.advance()
	}
}

func (l *Lexer) skipTrivia() {
	for !l.atEOF() {
		switch ch := l.peek(); {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' || ch == '\f':
			l.advance()
		case ch == '/' && l.peekN(1) == '/':
			l.scanLineComment()
		case ch == '/' && l.peekN(1) == '*':
			l.scanBlockComment()
		default:
			return
		}
	}
}

func (l *Lexer) scanLineComment() {
	start := l.Position()
	for !l.atEOF() && l.peek() != '\n' {
		l.advance()
	}
	l.addComment(start)
}

func (l *Lexer) scanBlockComment() {
	start := l.Position()
	l.advance() // /
	l.advance() // *
	for !l.atEOF() {
		if l.peek() == '*' && l.peekN(1) == '/' {
			l.advance()
			l.advance()
			break
		}
		l.advance()
	}
	l.addComment(start)
}

func (l *Lexer) addComment(start Position) {
	end := l.Position()
	l.comments = append(l.comments, Comment{
		Text: string(l.input[start.Offset:end.Offset]),
		Span: Span{Start: start, End: end},
	})
}

func (l *Lexer) scanIdentifier(start Position) Token {
	for !l.atEOF() {
		ch := l.peek()
		if isIdentPart(ch) {
			l.advance()
			continue
		}
		if ch >= utf8.RuneSelf {
			r, _ := utf8.DecodeRune(l.input[l.pos:])
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				l.advanceRune()
				continue
			}
		}
		break
	}
	return l.token(TokenIdent, start)
}

func (l *Lexer) scanNumber(start Position) Token {
	for !l.atEOF() && isDigit(l.peek()) {
		l.advance()
	}
	return l.token(TokenNumber, start)
}

func (l *Lexer) scanString(start Position) Token {
	l.advance() // opening quote
	for !l.atEOF() {
		switch l.peek() {
		case '\\':
			l.advance()
			l.advance()
		case '"':
			l.advance()
			return l.token(TokenString, start)
		default:
			l.advance()
		}
	}
	return l.token(TokenString, start)
}

func (l *Lexer) scanChar(start Position) Token {
	l.advance() // opening quote
	for !l.atEOF() {
		switch l.peek() {
		case '\\':
			l.advance()
			l.advance()
		case '\'':
			l.advance()
			return l.token(TokenChar, start)
		default:
			l.advance()
		}
	}
	return l.token(TokenChar, start)
}

// scanTextBlock scans a `"""` text block. Any run of three or more quotes
// closes the block; quotes beyond the first of the run count as content, so
// `"""a""""` lexes as one token whose content ends in a quote.
func (l *Lexer) scanTextBlock(start Position) Token {
	l.advance()
	l.advance()
	l.advance()
	for !l.atEOF() {
		switch l.peek() {
		case '\\':
			l.advance()
			l.advance()
		case '"':
			run := 0
			for !l.atEOF() && l.peek() == '"' {
				l.advance()
				run++
			}
			if run >= 3 {
				return l.token(TokenString, start)
			}
		default:
			l.advance()
		}
	}
	return l.token(TokenString, start)
}

func isIdentStart(ch byte) bool {
	return ch == '_' || ch == '$' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// Tokenize scans src into its full token sequence. The trailing EOF marker
// is not included.
func Tokenize(src []byte, file string) []Token {
	tokens, _ := Scan(src, file)
	return tokens
}

// Scan is Tokenize plus the collected comments.
func Scan(src []byte, file string) ([]Token, []Comment) {
	lx := NewLexer(src, file)
	var tokens []Token
	for {
		tok := lx.NextToken()
		if tok.Kind == TokenEOF {
			return tokens, lx.Comments()
		}
		tokens = append(tokens, tok)
	}
}
