package lexer

import (
	"strings"
	"testing"
)

func TestLexerIdentifiers(t *testing.T) {
	tests := []string{
		"foo",
		"Bar",
		"_private",
		"$special",
		"camelCase",
		"SCREAMING_CASE",
		"with123Numbers",
		// Keywords are plain identifiers to this lexer.
		"class",
		"public",
		"new",
		"instanceof",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			lx := NewLexer([]byte(input), "test.java")
			tok := lx.NextToken()
			if tok.Kind != TokenIdent {
				t.Errorf("Kind = %v, want %v", tok.Kind, TokenIdent)
			}
			if tok.Literal != input {
				t.Errorf("Literal = %q, want %q", tok.Literal, input)
			}
		})
	}
}

func TestLexerSymbolsAreSingleCharacters(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"==", []string{"=", "="}},
		{"&&", []string{"&", "&"}},
		{"->", []string{"-", ">"}},
		{"::", []string{":", ":"}},
		{"<>", []string{"<", ">"}},
		{"...", []string{".", ".", "."}},
		{">>>", []string{">", ">", ">"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := Tokenize([]byte(tt.input), "test.java")
			if len(tokens) != len(tt.want) {
				t.Fatalf("token count = %d, want %d", len(tokens), len(tt.want))
			}
			for i, want := range tt.want {
				if tokens[i].Kind != TokenSymbol {
					t.Errorf("tokens[%d].Kind = %v, want %v", i, tokens[i].Kind, TokenSymbol)
				}
				if tokens[i].Literal != want {
					t.Errorf("tokens[%d].Literal = %q, want %q", i, tokens[i].Literal, want)
				}
			}
		})
	}
}

func TestLexerNumbers(t *testing.T) {
	tokens := Tokenize([]byte("x = 42 + 7;"), "test.java")
	var numbers []string
	for _, tok := range tokens {
		if tok.Kind == TokenNumber {
			numbers = append(numbers, tok.Literal)
		}
	}
	if len(numbers) != 2 || numbers[0] != "42" || numbers[1] != "7" {
		t.Errorf("numbers = %v, want [42 7]", numbers)
	}
}

func TestLexerStrings(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", `"hello"`, `"hello"`},
		{"empty", `""`, `""`},
		{"escaped quote", `"a\"b"`, `"a\"b"`},
		{"escaped backslash", `"a\\"`, `"a\\"`},
		{"unterminated runs to end of input", `"oops`, `"oops`},
		{"unterminated with trailing escape", `"oops\`, `"oops\`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lx := NewLexer([]byte(tt.input), "test.java")
			tok := lx.NextToken()
			if tok.Kind != TokenString {
				t.Errorf("Kind = %v, want %v", tok.Kind, TokenString)
			}
			if tok.Literal != tt.want {
				t.Errorf("Literal = %q, want %q", tok.Literal, tt.want)
			}
		})
	}
}

func TestLexerCharLiterals(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", `'a'`, `'a'`},
		{"escaped quote", `'\''`, `'\''`},
		{"escaped backslash", `'\\'`, `'\\'`},
		{"unicode escape", `'A'`, `'A'`},
		{"unterminated runs to end of input", `'x`, `'x`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lx := NewLexer([]byte(tt.input), "test.java")
			tok := lx.NextToken()
			if tok.Kind != TokenChar {
				t.Errorf("Kind = %v, want %v", tok.Kind, TokenChar)
			}
			if tok.Literal != tt.want {
				t.Errorf("Literal = %q, want %q", tok.Literal, tt.want)
			}
		})
	}
}

func TestLexerTextBlocks(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", `"""hello"""`, `"""hello"""`},
		{"multiline", "\"\"\"\nline one\nline two\n\"\"\"", "\"\"\"\nline one\nline two\n\"\"\""},
		{"embedded single quote", `"""a"b"""`, `"""a"b"""`},
		{"embedded double quote", `"""a""b"""`, `"""a""b"""`},
		{"quote run closes block", `""""""`, `""""""`},
		{"extra quote in closing run", `"""a""""`, `"""a""""`},
		{"unterminated runs to end of input", `"""oops`, `"""oops`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lx := NewLexer([]byte(tt.input), "test.java")
			tok := lx.NextToken()
			if tok.Kind != TokenString {
				t.Errorf("Kind = %v, want %v", tok.Kind, TokenString)
			}
			if tok.Literal != tt.want {
				t.Errorf("Literal = %q, want %q", tok.Literal, tt.want)
			}
		})
	}
}

func TestLexerStringWithDotDoesNotSpawnTokens(t *testing.T) {
	// A dot inside a string literal must not look like a member access.
	tokens := Tokenize([]byte(`s = "a.b.c";`), "test.java")
	for _, tok := range tokens {
		if tok.Sym('.') {
			t.Errorf("found %v outside the string literal", tok)
		}
	}
}

func TestLexerCommentsAreTrivia(t *testing.T) {
	source := []byte(`// line comment
/* block */ class /** doc */ Foo {}
`)
	tokens, comments := Scan(source, "test.java")

	var literals []string
	for _, tok := range tokens {
		literals = append(literals, tok.Literal)
	}
	want := []string{"class", "Foo", "{", "}"}
	if strings.Join(literals, " ") != strings.Join(want, " ") {
		t.Errorf("tokens = %v, want %v", literals, want)
	}

	if len(comments) != 3 {
		t.Fatalf("comment count = %d, want 3", len(comments))
	}
	if comments[0].Text != "// line comment" {
		t.Errorf("comments[0].Text = %q", comments[0].Text)
	}
	if comments[1].Javadoc() {
		t.Errorf("plain block comment reported as javadoc")
	}
	if !comments[2].Javadoc() {
		t.Errorf("javadoc comment not detected: %q", comments[2].Text)
	}
}

func TestLexerEmptyBlockCommentIsNotJavadoc(t *testing.T) {
	_, comments := Scan([]byte("/**/ class A {}"), "test.java")
	if len(comments) != 1 {
		t.Fatalf("comment count = %d, want 1", len(comments))
	}
	if comments[0].Javadoc() {
		t.Errorf("/**/ reported as javadoc")
	}
}

func TestLexerSpans(t *testing.T) {
	source := []byte("int x;\nx = 1;")
	tokens := Tokenize(source, "test.java")

	if len(tokens) != 7 {
		t.Fatalf("token count = %d, want 7", len(tokens))
	}

	// "x" on the second line.
	tok := tokens[3]
	if tok.Literal != "x" {
		t.Fatalf("tokens[3].Literal = %q, want %q", tok.Literal, "x")
	}
	if tok.Span.Start.Offset != 7 {
		t.Errorf("Start.Offset = %d, want 7", tok.Span.Start.Offset)
	}
	if tok.Span.Start.Line != 2 || tok.Span.Start.Column != 1 {
		t.Errorf("Start = %d:%d, want 2:1", tok.Span.Start.Line, tok.Span.Start.Column)
	}
	if !tok.Span.Contains(7) || tok.Span.Contains(8) {
		t.Errorf("Span.Contains misbehaves for %+v", tok.Span)
	}

	for i, tok := range tokens {
		if got := string(source[tok.Span.Start.Offset:tok.Span.End.Offset]); got != tok.Literal {
			t.Errorf("tokens[%d]: span slice %q != literal %q", i, got, tok.Literal)
		}
	}
}

func TestLexerUnicodeIdentifier(t *testing.T) {
	lx := NewLexer([]byte("über = 1;"), "test.java")
	tok := lx.NextToken()
	if tok.Kind != TokenIdent {
		t.Errorf("Kind = %v, want %v", tok.Kind, TokenIdent)
	}
	if tok.Literal != "über" {
		t.Errorf("Literal = %q, want %q", tok.Literal, "über")
	}
}

func TestLexerMalformedInputTerminates(t *testing.T) {
	inputs := []string{
		"",
		"\\",
		"\"",
		"'",
		"\"\"\"",
		"@#%^&*",
		"class \x00 Foo",
		"\xff\xfe",
	}
	for _, input := range inputs {
		tokens := Tokenize([]byte(input), "test.java")
		for _, tok := range tokens {
			if tok.Kind == TokenEOF {
				t.Errorf("Tokenize(%q) leaked an EOF token", input)
			}
		}
	}
}
