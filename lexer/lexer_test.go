package lexer

import (
	"testing"

	"github.com/skx/navi/token"
)

// Trivial test of the parsing of numbers.
func TestParseNumbers(t *testing.T) {
	input := `3 43 -17 -3 3.5 -2.25`

	tests := []struct {
		expectedType    token.Type
		expectedLiteral string
	}{
		{token.INT, "3"},
		{token.INT, "43"},
		{token.INT, "-17"},
		{token.INT, "-3"},
		{token.FLOAT, "3.5"},
		{token.FLOAT, "-2.25"},
		{token.EOF, ""},
	}
	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong, expected=%q, got=%q", i, tt.expectedType, tok.Type)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - Literal wrong, expected=%q, got=%q", i, tt.expectedLiteral, tok.Literal)
		}
	}
}

// Trivial test of the parsing of operators and punctuation.
func TestParseOperatorsAndPunctuation(t *testing.T) {
	input := `+ - * / = == != < > <= >= -> .. ..= : ; , ( ) { } [ ]`

	tests := []token.Type{
		token.PLUS, token.MINUS, token.ASTERISK, token.SLASH,
		token.ASSIGN, token.EQ, token.NOT_EQ,
		token.LT, token.GT, token.LT_EQ, token.GT_EQ,
		token.ARROW, token.RANGE, token.RANGE_EQ,
		token.COLON, token.SEMICOLON, token.COMMA,
		token.LPAREN, token.RPAREN, token.LBRACE, token.RBRACE,
		token.LBRACKET, token.RBRACKET,
		token.EOF,
	}

	l := New(input)
	for i, want := range tests {
		tok := l.NextToken()
		if tok.Type != want {
			t.Fatalf("tests[%d] - tokentype wrong, expected=%q, got=%q (%q)", i, want, tok.Type, tok.Literal)
		}
	}
}

// Test keywords and identifiers are distinguished.
func TestKeywordsAndIdentifiers(t *testing.T) {
	input := `func let mut if else return for in int float string bool true false total`

	tests := []token.Type{
		token.FUNC, token.LET, token.MUT, token.IF, token.ELSE, token.RETURN,
		token.FOR, token.IN,
		token.INT_TYPE, token.FLOAT_TYPE, token.STRING_TYPE, token.BOOL_TYPE,
		token.TRUE, token.FALSE,
		token.IDENT,
		token.EOF,
	}

	l := New(input)
	for i, want := range tests {
		tok := l.NextToken()
		if tok.Type != want {
			t.Fatalf("tests[%d] - tokentype wrong, expected=%q, got=%q (%q)", i, want, tok.Type, tok.Literal)
		}
	}
}

// Test string literals, including escape pass-through.
func TestStrings(t *testing.T) {
	input := `"hello" "with \"quotes\"" "line1\nline2"`

	tests := []string{
		"hello",
		`with "quotes"`,
		"line1nline2",
	}

	l := New(input)
	for i, want := range tests {
		tok := l.NextToken()
		if tok.Type != token.STRING {
			t.Fatalf("tests[%d] - expected STRING, got=%q", i, tok.Type)
		}
		if tok.Literal != want {
			t.Fatalf("tests[%d] - expected %q, got %q", i, want, tok.Literal)
		}
	}
}

// An unterminated string should yield an ERROR token, not a panic/hang.
func TestUnterminatedString(t *testing.T) {
	l := New(`"oops`)
	tok := l.NextToken()
	if tok.Type != token.ERROR {
		t.Fatalf("expected ERROR token, got %q", tok.Type)
	}
}

// Comments are skipped entirely.
func TestComments(t *testing.T) {
	input := "1 // this is a comment\n+ 2"
	l := New(input)

	want := []token.Type{token.INT, token.PLUS, token.INT, token.EOF}
	for i, w := range want {
		tok := l.NextToken()
		if tok.Type != w {
			t.Fatalf("tests[%d] - expected %q got %q", i, w, tok.Type)
		}
	}
}

// Unknown bytes produce an ERROR token without aborting the lexer.
func TestUnknownToken(t *testing.T) {
	l := New(`1 @ 2`)

	tok := l.NextToken()
	if tok.Type != token.INT {
		t.Fatalf("expected INT got %q", tok.Type)
	}

	tok = l.NextToken()
	if tok.Type != token.ERROR {
		t.Fatalf("expected ERROR got %q", tok.Type)
	}

	tok = l.NextToken()
	if tok.Type != token.INT {
		t.Fatalf("expected INT got %q", tok.Type)
	}
}
