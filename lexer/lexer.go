// Package lexer turns Navi source text into a stream of tokens.
package lexer

import (
	"fmt"
	"strings"

	"github.com/skx/navi/token"
)

// Lexer holds our object-state.
type Lexer struct {
	position     int    //current character position
	readPosition int    //next character position
	ch           rune   //current character
	characters   []rune //rune slice of input string
}

// New creates a Lexer instance from string input.
func New(input string) *Lexer {
	l := &Lexer{characters: []rune(input)}
	l.readChar()
	return l
}

// read one forward character
func (l *Lexer) readChar() {
	if l.readPosition >= len(l.characters) {
		l.ch = rune(0)
	} else {
		l.ch = l.characters[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
}

// NextToken reads the next token, skipping whitespace and comments.
func (l *Lexer) NextToken() token.Token {
	var tok token.Token

	l.skipWhitespaceAndComments()

	switch l.ch {
	case rune('+'):
		tok = newToken(token.PLUS, l.ch)
	case rune('*'):
		tok = newToken(token.ASTERISK, l.ch)
	case rune('/'):
		tok = newToken(token.SLASH, l.ch)
	case rune(':'):
		tok = newToken(token.COLON, l.ch)
	case rune(';'):
		tok = newToken(token.SEMICOLON, l.ch)
	case rune(','):
		tok = newToken(token.COMMA, l.ch)
	case rune('('):
		tok = newToken(token.LPAREN, l.ch)
	case rune(')'):
		tok = newToken(token.RPAREN, l.ch)
	case rune('{'):
		tok = newToken(token.LBRACE, l.ch)
	case rune('}'):
		tok = newToken(token.RBRACE, l.ch)
	case rune('['):
		tok = newToken(token.LBRACKET, l.ch)
	case rune(']'):
		tok = newToken(token.RBRACKET, l.ch)

	case rune('-'):
		// "-3" and "-3.4" lex as signed number literals, but "3 - 4"
		// lexes as the distinct tokens NUMBER, MINUS, NUMBER - exactly
		// the adjacency rule the teacher's lexer used for RPN minus.
		if isDigit(l.peekChar()) {
			l.readChar()
			tok = l.readDecimal()
			tok.Literal = "-" + tok.Literal
			return tok
		}
		if l.peekChar() == rune('>') {
			l.readChar()
			tok = token.Token{Type: token.ARROW, Literal: "->"}
		} else {
			tok = newToken(token.MINUS, l.ch)
		}

	case rune('='):
		if l.peekChar() == rune('=') {
			l.readChar()
			tok = token.Token{Type: token.EQ, Literal: "=="}
		} else {
			tok = newToken(token.ASSIGN, l.ch)
		}

	case rune('!'):
		if l.peekChar() == rune('=') {
			l.readChar()
			tok = token.Token{Type: token.NOT_EQ, Literal: "!="}
		} else {
			tok = token.Token{Type: token.ERROR, Literal: l.errorAt("Unknown token !")}
		}

	case rune('<'):
		if l.peekChar() == rune('=') {
			l.readChar()
			tok = token.Token{Type: token.LT_EQ, Literal: "<="}
		} else {
			tok = newToken(token.LT, l.ch)
		}

	case rune('>'):
		if l.peekChar() == rune('=') {
			l.readChar()
			tok = token.Token{Type: token.GT_EQ, Literal: ">="}
		} else {
			tok = newToken(token.GT, l.ch)
		}

	case rune('.'):
		if l.peekChar() == rune('.') {
			l.readChar()
			if l.peekChar() == rune('=') {
				l.readChar()
				tok = token.Token{Type: token.RANGE_EQ, Literal: "..="}
			} else {
				tok = token.Token{Type: token.RANGE, Literal: ".."}
			}
		} else {
			tok = token.Token{Type: token.ERROR, Literal: l.errorAt("Unknown token .")}
		}

	case rune('"'):
		lit, ok := l.readString()
		if !ok {
			return token.Token{Type: token.ERROR, Literal: l.errorAt("unterminated string literal")}
		}
		tok = token.Token{Type: token.STRING, Literal: lit}

	case rune(0):
		tok.Literal = ""
		tok.Type = token.EOF

	default:
		if isDigit(l.ch) {
			return l.readDecimal()
		}
		if isIdentifierStart(l.ch) {
			lit := l.readIdentifier()
			tok.Type = token.LookupIdentifier(lit)
			tok.Literal = lit
			return tok
		}

		tok = token.Token{Type: token.ERROR, Literal: l.errorAt("Unknown token " + string(l.ch))}
	}

	l.readChar()
	return tok
}

// return new token
func newToken(tokenType token.Type, ch rune) token.Token {
	return token.Token{Type: tokenType, Literal: string(ch)}
}

// skipWhitespaceAndComments skips whitespace runs and `//`-to-EOL comments.
func (l *Lexer) skipWhitespaceAndComments() {
	for {
		for isWhitespace(l.ch) {
			l.readChar()
		}
		if l.ch == rune('/') && l.peekChar() == rune('/') {
			for l.ch != rune('\n') && l.ch != rune(0) {
				l.readChar()
			}
			continue
		}
		break
	}
}

// readNumber handles reading a run of digits 0-9.
func (l *Lexer) readNumber() string {
	str := ""
	accept := "0123456789"
	for strings.Contains(accept, string(l.ch)) {
		str += string(l.ch)
		l.readChar()
	}
	return str
}

// readDecimal reads an integer or floating-point literal.
func (l *Lexer) readDecimal() token.Token {
	integer := l.readNumber()

	if l.ch == rune('.') && isDigit(l.peekChar()) {
		l.readChar()
		fraction := l.readNumber()
		return token.Token{Type: token.FLOAT, Literal: integer + "." + fraction}
	}
	return token.Token{Type: token.INT, Literal: integer}
}

// readString reads the interior of a double-quoted string literal,
// unescaping the byte following a `\` (pass-through, not interpreted).
func (l *Lexer) readString() (string, bool) {
	var sb strings.Builder

	l.readChar() // skip opening quote

	for l.ch != rune('"') {
		if l.ch == rune(0) {
			return "", false
		}
		if l.ch == rune('\\') {
			l.readChar()
			if l.ch == rune(0) {
				return "", false
			}
			sb.WriteRune(l.ch)
			l.readChar()
			continue
		}
		sb.WriteRune(l.ch)
		l.readChar()
	}
	// l.ch is the closing quote; NextToken will readChar() past it.
	return sb.String(), true
}

// peek character
func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.characters) {
		return rune(0)
	}
	return l.characters[l.readPosition]
}

// is white space
func isWhitespace(ch rune) bool {
	return ch == rune(' ') || ch == rune('\t') || ch == rune('\n') || ch == rune('\r')
}

// is Digit
func isDigit(ch rune) bool {
	return rune('0') <= ch && ch <= rune('9')
}

// readIdentifier reads a run of identifier characters: letters, digits
// (not leading) and underscores.
func (l *Lexer) readIdentifier() string {
	id := ""
	for isIdentifierPart(l.ch) {
		id += string(l.ch)
		l.readChar()
	}
	return id
}

func isIdentifierStart(ch rune) bool {
	return ch == rune('_') || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentifierPart(ch rune) bool {
	return isIdentifierStart(ch) || isDigit(ch)
}

// errorAt annotates a lex error with the byte offset it was found at.
func (l *Lexer) errorAt(msg string) string {
	pos := l.position
	if pos > len(l.characters) {
		pos = len(l.characters)
	}
	return fmt.Sprintf("%s at offset %d", msg, len(string(l.characters[:pos])))
}
