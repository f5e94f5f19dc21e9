package parser

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// TokenType represents the kind of token.
type TokenType int

const (
	EOF TokenType = iota
	ILLEGAL

	// Punctuation
	LPAREN // "("
	RPAREN // ")"
	LBRACE // "{"
	RBRACE // "}"
	COMMA  // ","
	DOT    // "."
	PIPE   // "|"
	ASSIGN // "="
	ARROW  // "=>"

	// Literals & identifiers
	IDENT
	NUMBER

	// Keywords
	TYPE
	FN
	MATCH
	DECREASING
	IMPORT
)

func (t TokenType) String() string {
	switch t {
	case EOF:
		return "end of input"
	case ILLEGAL:
		return "illegal token"
	case LPAREN:
		return "'('"
	case RPAREN:
		return "')'"
	case LBRACE:
		return "'{'"
	case RBRACE:
		return "'}'"
	case COMMA:
		return "','"
	case DOT:
		return "'.'"
	case PIPE:
		return "'|'"
	case ASSIGN:
		return "'='"
	case ARROW:
		return "'=>'"
	case IDENT:
		return "identifier"
	case NUMBER:
		return "number"
	case TYPE:
		return "'type'"
	case FN:
		return "'fn'"
	case MATCH:
		return "'match'"
	case DECREASING:
		return "'decreasing'"
	case IMPORT:
		return "'import'"
	default:
		return fmt.Sprintf("token(%d)", int(t))
	}
}

var keywords = map[string]TokenType{
	"type":       TYPE,
	"fn":         FN,
	"match":      MATCH,
	"decreasing": DECREASING,
	"import":     IMPORT,
}

// Token carries its 1-based source position for error reporting.
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Col     int
}

// SyntaxError is a lex or parse failure with a 1-based location.
type SyntaxError struct {
	Line int
	Col  int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %d:%d: %s", e.Line, e.Col, e.Msg)
}

func syntaxErrorf(line, col int, format string, args ...any) *SyntaxError {
	return &SyntaxError{Line: line, Col: col, Msg: fmt.Sprintf(format, args...)}
}

// Lexer scans source into tokens. Comments run from "--" to end of line.
type Lexer struct {
	src  string
	pos  int
	line int
	col  int
}

func NewLexer(src string) *Lexer {
	return &Lexer{src: src, line: 1, col: 1}
}

func (l *Lexer) Next() Token {
	l.skipSpaceAndComments()
	line, col := l.line, l.col
	if l.pos >= len(l.src) {
		return Token{Type: EOF, Line: line, Col: col}
	}

	ch := l.src[l.pos]
	switch ch {
	case '(':
		l.advance(1)
		return Token{Type: LPAREN, Literal: "(", Line: line, Col: col}
	case ')':
		l.advance(1)
		return Token{Type: RPAREN, Literal: ")", Line: line, Col: col}
	case '{':
		l.advance(1)
		return Token{Type: LBRACE, Literal: "{", Line: line, Col: col}
	case '}':
		l.advance(1)
		return Token{Type: RBRACE, Literal: "}", Line: line, Col: col}
	case ',':
		l.advance(1)
		return Token{Type: COMMA, Literal: ",", Line: line, Col: col}
	case '.':
		l.advance(1)
		return Token{Type: DOT, Literal: ".", Line: line, Col: col}
	case '|':
		l.advance(1)
		return Token{Type: PIPE, Literal: "|", Line: line, Col: col}
	case '=':
		if l.pos+1 < len(l.src) && l.src[l.pos+1] == '>' {
			l.advance(2)
			return Token{Type: ARROW, Literal: "=>", Line: line, Col: col}
		}
		l.advance(1)
		return Token{Type: ASSIGN, Literal: "=", Line: line, Col: col}
	}

	if isDigit(ch) {
		start := l.pos
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.advance(1)
		}
		return Token{Type: NUMBER, Literal: l.src[start:l.pos], Line: line, Col: col}
	}

	if isIdentStart(rune(ch)) || ch == '_' {
		start := l.pos
		for l.pos < len(l.src) && isIdentPart(rune(l.src[l.pos])) {
			l.advance(1)
		}
		lit := l.src[start:l.pos]
		if kw, ok := keywords[lit]; ok {
			return Token{Type: kw, Literal: lit, Line: line, Col: col}
		}
		return Token{Type: IDENT, Literal: lit, Line: line, Col: col}
	}

	r, size := utf8.DecodeRuneInString(l.src[l.pos:])
	l.advance(size)
	return Token{Type: ILLEGAL, Literal: string(r), Line: line, Col: col}
}

func (l *Lexer) skipSpaceAndComments() {
	for l.pos < len(l.src) {
		ch := l.src[l.pos]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\r':
			l.advance(1)
		case ch == '\n':
			l.pos++
			l.line++
			l.col = 1
		case ch == '-' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '-':
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.advance(1)
			}
		default:
			return
		}
	}
}

func (l *Lexer) advance(n int) {
	l.pos += n
	l.col += n
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '\''
}
