package parser

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func collect(src string) []Token {
	lex := NewLexer(src)
	var toks []Token
	for {
		tok := lex.Next()
		toks = append(toks, tok)
		if tok.Type == EOF {
			return toks
		}
	}
}

func TestLexerScansDeclaration(t *testing.T) {
	toks := collect("type Nat = Zero | Succ(Nat)")
	types := make([]TokenType, 0, len(toks))
	for _, tok := range toks {
		types = append(types, tok.Type)
	}
	require.Equal(t, []TokenType{
		TYPE, IDENT, ASSIGN, IDENT, PIPE, IDENT, LPAREN, IDENT, RPAREN, EOF,
	}, types)
}

func TestLexerKeywordsAndArrow(t *testing.T) {
	toks := collect("fn f(n) decreasing n { match n { _ => 0 } }")
	require.Equal(t, FN, toks[0].Type)
	require.Equal(t, DECREASING, toks[5].Type)
	require.Equal(t, MATCH, toks[8].Type)
	var sawArrow bool
	for _, tok := range toks {
		if tok.Type == ARROW {
			sawArrow = true
		}
	}
	require.True(t, sawArrow, "expected '=>' token")
}

func TestLexerSkipsComments(t *testing.T) {
	toks := collect("-- addition, the hard way\nadd(1, 2) -- trailing note")
	require.Equal(t, IDENT, toks[0].Type)
	require.Equal(t, "add", toks[0].Literal)
	require.Equal(t, 2, toks[0].Line)
}

func TestLexerTracksPositions(t *testing.T) {
	toks := collect("Zero\n  Succ")
	require.Equal(t, 1, toks[0].Line)
	require.Equal(t, 1, toks[0].Col)
	require.Equal(t, 2, toks[1].Line)
	require.Equal(t, 3, toks[1].Col)
}

func TestLexerPrimedIdentifiers(t *testing.T) {
	toks := collect("n'")
	require.Equal(t, IDENT, toks[0].Type)
	require.Equal(t, "n'", toks[0].Literal)
}

func TestLexerIllegalRune(t *testing.T) {
	toks := collect("@")
	require.Equal(t, ILLEGAL, toks[0].Type)
}
