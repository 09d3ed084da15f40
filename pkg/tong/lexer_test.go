package tong

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lex(t *testing.T, src string) []Token {
	t.Helper()
	toks, err := NewLexer(src, "test.tong").Tokenize()
	require.NoError(t, err)
	return toks
}

func kinds(toks []Token) []TokenKind {
	out := make([]TokenKind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestLexerBasics(t *testing.T) {
	t.Run("let binding", func(t *testing.T) {
		toks := lex(t, "let x = 42")
		assert.Equal(t, []TokenKind{TokenLet, TokenIdent, TokenEqual, TokenInt, TokenEOF}, kinds(toks))
		assert.Equal(t, "x", toks[1].Text)
		assert.Equal(t, "42", toks[3].Text)
	})

	t.Run("float vs int", func(t *testing.T) {
		toks := lex(t, "1.5 2 3.0")
		assert.Equal(t, []TokenKind{TokenFloat, TokenInt, TokenFloat, TokenEOF}, kinds(toks))
	})

	t.Run("dot after int stays a dot", func(t *testing.T) {
		toks := lex(t, "xs.foo")
		assert.Equal(t, []TokenKind{TokenIdent, TokenDot, TokenIdent, TokenEOF}, kinds(toks))
	})

	t.Run("comments skipped", func(t *testing.T) {
		toks := lex(t, "1 // the rest is ignored\n2")
		assert.Equal(t, []TokenKind{TokenInt, TokenInt, TokenEOF}, kinds(toks))
		assert.Equal(t, 2, toks[1].Line)
	})

	t.Run("keywords", func(t *testing.T) {
		toks := lex(t, "fn data match parallel while in return")
		assert.Equal(t, []TokenKind{
			TokenFn, TokenData, TokenMatch, TokenParallel, TokenWhile, TokenIn, TokenReturn, TokenEOF,
		}, kinds(toks))
	})
}

func TestLexerOperators(t *testing.T) {
	toks := lex(t, "== != <= >= << >> && || & | ! -> \\")
	assert.Equal(t, []TokenKind{
		TokenEqualEqual, TokenBangEqual, TokenLessEqual, TokenGreaterEqual,
		TokenShiftLeft, TokenShiftRight, TokenAndAnd, TokenOrOr,
		TokenAmpersand, TokenPipe, TokenBang, TokenArrow, TokenBackslash,
		TokenEOF,
	}, kinds(toks))
}

func TestLexerStrings(t *testing.T) {
	t.Run("verbatim bytes, no escapes", func(t *testing.T) {
		toks := lex(t, `"a\nb"`)
		require.Equal(t, TokenString, toks[0].Kind)
		assert.Equal(t, `a\nb`, toks[0].Text)
	})

	t.Run("unterminated", func(t *testing.T) {
		_, err := NewLexer(`"oops`, "test.tong").Tokenize()
		require.Error(t, err)
		kind, ok := ErrKindOf(err)
		require.True(t, ok)
		assert.Equal(t, LexError, kind)
	})
}

func TestLexerUnknownRune(t *testing.T) {
	_, err := NewLexer("let x = @", "test.tong").Tokenize()
	require.Error(t, err)
	kind, ok := ErrKindOf(err)
	require.True(t, ok)
	assert.Equal(t, LexError, kind)
}

func TestLexerPositions(t *testing.T) {
	toks := lex(t, "let x = 1\nlet y = 2")
	// second let
	assert.Equal(t, 2, toks[4].Line)
	assert.Equal(t, 1, toks[4].Col)
	// y
	assert.Equal(t, 2, toks[5].Line)
	assert.Equal(t, 5, toks[5].Col)
}
