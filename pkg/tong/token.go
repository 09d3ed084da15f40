package tong

import "fmt"

// TokenKind identifies the lexical class of a token.
type TokenKind int

const (
	TokenEOF TokenKind = iota

	// Literals and names
	TokenInt
	TokenFloat
	TokenString
	TokenIdent

	// Keywords
	TokenLet
	TokenVar
	TokenFn
	TokenDef
	TokenTrue
	TokenFalse
	TokenIf
	TokenElse
	TokenWhile
	TokenParallel
	TokenData
	TokenMatch
	TokenIn
	TokenReturn

	// Punctuation
	TokenLParen
	TokenRParen
	TokenLBrace
	TokenRBrace
	TokenLBracket
	TokenRBracket
	TokenComma
	TokenColon
	TokenDot

	// Operators
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenPercent
	TokenEqual
	TokenEqualEqual
	TokenBangEqual
	TokenLess
	TokenLessEqual
	TokenGreater
	TokenGreaterEqual
	TokenBang
	TokenAmpersand
	TokenAndAnd
	TokenPipe
	TokenOrOr
	TokenShiftLeft
	TokenShiftRight
	TokenArrow
	TokenBackslash
)

var tokenNames = map[TokenKind]string{
	TokenEOF:          "end of input",
	TokenInt:          "integer literal",
	TokenFloat:        "float literal",
	TokenString:       "string literal",
	TokenIdent:        "identifier",
	TokenLet:          "'let'",
	TokenVar:          "'var'",
	TokenFn:           "'fn'",
	TokenDef:          "'def'",
	TokenTrue:         "'true'",
	TokenFalse:        "'false'",
	TokenIf:           "'if'",
	TokenElse:         "'else'",
	TokenWhile:        "'while'",
	TokenParallel:     "'parallel'",
	TokenData:         "'data'",
	TokenMatch:        "'match'",
	TokenIn:           "'in'",
	TokenReturn:       "'return'",
	TokenLParen:       "'('",
	TokenRParen:       "')'",
	TokenLBrace:       "'{'",
	TokenRBrace:       "'}'",
	TokenLBracket:     "'['",
	TokenRBracket:     "']'",
	TokenComma:        "','",
	TokenColon:        "':'",
	TokenDot:          "'.'",
	TokenPlus:         "'+'",
	TokenMinus:        "'-'",
	TokenStar:         "'*'",
	TokenSlash:        "'/'",
	TokenPercent:      "'%'",
	TokenEqual:        "'='",
	TokenEqualEqual:   "'=='",
	TokenBangEqual:    "'!='",
	TokenLess:         "'<'",
	TokenLessEqual:    "'<='",
	TokenGreater:      "'>'",
	TokenGreaterEqual: "'>='",
	TokenBang:         "'!'",
	TokenAmpersand:    "'&'",
	TokenAndAnd:       "'&&'",
	TokenPipe:         "'|'",
	TokenOrOr:         "'||'",
	TokenShiftLeft:    "'<<'",
	TokenShiftRight:   "'>>'",
	TokenArrow:        "'->'",
	TokenBackslash:    "'\\'",
}

func (k TokenKind) String() string {
	if name, ok := tokenNames[k]; ok {
		return name
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

var keywords = map[string]TokenKind{
	"let":      TokenLet,
	"var":      TokenVar,
	"fn":       TokenFn,
	"def":      TokenDef,
	"true":     TokenTrue,
	"false":    TokenFalse,
	"if":       TokenIf,
	"else":     TokenElse,
	"while":    TokenWhile,
	"parallel": TokenParallel,
	"data":     TokenData,
	"match":    TokenMatch,
	"in":       TokenIn,
	"return":   TokenReturn,
}

// Token is a single lexeme with its source position.
type Token struct {
	Kind TokenKind
	Text string
	File string
	Line int
	Col  int
}

func (t Token) Location() *SourceLocation {
	return &SourceLocation{Filename: t.File, Line: t.Line, Column: t.Col}
}
