package tong

import (
	"strings"
	"unicode"
)

// Lexer turns source text into a token stream. Whitespace and `//` line
// comments are skipped; newlines carry no significance.
type Lexer struct {
	src      []rune
	filename string
	pos      int
	line     int
	col      int
}

func NewLexer(src, filename string) *Lexer {
	return &Lexer{src: []rune(src), filename: filename, line: 1, col: 1}
}

// Tokenize consumes the whole input and returns the token list, ending
// with an EOF token.
func (l *Lexer) Tokenize() ([]Token, error) {
	var toks []Token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Kind == TokenEOF {
			return toks, nil
		}
	}
}

func (l *Lexer) errorf(line, col int, format string, args ...interface{}) error {
	return NewError(LexError, &SourceLocation{Filename: l.filename, Line: line, Column: col}, format, args...)
}

func (l *Lexer) peek() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) peekAt(off int) rune {
	if l.pos+off >= len(l.src) {
		return 0
	}
	return l.src[l.pos+off]
}

func (l *Lexer) advance() rune {
	r := l.src[l.pos]
	l.pos++
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *Lexer) skipTrivia() {
	for l.pos < len(l.src) {
		r := l.peek()
		switch {
		case r == ' ' || r == '\t' || r == '\r' || r == '\n':
			l.advance()
		case r == '/' && l.peekAt(1) == '/':
			for l.pos < len(l.src) && l.peek() != '\n' {
				l.advance()
			}
		default:
			return
		}
	}
}

func (l *Lexer) next() (Token, error) {
	l.skipTrivia()

	line, col := l.line, l.col
	if l.pos >= len(l.src) {
		return Token{Kind: TokenEOF, File: l.filename, Line: line, Col: col}, nil
	}

	r := l.peek()

	switch {
	case unicode.IsDigit(r):
		return l.lexNumber(line, col)
	case r == '_' || unicode.IsLetter(r):
		return l.lexIdent(line, col)
	case r == '"':
		return l.lexString(line, col)
	}

	mk := func(kind TokenKind, text string) Token {
		return Token{Kind: kind, Text: text, File: l.filename, Line: line, Col: col}
	}

	l.advance()
	switch r {
	case '(':
		return mk(TokenLParen, "("), nil
	case ')':
		return mk(TokenRParen, ")"), nil
	case '{':
		return mk(TokenLBrace, "{"), nil
	case '}':
		return mk(TokenRBrace, "}"), nil
	case '[':
		return mk(TokenLBracket, "["), nil
	case ']':
		return mk(TokenRBracket, "]"), nil
	case ',':
		return mk(TokenComma, ","), nil
	case ':':
		return mk(TokenColon, ":"), nil
	case '.':
		return mk(TokenDot, "."), nil
	case '+':
		return mk(TokenPlus, "+"), nil
	case '*':
		return mk(TokenStar, "*"), nil
	case '/':
		return mk(TokenSlash, "/"), nil
	case '%':
		return mk(TokenPercent, "%"), nil
	case '\\':
		return mk(TokenBackslash, "\\"), nil
	case '-':
		if l.peek() == '>' {
			l.advance()
			return mk(TokenArrow, "->"), nil
		}
		return mk(TokenMinus, "-"), nil
	case '=':
		if l.peek() == '=' {
			l.advance()
			return mk(TokenEqualEqual, "=="), nil
		}
		return mk(TokenEqual, "="), nil
	case '!':
		if l.peek() == '=' {
			l.advance()
			return mk(TokenBangEqual, "!="), nil
		}
		return mk(TokenBang, "!"), nil
	case '<':
		if l.peek() == '=' {
			l.advance()
			return mk(TokenLessEqual, "<="), nil
		}
		if l.peek() == '<' {
			l.advance()
			return mk(TokenShiftLeft, "<<"), nil
		}
		return mk(TokenLess, "<"), nil
	case '>':
		if l.peek() == '=' {
			l.advance()
			return mk(TokenGreaterEqual, ">="), nil
		}
		if l.peek() == '>' {
			l.advance()
			return mk(TokenShiftRight, ">>"), nil
		}
		return mk(TokenGreater, ">"), nil
	case '&':
		if l.peek() == '&' {
			l.advance()
			return mk(TokenAndAnd, "&&"), nil
		}
		return mk(TokenAmpersand, "&"), nil
	case '|':
		if l.peek() == '|' {
			l.advance()
			return mk(TokenOrOr, "||"), nil
		}
		return mk(TokenPipe, "|"), nil
	}

	return Token{}, l.errorf(line, col, "unexpected character %q", r)
}

func (l *Lexer) lexNumber(line, col int) (Token, error) {
	var sb strings.Builder
	for l.pos < len(l.src) && unicode.IsDigit(l.peek()) {
		sb.WriteRune(l.advance())
	}
	// A '.' begins a fractional part only when a digit follows, so that
	// `2.sqrt()`-style method calls on literals stay unambiguous.
	if l.peek() == '.' && unicode.IsDigit(l.peekAt(1)) {
		sb.WriteRune(l.advance())
		for l.pos < len(l.src) && unicode.IsDigit(l.peek()) {
			sb.WriteRune(l.advance())
		}
		return Token{Kind: TokenFloat, Text: sb.String(), File: l.filename, Line: line, Col: col}, nil
	}
	return Token{Kind: TokenInt, Text: sb.String(), File: l.filename, Line: line, Col: col}, nil
}

func (l *Lexer) lexIdent(line, col int) (Token, error) {
	var sb strings.Builder
	for l.pos < len(l.src) {
		r := l.peek()
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(l.advance())
		} else {
			break
		}
	}
	text := sb.String()
	if kind, ok := keywords[text]; ok {
		return Token{Kind: kind, Text: text, File: l.filename, Line: line, Col: col}, nil
	}
	return Token{Kind: TokenIdent, Text: text, File: l.filename, Line: line, Col: col}, nil
}

// lexString reads a double-quoted string. The bytes between the quotes
// are taken verbatim; there are no escape sequences.
func (l *Lexer) lexString(line, col int) (Token, error) {
	l.advance() // opening quote
	var sb strings.Builder
	for {
		if l.pos >= len(l.src) {
			return Token{}, l.errorf(line, col, "unterminated string literal")
		}
		r := l.advance()
		if r == '"' {
			return Token{Kind: TokenString, Text: sb.String(), File: l.filename, Line: line, Col: col}, nil
		}
		sb.WriteRune(r)
	}
}
