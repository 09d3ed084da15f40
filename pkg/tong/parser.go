package tong

import (
	"strconv"
	"unicode"
	"unicode/utf8"
)

// Parser is a recursive-descent parser over the token stream. It owns
// the constructor registry while parsing: `data` declarations register
// their constructors immediately, so later capitalized calls in the
// same parse classify as constructor applications.
type Parser struct {
	tokens []Token
	pos    int
	reg    *Registry
	prog   *Program

	// compHeads counts enclosing comprehension-head positions, where a
	// top-level `|` followed by `ident in` separates the element
	// expression from the generators instead of meaning bitwise OR.
	compHeads int
}

// Parse tokenizes and parses src against reg.
func Parse(src, filename string, reg *Registry) (*Program, error) {
	toks, err := NewLexer(src, filename).Tokenize()
	if err != nil {
		return nil, err
	}
	p := &Parser{tokens: toks, reg: reg, prog: &Program{}}
	for !p.at(TokenEOF) {
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		p.prog.Stmts = append(p.prog.Stmts, stmt)
	}
	return p.prog, nil
}

func (p *Parser) peek() Token {
	return p.tokens[p.pos]
}

func (p *Parser) peekN(off int) Token {
	if p.pos+off >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // EOF
	}
	return p.tokens[p.pos+off]
}

func (p *Parser) at(kind TokenKind) bool          { return p.peek().Kind == kind }
func (p *Parser) atN(off int, kind TokenKind) bool { return p.peekN(off).Kind == kind }

func (p *Parser) bump() Token {
	t := p.tokens[p.pos]
	if t.Kind != TokenEOF {
		p.pos++
	}
	return t
}

func (p *Parser) expect(kind TokenKind) (Token, error) {
	if p.at(kind) {
		return p.bump(), nil
	}
	t := p.peek()
	return Token{}, NewError(ParseError, t.Location(), "expected %s, got %s", kind, t.Kind)
}

func (p *Parser) expectIdent() (Token, error) {
	return p.expect(TokenIdent)
}

// expectPropName reads a property name after `.`. Keywords are plain
// names in this position, so tensors can expose a `data` property.
func (p *Parser) expectPropName() (Token, error) {
	tok := p.peek()
	if tok.Kind == TokenIdent {
		return p.bump(), nil
	}
	if kind, ok := keywords[tok.Text]; ok && kind == tok.Kind {
		return p.bump(), nil
	}
	return Token{}, NewError(ParseError, tok.Location(), "expected property name, got %s", tok.Kind)
}

func isCtorName(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}

// ctorLike classifies a name as a constructor: registered names win,
// capitalization is the fallback for forward references.
func (p *Parser) ctorLike(name string) bool {
	return p.reg.IsConstructor(name) || isCtorName(name)
}

// --- statements ---

func (p *Parser) parseStmt() (Node, error) {
	switch p.peek().Kind {
	case TokenData:
		return p.parseDataDecl()
	case TokenLet, TokenVar:
		return p.parseLet()
	case TokenFn, TokenDef:
		return p.parseFnDecl()
	case TokenParallel:
		loc := p.bump().Location()
		body, err := p.parseBraceBody()
		if err != nil {
			return nil, err
		}
		return &ParallelStmt{Body: body, Loc: loc}, nil
	case TokenWhile:
		loc := p.bump().Location()
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		body, err := p.parseBraceBody()
		if err != nil {
			return nil, err
		}
		return &WhileStmt{Cond: cond, Body: body, Loc: loc}, nil
	case TokenReturn:
		loc := p.bump().Location()
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ReturnStmt{Value: val, Loc: loc}, nil
	case TokenIf:
		return p.parseIfStmt()
	}

	if p.at(TokenIdent) {
		switch {
		case p.peek().Text == "print" && p.atN(1, TokenLParen):
			return p.parsePrint()
		case p.atN(1, TokenEqual):
			tok := p.bump()
			p.bump() // =
			val, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			return &AssignStmt{Name: tok.Text, Value: val, Loc: tok.Location()}, nil
		case p.atN(1, TokenLBracket) && p.indexAssignAhead():
			return p.parseIndexAssign()
		}
	}

	return p.parseExpr()
}

// indexAssignAhead looks past `name [ ... ] [ ... ]` groups for a
// bare `=`, distinguishing `a[0] = x` from the expression `a[0]`.
func (p *Parser) indexAssignAhead() bool {
	j := p.pos + 1
	for j < len(p.tokens) && p.tokens[j].Kind == TokenLBracket {
		depth := 0
		for j < len(p.tokens) {
			switch p.tokens[j].Kind {
			case TokenLBracket:
				depth++
			case TokenRBracket:
				depth--
			case TokenEOF:
				return false
			}
			j++
			if depth == 0 {
				break
			}
		}
	}
	return j > p.pos+1 && j < len(p.tokens) && p.tokens[j].Kind == TokenEqual
}

func (p *Parser) parseIndexAssign() (Node, error) {
	tok := p.bump()
	var indices []Node
	for p.at(TokenLBracket) {
		p.bump()
		idx, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRBracket); err != nil {
			return nil, err
		}
		indices = append(indices, idx)
	}
	if _, err := p.expect(TokenEqual); err != nil {
		return nil, err
	}
	val, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &IndexAssignStmt{Name: tok.Text, Indices: indices, Value: val, Loc: tok.Location()}, nil
}

func (p *Parser) parsePrint() (Node, error) {
	tok := p.bump() // print
	p.bump()        // (
	var args []Node
	if !p.at(TokenRParen) {
		for {
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.at(TokenComma) {
				break
			}
			p.bump()
		}
	}
	if _, err := p.expect(TokenRParen); err != nil {
		return nil, err
	}
	return &PrintStmt{Args: args, Loc: tok.Location()}, nil
}

func (p *Parser) parseIfStmt() (Node, error) {
	loc := p.bump().Location()
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	then, err := p.parseBraceBody()
	if err != nil {
		return nil, err
	}
	var elseBody []Node
	if p.at(TokenElse) {
		p.bump()
		if p.at(TokenIf) {
			chained, err := p.parseIfStmt()
			if err != nil {
				return nil, err
			}
			elseBody = []Node{chained}
		} else {
			elseBody, err = p.parseBraceBody()
			if err != nil {
				return nil, err
			}
		}
	}
	return &IfStmt{Cond: cond, Then: then, Else: elseBody, Loc: loc}, nil
}

func (p *Parser) parseBraceBody() ([]Node, error) {
	if _, err := p.expect(TokenLBrace); err != nil {
		return nil, err
	}
	body := []Node{}
	for !p.at(TokenRBrace) && !p.at(TokenEOF) {
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
	if _, err := p.expect(TokenRBrace); err != nil {
		return nil, err
	}
	return body, nil
}

func (p *Parser) parseLet() (Node, error) {
	kw := p.bump()
	mutable := kw.Kind == TokenVar

	// Tuple destructuring: let (a, b) = expr
	if p.at(TokenLParen) {
		p.bump()
		var names []string
		if !p.at(TokenRParen) {
			for {
				tok, err := p.expectIdent()
				if err != nil {
					return nil, err
				}
				names = append(names, tok.Text)
				if !p.at(TokenComma) {
					break
				}
				p.bump()
			}
		}
		if _, err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenEqual); err != nil {
			return nil, err
		}
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &LetTupleDecl{Names: names, Value: val, Mutable: mutable, Loc: kw.Location()}, nil
	}

	nameTok, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenEqual); err != nil {
		return nil, err
	}

	// `let name = import("mod")` becomes an import binding.
	if p.at(TokenIdent) && p.peek().Text == "import" && p.atN(1, TokenLParen) && p.atN(2, TokenString) && p.atN(3, TokenRParen) {
		p.bump() // import
		p.bump() // (
		modTok := p.bump()
		p.bump() // )
		return &ImportDecl{Name: nameTok.Text, Module: modTok.Text, Loc: kw.Location()}, nil
	}

	val, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &LetDecl{Name: nameTok.Text, Value: val, Mutable: mutable, Loc: kw.Location()}, nil
}

func (p *Parser) parseDataDecl() (Node, error) {
	loc := p.bump().Location()
	nameTok, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenEqual); err != nil {
		return nil, err
	}
	var ctors []DataCtor
	for {
		ctorTok, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		arity := 0
		if p.at(TokenLParen) {
			p.bump()
			if !p.at(TokenRParen) {
				for {
					if _, err := p.expectIdent(); err != nil {
						return nil, err
					}
					arity++
					if !p.at(TokenComma) {
						break
					}
					p.bump()
				}
			}
			if _, err := p.expect(TokenRParen); err != nil {
				return nil, err
			}
		} else {
			// Bare field names: `data Maybe = Just x | Nothing`. An
			// identifier followed by `=`, `(`, `[`, or `.` starts the
			// next statement (assignment, call, index or property), so
			// it is not a field of a zero-arity constructor.
			for p.at(TokenIdent) && !p.atN(1, TokenEqual) && !p.atN(1, TokenLParen) &&
				!p.atN(1, TokenLBracket) && !p.atN(1, TokenDot) {
				p.bump()
				arity++
			}
		}
		if err := p.reg.Define(nameTok.Text, ctorTok.Text, arity, ctorTok.Location()); err != nil {
			return nil, err
		}
		ctors = append(ctors, DataCtor{Name: ctorTok.Text, Arity: arity})
		if !p.at(TokenPipe) {
			break
		}
		p.bump()
	}
	return &DataDecl{Name: nameTok.Text, Ctors: ctors, Loc: loc}, nil
}

func (p *Parser) parseFnDecl() (Node, error) {
	loc := p.bump().Location() // fn / def
	nameTok, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenLParen); err != nil {
		return nil, err
	}
	var params []Pattern
	if !p.at(TokenRParen) {
		for {
			pat, err := p.parsePattern()
			if err != nil {
				return nil, err
			}
			params = append(params, pat)
			if !p.at(TokenComma) {
				break
			}
			p.bump()
		}
	}
	if _, err := p.expect(TokenRParen); err != nil {
		return nil, err
	}

	var names []string
	for _, pat := range params {
		names = patternNames(pat, names)
	}
	if dup := firstDuplicate(names); dup != "" {
		return nil, NewError(ParseError, loc, "duplicate binding %q in parameters of %s", dup, nameTok.Text)
	}

	var guard Node
	if p.at(TokenIf) {
		p.bump()
		guard, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	body, err := p.parseBraceBody()
	if err != nil {
		return nil, err
	}
	decl := &FnDecl{Name: nameTok.Text, Params: params, Guard: guard, Body: body, Loc: loc}
	p.prog.fnDecls = append(p.prog.fnDecls, decl)
	return decl, nil
}

func firstDuplicate(names []string) string {
	seen := map[string]bool{}
	for _, name := range names {
		if seen[name] {
			return name
		}
		seen[name] = true
	}
	return ""
}

// --- expressions, lowest precedence first ---

func (p *Parser) parseExpr() (Node, error) {
	return p.parseOr()
}

func (p *Parser) parseOr() (Node, error) {
	node, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.at(TokenOrOr) {
		loc := p.bump().Location()
		rhs, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		node = &LogicalOr{Left: node, Right: rhs, Loc: loc}
	}
	return node, nil
}

func (p *Parser) parseAnd() (Node, error) {
	node, err := p.parseBitOr()
	if err != nil {
		return nil, err
	}
	for p.at(TokenAndAnd) {
		loc := p.bump().Location()
		rhs, err := p.parseBitOr()
		if err != nil {
			return nil, err
		}
		node = &LogicalAnd{Left: node, Right: rhs, Loc: loc}
	}
	return node, nil
}

func (p *Parser) parseBitOr() (Node, error) {
	node, err := p.parseBitAnd()
	if err != nil {
		return nil, err
	}
	for p.at(TokenPipe) {
		// In a comprehension head, `| x in` starts the generators.
		if p.compHeads > 0 && p.atN(1, TokenIdent) && p.atN(2, TokenIn) {
			break
		}
		loc := p.bump().Location()
		rhs, err := p.parseBitAnd()
		if err != nil {
			return nil, err
		}
		node = NewBinaryOp("|", node, rhs, loc)
	}
	return node, nil
}

func (p *Parser) parseBitAnd() (Node, error) {
	node, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.at(TokenAmpersand) {
		loc := p.bump().Location()
		rhs, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		node = NewBinaryOp("&", node, rhs, loc)
	}
	return node, nil
}

func (p *Parser) parseEquality() (Node, error) {
	node, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.at(TokenEqualEqual) || p.at(TokenBangEqual) {
		tok := p.bump()
		rhs, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		node = NewBinaryOp(tok.Text, node, rhs, tok.Location())
	}
	return node, nil
}

func (p *Parser) parseComparison() (Node, error) {
	node, err := p.parseShift()
	if err != nil {
		return nil, err
	}
	for p.at(TokenLess) || p.at(TokenLessEqual) || p.at(TokenGreater) || p.at(TokenGreaterEqual) {
		tok := p.bump()
		rhs, err := p.parseShift()
		if err != nil {
			return nil, err
		}
		node = NewBinaryOp(tok.Text, node, rhs, tok.Location())
	}
	return node, nil
}

func (p *Parser) parseShift() (Node, error) {
	node, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for p.at(TokenShiftLeft) || p.at(TokenShiftRight) {
		tok := p.bump()
		rhs, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		node = NewBinaryOp(tok.Text, node, rhs, tok.Location())
	}
	return node, nil
}

func (p *Parser) parseAdditive() (Node, error) {
	node, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.at(TokenPlus) || p.at(TokenMinus) {
		tok := p.bump()
		rhs, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		node = NewBinaryOp(tok.Text, node, rhs, tok.Location())
	}
	return node, nil
}

func (p *Parser) parseMultiplicative() (Node, error) {
	node, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.at(TokenStar) || p.at(TokenSlash) || p.at(TokenPercent) {
		tok := p.bump()
		rhs, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		node = NewBinaryOp(tok.Text, node, rhs, tok.Location())
	}
	return node, nil
}

func (p *Parser) parseUnary() (Node, error) {
	if p.at(TokenBang) || p.at(TokenMinus) || p.at(TokenPlus) {
		tok := p.bump()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryOp{Op: tok.Text, Operand: operand, Loc: tok.Location()}, nil
	}
	return p.parsePostfix()
}

// parsePostfix chains calls, indexing, and property access onto an
// atom. The first call directly on a capitalized name is classified as
// a constructor application.
func (p *Parser) parsePostfix() (Node, error) {
	node, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.at(TokenLParen):
			loc := p.bump().Location()
			args, err := p.parseCallArgs()
			if err != nil {
				return nil, err
			}
			if v, ok := node.(*Var); ok {
				if v.Name == "import" {
					if len(args) != 1 {
						return nil, NewError(ParseError, loc, "import expects one module name")
					}
					node = &ImportExpr{Mod: args[0], Loc: loc}
					continue
				}
				if p.ctorLike(v.Name) {
					node = &CtorCall{Name: v.Name, Args: args, Loc: loc}
					continue
				}
			}
			node = &CallExpr{Callee: node, Args: args, Loc: loc}
		case p.at(TokenLBracket):
			loc := p.bump().Location()
			idx, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(TokenRBracket); err != nil {
				return nil, err
			}
			node = &IndexExpr{Target: node, Index: idx, Loc: loc}
		case p.at(TokenDot):
			p.bump()
			nameTok, err := p.expectPropName()
			if err != nil {
				return nil, err
			}
			if p.at(TokenLParen) {
				loc := p.bump().Location()
				args, err := p.parseCallArgs()
				if err != nil {
					return nil, err
				}
				node = &MethodCall{Target: node, Method: nameTok.Text, Args: args, Loc: loc}
			} else {
				node = &PropertyExpr{Target: node, Name: nameTok.Text, Loc: nameTok.Location()}
			}
		default:
			return node, nil
		}
	}
}

// parseCallArgs parses `expr, ...` up to a closing paren; the opening
// paren is already consumed.
func (p *Parser) parseCallArgs() ([]Node, error) {
	var args []Node
	if !p.at(TokenRParen) {
		for {
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.at(TokenComma) {
				break
			}
			p.bump()
		}
	}
	if _, err := p.expect(TokenRParen); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) parseAtom() (Node, error) {
	tok := p.peek()
	switch tok.Kind {
	case TokenInt:
		p.bump()
		val, err := strconv.ParseInt(tok.Text, 10, 64)
		if err != nil {
			return nil, NewError(ParseError, tok.Location(), "invalid integer literal %q", tok.Text)
		}
		return &IntLit{Val: val, Loc: tok.Location()}, nil
	case TokenFloat:
		p.bump()
		val, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return nil, NewError(ParseError, tok.Location(), "invalid float literal %q", tok.Text)
		}
		return &FloatLit{Val: val, Loc: tok.Location()}, nil
	case TokenString:
		p.bump()
		return &StrLit{Val: tok.Text, Loc: tok.Location()}, nil
	case TokenTrue:
		p.bump()
		return &BoolLit{Val: true, Loc: tok.Location()}, nil
	case TokenFalse:
		p.bump()
		return &BoolLit{Val: false, Loc: tok.Location()}, nil
	case TokenIdent:
		p.bump()
		return &Var{Name: tok.Text, Loc: tok.Location()}, nil
	case TokenBackslash:
		return p.parseBackslashLambda()
	case TokenPipe:
		return p.parsePipeLambda()
	case TokenLParen:
		return p.parseParen()
	case TokenLBracket:
		return p.parseBracket()
	case TokenLBrace:
		loc := tok.Location()
		body, err := p.parseBraceBody()
		if err != nil {
			return nil, err
		}
		return &BlockExpr{Stmts: body, Loc: loc}, nil
	case TokenMatch:
		return p.parseMatch()
	}
	return nil, NewError(ParseError, tok.Location(), "unexpected %s", tok.Kind)
}

// parsePipeLambda parses `|x| body`: at atom position a pipe always
// opens a single-parameter lambda.
func (p *Parser) parsePipeLambda() (Node, error) {
	loc := p.bump().Location() // |
	param, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenPipe); err != nil {
		return nil, err
	}
	// The body is a full expression, so generator pipes in an enclosing
	// comprehension must still terminate it.
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &LambdaExpr{Params: []string{param.Text}, Body: body, Loc: loc}, nil
}

func (p *Parser) parseBackslashLambda() (Node, error) {
	loc := p.bump().Location() // backslash
	var params []string
	for p.at(TokenIdent) {
		params = append(params, p.bump().Text)
	}
	if _, err := p.expect(TokenArrow); err != nil {
		return nil, err
	}
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &LambdaExpr{Params: params, Body: body, Loc: loc}, nil
}

// parseParen parses `(expr)` grouping or an `(a, b)` tuple, which
// evaluates to an array.
func (p *Parser) parseParen() (Node, error) {
	loc := p.bump().Location() // (
	if p.at(TokenRParen) {
		p.bump()
		return &ArrayLit{Loc: loc}, nil
	}
	first, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if !p.at(TokenComma) {
		if _, err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
		return first, nil
	}
	elems := []Node{first}
	for p.at(TokenComma) {
		p.bump()
		el, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, el)
	}
	if _, err := p.expect(TokenRParen); err != nil {
		return nil, err
	}
	return &ArrayLit{Elems: elems, Loc: loc}, nil
}

// parseBracket parses an array literal or a list comprehension
// `[elem | x in xs, y in ys if pred]`.
func (p *Parser) parseBracket() (Node, error) {
	loc := p.bump().Location() // [
	if p.at(TokenRBracket) {
		p.bump()
		return &ArrayLit{Loc: loc}, nil
	}

	p.compHeads++
	first, err := p.parseExpr()
	p.compHeads--
	if err != nil {
		return nil, err
	}

	if p.at(TokenPipe) {
		p.bump()
		var gens []CompGen
		for {
			nameTok, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(TokenIn); err != nil {
				return nil, err
			}
			iter, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			gens = append(gens, CompGen{Name: nameTok.Text, Iter: iter})
			if !p.at(TokenComma) {
				break
			}
			p.bump()
		}
		var pred Node
		if p.at(TokenIf) {
			p.bump()
			pred, err = p.parseExpr()
			if err != nil {
				return nil, err
			}
		}
		if _, err := p.expect(TokenRBracket); err != nil {
			return nil, err
		}
		return &ListCompExpr{Elem: first, Gens: gens, Pred: pred, Loc: loc}, nil
	}

	elems := []Node{first}
	for p.at(TokenComma) {
		p.bump()
		el, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, el)
	}
	if _, err := p.expect(TokenRBracket); err != nil {
		return nil, err
	}
	return &ArrayLit{Elems: elems, Loc: loc}, nil
}

func (p *Parser) parseMatch() (Node, error) {
	loc := p.bump().Location() // match
	scrut, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenLBrace); err != nil {
		return nil, err
	}
	var arms []*MatchArm
	for !p.at(TokenRBrace) && !p.at(TokenEOF) {
		armLoc := p.peek().Location()
		pat, err := p.parsePattern()
		if err != nil {
			return nil, err
		}
		if dup := firstDuplicate(patternNames(pat, nil)); dup != "" {
			return nil, NewError(ParseError, armLoc, "duplicate binding %q in pattern", dup)
		}
		var guard Node
		if p.at(TokenIf) {
			p.bump()
			guard, err = p.parseExpr()
			if err != nil {
				return nil, err
			}
		}
		if _, err := p.expect(TokenArrow); err != nil {
			return nil, err
		}
		body, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.at(TokenComma) {
			p.bump()
		}
		arms = append(arms, &MatchArm{Pattern: pat, Guard: guard, Body: body, Loc: armLoc})
	}
	if _, err := p.expect(TokenRBrace); err != nil {
		return nil, err
	}
	expr := &MatchExpr{Scrutinee: scrut, Arms: arms, Loc: loc}
	p.prog.matches = append(p.prog.matches, expr)
	return expr, nil
}

// --- patterns ---

func (p *Parser) parsePattern() (Pattern, error) {
	tok := p.peek()
	switch tok.Kind {
	case TokenIdent:
		p.bump()
		if tok.Text == "_" {
			return &WildcardPattern{Loc: tok.Location()}, nil
		}
		if p.ctorLike(tok.Text) {
			return p.parseCtorPattern(tok)
		}
		return &VarPattern{Name: tok.Text, Loc: tok.Location()}, nil
	case TokenLParen:
		p.bump()
		var elems []Pattern
		if !p.at(TokenRParen) {
			for {
				sub, err := p.parsePattern()
				if err != nil {
					return nil, err
				}
				elems = append(elems, sub)
				if !p.at(TokenComma) {
					break
				}
				p.bump()
			}
		}
		if _, err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
		return &TuplePattern{Elems: elems, Loc: tok.Location()}, nil
	case TokenInt:
		p.bump()
		val, err := strconv.ParseInt(tok.Text, 10, 64)
		if err != nil {
			return nil, NewError(ParseError, tok.Location(), "invalid integer literal %q", tok.Text)
		}
		return &LiteralPattern{Val: &IntValue{Val: val}, Loc: tok.Location()}, nil
	case TokenFloat:
		p.bump()
		val, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return nil, NewError(ParseError, tok.Location(), "invalid float literal %q", tok.Text)
		}
		return &LiteralPattern{Val: &FloatValue{Val: val}, Loc: tok.Location()}, nil
	case TokenMinus:
		p.bump()
		num := p.peek()
		switch num.Kind {
		case TokenInt:
			p.bump()
			val, err := strconv.ParseInt(num.Text, 10, 64)
			if err != nil {
				return nil, NewError(ParseError, num.Location(), "invalid integer literal %q", num.Text)
			}
			return &LiteralPattern{Val: &IntValue{Val: -val}, Loc: tok.Location()}, nil
		case TokenFloat:
			p.bump()
			val, err := strconv.ParseFloat(num.Text, 64)
			if err != nil {
				return nil, NewError(ParseError, num.Location(), "invalid float literal %q", num.Text)
			}
			return &LiteralPattern{Val: &FloatValue{Val: -val}, Loc: tok.Location()}, nil
		}
		return nil, NewError(ParseError, num.Location(), "expected numeric literal after '-' in pattern")
	case TokenString:
		p.bump()
		return &LiteralPattern{Val: &StringValue{Val: tok.Text}, Loc: tok.Location()}, nil
	case TokenTrue:
		p.bump()
		return &LiteralPattern{Val: &BoolValue{Val: true}, Loc: tok.Location()}, nil
	case TokenFalse:
		p.bump()
		return &LiteralPattern{Val: &BoolValue{Val: false}, Loc: tok.Location()}, nil
	}
	return nil, NewError(ParseError, tok.Location(), "unexpected %s in pattern", tok.Kind)
}

// parseCtorPattern parses constructor arguments, either parenthesized
// (`Rect(w, h)`) or space-separated (`Just x`, the older style).
func (p *Parser) parseCtorPattern(nameTok Token) (Pattern, error) {
	if p.at(TokenLParen) {
		p.bump()
		var args []Pattern
		if !p.at(TokenRParen) {
			for {
				sub, err := p.parsePattern()
				if err != nil {
					return nil, err
				}
				args = append(args, sub)
				if !p.at(TokenComma) {
					break
				}
				p.bump()
			}
		}
		if _, err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
		return &CtorPattern{Name: nameTok.Text, Args: args, Loc: nameTok.Location()}, nil
	}
	var args []Pattern
	for {
		next := p.peek()
		if next.Kind == TokenArrow || next.Kind == TokenComma || next.Kind == TokenIf ||
			next.Kind == TokenPipe || next.Kind == TokenRBrace || next.Kind == TokenRParen ||
			next.Kind == TokenEOF || next.Kind == TokenLBrace {
			break
		}
		starts := next.Kind == TokenIdent || next.Kind == TokenInt || next.Kind == TokenFloat ||
			next.Kind == TokenString || next.Kind == TokenTrue || next.Kind == TokenFalse ||
			next.Kind == TokenLParen
		if !starts {
			break
		}
		sub, err := p.parsePattern()
		if err != nil {
			return nil, err
		}
		args = append(args, sub)
	}
	return &CtorPattern{Name: nameTok.Text, Args: args, Loc: nameTok.Location()}, nil
}
