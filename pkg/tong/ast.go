package tong

import "context"

// Node is a parsed form: expression or statement.
type Node interface {
	Eval(ctx context.Context, env *Env) (Value, error)
	Location() *SourceLocation
}

// Stmt marks statement nodes. Statement lists use the marker to decide
// which values count toward a block's trailing bare expression.
type Stmt interface {
	Node
	stmtNode()
}

// Program is a parsed source file or REPL snippet. The parser also
// collects every function declaration and match expression it saw, in
// order, for the pattern linter.
type Program struct {
	Stmts []Node

	fnDecls []*FnDecl
	matches []*MatchExpr
}
