package tong

import (
	"context"
	"fmt"
	"strings"

	"github.com/tonglang/tong/pkg/ioctx"
)

// LetDecl binds a new name in the current scope. Mutable is true for
// `var`. Re-declaring shadows; only reassignment is policed.
type LetDecl struct {
	Name    string
	Value   Node
	Mutable bool
	Loc     *SourceLocation
}

func (n *LetDecl) stmtNode() {}

func (n *LetDecl) Eval(ctx context.Context, env *Env) (Value, error) {
	v, err := n.Value.Eval(ctx, env)
	if err != nil {
		return nil, err
	}
	env.Define(n.Name, v, n.Mutable)
	return Unit(), nil
}
func (n *LetDecl) Location() *SourceLocation { return n.Loc }

// LetTupleDecl destructures an array into several bindings:
// `let (a, b) = pair`.
type LetTupleDecl struct {
	Names   []string
	Value   Node
	Mutable bool
	Loc     *SourceLocation
}

func (n *LetTupleDecl) stmtNode() {}

func (n *LetTupleDecl) Eval(ctx context.Context, env *Env) (Value, error) {
	v, err := n.Value.Eval(ctx, env)
	if err != nil {
		return nil, err
	}
	arr, ok := v.(*ArrayValue)
	if !ok {
		return nil, NewError(TypeMismatchError, n.Loc, "cannot destructure %s into (%s)", v.Type(), strings.Join(n.Names, ", "))
	}
	if len(arr.Elements) != len(n.Names) {
		return nil, NewError(TypeMismatchError, n.Loc, "destructuring expects %d elements, got %d", len(n.Names), len(arr.Elements))
	}
	for i, name := range n.Names {
		env.Define(name, arr.Elements[i], n.Mutable)
	}
	return Unit(), nil
}
func (n *LetTupleDecl) Location() *SourceLocation { return n.Loc }

// ImportDecl is the `let name = import("mod")` form recognized at
// parse time.
type ImportDecl struct {
	Name   string
	Module string
	Loc    *SourceLocation
}

func (n *ImportDecl) stmtNode() {}

func (n *ImportDecl) Eval(ctx context.Context, env *Env) (Value, error) {
	mod, err := env.World().LoadModule(ctx, n.Module, n.Loc)
	if err != nil {
		return nil, err
	}
	env.Define(n.Name, mod, false)
	return Unit(), nil
}
func (n *ImportDecl) Location() *SourceLocation { return n.Loc }

// AssignStmt rebinds an existing `var` binding.
type AssignStmt struct {
	Name  string
	Value Node
	Loc   *SourceLocation
}

func (n *AssignStmt) stmtNode() {}

func (n *AssignStmt) Eval(ctx context.Context, env *Env) (Value, error) {
	v, err := n.Value.Eval(ctx, env)
	if err != nil {
		return nil, err
	}
	if err := env.Assign(n.Name, v, n.Loc); err != nil {
		return nil, err
	}
	return Unit(), nil
}
func (n *AssignStmt) Location() *SourceLocation { return n.Loc }

// IndexAssignStmt is `name[i] = v` (possibly nested). The array is
// copied with the element replaced and the copy rebound to name, so
// aliases of the old array are untouched.
type IndexAssignStmt struct {
	Name    string
	Indices []Node
	Value   Node
	Loc     *SourceLocation
}

func (n *IndexAssignStmt) stmtNode() {}

func (n *IndexAssignStmt) Eval(ctx context.Context, env *Env) (Value, error) {
	cur, err := env.Get(n.Name, n.Loc)
	if err != nil {
		return nil, err
	}
	idxs := make([]int64, len(n.Indices))
	for i, ie := range n.Indices {
		iv, err := ie.Eval(ctx, env)
		if err != nil {
			return nil, err
		}
		ii, ok := iv.(*IntValue)
		if !ok {
			return nil, NewError(TypeMismatchError, n.Loc, "array index must be Int, got %s", iv.Type())
		}
		idxs[i] = ii.Val
	}
	v, err := n.Value.Eval(ctx, env)
	if err != nil {
		return nil, err
	}
	updated, err := setIndexed(cur, idxs, v, n.Loc)
	if err != nil {
		return nil, err
	}
	if err := env.Assign(n.Name, updated, n.Loc); err != nil {
		return nil, err
	}
	return Unit(), nil
}
func (n *IndexAssignStmt) Location() *SourceLocation { return n.Loc }

func setIndexed(target Value, idxs []int64, v Value, loc *SourceLocation) (Value, error) {
	arr, ok := target.(*ArrayValue)
	if !ok {
		return nil, NewError(TypeMismatchError, loc, "cannot index into %s", target.Type())
	}
	i := idxs[0]
	if i < 0 || i >= int64(len(arr.Elements)) {
		return nil, NewError(IndexError, loc, "index %d out of range for array of length %d", i, len(arr.Elements))
	}
	elems := make([]Value, len(arr.Elements))
	copy(elems, arr.Elements)
	if len(idxs) == 1 {
		elems[i] = v
	} else {
		inner, err := setIndexed(elems[i], idxs[1:], v, loc)
		if err != nil {
			return nil, err
		}
		elems[i] = inner
	}
	return &ArrayValue{Elements: elems}, nil
}

// PrintStmt writes its arguments, space-separated, to the stdout
// carried by the context.
type PrintStmt struct {
	Args []Node
	Loc  *SourceLocation
}

func (n *PrintStmt) stmtNode() {}

func (n *PrintStmt) Eval(ctx context.Context, env *Env) (Value, error) {
	parts := make([]string, len(n.Args))
	for i, arg := range n.Args {
		v, err := arg.Eval(ctx, env)
		if err != nil {
			return nil, err
		}
		parts[i] = v.String()
	}
	fmt.Fprintln(ioctx.StdoutFromContext(ctx), strings.Join(parts, " "))
	return Unit(), nil
}
func (n *PrintStmt) Location() *SourceLocation { return n.Loc }

// IfStmt runs one of its branches in a child scope. Only an explicit
// return escapes it.
type IfStmt struct {
	Cond Node
	Then []Node
	Else []Node
	Loc  *SourceLocation
}

func (n *IfStmt) stmtNode() {}

func (n *IfStmt) Eval(ctx context.Context, env *Env) (Value, error) {
	cv, err := n.Cond.Eval(ctx, env)
	if err != nil {
		return nil, err
	}
	cb, ok := cv.(*BoolValue)
	if !ok {
		return nil, NewError(TypeMismatchError, n.Loc, "if condition must be Bool, got %s", cv.Type())
	}
	branch := n.Then
	if !cb.Val {
		branch = n.Else
	}
	if branch == nil {
		return Unit(), nil
	}
	out, err := evalForms(ctx, env.Child(), branch)
	if err != nil {
		return nil, err
	}
	if rv, ok := out.(*returnValue); ok {
		return rv, nil
	}
	return Unit(), nil
}
func (n *IfStmt) Location() *SourceLocation { return n.Loc }

// WhileStmt loops while its Bool condition holds.
type WhileStmt struct {
	Cond Node
	Body []Node
	Loc  *SourceLocation
}

func (n *WhileStmt) stmtNode() {}

func (n *WhileStmt) Eval(ctx context.Context, env *Env) (Value, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cv, err := n.Cond.Eval(ctx, env)
		if err != nil {
			return nil, err
		}
		cb, ok := cv.(*BoolValue)
		if !ok {
			return nil, NewError(TypeMismatchError, n.Loc, "while condition must be Bool, got %s", cv.Type())
		}
		if !cb.Val {
			return Unit(), nil
		}
		out, err := evalForms(ctx, env.Child(), n.Body)
		if err != nil {
			return nil, err
		}
		if rv, ok := out.(*returnValue); ok {
			return rv, nil
		}
	}
}
func (n *WhileStmt) Location() *SourceLocation { return n.Loc }

// ParallelStmt runs its body sequentially in a child scope; the block
// form exists for source compatibility, not for concurrency.
type ParallelStmt struct {
	Body []Node
	Loc  *SourceLocation
}

func (n *ParallelStmt) stmtNode() {}

func (n *ParallelStmt) Eval(ctx context.Context, env *Env) (Value, error) {
	out, err := evalForms(ctx, env.Child(), n.Body)
	if err != nil {
		return nil, err
	}
	if rv, ok := out.(*returnValue); ok {
		return rv, nil
	}
	return Unit(), nil
}
func (n *ParallelStmt) Location() *SourceLocation { return n.Loc }

// ReturnStmt wraps its value so enclosing statement lists unwind to
// the function boundary.
type ReturnStmt struct {
	Value Node
	Loc   *SourceLocation
}

func (n *ReturnStmt) stmtNode() {}

func (n *ReturnStmt) Eval(ctx context.Context, env *Env) (Value, error) {
	v, err := n.Value.Eval(ctx, env)
	if err != nil {
		return nil, err
	}
	return &returnValue{val: v}, nil
}
func (n *ReturnStmt) Location() *SourceLocation { return n.Loc }

// FnDecl is one function clause. Declaring further clauses for the
// same name appends to the existing function; every clause must agree
// on arity.
type FnDecl struct {
	Name   string
	Params []Pattern
	Guard  Node
	Body   []Node
	Loc    *SourceLocation
}

func (n *FnDecl) stmtNode() {}

func (n *FnDecl) Eval(ctx context.Context, env *Env) (Value, error) {
	clause := &FuncClause{Params: n.Params, Guard: n.Guard, Body: n.Body, Loc: n.Loc}
	if existing, ok := env.names[n.Name]; ok {
		if fn, ok := existing.val.(*FunctionValue); ok {
			if fn.NParams != len(n.Params) {
				return nil, NewError(ArityError, n.Loc, "clause of %s takes %d parameter(s), earlier clauses take %d", n.Name, len(n.Params), fn.NParams)
			}
			fn.Clauses = append(fn.Clauses, clause)
			return Unit(), nil
		}
	}
	env.Define(n.Name, &FunctionValue{
		Name:    n.Name,
		NParams: len(n.Params),
		Clauses: []*FuncClause{clause},
		Env:     env,
	}, false)
	return Unit(), nil
}
func (n *FnDecl) Location() *SourceLocation { return n.Loc }

// DataCtor is one constructor of a data declaration.
type DataCtor struct {
	Name  string
	Arity int
}

// DataDecl introduces a sum type. The parser has already registered
// its constructors; evaluation is a no-op.
type DataDecl struct {
	Name  string
	Ctors []DataCtor
	Loc   *SourceLocation
}

func (n *DataDecl) stmtNode() {}

func (n *DataDecl) Eval(ctx context.Context, env *Env) (Value, error) {
	return Unit(), nil
}
func (n *DataDecl) Location() *SourceLocation { return n.Loc }
