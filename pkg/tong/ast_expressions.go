package tong

import "context"

// CallExpr applies any expression in call position. Saturation
// (partials, arity errors) is handled by Call.
type CallExpr struct {
	Callee Node
	Args   []Node
	Loc    *SourceLocation
}

func (n *CallExpr) Eval(ctx context.Context, env *Env) (Value, error) {
	callee, err := n.Callee.Eval(ctx, env)
	if err != nil {
		return nil, err
	}
	fn, ok := callee.(Callable)
	if !ok {
		return nil, NewError(TypeMismatchError, n.Loc, "value of type %s is not callable", callee.Type())
	}
	args, err := evalArgs(ctx, env, n.Args)
	if err != nil {
		return nil, err
	}
	return Call(ctx, fn, args, n.Loc)
}
func (n *CallExpr) Location() *SourceLocation { return n.Loc }

func evalArgs(ctx context.Context, env *Env, exprs []Node) ([]Value, error) {
	args := make([]Value, len(exprs))
	for i, e := range exprs {
		v, err := e.Eval(ctx, env)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return args, nil
}

// CtorCall is a capitalized call classified as a constructor
// application by the registry (or, for names declared later, by the
// capitalization heuristic at parse time).
type CtorCall struct {
	Name string
	Args []Node
	Loc  *SourceLocation
}

func (n *CtorCall) Eval(ctx context.Context, env *Env) (Value, error) {
	arity, ok := env.World().Registry.Arity(n.Name)
	if !ok {
		// Capitalization was only a guess: a binding with this name may
		// still hold an ordinary callable.
		v, found := env.Lookup(n.Name)
		if !found {
			return nil, NewError(NameError, n.Loc, "unknown constructor %s", n.Name)
		}
		fn, callable := v.(Callable)
		if !callable {
			return nil, NewError(TypeMismatchError, n.Loc, "value of type %s is not callable", v.Type())
		}
		args, err := evalArgs(ctx, env, n.Args)
		if err != nil {
			return nil, err
		}
		return Call(ctx, fn, args, n.Loc)
	}
	args, err := evalArgs(ctx, env, n.Args)
	if err != nil {
		return nil, err
	}
	return Call(ctx, &ConstructorFunc{Name: n.Name, Arity: arity}, args, n.Loc)
}
func (n *CtorCall) Location() *SourceLocation { return n.Loc }

// IndexExpr reads one array element.
type IndexExpr struct {
	Target Node
	Index  Node
	Loc    *SourceLocation
}

func (n *IndexExpr) Eval(ctx context.Context, env *Env) (Value, error) {
	target, err := n.Target.Eval(ctx, env)
	if err != nil {
		return nil, err
	}
	idx, err := n.Index.Eval(ctx, env)
	if err != nil {
		return nil, err
	}
	arr, ok := target.(*ArrayValue)
	if !ok {
		return nil, NewError(TypeMismatchError, n.Loc, "cannot index into %s", target.Type())
	}
	i, ok := idx.(*IntValue)
	if !ok {
		return nil, NewError(TypeMismatchError, n.Loc, "array index must be Int, got %s", idx.Type())
	}
	if i.Val < 0 || i.Val >= int64(len(arr.Elements)) {
		return nil, NewError(IndexError, n.Loc, "index %d out of range for array of length %d", i.Val, len(arr.Elements))
	}
	return arr.Elements[i.Val], nil
}
func (n *IndexExpr) Location() *SourceLocation { return n.Loc }

// PropertyExpr reads a named property off a module object.
type PropertyExpr struct {
	Target Node
	Name   string
	Loc    *SourceLocation
}

func (n *PropertyExpr) Eval(ctx context.Context, env *Env) (Value, error) {
	target, err := n.Target.Eval(ctx, env)
	if err != nil {
		return nil, err
	}
	obj, ok := target.(*ObjectValue)
	if !ok {
		return nil, NewError(TypeMismatchError, n.Loc, "%s has no properties", target.Type())
	}
	v, ok := obj.Props[n.Name]
	if !ok {
		return nil, NewError(NameError, n.Loc, "%s has no property %q", obj.String(), n.Name)
	}
	return v, nil
}
func (n *PropertyExpr) Location() *SourceLocation { return n.Loc }

// MethodCall is sugar for calling an object property: module functions
// go through the same saturation rule as everything else, so partially
// applying them works too.
type MethodCall struct {
	Target Node
	Method string
	Args   []Node
	Loc    *SourceLocation
}

func (n *MethodCall) Eval(ctx context.Context, env *Env) (Value, error) {
	prop := &PropertyExpr{Target: n.Target, Name: n.Method, Loc: n.Loc}
	callee, err := prop.Eval(ctx, env)
	if err != nil {
		return nil, err
	}
	fn, ok := callee.(Callable)
	if !ok {
		return nil, NewError(TypeMismatchError, n.Loc, "property %q of type %s is not callable", n.Method, callee.Type())
	}
	args, err := evalArgs(ctx, env, n.Args)
	if err != nil {
		return nil, err
	}
	return Call(ctx, fn, args, n.Loc)
}
func (n *MethodCall) Location() *SourceLocation { return n.Loc }

// LambdaExpr covers both `|x| body` and `\x y -> body`. The closure
// snapshots the visible environment by value at creation.
type LambdaExpr struct {
	Params []string
	Body   Node
	Loc    *SourceLocation
}

func (n *LambdaExpr) Eval(ctx context.Context, env *Env) (Value, error) {
	return &ClosureValue{Params: n.Params, Body: n.Body, Env: env.Snapshot()}, nil
}
func (n *LambdaExpr) Location() *SourceLocation { return n.Loc }

// BlockExpr is a braced statement list used as an expression. It runs
// in a child scope and is valued at its trailing bare expression.
type BlockExpr struct {
	Stmts []Node
	Loc   *SourceLocation
}

func (n *BlockExpr) Eval(ctx context.Context, env *Env) (Value, error) {
	out, err := evalForms(ctx, env.Child(), n.Stmts)
	if err != nil {
		return nil, err
	}
	if rv, ok := out.(*returnValue); ok {
		return rv.val, nil
	}
	return out, nil
}
func (n *BlockExpr) Location() *SourceLocation { return n.Loc }

// MatchArm is one `pattern [if guard] -> expr` arm.
type MatchArm struct {
	Pattern Pattern
	Guard   Node
	Body    Node
	Loc     *SourceLocation
}

// MatchExpr tries arms in order and evaluates the body of the first
// arm whose pattern matches and whose guard (if any) holds.
type MatchExpr struct {
	Scrutinee Node
	Arms      []*MatchArm
	Loc       *SourceLocation
}

func (n *MatchExpr) Eval(ctx context.Context, env *Env) (Value, error) {
	scrut, err := n.Scrutinee.Eval(ctx, env)
	if err != nil {
		return nil, err
	}
	for _, arm := range n.Arms {
		bindings := map[string]Value{}
		if !arm.Pattern.Match(scrut, bindings) {
			continue
		}
		frame := env.Child()
		for name, val := range bindings {
			frame.Define(name, val, false)
		}
		if arm.Guard != nil {
			gv, err := arm.Guard.Eval(ctx, frame)
			if err != nil {
				return nil, err
			}
			gb, ok := gv.(*BoolValue)
			if !ok {
				return nil, NewError(TypeMismatchError, arm.Loc, "match guard must be Bool, got %s", gv.Type())
			}
			if !gb.Val {
				continue
			}
		}
		return arm.Body.Eval(ctx, frame)
	}
	return nil, NewError(NonExhaustiveMatchError, n.Loc, "no pattern matched %s", scrut.String())
}
func (n *MatchExpr) Location() *SourceLocation { return n.Loc }

// CompGen is one `name in expr` generator of a list comprehension.
type CompGen struct {
	Name string
	Iter Node
}

// ListCompExpr is `[elem | x in xs, y in ys if pred]`. Generators nest
// left to right; the optional predicate filters the innermost loop.
type ListCompExpr struct {
	Elem Node
	Gens []CompGen
	Pred Node
	Loc  *SourceLocation
}

func (n *ListCompExpr) Eval(ctx context.Context, env *Env) (Value, error) {
	var out []Value
	var walk func(depth int, frame *Env) error
	walk = func(depth int, frame *Env) error {
		if depth == len(n.Gens) {
			if n.Pred != nil {
				pv, err := n.Pred.Eval(ctx, frame)
				if err != nil {
					return err
				}
				pb, ok := pv.(*BoolValue)
				if !ok {
					return NewError(TypeMismatchError, n.Loc, "comprehension predicate must be Bool, got %s", pv.Type())
				}
				if !pb.Val {
					return nil
				}
			}
			v, err := n.Elem.Eval(ctx, frame)
			if err != nil {
				return err
			}
			out = append(out, v)
			return nil
		}
		gen := n.Gens[depth]
		iter, err := gen.Iter.Eval(ctx, frame)
		if err != nil {
			return err
		}
		arr, ok := iter.(*ArrayValue)
		if !ok {
			return NewError(TypeMismatchError, n.Loc, "comprehension source must be Array, got %s", iter.Type())
		}
		for _, el := range arr.Elements {
			inner := frame.Child()
			inner.Define(gen.Name, el, false)
			if err := walk(depth+1, inner); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(0, env); err != nil {
		return nil, err
	}
	return &ArrayValue{Elements: out}, nil
}
func (n *ListCompExpr) Location() *SourceLocation { return n.Loc }

// ImportExpr loads a built-in module by name: `import("linalg")`.
// Modules are memoized per run, so repeated imports share state.
type ImportExpr struct {
	Mod Node
	Loc *SourceLocation
}

func (n *ImportExpr) Eval(ctx context.Context, env *Env) (Value, error) {
	mv, err := n.Mod.Eval(ctx, env)
	if err != nil {
		return nil, err
	}
	name, ok := mv.(*StringValue)
	if !ok {
		return nil, NewError(TypeMismatchError, n.Loc, "import expects a Str module name, got %s", mv.Type())
	}
	return env.World().LoadModule(ctx, name.Val, n.Loc)
}
func (n *ImportExpr) Location() *SourceLocation { return n.Loc }
