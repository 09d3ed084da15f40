package tong

import "context"

type IntLit struct {
	Val int64
	Loc *SourceLocation
}

func (n *IntLit) Eval(ctx context.Context, env *Env) (Value, error) {
	return &IntValue{Val: n.Val}, nil
}
func (n *IntLit) Location() *SourceLocation { return n.Loc }

type FloatLit struct {
	Val float64
	Loc *SourceLocation
}

func (n *FloatLit) Eval(ctx context.Context, env *Env) (Value, error) {
	return &FloatValue{Val: n.Val}, nil
}
func (n *FloatLit) Location() *SourceLocation { return n.Loc }

type BoolLit struct {
	Val bool
	Loc *SourceLocation
}

func (n *BoolLit) Eval(ctx context.Context, env *Env) (Value, error) {
	return &BoolValue{Val: n.Val}, nil
}
func (n *BoolLit) Location() *SourceLocation { return n.Loc }

type StrLit struct {
	Val string
	Loc *SourceLocation
}

func (n *StrLit) Eval(ctx context.Context, env *Env) (Value, error) {
	return &StringValue{Val: n.Val}, nil
}
func (n *StrLit) Location() *SourceLocation { return n.Loc }

// ArrayLit covers both `[a, b]` literals and `(a, b)` tuple
// expressions; both evaluate to arrays.
type ArrayLit struct {
	Elems []Node
	Loc   *SourceLocation
}

func (n *ArrayLit) Eval(ctx context.Context, env *Env) (Value, error) {
	elems := make([]Value, len(n.Elems))
	for i, el := range n.Elems {
		v, err := el.Eval(ctx, env)
		if err != nil {
			return nil, err
		}
		elems[i] = v
	}
	return &ArrayValue{Elements: elems}, nil
}
func (n *ArrayLit) Location() *SourceLocation { return n.Loc }

// Var is a name reference. Unbound capitalized names fall back to the
// constructor registry so zero-arity constructors read as plain values
// and higher-arity ones as first-class functions.
type Var struct {
	Name string
	Loc  *SourceLocation
}

func (n *Var) Eval(ctx context.Context, env *Env) (Value, error) {
	if v, ok := env.Lookup(n.Name); ok {
		return v, nil
	}
	if arity, ok := env.World().Registry.Arity(n.Name); ok {
		if arity == 0 {
			return &ConstructorValue{Name: n.Name}, nil
		}
		return &ConstructorFunc{Name: n.Name, Arity: arity}, nil
	}
	return nil, NewError(NameError, n.Loc, "undefined name %q", n.Name)
}
func (n *Var) Location() *SourceLocation { return n.Loc }
