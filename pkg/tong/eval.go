package tong

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// floatEqEpsilon is the tolerance used by == and != on Float operands.
const floatEqEpsilon = 1e-9

// Value is the runtime representation of every tong value.
type Value interface {
	// Type is the human-readable kind name used in error messages.
	Type() string
	// String renders the value the way print and the REPL show it.
	String() string
}

// Callable is implemented by every value that can appear in call
// position: named functions, lambdas, constructors, partials, and
// built-in or module functions.
type Callable interface {
	Value
	FnName() string
	ParamCount() int
	Invoke(ctx context.Context, args []Value) (Value, error)
}

// Call applies fn to args with the saturation rule shared by every
// callable: too few arguments produce a partial application, too many
// are an ArityError, an exact count invokes.
func Call(ctx context.Context, fn Callable, args []Value, loc *SourceLocation) (Value, error) {
	want := fn.ParamCount()
	switch {
	case len(args) < want:
		return NewPartial(fn, args), nil
	case len(args) > want:
		return nil, NewError(ArityError, loc, "%s expects %d argument(s), got %d", fn.FnName(), want, len(args))
	default:
		return fn.Invoke(ctx, args)
	}
}

type IntValue struct {
	Val int64
}

func (v *IntValue) Type() string   { return "Int" }
func (v *IntValue) String() string { return strconv.FormatInt(v.Val, 10) }

type FloatValue struct {
	Val float64
}

func (v *FloatValue) Type() string { return "Float" }

// String keeps a decimal point on integral floats so 2.0 never prints
// as 2 and hides which numeric kind a value has.
func (v *FloatValue) String() string {
	if v.Val == math.Trunc(v.Val) && !math.IsInf(v.Val, 0) {
		return fmt.Sprintf("%.1f", v.Val)
	}
	return strconv.FormatFloat(v.Val, 'g', -1, 64)
}

type BoolValue struct {
	Val bool
}

func (v *BoolValue) Type() string   { return "Bool" }
func (v *BoolValue) String() string { return strconv.FormatBool(v.Val) }

type StringValue struct {
	Val string
}

func (v *StringValue) Type() string   { return "Str" }
func (v *StringValue) String() string { return v.Val }

type ArrayValue struct {
	Elements []Value
}

func (v *ArrayValue) Type() string { return "Array" }
func (v *ArrayValue) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, el := range v.Elements {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(el.String())
	}
	sb.WriteByte(']')
	return sb.String()
}

// Unit is the value of statements and of blocks with no trailing
// expression: a fresh empty array.
func Unit() Value {
	return &ArrayValue{}
}

// ConstructorValue is a saturated data constructor application.
type ConstructorValue struct {
	Name   string
	Fields []Value
}

func (v *ConstructorValue) Type() string { return v.Name }
func (v *ConstructorValue) String() string {
	if len(v.Fields) == 0 {
		return v.Name
	}
	parts := make([]string, len(v.Fields))
	for i, f := range v.Fields {
		parts[i] = f.String()
	}
	return fmt.Sprintf("%s(%s)", v.Name, strings.Join(parts, ","))
}

// ConstructorFunc is an unsaturated constructor referenced as a value,
// e.g. passed to map or partially applied.
type ConstructorFunc struct {
	Name  string
	Arity int
}

func (v *ConstructorFunc) Type() string     { return "Constructor" }
func (v *ConstructorFunc) String() string   { return fmt.Sprintf("<constructor:%s>", v.Name) }
func (v *ConstructorFunc) FnName() string   { return v.Name }
func (v *ConstructorFunc) ParamCount() int  { return v.Arity }
func (v *ConstructorFunc) Invoke(ctx context.Context, args []Value) (Value, error) {
	fields := make([]Value, len(args))
	copy(fields, args)
	return &ConstructorValue{Name: v.Name, Fields: fields}, nil
}

// FuncClause is one clause of a named function: parameter patterns, an
// optional guard, and a statement body.
type FuncClause struct {
	Params []Pattern
	Guard  Node
	Body   []Node
	Loc    *SourceLocation
}

// FunctionValue is a named function: one or more clauses sharing an
// arity, tried in declaration order on each call.
type FunctionValue struct {
	Name    string
	NParams int
	Clauses []*FuncClause
	Env     *Env
}

func (v *FunctionValue) Type() string    { return "Function" }
func (v *FunctionValue) String() string  { return fmt.Sprintf("<func:%s>", v.Name) }
func (v *FunctionValue) FnName() string  { return v.Name }
func (v *FunctionValue) ParamCount() int { return v.NParams }

func (v *FunctionValue) Invoke(ctx context.Context, args []Value) (Value, error) {
	for _, clause := range v.Clauses {
		bindings, ok := matchClauseParams(clause.Params, args)
		if !ok {
			continue
		}
		frame := v.Env.Child()
		for name, val := range bindings {
			frame.Define(name, val, false)
		}
		if clause.Guard != nil {
			gv, err := clause.Guard.Eval(ctx, frame)
			if err != nil {
				return nil, err
			}
			gb, ok := gv.(*BoolValue)
			if !ok {
				return nil, NewError(TypeMismatchError, clause.Loc, "guard of %s must be Bool, got %s", v.Name, gv.Type())
			}
			if !gb.Val {
				continue
			}
		}
		out, err := evalForms(ctx, frame, clause.Body)
		if err != nil {
			return nil, err
		}
		if rv, ok := out.(*returnValue); ok {
			return rv.val, nil
		}
		return out, nil
	}
	rendered := make([]string, len(args))
	for i, a := range args {
		rendered[i] = a.String()
	}
	return nil, NewError(NonExhaustiveMatchError, nil, "no clause of %s matched (%s)", v.Name, strings.Join(rendered, ", "))
}

func matchClauseParams(params []Pattern, args []Value) (map[string]Value, bool) {
	bindings := map[string]Value{}
	for i, p := range params {
		if !p.Match(args[i], bindings) {
			return nil, false
		}
	}
	return bindings, true
}

// ClosureValue is a lambda. Env is a by-value snapshot of the scope
// visible at the point of creation.
type ClosureValue struct {
	Params []string
	Body   Node
	Env    *Env
}

func (v *ClosureValue) Type() string    { return "Lambda" }
func (v *ClosureValue) String() string  { return "<lambda>" }
func (v *ClosureValue) FnName() string  { return "<lambda>" }
func (v *ClosureValue) ParamCount() int { return len(v.Params) }

func (v *ClosureValue) Invoke(ctx context.Context, args []Value) (Value, error) {
	frame := v.Env.Child()
	for i, name := range v.Params {
		frame.Define(name, args[i], false)
	}
	out, err := v.Body.Eval(ctx, frame)
	if err != nil {
		return nil, err
	}
	if rv, ok := out.(*returnValue); ok {
		return rv.val, nil
	}
	return out, nil
}

// PartialValue wraps a callable with a bound argument prefix.
type PartialValue struct {
	Fn    Callable
	Bound []Value
}

// NewPartial binds args onto fn, flattening nested partials so the
// rendered name and remaining count always describe the root callable.
func NewPartial(fn Callable, args []Value) *PartialValue {
	if p, ok := fn.(*PartialValue); ok {
		merged := make([]Value, 0, len(p.Bound)+len(args))
		merged = append(merged, p.Bound...)
		merged = append(merged, args...)
		return &PartialValue{Fn: p.Fn, Bound: merged}
	}
	bound := make([]Value, len(args))
	copy(bound, args)
	return &PartialValue{Fn: fn, Bound: bound}
}

func (v *PartialValue) Type() string { return "Partial" }
func (v *PartialValue) String() string {
	return fmt.Sprintf("<partial:%s:%d>", v.Fn.FnName(), len(v.Bound))
}
func (v *PartialValue) FnName() string  { return v.Fn.FnName() }
func (v *PartialValue) ParamCount() int { return v.Fn.ParamCount() - len(v.Bound) }

func (v *PartialValue) Invoke(ctx context.Context, args []Value) (Value, error) {
	full := make([]Value, 0, len(v.Bound)+len(args))
	full = append(full, v.Bound...)
	full = append(full, args...)
	return v.Fn.Invoke(ctx, full)
}

// BuiltinValue is a function implemented in Go: the core built-ins and
// every module function.
type BuiltinValue struct {
	Name    string
	NParams int
	Fn      func(ctx context.Context, args []Value) (Value, error)
}

func (v *BuiltinValue) Type() string    { return "Builtin" }
func (v *BuiltinValue) String() string  { return fmt.Sprintf("<builtin:%s>", v.Name) }
func (v *BuiltinValue) FnName() string  { return v.Name }
func (v *BuiltinValue) ParamCount() int { return v.NParams }

func (v *BuiltinValue) Invoke(ctx context.Context, args []Value) (Value, error) {
	return v.Fn(ctx, args)
}

// ObjectValue is an opaque module object: a named bag of properties,
// most of them BuiltinValue functions.
type ObjectValue struct {
	Name  string
	Props map[string]Value
}

func (v *ObjectValue) Type() string   { return "Object" }
func (v *ObjectValue) String() string { return fmt.Sprintf("<object:%s>", v.Name) }

// returnValue carries an explicit `return` up through statement lists
// until a function boundary unwraps it.
type returnValue struct {
	val Value
}

func (v *returnValue) Type() string   { return "Return" }
func (v *returnValue) String() string { return v.val.String() }

// evalForms runs a statement list. The result is the value of the
// trailing bare expression (Unit when there is none); an explicit
// return surfaces as a *returnValue for the caller to unwrap or
// propagate.
func evalForms(ctx context.Context, env *Env, forms []Node) (Value, error) {
	last := Unit()
	for _, form := range forms {
		v, err := form.Eval(ctx, env)
		if err != nil {
			return nil, err
		}
		if rv, ok := v.(*returnValue); ok {
			return rv, nil
		}
		if _, isStmt := form.(Stmt); !isStmt {
			last = v
		}
	}
	return last, nil
}

// equalValues implements == / !=. Int and Float compare numerically;
// when either side is Float the comparison is epsilon-based. Values of
// unrelated kinds are simply unequal.
func equalValues(a, b Value) bool {
	switch x := a.(type) {
	case *IntValue:
		switch y := b.(type) {
		case *IntValue:
			return x.Val == y.Val
		case *FloatValue:
			return math.Abs(float64(x.Val)-y.Val) < floatEqEpsilon
		}
	case *FloatValue:
		switch y := b.(type) {
		case *IntValue:
			return math.Abs(x.Val-float64(y.Val)) < floatEqEpsilon
		case *FloatValue:
			return math.Abs(x.Val-y.Val) < floatEqEpsilon
		}
	case *BoolValue:
		if y, ok := b.(*BoolValue); ok {
			return x.Val == y.Val
		}
	case *StringValue:
		if y, ok := b.(*StringValue); ok {
			return x.Val == y.Val
		}
	case *ArrayValue:
		y, ok := b.(*ArrayValue)
		if !ok || len(x.Elements) != len(y.Elements) {
			return false
		}
		for i := range x.Elements {
			if !equalValues(x.Elements[i], y.Elements[i]) {
				return false
			}
		}
		return true
	case *ConstructorValue:
		y, ok := b.(*ConstructorValue)
		if !ok || x.Name != y.Name || len(x.Fields) != len(y.Fields) {
			return false
		}
		for i := range x.Fields {
			if !equalValues(x.Fields[i], y.Fields[i]) {
				return false
			}
		}
		return true
	}
	return false
}
