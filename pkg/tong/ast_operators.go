package tong

import (
	"context"
)

// binaryFn implements one eager binary operator over evaluated operands.
type binaryFn func(loc *SourceLocation, left, right Value) (Value, error)

// BinaryOp is any eager binary operator. The parser picks the
// evaluation function by operator symbol; && and || are separate nodes
// because they must not evaluate the right operand eagerly.
type BinaryOp struct {
	Op    string
	Left  Node
	Right Node
	Loc   *SourceLocation
	fn    binaryFn
}

func NewBinaryOp(op string, left, right Node, loc *SourceLocation) *BinaryOp {
	return &BinaryOp{Op: op, Left: left, Right: right, Loc: loc, fn: binaryFns[op]}
}

func (n *BinaryOp) Eval(ctx context.Context, env *Env) (Value, error) {
	l, err := n.Left.Eval(ctx, env)
	if err != nil {
		return nil, err
	}
	r, err := n.Right.Eval(ctx, env)
	if err != nil {
		return nil, err
	}
	return n.fn(n.Loc, l, r)
}
func (n *BinaryOp) Location() *SourceLocation { return n.Loc }

var binaryFns = map[string]binaryFn{
	"+":  evalAdd,
	"-":  evalArith("-"),
	"*":  evalArith("*"),
	"/":  evalDiv,
	"%":  evalMod,
	"<<": evalShift("<<"),
	">>": evalShift(">>"),
	"<":  evalCompare("<"),
	"<=": evalCompare("<="),
	">":  evalCompare(">"),
	">=": evalCompare(">="),
	"==": evalEq,
	"!=": evalNe,
	"&":  evalBitAnd,
	"|":  evalBitOr,
}

// numericOperands widens Int/Float operand pairs to floats, reporting
// whether both sides stayed Int.
func numericOperands(left, right Value) (lf, rf float64, bothInt bool, ok bool) {
	switch l := left.(type) {
	case *IntValue:
		switch r := right.(type) {
		case *IntValue:
			return float64(l.Val), float64(r.Val), true, true
		case *FloatValue:
			return float64(l.Val), r.Val, false, true
		}
	case *FloatValue:
		switch r := right.(type) {
		case *IntValue:
			return l.Val, float64(r.Val), false, true
		case *FloatValue:
			return l.Val, r.Val, false, true
		}
	}
	return 0, 0, false, false
}

func evalAdd(loc *SourceLocation, left, right Value) (Value, error) {
	if ls, ok := left.(*StringValue); ok {
		if rs, ok := right.(*StringValue); ok {
			return &StringValue{Val: ls.Val + rs.Val}, nil
		}
	}
	return evalArith("+")(loc, left, right)
}

func evalArith(op string) binaryFn {
	return func(loc *SourceLocation, left, right Value) (Value, error) {
		lf, rf, bothInt, ok := numericOperands(left, right)
		if !ok {
			return nil, NewError(TypeMismatchError, loc, "unsupported operands for '%s': %s and %s", op, left.Type(), right.Type())
		}
		if bothInt {
			li, ri := left.(*IntValue).Val, right.(*IntValue).Val
			switch op {
			case "+":
				return &IntValue{Val: li + ri}, nil
			case "-":
				return &IntValue{Val: li - ri}, nil
			case "*":
				return &IntValue{Val: li * ri}, nil
			}
		}
		switch op {
		case "+":
			return &FloatValue{Val: lf + rf}, nil
		case "-":
			return &FloatValue{Val: lf - rf}, nil
		case "*":
			return &FloatValue{Val: lf * rf}, nil
		}
		return nil, NewError(TypeMismatchError, loc, "unknown operator %q", op)
	}
}

// evalDiv always divides as floats: 7 / 2 is 3.5, never 3.
func evalDiv(loc *SourceLocation, left, right Value) (Value, error) {
	lf, rf, _, ok := numericOperands(left, right)
	if !ok {
		return nil, NewError(TypeMismatchError, loc, "unsupported operands for '/': %s and %s", left.Type(), right.Type())
	}
	return &FloatValue{Val: lf / rf}, nil
}

func evalMod(loc *SourceLocation, left, right Value) (Value, error) {
	li, lok := left.(*IntValue)
	ri, rok := right.(*IntValue)
	if !lok || !rok {
		return nil, NewError(TypeMismatchError, loc, "'%%' requires Int operands, got %s and %s", left.Type(), right.Type())
	}
	if ri.Val == 0 {
		return nil, NewError(TypeMismatchError, loc, "modulo by zero")
	}
	return &IntValue{Val: li.Val % ri.Val}, nil
}

// evalShift implements << and >>. Both are Int-only; >> shifts the raw
// 64-bit pattern (logical shift), so the sign bit does not smear.
func evalShift(op string) binaryFn {
	return func(loc *SourceLocation, left, right Value) (Value, error) {
		li, lok := left.(*IntValue)
		ri, rok := right.(*IntValue)
		if !lok || !rok {
			return nil, NewError(TypeMismatchError, loc, "'%s' requires Int operands, got %s and %s", op, left.Type(), right.Type())
		}
		if ri.Val < 0 {
			return nil, NewError(TypeMismatchError, loc, "negative shift count %d", ri.Val)
		}
		if ri.Val >= 64 {
			return &IntValue{Val: 0}, nil
		}
		if op == "<<" {
			return &IntValue{Val: li.Val << uint(ri.Val)}, nil
		}
		return &IntValue{Val: int64(uint64(li.Val) >> uint(ri.Val))}, nil
	}
}

func evalCompare(op string) binaryFn {
	return func(loc *SourceLocation, left, right Value) (Value, error) {
		lf, rf, _, ok := numericOperands(left, right)
		if !ok {
			return nil, NewError(TypeMismatchError, loc, "unsupported operands for '%s': %s and %s", op, left.Type(), right.Type())
		}
		var res bool
		switch op {
		case "<":
			res = lf < rf
		case "<=":
			res = lf <= rf
		case ">":
			res = lf > rf
		case ">=":
			res = lf >= rf
		}
		return &BoolValue{Val: res}, nil
	}
}

func evalEq(loc *SourceLocation, left, right Value) (Value, error) {
	return &BoolValue{Val: equalValues(left, right)}, nil
}

func evalNe(loc *SourceLocation, left, right Value) (Value, error) {
	return &BoolValue{Val: !equalValues(left, right)}, nil
}

// evalBitAnd: eager & — Bool conjunction or Int bitwise AND.
func evalBitAnd(loc *SourceLocation, left, right Value) (Value, error) {
	if lb, ok := left.(*BoolValue); ok {
		if rb, ok := right.(*BoolValue); ok {
			return &BoolValue{Val: lb.Val && rb.Val}, nil
		}
	}
	if li, ok := left.(*IntValue); ok {
		if ri, ok := right.(*IntValue); ok {
			return &IntValue{Val: li.Val & ri.Val}, nil
		}
	}
	return nil, NewError(TypeMismatchError, loc, "unsupported operands for '&': %s and %s", left.Type(), right.Type())
}

// evalBitOr: eager | — Bool disjunction or Int bitwise OR.
func evalBitOr(loc *SourceLocation, left, right Value) (Value, error) {
	if lb, ok := left.(*BoolValue); ok {
		if rb, ok := right.(*BoolValue); ok {
			return &BoolValue{Val: lb.Val || rb.Val}, nil
		}
	}
	if li, ok := left.(*IntValue); ok {
		if ri, ok := right.(*IntValue); ok {
			return &IntValue{Val: li.Val | ri.Val}, nil
		}
	}
	return nil, NewError(TypeMismatchError, loc, "unsupported operands for '|': %s and %s", left.Type(), right.Type())
}

// LogicalAnd is short-circuiting &&: the right operand is untouched
// when the left is false.
type LogicalAnd struct {
	Left  Node
	Right Node
	Loc   *SourceLocation
}

func (n *LogicalAnd) Eval(ctx context.Context, env *Env) (Value, error) {
	l, err := n.Left.Eval(ctx, env)
	if err != nil {
		return nil, err
	}
	lb, ok := l.(*BoolValue)
	if !ok {
		return nil, NewError(TypeMismatchError, n.Loc, "left operand of '&&' must be Bool, got %s", l.Type())
	}
	if !lb.Val {
		return &BoolValue{Val: false}, nil
	}
	r, err := n.Right.Eval(ctx, env)
	if err != nil {
		return nil, err
	}
	rb, ok := r.(*BoolValue)
	if !ok {
		return nil, NewError(TypeMismatchError, n.Loc, "right operand of '&&' must be Bool, got %s", r.Type())
	}
	return &BoolValue{Val: rb.Val}, nil
}
func (n *LogicalAnd) Location() *SourceLocation { return n.Loc }

// LogicalOr is short-circuiting ||.
type LogicalOr struct {
	Left  Node
	Right Node
	Loc   *SourceLocation
}

func (n *LogicalOr) Eval(ctx context.Context, env *Env) (Value, error) {
	l, err := n.Left.Eval(ctx, env)
	if err != nil {
		return nil, err
	}
	lb, ok := l.(*BoolValue)
	if !ok {
		return nil, NewError(TypeMismatchError, n.Loc, "left operand of '||' must be Bool, got %s", l.Type())
	}
	if lb.Val {
		return &BoolValue{Val: true}, nil
	}
	r, err := n.Right.Eval(ctx, env)
	if err != nil {
		return nil, err
	}
	rb, ok := r.(*BoolValue)
	if !ok {
		return nil, NewError(TypeMismatchError, n.Loc, "right operand of '||' must be Bool, got %s", r.Type())
	}
	return &BoolValue{Val: rb.Val}, nil
}
func (n *LogicalOr) Location() *SourceLocation { return n.Loc }

// UnaryOp covers !, unary -, and unary +.
type UnaryOp struct {
	Op      string
	Operand Node
	Loc     *SourceLocation
}

func (n *UnaryOp) Eval(ctx context.Context, env *Env) (Value, error) {
	v, err := n.Operand.Eval(ctx, env)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case "!":
		b, ok := v.(*BoolValue)
		if !ok {
			return nil, NewError(TypeMismatchError, n.Loc, "'!' requires a Bool operand, got %s", v.Type())
		}
		return &BoolValue{Val: !b.Val}, nil
	case "-":
		switch num := v.(type) {
		case *IntValue:
			return &IntValue{Val: -num.Val}, nil
		case *FloatValue:
			return &FloatValue{Val: -num.Val}, nil
		}
		return nil, NewError(TypeMismatchError, n.Loc, "unary '-' requires a numeric operand, got %s", v.Type())
	case "+":
		switch v.(type) {
		case *IntValue, *FloatValue:
			return v, nil
		}
		return nil, NewError(TypeMismatchError, n.Loc, "unary '+' requires a numeric operand, got %s", v.Type())
	}
	return nil, NewError(TypeMismatchError, n.Loc, "unknown unary operator %q", n.Op)
}
func (n *UnaryOp) Location() *SourceLocation { return n.Loc }
