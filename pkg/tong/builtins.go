package tong

import "context"

// installBuiltins defines the core built-in functions in env. They are
// ordinary Callable bindings, so they partially apply and pass around
// like any function.
func installBuiltins(env *Env) {
	for _, b := range coreBuiltins {
		env.Define(b.Name, b, false)
	}
}

var coreBuiltins = []*BuiltinValue{
	{
		Name:    "len",
		NParams: 1,
		Fn: func(ctx context.Context, args []Value) (Value, error) {
			switch v := args[0].(type) {
			case *ArrayValue:
				return &IntValue{Val: int64(len(v.Elements))}, nil
			case *StringValue:
				return &IntValue{Val: int64(len(v.Val))}, nil
			}
			return nil, NewError(TypeMismatchError, nil, "len expects Array or Str, got %s", args[0].Type())
		},
	},
	{
		Name:    "sum",
		NParams: 1,
		Fn: func(ctx context.Context, args []Value) (Value, error) {
			arr, ok := args[0].(*ArrayValue)
			if !ok {
				return nil, NewError(TypeMismatchError, nil, "sum expects Array, got %s", args[0].Type())
			}
			var totalI int64
			var totalF float64
			isFloat := false
			for _, el := range arr.Elements {
				switch num := el.(type) {
				case *IntValue:
					totalI += num.Val
				case *FloatValue:
					totalF += num.Val
					isFloat = true
				default:
					return nil, NewError(TypeMismatchError, nil, "sum expects a numeric array, found %s", el.Type())
				}
			}
			if isFloat {
				return &FloatValue{Val: float64(totalI) + totalF}, nil
			}
			return &IntValue{Val: totalI}, nil
		},
	},
	{
		Name:    "map",
		NParams: 2,
		Fn: func(ctx context.Context, args []Value) (Value, error) {
			arr, fn, err := arrayAndFn("map", args[0], args[1])
			if err != nil {
				return nil, err
			}
			out := make([]Value, len(arr.Elements))
			for i, el := range arr.Elements {
				v, err := Call(ctx, fn, []Value{el}, nil)
				if err != nil {
					return nil, err
				}
				out[i] = v
			}
			return &ArrayValue{Elements: out}, nil
		},
	},
	{
		Name:    "filter",
		NParams: 2,
		Fn: func(ctx context.Context, args []Value) (Value, error) {
			arr, fn, err := arrayAndFn("filter", args[0], args[1])
			if err != nil {
				return nil, err
			}
			var out []Value
			for _, el := range arr.Elements {
				v, err := Call(ctx, fn, []Value{el}, nil)
				if err != nil {
					return nil, err
				}
				keep, ok := v.(*BoolValue)
				if !ok {
					return nil, NewError(TypeMismatchError, nil, "filter function must return Bool, got %s", v.Type())
				}
				if keep.Val {
					out = append(out, el)
				}
			}
			return &ArrayValue{Elements: out}, nil
		},
	},
	{
		Name:    "reduce",
		NParams: 3,
		Fn: func(ctx context.Context, args []Value) (Value, error) {
			arr, fn, err := arrayAndFn("reduce", args[0], args[1])
			if err != nil {
				return nil, err
			}
			acc := args[2]
			for _, el := range arr.Elements {
				acc, err = Call(ctx, fn, []Value{acc, el}, nil)
				if err != nil {
					return nil, err
				}
			}
			return acc, nil
		},
	},
	{
		Name:    "range",
		NParams: 1,
		Fn: func(ctx context.Context, args []Value) (Value, error) {
			n, ok := args[0].(*IntValue)
			if !ok {
				return nil, NewError(TypeMismatchError, nil, "range expects Int, got %s", args[0].Type())
			}
			if n.Val < 0 {
				return nil, NewError(IndexError, nil, "range expects a non-negative count, got %d", n.Val)
			}
			out := make([]Value, n.Val)
			for i := int64(0); i < n.Val; i++ {
				out[i] = &IntValue{Val: i}
			}
			return &ArrayValue{Elements: out}, nil
		},
	},
}

func arrayAndFn(name string, first, second Value) (*ArrayValue, Callable, error) {
	arr, ok := first.(*ArrayValue)
	if !ok {
		return nil, nil, NewError(TypeMismatchError, nil, "%s expects Array as first argument, got %s", name, first.Type())
	}
	fn, ok := second.(Callable)
	if !ok {
		return nil, nil, NewError(TypeMismatchError, nil, "%s expects a function as second argument, got %s", name, second.Type())
	}
	return arr, fn, nil
}
