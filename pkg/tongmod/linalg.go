package tongmod

import (
	"context"

	"github.com/tonglang/tong/pkg/tong"
)

// Tensors are objects with a "shape" array of Ints and a flat "data"
// array of Floats in row-major order. Scripts can read both properties
// directly; every operation returns a fresh tensor.

// Linalg builds the linalg module.
func Linalg() tong.ModuleLoader {
	return func(ctx context.Context) (tong.Value, error) {
		obj := &tong.ObjectValue{Name: "linalg", Props: map[string]tong.Value{}}
		fns := []*tong.BuiltinValue{
			{Name: "zeros", NParams: 1, Fn: linalgFill(0)},
			{Name: "ones", NParams: 1, Fn: linalgFill(1)},
			{Name: "tensor", NParams: 2, Fn: linalgTensor},
			{Name: "shape", NParams: 1, Fn: linalgShape},
			{Name: "rank", NParams: 1, Fn: linalgRank},
			{Name: "get", NParams: 2, Fn: linalgGet},
			{Name: "set", NParams: 3, Fn: linalgSet},
			{Name: "add", NParams: 2, Fn: linalgElementwise("add", func(a, b float64) float64 { return a + b })},
			{Name: "sub", NParams: 2, Fn: linalgElementwise("sub", func(a, b float64) float64 { return a - b })},
			{Name: "mul", NParams: 2, Fn: linalgElementwise("mul", func(a, b float64) float64 { return a * b })},
			{Name: "dot", NParams: 2, Fn: linalgDot},
			{Name: "matmul", NParams: 2, Fn: linalgMatmul},
			{Name: "transpose", NParams: 1, Fn: linalgTranspose},
		}
		for _, fn := range fns {
			obj.Props[fn.Name] = fn
		}
		return obj, nil
	}
}

func newTensor(shape []int64, data []float64) tong.Value {
	shapeVals := make([]tong.Value, len(shape))
	for i, d := range shape {
		shapeVals[i] = &tong.IntValue{Val: d}
	}
	dataVals := make([]tong.Value, len(data))
	for i, f := range data {
		dataVals[i] = &tong.FloatValue{Val: f}
	}
	return &tong.ObjectValue{Name: "tensor", Props: map[string]tong.Value{
		"shape": &tong.ArrayValue{Elements: shapeVals},
		"data":  &tong.ArrayValue{Elements: dataVals},
	}}
}

func asTensor(v tong.Value) (shape []int64, data []float64, ok bool) {
	obj, isObj := v.(*tong.ObjectValue)
	if !isObj || obj.Name != "tensor" {
		return nil, nil, false
	}
	shapeArr, okS := obj.Props["shape"].(*tong.ArrayValue)
	dataArr, okD := obj.Props["data"].(*tong.ArrayValue)
	if !okS || !okD {
		return nil, nil, false
	}
	for _, sv := range shapeArr.Elements {
		iv, isInt := sv.(*tong.IntValue)
		if !isInt {
			return nil, nil, false
		}
		shape = append(shape, iv.Val)
	}
	for _, dv := range dataArr.Elements {
		switch num := dv.(type) {
		case *tong.IntValue:
			data = append(data, float64(num.Val))
		case *tong.FloatValue:
			data = append(data, num.Val)
		default:
			return nil, nil, false
		}
	}
	return shape, data, true
}

func intSlice(v tong.Value, what string) ([]int64, error) {
	arr, ok := v.(*tong.ArrayValue)
	if !ok {
		return nil, tong.NewError(tong.TypeMismatchError, nil, "%s must be an array of Ints, got %s", what, v.Type())
	}
	out := make([]int64, len(arr.Elements))
	for i, el := range arr.Elements {
		iv, ok := el.(*tong.IntValue)
		if !ok || iv.Val < 0 {
			return nil, tong.NewError(tong.TypeMismatchError, nil, "%s must contain non-negative Ints", what)
		}
		out[i] = iv.Val
	}
	return out, nil
}

func floatSlice(v tong.Value) ([]float64, error) {
	arr, ok := v.(*tong.ArrayValue)
	if !ok {
		return nil, tong.NewError(tong.TypeMismatchError, nil, "expected a numeric array, got %s", v.Type())
	}
	out := make([]float64, len(arr.Elements))
	for i, el := range arr.Elements {
		switch num := el.(type) {
		case *tong.IntValue:
			out[i] = float64(num.Val)
		case *tong.FloatValue:
			out[i] = num.Val
		default:
			return nil, tong.NewError(tong.TypeMismatchError, nil, "expected a numeric array, found %s", el.Type())
		}
	}
	return out, nil
}

func numel(shape []int64) int64 {
	n := int64(1)
	for _, d := range shape {
		n *= d
	}
	return n
}

func flatIndex(shape, idx []int64) (int64, error) {
	if len(shape) != len(idx) {
		return 0, tong.NewError(tong.IndexError, nil, "index rank %d does not match tensor rank %d", len(idx), len(shape))
	}
	off := int64(0)
	stride := int64(1)
	offs := make([]int64, len(shape))
	for i := len(shape) - 1; i >= 0; i-- {
		offs[i] = stride
		stride *= shape[i]
	}
	for i, ix := range idx {
		if ix >= shape[i] {
			return 0, tong.NewError(tong.IndexError, nil, "index %d out of bounds for axis %d (size %d)", ix, i, shape[i])
		}
		off += ix * offs[i]
	}
	return off, nil
}

func linalgFill(fill float64) func(context.Context, []tong.Value) (tong.Value, error) {
	return func(ctx context.Context, args []tong.Value) (tong.Value, error) {
		shape, err := intSlice(args[0], "shape")
		if err != nil {
			return nil, err
		}
		data := make([]float64, numel(shape))
		for i := range data {
			data[i] = fill
		}
		return newTensor(shape, data), nil
	}
}

func linalgTensor(ctx context.Context, args []tong.Value) (tong.Value, error) {
	data, err := floatSlice(args[0])
	if err != nil {
		return nil, err
	}
	shape, err := intSlice(args[1], "shape")
	if err != nil {
		return nil, err
	}
	if int64(len(data)) != numel(shape) {
		return nil, tong.NewError(tong.TypeMismatchError, nil, "data length %d does not match shape (%d elements)", len(data), numel(shape))
	}
	return newTensor(shape, data), nil
}

func linalgShape(ctx context.Context, args []tong.Value) (tong.Value, error) {
	shape, _, ok := asTensor(args[0])
	if !ok {
		return nil, tong.NewError(tong.TypeMismatchError, nil, "argument is not a tensor")
	}
	out := make([]tong.Value, len(shape))
	for i, d := range shape {
		out[i] = &tong.IntValue{Val: d}
	}
	return &tong.ArrayValue{Elements: out}, nil
}

func linalgRank(ctx context.Context, args []tong.Value) (tong.Value, error) {
	shape, _, ok := asTensor(args[0])
	if !ok {
		return nil, tong.NewError(tong.TypeMismatchError, nil, "argument is not a tensor")
	}
	return &tong.IntValue{Val: int64(len(shape))}, nil
}

func linalgGet(ctx context.Context, args []tong.Value) (tong.Value, error) {
	shape, data, ok := asTensor(args[0])
	if !ok {
		return nil, tong.NewError(tong.TypeMismatchError, nil, "argument is not a tensor")
	}
	idx, err := intSlice(args[1], "index")
	if err != nil {
		return nil, err
	}
	fi, err := flatIndex(shape, idx)
	if err != nil {
		return nil, err
	}
	return &tong.FloatValue{Val: data[fi]}, nil
}

func linalgSet(ctx context.Context, args []tong.Value) (tong.Value, error) {
	shape, data, ok := asTensor(args[0])
	if !ok {
		return nil, tong.NewError(tong.TypeMismatchError, nil, "argument is not a tensor")
	}
	idx, err := intSlice(args[1], "index")
	if err != nil {
		return nil, err
	}
	var val float64
	switch num := args[2].(type) {
	case *tong.IntValue:
		val = float64(num.Val)
	case *tong.FloatValue:
		val = num.Val
	default:
		return nil, tong.NewError(tong.TypeMismatchError, nil, "set expects a numeric value, got %s", args[2].Type())
	}
	fi, err := flatIndex(shape, idx)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(data))
	copy(out, data)
	out[fi] = val
	return newTensor(shape, out), nil
}

func linalgElementwise(name string, op func(a, b float64) float64) func(context.Context, []tong.Value) (tong.Value, error) {
	return func(ctx context.Context, args []tong.Value) (tong.Value, error) {
		shapeA, dataA, okA := asTensor(args[0])
		shapeB, dataB, okB := asTensor(args[1])
		if !okA || !okB {
			return nil, tong.NewError(tong.TypeMismatchError, nil, "%s expects two tensors", name)
		}
		if !sameShape(shapeA, shapeB) {
			return nil, tong.NewError(tong.TypeMismatchError, nil, "%s requires matching shapes", name)
		}
		out := make([]float64, len(dataA))
		for i := range dataA {
			out[i] = op(dataA[i], dataB[i])
		}
		return newTensor(shapeA, out), nil
	}
}

func sameShape(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func linalgDot(ctx context.Context, args []tong.Value) (tong.Value, error) {
	shapeA, dataA, okA := asTensor(args[0])
	shapeB, dataB, okB := asTensor(args[1])
	if !okA || !okB {
		return nil, tong.NewError(tong.TypeMismatchError, nil, "dot expects two tensors")
	}
	if len(shapeA) != 1 || len(shapeB) != 1 || shapeA[0] != shapeB[0] {
		return nil, tong.NewError(tong.TypeMismatchError, nil, "dot requires two rank-1 tensors of equal length")
	}
	var acc float64
	for i := range dataA {
		acc += dataA[i] * dataB[i]
	}
	return &tong.FloatValue{Val: acc}, nil
}

func linalgMatmul(ctx context.Context, args []tong.Value) (tong.Value, error) {
	shapeA, dataA, okA := asTensor(args[0])
	shapeB, dataB, okB := asTensor(args[1])
	if !okA || !okB {
		return nil, tong.NewError(tong.TypeMismatchError, nil, "matmul expects two tensors")
	}
	if len(shapeA) != 2 || len(shapeB) != 2 || shapeA[1] != shapeB[0] {
		return nil, tong.NewError(tong.TypeMismatchError, nil, "matmul requires rank-2 tensors with matching inner dimension")
	}
	m, k, n := shapeA[0], shapeA[1], shapeB[1]
	out := make([]float64, m*n)
	for i := int64(0); i < m; i++ {
		for j := int64(0); j < n; j++ {
			var acc float64
			for x := int64(0); x < k; x++ {
				acc += dataA[i*k+x] * dataB[x*n+j]
			}
			out[i*n+j] = acc
		}
	}
	return newTensor([]int64{m, n}, out), nil
}

func linalgTranspose(ctx context.Context, args []tong.Value) (tong.Value, error) {
	shape, data, ok := asTensor(args[0])
	if !ok {
		return nil, tong.NewError(tong.TypeMismatchError, nil, "argument is not a tensor")
	}
	if len(shape) != 2 {
		return nil, tong.NewError(tong.TypeMismatchError, nil, "transpose requires a rank-2 tensor")
	}
	rows, cols := shape[0], shape[1]
	out := make([]float64, len(data))
	for i := int64(0); i < rows; i++ {
		for j := int64(0); j < cols; j++ {
			out[j*rows+i] = data[i*cols+j]
		}
	}
	return newTensor([]int64{cols, rows}, out), nil
}
