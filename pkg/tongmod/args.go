package tongmod

import (
	"context"

	"github.com/tonglang/tong/pkg/tong"
)

// Args builds the args module over the script arguments passed on the
// command line after the source file.
func Args(argv []string) tong.ModuleLoader {
	return func(ctx context.Context) (tong.Value, error) {
		return &tong.ObjectValue{Name: "args", Props: map[string]tong.Value{
			"count": &tong.BuiltinValue{
				Name:    "count",
				NParams: 0,
				Fn: func(ctx context.Context, args []tong.Value) (tong.Value, error) {
					return &tong.IntValue{Val: int64(len(argv))}, nil
				},
			},
			"get": &tong.BuiltinValue{
				Name:    "get",
				NParams: 1,
				Fn: func(ctx context.Context, args []tong.Value) (tong.Value, error) {
					idx, ok := args[0].(*tong.IntValue)
					if !ok {
						return nil, tong.NewError(tong.TypeMismatchError, nil, "args.get expects Int, got %s", args[0].Type())
					}
					if idx.Val < 0 || idx.Val >= int64(len(argv)) {
						return nil, tong.NewError(tong.IndexError, nil, "argument index %d out of range (%d arguments)", idx.Val, len(argv))
					}
					return &tong.StringValue{Val: argv[idx.Val]}, nil
				},
			},
			"all": &tong.BuiltinValue{
				Name:    "all",
				NParams: 0,
				Fn: func(ctx context.Context, args []tong.Value) (tong.Value, error) {
					out := make([]tong.Value, len(argv))
					for i, a := range argv {
						out[i] = &tong.StringValue{Val: a}
					}
					return &tong.ArrayValue{Elements: out}, nil
				},
			},
		}}, nil
	}
}
