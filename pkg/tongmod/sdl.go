package tongmod

import (
	"context"
	"fmt"

	"github.com/tonglang/tong/pkg/ioctx"
	"github.com/tonglang/tong/pkg/tong"
)

// sdlAutoQuitFrames bounds headless render loops: poll_quit starts
// answering true after this many simulated frames so scripts written
// against a real event loop still terminate.
const sdlAutoQuitFrames = 300

// SDL builds the headless sdl module. No window is ever opened: every
// drawing call succeeds as a no-op, delay advances a frame counter
// instead of sleeping, and key_down is always false.
func SDL() tong.ModuleLoader {
	return func(ctx context.Context) (tong.Value, error) {
		fmt.Fprintln(ioctx.StderrFromContext(ctx), "[TONG][SDL] headless shim: no real window will be opened")

		frames := 0
		zero := func(name string, nparams int) *tong.BuiltinValue {
			return &tong.BuiltinValue{
				Name:    name,
				NParams: nparams,
				Fn: func(ctx context.Context, args []tong.Value) (tong.Value, error) {
					return &tong.IntValue{Val: 0}, nil
				},
			}
		}

		obj := &tong.ObjectValue{Name: "sdl", Props: map[string]tong.Value{
			"K_ESCAPE": &tong.IntValue{Val: 27},
			"K_Q":      &tong.IntValue{Val: 81},
			"K_W":      &tong.IntValue{Val: 87},
			"K_S":      &tong.IntValue{Val: 83},
			"K_UP":     &tong.IntValue{Val: 1000},
			"K_DOWN":   &tong.IntValue{Val: 1001},

			"init": zero("init", 0),
			"create_window": &tong.BuiltinValue{
				Name:    "create_window",
				NParams: 3, // title, width, height
				Fn: func(ctx context.Context, args []tong.Value) (tong.Value, error) {
					return &tong.IntValue{Val: 1}, nil
				},
			},
			"create_renderer": &tong.BuiltinValue{
				Name:    "create_renderer",
				NParams: 1,
				Fn: func(ctx context.Context, args []tong.Value) (tong.Value, error) {
					return &tong.IntValue{Val: 1}, nil
				},
			},
			"set_draw_color":   zero("set_draw_color", 4), // renderer, r, g, b
			"clear":            zero("clear", 1),
			"fill_rect":        zero("fill_rect", 5), // renderer, x, y, w, h
			"present":          zero("present", 1),
			"destroy_renderer": zero("destroy_renderer", 1),
			"destroy_window":   zero("destroy_window", 1),
			"quit":             zero("quit", 0),

			"delay": &tong.BuiltinValue{
				Name:    "delay",
				NParams: 1,
				Fn: func(ctx context.Context, args []tong.Value) (tong.Value, error) {
					frames++
					return &tong.IntValue{Val: 0}, nil
				},
			},
			"poll_quit": &tong.BuiltinValue{
				Name:    "poll_quit",
				NParams: 0,
				Fn: func(ctx context.Context, args []tong.Value) (tong.Value, error) {
					return &tong.BoolValue{Val: frames >= sdlAutoQuitFrames}, nil
				},
			},
			"key_down": &tong.BuiltinValue{
				Name:    "key_down",
				NParams: 1,
				Fn: func(ctx context.Context, args []tong.Value) (tong.Value, error) {
					return &tong.BoolValue{Val: false}, nil
				},
			},
		}}
		return obj, nil
	}
}
