package tong

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonglang/tong/pkg/ioctx"
)

func TestRunScriptWarnings(t *testing.T) {
	var stdout, stderr bytes.Buffer
	ctx := ioctx.StdoutToContext(context.Background(), &stdout)
	ctx = ioctx.StderrToContext(ctx, &stderr)

	_, err := NewInterp().RunScript(ctx, `
fn f(n) { 0 }
fn f(0) { 1 }
print(f(0))`, "warn.tong")
	require.NoError(t, err)

	assert.Contains(t, stderr.String(), "[TONG][warn] unreachable clause of f")
	assert.Contains(t, stderr.String(), "(at warn.tong:3:1)")
	// Warnings never change evaluation.
	assert.Equal(t, "0\n", stdout.String())
}

func TestRunScriptModules(t *testing.T) {
	interp := NewInterp()
	interp.RegisterModule("answers", func(ctx context.Context) (Value, error) {
		return &ObjectValue{Name: "answers", Props: map[string]Value{
			"get": &BuiltinValue{Name: "get", NParams: 0, Fn: func(ctx context.Context, args []Value) (Value, error) {
				return &IntValue{Val: 42}, nil
			}},
		}}, nil
	})

	v, err := interp.RunScript(context.Background(), `
let m = import("answers")
m.get()`, "mod.tong")
	require.NoError(t, err)
	assert.Equal(t, int64(42), v.(*IntValue).Val)
}

func TestSessionPersistence(t *testing.T) {
	ctx := context.Background()
	s := NewSession()

	_, err := s.Eval(ctx, "let x = 10")
	require.NoError(t, err)

	res, err := s.Eval(ctx, "x + 1")
	require.NoError(t, err)
	assert.True(t, res.HasValue)
	assert.Equal(t, int64(11), res.Value.(*IntValue).Val)

	// Constructors registered in one snippet survive into the next.
	_, err = s.Eval(ctx, "data Shape = Circle(r)")
	require.NoError(t, err)
	res, err = s.Eval(ctx, "Circle(3)")
	require.NoError(t, err)
	assert.Equal(t, "Circle(3)", res.Value.String())

	// Function clauses accumulate across snippets too.
	_, err = s.Eval(ctx, "fn f(0) { 0 }")
	require.NoError(t, err)
	_, err = s.Eval(ctx, "fn f(n) { n * 2 }")
	require.NoError(t, err)
	res, err = s.Eval(ctx, "f(4)")
	require.NoError(t, err)
	assert.Equal(t, int64(8), res.Value.(*IntValue).Val)
}

func TestSessionHasValue(t *testing.T) {
	ctx := context.Background()
	s := NewSession()

	res, err := s.Eval(ctx, "1 + 2")
	require.NoError(t, err)
	assert.True(t, res.HasValue)

	res, err = s.Eval(ctx, "let x = 1")
	require.NoError(t, err)
	assert.False(t, res.HasValue)

	res, err = s.Eval(ctx, "fn g(a) { a }")
	require.NoError(t, err)
	assert.False(t, res.HasValue)

	// A declaration after the expression does not hide the value.
	res, err = s.Eval(ctx, "x + 1\nfn h(a) { a }")
	require.NoError(t, err)
	assert.True(t, res.HasValue)
	assert.Equal(t, int64(2), res.Value.(*IntValue).Val)
}

func TestSessionNoMainInvocation(t *testing.T) {
	var stdout bytes.Buffer
	ctx := ioctx.StdoutToContext(context.Background(), &stdout)

	s := NewSession()
	_, err := s.Eval(ctx, `fn main() { print("main ran") }`)
	require.NoError(t, err)
	assert.Equal(t, "", stdout.String())
}

func TestSessionWarnings(t *testing.T) {
	s := NewSession()
	res, err := s.Eval(context.Background(), "match 1 { _ -> 0, 1 -> 1 }")
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0].Msg, "unreachable match arm")
}

func TestSessionReset(t *testing.T) {
	ctx := context.Background()
	s := NewSession()
	s.RegisterModule("m", func(ctx context.Context) (Value, error) {
		return &ObjectValue{Name: "m", Props: map[string]Value{}}, nil
	})

	_, err := s.Eval(ctx, "let x = 1")
	require.NoError(t, err)
	s.Reset()

	_, err = s.Eval(ctx, "x")
	require.Error(t, err)
	kind, _ := ErrKindOf(err)
	assert.Equal(t, NameError, kind)

	// Registered modules survive a reset.
	res, err := s.Eval(ctx, `import("m")`)
	require.NoError(t, err)
	assert.Equal(t, "<object:m>", res.Value.String())
}

func TestSessionArgs(t *testing.T) {
	s := NewSession()
	s.SetArgs([]string{"a", "b"})
	assert.Equal(t, []string{"a", "b"}, s.Env().World().Args)
}
