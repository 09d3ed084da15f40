package tong

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvScoping(t *testing.T) {
	world := NewWorld()
	outer := NewEnv(world)
	outer.Define("x", &IntValue{Val: 1}, false)

	inner := outer.Child()
	v, err := inner.Get("x", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.(*IntValue).Val)

	inner.Define("x", &IntValue{Val: 2}, false)
	v, _ = inner.Get("x", nil)
	assert.Equal(t, int64(2), v.(*IntValue).Val)

	// Shadowing leaves the outer binding alone.
	v, _ = outer.Get("x", nil)
	assert.Equal(t, int64(1), v.(*IntValue).Val)
}

func TestEnvAssign(t *testing.T) {
	world := NewWorld()
	env := NewEnv(world)
	env.Define("mut", &IntValue{Val: 1}, true)
	env.Define("fixed", &IntValue{Val: 1}, false)

	require.NoError(t, env.Assign("mut", &IntValue{Val: 2}, nil))
	v, _ := env.Get("mut", nil)
	assert.Equal(t, int64(2), v.(*IntValue).Val)

	err := env.Assign("fixed", &IntValue{Val: 2}, nil)
	require.Error(t, err)
	kind, _ := ErrKindOf(err)
	assert.Equal(t, NameError, kind)

	err = env.Assign("ghost", &IntValue{Val: 2}, nil)
	require.Error(t, err)
	kind, _ = ErrKindOf(err)
	assert.Equal(t, NameError, kind)

	// Assignment through a child frame lands in the owning scope.
	child := env.Child()
	require.NoError(t, child.Assign("mut", &IntValue{Val: 3}, nil))
	v, _ = env.Get("mut", nil)
	assert.Equal(t, int64(3), v.(*IntValue).Val)
}

func TestEnvSnapshot(t *testing.T) {
	world := NewWorld()
	outer := NewEnv(world)
	outer.Define("a", &IntValue{Val: 1}, true)
	inner := outer.Child()
	inner.Define("b", &IntValue{Val: 2}, false)

	snap := inner.Snapshot()

	// Mutation after the snapshot stays invisible through it.
	require.NoError(t, outer.Assign("a", &IntValue{Val: 99}, nil))
	v, _ := snap.Get("a", nil)
	assert.Equal(t, int64(1), v.(*IntValue).Val)
	v, _ = snap.Get("b", nil)
	assert.Equal(t, int64(2), v.(*IntValue).Val)
}

func TestEnvBindingNames(t *testing.T) {
	world := NewWorld()
	outer := NewEnv(world)
	outer.Define("zeta", Unit(), false)
	inner := outer.Child()
	inner.Define("alpha", Unit(), false)
	inner.Define("zeta", Unit(), false)

	assert.Equal(t, []string{"alpha", "zeta"}, inner.BindingNames())
}

func TestWorldModules(t *testing.T) {
	world := NewWorld()
	calls := 0
	world.Modules["m"] = func(ctx context.Context) (Value, error) {
		calls++
		return &ObjectValue{Name: "m", Props: map[string]Value{}}, nil
	}

	ctx := context.Background()
	a, err := world.LoadModule(ctx, "m", nil)
	require.NoError(t, err)
	b, err := world.LoadModule(ctx, "m", nil)
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Equal(t, 1, calls)

	_, err = world.LoadModule(ctx, "nope", nil)
	require.Error(t, err)
	kind, _ := ErrKindOf(err)
	assert.Equal(t, NameError, kind)
}

func TestRegistry(t *testing.T) {
	t.Run("define and query", func(t *testing.T) {
		reg := NewRegistry()
		require.NoError(t, reg.Define("Shape", "Circle", 1, nil))
		require.NoError(t, reg.Define("Shape", "Rect", 2, nil))

		n, ok := reg.Arity("Circle")
		require.True(t, ok)
		assert.Equal(t, 1, n)
		assert.True(t, reg.IsConstructor("Rect"))
		assert.False(t, reg.IsConstructor("Square"))
		assert.Equal(t, []string{"Circle", "Rect"}, reg.Constructors("Shape"))
	})

	t.Run("same arity redefinition is a no-op", func(t *testing.T) {
		reg := NewRegistry()
		require.NoError(t, reg.Define("Shape", "Circle", 1, nil))
		require.NoError(t, reg.Define("Shape", "Circle", 1, nil))
		assert.Equal(t, []string{"Circle"}, reg.Constructors("Shape"))
	})

	t.Run("arity change rejected", func(t *testing.T) {
		reg := NewRegistry()
		require.NoError(t, reg.Define("Shape", "Circle", 1, nil))
		err := reg.Define("Shape", "Circle", 2, nil)
		require.Error(t, err)
		kind, _ := ErrKindOf(err)
		assert.Equal(t, ParseError, kind)
	})

	t.Run("moving to another type rejected", func(t *testing.T) {
		reg := NewRegistry()
		require.NoError(t, reg.Define("Shape", "Circle", 1, nil))
		err := reg.Define("Blob", "Circle", 1, nil)
		require.Error(t, err)
		kind, _ := ErrKindOf(err)
		assert.Equal(t, ParseError, kind)
	})
}
