package tong

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) *Program {
	t.Helper()
	prog, err := Parse(src, "test.tong", NewRegistry())
	require.NoError(t, err)
	return prog
}

func parseErr(t *testing.T, src string) ErrorKind {
	t.Helper()
	_, err := Parse(src, "test.tong", NewRegistry())
	require.Error(t, err)
	kind, ok := ErrKindOf(err)
	require.True(t, ok)
	return kind
}

func TestParsePrecedence(t *testing.T) {
	t.Run("multiplication binds tighter than addition", func(t *testing.T) {
		prog := parse(t, "2 + 3 * 4")
		add, ok := prog.Stmts[0].(*BinaryOp)
		require.True(t, ok)
		assert.Equal(t, "+", add.Op)
		mul, ok := add.Right.(*BinaryOp)
		require.True(t, ok)
		assert.Equal(t, "*", mul.Op)
	})

	t.Run("additive binds tighter than shift", func(t *testing.T) {
		prog := parse(t, "1 << 2 + 1")
		shift, ok := prog.Stmts[0].(*BinaryOp)
		require.True(t, ok)
		assert.Equal(t, "<<", shift.Op)
		add, ok := shift.Right.(*BinaryOp)
		require.True(t, ok)
		assert.Equal(t, "+", add.Op)
	})

	t.Run("comparison binds tighter than equality", func(t *testing.T) {
		prog := parse(t, "a < b == c < d")
		eq, ok := prog.Stmts[0].(*BinaryOp)
		require.True(t, ok)
		assert.Equal(t, "==", eq.Op)
	})

	t.Run("and binds tighter than or", func(t *testing.T) {
		prog := parse(t, "a || b && c")
		or, ok := prog.Stmts[0].(*LogicalOr)
		require.True(t, ok)
		_, ok = or.Right.(*LogicalAnd)
		assert.True(t, ok)
	})

	t.Run("bitwise or binds tighter than and", func(t *testing.T) {
		prog := parse(t, "a && b | c")
		and, ok := prog.Stmts[0].(*LogicalAnd)
		require.True(t, ok)
		bor, ok := and.Right.(*BinaryOp)
		require.True(t, ok)
		assert.Equal(t, "|", bor.Op)
	})
}

func TestParsePipeDisambiguation(t *testing.T) {
	t.Run("pipe at atom position is a lambda", func(t *testing.T) {
		prog := parse(t, "let f = |x| x + 1")
		decl, ok := prog.Stmts[0].(*LetDecl)
		require.True(t, ok)
		lam, ok := decl.Value.(*LambdaExpr)
		require.True(t, ok)
		assert.Equal(t, []string{"x"}, lam.Params)
	})

	t.Run("pipe between operands is bitwise or", func(t *testing.T) {
		prog := parse(t, "a | b")
		bor, ok := prog.Stmts[0].(*BinaryOp)
		require.True(t, ok)
		assert.Equal(t, "|", bor.Op)
	})

	t.Run("backslash lambda takes several params", func(t *testing.T) {
		prog := parse(t, `let f = \a b c -> a + b + c`)
		decl := prog.Stmts[0].(*LetDecl)
		lam, ok := decl.Value.(*LambdaExpr)
		require.True(t, ok)
		assert.Equal(t, []string{"a", "b", "c"}, lam.Params)
	})
}

func TestParseComprehension(t *testing.T) {
	t.Run("generators and predicate", func(t *testing.T) {
		prog := parse(t, "[x * y | x in xs, y in ys if x > y]")
		comp, ok := prog.Stmts[0].(*ListCompExpr)
		require.True(t, ok)
		require.Len(t, comp.Gens, 2)
		assert.Equal(t, "x", comp.Gens[0].Name)
		assert.Equal(t, "y", comp.Gens[1].Name)
		assert.NotNil(t, comp.Pred)
	})

	t.Run("plain array is not a comprehension", func(t *testing.T) {
		prog := parse(t, "[1, 2, 3]")
		arr, ok := prog.Stmts[0].(*ArrayLit)
		require.True(t, ok)
		assert.Len(t, arr.Elems, 3)
	})

	t.Run("bitwise or inside brackets still parses", func(t *testing.T) {
		prog := parse(t, "[a | b]")
		arr, ok := prog.Stmts[0].(*ArrayLit)
		require.True(t, ok)
		bor, ok := arr.Elems[0].(*BinaryOp)
		require.True(t, ok)
		assert.Equal(t, "|", bor.Op)
	})
}

func TestParseConstructorClassification(t *testing.T) {
	t.Run("registered constructor call", func(t *testing.T) {
		prog := parse(t, "data Shape = Circle(r)\nCircle(2)")
		call, ok := prog.Stmts[1].(*CtorCall)
		require.True(t, ok)
		assert.Equal(t, "Circle", call.Name)
	})

	t.Run("capitalized forward reference classifies as constructor", func(t *testing.T) {
		prog := parse(t, "Leaf(1)")
		_, ok := prog.Stmts[0].(*CtorCall)
		assert.True(t, ok)
	})

	t.Run("lowercase call is a function call", func(t *testing.T) {
		prog := parse(t, "circle(2)")
		_, ok := prog.Stmts[0].(*CallExpr)
		assert.True(t, ok)
	})
}

func TestParseDataDecl(t *testing.T) {
	t.Run("registers arities", func(t *testing.T) {
		reg := NewRegistry()
		_, err := Parse("data Shape = Circle(r) | Rect(w, h) | Dot", "test.tong", reg)
		require.NoError(t, err)
		n, ok := reg.Arity("Circle")
		require.True(t, ok)
		assert.Equal(t, 1, n)
		n, _ = reg.Arity("Rect")
		assert.Equal(t, 2, n)
		n, _ = reg.Arity("Dot")
		assert.Equal(t, 0, n)
		owner, _ := reg.TypeOf("Rect")
		assert.Equal(t, "Shape", owner)
		assert.Equal(t, []string{"Circle", "Rect", "Dot"}, reg.Constructors("Shape"))
	})

	t.Run("bare field style", func(t *testing.T) {
		reg := NewRegistry()
		_, err := Parse("data Maybe = Just x | Nothing", "test.tong", reg)
		require.NoError(t, err)
		n, _ := reg.Arity("Just")
		assert.Equal(t, 1, n)
		n, _ = reg.Arity("Nothing")
		assert.Equal(t, 0, n)
	})

	t.Run("conflicting arity is a parse error", func(t *testing.T) {
		kind := parseErr(t, "data A = C(x)\ndata B = C(x, y)")
		assert.Equal(t, ParseError, kind)
	})

	t.Run("zero arity constructor stops before the next statement", func(t *testing.T) {
		reg := NewRegistry()
		prog, err := Parse("data Shape = Circle(r) | Dot\nprint(Dot)", "test.tong", reg)
		require.NoError(t, err)
		n, ok := reg.Arity("Dot")
		require.True(t, ok)
		assert.Equal(t, 0, n)
		require.Len(t, prog.Stmts, 2)
		_, ok = prog.Stmts[1].(*PrintStmt)
		assert.True(t, ok)
	})

	t.Run("bare fields stop before calls and assignments", func(t *testing.T) {
		reg := NewRegistry()
		prog, err := Parse(`
data Maybe = Just x | Nothing
f(1)
a = 2
m.get(0)
xs[0] = 3`, "test.tong", reg)
		require.NoError(t, err)
		n, _ := reg.Arity("Nothing")
		assert.Equal(t, 0, n)
		require.Len(t, prog.Stmts, 5)
	})
}

func TestParsePatterns(t *testing.T) {
	t.Run("duplicate names in one pattern rejected", func(t *testing.T) {
		kind := parseErr(t, "match p { (x, x) -> x }")
		assert.Equal(t, ParseError, kind)
	})

	t.Run("duplicate names across fn params rejected", func(t *testing.T) {
		kind := parseErr(t, "fn f(x, x) { x }")
		assert.Equal(t, ParseError, kind)
	})

	t.Run("constructor pattern with subpatterns", func(t *testing.T) {
		prog := parse(t, "match v { Rect(w, h) -> w, Circle(0) -> 0, _ -> 1 }")
		m := prog.Stmts[0].(*MatchExpr)
		require.Len(t, m.Arms, 3)
		rect, ok := m.Arms[0].Pattern.(*CtorPattern)
		require.True(t, ok)
		assert.Len(t, rect.Args, 2)
		circ := m.Arms[1].Pattern.(*CtorPattern)
		_, ok = circ.Args[0].(*LiteralPattern)
		assert.True(t, ok)
		_, ok = m.Arms[2].Pattern.(*WildcardPattern)
		assert.True(t, ok)
	})

	t.Run("negative literal pattern", func(t *testing.T) {
		prog := parse(t, "match v { -1 -> 0, _ -> 1 }")
		m := prog.Stmts[0].(*MatchExpr)
		lit, ok := m.Arms[0].Pattern.(*LiteralPattern)
		require.True(t, ok)
		assert.Equal(t, int64(-1), lit.Val.(*IntValue).Val)
	})
}

func TestParseStatements(t *testing.T) {
	t.Run("index assignment", func(t *testing.T) {
		prog := parse(t, "a[0] = 9")
		ia, ok := prog.Stmts[0].(*IndexAssignStmt)
		require.True(t, ok)
		assert.Equal(t, "a", ia.Name)
		assert.Len(t, ia.Indices, 1)
	})

	t.Run("index read is an expression", func(t *testing.T) {
		prog := parse(t, "a[0]")
		_, ok := prog.Stmts[0].(*IndexExpr)
		assert.True(t, ok)
	})

	t.Run("keyword as property name", func(t *testing.T) {
		prog := parse(t, "t.data")
		pe, ok := prog.Stmts[0].(*PropertyExpr)
		require.True(t, ok)
		assert.Equal(t, "data", pe.Name)

		prog = parse(t, "t.data[0]")
		_, ok = prog.Stmts[0].(*IndexExpr)
		assert.True(t, ok)
	})

	t.Run("import binding", func(t *testing.T) {
		prog := parse(t, `let m = import("linalg")`)
		imp, ok := prog.Stmts[0].(*ImportDecl)
		require.True(t, ok)
		assert.Equal(t, "m", imp.Name)
		assert.Equal(t, "linalg", imp.Module)
	})

	t.Run("guarded function clause", func(t *testing.T) {
		prog := parse(t, "fn sign(n) if n > 0 { 1 }")
		decl, ok := prog.Stmts[0].(*FnDecl)
		require.True(t, ok)
		assert.NotNil(t, decl.Guard)
	})

	t.Run("else if chains", func(t *testing.T) {
		prog := parse(t, "if a { } else if b { } else { }")
		outer, ok := prog.Stmts[0].(*IfStmt)
		require.True(t, ok)
		require.Len(t, outer.Else, 1)
		_, ok = outer.Else[0].(*IfStmt)
		assert.True(t, ok)
	})

	t.Run("tuple expression", func(t *testing.T) {
		prog := parse(t, "(1, 2)")
		arr, ok := prog.Stmts[0].(*ArrayLit)
		require.True(t, ok)
		assert.Len(t, arr.Elems, 2)
	})

	t.Run("grouping parens stay transparent", func(t *testing.T) {
		prog := parse(t, "(1 + 2) * 3")
		mul, ok := prog.Stmts[0].(*BinaryOp)
		require.True(t, ok)
		assert.Equal(t, "*", mul.Op)
		add, ok := mul.Left.(*BinaryOp)
		require.True(t, ok)
		assert.Equal(t, "+", add.Op)
	})
}
