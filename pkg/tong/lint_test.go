package tong

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lintWarnings(t *testing.T, src string) []Diagnostic {
	t.Helper()
	reg := NewRegistry()
	prog, err := Parse(src, "test.tong", reg)
	require.NoError(t, err)
	diags := &Diagnostics{}
	LintProgram(prog, reg, diags)
	return diags.All()
}

func TestLintClauses(t *testing.T) {
	t.Run("catch-all before literal clause", func(t *testing.T) {
		warns := lintWarnings(t, `
fn f(n) { 0 }
fn f(0) { 1 }
f(0)`)
		require.Len(t, warns, 1)
		assert.Contains(t, warns[0].Msg, "unreachable clause of f")
	})

	t.Run("duplicate clause is redundant", func(t *testing.T) {
		warns := lintWarnings(t, `
fn f(0) { 1 }
fn f(0) { 2 }
fn f(n) { 0 }`)
		require.Len(t, warns, 1)
		assert.Contains(t, warns[0].Msg, "redundant clause of f")
	})

	t.Run("guards keep later clauses reachable", func(t *testing.T) {
		warns := lintWarnings(t, `
fn sign(n) if n > 0 { 1 }
fn sign(n) if n < 0 { -1 }
fn sign(n) { 0 }`)
		assert.Empty(t, warns)
	})

	t.Run("literal then catch-all is fine", func(t *testing.T) {
		warns := lintWarnings(t, `
fn fib(0) { 0 }
fn fib(1) { 1 }
fn fib(n) { fib(n - 1) + fib(n - 2) }`)
		assert.Empty(t, warns)
	})

	t.Run("literal clauses without catch-all flagged", func(t *testing.T) {
		warns := lintWarnings(t, `
fn parity(0) { 0 }
fn parity(1) { 1 }`)
		require.Len(t, warns, 1)
		assert.Contains(t, warns[0].Msg, "clauses of parity may not be exhaustive")
	})

	t.Run("constructor clauses covering the type are fine", func(t *testing.T) {
		warns := lintWarnings(t, `
data Shape = Circle(r) | Rect(w, h)
fn area(Circle(r)) { 3 * r * r }
fn area(Rect(w, h)) { w * h }`)
		assert.Empty(t, warns)
	})

	t.Run("constructor clauses missing a variant flagged", func(t *testing.T) {
		warns := lintWarnings(t, `
data Maybe = Just(x) | Nothing
fn unwrap(Just(x)) { x }`)
		assert.Empty(t, warns) // single clause: below the heuristic threshold

		warns = lintWarnings(t, `
data Shape = Circle(r) | Rect(w, h) | Dot
fn area(Circle(r)) { 3 * r * r }
fn area(Rect(w, h)) { w * h }`)
		require.Len(t, warns, 1)
		assert.Contains(t, warns[0].Msg, "clauses of area may not be exhaustive")
	})
}

func TestLintMatchReachability(t *testing.T) {
	t.Run("arm after wildcard", func(t *testing.T) {
		warns := lintWarnings(t, `
match v {
  _ -> 0,
  1 -> 1
}`)
		require.Len(t, warns, 1)
		assert.Contains(t, warns[0].Msg, "unreachable match arm")
	})

	t.Run("duplicate literal arms", func(t *testing.T) {
		warns := lintWarnings(t, `
match v {
  1 -> "a",
  1 -> "b",
  _ -> "c"
}`)
		require.Len(t, warns, 1)
		assert.Contains(t, warns[0].Msg, "redundant match arm")
	})

	t.Run("wider constructor pattern shadows narrower", func(t *testing.T) {
		warns := lintWarnings(t, `
data Shape = Circle(r) | Rect(w, h)
match v {
  Circle(r) -> 1,
  Circle(0) -> 2,
  Rect(w, h) -> 3
}`)
		require.Len(t, warns, 1)
		assert.Contains(t, warns[0].Msg, "unreachable match arm")
	})

	t.Run("guarded earlier arm does not shadow", func(t *testing.T) {
		warns := lintWarnings(t, `
match v {
  n if n > 0 -> 1,
  n -> 0
}`)
		assert.Empty(t, warns)
	})
}

func TestLintExhaustiveness(t *testing.T) {
	t.Run("missing constructor reported", func(t *testing.T) {
		warns := lintWarnings(t, `
data Shape = Circle(r) | Rect(w, h) | Dot
match v {
  Circle(r) -> 1,
  Rect(w, h) -> 2
}`)
		require.Len(t, warns, 1)
		assert.Equal(t, "match on Shape may not be exhaustive: Dot unhandled", warns[0].Msg)
	})

	t.Run("catch-all arm silences the check", func(t *testing.T) {
		warns := lintWarnings(t, `
data Shape = Circle(r) | Rect(w, h)
match v {
  Circle(r) -> 1,
  _ -> 0
}`)
		assert.Empty(t, warns)
	})

	t.Run("guarded constructor arm does not count as coverage", func(t *testing.T) {
		warns := lintWarnings(t, `
data Maybe = Just(x) | Nothing
match v {
  Just(x) if x > 0 -> 1,
  Nothing -> 0
}`)
		require.Len(t, warns, 1)
		assert.Contains(t, warns[0].Msg, "Just unhandled")
	})

	t.Run("bool literals need both values", func(t *testing.T) {
		warns := lintWarnings(t, `
match v {
  true -> 1
}`)
		require.Len(t, warns, 1)
		assert.Equal(t, "match on Bool may not be exhaustive: no catch-all arm", warns[0].Msg)

		warns = lintWarnings(t, `
match v {
  true -> 1,
  false -> 0
}`)
		assert.Empty(t, warns)
	})

	t.Run("mixed types stay silent", func(t *testing.T) {
		warns := lintWarnings(t, `
data A = X
data B = Y
match v {
  X -> 1,
  Y -> 2
}`)
		assert.Empty(t, warns)
	})
}

func TestDiagnosticString(t *testing.T) {
	d := Diagnostic{
		Loc: &SourceLocation{Filename: "test.tong", Line: 3, Column: 1},
		Msg: "redundant match arm: duplicates an earlier arm",
	}
	assert.Equal(t, "[TONG][warn] redundant match arm: duplicates an earlier arm (at test.tong:3:1)", d.String())
}
