package tong

import (
	"fmt"
	"strings"
)

// Pattern is one shape in a match arm or pattern-function clause.
// Match tests v and records variable bindings into bindings.
type Pattern interface {
	Match(v Value, bindings map[string]Value) bool
	String() string
	Location() *SourceLocation
}

// WildcardPattern (`_`) matches anything and binds nothing.
type WildcardPattern struct {
	Loc *SourceLocation
}

func (p *WildcardPattern) Match(v Value, bindings map[string]Value) bool { return true }
func (p *WildcardPattern) String() string                                { return "_" }
func (p *WildcardPattern) Location() *SourceLocation                     { return p.Loc }

// VarPattern matches anything and binds it to Name.
type VarPattern struct {
	Name string
	Loc  *SourceLocation
}

func (p *VarPattern) Match(v Value, bindings map[string]Value) bool {
	bindings[p.Name] = v
	return true
}
func (p *VarPattern) String() string            { return p.Name }
func (p *VarPattern) Location() *SourceLocation { return p.Loc }

// LiteralPattern matches a concrete Int, Float, Bool, or Str value,
// with the same equality rules as ==.
type LiteralPattern struct {
	Val Value
	Loc *SourceLocation
}

func (p *LiteralPattern) Match(v Value, bindings map[string]Value) bool {
	return equalValues(p.Val, v)
}
func (p *LiteralPattern) String() string {
	if s, ok := p.Val.(*StringValue); ok {
		return fmt.Sprintf("%q", s.Val)
	}
	return p.Val.String()
}
func (p *LiteralPattern) Location() *SourceLocation { return p.Loc }

// TuplePattern matches an array of exactly len(Elems) elements.
type TuplePattern struct {
	Elems []Pattern
	Loc   *SourceLocation
}

func (p *TuplePattern) Match(v Value, bindings map[string]Value) bool {
	arr, ok := v.(*ArrayValue)
	if !ok || len(arr.Elements) != len(p.Elems) {
		return false
	}
	for i, sub := range p.Elems {
		if !sub.Match(arr.Elements[i], bindings) {
			return false
		}
	}
	return true
}

func (p *TuplePattern) String() string {
	parts := make([]string, len(p.Elems))
	for i, sub := range p.Elems {
		parts[i] = sub.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
func (p *TuplePattern) Location() *SourceLocation { return p.Loc }

// CtorPattern matches a constructor value by name and destructures its
// fields positionally.
type CtorPattern struct {
	Name string
	Args []Pattern
	Loc  *SourceLocation
}

func (p *CtorPattern) Match(v Value, bindings map[string]Value) bool {
	ctor, ok := v.(*ConstructorValue)
	if !ok || ctor.Name != p.Name || len(ctor.Fields) != len(p.Args) {
		return false
	}
	for i, sub := range p.Args {
		if !sub.Match(ctor.Fields[i], bindings) {
			return false
		}
	}
	return true
}

func (p *CtorPattern) String() string {
	if len(p.Args) == 0 {
		return p.Name
	}
	parts := make([]string, len(p.Args))
	for i, sub := range p.Args {
		parts[i] = sub.String()
	}
	return fmt.Sprintf("%s(%s)", p.Name, strings.Join(parts, ", "))
}
func (p *CtorPattern) Location() *SourceLocation { return p.Loc }

// patternNames appends every variable bound by p, for the parser's
// duplicate-name check.
func patternNames(p Pattern, out []string) []string {
	switch pat := p.(type) {
	case *VarPattern:
		out = append(out, pat.Name)
	case *TuplePattern:
		for _, sub := range pat.Elems {
			out = patternNames(sub, out)
		}
	case *CtorPattern:
		for _, sub := range pat.Args {
			out = patternNames(sub, out)
		}
	}
	return out
}

// subsumes reports whether every value matched by q is also matched by
// p, judging shapes only. It drives the unreachable-clause warning.
func subsumes(p, q Pattern) bool {
	switch pp := p.(type) {
	case *WildcardPattern, *VarPattern:
		return true
	case *LiteralPattern:
		qq, ok := q.(*LiteralPattern)
		return ok && equalValues(pp.Val, qq.Val)
	case *TuplePattern:
		qq, ok := q.(*TuplePattern)
		if !ok || len(pp.Elems) != len(qq.Elems) {
			return false
		}
		for i := range pp.Elems {
			if !subsumes(pp.Elems[i], qq.Elems[i]) {
				return false
			}
		}
		return true
	case *CtorPattern:
		qq, ok := q.(*CtorPattern)
		if !ok || pp.Name != qq.Name || len(pp.Args) != len(qq.Args) {
			return false
		}
		for i := range pp.Args {
			if !subsumes(pp.Args[i], qq.Args[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// isCatchAll reports whether p matches every value.
func isCatchAll(p Pattern) bool {
	switch p.(type) {
	case *WildcardPattern, *VarPattern:
		return true
	}
	return false
}
