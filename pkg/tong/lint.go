package tong

import (
	"fmt"
	"strings"
)

// Diagnostic is a non-fatal warning with a position.
type Diagnostic struct {
	Loc *SourceLocation
	Msg string
}

func (d Diagnostic) String() string {
	if d.Loc != nil {
		return fmt.Sprintf("[TONG][warn] %s (at %s)", d.Msg, d.Loc)
	}
	return fmt.Sprintf("[TONG][warn] %s", d.Msg)
}

// Diagnostics collects warnings across a run.
type Diagnostics struct {
	list []Diagnostic
}

func (d *Diagnostics) Report(loc *SourceLocation, format string, args ...interface{}) {
	d.list = append(d.list, Diagnostic{Loc: loc, Msg: fmt.Sprintf(format, args...)})
}

func (d *Diagnostics) All() []Diagnostic { return d.list }

// LintProgram runs the heuristic pattern checks over every function
// clause group and match expression the parser collected. It inspects
// pattern shapes only and never changes evaluation.
func LintProgram(prog *Program, reg *Registry, diags *Diagnostics) {
	byName := map[string][]*FnDecl{}
	var order []string
	for _, decl := range prog.fnDecls {
		if _, seen := byName[decl.Name]; !seen {
			order = append(order, decl.Name)
		}
		byName[decl.Name] = append(byName[decl.Name], decl)
	}
	for _, name := range order {
		lintClauses(name, byName[name], reg, diags)
	}
	for _, m := range prog.matches {
		lintMatch(m, reg, diags)
	}
}

// lintClauses flags clauses of a multi-clause function that can never
// be selected because an earlier unguarded clause shadows them.
func lintClauses(name string, decls []*FnDecl, reg *Registry, diags *Diagnostics) {
	if len(decls) < 2 {
		return
	}
	arity := len(decls[0].Params)
	for i := 1; i < len(decls); i++ {
		if len(decls[i].Params) != arity {
			return // registration will fail with an ArityError
		}
	}
	for j := 1; j < len(decls); j++ {
		for i := 0; i < j; i++ {
			if decls[i].Guard != nil {
				continue
			}
			if !paramsSubsume(decls[i].Params, decls[j].Params) {
				continue
			}
			if decls[j].Guard == nil && paramsSubsume(decls[j].Params, decls[i].Params) {
				diags.Report(decls[j].Loc, "redundant clause of %s: duplicates an earlier clause", name)
			} else {
				diags.Report(decls[j].Loc, "unreachable clause of %s: an earlier clause always matches first", name)
			}
			break
		}
	}
	lintClauseExhaustiveness(name, decls, arity, reg, diags)
}

// lintClauseExhaustiveness flags a clause group with no guard-less
// catch-all when some parameter position is not clearly covered: either
// by an irrefutable pattern or by constructor patterns spanning every
// constructor of one known type.
func lintClauseExhaustiveness(name string, decls []*FnDecl, arity int, reg *Registry, diags *Diagnostics) {
	for pos := 0; pos < arity; pos++ {
		covered := false
		for _, d := range decls {
			if d.Guard == nil && isCatchAll(d.Params[pos]) {
				covered = true
				break
			}
		}
		if !covered {
			covered = ctorsCovered(decls, pos, reg)
		}
		if !covered {
			diags.Report(decls[len(decls)-1].Loc, "clauses of %s may not be exhaustive: no catch-all for parameter %d", name, pos+1)
			return
		}
	}
}

func ctorsCovered(decls []*FnDecl, pos int, reg *Registry) bool {
	var typeName string
	covered := map[string]bool{}
	for _, d := range decls {
		ctor, ok := d.Params[pos].(*CtorPattern)
		if !ok {
			return false
		}
		owner, known := reg.TypeOf(ctor.Name)
		if !known {
			return false
		}
		if typeName == "" {
			typeName = owner
		} else if typeName != owner {
			return false
		}
		if d.Guard == nil && allSubWildcard(ctor.Args) {
			covered[ctor.Name] = true
		}
	}
	for _, ctor := range reg.Constructors(typeName) {
		if !covered[ctor] {
			return false
		}
	}
	return true
}

func paramsSubsume(earlier, later []Pattern) bool {
	for i := range earlier {
		if !subsumes(earlier[i], later[i]) {
			return false
		}
	}
	return true
}

func lintMatch(m *MatchExpr, reg *Registry, diags *Diagnostics) {
	for j := 1; j < len(m.Arms); j++ {
		for i := 0; i < j; i++ {
			if m.Arms[i].Guard != nil {
				continue
			}
			if !subsumes(m.Arms[i].Pattern, m.Arms[j].Pattern) {
				continue
			}
			if m.Arms[j].Guard == nil && subsumes(m.Arms[j].Pattern, m.Arms[i].Pattern) {
				diags.Report(m.Arms[j].Loc, "redundant match arm: duplicates an earlier arm")
			} else {
				diags.Report(m.Arms[j].Loc, "unreachable match arm: an earlier arm always matches first")
			}
			break
		}
	}
	lintExhaustiveness(m, reg, diags)
}

// lintExhaustiveness warns when every arm is a constructor pattern of
// one data type and some of that type's constructors are uncovered.
// A heuristic only: guards and literal arms make the question
// undecidable, so those shapes are left alone (Bool literal matches
// covering both values excepted).
func lintExhaustiveness(m *MatchExpr, reg *Registry, diags *Diagnostics) {
	for _, arm := range m.Arms {
		if arm.Guard == nil && isCatchAll(arm.Pattern) {
			return
		}
	}

	var typeName string
	covered := map[string]bool{}
	allCtors := true
	for _, arm := range m.Arms {
		ctor, ok := arm.Pattern.(*CtorPattern)
		if !ok {
			allCtors = false
			break
		}
		owner, known := reg.TypeOf(ctor.Name)
		if !known {
			return
		}
		if typeName == "" {
			typeName = owner
		} else if typeName != owner {
			return
		}
		if arm.Guard == nil && allSubWildcard(ctor.Args) {
			covered[ctor.Name] = true
		}
	}
	if allCtors && typeName != "" {
		var missing []string
		for _, name := range reg.Constructors(typeName) {
			if !covered[name] {
				missing = append(missing, name)
			}
		}
		if len(missing) > 0 {
			diags.Report(m.Loc, "match on %s may not be exhaustive: %s unhandled", typeName, strings.Join(missing, ", "))
		}
		return
	}

	// All-literal Bool matches covering both values are complete.
	sawTrue, sawFalse, allBools := false, false, true
	for _, arm := range m.Arms {
		lit, ok := arm.Pattern.(*LiteralPattern)
		if !ok {
			allBools = false
			break
		}
		b, ok := lit.Val.(*BoolValue)
		if !ok {
			allBools = false
			break
		}
		if arm.Guard == nil {
			if b.Val {
				sawTrue = true
			} else {
				sawFalse = true
			}
		}
	}
	if allBools && !(sawTrue && sawFalse) {
		diags.Report(m.Loc, "match on Bool may not be exhaustive: no catch-all arm")
	}
}

// allSubWildcard reports whether every subpattern is irrefutable, so
// the constructor arm covers its whole constructor.
func allSubWildcard(pats []Pattern) bool {
	for _, p := range pats {
		switch sub := p.(type) {
		case *WildcardPattern, *VarPattern:
		case *TuplePattern:
			if !allSubWildcard(sub.Elems) {
				return false
			}
		default:
			return false
		}
	}
	return true
}
