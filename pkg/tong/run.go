package tong

import (
	"context"
	"fmt"

	"github.com/tonglang/tong/pkg/ioctx"
)

// Interp owns the state of one interpreter instance: the shared world
// (registry, modules, script args) and the root environment with the
// built-ins installed.
type Interp struct {
	world *World
	root  *Env
}

func NewInterp() *Interp {
	world := NewWorld()
	root := NewEnv(world)
	installBuiltins(root)
	return &Interp{world: world, root: root}
}

// RegisterModule makes a module available to import().
func (in *Interp) RegisterModule(name string, loader ModuleLoader) {
	in.world.Modules[name] = loader
}

// SetArgs provides the script arguments exposed by the args module.
func (in *Interp) SetArgs(args []string) { in.world.Args = args }

func (in *Interp) World() *World { return in.world }
func (in *Interp) Root() *Env    { return in.root }

// RunScript parses, lints, and executes a whole source file. Warnings
// go to the context's stderr before execution; a script that declares
// a zero-parameter main has it invoked after the top level runs.
func (in *Interp) RunScript(ctx context.Context, src, filename string) (Value, error) {
	prog, diags, err := in.prepare(src, filename)
	if err != nil {
		return nil, err
	}
	emitWarnings(ctx, diags)
	return in.execute(ctx, prog, true)
}

func (in *Interp) prepare(src, filename string) (*Program, []Diagnostic, error) {
	prog, err := Parse(src, filename, in.world.Registry)
	if err != nil {
		return nil, nil, err
	}
	diags := &Diagnostics{}
	LintProgram(prog, in.world.Registry, diags)
	in.world.Diags.list = append(in.world.Diags.list, diags.All()...)
	return prog, diags.All(), nil
}

func emitWarnings(ctx context.Context, diags []Diagnostic) {
	stderr := ioctx.StderrFromContext(ctx)
	for _, d := range diags {
		fmt.Fprintln(stderr, d)
	}
}

// execute runs a program with function declarations hoisted: every
// clause registers before the first non-declaration statement, so top
// level code can call forward and clauses can recurse mutually.
func (in *Interp) execute(ctx context.Context, prog *Program, invokeMain bool) (Value, error) {
	for _, stmt := range prog.Stmts {
		if decl, ok := stmt.(*FnDecl); ok {
			if _, err := decl.Eval(ctx, in.root); err != nil {
				return nil, err
			}
		}
	}
	rest := make([]Node, 0, len(prog.Stmts))
	for _, stmt := range prog.Stmts {
		if _, ok := stmt.(*FnDecl); !ok {
			rest = append(rest, stmt)
		}
	}
	out, err := evalForms(ctx, in.root, rest)
	if err != nil {
		return nil, err
	}
	if rv, ok := out.(*returnValue); ok {
		out = rv.val
	}

	if invokeMain && declaresMain(prog) {
		if v, ok := in.root.Lookup("main"); ok {
			if fn, ok := v.(*FunctionValue); ok && fn.NParams == 0 {
				return fn.Invoke(ctx, nil)
			}
		}
	}
	return out, nil
}

func declaresMain(prog *Program) bool {
	for _, decl := range prog.fnDecls {
		if decl.Name == "main" && len(decl.Params) == 0 {
			return true
		}
	}
	return false
}

// Session is a persistent REPL evaluation context: environment,
// constructor registry, and module cache survive across snippets.
type Session struct {
	interp *Interp
	mods   map[string]ModuleLoader
	args   []string
}

func NewSession() *Session {
	return &Session{interp: NewInterp(), mods: map[string]ModuleLoader{}}
}

// RegisterModule adds a module to this session and to any future Reset.
func (s *Session) RegisterModule(name string, loader ModuleLoader) {
	s.mods[name] = loader
	s.interp.RegisterModule(name, loader)
}

func (s *Session) SetArgs(args []string) {
	s.args = args
	s.interp.SetArgs(args)
}

// Result is the outcome of one session snippet. HasValue reports
// whether the snippet ended in a bare expression worth echoing.
type Result struct {
	Value    Value
	HasValue bool
	Warnings []Diagnostic
}

// Eval runs one snippet against the persistent state. main is never
// auto-invoked in a session.
func (s *Session) Eval(ctx context.Context, src string) (*Result, error) {
	prog, diags, err := s.interp.prepare(src, "<repl>")
	if err != nil {
		return nil, err
	}
	out, err := s.interp.execute(ctx, prog, false)
	if err != nil {
		return &Result{Warnings: diags}, err
	}
	return &Result{Value: out, HasValue: endsInExpression(prog), Warnings: diags}, nil
}

func endsInExpression(prog *Program) bool {
	for i := len(prog.Stmts) - 1; i >= 0; i-- {
		if _, ok := prog.Stmts[i].(*FnDecl); ok {
			continue
		}
		_, isStmt := prog.Stmts[i].(Stmt)
		return !isStmt
	}
	return false
}

// Reset discards all bindings, constructors, and module state.
func (s *Session) Reset() {
	s.interp = NewInterp()
	for name, loader := range s.mods {
		s.interp.RegisterModule(name, loader)
	}
	s.interp.SetArgs(s.args)
}

// Env exposes the root environment for inspection commands.
func (s *Session) Env() *Env { return s.interp.Root() }
