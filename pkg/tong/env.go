package tong

import (
	"context"
	"sort"
)

// ModuleLoader builds a module object on first import.
type ModuleLoader func(ctx context.Context) (Value, error)

// World is the interpreter state shared by every scope in a run: the
// constructor registry, the warning sink, the importable modules with
// their cache, and script arguments.
type World struct {
	Registry *Registry
	Diags    *Diagnostics
	Modules  map[string]ModuleLoader
	Args     []string

	modCache map[string]Value
}

func NewWorld() *World {
	return &World{
		Registry: NewRegistry(),
		Diags:    &Diagnostics{},
		Modules:  map[string]ModuleLoader{},
		modCache: map[string]Value{},
	}
}

// LoadModule resolves a module by name, memoizing the result so
// repeated imports share one object.
func (w *World) LoadModule(ctx context.Context, name string, loc *SourceLocation) (Value, error) {
	if v, ok := w.modCache[name]; ok {
		return v, nil
	}
	loader, ok := w.Modules[name]
	if !ok {
		return nil, NewError(NameError, loc, "unknown module %q", name)
	}
	v, err := loader(ctx)
	if err != nil {
		return nil, err
	}
	w.modCache[name] = v
	return v, nil
}

type binding struct {
	val     Value
	mutable bool
}

// Env is one lexical scope frame. Name resolution walks the parent
// chain; let bindings are immutable, var bindings reassignable.
type Env struct {
	parent *Env
	names  map[string]binding
	world  *World
}

func NewEnv(world *World) *Env {
	return &Env{names: map[string]binding{}, world: world}
}

func (e *Env) World() *World { return e.world }

// Child opens a nested scope.
func (e *Env) Child() *Env {
	return &Env{parent: e, names: map[string]binding{}, world: e.world}
}

// Define introduces a binding in this scope. Re-declaring a name
// shadows any outer binding and replaces a local one.
func (e *Env) Define(name string, v Value, mutable bool) {
	e.names[name] = binding{val: v, mutable: mutable}
}

// Get resolves a name through the scope chain.
func (e *Env) Get(name string, loc *SourceLocation) (Value, error) {
	for s := e; s != nil; s = s.parent {
		if b, ok := s.names[name]; ok {
			return b.val, nil
		}
	}
	return nil, NewError(NameError, loc, "undefined name %q", name)
}

// Lookup is Get without the error, for probing.
func (e *Env) Lookup(name string) (Value, bool) {
	for s := e; s != nil; s = s.parent {
		if b, ok := s.names[name]; ok {
			return b.val, true
		}
	}
	return nil, false
}

// Assign rebinds name in the innermost scope that owns it. Assigning
// to a let binding or an undeclared name is a NameError.
func (e *Env) Assign(name string, v Value, loc *SourceLocation) error {
	for s := e; s != nil; s = s.parent {
		if b, ok := s.names[name]; ok {
			if !b.mutable {
				return NewError(NameError, loc, "cannot reassign immutable binding %q (declared with let)", name)
			}
			s.names[name] = binding{val: v, mutable: true}
			return nil
		}
	}
	return NewError(NameError, loc, "assignment to undeclared name %q", name)
}

// Snapshot flattens every visible binding into a single detached frame.
// Closures capture through this, so later mutation of the enclosing
// scope never leaks in.
func (e *Env) Snapshot() *Env {
	snap := &Env{names: map[string]binding{}, world: e.world}
	// Walk outermost-first so inner bindings win.
	var frames []*Env
	for s := e; s != nil; s = s.parent {
		frames = append(frames, s)
	}
	for i := len(frames) - 1; i >= 0; i-- {
		for name, b := range frames[i].names {
			snap.names[name] = b
		}
	}
	return snap
}

// BindingNames lists every visible name, sorted, for REPL inspection.
func (e *Env) BindingNames() []string {
	seen := map[string]bool{}
	for s := e; s != nil; s = s.parent {
		for name := range s.names {
			seen[name] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
