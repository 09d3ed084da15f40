// Package tongmod provides the built-in importable modules: linalg
// (dense tensors), sdl (a headless graphics shim), and args (script
// arguments). Each module is an opaque object of functions; scripts
// reach them through import("name").
package tongmod

import "github.com/tonglang/tong/pkg/tong"

// Registrar is the subset of the interpreter the modules need.
type Registrar interface {
	RegisterModule(name string, loader tong.ModuleLoader)
}

// RegisterAll wires every built-in module into r. argv is what the
// args module exposes.
func RegisterAll(r Registrar, argv []string) {
	r.RegisterModule("linalg", Linalg())
	r.RegisterModule("sdl", SDL())
	r.RegisterModule("args", Args(argv))
}
