package emit

import "github.com/cinn-go/cinn/ir"

// Backend is the narrow boundary a real code generator implements
// against this compiler's lowered IR, once scheduling and lowering
// (sched.Lower, cinn.Compile) have produced a flat, emittable
// ir.Function. It mirrors the surface Printer itself consumes — one
// Module, one already-computed Data section per Module — so a backend
// and the C Printer are interchangeable consumers of the same lowered
// form.
//
// No implementation of Backend lives in this module: an LLVM backend
// is out of scope (spec.md §1, "touched via their interfaces only"),
// and tinygo.org/x/go-llvm's cgo bindings require a system LLVM
// toolchain that would make this module un-buildable without one
// installed (the shape thiremani-pluto/compiler.Compiler takes,
// wrapping llvm.Context/llvm.Value directly). A real implementation
// would hold an llvm.Context the way that Compiler does, translate
// each ir.Function's Body into llvm.Value IR via its own visitor, and
// satisfy Backend without this package ever importing llvm itself.
type Backend interface {
	// LowerModule translates mod, with its buffers already planned in
	// data, into the backend's own unit of compilation (an object file,
	// an in-memory module, a JIT handle — Backend does not say which).
	LowerModule(mod *ir.Module, data []Data) error
}
