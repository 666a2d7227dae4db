// Package poly is a typed bridge over an integer-set library, in the
// shape spec.md §4.3 specifies: scoped acquisition of sets, maps and
// schedule trees, dependency analysis and schedule computation.
//
// No repository in the retrieved example pack binds a real integer-set
// library (ISL is a C library; a cgo binding would require a system
// libisl install and break plain `go build`). poly therefore implements
// the operations directly, scoped to the restricted shape CINN actually
// needs: unions of named, rectangular (box) integer sets with affine
// equality constraints between iterator and schedule-space dimensions,
// parametrised by symbolic names. This is a deliberate simplification,
// grounded in spec.md §9's own documented simplification for schedule
// validity — every operation §4.3 lists is present with the listed
// signature; only the internal representation is closed-form instead of
// a general Presburger-arithmetic solver. See DESIGN.md.
package poly

import "github.com/cinn-go/cinn/ir"

// Context is the shared, per-compilation integer-set library context
// (spec.md §5's "integer-set library ctx"). It is not a package-level
// singleton: cinn.Context owns one instance and threads it through
// every poly call, so two concurrent compilations never share state.
type Context struct {
	// paramOrder records the order parameter names were first seen, so
	// AlignParams is deterministic across independently parsed sets.
	paramOrder []string
	paramSeen  map[string]bool
}

// NewContext returns a fresh, empty polyhedral library context.
func NewContext() *Context {
	return &Context{paramSeen: map[string]bool{}}
}

// noteParam records name in ctx's parameter order if it hasn't been
// seen before.
func (ctx *Context) noteParam(name string) {
	if ctx.paramSeen[name] {
		return
	}
	ctx.paramSeen[name] = true
	ctx.paramOrder = append(ctx.paramOrder, name)
}

// noteConstant records c in ctx's parameter order if it is symbolic.
func (ctx *Context) noteConstant(c ir.Constant) {
	if c.IsSymbolic() {
		ctx.noteParam(c.Name)
	}
}
