// Package cinn is the top-level compiler façade: it owns the
// process-wide compilation state (a polyhedral library context plus a
// name registry) and drives a core.Function through scheduling and
// lowering to a single emittable ir.Function. It is the only package
// that imports both core and sched, keeping the
// ir -> poly -> core -> sched -> cinn dependency chain acyclic.
package cinn

import (
	"github.com/pkg/errors"

	bsync "github.com/cinn-go/cinn/base/sync"
	"github.com/cinn-go/cinn/base/uname"
	"github.com/cinn-go/cinn/core"
	"github.com/cinn-go/cinn/ir"
	"github.com/cinn-go/cinn/poly"
)

// Context is one compilation's shared state: the polyhedral library
// context every Stage's domain/schedule is built against, the name
// registry that enforces spec.md §3's global Var/Stage name uniqueness,
// and the stage registry every compiled Stage is recorded into (spec.md
// §5's process-wide state). It is not a package-level singleton
// (Default is a convenience, not a requirement) so two concurrent
// compilations never share state.
type Context struct {
	Poly   *poly.Context
	names  *uname.Unique
	seen   map[string]bool
	stages bsync.Map[string, *core.Stage]
}

// NewContext returns a fresh compilation context.
func NewContext() *Context {
	return &Context{Poly: poly.NewContext(), names: uname.New(), seen: map[string]bool{}}
}

// RegisterStage records st in the context's stage registry, keyed by
// name — queryable later by StageByName, e.g. by a backend that wants
// to inspect a particular stage's final schedule after compilation.
func (c *Context) RegisterStage(st *core.Stage) { c.stages.Store(st.Name, st) }

// StageByName looks up a previously registered stage.
func (c *Context) StageByName(name string) (*core.Stage, bool) {
	st := c.stages.Load(name)
	return st, st != nil
}

// Register claims name, implementing ir.NameRegistry. It returns a
// *ir.DuplicateNameError on a repeat request — Vars and Stages share
// this one namespace, per spec.md §3's "process-wide name registry".
func (c *Context) Register(name string) error {
	if c.seen[name] {
		return &ir.DuplicateNameError{Requested: name}
	}
	c.seen[name] = true
	return nil
}

// UniqueName returns a name derived from root, disambiguated if root
// was already handed out by a prior UniqueName call — used to name
// compiler-synthesized entities (tile loop variables, hoisted lets)
// that have no user-given name to register directly.
func (c *Context) UniqueName(root string) string {
	return c.names.Name(root)
}

// ResetCounter clears the context's name registry and generator,
// letting a fresh compilation reuse the same Context (spec.md §5's
// scoped-context reuse pattern, grounded on base/uname.Unique.Reset).
func (c *Context) ResetCounter() {
	c.names.Reset()
	c.seen = map[string]bool{}
	c.stages = bsync.Map[string, *core.Stage]{}
}

var defaultContext *Context

// Default returns a package-level Context, lazily created on first use —
// a convenience for callers (CLIs, tests) that don't need concurrent,
// isolated compilations.
func Default() *Context {
	if defaultContext == nil {
		defaultContext = NewContext()
	}
	return defaultContext
}

// errNilFunction is returned by Compile when handed a nil Function.
var errNilFunction = errors.New("cinn: function must be non-nil")
