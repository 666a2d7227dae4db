package cinn

import (
	"github.com/pkg/errors"

	"github.com/cinn-go/cinn/core"
	"github.com/cinn-go/cinn/ir"
	"github.com/cinn-go/cinn/poly"
	"github.com/cinn-go/cinn/sched"
)

// Compile drives fn through scheduling and lowering, returning the
// single ir.Function a backend can emit: fn's stages are grouped into
// Snippets (core.Function.EndDefinition), each polyhedral Snippet is run
// through sched.BuildScheduleTree and sched.Lower, each function_call
// Snippet is concatenated directly (spec.md §3: a function_call Stage
// has no schedule to build), and every Snippet's result is wrapped, in
// registration order, in the Function's body Block.
func Compile(ctx *Context, fn *core.Function) (*ir.Function, error) {
	if fn == nil {
		return nil, errNilFunction
	}
	if err := fn.EndDefinition(); err != nil {
		return nil, errors.Wrapf(err, "cinn: cannot close function %q", fn.Name)
	}
	for _, st := range fn.Stages() {
		ctx.RegisterStage(st)
	}

	var body []ir.Expr
	for i, sn := range fn.Snippets() {
		lowered, err := lowerSnippet(ctx, sn)
		if err != nil {
			return nil, errors.Wrapf(err, "cinn: snippet %d of function %q", i, fn.Name)
		}
		body = append(body, lowered)
	}
	return ir.NewFunction(fn.Name, fn.Params(), ir.NewBlock(body))
}

// lowerSnippet dispatches a Snippet to sched.Lower when it is a run of
// polyhedral stages, or concatenates its stages' expressions directly
// when it is a function_call run — spec.md §3's "function_call" Stage
// type names a plain call with no iteration domain to schedule.
func lowerSnippet(ctx *Context, sn *core.Snippet) (ir.Expr, error) {
	stages := sn.Stages()
	if len(stages) == 0 {
		return ir.NewBlock(nil), nil
	}
	if stages[0].Type == core.FunctionCall {
		exprs := make([]ir.Expr, len(stages))
		for i, st := range stages {
			exprs[i] = st.Expr
		}
		return ir.NewBlock(exprs), nil
	}
	if _, err := sched.BuildScheduleTree(sn); err != nil {
		return nil, err
	}
	if err := releaseStageScope(stages); err != nil {
		return nil, err
	}
	return sched.Lower(ctx, sn)
}

// releaseStageScope opens a poly.Scope over stages, registering one
// release per stage that rejects an empty iteration domain (a literal
// lower bound that has reached or passed its upper bound — a domain
// BuildScheduleTree's tiling or fusion could in principle degenerate
// to). Closing the scope runs every release and aggregates their
// errors, so a snippet with several bad domains reports all of them
// instead of only the first.
func releaseStageScope(stages []*core.Stage) error {
	scope := poly.NewScope()
	for _, st := range stages {
		st := st
		scope.Defer(func() error { return validateNonEmptyDomain(st) })
	}
	return scope.Close()
}

func validateNonEmptyDomain(st *core.Stage) error {
	d := st.Domain
	for i := 0; i < d.NumDims(); i++ {
		b := d.Bound(i)
		if b.Lower.ValueSet && b.Upper.ValueSet && b.Lower.Value >= b.Upper.Value {
			return errors.Errorf("cinn: stage %q has an empty domain on dimension %q (%s)", st.Name, d.DimName(i), b)
		}
	}
	return nil
}
