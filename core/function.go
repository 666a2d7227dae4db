package core

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/cinn-go/cinn/ir"
)

// Function is the top-level unit of compilation: an ordered run of
// Stages, grouped into Snippets on type transitions, operating over a
// declared set of input/output Tensors (spec.md §4.7).
type Function struct {
	Name    string
	Inputs  []*ir.Tensor
	Outputs []*ir.Tensor

	stages   []*Stage
	snippets []*Snippet
}

// NewFunction declares a Function's name and parameter tensors. Stages
// are added afterwards with AddStage.
func NewFunction(name string, inputs, outputs []*ir.Tensor) (*Function, error) {
	if name == "" {
		return nil, errors.Errorf("core: function name must be non-empty")
	}
	return &Function{
		Name:    name,
		Inputs:  append([]*ir.Tensor{}, inputs...),
		Outputs: append([]*ir.Tensor{}, outputs...),
	}, nil
}

// AddStage appends a Stage to the function's body, in the order its
// computation should occur.
func (f *Function) AddStage(st *Stage) { f.stages = append(f.stages, st) }

// Stages returns the function's stages in registration order.
func (f *Function) Stages() []*Stage { return append([]*Stage{}, f.stages...) }

// Snippets returns the snippets EndDefinition derived, or nil before it
// has run.
func (f *Function) Snippets() []*Snippet { return append([]*Snippet{}, f.snippets...) }

// EndDefinition partitions the function's stages into Snippets: a new
// Snippet starts every time the Stage type changes (polyhedral /
// function_call / unk), per spec.md §4.7's grouping rule. It is
// idempotent: calling it again after stages were only appended (never
// removed) re-derives the same partition from scratch.
//
// Every stage and every snippet closure is attempted regardless of
// earlier failures, and their errors are aggregated with multierr, so a
// Function with several invalid stages reports all of them in one
// call instead of only the first encountered.
func (f *Function) EndDefinition() error {
	f.snippets = nil
	var cur *Snippet
	var curType Type
	var errs error
	flush := func() {
		if cur == nil {
			return
		}
		if err := cur.End(); err != nil {
			errs = multierr.Append(errs, err)
			return
		}
		f.snippets = append(f.snippets, cur)
	}
	for _, st := range f.stages {
		if cur == nil || st.Type != curType {
			flush()
			cur = NewSnippet()
			curType = st.Type
		}
		if err := cur.AddStage(st); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	flush()
	return errs
}

// Params returns the function's declared parameters, inputs before
// outputs, as they should appear in the emitted C signature — used by
// sched/cinn when lowering a Function into its final ir.Function.
func (f *Function) Params() []*ir.Tensor {
	return append(append([]*ir.Tensor{}, f.Inputs...), f.Outputs...)
}
