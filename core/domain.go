// Package core implements the Stage/Snippet/Function model: grouping
// Expression IR into polyhedral computation units, inferring their
// iteration domains, and driving the scheduler (spec.md §4.2, §4.4,
// §4.7).
package core

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/cinn-go/cinn/base/fmterr"
	"github.com/cinn-go/cinn/ir"
	"github.com/cinn-go/cinn/poly"
)

// subjectName is a tiny fmt.Stringer wrapping a stage or reference name,
// for attaching a human-readable subject to an aggregated domain error
// (mirrors ir.described's role in ir/errors.go).
type subjectName string

func (n subjectName) String() string { return string(n) }

// affineTerm is (name, offset): a reference index expression of the
// restricted shape this engine inverts — a bare loop variable, or that
// variable plus/minus a literal constant (e.g. "i", "i+1", "j-2").
// This is the box-domain bridge's documented restriction (poly's
// package doc): general affine index expressions are out of scope
// without a real Presburger solver.
type affineTerm struct {
	name   string
	offset int64
}

// asAffineTerm inverts e into (name, offset), or reports it cannot.
func asAffineTerm(e ir.Expr) (affineTerm, bool) {
	switch x := e.(type) {
	case *ir.Var:
		return affineTerm{name: x.Name}, true
	case *ir.BinaryExpr:
		var v *ir.Var
		var lit *ir.IntImm
		var sign int64 = 1
		switch x.Tag() {
		case ir.TagAdd:
			sign = 1
		case ir.TagSub:
			sign = -1
		default:
			return affineTerm{}, false
		}
		if a, ok := x.A.(*ir.Var); ok {
			v = a
		}
		if b, ok := x.B.(*ir.IntImm); ok {
			lit = b
		}
		if v == nil || lit == nil {
			return affineTerm{}, false
		}
		return affineTerm{name: v.Name, offset: sign * lit.Value}, true
	default:
		return affineTerm{}, false
	}
}

// DomainError reports that a Reference's index expressions are too
// irregular for this bridge's box/affine-shift domain synthesis
// (spec.md §7 item 2's "polyhedral infeasibility", specialised to
// domain inference).
type DomainError struct {
	Subject string
	cause   error
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("core: cannot synthesise a domain for %s: %s", e.Subject, e.cause)
}

func (e *DomainError) Unwrap() error { return e.cause }

// SynthesizeReferenceDomain implements spec.md §4.2's domain-inference
// algorithm for a complete Reference (index count == target rank):
//
//  1. Allocate alias iterator names ii0..ii(n-1) (implicit: the
//     target's dimensions are numbered positionally).
//  2. Build the base box set { [ii0,...,iin-1] : 0 <= iik < dk }.
//  3. Build the map { [ii0,...] -> [v0,...] : iik = ek } from the
//     Reference's index expressions.
//  4. Apply the map to the base set to obtain the Reference domain,
//     expressed directly over the free loop variables v0..vm-1 found
//     in the index expressions (rather than over the ii-space), since
//     that is the space core.Stage schedules over.
func SynthesizeReferenceDomain(ctx *poly.Context, ref *ir.Reference) (*poly.Set, error) {
	if !ref.IsComplete() {
		return nil, &DomainError{Subject: ref.String(), cause: errors.Errorf("reference is partial (have %d indices, target has rank %d)", len(ref.Indices), ref.TargetRank())}
	}
	tensor, ok := ref.Target.(*ir.Tensor)
	if !ok {
		return nil, &DomainError{Subject: ref.String(), cause: errors.Errorf("target is not a Tensor")}
	}

	dimNames := make([]string, len(ref.Indices))
	bounds := make([]ir.Interval, len(ref.Indices))
	for i, idx := range ref.Indices {
		term, ok := asAffineTerm(idx)
		if !ok {
			return nil, &DomainError{Subject: ref.String(), cause: errors.Errorf("index %d (%s) is not a bare variable or variable +/- a constant", i, idx)}
		}
		dimNames[i] = term.name
		bounds[i] = shiftInterval(ir.NewInterval(ir.IntConst(0), tensor.Shape[i]), -term.offset)
	}
	return poly.NewSet(ctx, poly.NewSpace(tensor.Name, dimNames), bounds), nil
}

// shiftInterval returns iv with both endpoints shifted by delta; a
// symbolic endpoint (a parameter name) is left untouched, since this
// bridge does not carry symbolic arithmetic — only its literal bound,
// if any, moves.
func shiftInterval(iv ir.Interval, delta int64) ir.Interval {
	return ir.NewInterval(shiftConstant(iv.Lower, delta), shiftConstant(iv.Upper, delta))
}

func shiftConstant(c ir.Constant, delta int64) ir.Constant {
	if !c.ValueSet {
		return c
	}
	return ir.IntConst(c.Value + delta)
}

// StageDomain computes a Stage's iteration domain as the intersection
// of every complete Reference's domain found in expr, retagged with
// stageName (spec.md §4.2: "Stage-level domain is the intersection of
// all its References' domains, retagged with the Stage name").
//
// A Stage's References rarely share an identical dimension set (a
// matmul's accumulation `tmp[i,j] += x[i,k]*w[k,j]` ranges over
// {i,j} ∪ {i,k} ∪ {k,j}): References are merged by dimension *name*
// rather than by geometric intersection — a variable seen in more
// than one Reference keeps the tightest of its bounds, and a variable
// seen in only one contributes its own bound unchanged. This is the
// cylindrical-extension step a general ISL intersection performs
// automatically; this bridge does it by name-matching instead (see
// poly's package doc for the scope of this simplification).
func StageDomain(ctx *poly.Context, stageName string, expr ir.Expr) (*poly.Set, error) {
	refs := ir.Collect[*ir.Reference](expr)

	var errs fmterr.Errors
	appender := errs.NewAppender(subjectName(stageName))

	var dimOrder []string
	bounds := map[string]ir.Interval{}
	seenAny := false
	for _, ref := range refs {
		if !ref.IsComplete() {
			continue
		}
		d, err := SynthesizeReferenceDomain(ctx, ref)
		if err != nil {
			appender.AppendAt(subjectName(ref.String()), err)
			continue
		}
		seenAny = true
		for i := 0; i < d.NumDims(); i++ {
			name := d.DimName(i)
			bound := d.Bound(i)
			if existing, ok := bounds[name]; ok {
				bounds[name] = tightestInterval(existing, bound)
				continue
			}
			bounds[name] = bound
			dimOrder = append(dimOrder, name)
		}
	}
	if err := appender.Errors().ToError(); err != nil {
		return nil, err
	}
	if !seenAny {
		return nil, &DomainError{Subject: stageName, cause: errors.Errorf("expression has no complete References to infer a domain from")}
	}

	ivs := make([]ir.Interval, len(dimOrder))
	for i, name := range dimOrder {
		ivs[i] = bounds[name]
	}
	return poly.NewSet(ctx, poly.NewSpace(stageName, dimOrder), ivs), nil
}

// tightestInterval returns the narrower of a and b per endpoint,
// keeping a literal bound over a symbolic one when they disagree.
func tightestInterval(a, b ir.Interval) ir.Interval {
	lo := a.Lower
	if b.Lower.ValueSet && (!lo.ValueSet || b.Lower.Value > lo.Value) {
		lo = b.Lower
	}
	hi := a.Upper
	if b.Upper.ValueSet && (!hi.ValueSet || b.Upper.Value < hi.Value) {
		hi = b.Upper
	}
	return ir.NewInterval(lo, hi)
}
