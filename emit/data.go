package emit

import (
	"github.com/pkg/errors"

	"github.com/cinn-go/cinn/ir"
	"github.com/cinn-go/cinn/ir/irkind"
)

// BuildDataSection synthesizes the malloc'd half of fn's data section
// (spec.md §6): every Tensor reachable from fn.Body that is not one of
// fn's declared Params gets its own BufferOpr, in first-reference
// order — unless it already carries a Buffer, in which case it is
// skipped and its existing buffer is reused. A Tensor arrives with a
// Buffer already set either because an earlier reference to the same
// Tensor was already processed in this same pass, or because a caller
// bound it ahead of time with Tensor.AliasBuffer (SPEC_FULL.md §3's
// supplemented alias field, from original_source/cinn/ir/ir.h) to
// share storage with another tensor instead of getting its own malloc.
func BuildDataSection(fn *ir.Function) ([]Data, error) {
	params := map[*ir.Tensor]bool{}
	for _, t := range fn.Params {
		params[t] = true
	}
	var data []Data
	seen := map[*ir.Tensor]bool{}
	for _, t := range ir.Collect[*ir.Tensor](fn.Body) {
		if params[t] || seen[t] {
			continue
		}
		seen[t] = true
		if t.Buffer != nil {
			continue
		}
		size, err := tensorByteSize(t)
		if err != nil {
			return nil, err
		}
		buf, err := ir.NewBufferOpr(t.Name, ir.BufferAlloc, ir.ScalarType(t.Type().Primitive), size)
		if err != nil {
			return nil, err
		}
		t.Buffer = buf
		data = append(data, Data{Buffer: buf})
	}
	return data, nil
}

// tensorByteSize computes t's malloc size as a literal byte count —
// the box-domain bridge this compiler is built on requires every
// tensor dimension to be a literal constant (poly's package doc), so a
// symbolic dimension here is a caller error rather than something the
// emitter can size at compile time.
func tensorByteSize(t *ir.Tensor) (ir.Expr, error) {
	width := irkind.ByteWidth(t.Type().Primitive)
	if width == 0 {
		return nil, errors.Errorf("emit: tensor %s has no sizeable primitive type", t.Name)
	}
	total := int64(width)
	for _, d := range t.Shape {
		if !d.ValueSet {
			return nil, errors.Errorf("emit: tensor %s has a symbolic dimension, cannot size its buffer", t.Name)
		}
		total *= d.Value
	}
	return ir.NewIntImm(total, irkind.Int32)
}
