package core_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cinn-go/cinn/core"
	"github.com/cinn-go/cinn/ir"
	"github.com/cinn-go/cinn/ir/irkind"
	"github.com/cinn-go/cinn/poly"
)

func TestFunctionEndDefinitionGroupsByType(t *testing.T) {
	ctx := poly.NewContext()
	reg := newTestRegistry()
	i := mustVar(t, reg, "i", 0, 20)
	a := buildCopyStageOverVar(t, ctx, reg, "a", i, 20)
	b := buildCopyStageOverVar(t, ctx, reg, "b", i, 20)
	c := buildCopyStage(t, ctx, reg, "c", 20)
	c.Type = core.FunctionCall

	fn, err := core.NewFunction("fused", nil, nil)
	require.NoError(t, err)
	fn.AddStage(a)
	fn.AddStage(b)
	fn.AddStage(c)

	require.NoError(t, fn.EndDefinition())
	snippets := fn.Snippets()
	require.Len(t, snippets, 2)
	require.Len(t, snippets[0].Stages(), 2)
	require.Len(t, snippets[1].Stages(), 1)
}

func TestFunctionEndDefinitionIsIdempotent(t *testing.T) {
	ctx := poly.NewContext()
	reg := newTestRegistry()
	i := mustVar(t, reg, "i", 0, 20)
	a := buildCopyStageOverVar(t, ctx, reg, "a", i, 20)

	fn, err := core.NewFunction("f", nil, nil)
	require.NoError(t, err)
	fn.AddStage(a)

	require.NoError(t, fn.EndDefinition())
	first := fn.Snippets()
	require.NoError(t, fn.EndDefinition())
	second := fn.Snippets()
	require.Equal(t, len(first), len(second))
}

func TestFunctionParamsOrdersInputsBeforeOutputs(t *testing.T) {
	in := ir.NewTensor("input", irkind.Float32, []ir.Constant{ir.IntConst(20)})
	out := ir.NewTensor("output", irkind.Float32, []ir.Constant{ir.IntConst(20)})
	fn, err := core.NewFunction("f", []*ir.Tensor{in}, []*ir.Tensor{out})
	require.NoError(t, err)

	params := fn.Params()
	require.Equal(t, []*ir.Tensor{in, out}, params)
}

func TestNewFunctionRejectsEmptyName(t *testing.T) {
	_, err := core.NewFunction("", nil, nil)
	require.Error(t, err)
}
