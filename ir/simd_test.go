package ir_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cinn-go/cinn/ir"
	"github.com/cinn-go/cinn/ir/irkind"
)

// vecVar manufactures a composite-typed expression for SIMD tests: Var
// only ever carries a scalar type (spec.md §3), so a vector-typed
// operand is built by casting a scalar var up to the target width.
func vecVar(t *testing.T, name string, width int) *ir.Cast {
	t.Helper()
	composite, ok := irkind.CompositeFromWidth(width)
	require.True(t, ok)
	v, err := ir.NewVar(newTestRegistry(), name, irkind.Float32, ir.Interval{})
	require.NoError(t, err)
	c, err := ir.NewCast(v, ir.VecType(irkind.Float32, composite))
	require.NoError(t, err)
	return c
}

func TestNewSIMDOprRejectsBadWidth(t *testing.T) {
	a := vecVar(t, "a", 4)
	b := vecVar(t, "b", 4)
	_, err := ir.NewSIMDOpr(ir.SIMDAdd, 3, irkind.Float32, []ir.Expr{a, b})
	require.Error(t, err)
}

func TestNewSIMDOprAddHasVectorType(t *testing.T) {
	a := vecVar(t, "a", 4)
	b := vecVar(t, "b", 4)
	add, err := ir.NewSIMDOpr(ir.SIMDAdd, 4, irkind.Float32, []ir.Expr{a, b})
	require.NoError(t, err)
	require.Equal(t, 4, add.Type().Lanes())
}

func TestNewSIMDOprStoreRequiresMatchingWidth(t *testing.T) {
	addr, err := ir.NewVar(newTestRegistry(), "addr", irkind.Float32, ir.Interval{})
	require.NoError(t, err)
	scalarValue := int32Imm(t, 1)
	_, err = ir.NewSIMDOpr(ir.SIMDStore, 4, irkind.Float32, []ir.Expr{addr, scalarValue})
	require.Error(t, err)
}

func TestNewSIMDOprLoadRequiresScalarAddress(t *testing.T) {
	vecAddr, err := ir.NewSIMDOpr(ir.SIMDAdd, 4, irkind.Float32, []ir.Expr{vecVar(t, "a", 4), vecVar(t, "b", 4)})
	require.NoError(t, err)
	_, err = ir.NewSIMDOpr(ir.SIMDLoad, 4, irkind.Float32, []ir.Expr{vecAddr})
	require.Error(t, err)
}

func TestNewModule(t *testing.T) {
	body, err := ir.NewAssignStmt(mustReference(t), int32Imm(t, 1))
	require.NoError(t, err)
	fn, err := ir.NewFunction("kernel", nil, body)
	require.NoError(t, err)
	mod, err := ir.NewModule("m", []*ir.Function{fn})
	require.NoError(t, err)
	require.Len(t, mod.Functions, 1)
}

func mustReference(t *testing.T) *ir.Reference {
	t.Helper()
	tensor := ir.NewTensor("out", irkind.Int32, []ir.Constant{ir.IntConst(10)})
	ref, err := ir.NewReference(tensor, int32Imm(t, 0))
	require.NoError(t, err)
	return ref
}
