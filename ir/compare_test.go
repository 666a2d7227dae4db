package ir_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cinn-go/cinn/ir"
	"github.com/cinn-go/cinn/ir/irkind"
)

func TestCompareResultIsBoolean(t *testing.T) {
	a, b := int32Imm(t, 1), int32Imm(t, 2)
	lt, err := ir.NewLT(a, b)
	require.NoError(t, err)
	require.Equal(t, ir.BoolType, lt.Type())
}

func TestComparePrimitivesDifferFails(t *testing.T) {
	a := int32Imm(t, 1)
	b := float32Imm(t, 1)
	_, err := ir.NewEQ(a, b)
	require.Error(t, err)
}

func TestCompareAllowsDifferentComposite(t *testing.T) {
	// Comparison validates operand primitives only, not the full Type
	// (unlike binary arithmetic's stricter same-Type rule) — scalar vs.
	// SIMD128 float32 still compares, since both are Float32 primitive.
	a := ir.NewConstantExpr(ir.IntConst(1), irkind.Float32)
	v, err := ir.NewVar(newTestRegistry(), "v", irkind.Float32, ir.Interval{})
	require.NoError(t, err)
	b, err := ir.NewCast(v, ir.VecType(irkind.Float32, irkind.CompositeSIMD128))
	require.NoError(t, err)
	_, err = ir.NewLT(a, b)
	require.NoError(t, err)
}

func TestLogicalOperators(t *testing.T) {
	a, b := int32Imm(t, 1), int32Imm(t, 0)
	eq, err := ir.NewEQ(a, b)
	require.NoError(t, err)
	ne, err := ir.NewNE(a, b)
	require.NoError(t, err)
	and, err := ir.NewAnd(eq, ne)
	require.NoError(t, err)
	require.Equal(t, ir.BoolType, and.Type())
	or, err := ir.NewOr(eq, ne)
	require.NoError(t, err)
	require.Equal(t, ir.BoolType, or.Type())
}
