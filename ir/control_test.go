package ir_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cinn-go/cinn/ir"
	"github.com/cinn-go/cinn/ir/irkind"
)

func TestNewForRequiresInt32Iterator(t *testing.T) {
	reg := newTestRegistry()
	iv := ir.NewInterval(ir.IntConst(0), ir.IntConst(10))
	iter, err := ir.NewVar(reg, "i", irkind.Float32, iv)
	require.NoError(t, err)

	body := ir.NewBlock(nil)
	_, err = ir.NewFor(int32Imm(t, 0), int32Imm(t, 1), int32Imm(t, 1), body, iter)
	require.Error(t, err)
}

func TestNewForWrapsBodyInAFreshBlock(t *testing.T) {
	// spec.md §9: For::make wraps the body in another Block even when it
	// is already a Block; the extra nesting is a required compatibility
	// quirk, not a bug.
	reg := newTestRegistry()
	iv := ir.NewInterval(ir.IntConst(0), ir.IntConst(10))
	iter, err := ir.NewVar(reg, "i", irkind.Int32, iv)
	require.NoError(t, err)

	innerBlock := ir.NewBlock([]ir.Expr{int32Imm(t, 0)})
	forStmt, err := ir.NewFor(int32Imm(t, 0), int32Imm(t, 1), int32Imm(t, 1), innerBlock, iter)
	require.NoError(t, err)

	require.Len(t, forStmt.Body.Children, 1)
	require.Same(t, innerBlock, forStmt.Body.Children[0])
	require.NotSame(t, innerBlock, forStmt.Body)
}

func TestNewIfThenElseOptionalElse(t *testing.T) {
	cond, err := ir.NewLT(int32Imm(t, 1), int32Imm(t, 2))
	require.NoError(t, err)
	ite, err := ir.NewIfThenElse(cond, int32Imm(t, 1), nil)
	require.NoError(t, err)
	require.Nil(t, ite.Else)

	ite2, err := ir.NewIfThenElse(cond, int32Imm(t, 1), int32Imm(t, 0))
	require.NoError(t, err)
	require.NotNil(t, ite2.Else)
}

func TestNewMarkAndCallOnce(t *testing.T) {
	mark := ir.NewMark("stage0")
	require.Equal(t, "stage0", mark.ID)

	once, err := ir.NewCallOnce(int32Imm(t, 1))
	require.NoError(t, err)
	require.Equal(t, ir.ScalarType(irkind.Int32), once.Type())
}
