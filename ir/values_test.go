package ir_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cinn-go/cinn/ir"
	"github.com/cinn-go/cinn/ir/irkind"
)

// testRegistry is a minimal ir.NameRegistry for tests that do not need
// cinn.Context's full process-wide bookkeeping.
type testRegistry struct {
	seen map[string]bool
}

func newTestRegistry() *testRegistry {
	return &testRegistry{seen: map[string]bool{}}
}

func (r *testRegistry) Register(name string) error {
	if r.seen[name] {
		return &ir.DuplicateNameError{Requested: name}
	}
	r.seen[name] = true
	return nil
}

func TestNewIntImmRejectsFloatKind(t *testing.T) {
	_, err := ir.NewIntImm(1, irkind.Float32)
	require.Error(t, err)
}

func TestNewFloatImmRejectsIntKind(t *testing.T) {
	_, err := ir.NewFloatImm(1, irkind.Int32)
	require.Error(t, err)
}

func TestNewVarRegistersNameOnce(t *testing.T) {
	reg := newTestRegistry()
	iv := ir.NewInterval(ir.IntConst(0), ir.IntConst(10))
	v1, err := ir.NewVar(reg, "i", irkind.Int32, iv)
	require.NoError(t, err)
	require.Equal(t, "i", v1.String())

	_, err = ir.NewVar(reg, "i", irkind.Int32, iv)
	require.Error(t, err)
	require.IsType(t, &ir.DuplicateNameError{}, err)
}

func TestNewTensorString(t *testing.T) {
	tensor := ir.NewTensor("x", irkind.Float32, []ir.Constant{ir.IntConst(20), ir.IntConst(30)})
	require.Equal(t, 2, tensor.Rank())
	require.Equal(t, "x[20,30]", tensor.String())
}

func TestNewArray(t *testing.T) {
	arr := ir.NewArray("weights", irkind.Float32, []ir.Constant{ir.IntConst(1), ir.IntConst(2)})
	require.Equal(t, "weights", arr.String())
	require.Equal(t, ir.TagArray, arr.Tag())
}

func TestConstantEquality(t *testing.T) {
	require.True(t, ir.IntConst(3).Equal(ir.IntConst(3)))
	require.False(t, ir.IntConst(3).Equal(ir.IntConst(4)))
	require.True(t, ir.SymConst("M").Equal(ir.SymConst("M")))
	require.False(t, ir.SymConst("M").Equal(ir.IntConst(3)))
}
