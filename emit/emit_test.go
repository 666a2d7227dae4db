package emit_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cinn-go/cinn/emit"
	"github.com/cinn-go/cinn/ir"
	"github.com/cinn-go/cinn/ir/irkind"
)

type testReg struct{ seen map[string]bool }

func newTestReg() *testReg { return &testReg{seen: map[string]bool{}} }

func (r *testReg) Register(name string) error {
	if r.seen[name] {
		return &ir.DuplicateNameError{Requested: name}
	}
	r.seen[name] = true
	return nil
}

func mustVar(t *testing.T, reg ir.NameRegistry, name string, n int64) *ir.Var {
	t.Helper()
	v, err := ir.NewVar(reg, name, irkind.Int32, ir.NewInterval(ir.IntConst(0), ir.IntConst(n)))
	require.NoError(t, err)
	return v
}

func buildCopyFunction(t *testing.T) *ir.Function {
	t.Helper()
	reg := newTestReg()
	i := mustVar(t, reg, "i", 10)
	src := ir.NewTensor("src", irkind.Float32, []ir.Constant{ir.IntConst(10)})
	dst := ir.NewTensor("dst", irkind.Float32, []ir.Constant{ir.IntConst(10)})
	srcRef, err := ir.NewReference(src, i)
	require.NoError(t, err)
	dstRef, err := ir.NewReference(dst, i)
	require.NoError(t, err)
	assign, err := ir.NewAssignStmt(dstRef, srcRef)
	require.NoError(t, err)
	cond, err := ir.NewLT(i, ir.NewConstantExpr(ir.IntConst(10), irkind.Int32))
	require.NoError(t, err)
	body, err := ir.NewFor(ir.NewConstantExpr(ir.IntConst(0), irkind.Int32), cond, ir.NewConstantExpr(ir.IntConst(1), irkind.Int32), assign, i)
	require.NoError(t, err)
	fn, err := ir.NewFunction("copy", []*ir.Tensor{src, dst}, body)
	require.NoError(t, err)
	return fn
}

func TestEmitFunctionRendersSignatureAndForLoop(t *testing.T) {
	fn := buildCopyFunction(t)
	var sb strings.Builder
	p := emit.NewPrinter(&sb, "copy")
	require.NoError(t, p.EmitFunction(fn))

	out := sb.String()
	require.Contains(t, out, "void copy(cinn_float32_t* src, cinn_float32_t* dst) {")
	require.Contains(t, out, "for (int i = 0; ")
	require.Contains(t, out, "dst[i] = src[i];")
}

func TestEmitModuleHeaderModeHasIncludeGuardAndNoBody(t *testing.T) {
	fn := buildCopyFunction(t)
	mod, err := ir.NewModule("example", []*ir.Function{fn})
	require.NoError(t, err)

	var sb strings.Builder
	p := emit.NewPrinter(&sb, "example")
	require.NoError(t, p.EmitModule(emit.Header, mod, nil))

	out := sb.String()
	require.Contains(t, out, "#ifndef CINN_EXAMPLE_")
	require.Contains(t, out, "#define CINN_EXAMPLE_")
	require.Contains(t, out, "void copy(cinn_float32_t* src, cinn_float32_t* dst);")
	require.NotContains(t, out, "dst[i] = src[i];")
	require.Contains(t, out, "#endif  // CINN_EXAMPLE_")
}

func TestEmitModuleSourceModeOmitsSIMDIncludeWhenUnused(t *testing.T) {
	fn := buildCopyFunction(t)
	mod, err := ir.NewModule("example", []*ir.Function{fn})
	require.NoError(t, err)

	var sb strings.Builder
	p := emit.NewPrinter(&sb, "example")
	require.NoError(t, p.EmitModule(emit.Source, mod, nil))

	out := sb.String()
	require.Contains(t, out, "#include <stdlib.h>")
	require.NotContains(t, out, "immintrin.h")
}

func TestEmitModuleSourceModeIncludesSIMDHeaderWhenUsed(t *testing.T) {
	reg := newTestReg()
	a := mustVar(t, reg, "a", 4)
	addr, err := ir.NewReference(ir.NewTensor("buf", irkind.Float32, []ir.Constant{ir.IntConst(4)}), a)
	require.NoError(t, err)
	load, err := ir.NewSIMDOpr(ir.SIMDLoad, 4, irkind.Float32, []ir.Expr{addr})
	require.NoError(t, err)
	let, err := ir.NewLet("v", load)
	require.NoError(t, err)
	fn, err := ir.NewFunction("loadit", []*ir.Tensor{}, ir.NewBlock([]ir.Expr{let}))
	require.NoError(t, err)
	mod, err := ir.NewModule("simdmod", []*ir.Function{fn})
	require.NoError(t, err)

	var sb strings.Builder
	p := emit.NewPrinter(&sb, "simdmod")
	require.NoError(t, p.EmitModule(emit.Source, mod, nil))
	require.Contains(t, sb.String(), "#include <immintrin.h>")
}

func TestEmitDataSectionRendersArrayAndBufferAlloc(t *testing.T) {
	weights := ir.NewArray("w", irkind.Float32, []ir.Constant{ir.IntConst(1), ir.IntConst(2)})
	size := ir.NewConstantExpr(ir.IntConst(40), irkind.Int32)
	buf, err := ir.NewBufferOpr("tmp", ir.BufferAlloc, ir.ScalarType(irkind.Float32), size)
	require.NoError(t, err)

	fn, err := ir.NewFunction("noop", nil, ir.NewBlock(nil))
	require.NoError(t, err)
	mod, err := ir.NewModule("data", []*ir.Function{fn})
	require.NoError(t, err)

	var sb strings.Builder
	p := emit.NewPrinter(&sb, "data")
	require.NoError(t, p.EmitModule(emit.Source, mod, []emit.Data{{Array: weights}, {Buffer: buf}}))

	out := sb.String()
	require.Contains(t, out, "cinn_float32_t w[] = { 1, 2 };")
	require.Contains(t, out, "cinn_float32_t* tmp = (cinn_float32_t*) malloc(40);")
}

func TestEmitLetHoistsToBlockStart(t *testing.T) {
	reg := newTestReg()
	x := mustVar(t, reg, "x", 1)
	let, err := ir.NewLet("a", x)
	require.NoError(t, err)
	noop, err := ir.NewCallOnce(x)
	require.NoError(t, err)
	block := ir.NewBlock([]ir.Expr{noop, let})
	fn, err := ir.NewFunction("hoist", nil, block)
	require.NoError(t, err)

	var sb strings.Builder
	p := emit.NewPrinter(&sb, "hoist")
	require.NoError(t, p.EmitFunction(fn))

	out := sb.String()
	letIdx := strings.Index(out, "cinn_int32_t a = x;")
	require.GreaterOrEqual(t, letIdx, 0)
	require.Less(t, letIdx, strings.Index(out, "  x;\n"))
}

func vecOperand(t *testing.T, name string, width int) *ir.Cast {
	t.Helper()
	composite, ok := irkind.CompositeFromWidth(width)
	require.True(t, ok)
	reg := newTestReg()
	v, err := ir.NewVar(reg, name, irkind.Float32, ir.Interval{})
	require.NoError(t, err)
	c, err := ir.NewCast(v, ir.VecType(irkind.Float32, composite))
	require.NoError(t, err)
	return c
}

func TestSIMDIntrinsicTableCoversBothWidths(t *testing.T) {
	for _, width := range []int{4, 8} {
		for _, op := range []ir.SIMDOp{ir.SIMDAdd, ir.SIMDSub, ir.SIMDMul, ir.SIMDDiv, ir.SIMDMin, ir.SIMDMax, ir.SIMDLoad, ir.SIMDStore, ir.SIMDReduceAdd} {
			reg := newTestReg()
			addrVar := mustVar(t, reg, "lane", 1)
			addr, err := ir.NewReference(ir.NewTensor("buf", irkind.Float32, []ir.Constant{ir.IntConst(8)}), addrVar)
			require.NoError(t, err)

			var node *ir.SIMDOpr
			switch op {
			case ir.SIMDLoad:
				node, err = ir.NewSIMDOpr(op, width, irkind.Float32, []ir.Expr{addr})
			case ir.SIMDStore:
				vec := vecOperand(t, "v", width)
				node, err = ir.NewSIMDOpr(op, width, irkind.Float32, []ir.Expr{addr, vec})
			default:
				a := vecOperand(t, "a", width)
				b := vecOperand(t, "b", width)
				node, err = ir.NewSIMDOpr(op, width, irkind.Float32, []ir.Expr{a, b})
			}
			require.NoError(t, err)

			let, err := ir.NewLet("r", node)
			require.NoError(t, err)
			fn, err := ir.NewFunction("k", nil, ir.NewBlock([]ir.Expr{let}))
			require.NoError(t, err)

			var sb strings.Builder
			p := emit.NewPrinter(&sb, "x")
			require.NoError(t, p.EmitFunction(fn))
			require.NotEmpty(t, sb.String())
		}
	}
}
