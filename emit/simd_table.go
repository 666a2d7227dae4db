package emit

import "github.com/cinn-go/cinn/ir"

// simdKey identifies one row of the intrinsic table: a vector width (4
// or 8 float32 lanes, CINN's simd128/simd256 composite types) and an
// SIMDOpr opcode.
type simdKey struct {
	width int
	op    ir.SIMDOp
}

// simdIntrinsics maps (width, opcode) to the AVX/AVX2 intrinsic name
// spec.md §6's external interface layout names generically ("a
// target-specific table"); this fills it in for the two composite
// widths CINN's type model supports; SPEC_FULL.md §4.6 names this the
// concrete filling-in the distillation left abstract.
var simdIntrinsics = map[simdKey]string{
	{4, ir.SIMDAdd}:       "_mm_add_ps",
	{4, ir.SIMDSub}:       "_mm_sub_ps",
	{4, ir.SIMDMul}:       "_mm_mul_ps",
	{4, ir.SIMDDiv}:       "_mm_div_ps",
	{4, ir.SIMDMin}:       "_mm_min_ps",
	{4, ir.SIMDMax}:       "_mm_max_ps",
	{4, ir.SIMDLoad}:      "_mm_loadu_ps",
	{4, ir.SIMDStore}:     "_mm_storeu_ps",
	{4, ir.SIMDReduceAdd}: "cinn_mm_reduce_add_ps",

	{8, ir.SIMDAdd}:       "_mm256_add_ps",
	{8, ir.SIMDSub}:       "_mm256_sub_ps",
	{8, ir.SIMDMul}:       "_mm256_mul_ps",
	{8, ir.SIMDDiv}:       "_mm256_div_ps",
	{8, ir.SIMDMin}:       "_mm256_min_ps",
	{8, ir.SIMDMax}:       "_mm256_max_ps",
	{8, ir.SIMDLoad}:      "_mm256_loadu_ps",
	{8, ir.SIMDStore}:     "_mm256_storeu_ps",
	{8, ir.SIMDReduceAdd}: "cinn_mm256_reduce_add_ps",
}

// simdIntrinsic looks up the intrinsic name for a SIMDOpr node,
// reporting ok=false for a combination the table doesn't cover (an
// unsupported width, already rejected by ir.NewSIMDOpr, so this only
// guards against a future widened opcode set).
func simdIntrinsic(width int, op ir.SIMDOp) (string, bool) {
	name, ok := simdIntrinsics[simdKey{width, op}]
	return name, ok
}
