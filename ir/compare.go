package ir

import "fmt"

// newCompareOrLogical validates spec.md §3's invariant: "operand
// primitives equal; result is boolean."
func newCompareOrLogical(tag Tag, a, b Expr) (*BinaryExpr, error) {
	if a == nil || b == nil {
		return nil, newConstructionError(tag, tag.String(), "operand is nil")
	}
	if a.Type().Primitive != b.Type().Primitive {
		return nil, newConstructionError(tag, fmt.Sprintf("%s, %s", a, b),
			fmt.Sprintf("operand primitives differ: %s vs %s", a.Type().Primitive, b.Type().Primitive))
	}
	return &BinaryExpr{base: base{tag: tag, typ: BoolType}, A: a, B: b}, nil
}

// NewEQ builds an equality comparison.
func NewEQ(a, b Expr) (*BinaryExpr, error) { return newCompareOrLogical(TagEQ, a, b) }

// NewNE builds an inequality comparison.
func NewNE(a, b Expr) (*BinaryExpr, error) { return newCompareOrLogical(TagNE, a, b) }

// NewLT builds a less-than comparison.
func NewLT(a, b Expr) (*BinaryExpr, error) { return newCompareOrLogical(TagLT, a, b) }

// NewLE builds a less-than-or-equal comparison.
func NewLE(a, b Expr) (*BinaryExpr, error) { return newCompareOrLogical(TagLE, a, b) }

// NewGT builds a greater-than comparison.
func NewGT(a, b Expr) (*BinaryExpr, error) { return newCompareOrLogical(TagGT, a, b) }

// NewGE builds a greater-than-or-equal comparison.
func NewGE(a, b Expr) (*BinaryExpr, error) { return newCompareOrLogical(TagGE, a, b) }

// NewAnd builds a logical AND. Both operands must already be boolean.
func NewAnd(a, b Expr) (*BinaryExpr, error) { return newCompareOrLogical(TagAnd, a, b) }

// NewOr builds a logical OR. Both operands must already be boolean.
func NewOr(a, b Expr) (*BinaryExpr, error) { return newCompareOrLogical(TagOr, a, b) }
