package ir

import "fmt"

// BinaryExpr is the common shape of every binary arithmetic, comparison
// and logical node.
type BinaryExpr struct {
	base
	A, B Expr
}

func (n *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", n.A, n.Tag(), n.B)
}

// UnaryExpr is the common shape of a single-operand node (Minus).
type UnaryExpr struct {
	base
	X Expr
}

func (n *UnaryExpr) String() string {
	return fmt.Sprintf("%s(%s)", n.Tag(), n.X)
}

func checkArithOperand(tag Tag, which string, e Expr) error {
	if e == nil {
		return newConstructionError(tag, string(tag.String()), which+" operand is nil")
	}
	if e.Type().IsUnknown() {
		return newConstructionError(tag, e.String(), which+" operand has unknown primitive type")
	}
	return nil
}

// newBinaryArith validates spec.md §3's binary-arithmetic invariant:
// "both sides defined, same primitive type, not unk; result primitive =
// operand primitive", and returns the built node.
func newBinaryArith(tag Tag, a, b Expr) (*BinaryExpr, error) {
	if err := checkArithOperand(tag, "left", a); err != nil {
		return nil, err
	}
	if err := checkArithOperand(tag, "right", b); err != nil {
		return nil, err
	}
	if !a.Type().Equal(b.Type()) {
		return nil, newConstructionError(tag, fmt.Sprintf("%s, %s", a, b),
			fmt.Sprintf("operand types differ: %s vs %s", a.Type(), b.Type()))
	}
	return &BinaryExpr{base: base{tag: tag, typ: a.Type()}, A: a, B: b}, nil
}

// NewAdd builds an Add node.
func NewAdd(a, b Expr) (*BinaryExpr, error) { return newBinaryArith(TagAdd, a, b) }

// NewSub builds a Sub node.
func NewSub(a, b Expr) (*BinaryExpr, error) { return newBinaryArith(TagSub, a, b) }

// NewMul builds a Mul node.
func NewMul(a, b Expr) (*BinaryExpr, error) { return newBinaryArith(TagMul, a, b) }

// NewDiv builds a Div node.
func NewDiv(a, b Expr) (*BinaryExpr, error) { return newBinaryArith(TagDiv, a, b) }

// NewMod builds a Mod node.
func NewMod(a, b Expr) (*BinaryExpr, error) { return newBinaryArith(TagMod, a, b) }

// NewExp builds an Exp (power) node.
func NewExp(a, b Expr) (*BinaryExpr, error) { return newBinaryArith(TagExp, a, b) }

// NewMin builds a Min node.
func NewMin(a, b Expr) (*BinaryExpr, error) { return newBinaryArith(TagMin, a, b) }

// NewMax builds a Max node.
func NewMax(a, b Expr) (*BinaryExpr, error) { return newBinaryArith(TagMax, a, b) }

// NewMinus builds a unary negation node.
func NewMinus(x Expr) (*UnaryExpr, error) {
	if err := checkArithOperand(TagMinus, "operand", x); err != nil {
		return nil, err
	}
	return &UnaryExpr{base: base{tag: TagMinus, typ: x.Type()}, X: x}, nil
}
