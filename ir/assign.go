package ir

import "fmt"

// AssignOp selects which compound-assignment variant an Assign-family
// node performs.
type AssignOp uint

const (
	AssignSet AssignOp = iota
	AssignSum
	AssignSub
	AssignMul
	AssignDiv
)

func (op AssignOp) operator() string {
	switch op {
	case AssignSet:
		return "="
	case AssignSum:
		return "+="
	case AssignSub:
		return "-="
	case AssignMul:
		return "*="
	case AssignDiv:
		return "/="
	default:
		return "?="
	}
}

func (op AssignOp) tag() Tag {
	switch op {
	case AssignSet:
		return TagAssign
	case AssignSum:
		return TagSumAssign
	case AssignSub:
		return TagSubAssign
	case AssignMul:
		return TagMulAssign
	case AssignDiv:
		return TagDivAssign
	default:
		return TagInvalid
	}
}

// Assign is the common shape of Assign, SumAssign, SubAssign, MulAssign
// and DivAssign: a write of Value into Target through Op.
type Assign struct {
	base
	Op     AssignOp
	Target *Reference
	Value  Expr
}

func (n *Assign) String() string {
	return fmt.Sprintf("%s %s %s", n.Target, n.Op.operator(), n.Value)
}

func newAssign(op AssignOp, target *Reference, value Expr) (*Assign, error) {
	tag := op.tag()
	if target == nil {
		return nil, newConstructionError(tag, "Assign", "target must be a Reference")
	}
	if value == nil {
		return nil, newConstructionError(tag, target.String(), "value must be defined")
	}
	return &Assign{base: base{tag: tag, typ: VoidType}, Op: op, Target: target, Value: value}, nil
}

// Apply implements spec.md §4.1's assignment-operator rebinding rule:
// applied to a Reference, it produces the corresponding Assign-family
// IR node; applied to any other expression, it instead mutates *handle
// to point at rhs and returns nil (there is nothing to emit — the
// rebind is a host-language variable update, not an IR statement).
func Apply(op AssignOp, handle *Expr, rhs Expr) (Expr, error) {
	if handle == nil {
		return nil, newConstructionError(op.tag(), "Assign", "handle must be non-nil")
	}
	if ref, ok := (*handle).(*Reference); ok {
		return newAssign(op, ref, rhs)
	}
	*handle = rhs
	return nil, nil
}

// NewAssignStmt builds a plain `target = value` IR node directly,
// without the handle-rebind indirection of Apply — used when the
// caller already knows target is a Reference (e.g. translating a
// scheduled AST back into IR, spec.md §4.5).
func NewAssignStmt(target *Reference, value Expr) (*Assign, error) {
	return newAssign(AssignSet, target, value)
}

// NewSumAssignStmt builds a `target += value` IR node directly.
func NewSumAssignStmt(target *Reference, value Expr) (*Assign, error) {
	return newAssign(AssignSum, target, value)
}

// NewSubAssignStmt builds a `target -= value` IR node directly.
func NewSubAssignStmt(target *Reference, value Expr) (*Assign, error) {
	return newAssign(AssignSub, target, value)
}

// NewMulAssignStmt builds a `target *= value` IR node directly.
func NewMulAssignStmt(target *Reference, value Expr) (*Assign, error) {
	return newAssign(AssignMul, target, value)
}

// NewDivAssignStmt builds a `target /= value` IR node directly.
func NewDivAssignStmt(target *Reference, value Expr) (*Assign, error) {
	return newAssign(AssignDiv, target, value)
}
