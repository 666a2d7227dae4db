package ir

import (
	"fmt"

	"github.com/cinn-go/cinn/ir/irkind"
)

// SIMDOpr is a vector instruction: an arithmetic reduction, a
// load/store, or a horizontal reduce. spec.md §3's invariant: width ∈
// {4, 8}; Store's source must be composite SIMD matching width; Load's
// address is a scalar pointer expression.
type SIMDOpr struct {
	base
	Op       SIMDOp
	Width    int
	Operands []Expr
}

// NewSIMDOpr builds a SIMDOpr node. width must be 4 or 8
// (irkind.CompositeFromWidth enforces the closed set of supported
// lane counts).
func NewSIMDOpr(op SIMDOp, width int, elemKind irkind.Kind, operands []Expr) (*SIMDOpr, error) {
	composite, ok := irkind.CompositeFromWidth(width)
	if !ok {
		return nil, newConstructionError(TagSIMDOpr, op.String(), fmt.Sprintf("vector width %d is not in {4, 8}", width))
	}
	for i, operand := range operands {
		if operand == nil {
			return nil, newConstructionError(TagSIMDOpr, op.String(), fmt.Sprintf("operand %d is nil", i))
		}
	}
	if err := checkSIMDShape(op, width, elemKind, operands); err != nil {
		return nil, err
	}
	return &SIMDOpr{
		base:     base{tag: TagSIMDOpr, typ: VecType(elemKind, composite)},
		Op:       op,
		Width:    width,
		Operands: operands,
	}, nil
}

// checkSIMDShape enforces the Store/Load-specific shape invariants
// spec.md §3 names: Store's source is composite SIMD matching width;
// Load's address is a scalar (non-composite) pointer expression.
func checkSIMDShape(op SIMDOp, width int, elemKind irkind.Kind, operands []Expr) error {
	switch op {
	case SIMDStore:
		if len(operands) != 2 {
			return newConstructionError(TagSIMDOpr, op.String(), "Store takes (address, value)")
		}
		value := operands[1]
		if value.Type().Lanes() != width {
			return newConstructionError(TagSIMDOpr, op.String(), fmt.Sprintf("Store source has %d lanes, want %d", value.Type().Lanes(), width))
		}
	case SIMDLoad:
		if len(operands) != 1 {
			return newConstructionError(TagSIMDOpr, op.String(), "Load takes (address)")
		}
		if operands[0].Type().Composite != irkind.CompositePrimitive {
			return newConstructionError(TagSIMDOpr, op.String(), "Load address must be scalar")
		}
	default:
		for i, o := range operands {
			if o.Type().Lanes() != width {
				return newConstructionError(TagSIMDOpr, op.String(), fmt.Sprintf("operand %d has %d lanes, want %d", i, o.Type().Lanes(), width))
			}
		}
	}
	return nil
}

func (n *SIMDOpr) String() string {
	parts := make([]string, len(n.Operands))
	for i, o := range n.Operands {
		parts[i] = o.String()
	}
	s := fmt.Sprintf("simd%d.%s(", n.Width, n.Op)
	for i, p := range parts {
		if i > 0 {
			s += ", "
		}
		s += p
	}
	return s + ")"
}

// Module packages a set of Functions (and, indirectly, their data
// declarations) as a single compilation unit, emitted as one header or
// source file (spec.md §4.6, §4.7).
type Module struct {
	base
	Name      string
	Functions []*Function
}

// NewModule builds a Module node from an ordered list of Functions.
func NewModule(name string, fns []*Function) (*Module, error) {
	if name == "" {
		return nil, newConstructionError(TagModule, "Module", "name must be non-empty")
	}
	return &Module{base: base{tag: TagModule, typ: VoidType}, Name: name, Functions: append([]*Function{}, fns...)}, nil
}

func (n *Module) String() string {
	s := fmt.Sprintf("module %s {\n", n.Name)
	for _, fn := range n.Functions {
		s += "  " + fn.String() + "\n"
	}
	return s + "}"
}
