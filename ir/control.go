package ir

import (
	"fmt"
	"strings"

	"github.com/cinn-go/cinn/ir/irkind"
)

// ForStmt is a counted loop: `for (init; cond; iter += inc) body`.
type ForStmt struct {
	base
	Init, Cond, Inc Expr
	Body            *BlockStmt
	Iter            *Var
}

// NewFor validates spec.md §3's For invariant ("iter_init, iter_cond,
// iter_inc, body all defined; iterator is a Var of int32") and builds the
// node.
//
// spec.md §9 ("For::make constructs the body twice in one path") is
// preserved deliberately: body is always wrapped in a fresh Block, even
// when it is already a *BlockStmt, so the result is Block([body]) rather
// than body itself. Downstream fixtures depend on this extra nesting.
func NewFor(init, cond, inc Expr, body Expr, iter *Var) (*ForStmt, error) {
	subject := "For"
	if init == nil || cond == nil || inc == nil || body == nil {
		return nil, newConstructionError(TagFor, subject, "iter_init, iter_cond, iter_inc and body must all be defined")
	}
	if iter == nil {
		return nil, newConstructionError(TagFor, subject, "iterator must be defined")
	}
	if iter.Type().Primitive != irkind.Int32 {
		return nil, newConstructionError(TagFor, iter.String(), fmt.Sprintf("iterator must be int32, got %s", iter.Type().Primitive))
	}
	wrapped := NewBlock([]Expr{body})
	return &ForStmt{base: base{tag: TagFor, typ: VoidType}, Init: init, Cond: cond, Inc: inc, Body: wrapped, Iter: iter}, nil
}

func (n *ForStmt) String() string {
	return fmt.Sprintf("for (%s = %s; %s; %s += %s) %s", n.Iter, n.Init, n.Cond, n.Iter, n.Inc, n.Body)
}

// IfThenElseStmt is a conditional with an optional else branch.
type IfThenElseStmt struct {
	base
	Cond       Expr
	Then, Else Expr
}

// NewIfThenElse builds a conditional node. els may be nil.
func NewIfThenElse(cond, then, els Expr) (*IfThenElseStmt, error) {
	if cond == nil || then == nil {
		return nil, newConstructionError(TagIfThenElse, "IfThenElse", "cond and then must be defined")
	}
	return &IfThenElseStmt{base: base{tag: TagIfThenElse, typ: VoidType}, Cond: cond, Then: then, Else: els}, nil
}

func (n *IfThenElseStmt) String() string {
	if n.Else == nil {
		return fmt.Sprintf("if (%s) %s", n.Cond, n.Then)
	}
	return fmt.Sprintf("if (%s) %s else %s", n.Cond, n.Then, n.Else)
}

// BlockStmt is a sequence of statements executed in order.
type BlockStmt struct {
	base
	Children []Expr
}

// NewBlock builds a Block node from an ordered list of children.
func NewBlock(children []Expr) *BlockStmt {
	return &BlockStmt{base: base{tag: TagBlock, typ: VoidType}, Children: append([]Expr{}, children...)}
}

func (n *BlockStmt) String() string {
	parts := make([]string, len(n.Children))
	for i, c := range n.Children {
		parts[i] = c.String()
	}
	return "{ " + strings.Join(parts, "; ") + " }"
}

// MarkStmt is a named marker left in the tree by the scheduler
// translation (spec.md §4.5's mark(id, child) -> Block([Mark(id), child])).
type MarkStmt struct {
	base
	ID string
}

// NewMark builds a marker node.
func NewMark(id string) *MarkStmt {
	return &MarkStmt{base: base{tag: TagMark, typ: VoidType}, ID: id}
}

func (n *MarkStmt) String() string { return fmt.Sprintf("mark(%s)", n.ID) }

// CallOnceExpr wraps an expression that must only be evaluated once even
// if referenced from multiple places in the tree (e.g. a shared
// sub-expression hoisted by the scheduler).
type CallOnceExpr struct {
	base
	X Expr
}

// NewCallOnce builds a CallOnce node.
func NewCallOnce(x Expr) (*CallOnceExpr, error) {
	if x == nil {
		return nil, newConstructionError(TagCallOnce, "CallOnce", "operand must be defined")
	}
	return &CallOnceExpr{base: base{tag: TagCallOnce, typ: x.Type()}, X: x}, nil
}

func (n *CallOnceExpr) String() string { return fmt.Sprintf("call_once(%s)", n.X) }
