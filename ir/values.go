package ir

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/cinn-go/cinn/ir/irkind"
)

// NameRegistry enforces the global name uniqueness spec.md §3 requires
// for Vars ("globally unique name; uniqueness enforced by a process-wide
// name registry") — implemented by cinn.Context, threaded in explicitly
// rather than held as a package-level singleton (SPEC_FULL.md §9).
type NameRegistry interface {
	// Register claims name. If name is already registered, it returns a
	// *DuplicateNameError naming the requested name.
	Register(name string) error
}

// DuplicateNameError reports a duplicate stage or var name by the
// requested name only; where the name was first registered is not
// recorded.
type DuplicateNameError struct {
	Requested string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("cinn: name %q is already registered", e.Requested)
}

// IntImm is an integer literal of a given primitive kind.
type IntImm struct {
	base
	Value int64
}

// NewIntImm builds an int literal node. k must be an integer kind.
func NewIntImm(v int64, k irkind.Kind) (*IntImm, error) {
	if !irkind.IsIntegerKind(k) {
		return nil, newConstructionError(TagIntImm, fmt.Sprintf("IntImm(%d)", v), fmt.Sprintf("kind %s is not an integer kind", k))
	}
	return &IntImm{base: base{tag: TagIntImm, typ: ScalarType(k)}, Value: v}, nil
}

func (n *IntImm) String() string { return fmt.Sprintf("%d", n.Value) }

// FloatImm is a floating-point literal.
type FloatImm struct {
	base
	Value float64
}

// NewFloatImm builds a float literal node. k must be a float kind.
func NewFloatImm(v float64, k irkind.Kind) (*FloatImm, error) {
	if !irkind.IsFloatKind(k) {
		return nil, newConstructionError(TagFloatImm, fmt.Sprintf("FloatImm(%v)", v), fmt.Sprintf("kind %s is not a float kind", k))
	}
	return &FloatImm{base: base{tag: TagFloatImm, typ: ScalarType(k)}, Value: v}, nil
}

func (n *FloatImm) String() string { return fmt.Sprintf("%g", n.Value) }

// ConstantExpr wraps a Constant (literal or named symbol) as an
// expression node — the TagConstant tag of spec.md §3.
type ConstantExpr struct {
	base
	Val Constant
}

// NewConstantExpr builds a Constant expression node of kind k.
func NewConstantExpr(c Constant, k irkind.Kind) *ConstantExpr {
	return &ConstantExpr{base: base{tag: TagConstant, typ: ScalarType(k)}, Val: c}
}

func (n *ConstantExpr) String() string { return n.Val.String() }

// Var is a named variable with a bounded interval, per spec.md §3: "Var:
// globally unique name; uniqueness enforced by a process-wide name
// registry; carries an Interval."
type Var struct {
	base
	Name     string
	Interval Interval
}

// NewVar registers name in reg and returns a Var of kind k bounded by iv.
// For's iterator must be int32 (spec.md §3's For invariant); other Vars
// may carry any primitive kind.
func NewVar(reg NameRegistry, name string, k irkind.Kind, iv Interval) (*Var, error) {
	if err := reg.Register(name); err != nil {
		return nil, err
	}
	return &Var{base: base{tag: TagVar, typ: ScalarType(k)}, Name: name, Interval: iv}, nil
}

func (n *Var) String() string { return n.Name }

// Tensor carries a name, primitive type and shape, per spec.md §3:
// "Tensor: carries name, primitive type, shape (list of Constants)."
type Tensor struct {
	base
	Name  string
	Shape []Constant

	// Buffer is the storage this tensor is materialised into; nil until
	// the emitter's data-section builder (emit/data.go) or AliasBuffer
	// binds it (SPEC_FULL.md §3's
	// supplemented alias-analysis field, from original_source/cinn/ir/ir.h).
	Buffer *BufferOpr
}

// NewTensor builds a tensor of the given primitive kind and shape.
func NewTensor(name string, k irkind.Kind, shape []Constant) *Tensor {
	return &Tensor{base: base{tag: TagTensor, typ: ScalarType(k)}, Name: name, Shape: append([]Constant{}, shape...)}
}

// AliasBuffer binds t to share storage with into instead of being
// given its own malloc'd buffer — e.g. a view over an already-live
// temporary. into must already carry a Buffer (bound by an earlier
// AliasBuffer call or by the data-section builder that allocated it).
func (t *Tensor) AliasBuffer(into *Tensor) error {
	if into.Buffer == nil {
		return errors.Errorf("ir: cannot alias %s's buffer, %s has none yet", t.Name, into.Name)
	}
	t.Buffer = into.Buffer
	return nil
}

// Rank returns the tensor's number of dimensions.
func (n *Tensor) Rank() int { return len(n.Shape) }

func (n *Tensor) String() string {
	dims := make([]string, len(n.Shape))
	for i, d := range n.Shape {
		dims[i] = d.String()
	}
	return fmt.Sprintf("%s[%s]", n.Name, strings.Join(dims, ","))
}

// Array is a fixed, literal array of constant values of a single kind —
// used for weight buffers emitted as "T name[] = { ... }" (spec.md §6).
type Array struct {
	base
	Name   string
	Values []Constant
}

// NewArray builds an array literal node.
func NewArray(name string, k irkind.Kind, values []Constant) *Array {
	return &Array{base: base{tag: TagArray, typ: ScalarType(k)}, Name: name, Values: append([]Constant{}, values...)}
}

func (n *Array) String() string { return n.Name }
