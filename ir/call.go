package ir

import (
	"fmt"
	"strings"
)

// Call is a call site: either a reference to a Stage (matched by name
// during schedule-tree-to-IR substitution, spec.md §4.3) or a call to an
// emitted Function.
type Call struct {
	base
	Callee string
	Args   []Expr
}

// NewCall builds a Call node naming callee with the given arguments.
func NewCall(callee string, t Type, args []Expr) (*Call, error) {
	if callee == "" {
		return nil, newConstructionError(TagCall, "Call", "callee name must be non-empty")
	}
	return &Call{base: base{tag: TagCall, typ: t}, Callee: callee, Args: append([]Expr{}, args...)}, nil
}

func (n *Call) String() string {
	parts := make([]string, len(n.Args))
	for i, a := range n.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", n.Callee, strings.Join(parts, ", "))
}

// Function is the IR-level representation of an emittable C function:
// a name, its declared tensor arguments and a body (spec.md §4.6,
// §4.7's ComputeTransformedExpr result wrapped as a named unit).
type Function struct {
	base
	Name   string
	Params []*Tensor
	Body   Expr
}

// NewFunction builds a Function node. name must be non-empty and body
// must be defined.
func NewFunction(name string, params []*Tensor, body Expr) (*Function, error) {
	if name == "" {
		return nil, newConstructionError(TagFunction, "Function", "name must be non-empty")
	}
	if body == nil {
		return nil, newConstructionError(TagFunction, name, "body must be defined")
	}
	return &Function{base: base{tag: TagFunction, typ: VoidType}, Name: name, Params: append([]*Tensor{}, params...), Body: body}, nil
}

func (n *Function) String() string {
	parts := make([]string, len(n.Params))
	for i, p := range n.Params {
		parts[i] = p.String()
	}
	return fmt.Sprintf("void %s(%s) %s", n.Name, strings.Join(parts, ", "), n.Body)
}
