package ir

import "fmt"

// Reference is an indexed access into a Tensor (or another addressable
// node), built incrementally by subscripting (spec.md §4.1): appending
// an index to an existing Reference extends its index list in place
// rather than wrapping it in a new node. Once the index count reaches
// the target's rank, the Reference is "complete" and core.domain.go
// synthesises its polyhedral iteration domain (§4.2) by walking it;
// below rank it is partial and carries no domain. The node itself
// stays free of any poly dependency, matching the leaves-first
// layering of SPEC_FULL.md §2 (ir is more primitive than poly).
type Reference struct {
	base
	Target  Expr
	Indices []Expr
}

// NewReference builds a Reference with a single initial index. Further
// indices are appended with Subscript, matching the incremental
// construction the teacher's subscript operators perform.
func NewReference(target Expr, index Expr) (*Reference, error) {
	if target == nil {
		return nil, newConstructionError(TagReference, "Reference", "target must be defined")
	}
	if index == nil || index.Type().IsUnknown() {
		return nil, newConstructionError(TagReference, target.String(), "iterator expression is undefined or unk")
	}
	return &Reference{base: base{tag: TagReference, typ: target.Type()}, Target: target, Indices: []Expr{index}}, nil
}

// Subscript appends index to the Reference's index list, extending it
// in place rather than wrapping (spec.md §4.1). It returns the same
// Reference, mutated, as the teacher's corpus does for fluent chained
// subscripting (e.g. `a[i][j]`).
func (n *Reference) Subscript(index Expr) (*Reference, error) {
	if index == nil || index.Type().IsUnknown() {
		return nil, newConstructionError(TagReference, n.String(), "iterator expression is undefined or unk")
	}
	n.Indices = append(n.Indices, index)
	return n, nil
}

// TargetRank reports the rank of the Reference's target, or -1 if the
// target is not a rank-bearing node.
func (n *Reference) TargetRank() int {
	switch t := n.Target.(type) {
	case *Tensor:
		return t.Rank()
	default:
		return -1
	}
}

// IsComplete reports whether the index count has reached the target's
// rank (spec.md §4.1): only a complete Reference gets a synthesised
// domain.
func (n *Reference) IsComplete() bool {
	rank := n.TargetRank()
	return rank >= 0 && len(n.Indices) == rank
}

func (n *Reference) String() string {
	parts := make([]string, len(n.Indices))
	for i, idx := range n.Indices {
		parts[i] = idx.String()
	}
	s := parts[0]
	for _, p := range parts[1:] {
		s += ", " + p
	}
	return fmt.Sprintf("%s[%s]", targetName(n.Target), s)
}

// targetName renders a Reference's target by its bare name rather than
// its full String(), so a[i, j] doesn't nest the tensor's own shape
// annotation (Tensor.String() already prints "name[dims]").
func targetName(target Expr) string {
	switch t := target.(type) {
	case *Tensor:
		return t.Name
	case *Array:
		return t.Name
	default:
		return target.String()
	}
}

// Allocate reserves storage for a Tensor-shaped value, independent of
// the BufferOpr that later emits the malloc/free calls; it marks the
// point in the IR where a temporary's lifetime begins.
type Allocate struct {
	base
	Name  string
	Shape []Constant
}

// NewAllocate builds an Allocate node naming a fresh temporary of the
// given kind and shape.
func NewAllocate(name string, t Type, shape []Constant) *Allocate {
	return &Allocate{base: base{tag: TagAllocate, typ: t}, Name: name, Shape: append([]Constant{}, shape...)}
}

func (n *Allocate) String() string { return fmt.Sprintf("allocate(%s)", n.Name) }

// BufferOprKind selects which of BufferOpr's three behaviours
// (allocate, free, reference) a node performs.
type BufferOprKind uint

const (
	// BufferAlloc emits `<T>* name = (<T>*)malloc(size);`.
	BufferAlloc BufferOprKind = iota
	// BufferFree emits `free(name);`.
	BufferFree
	// BufferRef emits the bare `name` (spec.md §6).
	BufferRef
)

func (k BufferOprKind) String() string {
	switch k {
	case BufferAlloc:
		return "alloc"
	case BufferFree:
		return "free"
	case BufferRef:
		return "ref"
	default:
		return "unknown"
	}
}

// BufferOpr is the storage-management node backing a Tensor's buffer:
// it allocates, frees or references a named block of memory (spec.md
// §6's BufferOpr emission rules).
type BufferOpr struct {
	base
	Name string
	Kind BufferOprKind
	Size Expr // byte-count expression; nil for BufferFree/BufferRef
}

// NewBufferOpr builds a BufferOpr node. size is required for
// BufferAlloc and ignored otherwise.
func NewBufferOpr(name string, kind BufferOprKind, t Type, size Expr) (*BufferOpr, error) {
	if kind == BufferAlloc && (size == nil || size.Type().IsUnknown()) {
		return nil, newConstructionError(TagBufferOpr, name, "allocation size must be a defined, typed expression")
	}
	return &BufferOpr{base: base{tag: TagBufferOpr, typ: t}, Name: name, Kind: kind, Size: size}, nil
}

func (n *BufferOpr) String() string { return fmt.Sprintf("%s(%s)", n.Kind, n.Name) }

// Cast converts X to a different primitive or composite type.
type Cast struct {
	base
	X Expr
}

// NewCast builds a Cast node of X to type t. spec.md §3's invariant:
// source and target must differ in at least one of primitive/
// composite (a Cast is never a no-op), and t's primitive must not be
// unk.
func NewCast(x Expr, t Type) (*Cast, error) {
	if x == nil {
		return nil, newConstructionError(TagCast, "Cast", "operand must be defined")
	}
	if t.IsUnknown() {
		return nil, newConstructionError(TagCast, x.String(), "cast target primitive must not be unk")
	}
	if x.Type().Equal(t) {
		return nil, newConstructionError(TagCast, x.String(), fmt.Sprintf("cast to the same type %s is a no-op", t))
	}
	return &Cast{base: base{tag: TagCast, typ: t}, X: x}, nil
}

func (n *Cast) String() string { return fmt.Sprintf("(%s)%s", n.Type(), n.X) }

// Let binds a name to an expression's value once, emitting `<T> a = b;`
// hoisted to the start of its enclosing Block (spec.md §6).
type Let struct {
	base
	Name  string
	Value Expr
}

// NewLet builds a Let node. Name must be non-empty; Value must be
// defined.
func NewLet(name string, value Expr) (*Let, error) {
	if name == "" {
		return nil, newConstructionError(TagLet, "Let", "name must be non-empty")
	}
	if value == nil {
		return nil, newConstructionError(TagLet, name, "value must be defined")
	}
	return &Let{base: base{tag: TagLet, typ: value.Type()}, Name: name, Value: value}, nil
}

func (n *Let) String() string { return fmt.Sprintf("let %s = %s", n.Name, n.Value) }

// Identity is a transparent pass-through over X, used to carry a
// distinct type annotation (e.g. after a schedule pulls an expression
// through a tiling transform) without altering X's value.
type Identity struct {
	base
	X Expr
}

// NewIdentity wraps x, preserving its type.
func NewIdentity(x Expr) (*Identity, error) {
	if x == nil {
		return nil, newConstructionError(TagIdentity, "Identity", "operand must be defined")
	}
	return &Identity{base: base{tag: TagIdentity, typ: x.Type()}, X: x}, nil
}

func (n *Identity) String() string { return n.X.String() }
