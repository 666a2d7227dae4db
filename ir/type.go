package ir

import (
	"fmt"

	"github.com/cinn-go/cinn/ir/irkind"
)

// Type is the pair (primitive kind, composite width) every expression
// carries, per spec.md §3: "Every expression carries both a primitive
// type and a composite type; the composite dictates vector width."
type Type struct {
	Primitive irkind.Kind
	Composite irkind.Composite
}

// ScalarType returns the scalar (composite=primitive) type for a kind.
func ScalarType(k irkind.Kind) Type {
	return Type{Primitive: k, Composite: irkind.CompositePrimitive}
}

// VecType returns the SIMD type packing k at the given composite width.
func VecType(k irkind.Kind, c irkind.Composite) Type {
	return Type{Primitive: k, Composite: c}
}

// UnknownType is the type of an expression whose primitive kind has not
// been (or cannot be) determined.
var UnknownType = ScalarType(irkind.Unknown)

// VoidType is the type of an expression producing no value (statements).
var VoidType = ScalarType(irkind.Void)

// BoolType is the scalar boolean type, the mandated result type of every
// comparison and logical node (spec.md §3).
var BoolType = ScalarType(irkind.Boolean)

// Int32Type is the scalar int32 type; For's iterator is always this type.
var Int32Type = ScalarType(irkind.Int32)

// IsUnknown reports whether t's primitive kind is unk.
func (t Type) IsUnknown() bool { return t.Primitive == irkind.Unknown }

// IsVoid reports whether t is the void type.
func (t Type) IsVoid() bool { return t.Primitive == irkind.Void }

// IsScalar reports whether t's composite is the scalar (non-SIMD) width.
func (t Type) IsScalar() bool { return t.Composite == irkind.CompositePrimitive }

// Lanes returns the number of primitive values t's composite packs.
func (t Type) Lanes() int { return t.Composite.Lanes() }

// Equal reports whether t and other denote the same type.
func (t Type) Equal(other Type) bool {
	return t.Primitive == other.Primitive && t.Composite == other.Composite
}

// String renders the type the way the C emitter names it.
func (t Type) String() string {
	if t.IsScalar() {
		return t.Primitive.String()
	}
	return fmt.Sprintf("%s<%s>", t.Primitive, t.Composite)
}
