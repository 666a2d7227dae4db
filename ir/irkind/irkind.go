// Package irkind defines the primitive and composite type kinds for the
// CINN expression IR (spec.md §3's "Primitive type" and "Composite type").
package irkind

// Kind of a primitive scalar value.
type Kind uint

// Primitive kinds, exactly the closed set spec.md §3 names.
const (
	Unknown Kind = iota
	Boolean
	Int8
	Int16
	Int32
	Int64
	Float32
	Float64
	Void

	maxKind
)

// String returns the CINN source-level name of the kind.
func (k Kind) String() string {
	switch k {
	case Unknown:
		return "unk"
	case Boolean:
		return "boolean"
	case Int8:
		return "int8"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Void:
		return "void"
	}
	return "invalid"
}

// KindFromString returns a kind from its CINN source-level name, or
// Unknown if ident does not name a primitive kind.
func KindFromString(ident string) Kind {
	switch ident {
	case "boolean":
		return Boolean
	case "int8":
		return Int8
	case "int16":
		return Int16
	case "int32":
		return Int32
	case "int64":
		return Int64
	case "float32":
		return Float32
	case "float64":
		return Float64
	case "void":
		return Void
	default:
		return Unknown
	}
}

// IsIntegerKind returns true if k is a signed integer kind.
func IsIntegerKind(k Kind) bool {
	switch k {
	case Int8, Int16, Int32, Int64:
		return true
	default:
		return false
	}
}

// IsFloatKind returns true if k is a floating-point kind.
func IsFloatKind(k Kind) bool {
	switch k {
	case Float32, Float64:
		return true
	default:
		return false
	}
}

// IsNumeric returns true if k supports arithmetic operators.
func IsNumeric(k Kind) bool {
	return IsIntegerKind(k) || IsFloatKind(k)
}

// ByteWidth returns the C storage width of k, for sizing a malloc'd
// buffer in the emitted data section (spec.md §6).
func ByteWidth(k Kind) int {
	switch k {
	case Boolean, Int8:
		return 1
	case Int16:
		return 2
	case Int32, Float32:
		return 4
	case Int64, Float64:
		return 8
	default:
		return 0
	}
}

// Composite is the vector width carried alongside a primitive kind
// (spec.md §3's "Composite type").
type Composite uint

// Composite kinds.
const (
	CompositePrimitive Composite = iota
	CompositeSIMD128
	CompositeSIMD256
)

// String returns the composite kind's name.
func (c Composite) String() string {
	switch c {
	case CompositePrimitive:
		return "primitive"
	case CompositeSIMD128:
		return "simd128"
	case CompositeSIMD256:
		return "simd256"
	}
	return "invalid"
}

// Lanes returns the number of scalar lanes a composite kind packs.
// A primitive (scalar) composite has exactly one lane.
func (c Composite) Lanes() int {
	switch c {
	case CompositeSIMD128:
		return 4
	case CompositeSIMD256:
		return 8
	default:
		return 1
	}
}

// CompositeFromWidth returns the composite kind carrying width lanes.
// width must be 4 or 8, per spec.md §3's SIMDOpr invariant.
func CompositeFromWidth(width int) (Composite, bool) {
	switch width {
	case 4:
		return CompositeSIMD128, true
	case 8:
		return CompositeSIMD256, true
	default:
		return CompositePrimitive, false
	}
}
