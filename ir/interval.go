package ir

import "fmt"

// Constant stores either a literal value or a named symbolic constant,
// per spec.md §3: "Constant stores either a literal value (typed union)
// or a named symbol (value_set=false, name="M")."
type Constant struct {
	// ValueSet is true when Value holds a literal, false when Name holds
	// a symbolic parameter name.
	ValueSet bool
	Value    int64
	Name     string
}

// IntConst returns a literal integer constant.
func IntConst(v int64) Constant {
	return Constant{ValueSet: true, Value: v}
}

// SymConst returns a named symbolic constant (e.g. a tensor dimension
// bound by a parameter such as "M").
func SymConst(name string) Constant {
	return Constant{ValueSet: false, Name: name}
}

// Equal compares names when set, values otherwise — spec.md §3's
// "Equality compares names when set and values otherwise."
func (c Constant) Equal(other Constant) bool {
	if !c.ValueSet && !other.ValueSet {
		return c.Name == other.Name
	}
	if c.ValueSet != other.ValueSet {
		return false
	}
	return c.Value == other.Value
}

// IsSymbolic reports whether c is a named parameter rather than a literal.
func (c Constant) IsSymbolic() bool { return !c.ValueSet }

// String renders the constant the way it would appear in an ISL-style
// textual set/map constraint.
func (c Constant) String() string {
	if c.ValueSet {
		return fmt.Sprintf("%d", c.Value)
	}
	return c.Name
}

// Interval bundles a lower and upper bound, each a Constant, per
// spec.md §3.
type Interval struct {
	Lower, Upper Constant
}

// NewInterval returns the interval with the given endpoints, stored as
// given. Loop bounds and domains built from an Interval read Upper as
// exclusive: [lower, upper).
func NewInterval(lower, upper Constant) Interval {
	return Interval{Lower: lower, Upper: upper}
}

// String renders the interval for diagnostics.
func (iv Interval) String() string {
	return fmt.Sprintf("[%s, %s]", iv.Lower, iv.Upper)
}
