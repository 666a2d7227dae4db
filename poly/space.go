package poly

import "strings"

// Space names a tuple (a Stage or Reference) and its ordered dimension
// names, the common header every Set and the In/Out side of a Map
// carries.
type Space struct {
	tupleName string
	dimNames  []string
}

// NewSpace returns a Space named tuple with the given ordered
// dimension names.
func NewSpace(tuple string, dims []string) Space {
	return Space{tupleName: tuple, dimNames: append([]string{}, dims...)}
}

// TupleName returns the space's tuple name.
func (s Space) TupleName() string { return s.tupleName }

// SetTupleName returns a copy of s renamed to tuple.
func (s Space) SetTupleName(tuple string) Space {
	s.tupleName = tuple
	return s
}

// DimName returns the name of dimension i.
func (s Space) DimName(i int) string { return s.dimNames[i] }

// SetDimName returns a copy of s with dimension i renamed.
func (s Space) SetDimName(i int, name string) Space {
	cp := make([]string, len(s.dimNames))
	copy(cp, s.dimNames)
	cp[i] = name
	s.dimNames = cp
	return s
}

// NumDims returns the space's dimensionality.
func (s Space) NumDims() int { return len(s.dimNames) }

// DimIndex returns the index of the dimension named name, or -1.
func (s Space) DimIndex(name string) int {
	for i, n := range s.dimNames {
		if n == name {
			return i
		}
	}
	return -1
}

func (s Space) String() string {
	return s.tupleName + "[" + strings.Join(s.dimNames, ",") + "]"
}
