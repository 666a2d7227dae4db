package poly

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/exp/maps"

	"github.com/cinn-go/cinn/ir"
)

// Set is a named, rectangular (box) integer set: a tuple of dimensions
// each bounded by an ir.Interval, plus any additional textual boolean
// constraints appended via AddConstraint. The box restriction is the
// deliberate simplification documented in poly.go's package doc.
type Set struct {
	ctx    *Context
	space  Space
	bounds []ir.Interval
	extra  []string
	// params is s's symbolic parameter names (bound names not yet
	// resolved to a literal), in canonical order — the order AlignParams
	// produces, not necessarily first-seen order.
	params []string
}

// NewSet returns a box set over the given space, bounded by bounds
// (one Interval per dimension, same order as space's dims).
func NewSet(ctx *Context, space Space, bounds []ir.Interval) *Set {
	seen := map[string]bool{}
	for _, b := range bounds {
		ctx.noteConstant(b.Lower)
		ctx.noteConstant(b.Upper)
	}
	var params []string
	for _, b := range bounds {
		for _, c := range [2]ir.Constant{b.Lower, b.Upper} {
			if c.IsSymbolic() && !seen[c.Name] {
				seen[c.Name] = true
				params = append(params, c.Name)
			}
		}
	}
	return &Set{ctx: ctx, space: space, bounds: append([]ir.Interval{}, bounds...), params: params}
}

// Space returns the set's tuple/dim-name space.
func (s *Set) Space() Space { return s.space }

// TupleName returns the set's tuple name.
func (s *Set) TupleName() string { return s.space.TupleName() }

// SetTupleName returns a copy of s renamed to tuple.
func (s *Set) SetTupleName(tuple string) *Set {
	cp := *s
	cp.space = s.space.SetTupleName(tuple)
	return &cp
}

// DimName returns dimension i's name.
func (s *Set) DimName(i int) string { return s.space.DimName(i) }

// SetDimName returns a copy of s with dimension i renamed.
func (s *Set) SetDimName(i int, name string) *Set {
	cp := *s
	cp.space = s.space.SetDimName(i, name)
	return &cp
}

// NumDims returns the set's dimensionality.
func (s *Set) NumDims() int { return s.space.NumDims() }

// Bound returns dimension i's interval.
func (s *Set) Bound(i int) ir.Interval { return s.bounds[i] }

// AddConstraint appends a raw boolean constraint (ISL-style syntax,
// e.g. "i != j") to the set. Box constraints already captured by Bound
// are evaluated; extra constraints are carried for round-trip/printing
// but not evaluated — the documented restriction of this bridge to box
// domains (see poly.go).
func (s *Set) AddConstraint(constraint string) *Set {
	cp := *s
	cp.extra = append(append([]string{}, s.extra...), constraint)
	return &cp
}

// AlignParams merges s's and other's symbolic parameter names into a
// single canonically-ordered set, the same deduped-then-sorted pattern
// gx-org-gx's binder uses to produce a deterministic dependency order
// from a map (golang/binder/gobindings/deps.go): collect into a set
// keyed by name, then maps.Keys + sort.Strings, since Go map iteration
// order is randomised and two sets built from different parse orders
// would otherwise disagree on which parameter comes first.
func (s *Set) AlignParams(other *Set) *Set {
	seen := make(map[string]bool, len(s.params)+len(other.params))
	for _, p := range s.params {
		seen[p] = true
	}
	for _, p := range other.params {
		seen[p] = true
	}
	aligned := maps.Keys(seen)
	sort.Strings(aligned)
	cp := *s
	cp.params = aligned
	return &cp
}

// Params returns s's symbolic parameter names in canonical order.
func (s *Set) Params() []string { return append([]string{}, s.params...) }

// Intersect returns the set whose per-dimension bounds are the
// tightest of s and other (requires same space).
func (s *Set) Intersect(other *Set) *Set {
	bounds := make([]ir.Interval, s.NumDims())
	for i := range bounds {
		lo := s.bounds[i].Lower
		if other.bounds[i].Lower.ValueSet && (!lo.ValueSet || other.bounds[i].Lower.Value > lo.Value) {
			lo = other.bounds[i].Lower
		}
		hi := s.bounds[i].Upper
		if other.bounds[i].Upper.ValueSet && (!hi.ValueSet || other.bounds[i].Upper.Value < hi.Value) {
			hi = other.bounds[i].Upper
		}
		bounds[i] = ir.NewInterval(lo, hi)
	}
	cp := NewSet(s.ctx, s.space, bounds)
	cp.extra = append(append([]string{}, s.extra...), other.extra...)
	cp.params = cp.AlignParams(s.AlignParams(other)).params
	return cp
}

func (s *Set) String() string {
	parts := make([]string, s.NumDims())
	for i := 0; i < s.NumDims(); i++ {
		parts[i] = fmt.Sprintf("%s <= %s < %s", s.bounds[i].Lower, s.space.DimName(i), s.bounds[i].Upper)
	}
	constraint := strings.Join(parts, " and ")
	if len(s.extra) > 0 {
		constraint += " and " + strings.Join(s.extra, " and ")
	}
	return fmt.Sprintf("{ [%s] : %s }", strings.Join(s.space.dimNames, ","), constraint)
}

// UnionSet is an unordered collection of Sets, each with its own tuple
// name, per spec.md §4.3's union operations.
type UnionSet struct {
	Sets []*Set
}

// NewUnionSet wraps sets as a UnionSet.
func NewUnionSet(sets ...*Set) *UnionSet {
	return &UnionSet{Sets: append([]*Set{}, sets...)}
}

// Union returns the union of u and other.
func (u *UnionSet) Union(other *UnionSet) *UnionSet {
	return NewUnionSet(append(append([]*Set{}, u.Sets...), other.Sets...)...)
}

func (u *UnionSet) String() string {
	parts := make([]string, len(u.Sets))
	for i, s := range u.Sets {
		parts[i] = s.String()
	}
	return strings.Join(parts, "; ")
}
