package poly

import (
	"fmt"
	"strings"
)

// Equality is one `outDim = expr` constraint of a Map, where expr is an
// affine textual expression over the Map's input dimension names (e.g.
// "ii0", "ii0+1"). This is the closed-form stand-in for a general
// Presburger equality (see poly.go's package doc).
type Equality struct {
	OutDim int
	Expr   string
}

// Map relates an input Space to an output Space through a list of
// per-output-dimension equalities.
type Map struct {
	in, out Space
	eqs     []Equality
}

// NewMap builds a Map from in to out, defining each output dimension by
// the corresponding equality in eqs (same order as out's dimensions).
func NewMap(in, out Space, eqs []Equality) *Map {
	return &Map{in: in, out: out, eqs: append([]Equality{}, eqs...)}
}

// IdentityMap returns the identity map over s's space: out == in,
// dimension for dimension.
func IdentityMap(s *Set) *Map {
	space := s.Space()
	eqs := make([]Equality, space.NumDims())
	for i := 0; i < space.NumDims(); i++ {
		eqs[i] = Equality{OutDim: i, Expr: space.DimName(i)}
	}
	return NewMap(space, space, eqs)
}

// InSpace returns the map's domain space.
func (m *Map) InSpace() Space { return m.in }

// OutSpace returns the map's range space.
func (m *Map) OutSpace() Space { return m.out }

// Reverse swaps m's domain and range.
func (m *Map) Reverse() *Map {
	return &Map{in: m.out, out: m.in, eqs: m.eqs}
}

func (m *Map) String() string {
	eqStrs := make([]string, len(m.eqs))
	for i, eq := range m.eqs {
		eqStrs[i] = fmt.Sprintf("%s = %s", m.out.DimName(eq.OutDim), eq.Expr)
	}
	return fmt.Sprintf("{ %s -> %s : %s }", m.in, m.out, strings.Join(eqStrs, " and "))
}

// UnionMap is an unordered collection of Maps, per spec.md §4.3's union
// operations.
type UnionMap struct {
	Maps []*Map
}

// NewUnionMap wraps maps as a UnionMap.
func NewUnionMap(maps ...*Map) *UnionMap {
	return &UnionMap{Maps: append([]*Map{}, maps...)}
}

// Union returns the union of u and other.
func (u *UnionMap) Union(other *UnionMap) *UnionMap {
	if u == nil {
		return other
	}
	if other == nil {
		return u
	}
	return NewUnionMap(append(append([]*Map{}, u.Maps...), other.Maps...)...)
}

// IntersectDomain keeps only the component maps whose input tuple name
// matches one of domain's set tuple names.
func (u *UnionMap) IntersectDomain(domain *UnionSet) *UnionMap {
	allowed := map[string]bool{}
	for _, s := range domain.Sets {
		allowed[s.TupleName()] = true
	}
	var kept []*Map
	for _, m := range u.Maps {
		if allowed[m.in.TupleName()] {
			kept = append(kept, m)
		}
	}
	return NewUnionMap(kept...)
}

// ApplyDomain composes u with pre: u ∘ pre, replacing each map's input
// space with pre's output space wherever tuple names match.
func (u *UnionMap) ApplyDomain(pre *UnionMap) *UnionMap {
	var out []*Map
	for _, m := range u.Maps {
		for _, p := range pre.Maps {
			if p.out.TupleName() != m.in.TupleName() {
				continue
			}
			out = append(out, &Map{in: p.in, out: m.out, eqs: m.eqs})
		}
	}
	return NewUnionMap(out...)
}

// ApplyRange composes u with post: post ∘ u, replacing each map's
// output space with post's output space wherever tuple names match.
func (u *UnionMap) ApplyRange(post *UnionMap) *UnionMap {
	var out []*Map
	for _, m := range u.Maps {
		for _, p := range post.Maps {
			if p.in.TupleName() != m.out.TupleName() {
				continue
			}
			out = append(out, &Map{in: m.in, out: p.out, eqs: p.eqs})
		}
	}
	return NewUnionMap(out...)
}

// Reverse swaps domain and range on every component map.
func (u *UnionMap) Reverse() *UnionMap {
	out := make([]*Map, len(u.Maps))
	for i, m := range u.Maps {
		out[i] = m.Reverse()
	}
	return NewUnionMap(out...)
}

func (u *UnionMap) String() string {
	parts := make([]string, len(u.Maps))
	for i, m := range u.Maps {
		parts[i] = m.String()
	}
	return strings.Join(parts, "; ")
}

// ComputeDeps implements spec.md §4.3's dependency-analysis operation:
// given reads R and writes W over domain D, compute
// (R∪W) ∘ W⁻¹ ∪ W ∘ R⁻¹ — every pair of domain points that access the
// same memory location through a read-or-write and a write.
func ComputeDeps(domain *UnionSet, reads, writes *UnionMap) *UnionMap {
	ru := reads.Union(writes).IntersectDomain(domain)
	wInv := writes.IntersectDomain(domain).Reverse()
	left := accessJoin(ru, wInv)

	w := writes.IntersectDomain(domain)
	rInv := reads.IntersectDomain(domain).Reverse()
	right := accessJoin(w, rInv)

	return left.Union(right)
}

// accessJoin composes a ∘ b by matching each pair whose access targets
// the same buffer (identified by the output tuple name of a / input
// tuple name of b, both read off the underlying tensor they reference).
func accessJoin(a, b *UnionMap) *UnionMap {
	var out []*Map
	for _, am := range a.Maps {
		for _, bm := range b.Maps {
			if am.out.TupleName() != bm.in.TupleName() {
				continue
			}
			out = append(out, &Map{in: am.in, out: bm.out, eqs: bm.eqs})
		}
	}
	return NewUnionMap(out...)
}

// DetectEqualities reports, for each component map, whether every
// output dimension is defined by a bare input-dimension name (a pure
// rename/identity-shaped equality) rather than a compound affine
// expression — the restricted-engine analogue of ISL's
// detect_equalities simplification pass.
func (u *UnionMap) DetectEqualities() []bool {
	out := make([]bool, len(u.Maps))
	for i, m := range u.Maps {
		pure := true
		for _, eq := range m.eqs {
			if strings.TrimSpace(eq.Expr) != eq.Expr {
				pure = false
				break
			}
			if m.in.DimIndex(eq.Expr) < 0 {
				pure = false
				break
			}
		}
		out[i] = pure
	}
	return out
}
