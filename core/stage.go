package core

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/cinn-go/cinn/ir"
	"github.com/cinn-go/cinn/poly"
)

// Type classifies a Stage's computation shape, per spec.md §3:
// `type ∈ {polyhedral, function_call, unk}`.
type Type uint

const (
	Polyhedral Type = iota
	FunctionCall
	UnknownType
)

func (t Type) String() string {
	switch t {
	case Polyhedral:
		return "polyhedral"
	case FunctionCall:
		return "function_call"
	default:
		return "unk"
	}
}

// Stage is a single named computation over a polyhedral iteration
// domain: an Expression IR tree, its inferred domain, read/write access
// maps, an initially-identity schedule, and the declared
// interchange/tile/split/fusion transforms a caller has requested
// (spec.md §3's Stage entity attributes).
type Stage struct {
	Name string
	Expr ir.Expr
	Type Type

	Domain      *poly.Set
	Schedule    *poly.Map
	ReadAccess  *poly.UnionMap
	WriteAccess *poly.UnionMap

	// Tiles maps an iterator name to its requested tile width (the map
	// form of Tile); TileSizes is the ordered-list form — a Stage uses
	// at most one of the two, mirroring spec.md's "map and/or ordered
	// list" phrasing.
	Tiles     map[string]int
	TileSizes []int

	FuseWithNames []string

	// indexMap is populated by sched.BuildScheduleTree's at_each_domain
	// callback (spec.md §4.5) and read back through IndexMap.
	indexMap map[string]ir.Expr

	// guards is populated by the same at_each_domain callback for every
	// tiled dimension whose width does not evenly divide its original
	// extent: the boolean expression (scheduled index < original upper
	// bound) that the last, partial tile must be checked against before
	// the body runs (SPEC_FULL.md §8 Scenario 4's ceil-division
	// remainder guard). A dimension whose extent divides evenly needs no
	// guard and is simply absent from the map.
	guards map[string]ir.Expr
}

// NewStage builds a Stage from an already-constructed expression
// (spec.md §3's Stage lifecycle): it synthesises the iteration domain,
// computes an identity schedule, collects read/write accesses, and
// registers the name in reg.
func NewStage(ctx *poly.Context, reg ir.NameRegistry, name string, expr ir.Expr, typ Type) (*Stage, error) {
	if err := reg.Register(name); err != nil {
		return nil, err
	}
	domain, err := StageDomain(ctx, name, expr)
	if err != nil {
		return nil, err
	}
	reads, writes := collectAccess(expr)
	readMap, err := buildAccessMap(domain.Space(), reads)
	if err != nil {
		return nil, err
	}
	writeMap, err := buildAccessMap(domain.Space(), writes)
	if err != nil {
		return nil, err
	}
	return &Stage{
		Name:        name,
		Expr:        expr,
		Type:        typ,
		Domain:      domain,
		Schedule:    poly.IdentityMap(domain),
		ReadAccess:  readMap,
		WriteAccess: writeMap,
	}, nil
}

// collectAccess partitions expr's Reference nodes into reads and
// writes: an Assign-family node's Target is always a write, and
// additionally a read for the accumulating variants (SumAssign etc,
// which read-modify-write); every other Reference reached is a read.
func collectAccess(expr ir.Expr) (reads, writes []*ir.Reference) {
	writeSet := map[*ir.Reference]bool{}
	for _, a := range ir.Collect[*ir.Assign](expr) {
		writes = append(writes, a.Target)
		writeSet[a.Target] = true
		if a.Op != ir.AssignSet {
			reads = append(reads, a.Target)
		}
	}
	for _, ref := range ir.Collect[*ir.Reference](expr) {
		if writeSet[ref] {
			continue
		}
		reads = append(reads, ref)
	}
	return reads, writes
}

// buildAccessMap builds the UnionMap from a Stage's iteration space to
// the memory locations its complete References touch, one component
// Map per Reference (spec.md §3's "read_access, write_access (union
// maps)").
func buildAccessMap(stageSpace poly.Space, refs []*ir.Reference) (*poly.UnionMap, error) {
	var maps []*poly.Map
	for _, ref := range refs {
		if !ref.IsComplete() {
			continue
		}
		tensor, ok := ref.Target.(*ir.Tensor)
		if !ok {
			continue
		}
		outDims := make([]string, len(ref.Indices))
		eqs := make([]poly.Equality, len(ref.Indices))
		for i, idx := range ref.Indices {
			outDims[i] = fmt.Sprintf("d%d", i)
			term, ok := asAffineTerm(idx)
			if !ok {
				return nil, &DomainError{Subject: ref.String(), cause: errors.Errorf("index %d is not a bare variable or variable +/- a constant", i)}
			}
			eqs[i] = poly.Equality{OutDim: i, Expr: renderAffineTerm(term)}
		}
		maps = append(maps, poly.NewMap(stageSpace, poly.NewSpace(tensor.Name, outDims), eqs))
	}
	return poly.NewUnionMap(maps...), nil
}

func renderAffineTerm(t affineTerm) string {
	switch {
	case t.offset > 0:
		return fmt.Sprintf("%s+%d", t.name, t.offset)
	case t.offset < 0:
		return fmt.Sprintf("%s%d", t.name, t.offset)
	default:
		return t.name
	}
}

// IndexMap returns the per-iterator scheduled-index expressions
// sched.BuildScheduleTree recorded on this Stage, or nil if the
// schedule hasn't been built yet (SPEC_FULL.md §4.4's exported
// accessor in place of the original's friend-class field access).
func (s *Stage) IndexMap() map[string]ir.Expr { return s.indexMap }

// SetIndexMap is called by sched.BuildScheduleTree's at_each_domain
// callback to stash the scheduled-index expressions it derived for
// this stage. It is not meant to be called by ordinary callers.
func (s *Stage) SetIndexMap(m map[string]ir.Expr) { s.indexMap = m }

// Guards returns the per-dimension remainder guards SetGuards recorded,
// or nil if none were needed.
func (s *Stage) Guards() map[string]ir.Expr { return s.guards }

// SetGuards is called by sched.BuildScheduleTree's at_each_domain
// callback to stash the remainder-guard conditions it derived for this
// stage's tiled dimensions. Not meant to be called by ordinary callers.
func (s *Stage) SetGuards(m map[string]ir.Expr) { s.guards = m }

// Interchange reorders the Stage's schedule dimensions so that the
// dimension currently at position i takes position j and vice versa.
func (s *Stage) Interchange(i, j int) error {
	n := s.Schedule.OutSpace().NumDims()
	if i < 0 || i >= n || j < 0 || j >= n {
		return errors.Errorf("core: Interchange(%d, %d) out of range for a %d-dimensional schedule", i, j, n)
	}
	out := s.Schedule.OutSpace()
	dims := make([]string, n)
	for k := 0; k < n; k++ {
		dims[k] = out.DimName(k)
	}
	dims[i], dims[j] = dims[j], dims[i]
	renamed := out
	for k, name := range dims {
		renamed = renamed.SetDimName(k, name)
	}
	s.Schedule = poly.NewMap(s.Schedule.InSpace(), renamed, identityEqsFor(renamed))
	return nil
}

func identityEqsFor(space poly.Space) []poly.Equality {
	eqs := make([]poly.Equality, space.NumDims())
	for i := 0; i < space.NumDims(); i++ {
		eqs[i] = poly.Equality{OutDim: i, Expr: space.DimName(i)}
	}
	return eqs
}

// Tile records a tile-width request for iter, the map form of Tile
// (spec.md §3's "tiles (map from iterator name -> tile width)").
// BuildTiles (Snippet) applies it when lowering the schedule to an AST.
func (s *Stage) Tile(iter string, width int) error {
	if width <= 0 {
		return errors.Errorf("core: tile width must be positive, got %d", width)
	}
	if s.Domain.Space().DimIndex(iter) < 0 {
		return errors.Errorf("core: %q does not name a dimension of stage %s", iter, s.Name)
	}
	if s.Tiles == nil {
		s.Tiles = map[string]int{}
	}
	s.Tiles[iter] = width
	return nil
}

// TileBySizes records the ordered-list form of Tile: sizes[k] is the
// tile width of the k-th schedule dimension.
func (s *Stage) TileBySizes(sizes []int) error {
	if len(sizes) != s.Schedule.OutSpace().NumDims() {
		return errors.Errorf("core: TileBySizes needs %d sizes, got %d", s.Schedule.OutSpace().NumDims(), len(sizes))
	}
	s.TileSizes = append([]int{}, sizes...)
	return nil
}

// Split breaks iter into an outer/inner pair at the given factor —
// equivalent to Tile on a single named iterator, kept as a distinct
// method because spec.md lists it separately and because Split's
// ceil-division remainder guard (SPEC_FULL.md §8 Scenario 4) is
// resolved at AST-build time, not here.
func (s *Stage) Split(iter string, factor int) error {
	return s.Tile(iter, factor)
}

// SetCond narrows iter's domain with the constraint lower <= iter < upper,
// the iterator-name form. iter must name one of the Stage's existing
// iterators.
func (s *Stage) SetCond(iter string, lower, upper ir.Constant) error {
	idx := s.Domain.Space().DimIndex(iter)
	if idx < 0 {
		return errors.Errorf("core: %q does not name a dimension of stage %s", iter, s.Name)
	}
	s.Domain = s.Domain.AddConstraint(fmt.Sprintf("%s <= %s < %s", lower, iter, upper))
	return nil
}

// SetCondExpr narrows the domain using a raw boolean expression string
// — the expr form of SetCond, for conditions that aren't a simple
// [lower, upper) bound (e.g. an equality guard on a derived variable).
func (s *Stage) SetCondExpr(expr string) {
	s.Domain = s.Domain.AddConstraint(expr)
}

// FuseWith records target in FuseWithNames. The record is not consulted
// by Snippet.BuildFusion or the scheduler: whether two stages share a
// band is decided by their leading dimension names alone.
func (s *Stage) FuseWith(target string) {
	s.FuseWithNames = append(s.FuseWithNames, target)
}
