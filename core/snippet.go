package core

import (
	"github.com/pkg/errors"

	"github.com/cinn-go/cinn/poly"
)

// Snippet groups a run of Stages that share a schedule. It is opened,
// fed Stages in registration order, closed, and then walked through
// the pipeline spec.md §4.4 names: CollectIteratorDomain ->
// CollectTransforms -> CollectReadAccess/CollectWriteAccess ->
// BuildFusion -> ComputeSchedule -> BuildTiles. The result — a
// *poly.ScheduleTree, via Tree() — is handed to sched.Lower for
// AST-to-IR translation; Snippet itself stops at the schedule tree,
// since lowering needs no poly/core types sched doesn't already use
// (keeping the ir/poly/core/sched/cinn dependency chain acyclic).
type Snippet struct {
	stages     []*Stage
	sealed     bool
	fusionPlan []fusionGroup
	tree       *poly.ScheduleTree
}

// fusionGroup is one run of adjacent stages BuildFusion decided share a
// schedule band, plus the dimension-name prefix they share (for a group
// of one, the stage's own dimension names).
type fusionGroup struct {
	prefix []string
	stages []*Stage
}

// NewSnippet opens an empty Snippet.
func NewSnippet() *Snippet { return &Snippet{} }

// AddStage appends stage to the snippet. It is an error to call after End.
func (s *Snippet) AddStage(stage *Stage) error {
	if s.sealed {
		return errors.Errorf("core: snippet is closed, cannot add stage %s", stage.Name)
	}
	s.stages = append(s.stages, stage)
	return nil
}

// Stages returns the snippet's stages in registration order.
func (s *Snippet) Stages() []*Stage { return append([]*Stage{}, s.stages...) }

// End closes the snippet to further AddStage calls.
func (s *Snippet) End() error {
	if s.sealed {
		return errors.Errorf("core: snippet already closed")
	}
	if len(s.stages) == 0 {
		return errors.Errorf("core: snippet has no stages to close over")
	}
	s.sealed = true
	return nil
}

// CollectIteratorDomain unions every stage's iteration domain.
func (s *Snippet) CollectIteratorDomain() *poly.UnionSet {
	sets := make([]*poly.Set, len(s.stages))
	for i, st := range s.stages {
		sets[i] = st.Domain
	}
	return poly.NewUnionSet(sets...)
}

// CollectTransforms reports, per stage, the tile widths and fuse-with
// targets declared on it before scheduling — the inputs BuildFusion and
// BuildTiles consume.
func (s *Snippet) CollectTransforms() map[string]*Stage {
	out := make(map[string]*Stage, len(s.stages))
	for _, st := range s.stages {
		out[st.Name] = st
	}
	return out
}

// CollectReadAccess unions every stage's read access map.
func (s *Snippet) CollectReadAccess() *poly.UnionMap {
	var u *poly.UnionMap
	for _, st := range s.stages {
		u = u.Union(st.ReadAccess)
	}
	return u
}

// CollectWriteAccess unions every stage's write access map.
func (s *Snippet) CollectWriteAccess() *poly.UnionMap {
	var u *poly.UnionMap
	for _, st := range s.stages {
		u = u.Union(st.WriteAccess)
	}
	return u
}

// Tree returns the schedule tree ComputeSchedule built, or nil before
// it has run.
func (s *Snippet) Tree() *poly.ScheduleTree { return s.tree }

// simplifyValidity drops dependence edges that carry no ordering
// information before ComputeSchedule's feasibility check: a stage's
// self-dependence, and any edge whose source tuple name is already
// lexicographically >= its target's (registration order has already
// placed the source first, so the Sequence node's existing order
// already satisfies it). This is the same approximation spec.md §9
// flags as the original's own documented limitation ("only honors
// forward dependencies") and sched.ComputeScheduleValidity implements
// identically; it is inlined here rather than imported from sched
// because core sits below sched in the dependency chain.
func simplifyValidity(deps *poly.UnionMap) *poly.UnionMap {
	if deps == nil {
		return nil
	}
	var kept []*poly.Map
	for _, m := range deps.Maps {
		src, dst := m.InSpace().TupleName(), m.OutSpace().TupleName()
		if src == dst || src >= dst {
			continue
		}
		kept = append(kept, m)
	}
	return poly.NewUnionMap(kept...)
}

// BuildFusion groups adjacent stages sharing a common leading
// domain-dimension name (the shared-dimension-prefix heuristic spec.md
// §4.5 describes) into fusion groups, recording for each group the
// longest dimension-name prefix its stages share. Grouping looks at
// dimension names only: FuseWithNames is not consulted, so a FuseWith
// declaration neither joins stages nor keeps them apart.
func (s *Snippet) BuildFusion() error {
	if !s.sealed {
		return errors.Errorf("core: call End before BuildFusion")
	}
	var groups []fusionGroup
	i := 0
	for i < len(s.stages) {
		prefix := dimsOf(s.stages[i].Domain)
		j := i + 1
		for j < len(s.stages) && len(prefix) > 0 && len(dimsOf(s.stages[j].Domain)) > 0 && dimsOf(s.stages[j].Domain)[0] == prefix[0] {
			prefix = commonDimPrefix(prefix, dimsOf(s.stages[j].Domain))
			j++
		}
		groups = append(groups, fusionGroup{prefix: prefix, stages: append([]*Stage{}, s.stages[i:j]...)})
		i = j
	}
	s.fusionPlan = groups
	return nil
}

func dimsOf(d *poly.Set) []string {
	dims := make([]string, d.NumDims())
	for i := range dims {
		dims[i] = d.DimName(i)
	}
	return dims
}

func commonDimPrefix(a, b []string) []string {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var out []string
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			break
		}
		out = append(out, a[i])
	}
	return out
}

// ComputeSchedule builds the validity dependence map from the snippet's
// accesses (spec.md §4.3's ComputeDeps, simplified by simplifyValidity,
// this package's copy of sched.ComputeScheduleValidity), checks it
// against an empty-domain infeasibility per poly.ScheduleConstraints,
// and then assembles the schedule tree directly from BuildFusion's
// grouping — one Band node per fused group (in registration order), and
// for an unfused stage the node stageNode builds: a Band over the
// stage's own dimensions wrapping its Leaf (a bare Leaf only for a
// stage with no dimensions).
func (s *Snippet) ComputeSchedule() (*poly.ScheduleTree, error) {
	if !s.sealed {
		return nil, errors.Errorf("core: call End before ComputeSchedule")
	}
	if s.fusionPlan == nil {
		if err := s.BuildFusion(); err != nil {
			return nil, err
		}
	}
	domain := s.CollectIteratorDomain()
	deps := poly.ComputeDeps(domain, s.CollectReadAccess(), s.CollectWriteAccess())
	validity := simplifyValidity(deps)
	if _, err := poly.NewScheduleConstraints(domain).SetValidity(validity).ComputeSchedule(); err != nil {
		return nil, err
	}

	children := make([]*poly.ScheduleNode, len(s.fusionPlan))
	for i, g := range s.fusionPlan {
		if len(g.prefix) > 0 && len(g.stages) > 1 {
			leaves := make([]*poly.ScheduleNode, len(g.stages))
			for j, st := range g.stages {
				leaves[j] = stageNode(st, g.prefix)
			}
			children[i] = &poly.ScheduleNode{Kind: poly.NodeBand, BandDims: g.prefix, Children: leaves}
			continue
		}
		children[i] = stageNode(g.stages[0], nil)
	}
	s.tree = &poly.ScheduleTree{Root: &poly.ScheduleNode{Kind: poly.NodeSequence, Children: children}}
	return s.tree, nil
}

// stageNode builds the schedule-tree node for one stage inside a fused
// group whose shared band already covers dims (outermost first, empty
// for a group of one). A stage's own domain can reach further than the
// dims its neighbors share with it — a matmul fused with a same-shape
// zero-initializer still carries its own reduction dimension, e.g. `k`
// in `tmp[i,j] += x[i,k]*w[k,j]` fused with `zero_out`'s plain `[i,j]`
// — so any such remaining dims get their own nested Band wrapping the
// stage's Leaf, giving them their own for-loop once BuildAST walks the
// tree (poly.buildASTNode's NodeBand case), rather than leaving the
// stage body's loop variable unscheduled.
func stageNode(st *Stage, dims []string) *poly.ScheduleNode {
	leaf := &poly.ScheduleNode{Kind: poly.NodeLeaf, Domain: st.Domain}
	own := dimsOf(st.Domain)
	extra := own[len(dims):]
	if len(extra) == 0 {
		return leaf
	}
	return &poly.ScheduleNode{Kind: poly.NodeBand, BandDims: extra, Children: []*poly.ScheduleNode{leaf}}
}

// BuildTiles rewrites every Band node covering a dimension any of its
// stages requested a tile width for, splitting that dimension into an
// outer/inner pair (named "<dim>.outer"/"<dim>.inner"). The tile width
// itself is read back from the owning Stage by sched's AST lowering,
// which needs it to size the inner loop's bound and step.
func (s *Snippet) BuildTiles() error {
	if s.tree == nil {
		return errors.Errorf("core: call ComputeSchedule before BuildTiles")
	}
	tiled := map[string]bool{}
	for _, st := range s.stages {
		for iter := range st.Tiles {
			tiled[iter] = true
		}
	}
	if len(tiled) == 0 {
		return nil
	}
	s.tree = s.tree.MapDescendantBottomUp(func(n *poly.ScheduleNode) *poly.ScheduleNode {
		if n.Kind != poly.NodeBand {
			return n
		}
		var dims []string
		for _, d := range n.BandDims {
			if tiled[d] {
				dims = append(dims, d+".outer", d+".inner")
				continue
			}
			dims = append(dims, d)
		}
		cp := *n
		cp.BandDims = dims
		return &cp
	})
	return nil
}
