package poly

import "fmt"

// ScheduleConstraints accumulates a domain plus validity/proximity
// maps, the input to ComputeSchedule (spec.md §4.3).
type ScheduleConstraints struct {
	domain    *UnionSet
	validity  *UnionMap
	proximity *UnionMap
}

// NewScheduleConstraints starts a ScheduleConstraints build over domain.
func NewScheduleConstraints(domain *UnionSet) *ScheduleConstraints {
	return &ScheduleConstraints{domain: domain}
}

// SetValidity attaches the validity (must-preserve) dependence map.
func (c *ScheduleConstraints) SetValidity(validity *UnionMap) *ScheduleConstraints {
	c.validity = validity
	return c
}

// SetProximity attaches the proximity (should-preserve) dependence map.
func (c *ScheduleConstraints) SetProximity(proximity *UnionMap) *ScheduleConstraints {
	c.proximity = proximity
	return c
}

// ComputeSchedule builds a ScheduleTree satisfying c's validity
// constraints. Per the simplification documented in poly.go, validity
// here reduces to "respect domain.Sets' given order" (spec.md §9: with
// the box/affine-equality engine, the only dependences the bridge can
// express are already encoded in that order by the caller); it returns
// an InfeasibleError if domain is empty — spec.md §7 item 2's
// "polyhedral infeasibility" condition — since an empty schedule can
// never be legally built upon by the caller's tiling/fusion passes.
//
// The result is a flat Sequence of per-stage Leaf nodes in domain
// order. core.Snippet.ComputeSchedule uses it only as this feasibility
// check and builds its nested shared-dimension-band tree from its own
// fusion grouping instead.
func (c *ScheduleConstraints) ComputeSchedule() (*ScheduleTree, error) {
	if c.domain == nil || len(c.domain.Sets) == 0 {
		return nil, &InfeasibleError{Reason: "empty domain has no legal schedule"}
	}
	children := make([]*ScheduleNode, len(c.domain.Sets))
	for i, s := range c.domain.Sets {
		children[i] = &ScheduleNode{Kind: NodeLeaf, Domain: s}
	}
	root := &ScheduleNode{Kind: NodeSequence, Children: children}
	return &ScheduleTree{Root: root}, nil
}

// InfeasibleError reports that no schedule respects the given
// constraints (spec.md §7 item 2).
type InfeasibleError struct {
	Reason string
}

func (e *InfeasibleError) Error() string { return "poly: infeasible schedule: " + e.Reason }

// NodeKind distinguishes a ScheduleNode's role in the tree, the Go
// analogue of ISL's schedule-tree node kinds.
type NodeKind uint

const (
	// NodeSequence orders its children one after another.
	NodeSequence NodeKind = iota
	// NodeBand groups children sharing a common set of schedule
	// dimensions, to be emitted as nested for-loops.
	NodeBand
	// NodeLeaf wraps a single stage's domain; it has no children.
	NodeLeaf
)

// ScheduleNode is one node of a ScheduleTree.
type ScheduleNode struct {
	Kind NodeKind
	// Domain is set on NodeLeaf nodes: the stage's iteration domain.
	Domain *Set
	// BandDims is set on NodeBand nodes: the shared dimension names the
	// band introduces, outermost first.
	BandDims []string
	Children []*ScheduleNode
}

func (n *ScheduleNode) String() string {
	switch n.Kind {
	case NodeLeaf:
		return fmt.Sprintf("leaf(%s)", n.Domain.TupleName())
	case NodeBand:
		return fmt.Sprintf("band(%v)", n.BandDims)
	default:
		return "sequence"
	}
}

// ScheduleTree wraps a computed schedule's root node.
type ScheduleTree struct {
	Root *ScheduleNode
}

// MapDescendantBottomUp rewrites t, applying cb to every node after its
// children have already been rewritten (spec.md §4.3's rewriting
// operation; core.Snippet.BuildTiles uses it to split tiled band
// dimensions into outer/inner pairs).
func (t *ScheduleTree) MapDescendantBottomUp(cb func(*ScheduleNode) *ScheduleNode) *ScheduleTree {
	var walk func(*ScheduleNode) *ScheduleNode
	walk = func(n *ScheduleNode) *ScheduleNode {
		if n == nil {
			return nil
		}
		children := make([]*ScheduleNode, len(n.Children))
		for i, c := range n.Children {
			children[i] = walk(c)
		}
		cp := *n
		cp.Children = children
		return cb(&cp)
	}
	return &ScheduleTree{Root: walk(t.Root)}
}

// AstNode is one node of the AST built from a ScheduleTree: a block,
// a for-loop, an if, a user (leaf statement) or a mark, mirroring
// spec.md §4.5's translation-table node kinds.
type AstNode struct {
	Kind     AstNodeKind
	Iterator string      // set on AstFor
	Domain   *Set        // set on AstUser: the leaf's domain
	Cond     string      // set on AstIf
	MarkID   string      // set on AstMark
	Children []*AstNode
}

// AstNodeKind distinguishes an AstNode's role.
type AstNodeKind uint

const (
	AstBlock AstNodeKind = iota
	AstFor
	AstIf
	AstUser
	AstMark
)

// ASTBuild carries the state threaded through a BuildAST walk: the
// stack of enclosing iterator names, used by AtEachDomainFunc callbacks
// to read back the current scheduled-index expressions (spec.md §4.4's
// "pulling back through the iterator map").
type ASTBuild struct {
	Iterators []string
}

// NewASTBuild returns an empty ASTBuild.
func NewASTBuild() *ASTBuild { return &ASTBuild{} }

// AtEachDomainFunc is invoked once per NodeLeaf reached while building
// the AST, with the just-built AstUser node, the current build state,
// and a caller-supplied user payload (a *core.Stage in practice);
// it may replace the node (e.g. to insert a Mark ahead of it).
type AtEachDomainFunc func(node *AstNode, build *ASTBuild, user any) *AstNode

// BuildAST lowers t into an AstNode tree, invoking cb at each leaf
// (spec.md §4.3/§4.5).
func (t *ScheduleTree) BuildAST(cb AtEachDomainFunc, user any) *AstNode {
	build := NewASTBuild()
	return buildASTNode(t.Root, build, cb, user)
}

func buildASTNode(n *ScheduleNode, build *ASTBuild, cb AtEachDomainFunc, user any) *AstNode {
	switch n.Kind {
	case NodeLeaf:
		leaf := &AstNode{Kind: AstUser, Domain: n.Domain}
		if cb != nil {
			leaf = cb(leaf, build, user)
		}
		return leaf
	case NodeBand:
		build.Iterators = append(build.Iterators, n.BandDims...)
		children := make([]*AstNode, len(n.Children))
		for i, c := range n.Children {
			children[i] = buildASTNode(c, build, cb, user)
		}
		build.Iterators = build.Iterators[:len(build.Iterators)-len(n.BandDims)]
		node := &AstNode{Kind: AstBlock, Children: children}
		for i := len(n.BandDims) - 1; i >= 0; i-- {
			node = &AstNode{Kind: AstFor, Iterator: n.BandDims[i], Children: []*AstNode{node}}
		}
		return node
	default: // NodeSequence
		children := make([]*AstNode, len(n.Children))
		for i, c := range n.Children {
			children[i] = buildASTNode(c, build, cb, user)
		}
		return &AstNode{Kind: AstBlock, Children: children}
	}
}
