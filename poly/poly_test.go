package poly_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cinn-go/cinn/poly"
)

func TestParseSetBoxBounds(t *testing.T) {
	ctx := poly.NewContext()
	s, err := poly.ParseSet(ctx, "{ tmp0[i,j] : 0 <= i < 20 and 0 <= j < 40 }")
	require.NoError(t, err)
	require.Equal(t, "tmp0", s.TupleName())
	require.Equal(t, 2, s.NumDims())
	require.Equal(t, "0", s.Bound(0).Lower.String())
	require.Equal(t, "20", s.Bound(0).Upper.String())
}

func TestParseSetRejectsUnsupportedConstraint(t *testing.T) {
	ctx := poly.NewContext()
	_, err := poly.ParseSet(ctx, "{ a[i] : i != 3 }")
	require.Error(t, err)
}

func TestParseSetSymbolicBound(t *testing.T) {
	ctx := poly.NewContext()
	s, err := poly.ParseSet(ctx, "{ w[i,j] : 0 <= i < M and 0 <= j < N }")
	require.NoError(t, err)
	require.True(t, s.Bound(0).Upper.IsSymbolic())
	require.Equal(t, "M", s.Bound(0).Upper.String())
}

func TestParseMapIdentity(t *testing.T) {
	m, err := poly.ParseMap("{ [ii0,ii1] -> [v0,v1] : v0 = ii0 and v1 = ii1 }")
	require.NoError(t, err)
	require.Equal(t, 2, m.InSpace().NumDims())
	require.Equal(t, 2, m.OutSpace().NumDims())
}

func TestIdentityMap(t *testing.T) {
	ctx := poly.NewContext()
	s, err := poly.ParseSet(ctx, "{ a[i,j] : 0 <= i < 10 and 0 <= j < 10 }")
	require.NoError(t, err)
	id := poly.IdentityMap(s)
	require.Equal(t, "a", id.InSpace().TupleName())
	require.Equal(t, "a", id.OutSpace().TupleName())
}

func TestSetIntersectTightensBounds(t *testing.T) {
	ctx := poly.NewContext()
	a, err := poly.ParseSet(ctx, "{ a[i] : 0 <= i < 20 }")
	require.NoError(t, err)
	b, err := poly.ParseSet(ctx, "{ a[i] : 5 <= i < 30 }")
	require.NoError(t, err)
	inter := a.Intersect(b)
	require.Equal(t, "5", inter.Bound(0).Lower.String())
	require.Equal(t, "20", inter.Bound(0).Upper.String())
}

func TestComputeScheduleRejectsEmptyDomain(t *testing.T) {
	cs := poly.NewScheduleConstraints(poly.NewUnionSet())
	_, err := cs.ComputeSchedule()
	require.Error(t, err)
	require.IsType(t, &poly.InfeasibleError{}, err)
}

func TestComputeScheduleOrdersByDomain(t *testing.T) {
	ctx := poly.NewContext()
	s0, err := poly.ParseSet(ctx, "{ tmp0[i,j] : 0 <= i < 3 and 0 <= j < 4 }")
	require.NoError(t, err)
	s1, err := poly.ParseSet(ctx, "{ tmp1[i,j] : 0 <= i < 3 and 0 <= j < 4 }")
	require.NoError(t, err)
	domain := poly.NewUnionSet(s0, s1)
	cs := poly.NewScheduleConstraints(domain)
	tree, err := cs.ComputeSchedule()
	require.NoError(t, err)
	require.Len(t, tree.Root.Children, 2)
	require.Equal(t, "tmp0", tree.Root.Children[0].Domain.TupleName())
	require.Equal(t, "tmp1", tree.Root.Children[1].Domain.TupleName())
}

func TestBuildASTInvokesCallbackPerLeaf(t *testing.T) {
	ctx := poly.NewContext()
	s0, err := poly.ParseSet(ctx, "{ tmp0[i] : 0 <= i < 3 }")
	require.NoError(t, err)
	tree := &poly.ScheduleTree{Root: &poly.ScheduleNode{
		Kind: poly.NodeBand,
		BandDims: []string{"i"},
		Children: []*poly.ScheduleNode{{Kind: poly.NodeLeaf, Domain: s0}},
	}}
	var seen []string
	ast := tree.BuildAST(func(node *poly.AstNode, build *poly.ASTBuild, user any) *poly.AstNode {
		seen = append(seen, node.Domain.TupleName())
		return node
	}, nil)
	require.Equal(t, []string{"tmp0"}, seen)
	require.Equal(t, poly.AstFor, ast.Kind)
	require.Equal(t, "i", ast.Iterator)
}

func TestMapDescendantBottomUpMergesLeavesIntoBand(t *testing.T) {
	ctx := poly.NewContext()
	s0, err := poly.ParseSet(ctx, "{ tmp0[i] : 0 <= i < 3 }")
	require.NoError(t, err)
	s1, err := poly.ParseSet(ctx, "{ tmp1[i] : 0 <= i < 3 }")
	require.NoError(t, err)
	tree := &poly.ScheduleTree{Root: &poly.ScheduleNode{
		Kind:     poly.NodeSequence,
		Children: []*poly.ScheduleNode{{Kind: poly.NodeLeaf, Domain: s0}, {Kind: poly.NodeLeaf, Domain: s1}},
	}}
	rewritten := tree.MapDescendantBottomUp(func(n *poly.ScheduleNode) *poly.ScheduleNode {
		if n.Kind == poly.NodeSequence && len(n.Children) == 2 {
			return &poly.ScheduleNode{Kind: poly.NodeBand, BandDims: []string{"i"}, Children: n.Children}
		}
		return n
	})
	require.Equal(t, poly.NodeBand, rewritten.Root.Kind)
}

func TestScopeClosesInReverseOrder(t *testing.T) {
	var order []int
	s := poly.NewScope()
	s.Defer(func() error { order = append(order, 1); return nil })
	s.Defer(func() error { order = append(order, 2); return nil })
	require.NoError(t, s.Close())
	require.Equal(t, []int{2, 1}, order)
}

func TestScopeCloseAggregatesAllReleaseErrors(t *testing.T) {
	s := poly.NewScope()
	s.Defer(func() error { return errors.New("first") })
	s.Defer(func() error { return errors.New("second") })
	err := s.Close()
	require.Error(t, err)
	require.Contains(t, err.Error(), "first")
	require.Contains(t, err.Error(), "second")
}
