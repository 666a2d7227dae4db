package core_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cinn-go/cinn/core"
	"github.com/cinn-go/cinn/ir"
	"github.com/cinn-go/cinn/ir/irkind"
	"github.com/cinn-go/cinn/poly"
)

// buildCopyStageOverVar builds `dstName[i] = srcName[i]` reusing the
// given, already-registered iterator Var i — mirroring how a real
// Function shares one loop variable across several Stages that occupy
// the same loop nest.
func buildCopyStageOverVar(t *testing.T, ctx *poly.Context, reg ir.NameRegistry, stageName string, i *ir.Var, n int64) *core.Stage {
	t.Helper()
	src := ir.NewTensor(stageName+"_src", irkind.Float32, []ir.Constant{ir.IntConst(n)})
	dst := ir.NewTensor(stageName+"_dst", irkind.Float32, []ir.Constant{ir.IntConst(n)})
	srcRef, err := ir.NewReference(src, i)
	require.NoError(t, err)
	dstRef, err := ir.NewReference(dst, i)
	require.NoError(t, err)
	assign, err := ir.NewAssignStmt(dstRef, srcRef)
	require.NoError(t, err)
	st, err := core.NewStage(ctx, reg, stageName, assign, core.Polyhedral)
	require.NoError(t, err)
	return st
}

func TestSnippetAddStageAfterEndFails(t *testing.T) {
	ctx := poly.NewContext()
	reg := newTestRegistry()
	i := mustVar(t, reg, "i", 0, 20)
	st := buildCopyStageOverVar(t, ctx, reg, "a", i, 20)

	sn := core.NewSnippet()
	require.NoError(t, sn.AddStage(st))
	require.NoError(t, sn.End())
	require.Error(t, sn.AddStage(st))
}

func TestSnippetComputeScheduleRequiresEnd(t *testing.T) {
	ctx := poly.NewContext()
	reg := newTestRegistry()
	i := mustVar(t, reg, "i", 0, 20)
	st := buildCopyStageOverVar(t, ctx, reg, "a", i, 20)

	sn := core.NewSnippet()
	require.NoError(t, sn.AddStage(st))
	_, err := sn.ComputeSchedule()
	require.Error(t, err)
}

func TestSnippetBuildFusionMergesSharedLeadingDimension(t *testing.T) {
	ctx := poly.NewContext()
	reg := newTestRegistry()
	i := mustVar(t, reg, "i", 0, 20)
	a := buildCopyStageOverVar(t, ctx, reg, "a", i, 20)
	b := buildCopyStageOverVar(t, ctx, reg, "b", i, 20)

	sn := core.NewSnippet()
	require.NoError(t, sn.AddStage(a))
	require.NoError(t, sn.AddStage(b))
	require.NoError(t, sn.End())

	tree, err := sn.ComputeSchedule()
	require.NoError(t, err)
	require.Len(t, tree.Root.Children, 1)
	band := tree.Root.Children[0]
	require.Equal(t, poly.NodeBand, band.Kind)
	require.Equal(t, []string{"i"}, band.BandDims)
	require.Len(t, band.Children, 2)
}

func TestSnippetComputeScheduleWrapsASoloStageInItsOwnBand(t *testing.T) {
	ctx := poly.NewContext()
	reg := newTestRegistry()
	i := mustVar(t, reg, "i", 0, 20)
	a := buildCopyStageOverVar(t, ctx, reg, "a", i, 20)

	sn := core.NewSnippet()
	require.NoError(t, sn.AddStage(a))
	require.NoError(t, sn.End())

	tree, err := sn.ComputeSchedule()
	require.NoError(t, err)
	require.Len(t, tree.Root.Children, 1)
	band := tree.Root.Children[0]
	require.Equal(t, poly.NodeBand, band.Kind)
	require.Equal(t, []string{"i"}, band.BandDims)
	require.Len(t, band.Children, 1)
	require.Equal(t, poly.NodeLeaf, band.Children[0].Kind)
}

// TestSnippetComputeScheduleGivesAFusedStageItsOwnInnerBandForUnsharedDims
// covers a matmul fused with a same-shape initializer: `zero_out` only
// ranges over [i,j], `matmul` ranges over [i,j,k]. BuildFusion's shared
// prefix is ["i","j"], but matmul's own reduction dimension k must still
// get a nested Band of its own so BuildAST gives it a real for-loop,
// instead of leaving its Var k unscheduled.
func TestSnippetComputeScheduleGivesAFusedStageItsOwnInnerBandForUnsharedDims(t *testing.T) {
	ctx := poly.NewContext()
	reg := newTestRegistry()
	i := mustVar(t, reg, "i", 0, 20)
	j := mustVar(t, reg, "j", 0, 30)
	k := mustVar(t, reg, "k", 0, 10)

	tmp := ir.NewTensor("tmp", irkind.Float32, []ir.Constant{ir.IntConst(20), ir.IntConst(30)})
	x := ir.NewTensor("x", irkind.Float32, []ir.Constant{ir.IntConst(20), ir.IntConst(10)})
	w := ir.NewTensor("w", irkind.Float32, []ir.Constant{ir.IntConst(10), ir.IntConst(30)})

	zero, err := ir.NewFloatImm(0, irkind.Float32)
	require.NoError(t, err)
	tmpRefZero, err := ir.NewReference(tmp, i)
	require.NoError(t, err)
	_, err = tmpRefZero.Subscript(j)
	require.NoError(t, err)
	zeroAssign, err := ir.NewAssignStmt(tmpRefZero, zero)
	require.NoError(t, err)
	zeroStage, err := core.NewStage(ctx, reg, "zero_out", zeroAssign, core.Polyhedral)
	require.NoError(t, err)

	tmpRef, err := ir.NewReference(tmp, i)
	require.NoError(t, err)
	_, err = tmpRef.Subscript(j)
	require.NoError(t, err)
	xRef, err := ir.NewReference(x, i)
	require.NoError(t, err)
	_, err = xRef.Subscript(k)
	require.NoError(t, err)
	wRef, err := ir.NewReference(w, k)
	require.NoError(t, err)
	_, err = wRef.Subscript(j)
	require.NoError(t, err)
	mul, err := ir.NewMul(xRef, wRef)
	require.NoError(t, err)
	matmulAssign, err := ir.NewSumAssignStmt(tmpRef, mul)
	require.NoError(t, err)
	matmulStage, err := core.NewStage(ctx, reg, "matmul", matmulAssign, core.Polyhedral)
	require.NoError(t, err)

	sn := core.NewSnippet()
	require.NoError(t, sn.AddStage(zeroStage))
	require.NoError(t, sn.AddStage(matmulStage))
	require.NoError(t, sn.End())

	tree, err := sn.ComputeSchedule()
	require.NoError(t, err)
	require.Len(t, tree.Root.Children, 1)
	outer := tree.Root.Children[0]
	require.Equal(t, poly.NodeBand, outer.Kind)
	require.Equal(t, []string{"i", "j"}, outer.BandDims)
	require.Len(t, outer.Children, 2)

	require.Equal(t, poly.NodeLeaf, outer.Children[0].Kind)

	inner := outer.Children[1]
	require.Equal(t, poly.NodeBand, inner.Kind)
	require.Equal(t, []string{"k"}, inner.BandDims)
	require.Len(t, inner.Children, 1)
	require.Equal(t, poly.NodeLeaf, inner.Children[0].Kind)
}

func TestSnippetBuildTilesSplitsTiledDimension(t *testing.T) {
	ctx := poly.NewContext()
	reg := newTestRegistry()
	i := mustVar(t, reg, "i", 0, 20)
	a := buildCopyStageOverVar(t, ctx, reg, "a", i, 20)
	b := buildCopyStageOverVar(t, ctx, reg, "b", i, 20)
	require.NoError(t, a.Tile("i", 4))

	sn := core.NewSnippet()
	require.NoError(t, sn.AddStage(a))
	require.NoError(t, sn.AddStage(b))
	require.NoError(t, sn.End())

	_, err := sn.ComputeSchedule()
	require.NoError(t, err)
	require.NoError(t, sn.BuildTiles())

	band := sn.Tree().Root.Children[0]
	require.Equal(t, []string{"i.outer", "i.inner"}, band.BandDims)
}

func TestSnippetCollectIteratorDomainUnionsAllStages(t *testing.T) {
	ctx := poly.NewContext()
	reg := newTestRegistry()
	i := mustVar(t, reg, "i", 0, 20)
	a := buildCopyStageOverVar(t, ctx, reg, "a", i, 20)
	b := buildCopyStageOverVar(t, ctx, reg, "b", i, 20)

	sn := core.NewSnippet()
	require.NoError(t, sn.AddStage(a))
	require.NoError(t, sn.AddStage(b))

	domain := sn.CollectIteratorDomain()
	require.Len(t, domain.Sets, 2)
}

func TestSnippetCollectTransformsReturnsStagesByName(t *testing.T) {
	ctx := poly.NewContext()
	reg := newTestRegistry()
	i := mustVar(t, reg, "i", 0, 20)
	a := buildCopyStageOverVar(t, ctx, reg, "a", i, 20)

	sn := core.NewSnippet()
	require.NoError(t, sn.AddStage(a))

	transforms := sn.CollectTransforms()
	require.Same(t, a, transforms["a"])
}
