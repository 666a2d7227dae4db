package sched

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/cinn-go/cinn/core"
	"github.com/cinn-go/cinn/ir"
	"github.com/cinn-go/cinn/poly"
)

// BuildScheduleTree drives a Snippet through the fusion/schedule/tile
// pipeline spec.md §4.4 names (BuildFusion -> ComputeSchedule ->
// BuildTiles), returning the tree sched.Lower then walks. Snippet
// already implements the grouping algorithm (core.Snippet.ComputeSchedule's
// doc comment); this is just the ordered call sched.BuildScheduleTree
// names in SPEC_FULL.md §4.5.
func BuildScheduleTree(sn *core.Snippet) (*poly.ScheduleTree, error) {
	if _, err := sn.ComputeSchedule(); err != nil {
		return nil, err
	}
	if err := sn.BuildTiles(); err != nil {
		return nil, err
	}
	return sn.Tree(), nil
}

// Lower translates a Snippet's schedule tree into a single ir.Expr,
// following spec.md §4.5's documented two-phase process: first a raw
// AST-to-IR translation (every Leaf becomes a Call placeholder naming
// its stage), then statement substitution, replacing each Call with a
// deep copy of its stage's body, its original loop references rewritten
// to the scheduled index expressions recorded in the Stage's IndexMap.
func Lower(reg ir.NameRegistry, sn *core.Snippet) (ir.Expr, error) {
	tree := sn.Tree()
	if tree == nil {
		var err error
		tree, err = BuildScheduleTree(sn)
		if err != nil {
			return nil, err
		}
	}
	stages := sn.CollectTransforms()

	cache := newVarCache(reg, stages)
	ast := tree.BuildAST(atEachDomain(cache), stageByName(stages))

	raw, err := astToIR(ast, cache)
	if err != nil {
		return nil, err
	}
	return substitute(raw, stages)
}

// substitute performs spec.md §4.5's statement-substitution phase,
// replacing every Call(stageName) leaf astToIR produced with a
// deep-copied, index-rewritten instance of that stage's body.
func substitute(n ir.Expr, stages stageByName) (ir.Expr, error) {
	var werr error
	out := ir.Mutate(n, func(e ir.Expr) (ir.Expr, bool) {
		if werr != nil {
			return nil, true
		}
		call, ok := e.(*ir.Call)
		if !ok {
			return nil, false
		}
		stage, ok := stages[call.Callee]
		if !ok {
			werr = errors.Errorf("sched: no stage named %q to substitute", call.Callee)
			return nil, true
		}
		indexMap := stage.IndexMap()
		body := ir.Copy(stage.Expr)
		body = ir.Mutate(body, func(inner ir.Expr) (ir.Expr, bool) {
			v, ok := inner.(*ir.Var)
			if !ok {
				return nil, false
			}
			repl, ok := indexMap[v.Name]
			if !ok {
				return nil, false
			}
			return ir.Copy(repl), true
		})
		guarded, gerr := guardBody(body, stage.Guards())
		if gerr != nil {
			werr = gerr
			return nil, true
		}
		return guarded, true
	})
	if werr != nil {
		return nil, werr
	}
	return out, nil
}

// guardBody wraps body in a single IfThenElse on the remainder guards
// stage carries (Scenario 4's partial-tile boundary check), ANDing them
// together, in dimension-name order, when a stage has more than one
// tiled, unevenly-divided dimension. A stage with no guards returns
// body unchanged.
func guardBody(body ir.Expr, guards map[string]ir.Expr) (ir.Expr, error) {
	if len(guards) == 0 {
		return body, nil
	}
	names := make([]string, 0, len(guards))
	for name := range guards {
		names = append(names, name)
	}
	sort.Strings(names)
	cond := guards[names[0]]
	for _, name := range names[1:] {
		var err error
		cond, err = ir.NewAnd(cond, guards[name])
		if err != nil {
			return nil, err
		}
	}
	return ir.NewIfThenElse(cond, body, nil)
}
