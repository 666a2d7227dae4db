package sched

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/cinn-go/cinn/core"
	"github.com/cinn-go/cinn/ir"
	"github.com/cinn-go/cinn/ir/irkind"
	"github.com/cinn-go/cinn/poly"
)

// stageByName indexes a snippet's stages, the user payload threaded
// through a poly.ScheduleTree.BuildAST walk.
type stageByName = map[string]*core.Stage

// varCache hands out one *ir.Var per iterator name seen during a
// lowering pass, shared between the AtEachDomainFunc callback (which
// needs it to build a Stage's IndexMap) and astToIR's AstFor case
// (which needs the same Var instance as the loop's Iter field). A plain
// (unfused, untiled) iterator reuses the Var a Stage's body already
// references — it is already registered under that name, and For's
// iterator must be the very Var the body's References read, not a
// fresh one sharing its name. Only a tile-introduced name like
// "i.outer"/"i.inner", never seen by any stage body, needs NewVar.
type varCache struct {
	reg   ir.NameRegistry
	known map[string]*ir.Var
	vars  map[string]*ir.Var
}

func newVarCache(reg ir.NameRegistry, stages stageByName) *varCache {
	known := map[string]*ir.Var{}
	for _, st := range stages {
		for _, v := range ir.Collect[*ir.Var](st.Expr) {
			known[v.Name] = v
		}
	}
	return &varCache{reg: reg, known: known, vars: map[string]*ir.Var{}}
}

func (c *varCache) get(name string, iv ir.Interval) (*ir.Var, error) {
	if v, ok := c.vars[name]; ok {
		return v, nil
	}
	if v, ok := c.known[name]; ok {
		c.vars[name] = v
		return v, nil
	}
	v, err := ir.NewVar(c.reg, name, irkind.Int32, iv)
	if err != nil {
		return nil, err
	}
	c.vars[name] = v
	return v, nil
}

// atEachDomain is the AtEachDomainFunc invoked once per schedule leaf
// while building the AST. It pulls back the enclosing band iterators
// into the owning Stage's IndexMap (spec.md §4.4's "pulling back
// through the iterator map"), the data statement substitution needs to
// rewrite a Stage's original loop references into scheduled indices.
func atEachDomain(cache *varCache) poly.AtEachDomainFunc {
	return func(node *poly.AstNode, build *poly.ASTBuild, user any) *poly.AstNode {
		stages, _ := user.(stageByName)
		if stages == nil || node.Domain == nil {
			return node
		}
		stage, ok := stages[node.Domain.TupleName()]
		if !ok {
			return node
		}
		indexMap := map[string]ir.Expr{}
		guards := map[string]ir.Expr{}
		for i := 0; i < stage.Domain.NumDims(); i++ {
			name := stage.Domain.DimName(i)
			bound := stage.Domain.Bound(i)
			if contains(build.Iterators, name) {
				v, err := cache.get(name, bound)
				if err != nil {
					continue
				}
				indexMap[name] = v
				continue
			}
			if !contains(build.Iterators, name+".outer") || !contains(build.Iterators, name+".inner") {
				continue
			}
			width, tiled := tileWidth(stages, name)
			if !tiled {
				continue
			}
			expr, err := tiledIndexExpr(cache, name, width, bound)
			if err != nil {
				continue
			}
			indexMap[name] = expr
			if guard, needed, err := remainderGuard(expr, width, bound); err == nil && needed {
				guards[name] = guard
			}
		}
		stage.SetIndexMap(indexMap)
		stage.SetGuards(guards)
		return node
	}
}

// tiledIndexExpr builds "outer*width + inner" for a dimension BuildTiles
// split into "<name>.outer"/"<name>.inner", sizing the outer loop's
// bound from the original extent when it is a literal (symbolic extents
// fall back to the inner loop's own width as a conservative bound).
func tiledIndexExpr(cache *varCache, name string, width int, bound ir.Interval) (ir.Expr, error) {
	innerIv := ir.NewInterval(ir.IntConst(0), ir.IntConst(int64(width)))
	outerUpper := ir.IntConst(int64(width))
	if bound.Lower.ValueSet && bound.Upper.ValueSet {
		extent := bound.Upper.Value - bound.Lower.Value
		outerUpper = ir.IntConst((extent + int64(width) - 1) / int64(width))
	}
	outerIv := ir.NewInterval(ir.IntConst(0), outerUpper)

	outer, err := cache.get(name+".outer", outerIv)
	if err != nil {
		return nil, err
	}
	inner, err := cache.get(name+".inner", innerIv)
	if err != nil {
		return nil, err
	}
	widthImm, err := ir.NewIntImm(int64(width), irkind.Int32)
	if err != nil {
		return nil, err
	}
	mul, err := ir.NewMul(outer, widthImm)
	if err != nil {
		return nil, err
	}
	return ir.NewAdd(mul, inner)
}

// remainderGuard reports whether name's tile width divides its extent
// evenly. When it does not, the last, partial tile's inner iterations
// run past the dimension's original upper bound unless guarded
// (SPEC_FULL.md §8 Scenario 4); in that case it returns the guard
// condition (the already-built scheduled index, expr, compared against
// the original literal upper bound) and needed=true. A symbolic bound
// cannot be checked for divisibility at schedule-build time, so it is
// left unguarded (needed=false), matching tiledIndexExpr's own
// conservative fallback for a symbolic extent.
func remainderGuard(expr ir.Expr, width int, bound ir.Interval) (guard ir.Expr, needed bool, err error) {
	if !bound.Lower.ValueSet || !bound.Upper.ValueSet {
		return nil, false, nil
	}
	extent := bound.Upper.Value - bound.Lower.Value
	if extent%int64(width) == 0 {
		return nil, false, nil
	}
	upper, err := ir.NewIntImm(bound.Upper.Value, irkind.Int32)
	if err != nil {
		return nil, false, err
	}
	guard, err = ir.NewLT(expr, upper)
	if err != nil {
		return nil, false, err
	}
	return guard, true, nil
}

// tileWidth looks up the tile width declared for dim across every stage
// in the snippet, since BuildTiles splits a band dimension once all its
// stages share it even when only one of them called Stage.Tile.
func tileWidth(stages stageByName, dim string) (int, bool) {
	for _, st := range stages {
		if w, ok := st.Tiles[dim]; ok {
			return w, true
		}
	}
	return 0, false
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

// astToIR translates a poly.AstNode into ir.Expr, following spec.md
// §4.5's translation table: block -> Block, for -> For, if -> IfThenElse,
// user -> Call (resolved against the named stage during statement
// substitution, not here), mark -> Block([Mark, child]).
func astToIR(node *poly.AstNode, cache *varCache) (ir.Expr, error) {
	switch node.Kind {
	case poly.AstBlock:
		children := make([]ir.Expr, len(node.Children))
		for i, c := range node.Children {
			child, err := astToIR(c, cache)
			if err != nil {
				return nil, err
			}
			children[i] = child
		}
		return ir.NewBlock(children), nil

	case poly.AstFor:
		v, ok := cache.vars[node.Iterator]
		if !ok {
			return nil, errors.Errorf("sched: no iterator var cached for %q (AtEachDomainFunc must run before translation)", node.Iterator)
		}
		lower, err := constantExpr(v.Interval.Lower)
		if err != nil {
			return nil, err
		}
		upper, err := constantExpr(v.Interval.Upper)
		if err != nil {
			return nil, err
		}
		cond, err := ir.NewLT(v, upper)
		if err != nil {
			return nil, err
		}
		one, err := ir.NewIntImm(1, irkind.Int32)
		if err != nil {
			return nil, err
		}
		if len(node.Children) != 1 {
			return nil, errors.Errorf("sched: for node %q must have exactly one body child, got %d", node.Iterator, len(node.Children))
		}
		body, err := astToIR(node.Children[0], cache)
		if err != nil {
			return nil, err
		}
		return ir.NewFor(lower, cond, one, body, v)

	case poly.AstIf:
		cond, err := parseCondExpr(node.Cond, cache)
		if err != nil {
			return nil, err
		}
		if len(node.Children) == 0 {
			return nil, errors.Errorf("sched: if node has no then-branch")
		}
		then, err := astToIR(node.Children[0], cache)
		if err != nil {
			return nil, err
		}
		var els ir.Expr
		if len(node.Children) > 1 {
			els, err = astToIR(node.Children[1], cache)
			if err != nil {
				return nil, err
			}
		}
		return ir.NewIfThenElse(cond, then, els)

	case poly.AstUser:
		return ir.NewCall(node.Domain.TupleName(), ir.VoidType, nil)

	case poly.AstMark:
		mark := ir.NewMark(node.MarkID)
		var child ir.Expr = mark
		if len(node.Children) > 0 {
			body, err := astToIR(node.Children[0], cache)
			if err != nil {
				return nil, err
			}
			child = ir.NewBlock([]ir.Expr{mark, body})
		}
		return child, nil

	default:
		return nil, errors.Errorf("sched: unknown ast node kind %v", node.Kind)
	}
}

func constantExpr(c ir.Constant) (ir.Expr, error) {
	if c.ValueSet {
		return ir.NewIntImm(c.Value, irkind.Int32)
	}
	return ir.NewConstantExpr(c, irkind.Int32), nil
}

// relOpRe recognises the single relational operator in a cond string
// built from an ISL-style box constraint, e.g. "i < 20".
var relOpRe = regexp.MustCompile(`<=|<|>=|>|==`)

// parseCondExpr translates an AstIf's textual condition into ir.Expr.
// This bridge never itself produces AstIf nodes (BuildAST only emits
// Block/For/User from the Sequence/Band/Leaf shapes core.Snippet
// builds) but the translation table is kept total per spec.md §4.5.
func parseCondExpr(cond string, cache *varCache) (ir.Expr, error) {
	op := relOpRe.FindString(cond)
	if op == "" {
		return nil, errors.Errorf("sched: unsupported condition %q", cond)
	}
	parts := strings.SplitN(cond, op, 2)
	lhs, err := condOperand(strings.TrimSpace(parts[0]), cache)
	if err != nil {
		return nil, err
	}
	rhs, err := condOperand(strings.TrimSpace(parts[1]), cache)
	if err != nil {
		return nil, err
	}
	switch op {
	case "<=":
		return ir.NewLE(lhs, rhs)
	case "<":
		return ir.NewLT(lhs, rhs)
	case ">=":
		return ir.NewGE(lhs, rhs)
	case ">":
		return ir.NewGT(lhs, rhs)
	default:
		return ir.NewEQ(lhs, rhs)
	}
}

func condOperand(s string, cache *varCache) (ir.Expr, error) {
	if v, ok := cache.vars[s]; ok {
		return v, nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ir.NewIntImm(n, irkind.Int32)
	}
	return nil, errors.Errorf("sched: unknown identifier %q in condition", s)
}
