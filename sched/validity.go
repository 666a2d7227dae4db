// Package sched lowers a core.Snippet's computed schedule tree into IR:
// the AST-to-IR translation table, statement substitution and schedule
// validity simplification spec.md §4.4/§4.5 describe. core stops at
// producing a *poly.ScheduleTree (Snippet.Tree); sched takes it from
// there, since lowering needs nothing core doesn't already expose and
// keeping it here keeps the ir/poly/core/sched/cinn dependency chain
// acyclic (cinn is the only layer that imports both core and sched).
package sched

import "github.com/cinn-go/cinn/poly"

// ComputeScheduleValidity simplifies a raw dependence map into the
// ordering constraints scheduling actually needs, per spec.md §4.4:
// drop identity dependences (a stage's self-dependence carries no
// ordering information) and drop any pair whose source tuple name is
// already lexicographically >= its target — registration order has
// already placed the source before the target in that case, so the
// constraint is redundant with the Sequence node's existing order.
func ComputeScheduleValidity(deps *poly.UnionMap) *poly.UnionMap {
	if deps == nil {
		return nil
	}
	var kept []*poly.Map
	for _, m := range deps.Maps {
		src, dst := m.InSpace().TupleName(), m.OutSpace().TupleName()
		if src == dst {
			continue
		}
		if src >= dst {
			continue
		}
		kept = append(kept, m)
	}
	return poly.NewUnionMap(kept...)
}
