package ir

import "fmt"

// As downcasts n to its concrete type T, the generic replacement for
// the teacher's per-tag "view as" accessors (spec.md §3's "Tag test:
// query the concrete tag of a handle"). It returns a *TypeAssertionError
// when n's concrete type is not T — a programmer bug, per spec.md §7
// item 4, not a recoverable condition.
func As[T Expr](n Expr) (T, error) {
	if t, ok := n.(T); ok {
		return t, nil
	}
	var zero T
	return zero, newTypeAssertionError(fmt.Sprintf("%T", zero), n.Tag())
}

// Is reports whether n's concrete type is T, without erroring.
func Is[T Expr](n Expr) bool {
	_, ok := n.(T)
	return ok
}
