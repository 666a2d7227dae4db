package poly

import "go.uber.org/multierr"

// Scope is a LIFO stack of release functions, grounded on the
// teacher's build/fmterr.Errors push/pop shape (base/fmterr/errors.go):
// a caller registers a release function with Defer for each resource it
// acquires, and Close runs them all, in reverse registration order —
// so a deferred Close releases them on every exit path, including
// error paths, per spec.md §5. poly's own constructors take no Scope.
// A release reports failure by returning a non-nil error instead of
// panicking, so one bad
// release never stops the rest of the scope from being torn down.
type Scope struct {
	releases []func() error
}

// NewScope returns an empty Scope.
func NewScope() *Scope {
	return &Scope{}
}

// Defer registers release to run (in LIFO order, alongside every other
// registration) when the Scope is closed.
func (s *Scope) Defer(release func() error) {
	if release == nil {
		return
	}
	s.releases = append(s.releases, release)
}

// Close runs every registered release function in reverse order,
// aggregating every error they return into one via multierr so a
// caller sees every failed release instead of only the first. It is
// idempotent: a second Close is a no-op returning nil.
func (s *Scope) Close() error {
	var errs error
	for i := len(s.releases) - 1; i >= 0; i-- {
		errs = multierr.Append(errs, s.releases[i]())
	}
	s.releases = nil
	return errs
}
