// Package fmterr provides helpers to accumulate and format errors raised
// while compiling a tensor program. ir attaches a described subject to
// each invalid-construction error through it, and core collects every
// failed Reference domain of a Stage in one Errors so that they are
// reported together, not just the first. Infeasible schedules, duplicate
// names, bad downcasts and polyhedral-bridge parser rejections are
// returned as their own error types and do not pass through here.
package fmterr

import "fmt"

// PrefixWith returns a function that prefixes an error with a formatted
// string, for use with Errors.Transform.
func PrefixWith(s string, o ...any) func(err error) error {
	return func(err error) error {
		return fmt.Errorf("%s%w", fmt.Sprintf(s, o...), err)
	}
}

// SubjectPrefixWith returns a function that prefixes an error with the
// string form of the offending subject (an IR node, a stage name, ...).
func SubjectPrefixWith(subject fmt.Stringer, s string, o ...any) func(err error) error {
	return func(err error) error {
		return fmt.Errorf("%s: %s%w", subject, fmt.Sprintf(s, o...), err)
	}
}
