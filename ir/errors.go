package ir

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/cinn-go/cinn/base/fmterr"
)

// ConstructionError reports a violated invariant at IR construction time
// (spec.md §7 item 1): a programmer bug, not recoverable. It carries the
// offending tag and a description of the subject that violated its
// precondition.
type ConstructionError struct {
	Tag       Tag
	Subject   string
	Violation string
	cause     error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("cinn: invalid %s construction for %s: %s", e.Tag, e.Subject, e.Violation)
}

func (e *ConstructionError) Unwrap() error { return e.cause }

func newConstructionError(tag Tag, subject, violation string) error {
	err := &ConstructionError{Tag: tag, Subject: subject, Violation: violation}
	err.cause = errors.New(violation)
	return fmterr.Attach(described(subject), err)
}

// DowncastError reports accessing a node as the wrong tag (spec.md §7
// item 4): abort, it is a programmer bug.
type DowncastError struct {
	Wanted, Got Tag
}

func (e *DowncastError) Error() string {
	return fmt.Sprintf("cinn: cannot view a %s node as %s", e.Got, e.Wanted)
}

func newDowncastError(wanted, got Tag) error {
	return &DowncastError{Wanted: wanted, Got: got}
}

// TypeAssertionError reports a failed ir.As[T] downcast: the handle's
// concrete tag does not match the Go type requested.
type TypeAssertionError struct {
	Wanted string
	Got    Tag
}

func (e *TypeAssertionError) Error() string {
	return fmt.Sprintf("cinn: cannot view a %s node as %s", e.Got, e.Wanted)
}

func newTypeAssertionError(wanted string, got Tag) error {
	return &TypeAssertionError{Wanted: wanted, Got: got}
}
