package fmterr

import (
	"fmt"
	"runtime/debug"

	"github.com/pkg/errors"
)

type (
	// ErrorWithSubject is an error attached to the IR node, stage or
	// snippet that caused it — the "offending expression" spec.md's
	// error taxonomy requires construction errors to carry.
	ErrorWithSubject interface {
		error
		Subject() fmt.Stringer
		Err() error
	}

	errorWithSubject struct {
		subject fmt.Stringer
		err     error
	}
)

// Attach records the subject (offending IR node, stage, ...) that caused err.
func Attach(subject fmt.Stringer, err error) ErrorWithSubject {
	return errorWithSubject{subject: subject, err: err}
}

// Errorf returns a formatted error attached to a subject.
func Errorf(subject fmt.Stringer, format string, a ...any) error {
	return Attach(subject, errors.Errorf(format, a...))
}

// Internal marks an error as an internal bug: a violated invariant that
// should never happen given a valid caller, per spec.md §7 item 1.
func Internal(err error) error {
	return fmt.Errorf("cinn: internal error, this is a bug. Error:\n%+v", err)
}

// Internalf returns a formatted internal-bug error attached to a subject.
func Internalf(subject fmt.Stringer, format string, a ...any) error {
	return Internal(Errorf(subject, format, a...))
}

// Error returns a string description of the error.
func (err errorWithSubject) Error() (s string) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		s = fmt.Sprintf("recovered from panic when building error message: %T:\n%v", err.err, string(debug.Stack()))
	}()
	if err.subject == nil {
		return err.err.Error()
	}
	return SubjectString(err.subject) + " " + err.err.Error()
}

// Unwrap the error.
func (err errorWithSubject) Unwrap() error {
	return err.err
}

// Format writes the error into the state of the formatter.
func (err errorWithSubject) Format(s fmt.State, verb rune) {
	format(err, s, verb)
}

func (err errorWithSubject) Subject() fmt.Stringer {
	return err.subject
}

func (err errorWithSubject) Err() error {
	return err.err
}

// SubjectString returns a subject as a string prefix usable in an error.
func SubjectString(subject fmt.Stringer) string {
	return subject.String() + ":"
}
