package fmterr

import (
	"errors"
	"fmt"
)

type (
	// ErrAppender accumulates errors.
	ErrAppender interface {
		// Err returns the accumulator.
		Err() *Appender
	}

	// Subject wraps the fmt.Stringer an Appender attaches to each error
	// it builds (an IR node, a stage name, a snippet name).
	Subject struct {
		Of fmt.Stringer
	}

	// Appender appends errors to a set, tagging each with a subject.
	Appender struct {
		stack   []contextError
		errors  *Errors
		subject Subject
	}
)

// Errorf returns a formatted error attached to this appender's subject.
func (s Subject) Errorf(format string, a ...any) error {
	return Errorf(s.Of, format, a...)
}

// Push a new context in the error stack.
func (app *Appender) Push(f func(error) error) {
	app.stack = append(app.stack, contextError{f: f})
}

// Pop removes the last error context in the stack.
func (app *Appender) Pop() {
	last := app.stack[len(app.stack)-1]
	app.stack = app.stack[:len(app.stack)-1]
	if last.errors.Empty() {
		return
	}
	app.Append(last.f(&last.errors))
}

// Append an error to the list of errors.
func (app *Appender) Append(err error) bool {
	if len(app.stack) == 0 {
		app.errors.Append(err)
	} else {
		app.stack[len(app.stack)-1].errors.Append(err)
	}
	return false
}

// AppendAt appends an existing error attached to a subject.
func (app *Appender) AppendAt(subject fmt.Stringer, err error) bool {
	return app.Append(Attach(subject, err))
}

// Appendf appends a formatted error attached to a subject.
func (app *Appender) Appendf(subject fmt.Stringer, format string, a ...any) bool {
	return app.Append(Errorf(subject, format, a...))
}

// AppendInternalf appends a formatted internal-bug error attached to a subject.
func (app *Appender) AppendInternalf(subject fmt.Stringer, format string, a ...any) bool {
	return app.Append(Internalf(subject, format, a...))
}

// Subject returns this appender's default subject.
func (app *Appender) Subject() Subject {
	return app.subject
}

// For returns an appender scoped to a specific subject.
func (app *Appender) For(subject fmt.Stringer) *SubjectAppender {
	return &SubjectAppender{app: app, subject: subject}
}

// Errors returns the set of errors, or nil if the context stack is
// balanced and nothing has been appended.
func (app *Appender) Errors() *Errors {
	if len(app.stack) > 0 {
		var errs Errors
		errs.Append(Internal(errors.New("cannot fetch errors while the context stack is non-empty")))
		return &errs
	}
	if app.errors.Empty() {
		return nil
	}
	return app.errors
}

// Empty returns true if no errors has been appended.
func (app *Appender) Empty() bool {
	empty := app.errors.Empty()
	if !empty {
		return false
	}
	for _, app := range app.stack {
		if !app.errors.Empty() {
			return false
		}
	}
	return true
}

// String representation of the error.
func (app *Appender) String() string {
	return app.errors.String()
}

// SubjectAppender is an error appender scoped to a given subject.
type SubjectAppender struct {
	app     *Appender
	subject fmt.Stringer
}

// Append appends an error under this appender's subject.
func (sa *SubjectAppender) Append(err error) {
	sa.app.AppendAt(sa.subject, err)
}

// Appendf appends a formatted error under this appender's subject.
func (sa *SubjectAppender) Appendf(format string, a ...any) {
	sa.app.Appendf(sa.subject, format, a...)
}

// AppendInternalf appends a formatted internal-bug error under this
// appender's subject.
func (sa *SubjectAppender) AppendInternalf(format string, a ...any) {
	sa.app.AppendInternalf(sa.subject, format, a...)
}
