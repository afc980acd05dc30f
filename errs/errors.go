// Package errs defines the fixed set of error kinds used throughout the
// model core, per the error handling design: resolution errors are fatal
// to load, validation errors during ingest are reported per record.
package errs

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind identifies one of the fixed error categories. None conflates with
// another.
type Kind string

const (
	SchemaViolation  Kind = "SchemaViolation"
	CorruptArchive   Kind = "CorruptArchive"
	UnknownReference Kind = "UnknownReference"
	DuplicateName    Kind = "DuplicateName"
	ColumnConflict   Kind = "ColumnConflict"
	CvCycle          Kind = "CvCycle"
	CvTermNotFound   Kind = "CvTermNotFound"
	PatternInvalid   Kind = "PatternInvalid"
	IOError          Kind = "IOError"
	BackendError     Kind = "BackendError"
)

// Error is the concrete error type carrying a Kind, a human message, an
// optional location (used by SchemaViolation) and an optional wrapped
// cause.
type Error struct {
	Kind     Kind
	Message  string
	Location string
	Cause    error
}

func (e *Error) Error() string {
	if e.Location != "" {
		return fmt.Sprintf("%s: %s (at %s)", e.Kind, e.Message, e.Location)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is allows errors.Is(err, &errs.Error{Kind: errs.SchemaViolation}) style
// kind checks: a target *Error carrying only a Kind (no Message, no
// Location) matches any *Error of that Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == "" && t.Location == ""
}

// New creates an *Error of the given kind.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an *Error of the given kind wrapping cause, adding context
// with github.com/pkg/errors so the original stack trace survives.
func Wrap(kind Kind, cause error, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Cause:   errors.Wrapf(cause, format, args...),
	}
}

// At attaches a schema-reported location to the error and returns it.
func (e *Error) At(location string) *Error {
	e.Location = location
	return e
}

// KindOf returns the Kind of err if it is (or wraps) an *Error, and ok=false
// otherwise.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}
