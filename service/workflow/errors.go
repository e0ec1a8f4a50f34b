package workflow

import (
	"errors"
	"fmt"
	"strings"

	"github.com/viant/auditflow/service/dao"
)

// Error kinds. Every error returned by a workflow operation unwraps to one
// of these, so callers branch with errors.Is.
var (
	// ErrPermission reports that the identity may not perform the operation.
	ErrPermission = errors.New("permission denied")
	// ErrInvalidState reports that the record's status does not allow the transition.
	ErrInvalidState = errors.New("invalid state")
	// ErrValidation reports missing or malformed input.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound reports an unknown identifier; it also matches dao.ErrNotFound.
	ErrNotFound error = notFoundError{}
	// ErrMissingDependency reports a review of an NCAR without an action plan.
	ErrMissingDependency = errors.New("missing dependency")
	// ErrConflict reports a stale expected version.
	ErrConflict = errors.New("version conflict")
)

type notFoundError struct{}

func (notFoundError) Error() string { return "not found" }

func (notFoundError) Is(target error) bool { return target == dao.ErrNotFound }

// Error describes a rejected workflow operation.
type Error struct {
	Op     string
	ID     string
	Kind   error
	Detail string
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.ID != "" {
		b.WriteString(" ")
		b.WriteString(e.ID)
	}
	b.WriteString(": ")
	b.WriteString(e.Kind.Error())
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Kind }

func newError(op, id string, kind error, format string, args ...interface{}) *Error {
	detail := format
	if len(args) > 0 {
		detail = fmt.Sprintf(format, args...)
	}
	return &Error{Op: op, ID: id, Kind: kind, Detail: detail}
}

// KindOf returns the error kind of err, or nil when err is not a workflow error.
func KindOf(err error) error {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return nil
}
