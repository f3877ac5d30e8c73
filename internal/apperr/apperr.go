package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error by behavior. Component boundaries propagate the
// kind; only the transport layer turns it into a user-facing status and code.
type Kind int

const (
	KindRepository Kind = iota
	KindSheetClosed
	KindDuplicateName
	KindInUse
	KindNotFound
	KindValidation
	KindAuth
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf reports the kind of err, or KindRepository when err carries none.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindRepository
}

func Is(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}

func SheetClosed(state string) *Error {
	return New(KindSheetClosed, "monthly sheet is %s and does not accept changes", state)
}

func DuplicateName(field string) *Error {
	return New(KindDuplicateName, "a record with this %s already exists", field)
}

func InUse(what string, dependents int) *Error {
	return New(KindInUse, "%s is still referenced by %d active record(s)", what, dependents)
}

func NotFound(what string) *Error {
	return New(KindNotFound, "%s not found", what)
}

func Validation(format string, args ...any) *Error {
	return New(KindValidation, format, args...)
}

func Auth(message string) *Error {
	return New(KindAuth, "%s", message)
}

func Repository(err error) *Error {
	return Wrap(KindRepository, err, "storage operation failed")
}
