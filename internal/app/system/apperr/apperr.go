// Package apperr classifies failures crossing the service boundary.
//
// Services return *Error values carrying a Kind and a message that is safe
// to show a user. The underlying cause, if any, is wrapped for logging and
// never rendered.
package apperr

import (
	"errors"

	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/docstore"
)

// Kind is the category of a failure.
type Kind int

const (
	Internal Kind = iota
	Auth
	Permission
	Validation
	Provisioning
	NotFound
)

func (k Kind) String() string {
	switch k {
	case Auth:
		return "auth"
	case Permission:
		return "permission"
	case Validation:
		return "validation"
	case Provisioning:
		return "provisioning"
	case NotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// GenericMessage is shown when no safe message is available.
const GenericMessage = "Something went wrong. Please try again."

// Error is a classified failure.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error with the same Kind and Msg, so sentinel values
// keep matching after they are wrapped with a cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Msg == e.Msg
}

// New returns an Error with no cause.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap attaches cause to an Error of the given kind.
func Wrap(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: cause}
}

// With returns a copy of sentinel carrying cause.
func With(sentinel *Error, cause error) *Error {
	return &Error{Kind: sentinel.Kind, Msg: sentinel.Msg, Err: cause}
}

// KindOf returns the Kind of the first *Error in err's chain, or Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Message returns the user-safe message for err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Msg != "" {
		return e.Msg
	}
	return GenericMessage
}

// FromStore classifies a document store failure. Permission denial gets a
// generic message so backend detail never reaches the user; a missing
// document becomes NotFound; anything else is Internal with msg.
func FromStore(err error, msg string) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	switch {
	case errors.Is(err, docstore.ErrPermissionDenied):
		return Wrap(Permission, "You do not have permission to perform this action.", err)
	case errors.Is(err, docstore.ErrNotFound):
		return Wrap(NotFound, "Not found.", err)
	}
	return Wrap(Internal, msg, err)
}
