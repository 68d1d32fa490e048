package model

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a command was rejected.
type ErrorKind int

const (
	AuthorizationError ErrorKind = iota + 1
	ValidationError
	NotFoundError
	StateError
	StreamTruncationError
)

func (k ErrorKind) String() string {
	switch k {
	case AuthorizationError:
		return "authorization"
	case ValidationError:
		return "validation"
	case NotFoundError:
		return "not_found"
	case StateError:
		return "state"
	case StreamTruncationError:
		return "truncated"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is against an *Error of the matching kind.
var (
	ErrUnauthorized = errors.New("not authorized")
	ErrInvalid      = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrState        = errors.New("invalid session state")
	ErrTruncated    = errors.New("command stream truncated")
)

// Error is a rejected command. Msg is the text shown on the console.
type Error struct {
	Kind  ErrorKind
	Check string // name of the failed check, empty when not a validation
	Msg   string
}

func (e *Error) Error() string {
	return e.Msg
}

// Unwrap exposes the sentinel for the error's kind.
func (e *Error) Unwrap() error {
	switch e.Kind {
	case AuthorizationError:
		return ErrUnauthorized
	case ValidationError:
		return ErrInvalid
	case NotFoundError:
		return ErrNotFound
	case StateError:
		return ErrState
	case StreamTruncationError:
		return ErrTruncated
	}
	return nil
}

// Unauthorized builds an AuthorizationError.
func Unauthorized(format string, args ...any) *Error {
	return &Error{Kind: AuthorizationError, Msg: fmt.Sprintf(format, args...)}
}

// Invalid builds a ValidationError for the named check.
func Invalid(check string, format string, args ...any) *Error {
	return &Error{Kind: ValidationError, Check: check, Msg: fmt.Sprintf(format, args...)}
}

// NotFound builds a NotFoundError.
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: NotFoundError, Msg: fmt.Sprintf(format, args...)}
}

// BadState builds a StateError.
func BadState(format string, args ...any) *Error {
	return &Error{Kind: StateError, Msg: fmt.Sprintf(format, args...)}
}

// Truncated builds a StreamTruncationError for a command that ran out of tokens.
func Truncated(command string, want, got int) *Error {
	return &Error{
		Kind: StreamTruncationError,
		Msg:  fmt.Sprintf("Missing arguments for %s: need %d, have %d.", command, want, got),
	}
}

// KindOf returns the ErrorKind of err, or 0 when err is not an *Error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
