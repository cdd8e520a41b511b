// Package fault defines the typed failure taxonomy shared by the booking,
// availability and payment services. Handlers translate codes to HTTP
// statuses; repositories never return these directly.
package fault

import (
	"errors"
	"fmt"
)

type Code string

const (
	// NotFound: a referenced booking, provider, package or time slot does not exist.
	NotFound Code = "notFound"
	// Forbidden: the actor lacks the role or ownership the operation requires.
	Forbidden Code = "forbidden"
	// InvalidState: the operation is not permitted from the entity's current state.
	InvalidState Code = "invalidState"
	// Conflict: the interval overlaps an active booking or blocked date, or a
	// payment would exceed the outstanding balance.
	Conflict Code = "conflict"
	// Validation: malformed input (bad time range, duration out of 1-8, negative amounts).
	Validation Code = "validationError"
)

type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap keeps the underlying cause reachable through errors.Is/As while
// presenting a coded message to the caller.
func Wrap(code Code, message string, cause error) error {
	return &Error{Code: code, Message: message, cause: cause}
}

// CodeOf extracts the taxonomy code from err, or "" if err is untyped.
func CodeOf(err error) Code {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return ""
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	return CodeOf(err) == code
}
