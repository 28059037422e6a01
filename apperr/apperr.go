// Package apperr defines the unified error taxonomy shared by all
// services. Each service operation fails with exactly one kinded error;
// the transport layer maps kinds to HTTP status codes.
package apperr

import "errors"

// Kind classifies an error for transport mapping.
type Kind int

const (
	// KindInternal is an unexpected store or runtime failure. Details are
	// logged server-side and never returned to the caller.
	KindInternal Kind = iota

	// KindValidation is malformed or missing input.
	KindValidation

	// KindAuth is a bad, missing, or expired credential, or a bad login.
	KindAuth

	// KindForbidden is an authenticated caller not authorized for the entity.
	KindForbidden

	// KindNotFound is an entity id that does not resolve.
	KindNotFound

	// KindConflict is a uniqueness violation.
	KindConflict
)

// Error is a kinded error carrying a caller-safe message and an optional
// wrapped cause.
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

// Validation builds a KindValidation error.
func Validation(message string) error {
	return &Error{Kind: KindValidation, Message: message}
}

// Auth builds a KindAuth error.
func Auth(message string) error {
	return &Error{Kind: KindAuth, Message: message}
}

// Forbidden builds a KindForbidden error.
func Forbidden(message string) error {
	return &Error{Kind: KindForbidden, Message: message}
}

// NotFound builds a KindNotFound error.
func NotFound(message string) error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Conflict builds a KindConflict error.
func Conflict(message string) error {
	return &Error{Kind: KindConflict, Message: message}
}

// Internal wraps an unexpected failure. The message returned to callers
// is always generic; cause detail stays server-side.
func Internal(err error) error {
	return &Error{Kind: KindInternal, Message: "internal error", Err: err}
}

// KindOf extracts the kind of err. Errors outside the taxonomy are
// treated as internal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// MessageOf extracts the caller-safe message of err.
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal error"
}
