package model

import "errors"

// ErrNotFound is returned by stores when no row matches the query scope.
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned by UserStore.Create when the unique email
// index rejects the insert.
var ErrDuplicateEmail = errors.New("email already exists")

// ErrorKind discriminates the failure taxonomy surfaced to callers.
type ErrorKind int

const (
	// KindUnexpected covers unclassified failures, mapped to a generic 500.
	KindUnexpected ErrorKind = iota
	// KindValidation covers caller input and business-rule violations.
	KindValidation
	// KindConnection covers transient store unreachability.
	KindConnection
	// KindAuthentication covers missing, malformed or expired tokens.
	KindAuthentication
)

// String returns the wire name of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindConnection:
		return "ConnectionError"
	case KindAuthentication:
		return "AuthenticationError"
	default:
		return "UnexpectedError"
	}
}

// Error carries a classified failure with a user-facing message.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

// Error returns the user-facing message.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewValidationError creates a validation failure with the given message.
func NewValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// NewConnectionError wraps a transient store failure.
func NewConnectionError(message string, err error) *Error {
	return &Error{Kind: KindConnection, Message: message, Err: err}
}

// NewAuthenticationError wraps a token failure.
func NewAuthenticationError(message string, err error) *Error {
	return &Error{Kind: KindAuthentication, Message: message, Err: err}
}

// KindOf classifies an error. Errors outside the taxonomy are KindUnexpected.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnexpected
}

// IsValidationError reports whether err is classified as a validation failure.
func IsValidationError(err error) bool {
	return KindOf(err) == KindValidation
}

// IsConnectionError reports whether err is classified as transient store
// unreachability.
func IsConnectionError(err error) bool {
	return KindOf(err) == KindConnection
}

// IsAuthenticationError reports whether err is classified as a token failure.
func IsAuthenticationError(err error) bool {
	return KindOf(err) == KindAuthentication
}
