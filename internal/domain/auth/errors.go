package auth

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrorKind tags the reason a sign-in attempt did not succeed. Validation
// kinds are resolved inside the form; submission kinds are reported by the
// authenticator.
type ErrorKind string

const (
	KindEmptyIdentifier    ErrorKind = "EMPTY_IDENTIFIER"
	KindEmptySecret        ErrorKind = "EMPTY_SECRET"
	KindInvalidCredentials ErrorKind = "INVALID_CREDENTIALS"
	KindNetworkUnavailable ErrorKind = "NETWORK_UNAVAILABLE"
	KindServerError        ErrorKind = "SERVER_ERROR"
	KindCancelled          ErrorKind = "CANCELLED"
)

// IsValidation reports whether the kind is detected locally by validation.
func (k ErrorKind) IsValidation() bool {
	return k == KindEmptyIdentifier || k == KindEmptySecret
}

// IsSubmission reports whether the kind originates from the authenticator.
func (k ErrorKind) IsSubmission() bool {
	switch k {
	case KindInvalidCredentials, KindNetworkUnavailable, KindServerError, KindCancelled:
		return true
	default:
		return false
	}
}

func (k ErrorKind) String() string {
	return string(k)
}

// Error is the typed failure returned by authenticators.
type Error struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

// Sentinel values usable with errors.Is. Matching compares kinds only.
var (
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials, Message: "invalid credentials"}
	ErrNetworkUnavailable = &Error{Kind: KindNetworkUnavailable, Message: "network unavailable"}
	ErrServer             = &Error{Kind: KindServerError, Message: "server error"}
	ErrCancelled          = &Error{Kind: KindCancelled, Message: "cancelled"}
)

// NewError constructs an Error of the given kind.
func NewError(kind ErrorKind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the wrapped cause for errors.Is / errors.As usage.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is matches any *Error carrying the same kind.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) || e == nil || other == nil {
		return false
	}
	return e.Kind == other.Kind
}

// KindOf classifies an arbitrary error returned by an authenticator. Errors
// that carry no kind are treated as server errors so the form always has
// something to show.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}

	var authErr *Error
	if errors.As(err, &authErr) && authErr != nil {
		return authErr.Kind
	}

	switch {
	case errors.Is(err, context.Canceled):
		return KindCancelled
	case errors.Is(err, context.DeadlineExceeded):
		return KindNetworkUnavailable
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return KindNetworkUnavailable
	}

	return KindServerError
}
