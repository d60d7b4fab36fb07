package client

import (
	"errors"
	"fmt"
)

// ErrInvalidCredentials is returned by Login when the server rejects the
// email/password pair. It is the only authentication error the contract
// distinguishes.
var ErrInvalidCredentials = errors.New("invalid credentials")

type FetchErrorKind int

const (
	NetworkFailure FetchErrorKind = iota
	NotFound
	Unauthorized
)

func (k FetchErrorKind) String() string {
	switch k {
	case NetworkFailure:
		return "network failure"
	case NotFound:
		return "not found"
	case Unauthorized:
		return "unauthorized"
	default:
		return "unknown"
	}
}

// FetchError is returned by read operations. Op names the failed fetch so
// callers can degrade per slice of view state instead of failing the view.
type FetchError struct {
	Kind FetchErrorKind
	Op   string
	Err  error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsFetchKind reports whether err is a FetchError of the given kind.
func IsFetchKind(err error, kind FetchErrorKind) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == kind
}

type MutationReason int

const (
	// ValidationFailed means the request never left the process: a field
	// failed local validation.
	ValidationFailed MutationReason = iota
	// ServerRejected means the server answered with a non-2xx status.
	ServerRejected
)

// MutationError is returned by mutating operations. Field is set only for
// ValidationFailed, Message carries the server's message for ServerRejected.
type MutationError struct {
	Reason  MutationReason
	Field   string
	Message string
}

func (e *MutationError) Error() string {
	if e.Reason == ValidationFailed {
		return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("server rejected: %s", e.Message)
}

// NewValidationError builds the MutationError for a locally rejected field.
func NewValidationError(field, message string) *MutationError {
	return &MutationError{Reason: ValidationFailed, Field: field, Message: message}
}
