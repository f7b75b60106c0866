package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a failure surfaced to the stores.
type Kind int

const (
	// KindValidation failures are raised before an intent is issued.
	KindValidation Kind = iota + 1
	// KindAuth covers missing, expired or rejected credentials.
	KindAuth
	// KindTransport covers network failures.
	KindTransport
	// KindServer covers non-success responses from the remote API.
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindTransport:
		return "transport"
	case KindServer:
		return "server"
	}
	return "unknown"
}

// Sentinels matched by errors.Is against any *Error of the same kind.
var (
	ErrValidation = errors.New("validation error")
	ErrAuth       = errors.New("authentication error")
	ErrTransport  = errors.New("transport error")
	ErrServer     = errors.New("server error")
)

// MsgInvalidCredentials is the message recorded when a login is rejected.
const MsgInvalidCredentials = "Invalid username or password"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrNoIdentity         = errors.New("no authenticated identity")
	ErrTaskNotFound       = errors.New("task not found")
	ErrForbidden          = errors.New("access forbidden")
	ErrMissingToken       = errors.New("missing access token")
	ErrTokenExpired       = errors.New("access token expired")
	ErrCorruptSession     = errors.New("persisted session is corrupted")
)

// Error is a classified failure with a human-readable message suitable for a
// store's error field.
type Error struct {
	Kind    Kind
	Message string
	// Status is the HTTP status code for KindServer and KindAuth responses, 0 otherwise.
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Err.Error() != e.Message {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the kind sentinel for e.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrValidation:
		return e.Kind == KindValidation
	case ErrAuth:
		return e.Kind == KindAuth
	case ErrTransport:
		return e.Kind == KindTransport
	case ErrServer:
		return e.Kind == KindServer
	}
	return false
}

func newError(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// ValidationError builds a KindValidation error.
func ValidationError(msg string) *Error { return newError(KindValidation, msg, nil) }

// AuthError builds a KindAuth error wrapping cause.
func AuthError(cause error) *Error { return newError(KindAuth, cause.Error(), cause) }

// InvalidCredentials is the KindAuth error returned for a rejected login.
func InvalidCredentials() *Error {
	return newError(KindAuth, MsgInvalidCredentials, ErrInvalidCredentials)
}

// TransportError builds a KindTransport error wrapping cause.
func TransportError(cause error) *Error {
	return newError(KindTransport, "network error: "+cause.Error(), cause)
}

// ServerError builds a KindServer error for an HTTP status. An empty msg falls
// back to a generic description of the status.
func ServerError(status int, msg string) *Error {
	if msg == "" {
		msg = fmt.Sprintf("request failed with status %d", status)
	}
	return &Error{Kind: KindServer, Message: msg, Status: status}
}

// Message extracts the text a store records for err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return err.Error()
}

// KindOf returns the kind of err, treating unclassified errors as server errors.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindServer
}
