package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrMalformedResponse marks a backend reply that could not be decoded.
var ErrMalformedResponse = errors.New("malformed response body")

// ValidationError is a client-side rejection raised before any network call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// AuthKind distinguishes the three ways login and registration can fail.
type AuthKind int

const (
	// AuthRejected means the backend refused the credentials.
	AuthRejected AuthKind = iota + 1
	// AuthTransport means the request never produced a usable response.
	AuthTransport
	// AuthMalformed means a success envelope lacked credential material.
	AuthMalformed
)

func (k AuthKind) String() string {
	switch k {
	case AuthRejected:
		return "rejected"
	case AuthTransport:
		return "transport"
	case AuthMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// AuthError is returned by login and registration.
type AuthError struct {
	Kind    AuthKind
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AuthError) Unwrap() error { return e.Err }

// NetworkError wraps a transport failure (dial, timeout, unreadable body).
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// NotFoundError is a backend 404.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Resource + " not found"
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// APIError is any other backend failure: success=false or a non-2xx status.
// 401 and 403 land here too; they never evict the session on their own.
// Message holds the backend-provided text and may be empty.
type APIError struct {
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.Status == 0 {
		return msg
	}
	return fmt.Sprintf("%s (status %d)", msg, e.Status)
}

func (e *APIError) Unwrap() error { return e.Err }

// Unauthorized reports whether the backend refused the bearer credential.
func (e *APIError) Unauthorized() bool {
	return e.Status == 401 || e.Status == 403
}

// IsNotFound reports whether err is or wraps a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsNetwork reports whether err is or wraps a NetworkError.
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// IsValidation reports whether err is or wraps a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsAuth reports whether err is or wraps an AuthError.
func IsAuth(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

// AuthKindOf returns the AuthKind carried by err, or 0 when err is not an AuthError.
func AuthKindOf(err error) AuthKind {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return 0
}
