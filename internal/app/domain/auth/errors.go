package auth

import (
	"errors"
	"fmt"
)

// Kind is the closed set of failures the login and identity calls produce.
type Kind int

const (
	// KindCredential: the token endpoint rejected the credentials.
	KindCredential Kind = iota + 1
	// KindNetwork: no response could be obtained from the gateway.
	KindNetwork
	// KindSessionInvalid: the identity lookup failed for a stored token.
	KindSessionInvalid
)

func (k Kind) String() string {
	switch k {
	case KindCredential:
		return "credential"
	case KindNetwork:
		return "network"
	case KindSessionInvalid:
		return "session_invalid"
	default:
		return "unknown"
	}
}

const (
	MsgLoginFailed        = "Login failed"
	MsgNetworkUnreachable = "network unreachable"
	MsgSessionInvalid     = "session is no longer valid"
)

// Error is returned by every Client operation.
type Error struct {
	Kind    Kind
	Message string
	// Status is the HTTP status code when the gateway answered, else 0.
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("auth %s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("auth %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Transient reports whether the failure says nothing about the token itself.
func (e *Error) Transient() bool {
	return e.Kind == KindNetwork || e.Status >= 500
}

// KindOf extracts the Kind of err, or 0 when err is not an *Error.
func KindOf(err error) Kind {
	var authErr *Error
	if errors.As(err, &authErr) {
		return authErr.Kind
	}
	return 0
}

// IsKind reports whether err is an *Error of kind k.
func IsKind(err error, k Kind) bool {
	return KindOf(err) == k
}
