package session

import (
	"errors"
	"fmt"

	"github.com/workflow-admin/workflow-admin/internal/apiclient"
)

// Reason tells why a login failed.
type Reason int

const (
	// ReasonInvalidCredentials means the API rejected the credentials.
	ReasonInvalidCredentials Reason = iota + 1
	// ReasonMalformedResponse means the API accepted the login but its answer was unusable.
	ReasonMalformedResponse
	// ReasonNetwork means the API could not be reached.
	ReasonNetwork
	// ReasonServer means the API failed with a server error.
	ReasonServer
)

func (r Reason) String() string {
	switch r {
	case ReasonInvalidCredentials:
		return "invalid credentials"
	case ReasonMalformedResponse:
		return "malformed login response"
	case ReasonNetwork:
		return "network error"
	case ReasonServer:
		return "server error"
	default:
		return "unknown"
	}
}

// AuthError is returned by Store.Login.
type AuthError struct {
	Reason  Reason
	Message string // message supplied by the API, if any
	Err     error
}

func (e *AuthError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("login failed: %s: %s", e.Reason, e.Message)
	}

	return "login failed: " + e.Reason.String()
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

func newAuthError(err error) *AuthError {
	msg, _ := apiclient.ServerMessage(err)
	ae := &AuthError{Message: msg, Err: err}

	var apiErr *apiclient.Error

	switch {
	case errors.Is(err, apiclient.ErrNetwork):
		ae.Reason = ReasonNetwork
	case errors.Is(err, apiclient.ErrMalformedResponse):
		ae.Reason = ReasonMalformedResponse
	case errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500:
		ae.Reason = ReasonInvalidCredentials
	default:
		ae.Reason = ReasonServer
	}

	return ae
}
