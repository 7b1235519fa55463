package apiclient

import (
	"errors"
	"fmt"
)

// Kind classifies a failed API call.
type Kind int

const (
	// KindServer is any other non-2xx response.
	KindServer Kind = iota
	// KindAuthExpired is a 401 response or a missing or expired token.
	KindAuthExpired
	// KindForbidden is a 403 response.
	KindForbidden
	// KindNotFound is a 404 response.
	KindNotFound
	// KindNetwork means no response was received.
	KindNetwork
	// KindMalformedResponse means a 2xx response body could not be decoded.
	KindMalformedResponse
)

var (
	// ErrAuthExpired matches errors of KindAuthExpired.
	ErrAuthExpired = errors.New("authentication expired")
	// ErrForbidden matches errors of KindForbidden.
	ErrForbidden = errors.New("permission denied")
	// ErrNotFound matches errors of KindNotFound.
	ErrNotFound = errors.New("not found")
	// ErrNetwork matches errors of KindNetwork.
	ErrNetwork = errors.New("api unreachable")
	// ErrMalformedResponse matches errors of KindMalformedResponse.
	ErrMalformedResponse = errors.New("malformed api response")
	// ErrServer matches errors of KindServer.
	ErrServer = errors.New("api request failed")
)

var kindSentinels = map[Kind]error{
	KindServer:            ErrServer,
	KindAuthExpired:       ErrAuthExpired,
	KindForbidden:         ErrForbidden,
	KindNotFound:          ErrNotFound,
	KindNetwork:           ErrNetwork,
	KindMalformedResponse: ErrMalformedResponse,
}

// Error is returned by every failed API call.
type Error struct {
	Kind       Kind
	StatusCode int    // 0 when no response was received
	Message    string // the "message" field of the response body, if any
	Method     string
	Path       string
	Err        error
}

func (e *Error) Error() string {
	msg := kindSentinels[e.Kind].Error()

	switch {
	case e.Message != "":
		msg = fmt.Sprintf("%s: %s", msg, e.Message)
	case e.Err != nil:
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}

	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s (%d): %s", e.Method, e.Path, e.StatusCode, msg)
	}

	return fmt.Sprintf("%s %s: %s", e.Method, e.Path, msg)
}

// Is matches the sentinel error of the same kind.
func (e *Error) Is(target error) bool {
	return kindSentinels[e.Kind] == target
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ServerMessage returns the message the API attached to the error, if any.
func ServerMessage(err error) (string, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message, true
	}

	return "", false
}

func kindForStatus(code int) Kind {
	switch code {
	case 401:
		return KindAuthExpired
	case 403:
		return KindForbidden
	case 404:
		return KindNotFound
	default:
		return KindServer
	}
}
