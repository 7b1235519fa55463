package models

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrInvalidStatus is returned when a status string is not a known workflow status.
var ErrInvalidStatus = errors.New("invalid workflow status")

// Status is the lifecycle state of a workflow.
type Status string

const (
	// StatusPending is the initial state set by the API on creation.
	StatusPending Status = "PENDING"
	// StatusInProgress means the assignee started working on it.
	StatusInProgress Status = "IN_PROGRESS"
	// StatusCompleted is a terminal state.
	StatusCompleted Status = "COMPLETED"
	// StatusRejected is a terminal state. "CANCELLED" is accepted as an alias.
	StatusRejected Status = "REJECTED"

	statusCancelledAlias = "CANCELLED"
)

// Statuses returns all statuses in lifecycle order.
func Statuses() []Status {
	return []Status{StatusPending, StatusInProgress, StatusCompleted, StatusRejected}
}

// ParseStatus parses a status case-insensitively and maps CANCELLED onto REJECTED.
func ParseStatus(s string) (Status, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	if v == statusCancelledAlias {
		return StatusRejected, nil
	}

	st := Status(v)
	if !st.Valid() {
		return "", ErrInvalidStatus
	}

	return st, nil
}

// Valid reports whether s is one of the canonical statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusRejected:
		return true
	default:
		return false
	}
}

// Label returns a display label, e.g. "In Progress".
func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusInProgress:
		return "In Progress"
	case StatusCompleted:
		return "Completed"
	case StatusRejected:
		return "Rejected"
	default:
		return "Unknown"
	}
}

// CSSClass returns the badge class used by the templates.
func (s Status) CSSClass() string {
	if !s.Valid() {
		return "unknown"
	}

	return strings.ToLower(string(s))
}

// UnmarshalJSON normalizes the status spelling. Unknown values are kept verbatim
// so a record is still displayed.
func (s *Status) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	if st, err := ParseStatus(raw); err == nil {
		*s = st
		return nil
	}

	*s = Status(raw)

	return nil
}
