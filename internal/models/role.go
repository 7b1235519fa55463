// Package models contains the records exchanged with the workflow API.
package models

import (
	"errors"
	"strings"
)

// ErrInvalidRole is returned when a role string is not one of the known roles.
var ErrInvalidRole = errors.New("invalid role")

// Role is the privilege tier of a user.
// Roles are totally ordered: ADMIN > MANAGER > STAFF.
type Role string

const (
	// RoleAdmin can see and manage everything.
	RoleAdmin Role = "ADMIN"
	// RoleManager can manage staff and delegate to managers and staff.
	RoleManager Role = "MANAGER"
	// RoleStaff works on what is assigned to them.
	RoleStaff Role = "STAFF"
)

// Roles returns all roles ordered from highest to lowest privilege.
func Roles() []Role {
	return []Role{RoleAdmin, RoleManager, RoleStaff}
}

// ParseRole parses a role name case-insensitively.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", ErrInvalidRole
	}

	return r, nil
}

// Level returns the privilege level of the role. Unknown roles have level 0.
func (r Role) Level() int {
	switch r {
	case RoleAdmin:
		return 3
	case RoleManager:
		return 2
	case RoleStaff:
		return 1
	default:
		return 0
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r.Level() > 0
}

// AtLeast reports whether r is as privileged as o or more.
func (r Role) AtLeast(o Role) bool {
	return r.Valid() && r.Level() >= o.Level()
}

// Label returns a display label, e.g. "Manager".
func (r Role) Label() string {
	if !r.Valid() {
		return string(r)
	}

	s := strings.ToLower(string(r))

	return strings.ToUpper(s[:1]) + s[1:]
}

func (r Role) String() string {
	return string(r)
}
