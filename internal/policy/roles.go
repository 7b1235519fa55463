package policy

import (
	"slices"

	"github.com/workflow-admin/workflow-admin/internal/models"
)

// AssignableRoles returns the roles the actor may assign work to or create users with,
// ordered from highest to lowest privilege.
func AssignableRoles(actor *models.Actor) []models.Role {
	if actor == nil {
		return nil
	}

	switch actor.Role {
	case models.RoleAdmin:
		return []models.Role{models.RoleAdmin, models.RoleManager, models.RoleStaff}
	case models.RoleManager:
		return []models.Role{models.RoleManager, models.RoleStaff}
	case models.RoleStaff:
		return []models.Role{models.RoleStaff}
	default:
		return nil
	}
}

// CanAssignRole reports whether role is one of the actor's assignable roles.
func CanAssignRole(actor *models.Actor, role models.Role) bool {
	return slices.Contains(AssignableRoles(actor), role)
}

// VisibleUserRoles returns the roles whose users the actor may list.
func VisibleUserRoles(actor *models.Actor) []models.Role {
	return AssignableRoles(actor)
}

// AssignableUsers narrows users to those the actor may assign work to.
// A non-empty role narrows further to that role, provided it is assignable.
func AssignableUsers(actor *models.Actor, users []models.User, role models.Role) []models.User {
	out := make([]models.User, 0, len(users))

	if role != "" && !CanAssignRole(actor, role) {
		return out
	}

	for _, u := range users {
		if !CanAssignRole(actor, u.Role) {
			continue
		}

		if role != "" && u.Role != role {
			continue
		}

		out = append(out, u)
	}

	return out
}

// DefaultCreateRole returns the preselected role of the create-user form: the
// configured role when the actor may assign it, else the lowest assignable role.
func DefaultCreateRole(actor *models.Actor, configured models.Role) models.Role {
	roles := AssignableRoles(actor)
	if len(roles) == 0 {
		return ""
	}

	if slices.Contains(roles, configured) {
		return configured
	}

	return roles[len(roles)-1]
}
