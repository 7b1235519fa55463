package policy

import (
	"github.com/workflow-admin/workflow-admin/internal/models"
)

// CanManageUser reports whether the actor may edit the target's profile.
func CanManageUser(actor *models.Actor, target *models.User) bool {
	if actor == nil || target == nil {
		return false
	}

	switch {
	case actor.Is(target.ID):
		return true
	case actor.Role == models.RoleAdmin:
		return true
	case actor.Role == models.RoleManager:
		return target.Role == models.RoleStaff
	default:
		return false
	}
}

// CanDeleteUser is CanManageUser without self-deletion.
func CanDeleteUser(actor *models.Actor, target *models.User) bool {
	if actor == nil || target == nil || actor.Is(target.ID) {
		return false
	}

	return CanManageUser(actor, target)
}

// CanChangeRole reports whether the actor may change the target's role.
// Only administrators change roles, and never their own.
func CanChangeRole(actor *models.Actor, target *models.User) bool {
	if actor == nil || target == nil {
		return false
	}

	return actor.Role == models.RoleAdmin && !actor.Is(target.ID)
}

// CanCreateUsers reports whether the actor may open the create-user form.
func CanCreateUsers(actor *models.Actor) bool {
	return actor != nil && actor.Role.AtLeast(models.RoleManager)
}

// UserPermissions is the permission set of an actor on one user.
type UserPermissions struct {
	Manage     bool
	Delete     bool
	ChangeRole bool
}

// ForUser evaluates all user predicates at once.
func ForUser(actor *models.Actor, target *models.User) UserPermissions {
	return UserPermissions{
		Manage:     CanManageUser(actor, target),
		Delete:     CanDeleteUser(actor, target),
		ChangeRole: CanChangeRole(actor, target),
	}
}
