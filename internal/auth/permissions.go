package auth

import (
	"github.com/workflow-admin/workflow-admin/internal/models"
	"github.com/workflow-admin/workflow-admin/internal/policy"
)

// Permission constants name the route level capabilities of the console.
// Record level checks (may this actor edit this workflow) live in policy.
const (
	// PermDashboardView allows viewing the dashboard.
	PermDashboardView = "dashboard.view"

	// PermWorkflowList allows viewing the All Workflows and My Workflows lists.
	PermWorkflowList = "workflow.list"
	// PermWorkflowCreate allows opening the create workflow form.
	PermWorkflowCreate = "workflow.create"
	// PermWorkflowRead allows viewing a workflow's details.
	PermWorkflowRead = "workflow.read"

	// PermUserList allows viewing the Manage Users list.
	PermUserList = "user.list"
	// PermUserCreate allows opening the create user form.
	PermUserCreate = "user.create"
)

func authenticated(actor *models.Actor) bool {
	return actor != nil && actor.Role.Valid()
}

var capabilities = map[string]func(*models.Actor) bool{
	PermDashboardView:  authenticated,
	PermWorkflowList:   authenticated,
	PermWorkflowCreate: func(a *models.Actor) bool { return len(policy.AssignableRoles(a)) > 0 },
	PermWorkflowRead:   authenticated,
	PermUserList:       func(a *models.Actor) bool { return len(policy.VisibleUserRoles(a)) > 0 },
	PermUserCreate:     policy.CanCreateUsers,
}

// HasPermission reports whether the actor holds the permission.
// Unknown permissions are never held.
func HasPermission(actor *models.Actor, permission string) bool {
	check, ok := capabilities[permission]
	if !ok {
		return false
	}

	return check(actor)
}

// HasAnyPermission reports whether the actor holds at least one of the permissions.
func HasAnyPermission(actor *models.Actor, permissions ...string) bool {
	for _, p := range permissions {
		if HasPermission(actor, p) {
			return true
		}
	}

	return false
}

// Permissions returns every permission the actor holds.
func Permissions(actor *models.Actor) map[string]bool {
	out := make(map[string]bool, len(capabilities))

	for name, check := range capabilities {
		if check(actor) {
			out[name] = true
		}
	}

	return out
}
