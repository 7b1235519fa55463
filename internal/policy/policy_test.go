package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/workflow-admin/workflow-admin/internal/models"
)

func actor(id models.ID, role models.Role) *models.Actor {
	return &models.Actor{ID: id, Name: string(id), Email: string(id) + "@example.com", Role: role}
}

func workflow(creator, assignee models.ID) *models.Workflow {
	return &models.Workflow{
		ID:       "wf",
		Title:    "Send Invoice",
		Creator:  models.Identity{ID: creator},
		Assignee: models.Identity{ID: assignee},
	}
}

func TestWorkflowPredicates(t *testing.T) {
	tests := []struct {
		name       string
		actor      *models.Actor
		wf         *models.Workflow
		editAll    bool
		editStatus bool
		del        bool
	}{
		{"staff creator", actor("42", models.RoleStaff), workflow("42", "99"), true, true, true},
		{"staff assignee", actor("42", models.RoleStaff), workflow("7", "42"), false, true, false},
		{"staff unrelated", actor("42", models.RoleStaff), workflow("7", "8"), false, false, false},
		{"manager unrelated", actor("1", models.RoleManager), workflow("7", "8"), false, false, false},
		{"admin unrelated", actor("1", models.RoleAdmin), workflow("7", "8"), true, true, true},
		{"nil actor", nil, workflow("7", "8"), false, false, false},
		{"nil workflow", actor("1", models.RoleAdmin), nil, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.editAll, CanEditAllWorkflowFields(tt.actor, tt.wf))
			assert.Equal(t, tt.editStatus, CanUpdateWorkflowStatus(tt.actor, tt.wf))
			assert.Equal(t, tt.del, CanDeleteWorkflow(tt.actor, tt.wf))
		})
	}
}

func TestWorkflowPredicates_FlatReferenceByEmail(t *testing.T) {
	a := actor("42", models.RoleStaff)
	wf := &models.Workflow{
		Creator:  models.Identity{ID: "someone@example.com", Username: "someone@example.com"},
		Assignee: models.Identity{ID: "42@example.com", Username: "42@example.com"},
	}

	assert.False(t, CanEditAllWorkflowFields(a, wf))
	assert.True(t, CanUpdateWorkflowStatus(a, wf))
}

func TestEditAllImpliesEditStatus(t *testing.T) {
	ids := []models.ID{"1", "2", "3"}

	for _, role := range models.Roles() {
		for _, id := range ids {
			for _, c := range ids {
				for _, as := range ids {
					a := actor(id, role)
					wf := workflow(c, as)

					if CanEditAllWorkflowFields(a, wf) {
						assert.True(t, CanUpdateWorkflowStatus(a, wf), "role=%s actor=%s creator=%s assignee=%s", role, id, c, as)
					}
				}
			}
		}
	}
}

func TestForWorkflow(t *testing.T) {
	p := ForWorkflow(actor("42", models.RoleStaff), workflow("7", "42"))

	assert.Equal(t, WorkflowPermissions{View: true, EditStatus: true}, p)
	assert.True(t, p.CanEdit())
	assert.Equal(t, WorkflowPermissions{}, ForWorkflow(nil, workflow("7", "42")))
}

func TestUserPredicates(t *testing.T) {
	staff := &models.User{ID: "s", Role: models.RoleStaff}
	manager := &models.User{ID: "m", Role: models.RoleManager}
	admin := &models.User{ID: "a", Role: models.RoleAdmin}

	tests := []struct {
		name   string
		actor  *models.Actor
		target *models.User
		manage bool
		del    bool
		role   bool
	}{
		{"admin on staff", actor("x", models.RoleAdmin), staff, true, true, true},
		{"admin on admin", actor("x", models.RoleAdmin), admin, true, true, true},
		{"admin on self", actor("a", models.RoleAdmin), admin, true, false, false},
		{"manager on staff", actor("x", models.RoleManager), staff, true, true, false},
		{"manager on manager", actor("x", models.RoleManager), manager, false, false, false},
		{"manager on self", actor("m", models.RoleManager), manager, true, false, false},
		{"staff on staff", actor("x", models.RoleStaff), staff, false, false, false},
		{"staff on self", actor("s", models.RoleStaff), staff, true, false, false},
		{"nil actor", nil, staff, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.manage, CanManageUser(tt.actor, tt.target))
			assert.Equal(t, tt.del, CanDeleteUser(tt.actor, tt.target))
			assert.Equal(t, tt.role, CanChangeRole(tt.actor, tt.target))
			assert.Equal(t, UserPermissions{Manage: tt.manage, Delete: tt.del, ChangeRole: tt.role},
				ForUser(tt.actor, tt.target))
		})
	}
}

func TestSelfDeleteIsAlwaysFalse(t *testing.T) {
	for _, role := range models.Roles() {
		a := actor("self", role)
		u := &models.User{ID: "self", Role: role}

		assert.False(t, CanDeleteUser(a, u), role)
	}
}

func TestAssignableRolesMonotonic(t *testing.T) {
	admin := AssignableRoles(actor("1", models.RoleAdmin))
	manager := AssignableRoles(actor("1", models.RoleManager))
	staff := AssignableRoles(actor("1", models.RoleStaff))

	assert.Equal(t, []models.Role{models.RoleAdmin, models.RoleManager, models.RoleStaff}, admin)
	assert.Subset(t, admin, manager)
	assert.Subset(t, manager, staff)
	assert.Equal(t, []models.Role{models.RoleStaff}, staff)
	assert.Empty(t, AssignableRoles(nil))
}

func TestAssignableUsers(t *testing.T) {
	users := []models.User{
		{ID: "a", Role: models.RoleAdmin},
		{ID: "m", Role: models.RoleManager},
		{ID: "s", Role: models.RoleStaff},
	}

	assert.Len(t, AssignableUsers(actor("1", models.RoleAdmin), users, ""), 3)
	assert.Len(t, AssignableUsers(actor("1", models.RoleManager), users, ""), 2)
	assert.Equal(t, []models.User{users[2]}, AssignableUsers(actor("1", models.RoleStaff), users, ""))
	assert.Equal(t, []models.User{users[1]}, AssignableUsers(actor("1", models.RoleAdmin), users, models.RoleManager))
	assert.Empty(t, AssignableUsers(actor("1", models.RoleManager), users, models.RoleAdmin))
}

func TestDefaultCreateRole(t *testing.T) {
	assert.Equal(t, models.RoleStaff, DefaultCreateRole(actor("1", models.RoleAdmin), models.RoleStaff))
	assert.Equal(t, models.RoleManager, DefaultCreateRole(actor("1", models.RoleAdmin), models.RoleManager))
	assert.Equal(t, models.RoleStaff, DefaultCreateRole(actor("1", models.RoleManager), models.RoleAdmin))
	assert.Equal(t, models.RoleStaff, DefaultCreateRole(actor("1", models.RoleStaff), ""))
	assert.Equal(t, models.Role(""), DefaultCreateRole(nil, models.RoleStaff))
}

func TestCanCreateUsers(t *testing.T) {
	assert.True(t, CanCreateUsers(actor("1", models.RoleAdmin)))
	assert.True(t, CanCreateUsers(actor("1", models.RoleManager)))
	assert.False(t, CanCreateUsers(actor("1", models.RoleStaff)))
	assert.False(t, CanCreateUsers(nil))
}
