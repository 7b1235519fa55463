package policy

import (
	"github.com/workflow-admin/workflow-admin/internal/models"
)

// CanEditAllWorkflowFields reports whether the actor may change every field of the workflow.
func CanEditAllWorkflowFields(actor *models.Actor, wf *models.Workflow) bool {
	if actor == nil || wf == nil {
		return false
	}

	return actor.Role == models.RoleAdmin || wf.Creator.Matches(actor)
}

// CanUpdateWorkflowStatus reports whether the actor may change at least the status.
func CanUpdateWorkflowStatus(actor *models.Actor, wf *models.Workflow) bool {
	if CanEditAllWorkflowFields(actor, wf) {
		return true
	}

	return wf != nil && wf.Assignee.Matches(actor)
}

// CanDeleteWorkflow reports whether the actor may delete the workflow.
func CanDeleteWorkflow(actor *models.Actor, wf *models.Workflow) bool {
	if actor == nil || wf == nil {
		return false
	}

	return actor.Role == models.RoleAdmin || wf.Creator.Matches(actor)
}

// CanReassignWorkflow reports whether the actor may change assignee and assignee role.
func CanReassignWorkflow(actor *models.Actor, wf *models.Workflow) bool {
	return CanEditAllWorkflowFields(actor, wf)
}

// WorkflowPermissions is the permission set of an actor on one workflow.
type WorkflowPermissions struct {
	View       bool
	EditAll    bool
	EditStatus bool
	Reassign   bool
	Delete     bool
}

// CanEdit reports whether any edit control should be enabled.
func (p WorkflowPermissions) CanEdit() bool {
	return p.EditAll || p.EditStatus
}

// ForWorkflow evaluates all workflow predicates at once.
// Records the API returned are viewable by any authenticated actor.
func ForWorkflow(actor *models.Actor, wf *models.Workflow) WorkflowPermissions {
	if actor == nil || wf == nil {
		return WorkflowPermissions{}
	}

	return WorkflowPermissions{
		View:       true,
		EditAll:    CanEditAllWorkflowFields(actor, wf),
		EditStatus: CanUpdateWorkflowStatus(actor, wf),
		Reassign:   CanReassignWorkflow(actor, wf),
		Delete:     CanDeleteWorkflow(actor, wf),
	}
}
