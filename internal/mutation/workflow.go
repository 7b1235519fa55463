package mutation

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/workflow-admin/workflow-admin/internal/failure"
	"github.com/workflow-admin/workflow-admin/internal/models"
	"github.com/workflow-admin/workflow-admin/internal/policy"
)

const kindWorkflow = "workflow"

// WorkflowInput is the submitted workflow edit form.
type WorkflowInput struct {
	Title          string        `form:"title"`
	Description    string        `form:"description"`
	AssignedTo     string        `form:"assignedTo"`
	AssignedToRole models.Role   `form:"assignedToRole"`
	Status         models.Status `form:"status"`
	DueDate        string        `form:"dueDate"`
}

// CreateWorkflow validates and creates a workflow. users are the assignee
// choices offered to the actor; when given, the assignee must be one of them.
// The new workflow is not inserted into any cached list.
func (c *Coordinator) CreateWorkflow(
	ctx context.Context, sessionID string, in models.NewWorkflow, users []models.User,
) (*models.Workflow, error) {
	actor, client, err := c.begin(sessionID)
	if err != nil {
		return nil, err
	}

	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.AssignedTo = strings.TrimSpace(in.AssignedTo)
	in.DueDate = strings.TrimSpace(in.DueDate)

	if role, perr := models.ParseRole(string(in.AssignedToRole)); perr == nil {
		in.AssignedToRole = role
	}

	verr := &failure.ValidationError{}
	c.validator.Validate(in, verr)
	checkAssignment(actor, in.AssignedTo, in.AssignedToRole, users, verr)

	if err = verr.OrNil(); err != nil {
		return nil, err
	}

	release, err := c.guard.acquire(sessionID, kindWorkflow, "new")
	if err != nil {
		return nil, err
	}
	defer release()

	wf, err := client.Workflows().Create(ctx, in)
	if err != nil {
		return nil, c.settle(sessionID, err)
	}

	log.Info().
		Str("user_id", actor.ID.String()).
		Str("workflow_id", wf.ID.String()).
		Msg("workflow created")

	return wf, nil
}

// BuildPatch returns the minimal patch of the fields the actor may change
// and did change. Assignees may only change the status.
func BuildPatch(
	actor *models.Actor, current *models.Workflow, in WorkflowInput, users []models.User,
) (models.WorkflowPatch, error) {
	var p models.WorkflowPatch

	perms := policy.ForWorkflow(actor, current)
	if !perms.EditStatus {
		return p, failure.ErrNotPermitted
	}

	verr := &failure.ValidationError{}

	if in.Status != "" && in.Status != current.Status {
		if s, err := models.ParseStatus(string(in.Status)); err != nil {
			verr.Add("status", failure.MsgFieldStatus, in.Status)
		} else if s != current.Status {
			p.Status = &s
		}
	}

	if !perms.EditAll {
		return p, verr.OrNil()
	}

	if title := strings.TrimSpace(in.Title); title == "" {
		verr.Add("title", failure.MsgFieldRequired, label("title"))
	} else if title != current.Title {
		p.Title = &title
	}

	if desc := strings.TrimSpace(in.Description); desc == "" {
		verr.Add("description", failure.MsgFieldRequired, label("description"))
	} else if desc != current.Description {
		p.Description = &desc
	}

	assignee := strings.TrimSpace(in.AssignedTo)
	role := in.AssignedToRole

	if r, err := models.ParseRole(string(role)); err == nil {
		role = r
	}

	if role == "" {
		role = current.AssignedToRole
	}

	if (assignee != "" && !sameAssignee(current.Assignee, assignee)) || role != current.AssignedToRole {
		checkAssignment(actor, assignee, role, users, verr)

		if assignee == "" {
			verr.Add("assignedTo", failure.MsgFieldRequired, label("assignedTo"))
		}

		p.AssignedTo = &assignee
		p.AssignedToRole = &role
	}

	if due := strings.TrimSpace(in.DueDate); due != "" && due != current.DueDate.String() {
		if _, err := models.ParseDate(due); err != nil {
			verr.Add("dueDate", failure.MsgFieldDate, label("dueDate"))
		} else {
			p.DueDate = &due
		}
	}

	return p, verr.OrNil()
}

// UpdateWorkflow applies the permitted changes of in to current.
// A status-only change uses the status endpoint, which assignees may call.
func (c *Coordinator) UpdateWorkflow(
	ctx context.Context, sessionID string, current *models.Workflow, in WorkflowInput, users []models.User,
) (*models.Workflow, error) {
	actor, client, err := c.begin(sessionID)
	if err != nil {
		return nil, err
	}

	patch, err := BuildPatch(actor, current, in, users)
	if err != nil {
		return nil, err
	}

	if patch.Empty() {
		return current, nil
	}

	release, err := c.guard.acquire(sessionID, kindWorkflow, current.ID.String())
	if err != nil {
		return nil, err
	}
	defer release()

	var wf *models.Workflow

	if patch.StatusOnly() {
		wf, err = client.Workflows().UpdateStatus(ctx, current.ID, *patch.Status)
	} else {
		wf, err = client.Workflows().Update(ctx, current.ID, patch)
	}

	if err != nil {
		return nil, c.settle(sessionID, err)
	}

	c.reconciled(c.views.ReplaceWorkflow(sessionID, *wf))

	log.Info().
		Str("user_id", actor.ID.String()).
		Str("workflow_id", wf.ID.String()).
		Bool("status_only", patch.StatusOnly()).
		Msg("workflow updated")

	return wf, nil
}

// DeleteWorkflow deletes wf once confirmation repeats its exact title.
func (c *Coordinator) DeleteWorkflow(ctx context.Context, sessionID string, wf *models.Workflow, confirmation string) error {
	actor, client, err := c.begin(sessionID)
	if err != nil {
		return err
	}

	if !policy.CanDeleteWorkflow(actor, wf) {
		return failure.ErrNotPermitted
	}

	if err = confirm(confirmation, wf.Title); err != nil {
		return err
	}

	release, err := c.guard.acquire(sessionID, kindWorkflow, wf.ID.String())
	if err != nil {
		return err
	}
	defer release()

	if err = client.Workflows().Delete(ctx, wf.ID); err != nil {
		return c.settle(sessionID, err)
	}

	c.reconciled(c.views.RemoveWorkflow(sessionID, wf.ID))

	log.Info().Str("user_id", actor.ID.String()).Str("workflow_id", wf.ID.String()).Msg("workflow deleted")

	return nil
}

// checkAssignment validates the assignee role and, when users are known,
// that the assignee is an assignable user of that role.
func checkAssignment(actor *models.Actor, assignee string, role models.Role, users []models.User, verr *failure.ValidationError) {
	if role == "" {
		return
	}

	if !policy.CanAssignRole(actor, role) {
		verr.Add("assignedToRole", failure.MsgFieldRole, role.Label())
		return
	}

	if assignee == "" || users == nil {
		return
	}

	for _, u := range policy.AssignableUsers(actor, users, role) {
		if userRef(u, assignee) {
			return
		}
	}

	verr.Add("assignedTo", failure.MsgFieldAssignee, role.Label())
}

// userRef reports whether ref names u by email, username or id.
func userRef(u models.User, ref string) bool {
	return strings.EqualFold(u.Email, ref) ||
		(u.Username != "" && strings.EqualFold(u.Username, ref)) ||
		u.ID.String() == ref
}

func sameAssignee(current models.Identity, ref string) bool {
	return current.ID.String() == ref || (current.Username != "" && strings.EqualFold(current.Username, ref))
}

func confirm(confirmation, want string) error {
	if strings.TrimSpace(confirmation) == want && want != "" {
		return nil
	}

	verr := &failure.ValidationError{}
	verr.Add("confirmation", failure.MsgConfirmMismatch, want)

	return verr
}
