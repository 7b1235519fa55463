package workflow

import (
	"github.com/gofiber/fiber/v2"

	appauth "github.com/workflow-admin/workflow-admin/internal/auth"
	"github.com/workflow-admin/workflow-admin/internal/failure"
	"github.com/workflow-admin/workflow-admin/internal/models"
	"github.com/workflow-admin/workflow-admin/internal/mutation"
	"github.com/workflow-admin/workflow-admin/internal/policy"
	"github.com/workflow-admin/workflow-admin/internal/web/handler"
	"github.com/workflow-admin/workflow-admin/internal/web/navigation"
	"github.com/workflow-admin/workflow-admin/internal/web/session"
)

// Form is the render model of the create and edit forms.
type Form struct {
	// Workflow is nil on the create form.
	Workflow *models.Workflow
	Input    mutation.WorkflowInput
	Can      policy.WorkflowPermissions
	// StatusOnly is set when the actor may change nothing but the status.
	StatusOnly bool
	Roles      []models.Role
	Users      []models.User
	Statuses   []models.Status
	Action     string
}

func (s *Service) renderForm(c *fiber.Ctx, nav *navigation.Context, form Form, f *failure.Failure) error {
	data := fiber.Map{"Form": form}

	if f != nil {
		data["error"] = f.Message
		data["Errors"] = f.Fields
		c.Status(handler.StatusFor(f))
	}

	return handler.Page(c, s.deps, FormTemplate, nav, data)
}

// New renders the create workflow form.
func (s *Service) New(c *fiber.Ctx) error {
	actor := appauth.Actor(c)

	return s.renderForm(c, newNav(), Form{
		Input: mutation.WorkflowInput{
			AssignedToRole: policy.DefaultCreateRole(actor, s.deps.Cfg.UI.DefaultCreateRole),
		},
		Can:    policy.WorkflowPermissions{EditAll: true, EditStatus: true, Reassign: true},
		Roles:  policy.AssignableRoles(actor),
		Users:  policy.AssignableUsers(actor, s.users(c.UserContext(), c), ""),
		Action: NewPath,
	}, nil)
}

func newNav() *navigation.Context {
	return baseNav("Create Workflow", "new").
		AddBreadcrumb("All Workflows", Path, false).
		AddBreadcrumb("Create Workflow", NewPath, true)
}

// Create submits the create workflow form.
func (s *Service) Create(c *fiber.Ctx) error {
	actor := appauth.Actor(c)
	sid := appauth.SessionID(c)

	in := models.NewWorkflow{}
	if err := c.BodyParser(&in); err != nil {
		return handler.Fail(c, s.deps, newNav(), &failure.ValidationError{})
	}

	users := s.users(c.UserContext(), c)

	if _, err := s.deps.Mutations.CreateWorkflow(c.UserContext(), sid, in, users); err != nil {
		f, ok := handler.FormFailure(c, err)
		if !ok {
			return handler.Expired(c, s.deps, f.Message)
		}

		return s.renderForm(c, newNav(), Form{
			Input: mutation.WorkflowInput{
				Title: in.Title, Description: in.Description, AssignedTo: in.AssignedTo,
				AssignedToRole: in.AssignedToRole, DueDate: in.DueDate,
			},
			Can:    policy.WorkflowPermissions{EditAll: true, EditStatus: true, Reassign: true},
			Roles:  policy.AssignableRoles(actor),
			Users:  policy.AssignableUsers(actor, users, ""),
			Action: NewPath,
		}, f)
	}

	// new records are not inserted locally; the lists refetch
	if err := s.deps.Lists.Invalidate(sid); err != nil {
		return handler.Fail(c, s.deps, newNav(), err)
	}

	handler.Flash(c, s.deps, session.FlashSuccess, failure.MsgWorkflowCreated)

	return c.Redirect(Path)
}

func editNav(wf *models.Workflow) *navigation.Context {
	return baseNav("Edit Workflow", "edit").
		AddBreadcrumb("All Workflows", Path, false).
		AddBreadcrumb(wf.Title, DetailPath(wf.ID), false).
		AddBreadcrumb("Edit", DetailPath(wf.ID)+"/edit", true)
}

func (s *Service) editForm(c *fiber.Ctx, wf *models.Workflow, in mutation.WorkflowInput, users []models.User) Form {
	actor := appauth.Actor(c)
	perms := policy.ForWorkflow(actor, wf)

	form := Form{
		Workflow:   wf,
		Input:      in,
		Can:        perms,
		StatusOnly: !perms.EditAll,
		Statuses:   models.Statuses(),
		Action:     DetailPath(wf.ID) + "/edit",
	}

	if perms.EditAll {
		form.Roles = policy.AssignableRoles(actor)
		form.Users = policy.AssignableUsers(actor, users, "")
	}

	return form
}

func inputOf(wf *models.Workflow) mutation.WorkflowInput {
	assignee := wf.Assignee.Username
	if assignee == "" {
		assignee = wf.Assignee.ID.String()
	}

	return mutation.WorkflowInput{
		Title:          wf.Title,
		Description:    wf.Description,
		AssignedTo:     assignee,
		AssignedToRole: wf.AssignedToRole,
		Status:         wf.Status,
		DueDate:        wf.DueDate.String(),
	}
}

// Edit renders the edit form. Assignees get the status-only form.
func (s *Service) Edit(c *fiber.Ctx) error {
	wf, err := s.load(c)
	if err != nil {
		return handler.Fail(c, s.deps, baseNav("Edit Workflow", "edit"), err)
	}

	if !policy.CanUpdateWorkflowStatus(appauth.Actor(c), wf) {
		return handler.Fail(c, s.deps, editNav(wf), failure.ErrNotPermitted)
	}

	var users []models.User
	if policy.CanEditAllWorkflowFields(appauth.Actor(c), wf) {
		users = s.users(c.UserContext(), c)
	}

	return s.renderForm(c, editNav(wf), s.editForm(c, wf, inputOf(wf), users), nil)
}

// Update submits the edit form.
func (s *Service) Update(c *fiber.Ctx) error {
	wf, err := s.load(c)
	if err != nil {
		return handler.Fail(c, s.deps, baseNav("Edit Workflow", "edit"), err)
	}

	in := mutation.WorkflowInput{}
	if err = c.BodyParser(&in); err != nil {
		return handler.Fail(c, s.deps, editNav(wf), &failure.ValidationError{})
	}

	var users []models.User
	if policy.CanEditAllWorkflowFields(appauth.Actor(c), wf) {
		users = s.users(c.UserContext(), c)
	}

	updated, err := s.deps.Mutations.UpdateWorkflow(c.UserContext(), appauth.SessionID(c), wf, in, users)
	if err != nil {
		f, ok := handler.FormFailure(c, err)
		if !ok {
			return handler.Expired(c, s.deps, f.Message)
		}

		return s.renderForm(c, editNav(wf), s.editForm(c, wf, in, users), f)
	}

	handler.Flash(c, s.deps, session.FlashSuccess, failure.MsgWorkflowUpdated)

	return c.Redirect(DetailPath(updated.ID))
}
