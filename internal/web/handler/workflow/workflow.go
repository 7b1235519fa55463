// Package workflow provides the workflow pages: the All Workflows and My
// Workflows lists, the create form, the detail page, the edit form and the
// delete confirmation.
package workflow

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	appauth "github.com/workflow-admin/workflow-admin/internal/auth"
	"github.com/workflow-admin/workflow-admin/internal/models"
	"github.com/workflow-admin/workflow-admin/internal/planner"
	"github.com/workflow-admin/workflow-admin/internal/web/handler"
	"github.com/workflow-admin/workflow-admin/internal/web/navigation"
)

const (
	// Path is the All Workflows list.
	Path = handler.RootPath + "workflows"

	// MinePath is the My Workflows list.
	MinePath = Path + "/mine"

	// NewPath is the create workflow form.
	NewPath = Path + "/new"

	// ListTemplate renders All Workflows and My Workflows.
	ListTemplate = "workflow/list"

	// FormTemplate renders the create and edit forms.
	FormTemplate = "workflow/form"

	// DetailTemplate renders one workflow.
	DetailTemplate = "workflow/detail"

	// DeleteTemplate renders the delete confirmation.
	DeleteTemplate = "workflow/delete"

	section = "workflows"
)

// DetailPath returns the detail page of the workflow.
func DetailPath(id models.ID) string {
	return Path + "/" + id.String()
}

// Service is the workflow handler service.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Handler is the workflow handler.
var Handler = Service{}

// Init initializes the workflow handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || !deps.Valid() {
		return errors.New(handler.ErrNilDepsFatalLogMsg)
	}

	s.deps = deps

	list := appauth.RequirePermission(appauth.PermWorkflowList)
	create := appauth.RequirePermission(appauth.PermWorkflowCreate)
	read := appauth.RequirePermission(appauth.PermWorkflowRead)

	// static paths before the :id routes
	app.Get(Path, list, s.List)
	app.Get(MinePath, list, s.Mine)
	app.Get(NewPath, create, s.New)
	app.Post(NewPath, create, s.Create)
	app.Get(Path+"/:id", read, s.Detail)
	app.Get(Path+"/:id/edit", read, s.Edit)
	app.Post(Path+"/:id/edit", read, s.Update)
	app.Get(Path+"/:id/delete", read, s.ConfirmDelete)
	app.Post(Path+"/:id/delete", read, s.Delete)

	return nil
}

func baseNav(title, page string) *navigation.Context {
	return navigation.NewContext(title, section, page).
		AddBreadcrumb("Home", handler.DashboardPath, false)
}

// load fetches the workflow named by the :id route parameter.
func (s *Service) load(c *fiber.Ctx) (*models.Workflow, error) {
	id := models.ID(c.Params("id"))

	return s.deps.Sessions.Client(appauth.SessionID(c)).Workflows().Get(c.UserContext(), id)
}

// users loads the assignee choices. Failures leave the choices empty and
// are not shown, like the filter users of the list views.
func (s *Service) users(ctx context.Context, c *fiber.Ctx) []models.User {
	actor := appauth.Actor(c)

	users, err := planner.LoadUsers(ctx, actor, s.deps.Sessions.Client(appauth.SessionID(c)).Users())
	if err != nil {
		log.Warn().Err(err).Str("user_id", actor.ID.String()).Msg("failed to load assignee choices")
		return nil
	}

	return users
}
