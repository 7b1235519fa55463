package workflow

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	appauth "github.com/workflow-admin/workflow-admin/internal/auth"
	"github.com/workflow-admin/workflow-admin/internal/failure"
	"github.com/workflow-admin/workflow-admin/internal/models"
	"github.com/workflow-admin/workflow-admin/internal/policy"
	"github.com/workflow-admin/workflow-admin/internal/web/handler"
	"github.com/workflow-admin/workflow-admin/internal/web/navigation"
	"github.com/workflow-admin/workflow-admin/internal/web/session"
)

// QueryBack names the list to return to after a deletion.
const QueryBack = "back"

func detailNav(wf *models.Workflow) *navigation.Context {
	return baseNav(wf.Title, "detail").
		AddBreadcrumb("All Workflows", Path, false).
		AddBreadcrumb(wf.Title, DetailPath(wf.ID), true)
}

// Detail renders one workflow with the actions the actor may take.
func (s *Service) Detail(c *fiber.Ctx) error {
	wf, err := s.load(c)
	if err != nil {
		return handler.Fail(c, s.deps, baseNav("Workflow", "detail"), err)
	}

	return handler.Page(c, s.deps, DetailTemplate, detailNav(wf), fiber.Map{
		"Workflow": wf,
		"Can":      policy.ForWorkflow(appauth.Actor(c), wf),
	})
}

func deleteNav(wf *models.Workflow) *navigation.Context {
	return baseNav("Delete Workflow", "delete").
		AddBreadcrumb("All Workflows", Path, false).
		AddBreadcrumb(wf.Title, DetailPath(wf.ID), false).
		AddBreadcrumb("Delete", DetailPath(wf.ID)+"/delete", true)
}

// backPath returns the list to return to; only the two list views are accepted.
func backPath(c *fiber.Ctx) string {
	back := c.FormValue(QueryBack, c.Query(QueryBack))
	if strings.EqualFold(back, MinePath) {
		return MinePath
	}

	return Path
}

// ConfirmDelete renders the confirmation naming the exact title.
func (s *Service) ConfirmDelete(c *fiber.Ctx) error {
	wf, err := s.load(c)
	if err != nil {
		return handler.Fail(c, s.deps, baseNav("Delete Workflow", "delete"), err)
	}

	if !policy.CanDeleteWorkflow(appauth.Actor(c), wf) {
		return handler.Fail(c, s.deps, deleteNav(wf), failure.ErrNotPermitted)
	}

	return handler.Page(c, s.deps, DeleteTemplate, deleteNav(wf), fiber.Map{
		"Workflow": wf,
		"Back":     backPath(c),
	})
}

// Delete deletes the workflow once the confirmation matches its title.
func (s *Service) Delete(c *fiber.Ctx) error {
	wf, err := s.load(c)
	if err != nil {
		return handler.Fail(c, s.deps, baseNav("Delete Workflow", "delete"), err)
	}

	err = s.deps.Mutations.DeleteWorkflow(c.UserContext(), appauth.SessionID(c), wf, c.FormValue("confirmation"))
	if err != nil {
		f, ok := handler.FormFailure(c, err)
		if !ok {
			return handler.Expired(c, s.deps, f.Message)
		}

		c.Status(handler.StatusFor(f))

		return handler.Page(c, s.deps, DeleteTemplate, deleteNav(wf), fiber.Map{
			"Workflow": wf,
			"Back":     backPath(c),
			"error":    f.Message,
			"Errors":   f.Fields,
		})
	}

	handler.Flash(c, s.deps, session.FlashSuccess, failure.MsgWorkflowDeleted)

	return c.Redirect(backPath(c))
}
