package workflow

import (
	"github.com/gofiber/fiber/v2"

	appauth "github.com/workflow-admin/workflow-admin/internal/auth"
	"github.com/workflow-admin/workflow-admin/internal/listview"
	"github.com/workflow-admin/workflow-admin/internal/models"
	"github.com/workflow-admin/workflow-admin/internal/web/handler"
	"github.com/workflow-admin/workflow-admin/internal/web/navigation"
)

// List renders the All Workflows view.
func (s *Service) List(c *fiber.Ctx) error {
	nav := baseNav("All Workflows", "all").
		AddBreadcrumb("All Workflows", Path, true)

	page, err := s.deps.Lists.AllWorkflows(c.UserContext(), s.request(c))

	return s.renderList(c, nav, Path, page, err)
}

// Mine renders the My Workflows view with its assigned and created tabs.
func (s *Service) Mine(c *fiber.Ctx) error {
	nav := baseNav("My Workflows", "mine").
		AddBreadcrumb("My Workflows", MinePath, true)

	req := s.request(c)
	if tab := c.Query(handler.QueryTab); tab != "" {
		req.Tab = listview.ParseTab(tab)
	}

	page, err := s.deps.Lists.MyWorkflows(c.UserContext(), req)

	return s.renderList(c, nav, MinePath, page, err)
}

func (s *Service) request(c *fiber.Ctx) listview.Request {
	return listview.Request{
		SessionID: appauth.SessionID(c),
		Printer:   handler.Printer(c),
		Refresh:   handler.QueryBool(c, handler.QueryRefresh),
		Update:    handler.FilterUpdate(c),
	}
}

func (s *Service) renderList(
	c *fiber.Ctx, nav *navigation.Context, basePath string, page *listview.WorkflowPage, err error,
) error {
	if err != nil {
		return handler.Fail(c, s.deps, nav, err)
	}

	if page.Teardown {
		return handler.Expired(c, s.deps, page.Message)
	}

	return handler.Page(c, s.deps, ListTemplate, nav, fiber.Map{
		"Page":      page,
		"BasePath":  basePath,
		"Mine":      basePath == MinePath,
		"Statuses":  models.Statuses(),
		"PageSizes": s.deps.Cfg.UI.PageSizes,
	})
}
