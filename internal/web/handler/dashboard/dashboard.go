// Package dashboard provides the landing page with the actor card and a
// summary of the actor's own workflows.
package dashboard

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	appauth "github.com/workflow-admin/workflow-admin/internal/auth"
	"github.com/workflow-admin/workflow-admin/internal/listview"
	"github.com/workflow-admin/workflow-admin/internal/models"
	"github.com/workflow-admin/workflow-admin/internal/policy"
	"github.com/workflow-admin/workflow-admin/internal/web/handler"
	"github.com/workflow-admin/workflow-admin/internal/web/navigation"
)

const (
	// Path is the path to the dashboard page.
	Path = handler.DashboardPath

	// TemplateName is the name of the dashboard template.
	TemplateName = "dashboard/dashboard"
)

// StatusCount is the number of assigned workflows in one status.
type StatusCount struct {
	Status models.Status
	Count  int
}

// Data represents the complete dashboard data.
type Data struct {
	Actor           *models.Actor
	AssignableRoles []models.Role
	AssignedCount   int
	CreatedCount    int
	ByStatus        []StatusCount
	Message         string
}

// Service is the dashboard handler service.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Handler is the dashboard handler.
var Handler = Service{}

// Init initializes the dashboard handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || !deps.Valid() {
		return errors.New(handler.ErrNilDepsFatalLogMsg)
	}

	s.deps = deps

	// register routes with permission checks
	app.Get(Path,
		appauth.RequirePermission(appauth.PermDashboardView),
		s.Get,
	)

	return nil
}

// Get handles the dashboard page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	nav := navigation.NewContext("Dashboard", "dashboard", "dashboard").
		AddBreadcrumb("Home", Path, false).
		AddBreadcrumb("Dashboard", Path, true)

	actor := appauth.Actor(c)

	page, err := s.deps.Lists.Summary(c.UserContext(), listview.Request{
		SessionID: appauth.SessionID(c),
		Printer:   handler.Printer(c),
		Refresh:   handler.QueryBool(c, "refresh"),
	})
	if err != nil {
		return handler.Fail(c, s.deps, nav, err)
	}

	if page.Teardown {
		return handler.Expired(c, s.deps, page.Message)
	}

	data := Data{
		Actor:           actor,
		AssignableRoles: policy.AssignableRoles(actor),
		AssignedCount:   page.AssignedCount,
		CreatedCount:    page.CreatedCount,
		Message:         page.Message,
	}

	data.ByStatus = countByStatus(page.Assigned)

	log.Debug().
		Str("user_id", actor.ID.String()).
		Int("assigned", data.AssignedCount).
		Int("created", data.CreatedCount).
		Msg("dashboard rendered")

	return handler.Page(c, s.deps, TemplateName, nav, fiber.Map{
		"Data": data,
	})
}

func countByStatus(wfs []models.Workflow) []StatusCount {
	out := make([]StatusCount, 0, len(models.Statuses()))

	for _, st := range models.Statuses() {
		n := 0

		for i := range wfs {
			if wfs[i].Status == st {
				n++
			}
		}

		out = append(out, StatusCount{Status: st, Count: n})
	}

	return out
}
