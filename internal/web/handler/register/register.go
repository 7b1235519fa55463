// Package register provides the self registration page.
package register

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/workflow-admin/workflow-admin/internal/failure"
	"github.com/workflow-admin/workflow-admin/internal/models"
	"github.com/workflow-admin/workflow-admin/internal/web/handler"
	"github.com/workflow-admin/workflow-admin/internal/web/handler/login"
)

const (
	// Path is the path to the registration page.
	Path = handler.RootPath + "register"

	// TemplateName is the name of the registration template.
	TemplateName = "register"
)

// Service is the registration handler service.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Handler is the registration handler.
var Handler = Service{}

// Init initializes the registration handler. limit guards the form submission and may be nil.
func (s *Service) Init(app *fiber.App, deps *handler.Deps, limit fiber.Handler) error {
	if app == nil || !deps.Valid() {
		return errors.New(handler.ErrNilDepsFatalLogMsg)
	}

	s.deps = deps

	post := []fiber.Handler{s.Post}
	if limit != nil {
		post = append([]fiber.Handler{limit}, post...)
	}

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, s.Get)
		router.Post(handler.RouterRootPath, post...)
	})

	return nil
}

// Get renders the empty registration form.
func (s *Service) Get(c *fiber.Ctx) error {
	return s.render(c, models.Registration{}, nil)
}

func (s *Service) render(c *fiber.Ctx, reg models.Registration, f *failure.Failure) error {
	reg.Password = ""

	data := fiber.Map{
		"AppTitle": s.deps.Cfg.Title,
		"Form":     reg,
	}

	if f != nil {
		data["error"] = f.Message
		data["Errors"] = f.Fields
	}

	return c.Render(TemplateName, data, handler.AuthLayout)
}

// Post validates and submits the registration, then sends the user to login.
func (s *Service) Post(c *fiber.Ctx) error {
	reg := models.Registration{}

	if err := c.BodyParser(&reg); err != nil {
		return s.render(c, reg, &failure.Failure{Category: failure.CategoryValidation, Message: err.Error()})
	}

	if _, err := s.deps.Mutations.Register(c.UserContext(), reg); err != nil {
		return s.render(c, reg, failure.Classify(err, handler.Printer(c)))
	}

	return c.Redirect(login.Path + "?" + login.RegisteredQuery + "=true")
}
