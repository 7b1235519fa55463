package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/workflow-admin/workflow-admin/internal/config"
	"github.com/workflow-admin/workflow-admin/internal/listview"
	"github.com/workflow-admin/workflow-admin/internal/mutation"
	"github.com/workflow-admin/workflow-admin/internal/web/session"
)

// Deps are the services shared by all handlers.
type Deps struct {
	Cfg       *config.Config
	Sessions  *session.Store
	Lists     *listview.Controller
	Mutations *mutation.Coordinator
}

// Valid reports whether every dependency is set.
func (d *Deps) Valid() bool {
	return d != nil && d.Cfg != nil && d.Sessions != nil && d.Lists != nil && d.Mutations != nil
}

// Service is the interface for a web handler service.
type Service interface {
	Init(app *fiber.App, deps *Deps) error
}
