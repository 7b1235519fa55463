// Package daemon assembles the services of the web console and runs them.
package daemon

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/workflow-admin/workflow-admin/internal/apiclient"
	"github.com/workflow-admin/workflow-admin/internal/config"
	"github.com/workflow-admin/workflow-admin/internal/listview"
	"github.com/workflow-admin/workflow-admin/internal/logger"
	"github.com/workflow-admin/workflow-admin/internal/mutation"
	"github.com/workflow-admin/workflow-admin/internal/storage"
	"github.com/workflow-admin/workflow-admin/internal/web"
	"github.com/workflow-admin/workflow-admin/internal/web/handler"
	"github.com/workflow-admin/workflow-admin/internal/web/session"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	storage    fiber.Storage
	webService *web.Service
}

// Start runs the web service until SIGINT or SIGTERM.
func (d *Daemon) Start() error {
	addr := fmt.Sprintf(":%d", d.cfg.Webserver.Port)

	log.Info().Str("addr", addr).Str("api", d.cfg.API.BaseURL).
		Str("session_backend", d.cfg.SessionStorage.Backend).Msg("starting web service")

	go func() {
		if err := d.webService.Start(addr); err != nil {
			log.Error().Err(err).Msg("web service stopped")
		}
	}()

	d.webService.WaitShutdown()

	return errors.Wrap(d.storage.Close(), "failed to close session storage")
}

// New creates a new Daemon instance with the provided configuration.
func New(ctx context.Context, cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	if err := logger.Init(cfg.Log); err != nil {
		return nil, errors.Wrap(err, "failed to init logger")
	}

	store, err := storage.New(ctx, cfg.SessionStorage)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open session storage")
	}

	client, err := apiclient.New(cfg.API.BaseURL, apiclient.WithTimeout(cfg.API.Timeout))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create api client")
	}

	sessions := session.New(store, client, cfg.Webserver.Session.ExpiryTime)
	lists := listview.New(sessions, cfg.UI)

	webService, err := web.New(&handler.Deps{
		Cfg:       cfg,
		Sessions:  sessions,
		Lists:     lists,
		Mutations: mutation.New(sessions, lists),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create web service")
	}

	return &Daemon{cfg: cfg, storage: store, webService: webService}, nil
}
