// Package storage builds the key/value backend the session store writes to.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage/memory/v2"
	"github.com/gofiber/storage/mysql/v2"
	"github.com/gofiber/storage/postgres/v3"

	"github.com/workflow-admin/workflow-admin/internal/config"
)

// ErrMissingConnectionURI is returned when a SQL backend has no connection URI.
var ErrMissingConnectionURI = errors.New("session storage connection uri can not be empty")

// New returns the storage selected by cfg.Backend.
func New(ctx context.Context, cfg config.SessionStorage) (fiber.Storage, error) {
	switch cfg.Backend {
	case "", config.BackendMemory:
		return memory.New(), nil
	case config.BackendRedis:
		return NewRedis(ctx, cfg.Redis)
	case config.BackendMySQL:
		if cfg.ConnectionURI == "" {
			return nil, ErrMissingConnectionURI
		}

		return mysql.New(mysql.Config{
			ConnectionURI: cfg.ConnectionURI,
			Table:         cfg.Table,
		}), nil
	case config.BackendPostgres:
		if cfg.ConnectionURI == "" {
			return nil, ErrMissingConnectionURI
		}

		return postgres.New(postgres.Config{
			ConnectionURI: cfg.ConnectionURI,
			Table:         cfg.Table,
		}), nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownSessionBackend, cfg.Backend)
	}
}
