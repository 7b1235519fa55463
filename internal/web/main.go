// Package web wires the fiber application of the admin console.
package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/go-chi/httprate"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/unrolled/secure"

	appauth "github.com/workflow-admin/workflow-admin/internal/auth"
	"github.com/workflow-admin/workflow-admin/internal/config"
	accesslog "github.com/workflow-admin/workflow-admin/internal/logger/adapter/fiber"
	"github.com/workflow-admin/workflow-admin/internal/web/handler"
	"github.com/workflow-admin/workflow-admin/internal/web/handler/dashboard"
	"github.com/workflow-admin/workflow-admin/internal/web/handler/login"
	"github.com/workflow-admin/workflow-admin/internal/web/handler/logout"
	"github.com/workflow-admin/workflow-admin/internal/web/handler/register"
	"github.com/workflow-admin/workflow-admin/internal/web/handler/user"
	"github.com/workflow-admin/workflow-admin/internal/web/handler/workflow"
	authmw "github.com/workflow-admin/workflow-admin/internal/web/middleware/auth"
)

const (
	// CheckAlivePath answers 200 while the service accepts traffic, 503 while shutting down.
	CheckAlivePath = "/checkalive"

	// MetricsPath serves the prometheus metrics.
	MetricsPath = "/metrics"
)

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	s.alive.Store(true)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown blocks until SIGINT or SIGTERM and stops the http server.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		err := s.App.Shutdown()
		if err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// checkAlive is the load balancer probe.
func (s *Service) checkAlive(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.SendStatus(fiber.StatusServiceUnavailable)
	}

	return c.SendString("OK")
}

// NewViews returns the template engine: embedded templates, or the local
// directory with reload enabled in dev mode.
func NewViews(devMode bool) *html.Engine {
	httpFS := http.FS(templatesFS())
	templateEngine := html.NewFileSystem(httpFS, ".gohtml")

	if devMode {
		templateEngine = html.New("./internal/web/templates", ".gohtml")
		templateEngine.ShouldReload = true

		log.Warn().Msg("debug mode enabled: using local filesystem for templates")
	}

	templateEngine.AddFunc("iterate", func(count int) []int {
		result := make([]int, count)
		for i := range result {
			result[i] = i
		}

		return result
	})
	templateEngine.AddFunc("add", func(a, b int) int {
		return a + b
	})
	templateEngine.AddFunc("sub", func(a, b int) int {
		return a - b
	})
	templateEngine.AddFunc("can", func(perms map[string]bool, perm string) bool {
		return perms[perm]
	})
	templateEngine.AddFunc("fieldError", func(errs map[string]string, field string) string {
		return errs[field]
	})

	return templateEngine
}

// securityHeaders sets the browser security headers on every response.
func securityHeaders(cfg *config.Config) fiber.Handler {
	return adaptor.HTTPMiddleware(secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "same-origin",
		IsDevelopment:      cfg.DevMode,
	}).Handler)
}

// loginLimiter limits login and registration attempts per client address.
// A zero request limit disables it.
func loginLimiter(cfg *config.Config) fiber.Handler {
	if cfg.RateLimit.LoginRequests < 1 {
		return nil
	}

	window := cfg.RateLimit.LoginWindow
	if window <= 0 {
		window = time.Minute
	}

	return adaptor.HTTPMiddleware(httprate.LimitByIP(cfg.RateLimit.LoginRequests, window))
}

// New creates the web service and registers every handler.
func New(deps *handler.Deps) (*Service, error) {
	if !deps.Valid() {
		return nil, errors.New(handler.ErrNilDepsFatalLogMsg)
	}

	cfg := deps.Cfg

	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        cfg.Title,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			Views:          NewViews(cfg.DevMode),
		},
	)

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New())
	}

	app.Use(accesslog.New(accesslog.Config{Config: cfg.Log, UserID: appauth.UserID}))
	app.Use(securityHeaders(cfg))

	// serve embedded static files
	app.Use("/static",
		filesystem.New(
			filesystem.Config{
				Root:       http.FS(embeddedStaticFiles),
				PathPrefix: "static",
				Browse:     cfg.Webserver.BrowseStatic,
			},
		),
	)

	service := &Service{cfg: cfg, App: app, fastShutDown: cfg.DevMode}

	app.Get(CheckAlivePath, service.checkAlive)
	app.Get(MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))

	app.Use(authmw.New(deps.Sessions))
	app.Use(appauth.AddPermissionsToLocals())

	limit := loginLimiter(cfg)

	if err := login.Handler.Init(app, deps, limit); err != nil {
		return nil, err
	}

	if err := register.Handler.Init(app, deps, limit); err != nil {
		return nil, err
	}

	for _, h := range []handler.Service{
		&logout.Handler,
		&dashboard.Handler,
		&workflow.Handler,
		&user.Handler,
	} {
		if err := h.Init(app, deps); err != nil {
			return nil, err
		}
	}

	// redirect root to dashboard
	app.Get(handler.RouterRootPath, func(c *fiber.Ctx) error {
		return c.Redirect(handler.DashboardPath)
	})

	return service, nil
}
