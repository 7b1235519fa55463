package login

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/workflow-admin/workflow-admin/internal/failure"
	"github.com/workflow-admin/workflow-admin/internal/models"
	"github.com/workflow-admin/workflow-admin/internal/web/handler"
	"github.com/workflow-admin/workflow-admin/internal/web/session"
)

const (
	// Path is the path to the login page.
	Path = handler.LoginPath

	// TemplateName is the name of the login template.
	TemplateName = "login"
)

// Service is the login handler service.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Handler is the login handler.
var Handler = Service{}

// Init initializes the login handler. limit guards the form submission and may be nil.
func (s *Service) Init(app *fiber.App, deps *handler.Deps, limit fiber.Handler) error {
	if app == nil || !deps.Valid() {
		return errors.New(handler.ErrNilDepsFatalLogMsg)
	}

	s.deps = deps

	post := []fiber.Handler{s.Post}
	if limit != nil {
		post = append([]fiber.Handler{limit}, post...)
	}

	// register routes
	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, s.Get)
		router.Post(handler.RouterRootPath, post...)
	})

	return nil
}

// Get handles the login page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	return s.render(c, "", "")
}

// RegisteredQuery marks the redirect after a successful registration.
const RegisteredQuery = "registered"

func (s *Service) render(c *fiber.Ctx, username, msg string) error {
	data := fiber.Map{
		"AppTitle": s.deps.Cfg.Title,
		"Username": username,
		"Flashes":  s.deps.Sessions.Flashes(c.Cookies(session.CookieName)),
	}

	if msg != "" {
		data["error"] = msg
	}

	if handler.QueryBool(c, RegisteredQuery) {
		data["notice"] = handler.Printer(c).Sprintf(failure.MsgRegistered)
	}

	return c.Render(TemplateName, data, handler.AuthLayout)
}

// Post handles the login form submission.
func (s *Service) Post(c *fiber.Ctx) error {
	creds := new(models.Credentials)

	if err := c.BodyParser(creds); err != nil {
		return s.render(c, "", ErrInvalidFormData.Error())
	}

	creds.Username = strings.TrimSpace(creds.Username)
	if creds.Username == "" || creds.Password == "" {
		return s.render(c, creds.Username, ErrMissingCredentials.Error())
	}

	sessionID, actor, err := s.deps.Sessions.Login(c.UserContext(), *creds)
	if err != nil {
		log.Warn().Err(err).Str("username", creds.Username).Msg("login failed")

		return s.render(c, creds.Username, loginMessage(c, err))
	}

	c.Cookie(s.deps.Sessions.Cookie(sessionID, s.deps.Cfg.Webserver.CookieSecure && !s.deps.Cfg.DevMode))

	log.Debug().Str("user_id", actor.ID.String()).Msg("session cookie issued")

	return c.Redirect(handler.DashboardPath)
}

// loginMessage maps a login error to the message shown on the form.
func loginMessage(c *fiber.Ctx, err error) string {
	p := handler.Printer(c)

	var authErr *session.AuthError
	if !errors.As(err, &authErr) {
		return p.Sprintf(failure.MsgUnknown)
	}

	switch authErr.Reason {
	case session.ReasonInvalidCredentials:
		return p.Sprintf(failure.MsgInvalidLogin)
	case session.ReasonNetwork:
		return p.Sprintf(failure.MsgNetwork)
	default:
		if authErr.Message != "" {
			return authErr.Message
		}

		return p.Sprintf(failure.MsgUnknown)
	}
}
