package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/message"

	"github.com/workflow-admin/workflow-admin/internal/auth"
	"github.com/workflow-admin/workflow-admin/internal/failure"
	"github.com/workflow-admin/workflow-admin/internal/web/navigation"
	"github.com/workflow-admin/workflow-admin/internal/web/session"
)

// Printer returns the message printer for the request's Accept-Language.
func Printer(c *fiber.Ctx) *message.Printer {
	return failure.Printer(c.Get(fiber.HeaderAcceptLanguage))
}

// Page renders tpl in the base layout, adding the fields every page uses.
func Page(c *fiber.Ctx, deps *Deps, tpl string, nav *navigation.Context, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}

	data["Navigation"] = nav
	data["CurrentUser"] = auth.Actor(c)
	data["Permissions"] = auth.PermissionsFromContext(c)
	data["AppTitle"] = deps.Cfg.Title
	data["Flashes"] = deps.Sessions.Flashes(auth.SessionID(c))

	return c.Render(tpl, data, BaseLayout)
}

// Flash queues a localized message for the next page.
func Flash(c *fiber.Ctx, deps *Deps, kind session.FlashKind, key string, args ...any) {
	msg := Printer(c).Sprintf(key, args...)

	if err := deps.Sessions.AddFlash(auth.SessionID(c), kind, msg); err != nil {
		log.Warn().Err(err).Msg("failed to queue flash message")
	}
}

// Fail renders a failed request. An expired authentication ends the session
// and renders the timed redirect to the login page. A missing session
// redirects at once.
func Fail(c *fiber.Ctx, deps *Deps, nav *navigation.Context, err error) error {
	if errors.Is(err, session.ErrNoSession) {
		return c.Redirect(LoginPath)
	}

	f := failure.Classify(err, Printer(c))

	if f.Teardown() {
		return Expired(c, deps, f.Message)
	}

	log.Warn().Err(err).Str("user_id", auth.UserID(c)).Str("category", f.Category.String()).
		Msg("request failed")

	return c.Status(StatusFor(f)).Render(ErrorTemplate, fiber.Map{
		"Navigation":  nav,
		"CurrentUser": auth.Actor(c),
		"Permissions": auth.PermissionsFromContext(c),
		"AppTitle":    deps.Cfg.Title,
		"Failure":     f,
	}, BaseLayout)
}

// Expired ends the session, clears the cookie and renders the notice that
// sends the browser to the login page after the configured delay.
func Expired(c *fiber.Ctx, deps *Deps, msg string) error {
	if err := deps.Sessions.Logout(auth.SessionID(c)); err != nil {
		log.Error().Err(err).Msg("failed to end expired session")
	}

	c.Cookie(deps.Sessions.Cookie("", deps.Cfg.Webserver.CookieSecure))

	if msg == "" {
		msg = Printer(c).Sprintf(failure.MsgSessionExpired)
	}

	return c.Status(fiber.StatusUnauthorized).Render(ExpiredTemplate, fiber.Map{
		"AppTitle":      deps.Cfg.Title,
		"error":         msg,
		"RedirectTo":    LoginPath,
		"RedirectAfter": int(deps.Cfg.UI.RedirectDelay.Seconds()),
	}, AuthLayout)
}

// StatusFor maps a failure to the HTTP status of the rendered page.
func StatusFor(f *failure.Failure) int {
	switch f.Category {
	case failure.CategoryAuthExpired:
		return fiber.StatusUnauthorized
	case failure.CategoryForbidden:
		return fiber.StatusForbidden
	case failure.CategoryNotFound:
		return fiber.StatusNotFound
	case failure.CategoryValidation:
		return fiber.StatusUnprocessableEntity
	case failure.CategoryConflict:
		return fiber.StatusConflict
	case failure.CategoryNetwork, failure.CategoryServerMessage, failure.CategoryPartialSuccess:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// FormFailure classifies a failed form submission for re-rendering the form.
// It reports false when the failure ended the session; the caller must then
// return Expired instead.
func FormFailure(c *fiber.Ctx, err error) (*failure.Failure, bool) {
	f := failure.Classify(err, Printer(c))
	if f.Teardown() {
		return f, false
	}

	return f, true
}

// QueryBool reports whether the query parameter is set to a true value.
func QueryBool(c *fiber.Ctx, key string) bool {
	v, err := strconv.ParseBool(c.Query(key))
	return err == nil && v
}
