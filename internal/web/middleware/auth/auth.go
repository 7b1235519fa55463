package auth

import (
	"slices"
	"strings"

	"github.com/gofiber/fiber/v2"

	appauth "github.com/workflow-admin/workflow-admin/internal/auth"
	"github.com/workflow-admin/workflow-admin/internal/web/handler"
	"github.com/workflow-admin/workflow-admin/internal/web/session"
)

// publicPrefixes are reachable without a session.
var publicPrefixes = []string{"/static", "/logout", "/checkalive", "/metrics"}

// authPages redirect to the dashboard when a session exists.
var authPages = []string{handler.LoginPath, "/register"}

// New returns a Fiber middleware that checks for user authentication
// against sessions.
func New(sessions *session.Store) fiber.Handler {
	if sessions == nil {
		panic("session store is nil")
	}

	return func(c *fiber.Ctx) error {
		originalURL := strings.ToLower(c.OriginalURL())

		if slices.ContainsFunc(publicPrefixes, func(p string) bool { return strings.HasPrefix(originalURL, p) }) {
			return c.Next()
		}

		isAuthPage := IsAuthPage(c)

		// get session cookie
		sessionID := c.Cookies(session.CookieName)

		actor := sessions.Current(sessionID)
		if actor == nil {
			if isAuthPage {
				return c.Next()
			}

			// drop a stale cookie so the next login starts clean
			if sessionID != "" {
				c.Cookie(sessions.Cookie("", c.Protocol() == "https"))
			}

			return c.Redirect(handler.LoginPath)
		}

		if isAuthPage {
			return c.Redirect(handler.DashboardPath)
		}

		// Add the current user to locals for template access
		c.Locals(appauth.LocalsActor, actor)
		c.Locals(appauth.LocalsSessionID, sessionID)

		return c.Next()
	}
}

// IsAuthPage checks if the current request is for the login or register page.
func IsAuthPage(c *fiber.Ctx) bool {
	originalURL := strings.ToLower(c.OriginalURL())

	return slices.ContainsFunc(authPages, func(p string) bool { return strings.HasPrefix(originalURL, p) })
}
