package handlertest

import (
	"github.com/gofiber/fiber/v2"

	"github.com/workflow-admin/workflow-admin/internal/auth"
	"github.com/workflow-admin/workflow-admin/internal/web/session"
)

// Authenticate sets the actor and session locals when the cookie names a
// live session, like the session middleware does, without redirecting.
func Authenticate(store *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies(session.CookieName)

		if actor := store.Current(sid); actor != nil {
			c.Locals(auth.LocalsActor, actor)
			c.Locals(auth.LocalsSessionID, sid)
		}

		return c.Next()
	}
}
