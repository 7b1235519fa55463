package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/workflow-admin/workflow-admin/internal/models"
)

const (
	// LocalsActor is the fiber.Locals key of the authenticated actor.
	LocalsActor = "CurrentUser"

	// LocalsSessionID is the fiber.Locals key of the browser session id.
	LocalsSessionID = "SessionID"

	localsPermissions = "permissions"
)

// Actor returns the authenticated actor of the request, or nil.
func Actor(c *fiber.Ctx) *models.Actor {
	actor, _ := c.Locals(LocalsActor).(*models.Actor)
	return actor
}

// SessionID returns the session id of an authenticated request, or "".
func SessionID(c *fiber.Ctx) string {
	sid, _ := c.Locals(LocalsSessionID).(string)
	return sid
}

// UserID returns the id of the authenticated actor, or "".
func UserID(c *fiber.Ctx) string {
	if actor := Actor(c); actor != nil {
		return actor.ID.String()
	}

	return ""
}

// RequirePermission creates Fiber middleware that requires a specific permission.
func RequirePermission(permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := Actor(c)
		if actor == nil {
			return c.Status(fiber.StatusUnauthorized).SendString("Unauthorized")
		}

		if !HasPermission(actor, permission) {
			log.Warn().Str("user_id", actor.ID.String()).Str("permission", permission).
				Msg("User lacks required permission")

			return c.Status(fiber.StatusForbidden).SendString("Forbidden: You don't have permission to access this resource")
		}

		return c.Next()
	}
}

// RequireAnyPermission creates Fiber middleware that requires at least one of the given permissions.
func RequireAnyPermission(permissions ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := Actor(c)
		if actor == nil {
			return c.Status(fiber.StatusUnauthorized).SendString("Unauthorized")
		}

		if !HasAnyPermission(actor, permissions...) {
			log.Warn().Str("user_id", actor.ID.String()).Strs("permissions", permissions).
				Msg("User lacks required permissions")

			return c.Status(fiber.StatusForbidden).SendString("Forbidden: You don't have permission to access this resource")
		}

		return c.Next()
	}
}

// AddPermissionsToLocals is a Fiber middleware that adds the actor's permissions to fiber.Locals.
// This allows templates to gate navigation entries.
func AddPermissionsToLocals() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := Actor(c)
		if actor == nil {
			return c.Next()
		}

		c.Locals(localsPermissions, Permissions(actor))

		return c.Next()
	}
}

// PermissionsFromContext returns the permissions added by AddPermissionsToLocals.
func PermissionsFromContext(c *fiber.Ctx) map[string]bool {
	perms, _ := c.Locals(localsPermissions).(map[string]bool)
	return perms
}
