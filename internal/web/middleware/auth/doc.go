// Package auth provides the session middleware of the web console.
//
// The middleware resolves the "session" cookie against the session store
// and redirects unauthenticated requests to the login page. For an
// authenticated request it stores the actor and the session id in
// fiber.Locals, where handlers and the auth permission middleware read
// them.
//
// The middleware performs the following tasks:
//   - Redirects to login when the cookie is missing or the session ended
//   - Clears a stale session cookie
//   - Redirects signed in users away from the login and register pages
//   - Leaves static assets, logout, metrics and the health check public
//
// Usage:
//
//	app.Use(authmiddleware.New(sessions))
package auth
