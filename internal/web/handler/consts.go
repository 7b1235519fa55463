package handler

const (
	// BaseLayout is the default path for layout templates.
	BaseLayout = "layouts/base"

	// AuthLayout is the layout of the pages shown without a session.
	AuthLayout = "layouts/auth"

	// RootPath is the root path the route group.
	RootPath = "/"

	// RouterRootPath is the root of a route group registered with app.Route.
	RouterRootPath = "/"

	// ErrorTemplate renders a failed page load.
	ErrorTemplate = "errors/error"

	// ExpiredTemplate tells the user the session ended and redirects to the login page.
	ExpiredTemplate = "errors/expired"

	// LoginPath is the login page, the target of every session teardown.
	LoginPath = "/login"

	// DashboardPath is the landing page after login.
	DashboardPath = "/dashboard"

	// ErrNilDepsFatalLogMsg is used if app or deps var pointer is nil.
	ErrNilDepsFatalLogMsg = "app or deps is nil"
)
