package config

import (
	"time"

	"github.com/workflow-admin/workflow-admin/internal/logger"
	"github.com/workflow-admin/workflow-admin/internal/models"
)

// Session settings of the browser session cookie.
type Session struct {
	ExpiryTime time.Duration
}

// Config overall data structure.
type Config struct {
	DevMode        bool // enable dev mode for development
	Title          string
	Webserver      Webserver
	API            API
	SessionStorage SessionStorage
	UI             UI
	RateLimit      RateLimit
	Log            logger.Log
}

// Webserver implement webserver settings.
type Webserver struct {
	BrowseStatic   bool    // enable static file browsing (for development purposes only)
	DisableRecover bool    // disable recover middleware
	Port           int     // listening port for the webserver
	ShutDownTime   int     // wait time for shutdown
	URL            string  // base url for the webserver
	CookieSecure   bool    // send the session cookie with the Secure flag
	Session        Session // session settings
}

// API holds the settings of the remote workflow API.
type API struct {
	BaseURL string        // e.g. http://localhost:8080/api
	Timeout time.Duration // per request
}

// Session storage backends.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendMySQL    = "mysql"
	BackendPostgres = "postgres"
)

// Redis connection settings.
type Redis struct {
	Addr     string
	Password string
	DB       int
}

// SessionStorage selects where session entries are kept.
type SessionStorage struct {
	Backend       string // memory, redis, mysql or postgres
	Redis         Redis
	ConnectionURI string // mysql and postgres
	Table         string // mysql and postgres
}

// UI holds list view and form defaults.
type UI struct {
	ItemsPerPage      int
	PageSizes         []int
	RedirectDelay     time.Duration // delay before redirecting to login after the session expired
	DefaultCreateRole models.Role   // preselected role of the create user form
}

// RateLimit limits login attempts per client address.
type RateLimit struct {
	LoginRequests int
	LoginWindow   time.Duration
}
