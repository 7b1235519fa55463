// Package config handles input from etc/*.toml files
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"

	"github.com/workflow-admin/workflow-admin/internal/models"
)

const (
	// EnvPrefix prefixes every environment override, e.g. WORKFLOW_ADMIN_API_BASEURL.
	EnvPrefix = "WORKFLOW_ADMIN"

	// EnvConfigJSON holds a JSON document merged over the TOML file.
	EnvConfigJSON = EnvPrefix + "_CONFIG_JSON"

	defaultShutDownTime  = 5
	defaultItemsPerPage  = 10
	defaultRedirectDelay = 2 * time.Second
	defaultSessionTable  = "sessions"
)

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var (
		c             Config
		JSONConfigEnv string
		err           error
	)

	// Read main configuration
	if path == "" {
		path = "./etc/"
	}

	if _, err = toml.DecodeFile(path+"main.toml", &c); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	// override it from env
	JSONConfigEnv = os.Getenv(EnvConfigJSON)

	if JSONConfigEnv != "" {
		c, err = decodeAndMergeConfig(c, JSONConfigEnv)
		if err != nil {
			return c, err
		}
	}

	// single values from env win over both
	if err = envconfig.Process(EnvPrefix, &c); err != nil {
		return c, errors.Wrap(err, "failed to read config from environment")
	}

	return c, validate(&c)
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	err := json.Unmarshal([]byte(configAsJSON), &c)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	return c, nil
}

// DumpConfig config as TOML String.
func DumpConfig(c *Config) (string, error) {
	var buffer bytes.Buffer
	t := toml.NewEncoder(&buffer)

	if err := t.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate minimal config settings and fill in defaults.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	// validate webserver listening port
	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	if c.API.BaseURL == "" {
		return errors.Wrap(ErrEmptyAPIBaseURL, invalidErrMessage)
	}

	switch c.SessionStorage.Backend {
	case "":
		c.SessionStorage.Backend = BackendMemory
	case BackendMemory, BackendRedis, BackendMySQL, BackendPostgres:
	default:
		return errors.Wrapf(ErrUnknownSessionBackend, "%s: %q", invalidErrMessage, c.SessionStorage.Backend)
	}

	if c.UI.DefaultCreateRole == "" {
		c.UI.DefaultCreateRole = models.RoleStaff
	}

	role, err := models.ParseRole(string(c.UI.DefaultCreateRole))
	if err != nil {
		return errors.Wrap(ErrInvalidDefaultRole, invalidErrMessage)
	}

	c.UI.DefaultCreateRole = role

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = defaultShutDownTime
	}

	if c.Webserver.Session.ExpiryTime <= 0 {
		c.Webserver.Session.ExpiryTime = 24 * time.Hour
	}

	if c.UI.ItemsPerPage < 1 {
		c.UI.ItemsPerPage = defaultItemsPerPage
	}

	if len(c.UI.PageSizes) == 0 {
		c.UI.PageSizes = []int{5, 10, 25, 50}
	}

	if c.UI.RedirectDelay <= 0 {
		c.UI.RedirectDelay = defaultRedirectDelay
	}

	if c.SessionStorage.Table == "" {
		c.SessionStorage.Table = defaultSessionTable
	}

	return nil
}
