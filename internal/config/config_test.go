package config

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workflow-admin/workflow-admin/internal/models"
)

func projectConfigPath(t *testing.T) string {
	t.Helper()

	// Get the project root by going up from internal/config
	projectRoot, err := filepath.Abs("../../")
	require.NoError(t, err)

	return filepath.Join(projectRoot, "etc") + string(filepath.Separator)
}

func TestReadConfig(t *testing.T) {
	cfg, err := ReadConfig(projectConfigPath(t))
	require.NoError(t, err)

	assert.NotEmpty(t, cfg.Title)
	assert.NotZero(t, cfg.Webserver.Port)
	assert.NotEmpty(t, cfg.Webserver.URL)
	assert.Equal(t, "http://localhost:8080/api", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, BackendMemory, cfg.SessionStorage.Backend)
	assert.Equal(t, 10, cfg.UI.ItemsPerPage)
	assert.Equal(t, 2*time.Second, cfg.UI.RedirectDelay)
	assert.Equal(t, models.RoleStaff, cfg.UI.DefaultCreateRole)
	assert.Equal(t, 24*time.Hour, cfg.Webserver.Session.ExpiryTime)
}

func TestConfigValidation(t *testing.T) {
	valid := func() Config {
		return Config{
			Webserver: Webserver{Port: 8080, URL: "http://localhost:8080"},
			API:       API{BaseURL: "http://localhost:8080/api"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{name: "valid config", mutate: func(*Config) {}},
		{name: "missing port", mutate: func(c *Config) { c.Webserver.Port = 0 }, wantErr: ErrWebServerPortCanNotBeZero},
		{name: "missing URL", mutate: func(c *Config) { c.Webserver.URL = "" }, wantErr: ErrEmptyURL},
		{name: "missing API base URL", mutate: func(c *Config) { c.API.BaseURL = "" }, wantErr: ErrEmptyAPIBaseURL},
		{
			name:    "unknown session backend",
			mutate:  func(c *Config) { c.SessionStorage.Backend = "etcd" },
			wantErr: ErrUnknownSessionBackend,
		},
		{
			name:    "invalid default role",
			mutate:  func(c *Config) { c.UI.DefaultCreateRole = "OWNER" },
			wantErr: ErrInvalidDefaultRole,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)

			err := validate(&c)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}

			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestValidateFillsDefaults(t *testing.T) {
	c := Config{
		Webserver: Webserver{Port: 8080, URL: "http://localhost:8080"},
		API:       API{BaseURL: "http://localhost:8080/api"},
		UI:        UI{DefaultCreateRole: "manager"},
	}

	require.NoError(t, validate(&c))

	assert.Equal(t, 5, c.Webserver.ShutDownTime)
	assert.Equal(t, BackendMemory, c.SessionStorage.Backend)
	assert.Equal(t, "sessions", c.SessionStorage.Table)
	assert.Equal(t, 10, c.UI.ItemsPerPage)
	assert.Equal(t, []int{5, 10, 25, 50}, c.UI.PageSizes)
	assert.Equal(t, models.RoleManager, c.UI.DefaultCreateRole)
}

func TestReadConfigWithJSONOverride(t *testing.T) {
	// Set JSON override environment variable
	t.Setenv(EnvConfigJSON, `{"Title":"Test Override","Webserver":{"Port":9090}}`)

	cfg, err := ReadConfig(projectConfigPath(t))
	require.NoError(t, err)

	assert.Equal(t, "Test Override", cfg.Title)
	assert.Equal(t, 9090, cfg.Webserver.Port)
	// untouched values survive the merge
	assert.Equal(t, "http://localhost:3000", cfg.Webserver.URL)
}

func TestReadConfigWithEnvOverride(t *testing.T) {
	t.Setenv(EnvConfigJSON, `{"Webserver":{"Port":9090}}`)
	t.Setenv("WORKFLOW_ADMIN_WEBSERVER_PORT", "7070")
	t.Setenv("WORKFLOW_ADMIN_API_BASEURL", "https://api.example.com/api")
	t.Setenv("WORKFLOW_ADMIN_SESSIONSTORAGE_BACKEND", "redis")

	cfg, err := ReadConfig(projectConfigPath(t))
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Webserver.Port)
	assert.Equal(t, "https://api.example.com/api", cfg.API.BaseURL)
	assert.Equal(t, BackendRedis, cfg.SessionStorage.Backend)
}

func TestReadConfig_MissingFile(t *testing.T) {
	_, err := ReadConfig(t.TempDir() + string(filepath.Separator))
	assert.Error(t, err)
}

func TestDumpConfig(t *testing.T) {
	cfg := Config{
		Title:   "Test",
		DevMode: true,
		Webserver: Webserver{
			Port: 8080,
			URL:  "http://localhost:8080",
		},
	}

	tomlStr, err := DumpConfig(&cfg)
	require.NoError(t, err)
	assert.True(t, strings.Contains(tomlStr, "Test"))

	jsonStr, err := DumpConfigJSON(&cfg)
	require.NoError(t, err)
	assert.Contains(t, jsonStr, `"Title": "Test"`)
}
