package register

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workflow-admin/workflow-admin/internal/models"
	"github.com/workflow-admin/workflow-admin/internal/web/handler/handlertest"
	"github.com/workflow-admin/workflow-admin/internal/web/handler/login"
)

func newTestEnv(t *testing.T) *handlertest.Env {
	t.Helper()

	env := handlertest.NewEnv(t, handlertest.NewAPI(models.Actor{ID: "1", Email: "a@example.com", Role: models.RoleStaff}))

	var s Service
	require.NoError(t, s.Init(env.App, env.Deps, nil))

	return env
}

func TestRegister(t *testing.T) {
	env := newTestEnv(t)

	status, body, _ := env.Do(t, http.MethodGet, Path, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, TemplateName)

	status, _, loc := env.Do(t, http.MethodPost, Path, url.Values{
		"name": {"Dana Doe"}, "email": {"dana@example.com"}, "password": {"longpassword"},
	})
	assert.Equal(t, http.StatusFound, status)
	assert.Equal(t, login.Path+"?"+login.RegisteredQuery+"=true", loc)
	assert.True(t, env.API.Called("POST /auth/register"))
}

func TestRegister_ValidationErrors(t *testing.T) {
	env := newTestEnv(t)

	status, body, _ := env.Do(t, http.MethodPost, Path, url.Values{
		"name": {"Dan"}, "email": {"dana"}, "password": {"short"},
	})
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "field email=Please enter a valid email address.")
	assert.Contains(t, body, "field name=Name must be at least 4 characters.")
	assert.Contains(t, body, "field password=Password must be at least 8 characters.")
	assert.False(t, env.API.Called("POST /auth/register"))
}

func TestRegister_ServerMessage(t *testing.T) {
	env := newTestEnv(t)
	env.API.Status["POST /auth/register"] = http.StatusConflict

	_, body, _ := env.Do(t, http.MethodPost, Path, url.Values{
		"name": {"Dana Doe"}, "email": {"dana@example.com"}, "password": {"longpassword"},
	})
	assert.Contains(t, body, "error=request rejected")
}
