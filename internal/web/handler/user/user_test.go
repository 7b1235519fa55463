package user

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workflow-admin/workflow-admin/internal/models"
	"github.com/workflow-admin/workflow-admin/internal/web/handler"
	"github.com/workflow-admin/workflow-admin/internal/web/handler/handlertest"
	"github.com/workflow-admin/workflow-admin/internal/web/session"
)

func newTestEnv(t *testing.T, role models.Role) *handlertest.Env {
	t.Helper()

	api := handlertest.NewAPI(models.Actor{ID: "42", Name: "Alice", Email: "alice@example.com", Role: role})
	api.Users = []models.User{
		{ID: "42", Name: "Alice", Email: "alice@example.com", Role: role},
		{ID: "43", Name: "Bobby", Email: "bob@example.com", Role: models.RoleStaff},
		{ID: "44", Name: "Mona Lisa", Email: "mona@example.com", Role: models.RoleManager},
	}

	env := handlertest.NewEnv(t, api)

	var s Service
	require.NoError(t, s.Init(env.App, env.Deps))

	return env
}

func TestInit_NilDeps(t *testing.T) {
	var s Service
	assert.Error(t, s.Init(nil, nil))
}

func TestList_EndpointByRole(t *testing.T) {
	manager := newTestEnv(t, models.RoleManager)

	status, body, _ := manager.Do(t, http.MethodGet, Path, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, ListTemplate)
	assert.True(t, manager.API.Called("GET /users/role/STAFF"))
	assert.True(t, manager.API.Called("GET /users/role/MANAGER"))
	assert.False(t, manager.API.Called("GET /users"))

	admin := newTestEnv(t, models.RoleAdmin)

	status, _, _ = admin.Do(t, http.MethodGet, Path+"?role=STAFF", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, admin.API.Called("GET /users"))
}

func TestList_UnauthorizedEndsSession(t *testing.T) {
	env := newTestEnv(t, models.RoleAdmin)
	env.API.Status["GET /users"] = http.StatusUnauthorized

	status, body, _ := env.Do(t, http.MethodGet, Path, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Contains(t, body, handler.ExpiredTemplate)
	assert.False(t, env.Deps.Sessions.IsAuthenticated(env.SessionID))
}

func TestCreate(t *testing.T) {
	env := newTestEnv(t, models.RoleAdmin)

	status, body, _ := env.Do(t, http.MethodGet, NewPath, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, FormTemplate)

	status, body, _ = env.Do(t, http.MethodPost, NewPath, url.Values{
		"name": {"Carol"}, "email": {"carol@example.com"}, "password": {"short"}, "role": {"MANAGER"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, body, "field password=")
	assert.False(t, env.API.Called("POST /users"))

	status, _, location := env.Do(t, http.MethodPost, NewPath, url.Values{
		"name": {"Carol"}, "email": {"carol@example.com"}, "password": {"longenough"}, "role": {"MANAGER"},
	})
	assert.Equal(t, http.StatusFound, status)
	assert.Equal(t, Path, location)
	assert.True(t, env.API.Called("POST /users"))

	flashes := env.Deps.Sessions.Flashes(env.SessionID)
	require.Len(t, flashes, 1)
	assert.Equal(t, session.FlashSuccess, flashes[0].Kind)
}

func TestCreate_ManagerCannotCreateAdmin(t *testing.T) {
	env := newTestEnv(t, models.RoleManager)

	status, body, _ := env.Do(t, http.MethodPost, NewPath, url.Values{
		"name": {"Carol"}, "email": {"carol@example.com"}, "password": {"longenough"}, "role": {"ADMIN"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, body, "field role=")
	assert.False(t, env.API.Called("POST /users"))
}

func TestCreate_StaffForbidden(t *testing.T) {
	env := newTestEnv(t, models.RoleStaff)

	status, _, _ := env.Do(t, http.MethodGet, NewPath, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestEdit_OwnProfile(t *testing.T) {
	env := newTestEnv(t, models.RoleStaff)

	status, body, _ := env.Do(t, http.MethodGet, EditPath("42"), nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, FormTemplate)

	status, _, _ = env.Do(t, http.MethodGet, EditPath("44"), nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestUpdate_ProfileThenRole(t *testing.T) {
	env := newTestEnv(t, models.RoleAdmin)

	status, _, location := env.Do(t, http.MethodPost, EditPath("43"), url.Values{
		"name": {"Bobby Tables"}, "email": {"bob@example.com"}, "role": {"MANAGER"},
	})
	assert.Equal(t, http.StatusFound, status)
	assert.Equal(t, Path, location)
	assert.True(t, env.API.Called("PUT /users/43"))
	assert.True(t, env.API.Called("POST /users/43/role"))
	assert.Equal(t, models.RoleManager, env.API.Users[1].Role)
}

func TestUpdate_PartialSuccess(t *testing.T) {
	env := newTestEnv(t, models.RoleAdmin)
	env.API.Status["POST /users/43/role"] = http.StatusInternalServerError

	status, _, location := env.Do(t, http.MethodPost, EditPath("43"), url.Values{
		"name": {"Bobby Tables"}, "email": {"bob@example.com"}, "role": {"MANAGER"},
	})
	assert.Equal(t, http.StatusFound, status)
	assert.Equal(t, Path, location)
	assert.Equal(t, "Bobby Tables", env.API.Users[1].Name)

	flashes := env.Deps.Sessions.Flashes(env.SessionID)
	require.Len(t, flashes, 1)
	assert.Equal(t, session.FlashError, flashes[0].Kind)
	assert.Equal(t, "User info updated but role change failed: request rejected", flashes[0].Message)
	assert.True(t, env.Deps.Sessions.IsAuthenticated(env.SessionID))
}

func TestUpdate_ValidationError(t *testing.T) {
	env := newTestEnv(t, models.RoleAdmin)

	status, body, _ := env.Do(t, http.MethodPost, EditPath("43"), url.Values{
		"name": {"Bobby"}, "email": {"not-an-email"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, body, "field email=")
	assert.False(t, env.API.Called("PUT /users/43"))
}

func TestDelete(t *testing.T) {
	env := newTestEnv(t, models.RoleAdmin)
	target := Path + "/43/delete"

	status, body, _ := env.Do(t, http.MethodGet, target, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, DeleteTemplate)

	status, body, _ = env.Do(t, http.MethodPost, target, url.Values{"confirmation": {"bobby"}})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, body, "field confirmation=")
	assert.False(t, env.API.Called("DELETE /users/43"))

	status, _, location := env.Do(t, http.MethodPost, target, url.Values{"confirmation": {"Bobby"}})
	assert.Equal(t, http.StatusFound, status)
	assert.Equal(t, Path, location)
	assert.True(t, env.API.Called("DELETE /users/43"))
}

func TestDelete_SelfForbidden(t *testing.T) {
	env := newTestEnv(t, models.RoleAdmin)

	status, _, _ := env.Do(t, http.MethodGet, Path+"/42/delete", nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestDelete_Missing(t *testing.T) {
	env := newTestEnv(t, models.RoleAdmin)

	status, _, _ := env.Do(t, http.MethodGet, Path+"/99/delete", nil)
	assert.Equal(t, http.StatusNotFound, status)
}
