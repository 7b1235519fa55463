package dashboard

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workflow-admin/workflow-admin/internal/listview"
	"github.com/workflow-admin/workflow-admin/internal/models"
	"github.com/workflow-admin/workflow-admin/internal/web/handler"
	"github.com/workflow-admin/workflow-admin/internal/web/handler/handlertest"
)

func TestCountByStatus(t *testing.T) {
	got := countByStatus([]models.Workflow{
		{Status: models.StatusPending},
		{Status: models.StatusPending},
		{Status: models.StatusCompleted},
	})

	require.Len(t, got, len(models.Statuses()))
	assert.Equal(t, StatusCount{Status: models.StatusPending, Count: 2}, got[0])
}

func TestGet(t *testing.T) {
	api := handlertest.NewAPI(models.Actor{ID: "42", Name: "Alice", Email: "alice@example.com", Role: models.RoleStaff})
	api.Workflows = []models.Workflow{
		{ID: "1", Title: "a", Status: models.StatusPending, Creator: models.Identity{ID: "7"}, Assignee: models.Identity{ID: "42"}},
		{ID: "2", Title: "b", Status: models.StatusPending, Creator: models.Identity{ID: "42"}, Assignee: models.Identity{ID: "7"}},
	}

	env := handlertest.NewEnv(t, api)

	var s Service
	require.NoError(t, s.Init(env.App, env.Deps))

	status, body, _ := env.Do(t, http.MethodGet, Path, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, TemplateName)
	assert.True(t, api.Called("GET /workflows/me/assigned"))
	assert.True(t, api.Called("GET /workflows/me/created"))
}

func TestGet_ExpiredToken(t *testing.T) {
	api := handlertest.NewAPI(models.Actor{ID: "42", Email: "alice@example.com", Role: models.RoleStaff})
	api.Status["GET /workflows/me/assigned"] = http.StatusUnauthorized

	env := handlertest.NewEnv(t, api)

	var s Service
	require.NoError(t, s.Init(env.App, env.Deps))

	status, body, _ := env.Do(t, http.MethodGet, Path, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Contains(t, body, handler.ExpiredTemplate)
	assert.Contains(t, body, "Session expired")
	assert.False(t, env.Deps.Sessions.IsAuthenticated(env.SessionID))
}

func TestGet_UnfilteredCounts(t *testing.T) {
	api := handlertest.NewAPI(models.Actor{ID: "42", Name: "Alice", Email: "alice@example.com", Role: models.RoleStaff})
	api.Workflows = []models.Workflow{
		{ID: "1", Title: "a", Status: models.StatusPending, Assignee: models.Identity{ID: "42"}},
		{ID: "2", Title: "b", Status: models.StatusCompleted, Assignee: models.Identity{ID: "42"}},
	}

	env := handlertest.NewEnv(t, api)

	var s Service
	require.NoError(t, s.Init(env.App, env.Deps))

	mine, err := env.Deps.Lists.MyWorkflows(context.Background(), listview.Request{
		SessionID: env.SessionID,
		Update:    func(f *listview.Filter) { f.SetStatus(models.StatusCompleted) },
	})
	require.NoError(t, err)
	assert.Equal(t, 1, mine.AssignedCount)

	status, _, _ := env.Do(t, http.MethodGet, Path, nil)
	assert.Equal(t, http.StatusOK, status)
	// the dashboard fetches without the status filter of My Workflows
	assert.Equal(t, 2, api.Count("GET /workflows/me/assigned"))

	sum, err := env.Deps.Lists.Summary(context.Background(), listview.Request{SessionID: env.SessionID})
	require.NoError(t, err)
	assert.Equal(t, 2, sum.AssignedCount)
	assert.Equal(t, []StatusCount{
		{Status: models.StatusPending, Count: 1},
		{Status: models.StatusInProgress, Count: 0},
		{Status: models.StatusCompleted, Count: 1},
	}, countByStatus(sum.Assigned)[:3])

	status, _, _ = env.Do(t, http.MethodGet, Path, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 2, api.Count("GET /workflows/me/assigned"))
}
