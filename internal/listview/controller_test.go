package listview

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/storage/memory/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workflow-admin/workflow-admin/internal/apiclient"
	"github.com/workflow-admin/workflow-admin/internal/config"
	"github.com/workflow-admin/workflow-admin/internal/failure"
	"github.com/workflow-admin/workflow-admin/internal/models"
	"github.com/workflow-admin/workflow-admin/internal/web/session"
)

type fakeAPI struct {
	role      models.Role
	workflows []models.Workflow
	users     []models.User
	status    int // forced status for workflow list calls
	hits      atomic.Int32
	paths     chan string
	onList    func()
}

func (f *fakeAPI) handler(t *testing.T) http.Handler {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprintf(w, `{"token":"tok","userId":"42","name":"Alice","email":"alice@example.com","role":%q}`, f.role)
	})

	list := func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)

		if f.paths != nil {
			f.paths <- r.URL.Path + "?" + r.URL.RawQuery
		}

		if f.onList != nil {
			f.onList()
		}

		if f.status != 0 {
			w.WriteHeader(f.status)
			_, _ = fmt.Fprint(w, `{"message":"nope"}`)

			return
		}

		out := make([]models.Workflow, 0, len(f.workflows))

		for _, wf := range f.workflows {
			if st := r.URL.Query().Get("status"); st == "" || string(wf.Status) == st {
				out = append(out, wf)
			}
		}

		_ = json.NewEncoder(w).Encode(out)
	}

	mux.HandleFunc("/api/workflows", list)
	mux.HandleFunc("/api/workflows/me/assigned", list)
	mux.HandleFunc("/api/workflows/me/created", list)

	mux.HandleFunc("/api/users", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(f.users)
	})

	mux.HandleFunc("/api/users/role/", func(w http.ResponseWriter, r *http.Request) {
		role := models.Role(r.URL.Path[len("/api/users/role/"):])
		out := make([]models.User, 0)

		for _, u := range f.users {
			if u.Role == role {
				out = append(out, u)
			}
		}

		_ = json.NewEncoder(w).Encode(out)
	})

	return mux
}

func workflows(n int) []models.Workflow {
	out := make([]models.Workflow, 0, n)
	for i := 1; i <= n; i++ {
		creator := models.ID("7")
		if i%2 == 0 {
			creator = "42"
		}

		out = append(out, models.Workflow{
			ID:       models.ID(fmt.Sprint(i)),
			Title:    fmt.Sprintf("Task %d", i),
			Status:   models.StatusPending,
			Creator:  models.Identity{ID: creator},
			Assignee: models.Identity{ID: "99"},
		})
	}

	return out
}

func setup(t *testing.T, api *fakeAPI) (*Controller, *session.Store, string) {
	t.Helper()

	srv := httptest.NewServer(api.handler(t))
	t.Cleanup(srv.Close)

	client, err := apiclient.New(srv.URL + "/api")
	require.NoError(t, err)

	store := session.New(memory.New(), client, time.Hour)

	sid, _, err := store.Login(context.Background(), models.Credentials{Username: "alice", Password: "secret"})
	require.NoError(t, err)

	ctrl := New(store, config.UI{ItemsPerPage: 10, RedirectDelay: 2 * time.Second})

	return ctrl, store, sid
}

func TestAllWorkflows_PaginationAndGating(t *testing.T) {
	api := &fakeAPI{role: models.RoleStaff, workflows: workflows(23)}
	ctrl, _, sid := setup(t, api)

	page, err := ctrl.AllWorkflows(context.Background(), Request{
		SessionID: sid,
		Update:    func(f *Filter) { f.SetPage(3) },
	})
	require.NoError(t, err)

	assert.Equal(t, StateLoaded, page.State)
	assert.Equal(t, 3, page.Pager.TotalPages)
	assert.Equal(t, 3, page.Pager.Page)
	require.Len(t, page.Rows, 3)

	for _, row := range page.Rows {
		own := row.Creator.ID == "42"
		assert.Equal(t, own, row.Can.EditAll, row.ID)
		assert.Equal(t, own, row.Can.Delete, row.ID)
	}
}

func TestAllWorkflows_LocalOpsDoNotRefetch(t *testing.T) {
	api := &fakeAPI{role: models.RoleAdmin, workflows: workflows(23)}
	ctrl, _, sid := setup(t, api)

	_, err := ctrl.AllWorkflows(context.Background(), Request{SessionID: sid})
	require.NoError(t, err)
	assert.Equal(t, int32(1), api.hits.Load())

	page, err := ctrl.AllWorkflows(context.Background(), Request{
		SessionID: sid,
		Update:    func(f *Filter) { f.SetSearch("task 2") },
	})
	require.NoError(t, err)
	assert.Equal(t, int32(1), api.hits.Load())
	assert.Equal(t, 5, page.Matched) // 2, 20, 21, 22, 23
	assert.Equal(t, 23, page.Fetched)

	page, err = ctrl.AllWorkflows(context.Background(), Request{
		SessionID: sid,
		Update:    func(f *Filter) { f.SetCreator("42") },
	})
	require.NoError(t, err)
	assert.Equal(t, int32(2), api.hits.Load())
	assert.Equal(t, 2, page.Matched) // 2, 22

	_, err = ctrl.AllWorkflows(context.Background(), Request{SessionID: sid, Refresh: true})
	require.NoError(t, err)
	assert.Equal(t, int32(3), api.hits.Load())
}

func TestAllWorkflows_EndpointPerRole(t *testing.T) {
	tests := []struct {
		role models.Role
		want string
	}{
		{models.RoleAdmin, "/api/workflows?status=COMPLETED"},
		{models.RoleManager, "/api/workflows?status=COMPLETED"},
		{models.RoleStaff, "/api/workflows/me/assigned?status=COMPLETED"},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			api := &fakeAPI{role: tt.role, paths: make(chan string, 4)}
			ctrl, _, sid := setup(t, api)

			_, err := ctrl.AllWorkflows(context.Background(), Request{
				SessionID: sid,
				Update:    func(f *Filter) { f.SetStatus(models.StatusCompleted) },
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, <-api.paths)
		})
	}
}

func TestAllWorkflows_UnauthorizedEndsSession(t *testing.T) {
	api := &fakeAPI{role: models.RoleAdmin, status: http.StatusUnauthorized}
	ctrl, store, sid := setup(t, api)

	page, err := ctrl.AllWorkflows(context.Background(), Request{SessionID: sid})
	require.NoError(t, err)

	assert.Equal(t, StateFailed, page.State)
	assert.True(t, page.Teardown)
	assert.Equal(t, 2*time.Second, page.RedirectAfter)
	assert.Equal(t, failure.CategoryAuthExpired, page.Failure.Category)
	assert.Empty(t, page.Rows)

	assert.False(t, store.IsAuthenticated(sid))
	assert.Empty(t, store.Token(sid))
	assert.Nil(t, store.Current(sid))
}

func TestAllWorkflows_ForbiddenKeepsSession(t *testing.T) {
	api := &fakeAPI{role: models.RoleManager, status: http.StatusForbidden}
	ctrl, store, sid := setup(t, api)

	page, err := ctrl.AllWorkflows(context.Background(), Request{SessionID: sid})
	require.NoError(t, err)

	assert.Equal(t, StateFailed, page.State)
	assert.False(t, page.Teardown)
	assert.Equal(t, failure.MsgForbidden, page.Message)
	assert.True(t, store.IsAuthenticated(sid))

	// a failed view refetches on the next render
	api.status = 0
	page, err = ctrl.AllWorkflows(context.Background(), Request{SessionID: sid})
	require.NoError(t, err)
	assert.Equal(t, StateLoaded, page.State)
}

func TestAllWorkflows_ResponseAfterLogoutIsDropped(t *testing.T) {
	api := &fakeAPI{role: models.RoleAdmin, workflows: workflows(3)}
	ctrl, store, sid := setup(t, api)

	api.onList = func() { _ = store.Logout(sid) }

	_, err := ctrl.AllWorkflows(context.Background(), Request{SessionID: sid})
	require.ErrorIs(t, err, session.ErrNoSession)

	var v Views
	_, err = store.LoadViews(sid, &v)
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestNoSession(t *testing.T) {
	ctrl, _, _ := setup(t, &fakeAPI{role: models.RoleAdmin})

	_, err := ctrl.AllWorkflows(context.Background(), Request{SessionID: "unknown"})
	assert.ErrorIs(t, err, session.ErrNoSession)

	_, err = ctrl.Users(context.Background(), Request{SessionID: "unknown"})
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestMyWorkflows_TabsAndReconcile(t *testing.T) {
	api := &fakeAPI{role: models.RoleStaff, workflows: workflows(4)}
	ctrl, _, sid := setup(t, api)

	page, err := ctrl.MyWorkflows(context.Background(), Request{SessionID: sid})
	require.NoError(t, err)
	assert.Equal(t, TabAssigned, page.Tab)
	assert.Equal(t, 4, page.AssignedCount)
	assert.Equal(t, 4, page.CreatedCount)
	assert.Equal(t, int32(2), api.hits.Load())

	_, err = ctrl.AllWorkflows(context.Background(), Request{SessionID: sid})
	require.NoError(t, err)

	updated := workflows(4)[1]
	updated.Title = "Renamed"
	require.NoError(t, ctrl.ReplaceWorkflow(sid, updated))
	require.NoError(t, ctrl.RemoveWorkflow(sid, "1"))

	page, err = ctrl.MyWorkflows(context.Background(), Request{SessionID: sid, Tab: TabCreated})
	require.NoError(t, err)
	assert.Equal(t, TabCreated, page.Tab)
	assert.Equal(t, 3, page.CreatedCount)
	assert.Equal(t, 3, page.AssignedCount)
	assert.Equal(t, "Renamed", page.Rows[0].Title)

	all, err := ctrl.AllWorkflows(context.Background(), Request{SessionID: sid})
	require.NoError(t, err)
	assert.Equal(t, 3, all.Matched)
	assert.Equal(t, "Renamed", all.Rows[0].Title)

	// no refetch happened for the reconciled views
	assert.Equal(t, int32(3), api.hits.Load())
}

func TestUsers_ManagerSeesManagersAndStaff(t *testing.T) {
	api := &fakeAPI{
		role: models.RoleManager,
		users: []models.User{
			{ID: "1", Name: "Root", Role: models.RoleAdmin},
			{ID: "42", Name: "Alice", Role: models.RoleManager},
			{ID: "43", Name: "Mona", Role: models.RoleManager},
			{ID: "50", Name: "Sam", Role: models.RoleStaff},
		},
	}
	ctrl, _, sid := setup(t, api)

	page, err := ctrl.Users(context.Background(), Request{SessionID: sid})
	require.NoError(t, err)
	require.Len(t, page.Rows, 3)
	assert.True(t, page.CanCreate)

	perms := map[models.ID]bool{}
	for _, r := range page.Rows {
		perms[r.ID] = r.Can.Delete
	}

	assert.Equal(t, map[models.ID]bool{"42": false, "43": false, "50": true}, perms)

	page, err = ctrl.Users(context.Background(), Request{
		SessionID: sid,
		Update:    func(f *Filter) { f.SetRole(models.RoleStaff) },
	})
	require.NoError(t, err)
	require.Len(t, page.Rows, 1)
	assert.Equal(t, "Sam", page.Rows[0].Name)

	require.NoError(t, ctrl.RemoveUser(sid, "50"))

	page, err = ctrl.Users(context.Background(), Request{SessionID: sid})
	require.NoError(t, err)
	assert.Empty(t, page.Rows)
}

func TestAllWorkflows_DeleteDuringFetch(t *testing.T) {
	var blocking atomic.Bool

	entered, release := make(chan struct{}, 1), make(chan struct{})

	api := &fakeAPI{role: models.RoleAdmin, workflows: workflows(4)}
	api.onList = func() {
		if blocking.Load() {
			entered <- struct{}{}
			<-release
		}
	}
	ctrl, store, sid := setup(t, api)

	mine, err := ctrl.MyWorkflows(context.Background(), Request{SessionID: sid})
	require.NoError(t, err)
	require.Equal(t, 4, mine.AssignedCount)

	blocking.Store(true)

	var all *WorkflowPage

	done := make(chan error, 1)

	go func() {
		var err error
		all, err = ctrl.AllWorkflows(context.Background(), Request{SessionID: sid})
		done <- err
	}()

	<-entered
	require.NoError(t, ctrl.RemoveWorkflow(sid, "1"))
	close(release)
	require.NoError(t, <-done)

	// the fetch answered before the delete; the removal is replayed onto it
	assert.Equal(t, 3, all.Matched)

	for _, r := range all.Rows {
		assert.NotEqual(t, models.ID("1"), r.ID)
	}

	mine, err = ctrl.MyWorkflows(context.Background(), Request{SessionID: sid})
	require.NoError(t, err)
	assert.Equal(t, 3, mine.AssignedCount)
	assert.Equal(t, 3, mine.CreatedCount)

	var v Views
	_, err = store.LoadViews(sid, &v)
	require.NoError(t, err)
	assert.Equal(t, 1, v.Rev)
	require.Len(t, v.Journal, 1)
	assert.Equal(t, ChangeRemoveWorkflow, v.Journal[0].Kind)
}

func TestSummary_IgnoresMyWorkflowsFilter(t *testing.T) {
	wfs := workflows(4)
	wfs[0].Status = models.StatusCompleted

	api := &fakeAPI{role: models.RoleStaff, workflows: wfs}
	ctrl, _, sid := setup(t, api)

	mine, err := ctrl.MyWorkflows(context.Background(), Request{
		SessionID: sid,
		Update:    func(f *Filter) { f.SetStatus(models.StatusCompleted) },
	})
	require.NoError(t, err)
	assert.Equal(t, 1, mine.AssignedCount)

	sum, err := ctrl.Summary(context.Background(), Request{SessionID: sid})
	require.NoError(t, err)
	assert.Equal(t, 4, sum.AssignedCount)
	assert.Equal(t, 4, sum.CreatedCount)
	assert.Len(t, sum.Assigned, 4)

	// cached apart: neither render refetches the other
	hits := api.hits.Load()

	mine, err = ctrl.MyWorkflows(context.Background(), Request{SessionID: sid})
	require.NoError(t, err)
	assert.Equal(t, 1, mine.AssignedCount)

	_, err = ctrl.Summary(context.Background(), Request{SessionID: sid})
	require.NoError(t, err)
	assert.Equal(t, hits, api.hits.Load())

	require.NoError(t, ctrl.RemoveWorkflow(sid, wfs[1].ID))

	sum, err = ctrl.Summary(context.Background(), Request{SessionID: sid})
	require.NoError(t, err)
	assert.Equal(t, 3, sum.AssignedCount)
}

func TestViews_ReplayAfterJournalOverflow(t *testing.T) {
	stored := &Views{}
	for i := 0; i < journalSize+5; i++ {
		stored.record(Change{Kind: ChangeRemoveWorkflow, ID: models.ID(fmt.Sprint(100 + i))})
	}

	require.Len(t, stored.Journal, journalSize)

	own := &Views{All: &WorkflowList{State: StateLoaded, Rows: workflows(2)}}
	own.replay(stored.Journal, 1)
	assert.Equal(t, StateIdle, own.All.State)

	own = &Views{All: &WorkflowList{State: StateLoaded, Rows: workflows(2)}}
	own.replay(stored.Journal, stored.Rev-1)
	assert.Equal(t, StateLoaded, own.All.State)
}
