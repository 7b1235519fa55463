// Package handlertest provides a fake workflow API and a wired fiber app for handler tests.
package handlertest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage/memory/v2"
	"github.com/stretchr/testify/require"

	"github.com/workflow-admin/workflow-admin/internal/apiclient"
	"github.com/workflow-admin/workflow-admin/internal/auth"
	"github.com/workflow-admin/workflow-admin/internal/config"
	"github.com/workflow-admin/workflow-admin/internal/listview"
	"github.com/workflow-admin/workflow-admin/internal/models"
	"github.com/workflow-admin/workflow-admin/internal/mutation"
	"github.com/workflow-admin/workflow-admin/internal/web/handler"
	"github.com/workflow-admin/workflow-admin/internal/web/session"
)

// NoOpViews is a minimal Fiber Views engine used for tests.
// It writes the template name followed by the "error" field and any
// failure or field messages, so tests can assert what a handler rendered.
type NoOpViews struct{}

// Load implements fiber.Views.
func (NoOpViews) Load() error { return nil }

// Render implements fiber.Views.
func (NoOpViews) Render(w io.Writer, name string, data any, _ ...string) error {
	_, _ = io.WriteString(w, name)

	m, ok := data.(fiber.Map)
	if !ok {
		return nil
	}

	for _, key := range []string{"error", "notice"} {
		if v, exists := m[key]; exists && v != nil {
			_, _ = fmt.Fprintf(w, "\n%s=%v", key, v)
		}
	}

	if fields, ok := m["Errors"].(map[string]string); ok {
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}

		sort.Strings(keys)

		for _, k := range keys {
			_, _ = fmt.Fprintf(w, "\nfield %s=%s", k, fields[k])
		}
	}

	return nil
}

// API is an in-memory fake of the remote workflow API.
type API struct {
	mu        sync.Mutex
	Actor     models.Actor
	Workflows []models.Workflow
	Users     []models.User
	// Status forces a response code for "METHOD /path" requests.
	Status map[string]int
	Calls  []string
	nextID int
}

// NewAPI creates a fake whose login returns actor.
func NewAPI(actor models.Actor) *API {
	return &API{Actor: actor, Status: map[string]int{}, nextID: 1000}
}

// Called reports whether "METHOD /path" was requested.
func (a *API) Called(call string) bool {
	return a.Count(call) > 0
}

// Count returns how often "METHOD /path" was requested.
func (a *API) Count(call string) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	n := 0

	for _, c := range a.Calls {
		if c == call {
			n++
		}
	}

	return n
}

func (a *API) id() models.ID {
	a.nextID++
	return models.ID(strconv.Itoa(a.nextID))
}

func (a *API) write(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// ServeHTTP implements http.Handler.
func (a *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()

	path := strings.TrimPrefix(r.URL.Path, "/api")
	call := r.Method + " " + path
	a.Calls = append(a.Calls, call)

	if code, ok := a.Status[call]; ok {
		w.WriteHeader(code)
		_, _ = fmt.Fprint(w, `{"message":"request rejected"}`)

		return
	}

	body, _ := io.ReadAll(r.Body)
	parts := strings.Split(strings.Trim(path, "/"), "/")

	switch {
	case path == "/auth/login":
		a.write(w, fiber.Map{
			"token": "tok-" + a.Actor.ID.String(), "userId": a.Actor.ID, "name": a.Actor.Name,
			"email": a.Actor.Email, "role": a.Actor.Role,
		})
	case path == "/auth/register":
		var reg models.Registration
		_ = json.Unmarshal(body, &reg)
		u := models.User{ID: a.id(), Name: reg.Name, Email: reg.Email, Role: models.RoleStaff}
		a.Users = append(a.Users, u)
		a.write(w, u)
	case parts[0] == "workflows":
		a.workflows(w, r, parts, body)
	case parts[0] == "users":
		a.users(w, r, parts, body)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (a *API) workflowIndex(id string) int {
	for i := range a.Workflows {
		if a.Workflows[i].ID.String() == id {
			return i
		}
	}

	return -1
}

func (a *API) filterWorkflows(q url.Values, keep func(models.Workflow) bool) []models.Workflow {
	out := make([]models.Workflow, 0, len(a.Workflows))

	for _, wf := range a.Workflows {
		if s := q.Get("status"); s != "" && string(wf.Status) != s {
			continue
		}

		if keep != nil && !keep(wf) {
			continue
		}

		out = append(out, wf)
	}

	return out
}

func (a *API) workflows(w http.ResponseWriter, r *http.Request, parts []string, body []byte) {
	actor := a.Actor

	switch {
	case len(parts) == 1 && r.Method == http.MethodGet:
		a.write(w, a.filterWorkflows(r.URL.Query(), nil))
	case len(parts) == 1 && r.Method == http.MethodPost:
		var nw models.NewWorkflow
		_ = json.Unmarshal(body, &nw)

		wf := models.Workflow{
			ID: a.id(), Title: nw.Title, Description: nw.Description, Status: models.StatusPending,
			Creator:        models.Identity{ID: actor.ID, Name: actor.Name},
			Assignee:       models.Identity{ID: models.ID(nw.AssignedTo), Username: nw.AssignedTo},
			AssignedToRole: nw.AssignedToRole,
		}
		a.Workflows = append(a.Workflows, wf)
		a.write(w, wf)
	case len(parts) == 3 && parts[1] == "me":
		a.write(w, a.filterWorkflows(r.URL.Query(), func(wf models.Workflow) bool {
			if parts[2] == "created" {
				return wf.Creator.Matches(&actor)
			}

			return wf.Assignee.Matches(&actor)
		}))
	default:
		i := a.workflowIndex(parts[1])
		if i < 0 {
			w.WriteHeader(http.StatusNotFound)
			_, _ = fmt.Fprint(w, `{"message":"Workflow not found"}`)

			return
		}

		a.workflow(w, r, i, parts, body)
	}
}

func (a *API) workflow(w http.ResponseWriter, r *http.Request, i int, parts []string, body []byte) {
	wf := &a.Workflows[i]

	switch {
	case len(parts) == 3 && parts[2] == "status" && r.Method == http.MethodPatch:
		wf.Status = models.Status(r.URL.Query().Get("newStatus"))
		a.write(w, wf)
	case r.Method == http.MethodGet:
		a.write(w, wf)
	case r.Method == http.MethodPut:
		var p models.WorkflowPatch
		_ = json.Unmarshal(body, &p)

		if p.Title != nil {
			wf.Title = *p.Title
		}

		if p.Description != nil {
			wf.Description = *p.Description
		}

		if p.Status != nil {
			wf.Status = *p.Status
		}

		if p.AssignedTo != nil {
			wf.Assignee = models.Identity{ID: models.ID(*p.AssignedTo), Username: *p.AssignedTo}
		}

		if p.AssignedToRole != nil {
			wf.AssignedToRole = *p.AssignedToRole
		}

		a.write(w, wf)
	case r.Method == http.MethodDelete:
		a.Workflows = append(a.Workflows[:i], a.Workflows[i+1:]...)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (a *API) userIndex(id string) int {
	for i := range a.Users {
		if a.Users[i].ID.String() == id {
			return i
		}
	}

	return -1
}

func (a *API) users(w http.ResponseWriter, r *http.Request, parts []string, body []byte) {
	switch {
	case len(parts) == 1 && r.Method == http.MethodGet:
		a.write(w, a.Users)
	case len(parts) == 1 && r.Method == http.MethodPost:
		var nu models.NewUser
		_ = json.Unmarshal(body, &nu)

		u := models.User{ID: a.id(), Name: nu.Name, Email: nu.Email, Role: nu.Role, CreatedBy: a.Actor.Email}
		a.Users = append(a.Users, u)
		a.write(w, u)
	case len(parts) == 3 && parts[1] == "role":
		out := make([]models.User, 0)

		for _, u := range a.Users {
			if string(u.Role) == parts[2] {
				out = append(out, u)
			}
		}

		a.write(w, out)
	default:
		i := a.userIndex(parts[1])
		if i < 0 {
			w.WriteHeader(http.StatusNotFound)
			_, _ = fmt.Fprint(w, `{"message":"User not found"}`)

			return
		}

		u := &a.Users[i]

		switch {
		case len(parts) == 3 && parts[2] == "role":
			u.Role = models.Role(r.URL.Query().Get("newRole"))
			a.write(w, u)
		case r.Method == http.MethodGet:
			a.write(w, u)
		case r.Method == http.MethodPut:
			var upd models.UserUpdate
			_ = json.Unmarshal(body, &upd)
			u.Name, u.Email = upd.Name, upd.Email
			a.write(w, u)
		case r.Method == http.MethodDelete:
			a.Users = append(a.Users[:i], a.Users[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}
}

// Env is a wired handler environment.
type Env struct {
	API  *API
	Deps *handler.Deps
	App  *fiber.App
	// SessionID is the session of API.Actor, logged in by NewEnv.
	SessionID string
}

// NewConfig returns a config suitable for handler tests.
func NewConfig() *config.Config {
	return &config.Config{
		Title: "Workflow Admin",
		Webserver: config.Webserver{
			URL:     "http://localhost",
			Port:    3000,
			Session: config.Session{ExpiryTime: time.Hour},
		},
		UI: config.UI{
			ItemsPerPage:      10,
			PageSizes:         []int{5, 10, 25},
			RedirectDelay:     2 * time.Second,
			DefaultCreateRole: models.RoleStaff,
		},
	}
}

// NewEnv starts the fake API and logs api.Actor in.
// The returned app sets the actor locals from the session cookie.
func NewEnv(t *testing.T, api *API) *Env {
	t.Helper()

	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	client, err := apiclient.New(srv.URL + "/api")
	require.NoError(t, err)

	cfg := NewConfig()
	store := session.New(memory.New(), client, cfg.Webserver.Session.ExpiryTime)
	lists := listview.New(store, cfg.UI)

	deps := &handler.Deps{
		Cfg:       cfg,
		Sessions:  store,
		Lists:     lists,
		Mutations: mutation.New(store, lists),
	}

	sid, _, err := store.Login(context.Background(), models.Credentials{Username: api.Actor.Email, Password: "pw"})
	require.NoError(t, err)

	app := fiber.New(fiber.Config{Views: NoOpViews{}})
	app.Use(Authenticate(store), auth.AddPermissionsToLocals())

	return &Env{API: api, Deps: deps, App: app, SessionID: sid}
}

// Do performs a request with the session cookie and returns status, body and Location header.
func (e *Env) Do(t *testing.T, method, target string, form url.Values) (int, string, string) {
	t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: e.SessionID})

	resp, err := e.App.Test(req, -1)
	require.NoError(t, err)

	defer func() {
		_ = resp.Body.Close()
	}()

	out, _ := io.ReadAll(resp.Body)

	return resp.StatusCode, string(out), resp.Header.Get("Location")
}
