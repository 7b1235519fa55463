package listview

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/message"

	"github.com/workflow-admin/workflow-admin/internal/config"
	"github.com/workflow-admin/workflow-admin/internal/failure"
	"github.com/workflow-admin/workflow-admin/internal/models"
	"github.com/workflow-admin/workflow-admin/internal/planner"
	"github.com/workflow-admin/workflow-admin/internal/policy"
	"github.com/workflow-admin/workflow-admin/internal/web/session"
)

// Controller runs the list views of all sessions.
type Controller struct {
	sessions *session.Store
	ui       config.UI
	// mu serializes the load and store cycles of the view state.
	mu sync.Mutex
}

// New creates a controller.
func New(sessions *session.Store, ui config.UI) *Controller {
	if sessions == nil {
		panic("session store is nil")
	}

	return &Controller{sessions: sessions, ui: ui}
}

// Request describes one render of a list view.
type Request struct {
	SessionID string
	Printer   *message.Printer
	// Refresh forces a fetch even when the cached rows match the filter.
	Refresh bool
	// Update changes the cached filter before rendering.
	Update func(*Filter)
	// Tab selects the My Workflows tab; empty keeps the current one.
	Tab Tab
}

// Outcome is the part of a render model shared by all views.
type Outcome struct {
	State   State
	Filter  Filter
	Pager   Pager
	Message string
	Failure *failure.Failure
	// Teardown is set when the session was ended; the page has to send the
	// browser to the login page after RedirectAfter.
	Teardown      bool
	RedirectAfter time.Duration
}

// WorkflowRow is a workflow with the actor's permissions on it.
type WorkflowRow struct {
	models.Workflow
	Can policy.WorkflowPermissions
}

// WorkflowPage is the render model of a workflow list.
type WorkflowPage struct {
	Outcome
	Rows    []WorkflowRow
	Matched int
	Fetched int
	// Assignees are the users selectable in the assignee filter.
	Assignees []models.User
	// Creators are the users selectable in the creator filter.
	Creators []models.User
	Roles    []models.Role

	Tab           Tab
	AssignedCount int
	CreatedCount  int
}

// UserRow is a user with the actor's permissions on it.
type UserRow struct {
	models.User
	Can policy.UserPermissions
}

// UserPage is the render model of the user list.
type UserPage struct {
	Outcome
	Rows      []UserRow
	Roles     []models.Role
	CanCreate bool
}

// AllWorkflows renders the All Workflows view.
func (c *Controller) AllWorkflows(ctx context.Context, req Request) (*WorkflowPage, error) {
	actor, views, err := c.open(req.SessionID)
	if err != nil {
		return nil, err
	}

	list := views.All
	if list == nil {
		list = &WorkflowList{Filter: NewFilter(c.ui.ItemsPerPage)}
	}

	prev := list.Filter

	if req.Update != nil {
		req.Update(&list.Filter)
	}

	own, rev := &Views{All: list}, views.Rev

	var f *failure.Failure

	if req.Refresh || list.State != StateLoaded || !list.Filter.sameFetch(prev) {
		if f, rev, err = c.fetchAll(ctx, req, actor, own, rev); err != nil {
			return nil, err
		}
	}

	var page *WorkflowPage

	err = c.finish(req.SessionID, rev, own, f, func() {
		matched := planner.Search(list.Rows, list.Filter.Search)
		rows, pager := Paginate(matched, list.Filter.Page, list.Filter.PerPage)
		list.Filter.Page = pager.Page

		page = &WorkflowPage{
			Outcome:   c.outcome(list.State, list.Filter, pager, list.Message, f),
			Rows:      workflowRows(actor, rows),
			Matched:   len(matched),
			Fetched:   list.Fetched,
			Assignees: policy.AssignableUsers(actor, list.Users, list.Filter.AssigneeRole),
			Creators:  list.Users,
			Roles:     policy.AssignableRoles(actor),
		}
	})

	return page, err
}

func (c *Controller) fetchAll(
	ctx context.Context, req Request, actor *models.Actor, own *Views, rev int,
) (*failure.Failure, int, error) {
	list := own.All
	token := c.sessions.Token(req.SessionID)

	list.State = StateLoading

	rev, err := c.commit(req.SessionID, rev, own, nil)
	if err != nil {
		return nil, rev, err
	}

	api := c.sessions.Client(req.SessionID)

	plan := planner.PlanWorkflows(actor, list.Filter.Planner())
	plan.Search = ""

	users, usersErr := planner.LoadUsers(ctx, actor, api.Users())
	rows, fetched, err := plan.Fetch(ctx, api.Workflows())

	if !c.sessions.StillValid(req.SessionID, token) {
		log.Debug().Msg("dropping workflow list fetched for an ended session")
		return nil, rev, session.ErrNoSession
	}

	if usersErr != nil {
		log.Warn().Err(usersErr).Str("user_id", actor.ID.String()).Msg("failed to load filter users")
	} else {
		list.Users = users
	}

	if err != nil {
		f := c.fail(req, actor, err, &list.State, &list.Message)
		if f.Teardown() {
			list.Rows, list.Users, list.Fetched = nil, nil, 0
		}

		return f, rev, nil
	}

	list.State, list.Message = StateLoaded, ""
	list.Rows, list.Fetched = rows, fetched

	log.Debug().
		Str("user_id", actor.ID.String()).
		Str("endpoint", plan.Endpoint.String()).
		Int("fetched", fetched).
		Int("kept", len(rows)).
		Msg("workflow list loaded")

	return nil, rev, nil
}

// MyWorkflows renders the My Workflows view.
func (c *Controller) MyWorkflows(ctx context.Context, req Request) (*WorkflowPage, error) {
	r, err := c.mine(ctx, req, false)
	if err != nil {
		return nil, err
	}

	return r.page, nil
}

// SummaryPage is the render model of the dashboard counts.
type SummaryPage struct {
	Outcome
	Assigned      []models.Workflow
	AssignedCount int
	CreatedCount  int
}

// Summary renders the dashboard counts. Both of the actor's lists are fetched
// without a filter and cached apart from the My Workflows view.
func (c *Controller) Summary(ctx context.Context, req Request) (*SummaryPage, error) {
	req.Update, req.Tab = nil, ""

	r, err := c.mine(ctx, req, true)
	if err != nil {
		return nil, err
	}

	return &SummaryPage{
		Outcome:       r.page.Outcome,
		Assigned:      r.list.Assigned,
		AssignedCount: len(r.list.Assigned),
		CreatedCount:  len(r.list.Created),
	}, nil
}

type mineResult struct {
	list *MineList
	page *WorkflowPage
}

// mine renders the actor's own lists, either the My Workflows view or the
// dashboard summary.
func (c *Controller) mine(ctx context.Context, req Request, summary bool) (*mineResult, error) {
	actor, views, err := c.open(req.SessionID)
	if err != nil {
		return nil, err
	}

	own := &Views{}

	list := views.Mine
	if summary {
		list = views.Summary
	}

	if list == nil {
		list = &MineList{Filter: NewFilter(c.ui.ItemsPerPage), Tab: TabAssigned}
	}

	if summary {
		own.Summary = list
	} else {
		own.Mine = list
	}

	prev := list.Filter

	if req.Update != nil {
		req.Update(&list.Filter)
	}

	if req.Tab != "" && req.Tab != list.Tab {
		list.Tab = req.Tab
		list.Filter.Page = 1
	}

	rev := views.Rev

	var f *failure.Failure

	if req.Refresh || list.State != StateLoaded || !list.Filter.sameFetch(prev) {
		if f, rev, err = c.fetchMine(ctx, req, actor, own, list, rev); err != nil {
			return nil, err
		}
	}

	r := &mineResult{list: list}

	err = c.finish(req.SessionID, rev, own, f, func() {
		current := list.Assigned
		if list.Tab == TabCreated {
			current = list.Created
		}

		matched := planner.Search(current, list.Filter.Search)
		rows, pager := Paginate(matched, list.Filter.Page, list.Filter.PerPage)
		list.Filter.Page = pager.Page

		r.page = &WorkflowPage{
			Outcome:       c.outcome(list.State, list.Filter, pager, list.Message, f),
			Rows:          workflowRows(actor, rows),
			Matched:       len(matched),
			Fetched:       len(current),
			Tab:           list.Tab,
			AssignedCount: len(list.Assigned),
			CreatedCount:  len(list.Created),
		}
	})

	return r, err
}

func (c *Controller) fetchMine(
	ctx context.Context, req Request, actor *models.Actor, own *Views, list *MineList, rev int,
) (*failure.Failure, int, error) {
	token := c.sessions.Token(req.SessionID)

	list.State = StateLoading

	rev, err := c.commit(req.SessionID, rev, own, nil)
	if err != nil {
		return nil, rev, err
	}

	api := c.sessions.Client(req.SessionID).Workflows()

	pf := list.Filter.Planner()
	pf.SearchTerm = ""

	var assigned, created []models.Workflow

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		assigned, _, err = planner.PlanMine(false, pf).Fetch(gctx, api)

		return err
	})

	g.Go(func() error {
		var err error
		created, _, err = planner.PlanMine(true, pf).Fetch(gctx, api)

		return err
	})

	err = g.Wait()

	if !c.sessions.StillValid(req.SessionID, token) {
		log.Debug().Msg("dropping my workflows fetched for an ended session")
		return nil, rev, session.ErrNoSession
	}

	if err != nil {
		f := c.fail(req, actor, err, &list.State, &list.Message)
		if f.Teardown() {
			list.Assigned, list.Created = nil, nil
		}

		return f, rev, nil
	}

	list.State, list.Message = StateLoaded, ""
	list.Assigned, list.Created = assigned, created

	return nil, rev, nil
}

// Users renders the Manage Users view.
func (c *Controller) Users(ctx context.Context, req Request) (*UserPage, error) {
	actor, views, err := c.open(req.SessionID)
	if err != nil {
		return nil, err
	}

	list := views.Users
	if list == nil {
		list = &UserList{Filter: NewFilter(c.ui.ItemsPerPage)}
	}

	if req.Update != nil {
		req.Update(&list.Filter)
	}

	own, rev := &Views{Users: list}, views.Rev

	var f *failure.Failure

	if req.Refresh || list.State != StateLoaded {
		if f, rev, err = c.fetchUsers(ctx, req, actor, own, rev); err != nil {
			return nil, err
		}
	}

	var page *UserPage

	err = c.finish(req.SessionID, rev, own, f, func() {
		matched := planner.SearchUsers(filterRole(list.Rows, list.Filter.Role), list.Filter.Search)
		rows, pager := Paginate(matched, list.Filter.Page, list.Filter.PerPage)
		list.Filter.Page = pager.Page

		out := make([]UserRow, 0, len(rows))
		for i := range rows {
			out = append(out, UserRow{User: rows[i], Can: policy.ForUser(actor, &rows[i])})
		}

		page = &UserPage{
			Outcome:   c.outcome(list.State, list.Filter, pager, list.Message, f),
			Rows:      out,
			Roles:     policy.VisibleUserRoles(actor),
			CanCreate: policy.CanCreateUsers(actor),
		}
	})

	return page, err
}

func (c *Controller) fetchUsers(
	ctx context.Context, req Request, actor *models.Actor, own *Views, rev int,
) (*failure.Failure, int, error) {
	list := own.Users
	token := c.sessions.Token(req.SessionID)

	list.State = StateLoading

	rev, err := c.commit(req.SessionID, rev, own, nil)
	if err != nil {
		return nil, rev, err
	}

	users, err := planner.LoadUsers(ctx, actor, c.sessions.Client(req.SessionID).Users())

	if !c.sessions.StillValid(req.SessionID, token) {
		log.Debug().Msg("dropping user list fetched for an ended session")
		return nil, rev, session.ErrNoSession
	}

	if err != nil {
		f := c.fail(req, actor, err, &list.State, &list.Message)
		if f.Teardown() {
			list.Rows = nil
		}

		return f, rev, nil
	}

	list.State, list.Message, list.Rows = StateLoaded, "", users

	return nil, rev, nil
}

// ReplaceWorkflow replaces the workflow in every cached list of the session.
func (c *Controller) ReplaceWorkflow(sessionID string, wf models.Workflow) error {
	return c.reconcile(sessionID, Change{Kind: ChangeReplaceWorkflow, ID: wf.ID, Workflow: &wf})
}

// RemoveWorkflow removes the workflow from every cached list of the session.
func (c *Controller) RemoveWorkflow(sessionID string, id models.ID) error {
	return c.reconcile(sessionID, Change{Kind: ChangeRemoveWorkflow, ID: id})
}

// ReplaceUser replaces the user in every cached list of the session.
func (c *Controller) ReplaceUser(sessionID string, u models.User) error {
	return c.reconcile(sessionID, Change{Kind: ChangeReplaceUser, ID: u.ID, User: &u})
}

// RemoveUser removes the user from every cached list of the session.
func (c *Controller) RemoveUser(sessionID string, id models.ID) error {
	return c.reconcile(sessionID, Change{Kind: ChangeRemoveUser, ID: id})
}

// Invalidate forgets the cached rows of every view; the next render refetches.
func (c *Controller) Invalidate(sessionID string) error {
	return c.reconcile(sessionID, Change{Kind: ChangeInvalidate})
}

// reconcile applies ch to the session's views and records it for fetches
// still in flight.
func (c *Controller) reconcile(sessionID string, ch Change) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, views, err := c.open(sessionID)
	if err != nil {
		return err
	}

	views.Apply(ch)
	views.record(ch)

	return c.sessions.SaveViews(sessionID, views)
}

// commit stores the views own holds. The stored state is reloaded first and
// the changes recorded after rev are replayed onto own. render, if set, runs
// before the write. It returns the revision own is now current with.
func (c *Controller) commit(sessionID string, rev int, own *Views, render func()) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, views, err := c.open(sessionID)
	if err != nil {
		return rev, err
	}

	own.replay(views.Journal, rev)

	if render != nil {
		render()
	}

	views.install(own)

	return views.Rev, c.sessions.SaveViews(sessionID, views)
}

// finish renders own and stores it. After a teardown the session is gone,
// so the page is rendered from the local copy only.
func (c *Controller) finish(sessionID string, rev int, own *Views, f *failure.Failure, render func()) error {
	if f.Teardown() {
		render()
		return nil
	}

	_, err := c.commit(sessionID, rev, own, render)

	return err
}

func (c *Controller) open(sessionID string) (*models.Actor, *Views, error) {
	actor := c.sessions.Current(sessionID)
	if actor == nil {
		return nil, nil, session.ErrNoSession
	}

	views := &Views{}

	if _, err := c.sessions.LoadViews(sessionID, views); err != nil {
		if errors.Is(err, session.ErrNoSession) {
			return nil, nil, err
		}

		log.Warn().Err(err).Msg("discarding unreadable view state")

		views = &Views{}
	}

	return actor, views, nil
}

// fail records a failed fetch. An expired authentication ends the session.
func (c *Controller) fail(req Request, actor *models.Actor, err error, state *State, msg *string) *failure.Failure {
	f := failure.Classify(err, req.Printer)

	*state = StateFailed
	*msg = f.Message

	log.Warn().
		Err(err).
		Str("user_id", actor.ID.String()).
		Str("category", f.Category.String()).
		Msg("list fetch failed")

	if f.Teardown() {
		if lerr := c.sessions.Logout(req.SessionID); lerr != nil {
			log.Error().Err(lerr).Msg("failed to end expired session")
		}
	}

	return f
}

func (c *Controller) outcome(state State, f Filter, pager Pager, msg string, fail *failure.Failure) Outcome {
	o := Outcome{
		State:   state,
		Filter:  f,
		Pager:   pager,
		Message: msg,
		Failure: fail,
	}

	if fail.Teardown() {
		o.Teardown = true
		o.RedirectAfter = c.ui.RedirectDelay
	}

	return o
}

func workflowRows(actor *models.Actor, rows []models.Workflow) []WorkflowRow {
	out := make([]WorkflowRow, 0, len(rows))
	for i := range rows {
		out = append(out, WorkflowRow{Workflow: rows[i], Can: policy.ForWorkflow(actor, &rows[i])})
	}

	return out
}

func filterRole(users []models.User, role models.Role) []models.User {
	if role == "" {
		return users
	}

	out := make([]models.User, 0, len(users))

	for i := range users {
		if users[i].Role == role {
			out = append(out, users[i])
		}
	}

	return out
}
