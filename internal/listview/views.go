package listview

import (
	"slices"

	"github.com/workflow-admin/workflow-admin/internal/models"
)

// State is the load state of a list view.
type State int

const (
	// StateIdle means nothing was fetched yet.
	StateIdle State = iota
	// StateLoading means a fetch is in flight.
	StateLoading
	// StateLoaded means the rows are the result of the last fetch.
	StateLoaded
	// StateFailed means the last fetch failed; Message tells why.
	StateFailed
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Tab selects a list of the My Workflows view.
type Tab string

const (
	// TabAssigned lists the workflows assigned to the actor.
	TabAssigned Tab = "assigned"
	// TabCreated lists the workflows the actor created.
	TabCreated Tab = "created"
)

// ParseTab returns the tab named s, defaulting to TabAssigned.
func ParseTab(s string) Tab {
	if Tab(s) == TabCreated {
		return TabCreated
	}

	return TabAssigned
}

// WorkflowList is the cached state of the All Workflows view.
type WorkflowList struct {
	Filter  Filter            `json:"filter"`
	State   State             `json:"state"`
	Message string            `json:"message,omitempty"`
	Rows    []models.Workflow `json:"rows,omitempty"`
	// Fetched is the number of rows the API returned before local narrowing.
	Fetched int `json:"fetched"`
	// Users are the assignee and creator choices of the filter form.
	Users []models.User `json:"users,omitempty"`
}

// MineList is the cached state of the My Workflows view.
// Both tabs are fetched together and share one filter.
type MineList struct {
	Filter   Filter            `json:"filter"`
	Tab      Tab               `json:"tab"`
	State    State             `json:"state"`
	Message  string            `json:"message,omitempty"`
	Assigned []models.Workflow `json:"assigned,omitempty"`
	Created  []models.Workflow `json:"created,omitempty"`
}

// UserList is the cached state of the Manage Users view.
type UserList struct {
	Filter  Filter        `json:"filter"`
	State   State         `json:"state"`
	Message string        `json:"message,omitempty"`
	Rows    []models.User `json:"rows,omitempty"`
}

// Views holds every list view of one session.
//
// A render writes back only its own view. Rev and Journal record the
// reconciliations, so rows fetched while a mutation completed get the same
// change applied before they are stored.
type Views struct {
	All   *WorkflowList `json:"all,omitempty"`
	Mine  *MineList     `json:"mine,omitempty"`
	Users *UserList     `json:"users,omitempty"`
	// Summary caches the unfiltered lists of the dashboard.
	Summary *MineList `json:"summary,omitempty"`

	Rev     int      `json:"rev"`
	Journal []Change `json:"journal,omitempty"`
}

// journalSize is the number of changes kept for replay.
const journalSize = 32

// ChangeKind names a reconciliation.
type ChangeKind string

// Reconciliations recorded in the journal.
const (
	ChangeReplaceWorkflow ChangeKind = "replace-workflow"
	ChangeRemoveWorkflow  ChangeKind = "remove-workflow"
	ChangeReplaceUser     ChangeKind = "replace-user"
	ChangeRemoveUser      ChangeKind = "remove-user"
	ChangeInvalidate      ChangeKind = "invalidate"
)

// Change is one reconciliation of the cached lists.
type Change struct {
	Rev      int              `json:"rev"`
	Kind     ChangeKind       `json:"kind"`
	ID       models.ID        `json:"id,omitempty"`
	Workflow *models.Workflow `json:"workflow,omitempty"`
	User     *models.User     `json:"user,omitempty"`
}

// Apply applies ch to every cached list and reports whether anything changed.
func (v *Views) Apply(ch Change) bool {
	switch ch.Kind {
	case ChangeReplaceWorkflow:
		return ch.Workflow != nil && v.ReplaceWorkflow(*ch.Workflow)
	case ChangeRemoveWorkflow:
		return v.RemoveWorkflow(ch.ID)
	case ChangeReplaceUser:
		return ch.User != nil && v.ReplaceUser(*ch.User)
	case ChangeRemoveUser:
		return v.RemoveUser(ch.ID)
	case ChangeInvalidate:
		return v.Invalidate()
	default:
		return false
	}
}

// record appends ch to the journal under the next revision.
func (v *Views) record(ch Change) {
	v.Rev++
	ch.Rev = v.Rev
	v.Journal = append(v.Journal, ch)

	if n := len(v.Journal) - journalSize; n > 0 {
		v.Journal = v.Journal[n:]
	}
}

// replay applies the journal entries recorded after rev. When some of them
// were already dropped from the journal the lists are invalidated as well.
func (v *Views) replay(journal []Change, rev int) {
	if len(journal) > 0 && journal[0].Rev > rev+1 {
		v.Invalidate()
	}

	for _, ch := range journal {
		if ch.Rev > rev {
			v.Apply(ch)
		}
	}
}

// install takes over every view own holds.
func (v *Views) install(own *Views) {
	if own.All != nil {
		v.All = own.All
	}

	if own.Mine != nil {
		v.Mine = own.Mine
	}

	if own.Users != nil {
		v.Users = own.Users
	}

	if own.Summary != nil {
		v.Summary = own.Summary
	}
}

// Invalidate marks every view idle; the next render refetches.
func (v *Views) Invalidate() bool {
	found := false

	if v.All != nil {
		v.All.State, found = StateIdle, true
	}

	for _, m := range v.mineLists() {
		m.State, found = StateIdle, true
	}

	if v.Users != nil {
		v.Users.State, found = StateIdle, true
	}

	return found
}

func (v *Views) mineLists() []*MineList {
	var lists []*MineList

	if v.Mine != nil {
		lists = append(lists, v.Mine)
	}

	if v.Summary != nil {
		lists = append(lists, v.Summary)
	}

	return lists
}

func (v *Views) workflowLists() [][]models.Workflow {
	var lists [][]models.Workflow

	if v.All != nil {
		lists = append(lists, v.All.Rows)
	}

	for _, m := range v.mineLists() {
		lists = append(lists, m.Assigned, m.Created)
	}

	return lists
}

// ReplaceWorkflow replaces every cached copy of wf, matched by id.
// It reports whether any list held the workflow.
func (v *Views) ReplaceWorkflow(wf models.Workflow) bool {
	found := false

	for _, rows := range v.workflowLists() {
		for i := range rows {
			if rows[i].ID == wf.ID {
				rows[i] = wf
				found = true
			}
		}
	}

	return found
}

// RemoveWorkflow removes every cached copy of the workflow with id.
func (v *Views) RemoveWorkflow(id models.ID) bool {
	match := func(w models.Workflow) bool { return w.ID == id }
	found := false

	if v.All != nil {
		n := len(v.All.Rows)
		v.All.Rows = slices.DeleteFunc(v.All.Rows, match)
		v.All.Fetched -= n - len(v.All.Rows)
		found = found || n != len(v.All.Rows)
	}

	for _, m := range v.mineLists() {
		n := len(m.Assigned) + len(m.Created)
		m.Assigned = slices.DeleteFunc(m.Assigned, match)
		m.Created = slices.DeleteFunc(m.Created, match)
		found = found || n != len(m.Assigned)+len(m.Created)
	}

	return found
}

// ReplaceUser replaces every cached copy of u, matched by id.
func (v *Views) ReplaceUser(u models.User) bool {
	found := false

	for _, rows := range v.userLists() {
		for i := range rows {
			if rows[i].ID == u.ID {
				rows[i] = u
				found = true
			}
		}
	}

	return found
}

// RemoveUser removes every cached copy of the user with id.
func (v *Views) RemoveUser(id models.ID) bool {
	match := func(u models.User) bool { return u.ID == id }
	found := false

	if v.Users != nil {
		n := len(v.Users.Rows)
		v.Users.Rows = slices.DeleteFunc(v.Users.Rows, match)
		found = n != len(v.Users.Rows)
	}

	if v.All != nil {
		n := len(v.All.Users)
		v.All.Users = slices.DeleteFunc(v.All.Users, match)
		found = found || n != len(v.All.Users)
	}

	return found
}

func (v *Views) userLists() [][]models.User {
	var lists [][]models.User

	if v.Users != nil {
		lists = append(lists, v.Users.Rows)
	}

	if v.All != nil {
		lists = append(lists, v.All.Users)
	}

	return lists
}
