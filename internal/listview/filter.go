package listview

import (
	"strings"

	"github.com/workflow-admin/workflow-admin/internal/models"
	"github.com/workflow-admin/workflow-admin/internal/planner"
)

// Filter is the transient filter state of a list view.
// Every setter that changes the result set resets the page to 1.
type Filter struct {
	Search       string        `json:"search,omitempty"`
	Status       models.Status `json:"status,omitempty"`
	AssigneeID   models.ID     `json:"assigneeId,omitempty"`
	AssigneeRole models.Role   `json:"assigneeRole,omitempty"`
	CreatorID    models.ID     `json:"creatorId,omitempty"`
	Role         models.Role   `json:"role,omitempty"`
	Page         int           `json:"page"`
	PerPage      int           `json:"perPage"`
}

// NewFilter returns an empty filter on page 1.
func NewFilter(perPage int) Filter {
	if perPage < 1 {
		perPage = DefaultPerPage
	}

	return Filter{Page: 1, PerPage: perPage}
}

// SetSearch sets the free-text search.
func (f *Filter) SetSearch(s string) {
	s = strings.TrimSpace(s)
	if s != f.Search {
		f.Search = s
		f.Page = 1
	}
}

// SetStatus sets the status filter.
func (f *Filter) SetStatus(s models.Status) {
	if s != f.Status {
		f.Status = s
		f.Page = 1
	}
}

// SetAssignee sets the assignee filter.
func (f *Filter) SetAssignee(id models.ID) {
	if id != f.AssigneeID {
		f.AssigneeID = id
		f.Page = 1
	}
}

// SetAssigneeRole sets the assignee role filter. A role change clears the
// assignee, whose user list depends on the role.
func (f *Filter) SetAssigneeRole(r models.Role) {
	if r != f.AssigneeRole {
		f.AssigneeRole = r
		f.AssigneeID = ""
		f.Page = 1
	}
}

// SetCreator sets the creator filter.
func (f *Filter) SetCreator(id models.ID) {
	if id != f.CreatorID {
		f.CreatorID = id
		f.Page = 1
	}
}

// SetRole sets the role filter of the user list.
func (f *Filter) SetRole(r models.Role) {
	if r != f.Role {
		f.Role = r
		f.Page = 1
	}
}

// SetPerPage sets the page size; sizes below 1 are ignored.
func (f *Filter) SetPerPage(n int) {
	if n > 0 && n != f.PerPage {
		f.PerPage = n
		f.Page = 1
	}
}

// SetPage moves to page n. Out of range pages are clamped when paginating.
func (f *Filter) SetPage(n int) {
	f.Page = max(1, n)
}

// Clear resets every filter and keeps the page size.
func (f *Filter) Clear() {
	*f = NewFilter(f.PerPage)
}

// Active reports whether any filter narrows the result.
func (f Filter) Active() bool {
	return f.Search != "" || f.Status != "" || !f.AssigneeID.IsZero() ||
		f.AssigneeRole != "" || !f.CreatorID.IsZero() || f.Role != ""
}

// Planner returns the planner view of the filter.
func (f Filter) Planner() planner.Filter {
	return planner.Filter{
		Status:       f.Status,
		AssigneeID:   f.AssigneeID,
		AssigneeRole: f.AssigneeRole,
		CreatorID:    f.CreatorID,
		SearchTerm:   f.Search,
	}
}

// sameFetch reports whether both filters lead to the same API request and
// the same creator narrowing. Search, role, paging only act on fetched rows.
func (f Filter) sameFetch(o Filter) bool {
	return f.Status == o.Status && f.AssigneeID == o.AssigneeID &&
		f.AssigneeRole == o.AssigneeRole && f.CreatorID == o.CreatorID
}
