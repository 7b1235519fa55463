// Package planner decides which API query serves a list view and which
// narrowing has to happen locally on the fetched results.
package planner

import (
	"net/url"
	"strings"

	"github.com/workflow-admin/workflow-admin/internal/models"
)

// Endpoint names a workflow list endpoint of the API.
type Endpoint int

const (
	// EndpointAll is GET /workflows.
	EndpointAll Endpoint = iota
	// EndpointAssignedToMe is GET /workflows/me/assigned.
	EndpointAssignedToMe
	// EndpointCreatedByMe is GET /workflows/me/created.
	EndpointCreatedByMe
)

// String implements fmt.Stringer.
func (e Endpoint) String() string {
	switch e {
	case EndpointAll:
		return "all"
	case EndpointAssignedToMe:
		return "assigned"
	case EndpointCreatedByMe:
		return "created"
	default:
		return "unknown"
	}
}

// Query parameter names understood by the workflow endpoints.
const (
	ParamStatus         = "status"
	ParamAssigneeID     = "assigneeId"
	ParamAssignedToRole = "assignedToRole"
)

// Filter is the server-relevant part of a list view's filter state.
type Filter struct {
	Status       models.Status
	AssigneeID   models.ID
	AssigneeRole models.Role
	CreatorID    models.ID
	SearchTerm   string
}

// Plan is the fetch strategy for a workflow list.
type Plan struct {
	Endpoint Endpoint
	// Query holds the parameters forwarded to the endpoint; nil means none.
	Query url.Values
	// Creator, when set, narrows the results locally; the API has no creator filter.
	Creator models.ID
	// Search is the local free-text filter over title and description.
	Search string
}

func (f Filter) serverQuery() url.Values {
	q := url.Values{}

	if f.Status != "" {
		q.Set(ParamStatus, string(f.Status))
	}

	if !f.AssigneeID.IsZero() {
		q.Set(ParamAssigneeID, f.AssigneeID.String())
	}

	if f.AssigneeRole != "" {
		q.Set(ParamAssignedToRole, string(f.AssigneeRole))
	}

	if len(q) == 0 {
		return nil
	}

	return q
}

// PlanWorkflows returns the fetch plan of the All Workflows view.
// ADMIN and MANAGER query the unrestricted endpoint; everybody else only
// sees the workflows assigned to them.
func PlanWorkflows(actor *models.Actor, f Filter) Plan {
	p := Plan{
		Endpoint: EndpointAssignedToMe,
		Query:    f.serverQuery(),
		Creator:  f.CreatorID,
		Search:   strings.TrimSpace(f.SearchTerm),
	}

	if actor != nil && actor.Role.AtLeast(models.RoleManager) {
		p.Endpoint = EndpointAll
	}

	return p
}

// PlanMine returns the fetch plan of one tab of the My Workflows view.
// Only the status is forwarded; both /me endpoints accept it.
func PlanMine(created bool, f Filter) Plan {
	p := Plan{
		Endpoint: EndpointAssignedToMe,
		Search:   strings.TrimSpace(f.SearchTerm),
	}

	if created {
		p.Endpoint = EndpointCreatedByMe
	}

	if f.Status != "" {
		p.Query = url.Values{ParamStatus: {string(f.Status)}}
	}

	return p
}

// Apply runs the local post-filters of the plan: creator first, then search.
// The input slice is not modified.
func (p Plan) Apply(workflows []models.Workflow) []models.Workflow {
	out := make([]models.Workflow, 0, len(workflows))

	for i := range workflows {
		if !p.Creator.IsZero() && workflows[i].Creator.ID != p.Creator {
			continue
		}

		out = append(out, workflows[i])
	}

	return Search(out, p.Search)
}

// Search keeps the workflows whose title or description contains term,
// ignoring case. An empty term keeps everything.
func Search(workflows []models.Workflow, term string) []models.Workflow {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return workflows
	}

	out := make([]models.Workflow, 0, len(workflows))

	for i := range workflows {
		if strings.Contains(strings.ToLower(workflows[i].Title), term) ||
			strings.Contains(strings.ToLower(workflows[i].Description), term) {
			out = append(out, workflows[i])
		}
	}

	return out
}

// SearchUsers keeps the users whose name, email, role or creator contains term, ignoring case.
func SearchUsers(users []models.User, term string) []models.User {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return users
	}

	out := make([]models.User, 0, len(users))

	for i := range users {
		u := &users[i]
		if strings.Contains(strings.ToLower(u.Name), term) ||
			strings.Contains(strings.ToLower(u.Email), term) ||
			strings.Contains(strings.ToLower(string(u.Role)), term) ||
			strings.Contains(strings.ToLower(u.CreatedBy), term) {
			out = append(out, *u)
		}
	}

	return out
}
