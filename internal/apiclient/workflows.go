package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/workflow-admin/workflow-admin/internal/models"
)

const resourceWorkflows = "workflows"

// Workflows is the client of the /workflows resource.
type Workflows struct {
	c *Client
}

func (w *Workflows) list(ctx context.Context, path string, query url.Values) ([]models.Workflow, error) {
	var out []models.Workflow

	err := w.c.do(ctx, request{resource: resourceWorkflows, method: http.MethodGet, path: path, query: query}, &out)
	if err != nil {
		return nil, err
	}

	return out, nil
}

// List returns workflows narrowed by the query parameters status, assigneeId and assignedToRole.
func (w *Workflows) List(ctx context.Context, query url.Values) ([]models.Workflow, error) {
	return w.list(ctx, "/workflows", query)
}

// AssignedToMe returns the workflows assigned to the caller.
func (w *Workflows) AssignedToMe(ctx context.Context, query url.Values) ([]models.Workflow, error) {
	return w.list(ctx, "/workflows/me/assigned", query)
}

// CreatedByMe returns the workflows created by the caller.
func (w *Workflows) CreatedByMe(ctx context.Context, query url.Values) ([]models.Workflow, error) {
	return w.list(ctx, "/workflows/me/created", query)
}

// Get returns one workflow.
func (w *Workflows) Get(ctx context.Context, id models.ID) (*models.Workflow, error) {
	var out models.Workflow

	err := w.c.do(ctx, request{
		resource: resourceWorkflows,
		method:   http.MethodGet,
		path:     "/workflows/" + url.PathEscape(id.String()),
	}, &out)
	if err != nil {
		return nil, err
	}

	return &out, nil
}

// Create creates a workflow. The API sets the creator and the initial status.
func (w *Workflows) Create(ctx context.Context, nw models.NewWorkflow) (*models.Workflow, error) {
	var out models.Workflow

	err := w.c.do(ctx, request{resource: resourceWorkflows, method: http.MethodPost, path: "/workflows", body: nw}, &out)
	if err != nil {
		return nil, err
	}

	return &out, nil
}

// Update sends the non-nil fields of the patch.
func (w *Workflows) Update(ctx context.Context, id models.ID, patch models.WorkflowPatch) (*models.Workflow, error) {
	var out models.Workflow

	err := w.c.do(ctx, request{
		resource: resourceWorkflows,
		method:   http.MethodPut,
		path:     "/workflows/" + url.PathEscape(id.String()),
		body:     patch,
	}, &out)
	if err != nil {
		return nil, err
	}

	return &out, nil
}

// UpdateStatus changes only the status through the dedicated endpoint.
func (w *Workflows) UpdateStatus(ctx context.Context, id models.ID, status models.Status) (*models.Workflow, error) {
	var out models.Workflow

	err := w.c.do(ctx, request{
		resource: resourceWorkflows,
		method:   http.MethodPatch,
		path:     "/workflows/" + url.PathEscape(id.String()) + "/status",
		query:    url.Values{"newStatus": {string(status)}},
	}, &out)
	if err != nil {
		return nil, err
	}

	return &out, nil
}

// Delete deletes a workflow.
func (w *Workflows) Delete(ctx context.Context, id models.ID) error {
	return w.c.do(ctx, request{
		resource: resourceWorkflows,
		method:   http.MethodDelete,
		path:     "/workflows/" + url.PathEscape(id.String()),
	}, nil)
}
