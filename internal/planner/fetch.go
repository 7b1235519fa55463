package planner

import (
	"context"
	"net/url"

	"golang.org/x/sync/errgroup"

	"github.com/workflow-admin/workflow-admin/internal/models"
	"github.com/workflow-admin/workflow-admin/internal/policy"
)

// WorkflowLister is the part of the workflow client the planner needs.
type WorkflowLister interface {
	List(ctx context.Context, query url.Values) ([]models.Workflow, error)
	AssignedToMe(ctx context.Context, query url.Values) ([]models.Workflow, error)
	CreatedByMe(ctx context.Context, query url.Values) ([]models.Workflow, error)
}

// UserLister is the part of the user client the planner needs.
type UserLister interface {
	List(ctx context.Context) ([]models.User, error)
	ListByRole(ctx context.Context, role models.Role) ([]models.User, error)
}

// Fetch issues the query of the plan and applies its local post-filters.
// It returns the server result count as well, for "n of m" summaries.
func (p Plan) Fetch(ctx context.Context, api WorkflowLister) ([]models.Workflow, int, error) {
	var (
		result []models.Workflow
		err    error
	)

	switch p.Endpoint {
	case EndpointAll:
		result, err = api.List(ctx, p.Query)
	case EndpointCreatedByMe:
		result, err = api.CreatedByMe(ctx, p.Query)
	default:
		result, err = api.AssignedToMe(ctx, p.Query)
	}

	if err != nil {
		return nil, 0, err
	}

	return p.Apply(result), len(result), nil
}

// LoadUsers fetches the users the actor may see and assign work to.
// ADMIN lists everyone; other roles list their visible roles one by one,
// in parallel, concatenated from the highest role down.
func LoadUsers(ctx context.Context, actor *models.Actor, api UserLister) ([]models.User, error) {
	if actor == nil {
		return nil, nil
	}

	if actor.Role == models.RoleAdmin {
		return api.List(ctx)
	}

	roles := policy.VisibleUserRoles(actor)
	parts := make([][]models.User, len(roles))

	g, gctx := errgroup.WithContext(ctx)

	for i, role := range roles {
		g.Go(func() error {
			users, err := api.ListByRole(gctx, role)
			if err != nil {
				return err
			}

			parts[i] = users

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]models.User, 0)
	for _, p := range parts {
		out = append(out, p...)
	}

	return out, nil
}
