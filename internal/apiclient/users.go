package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/workflow-admin/workflow-admin/internal/models"
)

const resourceUsers = "users"

// Users is the client of the /users resource.
type Users struct {
	c *Client
}

// List returns all users.
func (u *Users) List(ctx context.Context) ([]models.User, error) {
	var out []models.User

	if err := u.c.do(ctx, request{resource: resourceUsers, method: http.MethodGet, path: "/users"}, &out); err != nil {
		return nil, err
	}

	return out, nil
}

// Get returns one user.
func (u *Users) Get(ctx context.Context, id models.ID) (*models.User, error) {
	var out models.User

	err := u.c.do(ctx, request{
		resource: resourceUsers,
		method:   http.MethodGet,
		path:     "/users/" + url.PathEscape(id.String()),
	}, &out)
	if err != nil {
		return nil, err
	}

	return &out, nil
}

// ListByRole returns the users holding the role.
func (u *Users) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	var out []models.User

	err := u.c.do(ctx, request{
		resource: resourceUsers,
		method:   http.MethodGet,
		path:     "/users/role/" + url.PathEscape(role.String()),
	}, &out)
	if err != nil {
		return nil, err
	}

	return out, nil
}

// Create creates a user.
func (u *Users) Create(ctx context.Context, nu models.NewUser) (*models.User, error) {
	var out models.User

	err := u.c.do(ctx, request{resource: resourceUsers, method: http.MethodPost, path: "/users", body: nu}, &out)
	if err != nil {
		return nil, err
	}

	return &out, nil
}

// Update replaces the profile fields of a user.
func (u *Users) Update(ctx context.Context, id models.ID, upd models.UserUpdate) (*models.User, error) {
	var out models.User

	err := u.c.do(ctx, request{
		resource: resourceUsers,
		method:   http.MethodPut,
		path:     "/users/" + url.PathEscape(id.String()),
		body:     upd,
	}, &out)
	if err != nil {
		return nil, err
	}

	return &out, nil
}

// Delete deletes a user.
func (u *Users) Delete(ctx context.Context, id models.ID) error {
	return u.c.do(ctx, request{
		resource: resourceUsers,
		method:   http.MethodDelete,
		path:     "/users/" + url.PathEscape(id.String()),
	}, nil)
}

// ChangeRole changes the role of a user.
func (u *Users) ChangeRole(ctx context.Context, id models.ID, role models.Role) (*models.User, error) {
	var out models.User

	err := u.c.do(ctx, request{
		resource: resourceUsers,
		method:   http.MethodPost,
		path:     "/users/" + url.PathEscape(id.String()) + "/role",
		query:    url.Values{"newRole": {role.String()}},
	}, &out)
	if err != nil {
		return nil, err
	}

	return &out, nil
}
