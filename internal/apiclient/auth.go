package apiclient

import (
	"context"
	"net/http"

	"github.com/workflow-admin/workflow-admin/internal/models"
)

const resourceAuth = "auth"

// loginRequest carries the login name under both keys: the API authenticates
// by email while older deployments read "username".
type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a token and the caller's profile.
func (c *Client) Login(ctx context.Context, creds models.Credentials) (*models.LoginResponse, error) {
	var out models.LoginResponse

	err := c.do(ctx, request{
		resource: resourceAuth,
		method:   http.MethodPost,
		path:     "/auth/login",
		body:     loginRequest{Username: creds.Username, Email: creds.Username, Password: creds.Password},
		public:   true,
	}, &out)
	if err != nil {
		return nil, err
	}

	return &out, nil
}

// Register creates an account without authentication.
func (c *Client) Register(ctx context.Context, reg models.Registration) (*models.User, error) {
	var out models.User

	err := c.do(ctx, request{
		resource: resourceAuth,
		method:   http.MethodPost,
		path:     "/auth/register",
		body:     reg,
		public:   true,
	}, &out)
	if err != nil {
		return nil, err
	}

	return &out, nil
}
