// Package apiclient is the HTTP client of the workflow API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultTimeout is applied when no timeout option is given.
	DefaultTimeout = 10 * time.Second

	// HeaderRequestID carries the per-request correlation id.
	HeaderRequestID = "X-Request-ID"

	maxErrorBody = 64 << 10
)

// ErrEmptyBaseURL is returned by New when no base URL is given.
var ErrEmptyBaseURL = errors.New("api base url can not be empty")

// Client calls the workflow API. A Client without token can only log in and
// register; use WithToken to obtain an authenticated copy.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	token      string
	now        func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the timeout of each request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithClock replaces the clock used to check token expiry.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates a client for the API rooted at baseURL, e.g. "http://localhost:8080/api".
func New(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, ErrEmptyBaseURL
	}

	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, err
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// WithToken returns a copy of the client that sends the bearer token.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token

	return &cp
}

// Token returns the bearer token of the client.
func (c *Client) Token() string {
	return c.token
}

// Users returns the user resource client.
func (c *Client) Users() *Users {
	return &Users{c: c}
}

// Workflows returns the workflow resource client.
func (c *Client) Workflows() *Workflows {
	return &Workflows{c: c}
}

type request struct {
	resource string
	method   string
	path     string
	query    url.Values
	body     any
	public   bool
}

// do performs the request and decodes a 2xx body into out, if out is non-nil.
func (c *Client) do(ctx context.Context, r request, out any) error {
	if !r.public {
		if err := c.checkToken(); err != nil {
			return &Error{Kind: KindAuthExpired, Method: r.method, Path: r.path, Err: err}
		}
	}

	u := *c.baseURL
	u.Path = u.Path + r.path

	if len(r.query) > 0 {
		u.RawQuery = r.query.Encode()
	}

	var body io.Reader

	if r.body != nil {
		buf, err := json.Marshal(r.body)
		if err != nil {
			return err
		}

		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u.String(), body)
	if err != nil {
		return err
	}

	requestID := uuid.NewString()

	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderRequestID, requestID)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if !r.public {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start)

	requestDuration.WithLabelValues(r.resource, r.method).Observe(elapsed.Seconds())

	if err != nil {
		requestsTotal.WithLabelValues(r.resource, r.method, "error").Inc()
		log.Debug().Err(err).Str("request_id", requestID).Str("method", r.method).Str("path", r.path).
			Msg("workflow api unreachable")

		return &Error{Kind: KindNetwork, Method: r.method, Path: r.path, Err: err}
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	requestsTotal.WithLabelValues(r.resource, r.method, strconv.Itoa(resp.StatusCode)).Inc()

	log.Debug().
		Str("request_id", requestID).
		Str("method", r.method).
		Str("path", r.path).
		Int("status", resp.StatusCode).
		Dur("elapsed", elapsed).
		Msg("workflow api call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{
			Kind:       kindForStatus(resp.StatusCode),
			StatusCode: resp.StatusCode,
			Message:    readMessage(resp.Body),
			Method:     r.method,
			Path:       r.path,
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{
			Kind:       KindMalformedResponse,
			StatusCode: resp.StatusCode,
			Method:     r.method,
			Path:       r.path,
			Err:        err,
		}
	}

	return nil
}

var errMissingToken = errors.New("no bearer token")

// checkToken rejects a missing token and a JWT whose exp claim has passed.
// Tokens that are not JWTs are left for the API to judge.
func (c *Client) checkToken() error {
	if c.token == "" {
		return errMissingToken
	}

	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(c.token, &claims); err != nil {
		return nil //nolint:nilerr // opaque token
	}

	if claims.ExpiresAt != nil && !c.now().Before(claims.ExpiresAt.Time) {
		return jwt.ErrTokenExpired
	}

	return nil
}

// readMessage extracts the "message" field of an error body.
func readMessage(r io.Reader) string {
	var payload struct {
		Message string `json:"message"`
	}

	if err := json.NewDecoder(io.LimitReader(r, maxErrorBody)).Decode(&payload); err != nil {
		return ""
	}

	return strings.TrimSpace(payload.Message)
}
