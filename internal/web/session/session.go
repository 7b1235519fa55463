// Package session keeps the authenticated identity of each browser session.
//
// A browser session is identified by the id stored in the "session" cookie.
// For every id the store holds two entries, the actor profile and the bare
// bearer token. Both are written on login, both are removed on logout, and
// a session counts as authenticated only while both are present.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/workflow-admin/workflow-admin/internal/apiclient"
	"github.com/workflow-admin/workflow-admin/internal/models"
)

const (
	// CookieName is the name of the session cookie.
	CookieName = "session"

	actorSuffix = ":actor"
	tokenSuffix = ":token"
	viewsSuffix = ":views"
	flashSuffix = ":flash"

	flashExpiry = time.Minute
)

// ErrNoSession is returned when the session has no actor or no token.
var ErrNoSession = errors.New("session is not authenticated")

// Store is the session store. It is safe for concurrent use as long as the
// underlying storage is.
type Store struct {
	storage fiber.Storage
	client  *apiclient.Client
	expiry  time.Duration
}

// New creates a session store over storage. client is the unauthenticated
// API client used for login; authenticated copies are handed out by Client.
func New(storage fiber.Storage, client *apiclient.Client, expiry time.Duration) *Store {
	if storage == nil {
		panic("storage is nil")
	}

	if client == nil {
		panic("api client is nil")
	}

	return &Store{
		storage: storage,
		client:  client,
		expiry:  expiry,
	}
}

// Login authenticates against the API and opens a new session.
// It returns the new session id and the actor.
func (s *Store) Login(ctx context.Context, creds models.Credentials) (string, *models.Actor, error) {
	resp, err := s.client.Login(ctx, creds)
	if err != nil {
		return "", nil, newAuthError(err)
	}

	actor := resp.Actor()
	if resp.Token == "" || actor.ID.IsZero() || !actor.Role.Valid() {
		return "", nil, &AuthError{Reason: ReasonMalformedResponse}
	}

	sessionID, err := GenerateSessionID()
	if err != nil {
		return "", nil, err
	}

	out, err := json.Marshal(actor)
	if err != nil {
		return "", nil, err
	}

	if err = s.storage.Set(sessionID+actorSuffix, out, s.expiry); err != nil {
		return "", nil, err
	}

	if err = s.storage.Set(sessionID+tokenSuffix, []byte(resp.Token), s.expiry); err != nil {
		_ = s.storage.Delete(sessionID + actorSuffix)
		return "", nil, err
	}

	log.Info().Str("user_id", actor.ID.String()).Str("role", actor.Role.String()).Msg("user logged in")

	return sessionID, &actor, nil
}

// Logout removes every entry of the session. Unknown or empty ids are ignored.
func (s *Store) Logout(sessionID string) error {
	if sessionID == "" {
		return nil
	}

	return errors.Join(
		s.storage.Delete(sessionID+actorSuffix),
		s.storage.Delete(sessionID+tokenSuffix),
		s.storage.Delete(sessionID+viewsSuffix),
	)
}

// Current returns the actor of the session, or nil.
// A session missing its token yields nil as well.
func (s *Store) Current(sessionID string) *models.Actor {
	if s.Token(sessionID) == "" {
		return nil
	}

	raw, err := s.storage.Get(sessionID + actorSuffix)
	if err != nil || len(raw) == 0 {
		return nil
	}

	var actor models.Actor
	if err = json.Unmarshal(raw, &actor); err != nil || actor.ID.IsZero() {
		return nil
	}

	return &actor
}

// Token returns the bearer token of the session, or "".
func (s *Store) Token(sessionID string) string {
	if sessionID == "" {
		return ""
	}

	raw, err := s.storage.Get(sessionID + tokenSuffix)
	if err != nil {
		return ""
	}

	return string(raw)
}

// IsAuthenticated reports whether the session has both an actor and a token.
func (s *Store) IsAuthenticated(sessionID string) bool {
	return s.Current(sessionID) != nil
}

// StillValid reports whether the session is still authenticated with token.
// Responses of requests issued with a token that is no longer current must be discarded.
func (s *Store) StillValid(sessionID, token string) bool {
	return token != "" && s.IsAuthenticated(sessionID) && s.Token(sessionID) == token
}

// Client returns an API client carrying the session's token. Without a token
// every authenticated call fails with apiclient.ErrAuthExpired.
func (s *Store) Client(sessionID string) *apiclient.Client {
	return s.client.WithToken(s.Token(sessionID))
}

// PublicClient returns the unauthenticated API client.
func (s *Store) PublicClient() *apiclient.Client {
	return s.client
}

// SaveViews stores the transient view state of the session.
func (s *Store) SaveViews(sessionID string, v any) error {
	if !s.IsAuthenticated(sessionID) {
		return ErrNoSession
	}

	out, err := json.Marshal(v)
	if err != nil {
		return err
	}

	return s.storage.Set(sessionID+viewsSuffix, out, s.expiry)
}

// LoadViews decodes the view state of the session into v.
// It reports false when no state was stored.
func (s *Store) LoadViews(sessionID string, v any) (bool, error) {
	if !s.IsAuthenticated(sessionID) {
		return false, ErrNoSession
	}

	raw, err := s.storage.Get(sessionID + viewsSuffix)
	if err != nil {
		return false, err
	}

	if len(raw) == 0 {
		return false, nil
	}

	return true, json.Unmarshal(raw, v)
}

// Cookie returns the session cookie for the id. An empty id clears the cookie.
func (s *Store) Cookie(sessionID string, secure bool) *fiber.Cookie {
	c := &fiber.Cookie{
		Name:     CookieName,
		Value:    sessionID,
		MaxAge:   int(s.expiry.Seconds()),
		Secure:   secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	}

	if sessionID == "" {
		c.MaxAge = -1
		c.Expires = time.Unix(0, 0)
	}

	return c
}

// GenerateSessionID generates a new secure random session ID.
func GenerateSessionID() (string, error) {
	// 32 bytes = 256 bits
	b := make([]byte, 32) //nolint:mnd
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}
