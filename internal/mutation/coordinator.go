package mutation

import (
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/workflow-admin/workflow-admin/internal/apiclient"
	"github.com/workflow-admin/workflow-admin/internal/models"
	"github.com/workflow-admin/workflow-admin/internal/web/session"
)

// Reconciler updates the cached list views of a session.
type Reconciler interface {
	ReplaceWorkflow(sessionID string, wf models.Workflow) error
	RemoveWorkflow(sessionID string, id models.ID) error
	ReplaceUser(sessionID string, u models.User) error
	RemoveUser(sessionID string, id models.ID) error
}

// Coordinator runs the mutation flows of all sessions.
type Coordinator struct {
	sessions  *session.Store
	views     Reconciler
	validator XValidator
	guard     *guard
}

// New creates a coordinator.
func New(sessions *session.Store, views Reconciler) *Coordinator {
	if sessions == nil || views == nil {
		panic("session store or reconciler is nil")
	}

	return &Coordinator{
		sessions:  sessions,
		views:     views,
		validator: NewValidator(),
		guard:     newGuard(),
	}
}

func (c *Coordinator) begin(sessionID string) (*models.Actor, *apiclient.Client, error) {
	actor := c.sessions.Current(sessionID)
	if actor == nil {
		return nil, nil, session.ErrNoSession
	}

	return actor, c.sessions.Client(sessionID), nil
}

// settle ends the session when the API rejected its token and returns err.
func (c *Coordinator) settle(sessionID string, err error) error {
	if errors.Is(err, apiclient.ErrAuthExpired) {
		if lerr := c.sessions.Logout(sessionID); lerr != nil {
			log.Error().Err(lerr).Msg("failed to end expired session")
		}
	}

	return err
}

func (c *Coordinator) reconciled(err error) {
	if err != nil && !errors.Is(err, session.ErrNoSession) {
		log.Warn().Err(err).Msg("failed to reconcile list views")
	}
}
