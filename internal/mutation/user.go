package mutation

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/workflow-admin/workflow-admin/internal/failure"
	"github.com/workflow-admin/workflow-admin/internal/models"
	"github.com/workflow-admin/workflow-admin/internal/policy"
)

const kindUser = "user"

// UserInput is the submitted user edit form.
type UserInput struct {
	Name  string      `form:"name"`
	Email string      `form:"email"`
	Role  models.Role `form:"role"`
}

// CreateUser validates and creates a user account with a role the actor may assign.
func (c *Coordinator) CreateUser(ctx context.Context, sessionID string, in models.NewUser) (*models.User, error) {
	actor, client, err := c.begin(sessionID)
	if err != nil {
		return nil, err
	}

	if !policy.CanCreateUsers(actor) {
		return nil, failure.ErrNotPermitted
	}

	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Username = strings.TrimSpace(in.Username)

	verr := &failure.ValidationError{}
	c.validator.Validate(in, verr)

	if in.Role != "" {
		role, perr := models.ParseRole(string(in.Role))

		switch {
		case perr != nil:
			verr.Add("role", failure.MsgFieldRole, in.Role)
		case !policy.CanAssignRole(actor, role):
			verr.Add("role", failure.MsgFieldRole, role.Label())
		default:
			in.Role = role
		}
	}

	if err = verr.OrNil(); err != nil {
		return nil, err
	}

	release, err := c.guard.acquire(sessionID, kindUser, "new")
	if err != nil {
		return nil, err
	}
	defer release()

	u, err := client.Users().Create(ctx, in)
	if err != nil {
		return nil, c.settle(sessionID, err)
	}

	log.Info().
		Str("user_id", actor.ID.String()).
		Str("created_user_id", u.ID.String()).
		Str("role", string(u.Role)).
		Msg("user created")

	return u, nil
}

// UpdateUser updates the target's profile and then, when the actor may
// change roles and the role differs, the role. A failed role change after a
// successful profile update returns the updated user and a
// *failure.PartialSuccessError.
func (c *Coordinator) UpdateUser(ctx context.Context, sessionID string, target *models.User, in UserInput) (*models.User, error) {
	actor, client, err := c.begin(sessionID)
	if err != nil {
		return nil, err
	}

	perms := policy.ForUser(actor, target)
	if !perms.Manage {
		return nil, failure.ErrNotPermitted
	}

	upd := models.UserUpdate{
		Name:  strings.TrimSpace(in.Name),
		Email: strings.TrimSpace(in.Email),
	}

	verr := &failure.ValidationError{}
	c.validator.Validate(upd, verr)

	var newRole models.Role

	if perms.ChangeRole && in.Role != "" {
		role, perr := models.ParseRole(string(in.Role))

		switch {
		case perr != nil:
			verr.Add("role", failure.MsgFieldRole, in.Role)
		case role != target.Role:
			newRole = role
		}
	}

	if err = verr.OrNil(); err != nil {
		return nil, err
	}

	release, err := c.guard.acquire(sessionID, kindUser, target.ID.String())
	if err != nil {
		return nil, err
	}
	defer release()

	u, err := client.Users().Update(ctx, target.ID, upd)
	if err != nil {
		return nil, c.settle(sessionID, err)
	}

	if newRole != "" {
		changed, rerr := client.Users().ChangeRole(ctx, target.ID, newRole)
		if rerr != nil {
			c.reconciled(c.views.ReplaceUser(sessionID, *u))

			log.Warn().Err(rerr).Str("target_user_id", target.ID.String()).Msg("role change failed after profile update")

			return u, c.settle(sessionID, &failure.PartialSuccessError{Done: "User info", Err: rerr})
		}

		u = changed
	}

	c.reconciled(c.views.ReplaceUser(sessionID, *u))

	log.Info().
		Str("user_id", actor.ID.String()).
		Str("target_user_id", target.ID.String()).
		Bool("role_changed", newRole != "").
		Msg("user updated")

	return u, nil
}

// DeleteUser deletes target once confirmation repeats the user's name.
func (c *Coordinator) DeleteUser(ctx context.Context, sessionID string, target *models.User, confirmation string) error {
	actor, client, err := c.begin(sessionID)
	if err != nil {
		return err
	}

	if !policy.CanDeleteUser(actor, target) {
		return failure.ErrNotPermitted
	}

	if err = confirm(confirmation, target.Name); err != nil {
		return err
	}

	release, err := c.guard.acquire(sessionID, kindUser, target.ID.String())
	if err != nil {
		return err
	}
	defer release()

	if err = client.Users().Delete(ctx, target.ID); err != nil {
		return c.settle(sessionID, err)
	}

	c.reconciled(c.views.RemoveUser(sessionID, target.ID))

	log.Info().Str("user_id", actor.ID.String()).Str("target_user_id", target.ID.String()).Msg("user deleted")

	return nil
}

// Register validates a self registration and submits it without a session.
func (c *Coordinator) Register(ctx context.Context, reg models.Registration) (*models.User, error) {
	reg.Name = strings.TrimSpace(reg.Name)
	reg.Email = strings.TrimSpace(reg.Email)
	reg.Username = strings.TrimSpace(reg.Username)

	if reg.Username == "" {
		reg.Username = reg.Email
	}

	verr := &failure.ValidationError{}
	c.validator.Validate(reg, verr)

	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	u, err := c.sessions.PublicClient().Register(ctx, reg)
	if err != nil {
		return nil, err
	}

	log.Info().Str("registered_user_id", u.ID.String()).Msg("user registered")

	return u, nil
}
