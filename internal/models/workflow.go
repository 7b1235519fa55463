package models

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Identity is the summary of a user attached to a workflow as creator or assignee.
type Identity struct {
	ID       ID     `json:"id"`
	Name     string `json:"name,omitempty"`
	Username string `json:"username,omitempty"`
}

// Display returns the name, falling back to the username and then the id.
func (i Identity) Display() string {
	switch {
	case i.Name != "":
		return i.Name
	case i.Username != "":
		return i.Username
	default:
		return i.ID.String()
	}
}

// UnmarshalJSON accepts a user object or a bare reference. A bare reference
// is a user id or a login name, so it fills both ID and Username.
func (i *Identity) UnmarshalJSON(b []byte) error {
	if t := bytes.TrimSpace(b); len(t) == 0 || t[0] != '{' {
		*i = flatIdentity(b)
		return nil
	}

	type alias Identity

	var a alias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}

	*i = Identity(a)

	return nil
}

// Comment is a note attached to a workflow. Its author is usually sent as a
// plain login name.
type Comment struct {
	ID        ID       `json:"id"`
	Author    Identity `json:"author"`
	Text      string   `json:"text"`
	CreatedAt Time     `json:"createdAt"`
}

// Workflow is a task record with a lifecycle status, a creator and an assignee.
type Workflow struct {
	ID             ID        `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Status         Status    `json:"status"`
	Creator        Identity  `json:"creator"`
	Assignee       Identity  `json:"assignee"`
	AssignedToRole Role      `json:"assignedToRole"`
	CreatedAt      Time      `json:"createdAt"`
	UpdatedAt      Time      `json:"updatedAt"`
	DueDate        *Date     `json:"dueDate,omitempty"`
	CompletedAt    *Time     `json:"completedAt,omitempty"`
	Comments       []Comment `json:"comments,omitempty"`
}

// UnmarshalJSON accepts both the nested creator/assignee objects and the flat
// createdBy/assignedTo references. A flat reference is a user id or a login
// name, so it fills both ID and Username.
func (w *Workflow) UnmarshalJSON(b []byte) error {
	type alias Workflow

	var raw struct {
		alias
		AssignedToRole string          `json:"assignedToRole"`
		CreatedBy      json.RawMessage `json:"createdBy"`
		AssignedTo     json.RawMessage `json:"assignedTo"`
	}

	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	*w = Workflow(raw.alias)
	w.AssignedToRole = Role(raw.AssignedToRole)

	if r, err := ParseRole(raw.AssignedToRole); err == nil {
		w.AssignedToRole = r
	}

	if w.Creator.ID.IsZero() {
		w.Creator = flatIdentity(raw.CreatedBy)
	}

	if w.Assignee.ID.IsZero() {
		w.Assignee = flatIdentity(raw.AssignedTo)
	}

	return nil
}

func flatIdentity(b json.RawMessage) Identity {
	ref := rawScalar(b)
	if ref == "" {
		return Identity{}
	}

	return Identity{ID: ID(ref), Username: ref}
}

// Matches reports whether the identity refers to the actor, by id or by login name.
func (i Identity) Matches(a *Actor) bool {
	if a == nil || i.ID.IsZero() {
		return false
	}

	if a.ID == i.ID {
		return true
	}

	return i.Username != "" && a.Email != "" && strings.EqualFold(i.Username, a.Email)
}

// NewWorkflow is the request body for creating a workflow.
type NewWorkflow struct {
	Title          string `json:"title" form:"title" validate:"required"`
	Description    string `json:"description" form:"description" validate:"required"`
	AssignedTo     string `json:"assignedTo" form:"assignedTo" validate:"required"`
	AssignedToRole Role   `json:"assignedToRole" form:"assignedToRole" validate:"required"`
	DueDate        string `json:"dueDate,omitempty" form:"dueDate" validate:"omitempty,datetime=2006-01-02"`
}

// WorkflowPatch is the request body for updating a workflow.
// Only the non-nil fields are sent.
type WorkflowPatch struct {
	Title          *string `json:"title,omitempty"`
	Description    *string `json:"description,omitempty"`
	AssignedTo     *string `json:"assignedTo,omitempty"`
	AssignedToRole *Role   `json:"assignedToRole,omitempty"`
	Status         *Status `json:"status,omitempty"`
	DueDate        *string `json:"dueDate,omitempty"`
}

// StatusOnly reports whether the patch changes nothing but the status.
func (p WorkflowPatch) StatusOnly() bool {
	return p.Status != nil && p.Title == nil && p.Description == nil &&
		p.AssignedTo == nil && p.AssignedToRole == nil && p.DueDate == nil
}

// Empty reports whether the patch changes nothing.
func (p WorkflowPatch) Empty() bool {
	return p.Status == nil && p.Title == nil && p.Description == nil &&
		p.AssignedTo == nil && p.AssignedToRole == nil && p.DueDate == nil
}
