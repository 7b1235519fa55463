package models

import (
	"encoding/json"
)

// Actor is the authenticated user performing an action.
type Actor struct {
	ID    ID     `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Is reports whether the actor is the user with the given id.
func (a *Actor) Is(id ID) bool {
	return a != nil && !a.ID.IsZero() && a.ID == id
}

// User is a user account as returned by the API.
type User struct {
	ID        ID     `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Username  string `json:"username,omitempty"`
	Role      Role   `json:"role"`
	CreatedBy string `json:"createdBy,omitempty"`
	CreatedAt Time   `json:"createdAt"`
}

// Identity returns the identity summary used for workflow creators and assignees.
func (u User) Identity() Identity {
	return Identity{ID: u.ID, Name: u.Name, Username: u.Username}
}

// UnmarshalJSON accepts the role in any letter case and a numeric or string createdBy.
func (u *User) UnmarshalJSON(b []byte) error {
	type alias User

	var raw struct {
		alias
		Role      string          `json:"role"`
		CreatedBy json.RawMessage `json:"createdBy"`
	}

	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	*u = User(raw.alias)
	u.Role = Role(raw.Role)

	if r, err := ParseRole(raw.Role); err == nil {
		u.Role = r
	}

	u.CreatedBy = rawScalar(raw.CreatedBy)

	return nil
}

// Credentials are submitted on login.
type Credentials struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// Registration is submitted on self registration.
type Registration struct {
	Name     string `json:"name" form:"name" validate:"required,min=4"`
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email" validate:"required,mailaddr"`
	Password string `json:"password" form:"password" validate:"required,min=8"`
}

// NewUser is the request body for creating a user.
type NewUser struct {
	Name     string `json:"name" form:"name" validate:"required,min=4"`
	Email    string `json:"email" form:"email" validate:"required,mailaddr"`
	Username string `json:"username,omitempty" form:"username"`
	Password string `json:"password" form:"password" validate:"required,min=8"`
	Role     Role   `json:"role" form:"role" validate:"required"`
}

// UserUpdate is the request body for updating a user profile.
type UserUpdate struct {
	Name  string `json:"name" form:"name" validate:"required"`
	Email string `json:"email" form:"email" validate:"required,mailaddr"`
}

// LoginResponse is returned by the login endpoint.
// Older API versions return "id", newer ones "userId".
type LoginResponse struct {
	Token string `json:"token"`
	ID    ID     `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *LoginResponse) UnmarshalJSON(b []byte) error {
	var raw struct {
		Token  string `json:"token"`
		ID     ID     `json:"id"`
		UserID ID     `json:"userId"`
		Name   string `json:"name"`
		Email  string `json:"email"`
		Role   string `json:"role"`
	}

	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	l.Token = raw.Token
	l.ID = raw.ID

	if l.ID.IsZero() {
		l.ID = raw.UserID
	}

	l.Name = raw.Name
	l.Email = raw.Email
	l.Role = Role(raw.Role)

	if r, err := ParseRole(raw.Role); err == nil {
		l.Role = r
	}

	return nil
}

// Actor returns the actor described by the login response.
func (l LoginResponse) Actor() Actor {
	return Actor{ID: l.ID, Name: l.Name, Email: l.Email, Role: l.Role}
}
