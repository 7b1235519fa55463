// Package user provides the Manage Users pages: the user list, the create
// form, the edit form and the delete confirmation.
package user

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	appauth "github.com/workflow-admin/workflow-admin/internal/auth"
	"github.com/workflow-admin/workflow-admin/internal/failure"
	"github.com/workflow-admin/workflow-admin/internal/listview"
	"github.com/workflow-admin/workflow-admin/internal/models"
	"github.com/workflow-admin/workflow-admin/internal/mutation"
	"github.com/workflow-admin/workflow-admin/internal/policy"
	"github.com/workflow-admin/workflow-admin/internal/web/handler"
	"github.com/workflow-admin/workflow-admin/internal/web/navigation"
	"github.com/workflow-admin/workflow-admin/internal/web/session"
)

const (
	// Path is the Manage Users list.
	Path = handler.RootPath + "users"

	// NewPath is the create user form.
	NewPath = Path + "/new"

	// ListTemplate is the name of the user list template.
	ListTemplate = "user/list"

	// FormTemplate renders the create and edit forms.
	FormTemplate = "user/form"

	// DeleteTemplate renders the delete confirmation.
	DeleteTemplate = "user/delete"

	section = "users"
)

// EditPath returns the edit form of the user.
func EditPath(id models.ID) string {
	return Path + "/" + id.String() + "/edit"
}

// Service is the user handler service.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Handler is the user handler.
var Handler = Service{}

// Init initializes the user handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || !deps.Valid() {
		return errors.New(handler.ErrNilDepsFatalLogMsg)
	}

	s.deps = deps

	list := appauth.RequirePermission(appauth.PermUserList)
	create := appauth.RequirePermission(appauth.PermUserCreate)

	app.Get(Path, list, s.List)
	app.Get(NewPath, create, s.New)
	app.Post(NewPath, create, s.Create)
	// Everyone may edit their own profile; the record check runs in the handler.
	app.Get(Path+"/:id/edit", s.Edit)
	app.Post(Path+"/:id/edit", s.Update)
	app.Get(Path+"/:id/delete", list, s.ConfirmDelete)
	app.Post(Path+"/:id/delete", list, s.Delete)

	return nil
}

func baseNav(title, page string) *navigation.Context {
	return navigation.NewContext(title, section, page).
		AddBreadcrumb("Home", handler.DashboardPath, false).
		AddBreadcrumb("Manage Users", Path, page == "list")
}

func (s *Service) load(c *fiber.Ctx) (*models.User, error) {
	id := models.ID(c.Params("id"))

	return s.deps.Sessions.Client(appauth.SessionID(c)).Users().Get(c.UserContext(), id)
}

// List renders the Manage Users view.
func (s *Service) List(c *fiber.Ctx) error {
	nav := baseNav("Manage Users", "list")

	page, err := s.deps.Lists.Users(c.UserContext(), listview.Request{
		SessionID: appauth.SessionID(c),
		Printer:   handler.Printer(c),
		Refresh:   handler.QueryBool(c, handler.QueryRefresh),
		Update:    handler.FilterUpdate(c),
	})
	if err != nil {
		return handler.Fail(c, s.deps, nav, err)
	}

	if page.Teardown {
		return handler.Expired(c, s.deps, page.Message)
	}

	return handler.Page(c, s.deps, ListTemplate, nav, fiber.Map{
		"Page":      page,
		"BasePath":  Path,
		"PageSizes": s.deps.Cfg.UI.PageSizes,
	})
}

// Form is the render model of the create and edit forms.
type Form struct {
	// User is nil on the create form.
	User  *models.User
	Input mutation.UserInput
	Can   policy.UserPermissions
	Roles []models.Role
	// Password is only asked on the create form.
	Password bool
	Action   string
}

func (s *Service) renderForm(c *fiber.Ctx, nav *navigation.Context, form Form, f *failure.Failure) error {
	data := fiber.Map{"Form": form}

	if f != nil {
		data["error"] = f.Message
		data["Errors"] = f.Fields
		c.Status(handler.StatusFor(f))
	}

	return handler.Page(c, s.deps, FormTemplate, nav, data)
}

func newNav() *navigation.Context {
	return baseNav("Create User", "new").AddBreadcrumb("Create User", NewPath, true)
}

func (s *Service) createForm(c *fiber.Ctx, in mutation.UserInput) Form {
	actor := appauth.Actor(c)

	if in.Role == "" {
		in.Role = policy.DefaultCreateRole(actor, s.deps.Cfg.UI.DefaultCreateRole)
	}

	return Form{
		Input:    in,
		Can:      policy.UserPermissions{Manage: true, ChangeRole: true},
		Roles:    policy.AssignableRoles(actor),
		Password: true,
		Action:   NewPath,
	}
}

// New renders the create user form.
func (s *Service) New(c *fiber.Ctx) error {
	return s.renderForm(c, newNav(), s.createForm(c, mutation.UserInput{}), nil)
}

// Create submits the create user form.
func (s *Service) Create(c *fiber.Ctx) error {
	sid := appauth.SessionID(c)

	in := models.NewUser{}
	if err := c.BodyParser(&in); err != nil {
		return handler.Fail(c, s.deps, newNav(), &failure.ValidationError{})
	}

	if _, err := s.deps.Mutations.CreateUser(c.UserContext(), sid, in); err != nil {
		f, ok := handler.FormFailure(c, err)
		if !ok {
			return handler.Expired(c, s.deps, f.Message)
		}

		return s.renderForm(c, newNav(), s.createForm(c, mutation.UserInput{
			Name: in.Name, Email: in.Email, Role: in.Role,
		}), f)
	}

	if err := s.deps.Lists.Invalidate(sid); err != nil {
		return handler.Fail(c, s.deps, newNav(), err)
	}

	handler.Flash(c, s.deps, session.FlashSuccess, failure.MsgUserCreated)

	return c.Redirect(Path)
}

func editNav(u *models.User) *navigation.Context {
	return baseNav("Edit User", "edit").AddBreadcrumb(u.Name, EditPath(u.ID), true)
}

func (s *Service) editForm(c *fiber.Ctx, u *models.User, in mutation.UserInput) Form {
	actor := appauth.Actor(c)
	perms := policy.ForUser(actor, u)

	form := Form{User: u, Input: in, Can: perms, Action: EditPath(u.ID)}
	if perms.ChangeRole {
		form.Roles = policy.AssignableRoles(actor)
	}

	return form
}

// Edit renders the edit form. The role field is shown only to actors that
// may change the target's role.
func (s *Service) Edit(c *fiber.Ctx) error {
	u, err := s.load(c)
	if err != nil {
		return handler.Fail(c, s.deps, baseNav("Edit User", "edit"), err)
	}

	if !policy.CanManageUser(appauth.Actor(c), u) {
		return handler.Fail(c, s.deps, editNav(u), failure.ErrNotPermitted)
	}

	return s.renderForm(c, editNav(u), s.editForm(c, u, mutation.UserInput{Name: u.Name, Email: u.Email, Role: u.Role}), nil)
}

// Update submits the edit form. A failed role change after a saved profile
// is reported on the list page, where the saved profile is visible.
func (s *Service) Update(c *fiber.Ctx) error {
	u, err := s.load(c)
	if err != nil {
		return handler.Fail(c, s.deps, baseNav("Edit User", "edit"), err)
	}

	in := mutation.UserInput{}
	if err = c.BodyParser(&in); err != nil {
		return handler.Fail(c, s.deps, editNav(u), &failure.ValidationError{})
	}

	if _, err = s.deps.Mutations.UpdateUser(c.UserContext(), appauth.SessionID(c), u, in); err != nil {
		f, ok := handler.FormFailure(c, err)
		if !ok {
			return handler.Expired(c, s.deps, f.Message)
		}

		if f.Category == failure.CategoryPartialSuccess {
			if ferr := s.deps.Sessions.AddFlash(appauth.SessionID(c), session.FlashError, f.Message); ferr != nil {
				return handler.Fail(c, s.deps, editNav(u), ferr)
			}

			return c.Redirect(Path)
		}

		return s.renderForm(c, editNav(u), s.editForm(c, u, in), f)
	}

	handler.Flash(c, s.deps, session.FlashSuccess, failure.MsgUserUpdated)

	return c.Redirect(Path)
}

func deleteNav(u *models.User) *navigation.Context {
	return baseNav("Delete User", "delete").AddBreadcrumb(u.Name, Path+"/"+u.ID.String()+"/delete", true)
}

// ConfirmDelete renders the confirmation naming the user.
func (s *Service) ConfirmDelete(c *fiber.Ctx) error {
	u, err := s.load(c)
	if err != nil {
		return handler.Fail(c, s.deps, baseNav("Delete User", "delete"), err)
	}

	if !policy.CanDeleteUser(appauth.Actor(c), u) {
		return handler.Fail(c, s.deps, deleteNav(u), failure.ErrNotPermitted)
	}

	return handler.Page(c, s.deps, DeleteTemplate, deleteNav(u), fiber.Map{"User": u})
}

// Delete deletes the user once the confirmation matches the name.
func (s *Service) Delete(c *fiber.Ctx) error {
	u, err := s.load(c)
	if err != nil {
		return handler.Fail(c, s.deps, baseNav("Delete User", "delete"), err)
	}

	err = s.deps.Mutations.DeleteUser(c.UserContext(), appauth.SessionID(c), u, c.FormValue("confirmation"))
	if err != nil {
		f, ok := handler.FormFailure(c, err)
		if !ok {
			return handler.Expired(c, s.deps, f.Message)
		}

		c.Status(handler.StatusFor(f))

		return handler.Page(c, s.deps, DeleteTemplate, deleteNav(u), fiber.Map{
			"User":   u,
			"error":  f.Message,
			"Errors": f.Fields,
		})
	}

	handler.Flash(c, s.deps, session.FlashSuccess, failure.MsgUserDeleted)

	return c.Redirect(Path)
}
