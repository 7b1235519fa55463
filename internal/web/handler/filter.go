package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/workflow-admin/workflow-admin/internal/listview"
	"github.com/workflow-admin/workflow-admin/internal/models"
)

// Query parameters of the list views. Only parameters present in the
// request change the cached filter, so page links carry just "page".
const (
	QuerySearch       = "search"
	QueryStatus       = "status"
	QueryAssignee     = "assignee"
	QueryAssigneeRole = "assigneeRole"
	QueryCreator      = "creator"
	QueryRole         = "role"
	QueryPage         = "page"
	QueryPerPage      = "perPage"
	QueryClear        = "clear"
	QueryRefresh      = "refresh"
	QueryTab          = "tab"
)

// FilterUpdate returns the filter transition requested by the query string.
// Unknown status and role values clear the respective filter.
func FilterUpdate(c *fiber.Ctx) func(*listview.Filter) {
	q := c.Queries()
	reset := QueryBool(c, QueryClear)

	return func(f *listview.Filter) {
		if reset {
			f.Clear()
		}

		if v, ok := q[QuerySearch]; ok {
			f.SetSearch(v)
		}

		if v, ok := q[QueryStatus]; ok {
			st, _ := models.ParseStatus(v)
			f.SetStatus(st)
		}

		// A role change clears the assignee. The form submits both selects,
		// so the assignee of the same request belongs to the old role.
		roleChanged := false

		if v, ok := q[QueryAssigneeRole]; ok {
			r, _ := models.ParseRole(v)
			roleChanged = r != f.AssigneeRole
			f.SetAssigneeRole(r)
		}

		if v, ok := q[QueryAssignee]; ok && !roleChanged {
			f.SetAssignee(models.ID(v))
		}

		if v, ok := q[QueryCreator]; ok {
			f.SetCreator(models.ID(v))
		}

		if v, ok := q[QueryRole]; ok {
			r, _ := models.ParseRole(v)
			f.SetRole(r)
		}

		if v, ok := q[QueryPerPage]; ok {
			if n, err := strconv.Atoi(v); err == nil {
				f.SetPerPage(n)
			}
		}

		if v, ok := q[QueryPage]; ok {
			if n, err := strconv.Atoi(v); err == nil {
				f.SetPage(n)
			}
		}
	}
}
