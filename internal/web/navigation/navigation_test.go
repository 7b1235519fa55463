package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewContext(t *testing.T) {
	ctx := NewContext("All Workflows", "workflows", "list")

	assert.Equal(t, "All Workflows", ctx.PageTitle)
	assert.Equal(t, "workflows", ctx.ActiveSection)
	assert.Equal(t, "list", ctx.ActivePage)
	assert.NotNil(t, ctx.Breadcrumbs)
	assert.Empty(t, ctx.Breadcrumbs)
}

func TestContext_AddBreadcrumb(t *testing.T) {
	ctx := NewContext("Edit Workflow", "workflows", "edit").
		AddBreadcrumb("Home", "/dashboard", false).
		AddBreadcrumb("All Workflows", "/workflows", false).
		AddBreadcrumb("Edit", "/workflows/7/edit", true)

	assert.Equal(t, []BreadcrumbItem{
		{Title: "Home", URL: "/dashboard"},
		{Title: "All Workflows", URL: "/workflows"},
		{Title: "Edit", URL: "/workflows/7/edit", Active: true},
	}, ctx.Breadcrumbs)
}

func TestContext_IsActive(t *testing.T) {
	ctx := NewContext("My Workflows", "workflows", "mine")

	tests := []struct {
		section, page string
		want          bool
	}{
		{"workflows", "mine", true},
		{"workflows", "list", false},
		{"users", "mine", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ctx.IsActive(tt.section, tt.page), "%s/%s", tt.section, tt.page)
	}

	assert.True(t, ctx.IsSectionActive("workflows"))
	assert.False(t, ctx.IsSectionActive("users"))
}

func TestContext_Back(t *testing.T) {
	ctx := NewContext("Delete User", "users", "delete").
		AddBreadcrumb("Home", "/dashboard", false).
		AddBreadcrumb("Manage Users", "/users", false).
		AddBreadcrumb("Bobby", "/users/43/delete", true)

	assert.Equal(t, "/users", ctx.Back("/dashboard"))
	assert.Equal(t, "/dashboard", NewContext("Dashboard", "dashboard", "dashboard").Back("/dashboard"))

	var missing *Context
	assert.Equal(t, "/", missing.Back("/"))
}
