// Package navigation carries the page title, the highlighted menu entry and
// the breadcrumb trail of a rendered page.
package navigation

// BreadcrumbItem is one link of the breadcrumb trail.
type BreadcrumbItem struct {
	Title  string
	URL    string
	Active bool
}

// Context is the navigation state of one page.
type Context struct {
	ActiveSection string // menu entry: dashboard, workflows or users
	ActivePage    string // page within the section, e.g. list, mine, edit
	Breadcrumbs   []BreadcrumbItem
	PageTitle     string
}

// NewContext creates a navigation context without breadcrumbs.
func NewContext(pageTitle, activeSection, activePage string) *Context {
	return &Context{
		PageTitle:     pageTitle,
		ActiveSection: activeSection,
		ActivePage:    activePage,
		Breadcrumbs:   make([]BreadcrumbItem, 0),
	}
}

// AddBreadcrumb appends a link to the trail and returns c for chaining.
func (c *Context) AddBreadcrumb(title, url string, active bool) *Context {
	c.Breadcrumbs = append(c.Breadcrumbs, BreadcrumbItem{
		Title:  title,
		URL:    url,
		Active: active,
	})

	return c
}

// IsActive reports whether section and page are the ones shown.
func (c *Context) IsActive(section, page string) bool {
	return c.ActiveSection == section && c.ActivePage == page
}

// IsSectionActive reports whether section is the highlighted menu entry.
func (c *Context) IsSectionActive(section string) bool {
	return c.ActiveSection == section
}

// Back returns the URL of the last inactive breadcrumb, the page one level up.
// Without one it returns fallback.
func (c *Context) Back(fallback string) string {
	if c == nil {
		return fallback
	}

	for i := len(c.Breadcrumbs) - 1; i >= 0; i-- {
		if b := c.Breadcrumbs[i]; !b.Active && b.URL != "" {
			return b.URL
		}
	}

	return fallback
}
