// Package listview builds the render models of the tabular views: All
// Workflows, My Workflows and Manage Users.
//
// Each view runs the same pipeline. The fetch strategy comes from the
// planner, the server result is cached in the session's view state, and
// every render applies the creator post-filter, the search post-filter and
// the pagination slice, in that order, before gating each row's actions
// against the current actor.
//
// A fetch happens on initial mount, on an explicit refresh and whenever a
// filter that is part of the API request changes. Search and paging work
// on the cached rows.
package listview
