// Package main provides the entry point of workflow-admin, a server rendered
// web console for a remote workflow API. Users log in with their API
// credentials and, depending on their role, list, create, edit and delete
// workflows and manage user accounts.
package main
