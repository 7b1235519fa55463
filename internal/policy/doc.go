// Package policy computes which workflow and user records an actor may view,
// edit, reassign or delete.
//
// Every predicate is pure and treats a nil actor as having no rights. The
// results gate controls in the console only; the workflow API enforces the
// same rules on its side and remains authoritative. A decision that is more
// permissive than the API surfaces as a rejected mutation.
package policy
