// Package mutation coordinates create, update and delete flows.
//
// A coordinator checks the actor's permission, validates the input before
// any request is sent, calls the API with the session's token and, on
// success, reconciles every cached list view of the session. A rejected
// token ends the session. Two mutations of the same record from the same
// session never run at the same time.
package mutation
