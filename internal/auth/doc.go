// Package auth provides route level authorization for the web console.
//
// Authentication is delegated to the remote API; the console only keeps the
// actor returned on login. Route access is expressed as named permissions
// derived from the actor's role:
//   - PermDashboardView, PermWorkflowList, PermWorkflowRead: any signed in actor
//   - PermWorkflowCreate: actors with at least one assignable role
//   - PermUserList: actors that may list users of some role
//   - PermUserCreate: ADMIN and MANAGER
//
// Record level decisions, such as whether an actor may edit a given workflow,
// are made by the policy package.
//
// Example usage:
//
//	app.Use(auth.AddPermissionsToLocals())
//
//	app.Get("/users/new",
//	    auth.RequirePermission(auth.PermUserCreate),
//	    handler,
//	)
package auth
