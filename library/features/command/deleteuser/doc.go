// Package deleteuser implements the Delete User use case.
//
// Admins remove users who no longer borrow. Admins themselves cannot be deleted, and neither can a
// user with a Pending or Accepted loan. The user's finished loans move to the loan history.
package deleteuser
