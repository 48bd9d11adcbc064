// Package changeuserrole implements the Change User Role use case.
//
// Admins promote or demote users. Admin roles themselves are immutable, and assigning the role a
// user already has is accepted as an idempotent no-op.
package changeuserrole
