package shell

import (
	"errors"
	"fmt"
	"slices"

	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/circulation"
)

var (
	// ErrActorNotPermitted is returned when the acting user's role does not allow the operation.
	ErrActorNotPermitted = errors.New("actor is not permitted to perform this operation")

	// ErrInvalidActor is returned when a command carries no usable actor identity.
	ErrInvalidActor = errors.New("actor identity is missing or invalid")
)

// Actor is the authenticated user a command is executed for.
// Authentication happens upstream; the engine trusts ID and Role as given.
type Actor struct {
	ID   circulation.UserID
	Role circulation.Role
}

// BuildActor creates an Actor.
func BuildActor(id circulation.UserID, role circulation.Role) Actor {
	return Actor{ID: id, Role: role}
}

// Validate reports ErrInvalidActor for a non-positive ID or an unknown role.
func (a Actor) Validate() error {
	if a.ID <= 0 || !a.Role.IsValid() {
		return fmt.Errorf("%w: id=%d role=%q", ErrInvalidActor, a.ID, a.Role)
	}

	return nil
}

// RequireRole permits the actor if it has one of the given roles.
func (a Actor) RequireRole(roles ...circulation.Role) error {
	if err := a.Validate(); err != nil {
		return err
	}

	if !slices.Contains(roles, a.Role) {
		return fmt.Errorf("%w: role %s", ErrActorNotPermitted, a.Role)
	}

	return nil
}

// RequireSelfOrRole permits the actor if it acts for itself or has one of the given roles.
func (a Actor) RequireSelfOrRole(userID circulation.UserID, roles ...circulation.Role) error {
	if err := a.Validate(); err != nil {
		return err
	}

	if a.ID == userID {
		return nil
	}

	return a.RequireRole(roles...)
}

// Staff are the roles that manage the catalog and decide on borrow requests.
func Staff() []circulation.Role {
	return []circulation.Role{circulation.RoleLibrarian, circulation.RoleAdmin}
}
