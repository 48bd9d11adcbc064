package changeuserrole

import (
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/circulation"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/shared/shell"
)

const (
	commandType = "ChangeUserRole"
)

// Command represents the intent to assign a new role to a user.
type Command struct {
	Actor  shell.Actor
	UserID circulation.UserID
	Role   circulation.Role
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(actor shell.Actor, userID circulation.UserID, role circulation.Role) Command {
	return Command{
		Actor:  actor,
		UserID: userID,
		Role:   role,
	}
}
