package registeruser

import (
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/circulation"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/shared/shell"
)

const (
	commandType = "RegisterUser"
)

// Command represents the intent to register a user.
type Command struct {
	Actor shell.Actor
	Name  string
	Role  circulation.Role
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(actor shell.Actor, name string, role circulation.Role) Command {
	return Command{
		Actor: actor,
		Name:  name,
		Role:  role,
	}
}
