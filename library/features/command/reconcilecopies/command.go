package reconcilecopies

import (
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/circulation"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/shared/shell"
)

const (
	commandType = "ReconcileCopies"
)

// Command represents the intent to bring a book's copy inventory to Target copies.
type Command struct {
	Actor  shell.Actor
	BookID circulation.BookID
	Target int
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(actor shell.Actor, bookID circulation.BookID, target int) Command {
	return Command{
		Actor:  actor,
		BookID: bookID,
		Target: target,
	}
}
