package requestborrow

import (
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/circulation"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/shared/shell"
)

const (
	commandType = "RequestBorrow"
)

// Command represents the intent of an actor to borrow a book for a user.
type Command struct {
	Actor  shell.Actor
	UserID circulation.UserID
	BookID circulation.BookID
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(actor shell.Actor, userID circulation.UserID, bookID circulation.BookID) Command {
	return Command{
		Actor:  actor,
		UserID: userID,
		BookID: bookID,
	}
}
