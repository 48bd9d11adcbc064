package deletebook

import (
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/circulation"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/shared/shell"
)

const (
	commandType = "DeleteBook"
)

// Command represents the intent to remove a book from the catalog.
type Command struct {
	Actor  shell.Actor
	BookID circulation.BookID
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(actor shell.Actor, bookID circulation.BookID) Command {
	return Command{
		Actor:  actor,
		BookID: bookID,
	}
}

// Result is the outcome of a deletion. ArchiveLocation is empty when no export happened.
type Result struct {
	circulation.DeletedBook
	ArchiveLocation string
}
