package updatebook

import (
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/circulation"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/shared/shell"
)

const (
	commandType = "UpdateBook"
)

// Command represents the intent to change a book's metadata and copy count.
type Command struct {
	Actor  shell.Actor
	Update circulation.BookUpdate
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(
	actor shell.Actor,
	bookID circulation.BookID,
	title string,
	category string,
	genre string,
	yearPublished int,
	numberOfCopies int,
) Command {
	return Command{
		Actor: actor,
		Update: circulation.BookUpdate{
			BookID:         bookID,
			Title:          title,
			Category:       category,
			Genre:          genre,
			YearPublished:  yearPublished,
			NumberOfCopies: numberOfCopies,
		},
	}
}
