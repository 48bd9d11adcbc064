package advanceborrowstatus

import (
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/circulation"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/shared/shell"
)

const (
	commandType = "AdvanceBorrowStatus"
)

// Command represents the intent to move a borrow record to a new status.
type Command struct {
	Actor    shell.Actor
	RecordID circulation.BorrowRecordID
	Status   circulation.BorrowStatus
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(actor shell.Actor, recordID circulation.BorrowRecordID, status circulation.BorrowStatus) Command {
	return Command{
		Actor:    actor,
		RecordID: recordID,
		Status:   status,
	}
}
