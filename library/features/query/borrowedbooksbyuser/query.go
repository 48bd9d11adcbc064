package borrowedbooksbyuser

import (
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/circulation"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/shared/shell"
)

const (
	queryType = "BorrowedBooksByUser"
)

// Query asks for the loans of UserID.
type Query struct {
	Actor  shell.Actor
	UserID circulation.UserID
}

// QueryType returns the type identifier for this query, used for observability.
func (q Query) QueryType() string {
	return queryType
}

// BuildQuery creates a new Query.
func BuildQuery(actor shell.Actor, userID circulation.UserID) Query {
	return Query{Actor: actor, UserID: userID}
}
