package pendingborrowrequests

import (
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/shared/shell"
)

const (
	queryType = "PendingBorrowRequests"
)

// Query asks for all Pending borrow records.
type Query struct {
	Actor shell.Actor
}

// QueryType returns the type identifier for this query, used for observability.
func (q Query) QueryType() string {
	return queryType
}

// BuildQuery creates a new Query.
func BuildQuery(actor shell.Actor) Query {
	return Query{Actor: actor}
}
