package loanhistory

import (
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/circulation"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/shared/shell"
)

const (
	queryType = "LoanHistory"
)

// Query asks for the archived loans of a deleted book.
type Query struct {
	Actor  shell.Actor
	BookID circulation.BookID
}

// QueryType returns the type identifier for this query, used for observability.
func (q Query) QueryType() string {
	return queryType
}

// BuildQuery creates a new Query.
func BuildQuery(actor shell.Actor, bookID circulation.BookID) Query {
	return Query{Actor: actor, BookID: bookID}
}
