package librarysummary

import (
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/shared/shell"
)

const (
	queryType = "LibrarySummary"
)

// Query asks for the library's headline counts.
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
