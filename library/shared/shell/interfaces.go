package shell

import "context"

// Command is the contract for all command types. CommandType names the use case in metrics,
// spans and logs and must work on the zero value.
type Command interface {
	CommandType() string
}

// Query is the contract for all query types. QueryType must work on the zero value.
type Query interface {
	QueryType() string
}

// CommandHandler processes a command and returns its output together with execution metadata.
type CommandHandler[C Command, O any] interface {
	Handle(ctx context.Context, command C) (O, HandlerResult, error)
}

// QueryHandler processes a query. Queries read committed state directly, so a result always
// reflects every command that completed before the query started.
type QueryHandler[Q Query, R any] interface {
	Handle(ctx context.Context, query Q) (R, error)
}
