package adapters

import "context"

// DBAdapter defines the interface for database operations needed by the circulation engine.
type DBAdapter interface {
	Query(ctx context.Context, query string) (DBRows, error)
	Exec(ctx context.Context, query string) (DBResult, error)
	BeginTx(ctx context.Context, opts TxOptions) (DBTx, error)
}

// DBTx is an open transaction. Rollback after a successful Commit is a no-op.
type DBTx interface {
	Query(ctx context.Context, query string) (DBRows, error)
	Exec(ctx context.Context, query string) (DBResult, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TxOptions selects the isolation level of a transaction.
// The zero value runs at the database default, READ COMMITTED for PostgreSQL.
type TxOptions struct {
	Serializable bool
}

// DBRows defines the interface for query result rows.
type DBRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

// DBResult defines the interface for execution results.
type DBResult interface {
	RowsAffected() (int64, error)
}
