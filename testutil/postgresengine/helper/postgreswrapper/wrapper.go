package postgreswrapper

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/circulation/postgresengine"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/shared/shell/config"
)

// Engine type constants
const (
	typePGXPool = "pgx.pool"
	typeSQLDB   = "sql.db"
	typeSQLXDB  = "sqlx.db"
)

const cleanUpStatement = `TRUNCATE TABLE loan_history, borrow_records, copies, books, authors, users RESTART IDENTITY CASCADE`

// Wrapper interface to abstract over different engine types
type Wrapper interface {
	GetStore() postgresengine.Store
	Close()
}

// PGXPoolWrapper wraps pgxpool-based testing
type PGXPoolWrapper struct {
	pool  *pgxpool.Pool
	store postgresengine.Store
}

func (e *PGXPoolWrapper) GetStore() postgresengine.Store {
	return e.store
}

func (e *PGXPoolWrapper) Close() {
	e.pool.Close()
}

// SQLDBWrapper wraps sql.DB-based testing
type SQLDBWrapper struct {
	db    *sql.DB
	store postgresengine.Store
}

func (e *SQLDBWrapper) GetStore() postgresengine.Store {
	return e.store
}

func (e *SQLDBWrapper) Close() {
	_ = e.db.Close() // ignore error
}

// SQLXWrapper wraps sqlx.DB-based testing
type SQLXWrapper struct {
	db    *sqlx.DB
	store postgresengine.Store
}

func (e *SQLXWrapper) GetStore() postgresengine.Store {
	return e.store
}

func (e *SQLXWrapper) Close() {
	_ = e.db.Close() // ignore error
}

// CreateWrapperWithTestConfig creates the wrapper selected by ADAPTER_TYPE against the test database,
// applies the schema, and skips the test if the database cannot be reached.
func CreateWrapperWithTestConfig(t testing.TB, options ...postgresengine.Option) Wrapper {
	t.Helper()

	ctx := context.Background()
	dsn := config.PostgresTestDSN()
	engineTypeFromEnv := strings.ToLower(os.Getenv("ADAPTER_TYPE"))

	var wrapper Wrapper

	switch engineTypeFromEnv {
	case typePGXPool, "":
		pool, err := config.NewPGXPool(ctx, dsn)
		skipIfUnreachable(t, err)

		store, err := postgresengine.NewStoreFromPGXPool(pool, options...)
		require.NoError(t, err, "error creating store")

		wrapper = &PGXPoolWrapper{pool: pool, store: store}

	case typeSQLDB:
		db, err := config.NewSQLDB(ctx, dsn)
		skipIfUnreachable(t, err)

		store, err := postgresengine.NewStoreFromSQLDB(db, options...)
		require.NoError(t, err, "error creating store")

		wrapper = &SQLDBWrapper{db: db, store: store}

	case typeSQLXDB:
		db, err := config.NewSQLX(ctx, dsn)
		skipIfUnreachable(t, err)

		store, err := postgresengine.NewStoreFromSQLX(db, options...)
		require.NoError(t, err, "error creating store")

		wrapper = &SQLXWrapper{db: db, store: store}

	default: // neither one of the known types nor empty
		panic(fmt.Sprintf("unsupported wrapper type from env: %s", engineTypeFromEnv))
	}

	require.NoError(t, wrapper.GetStore().Migrate(ctx), "error migrating the test database")

	return wrapper
}

// CleanUp removes all rows except the seeded borrow statuses and resets the id sequences.
func CleanUp(t testing.TB, wrapper Wrapper) {
	switch e := wrapper.(type) {
	case *PGXPoolWrapper:
		_, err := e.pool.Exec(context.Background(), cleanUpStatement)
		require.NoError(t, err, "error cleaning up the test database")

	case *SQLDBWrapper:
		_, err := e.db.Exec(cleanUpStatement)
		require.NoError(t, err, "error cleaning up the test database")

	case *SQLXWrapper:
		_, err := e.db.Exec(cleanUpStatement)
		require.NoError(t, err, "error cleaning up the test database")

	default:
		panic(fmt.Sprintf("unsupported wrapper type: %T", e))
	}
}

// CountRows returns the result of a SELECT count(*) statement.
func CountRows(t testing.TB, wrapper Wrapper, countStatement string, args ...any) int {
	var cnt int
	var err error

	switch e := wrapper.(type) {
	case *PGXPoolWrapper:
		err = e.pool.QueryRow(context.Background(), countStatement, args...).Scan(&cnt)

	case *SQLDBWrapper:
		err = e.db.QueryRow(countStatement, args...).Scan(&cnt)

	case *SQLXWrapper:
		err = e.db.QueryRow(countStatement, args...).Scan(&cnt)

	default:
		panic(fmt.Sprintf("unsupported wrapper type: %T", e))
	}

	require.NoError(t, err, "error counting rows")

	return cnt
}

func skipIfUnreachable(t testing.TB, err error) {
	if err != nil {
		t.Skipf("test database is not reachable: %v", err)
	}
}
