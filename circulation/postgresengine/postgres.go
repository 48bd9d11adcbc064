package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // driver import
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/circulation"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/circulation/postgresengine/internal/adapters"
)

const (
	dialectPostgres = "postgres"
	castDate        = "?::date"
	castTimestamp   = "?::timestamp with time zone"

	tableUsers         = "users"
	tableAuthors       = "authors"
	tableBooks         = "books"
	tableCopies        = "copies"
	tableBorrowRecords = "borrow_records"
	tableLoanHistory   = "loan_history"
	colID              = "id"
	colName            = "name"
	colRole            = "role"
	colCountry         = "country"
	colAuthorID        = "author_id"
	colBookID          = "book_id"
	colTitle           = "title"
	colCategory        = "category"
	colGenre           = "genre"
	colYearPublished   = "year_published"
	colCopyID          = "copy_id"
	colDateEncoded     = "date_encoded"
	colStatus          = "status"
	colUserID          = "user_id"
	colStatusID        = "status_id"
	colDateBorrowed    = "date_borrowed"
	colReturnDate      = "return_date"
	colBorrowRecordID  = "borrow_record_id"
	colAuthorName      = "author_name"
	colArchivedAt      = "archived_at"
)

// Constraints whose violations map to typed errors.
const (
	constraintActiveUserBook = "borrow_records_one_active_per_user_book"
	constraintActiveCopy     = "borrow_records_one_active_per_copy"
	constraintBooksAuthor    = "books_author_id_fkey"
	constraintRecordsUser    = "borrow_records_user_id_fkey"
)

// sqlBuilder is satisfied by all goqu datasets.
type sqlBuilder interface {
	ToSQL() (string, []any, error)
}

// queryer is satisfied by the adapter itself and by an open transaction.
type queryer interface {
	Query(ctx context.Context, query string) (adapters.DBRows, error)
}

// execer is satisfied by the adapter itself and by an open transaction.
type execer interface {
	Exec(ctx context.Context, query string) (adapters.DBResult, error)
}

// Store runs the circulation operations as explicit transactions against PostgreSQL.
// It is safe for concurrent use; all coordination happens inside the database.
type Store struct {
	db               adapters.DBAdapter
	dialect          goqu.DialectWrapper
	policy           circulation.StatusPolicy
	isolation        circulation.IsolationLevel
	clock            func() time.Time
	logger           circulation.Logger
	contextualLogger circulation.ContextualLogger
	metricsCollector circulation.MetricsCollector
	tracingCollector circulation.TracingCollector
}

// NewStoreFromPGXPool creates a new Store using a pgx Pool with optional configuration.
func NewStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (Store, error) {
	if db == nil {
		return Store{}, circulation.ErrNilDatabaseConnection
	}

	return newStore(adapters.NewPGXAdapter(db), options...)
}

// NewStoreFromSQLDB creates a new Store using a database/sql DB (lib/pq driver) with optional configuration.
func NewStoreFromSQLDB(db *sql.DB, options ...Option) (Store, error) {
	if db == nil {
		return Store{}, circulation.ErrNilDatabaseConnection
	}

	return newStore(adapters.NewSQLAdapter(db), options...)
}

// NewStoreFromSQLX creates a new Store using an sqlx DB with optional configuration.
func NewStoreFromSQLX(db *sqlx.DB, options ...Option) (Store, error) {
	if db == nil {
		return Store{}, circulation.ErrNilDatabaseConnection
	}

	return newStore(adapters.NewSQLXAdapter(db), options...)
}

func newStore(db adapters.DBAdapter, options ...Option) (Store, error) {
	s := Store{
		db:        db,
		dialect:   goqu.Dialect(dialectPostgres),
		policy:    circulation.DefaultStatusPolicy(),
		isolation: circulation.RowLocking,
		clock:     time.Now,
	}

	for _, option := range options {
		if err := option(&s); err != nil {
			return Store{}, err
		}
	}

	return s, nil
}

// StatusPolicy returns the borrow status policy the store enforces.
func (s Store) StatusPolicy() circulation.StatusPolicy {
	return s.policy
}

func (s Store) today() time.Time {
	return circulation.DateOf(s.clock())
}

// inTransaction runs fn inside one transaction and commits if fn succeeds.
// Any error rolls the whole transaction back.
func (s Store) inTransaction(ctx context.Context, fn func(tx adapters.DBTx) error) error {
	tx, err := s.db.BeginTx(ctx, adapters.TxOptions{Serializable: s.isolation == circulation.Serializable})
	if err != nil {
		return s.dbError(circulation.ErrBeginTxFailed, err)
	}

	defer func() {
		if rollbackErr := tx.Rollback(context.WithoutCancel(ctx)); rollbackErr != nil {
			s.logWarn(ctx, logMsgRollbackFailed, logAttrError, rollbackErr.Error())
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return s.dbError(circulation.ErrCommitFailed, err)
	}

	return nil
}

// query builds the statement, runs it, and hands every row to scanRow.
func (s Store) query(
	ctx context.Context,
	q queryer,
	action string,
	builder sqlBuilder,
	scanRow func(rows adapters.DBRows) error,
) error {
	sqlQuery, _, err := builder.ToSQL()
	if err != nil {
		s.logError(ctx, logMsgBuildQueryFailed, err, logAttrAction, action)
		return errors.Join(circulation.ErrBuildingQueryFailed, err)
	}

	start := time.Now()

	rows, err := q.Query(ctx, sqlQuery)
	if err != nil {
		return s.dbError(circulation.ErrQueryingFailed, err)
	}
	defer s.closeRows(ctx, rows)

	for rows.Next() {
		if err = scanRow(rows); err != nil {
			s.logError(ctx, logMsgScanRowFailed, err, logAttrAction, action)
			return errors.Join(circulation.ErrScanningDBRowFailed, err)
		}
	}

	if err = rows.Err(); err != nil {
		return s.dbError(circulation.ErrQueryingFailed, err)
	}

	s.logQueryWithDuration(ctx, sqlQuery, action, time.Since(start))

	return nil
}

// exec builds the statement, runs it, and returns the number of affected rows.
func (s Store) exec(ctx context.Context, e execer, action string, builder sqlBuilder) (int64, error) {
	sqlQuery, _, err := builder.ToSQL()
	if err != nil {
		s.logError(ctx, logMsgBuildQueryFailed, err, logAttrAction, action)
		return 0, errors.Join(circulation.ErrBuildingQueryFailed, err)
	}

	start := time.Now()

	result, err := e.Exec(ctx, sqlQuery)
	if err != nil {
		return 0, s.dbError(circulation.ErrQueryingFailed, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, errors.Join(circulation.ErrQueryingFailed, err)
	}

	s.logQueryWithDuration(ctx, sqlQuery, action, time.Since(start))

	return rowsAffected, nil
}

// insertReturningID runs an INSERT ... RETURNING statement that yields exactly one id.
func (s Store) insertReturningID(ctx context.Context, q queryer, action string, builder sqlBuilder) (int64, error) {
	var id int64
	found := false

	err := s.query(ctx, q, action, builder, func(rows adapters.DBRows) error {
		found = true
		return rows.Scan(&id)
	})
	if err != nil {
		return 0, err
	}

	if !found {
		return 0, errors.Join(circulation.ErrQueryingFailed, errors.New(action+" returned no id"))
	}

	return id, nil
}

func (s Store) closeRows(ctx context.Context, rows adapters.DBRows) {
	if err := rows.Close(); err != nil {
		s.logWarn(ctx, logMsgCloseRowsFailed, logAttrError, err.Error())
	}
}

// dbError translates err into a typed circulation error if it is a known Postgres condition,
// otherwise it joins err with the given sentinel.
func (s Store) dbError(sentinel error, err error) error {
	if translated, ok := translateDBError(err); ok {
		return translated
	}

	return errors.Join(sentinel, err)
}

func activeStatusIDs() []int {
	ids := make([]int, 0, 2)
	for _, status := range circulation.ActiveBorrowStatuses() {
		ids = append(ids, int(status))
	}

	return ids
}

func dateLiteral(t time.Time) any {
	return goqu.L(castDate, t.Format(time.DateOnly))
}

func nullableDateLiteral(t *time.Time) any {
	if t == nil {
		return nil
	}

	return dateLiteral(*t)
}

func timestampLiteral(t time.Time) any {
	return goqu.L(castTimestamp, t.UTC().Format(time.RFC3339Nano))
}

func nullTimeToPtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}

	t := circulation.DateOf(nt.Time)

	return &t
}
