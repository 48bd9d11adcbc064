package postgresengine

import (
	"context"
	"errors"

	"github.com/doug-martin/goqu/v9"

	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/circulation"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/circulation/postgresengine/internal/adapters"
)

// migrationLockKey serializes concurrent Migrate calls across processes.
const migrationLockKey = 7310802

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'member' CHECK (role IN ('member', 'librarian', 'admin'))
	)`,
	`CREATE TABLE IF NOT EXISTS authors (
		author_id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		country TEXT NOT NULL,
		CONSTRAINT authors_name_key UNIQUE (name)
	)`,
	`CREATE TABLE IF NOT EXISTS books (
		book_id BIGSERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		category TEXT NOT NULL,
		genre TEXT NOT NULL,
		year_published INTEGER NOT NULL,
		author_id BIGINT NOT NULL,
		CONSTRAINT books_author_id_fkey FOREIGN KEY (author_id) REFERENCES authors (author_id) ON DELETE RESTRICT
	)`,
	`CREATE INDEX IF NOT EXISTS books_author_id_idx ON books (author_id)`,
	`CREATE TABLE IF NOT EXISTS copies (
		copy_id BIGSERIAL PRIMARY KEY,
		book_id BIGINT NOT NULL REFERENCES books (book_id) ON DELETE CASCADE,
		date_encoded DATE NOT NULL DEFAULT CURRENT_DATE,
		status TEXT NOT NULL DEFAULT 'Available' CHECK (status IN ('Available', 'Borrowed'))
	)`,
	`CREATE INDEX IF NOT EXISTS copies_book_id_status_idx ON copies (book_id, status)`,
	`CREATE TABLE IF NOT EXISTS borrow_statuses (
		status_id SMALLINT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	)`,
	`INSERT INTO borrow_statuses (status_id, name)
		VALUES (1, 'Pending'), (2, 'Accepted'), (3, 'Returned'), (4, 'Rejected')
		ON CONFLICT (status_id) DO NOTHING`,
	`CREATE TABLE IF NOT EXISTS borrow_records (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
		copy_id BIGINT NOT NULL REFERENCES copies (copy_id) ON DELETE CASCADE,
		book_id BIGINT NOT NULL REFERENCES books (book_id) ON DELETE CASCADE,
		status_id SMALLINT NOT NULL DEFAULT 1 REFERENCES borrow_statuses (status_id),
		date_borrowed DATE NOT NULL DEFAULT CURRENT_DATE,
		return_date DATE,
		CONSTRAINT borrow_records_return_date_check CHECK ((status_id = 3) = (return_date IS NOT NULL))
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS borrow_records_one_active_per_user_book
		ON borrow_records (user_id, book_id) WHERE status_id IN (1, 2)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS borrow_records_one_active_per_copy
		ON borrow_records (copy_id) WHERE status_id IN (1, 2)`,
	`CREATE INDEX IF NOT EXISTS borrow_records_book_id_idx ON borrow_records (book_id)`,
	`CREATE TABLE IF NOT EXISTS loan_history (
		id BIGSERIAL PRIMARY KEY,
		borrow_record_id BIGINT NOT NULL,
		user_id BIGINT NOT NULL,
		book_id BIGINT NOT NULL,
		copy_id BIGINT NOT NULL,
		title TEXT NOT NULL,
		author_name TEXT NOT NULL,
		status_id SMALLINT NOT NULL,
		date_borrowed DATE NOT NULL,
		return_date DATE,
		archived_at TIMESTAMP WITH TIME ZONE NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS loan_history_book_id_idx ON loan_history (book_id)`,
}

// Migrate creates all tables and indexes if they do not exist yet. It is safe to run repeatedly
// and from several processes at once.
func (s Store) Migrate(ctx context.Context) error {
	observer, ctx := s.startOperation(ctx, operationMigrate, nil)

	err := s.inTransaction(ctx, func(tx adapters.DBTx) error {
		if _, err := s.exec(ctx, tx, "acquire migration lock",
			s.dialect.Select(goqu.Func("pg_advisory_xact_lock", migrationLockKey))); err != nil {
			return errors.Join(circulation.ErrMigrationFailed, err)
		}

		for _, statement := range schemaStatements {
			if _, err := tx.Exec(ctx, statement); err != nil {
				return errors.Join(circulation.ErrMigrationFailed, err)
			}
		}

		return nil
	})

	observer.finish(err, "statements", len(schemaStatements))

	return err
}
