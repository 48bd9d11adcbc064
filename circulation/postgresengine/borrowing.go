package postgresengine

import (
	"context"
	"database/sql"
	"strconv"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/circulation"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/circulation/postgresengine/internal/adapters"
)

// RequestBorrow claims the lowest-id Available copy of a book for a user and records a Pending loan.
//
// The book row is locked first, so borrow requests and copy reconciliations for the same book
// run one after the other; the Available copies are then locked as well. Of N concurrent requests
// for the last Available copy exactly one succeeds; the others observe zero availability.
//
// Errors: circulation.ErrUserNotFound, circulation.ErrBookNotFound, circulation.ErrNoAvailableCopies,
// circulation.ErrAlreadyBorrowed, circulation.ErrConcurrencyConflict (retryable).
func (s Store) RequestBorrow(
	ctx context.Context,
	userID circulation.UserID,
	bookID circulation.BookID,
) (circulation.BorrowRecord, error) {
	observer, ctx := s.startOperation(ctx, operationRequestBorrow, map[string]string{
		colUserID: strconv.FormatInt(userID, 10),
		colBookID: strconv.FormatInt(bookID, 10),
	})

	var record circulation.BorrowRecord

	err := s.inTransaction(ctx, func(tx adapters.DBTx) error {
		state, err := s.readBorrowState(ctx, tx, userID, bookID)
		if err != nil {
			return err
		}

		claimed, err := circulation.DecideBorrow(state)
		if err != nil {
			return err
		}

		record = circulation.BorrowRecord{
			UserID:       userID,
			CopyID:       claimed.ID,
			BookID:       bookID,
			Status:       circulation.BorrowPending,
			DateBorrowed: s.today(),
		}

		record.ID, err = s.insertReturningID(ctx, tx, "insert borrow record",
			s.dialect.Insert(tableBorrowRecords).
				Rows(goqu.Record{
					colUserID:       record.UserID,
					colCopyID:       record.CopyID,
					colBookID:       record.BookID,
					colStatusID:     int(record.Status),
					colDateBorrowed: dateLiteral(record.DateBorrowed),
				}).
				Returning(colID))
		if err != nil {
			return err
		}

		return s.setCopyStatus(ctx, tx, claimed.ID, circulation.CopyBorrowed)
	})

	observer.finish(err, colUserID, userID, colBookID, bookID, colCopyID, record.CopyID)

	if err != nil {
		return circulation.BorrowRecord{}, err
	}

	return record, nil
}

// readBorrowState reads everything DecideBorrow needs, locking the book and its Available copies.
func (s Store) readBorrowState(
	ctx context.Context,
	tx adapters.DBTx,
	userID circulation.UserID,
	bookID circulation.BookID,
) (circulation.BorrowState, error) {
	var state circulation.BorrowState
	var err error

	state.UserExists, err = s.exists(ctx, tx, "check user exists",
		s.dialect.From(tableUsers).Select(colID).Where(goqu.C(colID).Eq(userID)))
	if err != nil || !state.UserExists {
		return state, err
	}

	state.BookExists, err = s.lockBook(ctx, tx, bookID)
	if err != nil || !state.BookExists {
		return state, err
	}

	state.AvailableCopies, err = s.selectCopies(ctx, tx, "lock available copies",
		s.dialect.From(tableCopies).
			Select(colCopyID, colBookID, colDateEncoded, colStatus).
			Where(goqu.Ex{colBookID: bookID, colStatus: string(circulation.CopyAvailable)}).
			Order(goqu.C(colCopyID).Asc()).
			ForUpdate(exp.Wait))
	if err != nil {
		return state, err
	}

	state.HasActiveLoanForBook, err = s.exists(ctx, tx, "check active loan",
		s.dialect.From(tableBorrowRecords).
			Select(colID).
			Where(
				goqu.C(colUserID).Eq(userID),
				goqu.C(colBookID).Eq(bookID),
				goqu.C(colStatusID).In(activeStatusIDs()),
			).
			Limit(1))

	return state, err
}

// lockBook takes the row lock on a book and reports whether it exists.
func (s Store) lockBook(ctx context.Context, tx adapters.DBTx, bookID circulation.BookID) (bool, error) {
	return s.exists(ctx, tx, "lock book",
		s.dialect.From(tableBooks).
			Select(colBookID).
			Where(goqu.C(colBookID).Eq(bookID)).
			ForUpdate(exp.Wait))
}

// exists reports whether the statement yields at least one row.
func (s Store) exists(ctx context.Context, q queryer, action string, builder sqlBuilder) (bool, error) {
	found := false

	err := s.query(ctx, q, action, builder, func(rows adapters.DBRows) error {
		var ignored int64
		found = true

		return rows.Scan(&ignored)
	})

	return found, err
}

func (s Store) selectCopies(ctx context.Context, q queryer, action string, builder sqlBuilder) ([]circulation.Copy, error) {
	copies := make([]circulation.Copy, 0)

	err := s.query(ctx, q, action, builder, func(rows adapters.DBRows) error {
		var c circulation.Copy
		var status string
		var encoded sql.NullTime

		if err := rows.Scan(&c.ID, &c.BookID, &encoded, &status); err != nil {
			return err
		}

		c.Status = circulation.CopyStatus(status)
		if encoded.Valid {
			c.DateEncoded = circulation.DateOf(encoded.Time)
		}

		copies = append(copies, c)

		return nil
	})

	return copies, err
}

func (s Store) setCopyStatus(ctx context.Context, tx adapters.DBTx, copyID circulation.CopyID, status circulation.CopyStatus) error {
	_, err := s.exec(ctx, tx, "set copy status",
		s.dialect.Update(tableCopies).
			Set(goqu.Record{colStatus: string(status)}).
			Where(goqu.C(colCopyID).Eq(copyID)))

	return err
}
