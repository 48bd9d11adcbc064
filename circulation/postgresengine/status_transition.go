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

var borrowRecordColumns = []any{colID, colUserID, colCopyID, colBookID, colStatusID, colDateBorrowed, colReturnDate}

// AdvanceStatus moves a borrow record to next under the store's StatusPolicy.
//
// Moving to Returned sets the return date and makes the copy Available again; moving to Rejected
// frees the copy without a return date. The record and the copy change in one transaction.
//
// Errors: circulation.ErrBorrowRecordNotFound, circulation.ErrAlreadyReturned,
// circulation.ErrInvalidTransition, circulation.ErrConcurrencyConflict (retryable).
func (s Store) AdvanceStatus(
	ctx context.Context,
	recordID circulation.BorrowRecordID,
	next circulation.BorrowStatus,
) (circulation.BorrowRecord, error) {
	observer, ctx := s.startOperation(ctx, operationAdvanceStatus, map[string]string{
		colID:     strconv.FormatInt(recordID, 10),
		colStatus: next.String(),
	})

	var record circulation.BorrowRecord

	err := s.inTransaction(ctx, func(tx adapters.DBTx) error {
		records, err := s.selectBorrowRecords(ctx, tx, "lock borrow record",
			s.dialect.From(tableBorrowRecords).
				Select(borrowRecordColumns...).
				Where(goqu.C(colID).Eq(recordID)).
				ForUpdate(exp.Wait))
		if err != nil {
			return err
		}

		if len(records) == 0 {
			return circulation.ErrBorrowRecordNotFound
		}

		record = records[0]

		if err = circulation.DecideTransition(s.policy, record.Status, next); err != nil {
			return err
		}

		update := goqu.Record{colStatusID: int(next)}

		if next == circulation.BorrowReturned {
			returnDate := s.today()
			record.ReturnDate = &returnDate
			update[colReturnDate] = dateLiteral(returnDate)
		}

		if _, err = s.exec(ctx, tx, "update borrow record status",
			s.dialect.Update(tableBorrowRecords).Set(update).Where(goqu.C(colID).Eq(recordID))); err != nil {
			return err
		}

		record.Status = next

		if next.IsTerminal() {
			return s.setCopyStatus(ctx, tx, record.CopyID, circulation.CopyAvailable)
		}

		return nil
	})

	observer.finish(err, colID, recordID, colStatus, next.String())

	if err != nil {
		return circulation.BorrowRecord{}, err
	}

	return record, nil
}

// GetBorrowRecord reads one borrow record.
func (s Store) GetBorrowRecord(ctx context.Context, recordID circulation.BorrowRecordID) (circulation.BorrowRecord, error) {
	records, err := s.selectBorrowRecords(ctx, s.db, "get borrow record",
		s.dialect.From(tableBorrowRecords).
			Select(borrowRecordColumns...).
			Where(goqu.C(colID).Eq(recordID)))
	if err != nil {
		return circulation.BorrowRecord{}, err
	}

	if len(records) == 0 {
		return circulation.BorrowRecord{}, circulation.ErrBorrowRecordNotFound
	}

	return records[0], nil
}

func (s Store) selectBorrowRecords(
	ctx context.Context,
	q queryer,
	action string,
	builder sqlBuilder,
) ([]circulation.BorrowRecord, error) {
	records := make([]circulation.BorrowRecord, 0)

	err := s.query(ctx, q, action, builder, func(rows adapters.DBRows) error {
		record, err := scanBorrowRecord(rows)
		if err != nil {
			return err
		}

		records = append(records, record)

		return nil
	})

	return records, err
}

// scanBorrowRecord scans the columns listed in borrowRecordColumns, plus any extra destinations.
func scanBorrowRecord(rows adapters.DBRows, extra ...any) (circulation.BorrowRecord, error) {
	var record circulation.BorrowRecord
	var statusID int
	var dateBorrowed, returnDate sql.NullTime

	dest := append([]any{
		&record.ID,
		&record.UserID,
		&record.CopyID,
		&record.BookID,
		&statusID,
		&dateBorrowed,
		&returnDate,
	}, extra...)

	if err := rows.Scan(dest...); err != nil {
		return circulation.BorrowRecord{}, err
	}

	record.Status = circulation.BorrowStatus(statusID)
	if dateBorrowed.Valid {
		record.DateBorrowed = circulation.DateOf(dateBorrowed.Time)
	}
	record.ReturnDate = nullTimeToPtr(returnDate)

	return record, nil
}
