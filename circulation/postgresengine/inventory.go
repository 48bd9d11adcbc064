package postgresengine

import (
	"context"
	"strconv"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/circulation"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/circulation/postgresengine/internal/adapters"
)

// ReconcileCopyCount adds or removes copies of a book until it has exactly target copies.
// Only Available copies are removed. Their past borrow records are moved to the loan history first.
//
// Errors: circulation.ErrBookNotFound, circulation.ErrCannotReduceCopies, a circulation.ValidationError
// for a negative target, circulation.ErrConcurrencyConflict (retryable).
func (s Store) ReconcileCopyCount(
	ctx context.Context,
	bookID circulation.BookID,
	target int,
) (circulation.ReconcileResult, error) {
	observer, ctx := s.startOperation(ctx, operationReconcileCopies, map[string]string{
		colBookID: strconv.FormatInt(bookID, 10),
		"target":  strconv.Itoa(target),
	})

	var result circulation.ReconcileResult

	err := s.inTransaction(ctx, func(tx adapters.DBTx) error {
		exists, err := s.lockBook(ctx, tx, bookID)
		if err != nil {
			return err
		}

		if !exists {
			return circulation.ErrBookNotFound
		}

		result, err = s.reconcileInTx(ctx, tx, bookID, target)

		return err
	})

	observer.finish(err, colBookID, bookID, "copies_before", result.CopiesBefore, "copies_after", result.CopiesAfter)

	if err != nil {
		return circulation.ReconcileResult{}, err
	}

	s.recordCopiesChanged(ctx, result, operationReconcileCopies)

	return result, nil
}

// UpdateBook changes the catalog fields of a book and reconciles its copies to NumberOfCopies,
// both in one transaction.
//
// Errors: circulation.ErrBookNotFound, circulation.ErrCannotReduceCopies, circulation.ValidationError,
// circulation.ErrConcurrencyConflict (retryable).
func (s Store) UpdateBook(ctx context.Context, update circulation.BookUpdate) (circulation.ReconcileResult, error) {
	observer, ctx := s.startOperation(ctx, operationUpdateBook, map[string]string{
		colBookID: strconv.FormatInt(update.BookID, 10),
	})

	var result circulation.ReconcileResult

	err := circulation.ValidateBookUpdate(update, s.clock())
	if err == nil {
		err = s.inTransaction(ctx, func(tx adapters.DBTx) error {
			exists, err := s.lockBook(ctx, tx, update.BookID)
			if err != nil {
				return err
			}

			if !exists {
				return circulation.ErrBookNotFound
			}

			if _, err = s.exec(ctx, tx, "update book",
				s.dialect.Update(tableBooks).
					Set(goqu.Record{
						colTitle:         update.Title,
						colCategory:      update.Category,
						colGenre:         update.Genre,
						colYearPublished: update.YearPublished,
					}).
					Where(goqu.C(colBookID).Eq(update.BookID))); err != nil {
				return err
			}

			result, err = s.reconcileInTx(ctx, tx, update.BookID, update.NumberOfCopies)

			return err
		})
	}

	observer.finish(err, colBookID, update.BookID, "copies_after", result.CopiesAfter)

	if err != nil {
		return circulation.ReconcileResult{}, err
	}

	s.recordCopiesChanged(ctx, result, operationUpdateBook)

	return result, nil
}

// CopiesOfBook lists all copies of a book ordered by id.
func (s Store) CopiesOfBook(ctx context.Context, bookID circulation.BookID) ([]circulation.Copy, error) {
	return s.selectCopies(ctx, s.db, "copies of book",
		s.dialect.From(tableCopies).
			Select(colCopyID, colBookID, colDateEncoded, colStatus).
			Where(goqu.C(colBookID).Eq(bookID)).
			Order(goqu.C(colCopyID).Asc()))
}

// reconcileInTx expects the caller to hold the book row lock.
func (s Store) reconcileInTx(
	ctx context.Context,
	tx adapters.DBTx,
	bookID circulation.BookID,
	target int,
) (circulation.ReconcileResult, error) {
	copies, err := s.selectCopies(ctx, tx, "lock copies of book",
		s.dialect.From(tableCopies).
			Select(colCopyID, colBookID, colDateEncoded, colStatus).
			Where(goqu.C(colBookID).Eq(bookID)).
			Order(goqu.C(colCopyID).Asc()).
			ForUpdate(exp.Wait))
	if err != nil {
		return circulation.ReconcileResult{}, err
	}

	plan, err := circulation.PlanReconciliation(copies, target)
	if err != nil {
		return circulation.ReconcileResult{}, err
	}

	result := circulation.ReconcileResult{
		BookID:       bookID,
		CopiesBefore: len(copies),
		CopiesAfter:  len(copies),
	}

	if plan.IsNoop() {
		return result, nil
	}

	if len(plan.CopiesToRemove) > 0 {
		// the cascade on copies would drop these records otherwise
		result.ArchivedLoans, err = s.archiveLoans(ctx, tx,
			goqu.I("br."+colBookID).Eq(bookID),
			goqu.I("br."+colCopyID).In(plan.CopiesToRemove))
		if err != nil {
			return circulation.ReconcileResult{}, err
		}

		removed, err := s.exec(ctx, tx, "remove available copies",
			s.dialect.Delete(tableCopies).
				Where(
					goqu.C(colCopyID).In(plan.CopiesToRemove),
					goqu.C(colStatus).Eq(string(circulation.CopyAvailable)),
				))
		if err != nil {
			return circulation.ReconcileResult{}, err
		}

		if removed != int64(len(plan.CopiesToRemove)) {
			// the rows are locked, so this only happens if a lock was bypassed
			return circulation.ReconcileResult{}, circulation.ErrConcurrencyConflict
		}

		result.RemovedCopies = plan.CopiesToRemove
		result.CopiesAfter -= len(plan.CopiesToRemove)
	}

	if plan.CopiesToAdd > 0 {
		added, err := s.insertCopies(ctx, tx, bookID, plan.CopiesToAdd)
		if err != nil {
			return circulation.ReconcileResult{}, err
		}

		result.AddedCopies = added
		result.CopiesAfter += len(added)
	}

	return result, nil
}

// recordCopiesChanged runs after commit, so a rolled back reconciliation reports nothing.
func (s Store) recordCopiesChanged(ctx context.Context, result circulation.ReconcileResult, operation string) {
	if result.Unchanged() {
		return
	}

	s.recordValue(ctx, metricCopiesChanged, float64(result.CopiesAfter-result.CopiesBefore), map[string]string{
		labelOperation: operation,
	})
}

// insertCopies adds count Available copies encoded today and returns their ids.
func (s Store) insertCopies(ctx context.Context, tx adapters.DBTx, bookID circulation.BookID, count int) ([]circulation.CopyID, error) {
	today := s.today()

	rows := make([]any, 0, count)
	for i := 0; i < count; i++ {
		rows = append(rows, goqu.Record{
			colBookID:      bookID,
			colDateEncoded: dateLiteral(today),
			colStatus:      string(circulation.CopyAvailable),
		})
	}

	ids := make([]circulation.CopyID, 0, count)

	err := s.query(ctx, tx, "insert copies",
		s.dialect.Insert(tableCopies).Rows(rows...).Returning(colCopyID),
		func(dbRows adapters.DBRows) error {
			var id circulation.CopyID
			if err := dbRows.Scan(&id); err != nil {
				return err
			}

			ids = append(ids, id)

			return nil
		})

	return ids, err
}
