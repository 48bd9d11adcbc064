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

// AddBook creates the author if its name is new, then the book, then exactly one Available copy.
// An existing author keeps its stored country.
//
// Errors: circulation.ValidationError, circulation.ErrConcurrencyConflict (retryable).
func (s Store) AddBook(ctx context.Context, book circulation.NewBook) (circulation.BookID, error) {
	observer, ctx := s.startOperation(ctx, operationAddBook, map[string]string{colTitle: book.Title})

	var bookID circulation.BookID

	err := circulation.ValidateNewBook(book, s.clock())
	if err == nil {
		err = s.inTransaction(ctx, func(tx adapters.DBTx) error {
			authorID, err := s.insertReturningID(ctx, tx, "upsert author",
				s.dialect.Insert(tableAuthors).
					Rows(goqu.Record{colName: book.AuthorName, colCountry: book.AuthorCountry}).
					OnConflict(goqu.DoUpdate(colName, goqu.Record{colName: goqu.L("EXCLUDED." + colName)})).
					Returning(colAuthorID))
			if err != nil {
				return err
			}

			bookID, err = s.insertReturningID(ctx, tx, "insert book",
				s.dialect.Insert(tableBooks).
					Rows(goqu.Record{
						colTitle:         book.Title,
						colCategory:      book.Category,
						colGenre:         book.Genre,
						colYearPublished: book.YearPublished,
						colAuthorID:      authorID,
					}).
					Returning(colBookID))
			if err != nil {
				return err
			}

			_, err = s.insertCopies(ctx, tx, bookID, 1)

			return err
		})
	}

	observer.finish(err, colBookID, bookID)

	if err != nil {
		return 0, err
	}

	return bookID, nil
}

// DeleteBook removes a book with all its copies and borrow records, and its author if no other
// book refers to it. Every borrow record of the book is copied to the loan history first,
// so deleting a book never destroys loan history.
//
// Errors: circulation.ErrBookNotFound, circulation.ErrConcurrencyConflict (retryable).
func (s Store) DeleteBook(ctx context.Context, bookID circulation.BookID) (circulation.DeletedBook, error) {
	observer, ctx := s.startOperation(ctx, operationDeleteBook, map[string]string{
		colBookID: strconv.FormatInt(bookID, 10),
	})

	deleted := circulation.DeletedBook{BookID: bookID}

	err := s.inTransaction(ctx, func(tx adapters.DBTx) error {
		authorID, found, err := s.authorOfBook(ctx, tx, bookID)
		if err != nil {
			return err
		}

		if !found {
			return circulation.ErrBookNotFound
		}

		deleted.AuthorID = authorID

		// author before book, the same order AddBook takes them in
		if _, err = s.exists(ctx, tx, "lock author",
			s.dialect.From(tableAuthors).
				Select(colAuthorID).
				Where(goqu.C(colAuthorID).Eq(authorID)).
				ForUpdate(exp.Wait)); err != nil {
			return err
		}

		if _, err = s.lockBook(ctx, tx, bookID); err != nil {
			return err
		}

		deleted.ArchivedLoans, err = s.archiveLoans(ctx, tx, goqu.I("br."+colBookID).Eq(bookID))
		if err != nil {
			return err
		}

		if _, err = s.exec(ctx, tx, "delete book",
			s.dialect.Delete(tableBooks).Where(goqu.C(colBookID).Eq(bookID))); err != nil {
			return err
		}

		removedAuthors, err := s.exec(ctx, tx, "delete unused author",
			s.dialect.Delete(tableAuthors).
				Where(
					goqu.C(colAuthorID).Eq(authorID),
					goqu.L("NOT EXISTS (SELECT 1 FROM "+tableBooks+" WHERE "+tableBooks+"."+colAuthorID+" = ?)", authorID),
				))
		if err != nil {
			return err
		}

		deleted.AuthorRemoved = removedAuthors > 0

		return nil
	})

	observer.finish(err, colBookID, bookID, "archived_loans", len(deleted.ArchivedLoans), "author_removed", deleted.AuthorRemoved)

	if err != nil {
		return circulation.DeletedBook{}, err
	}

	return deleted, nil
}

// LoanHistoryOfBook lists the archived loans of a book: those of removed copies and, once the book
// is deleted, all of them.
func (s Store) LoanHistoryOfBook(ctx context.Context, bookID circulation.BookID) ([]circulation.ArchivedLoan, error) {
	loans := make([]circulation.ArchivedLoan, 0)

	err := s.query(ctx, s.db, "loan history of book",
		s.dialect.From(tableLoanHistory).
			Select(colBorrowRecordID, colUserID, colBookID, colCopyID, colTitle, colAuthorName,
				colStatusID, colDateBorrowed, colReturnDate, colArchivedAt).
			Where(goqu.C(colBookID).Eq(bookID)).
			Order(goqu.C(colBorrowRecordID).Asc()),
		func(rows adapters.DBRows) error {
			var loan circulation.ArchivedLoan
			var statusID int
			var dateBorrowed, returnDate sql.NullTime

			if err := rows.Scan(&loan.BorrowRecordID, &loan.UserID, &loan.BookID, &loan.CopyID, &loan.Title,
				&loan.AuthorName, &statusID, &dateBorrowed, &returnDate, &loan.ArchivedAt); err != nil {
				return err
			}

			loan.Status = circulation.BorrowStatus(statusID)
			if dateBorrowed.Valid {
				loan.DateBorrowed = circulation.DateOf(dateBorrowed.Time)
			}
			loan.ReturnDate = nullTimeToPtr(returnDate)
			loan.ArchivedAt = loan.ArchivedAt.UTC()
			loans = append(loans, loan)

			return nil
		})

	return loans, err
}

func (s Store) authorOfBook(ctx context.Context, tx adapters.DBTx, bookID circulation.BookID) (circulation.AuthorID, bool, error) {
	var authorID circulation.AuthorID
	found := false

	err := s.query(ctx, tx, "read author of book",
		s.dialect.From(tableBooks).Select(colAuthorID).Where(goqu.C(colBookID).Eq(bookID)),
		func(rows adapters.DBRows) error {
			found = true
			return rows.Scan(&authorID)
		})

	return authorID, found, err
}

// archiveLoans copies the borrow records matching filter into the loan history and returns the copies.
// The filter refers to borrow_records as br. The records stay locked until the transaction ends.
func (s Store) archiveLoans(ctx context.Context, tx adapters.DBTx, filter ...exp.Expression) ([]circulation.ArchivedLoan, error) {
	archivedAt := s.clock().UTC()
	loans := make([]circulation.ArchivedLoan, 0)

	err := s.query(ctx, tx, "read loans to archive",
		s.dialect.From(goqu.T(tableBorrowRecords).As("br")).
			Join(goqu.T(tableBooks).As("b"), goqu.On(goqu.I("b."+colBookID).Eq(goqu.I("br."+colBookID)))).
			Join(goqu.T(tableAuthors).As("a"), goqu.On(goqu.I("a."+colAuthorID).Eq(goqu.I("b."+colAuthorID)))).
			Select(
				goqu.I("br."+colID), goqu.I("br."+colUserID), goqu.I("br."+colCopyID), goqu.I("br."+colBookID),
				goqu.I("br."+colStatusID), goqu.I("br."+colDateBorrowed), goqu.I("br."+colReturnDate),
				goqu.I("b."+colTitle), goqu.I("a."+colName),
			).
			Where(filter...).
			Order(goqu.I("br."+colID).Asc()).
			ForUpdate(exp.Wait, goqu.T("br")),
		func(rows adapters.DBRows) error {
			var loan circulation.ArchivedLoan

			record, err := scanBorrowRecord(rows, &loan.Title, &loan.AuthorName)
			if err != nil {
				return err
			}

			loan.BorrowRecordID = record.ID
			loan.UserID = record.UserID
			loan.BookID = record.BookID
			loan.CopyID = record.CopyID
			loan.Status = record.Status
			loan.DateBorrowed = record.DateBorrowed
			loan.ReturnDate = record.ReturnDate
			loan.ArchivedAt = archivedAt
			loans = append(loans, loan)

			return nil
		})
	if err != nil || len(loans) == 0 {
		return loans, err
	}

	rows := make([]any, 0, len(loans))
	for _, loan := range loans {
		rows = append(rows, goqu.Record{
			colBorrowRecordID: loan.BorrowRecordID,
			colUserID:         loan.UserID,
			colBookID:         loan.BookID,
			colCopyID:         loan.CopyID,
			colTitle:          loan.Title,
			colAuthorName:     loan.AuthorName,
			colStatusID:       int(loan.Status),
			colDateBorrowed:   dateLiteral(loan.DateBorrowed),
			colReturnDate:     nullableDateLiteral(loan.ReturnDate),
			colArchivedAt:     timestampLiteral(loan.ArchivedAt),
		})
	}

	if _, err = s.exec(ctx, tx, "archive loans", s.dialect.Insert(tableLoanHistory).Rows(rows...)); err != nil {
		return nil, err
	}

	return loans, nil
}
