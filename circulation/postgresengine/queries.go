package postgresengine

import (
	"context"

	"github.com/doug-martin/goqu/v9"

	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/circulation"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/circulation/postgresengine/internal/adapters"
)

// The read side queries the tables directly on the primary, so every read observes all
// previously committed writes.

// BooksInCirculation lists all books with their author and copy counts, ordered by title.
func (s Store) BooksInCirculation(ctx context.Context) ([]circulation.BookInCirculation, error) {
	books := make([]circulation.BookInCirculation, 0)

	err := s.query(ctx, s.db, "books in circulation",
		s.dialect.From(goqu.T(tableBooks).As("b")).
			Join(goqu.T(tableAuthors).As("a"), goqu.On(goqu.I("a."+colAuthorID).Eq(goqu.I("b."+colAuthorID)))).
			LeftJoin(goqu.T(tableCopies).As("c"), goqu.On(goqu.I("c."+colBookID).Eq(goqu.I("b."+colBookID)))).
			Select(
				goqu.I("b."+colBookID), goqu.I("b."+colTitle), goqu.I("b."+colCategory), goqu.I("b."+colGenre),
				goqu.I("b."+colYearPublished), goqu.I("a."+colName), goqu.I("a."+colCountry),
				goqu.COUNT(goqu.I("c."+colCopyID)),
				goqu.L("COUNT(c.copy_id) FILTER (WHERE c.status = ?)", string(circulation.CopyAvailable)),
			).
			GroupBy(goqu.I("b."+colBookID), goqu.I("a."+colName), goqu.I("a."+colCountry)).
			Order(goqu.I("b."+colTitle).Asc(), goqu.I("b."+colBookID).Asc()),
		func(rows adapters.DBRows) error {
			var book circulation.BookInCirculation

			if err := rows.Scan(&book.BookID, &book.Title, &book.Category, &book.Genre, &book.YearPublished,
				&book.AuthorName, &book.AuthorCountry, &book.TotalCopies, &book.AvailableCopies); err != nil {
				return err
			}

			books = append(books, book)

			return nil
		})

	return books, err
}

// BorrowedBooksByUser lists every borrow record of a user, newest first.
func (s Store) BorrowedBooksByUser(ctx context.Context, userID circulation.UserID) ([]circulation.BorrowedBook, error) {
	return s.selectBorrowedBooks(ctx, "borrowed books by user",
		s.borrowedBooksQuery().
			Where(goqu.I("br."+colUserID).Eq(userID)).
			Order(goqu.I("br."+colDateBorrowed).Desc(), goqu.I("br."+colID).Desc()))
}

// PendingBorrowRequests lists all borrow records awaiting a librarian's decision, oldest first.
func (s Store) PendingBorrowRequests(ctx context.Context) ([]circulation.BorrowedBook, error) {
	return s.selectBorrowedBooks(ctx, "pending borrow requests",
		s.borrowedBooksQuery().
			Where(goqu.I("br."+colStatusID).Eq(int(circulation.BorrowPending))).
			Order(goqu.I("br."+colID).Asc()))
}

// LibrarySummary counts books, copies, active loans and users.
func (s Store) LibrarySummary(ctx context.Context) (circulation.LibrarySummary, error) {
	var summary circulation.LibrarySummary

	countOf := func(table string, where ...goqu.Expression) *goqu.SelectDataset {
		return s.dialect.From(table).Select(goqu.COUNT(goqu.Star())).Where(where...)
	}

	err := s.query(ctx, s.db, "library summary",
		s.dialect.Select(
			countOf(tableBooks),
			countOf(tableCopies),
			countOf(tableCopies, goqu.C(colStatus).Eq(string(circulation.CopyAvailable))),
			countOf(tableBorrowRecords, goqu.C(colStatusID).Eq(int(circulation.BorrowPending))),
			countOf(tableBorrowRecords, goqu.C(colStatusID).Eq(int(circulation.BorrowAccepted))),
			countOf(tableUsers),
		),
		func(rows adapters.DBRows) error {
			return rows.Scan(&summary.TotalBooks, &summary.TotalCopies, &summary.AvailableCopies,
				&summary.PendingLoans, &summary.AcceptedLoans, &summary.TotalUsers)
		})

	return summary, err
}

func (s Store) borrowedBooksQuery() *goqu.SelectDataset {
	return s.dialect.From(goqu.T(tableBorrowRecords).As("br")).
		Join(goqu.T(tableBooks).As("b"), goqu.On(goqu.I("b."+colBookID).Eq(goqu.I("br."+colBookID)))).
		Join(goqu.T(tableAuthors).As("a"), goqu.On(goqu.I("a."+colAuthorID).Eq(goqu.I("b."+colAuthorID)))).
		Join(goqu.T(tableUsers).As("u"), goqu.On(goqu.I("u."+colID).Eq(goqu.I("br."+colUserID)))).
		Select(
			goqu.I("br."+colID), goqu.I("br."+colUserID), goqu.I("br."+colCopyID), goqu.I("br."+colBookID),
			goqu.I("br."+colStatusID), goqu.I("br."+colDateBorrowed), goqu.I("br."+colReturnDate),
			goqu.I("b."+colTitle), goqu.I("a."+colName), goqu.I("u."+colName),
		)
}

func (s Store) selectBorrowedBooks(ctx context.Context, action string, builder sqlBuilder) ([]circulation.BorrowedBook, error) {
	borrowed := make([]circulation.BorrowedBook, 0)

	err := s.query(ctx, s.db, action, builder, func(rows adapters.DBRows) error {
		var book circulation.BorrowedBook

		record, err := scanBorrowRecord(rows, &book.Title, &book.AuthorName, &book.UserName)
		if err != nil {
			return err
		}

		book.Record = record
		borrowed = append(borrowed, book)

		return nil
	})

	return borrowed, err
}
