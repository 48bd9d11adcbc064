package postgresengine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/circulation"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/testutil/postgresengine/helper"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/testutil/postgresengine/helper/postgreswrapper"
)

func Test_AddBook_When_AuthorIsNew_Then_AuthorBookAndOneCopyAreCreated(t *testing.T) {
	// setup
	ctx, store, wrapper := setupStore(t)

	// arrange
	book := helper.FixtureNewBook("Learning Domain-Driven Design", "Vlad Khononov")

	// act
	bookID, err := store.AddBook(ctx, book)

	// assert
	require.NoError(t, err)
	assert.Equal(t, 1, postgreswrapper.CountRows(t, wrapper, `SELECT count(*) FROM authors`))

	copies, err := store.CopiesOfBook(ctx, bookID)
	require.NoError(t, err)
	require.Len(t, copies, 1)
	assert.Equal(t, circulation.CopyAvailable, copies[0].Status)
	assert.Equal(t, circulation.DateOf(helper.FakeClock), copies[0].DateEncoded)

	books, err := store.BooksInCirculation(ctx)
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, circulation.BookInCirculation{
		BookID:          bookID,
		Title:           book.Title,
		Category:        book.Category,
		Genre:           book.Genre,
		YearPublished:   book.YearPublished,
		AuthorName:      book.AuthorName,
		AuthorCountry:   book.AuthorCountry,
		TotalCopies:     1,
		AvailableCopies: 1,
	}, books[0])
}

func Test_AddBook_When_AuthorExists_Then_TheAuthorIsReused(t *testing.T) {
	// setup
	ctx, store, wrapper := setupStore(t)

	// arrange
	_, err := store.AddBook(ctx, helper.FixtureNewBook("Learning Domain-Driven Design", "Vlad Khononov"))
	require.NoError(t, err)

	second := helper.FixtureNewBook("Balancing Coupling", "Vlad Khononov")
	second.AuthorCountry = "Israel"

	// act
	_, err = store.AddBook(ctx, second)

	// assert
	require.NoError(t, err)
	assert.Equal(t, 1, postgreswrapper.CountRows(t, wrapper, `SELECT count(*) FROM authors`))
	assert.Equal(t, 1, postgreswrapper.CountRows(t, wrapper, `SELECT count(*) FROM authors WHERE country = 'Norway'`),
		"an existing author keeps its country")
	assert.Equal(t, 2, postgreswrapper.CountRows(t, wrapper, `SELECT count(*) FROM books`))
}

func Test_AddBook_When_InputIsInvalid_Then_NothingIsCreated(t *testing.T) {
	// setup
	ctx, store, wrapper := setupStore(t)

	// arrange
	book := helper.FixtureNewBook("Learning Domain-Driven Design", "Vlad Khononov")
	book.YearPublished = helper.FakeClock.Year() + 1

	// act
	_, err := store.AddBook(ctx, book)

	// assert
	var validationErr circulation.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "year_published", validationErr.Field)
	assert.Equal(t, 0, postgreswrapper.CountRows(t, wrapper, `SELECT count(*) FROM books`))
	assert.Equal(t, 0, postgreswrapper.CountRows(t, wrapper, `SELECT count(*) FROM authors`))
}

func Test_DeleteBook_When_BookHasLoans_Then_LoansAreArchivedBeforeTheCascade(t *testing.T) {
	// setup
	ctx, store, wrapper := setupStore(t)

	// arrange
	bookID := helper.GivenBookWithCopies(t, ctx, store, 2)
	returned := helper.GivenBorrowRecordWithStatus(t, ctx, store,
		helper.GivenUser(t, ctx, store, circulation.RoleMember), bookID, circulation.BorrowAccepted, circulation.BorrowReturned)
	pending := helper.GivenBorrowRecord(t, ctx, store, helper.GivenUser(t, ctx, store, circulation.RoleMember), bookID)

	// act
	deleted, err := store.DeleteBook(ctx, bookID)

	// assert
	require.NoError(t, err)
	assert.Equal(t, bookID, deleted.BookID)
	assert.True(t, deleted.AuthorRemoved)
	require.Len(t, deleted.ArchivedLoans, 2)
	assert.Equal(t, returned.ID, deleted.ArchivedLoans[0].BorrowRecordID)
	assert.Equal(t, circulation.BorrowReturned, deleted.ArchivedLoans[0].Status)
	assert.NotNil(t, deleted.ArchivedLoans[0].ReturnDate)
	assert.Equal(t, pending.ID, deleted.ArchivedLoans[1].BorrowRecordID)
	assert.Equal(t, circulation.BorrowPending, deleted.ArchivedLoans[1].Status)
	assert.Nil(t, deleted.ArchivedLoans[1].ReturnDate)

	assert.Equal(t, 0, postgreswrapper.CountRows(t, wrapper, `SELECT count(*) FROM books`))
	assert.Equal(t, 0, postgreswrapper.CountRows(t, wrapper, `SELECT count(*) FROM copies`))
	assert.Equal(t, 0, postgreswrapper.CountRows(t, wrapper, `SELECT count(*) FROM borrow_records`))
	assert.Equal(t, 0, postgreswrapper.CountRows(t, wrapper, `SELECT count(*) FROM authors`))

	history, err := store.LoanHistoryOfBook(ctx, bookID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	for i, loan := range history {
		archived := deleted.ArchivedLoans[i]
		assert.Equal(t, archived.BorrowRecordID, loan.BorrowRecordID)
		assert.Equal(t, archived.UserID, loan.UserID)
		assert.Equal(t, archived.CopyID, loan.CopyID)
		assert.Equal(t, archived.Title, loan.Title)
		assert.Equal(t, archived.AuthorName, loan.AuthorName)
		assert.Equal(t, archived.Status, loan.Status)
		assert.Equal(t, archived.DateBorrowed, loan.DateBorrowed)
		assert.Equal(t, archived.ReturnDate, loan.ReturnDate)
		assert.True(t, helper.FakeClock.Equal(loan.ArchivedAt))
	}
}

func Test_DeleteBook_When_AuthorHasOtherBooks_Then_TheAuthorIsKept(t *testing.T) {
	// setup
	ctx, store, wrapper := setupStore(t)

	// arrange
	bookID, err := store.AddBook(ctx, helper.FixtureNewBook("Learning Domain-Driven Design", "Vlad Khononov"))
	require.NoError(t, err)
	_, err = store.AddBook(ctx, helper.FixtureNewBook("Balancing Coupling", "Vlad Khononov"))
	require.NoError(t, err)

	// act
	deleted, err := store.DeleteBook(ctx, bookID)

	// assert
	require.NoError(t, err)
	assert.False(t, deleted.AuthorRemoved)
	assert.Empty(t, deleted.ArchivedLoans)
	assert.Equal(t, 1, postgreswrapper.CountRows(t, wrapper, `SELECT count(*) FROM authors`))
	assert.Equal(t, 1, postgreswrapper.CountRows(t, wrapper, `SELECT count(*) FROM books`))
}

func Test_DeleteBook_When_BookDoesNotExist_Then_ItFailsWithBookNotFound(t *testing.T) {
	// setup
	ctx, store, _ := setupStore(t)

	// act
	_, err := store.DeleteBook(ctx, 4711)

	// assert
	assert.ErrorIs(t, err, circulation.ErrBookNotFound)
}

func Test_RegisterUser_When_InputIsValid_Then_TheUserCanBeRead(t *testing.T) {
	// setup
	ctx, store, _ := setupStore(t)

	// act
	userID, err := store.RegisterUser(ctx, "Ada Lovelace", circulation.RoleLibrarian)

	// assert
	require.NoError(t, err)

	user, err := store.GetUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, circulation.User{ID: userID, Name: "Ada Lovelace", Role: circulation.RoleLibrarian}, user)
}

func Test_RegisterUser_When_InputIsInvalid_Then_ItFailsWithValidation(t *testing.T) {
	testCases := []struct {
		description string
		name        string
		role        circulation.Role
	}{
		{description: "empty name", name: "", role: circulation.RoleMember},
		{description: "unknown role", name: "Ada Lovelace", role: circulation.Role("superuser")},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			// setup
			ctx, store, _ := setupStore(t)

			// act
			_, err := store.RegisterUser(ctx, tc.name, tc.role)

			// assert
			assert.ErrorIs(t, err, circulation.ErrValidation)
		})
	}
}

func Test_ChangeUserRole_When_TheUserIsNoAdmin_Then_TheRoleChanges(t *testing.T) {
	// setup
	ctx, store, _ := setupStore(t)

	// arrange
	userID := helper.GivenUser(t, ctx, store, circulation.RoleMember)

	// act
	changed, err := store.ChangeUserRole(ctx, userID, circulation.RoleLibrarian)

	// assert
	require.NoError(t, err)
	assert.True(t, changed)

	user, err := store.GetUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, circulation.RoleLibrarian, user.Role)

	// act (same role again)
	changed, err = store.ChangeUserRole(ctx, userID, circulation.RoleLibrarian)

	// assert
	require.NoError(t, err)
	assert.False(t, changed)
}

func Test_ChangeUserRole_When_TheUserIsAnAdmin_Then_ItFailsWithAdminRoleImmutable(t *testing.T) {
	// setup
	ctx, store, _ := setupStore(t)

	// arrange
	userID := helper.GivenUser(t, ctx, store, circulation.RoleAdmin)

	// act
	_, err := store.ChangeUserRole(ctx, userID, circulation.RoleMember)

	// assert
	assert.ErrorIs(t, err, circulation.ErrAdminRoleImmutable)

	user, err := store.GetUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, circulation.RoleAdmin, user.Role)
}

func Test_ChangeUserRole_When_UserDoesNotExist_Then_ItFailsWithUserNotFound(t *testing.T) {
	// setup
	ctx, store, _ := setupStore(t)

	// act
	_, err := store.ChangeUserRole(ctx, 4711, circulation.RoleLibrarian)

	// assert
	assert.ErrorIs(t, err, circulation.ErrUserNotFound)
}

func Test_DeleteUser_When_TheUserHasOnlyFinishedLoans_Then_TheyAreArchivedAndTheUserIsRemoved(t *testing.T) {
	// setup
	ctx, store, wrapper := setupStore(t)

	// arrange
	userID := helper.GivenUser(t, ctx, store, circulation.RoleMember)
	bookID := helper.GivenBook(t, ctx, store)
	returned := helper.GivenBorrowRecordWithStatus(t, ctx, store, userID, bookID,
		circulation.BorrowAccepted, circulation.BorrowReturned)

	// act
	deleted, err := store.DeleteUser(ctx, userID)

	// assert
	require.NoError(t, err)
	assert.Equal(t, userID, deleted.UserID)
	require.Len(t, deleted.ArchivedLoans, 1)
	assert.Equal(t, returned.ID, deleted.ArchivedLoans[0].BorrowRecordID)

	_, err = store.GetUser(ctx, userID)
	assert.ErrorIs(t, err, circulation.ErrUserNotFound)
	assert.Equal(t, 0, postgreswrapper.CountRows(t, wrapper, `SELECT count(*) FROM borrow_records`))
	assert.Equal(t, 1, helper.CountAvailableCopies(t, ctx, store, bookID))

	history, err := store.LoanHistoryOfBook(ctx, bookID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, userID, history[0].UserID)
	assert.Equal(t, circulation.BorrowReturned, history[0].Status)
}

func Test_DeleteUser_When_TheUserHoldsAnActiveLoan_Then_ItFailsAndTheCopyStaysBorrowed(t *testing.T) {
	// setup
	ctx, store, _ := setupStore(t)

	// arrange
	userID := helper.GivenUser(t, ctx, store, circulation.RoleMember)
	bookID := helper.GivenBook(t, ctx, store)
	record := helper.GivenBorrowRecordWithStatus(t, ctx, store, userID, bookID, circulation.BorrowAccepted)

	// act
	_, err := store.DeleteUser(ctx, userID)

	// assert
	assert.ErrorIs(t, err, circulation.ErrUserHasActiveLoans)

	_, err = store.GetUser(ctx, userID)
	require.NoError(t, err)

	stored, err := store.GetBorrowRecord(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, circulation.BorrowAccepted, stored.Status)
	assert.Equal(t, circulation.CopyBorrowed, helper.CopyStatuses(t, ctx, store, bookID)[record.CopyID])

	history, err := store.LoanHistoryOfBook(ctx, bookID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func Test_DeleteUser_When_TheUserIsAnAdmin_Then_ItFailsWithAdminRoleImmutable(t *testing.T) {
	// setup
	ctx, store, _ := setupStore(t)

	// arrange
	userID := helper.GivenUser(t, ctx, store, circulation.RoleAdmin)

	// act
	_, err := store.DeleteUser(ctx, userID)

	// assert
	assert.ErrorIs(t, err, circulation.ErrAdminRoleImmutable)

	_, err = store.GetUser(ctx, userID)
	assert.NoError(t, err)
}

func Test_DeleteUser_When_UserDoesNotExist_Then_ItFailsWithUserNotFound(t *testing.T) {
	// setup
	ctx, store, _ := setupStore(t)

	// act
	_, err := store.DeleteUser(ctx, 4711)

	// assert
	assert.ErrorIs(t, err, circulation.ErrUserNotFound)
}

func Test_ReadQueries_When_LoansExist_Then_TheyReflectEveryCommittedWrite(t *testing.T) {
	// setup
	ctx, store, _ := setupStore(t)

	// arrange
	reader := helper.GivenUser(t, ctx, store, circulation.RoleMember)
	otherReader := helper.GivenUser(t, ctx, store, circulation.RoleMember)
	firstBook := helper.GivenBookWithCopies(t, ctx, store, 2)
	secondBook := helper.GivenBook(t, ctx, store)
	accepted := helper.GivenBorrowRecordWithStatus(t, ctx, store, reader, firstBook, circulation.BorrowAccepted)
	pending := helper.GivenBorrowRecord(t, ctx, store, reader, secondBook)
	otherPending := helper.GivenBorrowRecord(t, ctx, store, otherReader, firstBook)

	// act
	borrowed, err := store.BorrowedBooksByUser(ctx, reader)

	// assert
	require.NoError(t, err)
	require.Len(t, borrowed, 2)
	assert.Equal(t, pending, borrowed[0].Record, "newest first")
	assert.Equal(t, accepted, borrowed[1].Record)
	assert.NotEmpty(t, borrowed[0].Title)
	assert.NotEmpty(t, borrowed[0].AuthorName)
	assert.NotEmpty(t, borrowed[0].UserName)

	// act
	pendingRequests, err := store.PendingBorrowRequests(ctx)

	// assert
	require.NoError(t, err)
	require.Len(t, pendingRequests, 2)
	assert.Equal(t, pending.ID, pendingRequests[0].Record.ID, "oldest first")
	assert.Equal(t, otherPending.ID, pendingRequests[1].Record.ID)

	// act
	summary, err := store.LibrarySummary(ctx)

	// assert
	require.NoError(t, err)
	assert.Equal(t, circulation.LibrarySummary{
		TotalBooks:      2,
		TotalCopies:     3,
		AvailableCopies: 0,
		PendingLoans:    2,
		AcceptedLoans:   1,
		TotalUsers:      2,
	}, summary)

	// act
	books, err := store.BooksInCirculation(ctx)

	// assert
	require.NoError(t, err)
	assert.Len(t, books, 2)
	for _, book := range books {
		assert.Zero(t, book.AvailableCopies)
	}
}
