package helper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/circulation"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/circulation/postgresengine"
)

// FakeClock is the fixed time the store under test runs at.
var FakeClock = time.Date(2025, time.March, 14, 10, 30, 0, 0, time.UTC)

// FakeClockFn returns FakeClock.
func FakeClockFn() time.Time {
	return FakeClock
}

// GivenUniqueName returns prefix followed by a random suffix.
func GivenUniqueName(prefix string) string {
	return prefix + " " + uuid.NewString()[:8]
}

// FixtureNewBook returns a valid book by an author named authorName.
func FixtureNewBook(title, authorName string) circulation.NewBook {
	return circulation.NewBook{
		Title:         title,
		Category:      "Computer Science",
		Genre:         "Non-Fiction",
		YearPublished: 2021,
		AuthorName:    authorName,
		AuthorCountry: "Norway",
	}
}

// GivenUser registers a user with the given role.
func GivenUser(t testing.TB, ctx context.Context, store postgresengine.Store, role circulation.Role) circulation.UserID {
	userID, err := store.RegisterUser(ctx, GivenUniqueName("Reader"), role)
	require.NoError(t, err, "error in arranging test data")

	return userID
}

// GivenBook adds a book by a new author; it starts with exactly one Available copy.
func GivenBook(t testing.TB, ctx context.Context, store postgresengine.Store) circulation.BookID {
	bookID, err := store.AddBook(ctx, FixtureNewBook(GivenUniqueName("Learning Domain-Driven Design"), GivenUniqueName("Author")))
	require.NoError(t, err, "error in arranging test data")

	return bookID
}

// GivenBookWithCopies adds a book and reconciles it to copies Available copies.
func GivenBookWithCopies(t testing.TB, ctx context.Context, store postgresengine.Store, copies int) circulation.BookID {
	bookID := GivenBook(t, ctx, store)

	_, err := store.ReconcileCopyCount(ctx, bookID, copies)
	require.NoError(t, err, "error in arranging test data")

	return bookID
}

// GivenBorrowRecord lets userID request bookID and returns the Pending record.
func GivenBorrowRecord(
	t testing.TB,
	ctx context.Context,
	store postgresengine.Store,
	userID circulation.UserID,
	bookID circulation.BookID,
) circulation.BorrowRecord {
	record, err := store.RequestBorrow(ctx, userID, bookID)
	require.NoError(t, err, "error in arranging test data")

	return record
}

// GivenBorrowRecordWithStatus creates a borrow record and advances it along the given statuses.
func GivenBorrowRecordWithStatus(
	t testing.TB,
	ctx context.Context,
	store postgresengine.Store,
	userID circulation.UserID,
	bookID circulation.BookID,
	statuses ...circulation.BorrowStatus,
) circulation.BorrowRecord {
	record := GivenBorrowRecord(t, ctx, store, userID, bookID)

	for _, status := range statuses {
		var err error
		record, err = store.AdvanceStatus(ctx, record.ID, status)
		require.NoError(t, err, "error in arranging test data")
	}

	return record
}

// CopyStatuses maps the copies of a book to their status.
func CopyStatuses(t testing.TB, ctx context.Context, store postgresengine.Store, bookID circulation.BookID) map[circulation.CopyID]circulation.CopyStatus {
	copies, err := store.CopiesOfBook(ctx, bookID)
	require.NoError(t, err, "error in reading test data")

	statuses := make(map[circulation.CopyID]circulation.CopyStatus, len(copies))
	for _, c := range copies {
		statuses[c.ID] = c.Status
	}

	return statuses
}

// CountAvailableCopies counts the Available copies of a book.
func CountAvailableCopies(t testing.TB, ctx context.Context, store postgresengine.Store, bookID circulation.BookID) int {
	available := 0
	for _, status := range CopyStatuses(t, ctx, store, bookID) {
		if status == circulation.CopyAvailable {
			available++
		}
	}

	return available
}
