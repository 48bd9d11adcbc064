package addbook_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/circulation"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/features/command/addbook"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/shared/shell"
)

type storeFake struct {
	conflictsLeft int
	books         []circulation.NewBook
}

func (s *storeFake) AddBook(_ context.Context, book circulation.NewBook) (circulation.BookID, error) {
	if s.conflictsLeft > 0 {
		s.conflictsLeft--
		return 0, circulation.ErrConcurrencyConflict
	}

	s.books = append(s.books, book)

	return circulation.BookID(len(s.books)), nil
}

func dune() circulation.NewBook {
	return circulation.NewBook{
		Title:         "Dune",
		Category:      "Fiction",
		Genre:         "Sci-Fi",
		YearPublished: 1965,
		AuthorName:    "Frank Herbert",
		AuthorCountry: "USA",
	}
}

func Test_CommandHandler_When_LibrarianAddsABook_Then_ItsIDIsReturned(t *testing.T) {
	// arrange
	store := &storeFake{}
	handler := addbook.NewCommandHandler(store)

	// act
	bookID, _, err := handler.Handle(context.Background(),
		addbook.BuildCommand(shell.BuildActor(1, circulation.RoleLibrarian), dune()))

	// assert
	require.NoError(t, err)
	assert.Equal(t, circulation.BookID(1), bookID)
	assert.Equal(t, []circulation.NewBook{dune()}, store.books)
}

func Test_CommandHandler_When_AuthorCreationRaces_Then_TheInsertIsRetried(t *testing.T) {
	// arrange
	store := &storeFake{conflictsLeft: 1}
	handler := addbook.NewCommandHandler(store, addbook.WithRetryOptions(shell.WithBaseDelay(time.Millisecond)))

	// act
	_, result, err := handler.Handle(context.Background(),
		addbook.BuildCommand(shell.BuildActor(1, circulation.RoleAdmin), dune()))

	// assert
	require.NoError(t, err)
	assert.Equal(t, 2, result.RetryAttempts)
	assert.Len(t, store.books, 1)
}

func Test_CommandHandler_When_MemberAddsABook_Then_ItIsNotPermitted(t *testing.T) {
	// arrange
	store := &storeFake{}
	handler := addbook.NewCommandHandler(store)

	// act
	_, _, err := handler.Handle(context.Background(),
		addbook.BuildCommand(shell.BuildActor(7, circulation.RoleMember), dune()))

	// assert
	assert.ErrorIs(t, err, shell.ErrActorNotPermitted)
	assert.Empty(t, store.books)
}
