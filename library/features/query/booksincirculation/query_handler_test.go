package booksincirculation_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/circulation"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/features/query/booksincirculation"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/shared/shell"
)

type storeFake struct {
	books []circulation.BookInCirculation
	err   error
}

func (s storeFake) BooksInCirculation(context.Context) ([]circulation.BookInCirculation, error) {
	return s.books, s.err
}

func Test_QueryHandler_When_MemberListsTheCatalog_Then_AllBooksAreReturned(t *testing.T) {
	// arrange
	books := []circulation.BookInCirculation{
		{BookID: 2, Title: "Dune", AuthorName: "Frank Herbert", TotalCopies: 2, AvailableCopies: 1},
		{BookID: 1, Title: "Emma", AuthorName: "Jane Austen", TotalCopies: 1, AvailableCopies: 1},
	}
	handler := booksincirculation.NewQueryHandler(storeFake{books: books})

	// act
	result, err := handler.Handle(context.Background(),
		booksincirculation.BuildQuery(shell.BuildActor(7, circulation.RoleMember)))

	// assert
	require.NoError(t, err)
	assert.Equal(t, books, result.Books)
	assert.Equal(t, 2, result.Count)
}

func Test_QueryHandler_When_ActorIsMissing_Then_ItFails(t *testing.T) {
	// arrange
	handler := booksincirculation.NewQueryHandler(storeFake{})

	// act
	_, err := handler.Handle(context.Background(), booksincirculation.BuildQuery(shell.Actor{}))

	// assert
	assert.ErrorIs(t, err, shell.ErrInvalidActor)
}

func Test_QueryHandler_When_StoreFails_Then_TheErrorIsReturned(t *testing.T) {
	// arrange
	failure := errors.Join(circulation.ErrQueryingFailed, errors.New("connection refused"))
	handler := booksincirculation.NewQueryHandler(storeFake{err: failure})

	// act
	_, err := handler.Handle(context.Background(),
		booksincirculation.BuildQuery(shell.BuildActor(7, circulation.RoleMember)))

	// assert
	assert.ErrorIs(t, err, circulation.ErrQueryingFailed)
}
