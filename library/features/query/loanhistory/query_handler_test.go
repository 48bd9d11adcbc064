package loanhistory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/circulation"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/features/query/loanhistory"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/shared/shell"
)

type storeFake struct {
	history map[circulation.BookID][]circulation.ArchivedLoan
}

func (s storeFake) LoanHistoryOfBook(_ context.Context, bookID circulation.BookID) ([]circulation.ArchivedLoan, error) {
	return s.history[bookID], nil
}

func Test_QueryHandler_When_LibrarianReadsTheHistory_Then_ArchivedLoansAreReturned(t *testing.T) {
	// arrange
	archived := []circulation.ArchivedLoan{{BorrowRecordID: 4, BookID: 5, Title: "Dune", Status: circulation.BorrowReturned}}
	handler := loanhistory.NewQueryHandler(storeFake{history: map[circulation.BookID][]circulation.ArchivedLoan{5: archived}})

	// act
	result, err := handler.Handle(context.Background(),
		loanhistory.BuildQuery(shell.BuildActor(2, circulation.RoleLibrarian), 5))

	// assert
	require.NoError(t, err)
	assert.Equal(t, archived, result)
}

func Test_QueryHandler_When_MemberReadsTheHistory_Then_ItIsNotPermitted(t *testing.T) {
	// arrange
	handler := loanhistory.NewQueryHandler(storeFake{})

	// act
	_, err := handler.Handle(context.Background(),
		loanhistory.BuildQuery(shell.BuildActor(7, circulation.RoleMember), 5))

	// assert
	assert.ErrorIs(t, err, shell.ErrActorNotPermitted)
}
