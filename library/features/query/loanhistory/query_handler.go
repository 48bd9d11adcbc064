package loanhistory

import (
	"context"

	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/circulation"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/shared/shell"
)

// Store defines the read operation needed by the QueryHandler.
type Store interface {
	LoanHistoryOfBook(ctx context.Context, bookID circulation.BookID) ([]circulation.ArchivedLoan, error)
}

// QueryHandler reads archived loans.
type QueryHandler struct {
	store Store
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(store Store) QueryHandler {
	return QueryHandler{store: store}
}

// Handle returns the archived loans of the book. Only staff may see them.
func (h QueryHandler) Handle(ctx context.Context, query Query) ([]circulation.ArchivedLoan, error) {
	if err := query.Actor.RequireRole(shell.Staff()...); err != nil {
		return nil, err
	}

	return h.store.LoanHistoryOfBook(ctx, query.BookID)
}
