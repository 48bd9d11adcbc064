package pendingborrowrequests

import (
	"context"

	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/circulation"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/shared/shell"
)

// Store defines the read operation needed by the QueryHandler.
type Store interface {
	PendingBorrowRequests(ctx context.Context) ([]circulation.BorrowedBook, error)
}

// QueryHandler reads the Pending borrow records.
type QueryHandler struct {
	store Store
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(store Store) QueryHandler {
	return QueryHandler{store: store}
}

// Handle returns the Pending borrow records. Only staff may see them.
func (h QueryHandler) Handle(ctx context.Context, query Query) ([]circulation.BorrowedBook, error) {
	if err := query.Actor.RequireRole(shell.Staff()...); err != nil {
		return nil, err
	}

	return h.store.PendingBorrowRequests(ctx)
}
