package borrowedbooksbyuser

import (
	"context"

	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/circulation"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/shared/shell"
)

// Store defines the read operation needed by the QueryHandler.
type Store interface {
	BorrowedBooksByUser(ctx context.Context, userID circulation.UserID) ([]circulation.BorrowedBook, error)
}

// QueryHandler reads one user's loans.
type QueryHandler struct {
	store Store
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(store Store) QueryHandler {
	return QueryHandler{store: store}
}

// Handle returns the loans of the requested user.
func (h QueryHandler) Handle(ctx context.Context, query Query) (BorrowedBooks, error) {
	if err := query.Actor.RequireSelfOrRole(query.UserID, shell.Staff()...); err != nil {
		return BorrowedBooks{}, err
	}

	loans, err := h.store.BorrowedBooksByUser(ctx, query.UserID)
	if err != nil {
		return BorrowedBooks{}, err
	}

	return Project(query.UserID, loans), nil
}
