package librarysummary

import (
	"context"

	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/circulation"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/shared/shell"
)

// Store defines the read operation needed by the QueryHandler.
type Store interface {
	LibrarySummary(ctx context.Context) (circulation.LibrarySummary, error)
}

// QueryHandler reads the library summary.
type QueryHandler struct {
	store Store
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(store Store) QueryHandler {
	return QueryHandler{store: store}
}

// Handle returns the counts. Only staff may see them.
func (h QueryHandler) Handle(ctx context.Context, query Query) (circulation.LibrarySummary, error) {
	if err := query.Actor.RequireRole(shell.Staff()...); err != nil {
		return circulation.LibrarySummary{}, err
	}

	return h.store.LibrarySummary(ctx)
}
