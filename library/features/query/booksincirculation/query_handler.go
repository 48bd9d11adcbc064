package booksincirculation

import (
	"context"

	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/circulation"
)

// Store defines the read operation needed by the QueryHandler.
type Store interface {
	BooksInCirculation(ctx context.Context) ([]circulation.BookInCirculation, error)
}

// QueryHandler reads the catalog. External wrappers handle all observability concerns.
type QueryHandler struct {
	store Store
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(store Store) QueryHandler {
	return QueryHandler{store: store}
}

// Handle returns the catalog as committed when the query started.
func (h QueryHandler) Handle(ctx context.Context, query Query) (BooksInCirculation, error) {
	if err := query.Actor.Validate(); err != nil {
		return BooksInCirculation{}, err
	}

	books, err := h.store.BooksInCirculation(ctx)
	if err != nil {
		return BooksInCirculation{}, err
	}

	return BooksInCirculation{Books: books, Count: len(books)}, nil
}
