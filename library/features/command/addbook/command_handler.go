package addbook

import (
	"context"

	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/circulation"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/shared/shell"
)

// Store defines the persistence operation needed by the CommandHandler.
type Store interface {
	AddBook(ctx context.Context, book circulation.NewBook) (circulation.BookID, error)
}

// CommandHandler authorizes the actor and adds the book with retry.
type CommandHandler struct {
	store        Store
	retryOptions []shell.RetryOption
}

// Option configures a CommandHandler.
type Option func(*CommandHandler)

// WithRetryOptions sets a custom retry configuration for the handler.
func WithRetryOptions(opts ...shell.RetryOption) Option {
	return func(h *CommandHandler) {
		h.retryOptions = opts
	}
}

// NewCommandHandler creates a new CommandHandler with optional configuration.
func NewCommandHandler(store Store, opts ...Option) CommandHandler {
	handler := CommandHandler{store: store}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle returns the id of the new book.
func (h CommandHandler) Handle(ctx context.Context, command Command) (circulation.BookID, shell.HandlerResult, error) {
	if err := command.Actor.RequireRole(shell.Staff()...); err != nil {
		return 0, shell.NewErrorResult(shell.RetryMetrics{}), err
	}

	var bookID circulation.BookID

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		var execErr error
		bookID, execErr = h.store.AddBook(retryCtx, command.Book)

		return execErr
	}, h.retryOptions...)

	if err != nil {
		return 0, shell.NewErrorResult(retryMetrics), err
	}

	return bookID, shell.NewSuccessResult(retryMetrics), nil
}
