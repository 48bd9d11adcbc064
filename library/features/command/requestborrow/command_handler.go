package requestborrow

import (
	"context"

	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/circulation"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/shared/shell"
)

// Store defines the persistence operation needed by the CommandHandler.
type Store interface {
	RequestBorrow(ctx context.Context, userID circulation.UserID, bookID circulation.BookID) (circulation.BorrowRecord, error)
}

// CommandHandler authorizes the actor and files the borrow request with retry.
// External wrappers handle all observability concerns.
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

// Handle returns the new Pending borrow record.
// Members may only borrow for themselves; librarians and admins may borrow for anyone.
func (h CommandHandler) Handle(ctx context.Context, command Command) (circulation.BorrowRecord, shell.HandlerResult, error) {
	if err := command.Actor.RequireSelfOrRole(command.UserID, shell.Staff()...); err != nil {
		return circulation.BorrowRecord{}, shell.NewErrorResult(shell.RetryMetrics{}), err
	}

	var record circulation.BorrowRecord

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		var execErr error
		record, execErr = h.store.RequestBorrow(retryCtx, command.UserID, command.BookID)

		return execErr
	}, h.retryOptions...)

	if err != nil {
		return circulation.BorrowRecord{}, shell.NewErrorResult(retryMetrics), err
	}

	return record, shell.NewSuccessResult(retryMetrics), nil
}
