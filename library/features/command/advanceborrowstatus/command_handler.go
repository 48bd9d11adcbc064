package advanceborrowstatus

import (
	"context"

	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/circulation"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/shared/shell"
)

// Store defines the persistence operation needed by the CommandHandler.
type Store interface {
	AdvanceStatus(ctx context.Context, recordID circulation.BorrowRecordID, next circulation.BorrowStatus) (circulation.BorrowRecord, error)
}

// CommandHandler authorizes the actor and applies the status transition with retry.
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

// Handle returns the borrow record in its new status. Only staff may decide on loans.
func (h CommandHandler) Handle(ctx context.Context, command Command) (circulation.BorrowRecord, shell.HandlerResult, error) {
	if err := command.Actor.RequireRole(shell.Staff()...); err != nil {
		return circulation.BorrowRecord{}, shell.NewErrorResult(shell.RetryMetrics{}), err
	}

	var record circulation.BorrowRecord

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		var execErr error
		record, execErr = h.store.AdvanceStatus(retryCtx, command.RecordID, command.Status)

		return execErr
	}, h.retryOptions...)

	if err != nil {
		return circulation.BorrowRecord{}, shell.NewErrorResult(retryMetrics), err
	}

	return record, shell.NewSuccessResult(retryMetrics), nil
}
