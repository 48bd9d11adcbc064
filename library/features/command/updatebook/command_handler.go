package updatebook

import (
	"context"

	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/circulation"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/shared/shell"
)

// Store defines the persistence operation needed by the CommandHandler.
type Store interface {
	UpdateBook(ctx context.Context, update circulation.BookUpdate) (circulation.ReconcileResult, error)
}

// CommandHandler authorizes the actor and updates the book with retry.
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

// Handle returns the copy reconciliation that accompanied the metadata update.
// Metadata is always written, so the outcome is never idempotent.
func (h CommandHandler) Handle(ctx context.Context, command Command) (circulation.ReconcileResult, shell.HandlerResult, error) {
	if err := command.Actor.RequireRole(shell.Staff()...); err != nil {
		return circulation.ReconcileResult{}, shell.NewErrorResult(shell.RetryMetrics{}), err
	}

	var result circulation.ReconcileResult

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		var execErr error
		result, execErr = h.store.UpdateBook(retryCtx, command.Update)

		return execErr
	}, h.retryOptions...)

	if err != nil {
		return circulation.ReconcileResult{}, shell.NewErrorResult(retryMetrics), err
	}

	return result, shell.NewSuccessResult(retryMetrics), nil
}
