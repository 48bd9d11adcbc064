package deleteuser

import (
	"context"

	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/circulation"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/shared/shell"
)

// Store defines the persistence operation needed by the CommandHandler.
type Store interface {
	DeleteUser(ctx context.Context, userID circulation.UserID) (circulation.DeletedUser, error)
}

// CommandHandler authorizes the actor and deletes the user with retry.
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

// Handle deletes the user and returns the loans moved to the loan history.
func (h CommandHandler) Handle(ctx context.Context, command Command) (circulation.DeletedUser, shell.HandlerResult, error) {
	if err := command.Actor.RequireRole(circulation.RoleAdmin); err != nil {
		return circulation.DeletedUser{}, shell.NewErrorResult(shell.RetryMetrics{}), err
	}

	var deleted circulation.DeletedUser

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		var execErr error
		deleted, execErr = h.store.DeleteUser(retryCtx, command.UserID)

		return execErr
	}, h.retryOptions...)

	if err != nil {
		return circulation.DeletedUser{}, shell.NewErrorResult(retryMetrics), err
	}

	return deleted, shell.NewSuccessResult(retryMetrics), nil
}
