package registeruser

import (
	"context"

	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/circulation"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/shared/shell"
)

// Store defines the persistence operation needed by the CommandHandler.
type Store interface {
	RegisterUser(ctx context.Context, name string, role circulation.Role) (circulation.UserID, error)
}

// CommandHandler authorizes the actor and registers the user with retry.
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

// Handle returns the id of the new user. Only admins may register users.
func (h CommandHandler) Handle(ctx context.Context, command Command) (circulation.UserID, shell.HandlerResult, error) {
	if err := command.Actor.RequireRole(circulation.RoleAdmin); err != nil {
		return 0, shell.NewErrorResult(shell.RetryMetrics{}), err
	}

	var userID circulation.UserID

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		var execErr error
		userID, execErr = h.store.RegisterUser(retryCtx, command.Name, command.Role)

		return execErr
	}, h.retryOptions...)

	if err != nil {
		return 0, shell.NewErrorResult(retryMetrics), err
	}

	return userID, shell.NewSuccessResult(retryMetrics), nil
}
