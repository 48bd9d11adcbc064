package changeuserrole

import (
	"context"

	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/circulation"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/shared/shell"
)

// Store defines the persistence operation needed by the CommandHandler.
type Store interface {
	ChangeUserRole(ctx context.Context, userID circulation.UserID, role circulation.Role) (bool, error)
}

// CommandHandler authorizes the actor and changes the role with retry.
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

// Handle reports whether the role actually changed.
func (h CommandHandler) Handle(ctx context.Context, command Command) (bool, shell.HandlerResult, error) {
	if err := command.Actor.RequireRole(circulation.RoleAdmin); err != nil {
		return false, shell.NewErrorResult(shell.RetryMetrics{}), err
	}

	if !command.Role.IsValid() {
		return false, shell.NewErrorResult(shell.RetryMetrics{}),
			circulation.ValidationError{Field: "role", Reason: "unknown role " + string(command.Role)}
	}

	var changed bool

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		var execErr error
		changed, execErr = h.store.ChangeUserRole(retryCtx, command.UserID, command.Role)

		return execErr
	}, h.retryOptions...)

	if err != nil {
		return false, shell.NewErrorResult(retryMetrics), err
	}

	if !changed {
		return false, shell.NewIdempotentResult(retryMetrics), nil
	}

	return true, shell.NewSuccessResult(retryMetrics), nil
}
