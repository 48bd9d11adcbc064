package deletebook

import (
	"context"

	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/circulation"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/shared/shell"
)

const (
	logMsgExportFailed = "loan archive export failed"
)

// Store defines the persistence operation needed by the CommandHandler.
type Store interface {
	DeleteBook(ctx context.Context, bookID circulation.BookID) (circulation.DeletedBook, error)
}

// LoanArchiveExporter ships archived loans of a deleted book to secondary storage
// and returns where they were written.
type LoanArchiveExporter interface {
	ExportLoans(ctx context.Context, bookID circulation.BookID, loans []circulation.ArchivedLoan) (string, error)
}

// CommandHandler authorizes the actor, deletes the book with retry and exports its loan history.
type CommandHandler struct {
	store            Store
	exporter         LoanArchiveExporter
	contextualLogger shell.ContextualLogger
	retryOptions     []shell.RetryOption
}

// Option configures a CommandHandler.
type Option func(*CommandHandler)

// WithRetryOptions sets a custom retry configuration for the handler.
func WithRetryOptions(opts ...shell.RetryOption) Option {
	return func(h *CommandHandler) {
		h.retryOptions = opts
	}
}

// WithLoanArchiveExporter exports the archived loans of every deleted book.
func WithLoanArchiveExporter(exporter LoanArchiveExporter) Option {
	return func(h *CommandHandler) {
		h.exporter = exporter
	}
}

// WithContextualLogging sets the logger used to report failed exports.
func WithContextualLogging(logger shell.ContextualLogger) Option {
	return func(h *CommandHandler) {
		h.contextualLogger = logger
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

// Handle deletes the book and returns the archived loans. Only staff may delete books.
func (h CommandHandler) Handle(ctx context.Context, command Command) (Result, shell.HandlerResult, error) {
	if err := command.Actor.RequireRole(shell.Staff()...); err != nil {
		return Result{}, shell.NewErrorResult(shell.RetryMetrics{}), err
	}

	var deleted circulation.DeletedBook

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		var execErr error
		deleted, execErr = h.store.DeleteBook(retryCtx, command.BookID)

		return execErr
	}, h.retryOptions...)

	if err != nil {
		return Result{}, shell.NewErrorResult(retryMetrics), err
	}

	result := Result{DeletedBook: deleted}
	result.ArchiveLocation = h.export(ctx, deleted)

	return result, shell.NewSuccessResult(retryMetrics), nil
}

func (h CommandHandler) export(ctx context.Context, deleted circulation.DeletedBook) string {
	if h.exporter == nil || len(deleted.ArchivedLoans) == 0 {
		return ""
	}

	location, err := h.exporter.ExportLoans(ctx, deleted.BookID, deleted.ArchivedLoans)
	if err != nil {
		if h.contextualLogger != nil {
			h.contextualLogger.WarnContext(ctx, logMsgExportFailed,
				"book_id", deleted.BookID,
				"archived_loans", len(deleted.ArchivedLoans),
				shell.LogAttrError, err.Error())
		}

		return ""
	}

	return location
}
