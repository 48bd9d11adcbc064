package main

import (
	"errors"

	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/circulation"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/circulation/postgresengine"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/features/command/addbook"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/features/command/advanceborrowstatus"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/features/command/changeuserrole"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/features/command/deletebook"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/features/command/deleteuser"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/features/command/reconcilecopies"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/features/command/registeruser"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/features/command/requestborrow"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/features/command/updatebook"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/features/query/booksincirculation"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/features/query/borrowedbooksbyuser"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/features/query/librarysummary"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/features/query/loanhistory"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/features/query/pendingborrowrequests"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/httpapi"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/shared/shell"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/shared/shell/observable"
)

type handlerBuilder struct {
	obs  observability
	errs []error
}

func wrapCommand[C shell.Command, O any](b *handlerBuilder, core shell.CommandHandler[C, O]) shell.CommandHandler[C, O] {
	opts := []observable.CommandOption[C, O]{
		observable.WithCommandMetrics[C, O](b.obs.metrics),
		observable.WithCommandTracing[C, O](b.obs.tracing),
	}
	if b.obs.contextualLogger != nil {
		opts = append(opts, observable.WithCommandContextualLogging[C, O](b.obs.contextualLogger))
	}

	wrapper, err := observable.NewCommandWrapper[C, O](core, opts...)
	if err != nil {
		b.errs = append(b.errs, err)
		return core
	}

	return wrapper
}

func wrapQuery[Q shell.Query, R any](b *handlerBuilder, core shell.QueryHandler[Q, R]) shell.QueryHandler[Q, R] {
	opts := []observable.QueryOption[Q, R]{
		observable.WithQueryMetrics[Q, R](b.obs.metrics),
		observable.WithQueryTracing[Q, R](b.obs.tracing),
	}
	if b.obs.contextualLogger != nil {
		opts = append(opts, observable.WithQueryContextualLogging[Q, R](b.obs.contextualLogger))
	}

	wrapper, err := observable.NewQueryWrapper[Q, R](core, opts...)
	if err != nil {
		b.errs = append(b.errs, err)
		return core
	}

	return wrapper
}

// buildHandlers wires every use case to store and instruments it. exporter may be nil.
func buildHandlers(
	store postgresengine.Store,
	exporter deletebook.LoanArchiveExporter,
	obs observability,
) (httpapi.Handlers, error) {
	b := &handlerBuilder{obs: obs}

	deleteOptions := []deletebook.Option{}
	if exporter != nil {
		deleteOptions = append(deleteOptions, deletebook.WithLoanArchiveExporter(exporter))
	}
	if obs.contextualLogger != nil {
		deleteOptions = append(deleteOptions, deletebook.WithContextualLogging(obs.contextualLogger))
	}

	handlers := httpapi.Handlers{
		AddBook: wrapCommand[addbook.Command, circulation.BookID](b,
			addbook.NewCommandHandler(store)),
		UpdateBook: wrapCommand[updatebook.Command, circulation.ReconcileResult](b,
			updatebook.NewCommandHandler(store)),
		DeleteBook: wrapCommand[deletebook.Command, deletebook.Result](b,
			deletebook.NewCommandHandler(store, deleteOptions...)),
		ReconcileCopies: wrapCommand[reconcilecopies.Command, circulation.ReconcileResult](b,
			reconcilecopies.NewCommandHandler(store)),
		RequestBorrow: wrapCommand[requestborrow.Command, circulation.BorrowRecord](b,
			requestborrow.NewCommandHandler(store)),
		AdvanceBorrowStatus: wrapCommand[advanceborrowstatus.Command, circulation.BorrowRecord](b,
			advanceborrowstatus.NewCommandHandler(store)),
		RegisterUser: wrapCommand[registeruser.Command, circulation.UserID](b,
			registeruser.NewCommandHandler(store)),
		ChangeUserRole: wrapCommand[changeuserrole.Command, bool](b,
			changeuserrole.NewCommandHandler(store)),
		DeleteUser: wrapCommand[deleteuser.Command, circulation.DeletedUser](b,
			deleteuser.NewCommandHandler(store)),

		BooksInCirculation: wrapQuery[booksincirculation.Query, booksincirculation.BooksInCirculation](b,
			booksincirculation.NewQueryHandler(store)),
		BorrowedBooksByUser: wrapQuery[borrowedbooksbyuser.Query, borrowedbooksbyuser.BorrowedBooks](b,
			borrowedbooksbyuser.NewQueryHandler(store)),
		PendingBorrowRequests: wrapQuery[pendingborrowrequests.Query, []circulation.BorrowedBook](b,
			pendingborrowrequests.NewQueryHandler(store)),
		LibrarySummary: wrapQuery[librarysummary.Query, circulation.LibrarySummary](b,
			librarysummary.NewQueryHandler(store)),
		LoanHistory: wrapQuery[loanhistory.Query, []circulation.ArchivedLoan](b,
			loanhistory.NewQueryHandler(store)),
	}

	if err := errors.Join(b.errs...); err != nil {
		return httpapi.Handlers{}, err
	}

	return handlers, nil
}
