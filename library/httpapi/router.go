package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/circulation"
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
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/shared/shell"
)

const (
	logMsgRequestCompleted = "http request completed"
	logMsgRequestFailed    = "http request failed"

	logAttrMethod    = "method"
	logAttrPath      = "path"
	logAttrStatus    = "status"
	logAttrRequestID = "request_id"
)

// Handlers bundles the use cases served by the router, usually wrapped by the observable package.
type Handlers struct {
	AddBook             shell.CommandHandler[addbook.Command, circulation.BookID]
	UpdateBook          shell.CommandHandler[updatebook.Command, circulation.ReconcileResult]
	DeleteBook          shell.CommandHandler[deletebook.Command, deletebook.Result]
	ReconcileCopies     shell.CommandHandler[reconcilecopies.Command, circulation.ReconcileResult]
	RequestBorrow       shell.CommandHandler[requestborrow.Command, circulation.BorrowRecord]
	AdvanceBorrowStatus shell.CommandHandler[advanceborrowstatus.Command, circulation.BorrowRecord]
	RegisterUser        shell.CommandHandler[registeruser.Command, circulation.UserID]
	ChangeUserRole      shell.CommandHandler[changeuserrole.Command, bool]
	DeleteUser          shell.CommandHandler[deleteuser.Command, circulation.DeletedUser]

	BooksInCirculation    shell.QueryHandler[booksincirculation.Query, booksincirculation.BooksInCirculation]
	BorrowedBooksByUser   shell.QueryHandler[borrowedbooksbyuser.Query, borrowedbooksbyuser.BorrowedBooks]
	PendingBorrowRequests shell.QueryHandler[pendingborrowrequests.Query, []circulation.BorrowedBook]
	LibrarySummary        shell.QueryHandler[librarysummary.Query, circulation.LibrarySummary]
	LoanHistory           shell.QueryHandler[loanhistory.Query, []circulation.ArchivedLoan]
}

type router struct {
	handlers         Handlers
	metricsHandler   http.Handler
	healthCheck      func(ctx context.Context) error
	contextualLogger shell.ContextualLogger
}

// Option configures the router.
type Option func(*router)

// WithMetricsHandler serves h at /metrics, typically promhttp.Handler().
func WithMetricsHandler(h http.Handler) Option {
	return func(r *router) {
		r.metricsHandler = h
	}
}

// WithHealthCheck makes /healthz report 503 while check fails.
func WithHealthCheck(check func(ctx context.Context) error) Option {
	return func(r *router) {
		r.healthCheck = check
	}
}

// WithContextualLogging logs one line per request.
func WithContextualLogging(logger shell.ContextualLogger) Option {
	return func(r *router) {
		r.contextualLogger = logger
	}
}

// NewRouter builds the HTTP handler of the API.
func NewRouter(handlers Handlers, opts ...Option) http.Handler {
	rt := &router{handlers: handlers}
	for _, opt := range opts {
		opt(rt)
	}

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(requestID)
	r.Use(rt.logRequests)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", rt.health)
	if rt.metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", rt.metricsHandler)
	}

	r.Route("/books", func(r chi.Router) {
		r.Get("/", rt.listBooks)
		r.Post("/", rt.addBook)
		r.Route("/{bookID}", func(r chi.Router) {
			r.Put("/", rt.updateBook)
			r.Delete("/", rt.deleteBook)
			r.Put("/copies", rt.reconcileCopies)
			r.Get("/loan-history", rt.loanHistory)
		})
	})

	r.Route("/borrow-records", func(r chi.Router) {
		r.Post("/", rt.requestBorrow)
		r.Get("/pending", rt.pendingBorrowRequests)
		r.Patch("/{recordID}/status", rt.advanceStatus)
	})

	r.Route("/users", func(r chi.Router) {
		r.Post("/", rt.registerUser)
		r.Delete("/{userID}", rt.deleteUser)
		r.Put("/{userID}/role", rt.changeUserRole)
		r.Get("/{userID}/borrow-records", rt.borrowedBooksByUser)
	})

	r.Get("/summary", rt.summary)

	return r
}

func (rt *router) health(w http.ResponseWriter, r *http.Request) {
	if rt.healthCheck != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := rt.healthCheck(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *router) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rt.contextualLogger == nil {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		args := []any{
			logAttrMethod, r.Method,
			logAttrPath, r.URL.Path,
			logAttrStatus, ww.Status(),
			shell.LogAttrDurationMS, shell.ToMilliseconds(time.Since(start)),
			logAttrRequestID, RequestIDFrom(r.Context()),
		}

		if ww.Status() >= http.StatusInternalServerError {
			rt.contextualLogger.ErrorContext(r.Context(), logMsgRequestFailed, args...)
			return
		}

		rt.contextualLogger.InfoContext(r.Context(), logMsgRequestCompleted, args...)
	})
}
