package httpapi_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/circulation"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/features/command/addbook"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/features/command/advanceborrowstatus"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/features/command/changeuserrole"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/features/command/deletebook"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/features/command/deleteuser"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/features/command/reconcilecopies"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/features/command/requestborrow"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/features/query/booksincirculation"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/features/query/librarysummary"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/httpapi"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/shared/shell"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/testutil/observability/testdoubles"
)

type commandStub[C shell.Command, O any] struct {
	received []C
	output   O
	result   shell.HandlerResult
	err      error
}

func (s *commandStub[C, O]) Handle(_ context.Context, command C) (O, shell.HandlerResult, error) {
	s.received = append(s.received, command)
	return s.output, s.result, s.err
}

type queryStub[Q shell.Query, R any] struct {
	received []Q
	result   R
	err      error
}

func (s *queryStub[Q, R]) Handle(_ context.Context, query Q) (R, error) {
	s.received = append(s.received, query)
	return s.result, s.err
}

func do(t *testing.T, handler http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	return rec
}

func asLibrarian() map[string]string {
	return map[string]string{httpapi.HeaderActorID: "2", httpapi.HeaderActorRole: "librarian"}
}

func asMember(id string) map[string]string {
	return map[string]string{httpapi.HeaderActorID: id, httpapi.HeaderActorRole: "Member"}
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())

	return body
}

func Test_Router_When_BookIsAdded_Then_201WithItsIDIsReturned(t *testing.T) {
	// arrange
	stub := &commandStub[addbook.Command, circulation.BookID]{output: 17}
	router := httpapi.NewRouter(httpapi.Handlers{AddBook: stub})

	// act
	rec := do(t, router, http.MethodPost, "/books",
		`{"title":"Dune","category":"Fiction","genre":"Sci-Fi","year_published":1965,"author_name":"Frank Herbert","author_country":"USA"}`,
		asLibrarian())

	// assert
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, float64(17), decode(t, rec)["book_id"])
	require.Len(t, stub.received, 1)
	assert.Equal(t, shell.BuildActor(2, circulation.RoleLibrarian), stub.received[0].Actor)
	assert.Equal(t, "Frank Herbert", stub.received[0].Book.AuthorName)
	assert.Equal(t, 1965, stub.received[0].Book.YearPublished)
}

func Test_Router_When_MemberRequestsABorrow_Then_TheActorIsTheBorrower(t *testing.T) {
	// arrange
	stub := &commandStub[requestborrow.Command, circulation.BorrowRecord]{
		output: circulation.BorrowRecord{
			ID: 5, UserID: 7, CopyID: 3, BookID: 9, Status: circulation.BorrowPending,
			DateBorrowed: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
		},
	}
	router := httpapi.NewRouter(httpapi.Handlers{RequestBorrow: stub})

	// act
	rec := do(t, router, http.MethodPost, "/borrow-records", `{"book_id":9}`, asMember("7"))

	// assert
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "pending", body["status"])
	assert.Equal(t, "2024-05-02", body["date_borrowed"])
	assert.Nil(t, body["return_date"])
	require.Len(t, stub.received, 1)
	assert.Equal(t, circulation.UserID(7), stub.received[0].UserID)
	assert.Equal(t, circulation.RoleMember, stub.received[0].Actor.Role)
}

func Test_Router_When_DomainRuleIsViolated_Then_409WithTheMessageIsReturned(t *testing.T) {
	// arrange
	stub := &commandStub[requestborrow.Command, circulation.BorrowRecord]{err: circulation.ErrAlreadyBorrowed}
	router := httpapi.NewRouter(httpapi.Handlers{RequestBorrow: stub})

	// act
	rec := do(t, router, http.MethodPost, "/borrow-records", `{"book_id":9}`,
		map[string]string{httpapi.HeaderActorID: "7", httpapi.HeaderActorRole: "member", httpapi.HeaderRequestID: "req-1"})

	// assert
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "req-1", rec.Header().Get(httpapi.HeaderRequestID))
	body := decode(t, rec)
	assert.Equal(t, "you have already borrowed this book", body["error"])
	assert.Equal(t, "req-1", body["request_id"])
}

func Test_Router_When_StatusIsAdvanced_Then_TheNamedStatusIsParsed(t *testing.T) {
	// arrange
	stub := &commandStub[advanceborrowstatus.Command, circulation.BorrowRecord]{
		output: circulation.BorrowRecord{ID: 5, Status: circulation.BorrowAccepted},
	}
	router := httpapi.NewRouter(httpapi.Handlers{AdvanceBorrowStatus: stub})

	// act
	rec := do(t, router, http.MethodPatch, "/borrow-records/5/status", `{"status":"Accepted"}`, asLibrarian())

	// assert
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, stub.received, 1)
	assert.Equal(t, circulation.BorrowRecordID(5), stub.received[0].RecordID)
	assert.Equal(t, circulation.BorrowAccepted, stub.received[0].Status)
}

func Test_Router_When_StatusIsUnknown_Then_422WithTheFieldIsReturned(t *testing.T) {
	// arrange
	stub := &commandStub[advanceborrowstatus.Command, circulation.BorrowRecord]{}
	router := httpapi.NewRouter(httpapi.Handlers{AdvanceBorrowStatus: stub})

	// act
	rec := do(t, router, http.MethodPatch, "/borrow-records/5/status", `{"status":"lost"}`, asLibrarian())

	// assert
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "status", decode(t, rec)["field"])
	assert.Empty(t, stub.received)
}

func Test_Router_When_PathIDIsMalformed_Then_400IsReturned(t *testing.T) {
	// arrange
	stub := &commandStub[deletebook.Command, deletebook.Result]{}
	router := httpapi.NewRouter(httpapi.Handlers{DeleteBook: stub})

	// act
	rec := do(t, router, http.MethodDelete, "/books/abc", "", asLibrarian())

	// assert
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, stub.received)
}

func Test_Router_When_BodyIsMalformed_Then_400IsReturned(t *testing.T) {
	// arrange
	stub := &commandStub[reconcilecopies.Command, circulation.ReconcileResult]{}
	router := httpapi.NewRouter(httpapi.Handlers{ReconcileCopies: stub})

	// act
	rec := do(t, router, http.MethodPut, "/books/3/copies", `{"target":`, asLibrarian())

	// assert
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, stub.received)
}

func Test_Router_When_CopiesAreReconciled_Then_AddedAndRemovedCopiesAreListed(t *testing.T) {
	// arrange
	stub := &commandStub[reconcilecopies.Command, circulation.ReconcileResult]{
		output: circulation.ReconcileResult{BookID: 3, CopiesBefore: 1, CopiesAfter: 3, AddedCopies: []circulation.CopyID{8, 9}},
	}
	router := httpapi.NewRouter(httpapi.Handlers{ReconcileCopies: stub})

	// act
	rec := do(t, router, http.MethodPut, "/books/3/copies", `{"target":3}`, asLibrarian())

	// assert
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, []any{float64(8), float64(9)}, body["added_copies"])
	assert.Equal(t, []any{}, body["removed_copies"])
	assert.Equal(t, []any{}, body["archived_loans"])
	assert.Equal(t, 3, stub.received[0].Target)
}

func Test_Router_When_TargetIsMissing_Then_422IsReturned(t *testing.T) {
	// arrange
	stub := &commandStub[reconcilecopies.Command, circulation.ReconcileResult]{}
	router := httpapi.NewRouter(httpapi.Handlers{ReconcileCopies: stub})

	// act
	rec := do(t, router, http.MethodPut, "/books/3/copies", `{}`, asLibrarian())

	// assert
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Empty(t, stub.received)
}

func Test_Router_When_RoleIsAlreadyAssigned_Then_ChangedIsFalse(t *testing.T) {
	// arrange
	stub := &commandStub[changeuserrole.Command, bool]{output: false, result: shell.HandlerResult{Idempotent: true}}
	router := httpapi.NewRouter(httpapi.Handlers{ChangeUserRole: stub})

	// act
	rec := do(t, router, http.MethodPut, "/users/7/role", `{"role":"librarian"}`,
		map[string]string{httpapi.HeaderActorID: "1", httpapi.HeaderActorRole: "admin"})

	// assert
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, false, body["changed"])
	assert.Equal(t, "librarian", body["role"])
}

func Test_Router_When_AdminDeletesAUser_Then_TheArchivedLoansAreListed(t *testing.T) {
	// arrange
	stub := &commandStub[deleteuser.Command, circulation.DeletedUser]{
		output: circulation.DeletedUser{UserID: 7, ArchivedLoans: []circulation.ArchivedLoan{{
			BorrowRecordID: 11,
			UserID:         7,
			BookID:         3,
			CopyID:         8,
			Title:          "Noli Me Tangere",
			AuthorName:     "Jose Rizal",
			Status:         circulation.BorrowReturned,
			DateBorrowed:   time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			ArchivedAt:     time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC),
		}}},
	}
	router := httpapi.NewRouter(httpapi.Handlers{DeleteUser: stub})

	// act
	rec := do(t, router, http.MethodDelete, "/users/7", "",
		map[string]string{httpapi.HeaderActorID: "1", httpapi.HeaderActorRole: "admin"})

	// assert
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, stub.received, 1)
	assert.Equal(t, circulation.UserID(7), stub.received[0].UserID)
	assert.Equal(t, circulation.RoleAdmin, stub.received[0].Actor.Role)

	body := decode(t, rec)
	assert.Equal(t, float64(7), body["user_id"])
	loans, ok := body["archived_loans"].([]any)
	require.True(t, ok)
	require.Len(t, loans, 1)
	assert.Equal(t, "Noli Me Tangere", loans[0].(map[string]any)["title"])
}

func Test_Router_When_DeletedUserHoldsAnActiveLoan_Then_409IsReturned(t *testing.T) {
	// arrange
	stub := &commandStub[deleteuser.Command, circulation.DeletedUser]{err: circulation.ErrUserHasActiveLoans}
	router := httpapi.NewRouter(httpapi.Handlers{DeleteUser: stub})

	// act
	rec := do(t, router, http.MethodDelete, "/users/8", "",
		map[string]string{httpapi.HeaderActorID: "1", httpapi.HeaderActorRole: "admin"})

	// assert
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func Test_Router_When_ActorIsNotPermitted_Then_403IsReturned(t *testing.T) {
	// arrange
	stub := &queryStub[librarysummary.Query, circulation.LibrarySummary]{err: shell.ErrActorNotPermitted}
	router := httpapi.NewRouter(httpapi.Handlers{LibrarySummary: stub})

	// act
	rec := do(t, router, http.MethodGet, "/summary", "", asMember("7"))

	// assert
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func Test_Router_When_ConflictPersists_Then_503WithRetryAfterIsReturned(t *testing.T) {
	// arrange
	stub := &commandStub[requestborrow.Command, circulation.BorrowRecord]{err: circulation.ErrConcurrencyConflict}
	router := httpapi.NewRouter(httpapi.Handlers{RequestBorrow: stub})

	// act
	rec := do(t, router, http.MethodPost, "/borrow-records", `{"book_id":9}`, asMember("7"))

	// assert
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}

func Test_Router_When_UnexpectedErrorOccurs_Then_DetailsAreHiddenAndLogged(t *testing.T) {
	// arrange
	logger := testdoubles.NewContextualLoggerSpy(true)
	stub := &queryStub[booksincirculation.Query, booksincirculation.BooksInCirculation]{
		err: errors.Join(circulation.ErrQueryingFailed, errors.New("password authentication failed")),
	}
	router := httpapi.NewRouter(httpapi.Handlers{BooksInCirculation: stub}, httpapi.WithContextualLogging(logger))

	// act
	rec := do(t, router, http.MethodGet, "/books", "", asMember("7"))

	// assert
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
	assert.NotEmpty(t, rec.Header().Get(httpapi.HeaderRequestID))
	assert.True(t, logger.HasLog(testdoubles.LevelError, "http request failed"))
}

func Test_Router_When_BooksAreListed_Then_CountsAreReturned(t *testing.T) {
	// arrange
	logger := testdoubles.NewContextualLoggerSpy(true)
	stub := &queryStub[booksincirculation.Query, booksincirculation.BooksInCirculation]{
		result: booksincirculation.BooksInCirculation{
			Books: []circulation.BookInCirculation{{BookID: 1, Title: "Dune", TotalCopies: 2, AvailableCopies: 1}},
			Count: 1,
		},
	}
	router := httpapi.NewRouter(httpapi.Handlers{BooksInCirculation: stub}, httpapi.WithContextualLogging(logger))

	// act
	rec := do(t, router, http.MethodGet, "/books", "", asMember("7"))

	// assert
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, float64(1), body["count"])
	books, ok := body["books"].([]any)
	require.True(t, ok)
	assert.Equal(t, "Dune", books[0].(map[string]any)["title"])
	assert.True(t, logger.HasLog(testdoubles.LevelInfo, "http request completed"))
}

func Test_Router_When_HealthCheckFails_Then_503IsReturned(t *testing.T) {
	// arrange
	router := httpapi.NewRouter(httpapi.Handlers{},
		httpapi.WithHealthCheck(func(context.Context) error { return errors.New("db down") }))

	// act
	rec := do(t, router, http.MethodGet, "/healthz", "", nil)

	// assert
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func Test_Router_When_MetricsHandlerIsConfigured_Then_ItIsServed(t *testing.T) {
	// arrange
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("commandhandler_handle_calls_total 1\n"))
	})
	router := httpapi.NewRouter(httpapi.Handlers{}, httpapi.WithMetricsHandler(metrics))

	// act
	rec := do(t, router, http.MethodGet, "/metrics", "", nil)

	// assert
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "commandhandler_handle_calls_total"))
}
