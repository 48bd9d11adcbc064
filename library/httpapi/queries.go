package httpapi

import (
	"net/http"

	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/features/query/booksincirculation"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/features/query/borrowedbooksbyuser"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/features/query/librarysummary"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/features/query/loanhistory"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/features/query/pendingborrowrequests"
)

func (rt *router) listBooks(w http.ResponseWriter, r *http.Request) {
	result, err := rt.handlers.BooksInCirculation.Handle(r.Context(), booksincirculation.BuildQuery(actorFrom(r)))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toBooksResponse(result.Books))
}

func (rt *router) loanHistory(w http.ResponseWriter, r *http.Request) {
	bookID, err := pathID(r, "bookID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	loans, err := rt.handlers.LoanHistory.Handle(r.Context(), loanhistory.BuildQuery(actorFrom(r), bookID))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toArchivedLoanResponses(loans))
}

func (rt *router) pendingBorrowRequests(w http.ResponseWriter, r *http.Request) {
	pending, err := rt.handlers.PendingBorrowRequests.Handle(r.Context(), pendingborrowrequests.BuildQuery(actorFrom(r)))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toBorrowedBookResponses(pending))
}

func (rt *router) borrowedBooksByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := rt.handlers.BorrowedBooksByUser.Handle(r.Context(), borrowedbooksbyuser.BuildQuery(actorFrom(r), userID))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toBorrowedBooksResponse(result))
}

func (rt *router) summary(w http.ResponseWriter, r *http.Request) {
	summary, err := rt.handlers.LibrarySummary.Handle(r.Context(), librarysummary.BuildQuery(actorFrom(r)))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, summaryResponse(summary))
}
