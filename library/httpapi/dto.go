package httpapi

import (
	"time"

	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/circulation"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/features/command/deletebook"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/features/query/borrowedbooksbyuser"
)

type errorResponse struct {
	Error     string `json:"error"`
	Field     string `json:"field,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type addBookRequest struct {
	Title         string `json:"title"`
	Category      string `json:"category"`
	Genre         string `json:"genre"`
	YearPublished int    `json:"year_published"`
	AuthorName    string `json:"author_name"`
	AuthorCountry string `json:"author_country"`
}

type updateBookRequest struct {
	Title          string `json:"title"`
	Category       string `json:"category"`
	Genre          string `json:"genre"`
	YearPublished  int    `json:"year_published"`
	NumberOfCopies int    `json:"number_of_copies"`
}

type reconcileCopiesRequest struct {
	Target *int `json:"target"`
}

type requestBorrowRequest struct {
	UserID circulation.UserID `json:"user_id"`
	BookID circulation.BookID `json:"book_id"`
}

type advanceStatusRequest struct {
	Status string `json:"status"`
}

type registerUserRequest struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

type changeRoleRequest struct {
	Role string `json:"role"`
}

type bookIDResponse struct {
	BookID circulation.BookID `json:"book_id"`
}

type userIDResponse struct {
	UserID circulation.UserID `json:"user_id"`
}

type roleChangeResponse struct {
	UserID  circulation.UserID `json:"user_id"`
	Role    string             `json:"role"`
	Changed bool               `json:"changed"`
}

type reconcileResponse struct {
	BookID        circulation.BookID     `json:"book_id"`
	CopiesBefore  int                    `json:"copies_before"`
	CopiesAfter   int                    `json:"copies_after"`
	AddedCopies   []circulation.CopyID   `json:"added_copies"`
	RemovedCopies []circulation.CopyID   `json:"removed_copies"`
	ArchivedLoans []archivedLoanResponse `json:"archived_loans"`
}

type borrowRecordResponse struct {
	ID           circulation.BorrowRecordID `json:"id"`
	UserID       circulation.UserID         `json:"user_id"`
	CopyID       circulation.CopyID         `json:"copy_id"`
	BookID       circulation.BookID         `json:"book_id"`
	Status       string                     `json:"status"`
	DateBorrowed string                     `json:"date_borrowed"`
	ReturnDate   *string                    `json:"return_date"`
}

type borrowedBookResponse struct {
	borrowRecordResponse
	Title      string `json:"title"`
	AuthorName string `json:"author_name"`
	UserName   string `json:"user_name"`
}

type borrowedBooksResponse struct {
	UserID      circulation.UserID     `json:"user_id"`
	ActiveCount int                    `json:"active_count"`
	Loans       []borrowedBookResponse `json:"loans"`
}

type bookInCirculationResponse struct {
	BookID          circulation.BookID `json:"book_id"`
	Title           string             `json:"title"`
	Category        string             `json:"category"`
	Genre           string             `json:"genre"`
	YearPublished   int                `json:"year_published"`
	AuthorName      string             `json:"author_name"`
	AuthorCountry   string             `json:"author_country"`
	TotalCopies     int                `json:"total_copies"`
	AvailableCopies int                `json:"available_copies"`
}

type booksResponse struct {
	Count int                         `json:"count"`
	Books []bookInCirculationResponse `json:"books"`
}

type archivedLoanResponse struct {
	borrowRecordResponse
	Title      string    `json:"title"`
	AuthorName string    `json:"author_name"`
	ArchivedAt time.Time `json:"archived_at"`
}

type deletedBookResponse struct {
	BookID          circulation.BookID     `json:"book_id"`
	AuthorRemoved   bool                   `json:"author_removed"`
	ArchivedLoans   []archivedLoanResponse `json:"archived_loans"`
	ArchiveLocation string                 `json:"archive_location,omitempty"`
}

type deletedUserResponse struct {
	UserID        circulation.UserID     `json:"user_id"`
	ArchivedLoans []archivedLoanResponse `json:"archived_loans"`
}

type summaryResponse struct {
	TotalBooks      int `json:"total_books"`
	TotalCopies     int `json:"total_copies"`
	AvailableCopies int `json:"available_copies"`
	PendingLoans    int `json:"pending_loans"`
	AcceptedLoans   int `json:"accepted_loans"`
	TotalUsers      int `json:"total_users"`
}

func formatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

func formatOptionalDate(t *time.Time) *string {
	if t == nil {
		return nil
	}

	formatted := formatDate(*t)

	return &formatted
}

func toBorrowRecordResponse(record circulation.BorrowRecord) borrowRecordResponse {
	return borrowRecordResponse{
		ID:           record.ID,
		UserID:       record.UserID,
		CopyID:       record.CopyID,
		BookID:       record.BookID,
		Status:       record.Status.String(),
		DateBorrowed: formatDate(record.DateBorrowed),
		ReturnDate:   formatOptionalDate(record.ReturnDate),
	}
}

func toBorrowedBookResponses(books []circulation.BorrowedBook) []borrowedBookResponse {
	responses := make([]borrowedBookResponse, 0, len(books))
	for _, book := range books {
		responses = append(responses, borrowedBookResponse{
			borrowRecordResponse: toBorrowRecordResponse(book.Record),
			Title:                book.Title,
			AuthorName:           book.AuthorName,
			UserName:             book.UserName,
		})
	}

	return responses
}

func toBorrowedBooksResponse(result borrowedbooksbyuser.BorrowedBooks) borrowedBooksResponse {
	return borrowedBooksResponse{
		UserID:      result.UserID,
		ActiveCount: result.ActiveCount,
		Loans:       toBorrowedBookResponses(result.Loans),
	}
}

func toBooksResponse(books []circulation.BookInCirculation) booksResponse {
	response := booksResponse{Count: len(books), Books: make([]bookInCirculationResponse, 0, len(books))}
	for _, book := range books {
		response.Books = append(response.Books, bookInCirculationResponse(book))
	}

	return response
}

func toReconcileResponse(result circulation.ReconcileResult) reconcileResponse {
	return reconcileResponse{
		BookID:        result.BookID,
		CopiesBefore:  result.CopiesBefore,
		CopiesAfter:   result.CopiesAfter,
		AddedCopies:   nonNil(result.AddedCopies),
		RemovedCopies: nonNil(result.RemovedCopies),
		ArchivedLoans: toArchivedLoanResponses(result.ArchivedLoans),
	}
}

func toArchivedLoanResponses(loans []circulation.ArchivedLoan) []archivedLoanResponse {
	responses := make([]archivedLoanResponse, 0, len(loans))
	for _, loan := range loans {
		responses = append(responses, archivedLoanResponse{
			borrowRecordResponse: borrowRecordResponse{
				ID:           loan.BorrowRecordID,
				UserID:       loan.UserID,
				CopyID:       loan.CopyID,
				BookID:       loan.BookID,
				Status:       loan.Status.String(),
				DateBorrowed: formatDate(loan.DateBorrowed),
				ReturnDate:   formatOptionalDate(loan.ReturnDate),
			},
			Title:      loan.Title,
			AuthorName: loan.AuthorName,
			ArchivedAt: loan.ArchivedAt,
		})
	}

	return responses
}

func toDeletedBookResponse(result deletebook.Result) deletedBookResponse {
	return deletedBookResponse{
		BookID:          result.BookID,
		AuthorRemoved:   result.AuthorRemoved,
		ArchivedLoans:   toArchivedLoanResponses(result.ArchivedLoans),
		ArchiveLocation: result.ArchiveLocation,
	}
}

func toDeletedUserResponse(result circulation.DeletedUser) deletedUserResponse {
	return deletedUserResponse{
		UserID:        result.UserID,
		ArchivedLoans: toArchivedLoanResponses(result.ArchivedLoans),
	}
}

func nonNil(ids []circulation.CopyID) []circulation.CopyID {
	if ids == nil {
		return []circulation.CopyID{}
	}

	return ids
}
