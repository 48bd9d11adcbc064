package circulation

import (
	"time"
)

// ID aliases keep signatures readable while staying plain int64 for scanning.
type (
	UserID         = int64
	AuthorID       = int64
	BookID         = int64
	CopyID         = int64
	BorrowRecordID = int64
)

// Author is created implicitly with the first book carrying its name.
type Author struct {
	ID      AuthorID
	Name    string
	Country string
}

// Book is a logical catalog entry, independent of loan state.
type Book struct {
	ID            BookID
	Title         string
	Category      string
	Genre         string
	YearPublished int
	AuthorID      AuthorID
}

// CopyStatus is the availability of one physical copy.
type CopyStatus string

const (
	CopyAvailable CopyStatus = "Available"
	CopyBorrowed  CopyStatus = "Borrowed"
)

// Copy is one loanable unit of a Book.
type Copy struct {
	ID          CopyID
	BookID      BookID
	DateEncoded time.Time
	Status      CopyStatus
}

// IsAvailable reports whether the copy may be claimed by a borrow request.
func (c Copy) IsAvailable() bool {
	return c.Status == CopyAvailable
}

// BorrowRecord links a user to a copy and carries the loan lifecycle status.
// ReturnDate is only set once the record reached BorrowReturned.
type BorrowRecord struct {
	ID           BorrowRecordID
	UserID       UserID
	CopyID       CopyID
	BookID       BookID
	Status       BorrowStatus
	DateBorrowed time.Time
	ReturnDate   *time.Time
}

// Role is the caller-supplied role of an actor.
type Role string

const (
	RoleMember    Role = "member"
	RoleLibrarian Role = "librarian"
	RoleAdmin     Role = "admin"
)

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleMember, RoleLibrarian, RoleAdmin:
		return true
	default:
		return false
	}
}

// User is the minimal identity record the engine needs to validate borrow requests.
type User struct {
	ID   UserID
	Name string
	Role Role
}

// NewBook is the input of the add-book operation.
type NewBook struct {
	Title         string
	Category      string
	Genre         string
	YearPublished int
	AuthorName    string
	AuthorCountry string
}

// BookUpdate is the input of the update-book operation.
// NumberOfCopies is the declared copy total the inventory is reconciled to.
type BookUpdate struct {
	BookID         BookID
	Title          string
	Category       string
	Genre          string
	YearPublished  int
	NumberOfCopies int
}

// ReconcileResult describes what a reconciliation changed.
type ReconcileResult struct {
	BookID        BookID
	CopiesBefore  int
	CopiesAfter   int
	AddedCopies   []CopyID
	RemovedCopies []CopyID
	// ArchivedLoans are the borrow records of the removed copies, moved to the loan history.
	ArchivedLoans []ArchivedLoan
}

// Unchanged reports whether the reconciliation was a no-op.
func (r ReconcileResult) Unchanged() bool {
	return len(r.AddedCopies) == 0 && len(r.RemovedCopies) == 0
}

// ArchivedLoan is a borrow record preserved in the loan history before a book deletion cascades.
type ArchivedLoan struct {
	BorrowRecordID BorrowRecordID
	UserID         UserID
	BookID         BookID
	CopyID         CopyID
	Title          string
	AuthorName     string
	Status         BorrowStatus
	DateBorrowed   time.Time
	ReturnDate     *time.Time
	ArchivedAt     time.Time
}

// DeletedBook is the outcome of the delete-book operation.
type DeletedBook struct {
	BookID        BookID
	AuthorID      AuthorID
	AuthorRemoved bool
	ArchivedLoans []ArchivedLoan
}

// DeletedUser reports what deleting a user removed.
type DeletedUser struct {
	UserID UserID
	// ArchivedLoans are the user's past loans, moved to the loan history before the delete.
	ArchivedLoans []ArchivedLoan
}

// BookInCirculation is a catalog row joined with its author and copy counts.
type BookInCirculation struct {
	BookID          BookID
	Title           string
	Category        string
	Genre           string
	YearPublished   int
	AuthorName      string
	AuthorCountry   string
	TotalCopies     int
	AvailableCopies int
}

// BorrowedBook is a borrow record joined with the book it refers to.
type BorrowedBook struct {
	Record     BorrowRecord
	Title      string
	AuthorName string
	UserName   string
}

// LibrarySummary holds the headline counts of the library.
type LibrarySummary struct {
	TotalBooks      int
	TotalCopies     int
	AvailableCopies int
	PendingLoans    int
	AcceptedLoans   int
	TotalUsers      int
}

// DateOf truncates t to the calendar date in UTC, the resolution of all loan dates.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()

	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
