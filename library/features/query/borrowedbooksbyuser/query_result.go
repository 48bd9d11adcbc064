package borrowedbooksbyuser

import (
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/circulation"
)

// BorrowedBooks lists a user's loans. ActiveCount counts the Pending and Accepted ones.
type BorrowedBooks struct {
	UserID      circulation.UserID
	Loans       []circulation.BorrowedBook
	ActiveCount int
}

// Project builds the query result from the user's borrow records.
func Project(userID circulation.UserID, loans []circulation.BorrowedBook) BorrowedBooks {
	result := BorrowedBooks{UserID: userID, Loans: loans}

	for _, loan := range loans {
		if loan.Record.Status.IsActive() {
			result.ActiveCount++
		}
	}

	return result
}
