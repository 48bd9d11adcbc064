package circulation

import (
	"errors"
	"fmt"
)

// ErrNotFound is the common cause of all "referenced entity does not exist" errors.
var ErrNotFound = errors.New("not found")

var (
	ErrUserNotFound         = fmt.Errorf("user %w", ErrNotFound)
	ErrBookNotFound         = fmt.Errorf("book %w", ErrNotFound)
	ErrBorrowRecordNotFound = fmt.Errorf("borrow record %w", ErrNotFound)
)

// Invariant violations of the borrowing lifecycle and the copy inventory.
var (
	ErrNoAvailableCopies   = errors.New("no available copies of this book")
	ErrAlreadyBorrowed     = errors.New("you have already borrowed this book")
	ErrAlreadyReturned     = errors.New("this book has already been returned")
	ErrInvalidTransition   = errors.New("invalid borrow status transition")
	ErrCannotReduceCopies  = errors.New("cannot reduce copies: too many copies are currently borrowed")
	ErrAdminRoleImmutable  = errors.New("admin users cannot be demoted or deleted")
	ErrUserHasActiveLoans  = errors.New("cannot delete a user with pending or accepted loans")
	ErrConcurrencyConflict = errors.New("concurrency conflict, the transaction was aborted")
)

// ErrValidation is the common cause of all ValidationError values.
var ErrValidation = errors.New("validation failed")

// Infrastructure errors, always joined with their underlying cause.
var (
	ErrNilDatabaseConnection = errors.New("database connection must not be nil")
	ErrBeginTxFailed         = errors.New("beginning the transaction failed")
	ErrCommitFailed          = errors.New("committing the transaction failed")
	ErrBuildingQueryFailed   = errors.New("building the query failed")
	ErrQueryingFailed        = errors.New("querying the database failed")
	ErrScanningDBRowFailed   = errors.New("scanning a database row failed")
	ErrMigrationFailed       = errors.New("applying the schema failed")
)

// ValidationError reports a malformed input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Is makes every ValidationError match ErrValidation.
func (e ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// IsDomainError reports whether err is one of the typed errors of the circulation domain,
// as opposed to an infrastructure failure.
func IsDomainError(err error) bool {
	for _, domainErr := range []error{
		ErrNotFound,
		ErrNoAvailableCopies,
		ErrAlreadyBorrowed,
		ErrAlreadyReturned,
		ErrInvalidTransition,
		ErrCannotReduceCopies,
		ErrAdminRoleImmutable,
		ErrUserHasActiveLoans,
		ErrValidation,
	} {
		if errors.Is(err, domainErr) {
			return true
		}
	}

	return false
}
