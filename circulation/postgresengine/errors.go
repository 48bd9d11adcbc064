package postgresengine

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/circulation"
)

// Postgres SQLSTATE codes the engine reacts to.
const (
	sqlStateUniqueViolation      = "23505"
	sqlStateForeignKeyViolation  = "23503"
	sqlStateSerializationFailure = "40001"
	sqlStateDeadlockDetected     = "40P01"
	sqlStateLockNotAvailable     = "55P03"
)

// translateDBError maps a Postgres error from either driver to a typed circulation error.
// It reports false when err carries no known condition.
func translateDBError(err error) (error, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return translateSQLState(pgErr.Code, pgErr.ConstraintName, err)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return translateSQLState(string(pqErr.Code), pqErr.Constraint, err)
	}

	return nil, false
}

func translateSQLState(code, constraint string, err error) (error, bool) {
	switch code {
	case sqlStateSerializationFailure, sqlStateDeadlockDetected, sqlStateLockNotAvailable:
		return errors.Join(circulation.ErrConcurrencyConflict, err), true

	case sqlStateUniqueViolation:
		switch constraint {
		case constraintActiveUserBook:
			return circulation.ErrAlreadyBorrowed, true
		case constraintActiveCopy:
			return errors.Join(circulation.ErrConcurrencyConflict, err), true
		}

	case sqlStateForeignKeyViolation:
		switch constraint {
		case constraintBooksAuthor:
			// the author row was removed by a concurrent delete
			return errors.Join(circulation.ErrConcurrencyConflict, err), true
		case constraintRecordsUser:
			// the borrower was deleted after the existence check
			return circulation.ErrUserNotFound, true
		}
	}

	return nil, false
}

// errorType classifies an error into a low-cardinality label for logs, metrics and spans.
func errorType(err error) string {
	switch {
	case err == nil:
		return errorTypeNone
	case errors.Is(err, circulation.ErrNotFound):
		return "not_found"
	case errors.Is(err, circulation.ErrNoAvailableCopies):
		return "no_available_copies"
	case errors.Is(err, circulation.ErrAlreadyBorrowed):
		return "already_borrowed"
	case errors.Is(err, circulation.ErrAlreadyReturned):
		return "already_returned"
	case errors.Is(err, circulation.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, circulation.ErrCannotReduceCopies):
		return "cannot_reduce_copies"
	case errors.Is(err, circulation.ErrAdminRoleImmutable):
		return "admin_role_immutable"
	case errors.Is(err, circulation.ErrUserHasActiveLoans):
		return "user_has_active_loans"
	case errors.Is(err, circulation.ErrValidation):
		return "validation"
	case errors.Is(err, circulation.ErrConcurrencyConflict):
		return errorTypeConcurrencyConflict
	case errors.Is(err, context.Canceled):
		return "context_canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "context_deadline_exceeded"
	default:
		return "database"
	}
}
