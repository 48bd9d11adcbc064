package httpapi

import (
	"errors"
	"net/http"

	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/circulation"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/shared/shell"
)

// ErrBadRequest marks malformed path parameters and request bodies.
var ErrBadRequest = errors.New("bad request")

var conflictErrors = []error{
	circulation.ErrAlreadyBorrowed,
	circulation.ErrAlreadyReturned,
	circulation.ErrNoAvailableCopies,
	circulation.ErrCannotReduceCopies,
	circulation.ErrAdminRoleImmutable,
	circulation.ErrUserHasActiveLoans,
}

// StatusCodeOf maps an error returned by a handler to the HTTP status of the response.
func StatusCodeOf(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, shell.ErrActorNotPermitted), errors.Is(err, shell.ErrInvalidActor):
		return http.StatusForbidden
	case errors.Is(err, circulation.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, circulation.ErrValidation), errors.Is(err, circulation.ErrInvalidTransition):
		return http.StatusUnprocessableEntity
	case errors.Is(err, circulation.ErrConcurrencyConflict):
		return http.StatusServiceUnavailable
	}

	for _, conflict := range conflictErrors {
		if errors.Is(err, conflict) {
			return http.StatusConflict
		}
	}

	return http.StatusInternalServerError
}

// publicMessage hides the details of unexpected failures from clients.
func publicMessage(err error, status int) string {
	if status == http.StatusInternalServerError {
		return http.StatusText(status)
	}

	return err.Error()
}
