package httpapi

import (
	"net/http"

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
)

func (rt *router) addBook(w http.ResponseWriter, r *http.Request) {
	var body addBookRequest
	if err := decodeBody(r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	command := addbook.BuildCommand(actorFrom(r), circulation.NewBook(body))

	bookID, _, err := rt.handlers.AddBook.Handle(r.Context(), command)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, bookIDResponse{BookID: bookID})
}

func (rt *router) updateBook(w http.ResponseWriter, r *http.Request) {
	bookID, err := pathID(r, "bookID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var body updateBookRequest
	if err := decodeBody(r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	command := updatebook.BuildCommand(actorFrom(r), bookID,
		body.Title, body.Category, body.Genre, body.YearPublished, body.NumberOfCopies)

	result, _, err := rt.handlers.UpdateBook.Handle(r.Context(), command)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toReconcileResponse(result))
}

func (rt *router) deleteBook(w http.ResponseWriter, r *http.Request) {
	bookID, err := pathID(r, "bookID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, _, err := rt.handlers.DeleteBook.Handle(r.Context(), deletebook.BuildCommand(actorFrom(r), bookID))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toDeletedBookResponse(result))
}

func (rt *router) reconcileCopies(w http.ResponseWriter, r *http.Request) {
	bookID, err := pathID(r, "bookID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var body reconcileCopiesRequest
	if err := decodeBody(r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	if body.Target == nil {
		writeError(w, r, circulation.ValidationError{Field: "target", Reason: "is required"})
		return
	}

	result, _, err := rt.handlers.ReconcileCopies.Handle(r.Context(),
		reconcilecopies.BuildCommand(actorFrom(r), bookID, *body.Target))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toReconcileResponse(result))
}

func (rt *router) requestBorrow(w http.ResponseWriter, r *http.Request) {
	var body requestBorrowRequest
	if err := decodeBody(r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	actor := actorFrom(r)
	if body.UserID == 0 {
		body.UserID = actor.ID
	}

	record, _, err := rt.handlers.RequestBorrow.Handle(r.Context(),
		requestborrow.BuildCommand(actor, body.UserID, body.BookID))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toBorrowRecordResponse(record))
}

func (rt *router) advanceStatus(w http.ResponseWriter, r *http.Request) {
	recordID, err := pathID(r, "recordID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var body advanceStatusRequest
	if err := decodeBody(r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	status, err := circulation.ParseBorrowStatus(body.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}

	record, _, err := rt.handlers.AdvanceBorrowStatus.Handle(r.Context(),
		advanceborrowstatus.BuildCommand(actorFrom(r), recordID, status))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toBorrowRecordResponse(record))
}

func (rt *router) registerUser(w http.ResponseWriter, r *http.Request) {
	var body registerUserRequest
	if err := decodeBody(r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	role := circulation.Role(body.Role)
	if role == "" {
		role = circulation.RoleMember
	}

	userID, _, err := rt.handlers.RegisterUser.Handle(r.Context(),
		registeruser.BuildCommand(actorFrom(r), body.Name, role))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, userIDResponse{UserID: userID})
}

func (rt *router) deleteUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, _, err := rt.handlers.DeleteUser.Handle(r.Context(), deleteuser.BuildCommand(actorFrom(r), userID))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toDeletedUserResponse(result))
}

func (rt *router) changeUserRole(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var body changeRoleRequest
	if err := decodeBody(r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	role := circulation.Role(body.Role)

	changed, _, err := rt.handlers.ChangeUserRole.Handle(r.Context(),
		changeuserrole.BuildCommand(actorFrom(r), userID, role))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, roleChangeResponse{UserID: userID, Role: string(role), Changed: changed})
}
