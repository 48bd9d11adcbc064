package postgresengine

import (
	"context"
	"strconv"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/circulation"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/circulation/postgresengine/internal/adapters"
)

// RegisterUser stores a user known to the identity provider so it can borrow books.
func (s Store) RegisterUser(ctx context.Context, name string, role circulation.Role) (circulation.UserID, error) {
	observer, ctx := s.startOperation(ctx, operationRegisterUser, map[string]string{colRole: string(role)})

	var userID circulation.UserID

	err := circulation.ValidateUserName(name)
	if err == nil && !role.IsValid() {
		err = circulation.ValidationError{Field: colRole, Reason: "unknown role " + string(role)}
	}

	if err == nil {
		userID, err = s.insertReturningID(ctx, s.db, "insert user",
			s.dialect.Insert(tableUsers).
				Rows(goqu.Record{colName: name, colRole: string(role)}).
				Returning(colID))
	}

	observer.finish(err, colUserID, userID)

	return userID, err
}

// ChangeUserRole assigns a new role to a user. Admin roles are immutable.
// It reports changed=false when the user already had the role.
//
// Errors: circulation.ErrUserNotFound, circulation.ErrAdminRoleImmutable, circulation.ValidationError.
func (s Store) ChangeUserRole(ctx context.Context, userID circulation.UserID, role circulation.Role) (bool, error) {
	observer, ctx := s.startOperation(ctx, operationChangeUserRole, map[string]string{
		colUserID: strconv.FormatInt(userID, 10),
		colRole:   string(role),
	})

	changed := false

	err := s.inTransaction(ctx, func(tx adapters.DBTx) error {
		users, err := s.selectUsers(ctx, tx, "lock user",
			s.dialect.From(tableUsers).
				Select(colID, colName, colRole).
				Where(goqu.C(colID).Eq(userID)).
				ForUpdate(exp.Wait))
		if err != nil {
			return err
		}

		if len(users) == 0 {
			return circulation.ErrUserNotFound
		}

		changed, err = circulation.DecideRoleChange(users[0].Role, role)
		if err != nil || !changed {
			return err
		}

		_, err = s.exec(ctx, tx, "update user role",
			s.dialect.Update(tableUsers).Set(goqu.Record{colRole: string(role)}).Where(goqu.C(colID).Eq(userID)))

		return err
	})

	observer.finish(err, colUserID, userID, "changed", changed)

	return changed, err
}

// DeleteUser removes a user. Admins and users with Pending or Accepted loans are kept.
// The user's finished loans are moved to the loan history before the delete.
//
// Errors: circulation.ErrUserNotFound, circulation.ErrAdminRoleImmutable, circulation.ErrUserHasActiveLoans,
// circulation.ErrConcurrencyConflict (retryable).
func (s Store) DeleteUser(ctx context.Context, userID circulation.UserID) (circulation.DeletedUser, error) {
	observer, ctx := s.startOperation(ctx, operationDeleteUser, map[string]string{
		colUserID: strconv.FormatInt(userID, 10),
	})

	deleted := circulation.DeletedUser{UserID: userID}

	err := s.inTransaction(ctx, func(tx adapters.DBTx) error {
		// blocks new loans: their foreign key check waits for this lock
		users, err := s.selectUsers(ctx, tx, "lock user",
			s.dialect.From(tableUsers).
				Select(colID, colName, colRole).
				Where(goqu.C(colID).Eq(userID)).
				ForUpdate(exp.Wait))
		if err != nil {
			return err
		}

		if len(users) == 0 {
			return circulation.ErrUserNotFound
		}

		activeLoans, err := s.count(ctx, tx, "count active loans of user",
			s.dialect.From(tableBorrowRecords).
				Select(goqu.COUNT(goqu.Star())).
				Where(goqu.C(colUserID).Eq(userID), goqu.C(colStatusID).In(activeStatusIDs())))
		if err != nil {
			return err
		}

		if err = circulation.DecideUserDeletion(users[0], activeLoans); err != nil {
			return err
		}

		deleted.ArchivedLoans, err = s.archiveLoans(ctx, tx, goqu.I("br."+colUserID).Eq(userID))
		if err != nil {
			return err
		}

		_, err = s.exec(ctx, tx, "delete user", s.dialect.Delete(tableUsers).Where(goqu.C(colID).Eq(userID)))

		return err
	})

	observer.finish(err, colUserID, userID, "archived_loans", len(deleted.ArchivedLoans))

	if err != nil {
		return circulation.DeletedUser{}, err
	}

	return deleted, nil
}

// GetUser reads one user.
func (s Store) GetUser(ctx context.Context, userID circulation.UserID) (circulation.User, error) {
	users, err := s.selectUsers(ctx, s.db, "get user",
		s.dialect.From(tableUsers).Select(colID, colName, colRole).Where(goqu.C(colID).Eq(userID)))
	if err != nil {
		return circulation.User{}, err
	}

	if len(users) == 0 {
		return circulation.User{}, circulation.ErrUserNotFound
	}

	return users[0], nil
}

func (s Store) selectUsers(ctx context.Context, q queryer, action string, builder sqlBuilder) ([]circulation.User, error) {
	users := make([]circulation.User, 0, 1)

	err := s.query(ctx, q, action, builder, func(rows adapters.DBRows) error {
		var user circulation.User
		var role string

		if err := rows.Scan(&user.ID, &user.Name, &role); err != nil {
			return err
		}

		user.Role = circulation.Role(role)
		users = append(users, user)

		return nil
	})

	return users, err
}

func (s Store) count(ctx context.Context, q queryer, action string, builder sqlBuilder) (int, error) {
	var n int

	err := s.query(ctx, q, action, builder, func(rows adapters.DBRows) error {
		return rows.Scan(&n)
	})

	return n, err
}
