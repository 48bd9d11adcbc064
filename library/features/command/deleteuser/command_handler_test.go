package deleteuser_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/circulation"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/features/command/deleteuser"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/shared/shell"
)

type storeFake struct {
	users         map[circulation.UserID]circulation.User
	activeLoans   map[circulation.UserID]int
	conflictsLeft int
	calls         int
}

func (s *storeFake) DeleteUser(_ context.Context, userID circulation.UserID) (circulation.DeletedUser, error) {
	s.calls++

	if s.conflictsLeft > 0 {
		s.conflictsLeft--
		return circulation.DeletedUser{}, circulation.ErrConcurrencyConflict
	}

	user, ok := s.users[userID]
	if !ok {
		return circulation.DeletedUser{}, circulation.ErrUserNotFound
	}

	if err := circulation.DecideUserDeletion(user, s.activeLoans[userID]); err != nil {
		return circulation.DeletedUser{}, err
	}

	delete(s.users, userID)

	return circulation.DeletedUser{UserID: userID}, nil
}

func newStore() *storeFake {
	return &storeFake{
		users: map[circulation.UserID]circulation.User{
			1: {ID: 1, Name: "Maria Clara", Role: circulation.RoleAdmin},
			2: {ID: 2, Name: "Padre Damaso", Role: circulation.RoleLibrarian},
			7: {ID: 7, Name: "Crisostomo Ibarra", Role: circulation.RoleMember},
			8: {ID: 8, Name: "Elias", Role: circulation.RoleMember},
		},
		activeLoans: map[circulation.UserID]int{8: 1},
	}
}

func admin() shell.Actor {
	return shell.BuildActor(1, circulation.RoleAdmin)
}

func fastRetry() deleteuser.Option {
	return deleteuser.WithRetryOptions(shell.WithBaseDelay(time.Millisecond), shell.WithJitterFactor(0))
}

func Test_CommandHandler_When_AdminDeletesAMember_Then_TheUserIsRemoved(t *testing.T) {
	// arrange
	store := newStore()
	handler := deleteuser.NewCommandHandler(store)

	// act
	deleted, result, err := handler.Handle(context.Background(), deleteuser.BuildCommand(admin(), 7))

	// assert
	require.NoError(t, err)
	assert.Equal(t, circulation.UserID(7), deleted.UserID)
	assert.False(t, result.Idempotent)
	assert.NotContains(t, store.users, circulation.UserID(7))
}

func Test_CommandHandler_When_TargetIsAnAdmin_Then_TheUserIsKept(t *testing.T) {
	// arrange
	store := newStore()
	handler := deleteuser.NewCommandHandler(store)

	// act
	_, _, err := handler.Handle(context.Background(), deleteuser.BuildCommand(admin(), 1))

	// assert
	assert.ErrorIs(t, err, circulation.ErrAdminRoleImmutable)
	assert.Contains(t, store.users, circulation.UserID(1))
}

func Test_CommandHandler_When_TargetHoldsAnActiveLoan_Then_TheUserIsKept(t *testing.T) {
	// arrange
	store := newStore()
	handler := deleteuser.NewCommandHandler(store, fastRetry())

	// act
	_, _, err := handler.Handle(context.Background(), deleteuser.BuildCommand(admin(), 8))

	// assert
	assert.ErrorIs(t, err, circulation.ErrUserHasActiveLoans)
	assert.Contains(t, store.users, circulation.UserID(8))
	assert.Equal(t, 1, store.calls, "domain errors are not retried")
}

func Test_CommandHandler_When_UserIsUnknown_Then_NotFoundIsReturned(t *testing.T) {
	// arrange
	handler := deleteuser.NewCommandHandler(newStore())

	// act
	_, _, err := handler.Handle(context.Background(), deleteuser.BuildCommand(admin(), 99))

	// assert
	assert.ErrorIs(t, err, circulation.ErrUserNotFound)
}

func Test_CommandHandler_When_TheStoreConflicts_Then_TheDeletionIsRetried(t *testing.T) {
	// arrange
	store := newStore()
	store.conflictsLeft = 2
	handler := deleteuser.NewCommandHandler(store, fastRetry())

	// act
	_, result, err := handler.Handle(context.Background(), deleteuser.BuildCommand(admin(), 7))

	// assert
	require.NoError(t, err)
	assert.Equal(t, 3, result.RetryAttempts)
	assert.Equal(t, 3, store.calls)
}

func Test_CommandHandler_When_LibrarianDeletesAUser_Then_ItIsNotPermitted(t *testing.T) {
	// arrange
	store := newStore()
	handler := deleteuser.NewCommandHandler(store)

	// act
	_, _, err := handler.Handle(context.Background(),
		deleteuser.BuildCommand(shell.BuildActor(2, circulation.RoleLibrarian), 7))

	// assert
	assert.ErrorIs(t, err, shell.ErrActorNotPermitted)
	assert.Equal(t, 0, store.calls)
}
