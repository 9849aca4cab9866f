package accounts_test

import (
	"context"
	"testing"

	"github.com/nasermirzaei89/vidstream/accounts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepository struct {
	byID     map[string]*accounts.User
	byHandle map[string]*accounts.User
}

var _ accounts.Repository = (*fakeUserRepository)(nil)

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{
		byID:     make(map[string]*accounts.User),
		byHandle: make(map[string]*accounts.User),
	}
}

func (repo *fakeUserRepository) Insert(_ context.Context, user *accounts.User) error {
	if _, ok := repo.byHandle[user.Handle]; ok {
		return accounts.HandleTakenError{Handle: user.Handle}
	}

	repo.byID[user.ID] = user
	repo.byHandle[user.Handle] = user

	return nil
}

func (repo *fakeUserRepository) FindByID(_ context.Context, id string) (*accounts.User, error) {
	user, ok := repo.byID[id]
	if !ok {
		return nil, accounts.UserNotFoundError{ID: id}
	}

	return user, nil
}

func TestRegister(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("normalizes the handle", func(t *testing.T) {
		t.Parallel()

		svc := accounts.NewService(newFakeUserRepository())

		user, err := svc.Register(ctx, accounts.RegisterRequest{Handle: "  Alice "})
		require.NoError(t, err)

		assert.Equal(t, "alice", user.Handle)
		assert.Equal(t, "alice", user.DisplayName)
		assert.NotEmpty(t, user.ID)
	})

	t.Run("keeps an explicit display name", func(t *testing.T) {
		t.Parallel()

		svc := accounts.NewService(newFakeUserRepository())

		user, err := svc.Register(ctx, accounts.RegisterRequest{Handle: "bob", DisplayName: "Bob the Builder"})
		require.NoError(t, err)

		assert.Equal(t, "Bob the Builder", user.DisplayName)
	})

	t.Run("rejects malformed handles", func(t *testing.T) {
		t.Parallel()

		svc := accounts.NewService(newFakeUserRepository())

		for _, handle := range []string{"", "   ", "has space"} {
			_, err := svc.Register(ctx, accounts.RegisterRequest{Handle: handle})

			var invalidHandleErr accounts.InvalidHandleError

			require.ErrorAs(t, err, &invalidHandleErr, "handle %q", handle)
		}
	})

	t.Run("duplicate handle conflicts", func(t *testing.T) {
		t.Parallel()

		svc := accounts.NewService(newFakeUserRepository())

		_, err := svc.Register(ctx, accounts.RegisterRequest{Handle: "carol"})
		require.NoError(t, err)

		_, err = svc.Register(ctx, accounts.RegisterRequest{Handle: "Carol"})

		var handleTakenErr accounts.HandleTakenError

		require.ErrorAs(t, err, &handleTakenErr)
		assert.Equal(t, "carol", handleTakenErr.Handle)
	})
}

func TestGetUser(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	svc := accounts.NewService(newFakeUserRepository())

	user, err := svc.Register(ctx, accounts.RegisterRequest{Handle: "dave"})
	require.NoError(t, err)

	found, err := svc.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = svc.GetUser(ctx, "missing")

	var notFoundErr accounts.UserNotFoundError

	require.ErrorAs(t, err, &notFoundErr)
}
