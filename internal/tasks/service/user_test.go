package service

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aussiebroadwan/tasktab/internal/tasks/store/drivers/sqlite"
	"github.com/aussiebroadwan/tasktab/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	cryptox.SetPepperPath(filepath.Join(t.TempDir(), "pepper"))

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	svc := &UserService{Store: newTestStore(t)}

	t.Run("stores a hash, never the plaintext", func(t *testing.T) {
		user, err := svc.Register(ctx, "alice", "pw1")
		require.NoError(t, err)
		require.False(t, user.ID.IsZero())
		require.Equal(t, "alice", user.Username)
		require.NotContains(t, user.PasswordHash, "pw1")
		require.True(t, strings.HasPrefix(user.PasswordHash, "$argon2id$"))
	})

	t.Run("second registration of the same username fails", func(t *testing.T) {
		_, err := svc.Register(ctx, "alice", "different-pw")
		require.ErrorIs(t, err, ErrDuplicateUser)
	})

	t.Run("empty username or password is rejected", func(t *testing.T) {
		_, err := svc.Register(ctx, "", "pw")
		require.ErrorIs(t, err, ErrInvalidInput)

		_, err = svc.Register(ctx, "bob", "")
		require.ErrorIs(t, err, ErrInvalidInput)

		_, err = svc.Register(ctx, "   ", "pw")
		require.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestVerify(t *testing.T) {
	ctx := context.Background()
	svc := &UserService{Store: newTestStore(t)}

	registered, err := svc.Register(ctx, "alice", "pw1")
	require.NoError(t, err)

	t.Run("correct credentials return the user", func(t *testing.T) {
		user, err := svc.Verify(ctx, "alice", "pw1")
		require.NoError(t, err)
		require.Equal(t, registered.ID, user.ID)
	})

	t.Run("wrong password and unknown username fail with distinct kinds", func(t *testing.T) {
		_, wrongPW := svc.Verify(ctx, "alice", "nope")
		require.ErrorIs(t, wrongPW, ErrInvalidCredentials)

		_, unknown := svc.Verify(ctx, "mallory", "pw1")
		require.ErrorIs(t, unknown, ErrUserNotFound)

		// Distinguishable internally, never equal to each other.
		require.NotErrorIs(t, wrongPW, ErrUserNotFound)
		require.NotErrorIs(t, unknown, ErrInvalidCredentials)
	})
}
