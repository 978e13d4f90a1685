package sqlite_test

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/tasktab/internal/tasks/domain"
	"github.com/aussiebroadwan/tasktab/internal/tasks/store"
	"github.com/aussiebroadwan/tasktab/internal/tasks/store/drivers/sqlite"
	"github.com/aussiebroadwan/tasktab/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func createTestUser(t *testing.T, st store.Store, username string) domain.User {
	t.Helper()

	u := domain.User{
		ID:           idx.New(),
		Username:     username,
		PasswordHash: "hash",
	}
	require.NoError(t, st.Users().CreateUser(context.Background(), u))
	return u
}

func TestUsersRepo(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	alice := createTestUser(t, st, "alice")

	t.Run("lookup by id and username", func(t *testing.T) {
		byID, err := st.Users().GetUserByID(ctx, alice.ID)
		require.NoError(t, err)
		require.Equal(t, "alice", byID.Username)
		require.False(t, byID.CreatedAt.IsZero())

		byName, err := st.Users().GetUserByUsername(ctx, "alice")
		require.NoError(t, err)
		require.Equal(t, alice.ID, byName.ID)
	})

	t.Run("missing user maps to ErrNotFound", func(t *testing.T) {
		_, err := st.Users().GetUserByUsername(ctx, "nobody")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("duplicate username maps to ErrAlreadyExists", func(t *testing.T) {
		err := st.Users().CreateUser(ctx, domain.User{
			ID:           idx.New(),
			Username:     "alice",
			PasswordHash: "other",
		})
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})
}

func TestTasksRepo(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	alice := createTestUser(t, st, "alice")

	t.Run("create and get round trip", func(t *testing.T) {
		interval := int64(30)
		task := domain.Task{
			ID:               idx.New(),
			OwnerID:          alice.ID,
			Name:             "buy milk",
			ReminderInterval: &interval,
		}
		require.NoError(t, st.Tasks().CreateTask(ctx, task))

		got, err := st.Tasks().GetTaskByID(ctx, task.ID)
		require.NoError(t, err)
		require.Equal(t, "buy milk", got.Name)
		require.Equal(t, alice.ID, got.OwnerID)
		require.False(t, got.Completed)
		require.NotNil(t, got.ReminderInterval)
		require.EqualValues(t, 30, *got.ReminderInterval)
	})

	t.Run("list preserves insertion order", func(t *testing.T) {
		bob := createTestUser(t, st, "bob")

		first := domain.Task{ID: idx.New(), OwnerID: bob.ID, Name: "first"}
		second := domain.Task{ID: idx.New(), OwnerID: bob.ID, Name: "second"}
		require.NoError(t, st.Tasks().CreateTask(ctx, first))
		require.NoError(t, st.Tasks().CreateTask(ctx, second))

		tasks, err := st.Tasks().ListTasksByOwner(ctx, bob.ID)
		require.NoError(t, err)
		require.Len(t, tasks, 2)
		require.Equal(t, "first", tasks[0].Name)
		require.Equal(t, "second", tasks[1].Name)
	})

	t.Run("update writes mutable fields", func(t *testing.T) {
		task := domain.Task{ID: idx.New(), OwnerID: alice.ID, Name: "old name"}
		require.NoError(t, st.Tasks().CreateTask(ctx, task))

		task.Name = "new name"
		task.Completed = true
		require.NoError(t, st.Tasks().UpdateTask(ctx, task))

		got, err := st.Tasks().GetTaskByID(ctx, task.ID)
		require.NoError(t, err)
		require.Equal(t, "new name", got.Name)
		require.True(t, got.Completed)
		require.Nil(t, got.ReminderInterval)
	})

	t.Run("update and delete of missing task map to ErrNotFound", func(t *testing.T) {
		missing := domain.Task{ID: idx.New(), OwnerID: alice.ID, Name: "ghost"}
		require.ErrorIs(t, st.Tasks().UpdateTask(ctx, missing), store.ErrNotFound)
		require.ErrorIs(t, st.Tasks().DeleteTask(ctx, missing.ID), store.ErrNotFound)
	})

	t.Run("delete removes the row", func(t *testing.T) {
		task := domain.Task{ID: idx.New(), OwnerID: alice.ID, Name: "short lived"}
		require.NoError(t, st.Tasks().CreateTask(ctx, task))
		require.NoError(t, st.Tasks().DeleteTask(ctx, task.ID))

		_, err := st.Tasks().GetTaskByID(ctx, task.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("create with unknown owner violates the foreign key", func(t *testing.T) {
		err := st.Tasks().CreateTask(ctx, domain.Task{
			ID:      idx.New(),
			OwnerID: idx.New(), // no such user
			Name:    "orphan",
		})
		require.Error(t, err)
	})
}

func TestWithTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	alice := createTestUser(t, st, "alice")

	task := domain.Task{ID: idx.New(), OwnerID: alice.ID, Name: "kept out"}
	err := st.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Tasks().CreateTask(ctx, task); err != nil {
			return err
		}
		return context.Canceled // force rollback
	})
	require.Error(t, err)

	_, err = st.Tasks().GetTaskByID(ctx, task.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}
