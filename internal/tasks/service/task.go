package service

import (
	"context"
	"errors"
	"strings"

	"github.com/aussiebroadwan/tasktab/internal/tasks/domain"
	"github.com/aussiebroadwan/tasktab/internal/tasks/store"
	"github.com/aussiebroadwan/tasktab/pkg/idx"
	"github.com/aussiebroadwan/tasktab/pkg/slogx"
)

// ErrTaskNotFound covers both "task does not exist" and "task belongs to
// someone else". The two cases are deliberately indistinguishable so a
// caller cannot probe for the existence of other users' tasks.
var ErrTaskNotFound = errors.New("task_not_found")

// TaskService is the authorization boundary for all task operations. Every
// entry point takes the caller's identity explicitly and enforces ownership
// before touching the repository; the repository itself has no authorization
// awareness.
type TaskService struct {
	Store store.Store
}

// ListTasks returns the caller's tasks in insertion order. Tasks owned by
// other users are never included.
func (s *TaskService) ListTasks(ctx context.Context, caller idx.ID) ([]domain.Task, error) {
	return s.Store.Tasks().ListTasksByOwner(ctx, caller)
}

// CreateTask creates a new incomplete task owned by the caller.
func (s *TaskService) CreateTask(ctx context.Context, caller idx.ID, name string) (domain.Task, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Task{}, ErrInvalidInput
	}

	task := domain.Task{
		ID:      idx.New(),
		OwnerID: caller,
		Name:    name,
	}
	if err := s.Store.Tasks().CreateTask(ctx, task); err != nil {
		return domain.Task{}, err
	}

	slogx.FromContext(ctx).Info("task created", "task_id", task.ID.String())

	// Re-read so the caller sees the persisted timestamps.
	return s.Store.Tasks().GetTaskByID(ctx, task.ID)
}

// UpdateTask applies a partial update to one of the caller's tasks. Fields
// absent from the patch retain their prior values. The load, ownership check
// and write happen in one transaction.
func (s *TaskService) UpdateTask(
	ctx context.Context,
	caller idx.ID,
	taskID idx.ID,
	patch domain.TaskPatch,
) (domain.Task, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return domain.Task{}, ErrInvalidInput
	}

	var result domain.Task
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		task, err := authorizeTask(ctx, tx, caller, taskID)
		if err != nil {
			return err
		}

		if patch.IsZero() {
			// Nothing to write; don't bump updated_at.
			result = task
			return nil
		}

		patch.Apply(&task)
		if err := tx.Tasks().UpdateTask(ctx, task); err != nil {
			return err
		}

		result, err = tx.Tasks().GetTaskByID(ctx, taskID)
		return err
	})
	if err != nil {
		return domain.Task{}, err
	}
	return result, nil
}

// DeleteTask removes one of the caller's tasks.
func (s *TaskService) DeleteTask(ctx context.Context, caller idx.ID, taskID idx.ID) error {
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := authorizeTask(ctx, tx, caller, taskID); err != nil {
			return err
		}
		return tx.Tasks().DeleteTask(ctx, taskID)
	})
}

// UpdateReminder sets only the task's reminder interval, leaving every other
// field untouched. A nil interval leaves the stored value as-is. The
// interval is inert data: nothing in the service schedules or delivers
// reminders.
func (s *TaskService) UpdateReminder(
	ctx context.Context,
	caller idx.ID,
	taskID idx.ID,
	interval *int64,
) (domain.Task, error) {
	return s.UpdateTask(ctx, caller, taskID, domain.TaskPatch{ReminderInterval: interval})
}

// authorizeTask is the single ownership predicate shared by every mutating
// operation: confirm the task exists, then confirm the caller owns it. Both
// failure modes return the identical ErrTaskNotFound.
func authorizeTask(ctx context.Context, tx store.Tx, caller idx.ID, taskID idx.ID) (domain.Task, error) {
	task, err := tx.Tasks().GetTaskByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Task{}, ErrTaskNotFound
		}
		return domain.Task{}, err
	}

	if task.OwnerID != caller {
		return domain.Task{}, ErrTaskNotFound
	}

	return task, nil
}
