package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/tasktab/internal/tasks/domain"
	"github.com/aussiebroadwan/tasktab/internal/tasks/store"
	"github.com/aussiebroadwan/tasktab/pkg/idx"
)

type tasksRepo struct {
	q querier
}

const taskColumns = `id, owner_id, name, completed, reminder_interval, created_at, updated_at`

func (r *tasksRepo) CreateTask(ctx context.Context, t domain.Task) error {
	now := time.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = now
	}

	_, err := r.q.ExecContext(ctx,
		`INSERT INTO tasks (id, owner_id, name, completed, reminder_interval, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID.String(), t.OwnerID.String(), t.Name, t.Completed,
		mapOptionalInt64(t.ReminderInterval), t.CreatedAt, t.UpdatedAt)
	return mapConstraint(err)
}

func (r *tasksRepo) GetTaskByID(ctx context.Context, id idx.ID) (domain.Task, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id.String())
	return scanTask(row)
}

func (r *tasksRepo) ListTasksByOwner(ctx context.Context, ownerID idx.ID) ([]domain.Task, error) {
	// ULIDs sort by creation time, so ordering by id is insertion order.
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE owner_id = ? ORDER BY id`, ownerID.String())
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	tasks := make([]domain.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *tasksRepo) UpdateTask(ctx context.Context, t domain.Task) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE tasks
		 SET name = ?, completed = ?, reminder_interval = ?, updated_at = ?
		 WHERE id = ?`,
		t.Name, t.Completed, mapOptionalInt64(t.ReminderInterval),
		time.Now().UTC(), t.ID.String())
	if err != nil {
		return err
	}
	return requireRowChanged(res)
}

func (r *tasksRepo) DeleteTask(ctx context.Context, id idx.ID) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id.String())
	if err != nil {
		return err
	}
	return requireRowChanged(res)
}

func requireRowChanged(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func scanTask(row rowScanner) (domain.Task, error) {
	var (
		t        domain.Task
		id       string
		owner    string
		reminder sql.NullInt64
	)
	err := row.Scan(&id, &owner, &t.Name, &t.Completed, &reminder, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return domain.Task{}, mapNotFound(err)
	}

	t.ID = idx.ID(id)
	t.OwnerID = idx.ID(owner)
	t.ReminderInterval = mapNullInt64Ptr(reminder)
	return t, nil
}
