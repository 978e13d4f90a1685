package domain

import (
	"time"

	"github.com/aussiebroadwan/tasktab/pkg/idx"
)

// Task is a single to-do item owned by exactly one user. Ownership is fixed
// at creation; there is no transfer operation.
type Task struct {
	ID        idx.ID
	OwnerID   idx.ID
	Name      string
	Completed bool

	// ReminderInterval is an optional interval in minutes. It is stored and
	// returned as-is; nothing in the service acts on it.
	ReminderInterval *int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TaskPatch is a partial update to a task's mutable fields. Nil fields are
// left untouched.
type TaskPatch struct {
	Name             *string
	Completed        *bool
	ReminderInterval *int64
}

// Apply copies the non-nil patch fields onto the task.
func (p TaskPatch) Apply(t *Task) {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.ReminderInterval != nil {
		t.ReminderInterval = p.ReminderInterval
	}
}

// IsZero reports whether the patch changes nothing.
func (p TaskPatch) IsZero() bool {
	return p.Name == nil && p.Completed == nil && p.ReminderInterval == nil
}
