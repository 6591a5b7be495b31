package domain

import "time"

// TaskStatus is the progress marker of a task.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskDone       TaskStatus = "done"
)

// Valid reports whether s is a known status.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskPending, TaskInProgress, TaskDone:
		return true
	}
	return false
}

// Task is a unit of work owned by exactly one user.
type Task struct {
	ID          string     `json:"id" bson:"_id"`
	Title       string     `json:"title" bson:"title"`
	Description string     `json:"description,omitempty" bson:"description,omitempty"`
	Status      TaskStatus `json:"status" bson:"status"`
	UserID      string     `json:"userId" bson:"user_id"`
	CreatedAt   time.Time  `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" bson:"updated_at"`
}

// TaskPatch carries the fields of a partial update; nil means "leave as is".
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *TaskStatus
}

// Apply overrides only the fields present in p and reports whether anything
// was set.
func (t *Task) Apply(p TaskPatch, now time.Time) bool {
	changed := false
	if p.Title != nil {
		t.Title = *p.Title
		changed = true
	}
	if p.Description != nil {
		t.Description = *p.Description
		changed = true
	}
	if p.Status != nil {
		t.Status = *p.Status
		changed = true
	}
	if changed {
		t.UpdatedAt = now
	}
	return changed
}
