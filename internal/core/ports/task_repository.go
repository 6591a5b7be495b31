package ports

import (
	"context"

	"github.com/99minutos/task-manager/internal/core/domain"
)

// ListTasksFilter carries the resolved query for a task listing.
// OwnerID is always decided by the service layer (RBAC).
type ListTasksFilter struct {
	OwnerID string            // empty = every owner (admin only)
	Status  domain.TaskStatus // optional
	Cursor  string            // optional: only ids strictly older than Cursor
	Skip    int               // ignored when Cursor is set
	Limit   int               // rows to fetch
}

// TaskRepository defines persistence operations for tasks.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	// FindByID returns domain.ErrTaskNotFound when the id is unknown.
	FindByID(ctx context.Context, id string) (*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id string) error
	// List returns the rows in the requested window, newest first, and the
	// number of rows matching OwnerID and Status regardless of the window.
	List(ctx context.Context, filter ListTasksFilter) ([]*domain.Task, int64, error)
}
