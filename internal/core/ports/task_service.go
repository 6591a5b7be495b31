package ports

import (
	"context"

	"github.com/99minutos/task-manager/internal/core/domain"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// CreateTaskInput carries the fields of a new task.
type CreateTaskInput struct {
	Title       string
	Description string
}

// ListTasksInput carries the raw list query.
type ListTasksInput struct {
	Page   int
	Limit  int
	Cursor string
	Status domain.TaskStatus
	UserID string // honoured for admins only
}

// TaskPage is one window of a task listing.
type TaskPage struct {
	Data       []*domain.Task
	Total      int64
	Page       int
	Limit      int
	NextCursor string
	HasMore    bool
}

// TaskService defines the access-scoped task operations.
type TaskService interface {
	Create(ctx context.Context, input CreateTaskInput, ownerID string) (*domain.Task, error)
	List(ctx context.Context, input ListTasksInput, requester domain.Identity) (*TaskPage, error)
	Get(ctx context.Context, id string, requester domain.Identity) (*domain.Task, error)
	Update(ctx context.Context, id string, patch domain.TaskPatch, requester domain.Identity) (*domain.Task, error)
	Delete(ctx context.Context, id string, requester domain.Identity) error
}
