package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/task-manager/internal/core/domain"
	"github.com/99minutos/task-manager/internal/core/ports"
	"github.com/99minutos/task-manager/pkg/idgen"
)

type TaskService struct {
	repo   ports.TaskRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewTaskService(repo ports.TaskRepository, logger zerolog.Logger) *TaskService {
	return &TaskService{repo: repo, logger: logger, now: time.Now}
}

// Create stores a new pending task owned by ownerID.
func (s *TaskService) Create(ctx context.Context, input ports.CreateTaskInput, ownerID string) (*domain.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}

	now := s.now().UTC()
	task := &domain.Task{
		ID:          idgen.NewAt(now),
		Title:       title,
		Description: input.Description,
		Status:      domain.TaskPending,
		UserID:      ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, task); err != nil {
		s.logger.Error().Err(err).Str("user_id", ownerID).Msg("failed to create task")
		return nil, err
	}

	s.logger.Info().Str("task_id", task.ID).Str("user_id", ownerID).Msg("task created")
	return task, nil
}

// List returns one window of the tasks visible to requester.
//
// Clients only ever see their own tasks; a userId filter is honoured for
// admins only. With a cursor the window starts right after the cursor id and
// page is reported as 1; otherwise page/limit select an offset window.
func (s *TaskService) List(ctx context.Context, in ports.ListTasksInput, requester domain.Identity) (*ports.TaskPage, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}
	limit := in.Limit
	if limit < 1 {
		limit = ports.DefaultPageLimit
	}
	if limit > ports.MaxPageLimit {
		limit = ports.MaxPageLimit
	}

	if in.Status != "" && !in.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, in.Status)
	}

	filter := ports.ListTasksFilter{
		Status: in.Status,
		Limit:  limit + 1,
	}

	switch requester.Role {
	case domain.RoleAdmin:
		filter.OwnerID = in.UserID
	default:
		filter.OwnerID = requester.ID
	}

	if in.Cursor != "" {
		filter.Cursor = in.Cursor
		page = 1
	} else {
		filter.Skip = (page - 1) * limit
	}

	tasks, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	result := &ports.TaskPage{
		Data:  tasks,
		Total: total,
		Page:  page,
		Limit: limit,
	}
	if len(tasks) > limit {
		result.Data = tasks[:limit]
		result.HasMore = true
		result.NextCursor = result.Data[limit-1].ID
	}
	if result.Data == nil {
		result.Data = []*domain.Task{}
	}

	return result, nil
}

// Get returns a task the requester is allowed to see.
func (s *TaskService) Get(ctx context.Context, id string, requester domain.Identity) (*domain.Task, error) {
	return s.findAccessible(ctx, id, requester)
}

// Update applies the fields present in patch and persists the task.
func (s *TaskService) Update(ctx context.Context, id string, patch domain.TaskPatch, requester domain.Identity) (*domain.Task, error) {
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, *patch.Status)
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, fmt.Errorf("%w: title cannot be empty", domain.ErrInvalidInput)
	}

	task, err := s.findAccessible(ctx, id, requester)
	if err != nil {
		return nil, err
	}

	if !task.Apply(patch, s.now().UTC()) {
		return task, nil
	}

	if err := s.repo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	s.logger.Info().Str("task_id", task.ID).Str("by", requester.ID).Msg("task updated")
	return task, nil
}

// Delete removes a task the requester is allowed to mutate.
func (s *TaskService) Delete(ctx context.Context, id string, requester domain.Identity) error {
	task, err := s.findAccessible(ctx, id, requester)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, task.ID); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	s.logger.Info().Str("task_id", task.ID).Str("by", requester.ID).Msg("task deleted")
	return nil
}

// findAccessible loads a task and enforces ownership: not found comes before
// forbidden.
func (s *TaskService) findAccessible(ctx context.Context, id string, requester domain.Identity) (*domain.Task, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}

	if !requester.CanAccess(task.UserID) {
		return nil, domain.ErrForbidden
	}
	return task, nil
}
