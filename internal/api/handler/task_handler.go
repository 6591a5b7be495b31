package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/task-manager/internal/api/metrics"
	"github.com/99minutos/task-manager/internal/core/domain"
	"github.com/99minutos/task-manager/internal/core/ports"
)

// TaskHandler handles HTTP requests for task operations.
type TaskHandler struct {
	service ports.TaskService
}

func NewTaskHandler(service ports.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// Create handles POST /tasks.
//
// @Summary      Create a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTaskRequest  true  "Task"
// @Success      201   {object}  domain.Task
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /tasks [post]
func (h *TaskHandler) Create(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createTaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	task, err := h.service.Create(c.Request().Context(), ports.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
	}, identity.ID)
	if err != nil {
		return err
	}

	metrics.TaskOperationsTotal.WithLabelValues("create").Inc()
	return c.JSON(http.StatusCreated, task)
}

// List handles GET /tasks.
//
// @Summary      List tasks
// @Description  Clients see their own tasks. Admins see every task and may filter by userId.
// @Description  A cursor takes precedence over page.
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Page size (default 10, max 100)"
// @Param        cursor  query     string  false  "Id of the last task of the previous page"
// @Param        status  query     string  false  "pending | in_progress | done"
// @Param        userId  query     string  false  "Owner filter (admin only)"
// @Success      200     {object}  taskListResponse
// @Failure      400     {object}  errorResponse
// @Failure      401     {object}  errorResponse
// @Router       /tasks [get]
func (h *TaskHandler) List(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var q listTasksQuery
	if err := bindAndValidate(c, &q); err != nil {
		return err
	}

	mode := "offset"
	if q.Cursor != "" {
		mode = "cursor"
	}
	start := time.Now()

	page, err := h.service.List(c.Request().Context(), ports.ListTasksInput{
		Page:   q.Page,
		Limit:  q.Limit,
		Cursor: q.Cursor,
		Status: domain.TaskStatus(q.Status),
		UserID: q.UserID,
	}, identity)
	if err != nil {
		return err
	}
	metrics.TaskListDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())

	return c.JSON(http.StatusOK, taskListResponse{
		Data:       page.Data,
		Total:      page.Total,
		Page:       page.Page,
		Limit:      page.Limit,
		NextCursor: page.NextCursor,
		HasMore:    page.HasMore,
	})
}

// Get handles GET /tasks/:id.
//
// @Summary      Get a task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Task id"
// @Success      200  {object}  domain.Task
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /tasks/{id} [get]
func (h *TaskHandler) Get(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	task, err := h.service.Get(c.Request().Context(), c.Param("id"), identity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

// Update handles PATCH /tasks/:id. Only the fields present in the body change.
//
// @Summary      Update a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Task id"
// @Param        body  body      updateTaskRequest  true  "Fields to change"
// @Success      200   {object}  domain.Task
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /tasks/{id} [patch]
func (h *TaskHandler) Update(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req updateTaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	patch := domain.TaskPatch{Title: req.Title, Description: req.Description}
	if req.Status != nil {
		status := domain.TaskStatus(*req.Status)
		patch.Status = &status
	}

	task, err := h.service.Update(c.Request().Context(), c.Param("id"), patch, identity)
	if err != nil {
		return err
	}

	metrics.TaskOperationsTotal.WithLabelValues("update").Inc()
	return c.JSON(http.StatusOK, task)
}

// Delete handles DELETE /tasks/:id.
//
// @Summary      Delete a task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Task id"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /tasks/{id} [delete]
func (h *TaskHandler) Delete(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), c.Param("id"), identity); err != nil {
		return err
	}

	metrics.TaskOperationsTotal.WithLabelValues("delete").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "task deleted"})
}
