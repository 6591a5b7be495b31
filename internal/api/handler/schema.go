package handler

import (
	"time"

	"github.com/99minutos/task-manager/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type signupRequest struct {
	Email       string `json:"email"       validate:"required,email"`
	Password    string `json:"password"    validate:"required,min=6"`
	InviteToken string `json:"inviteToken" validate:"required"`
	FirstName   string `json:"firstName"   validate:"omitempty,max=100"`
	LastName    string `json:"lastName"    validate:"omitempty,max=100"`
}

type authResponse struct {
	AccessToken string         `json:"accessToken"`
	User        domain.Profile `json:"user"`
}

// --- Invitations ---

type createInvitationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type invitationResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Token       string    `json:"token"`
	ExpiresAt   time.Time `json:"expiresAt"`
	IsUsed      bool      `json:"isUsed"`
	Status      string    `json:"status"`
	InvitedByID string    `json:"invitedById"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// --- Tasks ---

type createTaskRequest struct {
	Title       string `json:"title"       validate:"required,max=200"`
	Description string `json:"description" validate:"omitempty,max=2000"`
}

type updateTaskRequest struct {
	Title       *string `json:"title"       validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Status      *string `json:"status"      validate:"omitempty,oneof=pending in_progress done"`
}

type listTasksQuery struct {
	Page   int    `query:"page"   validate:"omitempty,min=1"`
	Limit  int    `query:"limit"  validate:"omitempty,min=1"`
	Cursor string `query:"cursor" validate:"omitempty,ulid"`
	Status string `query:"status" validate:"omitempty,oneof=pending in_progress done"`
	UserID string `query:"userId" validate:"omitempty,ulid"`
}

type taskListResponse struct {
	Data       []*domain.Task `json:"data"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	NextCursor string         `json:"nextCursor,omitempty"`
	HasMore    bool           `json:"hasMore"`
}
