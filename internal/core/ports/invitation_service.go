package ports

import (
	"context"

	"github.com/99minutos/task-manager/internal/core/domain"
)

// InvitationService manages the invitation lifecycle.
type InvitationService interface {
	Create(ctx context.Context, email, invitedByID string) (*domain.Invitation, error)
	List(ctx context.Context, invitedByID string) ([]*domain.Invitation, error)
	Resend(ctx context.Context, id, requestedByID string) (*domain.Invitation, error)
}
