package ports

import (
	"context"

	"github.com/99minutos/task-manager/internal/core/domain"
)

// InvitationRepository persists invitations. Lookups that find nothing return
// domain.ErrInvitationNotFound.
type InvitationRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Invitation, error)
	// FindByEmail returns the invitation row for email regardless of its state.
	FindByEmail(ctx context.Context, email string) (*domain.Invitation, error)
	// FindUnusedByToken only matches rows whose used flag is false.
	FindUnusedByToken(ctx context.Context, token string) (*domain.Invitation, error)
	Insert(ctx context.Context, inv *domain.Invitation) error
	// Save overwrites token, expiry and used flag of an existing row.
	Save(ctx context.Context, inv *domain.Invitation) error
	// MarkUsed flips the used flag of an unused row. It reports false when
	// the id is unknown or the row was already used.
	MarkUsed(ctx context.Context, id string) (bool, error)
	// List returns invitations newest first; an empty invitedByID lists all.
	List(ctx context.Context, invitedByID string) ([]*domain.Invitation, error)
}
