package ports

import (
	"context"

	"github.com/99minutos/task-manager/internal/core/domain"
)

// UserRepository defines persistence for user accounts.
type UserRepository interface {
	// FindByEmail returns domain.ErrUserNotFound when no user has that email.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// Create stores a new user. A duplicate email yields domain.ErrUserExists.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
