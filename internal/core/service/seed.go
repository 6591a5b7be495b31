package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/task-manager/internal/core/domain"
	"github.com/99minutos/task-manager/pkg/idgen"
)

// EnsureAdmin creates the bootstrap admin account unless a user with that
// email already exists. It reports whether a user was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return false, fmt.Errorf("ensure admin: %w: email and password are required", domain.ErrInvalidInput)
	}

	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		s.log.Info().Str("email", email).Msg("admin user already exists")
		return false, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return false, fmt.Errorf("ensure admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return false, fmt.Errorf("ensure admin: hash password: %w", err)
	}

	now := time.Now().UTC()
	admin, err := s.users.Create(ctx, &domain.User{
		ID:           idgen.New(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
		FirstName:    "Admin",
		LastName:     "User",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return false, fmt.Errorf("ensure admin: %w", err)
	}

	s.log.Info().Str("user_id", admin.ID).Str("email", admin.Email).Msg("admin user created")
	return true, nil
}
