package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/task-manager/internal/core/domain"
	"github.com/99minutos/task-manager/internal/core/ports"
	"github.com/99minutos/task-manager/pkg/idgen"
)

// MinBcryptCost is the lowest hashing cost accepted for stored passwords.
const MinBcryptCost = 10

// InvitationGate is the slice of the invitation lifecycle that signup needs.
type InvitationGate interface {
	ValidateInvitation(ctx context.Context, token string) (*domain.Invitation, error)
	MarkAsUsed(ctx context.Context, id string) error
}

// AuthService implements credential checks, login and invite-gated signup.
type AuthService struct {
	users       ports.UserRepository
	invitations InvitationGate
	tokens      ports.TokenCodec
	throttle    ports.LoginThrottle
	bcryptCost  int
	log         zerolog.Logger
}

// AuthOption tweaks an AuthService at construction time.
type AuthOption func(*AuthService)

// WithLoginThrottle enables the failed-login limiter.
func WithLoginThrottle(t ports.LoginThrottle) AuthOption {
	return func(s *AuthService) { s.throttle = t }
}

// WithBcryptCost overrides the hashing cost; values below MinBcryptCost are ignored.
func WithBcryptCost(cost int) AuthOption {
	return func(s *AuthService) {
		if cost >= MinBcryptCost {
			s.bcryptCost = cost
		}
	}
}

func NewAuthService(
	users ports.UserRepository,
	invitations InvitationGate,
	tokens ports.TokenCodec,
	log zerolog.Logger,
	opts ...AuthOption,
) *AuthService {
	s := &AuthService{
		users:       users,
		invitations: invitations,
		tokens:      tokens,
		bcryptCost:  MinBcryptCost,
		log:         log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ValidateUser returns the user owning email when password matches its
// stored hash, or nil when the email is unknown or the password is wrong.
// The returned user never carries the hash.
func (s *AuthService) ValidateUser(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("validate user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, nil
	}

	user.PasswordHash = ""
	return user, nil
}

// Login checks the credentials and mints an access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	email = normalizeEmail(email)

	if s.throttle != nil {
		blocked, err := s.throttle.Blocked(ctx, email)
		if err != nil {
			s.log.Warn().Err(err).Str("email", email).Msg("login throttle check failed, continuing")
		} else if blocked {
			return nil, domain.ErrTooManyAttempts
		}
	}

	user, err := s.ValidateUser(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if user == nil {
		s.recordFailure(ctx, email)
		return nil, domain.ErrInvalidCredentials
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, email); err != nil {
			s.log.Warn().Err(err).Str("email", email).Msg("failed to reset login throttle")
		}
	}

	return s.issue(user)
}

// Signup creates a client account for the holder of a valid invitation.
// The email check runs before the invitation check so callers can tell a
// taken address from a bad token.
func (s *AuthService) Signup(ctx context.Context, in ports.SignupInput) (*domain.AuthResult, error) {
	email := normalizeEmail(in.Email)

	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return nil, domain.ErrUserExists
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("signup: lookup user: %w", err)
	}

	invitation, err := s.invitations.ValidateInvitation(ctx, in.InviteToken)
	if err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}
	if invitation == nil {
		return nil, domain.ErrInvalidInvitation
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("signup: hash password: %w", err)
	}

	now := time.Now().UTC()
	user, err := s.users.Create(ctx, &domain.User{
		ID:           idgen.New(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleClient,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	if err := s.invitations.MarkAsUsed(ctx, invitation.ID); err != nil {
		return nil, fmt.Errorf("signup: consume invitation: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Str("invitation_id", invitation.ID).Msg("user signed up")

	return s.issue(user)
}

func (s *AuthService) issue(user *domain.User) (*domain.AuthResult, error) {
	token, err := s.tokens.Sign(user.Identity())
	if err != nil {
		return nil, err
	}
	return &domain.AuthResult{AccessToken: token, User: user.Profile()}, nil
}

func (s *AuthService) recordFailure(ctx context.Context, email string) {
	if s.throttle == nil {
		return
	}
	if err := s.throttle.RecordFailure(ctx, email); err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("failed to record login failure")
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
