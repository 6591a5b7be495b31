package ports

import (
	"context"
	"time"

	"github.com/99minutos/task-manager/internal/core/domain"
)

// SignupInput carries the fields of an invite-gated signup.
type SignupInput struct {
	Email       string
	Password    string
	InviteToken string
	FirstName   string
	LastName    string
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*domain.AuthResult, error)
	Signup(ctx context.Context, input SignupInput) (*domain.AuthResult, error)
}

// TokenCodec signs and verifies session tokens.
type TokenCodec interface {
	Sign(identity domain.Identity) (string, error)
	Verify(token string) (domain.Identity, error)
}

// LoginThrottle counts failed logins per email.
type LoginThrottle interface {
	// Blocked reports whether email has exhausted its attempts.
	Blocked(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}

// InvitationNotice is handed to the delivery channel whenever a token is
// issued or reissued.
type InvitationNotice struct {
	InvitationID string
	Email        string
	Token        string
	ExpiresAt    time.Time
	Resent       bool
}

// InvitationNotifier accepts notices without blocking the caller.
type InvitationNotifier interface {
	Notify(notice InvitationNotice)
}

// InvitationDelivery performs the actual out-of-band delivery of a notice.
type InvitationDelivery interface {
	Deliver(ctx context.Context, notice InvitationNotice) error
}
