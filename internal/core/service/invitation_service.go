package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/task-manager/internal/core/domain"
	"github.com/99minutos/task-manager/internal/core/ports"
	"github.com/99minutos/task-manager/pkg/idgen"
)

// invitationTokenBytes yields a 64 character hex token.
const invitationTokenBytes = 32

type InvitationService struct {
	repo     ports.InvitationRepository
	notifier ports.InvitationNotifier
	log      zerolog.Logger
	now      func() time.Time
}

func NewInvitationService(repo ports.InvitationRepository, notifier ports.InvitationNotifier, log zerolog.Logger) *InvitationService {
	return &InvitationService{repo: repo, notifier: notifier, log: log, now: time.Now}
}

// Create issues an invitation for email. An existing row that is expired or
// already used is reissued in place; an active one is an error.
func (s *InvitationService) Create(ctx context.Context, email, invitedByID string) (*domain.Invitation, error) {
	email = normalizeEmail(email)
	now := s.now().UTC()

	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrInvitationNotFound) {
		return nil, fmt.Errorf("create invitation: %w", err)
	}
	if existing != nil && existing.State(now) == domain.InvitationActive {
		return nil, domain.ErrActiveInvitationExists
	}

	token, err := generateInvitationToken()
	if err != nil {
		return nil, fmt.Errorf("create invitation: %w", err)
	}

	var inv *domain.Invitation
	if existing != nil {
		existing.Reissue(token, now)
		if err := s.repo.Save(ctx, existing); err != nil {
			return nil, fmt.Errorf("create invitation: %w", err)
		}
		inv = existing
	} else {
		inv = &domain.Invitation{
			ID:          idgen.New(),
			Email:       email,
			InvitedByID: invitedByID,
			CreatedAt:   now,
		}
		inv.Reissue(token, now)
		if err := s.repo.Insert(ctx, inv); err != nil {
			return nil, fmt.Errorf("create invitation: %w", err)
		}
	}

	s.log.Info().
		Str("invitation_id", inv.ID).
		Str("email", inv.Email).
		Str("invited_by", invitedByID).
		Time("expires_at", inv.ExpiresAt).
		Msg("invitation issued")
	s.notify(inv, false)

	return inv, nil
}

// ValidateInvitation returns the unused, unexpired invitation holding token.
// Unknown, used and expired tokens all yield nil without an error.
func (s *InvitationService) ValidateInvitation(ctx context.Context, token string) (*domain.Invitation, error) {
	if token == "" {
		return nil, nil
	}

	inv, err := s.repo.FindUnusedByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrInvitationNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("validate invitation: %w", err)
	}

	if inv.ExpiresAt.Before(s.now()) {
		return nil, nil
	}
	return inv, nil
}

// MarkAsUsed consumes the invitation. An unknown id is silently ignored.
func (s *InvitationService) MarkAsUsed(ctx context.Context, id string) error {
	found, err := s.repo.MarkUsed(ctx, id)
	if err != nil {
		return fmt.Errorf("mark invitation used: %w", err)
	}
	if !found {
		s.log.Debug().Str("invitation_id", id).Msg("mark used on unknown or used invitation ignored")
	}
	return nil
}

// Resend reissues an invitation created by requestedByID, whatever its
// current state. Used or expired invitations become active again.
func (s *InvitationService) Resend(ctx context.Context, id, requestedByID string) (*domain.Invitation, error) {
	inv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrInvitationNotFound) {
			return nil, domain.ErrInvitationNotFound
		}
		return nil, fmt.Errorf("resend invitation: %w", err)
	}

	if inv.InvitedByID != requestedByID {
		return nil, domain.ErrNotInvitationOwner
	}

	token, err := generateInvitationToken()
	if err != nil {
		return nil, fmt.Errorf("resend invitation: %w", err)
	}

	inv.Reissue(token, s.now().UTC())
	if err := s.repo.Save(ctx, inv); err != nil {
		return nil, fmt.Errorf("resend invitation: %w", err)
	}

	s.log.Info().
		Str("invitation_id", inv.ID).
		Str("email", inv.Email).
		Time("expires_at", inv.ExpiresAt).
		Msg("invitation resent")
	s.notify(inv, true)

	return inv, nil
}

// List returns the invitations issued by invitedByID, newest first. An empty
// invitedByID lists every invitation.
func (s *InvitationService) List(ctx context.Context, invitedByID string) ([]*domain.Invitation, error) {
	invitations, err := s.repo.List(ctx, invitedByID)
	if err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	return invitations, nil
}

func (s *InvitationService) notify(inv *domain.Invitation, resent bool) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(ports.InvitationNotice{
		InvitationID: inv.ID,
		Email:        inv.Email,
		Token:        inv.Token,
		ExpiresAt:    inv.ExpiresAt,
		Resent:       resent,
	})
}

func generateInvitationToken() (string, error) {
	b := make([]byte, invitationTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
