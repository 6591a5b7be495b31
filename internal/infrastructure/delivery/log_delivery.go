// Package delivery holds the outbound channels that hand invitation tokens to
// invitees.
package delivery

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/99minutos/task-manager/internal/core/ports"
)

// LogDelivery writes each invitation link to the structured log. It stands in
// for a mail transport in environments where none is configured.
type LogDelivery struct {
	log     zerolog.Logger
	baseURL string
}

func NewLogDelivery(log zerolog.Logger, baseURL string) *LogDelivery {
	return &LogDelivery{log: log, baseURL: baseURL}
}

func (d *LogDelivery) Deliver(ctx context.Context, n ports.InvitationNotice) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	d.log.Info().
		Str("invitation_id", n.InvitationID).
		Str("email", n.Email).
		Str("token", n.Token).
		Str("signup_url", d.signupURL(n.Token)).
		Time("expires_at", n.ExpiresAt).
		Bool("resent", n.Resent).
		Msg("invitation ready for delivery")
	return nil
}

func (d *LogDelivery) signupURL(token string) string {
	if d.baseURL == "" {
		return ""
	}
	return fmt.Sprintf("%s/signup?token=%s", d.baseURL, token)
}
