package domain

import "time"

// InvitationTTL is how long a freshly issued or resent invitation stays active.
const InvitationTTL = 48 * time.Hour

// InvitationState is derived from the used flag, the expiry and the clock.
type InvitationState string

const (
	InvitationActive  InvitationState = "active"
	InvitationExpired InvitationState = "expired"
	InvitationUsed    InvitationState = "used"
)

// Invitation gates signup for a single email address.
type Invitation struct {
	ID          string    `json:"id" bson:"_id"`
	Email       string    `json:"email" bson:"email"`
	Token       string    `json:"token" bson:"token"`
	ExpiresAt   time.Time `json:"expiresAt" bson:"expires_at"`
	IsUsed      bool      `json:"isUsed" bson:"is_used"`
	InvitedByID string    `json:"invitedById" bson:"invited_by_id"`
	CreatedAt   time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updated_at"`
}

// State reports the lifecycle state of the invitation at now.
func (i *Invitation) State(now time.Time) InvitationState {
	switch {
	case i.IsUsed:
		return InvitationUsed
	case i.ExpiresAt.Before(now):
		return InvitationExpired
	default:
		return InvitationActive
	}
}

// Reissue replaces the token and expiry and clears the used flag.
func (i *Invitation) Reissue(token string, now time.Time) {
	i.Token = token
	i.ExpiresAt = now.Add(InvitationTTL)
	i.IsUsed = false
	i.UpdatedAt = now
}
