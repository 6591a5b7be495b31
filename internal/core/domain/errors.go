package domain

import "errors"

// Unauthorized.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// Bad request / invalid operation.
var (
	ErrUserExists             = errors.New("user with this email already exists")
	ErrInvalidInvitation      = errors.New("invalid or expired invitation token")
	ErrActiveInvitationExists = errors.New("an active invitation already exists for this email")
	ErrInvalidInput           = errors.New("invalid input")
)

// Forbidden.
var (
	ErrForbidden          = errors.New("access forbidden")
	ErrNotInvitationOwner = errors.New("you can only resend invitations you created")
)

// Not found.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrTaskNotFound       = errors.New("task not found")
	ErrInvitationNotFound = errors.New("invitation not found")
)

var ErrTooManyAttempts = errors.New("too many failed login attempts, try again later")
