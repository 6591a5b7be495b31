package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/99minutos/task-manager/internal/core/domain"
)

const defaultTokenTTL = 24 * time.Hour

// sessionClaims is the payload of an access token.
type sessionClaims struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies HS256 session tokens.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenCodec(secret string, ttl time.Duration) *TokenCodec {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenCodec{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Sign mints a token for identity that expires after the configured TTL.
func (c *TokenCodec) Sign(identity domain.Identity) (string, error) {
	now := c.now()
	claims := sessionClaims{
		Email: identity.Email,
		Role:  identity.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify decodes token and returns its identity. Every failure (malformed,
// foreign algorithm, bad signature, expired) is reported as
// domain.ErrInvalidToken.
func (c *TokenCodec) Verify(token string) (domain.Identity, error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !parsed.Valid {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Identity{}, fmt.Errorf("%w: expired", domain.ErrInvalidToken)
		}
		return domain.Identity{}, domain.ErrInvalidToken
	}
	if claims.Subject == "" || !claims.Role.Valid() {
		return domain.Identity{}, domain.ErrInvalidToken
	}

	return domain.Identity{ID: claims.Subject, Email: claims.Email, Role: claims.Role}, nil
}
