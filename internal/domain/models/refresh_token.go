package models

import (
	"time"

	"github.com/google/uuid"
)

// RefreshTokenSession is a server-side record of an issued refresh token.
// Tracking sessions by jti lets us revoke them independently of the token's
// own expiry. Revoked sessions are kept for audit, never deleted.
type RefreshTokenSession struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	JTI        uuid.UUID  `json:"jti"`
	IssuedAt   time.Time  `json:"issued_at"`
	ValidUntil time.Time  `json:"valid_until"`
	RevokedAt  *time.Time `json:"revoked_at"`
}

// IsActive reports whether the session can still be used to refresh: it has
// not been revoked and its validity window has not elapsed.
func (s *RefreshTokenSession) IsActive(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ValidUntil)
}

// TokenPair carries a freshly issued access and refresh token.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"-"`
}

// LoginRequest is the payload for authentication. Login accepts either the
// user's email or their username.
type LoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}
