package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/zemanluky/cz.uun-shopping-list.be/internal/domain/models"
)

// RefreshTokenRepository persists refresh-token sessions. Sessions are
// revoked, never deleted, so a stolen token can be traced after the fact.
type RefreshTokenRepository interface {
	// Create appends a fresh session record for a user.
	Create(ctx context.Context, session *models.RefreshTokenSession) error
	// FindByJTI returns errors.ErrNotFound when no session carries the jti.
	FindByJTI(ctx context.Context, jti uuid.UUID) (*models.RefreshTokenSession, error)
	// Rotate updates a session in place: the record identified by oldJTI
	// receives a new jti and a fresh validity window. Returns
	// errors.ErrNotFound when no session carries oldJTI.
	Rotate(ctx context.Context, oldJTI, newJTI uuid.UUID, issuedAt, validUntil time.Time) error
	// Revoke marks the session with the given jti as revoked. Revoking an
	// already revoked session is a no-op.
	Revoke(ctx context.Context, jti uuid.UUID, at time.Time) error
	// RevokeOldestBeyondCap revokes every active session of the user except
	// the newest keep sessions by issue time. Returns how many were revoked.
	RevokeOldestBeyondCap(ctx context.Context, userID uuid.UUID, keep int, at time.Time) (int64, error)
}
