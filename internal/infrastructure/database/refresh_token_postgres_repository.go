package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/zemanluky/cz.uun-shopping-list.be/internal/domain/errors"
	"github.com/zemanluky/cz.uun-shopping-list.be/internal/domain/models"
	"github.com/zemanluky/cz.uun-shopping-list.be/internal/domain/repository"
)

type pgxRefreshTokenRepository struct {
	db *pgxpool.Pool
}

// NewPgxRefreshTokenRepository creates a RefreshTokenRepository backed by
// PostgreSQL.
func NewPgxRefreshTokenRepository(db *pgxpool.Pool) repository.RefreshTokenRepository {
	return &pgxRefreshTokenRepository{db: db}
}

func (r *pgxRefreshTokenRepository) Create(ctx context.Context, session *models.RefreshTokenSession) error {
	query := `
		INSERT INTO refresh_tokens (id, user_id, jti, issued_at, valid_until, revoked_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.Exec(ctx, query,
		session.ID, session.UserID, session.JTI, session.IssuedAt, session.ValidUntil, session.RevokedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create refresh token session: %w", err)
	}
	return nil
}

func (r *pgxRefreshTokenRepository) FindByJTI(ctx context.Context, jti uuid.UUID) (*models.RefreshTokenSession, error) {
	query := `
		SELECT id, user_id, jti, issued_at, valid_until, revoked_at
		FROM refresh_tokens
		WHERE jti = $1`
	var s models.RefreshTokenSession
	err := r.db.QueryRow(ctx, query, jti).Scan(
		&s.ID, &s.UserID, &s.JTI, &s.IssuedAt, &s.ValidUntil, &s.RevokedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find refresh token session: %w", err)
	}
	return &s, nil
}

func (r *pgxRefreshTokenRepository) Rotate(ctx context.Context, oldJTI, newJTI uuid.UUID, issuedAt, validUntil time.Time) error {
	// The revoked_at guard keeps a concurrently revoked session revoked.
	query := `
		UPDATE refresh_tokens
		SET jti = $2, issued_at = $3, valid_until = $4
		WHERE jti = $1 AND revoked_at IS NULL`
	tag, err := r.db.Exec(ctx, query, oldJTI, newJTI, issuedAt, validUntil)
	if err != nil {
		return fmt.Errorf("failed to rotate refresh token session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *pgxRefreshTokenRepository) Revoke(ctx context.Context, jti uuid.UUID, at time.Time) error {
	query := `UPDATE refresh_tokens SET revoked_at = $2 WHERE jti = $1 AND revoked_at IS NULL`
	if _, err := r.db.Exec(ctx, query, jti, at); err != nil {
		return fmt.Errorf("failed to revoke refresh token session: %w", err)
	}
	return nil
}

func (r *pgxRefreshTokenRepository) RevokeOldestBeyondCap(ctx context.Context, userID uuid.UUID, keep int, at time.Time) (int64, error) {
	// Active sessions ranked newest first; everything past the cap is revoked.
	query := `
		UPDATE refresh_tokens
		SET revoked_at = $3
		WHERE id IN (
			SELECT id FROM refresh_tokens
			WHERE user_id = $1 AND revoked_at IS NULL
			ORDER BY issued_at DESC
			OFFSET $2
		)`
	tag, err := r.db.Exec(ctx, query, userID, keep, at)
	if err != nil {
		return 0, fmt.Errorf("failed to evict oldest refresh token sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
