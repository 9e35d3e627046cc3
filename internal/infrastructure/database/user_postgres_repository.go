package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/zemanluky/cz.uun-shopping-list.be/internal/domain/errors"
	"github.com/zemanluky/cz.uun-shopping-list.be/internal/domain/models"
	"github.com/zemanluky/cz.uun-shopping-list.be/internal/domain/repository"
)

const userColumns = `id, name, surname, username, email, password_hash, profile_picture_path, role, created_at, updated_at`

type pgxUserRepository struct {
	db *pgxpool.Pool
}

// NewPgxUserRepository creates a UserRepository backed by PostgreSQL.
func NewPgxUserRepository(db *pgxpool.Pool) repository.UserRepository {
	return &pgxUserRepository{db: db}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Surname, &u.Username, &u.Email, &u.PasswordHash,
		&u.ProfilePicturePath, &u.Role, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &u, nil
}

func (r *pgxUserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, name, surname, username, email, password_hash, profile_picture_path, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.Exec(ctx, query,
		user.ID, user.Name, user.Surname, user.Username, user.Email, user.PasswordHash,
		user.ProfilePicturePath, user.Role, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domainErrors.ErrAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *pgxUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *pgxUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(r.db.QueryRow(ctx, query, username))
}

func (r *pgxUserRepository) FindByLogin(ctx context.Context, login string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 OR username = $1`
	return scanUser(r.db.QueryRow(ctx, query, login))
}

func (r *pgxUserRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.User, error) {
	result := make(map[uuid.UUID]models.User, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE id = ANY($1)`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query users by ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		result[u.ID] = *u
	}
	return result, rows.Err()
}

func (r *pgxUserRepository) ExistsByEmail(ctx context.Context, email string, ignoreID *uuid.UUID) (bool, error) {
	return r.exists(ctx, `email`, email, ignoreID)
}

func (r *pgxUserRepository) ExistsByUsername(ctx context.Context, username string, ignoreID *uuid.UUID) (bool, error) {
	return r.exists(ctx, `username`, username, ignoreID)
}

func (r *pgxUserRepository) exists(ctx context.Context, column, value string, ignoreID *uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE ` + column + ` = $1 AND ($2::uuid IS NULL OR id <> $2))`
	var exists bool
	if err := r.db.QueryRow(ctx, query, value, ignoreID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check %s availability: %w", column, err)
	}
	return exists, nil
}

func (r *pgxUserRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET name = $2, surname = $3, username = $4, email = $5, updated_at = $6
		WHERE id = $1`
	tag, err := r.db.Exec(ctx, query,
		user.ID, user.Name, user.Surname, user.Username, user.Email, user.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domainErrors.ErrAlreadyExists
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *pgxUserRepository) Search(ctx context.Context, query string, limit int) ([]models.User, error) {
	sql := `SELECT ` + userColumns + ` FROM users`
	args := []any{}
	if query != "" {
		sql += ` WHERE name ILIKE '%' || $1 || '%' OR surname ILIKE '%' || $1 || '%' OR username ILIKE '%' || $1 || '%'`
		args = append(args, query)
	}
	sql += fmt.Sprintf(` ORDER BY username LIMIT %d`, limit)

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}
