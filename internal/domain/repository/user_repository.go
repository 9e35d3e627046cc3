package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/zemanluky/cz.uun-shopping-list.be/internal/domain/models"
)

// UserRepository persists users.
type UserRepository interface {
	// Create inserts a new user. Returns errors.ErrAlreadyExists when the
	// email or username is already taken.
	Create(ctx context.Context, user *models.User) error
	// FindByID returns errors.ErrNotFound when no such user exists.
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	// FindByUsername returns errors.ErrNotFound when no such user exists.
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	// FindByLogin looks a user up by email or username, whichever matches.
	FindByLogin(ctx context.Context, login string) (*models.User, error)
	// FindByIDs fetches multiple users at once, keyed by id. Missing ids
	// are simply absent from the result.
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.User, error)
	// ExistsByEmail reports whether a user other than ignoreID uses the email.
	ExistsByEmail(ctx context.Context, email string, ignoreID *uuid.UUID) (bool, error)
	// ExistsByUsername reports whether a user other than ignoreID uses the username.
	ExistsByUsername(ctx context.Context, username string, ignoreID *uuid.UUID) (bool, error)
	// Update persists changed profile fields of an existing user.
	Update(ctx context.Context, user *models.User) error
	// Search lists users whose name, surname or username matches the query,
	// all users when the query is empty.
	Search(ctx context.Context, query string, limit int) ([]models.User, error)
}
