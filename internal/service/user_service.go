package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domainErrors "github.com/zemanluky/cz.uun-shopping-list.be/internal/domain/errors"
	"github.com/zemanluky/cz.uun-shopping-list.be/internal/domain/models"
	"github.com/zemanluky/cz.uun-shopping-list.be/internal/domain/repository"
	"github.com/zemanluky/cz.uun-shopping-list.be/internal/events/kafka"
	"github.com/zemanluky/cz.uun-shopping-list.be/internal/infrastructure/security"
)

const userSearchLimit = 50

// UserService manages registration and user profiles.
type UserService struct {
	userRepo repository.UserRepository
	hasher   security.PasswordHasher
	producer *kafka.Producer
	logger   *zap.Logger
	now      func() time.Time
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, hasher security.PasswordHasher, producer *kafka.Producer, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		hasher:   hasher,
		producer: producer,
		logger:   logger.Named("user_service"),
		now:      time.Now,
	}
}

// Register creates a new user account. The email and username must not be
// taken by anybody else.
func (s *UserService) Register(ctx context.Context, req models.RegisterUserRequest) (*models.User, error) {
	if err := s.checkCredentialsFree(ctx, req.Email, req.Username, nil); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user := &models.User{
		ID:           uuid.New(),
		Name:         req.Name,
		Surname:      req.Surname,
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         models.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// The uniqueness pre-check races with concurrent registrations;
		// the database constraint is the authoritative answer.
		if errors.Is(err, domainErrors.ErrAlreadyExists) {
			return nil, duplicateCredentialsError()
		}
		return nil, err
	}

	if err := s.producer.Publish(ctx, kafka.EventUserRegistered, user.ID.String(), map[string]string{
		"user_id":  user.ID.String(),
		"username": user.Username,
	}); err != nil {
		s.logger.Warn("failed to publish registration event", zap.Error(err))
	}

	return user, nil
}

// CheckAvailability answers whether the queried email and/or username are
// still free. When ignoreID is set, that user's own identifiers count as
// free, so profile edits can keep unchanged values.
func (s *UserService) CheckAvailability(ctx context.Context, query models.AvailabilityQuery, ignoreID *uuid.UUID) (models.IdentifierAvailability, error) {
	var result models.IdentifierAvailability

	if query.Email == nil && query.Username == nil {
		return result, domainErrors.NewValidation("Provide an email or a username to check.")
	}

	if query.Email != nil {
		taken, err := s.userRepo.ExistsByEmail(ctx, *query.Email, ignoreID)
		if err != nil {
			return result, err
		}
		available := !taken
		result.Email = &available
	}
	if query.Username != nil {
		taken, err := s.userRepo.ExistsByUsername(ctx, *query.Username, ignoreID)
		if err != nil {
			return result, err
		}
		available := !taken
		result.Username = &available
	}

	return result, nil
}

// GetByID fetches a user by their id.
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, domainErrors.NewNotFoundEntity("Could not find the requested user.", "user")
		}
		return nil, err
	}
	return user, nil
}

// GetByUsername fetches a user by their unique username.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, domainErrors.NewNotFoundEntity("Could not find the requested user.", "user")
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile updates the caller's own profile. Changing the email or
// username re-checks uniqueness against everybody else.
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, req models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, domainErrors.NewNotFoundEntity("Trying to update a user that does not exist.", "user")
		}
		return nil, err
	}

	if err := s.checkCredentialsFree(ctx, req.Email, req.Username, &userID); err != nil {
		return nil, err
	}

	user.Name = req.Name
	user.Surname = req.Surname
	user.Username = req.Username
	user.Email = req.Email
	user.UpdatedAt = s.now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, domainErrors.ErrAlreadyExists) {
			return nil, duplicateCredentialsError()
		}
		return nil, err
	}
	return user, nil
}

// Search lists users matching the given name or username query.
func (s *UserService) Search(ctx context.Context, query string) ([]models.PublicUser, error) {
	users, err := s.userRepo.Search(ctx, query, userSearchLimit)
	if err != nil {
		return nil, err
	}

	public := make([]models.PublicUser, 0, len(users))
	for i := range users {
		public = append(public, users[i].Public())
	}
	return public, nil
}

func (s *UserService) checkCredentialsFree(ctx context.Context, email, username string, ignoreID *uuid.UUID) error {
	emailTaken, err := s.userRepo.ExistsByEmail(ctx, email, ignoreID)
	if err != nil {
		return err
	}
	usernameTaken, err := s.userRepo.ExistsByUsername(ctx, username, ignoreID)
	if err != nil {
		return err
	}
	if emailTaken || usernameTaken {
		return duplicateCredentialsError()
	}
	return nil
}

func duplicateCredentialsError() error {
	return domainErrors.NewBadRequest("Cannot create a user with existing credentials. Please, use a different email or username.", domainErrors.CodeDuplicateCredentials)
}
