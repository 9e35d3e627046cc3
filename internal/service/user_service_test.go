package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	domainErrors "github.com/zemanluky/cz.uun-shopping-list.be/internal/domain/errors"
	"github.com/zemanluky/cz.uun-shopping-list.be/internal/domain/models"
)

type UserServiceSuite struct {
	suite.Suite

	userRepo *mockUserRepository
	hasher   *mockPasswordHasher
	service  *UserService
	now      time.Time
}

func (s *UserServiceSuite) SetupTest() {
	s.userRepo = new(mockUserRepository)
	s.hasher = new(mockPasswordHasher)
	s.service = NewUserService(s.userRepo, s.hasher, nil, zap.NewNop())
	s.now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.service.now = func() time.Time { return s.now }
}

func (s *UserServiceSuite) TestRegister() {
	req := models.RegisterUserRequest{
		Name:     "Jane",
		Surname:  "Doe",
		Username: "janedoe",
		Email:    "jane@example.com",
		Password: "Sup3r$ecret",
	}

	s.userRepo.On("ExistsByEmail", mock.Anything, req.Email, (*uuid.UUID)(nil)).Return(false, nil)
	s.userRepo.On("ExistsByUsername", mock.Anything, req.Username, (*uuid.UUID)(nil)).Return(false, nil)
	s.hasher.On("Hash", req.Password).Return("hashed", nil)
	s.userRepo.On("Create", mock.Anything, mock.MatchedBy(func(user *models.User) bool {
		return user.Username == "janedoe" &&
			user.PasswordHash == "hashed" &&
			user.Role == models.RoleUser &&
			user.CreatedAt.Equal(s.now) &&
			user.UpdatedAt.Equal(s.now)
	})).Return(nil)

	user, err := s.service.Register(context.Background(), req)

	s.Require().NoError(err)
	s.Equal("jane@example.com", user.Email)
	s.Equal(s.now, user.CreatedAt)
	s.userRepo.AssertExpectations(s.T())
}

func (s *UserServiceSuite) TestRegisterRejectsTakenEmail() {
	s.userRepo.On("ExistsByEmail", mock.Anything, "jane@example.com", (*uuid.UUID)(nil)).Return(true, nil)
	s.userRepo.On("ExistsByUsername", mock.Anything, "janedoe", (*uuid.UUID)(nil)).Return(false, nil)

	_, err := s.service.Register(context.Background(), models.RegisterUserRequest{
		Username: "janedoe", Email: "jane@example.com", Password: "x",
	})

	appErr := domainErrors.AsAppError(err)
	s.Equal(400, appErr.StatusCode)
	s.Equal(domainErrors.CodeDuplicateCredentials, appErr.Code)
	s.userRepo.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
}

func (s *UserServiceSuite) TestRegisterMapsConstraintViolation() {
	s.userRepo.On("ExistsByEmail", mock.Anything, mock.Anything, (*uuid.UUID)(nil)).Return(false, nil)
	s.userRepo.On("ExistsByUsername", mock.Anything, mock.Anything, (*uuid.UUID)(nil)).Return(false, nil)
	s.hasher.On("Hash", mock.Anything).Return("hashed", nil)
	s.userRepo.On("Create", mock.Anything, mock.Anything).Return(domainErrors.ErrAlreadyExists)

	_, err := s.service.Register(context.Background(), models.RegisterUserRequest{
		Username: "janedoe", Email: "jane@example.com", Password: "x",
	})

	s.Equal(domainErrors.CodeDuplicateCredentials, domainErrors.AsAppError(err).Code)
}

func (s *UserServiceSuite) TestCheckAvailability() {
	email := "jane@example.com"
	username := "janedoe"
	s.userRepo.On("ExistsByEmail", mock.Anything, email, (*uuid.UUID)(nil)).Return(true, nil)
	s.userRepo.On("ExistsByUsername", mock.Anything, username, (*uuid.UUID)(nil)).Return(false, nil)

	result, err := s.service.CheckAvailability(context.Background(), models.AvailabilityQuery{
		Email:    &email,
		Username: &username,
	}, nil)

	s.Require().NoError(err)
	s.Require().NotNil(result.Email)
	s.Require().NotNil(result.Username)
	s.False(*result.Email)
	s.True(*result.Username)
}

func (s *UserServiceSuite) TestCheckAvailabilityRequiresAQuery() {
	_, err := s.service.CheckAvailability(context.Background(), models.AvailabilityQuery{}, nil)

	s.Equal(domainErrors.CodeValidation, domainErrors.AsAppError(err).Code)
}

func (s *UserServiceSuite) TestUpdateProfileIgnoresOwnCredentials() {
	userID := uuid.New()
	registeredAt := s.now.Add(-48 * time.Hour)
	existing := &models.User{
		ID: userID, Name: "Jane", Surname: "Doe", Username: "janedoe", Email: "jane@example.com",
		CreatedAt: registeredAt, UpdatedAt: registeredAt,
	}

	s.userRepo.On("FindByID", mock.Anything, userID).Return(existing, nil)
	s.userRepo.On("ExistsByEmail", mock.Anything, "jane@example.com", &userID).Return(false, nil)
	s.userRepo.On("ExistsByUsername", mock.Anything, "janedoe", &userID).Return(false, nil)
	s.userRepo.On("Update", mock.Anything, mock.MatchedBy(func(user *models.User) bool {
		return user.Name == "Janet" && user.Username == "janedoe" && user.UpdatedAt.Equal(s.now)
	})).Return(nil)

	updated, err := s.service.UpdateProfile(context.Background(), userID, models.UpdateProfileRequest{
		Name: "Janet", Surname: "Doe", Username: "janedoe", Email: "jane@example.com",
	})

	s.Require().NoError(err)
	s.Equal("Janet", updated.Name)
	s.Equal(registeredAt, updated.CreatedAt)
	s.Equal(s.now, updated.UpdatedAt)
}

func (s *UserServiceSuite) TestGetByIDMissing() {
	id := uuid.New()
	s.userRepo.On("FindByID", mock.Anything, id).Return(nil, domainErrors.ErrNotFound)

	_, err := s.service.GetByID(context.Background(), id)

	appErr := domainErrors.AsAppError(err)
	s.Equal(404, appErr.StatusCode)
	s.Equal("not_found.user", appErr.Code)
}

func (s *UserServiceSuite) TestSearchExportsPublicData() {
	s.userRepo.On("Search", mock.Anything, "jane", userSearchLimit).Return([]models.User{
		{ID: uuid.New(), Name: "Jane", Username: "janedoe", PasswordHash: "secret"},
	}, nil)

	users, err := s.service.Search(context.Background(), "jane")

	s.Require().NoError(err)
	s.Require().Len(users, 1)
	s.Equal("janedoe", users[0].Username)
}

func TestUserServiceSuite(t *testing.T) {
	suite.Run(t, new(UserServiceSuite))
}
