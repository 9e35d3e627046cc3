package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/zemanluky/cz.uun-shopping-list.be/internal/config"
	domainErrors "github.com/zemanluky/cz.uun-shopping-list.be/internal/domain/errors"
	"github.com/zemanluky/cz.uun-shopping-list.be/internal/domain/models"
	"github.com/zemanluky/cz.uun-shopping-list.be/internal/infrastructure/security"
)

type AuthServiceSuite struct {
	suite.Suite

	userRepo    *mockUserRepository
	sessionRepo *mockRefreshTokenRepository
	jwt         *mockJWTService
	hasher      *mockPasswordHasher
	service     *AuthService

	now  time.Time
	user *models.User
}

func (s *AuthServiceSuite) SetupTest() {
	s.userRepo = new(mockUserRepository)
	s.sessionRepo = new(mockRefreshTokenRepository)
	s.jwt = new(mockJWTService)
	s.hasher = new(mockPasswordHasher)

	s.service = NewAuthService(
		s.userRepo, s.sessionRepo, s.jwt, s.hasher, nil, zap.NewNop(),
		config.JWTConfig{AccessTokenTTL: 15 * time.Minute, RefreshTokenTTL: 28 * 24 * time.Hour},
		config.AuthConfig{MaxActiveSessions: 5},
	)

	s.now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.service.now = func() time.Time { return s.now }

	s.user = &models.User{
		ID:           uuid.New(),
		Username:     "janedoe",
		Email:        "jane@example.com",
		PasswordHash: "$argon2id$...",
		Role:         models.RoleUser,
	}
}

func (s *AuthServiceSuite) TestLoginIssuesTokensAndEvictsOldSessions() {
	s.userRepo.On("FindByLogin", mock.Anything, "janedoe").Return(s.user, nil)
	s.hasher.On("Verify", "Sup3r$ecret", s.user.PasswordHash).Return(true, nil)
	s.jwt.On("Sign", s.user.ID, 15*time.Minute, (*uuid.UUID)(nil)).Return("access-token", nil)
	s.jwt.On("Sign", s.user.ID, 28*24*time.Hour, mock.AnythingOfType("*uuid.UUID")).Return("refresh-token", nil)

	s.sessionRepo.On("Create", mock.Anything, mock.MatchedBy(func(session *models.RefreshTokenSession) bool {
		return session.UserID == s.user.ID &&
			session.IssuedAt.Equal(s.now) &&
			session.ValidUntil.Equal(s.now.Add(28*24*time.Hour)) &&
			session.RevokedAt == nil
	})).Return(nil)
	s.sessionRepo.On("RevokeOldestBeyondCap", mock.Anything, s.user.ID, 5, s.now).Return(int64(1), nil)

	pair, err := s.service.Login(context.Background(), models.LoginRequest{Login: "janedoe", Password: "Sup3r$ecret"})

	s.Require().NoError(err)
	s.Equal("access-token", pair.AccessToken)
	s.Equal("refresh-token", pair.RefreshToken)
	s.sessionRepo.AssertExpectations(s.T())
}

func (s *AuthServiceSuite) TestLoginUnknownUserAndWrongPasswordFailTheSame() {
	s.userRepo.On("FindByLogin", mock.Anything, "nobody").Return(nil, domainErrors.ErrNotFound)
	s.userRepo.On("FindByLogin", mock.Anything, "janedoe").Return(s.user, nil)
	s.hasher.On("Verify", "wrong", s.user.PasswordHash).Return(false, nil)

	_, errUnknown := s.service.Login(context.Background(), models.LoginRequest{Login: "nobody", Password: "wrong"})
	_, errWrongPassword := s.service.Login(context.Background(), models.LoginRequest{Login: "janedoe", Password: "wrong"})

	for _, err := range []error{errUnknown, errWrongPassword} {
		appErr := domainErrors.AsAppError(err)
		s.Equal(401, appErr.StatusCode)
		s.Equal(domainErrors.CodeInvalidCredentials, appErr.Code)
		s.Equal("Please check your login credentials.", appErr.Message)
	}
	s.sessionRepo.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
}

func (s *AuthServiceSuite) TestRefreshRotatesSessionInPlace() {
	oldJTI := uuid.New()
	s.jwt.On("Verify", "refresh-token").Return(&security.TokenClaims{UserID: s.user.ID, JTI: &oldJTI}, nil)
	s.userRepo.On("FindByID", mock.Anything, s.user.ID).Return(s.user, nil)
	s.sessionRepo.On("FindByJTI", mock.Anything, oldJTI).Return(&models.RefreshTokenSession{
		ID:         uuid.New(),
		UserID:     s.user.ID,
		JTI:        oldJTI,
		IssuedAt:   s.now.Add(-time.Hour),
		ValidUntil: s.now.Add(time.Hour),
	}, nil)
	s.jwt.On("Sign", s.user.ID, 15*time.Minute, (*uuid.UUID)(nil)).Return("new-access", nil)
	s.jwt.On("Sign", s.user.ID, 28*24*time.Hour, mock.AnythingOfType("*uuid.UUID")).Return("new-refresh", nil)
	s.sessionRepo.On("Rotate", mock.Anything, oldJTI, mock.AnythingOfType("uuid.UUID"), s.now, s.now.Add(28*24*time.Hour)).Return(nil)

	pair, err := s.service.Refresh(context.Background(), "refresh-token")

	s.Require().NoError(err)
	s.Equal("new-access", pair.AccessToken)
	s.Equal("new-refresh", pair.RefreshToken)
	// No session is created on refresh, the existing one is reused.
	s.sessionRepo.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
	s.sessionRepo.AssertExpectations(s.T())
}

func (s *AuthServiceSuite) TestRefreshRejectsAccessToken() {
	s.jwt.On("Verify", "access-token").Return(&security.TokenClaims{UserID: s.user.ID}, nil)

	_, err := s.service.Refresh(context.Background(), "access-token")

	appErr := domainErrors.AsAppError(err)
	s.Equal(401, appErr.StatusCode)
	s.Equal(domainErrors.CodeSessionExpired, appErr.Code)
	s.sessionRepo.AssertNotCalled(s.T(), "FindByJTI", mock.Anything, mock.Anything)
}

func (s *AuthServiceSuite) TestRefreshRejectsRevokedSession() {
	jti := uuid.New()
	revokedAt := s.now.Add(-time.Minute)
	s.jwt.On("Verify", "refresh-token").Return(&security.TokenClaims{UserID: s.user.ID, JTI: &jti}, nil)
	s.userRepo.On("FindByID", mock.Anything, s.user.ID).Return(s.user, nil)
	s.sessionRepo.On("FindByJTI", mock.Anything, jti).Return(&models.RefreshTokenSession{
		UserID:     s.user.ID,
		JTI:        jti,
		IssuedAt:   s.now.Add(-time.Hour),
		ValidUntil: s.now.Add(time.Hour),
		RevokedAt:  &revokedAt,
	}, nil)

	_, err := s.service.Refresh(context.Background(), "refresh-token")

	s.Equal(domainErrors.CodeSessionExpired, domainErrors.AsAppError(err).Code)
	s.sessionRepo.AssertNotCalled(s.T(), "Rotate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *AuthServiceSuite) TestLogoutSwallowsInvalidTokens() {
	s.jwt.On("Verify", "garbage").Return(nil, domainErrors.ErrInvalidToken)

	s.NoError(s.service.Logout(context.Background(), "garbage"))
	s.sessionRepo.AssertNotCalled(s.T(), "Revoke", mock.Anything, mock.Anything, mock.Anything)
}

func (s *AuthServiceSuite) TestLogoutRevokesSession() {
	jti := uuid.New()
	s.jwt.On("Verify", "refresh-token").Return(&security.TokenClaims{UserID: s.user.ID, JTI: &jti}, nil)
	s.sessionRepo.On("Revoke", mock.Anything, jti, s.now).Return(nil)

	s.NoError(s.service.Logout(context.Background(), "refresh-token"))
	s.sessionRepo.AssertExpectations(s.T())
}

func (s *AuthServiceSuite) TestVerifyAccessTokenResolvesUser() {
	s.jwt.On("Verify", "access-token").Return(&security.TokenClaims{UserID: s.user.ID}, nil)
	s.userRepo.On("FindByID", mock.Anything, s.user.ID).Return(s.user, nil)

	user, err := s.service.VerifyAccessToken(context.Background(), "access-token")

	s.Require().NoError(err)
	s.Equal(s.user.ID, user.ID)
}

func (s *AuthServiceSuite) TestVerifyAccessTokenRejectsInvalidToken() {
	s.jwt.On("Verify", "garbage").Return(nil, domainErrors.ErrInvalidToken)

	_, err := s.service.VerifyAccessToken(context.Background(), "garbage")

	s.Equal(401, domainErrors.AsAppError(err).StatusCode)
}

func TestAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceSuite))
}
