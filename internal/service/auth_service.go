package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zemanluky/cz.uun-shopping-list.be/internal/config"
	domainErrors "github.com/zemanluky/cz.uun-shopping-list.be/internal/domain/errors"
	"github.com/zemanluky/cz.uun-shopping-list.be/internal/domain/models"
	"github.com/zemanluky/cz.uun-shopping-list.be/internal/domain/repository"
	"github.com/zemanluky/cz.uun-shopping-list.be/internal/events/kafka"
	"github.com/zemanluky/cz.uun-shopping-list.be/internal/infrastructure/security"
)

// AuthService manages login, refresh-token rotation, logout and access
// token verification.
type AuthService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.RefreshTokenRepository
	jwtService  security.JWTService
	hasher      security.PasswordHasher
	producer    *kafka.Producer
	logger      *zap.Logger

	accessTokenTTL    time.Duration
	refreshTokenTTL   time.Duration
	maxActiveSessions int

	now func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	userRepo repository.UserRepository,
	sessionRepo repository.RefreshTokenRepository,
	jwtService security.JWTService,
	hasher security.PasswordHasher,
	producer *kafka.Producer,
	logger *zap.Logger,
	jwtCfg config.JWTConfig,
	authCfg config.AuthConfig,
) *AuthService {
	return &AuthService{
		userRepo:          userRepo,
		sessionRepo:       sessionRepo,
		jwtService:        jwtService,
		hasher:            hasher,
		producer:          producer,
		logger:            logger.Named("auth_service"),
		accessTokenTTL:    jwtCfg.AccessTokenTTL,
		refreshTokenTTL:   jwtCfg.RefreshTokenTTL,
		maxActiveSessions: authCfg.MaxActiveSessions,
		now:               time.Now,
	}
}

// Login authenticates a user by email or username and issues a fresh token
// pair. The same invalid-credentials error covers both an unknown login and
// a wrong password, so the endpoint cannot be used to enumerate users.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.TokenPair, error) {
	user, err := s.userRepo.FindByLogin(ctx, req.Login)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, domainErrors.NewUnauthenticated("Please check your login credentials.", domainErrors.CodeInvalidCredentials)
		}
		return nil, err
	}

	match, err := s.hasher.Verify(req.Password, user.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !match {
		return nil, domainErrors.NewUnauthenticated("Please check your login credentials.", domainErrors.CodeInvalidCredentials)
	}

	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := s.producer.Publish(ctx, kafka.EventUserLogin, user.ID.String(), map[string]string{"user_id": user.ID.String()}); err != nil {
		s.logger.Warn("failed to publish login event", zap.Error(err))
	}

	return pair, nil
}

// issueTokenPair creates a fresh session for the user and evicts the oldest
// active sessions beyond the cap. The create and the eviction are two
// separate persistence calls on purpose; a crash in between leaves the new
// session in place with the eviction still pending, which is accepted.
func (s *AuthService) issueTokenPair(ctx context.Context, user *models.User) (*models.TokenPair, error) {
	now := s.now()

	accessToken, err := s.jwtService.Sign(user.ID, s.accessTokenTTL, nil)
	if err != nil {
		return nil, err
	}

	jti := uuid.New()
	refreshToken, err := s.jwtService.Sign(user.ID, s.refreshTokenTTL, &jti)
	if err != nil {
		return nil, err
	}

	session := &models.RefreshTokenSession{
		ID:         uuid.New(),
		UserID:     user.ID,
		JTI:        jti,
		IssuedAt:   now,
		ValidUntil: now.Add(s.refreshTokenTTL),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	evicted, err := s.sessionRepo.RevokeOldestBeyondCap(ctx, user.ID, s.maxActiveSessions, now)
	if err != nil {
		return nil, err
	}
	if evicted > 0 {
		s.logger.Debug("evicted oldest refresh token sessions",
			zap.String("user_id", user.ID.String()),
			zap.Int64("evicted", evicted),
		)
	}

	return &models.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Refresh verifies a refresh token, checks its server-side session and
// rotates that session in place: the record keeps its identity but gets a
// new jti and a fresh validity window. No new session is created, so the
// session cap does not come into play.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	claims, err := s.jwtService.Verify(refreshToken)
	if err != nil {
		return nil, domainErrors.NewUnauthenticated("The session has expired or the token is not valid. Please, log in again.", domainErrors.CodeSessionExpired)
	}

	// A token without a session id is an access token; refusing it here
	// stops access tokens from being replayed against the refresh endpoint.
	if claims.JTI == nil {
		return nil, domainErrors.NewUnauthenticated("The refresh token is not valid. Please, login again.", domainErrors.CodeSessionExpired)
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, domainErrors.NewUnauthenticated("The user authenticated via the token was not found in the system.", "")
		}
		return nil, err
	}

	now := s.now()

	session, err := s.sessionRepo.FindByJTI(ctx, *claims.JTI)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, domainErrors.NewUnauthenticated("The authentication session has expired. Please, log in again.", domainErrors.CodeSessionExpired)
		}
		return nil, err
	}
	if !session.IsActive(now) {
		return nil, domainErrors.NewUnauthenticated("The authentication session has expired. Please, log in again.", domainErrors.CodeSessionExpired)
	}

	accessToken, err := s.jwtService.Sign(user.ID, s.accessTokenTTL, nil)
	if err != nil {
		return nil, err
	}

	newJTI := uuid.New()
	newRefreshToken, err := s.jwtService.Sign(user.ID, s.refreshTokenTTL, &newJTI)
	if err != nil {
		return nil, err
	}

	if err := s.sessionRepo.Rotate(ctx, *claims.JTI, newJTI, now, now.Add(s.refreshTokenTTL)); err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, domainErrors.NewUnauthenticated("The authentication session has expired. Please, log in again.", domainErrors.CodeSessionExpired)
		}
		return nil, err
	}

	return &models.TokenPair{AccessToken: accessToken, RefreshToken: newRefreshToken}, nil
}

// Logout revokes the session of the given refresh token. It is best-effort:
// invalid or unparseable tokens are silently ignored, only unexpected
// persistence failures surface.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.jwtService.Verify(refreshToken)
	if err != nil {
		if errors.Is(err, domainErrors.ErrInvalidToken) {
			return nil
		}
		return err
	}
	if claims.JTI == nil {
		return nil
	}

	return s.sessionRepo.Revoke(ctx, *claims.JTI, s.now())
}

// VerifyAccessToken resolves an access token to the authenticated user.
func (s *AuthService) VerifyAccessToken(ctx context.Context, accessToken string) (*models.User, error) {
	claims, err := s.jwtService.Verify(accessToken)
	if err != nil {
		return nil, domainErrors.NewUnauthenticated("The access token is not valid. Please, refresh your authentication.", "")
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, domainErrors.NewUnauthenticated("The user authenticated via the token was not found in the system.", "")
		}
		return nil, err
	}
	return user, nil
}
