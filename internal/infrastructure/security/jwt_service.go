package security

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/zemanluky/cz.uun-shopping-list.be/internal/config"
	domainErrors "github.com/zemanluky/cz.uun-shopping-list.be/internal/domain/errors"
)

// TokenClaims is the verified content of a token: the authenticated user and,
// for refresh tokens, the session id.
type TokenClaims struct {
	UserID uuid.UUID
	JTI    *uuid.UUID
}

// JWTService signs and verifies the application's tokens. Cryptographic
// failure details never leave this package; every verification problem
// surfaces as ErrInvalidToken.
type JWTService interface {
	Sign(userID uuid.UUID, ttl time.Duration, jti *uuid.UUID) (string, error)
	Verify(token string) (*TokenClaims, error)
}

type appClaims struct {
	UID string `json:"uid"`
	jwt.RegisteredClaims
}

type hmacJWTService struct {
	secret []byte
	issuer string
}

// NewJWTService creates a JWTService signing with HS256.
func NewJWTService(cfg config.JWTConfig) JWTService {
	return &hmacJWTService{secret: []byte(cfg.Secret), issuer: cfg.Issuer}
}

func (s *hmacJWTService) Sign(userID uuid.UUID, ttl time.Duration, jti *uuid.UUID) (string, error) {
	now := time.Now()
	claims := appClaims{
		UID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if jti != nil {
		claims.ID = jti.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *hmacJWTService) Verify(tokenString string) (*TokenClaims, error) {
	var claims appClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, domainErrors.ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.UID)
	if err != nil {
		return nil, domainErrors.ErrInvalidToken
	}

	result := &TokenClaims{UserID: userID}
	if claims.ID != "" {
		jti, err := uuid.Parse(claims.ID)
		if err != nil {
			return nil, domainErrors.ErrInvalidToken
		}
		result.JTI = &jti
	}
	return result, nil
}
