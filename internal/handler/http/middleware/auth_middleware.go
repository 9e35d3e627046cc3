package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domainErrors "github.com/zemanluky/cz.uun-shopping-list.be/internal/domain/errors"
	"github.com/zemanluky/cz.uun-shopping-list.be/internal/domain/models"
)

// currentUserKey is the gin context key the authenticated user is stored
// under.
const currentUserKey = "currentUser"

// AccessTokenVerifier resolves a bearer access token to the user it
// authenticates.
type AccessTokenVerifier interface {
	VerifyAccessToken(ctx context.Context, accessToken string) (*models.User, error)
}

// Auth requires a valid bearer access token and stores the authenticated
// user in the request context.
func Auth(verifier AccessTokenVerifier, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			abortUnauthenticated(c, domainErrors.NewUnauthenticated("Missing or malformed authorization header.", ""))
			return
		}

		user, err := verifier.VerifyAccessToken(c.Request.Context(), token)
		if err != nil {
			abortUnauthenticated(c, err)
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// OptionalAuth resolves a bearer token when one is present but lets the
// request through either way. Handlers see the user only when the token
// was valid.
func OptionalAuth(verifier AccessTokenVerifier, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if user, err := verifier.VerifyAccessToken(c.Request.Context(), token); err == nil {
				c.Set(currentUserKey, user)
			}
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user set by Auth. The boolean is
// false on routes that did not pass through the middleware.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(currentUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	return token, token != ""
}

func abortUnauthenticated(c *gin.Context, err error) {
	appErr := domainErrors.AsAppError(err)
	c.AbortWithStatusJSON(appErr.StatusCode, gin.H{
		"status":  appErr.StatusCode,
		"success": false,
		"error": gin.H{
			"message": appErr.Message,
			"code":    appErr.Code,
		},
	})
}
