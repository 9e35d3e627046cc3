package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/zemanluky/cz.uun-shopping-list.be/internal/config"
	domainErrors "github.com/zemanluky/cz.uun-shopping-list.be/internal/domain/errors"
	"github.com/zemanluky/cz.uun-shopping-list.be/internal/domain/models"
	"github.com/zemanluky/cz.uun-shopping-list.be/internal/handler/http/middleware"
	"github.com/zemanluky/cz.uun-shopping-list.be/internal/service"
)

// AuthHandler exposes login, refresh, logout and the identity endpoint. The
// refresh token never appears in a response body; it travels exclusively in
// an HTTP-only cookie scoped to the auth routes.
type AuthHandler struct {
	authService *service.AuthService
	authCfg     config.AuthConfig
	jwtCfg      config.JWTConfig
	logger      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService, authCfg config.AuthConfig, jwtCfg config.JWTConfig, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		authCfg:     authCfg,
		jwtCfg:      jwtCfg,
		logger:      logger.Named("auth_handler"),
	}
}

type accessTokenData struct {
	AccessToken string `json:"access_token"`
}

// Login authenticates with a login (email or username) and password.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, h.logger, err)
		return
	}

	pair, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.setRefreshCookie(c, pair.RefreshToken)
	respondSuccess(c, http.StatusOK, accessTokenData{AccessToken: pair.AccessToken})
}

// Refresh exchanges the refresh token cookie for a new token pair.
func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(h.authCfg.CookieName)
	if err != nil || refreshToken == "" {
		respondError(c, h.logger, domainErrors.NewUnauthenticated("Missing refresh token. Please, log in first.", domainErrors.CodeSessionExpired))
		return
	}

	pair, err := h.authService.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		h.clearRefreshCookie(c)
		respondError(c, h.logger, err)
		return
	}

	h.setRefreshCookie(c, pair.RefreshToken)
	respondSuccess(c, http.StatusOK, accessTokenData{AccessToken: pair.AccessToken})
}

// Logout revokes the current session and drops the cookie. Calling it
// without a valid session is fine.
func (h *AuthHandler) Logout(c *gin.Context) {
	refreshToken, err := c.Cookie(h.authCfg.CookieName)
	if err == nil && refreshToken != "" {
		if err := h.authService.Logout(c.Request.Context(), refreshToken); err != nil {
			respondError(c, h.logger, err)
			return
		}
	}

	h.clearRefreshCookie(c)
	respondEmpty(c)
}

// Identity returns the authenticated user's own profile. Only public user
// data goes out; the role and stored credentials stay server side.
func (h *AuthHandler) Identity(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, h.logger, domainErrors.NewUnauthenticated("You are not logged in.", ""))
		return
	}
	respondSuccess(c, http.StatusOK, user.Public())
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, refreshToken string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(h.authCfg.CookieName, refreshToken, int(h.jwtCfg.RefreshTokenTTL.Seconds()), h.authCfg.CookiePath, "", true, true)
}

func (h *AuthHandler) clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(h.authCfg.CookieName, "", -1, h.authCfg.CookiePath, "", true, true)
}
