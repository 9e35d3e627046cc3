package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/zemanluky/cz.uun-shopping-list.be/internal/config"
	"github.com/zemanluky/cz.uun-shopping-list.be/internal/domain/models"
)

func TestIdentityExportsPublicUserDataOnly(t *testing.T) {
	gin.SetMode(gin.TestMode)

	user := &models.User{
		ID:           uuid.New(),
		Name:         "Anna",
		Surname:      "Dvorak",
		Username:     "anna_d",
		Email:        "anna@example.com",
		PasswordHash: "$argon2id$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA",
		Role:         models.RoleAdmin,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	handler := NewAuthHandler(nil, config.AuthConfig{}, config.JWTConfig{}, zap.NewNop())

	router := gin.New()
	router.GET("/auth/identity", func(c *gin.Context) {
		c.Set("currentUser", user)
	}, handler.Identity)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/auth/identity", nil)
	router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Data map[string]json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))

	assert.JSONEq(t, `"anna_d"`, string(body.Data["username"]))
	assert.JSONEq(t, `"anna@example.com"`, string(body.Data["email"]))
	assert.NotContains(t, body.Data, "role")
	assert.NotContains(t, recorder.Body.String(), "argon2id")
}

func TestIdentityWithoutUserIsUnauthenticated(t *testing.T) {
	gin.SetMode(gin.TestMode)

	handler := NewAuthHandler(nil, config.AuthConfig{}, config.JWTConfig{}, zap.NewNop())

	router := gin.New()
	router.GET("/auth/identity", handler.Identity)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/auth/identity", nil)
	router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusUnauthorized, recorder.Code)
}
