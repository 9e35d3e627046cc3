package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domainErrors "github.com/zemanluky/cz.uun-shopping-list.be/internal/domain/errors"
)

func performRequest(handler gin.HandlerFunc) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/test", handler)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/test", nil)
	router.ServeHTTP(recorder, request)
	return recorder
}

func TestRespondSuccessEnvelope(t *testing.T) {
	recorder := performRequest(func(c *gin.Context) {
		respondSuccess(c, http.StatusCreated, gin.H{"name": "Groceries"})
	})

	require.Equal(t, http.StatusCreated, recorder.Code)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.JSONEq(t, `201`, string(body["status"]))
	assert.JSONEq(t, `true`, string(body["success"]))
	assert.JSONEq(t, `{"name":"Groceries"}`, string(body["data"]))
}

func TestRespondErrorEnvelope(t *testing.T) {
	recorder := performRequest(func(c *gin.Context) {
		respondError(c, zap.NewNop(), domainErrors.NewPermission("You do not have access to this shopping list.", "shopping_list:read"))
	})

	require.Equal(t, http.StatusForbidden, recorder.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, http.StatusForbidden, body.Status)
	assert.False(t, body.Success)
	assert.Equal(t, "forbidden_action.shopping_list:read", body.Error.Code)
	assert.Equal(t, "You do not have access to this shopping list.", body.Error.Message)
	assert.Empty(t, body.Error.Trace, "trace stays hidden outside debug mode")
}

func TestRespondErrorDegradesUnknownErrors(t *testing.T) {
	recorder := performRequest(func(c *gin.Context) {
		respondError(c, zap.NewNop(), errors.New("connection reset by peer"))
	})

	require.Equal(t, http.StatusInternalServerError, recorder.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "internal_server_error", body.Error.Code)
	assert.NotContains(t, body.Error.Message, "connection reset", "internal details must not leak")
}

func TestRespondBindingErrorMapsUnparseableBody(t *testing.T) {
	recorder := performRequest(func(c *gin.Context) {
		respondBindingError(c, zap.NewNop(), errors.New("unexpected end of JSON input"))
	})

	require.Equal(t, http.StatusUnprocessableEntity, recorder.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "failed_parse", body.Error.Code)
}
