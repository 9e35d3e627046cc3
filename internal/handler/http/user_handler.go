package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	domainErrors "github.com/zemanluky/cz.uun-shopping-list.be/internal/domain/errors"
	"github.com/zemanluky/cz.uun-shopping-list.be/internal/domain/models"
	"github.com/zemanluky/cz.uun-shopping-list.be/internal/handler/http/middleware"
	"github.com/zemanluky/cz.uun-shopping-list.be/internal/service"
)

// UserHandler exposes registration, availability checks and user lookups.
type UserHandler struct {
	userService *service.UserService
	logger      *zap.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *service.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{userService: userService, logger: logger.Named("user_handler")}
}

// Register creates a new user account. Open to unauthenticated callers.
func (h *UserHandler) Register(c *gin.Context) {
	var req models.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, h.logger, err)
		return
	}

	if _, err := h.userService.Register(c.Request.Context(), req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	respondEmpty(c)
}

// CheckAvailability answers whether an email and/or username are free.
// Authenticated callers get their own identifiers counted as free, which
// lets the profile form validate unchanged values.
func (h *UserHandler) CheckAvailability(c *gin.Context) {
	var query models.AvailabilityQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBindingError(c, h.logger, err)
		return
	}

	var ignoreID *uuid.UUID
	if user, ok := middleware.CurrentUser(c); ok {
		ignoreID = &user.ID
	}

	availability, err := h.userService.CheckAvailability(c.Request.Context(), query, ignoreID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respondSuccess(c, http.StatusOK, availability)
}

// Search lists users matching the search query.
func (h *UserHandler) Search(c *gin.Context) {
	users, err := h.userService.Search(c.Request.Context(), c.Query("search"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, http.StatusOK, users)
}

// GetUser fetches a user's public profile. The path parameter is treated as
// an id by default; filter_type=username switches the lookup to the unique
// username instead.
func (h *UserHandler) GetUser(c *gin.Context) {
	param := c.Param("id")

	var (
		user *models.User
		err  error
	)
	switch filterType := c.DefaultQuery("filter_type", "id"); filterType {
	case "id":
		id, parseErr := uuid.Parse(param)
		if parseErr != nil {
			respondError(c, h.logger, domainErrors.NewValidation("The user id is not a valid UUID."))
			return
		}
		user, err = h.userService.GetByID(c.Request.Context(), id)
	case "username":
		user, err = h.userService.GetByUsername(c.Request.Context(), param)
	default:
		respondError(c, h.logger, domainErrors.NewValidation("The filter_type parameter must be either 'id' or 'username'."))
		return
	}

	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, http.StatusOK, user.Public())
}

// UpdateProfile updates the caller's own profile.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, h.logger, domainErrors.NewUnauthenticated("You are not logged in.", ""))
		return
	}

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, h.logger, err)
		return
	}

	updated, err := h.userService.UpdateProfile(c.Request.Context(), user.ID, req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, http.StatusOK, updated.Public())
}
