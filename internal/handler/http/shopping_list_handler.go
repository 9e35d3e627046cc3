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

// ShoppingListHandler exposes the shopping list collection and lifecycle
// endpoints.
type ShoppingListHandler struct {
	listService *service.ShoppingListService
	logger      *zap.Logger
}

// NewShoppingListHandler creates a new ShoppingListHandler.
func NewShoppingListHandler(listService *service.ShoppingListService, logger *zap.Logger) *ShoppingListHandler {
	return &ShoppingListHandler{listService: listService, logger: logger.Named("shopping_list_handler")}
}

// requireUser fetches the authenticated user or writes the error response.
func requireUser(c *gin.Context, logger *zap.Logger) (*models.User, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, logger, domainErrors.NewUnauthenticated("You are not logged in.", ""))
		return nil, false
	}
	return user, true
}

// listIDParam parses the :id path parameter or writes the error response.
func listIDParam(c *gin.Context, logger *zap.Logger) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, logger, domainErrors.NewValidation("The shopping list id is not a valid UUID."))
		return uuid.Nil, false
	}
	return id, true
}

// List returns the caller's paginated, filtered shopping lists.
func (h *ShoppingListHandler) List(c *gin.Context) {
	user, ok := requireUser(c, h.logger)
	if !ok {
		return
	}

	var filter models.ShoppingListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		respondBindingError(c, h.logger, err)
		return
	}

	page, err := h.listService.List(c.Request.Context(), filter, user)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, http.StatusOK, page)
}

// Create opens a new shopping list authored by the caller.
func (h *ShoppingListHandler) Create(c *gin.Context) {
	user, ok := requireUser(c, h.logger)
	if !ok {
		return
	}

	var req models.CreateShoppingListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, h.logger, err)
		return
	}

	detail, err := h.listService.Create(c.Request.Context(), req, user)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, http.StatusCreated, detail)
}

// GetDetail returns the full detail of one shopping list.
func (h *ShoppingListHandler) GetDetail(c *gin.Context) {
	user, ok := requireUser(c, h.logger)
	if !ok {
		return
	}
	id, ok := listIDParam(c, h.logger)
	if !ok {
		return
	}

	detail, err := h.listService.GetDetail(c.Request.Context(), id, user)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, http.StatusOK, detail)
}

// Update changes the list's name and optionally its completion date.
func (h *ShoppingListHandler) Update(c *gin.Context) {
	user, ok := requireUser(c, h.logger)
	if !ok {
		return
	}
	id, ok := listIDParam(c, h.logger)
	if !ok {
		return
	}

	var req models.UpdateShoppingListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, h.logger, err)
		return
	}

	detail, err := h.listService.Update(c.Request.Context(), id, req, user)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, http.StatusOK, detail)
}

// Close terminally closes the list and completes its remaining items.
func (h *ShoppingListHandler) Close(c *gin.Context) {
	user, ok := requireUser(c, h.logger)
	if !ok {
		return
	}
	id, ok := listIDParam(c, h.logger)
	if !ok {
		return
	}

	detail, err := h.listService.Close(c.Request.Context(), id, user)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, http.StatusOK, detail)
}

// Delete removes the list with all of its items and members.
func (h *ShoppingListHandler) Delete(c *gin.Context) {
	user, ok := requireUser(c, h.logger)
	if !ok {
		return
	}
	id, ok := listIDParam(c, h.logger)
	if !ok {
		return
	}

	if err := h.listService.Delete(c.Request.Context(), id, user); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondEmpty(c)
}
