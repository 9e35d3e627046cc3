package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	domainErrors "github.com/zemanluky/cz.uun-shopping-list.be/internal/domain/errors"
	"github.com/zemanluky/cz.uun-shopping-list.be/internal/domain/models"
	"github.com/zemanluky/cz.uun-shopping-list.be/internal/service"
)

// ShoppingListItemHandler exposes the item endpoints nested under a list.
type ShoppingListItemHandler struct {
	itemService *service.ShoppingListItemService
	logger      *zap.Logger
}

// NewShoppingListItemHandler creates a new ShoppingListItemHandler.
func NewShoppingListItemHandler(itemService *service.ShoppingListItemService, logger *zap.Logger) *ShoppingListItemHandler {
	return &ShoppingListItemHandler{itemService: itemService, logger: logger.Named("shopping_list_item_handler")}
}

func itemIDParam(c *gin.Context, logger *zap.Logger) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		respondError(c, logger, domainErrors.NewValidation("The item id is not a valid UUID."))
		return uuid.Nil, false
	}
	return id, true
}

// Create adds a new item to the list.
func (h *ShoppingListItemHandler) Create(c *gin.Context) {
	user, ok := requireUser(c, h.logger)
	if !ok {
		return
	}
	listID, ok := listIDParam(c, h.logger)
	if !ok {
		return
	}

	var req models.SaveItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, h.logger, err)
		return
	}

	detail, err := h.itemService.CreateItem(c.Request.Context(), listID, req, user)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, http.StatusCreated, detail)
}

// Update changes an item's name and quantity.
func (h *ShoppingListItemHandler) Update(c *gin.Context) {
	user, ok := requireUser(c, h.logger)
	if !ok {
		return
	}
	listID, ok := listIDParam(c, h.logger)
	if !ok {
		return
	}
	itemID, ok := itemIDParam(c, h.logger)
	if !ok {
		return
	}

	var req models.SaveItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, h.logger, err)
		return
	}

	detail, err := h.itemService.UpdateItem(c.Request.Context(), listID, itemID, req, user)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, http.StatusOK, detail)
}

// Delete removes an item from the list.
func (h *ShoppingListItemHandler) Delete(c *gin.Context) {
	user, ok := requireUser(c, h.logger)
	if !ok {
		return
	}
	listID, ok := listIDParam(c, h.logger)
	if !ok {
		return
	}
	itemID, ok := itemIDParam(c, h.logger)
	if !ok {
		return
	}

	detail, err := h.itemService.DeleteItem(c.Request.Context(), listID, itemID, user)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, http.StatusOK, detail)
}

// ChangeCompletion marks an item as bought or clears the mark.
func (h *ShoppingListItemHandler) ChangeCompletion(c *gin.Context) {
	user, ok := requireUser(c, h.logger)
	if !ok {
		return
	}
	listID, ok := listIDParam(c, h.logger)
	if !ok {
		return
	}
	itemID, ok := itemIDParam(c, h.logger)
	if !ok {
		return
	}

	var req models.MarkItemBoughtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, h.logger, err)
		return
	}

	detail, err := h.itemService.ChangeCompletion(c.Request.Context(), listID, itemID, *req.Bought, user)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, http.StatusOK, detail)
}
