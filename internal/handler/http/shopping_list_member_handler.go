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

// ShoppingListMemberHandler exposes the member endpoints nested under a
// list. Members are addressed by their user id.
type ShoppingListMemberHandler struct {
	memberService *service.ShoppingListMemberService
	logger        *zap.Logger
}

// NewShoppingListMemberHandler creates a new ShoppingListMemberHandler.
func NewShoppingListMemberHandler(memberService *service.ShoppingListMemberService, logger *zap.Logger) *ShoppingListMemberHandler {
	return &ShoppingListMemberHandler{memberService: memberService, logger: logger.Named("shopping_list_member_handler")}
}

func memberIDParam(c *gin.Context, logger *zap.Logger) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("memberId"))
	if err != nil {
		respondError(c, logger, domainErrors.NewValidation("The member id is not a valid UUID."))
		return uuid.Nil, false
	}
	return id, true
}

// Add adds a batch of members to the list.
func (h *ShoppingListMemberHandler) Add(c *gin.Context) {
	user, ok := requireUser(c, h.logger)
	if !ok {
		return
	}
	listID, ok := listIDParam(c, h.logger)
	if !ok {
		return
	}

	var req models.AddMembersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, h.logger, err)
		return
	}

	detail, err := h.memberService.AddMembers(c.Request.Context(), listID, req, user)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, http.StatusCreated, detail)
}

// ModifyPermission changes a member's permission.
func (h *ShoppingListMemberHandler) ModifyPermission(c *gin.Context) {
	user, ok := requireUser(c, h.logger)
	if !ok {
		return
	}
	listID, ok := listIDParam(c, h.logger)
	if !ok {
		return
	}
	memberID, ok := memberIDParam(c, h.logger)
	if !ok {
		return
	}

	var req models.ModifyMemberPermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, h.logger, err)
		return
	}

	detail, err := h.memberService.ModifyPermission(c.Request.Context(), listID, memberID, req.Permission, user)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, http.StatusOK, detail)
}

// Remove removes a member from the list.
func (h *ShoppingListMemberHandler) Remove(c *gin.Context) {
	user, ok := requireUser(c, h.logger)
	if !ok {
		return
	}
	listID, ok := listIDParam(c, h.logger)
	if !ok {
		return
	}
	memberID, ok := memberIDParam(c, h.logger)
	if !ok {
		return
	}

	detail, err := h.memberService.RemoveMember(c.Request.Context(), listID, memberID, user)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, http.StatusOK, detail)
}
