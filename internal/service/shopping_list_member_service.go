package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domainErrors "github.com/zemanluky/cz.uun-shopping-list.be/internal/domain/errors"
	"github.com/zemanluky/cz.uun-shopping-list.be/internal/domain/models"
	"github.com/zemanluky/cz.uun-shopping-list.be/internal/domain/repository"
)

// ShoppingListMemberService manages who else can see and edit a shopping
// list. Member management is reserved for the author and admins; plain
// members, whatever their permission, cannot touch the member set.
type ShoppingListMemberService struct {
	listRepo repository.ShoppingListRepository
	lists    *ShoppingListService
	exporter *listExporter
	logger   *zap.Logger

	now func() time.Time
}

// NewShoppingListMemberService creates a new ShoppingListMemberService.
func NewShoppingListMemberService(listRepo repository.ShoppingListRepository, userRepo repository.UserRepository, lists *ShoppingListService, logger *zap.Logger) *ShoppingListMemberService {
	return &ShoppingListMemberService{
		listRepo: listRepo,
		lists:    lists,
		exporter: &listExporter{userRepo: userRepo},
		logger:   logger.Named("shopping_list_member_service"),
		now:      time.Now,
	}
}

// AddMembers adds a batch of members to an open list. The batch is rejected
// as a whole when any entry duplicates an existing member or another entry
// of the same batch.
func (s *ShoppingListMemberService) AddMembers(ctx context.Context, listID uuid.UUID, req models.AddMembersRequest, user *models.User) (*models.ShoppingListDetail, error) {
	list, access, err := s.lists.loadListForUser(ctx, listID, user)
	if err != nil {
		return nil, err
	}
	if access != models.AccessReadWrite {
		return nil, domainErrors.NewPermission("You do not have permission to add members to this shopping list.", "shopping_list.member:add")
	}
	if list.IsClosed() {
		return nil, domainErrors.NewBadRequest("Cannot add members to an already closed shopping list.", "shopping_list.member:closed_list")
	}

	seen := make(map[uuid.UUID]struct{}, len(req.Members))
	for _, input := range req.Members {
		if _, dup := seen[input.User]; dup {
			return nil, duplicateMemberError()
		}
		seen[input.User] = struct{}{}

		if input.User == list.AuthorID || list.MemberByUser(input.User) != nil {
			return nil, duplicateMemberError()
		}
	}

	members := make([]models.ShoppingListMember, 0, len(req.Members))
	for _, input := range req.Members {
		members = append(members, models.ShoppingListMember{
			ID:         uuid.New(),
			ListID:     listID,
			UserID:     input.User,
			Permission: input.Permission,
		})
	}

	now := s.now()
	if err := s.listRepo.AddMembers(ctx, listID, members, now); err != nil {
		// The in-memory duplicate check races with concurrent adds; the
		// unique constraint on (list, user) is the authoritative answer.
		if errors.Is(err, domainErrors.ErrAlreadyExists) {
			return nil, duplicateMemberError()
		}
		return nil, err
	}

	list.Members = append(list.Members, members...)
	list.UpdatedAt = now

	return s.exporter.Detail(ctx, list, access)
}

// ModifyPermission changes a member's permission. The member is addressed by
// their user id.
func (s *ShoppingListMemberService) ModifyPermission(ctx context.Context, listID, memberUserID uuid.UUID, permission models.MemberPermission, user *models.User) (*models.ShoppingListDetail, error) {
	list, access, err := s.lists.loadListForUser(ctx, listID, user)
	if err != nil {
		return nil, err
	}
	if access != models.AccessReadWrite {
		return nil, domainErrors.NewPermission("You do not have permission to change member permissions on this shopping list.", "shopping_list.member:edit_permission")
	}
	if list.IsClosed() {
		return nil, domainErrors.NewBadRequest("Cannot change member permissions on an already closed shopping list.", "shopping_list.member:closed_list")
	}

	member := list.MemberByUser(memberUserID)
	if member == nil {
		return nil, domainErrors.NewNotFoundEntity("Could not find the requested member on the shopping list.", "shopping_list.member")
	}

	now := s.now()
	if err := s.listRepo.UpdateMemberPermission(ctx, listID, member.ID, permission, now); err != nil {
		return nil, err
	}

	member.Permission = permission
	list.UpdatedAt = now

	return s.exporter.Detail(ctx, list, access)
}

// RemoveMember removes a member from an open list, addressed by their user
// id. The author cannot be removed because they are never in the member set.
func (s *ShoppingListMemberService) RemoveMember(ctx context.Context, listID, memberUserID uuid.UUID, user *models.User) (*models.ShoppingListDetail, error) {
	list, access, err := s.lists.loadListForUser(ctx, listID, user)
	if err != nil {
		return nil, err
	}
	if access != models.AccessReadWrite {
		return nil, domainErrors.NewPermission("You do not have permission to remove members from this shopping list.", "shopping_list.member:remove")
	}
	if list.IsClosed() {
		return nil, domainErrors.NewBadRequest("Cannot remove members from an already closed shopping list.", "shopping_list.member:closed_list")
	}

	member := list.MemberByUser(memberUserID)
	if member == nil {
		return nil, domainErrors.NewNotFoundEntity("Could not find the requested member on the shopping list.", "shopping_list.member")
	}

	now := s.now()
	if err := s.listRepo.RemoveMember(ctx, listID, member.ID, now); err != nil {
		return nil, err
	}

	members := list.Members[:0]
	for i := range list.Members {
		if list.Members[i].ID != member.ID {
			members = append(members, list.Members[i])
		}
	}
	list.Members = members
	list.UpdatedAt = now

	return s.exporter.Detail(ctx, list, access)
}

func duplicateMemberError() error {
	return domainErrors.NewBadRequest("One or more of the users are already members of the shopping list.", "shopping_list.member:duplicate")
}
