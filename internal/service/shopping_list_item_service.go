package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domainErrors "github.com/zemanluky/cz.uun-shopping-list.be/internal/domain/errors"
	"github.com/zemanluky/cz.uun-shopping-list.be/internal/domain/models"
	"github.com/zemanluky/cz.uun-shopping-list.be/internal/domain/repository"
)

// ShoppingListItemService manages the items of a shopping list. Every
// operation checks in the same order: list existence, the caller's access,
// the list being open, and only then the item itself. The access check runs
// before the item lookup on purpose, so a caller without rights learns
// nothing about which items exist.
type ShoppingListItemService struct {
	listRepo repository.ShoppingListRepository
	lists    *ShoppingListService
	exporter *listExporter
	logger   *zap.Logger

	now func() time.Time
}

// NewShoppingListItemService creates a new ShoppingListItemService.
func NewShoppingListItemService(listRepo repository.ShoppingListRepository, userRepo repository.UserRepository, lists *ShoppingListService, logger *zap.Logger) *ShoppingListItemService {
	return &ShoppingListItemService{
		listRepo: listRepo,
		lists:    lists,
		exporter: &listExporter{userRepo: userRepo},
		logger:   logger.Named("shopping_list_item_service"),
		now:      time.Now,
	}
}

// CreateItem adds a new item to an open list.
func (s *ShoppingListItemService) CreateItem(ctx context.Context, listID uuid.UUID, req models.SaveItemRequest, user *models.User) (*models.ShoppingListDetail, error) {
	list, access, err := s.lists.loadListForUser(ctx, listID, user)
	if err != nil {
		return nil, err
	}
	if !access.CanAccessItems() {
		return nil, domainErrors.NewPermission("You do not have permission to add items to this shopping list.", "shopping_list.item:add")
	}
	if list.IsClosed() {
		return nil, domainErrors.NewBadRequest("Cannot add items to an already closed shopping list.", "shopping_list.item:closed_list")
	}

	now := s.now()
	item := models.ShoppingListItem{
		ID:       uuid.New(),
		ListID:   listID,
		Name:     req.Name,
		Quantity: req.Quantity,
	}
	if err := s.listRepo.AddItem(ctx, &item, now); err != nil {
		return nil, err
	}

	list.Items = append(list.Items, item)
	list.UpdatedAt = now

	return s.exporter.Detail(ctx, list, access)
}

// UpdateItem changes an item's name and quantity. Completed items are
// frozen and cannot be edited.
func (s *ShoppingListItemService) UpdateItem(ctx context.Context, listID, itemID uuid.UUID, req models.SaveItemRequest, user *models.User) (*models.ShoppingListDetail, error) {
	list, access, err := s.lists.loadListForUser(ctx, listID, user)
	if err != nil {
		return nil, err
	}
	if !access.CanAccessItems() {
		return nil, domainErrors.NewPermission("You do not have permission to edit items of this shopping list.", "shopping_list.item:edit")
	}
	if list.IsClosed() {
		return nil, domainErrors.NewBadRequest("Cannot edit items of an already closed shopping list.", "shopping_list.item:closed_list")
	}

	item := list.ItemByID(itemID)
	if item == nil {
		return nil, domainErrors.NewNotFoundEntity("Could not find the requested item on the shopping list.", "shopping_list.item")
	}
	if item.IsCompleted() {
		return nil, domainErrors.NewBadRequest("Cannot edit an item that has already been bought.", "shopping_list.item:edit_completed_item")
	}

	now := s.now()
	if err := s.listRepo.UpdateItem(ctx, listID, itemID, req.Name, req.Quantity, now); err != nil {
		return nil, err
	}

	item.Name = req.Name
	item.Quantity = req.Quantity
	list.UpdatedAt = now

	return s.exporter.Detail(ctx, list, access)
}

// DeleteItem removes an item from an open list. Completed items cannot be
// deleted.
func (s *ShoppingListItemService) DeleteItem(ctx context.Context, listID, itemID uuid.UUID, user *models.User) (*models.ShoppingListDetail, error) {
	list, access, err := s.lists.loadListForUser(ctx, listID, user)
	if err != nil {
		return nil, err
	}
	if !access.CanAccessItems() {
		return nil, domainErrors.NewPermission("You do not have permission to delete items of this shopping list.", "shopping_list.item:delete")
	}
	if list.IsClosed() {
		return nil, domainErrors.NewBadRequest("Cannot delete items of an already closed shopping list.", "shopping_list.item:closed_list")
	}

	item := list.ItemByID(itemID)
	if item == nil {
		return nil, domainErrors.NewNotFoundEntity("Could not find the requested item on the shopping list.", "shopping_list.item")
	}
	if item.IsCompleted() {
		return nil, domainErrors.NewBadRequest("Cannot delete an item that has already been bought.", "shopping_list.item:delete_completed_item")
	}

	now := s.now()
	if err := s.listRepo.DeleteItem(ctx, listID, itemID, now); err != nil {
		return nil, err
	}

	items := list.Items[:0]
	for i := range list.Items {
		if list.Items[i].ID != itemID {
			items = append(items, list.Items[i])
		}
	}
	list.Items = items
	list.UpdatedAt = now

	return s.exporter.Detail(ctx, list, access)
}

// ChangeCompletion marks an item as bought or clears the mark. Any caller
// with at least read access may toggle. Asking for the state the item is
// already in is a no-op: the current detail is returned and nothing is
// written, so the list's updated_at does not move.
func (s *ShoppingListItemService) ChangeCompletion(ctx context.Context, listID, itemID uuid.UUID, bought bool, user *models.User) (*models.ShoppingListDetail, error) {
	list, access, err := s.lists.loadListForUser(ctx, listID, user)
	if err != nil {
		return nil, err
	}
	if access == models.AccessNone {
		return nil, domainErrors.NewPermission("You do not have permission to change the status of items on this shopping list.", "shopping_list.item:change_status")
	}
	if list.IsClosed() {
		return nil, domainErrors.NewBadRequest("Cannot change item status on an already closed shopping list.", "shopping_list.item:closed_list")
	}

	item := list.ItemByID(itemID)
	if item == nil {
		return nil, domainErrors.NewNotFoundEntity("Could not find the requested item on the shopping list.", "shopping_list.item")
	}

	if item.IsCompleted() == bought {
		return s.exporter.Detail(ctx, list, access)
	}

	now := s.now()
	var completedBy *uuid.UUID
	var completedAt *time.Time
	if bought {
		userID := user.ID
		completedBy = &userID
		completedAt = &now
	}

	if err := s.listRepo.SetItemCompletion(ctx, listID, itemID, completedBy, completedAt, now); err != nil {
		return nil, err
	}

	item.CompletedBy = completedBy
	item.CompletedAt = completedAt
	list.UpdatedAt = now

	return s.exporter.Detail(ctx, list, access)
}
