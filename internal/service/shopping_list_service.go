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
	"github.com/zemanluky/cz.uun-shopping-list.be/internal/events/kafka"
	"github.com/zemanluky/cz.uun-shopping-list.be/internal/utils/pagination"
)

// ShoppingListService manages the lifecycle and metadata of shopping lists.
type ShoppingListService struct {
	listRepo repository.ShoppingListRepository
	exporter *listExporter
	producer *kafka.Producer
	logger   *zap.Logger

	now func() time.Time
}

// NewShoppingListService creates a new ShoppingListService.
func NewShoppingListService(listRepo repository.ShoppingListRepository, userRepo repository.UserRepository, producer *kafka.Producer, logger *zap.Logger) *ShoppingListService {
	return &ShoppingListService{
		listRepo: listRepo,
		exporter: &listExporter{userRepo: userRepo},
		producer: producer,
		logger:   logger.Named("shopping_list_service"),
		now:      time.Now,
	}
}

// loadListForUser fetches the list aggregate and computes the caller's
// access tier. The not-found check always runs before any access check, so
// a caller can distinguish a missing list from a forbidden one — that is
// intended, lists are not secret resources.
func (s *ShoppingListService) loadListForUser(ctx context.Context, id uuid.UUID, user *models.User) (*models.ShoppingList, models.ListAccess, error) {
	list, err := s.listRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, models.AccessNone, domainErrors.NewNotFoundEntity("Could not find the requested shopping list.", "shopping_list")
		}
		return nil, models.AccessNone, err
	}
	return list, models.CheckListAccess(list, user), nil
}

// Create opens a new shopping list authored by the caller. The completion
// date must not lie before the start of the current day.
func (s *ShoppingListService) Create(ctx context.Context, req models.CreateShoppingListRequest, user *models.User) (*models.ShoppingListDetail, error) {
	now := s.now()
	if req.CompleteBy.Before(startOfDay(now)) {
		return nil, domainErrors.NewValidation("The completion date may not be in the past.")
	}

	list := &models.ShoppingList{
		ID:         uuid.New(),
		AuthorID:   user.ID,
		Name:       req.Name,
		CreatedAt:  now,
		UpdatedAt:  now,
		CompleteBy: req.CompleteBy,
		Items:      []models.ShoppingListItem{},
		Members:    []models.ShoppingListMember{},
	}

	if err := s.listRepo.Create(ctx, list); err != nil {
		return nil, err
	}

	return s.exporter.Detail(ctx, list, models.AccessReadWrite)
}

// GetDetail fetches the full list detail for any caller with at least read
// access.
func (s *ShoppingListService) GetDetail(ctx context.Context, id uuid.UUID, user *models.User) (*models.ShoppingListDetail, error) {
	list, access, err := s.loadListForUser(ctx, id, user)
	if err != nil {
		return nil, err
	}
	if access == models.AccessNone {
		return nil, domainErrors.NewPermission("You do not have access to this shopping list.", "shopping_list:read")
	}
	return s.exporter.Detail(ctx, list, access)
}

// List runs the paginated list query. Visibility is resolved here: admins
// see everything, everybody else sees lists they authored or are a member
// of, further narrowed by the filter.
func (s *ShoppingListService) List(ctx context.Context, filter models.ShoppingListFilter, user *models.User) (*models.PaginatedShoppingLists, error) {
	params := pagination.Validate(filter.Page, filter.PageSize, pagination.MaxPageSize)

	query := repository.ListQuery{
		CallerID:           user.ID,
		CallerIsAdmin:      user.IsAdmin(),
		IncludeOnly:        filter.IncludeOnly,
		Author:             filter.Author,
		AuthorUnrestricted: user.IsAdmin() || (filter.Author != nil && *filter.Author == user.ID),
		Search:             filter.Search,
		CompleteBy:         filter.CompleteBy,
		IncludeCompleted:   filter.IncludeCompleted,
		Limit:              params.PageSize,
		Offset:             params.Offset,
	}

	rows, total, filtered, err := s.listRepo.List(ctx, query)
	if err != nil {
		return nil, err
	}

	overviews, err := s.exporter.Overviews(ctx, rows)
	if err != nil {
		return nil, err
	}

	return &models.PaginatedShoppingLists{
		ShoppingLists: overviews,
		Pagination: models.Pagination{
			Total:    total,
			Filtered: filtered,
			MaxPage:  pagination.MaxPage(filtered, params.PageSize),
			PageSize: params.PageSize,
			Page:     params.Page,
		},
	}, nil
}

// Update changes the list's name and optionally its completion date. Only
// the author and admins may do this, and only while the list is open.
func (s *ShoppingListService) Update(ctx context.Context, id uuid.UUID, req models.UpdateShoppingListRequest, user *models.User) (*models.ShoppingListDetail, error) {
	list, access, err := s.loadListForUser(ctx, id, user)
	if err != nil {
		return nil, err
	}
	if access != models.AccessReadWrite {
		return nil, domainErrors.NewPermission("You do not have permission to update this shopping list.", "shopping_list:write")
	}
	if list.IsClosed() {
		return nil, domainErrors.NewBadRequest("Cannot update an already closed shopping list.", "shopping_list:edit_closed_list")
	}

	now := s.now()
	if err := s.listRepo.UpdateMeta(ctx, id, req.Name, req.CompleteBy, now); err != nil {
		return nil, err
	}

	list.Name = req.Name
	if req.CompleteBy != nil {
		list.CompleteBy = *req.CompleteBy
	}
	list.UpdatedAt = now

	return s.exporter.Detail(ctx, list, access)
}

// Close terminally closes the list. Every incomplete item is completed in
// the same transaction, attributed to the closing user. There is no reopen.
func (s *ShoppingListService) Close(ctx context.Context, id uuid.UUID, user *models.User) (*models.ShoppingListDetail, error) {
	list, access, err := s.loadListForUser(ctx, id, user)
	if err != nil {
		return nil, err
	}
	if access != models.AccessReadWrite {
		return nil, domainErrors.NewPermission("You do not have permission to close this shopping list.", "shopping_list:write")
	}
	if list.IsClosed() {
		return nil, domainErrors.NewBadRequest("The shopping list has already been closed.", "shopping_list:edit_closed_list")
	}

	now := s.now()
	if err := s.listRepo.Close(ctx, id, user.ID, now); err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			// Lost a race with a concurrent close.
			return nil, domainErrors.NewBadRequest("The shopping list has already been closed.", "shopping_list:edit_closed_list")
		}
		return nil, err
	}

	list.ClosedAt = &now
	list.UpdatedAt = now
	for i := range list.Items {
		if !list.Items[i].IsCompleted() {
			completedBy := user.ID
			completedAt := now
			list.Items[i].CompletedBy = &completedBy
			list.Items[i].CompletedAt = &completedAt
		}
	}

	if err := s.producer.Publish(ctx, kafka.EventShoppingListClose, list.ID.String(), map[string]string{
		"shopping_list_id": list.ID.String(),
		"closed_by":        user.ID.String(),
	}); err != nil {
		s.logger.Warn("failed to publish list closed event", zap.Error(err))
	}

	return s.exporter.Detail(ctx, list, access)
}

// Delete removes the list together with its items and members. Works on
// open and closed lists alike.
func (s *ShoppingListService) Delete(ctx context.Context, id uuid.UUID, user *models.User) error {
	_, access, err := s.loadListForUser(ctx, id, user)
	if err != nil {
		return err
	}
	if access != models.AccessReadWrite {
		return domainErrors.NewPermission("You do not have permission to delete this shopping list.", "shopping_list:delete")
	}

	return s.listRepo.Delete(ctx, id)
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
