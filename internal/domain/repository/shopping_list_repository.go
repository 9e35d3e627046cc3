package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/zemanluky/cz.uun-shopping-list.be/internal/domain/models"
)

// ListQuery carries the resolved visibility filter for listing shopping
// lists. The caller fields decide which lists the query may see at all; the
// remaining fields narrow the result further.
type ListQuery struct {
	CallerID      uuid.UUID
	CallerIsAdmin bool
	IncludeOnly   models.IncludeOnly
	Author        *uuid.UUID
	// AuthorUnrestricted is set when the caller may see all of the author's
	// lists (admin or the author themselves); otherwise only lists of that
	// author where the caller is a member are visible.
	AuthorUnrestricted bool
	Search             *string
	CompleteBy         *time.Time
	IncludeCompleted   bool
	Limit              int
	Offset             int
}

// ListRow is one result of a list query: the list without its child
// collections, plus its item statistics.
type ListRow struct {
	List           models.ShoppingList
	TotalItems     int
	CompletedItems int
}

// ShoppingListRepository persists shopping lists with their owned items and
// members. Item and member mutations are conditional updates matched on both
// the child id and the list id, so concurrent edits of different children do
// not clobber each other; whole-list fields are last-write-wins.
type ShoppingListRepository interface {
	// Create inserts a new, open list.
	Create(ctx context.Context, list *models.ShoppingList) error
	// FindByID loads the full aggregate: list, items and members. Returns
	// errors.ErrNotFound when no such list exists.
	FindByID(ctx context.Context, id uuid.UUID) (*models.ShoppingList, error)
	// UpdateMeta sets the list's name and, when non-nil, its completion date.
	UpdateMeta(ctx context.Context, id uuid.UUID, name string, completeBy *time.Time, updatedAt time.Time) error
	// Close sets closed_at and completes every incomplete item in a single
	// transaction, attributed to the closing user.
	Close(ctx context.Context, id uuid.UUID, closedBy uuid.UUID, at time.Time) error
	// Delete removes the list and, through cascade, its items and members.
	Delete(ctx context.Context, id uuid.UUID) error
	// List runs the visibility query. Returns the page rows, the total
	// number of lists in the store and the number matching the filter.
	List(ctx context.Context, q ListQuery) (rows []ListRow, total int, filtered int, err error)

	// AddItem appends an item and bumps the list's updated_at.
	AddItem(ctx context.Context, item *models.ShoppingListItem, updatedAt time.Time) error
	// UpdateItem sets an item's name and quantity, matched on item and list id.
	UpdateItem(ctx context.Context, listID, itemID uuid.UUID, name, quantity string, updatedAt time.Time) error
	// DeleteItem removes an item, matched on item and list id.
	DeleteItem(ctx context.Context, listID, itemID uuid.UUID, updatedAt time.Time) error
	// SetItemCompletion sets or clears an item's completion mark. Both
	// completedBy and completedAt are nil to clear, both set to mark.
	SetItemCompletion(ctx context.Context, listID, itemID uuid.UUID, completedBy *uuid.UUID, completedAt *time.Time, updatedAt time.Time) error

	// AddMembers appends member entries and bumps the list's updated_at.
	AddMembers(ctx context.Context, listID uuid.UUID, members []models.ShoppingListMember, updatedAt time.Time) error
	// UpdateMemberPermission sets a member's permission, matched on member and list id.
	UpdateMemberPermission(ctx context.Context, listID, memberID uuid.UUID, permission models.MemberPermission, updatedAt time.Time) error
	// RemoveMember removes a member entry, matched on member and list id.
	RemoveMember(ctx context.Context, listID, memberID uuid.UUID, updatedAt time.Time) error
}
