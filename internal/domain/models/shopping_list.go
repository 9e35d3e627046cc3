package models

import (
	"time"

	"github.com/google/uuid"
)

// MemberPermission is the permission a plain member holds on a list.
// "write" lets a member add items and toggle completion; it does not grant
// list metadata or member management rights.
type MemberPermission string

const (
	PermissionRead  MemberPermission = "read"
	PermissionWrite MemberPermission = "write"
)

// ShoppingList is the aggregate root. Items and members are owned child
// collections and are loaded together with the list.
type ShoppingList struct {
	ID              uuid.UUID            `json:"id"`
	AuthorID        uuid.UUID            `json:"author_id"`
	Name            string               `json:"name"`
	PhotoUploadPath *string              `json:"-"`
	Items           []ShoppingListItem   `json:"items"`
	Members         []ShoppingListMember `json:"members"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
	CompleteBy      time.Time            `json:"complete_by"`
	ClosedAt        *time.Time           `json:"closed_at"`
}

// IsClosed reports whether the list has been terminally closed. A closed
// list permits reads only; there is no reopen operation.
func (l *ShoppingList) IsClosed() bool { return l.ClosedAt != nil }

// ItemByID finds an item of the list by its id.
func (l *ShoppingList) ItemByID(id uuid.UUID) *ShoppingListItem {
	for i := range l.Items {
		if l.Items[i].ID == id {
			return &l.Items[i]
		}
	}
	return nil
}

// MemberByID finds a member entry of the list by its id.
func (l *ShoppingList) MemberByID(id uuid.UUID) *ShoppingListMember {
	for i := range l.Members {
		if l.Members[i].ID == id {
			return &l.Members[i]
		}
	}
	return nil
}

// MemberByUser finds a member entry of the list by the member's user id.
func (l *ShoppingList) MemberByUser(userID uuid.UUID) *ShoppingListMember {
	for i := range l.Members {
		if l.Members[i].UserID == userID {
			return &l.Members[i]
		}
	}
	return nil
}

// ShoppingListItem is a single entry on a shopping list. CompletedBy and
// CompletedAt are either both set or both nil.
type ShoppingListItem struct {
	ID          uuid.UUID  `json:"id"`
	ListID      uuid.UUID  `json:"-"`
	Name        string     `json:"name"`
	Quantity    string     `json:"quantity"`
	CompletedBy *uuid.UUID `json:"-"`
	CompletedAt *time.Time `json:"-"`
}

// IsCompleted reports whether the item has been marked as bought.
func (i *ShoppingListItem) IsCompleted() bool { return i.CompletedBy != nil }

// ShoppingListMember grants a user access to somebody else's list. A user
// can be a member of a given list at most once.
type ShoppingListMember struct {
	ID         uuid.UUID        `json:"id"`
	ListID     uuid.UUID        `json:"-"`
	UserID     uuid.UUID        `json:"user_id"`
	Permission MemberPermission `json:"permission"`
}

// CreateShoppingListRequest is the payload for creating a list.
type CreateShoppingListRequest struct {
	Name       string    `json:"name" binding:"required,min=3,max=300"`
	CompleteBy time.Time `json:"complete_by" binding:"required"`
}

// UpdateShoppingListRequest is the payload for updating a list. The
// completion date is optional and keeps its value when omitted.
type UpdateShoppingListRequest struct {
	Name       string     `json:"name" binding:"required,min=3,max=300"`
	CompleteBy *time.Time `json:"complete_by" binding:"omitempty"`
}

// SaveItemRequest is the payload for adding or editing a list item.
type SaveItemRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=250"`
	Quantity string `json:"quantity" binding:"required,min=1,max=50"`
}

// MarkItemBoughtRequest is the payload for toggling an item's completion.
type MarkItemBoughtRequest struct {
	Bought *bool `json:"bought" binding:"required"`
}

// MemberInput is a single member entry in an add-members request.
type MemberInput struct {
	User       uuid.UUID        `json:"user" binding:"required"`
	Permission MemberPermission `json:"permission" binding:"required,oneof=read write"`
}

// AddMembersRequest is the payload for adding members to a list.
type AddMembersRequest struct {
	Members []MemberInput `json:"members" binding:"required,min=1,dive"`
}

// ModifyMemberPermissionRequest is the payload for changing a member's
// permission.
type ModifyMemberPermissionRequest struct {
	Permission MemberPermission `json:"permission" binding:"required,oneof=read write"`
}

// IncludeOnly narrows the list query to own or shared lists.
type IncludeOnly string

const (
	IncludeOwn    IncludeOnly = "own"
	IncludeShared IncludeOnly = "shared"
	IncludeAll    IncludeOnly = "all"
)

// ShoppingListFilter carries the query parameters of the list endpoint.
type ShoppingListFilter struct {
	Page             int         `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize         int         `form:"pageSize,default=25" binding:"omitempty"`
	IncludeOnly      IncludeOnly `form:"includeOnly,default=all" binding:"omitempty,oneof=own shared all"`
	IncludeCompleted bool        `form:"includeCompleted,default=false"`
	Search           *string     `form:"search" binding:"omitempty"`
	Author           *uuid.UUID  `form:"author" binding:"omitempty"`
	CompleteBy       *time.Time  `form:"completeBy" binding:"omitempty" time_format:"2006-01-02T15:04:05Z07:00"`
}
