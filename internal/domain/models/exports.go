package models

import (
	"time"

	"github.com/google/uuid"
)

// ItemStats summarizes item completion on a list.
type ItemStats struct {
	TotalItems     int `json:"total_items"`
	CompletedItems int `json:"completed_items"`
}

// ItemCompletionExport embeds the completing user's public data in an item
// export.
type ItemCompletionExport struct {
	CompletedBy PublicUser `json:"completed_by"`
	CompletedAt time.Time  `json:"completed_at"`
}

// ItemExport is the item shape used in list detail responses.
type ItemExport struct {
	ID        uuid.UUID             `json:"id"`
	Name      string                `json:"name"`
	Quantity  string                `json:"quantity"`
	Completed *ItemCompletionExport `json:"completed"`
}

// MemberExport is the member shape used in list detail responses. The
// permission is only filled in for callers allowed to manage members.
type MemberExport struct {
	ID         uuid.UUID         `json:"id"`
	User       PublicUser        `json:"user"`
	Permission *MemberPermission `json:"permission,omitempty"`
}

// ShoppingListOverview is the list shape used in paginated list responses.
// It carries the author's public data instead of the raw id and leaves out
// the items and members.
type ShoppingListOverview struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	Author     PublicUser `json:"author"`
	HasPhoto   bool       `json:"has_photo"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	CompleteBy time.Time  `json:"complete_by"`
	ClosedAt   *time.Time `json:"closed_at"`
	Stats      ItemStats  `json:"stats"`
}

// ShoppingListDetail is the full list shape returned by detail and mutation
// endpoints.
type ShoppingListDetail struct {
	ShoppingListOverview
	Items   []ItemExport   `json:"items"`
	Members []MemberExport `json:"members"`
}

// Pagination is the envelope metadata attached to every paginated response.
type Pagination struct {
	Total    int `json:"total"`
	Filtered int `json:"filtered"`
	MaxPage  int `json:"maxPage"`
	PageSize int `json:"pageSize"`
	Page     int `json:"page"`
}

// PaginatedShoppingLists is the data payload of the list endpoint.
type PaginatedShoppingLists struct {
	ShoppingLists []ShoppingListOverview `json:"shopping_lists"`
	Pagination    Pagination             `json:"pagination"`
}
