package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/zemanluky/cz.uun-shopping-list.be/internal/domain/models"
	"github.com/zemanluky/cz.uun-shopping-list.be/internal/domain/repository"
)

// listExporter composes response shapes for shopping lists. Lists store only
// user ids; the exporter resolves them to public user data in one batched
// lookup per response.
type listExporter struct {
	userRepo repository.UserRepository
}

// Detail builds the full list export. Member permissions are only included
// for the tiers allowed to manage members.
func (e *listExporter) Detail(ctx context.Context, list *models.ShoppingList, access models.ListAccess) (*models.ShoppingListDetail, error) {
	ids := make([]uuid.UUID, 0, 1+len(list.Members)+len(list.Items))
	ids = append(ids, list.AuthorID)
	for i := range list.Members {
		ids = append(ids, list.Members[i].UserID)
	}
	for i := range list.Items {
		if list.Items[i].CompletedBy != nil {
			ids = append(ids, *list.Items[i].CompletedBy)
		}
	}

	users, err := e.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	author := users[list.AuthorID]
	detail := &models.ShoppingListDetail{
		ShoppingListOverview: overviewOf(list, author.Public(), itemStats(list.Items)),
		Items:                make([]models.ItemExport, 0, len(list.Items)),
		Members:              make([]models.MemberExport, 0, len(list.Members)),
	}

	for i := range list.Items {
		item := &list.Items[i]
		export := models.ItemExport{
			ID:       item.ID,
			Name:     item.Name,
			Quantity: item.Quantity,
		}
		if item.IsCompleted() {
			completedBy := users[*item.CompletedBy]
			export.Completed = &models.ItemCompletionExport{
				CompletedBy: completedBy.Public(),
				CompletedAt: *item.CompletedAt,
			}
		}
		detail.Items = append(detail.Items, export)
	}

	includePermissions := access == models.AccessReadWrite
	for i := range list.Members {
		member := &list.Members[i]
		memberUser := users[member.UserID]
		export := models.MemberExport{
			ID:   member.ID,
			User: memberUser.Public(),
		}
		if includePermissions {
			permission := member.Permission
			export.Permission = &permission
		}
		detail.Members = append(detail.Members, export)
	}

	return detail, nil
}

// Overviews builds the paginated list export for a page of query rows.
func (e *listExporter) Overviews(ctx context.Context, rows []repository.ListRow) ([]models.ShoppingListOverview, error) {
	ids := make([]uuid.UUID, 0, len(rows))
	for i := range rows {
		ids = append(ids, rows[i].List.AuthorID)
	}

	users, err := e.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	overviews := make([]models.ShoppingListOverview, 0, len(rows))
	for i := range rows {
		row := &rows[i]
		stats := models.ItemStats{TotalItems: row.TotalItems, CompletedItems: row.CompletedItems}
		author := users[row.List.AuthorID]
		overviews = append(overviews, overviewOf(&row.List, author.Public(), stats))
	}
	return overviews, nil
}

func overviewOf(list *models.ShoppingList, author models.PublicUser, stats models.ItemStats) models.ShoppingListOverview {
	return models.ShoppingListOverview{
		ID:         list.ID,
		Name:       list.Name,
		Author:     author,
		HasPhoto:   list.PhotoUploadPath != nil,
		CreatedAt:  list.CreatedAt,
		UpdatedAt:  list.UpdatedAt,
		CompleteBy: list.CompleteBy,
		ClosedAt:   list.ClosedAt,
		Stats:      stats,
	}
}

func itemStats(items []models.ShoppingListItem) models.ItemStats {
	stats := models.ItemStats{TotalItems: len(items)}
	for i := range items {
		if items[i].IsCompleted() {
			stats.CompletedItems++
		}
	}
	return stats
}
