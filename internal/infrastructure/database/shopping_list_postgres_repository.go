package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/zemanluky/cz.uun-shopping-list.be/internal/domain/errors"
	"github.com/zemanluky/cz.uun-shopping-list.be/internal/domain/models"
	"github.com/zemanluky/cz.uun-shopping-list.be/internal/domain/repository"
)

const listColumns = `id, author_id, name, photo_upload_path, created_at, updated_at, complete_by, closed_at`

type pgxShoppingListRepository struct {
	db *pgxpool.Pool
}

// NewPgxShoppingListRepository creates a ShoppingListRepository backed by
// PostgreSQL.
func NewPgxShoppingListRepository(db *pgxpool.Pool) repository.ShoppingListRepository {
	return &pgxShoppingListRepository{db: db}
}

func scanList(row pgx.Row, l *models.ShoppingList) error {
	return row.Scan(
		&l.ID, &l.AuthorID, &l.Name, &l.PhotoUploadPath,
		&l.CreatedAt, &l.UpdatedAt, &l.CompleteBy, &l.ClosedAt,
	)
}

func (r *pgxShoppingListRepository) Create(ctx context.Context, list *models.ShoppingList) error {
	query := `
		INSERT INTO shopping_lists (id, author_id, name, photo_upload_path, created_at, updated_at, complete_by, closed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.Exec(ctx, query,
		list.ID, list.AuthorID, list.Name, list.PhotoUploadPath,
		list.CreatedAt, list.UpdatedAt, list.CompleteBy, list.ClosedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create shopping list: %w", err)
	}
	return nil
}

func (r *pgxShoppingListRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.ShoppingList, error) {
	var list models.ShoppingList
	query := `SELECT ` + listColumns + ` FROM shopping_lists WHERE id = $1`
	if err := scanList(r.db.QueryRow(ctx, query, id), &list); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find shopping list: %w", err)
	}

	items, err := r.loadItems(ctx, id)
	if err != nil {
		return nil, err
	}
	members, err := r.loadMembers(ctx, id)
	if err != nil {
		return nil, err
	}
	list.Items = items
	list.Members = members
	return &list, nil
}

func (r *pgxShoppingListRepository) loadItems(ctx context.Context, listID uuid.UUID) ([]models.ShoppingListItem, error) {
	query := `
		SELECT id, list_id, name, quantity, completed_by, completed_at
		FROM shopping_list_items
		WHERE list_id = $1
		ORDER BY position`
	rows, err := r.db.Query(ctx, query, listID)
	if err != nil {
		return nil, fmt.Errorf("failed to load shopping list items: %w", err)
	}
	defer rows.Close()

	items := []models.ShoppingListItem{}
	for rows.Next() {
		var item models.ShoppingListItem
		if err := rows.Scan(&item.ID, &item.ListID, &item.Name, &item.Quantity, &item.CompletedBy, &item.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan shopping list item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *pgxShoppingListRepository) loadMembers(ctx context.Context, listID uuid.UUID) ([]models.ShoppingListMember, error) {
	query := `
		SELECT id, list_id, user_id, permission
		FROM shopping_list_members
		WHERE list_id = $1
		ORDER BY position`
	rows, err := r.db.Query(ctx, query, listID)
	if err != nil {
		return nil, fmt.Errorf("failed to load shopping list members: %w", err)
	}
	defer rows.Close()

	members := []models.ShoppingListMember{}
	for rows.Next() {
		var member models.ShoppingListMember
		if err := rows.Scan(&member.ID, &member.ListID, &member.UserID, &member.Permission); err != nil {
			return nil, fmt.Errorf("failed to scan shopping list member: %w", err)
		}
		members = append(members, member)
	}
	return members, rows.Err()
}

func (r *pgxShoppingListRepository) UpdateMeta(ctx context.Context, id uuid.UUID, name string, completeBy *time.Time, updatedAt time.Time) error {
	query := `
		UPDATE shopping_lists
		SET name = $2, complete_by = COALESCE($3, complete_by), updated_at = $4
		WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id, name, completeBy, updatedAt)
	if err != nil {
		return fmt.Errorf("failed to update shopping list: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *pgxShoppingListRepository) Close(ctx context.Context, id uuid.UUID, closedBy uuid.UUID, at time.Time) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin close transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE shopping_lists
		SET closed_at = $2, updated_at = $2
		WHERE id = $1 AND closed_at IS NULL`, id, at)
	if err != nil {
		return fmt.Errorf("failed to close shopping list: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}

	_, err = tx.Exec(ctx, `
		UPDATE shopping_list_items
		SET completed_by = $2, completed_at = $3
		WHERE list_id = $1 AND completed_by IS NULL`, id, closedBy, at)
	if err != nil {
		return fmt.Errorf("failed to complete outstanding items: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *pgxShoppingListRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM shopping_lists WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete shopping list: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// buildListFilter translates a ListQuery into a WHERE clause. The returned
// args line up with the $n placeholders embedded in the clause.
func buildListFilter(q repository.ListQuery) (string, []any) {
	var conditions []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	memberOf := func(userPlaceholder string) string {
		return `EXISTS (SELECT 1 FROM shopping_list_members m WHERE m.list_id = l.id AND m.user_id = ` + userPlaceholder + `)`
	}

	switch {
	case q.Author != nil:
		authorArg := arg(*q.Author)
		if q.AuthorUnrestricted {
			conditions = append(conditions, `l.author_id = `+authorArg)
		} else {
			conditions = append(conditions, `l.author_id = `+authorArg, memberOf(arg(q.CallerID)))
		}
	case q.IncludeOnly == models.IncludeOwn:
		conditions = append(conditions, `l.author_id = `+arg(q.CallerID))
	case q.IncludeOnly == models.IncludeShared:
		if q.CallerIsAdmin {
			// Admins see everything, so "shared" just excludes their own lists.
			conditions = append(conditions, `l.author_id <> `+arg(q.CallerID))
		} else {
			conditions = append(conditions, memberOf(arg(q.CallerID)))
		}
	default:
		if !q.CallerIsAdmin {
			callerArg := arg(q.CallerID)
			conditions = append(conditions, `(l.author_id = `+callerArg+` OR `+memberOf(callerArg)+`)`)
		}
	}

	if !q.IncludeCompleted {
		conditions = append(conditions, `l.closed_at IS NULL`)
	}
	if q.CompleteBy != nil {
		conditions = append(conditions, `l.complete_by <= `+arg(*q.CompleteBy))
	}
	if q.Search != nil && *q.Search != "" {
		conditions = append(conditions, `l.name ILIKE '%' || `+arg(*q.Search)+` || '%'`)
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func (r *pgxShoppingListRepository) List(ctx context.Context, q repository.ListQuery) ([]repository.ListRow, int, int, error) {
	where, args := buildListFilter(q)

	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM shopping_lists`).Scan(&total); err != nil {
		return nil, 0, 0, fmt.Errorf("failed to count shopping lists: %w", err)
	}

	var filtered int
	countQuery := `SELECT count(*) FROM shopping_lists l` + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&filtered); err != nil {
		return nil, 0, 0, fmt.Errorf("failed to count filtered shopping lists: %w", err)
	}

	query := `
		SELECT l.id, l.author_id, l.name, l.photo_upload_path, l.created_at, l.updated_at, l.complete_by, l.closed_at,
			(SELECT count(*) FROM shopping_list_items i WHERE i.list_id = l.id) AS total_items,
			(SELECT count(*) FROM shopping_list_items i WHERE i.list_id = l.id AND i.completed_by IS NOT NULL) AS completed_items
		FROM shopping_lists l` + where + fmt.Sprintf(`
		ORDER BY l.created_at ASC, l.complete_by ASC
		LIMIT %d OFFSET %d`, q.Limit, q.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to list shopping lists: %w", err)
	}
	defer rows.Close()

	results := []repository.ListRow{}
	for rows.Next() {
		var row repository.ListRow
		err := rows.Scan(
			&row.List.ID, &row.List.AuthorID, &row.List.Name, &row.List.PhotoUploadPath,
			&row.List.CreatedAt, &row.List.UpdatedAt, &row.List.CompleteBy, &row.List.ClosedAt,
			&row.TotalItems, &row.CompletedItems,
		)
		if err != nil {
			return nil, 0, 0, fmt.Errorf("failed to scan shopping list row: %w", err)
		}
		results = append(results, row)
	}
	return results, total, filtered, rows.Err()
}

func (r *pgxShoppingListRepository) AddItem(ctx context.Context, item *models.ShoppingListItem, updatedAt time.Time) error {
	return r.inListTx(ctx, item.ListID, updatedAt, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO shopping_list_items (id, list_id, name, quantity, completed_by, completed_at)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			item.ID, item.ListID, item.Name, item.Quantity, item.CompletedBy, item.CompletedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to add shopping list item: %w", err)
		}
		return nil
	})
}

func (r *pgxShoppingListRepository) UpdateItem(ctx context.Context, listID, itemID uuid.UUID, name, quantity string, updatedAt time.Time) error {
	return r.inListTx(ctx, listID, updatedAt, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE shopping_list_items
			SET name = $3, quantity = $4
			WHERE id = $2 AND list_id = $1`, listID, itemID, name, quantity)
		if err != nil {
			return fmt.Errorf("failed to update shopping list item: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domainErrors.ErrNotFound
		}
		return nil
	})
}

func (r *pgxShoppingListRepository) DeleteItem(ctx context.Context, listID, itemID uuid.UUID, updatedAt time.Time) error {
	return r.inListTx(ctx, listID, updatedAt, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			DELETE FROM shopping_list_items WHERE id = $2 AND list_id = $1`, listID, itemID)
		if err != nil {
			return fmt.Errorf("failed to delete shopping list item: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domainErrors.ErrNotFound
		}
		return nil
	})
}

func (r *pgxShoppingListRepository) SetItemCompletion(ctx context.Context, listID, itemID uuid.UUID, completedBy *uuid.UUID, completedAt *time.Time, updatedAt time.Time) error {
	return r.inListTx(ctx, listID, updatedAt, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE shopping_list_items
			SET completed_by = $3, completed_at = $4
			WHERE id = $2 AND list_id = $1`, listID, itemID, completedBy, completedAt)
		if err != nil {
			return fmt.Errorf("failed to change item completion: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domainErrors.ErrNotFound
		}
		return nil
	})
}

func (r *pgxShoppingListRepository) AddMembers(ctx context.Context, listID uuid.UUID, members []models.ShoppingListMember, updatedAt time.Time) error {
	return r.inListTx(ctx, listID, updatedAt, func(tx pgx.Tx) error {
		for i := range members {
			_, err := tx.Exec(ctx, `
				INSERT INTO shopping_list_members (id, list_id, user_id, permission)
				VALUES ($1, $2, $3, $4)`,
				members[i].ID, members[i].ListID, members[i].UserID, members[i].Permission,
			)
			if err != nil {
				var pgErr *pgconn.PgError
				if errors.As(err, &pgErr) && pgErr.Code == "23505" {
					return domainErrors.ErrAlreadyExists
				}
				return fmt.Errorf("failed to add shopping list member: %w", err)
			}
		}
		return nil
	})
}

func (r *pgxShoppingListRepository) UpdateMemberPermission(ctx context.Context, listID, memberID uuid.UUID, permission models.MemberPermission, updatedAt time.Time) error {
	return r.inListTx(ctx, listID, updatedAt, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE shopping_list_members
			SET permission = $3
			WHERE id = $2 AND list_id = $1`, listID, memberID, permission)
		if err != nil {
			return fmt.Errorf("failed to update member permission: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domainErrors.ErrNotFound
		}
		return nil
	})
}

func (r *pgxShoppingListRepository) RemoveMember(ctx context.Context, listID, memberID uuid.UUID, updatedAt time.Time) error {
	return r.inListTx(ctx, listID, updatedAt, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			DELETE FROM shopping_list_members WHERE id = $2 AND list_id = $1`, listID, memberID)
		if err != nil {
			return fmt.Errorf("failed to remove shopping list member: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domainErrors.ErrNotFound
		}
		return nil
	})
}

// inListTx runs a child mutation and the parent updated_at bump in one
// transaction, so the list's modification stamp never drifts from its
// children.
func (r *pgxShoppingListRepository) inListTx(ctx context.Context, listID uuid.UUID, updatedAt time.Time, fn func(tx pgx.Tx) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `UPDATE shopping_lists SET updated_at = $2 WHERE id = $1`, listID, updatedAt); err != nil {
		return fmt.Errorf("failed to bump list updated_at: %w", err)
	}

	return tx.Commit(ctx)
}
