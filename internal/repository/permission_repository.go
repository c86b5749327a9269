package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/campusgate/campus-erp-api/internal/models"
)

// PermissionRepository handles the menu tree and per-user form permissions.
type PermissionRepository struct {
	db *sqlx.DB
}

// NewPermissionRepository instantiates a permission repository.
func NewPermissionRepository(db *sqlx.DB) *PermissionRepository {
	return &PermissionRepository{db: db}
}

// ListMenuItems returns every menu entry ordered for tree assembly.
func (r *PermissionRepository) ListMenuItems(ctx context.Context) ([]models.MenuItem, error) {
	const query = `SELECT id, label, parent_id, COALESCE(path, '') AS path, is_sidebar_item, sort_order, created_at, updated_at FROM menu_items ORDER BY sort_order, id`
	var items []models.MenuItem
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	return items, nil
}

// FindMenuByPath resolves a menu item by its normalized path.
func (r *PermissionRepository) FindMenuByPath(ctx context.Context, path string) (*models.MenuItem, error) {
	const query = `SELECT id, label, parent_id, COALESCE(path, '') AS path, is_sidebar_item, sort_order, created_at, updated_at FROM menu_items WHERE TRIM(TRAILING '/' FROM path) = $1 LIMIT 1`
	var item models.MenuItem
	if err := r.db.GetContext(ctx, &item, query, models.NormalizeMenuPath(path)); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find menu by path: %w", err)
	}
	return &item, nil
}

// ListUserPermissions returns every permission entry of a user joined with
// its menu path and label.
func (r *PermissionRepository) ListUserPermissions(ctx context.Context, userID string) ([]models.FormPermission, error) {
	const query = `SELECT p.id, p.user_id, p.menu_id, COALESCE(m.path, '') AS menu_path, m.label AS menu_label,
		p.can_view, p.can_add, p.can_edit, p.can_delete, p.created_at, p.updated_at
		FROM form_permissions p JOIN menu_items m ON m.id = p.menu_id
		WHERE p.user_id = $1 ORDER BY m.sort_order, m.id`
	var perms []models.FormPermission
	if err := r.db.SelectContext(ctx, &perms, query, userID); err != nil {
		return nil, fmt.Errorf("list user permissions: %w", err)
	}
	return perms, nil
}

// BatchUpsert writes a user's capability rows in one transaction, stamping
// who changed them. A failure on any row leaves the user's permissions
// untouched.
func (r *PermissionRepository) BatchUpsert(ctx context.Context, userID string, entries []models.FormPermission, updatedBy string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin permission tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const query = `INSERT INTO form_permissions (user_id, menu_id, can_view, can_add, can_edit, can_delete, updated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		ON CONFLICT (user_id, menu_id)
		DO UPDATE SET can_view = $3, can_add = $4, can_edit = $5, can_delete = $6, updated_by = $7, updated_at = $8`
	now := time.Now().UTC()
	for _, entry := range entries {
		if _, err = tx.ExecContext(ctx, query, userID, entry.MenuID, entry.CanView, entry.CanAdd, entry.CanEdit, entry.CanDelete, updatedBy, now); err != nil {
			return fmt.Errorf("upsert permission for menu %d: %w", entry.MenuID, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit permission tx: %w", err)
	}
	return nil
}
