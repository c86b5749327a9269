package models

import (
	"strings"
	"time"
)

// MenuItem is one entry of the navigation tree. The path doubles as the
// lookup key for per-user form permissions.
type MenuItem struct {
	ID            int64     `db:"id" json:"id"`
	Label         string    `db:"label" json:"label"`
	ParentID      *int64    `db:"parent_id" json:"parent_id,omitempty"`
	Path          string    `db:"path" json:"path,omitempty"`
	IsSidebarItem bool      `db:"is_sidebar_item" json:"is_sidebar_item"`
	SortOrder     int       `db:"sort_order" json:"sort_order"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// MenuNode is a menu item with its resolved children.
type MenuNode struct {
	MenuItem
	Children []MenuNode `json:"children,omitempty"`
}

// FormPermission grants a user independent view/add/edit/delete capability
// on one menu item.
type FormPermission struct {
	ID        int64     `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	MenuID    int64     `db:"menu_id" json:"menu_id"`
	MenuPath  string    `db:"menu_path" json:"menu_path"`
	MenuLabel string    `db:"menu_label" json:"menu_label"`
	CanView   bool      `db:"can_view" json:"can_view"`
	CanAdd    bool      `db:"can_add" json:"can_add"`
	CanEdit   bool      `db:"can_edit" json:"can_edit"`
	CanDelete bool      `db:"can_delete" json:"can_delete"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// PagePermissions is the resolved capability set for one user on one page.
// Zero value is fully locked down.
type PagePermissions struct {
	CanView     bool `json:"can_view"`
	CanAdd      bool `json:"can_add"`
	CanEdit     bool `json:"can_edit"`
	CanDelete   bool `json:"can_delete"`
	IsSuperuser bool `json:"is_superuser"`
}

// AllPermissions is the superuser capability set.
func AllPermissions() PagePermissions {
	return PagePermissions{CanView: true, CanAdd: true, CanEdit: true, CanDelete: true, IsSuperuser: true}
}

// NormalizeMenuPath strips the trailing slash so lookups match regardless of
// how the client formatted the route.
func NormalizeMenuPath(path string) string {
	if path == "/" {
		return path
	}
	return strings.TrimRight(path, "/")
}
