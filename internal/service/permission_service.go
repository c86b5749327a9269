package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campusgate/campus-erp-api/internal/models"
	appErrors "github.com/campusgate/campus-erp-api/pkg/errors"
)

type permissionRepository interface {
	ListMenuItems(ctx context.Context) ([]models.MenuItem, error)
	FindMenuByPath(ctx context.Context, path string) (*models.MenuItem, error)
	ListUserPermissions(ctx context.Context, userID string) ([]models.FormPermission, error)
	BatchUpsert(ctx context.Context, userID string, entries []models.FormPermission, updatedBy string) error
}

type permissionUserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

type permissionCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

const permissionCacheTTL = 5 * time.Minute

// PermissionEntry is one row of a batch permission update.
type PermissionEntry struct {
	MenuID    int64 `json:"menu_id" validate:"required"`
	CanView   bool  `json:"can_view"`
	CanAdd    bool  `json:"can_add"`
	CanEdit   bool  `json:"can_edit"`
	CanDelete bool  `json:"can_delete"`
}

// BatchUpdateRequest assigns permission entries to multiple users at once.
type BatchUpdateRequest struct {
	UserIDs     []string          `json:"user_ids" validate:"required,min=1"`
	Permissions []PermissionEntry `json:"permissions" validate:"required,min=1,dive"`
}

// PermissionService resolves page capabilities and manages the permission
// table. Non-superuser capability defaults to false on any miss or failure:
// a broken lookup locks the UI rather than opening it.
type PermissionService struct {
	repo      permissionRepository
	users     permissionUserRepository
	cache     permissionCache
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPermissionService creates a permission service.
func NewPermissionService(repo permissionRepository, users permissionUserRepository, cache permissionCache, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *PermissionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PermissionService{repo: repo, users: users, cache: cache, metrics: metrics, validator: validate, logger: logger}
}

// Resolve computes the capability set of a user on one menu path.
// Superusers bypass the table entirely; everyone else gets the exact-match
// entry for the normalized path, or a fully locked set when none exists.
func (s *PermissionService) Resolve(ctx context.Context, user *models.User, path string) models.PagePermissions {
	if user == nil {
		return models.PagePermissions{}
	}
	if user.IsSuperuser {
		return models.AllPermissions()
	}

	perms, err := s.userPermissions(ctx, user.ID)
	if err != nil {
		s.logger.Warn("permission lookup failed, locking page", zap.String("user_id", user.ID), zap.String("path", path), zap.Error(err))
		return models.PagePermissions{}
	}

	target := models.NormalizeMenuPath(path)
	for _, p := range perms {
		if models.NormalizeMenuPath(p.MenuPath) == target {
			return models.PagePermissions{
				CanView:   p.CanView,
				CanAdd:    p.CanAdd,
				CanEdit:   p.CanEdit,
				CanDelete: p.CanDelete,
			}
		}
	}
	return models.PagePermissions{}
}

// FormDisabled derives whether an edit/create form is read-only: disabled
// unless superuser, and lacking edit capability when editing or add
// capability when creating.
func FormDisabled(perms models.PagePermissions, editing bool) bool {
	if perms.IsSuperuser {
		return false
	}
	if editing {
		return !perms.CanEdit
	}
	return !perms.CanAdd
}

// MyPermissions returns the viewable permission entries of the current user.
func (s *PermissionService) MyPermissions(ctx context.Context, user *models.User) ([]models.FormPermission, error) {
	if user == nil {
		return nil, appErrors.ErrUnauthorized
	}
	perms, err := s.userPermissions(ctx, user.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load permissions")
	}
	visible := make([]models.FormPermission, 0, len(perms))
	for _, p := range perms {
		if p.CanView {
			visible = append(visible, p)
		}
	}
	return visible, nil
}

// UserPermissions returns every permission entry of a target user, for the
// permission-management screen.
func (s *PermissionService) UserPermissions(ctx context.Context, targetUserID string) ([]models.FormPermission, error) {
	if targetUserID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "user_id is required")
	}
	perms, err := s.repo.ListUserPermissions(ctx, targetUserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user permissions")
	}
	return perms, nil
}

// MenuTree assembles the full menu hierarchy for management screens.
func (s *PermissionService) MenuTree(ctx context.Context) ([]models.MenuNode, error) {
	items, err := s.repo.ListMenuItems(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load menu items")
	}
	return buildMenuTree(items), nil
}

// BatchUpdate writes permission entries for multiple users. Superuser
// accounts are untouchable, and staff accounts can only be managed by
// superusers.
func (s *PermissionService) BatchUpdate(ctx context.Context, actor *models.User, req BatchUpdateRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid batch update payload")
	}

	for _, targetID := range req.UserIDs {
		target, err := s.users.FindByID(ctx, targetID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("user %s not found", targetID))
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load target user")
		}
		if target.IsSuperuser {
			return appErrors.Clone(appErrors.ErrForbidden, fmt.Sprintf("permissions for superuser %s cannot be modified", target.Username))
		}
		if target.IsStaff && !actor.IsSuperuser {
			return appErrors.Clone(appErrors.ErrForbidden, fmt.Sprintf("only superusers can manage permissions for admin %s", target.Username))
		}
	}

	entries := make([]models.FormPermission, 0, len(req.Permissions))
	for _, entry := range req.Permissions {
		entries = append(entries, models.FormPermission{
			MenuID:    entry.MenuID,
			CanView:   entry.CanView,
			CanAdd:    entry.CanAdd,
			CanEdit:   entry.CanEdit,
			CanDelete: entry.CanDelete,
		})
	}

	for _, targetID := range req.UserIDs {
		if err := s.repo.BatchUpsert(ctx, targetID, entries, actor.Username); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save permissions")
		}
		s.invalidate(ctx, targetID)
	}
	return nil
}

func (s *PermissionService) userPermissions(ctx context.Context, userID string) ([]models.FormPermission, error) {
	key := permissionCacheKey(userID)
	if s.cache != nil {
		var cached []models.FormPermission
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			s.metrics.RecordCacheLookup(true)
			return cached, nil
		}
		s.metrics.RecordCacheLookup(false)
	}

	start := time.Now()
	perms, err := s.repo.ListUserPermissions(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveDBQuery("permissions_by_user", time.Since(start))

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, perms, permissionCacheTTL); err != nil {
			s.logger.Warn("failed to cache permissions", zap.String("user_id", userID), zap.Error(err))
		}
	}
	return perms, nil
}

func (s *PermissionService) invalidate(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, permissionCacheKey(userID)); err != nil {
		s.logger.Warn("failed to invalidate permission cache", zap.String("user_id", userID), zap.Error(err))
	}
}

func permissionCacheKey(userID string) string {
	return "perm:" + userID
}

func buildMenuTree(items []models.MenuItem) []models.MenuNode {
	children := make(map[int64][]models.MenuItem)
	var roots []models.MenuItem
	for _, item := range items {
		if item.ParentID == nil {
			roots = append(roots, item)
			continue
		}
		children[*item.ParentID] = append(children[*item.ParentID], item)
	}

	var build func(item models.MenuItem) models.MenuNode
	build = func(item models.MenuItem) models.MenuNode {
		node := models.MenuNode{MenuItem: item}
		for _, child := range children[item.ID] {
			node.Children = append(node.Children, build(child))
		}
		return node
	}

	nodes := make([]models.MenuNode, 0, len(roots))
	for _, root := range roots {
		nodes = append(nodes, build(root))
	}
	return nodes
}
