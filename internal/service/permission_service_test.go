package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusgate/campus-erp-api/internal/models"
	appErrors "github.com/campusgate/campus-erp-api/pkg/errors"
)

type permissionRepoStub struct {
	perms     []models.FormPermission
	items     []models.MenuItem
	err       error
	upserted  []models.FormPermission
	updatedBy string
}

func (s *permissionRepoStub) ListMenuItems(ctx context.Context) ([]models.MenuItem, error) {
	return s.items, s.err
}

func (s *permissionRepoStub) FindMenuByPath(ctx context.Context, path string) (*models.MenuItem, error) {
	return nil, sql.ErrNoRows
}

func (s *permissionRepoStub) ListUserPermissions(ctx context.Context, userID string) ([]models.FormPermission, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.perms, nil
}

func (s *permissionRepoStub) BatchUpsert(ctx context.Context, userID string, entries []models.FormPermission, updatedBy string) error {
	for _, entry := range entries {
		entry.UserID = userID
		s.upserted = append(s.upserted, entry)
	}
	s.updatedBy = updatedBy
	return nil
}

type userRepoStub struct {
	users map[string]*models.User
}

func (s *userRepoStub) FindByID(ctx context.Context, id string) (*models.User, error) {
	if user, ok := s.users[id]; ok {
		return user, nil
	}
	return nil, sql.ErrNoRows
}

type cacheStub struct {
	values map[string][]byte
	gets   int
	hits   int
}

func newCacheStub() *cacheStub {
	return &cacheStub{values: map[string][]byte{}}
}

func (s *cacheStub) Get(ctx context.Context, key string, dest interface{}) error {
	s.gets++
	raw, ok := s.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	s.hits++
	return json.Unmarshal(raw, dest)
}

func (s *cacheStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.values[key] = raw
	return nil
}

func (s *cacheStub) Delete(ctx context.Context, key string) error {
	delete(s.values, key)
	return nil
}

func masterPermission(userID string, canView, canAdd, canEdit, canDelete bool) models.FormPermission {
	return models.FormPermission{
		UserID:    userID,
		MenuID:    1,
		MenuPath:  "/dashboard/master",
		CanView:   canView,
		CanAdd:    canAdd,
		CanEdit:   canEdit,
		CanDelete: canDelete,
	}
}

func TestResolveSuperuserBypassesTable(t *testing.T) {
	svc := NewPermissionService(&permissionRepoStub{err: errors.New("db down")}, &userRepoStub{}, nil, nil, nil, nil)

	perms := svc.Resolve(context.Background(), &models.User{ID: "u1", IsSuperuser: true}, "/dashboard/master")
	assert.Equal(t, models.AllPermissions(), perms)
}

func TestResolveExactPathMatch(t *testing.T) {
	repo := &permissionRepoStub{perms: []models.FormPermission{masterPermission("u1", true, true, false, false)}}
	svc := NewPermissionService(repo, &userRepoStub{}, nil, nil, nil, nil)
	user := &models.User{ID: "u1"}

	perms := svc.Resolve(context.Background(), user, "/dashboard/master/")
	assert.True(t, perms.CanView)
	assert.True(t, perms.CanAdd)
	assert.False(t, perms.CanEdit)

	// A path with no entry resolves to fully locked.
	perms = svc.Resolve(context.Background(), user, "/dashboard/course")
	assert.Equal(t, models.PagePermissions{}, perms)
}

func TestResolveLookupFailureLocksPage(t *testing.T) {
	repo := &permissionRepoStub{err: errors.New("db down")}
	svc := NewPermissionService(repo, &userRepoStub{}, nil, nil, nil, nil)

	perms := svc.Resolve(context.Background(), &models.User{ID: "u1"}, "/dashboard/master")
	assert.Equal(t, models.PagePermissions{}, perms)
}

func TestResolveUsesCache(t *testing.T) {
	repo := &permissionRepoStub{perms: []models.FormPermission{masterPermission("u1", true, false, false, false)}}
	cache := newCacheStub()
	svc := NewPermissionService(repo, &userRepoStub{}, cache, nil, nil, nil)
	user := &models.User{ID: "u1"}

	svc.Resolve(context.Background(), user, "/dashboard/master")
	svc.Resolve(context.Background(), user, "/dashboard/master")

	assert.Equal(t, 2, cache.gets)
	assert.Equal(t, 1, cache.hits)
}

func TestFormDisabled(t *testing.T) {
	all := models.AllPermissions()
	assert.False(t, FormDisabled(all, false))
	assert.False(t, FormDisabled(all, true))

	addOnly := models.PagePermissions{CanView: true, CanAdd: true}
	assert.False(t, FormDisabled(addOnly, false))
	assert.True(t, FormDisabled(addOnly, true))

	editOnly := models.PagePermissions{CanView: true, CanEdit: true}
	assert.True(t, FormDisabled(editOnly, false))
	assert.False(t, FormDisabled(editOnly, true))
}

func TestBatchUpdateProtectsSuperusers(t *testing.T) {
	repo := &permissionRepoStub{}
	users := &userRepoStub{users: map[string]*models.User{
		"su": {ID: "su", Username: "root", IsSuperuser: true},
	}}
	svc := NewPermissionService(repo, users, nil, nil, nil, nil)
	actor := &models.User{ID: "a1", Username: "admin", IsSuperuser: true}

	err := svc.BatchUpdate(context.Background(), actor, BatchUpdateRequest{
		UserIDs:     []string{"su"},
		Permissions: []PermissionEntry{{MenuID: 1, CanView: true}},
	})
	require.Error(t, err)
	assert.Empty(t, repo.upserted)
}

func TestBatchUpdateStaffRequiresSuperuserActor(t *testing.T) {
	repo := &permissionRepoStub{}
	users := &userRepoStub{users: map[string]*models.User{
		"staff": {ID: "staff", Username: "clerk", IsStaff: true},
	}}
	svc := NewPermissionService(repo, users, nil, nil, nil, nil)

	err := svc.BatchUpdate(context.Background(), &models.User{ID: "a1", Username: "admin"}, BatchUpdateRequest{
		UserIDs:     []string{"staff"},
		Permissions: []PermissionEntry{{MenuID: 1, CanView: true}},
	})
	require.Error(t, err)

	err = svc.BatchUpdate(context.Background(), &models.User{ID: "a2", Username: "root", IsSuperuser: true}, BatchUpdateRequest{
		UserIDs:     []string{"staff"},
		Permissions: []PermissionEntry{{MenuID: 1, CanView: true}},
	})
	require.NoError(t, err)
	assert.Len(t, repo.upserted, 1)
	assert.Equal(t, "root", repo.updatedBy)
}

func TestResolveRecordsCacheMetrics(t *testing.T) {
	repo := &permissionRepoStub{perms: []models.FormPermission{masterPermission("u1", true, false, false, false)}}
	metrics := NewMetricsService()
	svc := NewPermissionService(repo, &userRepoStub{}, newCacheStub(), metrics, nil, nil)
	user := &models.User{ID: "u1"}

	svc.Resolve(context.Background(), user, "/dashboard/master")
	svc.Resolve(context.Background(), user, "/dashboard/master")

	snap := metrics.Snapshot()
	assert.Equal(t, uint64(1), snap.CacheMisses)
	assert.Equal(t, uint64(1), snap.CacheHits)
	assert.Equal(t, uint64(1), snap.DBQueryCount)
	assert.Equal(t, 0.5, snap.CacheHitRatio)
}

func TestBatchUpdateInvalidatesCache(t *testing.T) {
	repo := &permissionRepoStub{perms: []models.FormPermission{masterPermission("u1", true, false, false, false)}}
	cache := newCacheStub()
	users := &userRepoStub{users: map[string]*models.User{"u1": {ID: "u1", Username: "user"}}}
	svc := NewPermissionService(repo, users, cache, nil, nil, nil)

	// Prime the cache.
	svc.Resolve(context.Background(), &models.User{ID: "u1"}, "/dashboard/master")
	require.NotEmpty(t, cache.values)

	err := svc.BatchUpdate(context.Background(), &models.User{ID: "a1", Username: "root", IsSuperuser: true}, BatchUpdateRequest{
		UserIDs:     []string{"u1"},
		Permissions: []PermissionEntry{{MenuID: 1, CanView: true, CanAdd: true}},
	})
	require.NoError(t, err)
	assert.Empty(t, cache.values)
}
