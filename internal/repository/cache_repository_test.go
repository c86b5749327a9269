package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusgate/campus-erp-api/internal/models"
	appErrors "github.com/campusgate/campus-erp-api/pkg/errors"
)

func newCacheRepo(t *testing.T) (*CacheRepository, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCacheRepository(client, nil), mr
}

func TestCacheRepositoryRoundTrip(t *testing.T) {
	repo, _ := newCacheRepo(t)
	ctx := context.Background()

	stored := models.PagePermissions{CanView: true, CanAdd: true}
	require.NoError(t, repo.Set(ctx, "perm:u-1:/master/", stored, time.Minute))

	var loaded models.PagePermissions
	require.NoError(t, repo.Get(ctx, "perm:u-1:/master/", &loaded))
	assert.Equal(t, stored, loaded)
}

func TestCacheRepositoryMissingKey(t *testing.T) {
	repo, _ := newCacheRepo(t)

	var dest models.PagePermissions
	err := repo.Get(context.Background(), "perm:absent", &dest)
	assert.ErrorIs(t, err, appErrors.ErrCacheMiss)
}

func TestCacheRepositoryTTLExpires(t *testing.T) {
	repo, mr := newCacheRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "notify:sess", map[string]string{"message": "saved"}, 30*time.Second))

	var dest map[string]string
	require.NoError(t, repo.Get(ctx, "notify:sess", &dest))

	mr.FastForward(time.Minute)
	err := repo.Get(ctx, "notify:sess", &dest)
	assert.ErrorIs(t, err, appErrors.ErrCacheMiss)
}

func TestCacheRepositoryDeleteIsIdempotent(t *testing.T) {
	repo, _ := newCacheRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "cascade:sess", "state", 0))
	require.NoError(t, repo.Delete(ctx, "cascade:sess"))
	require.NoError(t, repo.Delete(ctx, "cascade:sess"))

	var dest string
	assert.ErrorIs(t, repo.Get(ctx, "cascade:sess", &dest), appErrors.ErrCacheMiss)
}

func TestCacheRepositoryDegradesWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil, nil)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "k", "v", time.Minute))
	require.NoError(t, repo.Delete(ctx, "k"))

	var dest string
	assert.ErrorIs(t, repo.Get(ctx, "k", &dest), appErrors.ErrCacheMiss)
}
