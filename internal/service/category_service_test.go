package service

import (
	"context"
	"testing"

	"wiseadvice/internal/cache"
	"wiseadvice/internal/featureflags"
	"wiseadvice/internal/models"
	"wiseadvice/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryService_CacheAside(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	env := newTestEnv(t)
	svc := NewCategoryService(env.repos, env.auth, cache.New(rdb), featureflags.NewManager("category_cache=on"))
	ctx := context.Background()
	admin := testutil.CreateUser(t, env.db, testutil.Admin())
	testutil.CreateCategory(t, env.db, "Go")

	cats, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, 1)
	assert.True(t, mr.Exists(cache.CategoryListKey))

	_, err = svc.CreateCategory(ctx, admin.ID, CategoryInput{Title: ptr("Rust")})
	require.NoError(t, err)
	assert.False(t, mr.Exists(cache.CategoryListKey))

	cats, err = svc.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, 2)
}

func TestCategoryService_AdminOnlyAndValidation(t *testing.T) {
	env := newTestEnv(t)
	svc := NewCategoryService(env.repos, env.auth, nil, nil)
	ctx := context.Background()
	user := testutil.CreateUser(t, env.db)
	admin := testutil.CreateUser(t, env.db, testutil.Admin())

	_, err := svc.CreateCategory(ctx, user.ID, CategoryInput{Title: ptr("Go")})
	requireCode(t, err, models.CodeForbidden)

	_, err = svc.CreateCategory(ctx, admin.ID, CategoryInput{Title: ptr("Go, Rust")})
	requireCode(t, err, models.CodeValidation)

	created, err := svc.CreateCategory(ctx, admin.ID, CategoryInput{Title: ptr("Go"), Description: ptr("Gophers")})
	require.NoError(t, err)
	_, err = svc.CreateCategory(ctx, admin.ID, CategoryInput{Title: ptr("Go")})
	requireCode(t, err, models.CodeConflict)

	updated, err := svc.UpdateCategory(ctx, admin.ID, created.ID, CategoryInput{Description: ptr("Everything Go")})
	require.NoError(t, err)
	assert.Equal(t, "Everything Go", updated.Description)

	require.NoError(t, svc.DeleteCategory(ctx, admin.ID, created.ID))
	_, err = svc.GetCategory(ctx, created.ID)
	requireCode(t, err, models.CodeNotFound)
}
