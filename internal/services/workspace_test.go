package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/commodity-admin/internal/models"
)

func newTestStore(tokens *[]string) *WorkspaceStore {
	cache := NewMemoryReferenceCache(0)
	factory := func(token string) CatalogAPI {
		*tokens = append(*tokens, token)
		return newFakeCatalog()
	}
	return NewWorkspaceStore(factory, NewCategoryService(cache), NewBrandService(cache), nil, WorkspaceOptions{IdleTTL: time.Hour})
}

func TestAcquireReusesWorkspacePerCookie(t *testing.T) {
	var tokens []string
	store := newTestStore(&tokens)

	a := store.Acquire("cookie-a", "upstream-a", "a@example.com")
	again := store.Acquire("cookie-a", "upstream-a", "a@example.com")
	b := store.Acquire("cookie-b", "upstream-b", "b@example.com")

	assert.Same(t, a, again)
	assert.NotSame(t, a, b)
	assert.Equal(t, []string{"upstream-a", "upstream-b"}, tokens)
	assert.Equal(t, 2, store.Len())
	assert.NotContains(t, a.Key, "cookie-a")
}

func TestSweepDropsIdleWorkspaces(t *testing.T) {
	var tokens []string
	store := newTestStore(&tokens)
	now := time.Now()
	store.now = func() time.Time { return now }

	store.Acquire("old", "u1", "")
	now = now.Add(30 * time.Minute)
	store.Acquire("fresh", "u2", "")
	now = now.Add(45 * time.Minute)

	assert.Equal(t, 1, store.Sweep())
	assert.Equal(t, 1, store.Len())
}

func TestDropAndRunStop(t *testing.T) {
	var tokens []string
	store := newTestStore(&tokens)
	store.Acquire("cookie", "u", "")
	store.Drop("cookie")
	assert.Zero(t, store.Len())

	done := make(chan struct{})
	go func() {
		store.Run(context.Background(), time.Millisecond)
		close(done)
	}()
	store.Stop()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop")
	}
}

func TestWorkspaceViewState(t *testing.T) {
	var tokens []string
	store := newTestStore(&tokens)
	ws := store.Acquire("cookie", "u", "")

	assert.Equal(t, models.TabAllProducts, ws.View().Tab)

	view, err := ws.SetTab(models.TabCategory2)
	require.NoError(t, err)
	assert.Equal(t, models.TabCategory2, view.Tab)
	assert.True(t, view.CategoryOpen)

	_, err = ws.SetTab("settings")
	assert.ErrorIs(t, err, ErrUnknownTab)
	assert.Equal(t, models.TabCategory2, ws.View().Tab)

	assert.False(t, ws.ToggleCategoryMenu().CategoryOpen)
}

func TestMemoryReferenceCacheExpiresAndInvalidates(t *testing.T) {
	cache := NewMemoryReferenceCache(time.Minute)
	now := time.Now()
	cache.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, CacheKeyBrands, []models.Brand{{ID: "b1", Label: "Acme"}}))

	var brands []models.Brand
	hit, err := cache.Get(ctx, CacheKeyBrands, &brands)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "Acme", brands[0].Label)

	now = now.Add(2 * time.Minute)
	hit, err = cache.Get(ctx, CacheKeyBrands, &brands)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, cache.Set(ctx, CacheKeyCategories, sampleReferences()))
	require.NoError(t, cache.Invalidate(ctx, CacheKeyCategories))
	var refs models.CategoryReferences
	hit, _ = cache.Get(ctx, CacheKeyCategories, &refs)
	assert.False(t, hit)
}

func TestCategoryServiceReadsThroughCache(t *testing.T) {
	api := newFakeCatalog()
	api.refs = sampleReferences()
	service := NewCategoryService(NewMemoryReferenceCache(time.Minute))
	ctx := context.Background()

	_, err := service.References(ctx, api)
	require.NoError(t, err)
	refs, err := service.References(ctx, api)
	require.NoError(t, err)
	assert.Len(t, refs.Level3, 4)
	assert.Equal(t, 1, api.catCalls)

	service.Invalidate(ctx)
	_, err = service.References(ctx, api)
	require.NoError(t, err)
	assert.Equal(t, 2, api.catCalls)
}
