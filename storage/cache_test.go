package storage

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"phonexchange_backend/models"
	"phonexchange_backend/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingStore records how often the cached reads reach the backend.
type countingStore struct {
	Store
	brands    atomic.Int32
	models    atomic.Int32
	questions atomic.Int32
}

func (c *countingStore) ListBrands(ctx context.Context) ([]models.Brand, error) {
	c.brands.Add(1)
	return c.Store.ListBrands(ctx)
}

func (c *countingStore) ListModelsByBrand(ctx context.Context, brandID string) ([]models.PhoneModel, error) {
	c.models.Add(1)
	return c.Store.ListModelsByBrand(ctx, brandID)
}

func (c *countingStore) ListQuestions(ctx context.Context) ([]models.Question, error) {
	c.questions.Add(1)
	return c.Store.ListQuestions(ctx)
}

func newTestCache(t *testing.T) (*CachedStore, *countingStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	rdb, err := NewRedisClient(mr.Addr())
	require.NoError(t, err)

	backend := &countingStore{Store: seededMemoryStore(t)}
	cache := NewCachedStore(backend, rdb, 5*time.Minute, utils.NewTestLogger(t))
	return cache, backend, mr
}

func TestCachedStore_ReadThrough(t *testing.T) {
	cache, backend, mr := newTestCache(t)
	ctx := context.Background()

	first, err := cache.ListBrands(ctx)
	require.NoError(t, err)
	assert.True(t, mr.Exists(brandsKey()))
	assert.Equal(t, 5*time.Minute, mr.TTL(brandsKey()))

	second, err := cache.ListBrands(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), backend.brands.Load())
}

func TestCachedStore_ModelsKeyedByBrand(t *testing.T) {
	cache, backend, mr := newTestCache(t)
	ctx := context.Background()

	samsung, err := cache.ListModelsByBrand(ctx, "samsung")
	require.NoError(t, err)
	oneplus, err := cache.ListModelsByBrand(ctx, "oneplus")
	require.NoError(t, err)
	_, err = cache.ListModelsByBrand(ctx, "samsung")
	require.NoError(t, err)

	assert.Len(t, samsung, 2)
	assert.Len(t, oneplus, 1)
	assert.Equal(t, int32(2), backend.models.Load())
	assert.True(t, mr.Exists(modelsKey("samsung")))
	assert.True(t, mr.Exists(modelsKey("oneplus")))
}

func TestCachedStore_QuestionsKeepOrder(t *testing.T) {
	cache, backend, _ := newTestCache(t)
	ctx := context.Background()

	_, err := cache.ListQuestions(ctx)
	require.NoError(t, err)
	cachedQuestions, err := cache.ListQuestions(ctx)
	require.NoError(t, err)

	require.Len(t, cachedQuestions, 3)
	assert.Equal(t, []string{"q1", "q2", "q3"},
		[]string{cachedQuestions[0].ID, cachedQuestions[1].ID, cachedQuestions[2].ID})
	assert.Equal(t, 15.0, cachedQuestions[1].DeductionPercentage)
	assert.Equal(t, int32(1), backend.questions.Load())
}

func TestCachedStore_UndecodableEntryFallsThrough(t *testing.T) {
	cache, backend, mr := newTestCache(t)
	require.NoError(t, mr.Set(brandsKey(), "not json"))

	brands, err := cache.ListBrands(context.Background())
	require.NoError(t, err)

	assert.Len(t, brands, 2)
	assert.Equal(t, int32(1), backend.brands.Load())
}

func TestCachedStore_RedisDownFallsThrough(t *testing.T) {
	cache, backend, mr := newTestCache(t)
	mr.Close()

	brands, err := cache.ListBrands(context.Background())
	require.NoError(t, err)

	assert.Len(t, brands, 2)
	assert.Equal(t, int32(1), backend.brands.Load())
	assert.Error(t, cache.Ping(context.Background()))
}

func TestCachedStore_InsertCatalogInvalidates(t *testing.T) {
	cache, backend, mr := newTestCache(t)
	ctx := context.Background()

	_, err := cache.ListBrands(ctx)
	require.NoError(t, err)
	_, err = cache.ListQuestions(ctx)
	require.NoError(t, err)

	err = cache.InsertCatalog(ctx, &Catalog{Brands: []models.Brand{{ID: "vivo", Name: "Vivo"}}})
	require.NoError(t, err)
	assert.False(t, mr.Exists(brandsKey()))
	assert.False(t, mr.Exists(questionsKey()))

	brands, err := cache.ListBrands(ctx)
	require.NoError(t, err)
	assert.Len(t, brands, 3)
	assert.Equal(t, int32(2), backend.brands.Load())
}

func TestCachedStore_InvalidateWalksWholeKeyspace(t *testing.T) {
	cache, _, mr := newTestCache(t)
	ctx := context.Background()

	for i := 0; i < 3*scanBatch+17; i++ {
		require.NoError(t, mr.Set(fmt.Sprintf("%smodels:brand-%d", cachePrefix, i), "[]"))
	}
	require.NoError(t, mr.Set("sessions:abc", "keep"))

	require.NoError(t, cache.Invalidate(ctx))

	assert.Equal(t, []string{"sessions:abc"}, mr.Keys())
}

func TestCachedStore_InvalidateEmpty(t *testing.T) {
	cache, _, mr := newTestCache(t)

	assert.NoError(t, cache.Invalidate(context.Background()))
	assert.Empty(t, mr.Keys())
}

func TestCachedStore_InvalidateRedisDown(t *testing.T) {
	cache, _, mr := newTestCache(t)
	mr.Close()

	err := cache.Invalidate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scan cache keys")
}

func TestCachedStore_UncachedReadsPassThrough(t *testing.T) {
	cache, _, mr := newTestCache(t)

	listings, err := cache.ListListings(context.Background(), models.ListingFilter{})
	require.NoError(t, err)
	assert.Len(t, listings, 3)
	assert.Empty(t, mr.Keys())

	assert.NoError(t, cache.Ping(context.Background()))
}

func TestNewRedisClient(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		wantAddr string
		wantDB   int
		wantErr  bool
	}{
		{name: "bare address", url: "localhost:6379", wantAddr: "localhost:6379"},
		{name: "redis url with db", url: "redis://:secret@cache.internal:6380/2", wantAddr: "cache.internal:6380", wantDB: 2},
		{name: "bad database number", url: "redis://localhost:6379/abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rdb, err := NewRedisClient(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer rdb.Close()

			assert.Equal(t, tt.wantAddr, rdb.Options().Addr)
			assert.Equal(t, tt.wantDB, rdb.Options().DB)
		})
	}
}
