package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"marketplace-backend/internal/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisCache(client, time.Minute), mr
}

func sampleProduct() *model.Product {
	return &model.Product{
		ID:         "p-1",
		Name:       "Cable",
		Price:      decimal.RequireFromString("5.50"),
		Inventory:  3,
		CategoryID: "cat-1",
		ShopID:     "shop-1",
		Status:     model.ProductStatusActive,
	}
}

func TestGet_Success(t *testing.T) {
	cache, mr := setupTestRedis(t)

	data, err := json.Marshal(sampleProduct())
	require.NoError(t, err)
	require.NoError(t, mr.Set(cacheKey("p-1"), string(data)))

	product, err := cache.Get(context.Background(), "p-1")
	require.NoError(t, err)
	assert.Equal(t, "Cable", product.Name)
	assert.True(t, product.Price.Equal(decimal.RequireFromString("5.5")))
}

func TestGet_CacheMiss(t *testing.T) {
	cache, _ := setupTestRedis(t)

	_, err := cache.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestGet_CorruptedEntry(t *testing.T) {
	cache, mr := setupTestRedis(t)
	require.NoError(t, mr.Set(cacheKey("p-1"), "{not json"))

	_, err := cache.Get(context.Background(), "p-1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}

func TestSet_StoresWithTTL(t *testing.T) {
	cache, mr := setupTestRedis(t)

	require.NoError(t, cache.Set(context.Background(), sampleProduct()))

	assert.True(t, mr.Exists(cacheKey("p-1")))
	ttl := mr.TTL(cacheKey("p-1"))
	assert.GreaterOrEqual(t, ttl, time.Minute)
	assert.Less(t, ttl, 2*time.Minute)

	mr.FastForward(3 * time.Minute)
	_, err := cache.Get(context.Background(), "p-1")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestDelete(t *testing.T) {
	cache, mr := setupTestRedis(t)
	require.NoError(t, cache.Set(context.Background(), sampleProduct()))

	require.NoError(t, cache.Delete(context.Background(), "p-1"))
	assert.False(t, mr.Exists(cacheKey("p-1")))
}

func TestGet_RedisDown(t *testing.T) {
	cache, mr := setupTestRedis(t)
	mr.Close()

	_, err := cache.Get(context.Background(), "p-1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}
