package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ashish-AN/Swadist/internal/domain"
)

func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis, func()) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cache := NewRedisCache(client)

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return cache, mr, cleanup
}

func TestGet_Hit(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	userID := "user123"

	cart := &domain.Cart{
		UserID: userID,
		Items: []domain.CartItem{
			{DishID: "d1", Quantity: 2, CapturedPrice: 120},
			{DishID: "d2", Quantity: 1, CapturedPrice: 80},
		},
		SnapshotTotal: 320,
		Version:       3,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	cartJSON, _ := json.Marshal(cart)
	mr.Set(cacheKey(userID), string(cartJSON))

	result, err := cache.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, userID, result.UserID)
	assert.Len(t, result.Items, 2)
	assert.Equal(t, 320.0, result.SnapshotTotal)
	assert.Equal(t, int64(3), result.Version)
}

func TestGet_Miss(t *testing.T) {
	cache, _, cleanup := setupTestRedis(t)
	defer cleanup()

	_, err := cache.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestSet_ThenGet(t *testing.T) {
	cache, _, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	cart := &domain.Cart{
		UserID:        "u1",
		Items:         []domain.CartItem{{DishID: "d1", Quantity: 5, CapturedPrice: 120}},
		SnapshotTotal: 600,
	}

	require.NoError(t, cache.Set(ctx, "u1", cart))

	got, err := cache.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, cart.SnapshotTotal, got.SnapshotTotal)
	assert.Equal(t, cart.Items, got.Items)
}

func TestDelete(t *testing.T) {
	cache, _, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, "u1", &domain.Cart{UserID: "u1"}))
	require.NoError(t, cache.Delete(ctx, "u1"))

	_, err := cache.Get(ctx, "u1")
	assert.ErrorIs(t, err, ErrCacheMiss)

	// Deleting an absent key is a no-op.
	assert.NoError(t, cache.Delete(ctx, "u1"))
}
