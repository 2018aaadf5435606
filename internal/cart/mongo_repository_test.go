package cart

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"

	"github.com/Ashish-AN/Swadist/internal/domain"
	"github.com/Ashish-AN/Swadist/internal/storage"
)

func setupTestDB(t *testing.T) (*MongoRepository, func()) {
	ctx := context.Background()

	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)

	uri, err := mongoContainer.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := storage.ConnectMongoDB(ctx, uri, "testdb")
	require.NoError(t, err)

	repo := NewMongoRepository(db)
	require.NoError(t, repo.CreateIndexes(ctx))

	cleanup := func() {
		if err := mongoContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return repo, cleanup
}

func TestGetCart_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	c, err := repo.GetCart(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrCartNotFound)
	assert.Nil(t, c)
}

func TestUpsertCart_CreatesAndUpdates(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	c := &domain.Cart{
		UserID:        "user123",
		Items:         []domain.CartItem{{DishID: "d1", Quantity: 2, CapturedPrice: 100}},
		SnapshotTotal: 200,
		Version:       1,
	}

	require.NoError(t, repo.UpsertCart(ctx, c))

	stored, err := repo.GetCart(ctx, "user123")
	require.NoError(t, err)
	assert.Equal(t, "user123", stored.UserID)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, 200.0, stored.SnapshotTotal)
	assert.Equal(t, int64(1), stored.Version)
	assert.False(t, stored.CreatedAt.IsZero())

	// Same user again replaces the whole document.
	c.Items = append(c.Items, domain.CartItem{DishID: "d2", Quantity: 1, CapturedPrice: 50})
	c.SnapshotTotal = 250
	c.Version = 2
	require.NoError(t, repo.UpsertCart(ctx, c))

	stored, err = repo.GetCart(ctx, "user123")
	require.NoError(t, err)
	assert.Len(t, stored.Items, 2)
	assert.Equal(t, 250.0, stored.SnapshotTotal)
	assert.Equal(t, int64(2), stored.Version)
}

func TestUpsertCart_PreservesCreatedAt(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	c := &domain.Cart{UserID: "user123", Version: 1}
	require.NoError(t, repo.UpsertCart(ctx, c))
	created := c.CreatedAt

	time.Sleep(10 * time.Millisecond)

	c.Version = 2
	require.NoError(t, repo.UpsertCart(ctx, c))

	stored, err := repo.GetCart(ctx, "user123")
	require.NoError(t, err)
	assert.WithinDuration(t, created, stored.CreatedAt, time.Second)
	assert.True(t, stored.UpdatedAt.After(stored.CreatedAt))
}

func TestDeleteCart_Mongo(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, repo.UpsertCart(ctx, &domain.Cart{UserID: "user123", Version: 1}))

	require.NoError(t, repo.DeleteCart(ctx, "user123"))

	_, err := repo.GetCart(ctx, "user123")
	assert.ErrorIs(t, err, ErrCartNotFound)

	err = repo.DeleteCart(ctx, "user123")
	assert.ErrorIs(t, err, ErrCartNotFound)
}

func TestContextCancellation(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Nanosecond)
	defer cancel()

	time.Sleep(10 * time.Millisecond) // Ensure context is cancelled

	_, err := repo.GetCart(ctx, "user123")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "context")
}
