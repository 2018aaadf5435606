package payment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Ashish-AN/Swadist/internal/domain"
	"github.com/Ashish-AN/Swadist/internal/storage"
)

func setupTestDB(t *testing.T) (*PostgresStore, func()) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)

	port, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	db, err := storage.Open(&storage.Credentials{
		Host:     host,
		Port:     port.Int(),
		User:     "testuser",
		Password: "testpass",
		DBName:   "testdb",
	})
	require.NoError(t, err)

	require.NoError(t, storage.RunMigrations(db, "../../migrations"))

	cleanup := func() {
		db.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return NewPostgresStore(db), cleanup
}

func newTestIntent(providerOrderID, receipt string) *domain.PaymentIntent {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &domain.PaymentIntent{
		ProviderOrderID: providerOrderID,
		UserID:          "user-123",
		Amount:          300,
		Currency:        "INR",
		Receipt:         receipt,
		Status:          domain.IntentStatusCreated,
		CreatedAt:       now,
		ExpiresAt:       now.Add(15 * time.Minute),
	}
}

func TestIntentRoundtrip(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	intent := newTestIntent("order_rt_1", "rcpt_user-123_1")

	require.NoError(t, store.CreateIntent(ctx, intent))

	fetched, err := store.GetIntent(ctx, "order_rt_1")
	require.NoError(t, err)
	assert.Equal(t, intent.UserID, fetched.UserID)
	assert.Equal(t, intent.Amount, fetched.Amount)
	assert.Equal(t, intent.Currency, fetched.Currency)
	assert.Equal(t, domain.IntentStatusCreated, fetched.Status)
	assert.Nil(t, fetched.PaymentID)

	byReceipt, err := store.GetIntentByReceipt(ctx, "rcpt_user-123_1")
	require.NoError(t, err)
	assert.Equal(t, intent.ProviderOrderID, byReceipt.ProviderOrderID)
}

func TestGetIntent_NotFound(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := store.GetIntent(context.Background(), "order_missing")
	assert.ErrorIs(t, err, ErrIntentNotFound)

	_, err = store.GetIntentByReceipt(context.Background(), "rcpt_missing")
	assert.ErrorIs(t, err, ErrIntentNotFound)
}

func TestMarkClientPaid(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.CreateIntent(ctx, newTestIntent("order_mp_1", "rcpt_user-123_2")))

	updated, err := store.MarkClientPaid(ctx, "order_mp_1", "pay_123")
	require.NoError(t, err)
	assert.Equal(t, domain.IntentStatusClientReportedPaid, updated.Status)
	require.NotNil(t, updated.PaymentID)
	assert.Equal(t, "pay_123", *updated.PaymentID)
}

func TestMarkClientPaid_RepeatedSamePaymentID(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.CreateIntent(ctx, newTestIntent("order_mp_3", "rcpt_user-123_7")))

	_, err := store.MarkClientPaid(ctx, "order_mp_3", "pay_123")
	require.NoError(t, err)

	updated, err := store.MarkClientPaid(ctx, "order_mp_3", "pay_123")
	require.NoError(t, err)
	assert.Equal(t, domain.IntentStatusClientReportedPaid, updated.Status)
	require.NotNil(t, updated.PaymentID)
	assert.Equal(t, "pay_123", *updated.PaymentID)
}

func TestMarkClientPaid_DifferentPaymentIDConflicts(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.CreateIntent(ctx, newTestIntent("order_mp_4", "rcpt_user-123_8")))

	_, err := store.MarkClientPaid(ctx, "order_mp_4", "pay_first")
	require.NoError(t, err)

	_, err = store.MarkClientPaid(ctx, "order_mp_4", "pay_second")
	assert.ErrorIs(t, err, ErrCorrelationConflict)

	// The first correlation stays bound.
	got, err := store.GetIntent(ctx, "order_mp_4")
	require.NoError(t, err)
	assert.Equal(t, domain.IntentStatusClientReportedPaid, got.Status)
	require.NotNil(t, got.PaymentID)
	assert.Equal(t, "pay_first", *got.PaymentID)
}

func TestMarkClientPaid_ExpiredIntent(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	intent := newTestIntent("order_mp_2", "rcpt_user-123_3")
	intent.ExpiresAt = intent.CreatedAt.Add(-time.Minute)
	require.NoError(t, store.CreateIntent(ctx, intent))

	n, err := store.ExpireStale(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = store.MarkClientPaid(ctx, "order_mp_2", "pay_123")
	assert.ErrorIs(t, err, ErrIntentExpired)
}

func TestMarkClientPaid_MissingIntent(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := store.MarkClientPaid(context.Background(), "order_missing", "pay_123")
	assert.ErrorIs(t, err, ErrIntentNotFound)
}

func TestExpireStale_LeavesFreshAndPaidIntents(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	stale := newTestIntent("order_ex_1", "rcpt_user-123_4")
	stale.ExpiresAt = stale.CreatedAt.Add(-time.Minute)
	require.NoError(t, store.CreateIntent(ctx, stale))

	fresh := newTestIntent("order_ex_2", "rcpt_user-123_5")
	require.NoError(t, store.CreateIntent(ctx, fresh))

	paid := newTestIntent("order_ex_3", "rcpt_user-123_6")
	paid.ExpiresAt = paid.CreatedAt.Add(-time.Minute)
	require.NoError(t, store.CreateIntent(ctx, paid))
	_, err := store.MarkClientPaid(ctx, "order_ex_3", "pay_456")
	require.NoError(t, err)

	n, err := store.ExpireStale(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := store.GetIntent(ctx, "order_ex_2")
	require.NoError(t, err)
	assert.Equal(t, domain.IntentStatusCreated, got.Status)

	got, err = store.GetIntent(ctx, "order_ex_3")
	require.NoError(t, err)
	assert.Equal(t, domain.IntentStatusClientReportedPaid, got.Status)
}
