package payment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Ashish-AN/Swadist/internal/domain"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const intentColumns = `provider_order_id, user_id, amount, currency, receipt, status, payment_id, created_at, expires_at`

func (s *PostgresStore) CreateIntent(ctx context.Context, intent *domain.PaymentIntent) error {
	query := `INSERT INTO payment_intents (` + intentColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := s.db.ExecContext(ctx, query,
		intent.ProviderOrderID,
		intent.UserID,
		intent.Amount,
		intent.Currency,
		intent.Receipt,
		intent.Status,
		intent.PaymentID,
		intent.CreatedAt,
		intent.ExpiresAt)
	if err != nil {
		return fmt.Errorf("insert payment intent: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetIntent(ctx context.Context, providerOrderID string) (*domain.PaymentIntent, error) {
	query := `SELECT ` + intentColumns + ` FROM payment_intents WHERE provider_order_id = $1`
	return s.scanIntent(s.db.QueryRowContext(ctx, query, providerOrderID))
}

func (s *PostgresStore) GetIntentByReceipt(ctx context.Context, receipt string) (*domain.PaymentIntent, error) {
	query := `SELECT ` + intentColumns + ` FROM payment_intents WHERE receipt = $1`
	return s.scanIntent(s.db.QueryRowContext(ctx, query, receipt))
}

func (s *PostgresStore) MarkClientPaid(ctx context.Context, providerOrderID, paymentID string) (*domain.PaymentIntent, error) {
	// Only a fresh intent may bind a payment id. Re-reporting the same id is
	// idempotent; a different id on an already-paid intent must not clobber
	// the first correlation.
	query := `UPDATE payment_intents
	          SET status = $2, payment_id = $3
	          WHERE provider_order_id = $1 AND (status = $4 OR payment_id = $3)
	          RETURNING ` + intentColumns

	row := s.db.QueryRowContext(ctx, query,
		providerOrderID,
		domain.IntentStatusClientReportedPaid,
		paymentID,
		domain.IntentStatusCreated)

	intent, err := s.scanIntent(row)
	if errors.Is(err, ErrIntentNotFound) {
		// Row may exist but be expired or already bound; disambiguate for the caller.
		existing, getErr := s.GetIntent(ctx, providerOrderID)
		if getErr != nil {
			return nil, getErr
		}
		switch {
		case existing.Status == domain.IntentStatusExpired:
			return nil, ErrIntentExpired
		case existing.Status == domain.IntentStatusClientReportedPaid && (existing.PaymentID == nil || *existing.PaymentID != paymentID):
			return nil, ErrCorrelationConflict
		default:
			return nil, ErrIntentNotFound
		}
	}
	return intent, err
}

func (s *PostgresStore) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	query := `UPDATE payment_intents SET status = $1
	          WHERE status = $2 AND expires_at < $3`

	res, err := s.db.ExecContext(ctx, query, domain.IntentStatusExpired, domain.IntentStatusCreated, now)
	if err != nil {
		return 0, fmt.Errorf("expire stale intents: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (s *PostgresStore) scanIntent(row *sql.Row) (*domain.PaymentIntent, error) {
	var intent domain.PaymentIntent
	err := row.Scan(
		&intent.ProviderOrderID,
		&intent.UserID,
		&intent.Amount,
		&intent.Currency,
		&intent.Receipt,
		&intent.Status,
		&intent.PaymentID,
		&intent.CreatedAt,
		&intent.ExpiresAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrIntentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan payment intent: %w", err)
	}
	return &intent, nil
}
