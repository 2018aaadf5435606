package payment

import (
	"context"
	"errors"
	"time"

	"github.com/Ashish-AN/Swadist/internal/domain"
)

var (
	ErrIntentNotFound      = errors.New("payment intent not found")
	ErrIntentExpired       = errors.New("payment intent expired")
	ErrCorrelationConflict = errors.New("intent already correlated to a different payment")
)

// IntentStore persists payment intents. The order ledger reads through it to
// validate correlations against provider-issued intents.
type IntentStore interface {
	CreateIntent(ctx context.Context, intent *domain.PaymentIntent) error
	GetIntent(ctx context.Context, providerOrderID string) (*domain.PaymentIntent, error)
	GetIntentByReceipt(ctx context.Context, receipt string) (*domain.PaymentIntent, error)
	MarkClientPaid(ctx context.Context, providerOrderID, paymentID string) (*domain.PaymentIntent, error)
	ExpireStale(ctx context.Context, now time.Time) (int64, error)
}
