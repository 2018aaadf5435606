package payment

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Ashish-AN/Swadist/internal/domain"
)

const (
	// IntentValidity bounds how long an unused intent may back an order.
	IntentValidity = 15 * time.Minute

	// SweepInterval is how often the advisory expiry sweep runs.
	SweepInterval = time.Minute
)

// Correlator obtains payment intents from the external provider and records
// client-reported completions. A recorded completion is an unverified claim;
// the order ledger re-validates it before an order is created.
type Correlator struct {
	store    IntentStore
	provider Provider
	currency string
	now      func() time.Time
}

func NewCorrelator(store IntentStore, provider Provider) *Correlator {
	return &Correlator{
		store:    store,
		provider: provider,
		currency: "INR",
		now:      time.Now,
	}
}

// Receipt derives the idempotency key for one checkout attempt. The cart
// version pins the attempt: another mutation of the cart starts a new attempt
// with a new key, while a plain retry reuses the old one.
func Receipt(userID string, cartVersion int64) string {
	return fmt.Sprintf("rcpt_%s_%d", userID, cartVersion)
}

// CreateIntent asks the provider for an order over liveTotal plus the shipping
// surcharge. A retry for the same (user, cart version) returns the already
// issued intent instead of billing twice. Provider failure leaves no state
// behind.
func (c *Correlator) CreateIntent(ctx context.Context, userID string, liveTotal, shippingSurcharge float64, cartVersion int64) (*domain.PaymentIntent, error) {
	amount := liveTotal + shippingSurcharge
	receipt := Receipt(userID, cartVersion)

	existing, err := c.store.GetIntentByReceipt(ctx, receipt)
	if err == nil {
		if !existing.ExpiredAt(c.now()) {
			return existing, nil
		}
		// The old attempt aged out; fall through and issue a fresh intent
		// under a receipt the provider has not seen.
		receipt = fmt.Sprintf("%s_r%d", receipt, c.now().Unix())
	} else if !errors.Is(err, ErrIntentNotFound) {
		return nil, err
	}

	providerOrderID, err := c.provider.CreateOrder(ctx, amount, c.currency, receipt)
	if err != nil {
		return nil, err
	}

	intent := &domain.PaymentIntent{
		ProviderOrderID: providerOrderID,
		UserID:          userID,
		Amount:          amount,
		Currency:        c.currency,
		Receipt:         receipt,
		Status:          domain.IntentStatusCreated,
		CreatedAt:       c.now(),
		ExpiresAt:       c.now().Add(IntentValidity),
	}

	if err := c.store.CreateIntent(ctx, intent); err != nil {
		return nil, err
	}
	return intent, nil
}

// RecordClientCompletion stores the client-reported success as an unverified
// correlation. It is never, by itself, proof of payment.
func (c *Correlator) RecordClientCompletion(ctx context.Context, providerOrderID, paymentID string) (*domain.Correlation, error) {
	if providerOrderID == "" || paymentID == "" {
		return nil, ErrIntentNotFound
	}

	intent, err := c.store.GetIntent(ctx, providerOrderID)
	if err != nil {
		return nil, err
	}
	if intent.ExpiredAt(c.now()) {
		return nil, ErrIntentExpired
	}

	if _, err := c.store.MarkClientPaid(ctx, providerOrderID, paymentID); err != nil {
		return nil, err
	}

	return &domain.Correlation{
		PaymentID:       paymentID,
		ProviderOrderID: providerOrderID,
	}, nil
}

// ValidateForOrder checks a correlation against its provider-issued intent on
// behalf of the order ledger: the intent must exist, belong to the user, carry
// the client-reported payment id, be inside its validity window and match the
// expected amount within tolerance.
func (c *Correlator) ValidateForOrder(ctx context.Context, userID string, corr domain.Correlation, expectedAmount, tolerance float64) (*domain.PaymentIntent, error) {
	intent, err := c.store.GetIntent(ctx, corr.ProviderOrderID)
	if err != nil {
		return nil, err
	}
	if intent.UserID != userID {
		return nil, ErrIntentNotFound
	}
	if intent.ExpiredAt(c.now()) {
		return nil, ErrIntentExpired
	}
	if intent.Status != domain.IntentStatusClientReportedPaid || intent.PaymentID == nil || *intent.PaymentID != corr.PaymentID {
		return nil, ErrIntentNotFound
	}

	diff := intent.Amount - expectedAmount
	if diff < -tolerance || diff > tolerance {
		return nil, fmt.Errorf("%w: intent %.2f, expected %.2f", ErrAmountMismatch, intent.Amount, expectedAmount)
	}

	return intent, nil
}

// ErrAmountMismatch marks a correlation whose intent amount does not cover the
// cart's live total plus shipping.
var ErrAmountMismatch = errors.New("payment amount mismatch")

// RunSweep periodically expires stale intents. The sweep is advisory; expiry
// is also enforced at validation time, so correctness never depends on it.
func (c *Correlator) RunSweep(ctx context.Context) {
	ticker := time.NewTicker(SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			n, err := c.store.ExpireStale(ctx, c.now())
			if err != nil {
				log.Printf("intent expiry sweep failed: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("expired %d stale payment intents", n)
			}
		case <-ctx.Done():
			return
		}
	}
}
