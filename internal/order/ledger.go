package order

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/Ashish-AN/Swadist/internal/cart"
	"github.com/Ashish-AN/Swadist/internal/catalog"
	"github.com/Ashish-AN/Swadist/internal/domain"
	"github.com/Ashish-AN/Swadist/internal/payment"
	"github.com/Ashish-AN/Swadist/internal/pricing"
)

var (
	ErrEmptyCart       = errors.New("cart is empty, nothing to order")
	ErrPaymentRequired = errors.New("no verified payment correlation for this order")
	ErrPaymentMismatch = errors.New("payment amount does not match the order total")
	ErrStateConflict   = errors.New("illegal order status transition")
)

// AmountTolerance is the largest accepted difference between the intent amount
// and the recomputed order total.
const AmountTolerance = 0.01

// CartAccess is the slice of the cart store the ledger needs. The Owned
// variants skip per-user locking because the ledger already holds the user's
// lock for the whole placement transaction.
type CartAccess interface {
	GetOwned(ctx context.Context, userID string) (*domain.Cart, error)
	ClearOwned(ctx context.Context, userID string) error
	Locks() *cart.UserLocks
}

// CorrelationValidator checks a client-reported correlation against the
// provider-issued intent it claims to reference.
type CorrelationValidator interface {
	ValidateForOrder(ctx context.Context, userID string, corr domain.Correlation, expectedAmount, tolerance float64) (*domain.PaymentIntent, error)
}

// EventPublisher emits order lifecycle events. Publishing is best-effort and
// happens only after the order is durably committed.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, order *domain.Order) error
}

// Ledger owns order creation and the status state machine. It is the only
// component allowed to construct an Order.
type Ledger struct {
	orders    Repository
	carts     CartAccess
	catalog   catalog.Service
	validator CorrelationValidator
	publisher EventPublisher
	surcharge float64
	now       func() time.Time
}

func NewLedger(orders Repository, carts CartAccess, cat catalog.Service, validator CorrelationValidator, publisher EventPublisher, shippingSurcharge float64) *Ledger {
	return &Ledger{
		orders:    orders,
		carts:     carts,
		catalog:   cat,
		validator: validator,
		publisher: publisher,
		surcharge: shippingSurcharge,
		now:       time.Now,
	}
}

// PlaceOrder converts the user's cart plus a validated payment correlation
// into an immutable Pending order, then clears the cart. Replaying with a
// correlation already used by a successful order returns that order instead
// of creating a duplicate.
func (l *Ledger) PlaceOrder(ctx context.Context, userID string, shipping domain.ShippingInfo, corr domain.Correlation) (*domain.Order, error) {
	// Replay fast path, before taking the lock.
	if existing, found, err := l.replayFor(ctx, userID, corr.ProviderOrderID); err != nil {
		return nil, err
	} else if found {
		return existing, nil
	}

	unlock := l.carts.Locks().Lock(userID)
	defer unlock()

	// Re-check under the lock: a concurrent replay may have committed while we
	// waited, leaving an empty cart behind.
	if existing, found, err := l.replayFor(ctx, userID, corr.ProviderOrderID); err != nil {
		return nil, err
	} else if found {
		return existing, nil
	}

	c, err := l.carts.GetOwned(ctx, userID)
	if errors.Is(err, cart.ErrCartNotFound) {
		return nil, ErrEmptyCart
	}
	if err != nil {
		return nil, err
	}
	if len(c.Items) == 0 {
		return nil, ErrEmptyCart
	}

	// Snapshot items by value at live catalog prices; the live total is what
	// the payment must cover.
	items, liveTotal, err := l.snapshotItems(ctx, c)
	if err != nil {
		return nil, err
	}
	total := liveTotal + l.surcharge

	if _, err := l.validator.ValidateForOrder(ctx, userID, corr, total, AmountTolerance); err != nil {
		switch {
		case errors.Is(err, payment.ErrAmountMismatch):
			return nil, fmt.Errorf("%w: %v", ErrPaymentMismatch, err)
		case errors.Is(err, payment.ErrIntentNotFound), errors.Is(err, payment.ErrIntentExpired):
			return nil, fmt.Errorf("%w: %v", ErrPaymentRequired, err)
		default:
			return nil, err
		}
	}

	order := &domain.Order{
		ID:              uuid.New(),
		UserID:          userID,
		Items:           items,
		Shipping:        shipping,
		Total:           total,
		PaymentID:       corr.PaymentID,
		ProviderOrderID: corr.ProviderOrderID,
		Status:          domain.OrderStatusPending,
		CreatedAt:       l.now(),
		UpdatedAt:       l.now(),
	}

	if err := l.orders.CreateOrder(ctx, order); err != nil {
		if errors.Is(err, ErrDuplicateCorrelation) {
			// Lost a race with a concurrent replay; that order is ours.
			existing, found, replayErr := l.replayFor(ctx, userID, corr.ProviderOrderID)
			if replayErr != nil {
				return nil, replayErr
			}
			if !found {
				return nil, fmt.Errorf("%w: correlation already consumed", ErrPaymentRequired)
			}
			return existing, nil
		}
		return nil, err
	}

	// The order is durable from here on. A failed cart clear is retried, never
	// rolled back into the order: the money-relevant fact must stand.
	if err := l.carts.ClearOwned(ctx, userID); err != nil {
		log.Printf("cart clear after order %s failed, retrying: %v", order.ID, err)
		if err := l.carts.ClearOwned(ctx, userID); err != nil {
			log.Printf("cart clear retry for order %s failed, cart left for reconciliation: %v", order.ID, err)
		}
	}

	l.publish(ctx, "order_placed", order)
	return order, nil
}

// CancelOrder moves a Pending order to Cancelled. Terminal orders are left
// unchanged and the attempt fails with ErrStateConflict.
func (l *Ledger) CancelOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	order, err := l.transition(ctx, id, domain.OrderStatusCancelled)
	if err != nil {
		return nil, err
	}

	l.publish(ctx, "order_cancelled", order)
	return order, nil
}

// MarkDelivered moves a Pending order to Delivered. It is driven by the
// external fulfillment signal, not by a user action.
func (l *Ledger) MarkDelivered(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	order, err := l.transition(ctx, id, domain.OrderStatusDelivered)
	if err != nil {
		return nil, err
	}

	l.publish(ctx, "order_delivered", order)
	return order, nil
}

func (l *Ledger) ListForUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	return l.orders.ListOrdersByUserID(ctx, userID)
}

func (l *Ledger) GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return l.orders.GetOrderByID(ctx, id)
}

// replayFor looks up the order already created for providerOrderID, if any.
// A correlation consumed by another user's order is never replayed back; the
// requester sees the same error as for a missing correlation.
func (l *Ledger) replayFor(ctx context.Context, userID, providerOrderID string) (*domain.Order, bool, error) {
	existing, err := l.orders.GetOrderByProviderOrderID(ctx, providerOrderID)
	if errors.Is(err, ErrOrderNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if existing.UserID != userID {
		return nil, false, fmt.Errorf("%w: correlation already consumed", ErrPaymentRequired)
	}
	return existing, true, nil
}

func (l *Ledger) transition(ctx context.Context, id uuid.UUID, to domain.OrderStatus) (*domain.Order, error) {
	if !domain.CanTransitionTo(domain.OrderStatusPending, to) {
		return nil, ErrStateConflict
	}

	order, err := l.orders.TransitionStatus(ctx, id, domain.OrderStatusPending, to)
	if errors.Is(err, ErrStatusNotTransitioned) {
		// Either the order does not exist or it is not Pending anymore.
		if _, getErr := l.orders.GetOrderByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrStateConflict
	}
	return order, err
}

func (l *Ledger) snapshotItems(ctx context.Context, c *domain.Cart) ([]domain.OrderItem, float64, error) {
	items := make([]domain.OrderItem, 0, len(c.Items))
	var total float64

	for _, line := range c.Items {
		dish, err := l.catalog.GetDish(ctx, line.DishID)
		if err != nil {
			return nil, 0, err
		}
		price, err := pricing.ParseString(dish.Price)
		if err != nil {
			return nil, 0, fmt.Errorf("catalog price for dish %s: %w", line.DishID, err)
		}

		items = append(items, domain.OrderItem{
			DishID:    line.DishID,
			Name:      dish.Name,
			Quantity:  line.Quantity,
			UnitPrice: price,
		})
		total += price * float64(line.Quantity)
	}

	return items, total, nil
}

func (l *Ledger) publish(ctx context.Context, eventType string, order *domain.Order) {
	if l.publisher == nil {
		return
	}
	if err := l.publisher.Publish(ctx, eventType, order); err != nil {
		log.Printf("failed to publish %s for order %s: %v", eventType, order.ID, err)
	}
}
