package order

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Ashish-AN/Swadist/internal/domain"
)

var (
	ErrOrderNotFound         = errors.New("order not found")
	ErrDuplicateCorrelation  = errors.New("order for this payment correlation already exists")
	ErrStatusNotTransitioned = errors.New("order status was not transitioned")
)

// Repository persists orders. Orders are immutable except for the guarded
// status transition; they are never deleted.
type Repository interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrderByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	GetOrderByProviderOrderID(ctx context.Context, providerOrderID string) (*domain.Order, error)
	ListOrdersByUserID(ctx context.Context, userID string) ([]*domain.Order, error)

	// TransitionStatus moves id from one status to another in a single guarded
	// update; it returns ErrStatusNotTransitioned when the order is not in the
	// expected from status.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to domain.OrderStatus) (*domain.Order, error)
}
