package cart

import (
	"context"
	"errors"

	"github.com/Ashish-AN/Swadist/internal/domain"
)

var ErrCartNotFound = errors.New("cart not found")

// Repository defines the interface for cart persistence.
// Consumers define this interface, not the MongoDB implementation.
type Repository interface {
	GetCart(ctx context.Context, userID string) (*domain.Cart, error)
	UpsertCart(ctx context.Context, cart *domain.Cart) error
	DeleteCart(ctx context.Context, userID string) error
}
