package cache

import (
	"context"
	"errors"

	"github.com/Ashish-AN/Swadist/internal/domain"
)

// CartCache holds the display copy of a cart, keyed by user. The cached
// snapshot total serves casual reads only; checkout always recomputes against
// the catalog.
type CartCache interface {
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	Set(ctx context.Context, userID string, cart *domain.Cart) error
	Delete(ctx context.Context, userID string) error
}

var ErrCacheMiss = errors.New("cache miss")
