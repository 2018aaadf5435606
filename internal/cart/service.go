package cart

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Ashish-AN/Swadist/internal/cache"
	"github.com/Ashish-AN/Swadist/internal/catalog"
	"github.com/Ashish-AN/Swadist/internal/domain"
	"github.com/Ashish-AN/Swadist/internal/identity"
	"github.com/Ashish-AN/Swadist/internal/pricing"
)

var ErrInvalidQuantity = errors.New("quantity must be a positive integer")

// ReplaceItem is one line of a full cart replacement. Prices are not part of
// the payload; every line is re-priced against the catalog on commit.
type ReplaceItem struct {
	DishID   string `json:"dish_id"`
	Quantity int    `json:"quantity"`
}

type Service struct {
	repo     Repository
	cache    cache.CartCache
	catalog  catalog.Service
	identity identity.Service
	locks    *UserLocks
	sfg      singleflight.Group // Prevents cache stampede
}

func NewService(repo Repository, cache cache.CartCache, cat catalog.Service, id identity.Service, locks *UserLocks) *Service {
	return &Service{
		repo:     repo,
		cache:    cache,
		catalog:  cat,
		identity: id,
		locks:    locks,
	}
}

// Locks exposes the per-user serialization shared with the order ledger.
func (s *Service) Locks() *UserLocks {
	return s.locks
}

// Get returns the user's cart, an empty cart when none exists. It never fails
// on absence; the cached copy serves display reads.
func (s *Service) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	// Use singleflight to prevent multiple concurrent cache misses for same key
	v, err, _ := s.sfg.Do(userID, func() (interface{}, error) {

		cart, err := s.cache.Get(ctx, userID)
		if err == nil {
			return cart, nil // cart is in cache
		}

		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v", err) // log cache error but continue
		}

		// Fill under the user lock: a refill racing a mutation could otherwise
		// land after that mutation's invalidation and pin a stale version for
		// the full TTL.
		unlock := s.locks.Lock(userID)
		defer unlock()

		cart, errGet := s.getCartRetry(ctx, userID)
		if errGet != nil && errors.Is(errGet, ErrCartNotFound) {
			return emptyCart(userID), nil
		}
		if errGet != nil {
			return nil, errGet
		}

		if errSet := s.cache.Set(ctx, userID, cart); errSet != nil {
			log.Printf("cache set error: %v", errSet)
		}

		return cart, nil
	})

	if err != nil {
		return nil, err
	}

	return v.(*domain.Cart), nil
}

// Add accumulates quantity onto the user's line for dishID. The committed
// price is always the canonical catalog price resolved now; the caller's
// priceHint only masks display latency and is never persisted
// (last-resolved-price-wins).
func (s *Service) Add(ctx context.Context, userID, dishID string, quantity int, priceHint float64) (*domain.Cart, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}
	if err := s.checkUser(ctx, userID); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	dish, err := s.catalog.GetDish(ctx, dishID)
	if err != nil {
		return nil, err
	}
	price, err := pricing.ParseString(dish.Price)
	if err != nil {
		return nil, fmt.Errorf("catalog price for dish %s: %w", dishID, err)
	}
	if priceHint > 0 && math.Abs(priceHint-price) > 0.01 {
		log.Printf("price hint drift for dish %s: hint=%.2f canonical=%.2f", dishID, priceHint, price)
	}

	cart, err := s.getCartRetry(ctx, userID)
	if errors.Is(err, ErrCartNotFound) {
		cart = emptyCart(userID)
	} else if err != nil {
		return nil, err
	}

	if line := cart.FindItem(dishID); line != nil {
		line.Quantity += quantity
		line.CapturedPrice = price // re-stamp on every touch
	} else {
		cart.Items = append(cart.Items, domain.CartItem{
			DishID:        dishID,
			Quantity:      quantity,
			CapturedPrice: price,
		})
	}

	return s.commit(ctx, cart)
}

// Replace swaps the whole item set, re-pricing every line against the catalog.
// Lines with quantity < 1 are rejected rather than silently dropped.
func (s *Service) Replace(ctx context.Context, userID string, items []ReplaceItem) (*domain.Cart, error) {
	for i, item := range items {
		if item.Quantity < 1 {
			return nil, fmt.Errorf("%w: items[%d] got %d", ErrInvalidQuantity, i, item.Quantity)
		}
	}
	if err := s.checkUser(ctx, userID); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	merged := make([]domain.CartItem, 0, len(items))
	for _, item := range items {
		dish, err := s.catalog.GetDish(ctx, item.DishID)
		if err != nil {
			return nil, err
		}
		price, err := pricing.ParseString(dish.Price)
		if err != nil {
			return nil, fmt.Errorf("catalog price for dish %s: %w", item.DishID, err)
		}

		dup := false
		for i := range merged {
			if merged[i].DishID == item.DishID {
				merged[i].Quantity += item.Quantity
				merged[i].CapturedPrice = price
				dup = true
				break
			}
		}
		if !dup {
			merged = append(merged, domain.CartItem{
				DishID:        item.DishID,
				Quantity:      item.Quantity,
				CapturedPrice: price,
			})
		}
	}

	cart, err := s.getCartRetry(ctx, userID)
	if errors.Is(err, ErrCartNotFound) {
		cart = emptyCart(userID)
	} else if err != nil {
		return nil, err
	}

	cart.Items = merged
	return s.commit(ctx, cart)
}

// Remove drops one line. Removing an absent line or cart is a no-op success.
func (s *Service) Remove(ctx context.Context, userID, dishID string) (*domain.Cart, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	cart, err := s.getCartRetry(ctx, userID)
	if errors.Is(err, ErrCartNotFound) {
		return emptyCart(userID), nil
	}
	if err != nil {
		return nil, err
	}

	kept := cart.Items[:0]
	for _, item := range cart.Items {
		if item.DishID != dishID {
			kept = append(kept, item)
		}
	}
	cart.Items = kept

	return s.commit(ctx, cart)
}

// Clear deletes the cart entirely. Clearing an absent cart is a no-op success.
func (s *Service) Clear(ctx context.Context, userID string) error {
	unlock := s.locks.Lock(userID)
	defer unlock()

	return s.clearOwned(ctx, userID)
}

// ClearOwned clears the cart without taking the user lock. The order ledger
// calls it while already holding the lock for the placement transaction.
func (s *Service) ClearOwned(ctx context.Context, userID string) error {
	return s.clearOwned(ctx, userID)
}

func (s *Service) clearOwned(ctx context.Context, userID string) error {
	err := s.repo.DeleteCart(ctx, userID)
	if err != nil && !errors.Is(err, ErrCartNotFound) {
		return err
	}

	s.invalidateCache(userID)
	return nil
}

// LiveTotal re-resolves every line's price against the catalog at call time.
// Checkout uses it to detect price drift before money changes hands; display
// reads use the cached snapshot total instead.
func (s *Service) LiveTotal(ctx context.Context, userID string) (float64, error) {
	cart, err := s.getCartRetry(ctx, userID)
	if errors.Is(err, ErrCartNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	return s.liveTotal(ctx, cart)
}

// GetOwned loads the cart straight from the repository without locking; the
// order ledger calls it under its own hold of the user lock.
func (s *Service) GetOwned(ctx context.Context, userID string) (*domain.Cart, error) {
	return s.getCartRetry(ctx, userID)
}

func (s *Service) liveTotal(ctx context.Context, cart *domain.Cart) (float64, error) {
	var total float64
	for _, item := range cart.Items {
		dish, err := s.catalog.GetDish(ctx, item.DishID)
		if err != nil {
			return 0, err
		}
		price, err := pricing.ParseString(dish.Price)
		if err != nil {
			return 0, fmt.Errorf("catalog price for dish %s: %w", item.DishID, err)
		}
		total += price * float64(item.Quantity)
	}
	return total, nil
}

func (s *Service) commit(ctx context.Context, cart *domain.Cart) (*domain.Cart, error) {
	cart.Version++
	cart.RecomputeSnapshotTotal()

	if err := s.repo.UpsertCart(ctx, cart); err != nil {
		return nil, err
	}

	s.invalidateCache(cart.UserID)
	return cart, nil
}

func (s *Service) checkUser(ctx context.Context, userID string) error {
	ok, err := s.identity.Exists(ctx, userID)
	if err != nil {
		return fmt.Errorf("identity check: %w", err)
	}
	if !ok {
		return identity.ErrUserNotFound
	}
	return nil
}

// getCartRetry retries a transient read failure once before surfacing it.
func (s *Service) getCartRetry(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.repo.GetCart(ctx, userID)
	if err == nil || errors.Is(err, ErrCartNotFound) {
		return cart, err
	}

	log.Printf("cart read retry for user %s: %v", userID, err)
	return s.repo.GetCart(ctx, userID)
}

func (s *Service) invalidateCache(userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, userID); err != nil {
		log.Printf("cache invalidate error: %v", err)
	}
}

func emptyCart(userID string) *domain.Cart {
	now := time.Now()
	return &domain.Cart{
		UserID:    userID,
		Items:     nil,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
