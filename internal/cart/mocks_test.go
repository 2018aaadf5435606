package cart

import (
	"context"
	"sync"

	"github.com/Ashish-AN/Swadist/internal/cache"
	"github.com/Ashish-AN/Swadist/internal/catalog"
	"github.com/Ashish-AN/Swadist/internal/domain"
)

type mockRepository struct {
	m     sync.RWMutex
	carts map[string]*domain.Cart
	err   error
	// failures counts down: each read fails while > 0
	failures  int
	readErr   error
	deleteErr error
}

func newMockRepository() *mockRepository {
	return &mockRepository{carts: make(map[string]*domain.Cart)}
}

func (m *mockRepository) GetCart(_ context.Context, userID string) (*domain.Cart, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.failures > 0 {
		m.failures--
		return nil, m.readErr
	}
	if m.err != nil {
		return nil, m.err
	}
	c, ok := m.carts[userID]
	if !ok {
		return nil, ErrCartNotFound
	}
	cp := *c
	cp.Items = append([]domain.CartItem(nil), c.Items...)
	return &cp, nil
}

func (m *mockRepository) UpsertCart(_ context.Context, c *domain.Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	cp := *c
	cp.Items = append([]domain.CartItem(nil), c.Items...)
	m.carts[c.UserID] = &cp
	return nil
}

func (m *mockRepository) DeleteCart(_ context.Context, userID string) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.carts[userID]; !ok {
		return ErrCartNotFound
	}
	delete(m.carts, userID)
	return nil
}

type mockCache struct {
	m    sync.RWMutex
	cart *domain.Cart
	err  error
}

func (m *mockCache) Get(context.Context, string) (*domain.Cart, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.cart == nil {
		return nil, cache.ErrCacheMiss
	}
	return m.cart, nil
}

func (m *mockCache) Set(_ context.Context, _ string, cart *domain.Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.cart = cart
	return nil
}

func (m *mockCache) Delete(context.Context, string) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.cart = nil
	return nil
}

func (m *mockCache) current() *domain.Cart {
	m.m.RLock()
	defer m.m.RUnlock()
	return m.cart
}

type mockCatalog struct {
	m      sync.RWMutex
	dishes map[string]*domain.Dish
}

func newMockCatalog(dishes ...*domain.Dish) *mockCatalog {
	m := &mockCatalog{dishes: make(map[string]*domain.Dish)}
	for _, d := range dishes {
		m.dishes[d.ID] = d
	}
	return m
}

func (m *mockCatalog) setPrice(dishID, price string) {
	m.m.Lock()
	defer m.m.Unlock()
	m.dishes[dishID].Price = price
}

func (m *mockCatalog) GetDish(_ context.Context, id string) (*domain.Dish, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	d, ok := m.dishes[id]
	if !ok {
		return nil, catalog.ErrDishNotFound
	}
	cp := *d
	return &cp, nil
}

func (m *mockCatalog) GetDishesByRestaurant(context.Context, string) ([]*domain.Dish, error) {
	return nil, nil
}

func (m *mockCatalog) GetRestaurant(context.Context, string) (*domain.Restaurant, error) {
	return nil, catalog.ErrRestaurantNotFound
}

func (m *mockCatalog) ListRestaurants(context.Context) ([]*domain.Restaurant, error) {
	return nil, nil
}

type mockIdentity struct {
	users map[string]bool
	err   error
}

func (m *mockIdentity) Exists(_ context.Context, userID string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.users[userID], nil
}
