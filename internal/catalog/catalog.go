package catalog

import (
	"context"
	"errors"

	"github.com/Ashish-AN/Swadist/internal/domain"
)

var (
	ErrDishNotFound       = errors.New("dish not found")
	ErrRestaurantNotFound = errors.New("restaurant not found")
)

// Service is the read-only catalog collaborator. The cart and order packages
// consume it to resolve canonical dish prices; they never write through it.
type Service interface {
	GetDish(ctx context.Context, id string) (*domain.Dish, error)
	GetDishesByRestaurant(ctx context.Context, restaurantID string) ([]*domain.Dish, error)
	GetRestaurant(ctx context.Context, id string) (*domain.Restaurant, error)
	ListRestaurants(ctx context.Context) ([]*domain.Restaurant, error)
}
