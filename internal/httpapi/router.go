package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Ashish-AN/Swadist/internal/catalog"
)

// NewRouter wires the REST surface over the core services.
func NewRouter(carts CartService, payments PaymentService, cartReader CartReader, orders OrderService, cat catalog.Service, requestTimeout time.Duration, shippingSurcharge float64) http.Handler {
	cartHandler := NewCartHandler(carts)
	paymentHandler := NewPaymentHandler(payments, cartReader, shippingSurcharge)
	orderHandler := NewOrderHandler(orders)
	catalogHandler := NewCatalogHandler(cat)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Post("/", cartHandler.Add)
			r.Get("/{userId}", cartHandler.Get)
			r.Put("/{userId}", cartHandler.Replace)
			r.Delete("/{userId}", cartHandler.Delete)
			r.Delete("/{userId}/items/{dishId}", cartHandler.RemoveItem)
			r.Get("/{userId}/total", cartHandler.LiveTotal)
		})

		r.Route("/payment", func(r chi.Router) {
			r.Post("/create-order", paymentHandler.CreateIntent)
			r.Post("/complete", paymentHandler.Complete)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", orderHandler.Place)
			// The identifier is a user id for listing and an order id for
			// cancel; chi needs one wildcard name per level.
			r.Get("/{id}", orderHandler.ListForUser)
			r.Put("/{id}/cancel", orderHandler.Cancel)
		})

		r.Get("/restaurants", catalogHandler.ListRestaurants)
		r.Get("/restaurants/{restaurantId}", catalogHandler.GetRestaurant)
		r.Get("/dishes", catalogHandler.ListDishes)
		r.Get("/dishes/{dishId}", catalogHandler.GetDish)
	})

	return r
}
