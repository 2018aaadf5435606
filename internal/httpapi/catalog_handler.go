package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Ashish-AN/Swadist/internal/catalog"
	"github.com/Ashish-AN/Swadist/internal/domain"
)

// CatalogHandler exposes the read-only catalog the cart UI browses. No
// invariants live here; writes belong to a different system.
type CatalogHandler struct {
	svc catalog.Service
}

func NewCatalogHandler(svc catalog.Service) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

func (h *CatalogHandler) ListRestaurants(w http.ResponseWriter, r *http.Request) {
	restaurants, err := h.svc.ListRestaurants(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if restaurants == nil {
		restaurants = []*domain.Restaurant{}
	}

	respondJSON(w, http.StatusOK, restaurants)
}

func (h *CatalogHandler) GetRestaurant(w http.ResponseWriter, r *http.Request) {
	restaurant, err := h.svc.GetRestaurant(r.Context(), chi.URLParam(r, "restaurantId"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, restaurant)
}

func (h *CatalogHandler) ListDishes(w http.ResponseWriter, r *http.Request) {
	restaurantID := r.URL.Query().Get("restaurantId")
	if restaurantID == "" {
		respondError(w, http.StatusBadRequest, "validation_error", "restaurantId query parameter is required")
		return
	}

	dishes, err := h.svc.GetDishesByRestaurant(r.Context(), restaurantID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if dishes == nil {
		dishes = []*domain.Dish{}
	}

	respondJSON(w, http.StatusOK, dishes)
}

func (h *CatalogHandler) GetDish(w http.ResponseWriter, r *http.Request) {
	dish, err := h.svc.GetDish(r.Context(), chi.URLParam(r, "dishId"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dish)
}
