package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Ashish-AN/Swadist/internal/cart"
	"github.com/Ashish-AN/Swadist/internal/domain"
	"github.com/Ashish-AN/Swadist/internal/pricing"
)

// CartService is what the cart handlers need from the cart store.
type CartService interface {
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	Add(ctx context.Context, userID, dishID string, quantity int, priceHint float64) (*domain.Cart, error)
	Replace(ctx context.Context, userID string, items []cart.ReplaceItem) (*domain.Cart, error)
	Remove(ctx context.Context, userID, dishID string) (*domain.Cart, error)
	Clear(ctx context.Context, userID string) error
	LiveTotal(ctx context.Context, userID string) (float64, error)
}

type CartHandler struct {
	svc CartService
}

func NewCartHandler(svc CartService) *CartHandler {
	return &CartHandler{svc: svc}
}

type AddItemRequestDTO struct {
	UserID   string `json:"userId"`
	DishID   string `json:"dishId"`
	Quantity int    `json:"quantity"`
	// Price is a client display hint; the committed value is always resolved
	// server-side. It may arrive numeric or currency-formatted.
	Price any `json:"price,omitempty"`
}

type ReplaceRequestDTO struct {
	Items []cart.ReplaceItem `json:"items"`
}

type LiveTotalResponseDTO struct {
	TotalPrice float64 `json:"totalPrice"`
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	c, err := h.svc.Get(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, c)
}

func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.UserID == "" || req.DishID == "" {
		respondError(w, http.StatusBadRequest, "validation_error", "userId and dishId are required")
		return
	}

	var priceHint float64
	if req.Price != nil {
		hint, err := pricing.Parse(req.Price)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		priceHint = hint
	}

	c, err := h.svc.Add(r.Context(), req.UserID, req.DishID, req.Quantity, priceHint)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, c)
}

func (h *CartHandler) Replace(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	var req ReplaceRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	c, err := h.svc.Replace(r.Context(), userID, req.Items)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, c)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	dishID := chi.URLParam(r, "dishId")

	c, err := h.svc.Remove(r.Context(), userID, dishID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, c)
}

func (h *CartHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	if err := h.svc.Clear(r.Context(), userID); err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "cart deleted"})
}

func (h *CartHandler) LiveTotal(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	total, err := h.svc.LiveTotal(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, LiveTotalResponseDTO{TotalPrice: total})
}
