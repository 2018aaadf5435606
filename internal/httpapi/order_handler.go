package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Ashish-AN/Swadist/internal/domain"
)

// OrderService is what the order handlers need from the ledger. Delivery is
// absent on purpose: it is driven by the fulfillment consumer, not by HTTP.
type OrderService interface {
	PlaceOrder(ctx context.Context, userID string, shipping domain.ShippingInfo, corr domain.Correlation) (*domain.Order, error)
	CancelOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListForUser(ctx context.Context, userID string) ([]*domain.Order, error)
}

type OrderHandler struct {
	svc OrderService
}

func NewOrderHandler(svc OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

type PlaceOrderRequestDTO struct {
	UserID          string `json:"userId"`
	Name            string `json:"name"`
	Address         string `json:"address"`
	Phone           string `json:"phone"`
	PaymentID       string `json:"paymentId"`
	ProviderOrderID string `json:"providerOrderId"`
}

func (h *OrderHandler) Place(w http.ResponseWriter, r *http.Request) {
	var req PlaceOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.UserID == "" {
		respondError(w, http.StatusBadRequest, "validation_error", "userId is required")
		return
	}
	if req.Name == "" || req.Address == "" || req.Phone == "" {
		respondError(w, http.StatusBadRequest, "validation_error", "name, address and phone are required")
		return
	}
	if req.PaymentID == "" || req.ProviderOrderID == "" {
		respondError(w, http.StatusPaymentRequired, "payment_required", "paymentId and providerOrderId are required")
		return
	}

	order, err := h.svc.PlaceOrder(r.Context(),
		req.UserID,
		domain.ShippingInfo{Name: req.Name, Address: req.Address, Phone: req.Phone},
		domain.Correlation{PaymentID: req.PaymentID, ProviderOrderID: req.ProviderOrderID},
	)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, order)
}

func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "validation_error", "orderId must be a UUID")
		return
	}

	order, err := h.svc.CancelOrder(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	orders, err := h.svc.ListForUser(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if orders == nil {
		orders = []*domain.Order{}
	}

	respondJSON(w, http.StatusOK, orders)
}
