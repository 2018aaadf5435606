package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Ashish-AN/Swadist/internal/domain"
)

// PaymentService is what the payment handlers need from the correlator.
type PaymentService interface {
	CreateIntent(ctx context.Context, userID string, liveTotal, shippingSurcharge float64, cartVersion int64) (*domain.PaymentIntent, error)
	RecordClientCompletion(ctx context.Context, providerOrderID, paymentID string) (*domain.Correlation, error)
}

// CartReader is the checkout-time view of the cart store: the live total the
// intent must cover and the version that pins the idempotency key.
type CartReader interface {
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	LiveTotal(ctx context.Context, userID string) (float64, error)
}

type PaymentHandler struct {
	svc       PaymentService
	carts     CartReader
	surcharge float64
}

func NewPaymentHandler(svc PaymentService, carts CartReader, shippingSurcharge float64) *PaymentHandler {
	return &PaymentHandler{svc: svc, carts: carts, surcharge: shippingSurcharge}
}

type CreateIntentRequestDTO struct {
	UserID string `json:"userId"`
}

type CompletePaymentRequestDTO struct {
	ProviderOrderID string `json:"providerOrderId"`
	PaymentID       string `json:"paymentId"`
}

func (h *PaymentHandler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	var req CreateIntentRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.UserID == "" {
		respondError(w, http.StatusBadRequest, "validation_error", "userId is required")
		return
	}

	liveTotal, err := h.carts.LiveTotal(r.Context(), req.UserID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if liveTotal <= 0 {
		respondError(w, http.StatusUnprocessableEntity, "empty_cart", "cart is empty, nothing to pay for")
		return
	}

	c, err := h.carts.Get(r.Context(), req.UserID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	intent, err := h.svc.CreateIntent(r.Context(), req.UserID, liveTotal, h.surcharge, c.Version)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, intent)
}

func (h *PaymentHandler) Complete(w http.ResponseWriter, r *http.Request) {
	var req CompletePaymentRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProviderOrderID == "" || req.PaymentID == "" {
		respondError(w, http.StatusBadRequest, "validation_error", "providerOrderId and paymentId are required")
		return
	}

	corr, err := h.svc.RecordClientCompletion(r.Context(), req.ProviderOrderID, req.PaymentID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, corr)
}
