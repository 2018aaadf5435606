package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/Ashish-AN/Swadist/internal/cart"
	"github.com/Ashish-AN/Swadist/internal/catalog"
	"github.com/Ashish-AN/Swadist/internal/identity"
	"github.com/Ashish-AN/Swadist/internal/order"
	"github.com/Ashish-AN/Swadist/internal/payment"
	"github.com/Ashish-AN/Swadist/internal/pricing"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleServiceError maps the service error taxonomy onto HTTP statuses.
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, cart.ErrInvalidQuantity), errors.Is(err, pricing.ErrInvalidPrice):
		respondError(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, catalog.ErrDishNotFound):
		respondError(w, http.StatusNotFound, "dish_not_found", err.Error())
	case errors.Is(err, catalog.ErrRestaurantNotFound):
		respondError(w, http.StatusNotFound, "restaurant_not_found", err.Error())
	case errors.Is(err, identity.ErrUserNotFound):
		respondError(w, http.StatusNotFound, "user_not_found", err.Error())
	case errors.Is(err, order.ErrOrderNotFound):
		respondError(w, http.StatusNotFound, "order_not_found", err.Error())
	case errors.Is(err, order.ErrEmptyCart):
		respondError(w, http.StatusUnprocessableEntity, "empty_cart", err.Error())
	case errors.Is(err, order.ErrStateConflict):
		respondError(w, http.StatusConflict, "state_conflict", err.Error())
	case errors.Is(err, order.ErrPaymentRequired):
		respondError(w, http.StatusPaymentRequired, "payment_required", err.Error())
	case errors.Is(err, order.ErrPaymentMismatch):
		respondError(w, http.StatusConflict, "payment_mismatch", err.Error())
	case errors.Is(err, payment.ErrIntentNotFound):
		respondError(w, http.StatusPaymentRequired, "payment_required", err.Error())
	case errors.Is(err, payment.ErrIntentExpired):
		respondError(w, http.StatusPaymentRequired, "payment_expired", err.Error())
	case errors.Is(err, payment.ErrCorrelationConflict):
		respondError(w, http.StatusConflict, "correlation_conflict", err.Error())
	case errors.Is(err, payment.ErrProvider):
		respondError(w, http.StatusBadGateway, "provider_error", "payment provider unavailable")
	default:
		log.Printf("internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
