package domain

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusDelivered OrderStatus = "Delivered"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

// IsTerminal reports whether no further status transition is allowed.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// String representation (for logging)
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo guards the order lifecycle: Pending is the only non-terminal
// status, and it may move to Delivered or Cancelled exactly once.
func CanTransitionTo(from, to OrderStatus) bool {
	if from != OrderStatusPending {
		return false
	}
	return to == OrderStatusDelivered || to == OrderStatusCancelled
}

// OrderItem is a line copied by value at placement time. A later catalog
// rename or price change never alters a historical order.
type OrderItem struct {
	DishID    string  `json:"dish_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

type ShippingInfo struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// Order is created only by the order ledger, never partially constructed and
// never deleted; cancellation is a status, not a deletion.
type Order struct {
	ID              uuid.UUID    `json:"id"`
	UserID          string       `json:"user_id"`
	Items           []OrderItem  `json:"items"`
	Shipping        ShippingInfo `json:"shipping"`
	Total           float64      `json:"total"`
	PaymentID       string       `json:"payment_id"`
	ProviderOrderID string       `json:"provider_order_id"`
	Status          OrderStatus  `json:"status"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}
