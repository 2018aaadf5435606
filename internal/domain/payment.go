package domain

import "time"

type IntentStatus string

const (
	IntentStatusCreated            IntentStatus = "created"
	IntentStatusClientReportedPaid IntentStatus = "client_reported_paid"
	IntentStatusExpired            IntentStatus = "expired"
)

// PaymentIntent is the provider-side record of an amount to be charged,
// created at checkout start. An intent that passes its validity window unused
// is garbage; no order may reference it.
type PaymentIntent struct {
	ProviderOrderID string       `json:"provider_order_id"`
	UserID          string       `json:"user_id"`
	Amount          float64      `json:"amount"`
	Currency        string       `json:"currency"`
	Receipt         string       `json:"receipt"`
	Status          IntentStatus `json:"status"`
	PaymentID       *string      `json:"payment_id,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
	ExpiresAt       time.Time    `json:"expires_at"`
}

// ExpiredAt reports whether the intent's validity window has passed at t.
func (p *PaymentIntent) ExpiredAt(t time.Time) bool {
	return p.Status == IntentStatusExpired || t.After(p.ExpiresAt)
}

// Correlation links a client-reported payment completion to an order placement
// request. It is recorded unverified; the order ledger re-validates it against
// the provider-issued intent before trusting it.
type Correlation struct {
	PaymentID       string `json:"payment_id"`
	ProviderOrderID string `json:"provider_order_id"`
}
