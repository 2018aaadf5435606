package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
)

// ErrProvider wraps every failure of the external payment provider. Callers
// must not create any order-affecting state when they see it.
var ErrProvider = errors.New("payment provider error")

// Provider creates provider-side payment orders. The receipt doubles as the
// idempotency key: the provider deduplicates on it, so a retry after a timeout
// cannot produce two billable intents for the same checkout attempt.
type Provider interface {
	CreateOrder(ctx context.Context, amount float64, currency, receipt string) (string, error)
}

type razorpayProvider struct {
	baseURL   string
	keyID     string
	keySecret string
	client    *http.Client
	breaker   *gobreaker.CircuitBreaker[string]
}

func NewRazorpayProvider(baseURL, keyID, keySecret string, timeout time.Duration) Provider {
	breaker := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:    "razorpay",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &razorpayProvider{
		baseURL:   baseURL,
		keyID:     keyID,
		keySecret: keySecret,
		client:    &http.Client{Timeout: timeout},
		breaker:   breaker,
	}
}

type providerOrderRequest struct {
	Amount   int64  `json:"amount"` // smallest currency unit (paise)
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type providerOrderResponse struct {
	ID string `json:"id"`
}

func (p *razorpayProvider) CreateOrder(ctx context.Context, amount float64, currency, receipt string) (string, error) {
	id, err := p.breaker.Execute(func() (string, error) {
		return p.createOrder(ctx, amount, currency, receipt)
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProvider, err)
	}
	return id, nil
}

func (p *razorpayProvider) createOrder(ctx context.Context, amount float64, currency, receipt string) (string, error) {
	body, err := json.Marshal(providerOrderRequest{
		Amount:   int64(math.Round(amount * 100)),
		Currency: currency,
		Receipt:  receipt,
	})
	if err != nil {
		return "", fmt.Errorf("marshal order request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(p.keyID, p.keySecret)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("provider call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("provider returned %d: %s", resp.StatusCode, snippet)
	}

	var order providerOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return "", fmt.Errorf("decode provider response: %w", err)
	}
	if order.ID == "" {
		return "", fmt.Errorf("provider response missing order id")
	}

	return order.ID, nil
}
