// Package pricing normalizes the heterogeneous price representations found in
// the catalog and in client payloads into a canonical float amount. Every
// price-bearing operation routes through Parse; no other package parses price
// text.
package pricing

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var ErrInvalidPrice = errors.New("invalid price")

// Parse accepts a numeric amount or a currency-formatted string ("₹120",
// "Rs. 99.50") and returns the canonical amount. The result must be a finite,
// non-negative number.
func Parse(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return validate(v)
	case float32:
		return validate(float64(v))
	case int:
		return validate(float64(v))
	case int64:
		return validate(float64(v))
	case string:
		return ParseString(v)
	case nil:
		return 0, fmt.Errorf("%w: missing value", ErrInvalidPrice)
	default:
		return 0, fmt.Errorf("%w: unsupported type %T", ErrInvalidPrice, value)
	}
}

// ParseString strips everything but digits and the decimal point before
// parsing, so "₹1,299.00" and "1299" normalize to the same amount.
func ParseString(raw string) (float64, error) {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return 0, fmt.Errorf("%w: %q has no numeric content", ErrInvalidPrice, raw)
	}

	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, raw)
	}
	return validate(amount)
}

func validate(amount float64) (float64, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, fmt.Errorf("%w: not a finite number", ErrInvalidPrice)
	}
	if amount < 0 {
		return 0, fmt.Errorf("%w: negative amount %v", ErrInvalidPrice, amount)
	}
	return amount, nil
}
