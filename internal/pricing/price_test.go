package pricing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseString(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    float64
		wantErr bool
	}{
		{name: "plain integer", raw: "120", want: 120},
		{name: "decimal", raw: "120.50", want: 120.5},
		{name: "rupee symbol", raw: "₹120", want: 120},
		{name: "rs prefix", raw: "Rs. 99", want: 99},
		{name: "thousands separator", raw: "₹1,299.00", want: 1299},
		{name: "trailing text", raw: "250 INR", want: 250},
		{name: "empty", raw: "", wantErr: true},
		{name: "no digits", raw: "free", wantErr: true},
		{name: "two decimal points", raw: "1.2.3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseString(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidPrice)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Numeric(t *testing.T) {
	got, err := Parse(100.0)
	require.NoError(t, err)
	assert.Equal(t, 100.0, got)

	got, err = Parse(42)
	require.NoError(t, err)
	assert.Equal(t, 42.0, got)
}

func TestParse_RejectsBadNumbers(t *testing.T) {
	_, err := Parse(-5.0)
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = Parse(math.NaN())
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = Parse(math.Inf(1))
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = Parse(nil)
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = Parse([]string{"120"})
	assert.ErrorIs(t, err, ErrInvalidPrice)
}
