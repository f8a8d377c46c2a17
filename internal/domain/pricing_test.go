package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSumLinesAvoidsFloatDrift(t *testing.T) {
	lines := []CartLine{
		{Product: Product{ID: "a", Price: 0.1}, Quantity: 3},
		{Product: Product{ID: "b", Price: 0.2}, Quantity: 1},
	}
	assert.Equal(t, 0.5, SumLines(lines))
	assert.Equal(t, 0.3, lines[0].LineTotal())
	assert.Equal(t, 0.0, SumLines(nil))
}

func TestShippingPolicyQuote(t *testing.T) {
	policy := ShippingPolicy{FreeThreshold: 500, FlatRate: 99}

	tests := []struct {
		subtotal     float64
		wantShipping float64
		wantTotal    float64
		wantFree     bool
	}{
		{499.99, 99, 598.99, false},
		{500, 0, 500, true},
		{1299, 0, 1299, true},
		{0, 99, 99, false},
	}
	for _, tt := range tests {
		q := policy.Quote(tt.subtotal)
		assert.Equal(t, tt.wantShipping, q.ShippingCost, "subtotal %v", tt.subtotal)
		assert.Equal(t, tt.wantTotal, q.Total, "subtotal %v", tt.subtotal)
		assert.Equal(t, tt.wantFree, q.FreeShipping, "subtotal %v", tt.subtotal)
	}
}

func TestValidationErrorMessageIsSorted(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{"zipCode": "too short", "email": "invalid"}}
	assert.Equal(t, "validation failed: email: invalid; zipCode: too short", err.Error())
}
