package accounting

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCoerceAmount(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, "0"},
		{"json number", json.Number("150.25"), "150.25"},
		{"numeric string", "100", "100"},
		{"padded string", "  42.5 ", "42.5"},
		{"empty string", "", "0"},
		{"garbage string", "abc", "0"},
		{"float", 99.999, "100"},
		{"nan", math.NaN(), "0"},
		{"int", 7, "7"},
		{"int64", int64(12), "12"},
		{"negative", -5, "0"},
		{"negative string", "-10.00", "0"},
		{"decimal", decimal.RequireFromString("3.145"), "3.15"},
		{"unsupported", []int{1}, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CoerceAmount(tt.in).String())
		})
	}
}

func TestIsBalancedAtCentPrecision(t *testing.T) {
	assert.True(t, IsBalanced(decimal.RequireFromString("100.001"), decimal.RequireFromString("100.004")))
	assert.False(t, IsBalanced(decimal.RequireFromString("100"), decimal.RequireFromString("99.99")))
}
