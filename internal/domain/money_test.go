package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"10.00", "10"},
		{" 3.50 ", "3.5"},
		{"-2", "-2"},
		{"", "0"},
		{"abc", "0"},
		{"10,00", "0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseMoney(tt.in).String(), "input %q", tt.in)
	}
}

func TestLinePricing(t *testing.T) {
	l := OrderLine{
		Price:    decimal.NewFromFloat(10.00),
		Quantity: 2,
		Options: []SelectedOption{
			{Group: "Salsa", Option: "Verde", Modifier: decimal.NewFromFloat(0.50)},
			{Group: "Extra", Option: "Queso", Modifier: decimal.NewFromFloat(1.00)},
		},
	}
	assert.Equal(t, "11.5", l.UnitPrice().String())
	assert.Equal(t, "23", l.LineTotal().String())
}

func TestStatusTerminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusCancelled.Terminal())
}
