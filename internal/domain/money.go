package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseMoney parses a decimal-as-string transport value. Clients send prices
// as strings and some send garbage; a parse failure degrades to zero instead
// of failing the order.
func ParseMoney(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
