// Package money holds the VND arithmetic used for totals, discounts and gateway amounts.
// VND has no minor unit, so amounts are whole dong carried as int64.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// gatewayScale is the factor payment gateways expect amounts to be multiplied by.
const gatewayScale = 100

var ErrInvalidAmount = errors.New("invalid amount")

// Percent returns percent% of amount, rounded half-up to whole dong.
func Percent(amount int64, percent int) int64 {
	if amount <= 0 || percent <= 0 {
		return 0
	}
	return decimal.NewFromInt(amount).
		Mul(decimal.NewFromInt(int64(percent))).
		Div(decimal.NewFromInt(100)).
		Round(0).
		IntPart()
}

// LineTotal multiplies a unit price by a quantity.
func LineTotal(price int64, quantity int) int64 {
	return decimal.NewFromInt(price).Mul(decimal.NewFromInt(int64(quantity))).IntPart()
}

// ToGatewayUnits renders amount the way VNPay expects it (amount * 100, no separators).
func ToGatewayUnits(amount int64) string {
	return decimal.NewFromInt(amount).Mul(decimal.NewFromInt(gatewayScale)).String()
}

// FromGatewayUnits parses a gateway amount back into whole dong.
func FromGatewayUnits(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, ErrInvalidAmount
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	scaled := value.Div(decimal.NewFromInt(gatewayScale))
	if !scaled.Equal(scaled.Truncate(0)) || scaled.IsNegative() {
		return 0, fmt.Errorf("%w: %s is not a whole dong amount", ErrInvalidAmount, raw)
	}
	return scaled.IntPart(), nil
}

// Min returns the smaller of two amounts.
func Min(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
