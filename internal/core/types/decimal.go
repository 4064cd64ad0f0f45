// Package types provides the decimal value types shared by all entities.
package types

import (
	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors.
type Money = decimal.Decimal

// Quantity is an item quantity. Stock may be fractional (kg, litres).
type Quantity = decimal.Decimal

// MoneyScale is the number of fractional digits money is persisted with (NUMERIC(18,2)).
const MoneyScale int32 = 2

// QuantityScale matches NUMERIC(15,4) columns.
const QuantityScale int32 = 4

// NewMoneyFromString creates a Money value from a string.
// This is the preferred method for monetary values.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants and tests.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// MustQuantity is MustMoney for quantities.
func MustQuantity(s string) Quantity {
	return MustMoney(s)
}

// Zero returns zero value.
func Zero() Money {
	return decimal.Zero
}

// Min returns the smaller of a and b.
func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

// Max returns the larger of a and b.
func Max(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// RoundMoney rounds half-away-from-zero to MoneyScale.
func RoundMoney(m Money) Money {
	return m.Round(MoneyScale)
}
