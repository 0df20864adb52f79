// Package money converts between the decimal amounts the parser and
// settlement math work with and the int64 minor units stored in Firestore.
// Firestore has no decimal type and floats drift, so amounts are persisted as
// cents and only converted at the edges.
package money

import (
	"github.com/shopspring/decimal"
)

// ToMinor converts a decimal amount to minor units (cents). Amounts are
// parsed with at most two decimal places, so the shift is exact.
func ToMinor(d decimal.Decimal) int64 {
	return d.Shift(2).IntPart()
}

// FromMinor converts minor units back to a decimal amount.
func FromMinor(m int64) decimal.Decimal {
	return decimal.New(m, -2)
}

// Format renders minor units as "12.50 EUR".
func Format(m int64, currency string) string {
	return FromMinor(m).StringFixed(2) + " " + currency
}
