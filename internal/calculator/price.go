package calculator

import (
	"errors"

	"github.com/shopspring/decimal"
)

// PricePlaces is the number of decimal places prices are quoted with.
const PricePlaces = 2

var hundred = decimal.NewFromInt(100)

// RoundPrice rounds to PricePlaces using round-half-away-from-zero,
// so 99.965 becomes 99.97 and -99.965 becomes -99.97.
func RoundPrice(p decimal.Decimal) decimal.Decimal {
	return p.Round(PricePlaces)
}

// WithinTolerance reports whether |a-b| <= eps.
func WithinTolerance(a, b, eps decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(eps)
}

// ApplyOffset moves price by pct percent (negative pct moves it down)
// and rounds the result.
func ApplyOffset(price, pct decimal.Decimal) decimal.Decimal {
	factor := hundred.Add(pct).Div(hundred)
	return RoundPrice(price.Mul(factor))
}

// PercentDistance returns |level-price|/price*100 rounded to two places.
func PercentDistance(price, level decimal.Decimal) (decimal.Decimal, error) {
	if price.IsZero() {
		return decimal.Zero, errors.New("price is zero")
	}
	return level.Sub(price).Abs().Div(price).Mul(hundred).Round(2), nil
}
