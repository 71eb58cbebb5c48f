package calculator

import (
	"math"

	"github.com/shopspring/decimal"
)

// Epsilon is the smallest amount treated as money. Balances within ±Epsilon
// are settled and share sums within Epsilon of a total are consistent.
const Epsilon = 0.01

// precision is the number of decimal places balances and transfers are rounded to.
const precision = 2

var epsilon = decimal.New(1, -precision)

// round2 rounds half away from zero to two decimal places.
func round2(v float64) float64 {
	return toFloat(toDecimal(v))
}

// toDecimal converts v to a decimal rounded to two places. NaN and ±Inf
// have no decimal form and become zero; callers report them first.
func toDecimal(v float64) decimal.Decimal {
	if !finite(v) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v).Round(precision)
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

// sanitize reports whether v is a usable non-negative amount and returns it
// clamped to zero otherwise.
func sanitize(v float64) (float64, bool) {
	if !finite(v) || v < 0 {
		return 0, false
	}
	return v, true
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
