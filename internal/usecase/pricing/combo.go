package pricing

import (
	"math"

	"github.com/LavaJover/shvark-raffle-service/internal/domain"
)

// Entitlement converts a contribution into a ticket count:
// floor(amount / base) * numbersPerValue. Both values are compared in whole
// cents, so 0.3 over a 0.1 base is 3 and not 2.
func Entitlement(amount float64, rule domain.ComboRule) int {
	if !rule.Valid() {
		return 0
	}
	paid, base := cents(amount), cents(rule.BaseValue)
	if base <= 0 || paid < base {
		return 0
	}
	return int(paid/base) * rule.NumbersPerValue
}

func cents(v float64) int64 {
	return int64(math.Round(v * 100))
}

// Quote is the flat-mode price of count numbers.
func Quote(unit *domain.Unit, count int) float64 {
	return float64(count) * unit.UnitPrice
}

// Bound is the most numbers a reservation on unit may include for amount.
// Flat units are unbounded and report -1.
func Bound(unit *domain.Unit, amount float64) int {
	if unit.Pricing != domain.PricingCombo || unit.Combo == nil {
		return -1
	}
	return Entitlement(amount, *unit.Combo)
}
