// Package money holds the platform's monetary conversions and fee rules.
// Domain amounts are major units (pounds) as decimals; the payment
// processor speaks minor units (pence), so conversion happens here and
// only here.
package money

import "github.com/shopspring/decimal"

// DefaultCurrency is the platform settlement currency.
const DefaultCurrency = "gbp"

// MinimumPayout is the smallest instant payout the platform allows, in GBP.
var MinimumPayout = decimal.NewFromInt(10)

var (
	instantPayoutRate = decimal.NewFromFloat(0.01)
	instantPayoutMin  = decimal.RequireFromString("0.50")
	instantPayoutMax  = decimal.RequireFromString("10.00")
	minorUnitFactor   = decimal.NewFromInt(100)
)

// ToMinorUnits converts a major-unit amount to pence, rounding half up.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(minorUnitFactor).Round(0).IntPart()
}

// FromMinorUnits converts pence back to a major-unit decimal.
func FromMinorUnits(minor int64) decimal.Decimal {
	return decimal.NewFromInt(minor).Div(minorUnitFactor)
}

// InstantPayoutFee computes the fee for an instant payout: 1% of the
// amount, clamped to [0.50, 10.00] and rounded to two decimals.
func InstantPayoutFee(amount decimal.Decimal) decimal.Decimal {
	fee := amount.Mul(instantPayoutRate)
	if fee.LessThan(instantPayoutMin) {
		fee = instantPayoutMin
	}
	if fee.GreaterThan(instantPayoutMax) {
		fee = instantPayoutMax
	}
	return fee.Round(2)
}
