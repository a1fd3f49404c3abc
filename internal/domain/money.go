package domain

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Round2 rounds a money amount to centavos.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// PercentOf returns amount × percent / 100, unrounded.
func PercentOf(amount, percent decimal.Decimal) decimal.Decimal {
	return amount.Mul(percent).Div(hundred)
}

// CollectionRate returns collected / totalDue × 100 rounded to one decimal,
// or 0 when nothing is due.
func CollectionRate(collected, totalDue decimal.Decimal) float64 {
	if totalDue.Sign() <= 0 {
		return 0
	}
	rate, _ := collected.Div(totalDue).Mul(hundred).Round(1).Float64()
	return rate
}
