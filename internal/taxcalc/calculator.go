// Package taxcalc holds the arithmetic of tax calculation, quarterly splitting
// and penalty accrual. It performs no I/O; callers resolve configuration rows
// and pass them in.
package taxcalc

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"revportal/internal/domain"
)

// Input is a fully resolved calculation request.
type Input struct {
	TaxType       domain.TaxType
	TaxableAmount decimal.Decimal
	BusinessType  string

	Rate       decimal.Decimal
	RateSource domain.RateSource
	// ConfigUsed is the rate row the rate came from, nil for custom and default rates.
	ConfigUsed       *domain.TaxConfig
	AvailableConfigs []domain.TaxConfig

	Fees     []domain.TaxConfig
	Discount *domain.TaxConfig
}

// Compute produces the calculation result and its audit trail. The trail has
// five steps, or six when a discount row is given.
func Compute(in Input) *domain.CalculationResult {
	amount := domain.Round2(in.TaxableAmount)
	taxAmount := domain.Round2(domain.PercentOf(amount, in.Rate))

	fees := decimal.Zero
	feeParts := make([]string, 0, len(in.Fees))
	for i := range in.Fees {
		fee := in.Fees[i].AmountOrZero()
		fees = fees.Add(fee)
		feeParts = append(feeParts, fmt.Sprintf("%s (%s)", in.Fees[i].Label(), money(fee)))
	}
	fees = domain.Round2(fees)
	total := taxAmount.Add(fees)

	res := &domain.CalculationResult{
		TaxType:          in.TaxType,
		TaxableAmount:    amount,
		BusinessType:     in.BusinessType,
		TaxRate:          in.Rate,
		TaxAmount:        taxAmount,
		RegulatoryFees:   fees,
		TotalTax:         total,
		RateSource:       in.RateSource,
		ConfigUsed:       in.ConfigUsed,
		AvailableConfigs: nonNil(in.AvailableConfigs),
		Fees:             nonNil(in.Fees),
	}

	feeCalc := "no active regulatory fees"
	if len(feeParts) > 0 {
		feeCalc = strings.Join(feeParts, " + ")
	}

	res.CalculationSteps = []domain.CalculationStep{
		{
			Step:        1,
			Description: "Taxable amount",
			Formula:     taxableFormula(in.TaxType),
			Calculation: money(amount),
			Result:      money(amount),
		},
		{
			Step:        2,
			Description: "Tax rate selection",
			Formula:     rateFormula(in),
			Calculation: rateCalculation(in),
			Result:      percent(in.Rate),
		},
		{
			Step:        3,
			Description: "Tax amount",
			Formula:     "taxable_amount × tax_rate / 100",
			Calculation: fmt.Sprintf("%s × %s / 100", money(amount), in.Rate.String()),
			Result:      money(taxAmount),
		},
		{
			Step:        4,
			Description: "Regulatory fees",
			Formula:     "sum of active regulatory fee amounts",
			Calculation: feeCalc,
			Result:      money(fees),
		},
		{
			Step:        5,
			Description: "Total tax",
			Formula:     "tax_amount + regulatory_fees",
			Calculation: fmt.Sprintf("%s + %s", money(taxAmount), money(fees)),
			Result:      money(total),
		},
	}

	if in.Discount != nil {
		rate := in.Discount.PercentOrZero()
		discount := domain.Round2(domain.PercentOf(total, rate))
		after := total.Sub(discount)
		res.DiscountRate = &rate
		res.DiscountAmount = &discount
		res.TotalAfterDiscount = &after
		res.CalculationSteps = append(res.CalculationSteps, domain.CalculationStep{
			Step:        6,
			Description: "Discount (informational)",
			Formula:     "total_tax × discount_rate / 100",
			Calculation: fmt.Sprintf("%s × %s / 100 = %s; %s - %s", money(total), rate.String(), money(discount), money(total), money(discount)),
			Result:      money(after),
		})
	}

	return res
}

func taxableFormula(t domain.TaxType) string {
	if t == domain.TaxTypeGrossSales {
		return "declared gross sales"
	}
	return "declared capital investment"
}

func rateFormula(in Input) string {
	switch in.RateSource {
	case domain.RateSourceCustom:
		return "override rate"
	case domain.RateSourceConfig:
		if in.TaxType == domain.TaxTypeGrossSales {
			return "active gross sales rate for business type"
		}
		return "active bracket where min_amount <= taxable_amount <= max_amount"
	default:
		if in.TaxType == domain.TaxTypeGrossSales {
			return "default rate for business type"
		}
		return "default capital investment rate"
	}
}

func rateCalculation(in Input) string {
	switch in.RateSource {
	case domain.RateSourceCustom:
		return fmt.Sprintf("rate supplied by caller: %s", percent(in.Rate))
	case domain.RateSourceConfig:
		if in.ConfigUsed != nil {
			return fmt.Sprintf("%s: %s", in.ConfigUsed.Label(), percent(in.Rate))
		}
		return percent(in.Rate)
	default:
		if in.TaxType == domain.TaxTypeGrossSales {
			bt := in.BusinessType
			if bt == "" {
				bt = "unspecified"
			}
			return fmt.Sprintf("no active rate for %q: %s", bt, percent(in.Rate))
		}
		return fmt.Sprintf("no active bracket contains %s: %s", money(in.TaxableAmount), percent(in.Rate))
	}
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func percent(d decimal.Decimal) string {
	return d.StringFixed(2) + "%"
}

func nonNil(c []domain.TaxConfig) []domain.TaxConfig {
	if c == nil {
		return []domain.TaxConfig{}
	}
	return c
}
