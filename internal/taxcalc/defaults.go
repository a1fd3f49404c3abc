package taxcalc

import (
	"strings"

	"github.com/shopspring/decimal"

	"revportal/internal/domain"
)

var (
	// DefaultCapitalInvestmentRate applies when no bracket covers the amount.
	DefaultCapitalInvestmentRate = decimal.RequireFromString("0.25")

	// DefaultGrossSalesRate applies to business types without a table entry.
	DefaultGrossSalesRate = decimal.RequireFromString("2.00")

	// DefaultPenaltyPercent is the monthly penalty rate used when no penalty
	// config is active.
	DefaultPenaltyPercent = decimal.RequireFromString("2.00")
)

// defaultGrossSalesRates is keyed by lower-cased business type.
var defaultGrossSalesRates = map[string]decimal.Decimal{
	"retailer":     decimal.RequireFromString("2.00"),
	"wholesaler":   decimal.RequireFromString("1.50"),
	"manufacturer": decimal.RequireFromString("1.75"),
	"service":      decimal.RequireFromString("1.25"),
}

// DefaultRate returns the built-in rate for a tax type. Business type matching
// is case-insensitive.
func DefaultRate(taxType domain.TaxType, businessType string) decimal.Decimal {
	if taxType != domain.TaxTypeGrossSales {
		return DefaultCapitalInvestmentRate
	}
	if rate, ok := defaultGrossSalesRates[strings.ToLower(strings.TrimSpace(businessType))]; ok {
		return rate
	}
	return DefaultGrossSalesRate
}
