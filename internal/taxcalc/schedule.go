package taxcalc

import (
	"github.com/shopspring/decimal"

	"revportal/internal/domain"
)

var four = decimal.NewFromInt(4)

// daysPerMonth is the fixed month length used for penalty accrual.
const daysPerMonth = 30

// SplitQuarterly divides an annual total into four installments. Q1 to Q3
// are total/4 rounded to centavos; Q4 takes the remainder so the four always
// sum to the total.
func SplitQuarterly(total decimal.Decimal) [4]decimal.Decimal {
	total = domain.Round2(total)
	quarter := domain.Round2(total.Div(four))
	last := total.Sub(quarter.Mul(decimal.NewFromInt(3)))
	return [4]decimal.Decimal{quarter, quarter, quarter, last}
}

// BuildInstallments returns the four pending installments of entityID for year.
func BuildInstallments(entityID int64, total decimal.Decimal, year int) []domain.QuarterlyInstallment {
	amounts := SplitQuarterly(total)
	out := make([]domain.QuarterlyInstallment, 0, len(domain.Quarters))
	for i, q := range domain.Quarters {
		out = append(out, domain.QuarterlyInstallment{
			EntityID:          entityID,
			Quarter:           q,
			Year:              year,
			DueDate:           q.DueDate(year),
			TotalQuarterlyTax: amounts[i],
			PaymentStatus:     domain.PaymentStatusPending,
			PenaltyAmount:     decimal.Zero,
			DiscountAmount:    decimal.Zero,
		})
	}
	return out
}

// DaysLate returns how late an installment is as of asOf, never less than the
// previously recorded value.
func DaysLate(due, asOf domain.Date, previous int) int {
	days := asOf.DaysSince(due)
	if days < previous {
		return previous
	}
	if days < 0 {
		return 0
	}
	return days
}

// MonthsLate converts days late to whole 30-day months, rounding up.
func MonthsLate(daysLate int) int {
	if daysLate <= 0 {
		return 0
	}
	return (daysLate + daysPerMonth - 1) / daysPerMonth
}

// Penalty returns quarterlyTax × percent/100 × months, rounded to centavos.
func Penalty(quarterlyTax, percent decimal.Decimal, months int) decimal.Decimal {
	if months <= 0 {
		return decimal.Zero
	}
	return domain.Round2(domain.PercentOf(quarterlyTax, percent).Mul(decimal.NewFromInt(int64(months))))
}
