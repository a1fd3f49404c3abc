package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TaxConfig is one row of a versioned rate table. Which optional fields are
// set depends on Kind.
type TaxConfig struct {
	ID             int64            `db:"id" json:"id"`
	Kind           ConfigKind       `db:"kind" json:"kind"`
	BusinessType   *string          `db:"business_type" json:"business_type,omitempty"`
	FeeName        *string          `db:"fee_name" json:"fee_name,omitempty"`
	MinAmount      *decimal.Decimal `db:"min_amount" json:"min_amount,omitempty"`
	MaxAmount      *decimal.Decimal `db:"max_amount" json:"max_amount,omitempty"`
	Percent        *decimal.Decimal `db:"percent" json:"percent,omitempty"`
	Amount         *decimal.Decimal `db:"amount" json:"amount,omitempty"`
	EffectiveDate  Date             `db:"effective_date" json:"effective_date"`
	ExpirationDate *Date            `db:"expiration_date" json:"expiration_date"`
	Remarks        string           `db:"remarks" json:"remarks"`
	CreatedAt      time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time        `db:"updated_at" json:"updated_at"`
}

// ActiveOn reports whether the row's effective window contains day.
func (c *TaxConfig) ActiveOn(day Date) bool {
	if c.EffectiveDate.After(day) {
		return false
	}
	return c.ExpirationDate == nil || !c.ExpirationDate.Before(day)
}

// Contains reports whether amount falls inside a capital-investment bracket (inclusive).
func (c *TaxConfig) Contains(amount decimal.Decimal) bool {
	if c.MinAmount == nil || c.MaxAmount == nil {
		return false
	}
	return amount.GreaterThanOrEqual(*c.MinAmount) && amount.LessThanOrEqual(*c.MaxAmount)
}

// PercentOrZero returns the row's percent, or zero for kinds without one.
func (c *TaxConfig) PercentOrZero() decimal.Decimal {
	if c.Percent == nil {
		return decimal.Zero
	}
	return *c.Percent
}

// AmountOrZero returns the row's flat fee amount, or zero.
func (c *TaxConfig) AmountOrZero() decimal.Decimal {
	if c.Amount == nil {
		return decimal.Zero
	}
	return *c.Amount
}

// Label is a short human-readable name for the row used in calculation steps.
func (c *TaxConfig) Label() string {
	switch c.Kind {
	case ConfigKindCapitalInvestment:
		if c.MinAmount != nil && c.MaxAmount != nil {
			return fmt.Sprintf("bracket #%d (%s - %s)", c.ID, c.MinAmount.StringFixed(2), c.MaxAmount.StringFixed(2))
		}
	case ConfigKindGrossSales:
		if c.BusinessType != nil {
			return fmt.Sprintf("%s rate #%d", *c.BusinessType, c.ID)
		}
	case ConfigKindRegulatoryFee:
		if c.FeeName != nil {
			return *c.FeeName
		}
	}
	return fmt.Sprintf("%s #%d", c.Kind, c.ID)
}

// Validate checks the fields required by the row's kind and the ordering of
// its bracket bounds and dates.
func (cfg *TaxConfig) Validate() error {
	switch cfg.Kind {
	case ConfigKindCapitalInvestment:
		if cfg.MinAmount == nil {
			return NewValidationError("min_amount", "is required")
		}
		if cfg.MaxAmount == nil {
			return NewValidationError("max_amount", "is required")
		}
		if cfg.MinAmount.IsNegative() {
			return NewValidationError("min_amount", "must not be negative")
		}
		if !cfg.MinAmount.LessThan(*cfg.MaxAmount) {
			return NewValidationError("max_amount", "must be greater than min_amount")
		}
	case ConfigKindGrossSales:
		if cfg.BusinessType == nil || *cfg.BusinessType == "" {
			return NewValidationError("business_type", "is required")
		}
	case ConfigKindRegulatoryFee:
		if cfg.FeeName == nil || *cfg.FeeName == "" {
			return NewValidationError("fee_name", "is required")
		}
		if cfg.Amount == nil {
			return NewValidationError("amount", "is required")
		}
		if cfg.Amount.IsNegative() {
			return NewValidationError("amount", "must not be negative")
		}
	}

	if cfg.Kind.HasPercent() {
		if cfg.Percent == nil {
			return NewValidationError("percent", "is required")
		}
		if cfg.Percent.IsNegative() || cfg.Percent.GreaterThan(hundred) {
			return NewValidationError("percent", "must be between 0 and 100")
		}
	}

	if cfg.ExpirationDate != nil && cfg.ExpirationDate.Before(cfg.EffectiveDate) {
		return NewValidationError("expiration_date", "must not be before effective_date")
	}
	return nil
}

// TaxableEntity is a business permit or a land/building property registration.
type TaxableEntity struct {
	ID             int64           `db:"id" json:"id"`
	EntityType     EntityType      `db:"entity_type" json:"entity_type"`
	ReferenceNo    string          `db:"reference_no" json:"reference_no"`
	OwnerName      string          `db:"owner_name" json:"owner_name"`
	Location       string          `db:"location" json:"location"`
	Classification string          `db:"classification" json:"classification"`
	TaxType        TaxType         `db:"tax_type" json:"tax_type"`
	TaxableAmount  decimal.Decimal `db:"taxable_amount" json:"taxable_amount"`
	Status         EntityStatus    `db:"status" json:"status"`
	TaxRate        decimal.Decimal `db:"tax_rate" json:"tax_rate"`
	TaxAmount      decimal.Decimal `db:"tax_amount" json:"tax_amount"`
	RegulatoryFees decimal.Decimal `db:"regulatory_fees" json:"regulatory_fees"`
	TotalTax       decimal.Decimal `db:"total_tax" json:"total_tax"`
	RateSource     string          `db:"rate_source" json:"rate_source"`
	ConfigID       *int64          `db:"config_id" json:"config_id"`
	ApprovedAt     *time.Time      `db:"approved_at" json:"approved_at"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updated_at"`
}

// ApplyCalculation copies a calculation's tax fields onto the entity.
// TotalTax is always TaxAmount + RegulatoryFees.
func (e *TaxableEntity) ApplyCalculation(res *CalculationResult) {
	e.TaxRate = res.TaxRate
	e.TaxAmount = res.TaxAmount
	e.RegulatoryFees = res.RegulatoryFees
	e.TotalTax = res.TaxAmount.Add(res.RegulatoryFees)
	e.RateSource = string(res.RateSource)
	e.ConfigID = nil
	if res.ConfigUsed != nil {
		id := res.ConfigUsed.ID
		e.ConfigID = &id
	}
}

// EntityFilters narrows entity listings.
type EntityFilters struct {
	EntityType *EntityType
	Status     *EntityStatus
	Location   string
}

// Quarter is a calendar quarter number, 1 through 4.
type Quarter int

// Valid reports whether q is between 1 and 4.
func (q Quarter) Valid() bool {
	return q >= 1 && q <= 4
}

// String renders the quarter as Q1..Q4.
func (q Quarter) String() string {
	return "Q" + strconv.Itoa(int(q))
}

// DueDate returns the fixed quarter-end due date within year.
func (q Quarter) DueDate(year int) Date {
	switch q {
	case 1:
		return NewDate(year, time.March, 31)
	case 2:
		return NewDate(year, time.June, 30)
	case 3:
		return NewDate(year, time.September, 30)
	default:
		return NewDate(year, time.December, 31)
	}
}

// MarshalJSON encodes the quarter as "Q1".."Q4".
func (q Quarter) MarshalJSON() ([]byte, error) {
	return json.Marshal(q.String())
}

// UnmarshalJSON accepts "Q1".."Q4" or a bare number.
func (q *Quarter) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		var n int
		if nerr := json.Unmarshal(b, &n); nerr != nil {
			return err
		}
		s = strconv.Itoa(n)
	}
	n, err := strconv.Atoi(strings.TrimPrefix(strings.ToUpper(s), "Q"))
	if err != nil || !Quarter(n).Valid() {
		return fmt.Errorf("invalid quarter %q", s)
	}
	*q = Quarter(n)
	return nil
}

// Quarters lists Q1 through Q4.
var Quarters = []Quarter{1, 2, 3, 4}

// QuarterlyInstallment is one of the four billing records derived from an annual total.
type QuarterlyInstallment struct {
	ID                int64           `db:"id" json:"id"`
	EntityID          int64           `db:"entity_id" json:"entity_id"`
	Quarter           Quarter         `db:"quarter" json:"quarter"`
	Year              int             `db:"year" json:"year"`
	DueDate           Date            `db:"due_date" json:"due_date"`
	TotalQuarterlyTax decimal.Decimal `db:"total_quarterly_tax" json:"total_quarterly_tax"`
	PaymentStatus     PaymentStatus   `db:"payment_status" json:"payment_status"`
	PenaltyAmount     decimal.Decimal `db:"penalty_amount" json:"penalty_amount"`
	DiscountAmount    decimal.Decimal `db:"discount_amount" json:"discount_amount"`
	DaysLate          int             `db:"days_late" json:"days_late"`
	PaymentDate       *Date           `db:"payment_date" json:"payment_date"`
	ReceiptNumber     *string         `db:"receipt_number" json:"receipt_number"`
	CreatedAt         time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time       `db:"updated_at" json:"updated_at"`
}

// AmountDue is the quarterly tax plus accrued penalty less any discount.
func (i *QuarterlyInstallment) AmountDue() decimal.Decimal {
	return i.TotalQuarterlyTax.Add(i.PenaltyAmount).Sub(i.DiscountAmount)
}

// PenaltyUpdate is a monotonic penalty write for one installment.
type PenaltyUpdate struct {
	InstallmentID int64
	PenaltyAmount decimal.Decimal
	DaysLate      int
}

// PaymentRecord marks an installment as paid.
type PaymentRecord struct {
	InstallmentID  int64
	PaymentDate    Date
	ReceiptNumber  string
	DiscountAmount decimal.Decimal
}

// CalculationStep is one line of the calculation audit trail.
type CalculationStep struct {
	Step        int    `json:"step"`
	Description string `json:"description"`
	Formula     string `json:"formula"`
	Calculation string `json:"calculation"`
	Result      string `json:"result"`
}

// CalculationResult is the outcome of a tax calculation with its audit trail.
type CalculationResult struct {
	TaxType            TaxType           `json:"tax_type"`
	TaxableAmount      decimal.Decimal   `json:"taxable_amount"`
	BusinessType       string            `json:"business_type,omitempty"`
	TaxRate            decimal.Decimal   `json:"tax_rate"`
	TaxAmount          decimal.Decimal   `json:"tax_amount"`
	RegulatoryFees     decimal.Decimal   `json:"regulatory_fees"`
	TotalTax           decimal.Decimal   `json:"total_tax"`
	RateSource         RateSource        `json:"rate_source"`
	ConfigUsed         *TaxConfig        `json:"config_used"`
	AvailableConfigs   []TaxConfig       `json:"available_configs"`
	Fees               []TaxConfig       `json:"fees"`
	DiscountRate       *decimal.Decimal  `json:"discount_rate,omitempty"`
	DiscountAmount     *decimal.Decimal  `json:"discount_amount,omitempty"`
	TotalAfterDiscount *decimal.Decimal  `json:"total_after_discount,omitempty"`
	CalculationSteps   []CalculationStep `json:"calculation_steps"`
}

// AccrualResult summarizes one penalty accrual pass.
type AccrualResult struct {
	AsOf              Date            `json:"as_of"`
	PenaltyPercent    decimal.Decimal `json:"penalty_percent"`
	Scanned           int             `json:"scanned"`
	UpdatedRecords    int             `json:"updated_records"`
	TotalPenaltyAdded decimal.Decimal `json:"total_penalty_added"`
	MarkedDue         int64           `json:"marked_due"`
	Warnings          []string        `json:"warnings"`
}

// ReportFilters narrows dashboard aggregates.
type ReportFilters struct {
	Year       int
	EntityType *EntityType
	Limit      int
}

// DashboardSummary is the headline aggregate for one billing year.
type DashboardSummary struct {
	Year             int             `db:"-" json:"year"`
	TotalEntities    int             `db:"total_entities" json:"total_entities"`
	PendingEntities  int             `db:"pending_entities" json:"pending_entities"`
	ApprovedEntities int             `db:"approved_entities" json:"approved_entities"`
	RejectedEntities int             `db:"rejected_entities" json:"rejected_entities"`
	Installments     int             `db:"installments" json:"installments"`
	PaidCount        int             `db:"paid_count" json:"paid_count"`
	OverdueCount     int             `db:"overdue_count" json:"overdue_count"`
	TotalDue         decimal.Decimal `db:"total_due" json:"total_due"`
	Collected        decimal.Decimal `db:"collected" json:"collected"`
	Outstanding      decimal.Decimal `db:"-" json:"outstanding"`
	Penalties        decimal.Decimal `db:"penalties" json:"penalties"`
	CollectionRate   float64         `db:"-" json:"collection_rate"`
}

// BreakdownRow is one group of a dashboard breakdown.
type BreakdownRow struct {
	Key            string          `db:"group_key" json:"key"`
	Count          int             `db:"installment_count" json:"count"`
	TotalDue       decimal.Decimal `db:"total_due" json:"total_due"`
	Collected      decimal.Decimal `db:"collected" json:"collected"`
	Penalties      decimal.Decimal `db:"penalties" json:"penalties"`
	CollectionRate float64         `db:"-" json:"collection_rate"`
}

// OverdueInstallment is an overdue installment joined with its owner.
type OverdueInstallment struct {
	InstallmentID     int64           `db:"installment_id" json:"installment_id"`
	EntityID          int64           `db:"entity_id" json:"entity_id"`
	EntityType        EntityType      `db:"entity_type" json:"entity_type"`
	ReferenceNo       string          `db:"reference_no" json:"reference_no"`
	OwnerName         string          `db:"owner_name" json:"owner_name"`
	Location          string          `db:"location" json:"location"`
	Quarter           Quarter         `db:"quarter" json:"quarter"`
	Year              int             `db:"year" json:"year"`
	DueDate           Date            `db:"due_date" json:"due_date"`
	TotalQuarterlyTax decimal.Decimal `db:"total_quarterly_tax" json:"total_quarterly_tax"`
	PenaltyAmount     decimal.Decimal `db:"penalty_amount" json:"penalty_amount"`
	DaysLate          int             `db:"days_late" json:"days_late"`
}

// TopPayer ranks an entity by amount collected.
type TopPayer struct {
	EntityID         int64           `db:"entity_id" json:"entity_id"`
	EntityType       EntityType      `db:"entity_type" json:"entity_type"`
	ReferenceNo      string          `db:"reference_no" json:"reference_no"`
	OwnerName        string          `db:"owner_name" json:"owner_name"`
	Classification   string          `db:"classification" json:"classification"`
	Location         string          `db:"location" json:"location"`
	InstallmentsPaid int             `db:"installments_paid" json:"installments_paid"`
	TotalPaid        decimal.Decimal `db:"total_paid" json:"total_paid"`
}

// DashboardReport bundles the summary and grouped views of one billing year.
type DashboardReport struct {
	Year             int               `json:"year"`
	EntityType       *EntityType       `json:"entity_type,omitempty"`
	Summary          *DashboardSummary `json:"summary"`
	ByQuarter        []BreakdownRow    `json:"by_quarter"`
	ByLocation       []BreakdownRow    `json:"by_location"`
	ByClassification []BreakdownRow    `json:"by_classification"`
}
