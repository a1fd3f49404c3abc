package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"revportal/internal/domain"
	"revportal/internal/port"
	"revportal/internal/taxcalc"
)

// CalculateInput is the DTO for a tax calculation. AsOf defaults to today.
type CalculateInput struct {
	TaxType       domain.TaxType
	TaxableAmount decimal.Decimal
	BusinessType  string
	ConfigID      *int64
	OverrideRate  *decimal.Decimal
	AsOf          *domain.Date
}

// TaxService defines the tax calculation contract.
type TaxService interface {
	Calculate(ctx context.Context, input CalculateInput) (*domain.CalculationResult, error)
}

type taxService struct {
	configs port.TaxConfigRepository
	log     *zap.Logger
	now     func() time.Time
}

// NewTaxService creates a new TaxService implementation.
func NewTaxService(configs port.TaxConfigRepository, log *zap.Logger) TaxService {
	return &taxService{configs: configs, log: log, now: time.Now}
}

// Calculate resolves the rate in this order: override rate, explicit config
// id, automatic match, built-in default. Input errors are returned before any
// repository call.
func (s *taxService) Calculate(ctx context.Context, input CalculateInput) (*domain.CalculationResult, error) {
	if !input.TaxType.Valid() {
		return nil, domain.NewValidationError("tax_type", "must be capital_investment or gross_sales")
	}
	if !input.TaxableAmount.IsPositive() {
		return nil, domain.NewValidationError("taxable_amount", "must be greater than 0")
	}
	if input.OverrideRate != nil && input.OverrideRate.IsNegative() {
		return nil, domain.NewValidationError("override_tax_rate", "must not be negative")
	}

	asOf := domain.DateOf(s.now())
	if input.AsOf != nil {
		asOf = *input.AsOf
	}

	calc := taxcalc.Input{
		TaxType:       input.TaxType,
		TaxableAmount: input.TaxableAmount,
		BusinessType:  input.BusinessType,
	}

	if input.OverrideRate != nil {
		calc.Rate = *input.OverrideRate
		calc.RateSource = domain.RateSourceCustom
	} else if err := s.resolveRate(ctx, input, asOf, &calc); err != nil {
		return nil, err
	}

	fees, err := s.configs.ListActive(ctx, domain.ConfigKindRegulatoryFee, asOf)
	if err != nil {
		return nil, err
	}
	calc.Fees = fees

	discount, err := s.configs.LatestActive(ctx, domain.ConfigKindDiscount, asOf)
	switch {
	case err == nil:
		calc.Discount = discount
	case !errors.Is(err, domain.ErrConfigNotFound):
		return nil, err
	}

	return taxcalc.Compute(calc), nil
}

func (s *taxService) resolveRate(ctx context.Context, input CalculateInput, asOf domain.Date, calc *taxcalc.Input) error {
	kind := input.TaxType.ConfigKind()

	available, err := s.configs.ListActive(ctx, kind, asOf)
	if err != nil {
		return err
	}
	calc.AvailableConfigs = available

	var cfg *domain.TaxConfig
	switch {
	case input.ConfigID != nil:
		// an explicitly chosen row must exist and be active; no fallback
		cfg, err = s.configs.GetActiveByID(ctx, kind, *input.ConfigID, asOf)
		if err != nil {
			return err
		}
	case input.TaxType == domain.TaxTypeCapitalInvestment:
		cfg, err = s.configs.FindBracket(ctx, input.TaxableAmount, asOf)
	case input.BusinessType != "":
		cfg, err = s.configs.FindGrossSalesRate(ctx, input.BusinessType, asOf)
	default:
		err = domain.ErrConfigNotFound
	}

	if err != nil {
		if !errors.Is(err, domain.ErrConfigNotFound) {
			return err
		}
		calc.Rate = taxcalc.DefaultRate(input.TaxType, input.BusinessType)
		calc.RateSource = domain.RateSourceDefault
		s.log.Debug("no active rate config, using default rate",
			zap.String("tax_type", string(input.TaxType)),
			zap.String("business_type", input.BusinessType),
			zap.String("rate", calc.Rate.String()))
		return nil
	}

	calc.Rate = cfg.PercentOrZero()
	calc.RateSource = domain.RateSourceConfig
	calc.ConfigUsed = cfg
	return nil
}
