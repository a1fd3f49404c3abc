package service

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"revportal/internal/domain"
	"revportal/internal/port"
)

// ConfigInput is the DTO for creating or patching a config row. Nil fields
// are left untouched on update. Dates are strings so legacy "no date" values
// ("" and "0000-00-00") can be sent to clear an expiration.
type ConfigInput struct {
	BusinessType   *string          `json:"business_type"`
	FeeName        *string          `json:"fee_name"`
	MinAmount      *decimal.Decimal `json:"min_amount"`
	MaxAmount      *decimal.Decimal `json:"max_amount"`
	Percent        *decimal.Decimal `json:"percent"`
	Amount         *decimal.Decimal `json:"amount"`
	EffectiveDate  *string          `json:"effective_date"`
	ExpirationDate *string          `json:"expiration_date"`
	Remarks        *string          `json:"remarks"`
}

// TaxConfigService defines the configuration store contract.
type TaxConfigService interface {
	ListActive(ctx context.Context, kind domain.ConfigKind, asOf domain.Date) ([]domain.TaxConfig, error)
	ListAll(ctx context.Context, kind domain.ConfigKind) ([]domain.TaxConfig, error)
	Get(ctx context.Context, kind domain.ConfigKind, id int64) (*domain.TaxConfig, error)
	Create(ctx context.Context, kind domain.ConfigKind, input ConfigInput) (*domain.TaxConfig, error)
	Update(ctx context.Context, kind domain.ConfigKind, id int64, input ConfigInput) (*domain.TaxConfig, error)
	Expire(ctx context.Context, kind domain.ConfigKind, id int64, on *domain.Date) (*domain.TaxConfig, error)
	Delete(ctx context.Context, kind domain.ConfigKind, id int64) error
}

type taxConfigService struct {
	repo port.TaxConfigRepository
	now  func() time.Time
}

// NewTaxConfigService creates a new TaxConfigService implementation.
func NewTaxConfigService(repo port.TaxConfigRepository) TaxConfigService {
	return &taxConfigService{repo: repo, now: time.Now}
}

func (s *taxConfigService) ListActive(ctx context.Context, kind domain.ConfigKind, asOf domain.Date) ([]domain.TaxConfig, error) {
	if !kind.Valid() {
		return nil, domain.ErrInvalidConfigKind
	}
	return s.repo.ListActive(ctx, kind, asOf)
}

func (s *taxConfigService) ListAll(ctx context.Context, kind domain.ConfigKind) ([]domain.TaxConfig, error) {
	if !kind.Valid() {
		return nil, domain.ErrInvalidConfigKind
	}
	return s.repo.ListAll(ctx, kind)
}

func (s *taxConfigService) Get(ctx context.Context, kind domain.ConfigKind, id int64) (*domain.TaxConfig, error) {
	if !kind.Valid() {
		return nil, domain.ErrInvalidConfigKind
	}
	return s.repo.GetByID(ctx, kind, id)
}

func (s *taxConfigService) Create(ctx context.Context, kind domain.ConfigKind, input ConfigInput) (*domain.TaxConfig, error) {
	if !kind.Valid() {
		return nil, domain.ErrInvalidConfigKind
	}
	if input.EffectiveDate == nil || strings.TrimSpace(*input.EffectiveDate) == "" {
		return nil, domain.NewValidationError("effective_date", "is required")
	}

	cfg := &domain.TaxConfig{Kind: kind}
	if err := applyConfigInput(cfg, input); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (s *taxConfigService) Update(ctx context.Context, kind domain.ConfigKind, id int64, input ConfigInput) (*domain.TaxConfig, error) {
	if !kind.Valid() {
		return nil, domain.ErrInvalidConfigKind
	}
	cfg, err := s.repo.GetByID(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if err := applyConfigInput(cfg, input); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Expire retires a row by setting its expiration date, today when on is nil.
func (s *taxConfigService) Expire(ctx context.Context, kind domain.ConfigKind, id int64, on *domain.Date) (*domain.TaxConfig, error) {
	if !kind.Valid() {
		return nil, domain.ErrInvalidConfigKind
	}
	day := domain.DateOf(s.now())
	if on != nil {
		day = *on
	}
	if err := s.repo.Expire(ctx, kind, id, day); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, kind, id)
}

func (s *taxConfigService) Delete(ctx context.Context, kind domain.ConfigKind, id int64) error {
	if !kind.Valid() {
		return domain.ErrInvalidConfigKind
	}
	return s.repo.Delete(ctx, kind, id)
}

func applyConfigInput(cfg *domain.TaxConfig, input ConfigInput) error {
	if input.BusinessType != nil {
		bt := strings.TrimSpace(*input.BusinessType)
		cfg.BusinessType = &bt
	}
	if input.FeeName != nil {
		name := strings.TrimSpace(*input.FeeName)
		cfg.FeeName = &name
	}
	if input.MinAmount != nil {
		cfg.MinAmount = input.MinAmount
	}
	if input.MaxAmount != nil {
		cfg.MaxAmount = input.MaxAmount
	}
	if input.Percent != nil {
		cfg.Percent = input.Percent
	}
	if input.Amount != nil {
		cfg.Amount = input.Amount
	}
	if input.EffectiveDate != nil {
		d, err := domain.ParseDate(*input.EffectiveDate)
		if err != nil {
			return domain.NewValidationError("effective_date", "%s", err.Error())
		}
		cfg.EffectiveDate = d
	}
	if input.ExpirationDate != nil {
		d, err := domain.ParseOptionalDate(*input.ExpirationDate)
		if err != nil {
			return domain.NewValidationError("expiration_date", "%s", err.Error())
		}
		cfg.ExpirationDate = d
	}
	if input.Remarks != nil {
		cfg.Remarks = *input.Remarks
	}
	return nil
}
