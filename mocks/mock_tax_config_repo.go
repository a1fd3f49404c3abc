package mocks

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"revportal/internal/domain"
)

// MockTaxConfigRepo is a mock implementation of port.TaxConfigRepository.
type MockTaxConfigRepo struct {
	mock.Mock
}

func (m *MockTaxConfigRepo) Create(ctx context.Context, cfg *domain.TaxConfig) error {
	args := m.Called(ctx, cfg)
	return args.Error(0)
}

func (m *MockTaxConfigRepo) GetByID(ctx context.Context, kind domain.ConfigKind, id int64) (*domain.TaxConfig, error) {
	args := m.Called(ctx, kind, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxConfig), args.Error(1)
}

func (m *MockTaxConfigRepo) GetActiveByID(ctx context.Context, kind domain.ConfigKind, id int64, asOf domain.Date) (*domain.TaxConfig, error) {
	args := m.Called(ctx, kind, id, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxConfig), args.Error(1)
}

func (m *MockTaxConfigRepo) ListActive(ctx context.Context, kind domain.ConfigKind, asOf domain.Date) ([]domain.TaxConfig, error) {
	args := m.Called(ctx, kind, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TaxConfig), args.Error(1)
}

func (m *MockTaxConfigRepo) ListAll(ctx context.Context, kind domain.ConfigKind) ([]domain.TaxConfig, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TaxConfig), args.Error(1)
}

func (m *MockTaxConfigRepo) FindBracket(ctx context.Context, amount decimal.Decimal, asOf domain.Date) (*domain.TaxConfig, error) {
	args := m.Called(ctx, amount, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxConfig), args.Error(1)
}

func (m *MockTaxConfigRepo) FindGrossSalesRate(ctx context.Context, businessType string, asOf domain.Date) (*domain.TaxConfig, error) {
	args := m.Called(ctx, businessType, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxConfig), args.Error(1)
}

func (m *MockTaxConfigRepo) LatestActive(ctx context.Context, kind domain.ConfigKind, asOf domain.Date) (*domain.TaxConfig, error) {
	args := m.Called(ctx, kind, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxConfig), args.Error(1)
}

func (m *MockTaxConfigRepo) Update(ctx context.Context, cfg *domain.TaxConfig) error {
	args := m.Called(ctx, cfg)
	return args.Error(0)
}

func (m *MockTaxConfigRepo) Expire(ctx context.Context, kind domain.ConfigKind, id int64, on domain.Date) error {
	args := m.Called(ctx, kind, id, on)
	return args.Error(0)
}

func (m *MockTaxConfigRepo) Delete(ctx context.Context, kind domain.ConfigKind, id int64) error {
	args := m.Called(ctx, kind, id)
	return args.Error(0)
}
