package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"revportal/internal/domain"
	"revportal/internal/service"
)

// MockTaxConfigService is a mock implementation of service.TaxConfigService.
type MockTaxConfigService struct {
	mock.Mock
}

func (m *MockTaxConfigService) ListActive(ctx context.Context, kind domain.ConfigKind, asOf domain.Date) ([]domain.TaxConfig, error) {
	args := m.Called(ctx, kind, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TaxConfig), args.Error(1)
}

func (m *MockTaxConfigService) ListAll(ctx context.Context, kind domain.ConfigKind) ([]domain.TaxConfig, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TaxConfig), args.Error(1)
}

func (m *MockTaxConfigService) Get(ctx context.Context, kind domain.ConfigKind, id int64) (*domain.TaxConfig, error) {
	args := m.Called(ctx, kind, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxConfig), args.Error(1)
}

func (m *MockTaxConfigService) Create(ctx context.Context, kind domain.ConfigKind, input service.ConfigInput) (*domain.TaxConfig, error) {
	args := m.Called(ctx, kind, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxConfig), args.Error(1)
}

func (m *MockTaxConfigService) Update(ctx context.Context, kind domain.ConfigKind, id int64, input service.ConfigInput) (*domain.TaxConfig, error) {
	args := m.Called(ctx, kind, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxConfig), args.Error(1)
}

func (m *MockTaxConfigService) Expire(ctx context.Context, kind domain.ConfigKind, id int64, on *domain.Date) (*domain.TaxConfig, error) {
	args := m.Called(ctx, kind, id, on)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxConfig), args.Error(1)
}

func (m *MockTaxConfigService) Delete(ctx context.Context, kind domain.ConfigKind, id int64) error {
	args := m.Called(ctx, kind, id)
	return args.Error(0)
}
