package mocks

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"revportal/internal/domain"
	"revportal/internal/service"
)

// MockBillingService is a mock implementation of service.BillingService.
type MockBillingService struct {
	mock.Mock
}

func (m *MockBillingService) GenerateQuarters(ctx context.Context, entityID int64, totalAnnualTax decimal.Decimal, year int) ([]domain.QuarterlyInstallment, error) {
	args := m.Called(ctx, entityID, totalAnnualTax, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.QuarterlyInstallment), args.Error(1)
}

func (m *MockBillingService) ListInstallments(ctx context.Context, entityID int64, year *int) ([]domain.QuarterlyInstallment, error) {
	args := m.Called(ctx, entityID, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.QuarterlyInstallment), args.Error(1)
}

func (m *MockBillingService) RecordPayment(ctx context.Context, installmentID int64, input service.PaymentInput) (*domain.QuarterlyInstallment, error) {
	args := m.Called(ctx, installmentID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QuarterlyInstallment), args.Error(1)
}
