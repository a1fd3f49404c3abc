package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"revportal/internal/domain"
)

// MockInstallmentRepo is a mock implementation of port.InstallmentRepository.
type MockInstallmentRepo struct {
	mock.Mock
}

func (m *MockInstallmentRepo) CreateBatch(ctx context.Context, installments []domain.QuarterlyInstallment) error {
	args := m.Called(ctx, installments)
	return args.Error(0)
}

func (m *MockInstallmentRepo) CountForYear(ctx context.Context, entityID int64, year int) (int, error) {
	args := m.Called(ctx, entityID, year)
	return args.Int(0), args.Error(1)
}

func (m *MockInstallmentRepo) CountForEntity(ctx context.Context, entityID int64) (int, error) {
	args := m.Called(ctx, entityID)
	return args.Int(0), args.Error(1)
}

func (m *MockInstallmentRepo) GetByID(ctx context.Context, id int64) (*domain.QuarterlyInstallment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QuarterlyInstallment), args.Error(1)
}

func (m *MockInstallmentRepo) ListByEntity(ctx context.Context, entityID int64, year *int) ([]domain.QuarterlyInstallment, error) {
	args := m.Called(ctx, entityID, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.QuarterlyInstallment), args.Error(1)
}

func (m *MockInstallmentRepo) ListAccruable(ctx context.Context, asOf domain.Date) ([]domain.QuarterlyInstallment, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.QuarterlyInstallment), args.Error(1)
}

func (m *MockInstallmentRepo) ApplyPenalty(ctx context.Context, update domain.PenaltyUpdate) (bool, error) {
	args := m.Called(ctx, update)
	return args.Bool(0), args.Error(1)
}

func (m *MockInstallmentRepo) MarkDue(ctx context.Context, asOf domain.Date) (int64, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInstallmentRepo) RecordPayment(ctx context.Context, payment domain.PaymentRecord) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}
