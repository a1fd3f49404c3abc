package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"revportal/internal/domain"
)

// MockReportRepo is a mock implementation of port.ReportRepository.
type MockReportRepo struct {
	mock.Mock
}

func (m *MockReportRepo) Summary(ctx context.Context, filters *domain.ReportFilters) (*domain.DashboardSummary, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DashboardSummary), args.Error(1)
}

func (m *MockReportRepo) ByQuarter(ctx context.Context, filters *domain.ReportFilters) ([]domain.BreakdownRow, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BreakdownRow), args.Error(1)
}

func (m *MockReportRepo) ByLocation(ctx context.Context, filters *domain.ReportFilters) ([]domain.BreakdownRow, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BreakdownRow), args.Error(1)
}

func (m *MockReportRepo) ByClassification(ctx context.Context, filters *domain.ReportFilters) ([]domain.BreakdownRow, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BreakdownRow), args.Error(1)
}

func (m *MockReportRepo) Overdue(ctx context.Context, filters *domain.ReportFilters) ([]domain.OverdueInstallment, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OverdueInstallment), args.Error(1)
}

func (m *MockReportRepo) TopPayers(ctx context.Context, filters *domain.ReportFilters) ([]domain.TopPayer, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TopPayer), args.Error(1)
}
