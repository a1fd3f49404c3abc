package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"revportal/internal/domain"
)

// MockReportService is a mock implementation of service.ReportService.
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Summary(ctx context.Context, filters *domain.ReportFilters) (*domain.DashboardSummary, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DashboardSummary), args.Error(1)
}

func (m *MockReportService) ByQuarter(ctx context.Context, filters *domain.ReportFilters) ([]domain.BreakdownRow, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BreakdownRow), args.Error(1)
}

func (m *MockReportService) ByLocation(ctx context.Context, filters *domain.ReportFilters) ([]domain.BreakdownRow, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BreakdownRow), args.Error(1)
}

func (m *MockReportService) ByClassification(ctx context.Context, filters *domain.ReportFilters) ([]domain.BreakdownRow, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BreakdownRow), args.Error(1)
}

func (m *MockReportService) Overdue(ctx context.Context, filters *domain.ReportFilters) ([]domain.OverdueInstallment, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OverdueInstallment), args.Error(1)
}

func (m *MockReportService) TopPayers(ctx context.Context, filters *domain.ReportFilters) ([]domain.TopPayer, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TopPayer), args.Error(1)
}

func (m *MockReportService) Breakdowns(ctx context.Context, filters *domain.ReportFilters) (*domain.DashboardReport, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DashboardReport), args.Error(1)
}
