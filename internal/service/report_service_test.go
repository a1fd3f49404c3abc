package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"revportal/internal/domain"
	"revportal/internal/service"
	"revportal/mocks"
)

func TestReportService_Summary_DerivesRates(t *testing.T) {
	repo := new(mocks.MockReportRepo)
	svc := service.NewReportService(repo)

	repo.On("Summary", mock.Anything, mock.MatchedBy(func(f *domain.ReportFilters) bool {
		return f.Year == 2025
	})).Return(&domain.DashboardSummary{
		Year:      2025,
		TotalDue:  dec("20000.00"),
		Collected: dec("5000.00"),
	}, nil)

	s, err := svc.Summary(context.Background(), &domain.ReportFilters{Year: 2025})

	require.NoError(t, err)
	assert.Equal(t, "15000.00", s.Outstanding.StringFixed(2))
	assert.Equal(t, 25.0, s.CollectionRate)
}

func TestReportService_DefaultsYearToCurrent(t *testing.T) {
	repo := new(mocks.MockReportRepo)
	svc := service.NewReportService(repo)

	year := time.Now().Year()
	repo.On("ByQuarter", mock.Anything, mock.MatchedBy(func(f *domain.ReportFilters) bool {
		return f.Year == year
	})).Return([]domain.BreakdownRow{
		{Key: "Q1", TotalDue: dec("100"), Collected: dec("50")},
		{Key: "Q2", TotalDue: dec("0"), Collected: dec("0")},
	}, nil)

	rows, err := svc.ByQuarter(context.Background(), &domain.ReportFilters{})

	require.NoError(t, err)
	assert.Equal(t, 50.0, rows[0].CollectionRate)
	assert.Equal(t, 0.0, rows[1].CollectionRate)
	repo.AssertExpectations(t)
}

func TestReportService_Overdue_AllYearsAndLimit(t *testing.T) {
	repo := new(mocks.MockReportRepo)
	svc := service.NewReportService(repo)

	repo.On("Overdue", mock.Anything, mock.MatchedBy(func(f *domain.ReportFilters) bool {
		return f.Year == 0 && f.Limit == 100
	})).Return([]domain.OverdueInstallment{{InstallmentID: 1}}, nil)

	rows, err := svc.Overdue(context.Background(), &domain.ReportFilters{Limit: 500})

	require.NoError(t, err)
	assert.Len(t, rows, 1)
	repo.AssertExpectations(t)
}

func TestReportService_TopPayers_DefaultLimit(t *testing.T) {
	repo := new(mocks.MockReportRepo)
	svc := service.NewReportService(repo)

	repo.On("TopPayers", mock.Anything, mock.MatchedBy(func(f *domain.ReportFilters) bool {
		return f.Limit == 10 && f.Year == 2024
	})).Return([]domain.TopPayer{}, nil)

	_, err := svc.TopPayers(context.Background(), &domain.ReportFilters{Year: 2024})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestReportService_Breakdowns(t *testing.T) {
	repo := new(mocks.MockReportRepo)
	svc := service.NewReportService(repo)

	et := domain.EntityTypeProperty
	filters := &domain.ReportFilters{Year: 2025, EntityType: &et}
	repo.On("Summary", mock.Anything, mock.Anything).Return(&domain.DashboardSummary{Year: 2025}, nil)
	repo.On("ByQuarter", mock.Anything, mock.Anything).Return([]domain.BreakdownRow{{Key: "Q1"}}, nil)
	repo.On("ByLocation", mock.Anything, mock.Anything).Return([]domain.BreakdownRow{}, nil)
	repo.On("ByClassification", mock.Anything, mock.Anything).Return([]domain.BreakdownRow{}, nil)

	report, err := svc.Breakdowns(context.Background(), filters)

	require.NoError(t, err)
	assert.Equal(t, 2025, report.Year)
	assert.Equal(t, &et, report.EntityType)
	assert.Len(t, report.ByQuarter, 1)
	repo.AssertExpectations(t)
}
