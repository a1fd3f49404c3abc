package service

import (
	"context"
	"time"

	"revportal/internal/domain"
	"revportal/internal/port"
)

const (
	defaultReportLimit = 10
	maxReportLimit     = 100
)

// ReportService provides read-only dashboard aggregates over entities and installments.
type ReportService interface {
	Summary(ctx context.Context, filters *domain.ReportFilters) (*domain.DashboardSummary, error)
	ByQuarter(ctx context.Context, filters *domain.ReportFilters) ([]domain.BreakdownRow, error)
	ByLocation(ctx context.Context, filters *domain.ReportFilters) ([]domain.BreakdownRow, error)
	ByClassification(ctx context.Context, filters *domain.ReportFilters) ([]domain.BreakdownRow, error)
	Overdue(ctx context.Context, filters *domain.ReportFilters) ([]domain.OverdueInstallment, error)
	TopPayers(ctx context.Context, filters *domain.ReportFilters) ([]domain.TopPayer, error)
	Breakdowns(ctx context.Context, filters *domain.ReportFilters) (*domain.DashboardReport, error)
}

type reportService struct {
	reportRepo port.ReportRepository
	now        func() time.Time
}

// NewReportService creates a new ReportService implementation.
func NewReportService(reportRepo port.ReportRepository) ReportService {
	return &reportService{reportRepo: reportRepo, now: time.Now}
}

// withYear defaults the filter year to the current year.
func (s *reportService) withYear(filters *domain.ReportFilters) *domain.ReportFilters {
	f := *filters
	if f.Year <= 0 {
		f.Year = s.now().Year()
	}
	return &f
}

func withLimit(filters *domain.ReportFilters) *domain.ReportFilters {
	f := *filters
	if f.Limit <= 0 {
		f.Limit = defaultReportLimit
	}
	if f.Limit > maxReportLimit {
		f.Limit = maxReportLimit
	}
	return &f
}

func (s *reportService) Summary(ctx context.Context, filters *domain.ReportFilters) (*domain.DashboardSummary, error) {
	summary, err := s.reportRepo.Summary(ctx, s.withYear(filters))
	if err != nil {
		return nil, err
	}
	summary.Outstanding = summary.TotalDue.Sub(summary.Collected)
	summary.CollectionRate = domain.CollectionRate(summary.Collected, summary.TotalDue)
	return summary, nil
}

func (s *reportService) ByQuarter(ctx context.Context, filters *domain.ReportFilters) ([]domain.BreakdownRow, error) {
	return withRates(s.reportRepo.ByQuarter(ctx, s.withYear(filters)))
}

func (s *reportService) ByLocation(ctx context.Context, filters *domain.ReportFilters) ([]domain.BreakdownRow, error) {
	return withRates(s.reportRepo.ByLocation(ctx, s.withYear(filters)))
}

func (s *reportService) ByClassification(ctx context.Context, filters *domain.ReportFilters) ([]domain.BreakdownRow, error) {
	return withRates(s.reportRepo.ByClassification(ctx, s.withYear(filters)))
}

// Overdue lists overdue installments across every year unless one is given.
func (s *reportService) Overdue(ctx context.Context, filters *domain.ReportFilters) ([]domain.OverdueInstallment, error) {
	return s.reportRepo.Overdue(ctx, withLimit(filters))
}

func (s *reportService) TopPayers(ctx context.Context, filters *domain.ReportFilters) ([]domain.TopPayer, error) {
	return s.reportRepo.TopPayers(ctx, withLimit(s.withYear(filters)))
}

// Breakdowns loads the summary and every grouped view for one year.
func (s *reportService) Breakdowns(ctx context.Context, filters *domain.ReportFilters) (*domain.DashboardReport, error) {
	f := s.withYear(filters)

	summary, err := s.Summary(ctx, f)
	if err != nil {
		return nil, err
	}
	quarters, err := s.ByQuarter(ctx, f)
	if err != nil {
		return nil, err
	}
	locations, err := s.ByLocation(ctx, f)
	if err != nil {
		return nil, err
	}
	classifications, err := s.ByClassification(ctx, f)
	if err != nil {
		return nil, err
	}

	return &domain.DashboardReport{
		Year:             f.Year,
		EntityType:       f.EntityType,
		Summary:          summary,
		ByQuarter:        quarters,
		ByLocation:       locations,
		ByClassification: classifications,
	}, nil
}

func withRates(rows []domain.BreakdownRow, err error) ([]domain.BreakdownRow, error) {
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].CollectionRate = domain.CollectionRate(rows[i].Collected, rows[i].TotalDue)
	}
	return rows, nil
}
