package port

import (
	"context"

	"revportal/internal/domain"
)

// ReportRepository provides read-only dashboard aggregates.
type ReportRepository interface {
	Summary(ctx context.Context, filters *domain.ReportFilters) (*domain.DashboardSummary, error)
	ByQuarter(ctx context.Context, filters *domain.ReportFilters) ([]domain.BreakdownRow, error)
	ByLocation(ctx context.Context, filters *domain.ReportFilters) ([]domain.BreakdownRow, error)
	ByClassification(ctx context.Context, filters *domain.ReportFilters) ([]domain.BreakdownRow, error)
	Overdue(ctx context.Context, filters *domain.ReportFilters) ([]domain.OverdueInstallment, error)
	TopPayers(ctx context.Context, filters *domain.ReportFilters) ([]domain.TopPayer, error)
}
