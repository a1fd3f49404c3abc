package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"revportal/internal/domain"
	"revportal/internal/port"
)

// amountDueExpr is what an installment is worth once penalties and discounts apply.
const amountDueExpr = "(qi.total_quarterly_tax + qi.penalty_amount - qi.discount_amount)"

// moneyColumns aggregates due, collected and penalty totals over qi rows.
const moneyColumns = `COALESCE(SUM(` + amountDueExpr + `), 0) AS total_due,
		COALESCE(SUM(CASE WHEN qi.payment_status = 'paid' THEN ` + amountDueExpr + ` ELSE 0 END), 0) AS collected,
		COALESCE(SUM(qi.penalty_amount), 0) AS penalties`

type reportRepo struct {
	db *sqlx.DB
}

// NewReportRepo creates a new PostgreSQL-backed ReportRepository.
func NewReportRepo(db *sqlx.DB) port.ReportRepository {
	return &reportRepo{db: db}
}

// buildWhereClause constructs the WHERE clause for installment queries joined
// to their entity as te. A zero year means every year.
func buildWhereClause(filters *domain.ReportFilters) (clause string, args []interface{}) {
	clause = "WHERE 1=1"
	argN := 1

	if filters.Year > 0 {
		clause += fmt.Sprintf(" AND qi.year = $%d", argN)
		args = append(args, filters.Year)
		argN++
	}
	if filters.EntityType != nil {
		clause += fmt.Sprintf(" AND te.entity_type = $%d", argN)
		args = append(args, *filters.EntityType)
		argN++ //nolint:ineffassign // argN kept incremented for consistency
	}

	return clause, args
}

func (r *reportRepo) Summary(ctx context.Context, filters *domain.ReportFilters) (*domain.DashboardSummary, error) {
	whereClause, args := buildWhereClause(filters)

	var summary domain.DashboardSummary
	query := fmt.Sprintf(`SELECT
		COUNT(qi.id) AS installments,
		COUNT(*) FILTER (WHERE qi.payment_status = 'paid') AS paid_count,
		COUNT(*) FILTER (WHERE qi.payment_status = 'overdue') AS overdue_count,
		%s
	FROM quarterly_installments qi
	JOIN taxable_entities te ON te.id = qi.entity_id
	%s`, moneyColumns, whereClause)
	if err := sqlx.GetContext(ctx, r.db, &summary, query, args...); err != nil {
		return nil, fmt.Errorf("reportRepo.Summary installments: %w", err)
	}

	var entities struct {
		Total    int `db:"total_entities"`
		Pending  int `db:"pending_entities"`
		Approved int `db:"approved_entities"`
		Rejected int `db:"rejected_entities"`
	}
	entityQuery := `SELECT
		COUNT(*) AS total_entities,
		COUNT(*) FILTER (WHERE status = 'pending') AS pending_entities,
		COUNT(*) FILTER (WHERE status IN ('approved', 'active')) AS approved_entities,
		COUNT(*) FILTER (WHERE status = 'rejected') AS rejected_entities
	FROM taxable_entities`
	var entityArgs []interface{}
	if filters.EntityType != nil {
		entityQuery += " WHERE entity_type = $1"
		entityArgs = append(entityArgs, *filters.EntityType)
	}
	if err := sqlx.GetContext(ctx, r.db, &entities, entityQuery, entityArgs...); err != nil {
		return nil, fmt.Errorf("reportRepo.Summary entities: %w", err)
	}

	summary.TotalEntities = entities.Total
	summary.PendingEntities = entities.Pending
	summary.ApprovedEntities = entities.Approved
	summary.RejectedEntities = entities.Rejected
	summary.Year = filters.Year
	return &summary, nil
}

func (r *reportRepo) ByQuarter(ctx context.Context, filters *domain.ReportFilters) ([]domain.BreakdownRow, error) {
	return r.breakdown(ctx, "reportRepo.ByQuarter", "'Q' || qi.quarter", "group_key", filters)
}

func (r *reportRepo) ByLocation(ctx context.Context, filters *domain.ReportFilters) ([]domain.BreakdownRow, error) {
	return r.breakdown(ctx, "reportRepo.ByLocation", "COALESCE(NULLIF(te.location, ''), 'Unspecified')", "total_due DESC, group_key", filters)
}

func (r *reportRepo) ByClassification(ctx context.Context, filters *domain.ReportFilters) ([]domain.BreakdownRow, error) {
	return r.breakdown(ctx, "reportRepo.ByClassification", "COALESCE(NULLIF(te.classification, ''), 'Unspecified')", "total_due DESC, group_key", filters)
}

func (r *reportRepo) breakdown(ctx context.Context, op, keyExpr, orderBy string, filters *domain.ReportFilters) ([]domain.BreakdownRow, error) {
	whereClause, args := buildWhereClause(filters)

	query := fmt.Sprintf(`SELECT
		%s AS group_key,
		COUNT(*) AS installment_count,
		%s
	FROM quarterly_installments qi
	JOIN taxable_entities te ON te.id = qi.entity_id
	%s
	GROUP BY group_key
	ORDER BY %s`, keyExpr, moneyColumns, whereClause, orderBy)

	rows := []domain.BreakdownRow{}
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rows, nil
}

func (r *reportRepo) Overdue(ctx context.Context, filters *domain.ReportFilters) ([]domain.OverdueInstallment, error) {
	whereClause, args := buildWhereClause(filters)

	query := fmt.Sprintf(`SELECT
		qi.id AS installment_id, te.id AS entity_id, te.entity_type, te.reference_no,
		te.owner_name, te.location, qi.quarter, qi.year, qi.due_date,
		qi.total_quarterly_tax, qi.penalty_amount, qi.days_late
	FROM quarterly_installments qi
	JOIN taxable_entities te ON te.id = qi.entity_id
	%s
	AND qi.payment_status = 'overdue'
	ORDER BY qi.days_late DESC, qi.id
	LIMIT %d`, whereClause, filters.Limit)

	rows := []domain.OverdueInstallment{}
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("reportRepo.Overdue: %w", err)
	}
	return rows, nil
}

func (r *reportRepo) TopPayers(ctx context.Context, filters *domain.ReportFilters) ([]domain.TopPayer, error) {
	whereClause, args := buildWhereClause(filters)

	query := fmt.Sprintf(`SELECT
		te.id AS entity_id, te.entity_type, te.reference_no, te.owner_name,
		te.classification, te.location,
		COUNT(*) AS installments_paid,
		COALESCE(SUM(%s), 0) AS total_paid
	FROM quarterly_installments qi
	JOIN taxable_entities te ON te.id = qi.entity_id
	%s
	AND qi.payment_status = 'paid'
	GROUP BY te.id, te.entity_type, te.reference_no, te.owner_name, te.classification, te.location
	ORDER BY total_paid DESC, te.id
	LIMIT %d`, amountDueExpr, whereClause, filters.Limit)

	rows := []domain.TopPayer{}
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("reportRepo.TopPayers: %w", err)
	}
	return rows, nil
}
