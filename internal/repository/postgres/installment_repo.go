package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"revportal/internal/domain"
	"revportal/internal/port"
)

const installmentColumns = `id, entity_id, quarter, year, due_date, total_quarterly_tax,
	payment_status, penalty_amount, discount_amount, days_late, payment_date, receipt_number,
	created_at, updated_at`

type installmentRepo struct {
	db *sqlx.DB
}

// NewInstallmentRepo creates a new PostgreSQL-backed InstallmentRepository.
func NewInstallmentRepo(db *sqlx.DB) port.InstallmentRepository {
	return &installmentRepo{db: db}
}

// CreateBatch inserts the installments one by one. Callers wrap it in a
// transaction so a failure leaves none of them behind.
func (r *installmentRepo) CreateBatch(ctx context.Context, installments []domain.QuarterlyInstallment) error {
	now := time.Now().UTC()
	query := `INSERT INTO quarterly_installments (
		entity_id, quarter, year, due_date, total_quarterly_tax,
		payment_status, penalty_amount, discount_amount, days_late, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	RETURNING id`

	for i := range installments {
		inst := &installments[i]
		inst.CreatedAt = now
		inst.UpdatedAt = now
		err := sqlx.GetContext(ctx, conn(ctx, r.db), &inst.ID, query,
			inst.EntityID, inst.Quarter, inst.Year, inst.DueDate, inst.TotalQuarterlyTax,
			inst.PaymentStatus, inst.PenaltyAmount, inst.DiscountAmount, inst.DaysLate, now, now)
		if err != nil {
			if strings.Contains(err.Error(), "duplicate key") {
				return domain.ErrQuartersAlreadyGenerated
			}
			return fmt.Errorf("installmentRepo.CreateBatch %s: %w", inst.Quarter, err)
		}
	}
	return nil
}

func (r *installmentRepo) CountForYear(ctx context.Context, entityID int64, year int) (int, error) {
	var count int
	err := sqlx.GetContext(ctx, conn(ctx, r.db), &count,
		"SELECT COUNT(*) FROM quarterly_installments WHERE entity_id = $1 AND year = $2", entityID, year)
	if err != nil {
		return 0, fmt.Errorf("installmentRepo.CountForYear: %w", err)
	}
	return count, nil
}

func (r *installmentRepo) CountForEntity(ctx context.Context, entityID int64) (int, error) {
	var count int
	err := sqlx.GetContext(ctx, conn(ctx, r.db), &count,
		"SELECT COUNT(*) FROM quarterly_installments WHERE entity_id = $1", entityID)
	if err != nil {
		return 0, fmt.Errorf("installmentRepo.CountForEntity: %w", err)
	}
	return count, nil
}

func (r *installmentRepo) GetByID(ctx context.Context, id int64) (*domain.QuarterlyInstallment, error) {
	var inst domain.QuarterlyInstallment
	err := sqlx.GetContext(ctx, conn(ctx, r.db), &inst,
		`SELECT `+installmentColumns+` FROM quarterly_installments WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrInstallmentNotFound
		}
		return nil, fmt.Errorf("installmentRepo.GetByID: %w", err)
	}
	return &inst, nil
}

func (r *installmentRepo) ListByEntity(ctx context.Context, entityID int64, year *int) ([]domain.QuarterlyInstallment, error) {
	query := `SELECT ` + installmentColumns + ` FROM quarterly_installments WHERE entity_id = $1`
	args := []interface{}{entityID}
	if year != nil {
		query += " AND year = $2"
		args = append(args, *year)
	}
	query += " ORDER BY year, quarter"

	installments := []domain.QuarterlyInstallment{}
	if err := sqlx.SelectContext(ctx, conn(ctx, r.db), &installments, query, args...); err != nil {
		return nil, fmt.Errorf("installmentRepo.ListByEntity: %w", err)
	}
	return installments, nil
}

// ListAccruable returns unpaid installments whose due date is strictly before asOf.
func (r *installmentRepo) ListAccruable(ctx context.Context, asOf domain.Date) ([]domain.QuarterlyInstallment, error) {
	installments := []domain.QuarterlyInstallment{}
	err := sqlx.SelectContext(ctx, conn(ctx, r.db), &installments,
		`SELECT `+installmentColumns+` FROM quarterly_installments
		 WHERE payment_status IN ('pending', 'overdue') AND due_date < $1
		 ORDER BY due_date, id`, asOf)
	if err != nil {
		return nil, fmt.Errorf("installmentRepo.ListAccruable: %w", err)
	}
	return installments, nil
}

// ApplyPenalty writes a larger penalty. It reports false without error when
// the stored penalty is already at least as large or the installment was paid
// in the meantime.
func (r *installmentRepo) ApplyPenalty(ctx context.Context, u domain.PenaltyUpdate) (bool, error) {
	result, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE quarterly_installments
		 SET penalty_amount = $1, days_late = GREATEST(days_late, $2), payment_status = 'overdue', updated_at = $3
		 WHERE id = $4 AND payment_status IN ('pending', 'overdue') AND penalty_amount < $1`,
		u.PenaltyAmount, u.DaysLate, time.Now().UTC(), u.InstallmentID)
	if err != nil {
		return false, fmt.Errorf("installmentRepo.ApplyPenalty: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

// MarkDue moves installments falling due on asOf to pending unless they are
// already paid, overdue or pending.
func (r *installmentRepo) MarkDue(ctx context.Context, asOf domain.Date) (int64, error) {
	result, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE quarterly_installments SET payment_status = 'pending', updated_at = $2
		 WHERE due_date = $1 AND payment_status NOT IN ('paid', 'overdue', 'pending')`,
		asOf, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("installmentRepo.MarkDue: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows, nil
}

func (r *installmentRepo) RecordPayment(ctx context.Context, p domain.PaymentRecord) error {
	result, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE quarterly_installments
		 SET payment_status = 'paid', payment_date = $1, receipt_number = $2, discount_amount = $3, updated_at = $4
		 WHERE id = $5 AND payment_status <> 'paid'`,
		p.PaymentDate, p.ReceiptNumber, p.DiscountAmount, time.Now().UTC(), p.InstallmentID)
	if err != nil {
		return fmt.Errorf("installmentRepo.RecordPayment: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrInstallmentAlreadyPaid
	}
	return nil
}
