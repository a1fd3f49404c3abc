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

const entityColumns = `id, entity_type, reference_no, owner_name, location, classification,
	tax_type, taxable_amount, status, tax_rate, tax_amount, regulatory_fees, total_tax,
	rate_source, config_id, approved_at, created_at, updated_at`

type entityRepo struct {
	db *sqlx.DB
}

// NewEntityRepo creates a new PostgreSQL-backed EntityRepository.
func NewEntityRepo(db *sqlx.DB) port.EntityRepository {
	return &entityRepo{db: db}
}

func (r *entityRepo) Create(ctx context.Context, e *domain.TaxableEntity) error {
	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now

	query := `INSERT INTO taxable_entities (
		entity_type, reference_no, owner_name, location, classification,
		tax_type, taxable_amount, status, tax_rate, tax_amount, regulatory_fees, total_tax,
		rate_source, config_id, approved_at, created_at, updated_at
	) VALUES (
		$1, $2, $3, $4, $5,
		$6, $7, $8, $9, $10, $11, $12,
		$13, $14, $15, $16, $17
	) RETURNING id`

	err := sqlx.GetContext(ctx, conn(ctx, r.db), &e.ID, query,
		e.EntityType, e.ReferenceNo, e.OwnerName, e.Location, e.Classification,
		e.TaxType, e.TaxableAmount, e.Status, e.TaxRate, e.TaxAmount, e.RegulatoryFees, e.TotalTax,
		e.RateSource, e.ConfigID, e.ApprovedAt, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") && strings.Contains(err.Error(), "reference_no") {
			return domain.ErrDuplicateReference
		}
		return fmt.Errorf("entityRepo.Create: %w", err)
	}
	return nil
}

func (r *entityRepo) GetByID(ctx context.Context, id int64) (*domain.TaxableEntity, error) {
	return r.get(ctx, "entityRepo.GetByID", `SELECT `+entityColumns+` FROM taxable_entities WHERE id = $1`, id)
}

// GetForUpdate loads the entity and locks its row until the surrounding
// transaction ends.
func (r *entityRepo) GetForUpdate(ctx context.Context, id int64) (*domain.TaxableEntity, error) {
	return r.get(ctx, "entityRepo.GetForUpdate", `SELECT `+entityColumns+` FROM taxable_entities WHERE id = $1 FOR UPDATE`, id)
}

func (r *entityRepo) get(ctx context.Context, op, query string, id int64) (*domain.TaxableEntity, error) {
	var e domain.TaxableEntity
	if err := sqlx.GetContext(ctx, conn(ctx, r.db), &e, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEntityNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &e, nil
}

func (r *entityRepo) List(ctx context.Context, filters domain.EntityFilters, offset, limit int) ([]domain.TaxableEntity, int, error) {
	var conditions []string
	var args []interface{}
	argIdx := 1

	if filters.EntityType != nil {
		conditions = append(conditions, fmt.Sprintf("entity_type = $%d", argIdx))
		args = append(args, *filters.EntityType)
		argIdx++
	}
	if filters.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *filters.Status)
		argIdx++
	}
	if filters.Location != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(location) = LOWER($%d)", argIdx))
		args = append(args, filters.Location)
		argIdx++
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := sqlx.GetContext(ctx, conn(ctx, r.db), &total, "SELECT COUNT(*) FROM taxable_entities"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("entityRepo.List count: %w", err)
	}

	entities := []domain.TaxableEntity{}
	query := fmt.Sprintf(`SELECT %s FROM taxable_entities%s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		entityColumns, where, argIdx, argIdx+1)
	args = append(args, limit, offset)
	if err := sqlx.SelectContext(ctx, conn(ctx, r.db), &entities, query, args...); err != nil {
		return nil, 0, fmt.Errorf("entityRepo.List: %w", err)
	}
	return entities, total, nil
}

func (r *entityRepo) UpdateTax(ctx context.Context, e *domain.TaxableEntity) error {
	e.UpdatedAt = time.Now().UTC()
	query := `UPDATE taxable_entities SET
		tax_type = $1, taxable_amount = $2, classification = $3, status = $4,
		tax_rate = $5, tax_amount = $6, regulatory_fees = $7, total_tax = $8,
		rate_source = $9, config_id = $10, approved_at = $11, updated_at = $12
		WHERE id = $13`
	result, err := conn(ctx, r.db).ExecContext(ctx, query,
		e.TaxType, e.TaxableAmount, e.Classification, e.Status,
		e.TaxRate, e.TaxAmount, e.RegulatoryFees, e.TotalTax,
		e.RateSource, e.ConfigID, e.ApprovedAt, e.UpdatedAt, e.ID)
	if err != nil {
		return fmt.Errorf("entityRepo.UpdateTax: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrEntityNotFound
	}
	return nil
}

func (r *entityRepo) UpdateStatus(ctx context.Context, id int64, status domain.EntityStatus) error {
	result, err := conn(ctx, r.db).ExecContext(ctx,
		"UPDATE taxable_entities SET status = $1, updated_at = $2 WHERE id = $3",
		status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("entityRepo.UpdateStatus: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrEntityNotFound
	}
	return nil
}
