package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"revportal/internal/domain"
	"revportal/internal/port"
)

const configColumns = `id, kind, business_type, fee_name, min_amount, max_amount, percent, amount,
	effective_date, expiration_date, remarks, created_at, updated_at`

// activeOn is the effective-window predicate; the as-of date is always $2.
const activeOn = `effective_date <= $2 AND (expiration_date IS NULL OR expiration_date >= $2)`

type taxConfigRepo struct {
	db *sqlx.DB
}

// NewTaxConfigRepo creates a new PostgreSQL-backed TaxConfigRepository.
func NewTaxConfigRepo(db *sqlx.DB) port.TaxConfigRepository {
	return &taxConfigRepo{db: db}
}

// orderFor returns the deterministic ordering for a kind: business key
// ascending, most recently effective first, newest id first.
func orderFor(kind domain.ConfigKind) string {
	switch kind {
	case domain.ConfigKindCapitalInvestment:
		return "min_amount ASC, effective_date DESC, id DESC"
	case domain.ConfigKindGrossSales:
		return "business_type ASC, effective_date DESC, id DESC"
	case domain.ConfigKindRegulatoryFee:
		return "fee_name ASC, effective_date DESC, id DESC"
	default:
		return "effective_date DESC, id DESC"
	}
}

func (r *taxConfigRepo) Create(ctx context.Context, cfg *domain.TaxConfig) error {
	now := time.Now().UTC()
	cfg.CreatedAt = now
	cfg.UpdatedAt = now

	query := `INSERT INTO tax_configs
		(kind, business_type, fee_name, min_amount, max_amount, percent, amount,
		 effective_date, expiration_date, remarks, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`

	err := sqlx.GetContext(ctx, conn(ctx, r.db), &cfg.ID, query,
		cfg.Kind, cfg.BusinessType, cfg.FeeName, cfg.MinAmount, cfg.MaxAmount, cfg.Percent, cfg.Amount,
		cfg.EffectiveDate, cfg.ExpirationDate, cfg.Remarks, cfg.CreatedAt, cfg.UpdatedAt)
	if err != nil {
		return fmt.Errorf("taxConfigRepo.Create: %w", err)
	}
	return nil
}

func (r *taxConfigRepo) GetByID(ctx context.Context, kind domain.ConfigKind, id int64) (*domain.TaxConfig, error) {
	var cfg domain.TaxConfig
	query := `SELECT ` + configColumns + ` FROM tax_configs WHERE kind = $1 AND id = $2`
	if err := sqlx.GetContext(ctx, conn(ctx, r.db), &cfg, query, kind, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrConfigNotFound
		}
		return nil, fmt.Errorf("taxConfigRepo.GetByID: %w", err)
	}
	return &cfg, nil
}

func (r *taxConfigRepo) GetActiveByID(ctx context.Context, kind domain.ConfigKind, id int64, asOf domain.Date) (*domain.TaxConfig, error) {
	var cfg domain.TaxConfig
	query := `SELECT ` + configColumns + ` FROM tax_configs
		WHERE kind = $1 AND ` + activeOn + ` AND id = $3`
	if err := sqlx.GetContext(ctx, conn(ctx, r.db), &cfg, query, kind, asOf, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrConfigNotFound
		}
		return nil, fmt.Errorf("taxConfigRepo.GetActiveByID: %w", err)
	}
	return &cfg, nil
}

func (r *taxConfigRepo) ListActive(ctx context.Context, kind domain.ConfigKind, asOf domain.Date) ([]domain.TaxConfig, error) {
	configs := []domain.TaxConfig{}
	query := `SELECT ` + configColumns + ` FROM tax_configs
		WHERE kind = $1 AND ` + activeOn + `
		ORDER BY ` + orderFor(kind)
	if err := sqlx.SelectContext(ctx, conn(ctx, r.db), &configs, query, kind, asOf); err != nil {
		return nil, fmt.Errorf("taxConfigRepo.ListActive: %w", err)
	}
	return configs, nil
}

func (r *taxConfigRepo) ListAll(ctx context.Context, kind domain.ConfigKind) ([]domain.TaxConfig, error) {
	configs := []domain.TaxConfig{}
	query := `SELECT ` + configColumns + ` FROM tax_configs WHERE kind = $1 ORDER BY ` + orderFor(kind)
	if err := sqlx.SelectContext(ctx, conn(ctx, r.db), &configs, query, kind); err != nil {
		return nil, fmt.Errorf("taxConfigRepo.ListAll: %w", err)
	}
	return configs, nil
}

// FindBracket returns the active capital-investment bracket containing amount.
// Overlapping brackets resolve to the smallest min_amount.
func (r *taxConfigRepo) FindBracket(ctx context.Context, amount decimal.Decimal, asOf domain.Date) (*domain.TaxConfig, error) {
	var cfg domain.TaxConfig
	query := `SELECT ` + configColumns + ` FROM tax_configs
		WHERE kind = $1 AND ` + activeOn + `
		  AND min_amount <= $3 AND max_amount >= $3
		ORDER BY ` + orderFor(domain.ConfigKindCapitalInvestment) + `
		LIMIT 1`
	if err := sqlx.GetContext(ctx, conn(ctx, r.db), &cfg, query, domain.ConfigKindCapitalInvestment, asOf, amount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrConfigNotFound
		}
		return nil, fmt.Errorf("taxConfigRepo.FindBracket: %w", err)
	}
	return &cfg, nil
}

func (r *taxConfigRepo) FindGrossSalesRate(ctx context.Context, businessType string, asOf domain.Date) (*domain.TaxConfig, error) {
	var cfg domain.TaxConfig
	query := `SELECT ` + configColumns + ` FROM tax_configs
		WHERE kind = $1 AND ` + activeOn + `
		  AND LOWER(TRIM(business_type)) = LOWER(TRIM($3))
		ORDER BY ` + orderFor(domain.ConfigKindGrossSales) + `
		LIMIT 1`
	if err := sqlx.GetContext(ctx, conn(ctx, r.db), &cfg, query, domain.ConfigKindGrossSales, asOf, businessType); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrConfigNotFound
		}
		return nil, fmt.Errorf("taxConfigRepo.FindGrossSalesRate: %w", err)
	}
	return &cfg, nil
}

// LatestActive returns the most recently effective active row of kind.
func (r *taxConfigRepo) LatestActive(ctx context.Context, kind domain.ConfigKind, asOf domain.Date) (*domain.TaxConfig, error) {
	var cfg domain.TaxConfig
	query := `SELECT ` + configColumns + ` FROM tax_configs
		WHERE kind = $1 AND ` + activeOn + `
		ORDER BY effective_date DESC, id DESC
		LIMIT 1`
	if err := sqlx.GetContext(ctx, conn(ctx, r.db), &cfg, query, kind, asOf); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrConfigNotFound
		}
		return nil, fmt.Errorf("taxConfigRepo.LatestActive: %w", err)
	}
	return &cfg, nil
}

func (r *taxConfigRepo) Update(ctx context.Context, cfg *domain.TaxConfig) error {
	cfg.UpdatedAt = time.Now().UTC()
	query := `UPDATE tax_configs SET
		business_type = $1, fee_name = $2, min_amount = $3, max_amount = $4, percent = $5, amount = $6,
		effective_date = $7, expiration_date = $8, remarks = $9, updated_at = $10
		WHERE id = $11 AND kind = $12`
	result, err := conn(ctx, r.db).ExecContext(ctx, query,
		cfg.BusinessType, cfg.FeeName, cfg.MinAmount, cfg.MaxAmount, cfg.Percent, cfg.Amount,
		cfg.EffectiveDate, cfg.ExpirationDate, cfg.Remarks, cfg.UpdatedAt, cfg.ID, cfg.Kind)
	if err != nil {
		return fmt.Errorf("taxConfigRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrConfigNotFound
	}
	return nil
}

func (r *taxConfigRepo) Expire(ctx context.Context, kind domain.ConfigKind, id int64, on domain.Date) error {
	result, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE tax_configs SET expiration_date = $1, updated_at = $2 WHERE id = $3 AND kind = $4`,
		on, time.Now().UTC(), id, kind)
	if err != nil {
		return fmt.Errorf("taxConfigRepo.Expire: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrConfigNotFound
	}
	return nil
}

func (r *taxConfigRepo) Delete(ctx context.Context, kind domain.ConfigKind, id int64) error {
	result, err := conn(ctx, r.db).ExecContext(ctx,
		"DELETE FROM tax_configs WHERE id = $1 AND kind = $2", id, kind)
	if err != nil {
		return fmt.Errorf("taxConfigRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrConfigNotFound
	}
	return nil
}
