// Package legacy reads rate tables from the historical SQLite export and
// normalizes them into TaxConfig rows. Legacy date columns hold NULL, '',
// '0000-00-00' or a timestamp; all "no date" spellings become nil here so the
// rest of the system sees a single optional date.
package legacy

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"revportal/internal/domain"
)

// Schema is the layout of the legacy export. It is used to create fixture
// databases; the reader tolerates any of these tables being absent.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS capital_investment_tax_config (
		id INTEGER PRIMARY KEY,
		min_amount REAL, max_amount REAL, tax_percent REAL,
		effective_date TEXT, expiration_date TEXT, remarks TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS gross_sales_tax_config (
		id INTEGER PRIMARY KEY,
		business_type TEXT, tax_percent REAL,
		effective_date TEXT, expiration_date TEXT, remarks TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS regulatory_fee_config (
		id INTEGER PRIMARY KEY,
		fee_name TEXT, amount REAL,
		effective_date TEXT, expiration_date TEXT, remarks TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS discount_config (
		id INTEGER PRIMARY KEY,
		discount_percent REAL,
		effective_date TEXT, expiration_date TEXT, remarks TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS penalty_config (
		id INTEGER PRIMARY KEY,
		penalty_percent REAL,
		effective_date TEXT, expiration_date TEXT, remarks TEXT
	)`,
}

// source maps one legacy table onto a config kind.
type source struct {
	kind  domain.ConfigKind
	table string
	query string
}

var sources = []source{
	{domain.ConfigKindCapitalInvestment, "capital_investment_tax_config",
		`SELECT id, min_amount, max_amount, tax_percent AS percent, effective_date, expiration_date, remarks
		 FROM capital_investment_tax_config ORDER BY id`},
	{domain.ConfigKindGrossSales, "gross_sales_tax_config",
		`SELECT id, business_type, tax_percent AS percent, effective_date, expiration_date, remarks
		 FROM gross_sales_tax_config ORDER BY id`},
	{domain.ConfigKindRegulatoryFee, "regulatory_fee_config",
		`SELECT id, fee_name, amount, effective_date, expiration_date, remarks
		 FROM regulatory_fee_config ORDER BY id`},
	{domain.ConfigKindDiscount, "discount_config",
		`SELECT id, discount_percent AS percent, effective_date, expiration_date, remarks
		 FROM discount_config ORDER BY id`},
	{domain.ConfigKindPenalty, "penalty_config",
		`SELECT id, penalty_percent AS percent, effective_date, expiration_date, remarks
		 FROM penalty_config ORDER BY id`},
}

// legacyRow is the union of every legacy table's columns.
type legacyRow struct {
	ID             int64               `db:"id"`
	BusinessType   sql.NullString      `db:"business_type"`
	FeeName        sql.NullString      `db:"fee_name"`
	MinAmount      decimal.NullDecimal `db:"min_amount"`
	MaxAmount      decimal.NullDecimal `db:"max_amount"`
	Percent        decimal.NullDecimal `db:"percent"`
	Amount         decimal.NullDecimal `db:"amount"`
	EffectiveDate  sql.NullString      `db:"effective_date"`
	ExpirationDate sql.NullString      `db:"expiration_date"`
	Remarks        sql.NullString      `db:"remarks"`
}

// Skipped records a legacy row or table that could not be converted.
type Skipped struct {
	Table    string `json:"table"`
	LegacyID int64  `json:"legacy_id,omitempty"`
	Reason   string `json:"reason"`
}

// Open opens a legacy SQLite file read-only. Pass ":memory:" in tests.
func Open(path string) (*sqlx.DB, error) {
	dsn := path
	if path != ":memory:" {
		dsn = "file:" + path + "?mode=ro"
	}
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open legacy db: %w", err)
	}
	// every pooled connection to :memory: would see its own empty database
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping legacy db: %w", err)
	}
	return db, nil
}

// Reader converts legacy rows into TaxConfig values.
type Reader struct {
	db *sqlx.DB
}

// NewReader creates a Reader over an open legacy database.
func NewReader(db *sqlx.DB) *Reader {
	return &Reader{db: db}
}

// ReadConfigs returns every convertible row of every legacy table. Missing
// tables and invalid rows are reported in skipped rather than failing the read.
func (r *Reader) ReadConfigs(ctx context.Context) ([]domain.TaxConfig, []Skipped, error) {
	var (
		configs []domain.TaxConfig
		skipped []Skipped
	)
	for _, src := range sources {
		var rows []legacyRow
		if err := r.db.SelectContext(ctx, &rows, src.query); err != nil {
			if strings.Contains(err.Error(), "no such table") {
				skipped = append(skipped, Skipped{Table: src.table, Reason: "table not present"})
				continue
			}
			return nil, nil, fmt.Errorf("reading %s: %w", src.table, err)
		}

		for i := range rows {
			cfg, convErr := convert(src.kind, &rows[i])
			if convErr != nil {
				skipped = append(skipped, Skipped{Table: src.table, LegacyID: rows[i].ID, Reason: convErr.Error()})
				continue
			}
			configs = append(configs, *cfg)
		}
	}
	return configs, skipped, nil
}

func convert(kind domain.ConfigKind, row *legacyRow) (*domain.TaxConfig, error) {
	if !row.EffectiveDate.Valid {
		return nil, fmt.Errorf("missing effective_date")
	}
	effective, err := domain.ParseOptionalDate(row.EffectiveDate.String)
	if err != nil {
		return nil, err
	}
	if effective == nil {
		return nil, fmt.Errorf("missing effective_date")
	}
	expiration, err := domain.ParseOptionalDate(row.ExpirationDate.String)
	if err != nil {
		return nil, err
	}

	cfg := &domain.TaxConfig{
		Kind:           kind,
		EffectiveDate:  *effective,
		ExpirationDate: expiration,
		Remarks:        strings.TrimSpace(row.Remarks.String),
		BusinessType:   trimmed(row.BusinessType),
		FeeName:        trimmed(row.FeeName),
		MinAmount:      money(row.MinAmount),
		MaxAmount:      money(row.MaxAmount),
		Percent:        rate(row.Percent),
		Amount:         money(row.Amount),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func trimmed(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := strings.TrimSpace(s.String)
	return &v
}

func money(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal.Round(2)
	return &v
}

func rate(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal.Round(4)
	return &v
}
