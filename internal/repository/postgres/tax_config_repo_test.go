package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"revportal/internal/domain"
)

var (
	lookupDay  = domain.NewDate(2025, time.March, 1)
	configCols = []string{"id", "kind", "business_type", "fee_name", "min_amount", "max_amount", "percent",
		"amount", "effective_date", "expiration_date", "remarks", "created_at", "updated_at"}
	activeWindow = regexp.QuoteMeta(
		"WHERE kind = $1 AND effective_date <= $2 AND (expiration_date IS NULL OR expiration_date >= $2)")
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = raw.Close() })
	return sqlx.NewDb(raw, "pgx"), mock
}

func configRow(rows *sqlmock.Rows, id int64, kind domain.ConfigKind) *sqlmock.Rows {
	ts := time.Date(2025, time.January, 2, 8, 0, 0, 0, time.UTC)
	effective := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	return rows.AddRow(id, string(kind), nil, nil, "0.00", "100000.00", "0.2500", nil,
		effective, nil, "", ts, ts)
}

func TestOrderFor(t *testing.T) {
	tests := []struct {
		kind domain.ConfigKind
		want string
	}{
		{domain.ConfigKindCapitalInvestment, "min_amount ASC, effective_date DESC, id DESC"},
		{domain.ConfigKindGrossSales, "business_type ASC, effective_date DESC, id DESC"},
		{domain.ConfigKindRegulatoryFee, "fee_name ASC, effective_date DESC, id DESC"},
		{domain.ConfigKindDiscount, "effective_date DESC, id DESC"},
		{domain.ConfigKindPenalty, "effective_date DESC, id DESC"},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, orderFor(tt.kind))
		})
	}
}

func TestActiveOnPredicate(t *testing.T) {
	assert.Equal(t, "effective_date <= $2 AND (expiration_date IS NULL OR expiration_date >= $2)", activeOn)
}

func TestTaxConfigRepo_FindBracket(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaxConfigRepo(db)
	amount := decimal.RequireFromString("75000")

	mock.ExpectQuery(activeWindow + regexp.QuoteMeta(
		" AND min_amount <= $3 AND max_amount >= $3 ORDER BY min_amount ASC, effective_date DESC, id DESC LIMIT 1")).
		WithArgs(domain.ConfigKindCapitalInvestment, lookupDay, amount).
		WillReturnRows(configRow(sqlmock.NewRows(configCols), 12, domain.ConfigKindCapitalInvestment))

	cfg, err := repo.FindBracket(context.Background(), amount, lookupDay)

	require.NoError(t, err)
	assert.Equal(t, int64(12), cfg.ID)
	assert.Equal(t, domain.ConfigKindCapitalInvestment, cfg.Kind)
	assert.Equal(t, "2025-01-01", cfg.EffectiveDate.String())
	assert.Nil(t, cfg.ExpirationDate)
	require.NotNil(t, cfg.Percent)
	assert.Equal(t, "0.2500", cfg.Percent.StringFixed(4))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTaxConfigRepo_FindBracket_NoMatch(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaxConfigRepo(db)

	mock.ExpectQuery(activeWindow).WillReturnRows(sqlmock.NewRows(configCols))

	cfg, err := repo.FindBracket(context.Background(), decimal.RequireFromString("1"), lookupDay)

	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, domain.ErrConfigNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTaxConfigRepo_FindBracket_DriverError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaxConfigRepo(db)
	boom := errors.New("connection reset")

	mock.ExpectQuery(activeWindow).WillReturnError(boom)

	_, err := repo.FindBracket(context.Background(), decimal.RequireFromString("1"), lookupDay)

	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "taxConfigRepo.FindBracket")
	assert.False(t, domain.IsNotFound(err))
}

func TestTaxConfigRepo_FindGrossSalesRate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaxConfigRepo(db)

	mock.ExpectQuery(activeWindow + regexp.QuoteMeta(
		" AND LOWER(TRIM(business_type)) = LOWER(TRIM($3)) ORDER BY business_type ASC, effective_date DESC, id DESC LIMIT 1")).
		WithArgs(domain.ConfigKindGrossSales, lookupDay, " retailer ").
		WillReturnRows(configRow(sqlmock.NewRows(configCols), 3, domain.ConfigKindGrossSales))

	cfg, err := repo.FindGrossSalesRate(context.Background(), " retailer ", lookupDay)

	require.NoError(t, err)
	assert.Equal(t, int64(3), cfg.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTaxConfigRepo_LatestActive(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaxConfigRepo(db)

	mock.ExpectQuery(activeWindow + regexp.QuoteMeta(" ORDER BY effective_date DESC, id DESC LIMIT 1")).
		WithArgs(domain.ConfigKindPenalty, lookupDay).
		WillReturnRows(sqlmock.NewRows(configCols))

	cfg, err := repo.LatestActive(context.Background(), domain.ConfigKindPenalty, lookupDay)

	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, domain.ErrConfigNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTaxConfigRepo_GetActiveByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaxConfigRepo(db)

	mock.ExpectQuery(activeWindow + regexp.QuoteMeta(" AND id = $3")).
		WithArgs(domain.ConfigKindDiscount, lookupDay, int64(8)).
		WillReturnRows(sqlmock.NewRows(configCols))

	_, err := repo.GetActiveByID(context.Background(), domain.ConfigKindDiscount, 8, lookupDay)

	assert.ErrorIs(t, err, domain.ErrConfigNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTaxConfigRepo_ListActive_OrderPerKind(t *testing.T) {
	for _, kind := range domain.AllConfigKinds {
		t.Run(string(kind), func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewTaxConfigRepo(db)

			rows := sqlmock.NewRows(configCols)
			configRow(rows, 5, kind)
			configRow(rows, 2, kind)
			mock.ExpectQuery(activeWindow + regexp.QuoteMeta(" ORDER BY "+orderFor(kind))).
				WithArgs(kind, lookupDay).
				WillReturnRows(rows)

			configs, err := repo.ListActive(context.Background(), kind, lookupDay)

			require.NoError(t, err)
			require.Len(t, configs, 2)
			assert.Equal(t, int64(5), configs[0].ID)
			assert.Equal(t, int64(2), configs[1].ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestTaxConfigRepo_ListActive_EmptyIsNotNil(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaxConfigRepo(db)

	mock.ExpectQuery(activeWindow).WillReturnRows(sqlmock.NewRows(configCols))

	configs, err := repo.ListActive(context.Background(), domain.ConfigKindPenalty, lookupDay)

	require.NoError(t, err)
	assert.NotNil(t, configs)
	assert.Empty(t, configs)
}

func TestTaxConfigRepo_Expire_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaxConfigRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE tax_configs SET expiration_date = $1")).
		WithArgs(lookupDay, sqlmock.AnyArg(), int64(99), domain.ConfigKindPenalty).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Expire(context.Background(), domain.ConfigKindPenalty, 99, lookupDay)

	assert.ErrorIs(t, err, domain.ErrConfigNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
