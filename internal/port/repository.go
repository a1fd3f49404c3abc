package port

import (
	"context"

	"github.com/shopspring/decimal"

	"revportal/internal/domain"
)

// TaxConfigRepository defines the contract for versioned rate table persistence.
// Every list and lookup orders rows by business key ascending, then
// effective_date descending, then id descending; single-row lookups take the
// first row of that order.
type TaxConfigRepository interface {
	Create(ctx context.Context, cfg *domain.TaxConfig) error
	GetByID(ctx context.Context, kind domain.ConfigKind, id int64) (*domain.TaxConfig, error)
	GetActiveByID(ctx context.Context, kind domain.ConfigKind, id int64, asOf domain.Date) (*domain.TaxConfig, error)
	ListActive(ctx context.Context, kind domain.ConfigKind, asOf domain.Date) ([]domain.TaxConfig, error)
	ListAll(ctx context.Context, kind domain.ConfigKind) ([]domain.TaxConfig, error)
	FindBracket(ctx context.Context, amount decimal.Decimal, asOf domain.Date) (*domain.TaxConfig, error)
	FindGrossSalesRate(ctx context.Context, businessType string, asOf domain.Date) (*domain.TaxConfig, error)
	LatestActive(ctx context.Context, kind domain.ConfigKind, asOf domain.Date) (*domain.TaxConfig, error)
	Update(ctx context.Context, cfg *domain.TaxConfig) error
	Expire(ctx context.Context, kind domain.ConfigKind, id int64, on domain.Date) error
	Delete(ctx context.Context, kind domain.ConfigKind, id int64) error
}

// EntityRepository defines the contract for taxable entity persistence.
type EntityRepository interface {
	Create(ctx context.Context, entity *domain.TaxableEntity) error
	GetByID(ctx context.Context, id int64) (*domain.TaxableEntity, error)
	GetForUpdate(ctx context.Context, id int64) (*domain.TaxableEntity, error)
	List(ctx context.Context, filters domain.EntityFilters, offset, limit int) ([]domain.TaxableEntity, int, error)
	UpdateTax(ctx context.Context, entity *domain.TaxableEntity) error
	UpdateStatus(ctx context.Context, id int64, status domain.EntityStatus) error
}

// InstallmentRepository defines the contract for quarterly installment persistence.
type InstallmentRepository interface {
	CreateBatch(ctx context.Context, installments []domain.QuarterlyInstallment) error
	CountForYear(ctx context.Context, entityID int64, year int) (int, error)
	CountForEntity(ctx context.Context, entityID int64) (int, error)
	GetByID(ctx context.Context, id int64) (*domain.QuarterlyInstallment, error)
	ListByEntity(ctx context.Context, entityID int64, year *int) ([]domain.QuarterlyInstallment, error)
	ListAccruable(ctx context.Context, asOf domain.Date) ([]domain.QuarterlyInstallment, error)
	ApplyPenalty(ctx context.Context, update domain.PenaltyUpdate) (bool, error)
	MarkDue(ctx context.Context, asOf domain.Date) (int64, error)
	RecordPayment(ctx context.Context, payment domain.PaymentRecord) error
}

// TxManager runs a function inside a database transaction. Repositories called
// with the function's context participate in the transaction.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error
}
