package service

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"revportal/internal/domain"
	"revportal/internal/port"
)

// RegisterEntityInput is the DTO for registering a business permit or property.
type RegisterEntityInput struct {
	EntityType     domain.EntityType `json:"entity_type" binding:"required"`
	ReferenceNo    string            `json:"reference_no" binding:"required"`
	OwnerName      string            `json:"owner_name" binding:"required"`
	Location       string            `json:"location"`
	Classification string            `json:"classification"`
	TaxType        domain.TaxType    `json:"tax_type"`
	TaxableAmount  decimal.Decimal   `json:"taxable_amount"`
}

// ApproveEntityInput selects how the approval calculation picks its rate.
type ApproveEntityInput struct {
	ConfigID     *int64           `json:"config_id"`
	OverrideRate *decimal.Decimal `json:"override_rate"`
}

// EntityService defines the taxable entity lifecycle contract.
type EntityService interface {
	Register(ctx context.Context, input RegisterEntityInput) (*domain.TaxableEntity, error)
	Get(ctx context.Context, id int64) (*domain.TaxableEntity, error)
	List(ctx context.Context, filters domain.EntityFilters, offset, limit int) ([]domain.TaxableEntity, int, error)
	Approve(ctx context.Context, id int64, input ApproveEntityInput) (*domain.TaxableEntity, *domain.CalculationResult, error)
	Reject(ctx context.Context, id int64) (*domain.TaxableEntity, error)
}

type entityService struct {
	tx           port.TxManager
	entities     port.EntityRepository
	installments port.InstallmentRepository
	taxes        TaxService
	log          *zap.Logger
	now          func() time.Time
}

// NewEntityService creates a new EntityService implementation.
func NewEntityService(
	tx port.TxManager,
	entities port.EntityRepository,
	installments port.InstallmentRepository,
	taxes TaxService,
	log *zap.Logger,
) EntityService {
	return &entityService{
		tx:           tx,
		entities:     entities,
		installments: installments,
		taxes:        taxes,
		log:          log,
		now:          time.Now,
	}
}

func (s *entityService) Register(ctx context.Context, input RegisterEntityInput) (*domain.TaxableEntity, error) {
	if !input.EntityType.Valid() {
		return nil, domain.NewValidationError("entity_type", "must be business_permit or property")
	}
	ref := strings.TrimSpace(input.ReferenceNo)
	if ref == "" {
		return nil, domain.NewValidationError("reference_no", "is required")
	}
	owner := strings.TrimSpace(input.OwnerName)
	if owner == "" {
		return nil, domain.NewValidationError("owner_name", "is required")
	}
	if !input.TaxableAmount.IsPositive() {
		return nil, domain.NewValidationError("taxable_amount", "must be greater than 0")
	}

	taxType := input.TaxType
	if taxType == "" {
		taxType = defaultTaxType(input.EntityType)
	}
	if !taxType.Valid() {
		return nil, domain.NewValidationError("tax_type", "must be capital_investment or gross_sales")
	}

	entity := &domain.TaxableEntity{
		EntityType:     input.EntityType,
		ReferenceNo:    ref,
		OwnerName:      owner,
		Location:       strings.TrimSpace(input.Location),
		Classification: strings.TrimSpace(input.Classification),
		TaxType:        taxType,
		TaxableAmount:  domain.Round2(input.TaxableAmount),
		Status:         domain.EntityStatusPending,
	}
	if err := s.entities.Create(ctx, entity); err != nil {
		return nil, err
	}
	return entity, nil
}

// defaultTaxType taxes businesses on gross sales and properties on their
// assessed value through the capital-investment brackets.
func defaultTaxType(t domain.EntityType) domain.TaxType {
	if t == domain.EntityTypeBusinessPermit {
		return domain.TaxTypeGrossSales
	}
	return domain.TaxTypeCapitalInvestment
}

func (s *entityService) Get(ctx context.Context, id int64) (*domain.TaxableEntity, error) {
	return s.entities.GetByID(ctx, id)
}

func (s *entityService) List(ctx context.Context, filters domain.EntityFilters, offset, limit int) ([]domain.TaxableEntity, int, error) {
	return s.entities.List(ctx, filters, offset, limit)
}

// Approve runs the tax calculation for the entity and stores its result. Tax
// fields are frozen once any installment exists.
func (s *entityService) Approve(ctx context.Context, id int64, input ApproveEntityInput) (*domain.TaxableEntity, *domain.CalculationResult, error) {
	var (
		entity *domain.TaxableEntity
		calc   *domain.CalculationResult
	)
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		entity, err = s.lockUnbilled(txCtx, id)
		if err != nil {
			return err
		}
		if !entity.Status.Approvable() {
			return domain.ErrEntityNotApprovable
		}

		calc, err = s.taxes.Calculate(txCtx, CalculateInput{
			TaxType:       entity.TaxType,
			TaxableAmount: entity.TaxableAmount,
			BusinessType:  entity.Classification,
			ConfigID:      input.ConfigID,
			OverrideRate:  input.OverrideRate,
		})
		if err != nil {
			return err
		}

		approvedAt := s.now().UTC()
		entity.ApplyCalculation(calc)
		entity.Status = domain.EntityStatusApproved
		entity.ApprovedAt = &approvedAt
		return s.entities.UpdateTax(txCtx, entity)
	})
	if err != nil {
		return nil, nil, err
	}

	s.log.Info("entity approved",
		zap.Int64("entity_id", id),
		zap.String("rate_source", entity.RateSource),
		zap.String("total_tax", entity.TotalTax.StringFixed(2)))
	return entity, calc, nil
}

func (s *entityService) Reject(ctx context.Context, id int64) (*domain.TaxableEntity, error) {
	var entity *domain.TaxableEntity
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		entity, err = s.lockUnbilled(txCtx, id)
		if err != nil {
			return err
		}
		if err := s.entities.UpdateStatus(txCtx, id, domain.EntityStatusRejected); err != nil {
			return err
		}
		entity.Status = domain.EntityStatusRejected
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("entity rejected", zap.Int64("entity_id", id))
	return entity, nil
}

func (s *entityService) lockUnbilled(ctx context.Context, id int64) (*domain.TaxableEntity, error) {
	entity, err := s.entities.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	billed, err := s.installments.CountForEntity(ctx, id)
	if err != nil {
		return nil, err
	}
	if billed > 0 {
		return nil, domain.ErrBillingLocked
	}
	return entity, nil
}
