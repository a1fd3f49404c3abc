package service

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"revportal/internal/domain"
	"revportal/internal/port"
	"revportal/internal/taxcalc"
)

// PaymentInput is the DTO for recording an installment payment.
type PaymentInput struct {
	ReceiptNumber  string           `json:"receipt_number" binding:"required"`
	PaymentDate    *domain.Date     `json:"payment_date"`
	DiscountAmount *decimal.Decimal `json:"discount_amount"`
}

// BillingService defines the quarterly billing contract.
type BillingService interface {
	GenerateQuarters(ctx context.Context, entityID int64, totalAnnualTax decimal.Decimal, year int) ([]domain.QuarterlyInstallment, error)
	ListInstallments(ctx context.Context, entityID int64, year *int) ([]domain.QuarterlyInstallment, error)
	RecordPayment(ctx context.Context, installmentID int64, input PaymentInput) (*domain.QuarterlyInstallment, error)
}

type billingService struct {
	tx           port.TxManager
	entities     port.EntityRepository
	installments port.InstallmentRepository
	log          *zap.Logger
	now          func() time.Time
}

// NewBillingService creates a new BillingService implementation.
func NewBillingService(tx port.TxManager, entities port.EntityRepository, installments port.InstallmentRepository, log *zap.Logger) BillingService {
	return &billingService{
		tx:           tx,
		entities:     entities,
		installments: installments,
		log:          log,
		now:          time.Now,
	}
}

// GenerateQuarters creates the four installments of an entity for year. The
// checks and all four inserts share one transaction; a second call for the
// same entity and year fails with ErrQuartersAlreadyGenerated.
func (s *billingService) GenerateQuarters(ctx context.Context, entityID int64, totalAnnualTax decimal.Decimal, year int) ([]domain.QuarterlyInstallment, error) {
	if entityID <= 0 {
		return nil, domain.NewValidationError("entity_id", "is required")
	}
	if !totalAnnualTax.IsPositive() {
		return nil, domain.NewValidationError("total_annual_tax", "must be greater than 0")
	}
	if year < 1900 || year > 9999 {
		return nil, domain.NewValidationError("year", "must be between 1900 and 9999")
	}

	var created []domain.QuarterlyInstallment
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		entity, err := s.entities.GetForUpdate(txCtx, entityID)
		if err != nil {
			return err
		}
		if !entity.Status.Billable() {
			return domain.ErrEntityNotApproved
		}

		existing, err := s.installments.CountForYear(txCtx, entityID, year)
		if err != nil {
			return err
		}
		if existing > 0 {
			return domain.ErrQuartersAlreadyGenerated
		}

		batch := taxcalc.BuildInstallments(entityID, totalAnnualTax, year)
		if err := s.installments.CreateBatch(txCtx, batch); err != nil {
			return err
		}
		created = batch
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("quarterly billing generated",
		zap.Int64("entity_id", entityID),
		zap.Int("year", year),
		zap.String("total_annual_tax", totalAnnualTax.StringFixed(2)))
	return created, nil
}

func (s *billingService) ListInstallments(ctx context.Context, entityID int64, year *int) ([]domain.QuarterlyInstallment, error) {
	if entityID <= 0 {
		return nil, domain.NewValidationError("entity_id", "is required")
	}
	return s.installments.ListByEntity(ctx, entityID, year)
}

// RecordPayment marks a pending or overdue installment as paid. Paid is terminal.
func (s *billingService) RecordPayment(ctx context.Context, installmentID int64, input PaymentInput) (*domain.QuarterlyInstallment, error) {
	receipt := strings.TrimSpace(input.ReceiptNumber)
	if receipt == "" {
		return nil, domain.NewValidationError("receipt_number", "is required")
	}

	inst, err := s.installments.GetByID(ctx, installmentID)
	if err != nil {
		return nil, err
	}
	if inst.PaymentStatus == domain.PaymentStatusPaid {
		return nil, domain.ErrInstallmentAlreadyPaid
	}

	discount := decimal.Zero
	if input.DiscountAmount != nil {
		discount = domain.Round2(*input.DiscountAmount)
	}
	if discount.IsNegative() {
		return nil, domain.NewValidationError("discount_amount", "must not be negative")
	}
	if discount.GreaterThan(inst.TotalQuarterlyTax.Add(inst.PenaltyAmount)) {
		return nil, domain.NewValidationError("discount_amount", "must not exceed the amount due")
	}

	paidOn := domain.DateOf(s.now())
	if input.PaymentDate != nil {
		paidOn = *input.PaymentDate
	}

	err = s.installments.RecordPayment(ctx, domain.PaymentRecord{
		InstallmentID:  installmentID,
		PaymentDate:    paidOn,
		ReceiptNumber:  receipt,
		DiscountAmount: discount,
	})
	if err != nil {
		return nil, err
	}

	inst.PaymentStatus = domain.PaymentStatusPaid
	inst.PaymentDate = &paidOn
	inst.ReceiptNumber = &receipt
	inst.DiscountAmount = discount

	s.log.Info("installment paid",
		zap.Int64("installment_id", installmentID),
		zap.Int64("entity_id", inst.EntityID),
		zap.String("receipt_number", receipt))
	return inst, nil
}
