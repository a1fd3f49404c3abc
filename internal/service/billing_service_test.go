package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"revportal/internal/domain"
	"revportal/internal/service"
	"revportal/mocks"
)

type billingFixture struct {
	tx           *mocks.MockTxManager
	entities     *mocks.MockEntityRepo
	installments *mocks.MockInstallmentRepo
	svc          service.BillingService
}

func newBillingFixture() *billingFixture {
	f := &billingFixture{
		tx:           new(mocks.MockTxManager),
		entities:     new(mocks.MockEntityRepo),
		installments: new(mocks.MockInstallmentRepo),
	}
	f.tx.On("RunInTx", mock.Anything, mock.Anything).Return(nil)
	f.svc = service.NewBillingService(f.tx, f.entities, f.installments, zap.NewNop())
	return f
}

func TestBillingService_GenerateQuarters_Success(t *testing.T) {
	f := newBillingFixture()

	f.entities.On("GetForUpdate", mock.Anything, int64(7)).
		Return(&domain.TaxableEntity{ID: 7, Status: domain.EntityStatusApproved}, nil)
	f.installments.On("CountForYear", mock.Anything, int64(7), 2025).Return(0, nil)
	f.installments.On("CreateBatch", mock.Anything, mock.MatchedBy(func(batch []domain.QuarterlyInstallment) bool {
		return len(batch) == 4
	})).Return(nil)

	got, err := f.svc.GenerateQuarters(context.Background(), 7, dec("10001.01"), 2025)

	require.NoError(t, err)
	require.Len(t, got, 4)
	sum := dec("0")
	for i, inst := range got {
		assert.Equal(t, domain.Quarter(i+1), inst.Quarter)
		assert.Equal(t, domain.PaymentStatusPending, inst.PaymentStatus)
		assert.True(t, inst.PenaltyAmount.IsZero())
		sum = sum.Add(inst.TotalQuarterlyTax)
	}
	assert.Equal(t, "10001.01", sum.StringFixed(2))
	assert.Equal(t, "2500.26", got[3].TotalQuarterlyTax.StringFixed(2))
	assert.Equal(t, "2025-12-31", got[3].DueDate.String())
	f.installments.AssertExpectations(t)
}

func TestBillingService_GenerateQuarters_AlreadyGenerated(t *testing.T) {
	f := newBillingFixture()

	f.entities.On("GetForUpdate", mock.Anything, int64(7)).
		Return(&domain.TaxableEntity{ID: 7, Status: domain.EntityStatusActive}, nil)
	f.installments.On("CountForYear", mock.Anything, int64(7), 2025).Return(4, nil)

	got, err := f.svc.GenerateQuarters(context.Background(), 7, dec("1000"), 2025)

	assert.Nil(t, got)
	assert.ErrorIs(t, err, domain.ErrQuartersAlreadyGenerated)
	f.installments.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
}

func TestBillingService_GenerateQuarters_NotApproved(t *testing.T) {
	f := newBillingFixture()

	f.entities.On("GetForUpdate", mock.Anything, int64(7)).
		Return(&domain.TaxableEntity{ID: 7, Status: domain.EntityStatusPending}, nil)

	_, err := f.svc.GenerateQuarters(context.Background(), 7, dec("1000"), 2025)
	assert.ErrorIs(t, err, domain.ErrEntityNotApproved)
}

func TestBillingService_GenerateQuarters_EntityMissing(t *testing.T) {
	f := newBillingFixture()

	f.entities.On("GetForUpdate", mock.Anything, int64(99)).Return(nil, domain.ErrEntityNotFound)

	_, err := f.svc.GenerateQuarters(context.Background(), 99, dec("1000"), 2025)
	assert.ErrorIs(t, err, domain.ErrEntityNotFound)
}

func TestBillingService_GenerateQuarters_InvalidInput(t *testing.T) {
	f := newBillingFixture()
	ctx := context.Background()

	var verr *domain.ValidationError
	_, err := f.svc.GenerateQuarters(ctx, 0, dec("1000"), 2025)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "entity_id", verr.Field)

	_, err = f.svc.GenerateQuarters(ctx, 7, dec("0"), 2025)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "total_annual_tax", verr.Field)

	f.tx.AssertNotCalled(t, "RunInTx", mock.Anything, mock.Anything)
}

func TestBillingService_GenerateQuarters_InsertFailureRollsBack(t *testing.T) {
	f := newBillingFixture()

	boom := errors.New("insert failed")
	f.entities.On("GetForUpdate", mock.Anything, int64(7)).
		Return(&domain.TaxableEntity{ID: 7, Status: domain.EntityStatusApproved}, nil)
	f.installments.On("CountForYear", mock.Anything, int64(7), 2025).Return(0, nil)
	f.installments.On("CreateBatch", mock.Anything, mock.Anything).Return(boom)

	got, err := f.svc.GenerateQuarters(context.Background(), 7, dec("1000"), 2025)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, boom)
}

func TestBillingService_RecordPayment_Success(t *testing.T) {
	f := newBillingFixture()

	paidOn := domain.NewDate(2025, time.April, 15)
	inst := &domain.QuarterlyInstallment{
		ID:                3,
		EntityID:          7,
		TotalQuarterlyTax: dec("2500.00"),
		PenaltyAmount:     dec("50.00"),
		PaymentStatus:     domain.PaymentStatusOverdue,
	}
	f.installments.On("GetByID", mock.Anything, int64(3)).Return(inst, nil)
	f.installments.On("RecordPayment", mock.Anything, mock.MatchedBy(func(p domain.PaymentRecord) bool {
		return p.InstallmentID == 3 &&
			p.PaymentDate.Equal(paidOn) &&
			p.ReceiptNumber == "OR-1001" &&
			p.DiscountAmount.IsZero()
	})).Return(nil)

	got, err := f.svc.RecordPayment(context.Background(), 3, service.PaymentInput{
		ReceiptNumber: " OR-1001 ",
		PaymentDate:   &paidOn,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPaid, got.PaymentStatus)
	assert.Equal(t, "OR-1001", *got.ReceiptNumber)
	f.installments.AssertExpectations(t)
}

func TestBillingService_RecordPayment_AlreadyPaid(t *testing.T) {
	f := newBillingFixture()

	f.installments.On("GetByID", mock.Anything, int64(3)).
		Return(&domain.QuarterlyInstallment{ID: 3, PaymentStatus: domain.PaymentStatusPaid}, nil)

	_, err := f.svc.RecordPayment(context.Background(), 3, service.PaymentInput{ReceiptNumber: "OR-1"})
	assert.ErrorIs(t, err, domain.ErrInstallmentAlreadyPaid)
}

func TestBillingService_RecordPayment_DiscountTooLarge(t *testing.T) {
	f := newBillingFixture()

	f.installments.On("GetByID", mock.Anything, int64(3)).Return(&domain.QuarterlyInstallment{
		ID:                3,
		TotalQuarterlyTax: dec("100.00"),
		PenaltyAmount:     dec("0"),
		PaymentStatus:     domain.PaymentStatusPending,
	}, nil)

	_, err := f.svc.RecordPayment(context.Background(), 3, service.PaymentInput{
		ReceiptNumber:  "OR-1",
		DiscountAmount: decPtr("100.01"),
	})

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "discount_amount", verr.Field)
}

func TestBillingService_RecordPayment_MissingReceipt(t *testing.T) {
	f := newBillingFixture()

	_, err := f.svc.RecordPayment(context.Background(), 3, service.PaymentInput{ReceiptNumber: "  "})

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	f.installments.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestBillingService_ListInstallments(t *testing.T) {
	f := newBillingFixture()

	year := 2025
	rows := []domain.QuarterlyInstallment{{ID: 1, Quarter: 1}, {ID: 2, Quarter: 2}}
	f.installments.On("ListByEntity", mock.Anything, int64(7), &year).Return(rows, nil)

	got, err := f.svc.ListInstallments(context.Background(), 7, &year)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
