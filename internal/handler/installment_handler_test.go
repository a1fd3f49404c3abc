package handler_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"revportal/internal/domain"
	"revportal/internal/handler"
	"revportal/internal/service"
	"revportal/mocks"
)

func newInstallmentHandler() (*handler.InstallmentHandler, *mocks.MockBillingService) {
	mockSvc := new(mocks.MockBillingService)
	return handler.NewInstallmentHandler(mockSvc), mockSvc
}

func TestInstallmentHandler_List_WithYear(t *testing.T) {
	h, mockSvc := newInstallmentHandler()

	mockSvc.On("ListInstallments", mock.Anything, int64(3), mock.MatchedBy(func(y *int) bool {
		return y != nil && *y == 2024
	})).Return([]domain.QuarterlyInstallment{{ID: 1, EntityID: 3, Year: 2024, Quarter: 1}}, nil)

	w, c := newTestContext(http.MethodGet, "/api/v1/installments?entity_id=3&year=2024", nil)

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeResponse(t, w).Data, 1)
	mockSvc.AssertExpectations(t)
}

func TestInstallmentHandler_List_AllYears(t *testing.T) {
	h, mockSvc := newInstallmentHandler()

	mockSvc.On("ListInstallments", mock.Anything, int64(3), (*int)(nil)).Return([]domain.QuarterlyInstallment{}, nil)

	w, c := newTestContext(http.MethodGet, "/api/v1/installments?entity_id=3", nil)

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestInstallmentHandler_List_MissingEntity(t *testing.T) {
	h, _ := newInstallmentHandler()

	w, c := newTestContext(http.MethodGet, "/api/v1/installments", nil)

	h.List(c)

	assertErrorCode(t, w, http.StatusBadRequest, "VALIDATION_ERROR")
}

func TestInstallmentHandler_List_EntityNotFound(t *testing.T) {
	h, mockSvc := newInstallmentHandler()

	mockSvc.On("ListInstallments", mock.Anything, int64(99), mock.Anything).Return(nil, domain.ErrEntityNotFound)

	w, c := newTestContext(http.MethodGet, "/api/v1/installments?entity_id=99", nil)

	h.List(c)

	assertErrorCode(t, w, http.StatusNotFound, "ENTITY_NOT_FOUND")
}

func TestInstallmentHandler_Pay_Success(t *testing.T) {
	h, mockSvc := newInstallmentHandler()

	paid := &domain.QuarterlyInstallment{
		ID:                11,
		TotalQuarterlyTax: decimal.RequireFromString("250.00"),
		PaymentStatus:     domain.PaymentStatusPaid,
	}
	mockSvc.On("RecordPayment", mock.Anything, int64(11), mock.MatchedBy(func(in service.PaymentInput) bool {
		return in.ReceiptNumber == "OR-2024-0001" &&
			in.PaymentDate != nil && in.PaymentDate.String() == "2024-03-15"
	})).Return(paid, nil)

	w, c := newTestContext(http.MethodPost, "/api/v1/installments/11/pay", map[string]string{
		"receipt_number": "OR-2024-0001",
		"payment_date":   "2024-03-15",
	})
	c.Params = gin.Params{{Key: "id", Value: "11"}}

	h.Pay(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "payment recorded", decodeResponse(t, w).Message)
	mockSvc.AssertExpectations(t)
}

func TestInstallmentHandler_Pay_MissingReceipt(t *testing.T) {
	h, mockSvc := newInstallmentHandler()

	w, c := newTestContext(http.MethodPost, "/api/v1/installments/11/pay", map[string]string{"payment_date": "2024-03-15"})
	c.Params = gin.Params{{Key: "id", Value: "11"}}

	h.Pay(c)

	assertErrorCode(t, w, http.StatusBadRequest, "VALIDATION_ERROR")
	mockSvc.AssertNotCalled(t, "RecordPayment", mock.Anything, mock.Anything, mock.Anything)
}

func TestInstallmentHandler_Pay_AlreadyPaid(t *testing.T) {
	h, mockSvc := newInstallmentHandler()

	mockSvc.On("RecordPayment", mock.Anything, int64(11), mock.Anything).Return(nil, domain.ErrInstallmentAlreadyPaid)

	w, c := newTestContext(http.MethodPost, "/api/v1/installments/11/pay", map[string]string{"receipt_number": "OR-1"})
	c.Params = gin.Params{{Key: "id", Value: "11"}}

	h.Pay(c)

	assertErrorCode(t, w, http.StatusConflict, "INSTALLMENT_ALREADY_PAID")
}

func TestInstallmentHandler_Pay_InvalidID(t *testing.T) {
	h, _ := newInstallmentHandler()

	w, c := newTestContext(http.MethodPost, "/api/v1/installments/abc/pay", map[string]string{"receipt_number": "OR-1"})
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	h.Pay(c)

	assertErrorCode(t, w, http.StatusBadRequest, "VALIDATION_ERROR")
}
