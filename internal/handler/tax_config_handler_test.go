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

func newTaxConfigHandler() (*handler.TaxConfigHandler, *mocks.MockTaxConfigService) {
	mockSvc := new(mocks.MockTaxConfigService)
	return handler.NewTaxConfigHandler(mockSvc), mockSvc
}

func kindParam(kind domain.ConfigKind) gin.Params {
	return gin.Params{{Key: "kind", Value: string(kind)}}
}

func TestTaxConfigHandler_List_Active(t *testing.T) {
	h, mockSvc := newTaxConfigHandler()

	bt := "Retailer"
	pct := decimal.RequireFromString("1.5")
	rows := []domain.TaxConfig{{ID: 1, Kind: domain.ConfigKindGrossSales, BusinessType: &bt, Percent: &pct}}
	mockSvc.On("ListActive", mock.Anything, domain.ConfigKindGrossSales, domain.NewDate(2024, 3, 1)).Return(rows, nil)

	w, c := newTestContext(http.MethodGet, "/api/v1/configs/gross_sales?current_date=2024-03-01", nil)
	c.Params = kindParam(domain.ConfigKindGrossSales)

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	assert.Len(t, resp.Data, 1)
	mockSvc.AssertExpectations(t)
}

func TestTaxConfigHandler_List_ByID(t *testing.T) {
	h, mockSvc := newTaxConfigHandler()

	pct := decimal.RequireFromString("2")
	mockSvc.On("Get", mock.Anything, domain.ConfigKindPenalty, int64(5)).
		Return(&domain.TaxConfig{ID: 5, Kind: domain.ConfigKindPenalty, Percent: &pct}, nil)

	w, c := newTestContext(http.MethodGet, "/api/v1/configs/penalty?id=5", nil)
	c.Params = kindParam(domain.ConfigKindPenalty)

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w).Data.(map[string]interface{})
	assert.Equal(t, float64(5), data["id"])
	mockSvc.AssertNotCalled(t, "ListActive", mock.Anything, mock.Anything, mock.Anything)
	mockSvc.AssertExpectations(t)
}

func TestTaxConfigHandler_List_IncludeExpired(t *testing.T) {
	h, mockSvc := newTaxConfigHandler()

	mockSvc.On("ListAll", mock.Anything, domain.ConfigKindDiscount).Return([]domain.TaxConfig{}, nil)

	w, c := newTestContext(http.MethodGet, "/api/v1/configs/discount?include_expired=true", nil)
	c.Params = kindParam(domain.ConfigKindDiscount)

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestTaxConfigHandler_List_InvalidDate(t *testing.T) {
	h, mockSvc := newTaxConfigHandler()

	w, c := newTestContext(http.MethodGet, "/api/v1/configs/discount?current_date=03/01/2024", nil)
	c.Params = kindParam(domain.ConfigKindDiscount)

	h.List(c)

	assertErrorCode(t, w, http.StatusBadRequest, "VALIDATION_ERROR")
	mockSvc.AssertNotCalled(t, "ListActive", mock.Anything, mock.Anything, mock.Anything)
}

func TestTaxConfigHandler_List_InvalidKind(t *testing.T) {
	h, mockSvc := newTaxConfigHandler()

	mockSvc.On("ListActive", mock.Anything, domain.ConfigKind("surcharge"), mock.Anything).
		Return(nil, domain.ErrInvalidConfigKind)

	w, c := newTestContext(http.MethodGet, "/api/v1/configs/surcharge", nil)
	c.Params = kindParam("surcharge")

	h.List(c)

	assertErrorCode(t, w, http.StatusBadRequest, "INVALID_CONFIG_KIND")
}

func TestTaxConfigHandler_Create_Success(t *testing.T) {
	h, mockSvc := newTaxConfigHandler()

	pct := decimal.RequireFromString("10")
	mockSvc.On("Create", mock.Anything, domain.ConfigKindDiscount, mock.MatchedBy(func(in service.ConfigInput) bool {
		return in.Percent != nil && in.Percent.Equal(pct) &&
			in.EffectiveDate != nil && *in.EffectiveDate == "2024-01-01"
	})).Return(&domain.TaxConfig{ID: 9, Kind: domain.ConfigKindDiscount, Percent: &pct}, nil)

	w, c := newTestContext(http.MethodPost, "/api/v1/configs/discount", map[string]interface{}{
		"percent":        10,
		"effective_date": "2024-01-01",
	})
	c.Params = kindParam(domain.ConfigKindDiscount)

	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, "configuration created", resp.Message)
	mockSvc.AssertExpectations(t)
}

func TestTaxConfigHandler_Create_ValidationError(t *testing.T) {
	h, mockSvc := newTaxConfigHandler()

	mockSvc.On("Create", mock.Anything, domain.ConfigKindRegulatoryFee, mock.Anything).
		Return(nil, domain.NewValidationError("fee_name", "is required"))

	w, c := newTestContext(http.MethodPost, "/api/v1/configs/regulatory_fee", map[string]interface{}{
		"amount":         150,
		"effective_date": "2024-01-01",
	})
	c.Params = kindParam(domain.ConfigKindRegulatoryFee)

	h.Create(c)

	assertErrorCode(t, w, http.StatusBadRequest, "VALIDATION_ERROR")
	assert.Contains(t, w.Body.String(), "fee_name")
}

func TestTaxConfigHandler_Create_MalformedBody(t *testing.T) {
	h, mockSvc := newTaxConfigHandler()

	w, c := newTestContext(http.MethodPost, "/api/v1/configs/discount", map[string]interface{}{"percent": "ten"})
	c.Params = kindParam(domain.ConfigKindDiscount)

	h.Create(c)

	assertErrorCode(t, w, http.StatusBadRequest, "VALIDATION_ERROR")
	mockSvc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestTaxConfigHandler_Update_MissingID(t *testing.T) {
	h, _ := newTaxConfigHandler()

	w, c := newTestContext(http.MethodPut, "/api/v1/configs/discount", map[string]interface{}{"remarks": "x"})
	c.Params = kindParam(domain.ConfigKindDiscount)

	h.Update(c)

	assertErrorCode(t, w, http.StatusBadRequest, "VALIDATION_ERROR")
}

func TestTaxConfigHandler_Update_NotFound(t *testing.T) {
	h, mockSvc := newTaxConfigHandler()

	mockSvc.On("Update", mock.Anything, domain.ConfigKindDiscount, int64(404), mock.Anything).
		Return(nil, domain.ErrConfigNotFound)

	w, c := newTestContext(http.MethodPut, "/api/v1/configs/discount?id=404", map[string]interface{}{"remarks": "x"})
	c.Params = kindParam(domain.ConfigKindDiscount)

	h.Update(c)

	assertErrorCode(t, w, http.StatusNotFound, "CONFIG_NOT_FOUND")
}

func TestTaxConfigHandler_Expire_DefaultsToToday(t *testing.T) {
	h, mockSvc := newTaxConfigHandler()

	mockSvc.On("Expire", mock.Anything, domain.ConfigKindPenalty, int64(3), (*domain.Date)(nil)).
		Return(&domain.TaxConfig{ID: 3, Kind: domain.ConfigKindPenalty}, nil)

	w, c := newTestContext(http.MethodPatch, "/api/v1/configs/penalty?id=3", nil)
	c.Params = kindParam(domain.ConfigKindPenalty)

	h.Expire(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "configuration expired", decodeResponse(t, w).Message)
	mockSvc.AssertExpectations(t)
}

func TestTaxConfigHandler_Expire_WithDate(t *testing.T) {
	h, mockSvc := newTaxConfigHandler()

	mockSvc.On("Expire", mock.Anything, domain.ConfigKindPenalty, int64(3), mock.MatchedBy(func(d *domain.Date) bool {
		return d != nil && d.String() == "2024-06-30"
	})).Return(&domain.TaxConfig{ID: 3, Kind: domain.ConfigKindPenalty}, nil)

	w, c := newTestContext(http.MethodPatch, "/api/v1/configs/penalty?id=3", map[string]string{"expiration_date": "2024-06-30"})
	c.Params = kindParam(domain.ConfigKindPenalty)

	h.Expire(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestTaxConfigHandler_Delete(t *testing.T) {
	h, mockSvc := newTaxConfigHandler()

	mockSvc.On("Delete", mock.Anything, domain.ConfigKindCapitalInvestment, int64(2)).Return(nil)

	w, c := newTestContext(http.MethodDelete, "/api/v1/configs/capital_investment?id=2", nil)
	c.Params = kindParam(domain.ConfigKindCapitalInvestment)

	h.Delete(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "configuration deleted", decodeResponse(t, w).Message)
	mockSvc.AssertExpectations(t)
}
