package handler_test

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"revportal/internal/domain"
	"revportal/internal/handler"
	"revportal/mocks"
)

func newReportHandler() (*handler.ReportHandler, *mocks.MockReportService) {
	mockSvc := new(mocks.MockReportService)
	return handler.NewReportHandler(mockSvc), mockSvc
}

func TestReportHandler_Summary_Filters(t *testing.T) {
	h, mockSvc := newReportHandler()

	et := domain.EntityTypeProperty
	mockSvc.On("Summary", mock.Anything, &domain.ReportFilters{Year: 2024, EntityType: &et}).
		Return(&domain.DashboardSummary{Year: 2024, TotalEntities: 12, CollectionRate: 62.5}, nil)

	w, c := newTestContext(http.MethodGet, "/api/v1/dashboard/summary?year=2024&entity_type=property", nil)

	h.Summary(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w).Data.(map[string]interface{})
	assert.Equal(t, float64(12), data["total_entities"])
	mockSvc.AssertExpectations(t)
}

func TestReportHandler_Summary_InvalidFilters(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{"year too small", "/api/v1/dashboard/summary?year=1800"},
		{"year not a number", "/api/v1/dashboard/summary?year=last"},
		{"unknown entity type", "/api/v1/dashboard/summary?entity_type=vehicle"},
		{"limit not a number", "/api/v1/dashboard/summary?limit=ten"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, mockSvc := newReportHandler()
			w, c := newTestContext(http.MethodGet, tt.target, nil)

			h.Summary(c)

			assertErrorCode(t, w, http.StatusBadRequest, "VALIDATION_ERROR")
			mockSvc.AssertNotCalled(t, "Summary", mock.Anything, mock.Anything)
		})
	}
}

func TestReportHandler_Quarters(t *testing.T) {
	h, mockSvc := newReportHandler()

	rows := []domain.BreakdownRow{
		{Key: "Q1", Count: 4, TotalDue: decimal.NewFromInt(1000), Collected: decimal.NewFromInt(1000), CollectionRate: 100},
		{Key: "Q2", Count: 4, TotalDue: decimal.NewFromInt(1000)},
	}
	mockSvc.On("ByQuarter", mock.Anything, &domain.ReportFilters{}).Return(rows, nil)

	w, c := newTestContext(http.MethodGet, "/api/v1/dashboard/quarters", nil)

	h.Quarters(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeResponse(t, w).Data, 2)
	mockSvc.AssertExpectations(t)
}

func TestReportHandler_Locations_StoreError(t *testing.T) {
	h, mockSvc := newReportHandler()

	mockSvc.On("ByLocation", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

	w, c := newTestContext(http.MethodGet, "/api/v1/dashboard/locations", nil)

	h.Locations(c)

	assertErrorCode(t, w, http.StatusInternalServerError, "INTERNAL_ERROR")
	assert.NotContains(t, w.Body.String(), "refused")
}

func TestReportHandler_Classifications(t *testing.T) {
	h, mockSvc := newReportHandler()

	mockSvc.On("ByClassification", mock.Anything, &domain.ReportFilters{Year: 2023}).Return([]domain.BreakdownRow{}, nil)

	w, c := newTestContext(http.MethodGet, "/api/v1/dashboard/classifications?year=2023", nil)

	h.Classifications(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestReportHandler_Overdue(t *testing.T) {
	h, mockSvc := newReportHandler()

	mockSvc.On("Overdue", mock.Anything, &domain.ReportFilters{Limit: 5}).Return([]domain.OverdueInstallment{
		{InstallmentID: 8, EntityID: 2, EntityType: domain.EntityTypeBusinessPermit},
	}, nil)

	w, c := newTestContext(http.MethodGet, "/api/v1/dashboard/overdue?limit=5", nil)

	h.Overdue(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeResponse(t, w).Data, 1)
	mockSvc.AssertExpectations(t)
}

func TestReportHandler_TopPayers(t *testing.T) {
	h, mockSvc := newReportHandler()

	mockSvc.On("TopPayers", mock.Anything, &domain.ReportFilters{Year: 2024, Limit: 3}).Return([]domain.TopPayer{
		{EntityID: 1, ReferenceNo: "BP-1"},
		{EntityID: 2, ReferenceNo: "BP-2"},
	}, nil)

	w, c := newTestContext(http.MethodGet, "/api/v1/dashboard/top-payers?year=2024&limit=3", nil)

	h.TopPayers(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeResponse(t, w).Data, 2)
	mockSvc.AssertExpectations(t)
}

// --- Export ---

func exportReport() *domain.DashboardReport {
	return &domain.DashboardReport{
		Year:    2024,
		Summary: &domain.DashboardSummary{Year: 2024, Installments: 4, TotalDue: decimal.NewFromInt(4000)},
		ByQuarter: []domain.BreakdownRow{
			{Key: "Q1", Count: 1, TotalDue: decimal.NewFromInt(1000)},
		},
	}
}

func TestReportHandler_Export_CSV(t *testing.T) {
	h, mockSvc := newReportHandler()

	mockSvc.On("Breakdowns", mock.Anything, &domain.ReportFilters{Year: 2024}).Return(exportReport(), nil)

	w, c := newTestContext(http.MethodGet, "/api/v1/dashboard/export?format=csv&year=2024", nil)

	h.Export(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	disposition := w.Header().Get("Content-Disposition")
	assert.True(t, strings.HasPrefix(disposition, `attachment; filename="dashboard_2024_`))
	assert.True(t, strings.HasSuffix(disposition, `.csv"`))
	assert.Contains(t, w.Body.String(), "Q1")
	mockSvc.AssertExpectations(t)
}

func TestReportHandler_Export_XLSXDefault(t *testing.T) {
	h, mockSvc := newReportHandler()

	mockSvc.On("Breakdowns", mock.Anything, mock.Anything).Return(exportReport(), nil)

	w, c := newTestContext(http.MethodGet, "/api/v1/dashboard/export", nil)

	h.Export(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
	// xlsx files are zip archives
	assert.True(t, strings.HasPrefix(w.Body.String(), "PK"))
}

func TestReportHandler_Export_UnknownFormat(t *testing.T) {
	h, mockSvc := newReportHandler()

	w, c := newTestContext(http.MethodGet, "/api/v1/dashboard/export?format=pdf", nil)

	h.Export(c)

	assertErrorCode(t, w, http.StatusBadRequest, "VALIDATION_ERROR")
	mockSvc.AssertNotCalled(t, "Breakdowns", mock.Anything, mock.Anything)
}
