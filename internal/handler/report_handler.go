package handler

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"revportal/internal/domain"
	"revportal/internal/reportexport"
	"revportal/internal/service"
)

// ReportHandler handles dashboard endpoints.
type ReportHandler struct {
	reportService service.ReportService
	now           func() time.Time
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService, now: time.Now}
}

// parseReportFilters extracts year, entity_type and limit from query params.
func parseReportFilters(c *gin.Context) (*domain.ReportFilters, error) {
	filters := &domain.ReportFilters{}

	year, err := optionalInt(c, "year")
	if err != nil {
		return nil, err
	}
	if year != nil {
		if *year < 1900 || *year > 9999 {
			return nil, domain.NewValidationError("year", "must be between 1900 and 9999")
		}
		filters.Year = *year
	}

	if raw := strings.TrimSpace(c.Query("entity_type")); raw != "" {
		et := domain.EntityType(raw)
		if !et.Valid() {
			return nil, domain.NewValidationError("entity_type", "must be business_permit or property")
		}
		filters.EntityType = &et
	}

	limit, err := optionalInt(c, "limit")
	if err != nil {
		return nil, err
	}
	if limit != nil {
		filters.Limit = *limit
	}
	return filters, nil
}

// Summary handles GET /api/v1/dashboard/summary
// @Summary      Dashboard summary
// @Description  Entity counts, amounts due and collected, penalties and collection rate for a year.
// @Tags         dashboard
// @Produce      json
// @Param        year query int false "Billing year (default current)"
// @Param        entity_type query string false "business_permit or property"
// @Success      200 {object} APIResponse{data=domain.DashboardSummary}
// @Failure      400 {object} APIResponse
// @Failure      500 {object} APIResponse
// @Router       /dashboard/summary [get]
func (h *ReportHandler) Summary(c *gin.Context) {
	filters, err := parseReportFilters(c)
	if err != nil {
		HandleError(c, err)
		return
	}
	summary, err := h.reportService.Summary(c.Request.Context(), filters)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, summary)
}

// Quarters handles GET /api/v1/dashboard/quarters
func (h *ReportHandler) Quarters(c *gin.Context) {
	h.breakdown(c, h.reportService.ByQuarter)
}

// Locations handles GET /api/v1/dashboard/locations
func (h *ReportHandler) Locations(c *gin.Context) {
	h.breakdown(c, h.reportService.ByLocation)
}

// Classifications handles GET /api/v1/dashboard/classifications
func (h *ReportHandler) Classifications(c *gin.Context) {
	h.breakdown(c, h.reportService.ByClassification)
}

type breakdownFunc func(ctx context.Context, filters *domain.ReportFilters) ([]domain.BreakdownRow, error)

func (h *ReportHandler) breakdown(c *gin.Context, load breakdownFunc) {
	filters, err := parseReportFilters(c)
	if err != nil {
		HandleError(c, err)
		return
	}
	rows, err := load(c.Request.Context(), filters)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, rows)
}

// Overdue handles GET /api/v1/dashboard/overdue
// @Summary      Overdue installments
// @Tags         dashboard
// @Produce      json
// @Param        year query int false "Restrict to one billing year"
// @Param        entity_type query string false "business_permit or property"
// @Param        limit query int false "Max rows (default 10, max 100)"
// @Success      200 {object} APIResponse{data=[]domain.OverdueInstallment}
// @Router       /dashboard/overdue [get]
func (h *ReportHandler) Overdue(c *gin.Context) {
	filters, err := parseReportFilters(c)
	if err != nil {
		HandleError(c, err)
		return
	}
	rows, err := h.reportService.Overdue(c.Request.Context(), filters)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, rows)
}

// TopPayers handles GET /api/v1/dashboard/top-payers
func (h *ReportHandler) TopPayers(c *gin.Context) {
	filters, err := parseReportFilters(c)
	if err != nil {
		HandleError(c, err)
		return
	}
	rows, err := h.reportService.TopPayers(c.Request.Context(), filters)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, rows)
}

// Export handles GET /api/v1/dashboard/export?format=xlsx|csv
// @Summary      Export dashboard breakdowns
// @Tags         dashboard
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce      text/csv
// @Param        format query string false "xlsx (default) or csv"
// @Param        year query int false "Billing year (default current)"
// @Param        entity_type query string false "business_permit or property"
// @Success      200 {file} binary
// @Failure      400 {object} APIResponse
// @Router       /dashboard/export [get]
func (h *ReportHandler) Export(c *gin.Context) {
	format, err := reportexport.ParseFormat(c.Query("format"))
	if err != nil {
		HandleError(c, err)
		return
	}
	filters, err := parseReportFilters(c)
	if err != nil {
		HandleError(c, err)
		return
	}

	report, err := h.reportService.Breakdowns(c.Request.Context(), filters)
	if err != nil {
		HandleError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := reportexport.Write(&buf, format, report); err != nil {
		HandleError(c, err)
		return
	}

	filename := reportexport.BuildFilename(report, format, h.now())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}
