package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"revportal/internal/domain"
	"revportal/internal/service"
)

// TaxHandler handles tax calculation, quarterly billing and penalty accrual.
type TaxHandler struct {
	taxService     service.TaxService
	billingService service.BillingService
	penaltyService service.PenaltyService
	now            func() time.Time
}

// NewTaxHandler creates a new TaxHandler.
func NewTaxHandler(taxService service.TaxService, billingService service.BillingService, penaltyService service.PenaltyService) *TaxHandler {
	return &TaxHandler{
		taxService:     taxService,
		billingService: billingService,
		penaltyService: penaltyService,
		now:            time.Now,
	}
}

type generateQuartersRequest struct {
	EntityID       int64           `json:"entity_id" binding:"required"`
	TotalAnnualTax decimal.Decimal `json:"total_annual_tax"`
}

// Calculate handles GET /api/v1/tax/calculate
// @Summary      Calculate tax
// @Description  Resolves the rate (override, selected config, matching config or default), adds regulatory fees and returns the audit trail.
// @Tags         tax
// @Produce      json
// @Param        tax_type query string true "capital_investment or gross_sales"
// @Param        taxable_amount query number true "Declared capital investment or gross sales"
// @Param        business_type query string false "Business type for gross sales"
// @Param        selected_config_id query int false "Use this config row"
// @Param        override_tax_rate query number false "Use this rate (percent)"
// @Success      200 {object} APIResponse{data=domain.CalculationResult}
// @Failure      400 {object} APIResponse
// @Failure      404 {object} APIResponse
// @Router       /tax/calculate [get]
func (h *TaxHandler) Calculate(c *gin.Context) {
	input := service.CalculateInput{
		TaxType:      domain.TaxType(strings.TrimSpace(c.Query("tax_type"))),
		BusinessType: strings.TrimSpace(c.Query("business_type")),
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(c.Query("taxable_amount")))
	if err != nil {
		respondValidation(c, "taxable_amount: must be a number")
		return
	}
	input.TaxableAmount = amount

	if raw := strings.TrimSpace(c.Query("selected_config_id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			respondValidation(c, "selected_config_id: must be a positive integer")
			return
		}
		input.ConfigID = &id
	}
	if raw := strings.TrimSpace(c.Query("override_tax_rate")); raw != "" {
		rate, err := decimal.NewFromString(raw)
		if err != nil {
			respondValidation(c, "override_tax_rate: must be a number")
			return
		}
		input.OverrideRate = &rate
	}

	res, err := h.taxService.Calculate(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, res)
}

// GenerateQuarters handles POST /api/v1/tax/quarters
// @Summary      Generate quarterly billing
// @Description  Splits the annual tax into four installments for the current year.
// @Tags         tax
// @Accept       json
// @Produce      json
// @Success      201 {object} APIResponse{data=[]domain.QuarterlyInstallment}
// @Failure      400 {object} APIResponse
// @Failure      409 {object} APIResponse
// @Router       /tax/quarters [post]
func (h *TaxHandler) GenerateQuarters(c *gin.Context) {
	var req generateQuartersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "invalid request body: "+err.Error())
		return
	}

	rows, err := h.billingService.GenerateQuarters(c.Request.Context(), req.EntityID, req.TotalAnnualTax, h.now().Year())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, "quarterly billing generated", rows)
}

// AccruePenalties handles POST /api/v1/tax/penalties/accrue. It always
// answers 200; store faults are reported in the result's warnings.
func (h *TaxHandler) AccruePenalties(c *gin.Context) {
	asOf, err := optionalDate(c, "as_of")
	if err != nil {
		HandleError(c, err)
		return
	}
	day := domain.DateOf(h.now())
	if asOf != nil {
		day = *asOf
	}

	res := h.penaltyService.AccruePenalties(c.Request.Context(), day)
	RespondMessage(c, "penalty accrual completed", res)
}
