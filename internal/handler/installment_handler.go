package handler

import (
	"github.com/gin-gonic/gin"

	"revportal/internal/service"
)

// InstallmentHandler handles quarterly installment listing and payment.
type InstallmentHandler struct {
	billingService service.BillingService
}

// NewInstallmentHandler creates a new InstallmentHandler.
func NewInstallmentHandler(billingService service.BillingService) *InstallmentHandler {
	return &InstallmentHandler{billingService: billingService}
}

// List handles GET /api/v1/installments?entity_id=&year=
// @Summary      List installments of an entity
// @Tags         installments
// @Produce      json
// @Param        entity_id query int true "Entity id"
// @Param        year query int false "Billing year"
// @Success      200 {object} APIResponse{data=[]domain.QuarterlyInstallment}
// @Failure      400 {object} APIResponse
// @Router       /installments [get]
func (h *InstallmentHandler) List(c *gin.Context) {
	entityID, ok := queryID(c, "entity_id")
	if !ok {
		return
	}
	year, err := optionalInt(c, "year")
	if err != nil {
		HandleError(c, err)
		return
	}

	rows, err := h.billingService.ListInstallments(c.Request.Context(), entityID, year)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, rows)
}

// Pay handles POST /api/v1/installments/:id/pay
// @Summary      Record an installment payment
// @Tags         installments
// @Accept       json
// @Produce      json
// @Param        id path int true "Installment id"
// @Param        body body service.PaymentInput true "Receipt details"
// @Success      200 {object} APIResponse{data=domain.QuarterlyInstallment}
// @Failure      400 {object} APIResponse
// @Failure      404 {object} APIResponse
// @Failure      409 {object} APIResponse
// @Router       /installments/{id}/pay [post]
func (h *InstallmentHandler) Pay(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input service.PaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondValidation(c, "invalid request body: "+err.Error())
		return
	}

	inst, err := h.billingService.RecordPayment(c.Request.Context(), id, input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondMessage(c, "payment recorded", inst)
}
