package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"revportal/internal/domain"
	"revportal/internal/service"
)

// EntityHandler handles business permit and property registrations.
type EntityHandler struct {
	entityService service.EntityService
}

// NewEntityHandler creates a new EntityHandler.
func NewEntityHandler(entityService service.EntityService) *EntityHandler {
	return &EntityHandler{entityService: entityService}
}

// approvalResponse pairs the approved entity with the calculation that priced it.
type approvalResponse struct {
	Entity      *domain.TaxableEntity     `json:"entity"`
	Calculation *domain.CalculationResult `json:"calculation"`
}

// Register handles POST /api/v1/entities
// @Summary      Register a taxable entity
// @Tags         entities
// @Accept       json
// @Produce      json
// @Param        body body service.RegisterEntityInput true "Registration"
// @Success      201 {object} APIResponse{data=domain.TaxableEntity}
// @Failure      400 {object} APIResponse
// @Failure      409 {object} APIResponse
// @Router       /entities [post]
func (h *EntityHandler) Register(c *gin.Context) {
	var input service.RegisterEntityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondValidation(c, "invalid request body: "+err.Error())
		return
	}

	entity, err := h.entityService.Register(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, "entity registered", entity)
}

// List handles GET /api/v1/entities
// @Summary      List taxable entities
// @Tags         entities
// @Produce      json
// @Param        entity_type query string false "business_permit or property"
// @Param        status query string false "pending, approved, active or rejected"
// @Param        location query string false "Exact location (case-insensitive)"
// @Param        offset query int false "Pagination offset" default(0)
// @Param        limit query int false "Pagination limit" default(20)
// @Success      200 {object} APIResponse{data=[]domain.TaxableEntity,meta=PagMeta}
// @Failure      400 {object} APIResponse
// @Router       /entities [get]
func (h *EntityHandler) List(c *gin.Context) {
	var filters domain.EntityFilters
	if raw := strings.TrimSpace(c.Query("entity_type")); raw != "" {
		et := domain.EntityType(raw)
		if !et.Valid() {
			respondValidation(c, "entity_type: must be business_permit or property")
			return
		}
		filters.EntityType = &et
	}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		st := domain.EntityStatus(raw)
		if !st.Valid() {
			respondValidation(c, "status: must be pending, approved, active or rejected")
			return
		}
		filters.Status = &st
	}
	filters.Location = strings.TrimSpace(c.Query("location"))

	offset, limit := parsePagination(c)
	rows, total, err := h.entityService.List(c.Request.Context(), filters, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, rows, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Get handles GET /api/v1/entities/:id
func (h *EntityHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	entity, err := h.entityService.Get(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, entity)
}

// Approve handles POST /api/v1/entities/:id/approve
// @Summary      Approve an entity and price it
// @Description  Runs the tax calculation with the entity's tax type, amount and classification and stores the result.
// @Tags         entities
// @Accept       json
// @Produce      json
// @Param        id path int true "Entity id"
// @Param        body body service.ApproveEntityInput false "Rate selection"
// @Success      200 {object} APIResponse
// @Failure      404 {object} APIResponse
// @Failure      409 {object} APIResponse
// @Router       /entities/{id}/approve [post]
func (h *EntityHandler) Approve(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input service.ApproveEntityInput
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			respondValidation(c, "invalid request body: "+err.Error())
			return
		}
	}

	entity, calc, err := h.entityService.Approve(c.Request.Context(), id, input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondMessage(c, "entity approved", approvalResponse{Entity: entity, Calculation: calc})
}

// Reject handles POST /api/v1/entities/:id/reject
func (h *EntityHandler) Reject(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	entity, err := h.entityService.Reject(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondMessage(c, "entity rejected", entity)
}
