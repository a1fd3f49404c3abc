package handler

import (
	"github.com/gin-gonic/gin"

	"revportal/internal/domain"
	"revportal/internal/service"
)

// TaxConfigHandler handles the versioned rate table endpoints.
type TaxConfigHandler struct {
	configService service.TaxConfigService
}

// NewTaxConfigHandler creates a new TaxConfigHandler.
func NewTaxConfigHandler(configService service.TaxConfigService) *TaxConfigHandler {
	return &TaxConfigHandler{configService: configService}
}

type expireRequest struct {
	ExpirationDate *domain.Date `json:"expiration_date"`
}

// List handles GET /api/v1/configs/:kind
// @Summary      List or get config rows
// @Description  With id returns that row. Otherwise lists rows active on current_date (default today), or every row when include_expired=true.
// @Tags         configs
// @Produce      json
// @Param        kind path string true "capital_investment, gross_sales, regulatory_fee, discount or penalty"
// @Param        id query int false "Config id"
// @Param        current_date query string false "As-of date (YYYY-MM-DD)"
// @Param        include_expired query bool false "Include rows outside their effective window"
// @Success      200 {object} APIResponse{data=[]domain.TaxConfig}
// @Failure      400 {object} APIResponse
// @Failure      404 {object} APIResponse
// @Router       /configs/{kind} [get]
func (h *TaxConfigHandler) List(c *gin.Context) {
	kind := domain.ConfigKind(c.Param("kind"))
	ctx := c.Request.Context()

	if c.Query("id") != "" {
		id, ok := queryID(c, "id")
		if !ok {
			return
		}
		cfg, err := h.configService.Get(ctx, kind, id)
		if err != nil {
			HandleError(c, err)
			return
		}
		RespondOK(c, cfg)
		return
	}

	if c.Query("include_expired") == "true" {
		rows, err := h.configService.ListAll(ctx, kind)
		if err != nil {
			HandleError(c, err)
			return
		}
		RespondOK(c, rows)
		return
	}

	asOf, err := optionalDate(c, "current_date")
	if err != nil {
		HandleError(c, err)
		return
	}
	day := domain.Today()
	if asOf != nil {
		day = *asOf
	}

	rows, err := h.configService.ListActive(ctx, kind, day)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, rows)
}

// Create handles POST /api/v1/configs/:kind
// @Summary      Create a config row
// @Tags         configs
// @Accept       json
// @Produce      json
// @Param        kind path string true "Config kind"
// @Param        body body service.ConfigInput true "Config fields"
// @Success      201 {object} APIResponse{data=domain.TaxConfig}
// @Failure      400 {object} APIResponse
// @Router       /configs/{kind} [post]
func (h *TaxConfigHandler) Create(c *gin.Context) {
	var input service.ConfigInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondValidation(c, "invalid request body: "+err.Error())
		return
	}

	cfg, err := h.configService.Create(c.Request.Context(), domain.ConfigKind(c.Param("kind")), input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, "configuration created", cfg)
}

// Update handles PUT /api/v1/configs/:kind?id=N
// @Summary      Update a config row
// @Tags         configs
// @Accept       json
// @Produce      json
// @Param        kind path string true "Config kind"
// @Param        id query int true "Config id"
// @Param        body body service.ConfigInput true "Fields to change"
// @Success      200 {object} APIResponse{data=domain.TaxConfig}
// @Failure      400 {object} APIResponse
// @Failure      404 {object} APIResponse
// @Router       /configs/{kind} [put]
func (h *TaxConfigHandler) Update(c *gin.Context) {
	id, ok := queryID(c, "id")
	if !ok {
		return
	}
	var input service.ConfigInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondValidation(c, "invalid request body: "+err.Error())
		return
	}

	cfg, err := h.configService.Update(c.Request.Context(), domain.ConfigKind(c.Param("kind")), id, input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondMessage(c, "configuration updated", cfg)
}

// Expire handles PATCH /api/v1/configs/:kind?id=N. The optional body sets
// the expiration date; it defaults to today.
func (h *TaxConfigHandler) Expire(c *gin.Context) {
	id, ok := queryID(c, "id")
	if !ok {
		return
	}
	var req expireRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidation(c, "invalid request body: "+err.Error())
			return
		}
	}

	cfg, err := h.configService.Expire(c.Request.Context(), domain.ConfigKind(c.Param("kind")), id, req.ExpirationDate)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondMessage(c, "configuration expired", cfg)
}

// Delete handles DELETE /api/v1/configs/:kind?id=N
func (h *TaxConfigHandler) Delete(c *gin.Context) {
	id, ok := queryID(c, "id")
	if !ok {
		return
	}
	if err := h.configService.Delete(c.Request.Context(), domain.ConfigKind(c.Param("kind")), id); err != nil {
		HandleError(c, err)
		return
	}
	RespondMessage(c, "configuration deleted", nil)
}
