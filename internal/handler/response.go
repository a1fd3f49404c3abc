package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"revportal/internal/domain"
	"revportal/internal/middleware"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response with a message.
func RespondCreated(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Message: message, Data: data})
}

// RespondMessage sends a 200 success response with a message.
func RespondMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Message: message, Data: data})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// respondValidation sends a 400 for a malformed request parameter.
func respondValidation(c *gin.Context, msg string) {
	RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", msg)
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest, "VALIDATION_ERROR", verr.Error()
	}

	switch {
	case errors.Is(err, domain.ErrInvalidConfigKind):
		return http.StatusBadRequest, "INVALID_CONFIG_KIND",
			"config kind must be one of capital_investment, gross_sales, regulatory_fee, discount, penalty"
	case errors.Is(err, domain.ErrConfigNotFound):
		return http.StatusNotFound, "CONFIG_NOT_FOUND", "configuration not found or not active"
	case errors.Is(err, domain.ErrEntityNotFound):
		return http.StatusNotFound, "ENTITY_NOT_FOUND", "taxable entity not found"
	case errors.Is(err, domain.ErrInstallmentNotFound):
		return http.StatusNotFound, "INSTALLMENT_NOT_FOUND", "installment not found"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrQuartersAlreadyGenerated):
		return http.StatusConflict, "QUARTERS_ALREADY_GENERATED", "quarterly billing already exists for this entity and year"
	case errors.Is(err, domain.ErrEntityNotApproved):
		return http.StatusConflict, "ENTITY_NOT_APPROVED", "entity must be approved before billing"
	case errors.Is(err, domain.ErrInstallmentAlreadyPaid):
		return http.StatusConflict, "INSTALLMENT_ALREADY_PAID", "installment is already paid"
	case errors.Is(err, domain.ErrEntityNotApprovable):
		return http.StatusConflict, "ENTITY_NOT_APPROVABLE", "only pending or approved entities can be approved"
	case errors.Is(err, domain.ErrBillingLocked):
		return http.StatusConflict, "BILLING_LOCKED", "tax fields cannot change once quarterly billing exists"
	case errors.Is(err, domain.ErrDuplicateReference):
		return http.StatusConflict, "DUPLICATE_REFERENCE", "reference number already registered for this entity type"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		middleware.GetLogger(c).Error("internal error", zap.Error(err))
	}
	RespondError(c, status, code, msg)
}

// parseID reads a positive integer path parameter.
func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondValidation(c, name+": must be a positive integer")
		return 0, false
	}
	return id, true
}

// queryID reads a required positive integer query parameter.
func queryID(c *gin.Context, name string) (int64, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		respondValidation(c, name+": is required")
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		respondValidation(c, name+": must be a positive integer")
		return 0, false
	}
	return id, true
}

// optionalInt parses an optional integer query parameter.
func optionalInt(c *gin.Context, name string) (*int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, domain.NewValidationError(name, "must be an integer")
	}
	return &n, nil
}

// optionalDate parses an optional YYYY-MM-DD query parameter.
func optionalDate(c *gin.Context, name string) (*domain.Date, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	d, err := domain.ParseDate(raw)
	if err != nil {
		return nil, domain.NewValidationError(name, "%s", err.Error())
	}
	return &d, nil
}

func parsePagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return offset, limit
}
