package handler_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"revportal/internal/domain"
	"revportal/internal/handler"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", domain.NewValidationError("percent", "is required"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"wrapped validation", fmt.Errorf("create: %w", domain.NewValidationError("amount", "must not be negative")), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"config kind", domain.ErrInvalidConfigKind, http.StatusBadRequest, "INVALID_CONFIG_KIND"},
		{"config not found", fmt.Errorf("repo.GetByID: %w", domain.ErrConfigNotFound), http.StatusNotFound, "CONFIG_NOT_FOUND"},
		{"entity not found", domain.ErrEntityNotFound, http.StatusNotFound, "ENTITY_NOT_FOUND"},
		{"installment not found", domain.ErrInstallmentNotFound, http.StatusNotFound, "INSTALLMENT_NOT_FOUND"},
		{"generic not found", domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"quarters exist", domain.ErrQuartersAlreadyGenerated, http.StatusConflict, "QUARTERS_ALREADY_GENERATED"},
		{"not approved", domain.ErrEntityNotApproved, http.StatusConflict, "ENTITY_NOT_APPROVED"},
		{"already paid", domain.ErrInstallmentAlreadyPaid, http.StatusConflict, "INSTALLMENT_ALREADY_PAID"},
		{"billing locked", domain.ErrBillingLocked, http.StatusConflict, "BILLING_LOCKED"},
		{"entity not approvable", domain.ErrEntityNotApprovable, http.StatusConflict, "ENTITY_NOT_APPROVABLE"},
		{"duplicate reference", domain.ErrDuplicateReference, http.StatusConflict, "DUPLICATE_REFERENCE"},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code, msg := handler.MapDomainError(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
			assert.NotEmpty(t, msg)
		})
	}
}

func TestMapDomainError_ValidationMessageIsReturned(t *testing.T) {
	_, _, msg := handler.MapDomainError(domain.NewValidationError("year", "must be between 1900 and 9999"))
	assert.Equal(t, "year: must be between 1900 and 9999", msg)
}

func TestMapDomainError_InternalDetailIsHidden(t *testing.T) {
	_, _, msg := handler.MapDomainError(errors.New("pq: password authentication failed"))
	assert.NotContains(t, msg, "password")
}
