package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound                 = errors.New("resource not found")
	ErrConfigNotFound           = errors.New("tax configuration not found")
	ErrEntityNotFound           = errors.New("taxable entity not found")
	ErrInstallmentNotFound      = errors.New("installment not found")
	ErrInvalidConfigKind        = errors.New("invalid config kind")
	ErrQuartersAlreadyGenerated = errors.New("quarterly billing already generated for this entity and year")
	ErrEntityNotApproved        = errors.New("entity is not approved")
	ErrInstallmentAlreadyPaid   = errors.New("installment is already paid")
	ErrBillingLocked            = errors.New("tax fields are locked once quarterly billing exists")
	ErrDuplicateReference       = errors.New("reference number already exists")
	ErrEntityNotApprovable      = errors.New("only pending or approved entities can be approved")
)

// ValidationError is a client input error whose message is safe to return verbatim.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// NewValidationError builds a ValidationError for field.
func NewValidationError(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsNotFound reports whether err belongs to the not-found family.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrConfigNotFound) ||
		errors.Is(err, ErrEntityNotFound) ||
		errors.Is(err, ErrInstallmentNotFound)
}
