package dto

import (
	"context"
	"errors"

	"github.com/simaogato/assetboard-backend/internal/domain"
)

// ErrorCode is the machine readable error class returned to clients
type ErrorCode string

const (
	ErrCodeValidation         ErrorCode = "VALIDATION_ERROR"
	ErrCodeInvalidTransfer    ErrorCode = "INVALID_TRANSFER"
	ErrCodeCurrencyConversion ErrorCode = "CURRENCY_CONVERSION"
	ErrCodeCyclicCategory     ErrorCode = "CYCLIC_CATEGORY"
	ErrCodeNotFound           ErrorCode = "NOT_FOUND"
	ErrCodeCanceled           ErrorCode = "CANCELED"
	ErrCodeUnauthenticated    ErrorCode = "UNAUTHENTICATED"
	ErrCodeInternal           ErrorCode = "INTERNAL"
)

// Classify maps an error returned by a service to its ErrorCode.
// Typed errors are matched through wrapping.
func Classify(err error) ErrorCode {
	var (
		transferErr   *domain.InvalidTransferError
		conversionErr *domain.CurrencyConversionError
		cycleErr      *domain.CyclicCategoryError
		validationErr *domain.ValidationError
	)

	switch {
	case errors.As(err, &transferErr):
		return ErrCodeInvalidTransfer
	case errors.As(err, &conversionErr):
		return ErrCodeCurrencyConversion
	case errors.As(err, &cycleErr):
		return ErrCodeCyclicCategory
	case errors.As(err, &validationErr), errors.Is(err, domain.ErrInvalidTransaction):
		return ErrCodeValidation
	case errors.Is(err, domain.ErrNotFound):
		return ErrCodeNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrCodeCanceled
	default:
		return ErrCodeInternal
	}
}
