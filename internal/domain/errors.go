package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrNotFound is wrapped by repositories when a record does not exist
var ErrNotFound = errors.New("not found")

// ErrInvalidTransaction wraps every rule a transaction breaks before it is stored
var ErrInvalidTransaction = errors.New("invalid transaction")

// ValidationError reports a rejected field on an entity or request
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// CurrencyConversionError is returned when no exchange rate path exists
// between a record's currency and the reporting currency.
type CurrencyConversionError struct {
	From Currency
	To   Currency
}

func (e *CurrencyConversionError) Error() string {
	return fmt.Sprintf("no exchange rate from %s to %s", e.From, e.To)
}

// CyclicCategoryError is returned when a category parent chain revisits an id
type CyclicCategoryError struct {
	CategoryID uuid.UUID
	Chain      []uuid.UUID
}

func (e *CyclicCategoryError) Error() string {
	parts := make([]string, 0, len(e.Chain))
	for _, id := range e.Chain {
		parts = append(parts, id.String())
	}
	return fmt.Sprintf("cyclic category parent chain at %s: %s", e.CategoryID, strings.Join(parts, " -> "))
}

// InvalidTransferError is returned when a transfer moves money from an account to itself
type InvalidTransferError struct {
	AccountID uuid.UUID
}

func (e *InvalidTransferError) Error() string {
	return fmt.Sprintf("invalid transfer: source and destination are the same account %s", e.AccountID)
}
