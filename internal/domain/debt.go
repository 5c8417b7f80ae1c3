package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DebtType represents the kind of liability
type DebtType string

const (
	DebtTypeMortgage   DebtType = "mortgage"
	DebtTypeCreditCard DebtType = "credit_card"
	DebtTypeLoan       DebtType = "loan"
	DebtTypePersonal   DebtType = "personal"
	DebtTypeOther      DebtType = "other"
)

// Debt represents money owed to a creditor
type Debt struct {
	ID           uuid.UUID
	Name         string
	Type         DebtType
	Amount       decimal.Decimal  // never negative
	Currency     Currency
	InterestRate *decimal.Decimal // annual, fractional (0.045 = 4.5%)
	DueDate      *time.Time
	Creditor     string
	Description  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Validate ensures the debt adheres to domain rules
func (d *Debt) Validate() error {
	if d.Name == "" {
		return errors.New("debt name cannot be empty")
	}
	switch d.Type {
	case DebtTypeMortgage, DebtTypeCreditCard, DebtTypeLoan, DebtTypePersonal, DebtTypeOther:
	default:
		return errors.New("debt type is invalid: " + string(d.Type))
	}
	if d.Amount.IsNegative() {
		return errors.New("debt amount cannot be negative")
	}
	if !d.Currency.Valid() {
		return errors.New("debt currency is invalid: " + string(d.Currency))
	}
	if d.InterestRate != nil && d.InterestRate.IsNegative() {
		return errors.New("debt interest rate cannot be negative")
	}
	return nil
}

// LendStatus tracks repayment of money lent out
type LendStatus string

const (
	LendStatusActive   LendStatus = "active"
	LendStatusReturned LendStatus = "returned"
	LendStatusOverdue  LendStatus = "overdue"
)

// LendRecord represents money lent to a borrower
type LendRecord struct {
	ID               uuid.UUID
	Name             string
	Amount           decimal.Decimal
	Currency         Currency
	Borrower         string
	InterestRate     *decimal.Decimal
	DueDate          *time.Time
	ActualReturnDate *time.Time
	Status           LendStatus
	Description      string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Validate ensures the lend record adheres to domain rules
func (l *LendRecord) Validate() error {
	if l.Name == "" {
		return errors.New("lend record name cannot be empty")
	}
	if l.Borrower == "" {
		return errors.New("lend record borrower cannot be empty")
	}
	if l.Amount.LessThanOrEqual(decimal.Zero) {
		return errors.New("lend record amount must be positive")
	}
	if !l.Currency.Valid() {
		return errors.New("lend record currency is invalid: " + string(l.Currency))
	}
	switch l.Status {
	case LendStatusActive, LendStatusOverdue:
	case LendStatusReturned:
		if l.ActualReturnDate == nil {
			return errors.New("returned lend record must have an actual return date")
		}
	default:
		return errors.New("lend record status is invalid: " + string(l.Status))
	}
	return nil
}

// EffectiveStatus returns the status as of now: an active record whose due
// date has passed is reported as overdue.
func (l *LendRecord) EffectiveStatus(now time.Time) LendStatus {
	if l.Status == LendStatusActive && l.DueDate != nil && now.After(*l.DueDate) {
		return LendStatusOverdue
	}
	return l.Status
}

// Outstanding reports whether the money has not been returned yet
func (l *LendRecord) Outstanding() bool {
	return l.Status != LendStatusReturned
}
