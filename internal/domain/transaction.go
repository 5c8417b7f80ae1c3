package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType identifies the variant of a Transaction
type TransactionType string

const (
	TransactionTypeIncome   TransactionType = "income"
	TransactionTypeExpense  TransactionType = "expense"
	TransactionTypeTransfer TransactionType = "transfer"
)

// Transaction is either an *EntryTransaction (income/expense) or a
// *TransferTransaction. The interface is sealed: only this package can
// add variants, so a type switch over the two is exhaustive.
type Transaction interface {
	Base() *TransactionBase
	TransactionType() TransactionType
	Validate() error
	sealed()
}

// TransactionBase holds the fields shared by all transaction variants
type TransactionBase struct {
	ID        uuid.UUID
	Amount    decimal.Decimal // ABSOLUTE VALUE (Always Positive)
	Note      string
	Date      time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (b *TransactionBase) validate() error {
	if b.Amount.LessThanOrEqual(decimal.Zero) {
		return errors.New("transaction amount must be positive")
	}
	if b.Date.IsZero() {
		return errors.New("transaction must have a date")
	}
	return nil
}

// EntryTransaction records income received or an expense paid.
// It references exactly one category, optionally narrowed by a subcategory.
type EntryTransaction struct {
	TransactionBase
	Kind          TransactionType // TransactionTypeIncome or TransactionTypeExpense
	CategoryID    uuid.UUID
	SubcategoryID *uuid.UUID
	AccountID     *uuid.UUID
}

// TransferTransaction moves money between two distinct accounts
type TransferTransaction struct {
	TransactionBase
	FromAccountID uuid.UUID
	ToAccountID   uuid.UUID
	TransferFee   *decimal.Decimal
}

func (t *EntryTransaction) Base() *TransactionBase    { return &t.TransactionBase }
func (t *TransferTransaction) Base() *TransactionBase { return &t.TransactionBase }

func (t *EntryTransaction) TransactionType() TransactionType { return t.Kind }
func (t *TransferTransaction) TransactionType() TransactionType {
	return TransactionTypeTransfer
}

func (*EntryTransaction) sealed()    {}
func (*TransferTransaction) sealed() {}

// Validate ensures the income/expense transaction adheres to domain rules
func (t *EntryTransaction) Validate() error {
	if err := t.TransactionBase.validate(); err != nil {
		return err
	}
	if t.Kind != TransactionTypeIncome && t.Kind != TransactionTypeExpense {
		return errors.New("entry transaction kind must be income or expense")
	}
	if t.CategoryID == uuid.Nil {
		return errors.New("income/expense transaction must reference a category")
	}
	if t.SubcategoryID != nil && *t.SubcategoryID == t.CategoryID {
		return errors.New("subcategory must differ from category")
	}
	return nil
}

// Validate ensures the transfer adheres to domain rules.
// CRITICAL: a transfer must reference two distinct accounts.
func (t *TransferTransaction) Validate() error {
	if err := t.TransactionBase.validate(); err != nil {
		return err
	}
	if t.FromAccountID == uuid.Nil || t.ToAccountID == uuid.Nil {
		return errors.New("transfer must reference a source and a destination account")
	}
	if t.FromAccountID == t.ToAccountID {
		return &InvalidTransferError{AccountID: t.FromAccountID}
	}
	if t.TransferFee != nil && t.TransferFee.IsNegative() {
		return errors.New("transfer fee cannot be negative")
	}
	return nil
}

// Fee returns the transfer fee, or zero when none was charged
func (t *TransferTransaction) Fee() decimal.Decimal {
	if t.TransferFee == nil {
		return decimal.Zero
	}
	return *t.TransferFee
}

// MatchTransaction dispatches on the transaction variant.
// Both handlers are required, so callers handle every case.
func MatchTransaction[R any](
	tx Transaction,
	onEntry func(*EntryTransaction) R,
	onTransfer func(*TransferTransaction) R,
) R {
	switch v := tx.(type) {
	case *EntryTransaction:
		return onEntry(v)
	case *TransferTransaction:
		return onTransfer(v)
	default:
		panic(fmt.Sprintf("unknown transaction variant %T", tx))
	}
}

// BalanceDelta is a signed change applied to one account
type BalanceDelta struct {
	AccountID uuid.UUID
	Amount    decimal.Decimal
}

// BalanceDeltas returns the account balance changes caused by tx.
// Income adds to its account, expense subtracts from it, and a transfer
// moves amount from source to destination with the fee paid by the source.
func BalanceDeltas(tx Transaction) []BalanceDelta {
	return MatchTransaction(tx,
		func(entry *EntryTransaction) []BalanceDelta {
			if entry.AccountID == nil {
				return nil
			}
			amount := entry.Amount
			if entry.Kind == TransactionTypeExpense {
				amount = amount.Neg()
			}
			return []BalanceDelta{{AccountID: *entry.AccountID, Amount: amount}}
		},
		func(transfer *TransferTransaction) []BalanceDelta {
			return []BalanceDelta{
				{AccountID: transfer.FromAccountID, Amount: transfer.Amount.Add(transfer.Fee()).Neg()},
				{AccountID: transfer.ToAccountID, Amount: transfer.Amount},
			}
		},
	)
}
