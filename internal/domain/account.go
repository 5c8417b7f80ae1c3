package domain

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountType represents where a transaction's money lives
type AccountType string

const (
	AccountTypeCash       AccountType = "cash"
	AccountTypeBankCard   AccountType = "bank_card"
	AccountTypeCreditCard AccountType = "credit_card"
	AccountTypeAlipay     AccountType = "alipay"
	AccountTypeWechat     AccountType = "wechat"
	AccountTypeInvestment AccountType = "investment"
	AccountTypeOther      AccountType = "other"
)

// Account is a spending/receiving account referenced by transactions
type Account struct {
	ID       uuid.UUID
	Name     string
	Type     AccountType
	Balance  decimal.Decimal
	Currency Currency
	Icon     string
	Color    string
}

// Validate ensures the account adheres to domain rules
func (a *Account) Validate() error {
	if a.Name == "" {
		return errors.New("account name cannot be empty")
	}
	switch a.Type {
	case AccountTypeCash, AccountTypeBankCard, AccountTypeCreditCard, AccountTypeAlipay,
		AccountTypeWechat, AccountTypeInvestment, AccountTypeOther:
	default:
		return errors.New("account type is invalid: " + string(a.Type))
	}
	if !a.Currency.Valid() {
		return errors.New("account currency is invalid: " + string(a.Currency))
	}
	return nil
}
