package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AssetType represents the kind of holding an asset record tracks
type AssetType string

const (
	AssetTypeBankAccount AssetType = "bank_account"
	AssetTypeCash        AssetType = "cash"
	AssetTypeCreditCard  AssetType = "credit_card"
	AssetTypeInvestment  AssetType = "investment"
	AssetTypeRealEstate  AssetType = "real_estate"
	AssetTypeFund        AssetType = "fund"
	AssetTypeStock       AssetType = "stock"
	AssetTypeAlipay      AssetType = "alipay"
	AssetTypeWechat      AssetType = "wechat"
	AssetTypeOther       AssetType = "other"
)

// AssetTypes lists every asset type in declaration order.
// The order is used to break ties when sorting distributions.
var AssetTypes = []AssetType{
	AssetTypeBankAccount,
	AssetTypeCash,
	AssetTypeCreditCard,
	AssetTypeInvestment,
	AssetTypeRealEstate,
	AssetTypeFund,
	AssetTypeStock,
	AssetTypeAlipay,
	AssetTypeWechat,
	AssetTypeOther,
}

var assetTypeDisplay = map[AssetType]struct {
	name  string
	color string
}{
	AssetTypeBankAccount: {"Bank Account", "#3B82F6"},
	AssetTypeCash:        {"Cash", "#10B981"},
	AssetTypeCreditCard:  {"Credit Card", "#EF4444"},
	AssetTypeInvestment:  {"Investment", "#8B5CF6"},
	AssetTypeRealEstate:  {"Real Estate", "#F59E0B"},
	AssetTypeFund:        {"Fund", "#EC4899"},
	AssetTypeStock:       {"Stock", "#6366F1"},
	AssetTypeAlipay:      {"Alipay", "#06B6D4"},
	AssetTypeWechat:      {"WeChat", "#22C55E"},
	AssetTypeOther:       {"Other", "#6B7280"},
}

// Valid reports whether t is a known asset type
func (t AssetType) Valid() bool {
	_, ok := assetTypeDisplay[t]
	return ok
}

// DisplayName returns the human readable label for the type
func (t AssetType) DisplayName() string {
	if d, ok := assetTypeDisplay[t]; ok {
		return d.name
	}
	return string(t)
}

// Color returns the fixed palette color used when charting the type
func (t AssetType) Color() string {
	if d, ok := assetTypeDisplay[t]; ok {
		return d.color
	}
	return assetTypeDisplay[AssetTypeOther].color
}

// Order returns the declaration index of t, or len(AssetTypes) for unknown types
func (t AssetType) Order() int {
	for i, at := range AssetTypes {
		if at == t {
			return i
		}
	}
	return len(AssetTypes)
}

// AccountSubtype narrows a bank-like asset
type AccountSubtype string

const (
	AccountSubtypeSavings    AccountSubtype = "savings"
	AccountSubtypeChecking   AccountSubtype = "checking"
	AccountSubtypeCredit     AccountSubtype = "credit"
	AccountSubtypeInvestment AccountSubtype = "investment"
)

// Asset represents a tracked holding
type Asset struct {
	ID          uuid.UUID
	Name        string
	Type        AssetType
	Subtype     *AccountSubtype // optional
	Balance     decimal.Decimal // may be negative for credit-type holdings
	Currency    Currency
	IsIncluded  bool // only included assets count toward aggregate totals
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate ensures the asset adheres to domain rules
func (a *Asset) Validate() error {
	if a.Name == "" {
		return errors.New("asset name cannot be empty")
	}
	if !a.Type.Valid() {
		return errors.New("asset type is invalid: " + string(a.Type))
	}
	if !a.Currency.Valid() {
		return errors.New("asset currency is invalid: " + string(a.Currency))
	}
	if a.Subtype != nil {
		switch *a.Subtype {
		case AccountSubtypeSavings, AccountSubtypeChecking, AccountSubtypeCredit, AccountSubtypeInvestment:
		default:
			return errors.New("asset subtype is invalid: " + string(*a.Subtype))
		}
	}
	return nil
}
