package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAsset_Validate(t *testing.T) {
	savings := AccountSubtypeSavings
	bogus := AccountSubtype("brokerage")

	tests := []struct {
		name    string
		asset   Asset
		wantErr bool
		errMsg  string
	}{
		{
			name:    "Valid bank account",
			asset:   Asset{ID: uuid.New(), Name: "ICBC", Type: AssetTypeBankAccount, Subtype: &savings, Balance: decimal.NewFromInt(100), Currency: CurrencyCNY, IsIncluded: true},
			wantErr: false,
		},
		{
			name:    "Negative credit card balance is allowed",
			asset:   Asset{ID: uuid.New(), Name: "Visa", Type: AssetTypeCreditCard, Balance: decimal.NewFromInt(-420), Currency: CurrencyUSD},
			wantErr: false,
		},
		{
			name:    "Empty name should fail",
			asset:   Asset{ID: uuid.New(), Type: AssetTypeCash, Currency: CurrencyCNY},
			wantErr: true,
			errMsg:  "asset name cannot be empty",
		},
		{
			name:    "Unknown type should fail",
			asset:   Asset{ID: uuid.New(), Name: "Gold", Type: AssetType("gold"), Currency: CurrencyCNY},
			wantErr: true,
			errMsg:  "asset type is invalid",
		},
		{
			name:    "Unknown currency should fail",
			asset:   Asset{ID: uuid.New(), Name: "Wallet", Type: AssetTypeCash, Currency: Currency("GBP")},
			wantErr: true,
			errMsg:  "asset currency is invalid",
		},
		{
			name:    "Unknown subtype should fail",
			asset:   Asset{ID: uuid.New(), Name: "Broker", Type: AssetTypeStock, Subtype: &bogus, Currency: CurrencyHKD},
			wantErr: true,
			errMsg:  "asset subtype is invalid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.asset.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAssetType_Display(t *testing.T) {
	assert.Equal(t, "Real Estate", AssetTypeRealEstate.DisplayName())
	assert.Equal(t, 0, AssetTypeBankAccount.Order())
	assert.Equal(t, 9, AssetTypeOther.Order())
	assert.Equal(t, len(AssetTypes), AssetType("gold").Order())
	assert.Equal(t, AssetTypeOther.Color(), AssetType("gold").Color())

	seen := make(map[string]AssetType)
	for _, at := range AssetTypes {
		assert.True(t, at.Valid())
		prev, dup := seen[at.Color()]
		assert.False(t, dup, "%s shares a color with %s", at, prev)
		seen[at.Color()] = at
	}
}

func TestDebt_Validate(t *testing.T) {
	negativeRate := decimal.RequireFromString("-0.01")

	assert.NoError(t, (&Debt{Name: "Home", Type: DebtTypeMortgage, Amount: decimal.NewFromInt(800000), Currency: CurrencyCNY}).Validate())
	assert.ErrorContains(t, (&Debt{Name: "Home", Type: DebtTypeMortgage, Amount: decimal.NewFromInt(-1), Currency: CurrencyCNY}).Validate(), "cannot be negative")
	assert.ErrorContains(t, (&Debt{Name: "Home", Type: "lease", Currency: CurrencyCNY}).Validate(), "debt type is invalid")
	assert.ErrorContains(t, (&Debt{Name: "Card", Type: DebtTypeCreditCard, Currency: CurrencyCNY, InterestRate: &negativeRate}).Validate(), "interest rate")
}

func TestLendRecord_EffectiveStatus(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	past := now.AddDate(0, -1, 0)
	future := now.AddDate(0, 1, 0)

	tests := []struct {
		name   string
		record LendRecord
		want   LendStatus
	}{
		{"Active before due date", LendRecord{Status: LendStatusActive, DueDate: &future}, LendStatusActive},
		{"Active after due date becomes overdue", LendRecord{Status: LendStatusActive, DueDate: &past}, LendStatusOverdue},
		{"Active without due date", LendRecord{Status: LendStatusActive}, LendStatusActive},
		{"Returned stays returned", LendRecord{Status: LendStatusReturned, DueDate: &past, ActualReturnDate: &past}, LendStatusReturned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.record.EffectiveStatus(now))
		})
	}
}

func TestLendRecord_Validate(t *testing.T) {
	base := LendRecord{Name: "Loan to Li", Borrower: "Li", Amount: decimal.NewFromInt(500), Currency: CurrencyCNY, Status: LendStatusActive}
	assert.NoError(t, base.Validate())

	returned := base
	returned.Status = LendStatusReturned
	assert.ErrorContains(t, returned.Validate(), "actual return date")

	zero := base
	zero.Amount = decimal.Zero
	assert.ErrorContains(t, zero.Validate(), "must be positive")
}

func TestCurrency_FormatAmount(t *testing.T) {
	tests := []struct {
		currency Currency
		amount   string
		want     string
	}{
		{CurrencyUSD, "1234.5", "$1,234.50"},
		{CurrencyCNY, "-8000", "-¥8,000.00"},
		{CurrencyJPY, "1234567", "¥1,234,567"},
		{CurrencyHKD, "0.5", "HK$0.50"},
		{CurrencyEUR, "999.999", "€1,000.00"},
	}

	for _, tt := range tests {
		t.Run(string(tt.currency)+" "+tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.currency.FormatAmount(decimal.RequireFromString(tt.amount)))
		})
	}
}

func TestParseCurrency(t *testing.T) {
	c, err := ParseCurrency(" usd ")
	assert.NoError(t, err)
	assert.Equal(t, CurrencyUSD, c)

	_, err = ParseCurrency("GBP")
	assert.ErrorContains(t, err, "unsupported currency")
}
