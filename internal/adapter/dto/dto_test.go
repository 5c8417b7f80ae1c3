package dto

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/assetboard-backend/internal/domain"
)

func TestQuery_Window(t *testing.T) {
	tests := []struct {
		name    string
		query   Query
		want    time.Time
		wantErr bool
	}{
		{name: "Open range", query: Query{}},
		{name: "Date only", query: Query{From: "2024-02-01"}, want: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
		{name: "RFC3339", query: Query{From: "2024-02-01T08:00:00Z"}, want: time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC)},
		{name: "Garbage", query: Query{From: "yesterday"}, wantErr: true},
		{name: "Reversed", query: Query{From: "2024-03-01", To: "2024-02-01"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			window, err := tt.query.Window()
			if tt.wantErr {
				var validationErr *domain.ValidationError
				assert.ErrorAs(t, err, &validationErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(window.From), "got %s", window.From)
		})
	}
}

func TestQuery_ReportingCurrency(t *testing.T) {
	c, err := Query{}.ReportingCurrency()
	require.NoError(t, err)
	assert.Equal(t, domain.Currency(""), c)

	c, err = Query{Currency: "usd"}.ReportingCurrency()
	require.NoError(t, err)
	assert.Equal(t, domain.CurrencyUSD, c)

	_, err = Query{Currency: "GBP"}.ReportingCurrency()
	assert.Error(t, err)
}

func TestTransaction_ToDomain(t *testing.T) {
	category := uuid.New()
	from := uuid.New()
	to := uuid.New()

	t.Run("Expense", func(t *testing.T) {
		tx, err := Transaction{
			Type:       "expense",
			Amount:     "12.30",
			Date:       "2024-05-01",
			CategoryID: category.String(),
		}.ToDomain()

		require.NoError(t, err)
		entry, ok := tx.(*domain.EntryTransaction)
		require.True(t, ok)
		assert.Equal(t, domain.TransactionTypeExpense, entry.Kind)
		assert.Equal(t, category, entry.CategoryID)
		assert.Nil(t, entry.AccountID)
		assert.True(t, entry.Amount.Equal(decimal.RequireFromString("12.3")))
	})

	t.Run("Transfer with fee", func(t *testing.T) {
		tx, err := Transaction{
			Type:          "transfer",
			Amount:        "500",
			Date:          "2024-05-01",
			FromAccountID: from.String(),
			ToAccountID:   to.String(),
			TransferFee:   "2",
		}.ToDomain()

		require.NoError(t, err)
		transfer, ok := tx.(*domain.TransferTransaction)
		require.True(t, ok)
		assert.True(t, transfer.Fee().Equal(decimal.NewFromInt(2)))
	})

	errorCases := []struct {
		name  string
		in    Transaction
		field string
	}{
		{"Bad amount", Transaction{Type: "income", Amount: "ten"}, "amount"},
		{"Bad date", Transaction{Type: "income", Amount: "1", Date: "01/05/2024"}, "date"},
		{"Bad category", Transaction{Type: "income", Amount: "1", CategoryID: "x"}, "categoryId"},
		{"Bad subcategory", Transaction{Type: "income", Amount: "1", CategoryID: category.String(), SubcategoryID: "x"}, "subcategoryId"},
		{"Missing destination", Transaction{Type: "transfer", Amount: "1", FromAccountID: from.String()}, "toAccountId"},
		{"Unknown type", Transaction{Type: "refund", Amount: "1"}, "type"},
	}
	for _, tt := range errorCases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.in.ToDomain()
			var validationErr *domain.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.field, validationErr.Field)
		})
	}
}

func TestFromTransaction_RoundTripsIDs(t *testing.T) {
	fee := decimal.RequireFromString("0.5")
	transfer := &domain.TransferTransaction{
		TransactionBase: domain.TransactionBase{
			ID:     uuid.New(),
			Amount: decimal.NewFromInt(10),
			Date:   time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
		},
		FromAccountID: uuid.New(),
		ToAccountID:   uuid.New(),
		TransferFee:   &fee,
	}

	out := FromTransaction(transfer)

	assert.Equal(t, "transfer", out.Type)
	assert.Equal(t, "2024-06-30", out.Date)
	assert.Equal(t, transfer.FromAccountID.String(), out.FromAccountID)
	assert.Equal(t, "0.5", out.TransferFee)
	assert.Empty(t, out.CategoryID)
}

func TestFromOverview_Formats(t *testing.T) {
	out := FromOverview(domain.AssetOverview{
		TotalAssets: decimal.NewFromInt(4000),
		TotalDebts:  decimal.NewFromInt(2000),
		NetAssets:   decimal.NewFromInt(2000),
		DebtRatio:   decimal.RequireFromString("0.5"),
		Currency:    domain.CurrencyUSD,
	})

	assert.Equal(t, "4000", out.TotalAssets)
	assert.Equal(t, "0.5000", out.DebtRatio)
	assert.Equal(t, "$4,000.00", out.Formatted["totalAssets"])
}

func TestFromDistribution_FixesPercentagePrecision(t *testing.T) {
	out := FromDistribution([]domain.AssetDistribution{
		{Type: domain.AssetTypeStock, Name: "Stock", Value: decimal.NewFromInt(3000), Percentage: decimal.NewFromInt(75), Color: "#000"},
	})

	require.Len(t, out, 1)
	assert.Equal(t, "75.00", out[0].Percentage)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"Transfer", fmt.Errorf("%w: %w", domain.ErrInvalidTransaction, &domain.InvalidTransferError{}), ErrCodeInvalidTransfer},
		{"Conversion", fmt.Errorf("wrapped: %w", &domain.CurrencyConversionError{From: domain.CurrencyJPY, To: domain.CurrencyCNY}), ErrCodeCurrencyConversion},
		{"Cycle", &domain.CyclicCategoryError{}, ErrCodeCyclicCategory},
		{"Validation", &domain.ValidationError{Field: "x", Message: "y"}, ErrCodeValidation},
		{"Invalid transaction", fmt.Errorf("%w: amount", domain.ErrInvalidTransaction), ErrCodeValidation},
		{"Not found", fmt.Errorf("account 1: %w", domain.ErrNotFound), ErrCodeNotFound},
		{"Other", fmt.Errorf("boom"), ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestFromCategoryTree_NestsChildren(t *testing.T) {
	food := uuid.New()
	groceries := uuid.New()
	salary := uuid.New()
	tree, err := domain.NewCategoryTree([]domain.Category{
		{ID: food, Name: "Food", Type: domain.CategoryTypeExpense},
		{ID: groceries, Name: "Groceries", Type: domain.CategoryTypeExpense, ParentID: &food},
		{ID: salary, Name: "Salary", Type: domain.CategoryTypeIncome},
	})
	require.NoError(t, err)

	out := FromCategoryTree(tree)

	require.Len(t, out, 2)
	assert.Equal(t, "Food", out[0].Name)
	require.Len(t, out[0].Children, 1)
	assert.Equal(t, groceries.String(), out[0].Children[0].ID)
	assert.Empty(t, out[1].Children)
	assert.Empty(t, FromCategoryTree(nil))
}

func TestExchangeRate_Parse(t *testing.T) {
	from, to, rate, err := ExchangeRate{From: "usd", To: "CNY", Rate: "7.1"}.Parse()
	require.NoError(t, err)
	assert.Equal(t, domain.CurrencyUSD, from)
	assert.Equal(t, domain.CurrencyCNY, to)
	assert.True(t, rate.Equal(decimal.RequireFromString("7.1")))

	_, _, _, err = ExchangeRate{From: "XXX", To: "CNY", Rate: "1"}.Parse()
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "from", verr.Field)

	_, _, _, err = ExchangeRate{From: "USD", To: "CNY", Rate: "abc"}.Parse()
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "rate", verr.Field)
}
