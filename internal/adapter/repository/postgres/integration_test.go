//go:build integration

package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/assetboard-backend/internal/config"
	"github.com/simaogato/assetboard-backend/internal/domain"
)

var db *DB

// TestMain connects to the database named by DB_CONN_STR (or the DB_* variables)
// and applies the migrations once for the whole package.
func TestMain(m *testing.M) {
	cfg, err := config.FromEnv(os.Getenv)
	if err != nil {
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}

	db, err = NewDB(cfg.DBConnStr)
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to database: %v", err))
	}

	if err := db.Migrate(); err != nil {
		panic(fmt.Sprintf("Failed to migrate database: %v", err))
	}

	code := m.Run()
	_ = db.Close()
	os.Exit(code)
}

func TestMigrate_IsIdempotent(t *testing.T) {
	require.NoError(t, db.Migrate())
}

func TestAssetRepository_CreateGetList(t *testing.T) {
	ctx := context.Background()
	repo := NewAssetRepository(db)
	subtype := domain.AccountSubtypeSavings

	asset := &domain.Asset{
		ID:         uuid.New(),
		Name:       "Savings",
		Type:       domain.AssetTypeBankAccount,
		Subtype:    &subtype,
		Balance:    decimal.RequireFromString("1234.56"),
		Currency:   domain.CurrencyEUR,
		IsIncluded: true,
	}
	require.NoError(t, repo.Create(ctx, asset))

	got, err := repo.GetByID(ctx, asset.ID)
	require.NoError(t, err)
	assert.Equal(t, asset.Name, got.Name)
	assert.True(t, got.Balance.Equal(asset.Balance))
	require.NotNil(t, got.Subtype)
	assert.Equal(t, subtype, *got.Subtype)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, ids(list, func(a domain.Asset) uuid.UUID { return a.ID }), asset.ID)

	_, err = repo.GetByID(ctx, uuid.New())
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestTransactionRepository_CreateIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	accounts := NewAccountRepository(db)
	repo := NewTransactionRepository(db)

	source := &domain.Account{ID: uuid.New(), Name: "Wallet", Type: domain.AccountTypeCash, Balance: decimal.NewFromInt(100), Currency: domain.CurrencyCNY}
	require.NoError(t, accounts.Create(ctx, source))
	category := &domain.Category{ID: uuid.New(), Name: "Test Rollback", Type: domain.CategoryTypeExpense}
	require.NoError(t, NewCategoryRepository(db).Create(ctx, category))

	before, err := repo.Count(ctx)
	require.NoError(t, err)

	entry := &domain.EntryTransaction{
		TransactionBase: domain.TransactionBase{ID: uuid.New(), Amount: decimal.NewFromInt(40), Date: time.Now()},
		Kind:            domain.TransactionTypeExpense,
		CategoryID:      category.ID,
	}
	deltas := []domain.BalanceDelta{
		{AccountID: source.ID, Amount: decimal.NewFromInt(-40)},
		{AccountID: uuid.New(), Amount: decimal.NewFromInt(40)},
	}
	err = repo.Create(ctx, entry, deltas)
	assert.True(t, errors.Is(err, domain.ErrNotFound), "got %v", err)

	after, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	got, err := accounts.GetByID(ctx, source.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(100)), "got %s", got.Balance)
}

func TestTransactionRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	accounts := NewAccountRepository(db)
	categories := NewCategoryRepository(db)
	repo := NewTransactionRepository(db)

	from := &domain.Account{ID: uuid.New(), Name: "Bank", Type: domain.AccountTypeBankCard, Currency: domain.CurrencyCNY}
	to := &domain.Account{ID: uuid.New(), Name: "Cash", Type: domain.AccountTypeCash, Currency: domain.CurrencyCNY}
	require.NoError(t, accounts.Create(ctx, from))
	require.NoError(t, accounts.Create(ctx, to))

	category := &domain.Category{ID: uuid.New(), Name: "Test Food", Type: domain.CategoryTypeExpense}
	require.NoError(t, categories.Create(ctx, category))

	before, err := repo.Count(ctx)
	require.NoError(t, err)

	fee := decimal.RequireFromString("1.5")
	// Far future dates keep these rows at the head of the newest-first list
	head := time.Now().UTC().AddDate(900, 0, 0).Truncate(time.Second)
	transfer := &domain.TransferTransaction{
		TransactionBase: domain.TransactionBase{ID: uuid.New(), Amount: decimal.NewFromInt(100), Date: head},
		FromAccountID:   from.ID,
		ToAccountID:     to.ID,
		TransferFee:     &fee,
	}
	expense := &domain.EntryTransaction{
		TransactionBase: domain.TransactionBase{ID: uuid.New(), Amount: decimal.NewFromInt(20), Date: head.Add(-time.Millisecond)},
		Kind:            domain.TransactionTypeExpense,
		CategoryID:      category.ID,
		AccountID:       &from.ID,
	}
	require.NoError(t, repo.Create(ctx, transfer, domain.BalanceDeltas(transfer)))
	require.NoError(t, repo.Create(ctx, expense, domain.BalanceDeltas(expense)))

	after, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, before+2, after)

	gotFrom, err := accounts.GetByID(ctx, from.ID)
	require.NoError(t, err)
	assert.True(t, gotFrom.Balance.Equal(decimal.RequireFromString("-121.5")), "got %s", gotFrom.Balance)
	gotTo, err := accounts.GetByID(ctx, to.ID)
	require.NoError(t, err)
	assert.True(t, gotTo.Balance.Equal(decimal.NewFromInt(100)), "got %s", gotTo.Balance)

	page, err := repo.List(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)

	gotTransfer, ok := page[0].(*domain.TransferTransaction)
	require.True(t, ok, "expected transfer first, got %T", page[0])
	assert.Equal(t, transfer.ID, gotTransfer.ID)
	require.NotNil(t, gotTransfer.TransferFee)
	assert.True(t, gotTransfer.TransferFee.Equal(fee))

	gotExpense, ok := page[1].(*domain.EntryTransaction)
	require.True(t, ok, "expected entry second, got %T", page[1])
	assert.Equal(t, category.ID, gotExpense.CategoryID)
	assert.Nil(t, gotExpense.SubcategoryID)
}

func TestTransactionRepository_RejectsSameAccountTransfer(t *testing.T) {
	ctx := context.Background()
	accounts := NewAccountRepository(db)
	account := &domain.Account{ID: uuid.New(), Name: "Bank", Type: domain.AccountTypeBankCard, Currency: domain.CurrencyCNY}
	require.NoError(t, accounts.Create(ctx, account))

	err := NewTransactionRepository(db).Create(ctx, &domain.TransferTransaction{
		TransactionBase: domain.TransactionBase{ID: uuid.New(), Amount: decimal.NewFromInt(1), Date: time.Now()},
		FromAccountID:   account.ID,
		ToAccountID:     account.ID,
	}, nil)

	assert.Error(t, err)
}

func TestSnapshotRepository_AddAndListBetween(t *testing.T) {
	ctx := context.Background()
	repo := NewSnapshotRepository(db)
	date := time.Date(1990, 3, 15, 0, 0, 0, 0, time.UTC)

	snapshot := &domain.Snapshot{
		ID:   uuid.New(),
		Date: date,
		Assets: []domain.Asset{
			{ID: uuid.New(), Name: "Cash", Type: domain.AssetTypeCash, Balance: decimal.NewFromInt(10), Currency: domain.CurrencyCNY, IsIncluded: true},
			{ID: uuid.New(), Name: "Fund", Type: domain.AssetTypeFund, Balance: decimal.NewFromInt(20), Currency: domain.CurrencyUSD, IsIncluded: false},
		},
		Debts: []domain.Debt{
			{ID: uuid.New(), Name: "Card", Type: domain.DebtTypeCreditCard, Amount: decimal.NewFromInt(5), Currency: domain.CurrencyCNY},
		},
	}
	require.NoError(t, repo.Add(ctx, snapshot))

	list, err := repo.ListBetween(ctx, date, date)
	require.NoError(t, err)

	var found *domain.Snapshot
	for i := range list {
		if list[i].ID == snapshot.ID {
			found = &list[i]
		}
	}
	require.NotNil(t, found)
	require.Len(t, found.Assets, 2)
	assert.Equal(t, "Cash", found.Assets[0].Name)
	assert.False(t, found.Assets[1].IsIncluded)
	require.Len(t, found.Debts, 1)
	assert.True(t, found.Debts[0].Amount.Equal(decimal.NewFromInt(5)))

	outside, err := repo.ListBetween(ctx, date.AddDate(0, 0, 1), time.Time{})
	require.NoError(t, err)
	for _, s := range outside {
		assert.NotEqual(t, snapshot.ID, s.ID)
	}
}

func TestExchangeRateRepository_Upsert(t *testing.T) {
	ctx := context.Background()
	repo := NewExchangeRateRepository(db)

	require.NoError(t, repo.Upsert(ctx, &domain.ExchangeRate{From: domain.CurrencyHKD, To: domain.CurrencyJPY, Rate: decimal.RequireFromString("19"), Source: "manual", UpdatedAt: time.Now()}))
	require.NoError(t, repo.Upsert(ctx, &domain.ExchangeRate{From: domain.CurrencyHKD, To: domain.CurrencyJPY, Rate: decimal.RequireFromString("19.5"), Source: "manual", UpdatedAt: time.Now()}))

	rates, err := repo.List(ctx)
	require.NoError(t, err)

	matches := 0
	for _, r := range rates {
		if r.From == domain.CurrencyHKD && r.To == domain.CurrencyJPY {
			matches++
			assert.True(t, r.Rate.Equal(decimal.RequireFromString("19.5")), "got %s", r.Rate)
		}
	}
	assert.Equal(t, 1, matches)
}

func ids[T any](items []T, id func(T) uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		out = append(out, id(item))
	}
	return out
}
