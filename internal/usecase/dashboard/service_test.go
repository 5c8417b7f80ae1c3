package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/assetboard-backend/internal/domain"
	"github.com/simaogato/assetboard-backend/internal/usecase/aggregator"
)

// MockAssetRepository is a mock implementation of AssetRepository for testing
type MockAssetRepository struct {
	mock.Mock
}

func (m *MockAssetRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Asset, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Asset), args.Error(1)
}

func (m *MockAssetRepository) Create(ctx context.Context, asset *domain.Asset) error {
	args := m.Called(ctx, asset)
	return args.Error(0)
}

func (m *MockAssetRepository) List(ctx context.Context) ([]domain.Asset, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Asset), args.Error(1)
}

// MockDebtRepository is a mock implementation of DebtRepository for testing
type MockDebtRepository struct {
	mock.Mock
}

func (m *MockDebtRepository) Create(ctx context.Context, debt *domain.Debt) error {
	args := m.Called(ctx, debt)
	return args.Error(0)
}

func (m *MockDebtRepository) List(ctx context.Context) ([]domain.Debt, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Debt), args.Error(1)
}

// MockLendRecordRepository is a mock implementation of LendRecordRepository for testing
type MockLendRecordRepository struct {
	mock.Mock
}

func (m *MockLendRecordRepository) Create(ctx context.Context, record *domain.LendRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockLendRecordRepository) List(ctx context.Context) ([]domain.LendRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LendRecord), args.Error(1)
}

// MockSnapshotRepository is a mock implementation of SnapshotRepository for testing
type MockSnapshotRepository struct {
	mock.Mock
}

func (m *MockSnapshotRepository) Add(ctx context.Context, snapshot *domain.Snapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

func (m *MockSnapshotRepository) ListBetween(ctx context.Context, from, to time.Time) ([]domain.Snapshot, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Snapshot), args.Error(1)
}

// staticSource always hands out the same provider
type staticSource struct {
	provider aggregator.RateProvider
	err      error
}

func (s staticSource) Provider(context.Context) (aggregator.RateProvider, error) {
	return s.provider, s.err
}

type fixture struct {
	assets    *MockAssetRepository
	debts     *MockDebtRepository
	lends     *MockLendRecordRepository
	snapshots *MockSnapshotRepository
	service   *DashboardService
}

func newFixture(source RateSource) *fixture {
	f := &fixture{
		assets:    new(MockAssetRepository),
		debts:     new(MockDebtRepository),
		lends:     new(MockLendRecordRepository),
		snapshots: new(MockSnapshotRepository),
	}
	f.service = NewDashboardService(f.assets, f.debts, f.lends, f.snapshots, source, domain.CurrencyCNY, nil)
	return f
}

func cnyRates() staticSource {
	return staticSource{provider: aggregator.NewStaticRates([]domain.ExchangeRate{
		{From: domain.CurrencyUSD, To: domain.CurrencyCNY, Rate: decimal.RequireFromString("7")},
	})}
}

func holding(assetType domain.AssetType, balance int64, currency domain.Currency, included bool) domain.Asset {
	return domain.Asset{
		ID:         uuid.New(),
		Name:       string(assetType),
		Type:       assetType,
		Balance:    decimal.NewFromInt(balance),
		Currency:   currency,
		IsIncluded: included,
	}
}

func TestOverview_UsesDefaultCurrency(t *testing.T) {
	ctx := context.Background()
	f := newFixture(cnyRates())

	f.assets.On("List", mock.Anything).Return([]domain.Asset{
		holding(domain.AssetTypeCash, 1000, domain.CurrencyCNY, true),
		holding(domain.AssetTypeStock, 100, domain.CurrencyUSD, true),
		holding(domain.AssetTypeCash, 500, domain.CurrencyCNY, false),
	}, nil)
	f.debts.On("List", mock.Anything).Return([]domain.Debt{
		{ID: uuid.New(), Name: "Card", Type: domain.DebtTypeCreditCard, Amount: decimal.NewFromInt(850), Currency: domain.CurrencyCNY},
	}, nil)

	overview, err := f.service.Overview(ctx, "")

	require.NoError(t, err)
	assert.Equal(t, domain.CurrencyCNY, overview.Currency)
	assert.True(t, overview.TotalAssets.Equal(decimal.NewFromInt(1700)), "got %s", overview.TotalAssets)
	assert.True(t, overview.NetAssets.Equal(decimal.NewFromInt(850)), "got %s", overview.NetAssets)
	assert.True(t, overview.DebtRatio.Equal(decimal.RequireFromString("0.5")), "got %s", overview.DebtRatio)
	f.assets.AssertExpectations(t)
	f.debts.AssertExpectations(t)
}

func TestOverview_RepositoryError(t *testing.T) {
	ctx := context.Background()
	f := newFixture(cnyRates())

	f.assets.On("List", mock.Anything).Return(nil, errors.New("connection reset"))
	f.debts.On("List", mock.Anything).Return([]domain.Debt{}, nil).Maybe()

	_, err := f.service.Overview(ctx, domain.CurrencyCNY)

	assert.ErrorContains(t, err, "failed to list assets")
}

func TestOverview_RateSourceError(t *testing.T) {
	ctx := context.Background()
	f := newFixture(staticSource{err: errors.New("rates unavailable")})

	f.assets.On("List", mock.Anything).Return([]domain.Asset{}, nil).Maybe()
	f.debts.On("List", mock.Anything).Return([]domain.Debt{}, nil).Maybe()

	_, err := f.service.Overview(ctx, domain.CurrencyCNY)

	assert.ErrorContains(t, err, "rates unavailable")
}

func TestOverview_UnsupportedCurrency(t *testing.T) {
	f := newFixture(cnyRates())

	_, err := f.service.Overview(context.Background(), domain.Currency("GBP"))

	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "currency", validationErr.Field)
}

func TestOverview_MissingRate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(cnyRates())

	f.assets.On("List", mock.Anything).Return([]domain.Asset{
		holding(domain.AssetTypeCash, 1000, domain.CurrencyJPY, true),
	}, nil)
	f.debts.On("List", mock.Anything).Return([]domain.Debt{}, nil)

	_, err := f.service.Overview(ctx, domain.CurrencyCNY)

	var conversionErr *domain.CurrencyConversionError
	require.ErrorAs(t, err, &conversionErr)
	assert.Equal(t, domain.CurrencyJPY, conversionErr.From)
}

func TestDistribution_DoesNotLoadDebts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(cnyRates())

	f.assets.On("List", mock.Anything).Return([]domain.Asset{
		holding(domain.AssetTypeCash, 1000, domain.CurrencyCNY, true),
		holding(domain.AssetTypeStock, 3000, domain.CurrencyCNY, true),
	}, nil)

	distribution, err := f.service.Distribution(ctx, domain.CurrencyCNY)

	require.NoError(t, err)
	require.Len(t, distribution, 2)
	assert.Equal(t, domain.AssetTypeStock, distribution[0].Type)
	assert.Equal(t, "75", distribution[0].Percentage.String())
	f.debts.AssertNotCalled(t, "List", mock.Anything)
}

func TestTrend_PassesWindow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(cnyRates())
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	f.snapshots.On("ListBetween", mock.Anything, from, to).Return([]domain.Snapshot{
		{ID: uuid.New(), Date: from, Assets: []domain.Asset{holding(domain.AssetTypeCash, 100, domain.CurrencyCNY, true)}},
		{ID: uuid.New(), Date: to, Assets: []domain.Asset{holding(domain.AssetTypeCash, 300, domain.CurrencyCNY, true)}},
	}, nil)

	trend, err := f.service.Trend(ctx, domain.CurrencyCNY, TrendRange{From: from, To: to})

	require.NoError(t, err)
	require.Len(t, trend, 2)
	assert.Equal(t, from, trend[0].Date)
	assert.True(t, trend[1].NetAssets.Equal(decimal.NewFromInt(300)))
	f.snapshots.AssertExpectations(t)
}

func TestSankey_LinksFromRoot(t *testing.T) {
	ctx := context.Background()
	f := newFixture(cnyRates())

	f.assets.On("List", mock.Anything).Return([]domain.Asset{
		holding(domain.AssetTypeFund, 200, domain.CurrencyCNY, true),
	}, nil)

	sankey, err := f.service.Sankey(ctx, domain.CurrencyCNY)

	require.NoError(t, err)
	require.Len(t, sankey.Links, 1)
	assert.Equal(t, aggregator.SankeyRootID, sankey.Links[0].Source)
	assert.Equal(t, string(domain.AssetTypeFund), sankey.Links[0].Target)
}

func TestStats_LoadsEverything(t *testing.T) {
	ctx := context.Background()
	f := newFixture(cnyRates())

	f.assets.On("List", mock.Anything).Return([]domain.Asset{
		holding(domain.AssetTypeCash, 1000, domain.CurrencyCNY, true),
	}, nil)
	f.debts.On("List", mock.Anything).Return([]domain.Debt{}, nil)
	f.snapshots.On("ListBetween", mock.Anything, time.Time{}, time.Time{}).Return([]domain.Snapshot{
		{ID: uuid.New(), Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	}, nil)

	stats, err := f.service.Stats(ctx, "", TrendRange{})

	require.NoError(t, err)
	assert.True(t, stats.Overview.TotalAssets.Equal(decimal.NewFromInt(1000)))
	assert.Len(t, stats.Distribution, 1)
	assert.Len(t, stats.Trend, 1)
	assert.Len(t, stats.Sankey.Links, 1)
	f.assets.AssertExpectations(t)
	f.debts.AssertExpectations(t)
	f.snapshots.AssertExpectations(t)
}

func TestReceivables_CountsOverdue(t *testing.T) {
	ctx := context.Background()
	f := newFixture(cnyRates())
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	f.service.now = func() time.Time { return now }
	past := now.AddDate(0, -1, 0)

	f.lends.On("List", mock.Anything).Return([]domain.LendRecord{
		{ID: uuid.New(), Name: "Rent help", Borrower: "Li", Amount: decimal.NewFromInt(10), Currency: domain.CurrencyUSD, Status: domain.LendStatusActive, DueDate: &past},
		{ID: uuid.New(), Name: "Dinner", Borrower: "Wang", Amount: decimal.NewFromInt(100), Currency: domain.CurrencyCNY, Status: domain.LendStatusActive},
		{ID: uuid.New(), Name: "Old", Borrower: "Zhao", Amount: decimal.NewFromInt(999), Currency: domain.CurrencyCNY, Status: domain.LendStatusReturned, ActualReturnDate: &past},
	}, nil)

	summary, err := f.service.Receivables(ctx, domain.CurrencyCNY)

	require.NoError(t, err)
	assert.True(t, summary.Outstanding.Equal(decimal.NewFromInt(170)), "got %s", summary.Outstanding)
	assert.True(t, summary.Overdue.Equal(decimal.NewFromInt(70)), "got %s", summary.Overdue)
	assert.Equal(t, 1, summary.OverdueCount)
}
