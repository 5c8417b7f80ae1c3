package exchange

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/assetboard-backend/internal/domain"
)

// MockExchangeRateRepository is a mock implementation of ExchangeRateRepository for testing
type MockExchangeRateRepository struct {
	mock.Mock
}

func (m *MockExchangeRateRepository) Upsert(ctx context.Context, rate *domain.ExchangeRate) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

func (m *MockExchangeRateRepository) List(ctx context.Context) ([]domain.ExchangeRate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExchangeRate), args.Error(1)
}

func TestProvider_CachesRepositoryRates(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockExchangeRateRepository)
	service := NewExchangeRateService(mockRepo, time.Minute)

	mockRepo.On("List", ctx).Return([]domain.ExchangeRate{
		{From: domain.CurrencyUSD, To: domain.CurrencyCNY, Rate: decimal.RequireFromString("7.2")},
	}, nil).Once()

	first, err := service.Provider(ctx)
	require.NoError(t, err)
	second, err := service.Provider(ctx)
	require.NoError(t, err)

	assert.Same(t, first, second)
	rate, err := first.Rate(domain.CurrencyUSD, domain.CurrencyCNY)
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.RequireFromString("7.2")))

	// List must have been called only once
	mockRepo.AssertExpectations(t)
}

func TestProvider_RepositoryError(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockExchangeRateRepository)
	service := NewExchangeRateService(mockRepo, time.Minute)

	mockRepo.On("List", ctx).Return(nil, errors.New("connection refused"))

	provider, err := service.Provider(ctx)

	assert.Nil(t, provider)
	assert.ErrorContains(t, err, "failed to list exchange rates")
}

func TestSetRate_InvalidatesCache(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockExchangeRateRepository)
	service := NewExchangeRateService(mockRepo, time.Minute)

	mockRepo.On("List", ctx).Return([]domain.ExchangeRate{}, nil).Twice()
	mockRepo.On("Upsert", ctx, mock.MatchedBy(func(r *domain.ExchangeRate) bool {
		return r.From == domain.CurrencyHKD && r.To == domain.CurrencyCNY && r.Source == SourceManual
	})).Return(nil).Once()

	_, err := service.Provider(ctx)
	require.NoError(t, err)

	entry, err := service.SetRate(ctx, domain.CurrencyHKD, domain.CurrencyCNY, decimal.RequireFromString("0.92"), "")
	require.NoError(t, err)
	assert.Equal(t, SourceManual, entry.Source)

	_, err = service.Provider(ctx)
	require.NoError(t, err)

	mockRepo.AssertExpectations(t)
}

func TestProvider_DoesNotCacheRatesChangedWhileListing(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockExchangeRateRepository)
	service := NewExchangeRateService(mockRepo, time.Minute)

	stale := []domain.ExchangeRate{
		{From: domain.CurrencyUSD, To: domain.CurrencyCNY, Rate: decimal.RequireFromString("7.2")},
	}
	fresh := []domain.ExchangeRate{
		{From: domain.CurrencyUSD, To: domain.CurrencyCNY, Rate: decimal.RequireFromString("7.3")},
	}

	// The rate changes after the first List has read its rows but before
	// the provider built from them reaches the cache.
	mockRepo.On("List", ctx).Return(stale, nil).Once().Run(func(mock.Arguments) {
		_, err := service.SetRate(ctx, domain.CurrencyUSD, domain.CurrencyCNY, decimal.RequireFromString("7.3"), "")
		require.NoError(t, err)
	})
	mockRepo.On("List", ctx).Return(fresh, nil).Once()
	mockRepo.On("Upsert", ctx, mock.AnythingOfType("*domain.ExchangeRate")).Return(nil).Once()

	_, err := service.Provider(ctx)
	require.NoError(t, err)

	provider, err := service.Provider(ctx)
	require.NoError(t, err)
	rate, err := provider.Rate(domain.CurrencyUSD, domain.CurrencyCNY)
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.RequireFromString("7.3")), "got %s", rate)

	cached, err := service.Provider(ctx)
	require.NoError(t, err)
	assert.Same(t, provider, cached)

	mockRepo.AssertExpectations(t)
}

func TestSetRate_Validation(t *testing.T) {
	ctx := context.Background()
	service := NewExchangeRateService(new(MockExchangeRateRepository), time.Minute)

	tests := []struct {
		name   string
		from   domain.Currency
		to     domain.Currency
		rate   string
		errMsg string
	}{
		{"Same currency", domain.CurrencyUSD, domain.CurrencyUSD, "1", "two different currencies"},
		{"Zero rate", domain.CurrencyUSD, domain.CurrencyCNY, "0", "must be positive"},
		{"Unknown currency", domain.Currency("GBP"), domain.CurrencyCNY, "9", "invalid currency pair"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.SetRate(ctx, tt.from, tt.to, decimal.RequireFromString(tt.rate), SourceManual)
			assert.ErrorContains(t, err, tt.errMsg)
			var verr *domain.ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
}
