package exchange

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"

	"github.com/simaogato/assetboard-backend/internal/domain"
	"github.com/simaogato/assetboard-backend/internal/usecase/aggregator"
)

const (
	ratesCacheKey = "rates"

	SourceManual  = "manual"
	SourceDefault = "default"
)

// ExchangeRateService maintains exchange rates and hands out rate providers.
// The provider built from the repository is cached until the TTL expires or
// a rate changes.
type ExchangeRateService struct {
	RateRepo domain.ExchangeRateRepository
	cache    *cache.Cache

	// generation counts rate changes. A provider is only cached when no
	// change landed while its rates were being listed.
	mu         sync.Mutex
	generation uint64
}

// NewExchangeRateService creates a new ExchangeRateService instance
func NewExchangeRateService(rateRepo domain.ExchangeRateRepository, ttl time.Duration) *ExchangeRateService {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &ExchangeRateService{
		RateRepo: rateRepo,
		cache:    cache.New(ttl, 2*ttl),
	}
}

// Provider returns a RateProvider over every maintained rate
func (s *ExchangeRateService) Provider(ctx context.Context) (aggregator.RateProvider, error) {
	if cached, found := s.cache.Get(ratesCacheKey); found {
		return cached.(*aggregator.StaticRates), nil
	}

	s.mu.Lock()
	generation := s.generation
	s.mu.Unlock()

	rates, err := s.RateRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list exchange rates: %w", err)
	}

	provider := aggregator.NewStaticRates(rates)

	s.mu.Lock()
	if s.generation == generation {
		s.cache.SetDefault(ratesCacheKey, provider)
	}
	s.mu.Unlock()
	return provider, nil
}

// SetRate inserts or replaces the rate for from -> to and invalidates the cache
func (s *ExchangeRateService) SetRate(ctx context.Context, from, to domain.Currency, rate decimal.Decimal, source string) (*domain.ExchangeRate, error) {
	if !from.Valid() || !to.Valid() {
		return nil, &domain.ValidationError{Field: "currency", Message: fmt.Sprintf("invalid currency pair %s/%s", from, to)}
	}
	if from == to {
		return nil, &domain.ValidationError{Field: "currency", Message: "exchange rate must convert between two different currencies"}
	}
	if rate.LessThanOrEqual(decimal.Zero) {
		return nil, &domain.ValidationError{Field: "rate", Message: "exchange rate must be positive"}
	}
	if source == "" {
		source = SourceManual
	}

	entry := &domain.ExchangeRate{
		From:      from,
		To:        to,
		Rate:      rate,
		Source:    source,
		UpdatedAt: time.Now(),
	}
	if err := s.RateRepo.Upsert(ctx, entry); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.generation++
	s.cache.Delete(ratesCacheKey)
	s.mu.Unlock()
	return entry, nil
}

// ListRates returns all maintained rates
func (s *ExchangeRateService) ListRates(ctx context.Context) ([]domain.ExchangeRate, error) {
	return s.RateRepo.List(ctx)
}
