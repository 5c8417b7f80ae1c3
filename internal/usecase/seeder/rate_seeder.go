package seeder

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/simaogato/assetboard-backend/internal/domain"
	"github.com/simaogato/assetboard-backend/internal/usecase/exchange"
)

// DefaultRates are reference rates into CNY used until a user maintains their own.
// Other pairs resolve through CNY.
var DefaultRates = []domain.ExchangeRate{
	{From: domain.CurrencyUSD, To: domain.CurrencyCNY, Rate: decimal.RequireFromString("7.2")},
	{From: domain.CurrencyEUR, To: domain.CurrencyCNY, Rate: decimal.RequireFromString("7.8")},
	{From: domain.CurrencyHKD, To: domain.CurrencyCNY, Rate: decimal.RequireFromString("0.92")},
	{From: domain.CurrencyJPY, To: domain.CurrencyCNY, Rate: decimal.RequireFromString("0.048")},
}

// RateSeeder stores DefaultRates for pairs that have no rate yet
type RateSeeder struct {
	repo domain.ExchangeRateRepository
	now  func() time.Time
}

// NewRateSeeder creates a new RateSeeder instance
func NewRateSeeder(repo domain.ExchangeRateRepository) *RateSeeder {
	return &RateSeeder{
		repo: repo,
		now:  time.Now,
	}
}

// Seed upserts every default rate whose pair is not maintained in either direction.
// It returns the number of rates written.
func (s *RateSeeder) Seed(ctx context.Context) (int, error) {
	existing, err := s.repo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list exchange rates: %w", err)
	}

	known := make(map[[2]domain.Currency]bool, len(existing)*2)
	for _, r := range existing {
		known[[2]domain.Currency{r.From, r.To}] = true
		known[[2]domain.Currency{r.To, r.From}] = true
	}

	written := 0
	for _, rate := range DefaultRates {
		if known[[2]domain.Currency{rate.From, rate.To}] {
			continue
		}
		entry := rate
		entry.Source = exchange.SourceDefault
		entry.UpdatedAt = s.now()
		if err := s.repo.Upsert(ctx, &entry); err != nil {
			return written, fmt.Errorf("failed to seed rate %s/%s: %w", rate.From, rate.To, err)
		}
		written++
	}
	return written, nil
}
