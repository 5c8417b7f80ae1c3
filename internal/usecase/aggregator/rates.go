package aggregator

import (
	"github.com/shopspring/decimal"
	"github.com/simaogato/assetboard-backend/internal/domain"
)

// RateProvider converts between currencies: 1 unit of from = Rate units of to.
// Implementations return a *domain.CurrencyConversionError when no path exists.
type RateProvider interface {
	Rate(from, to domain.Currency) (decimal.Decimal, error)
}

type currencyPair struct {
	from domain.Currency
	to   domain.Currency
}

// StaticRates is an immutable in-memory rate table.
// Lookup order: identity, direct pair, inverse pair, then a cross rate
// through a single intermediate currency.
type StaticRates struct {
	rates map[currencyPair]decimal.Decimal
}

// NewStaticRates builds a table from maintained rates; non-positive rates are ignored
func NewStaticRates(rates []domain.ExchangeRate) *StaticRates {
	s := &StaticRates{rates: make(map[currencyPair]decimal.Decimal, len(rates))}
	for _, r := range rates {
		if r.Rate.LessThanOrEqual(decimal.Zero) || r.From == r.To {
			continue
		}
		s.rates[currencyPair{r.From, r.To}] = r.Rate
	}
	return s
}

// Rate implements RateProvider
func (s *StaticRates) Rate(from, to domain.Currency) (decimal.Decimal, error) {
	if rate, ok := s.lookup(from, to); ok {
		return rate, nil
	}

	for _, pivot := range domain.Currencies {
		if pivot == from || pivot == to {
			continue
		}
		first, ok := s.lookup(from, pivot)
		if !ok {
			continue
		}
		second, ok := s.lookup(pivot, to)
		if !ok {
			continue
		}
		return first.Mul(second), nil
	}

	return decimal.Zero, &domain.CurrencyConversionError{From: from, To: to}
}

func (s *StaticRates) lookup(from, to domain.Currency) (decimal.Decimal, bool) {
	if from == to {
		return decimal.NewFromInt(1), true
	}
	if rate, ok := s.rates[currencyPair{from, to}]; ok {
		return rate, true
	}
	if rate, ok := s.rates[currencyPair{to, from}]; ok {
		return decimal.NewFromInt(1).Div(rate), true
	}
	return decimal.Zero, false
}

// IdentityRates only converts a currency to itself
type IdentityRates struct{}

// Rate implements RateProvider
func (IdentityRates) Rate(from, to domain.Currency) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}
	return decimal.Zero, &domain.CurrencyConversionError{From: from, To: to}
}
