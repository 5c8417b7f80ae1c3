package postgres

import (
	"context"
	"fmt"

	"github.com/simaogato/assetboard-backend/internal/domain"
)

// exchangeRateRepository implements domain.ExchangeRateRepository
type exchangeRateRepository struct {
	db *DB
}

// NewExchangeRateRepository creates a new exchange rate repository
func NewExchangeRateRepository(db *DB) domain.ExchangeRateRepository {
	return &exchangeRateRepository{db: db}
}

// Upsert inserts or replaces the rate for a currency pair
func (r *exchangeRateRepository) Upsert(ctx context.Context, rate *domain.ExchangeRate) error {
	query := `
		INSERT INTO exchange_rates (from_currency, to_currency, rate, source, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (from_currency, to_currency)
		DO UPDATE SET rate = EXCLUDED.rate, source = EXCLUDED.source, updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		string(rate.From),
		string(rate.To),
		rate.Rate.String(),
		rate.Source,
		rate.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert exchange rate: %w", err)
	}

	return nil
}

// List retrieves all maintained rates
func (r *exchangeRateRepository) List(ctx context.Context) ([]domain.ExchangeRate, error) {
	query := `
		SELECT from_currency, to_currency, rate, source, updated_at
		FROM exchange_rates
		ORDER BY from_currency, to_currency
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list exchange rates: %w", err)
	}
	defer rows.Close()

	var rates []domain.ExchangeRate
	for rows.Next() {
		var rate domain.ExchangeRate
		var rateStr string
		if err := rows.Scan(&rate.From, &rate.To, &rateStr, &rate.Source, &rate.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan exchange rate: %w", err)
		}
		if rate.Rate, err = parseDecimal("rate", rateStr); err != nil {
			return nil, err
		}
		rates = append(rates, rate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating exchange rates: %w", err)
	}

	return rates, nil
}
