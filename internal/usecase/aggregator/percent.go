package aggregator

import (
	"github.com/shopspring/decimal"
	"github.com/simaogato/assetboard-backend/internal/domain"
)

const percentPlaces = 2

var hundred = decimal.NewFromInt(100)

// assignPercentages fills Percentage for entries already sorted by value.
// Logic:
//  1. Total is the sum of the positive entries only
//  2. Each positive entry gets Value / Total * 100, rounded to two places
//  3. Entries with a zero or negative value get 0
//  4. The rounding residual (100 - sum) goes to the first (largest) entry
//
// Safety: Ensures the percentages add up to exactly 100 (no hundredth lost).
// When no entry is positive every percentage stays zero.
func assignPercentages(entries []domain.AssetDistribution) {
	total := decimal.Zero
	for _, e := range entries {
		if e.Value.IsPositive() {
			total = total.Add(e.Value)
		}
	}

	if total.IsZero() {
		for i := range entries {
			entries[i].Percentage = decimal.Zero
		}
		return
	}

	allocated := decimal.Zero
	for i := range entries {
		if !entries[i].Value.IsPositive() {
			entries[i].Percentage = decimal.Zero
			continue
		}
		pct := entries[i].Value.Mul(hundred).Div(total).Round(percentPlaces)
		entries[i].Percentage = pct
		allocated = allocated.Add(pct)
	}

	if residual := hundred.Sub(allocated); !residual.IsZero() {
		entries[0].Percentage = entries[0].Percentage.Add(residual)
	}
}
