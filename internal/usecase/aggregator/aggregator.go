// Package aggregator derives the dashboard views (overview, distribution,
// trend, sankey) from a snapshot of assets and debts.
//
// An Aggregator holds no mutable state; every method is a pure function of
// its arguments and may be called concurrently.
package aggregator

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/assetboard-backend/internal/domain"
)

// SankeyRootID is the node id of the "Total Assets" source node
const SankeyRootID = "total_assets"

const sankeyRootColor = "#0EA5E9"

// Aggregator computes derived views in a single reporting currency
type Aggregator struct {
	currency domain.Currency
	rates    RateProvider
}

// New creates an Aggregator reporting in currency.
// A nil rates provider only allows records already denominated in currency.
func New(currency domain.Currency, rates RateProvider) *Aggregator {
	if rates == nil {
		rates = IdentityRates{}
	}
	return &Aggregator{currency: currency, rates: rates}
}

// Currency returns the reporting currency
func (a *Aggregator) Currency() domain.Currency {
	return a.currency
}

// Overview sums included assets and all debts in the reporting currency.
// Logic:
//   - TotalAssets: Sum of converted balances of assets with IsIncluded = true
//   - TotalDebts: Sum of converted debt amounts
//   - NetAssets: TotalAssets - TotalDebts
//   - DebtRatio: TotalDebts / TotalAssets, 0 unless TotalAssets is positive
func (a *Aggregator) Overview(assets []domain.Asset, debts []domain.Debt) (domain.AssetOverview, error) {
	totalAssets := decimal.Zero
	for _, asset := range assets {
		if !asset.IsIncluded {
			continue
		}
		value, err := a.convert(asset.Balance, asset.Currency)
		if err != nil {
			return domain.AssetOverview{}, err
		}
		totalAssets = totalAssets.Add(value)
	}

	totalDebts := decimal.Zero
	for _, debt := range debts {
		value, err := a.convert(debt.Amount, debt.Currency)
		if err != nil {
			return domain.AssetOverview{}, err
		}
		totalDebts = totalDebts.Add(value)
	}

	debtRatio := decimal.Zero
	if totalAssets.IsPositive() {
		debtRatio = totalDebts.Div(totalAssets)
	}

	return domain.AssetOverview{
		TotalAssets: totalAssets,
		TotalDebts:  totalDebts,
		NetAssets:   totalAssets.Sub(totalDebts),
		DebtRatio:   debtRatio,
		Currency:    a.currency,
	}, nil
}

// Distribution groups included assets by type.
// Entries are ordered by value descending, ties broken by AssetType
// declaration order. Group values keep their sign, so a credit card balance
// shows up as a negative group and the values still sum to TotalAssets.
// Percentages are shares of the positive groups only: those sum to exactly
// 100 and every zero or negative group gets 0.
func (a *Aggregator) Distribution(assets []domain.Asset) ([]domain.AssetDistribution, error) {
	totals := make(map[domain.AssetType]decimal.Decimal)
	for _, asset := range assets {
		if !asset.IsIncluded {
			continue
		}
		value, err := a.convert(asset.Balance, asset.Currency)
		if err != nil {
			return nil, err
		}
		totals[asset.Type] = totals[asset.Type].Add(value)
	}

	result := make([]domain.AssetDistribution, 0, len(totals))
	for assetType, value := range totals {
		result = append(result, domain.AssetDistribution{
			Type:  assetType,
			Name:  assetType.DisplayName(),
			Value: value,
			Color: assetType.Color(),
		})
	}

	sort.Slice(result, func(i, j int) bool {
		if c := result[i].Value.Cmp(result[j].Value); c != 0 {
			return c > 0
		}
		return result[i].Type.Order() < result[j].Type.Order()
	})

	assignPercentages(result)

	return result, nil
}

// Trend recomputes totals for every snapshot, one output per input.
// Snapshots are expected in non-decreasing date order; the order is kept
// as given and never re-sorted.
func (a *Aggregator) Trend(snapshots []domain.Snapshot) ([]domain.AssetTrend, error) {
	trend := make([]domain.AssetTrend, 0, len(snapshots))
	for _, snapshot := range snapshots {
		overview, err := a.Overview(snapshot.Assets, snapshot.Debts)
		if err != nil {
			return nil, err
		}
		trend = append(trend, domain.AssetTrend{
			Date:        snapshot.Date,
			TotalAssets: overview.TotalAssets,
			TotalDebts:  overview.TotalDebts,
			NetAssets:   overview.NetAssets,
		})
	}
	return trend, nil
}

// Sankey builds the two-level flow graph: a root "Total Assets" node with
// one weighted edge to each asset type holding a positive value.
// Negative groups have no flow to draw and are left out.
func (a *Aggregator) Sankey(assets []domain.Asset) (domain.SankeyData, error) {
	distribution, err := a.Distribution(assets)
	if err != nil {
		return domain.SankeyData{}, err
	}
	return sankeyFromDistribution(distribution), nil
}

func sankeyFromDistribution(distribution []domain.AssetDistribution) domain.SankeyData {
	data := domain.SankeyData{
		Nodes: []domain.SankeyNode{{ID: SankeyRootID, Name: "Total Assets", Color: sankeyRootColor}},
		Links: make([]domain.SankeyLink, 0, len(distribution)),
	}
	for _, entry := range distribution {
		if !entry.Value.IsPositive() {
			continue
		}
		data.Nodes = append(data.Nodes, domain.SankeyNode{
			ID:    string(entry.Type),
			Name:  entry.Name,
			Color: entry.Color,
		})
		data.Links = append(data.Links, domain.SankeyLink{
			Source: SankeyRootID,
			Target: string(entry.Type),
			Value:  entry.Value,
		})
	}
	return data
}

// Stats composes every view. Any failure discards all partial results.
func (a *Aggregator) Stats(assets []domain.Asset, debts []domain.Debt, snapshots []domain.Snapshot) (*domain.AssetStats, error) {
	overview, err := a.Overview(assets, debts)
	if err != nil {
		return nil, err
	}
	distribution, err := a.Distribution(assets)
	if err != nil {
		return nil, err
	}
	trend, err := a.Trend(snapshots)
	if err != nil {
		return nil, err
	}

	return &domain.AssetStats{
		Overview:     overview,
		Distribution: distribution,
		Trend:        trend,
		Sankey:       sankeyFromDistribution(distribution),
	}, nil
}

// Receivables totals lend records that have not been returned yet.
// Overdue is judged against now using each record's due date.
func (a *Aggregator) Receivables(records []domain.LendRecord, now time.Time) (domain.ReceivableSummary, error) {
	summary := domain.ReceivableSummary{
		Outstanding: decimal.Zero,
		Overdue:     decimal.Zero,
		Currency:    a.currency,
	}
	for _, record := range records {
		if !record.Outstanding() {
			continue
		}
		value, err := a.convert(record.Amount, record.Currency)
		if err != nil {
			return domain.ReceivableSummary{}, err
		}
		summary.Outstanding = summary.Outstanding.Add(value)
		if record.EffectiveStatus(now) == domain.LendStatusOverdue {
			summary.Overdue = summary.Overdue.Add(value)
			summary.OverdueCount++
		}
	}
	return summary, nil
}

func (a *Aggregator) convert(amount decimal.Decimal, from domain.Currency) (decimal.Decimal, error) {
	if from == a.currency {
		return amount, nil
	}
	rate, err := a.rates.Rate(from, a.currency)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Mul(rate), nil
}
