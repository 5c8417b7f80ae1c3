package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Snapshot is the state of assets and debts at a point in time.
// A sequence of snapshots is the input of a trend computation.
type Snapshot struct {
	ID     uuid.UUID
	Date   time.Time
	Assets []Asset
	Debts  []Debt
}

// AssetOverview is the derived headline view of a snapshot
type AssetOverview struct {
	TotalAssets decimal.Decimal
	TotalDebts  decimal.Decimal
	NetAssets   decimal.Decimal // always TotalAssets - TotalDebts
	DebtRatio   decimal.Decimal // TotalDebts / TotalAssets, 0 when TotalAssets is 0
	Currency    Currency
}

// AssetDistribution is one slice of the asset-type breakdown
type AssetDistribution struct {
	Type       AssetType
	Name       string
	Value      decimal.Decimal
	Percentage decimal.Decimal // 0-100, two decimal places
	Color      string
}

// AssetTrend is one point of the net-worth history
type AssetTrend struct {
	Date        time.Time
	TotalAssets decimal.Decimal
	TotalDebts  decimal.Decimal
	NetAssets   decimal.Decimal
}

// SankeyNode is a vertex of the asset flow graph
type SankeyNode struct {
	ID    string
	Name  string
	Color string
}

// SankeyLink is a directed weighted edge of the asset flow graph
type SankeyLink struct {
	Source string
	Target string
	Value  decimal.Decimal
}

// SankeyData is the flow graph from total assets to asset types
type SankeyData struct {
	Nodes []SankeyNode
	Links []SankeyLink
}

// AssetStats bundles every derived view of one request
type AssetStats struct {
	Overview     AssetOverview
	Distribution []AssetDistribution
	Trend        []AssetTrend
	Sankey       SankeyData
}

// ExchangeRate is a maintained conversion factor: 1 From = Rate To
type ExchangeRate struct {
	From      Currency
	To        Currency
	Rate      decimal.Decimal
	Source    string
	UpdatedAt time.Time
}

// ReceivableSummary totals money lent out and not yet returned
type ReceivableSummary struct {
	Outstanding  decimal.Decimal // active + overdue
	Overdue      decimal.Decimal
	OverdueCount int
	Currency     Currency
}
