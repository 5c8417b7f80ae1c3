// Package dto holds the wire shapes shared by the HTTP and gRPC adapters.
// Money travels as decimal strings; dates as YYYY-MM-DD.
package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/assetboard-backend/internal/domain"
	"github.com/simaogato/assetboard-backend/internal/usecase/dashboard"
)

const dateLayout = "2006-01-02"

// Query carries the optional parameters every dashboard read accepts
type Query struct {
	Currency string `json:"currency,omitempty"`
	From     string `json:"from,omitempty"`
	To       string `json:"to,omitempty"`
}

// ReportingCurrency parses Currency. An empty value means the server default.
func (q Query) ReportingCurrency() (domain.Currency, error) {
	if strings.TrimSpace(q.Currency) == "" {
		return "", nil
	}
	return domain.ParseCurrency(q.Currency)
}

// Window parses From and To into a trend range
func (q Query) Window() (dashboard.TrendRange, error) {
	from, err := ParseDate("from", q.From)
	if err != nil {
		return dashboard.TrendRange{}, err
	}
	to, err := ParseDate("to", q.To)
	if err != nil {
		return dashboard.TrendRange{}, err
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return dashboard.TrendRange{}, &domain.ValidationError{Field: "to", Message: "must not be before from"}
	}
	return dashboard.TrendRange{From: from, To: to}, nil
}

// ParseDate accepts YYYY-MM-DD or RFC3339. Empty input yields the zero time.
func ParseDate(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(dateLayout, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, &domain.ValidationError{Field: field, Message: fmt.Sprintf("cannot parse date %q", value)}
	}
	return t, nil
}

// Overview is the wire form of domain.AssetOverview
type Overview struct {
	TotalAssets string            `json:"totalAssets"`
	TotalDebts  string            `json:"totalDebts"`
	NetAssets   string            `json:"netAssets"`
	DebtRatio   string            `json:"debtRatio"`
	Currency    string            `json:"currency"`
	Formatted   map[string]string `json:"formatted"`
}

// FromOverview converts an overview for the wire
func FromOverview(o domain.AssetOverview) Overview {
	return Overview{
		TotalAssets: o.TotalAssets.String(),
		TotalDebts:  o.TotalDebts.String(),
		NetAssets:   o.NetAssets.String(),
		DebtRatio:   o.DebtRatio.StringFixed(4),
		Currency:    string(o.Currency),
		Formatted: map[string]string{
			"totalAssets": o.Currency.FormatAmount(o.TotalAssets),
			"totalDebts":  o.Currency.FormatAmount(o.TotalDebts),
			"netAssets":   o.Currency.FormatAmount(o.NetAssets),
		},
	}
}

// Distribution is one slice of the asset pie
type Distribution struct {
	Type       string `json:"type"`
	Name       string `json:"name"`
	Value      string `json:"value"`
	Percentage string `json:"percentage"`
	Color      string `json:"color"`
}

// FromDistribution converts distribution entries for the wire
func FromDistribution(entries []domain.AssetDistribution) []Distribution {
	out := make([]Distribution, 0, len(entries))
	for _, e := range entries {
		out = append(out, Distribution{
			Type:       string(e.Type),
			Name:       e.Name,
			Value:      e.Value.String(),
			Percentage: e.Percentage.StringFixed(2),
			Color:      e.Color,
		})
	}
	return out
}

// Trend is one point of the net worth history
type Trend struct {
	Date        string `json:"date"`
	TotalAssets string `json:"totalAssets"`
	TotalDebts  string `json:"totalDebts"`
	NetAssets   string `json:"netAssets"`
}

// FromTrend converts trend points for the wire
func FromTrend(points []domain.AssetTrend) []Trend {
	out := make([]Trend, 0, len(points))
	for _, p := range points {
		out = append(out, Trend{
			Date:        p.Date.Format(dateLayout),
			TotalAssets: p.TotalAssets.String(),
			TotalDebts:  p.TotalDebts.String(),
			NetAssets:   p.NetAssets.String(),
		})
	}
	return out
}

type SankeyNode struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type SankeyLink struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Value  string `json:"value"`
}

// Sankey is the wire form of domain.SankeyData
type Sankey struct {
	Nodes []SankeyNode `json:"nodes"`
	Links []SankeyLink `json:"links"`
}

// FromSankey converts the flow graph for the wire
func FromSankey(data domain.SankeyData) Sankey {
	out := Sankey{
		Nodes: make([]SankeyNode, 0, len(data.Nodes)),
		Links: make([]SankeyLink, 0, len(data.Links)),
	}
	for _, n := range data.Nodes {
		out.Nodes = append(out.Nodes, SankeyNode{ID: n.ID, Name: n.Name, Color: n.Color})
	}
	for _, l := range data.Links {
		out.Links = append(out.Links, SankeyLink{Source: l.Source, Target: l.Target, Value: l.Value.String()})
	}
	return out
}

// Stats bundles every view
type Stats struct {
	Overview     Overview       `json:"overview"`
	Distribution []Distribution `json:"distribution"`
	Trend        []Trend        `json:"trend"`
	Sankey       Sankey         `json:"sankey"`
}

// FromStats converts the combined stats for the wire
func FromStats(s *domain.AssetStats) Stats {
	return Stats{
		Overview:     FromOverview(s.Overview),
		Distribution: FromDistribution(s.Distribution),
		Trend:        FromTrend(s.Trend),
		Sankey:       FromSankey(s.Sankey),
	}
}

// Receivables is the wire form of domain.ReceivableSummary
type Receivables struct {
	Outstanding  string `json:"outstanding"`
	Overdue      string `json:"overdue"`
	OverdueCount int    `json:"overdueCount"`
	Currency     string `json:"currency"`
}

// FromReceivables converts a receivable summary for the wire
func FromReceivables(r domain.ReceivableSummary) Receivables {
	return Receivables{
		Outstanding:  r.Outstanding.String(),
		Overdue:      r.Overdue.String(),
		OverdueCount: r.OverdueCount,
		Currency:     string(r.Currency),
	}
}

// Snapshot is the acknowledgement of a captured snapshot
type Snapshot struct {
	ID         string `json:"id"`
	Date       string `json:"date"`
	AssetCount int    `json:"assetCount"`
	DebtCount  int    `json:"debtCount"`
}

// FromSnapshot converts a captured snapshot for the wire
func FromSnapshot(s *domain.Snapshot) Snapshot {
	return Snapshot{
		ID:         s.ID.String(),
		Date:       s.Date.Format(dateLayout),
		AssetCount: len(s.Assets),
		DebtCount:  len(s.Debts),
	}
}

// SnapshotRequest asks for a snapshot at Date (today when empty)
type SnapshotRequest struct {
	Date string `json:"date,omitempty"`
}

// Transaction is both the request to record a transaction and its echo
type Transaction struct {
	ID            string `json:"id,omitempty"`
	Type          string `json:"type"`
	Amount        string `json:"amount"`
	Date          string `json:"date"`
	Note          string `json:"note,omitempty"`
	CategoryID    string `json:"categoryId,omitempty"`
	SubcategoryID string `json:"subcategoryId,omitempty"`
	AccountID     string `json:"accountId,omitempty"`
	FromAccountID string `json:"fromAccountId,omitempty"`
	ToAccountID   string `json:"toAccountId,omitempty"`
	TransferFee   string `json:"transferFee,omitempty"`
}

// ToDomain builds the transaction variant selected by Type
func (t Transaction) ToDomain() (domain.Transaction, error) {
	amount, err := parseAmount("amount", t.Amount)
	if err != nil {
		return nil, err
	}
	date, err := ParseDate("date", t.Date)
	if err != nil {
		return nil, err
	}
	base := domain.TransactionBase{Amount: amount, Note: t.Note, Date: date}

	switch domain.TransactionType(t.Type) {
	case domain.TransactionTypeIncome, domain.TransactionTypeExpense:
		categoryID, err := parseUUID("categoryId", t.CategoryID)
		if err != nil {
			return nil, err
		}
		subcategoryID, err := parseOptionalUUID("subcategoryId", t.SubcategoryID)
		if err != nil {
			return nil, err
		}
		accountID, err := parseOptionalUUID("accountId", t.AccountID)
		if err != nil {
			return nil, err
		}
		return &domain.EntryTransaction{
			TransactionBase: base,
			Kind:            domain.TransactionType(t.Type),
			CategoryID:      categoryID,
			SubcategoryID:   subcategoryID,
			AccountID:       accountID,
		}, nil

	case domain.TransactionTypeTransfer:
		fromID, err := parseUUID("fromAccountId", t.FromAccountID)
		if err != nil {
			return nil, err
		}
		toID, err := parseUUID("toAccountId", t.ToAccountID)
		if err != nil {
			return nil, err
		}
		transfer := &domain.TransferTransaction{
			TransactionBase: base,
			FromAccountID:   fromID,
			ToAccountID:     toID,
		}
		if t.TransferFee != "" {
			fee, err := parseAmount("transferFee", t.TransferFee)
			if err != nil {
				return nil, err
			}
			transfer.TransferFee = &fee
		}
		return transfer, nil

	default:
		return nil, &domain.ValidationError{Field: "type", Message: fmt.Sprintf("unknown transaction type %q", t.Type)}
	}
}

// FromTransaction converts a stored transaction for the wire
func FromTransaction(tx domain.Transaction) Transaction {
	base := tx.Base()
	out := Transaction{
		ID:     base.ID.String(),
		Type:   string(tx.TransactionType()),
		Amount: base.Amount.String(),
		Date:   base.Date.Format(dateLayout),
		Note:   base.Note,
	}
	switch v := tx.(type) {
	case *domain.EntryTransaction:
		out.CategoryID = v.CategoryID.String()
		if v.SubcategoryID != nil {
			out.SubcategoryID = v.SubcategoryID.String()
		}
		if v.AccountID != nil {
			out.AccountID = v.AccountID.String()
		}
	case *domain.TransferTransaction:
		out.FromAccountID = v.FromAccountID.String()
		out.ToAccountID = v.ToAccountID.String()
		if v.TransferFee != nil {
			out.TransferFee = v.TransferFee.String()
		}
	}
	return out
}

func parseAmount(field, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero, &domain.ValidationError{Field: field, Message: fmt.Sprintf("invalid amount format %q", value)}
	}
	return d, nil
}

func parseUUID(field, value string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return uuid.Nil, &domain.ValidationError{Field: field, Message: fmt.Sprintf("invalid id format %q", value)}
	}
	return id, nil
}

func parseOptionalUUID(field, value string) (*uuid.UUID, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	id, err := parseUUID(field, value)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// Category is one node of the category tree with its children inlined
type Category struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Emoji    string     `json:"emoji,omitempty"`
	Type     string     `json:"type"`
	Children []Category `json:"children,omitempty"`
}

// FromCategoryTree nests the tree roots and their descendants
func FromCategoryTree(tree *domain.CategoryTree) []Category {
	if tree == nil {
		return []Category{}
	}
	var build func(c domain.Category) Category
	build = func(c domain.Category) Category {
		out := Category{
			ID:    c.ID.String(),
			Name:  c.Name,
			Emoji: c.Emoji,
			Type:  string(c.Type),
		}
		for _, child := range tree.Children(c.ID) {
			out.Children = append(out.Children, build(child))
		}
		return out
	}

	roots := tree.Roots()
	out := make([]Category, 0, len(roots))
	for _, root := range roots {
		out = append(out, build(root))
	}
	return out
}

// ExchangeRate is the wire form of domain.ExchangeRate
type ExchangeRate struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Rate      string `json:"rate"`
	Source    string `json:"source,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// FromExchangeRate converts a stored rate
func FromExchangeRate(rate domain.ExchangeRate) ExchangeRate {
	out := ExchangeRate{
		From:   string(rate.From),
		To:     string(rate.To),
		Rate:   rate.Rate.String(),
		Source: rate.Source,
	}
	if !rate.UpdatedAt.IsZero() {
		out.UpdatedAt = rate.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return out
}

// Parse validates the currencies and the rate value. Range rules live in the exchange service.
func (r ExchangeRate) Parse() (from, to domain.Currency, rate decimal.Decimal, err error) {
	if from, err = domain.ParseCurrency(r.From); err != nil {
		return "", "", decimal.Zero, &domain.ValidationError{Field: "from", Message: "unsupported currency " + r.From}
	}
	if to, err = domain.ParseCurrency(r.To); err != nil {
		return "", "", decimal.Zero, &domain.ValidationError{Field: "to", Message: "unsupported currency " + r.To}
	}
	if rate, err = parseAmount("rate", r.Rate); err != nil {
		return "", "", decimal.Zero, err
	}
	return from, to, rate, nil
}
