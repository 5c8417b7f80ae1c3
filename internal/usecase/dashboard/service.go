package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/simaogato/assetboard-backend/internal/domain"
	"github.com/simaogato/assetboard-backend/internal/logging"
	"github.com/simaogato/assetboard-backend/internal/usecase/aggregator"
)

// RateSource supplies the exchange rates used for a single computation
type RateSource interface {
	Provider(ctx context.Context) (aggregator.RateProvider, error)
}

// DashboardService handles dashboard-related operations
type DashboardService struct {
	AssetRepo    domain.AssetRepository
	DebtRepo     domain.DebtRepository
	LendRepo     domain.LendRecordRepository
	SnapshotRepo domain.SnapshotRepository
	Rates        RateSource

	currency domain.Currency
	logger   *slog.Logger
	now      func() time.Time
}

// NewDashboardService creates a new DashboardService instance.
// currency is used whenever a caller does not ask for a reporting currency.
func NewDashboardService(
	assetRepo domain.AssetRepository,
	debtRepo domain.DebtRepository,
	lendRepo domain.LendRecordRepository,
	snapshotRepo domain.SnapshotRepository,
	rates RateSource,
	currency domain.Currency,
	logger *slog.Logger,
) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{
		AssetRepo:    assetRepo,
		DebtRepo:     debtRepo,
		LendRepo:     lendRepo,
		SnapshotRepo: snapshotRepo,
		Rates:        rates,
		currency:     currency,
		logger:       logging.WithComponent(logger, "dashboard"),
		now:          time.Now,
	}
}

// TrendRange selects the snapshots feeding a trend. Zero values are open ends.
type TrendRange struct {
	From time.Time
	To   time.Time
}

// holdings is everything loaded for one computation
type holdings struct {
	assets    []domain.Asset
	debts     []domain.Debt
	lends     []domain.LendRecord
	snapshots []domain.Snapshot
	agg       *aggregator.Aggregator
}

type loadPlan struct {
	assets    bool
	debts     bool
	lends     bool
	snapshots *TrendRange
}

// load fetches the requested collections and the rate table concurrently
func (s *DashboardService) load(ctx context.Context, currency domain.Currency, plan loadPlan) (*holdings, error) {
	if currency == "" {
		currency = s.currency
	}
	if !currency.Valid() {
		return nil, &domain.ValidationError{Field: "currency", Message: fmt.Sprintf("unsupported currency %s", currency)}
	}

	h := &holdings{}
	var rates aggregator.RateProvider

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		provider, err := s.Rates.Provider(gctx)
		if err != nil {
			return err
		}
		rates = provider
		return nil
	})
	if plan.assets {
		g.Go(func() error {
			assets, err := s.AssetRepo.List(gctx)
			if err != nil {
				return fmt.Errorf("failed to list assets: %w", err)
			}
			h.assets = assets
			return nil
		})
	}
	if plan.debts {
		g.Go(func() error {
			debts, err := s.DebtRepo.List(gctx)
			if err != nil {
				return fmt.Errorf("failed to list debts: %w", err)
			}
			h.debts = debts
			return nil
		})
	}
	if plan.lends {
		g.Go(func() error {
			lends, err := s.LendRepo.List(gctx)
			if err != nil {
				return fmt.Errorf("failed to list lend records: %w", err)
			}
			h.lends = lends
			return nil
		})
	}
	if plan.snapshots != nil {
		window := *plan.snapshots
		g.Go(func() error {
			snapshots, err := s.SnapshotRepo.ListBetween(gctx, window.From, window.To)
			if err != nil {
				return fmt.Errorf("failed to list snapshots: %w", err)
			}
			h.snapshots = snapshots
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	h.agg = aggregator.New(currency, rates)
	return h, nil
}

func (s *DashboardService) logFailure(ctx context.Context, view string, currency domain.Currency, err error) {
	s.logger.WarnContext(ctx, "dashboard view failed",
		slog.String("view", view),
		slog.String(logging.FieldCurrency, string(currency)),
		slog.String(logging.FieldError, err.Error()),
	)
}

// Overview returns totals, net assets and debt ratio
func (s *DashboardService) Overview(ctx context.Context, currency domain.Currency) (domain.AssetOverview, error) {
	h, err := s.load(ctx, currency, loadPlan{assets: true, debts: true})
	if err != nil {
		return domain.AssetOverview{}, err
	}
	overview, err := h.agg.Overview(h.assets, h.debts)
	if err != nil {
		s.logFailure(ctx, "overview", h.agg.Currency(), err)
		return domain.AssetOverview{}, err
	}
	return overview, nil
}

// Distribution returns the included asset value per asset type
func (s *DashboardService) Distribution(ctx context.Context, currency domain.Currency) ([]domain.AssetDistribution, error) {
	h, err := s.load(ctx, currency, loadPlan{assets: true})
	if err != nil {
		return nil, err
	}
	distribution, err := h.agg.Distribution(h.assets)
	if err != nil {
		s.logFailure(ctx, "distribution", h.agg.Currency(), err)
		return nil, err
	}
	return distribution, nil
}

// Trend returns one point per stored snapshot in the window
func (s *DashboardService) Trend(ctx context.Context, currency domain.Currency, window TrendRange) ([]domain.AssetTrend, error) {
	h, err := s.load(ctx, currency, loadPlan{snapshots: &window})
	if err != nil {
		return nil, err
	}
	trend, err := h.agg.Trend(h.snapshots)
	if err != nil {
		s.logFailure(ctx, "trend", h.agg.Currency(), err)
		return nil, err
	}
	return trend, nil
}

// Sankey returns the flow graph from total assets to asset types
func (s *DashboardService) Sankey(ctx context.Context, currency domain.Currency) (domain.SankeyData, error) {
	h, err := s.load(ctx, currency, loadPlan{assets: true})
	if err != nil {
		return domain.SankeyData{}, err
	}
	sankey, err := h.agg.Sankey(h.assets)
	if err != nil {
		s.logFailure(ctx, "sankey", h.agg.Currency(), err)
		return domain.SankeyData{}, err
	}
	return sankey, nil
}

// Stats returns every view computed from one consistent load
func (s *DashboardService) Stats(ctx context.Context, currency domain.Currency, window TrendRange) (*domain.AssetStats, error) {
	start := s.now()
	h, err := s.load(ctx, currency, loadPlan{assets: true, debts: true, snapshots: &window})
	if err != nil {
		return nil, err
	}
	stats, err := h.agg.Stats(h.assets, h.debts, h.snapshots)
	if err != nil {
		s.logFailure(ctx, "stats", h.agg.Currency(), err)
		return nil, err
	}

	s.logger.DebugContext(ctx, "dashboard stats computed",
		slog.String(logging.FieldCurrency, string(h.agg.Currency())),
		slog.Int("assets", len(h.assets)),
		slog.Int("debts", len(h.debts)),
		slog.Int("snapshots", len(h.snapshots)),
		slog.Int64(logging.FieldDuration, s.now().Sub(start).Milliseconds()),
	)
	return stats, nil
}

// Receivables summarizes money lent out that has not been returned
func (s *DashboardService) Receivables(ctx context.Context, currency domain.Currency) (domain.ReceivableSummary, error) {
	h, err := s.load(ctx, currency, loadPlan{lends: true})
	if err != nil {
		return domain.ReceivableSummary{}, err
	}
	summary, err := h.agg.Receivables(h.lends, s.now())
	if err != nil {
		s.logFailure(ctx, "receivables", h.agg.Currency(), err)
		return domain.ReceivableSummary{}, err
	}
	return summary, nil
}
