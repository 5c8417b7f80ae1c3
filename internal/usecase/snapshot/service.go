package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/simaogato/assetboard-backend/internal/domain"
)

// SnapshotService handles the net-worth history feeding the trend view
type SnapshotService struct {
	AssetRepo    domain.AssetRepository
	DebtRepo     domain.DebtRepository
	SnapshotRepo domain.SnapshotRepository

	now func() time.Time
}

// NewSnapshotService creates a new SnapshotService instance
func NewSnapshotService(assetRepo domain.AssetRepository, debtRepo domain.DebtRepository, snapshotRepo domain.SnapshotRepository) *SnapshotService {
	return &SnapshotService{
		AssetRepo:    assetRepo,
		DebtRepo:     debtRepo,
		SnapshotRepo: snapshotRepo,
		now:          time.Now,
	}
}

// Capture records the current assets and debts as a point in history.
// A zero date means today. The date is truncated to midnight UTC.
// Logic: copy the full lists (excluded assets too) so the history can be re-aggregated later
func (s *SnapshotService) Capture(ctx context.Context, date time.Time) (*domain.Snapshot, error) {
	if date.IsZero() {
		date = s.now()
	}
	date = date.UTC().Truncate(24 * time.Hour)

	assets, err := s.AssetRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	debts, err := s.DebtRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list debts: %w", err)
	}

	snapshot := &domain.Snapshot{
		ID:     uuid.New(),
		Date:   date,
		Assets: assets,
		Debts:  debts,
	}

	if err := s.SnapshotRepo.Add(ctx, snapshot); err != nil {
		return nil, err
	}

	return snapshot, nil
}

// ListBetween returns snapshots in ascending date order. Zero bounds are open.
func (s *SnapshotService) ListBetween(ctx context.Context, from, to time.Time) ([]domain.Snapshot, error) {
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return nil, errors.New("snapshot range end must not be before its start")
	}
	return s.SnapshotRepo.ListBetween(ctx, from, to)
}
