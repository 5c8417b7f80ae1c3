package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/simaogato/assetboard-backend/internal/domain"
)

// snapshotRepository implements domain.SnapshotRepository
type snapshotRepository struct {
	db *DB
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(db *DB) domain.SnapshotRepository {
	return &snapshotRepository{db: db}
}

// Add stores a snapshot header and its rows in a database transaction
func (r *snapshotRepository) Add(ctx context.Context, snapshot *domain.Snapshot) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.ExecContext(ctx,
		`INSERT INTO snapshots (id, date) VALUES ($1, $2)`,
		snapshot.ID, snapshot.Date,
	); err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}

	insertAssetQuery := `
		INSERT INTO snapshot_assets (snapshot_id, position, asset_id, name, asset_type, balance, currency, is_included)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	for i, asset := range snapshot.Assets {
		if _, err := dbTx.ExecContext(ctx, insertAssetQuery,
			snapshot.ID,
			i,
			asset.ID,
			asset.Name,
			string(asset.Type),
			asset.Balance.String(),
			string(asset.Currency),
			asset.IsIncluded,
		); err != nil {
			return fmt.Errorf("failed to insert snapshot asset: %w", err)
		}
	}

	insertDebtQuery := `
		INSERT INTO snapshot_debts (snapshot_id, position, debt_id, name, debt_type, amount, currency)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for i, debt := range snapshot.Debts {
		if _, err := dbTx.ExecContext(ctx, insertDebtQuery,
			snapshot.ID,
			i,
			debt.ID,
			debt.Name,
			string(debt.Type),
			debt.Amount.String(),
			string(debt.Currency),
		); err != nil {
			return fmt.Errorf("failed to insert snapshot debt: %w", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListBetween retrieves snapshots with from <= date <= to in ascending order.
// A zero bound leaves that side of the range open.
func (r *snapshotRepository) ListBetween(ctx context.Context, from, to time.Time) ([]domain.Snapshot, error) {
	query := `
		SELECT id, date
		FROM snapshots
		WHERE ($1::timestamptz IS NULL OR date >= $1)
		  AND ($2::timestamptz IS NULL OR date <= $2)
		ORDER BY date ASC
	`

	rows, err := r.db.QueryContext(ctx, query, nullableBound(from), nullableBound(to))
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}

	var snapshots []domain.Snapshot
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		var snapshot domain.Snapshot
		if err := rows.Scan(&snapshot.ID, &snapshot.Date); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		index[snapshot.ID] = len(snapshots)
		snapshots = append(snapshots, snapshot)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}
	if len(snapshots) == 0 {
		return snapshots, nil
	}

	ids := make([]string, 0, len(snapshots))
	for _, s := range snapshots {
		ids = append(ids, s.ID.String())
	}

	if err := r.loadAssets(ctx, ids, snapshots, index); err != nil {
		return nil, err
	}
	if err := r.loadDebts(ctx, ids, snapshots, index); err != nil {
		return nil, err
	}

	return snapshots, nil
}

func (r *snapshotRepository) loadAssets(ctx context.Context, ids []string, snapshots []domain.Snapshot, index map[uuid.UUID]int) error {
	query := `
		SELECT snapshot_id, asset_id, name, asset_type, balance, currency, is_included
		FROM snapshot_assets
		WHERE snapshot_id = ANY($1::uuid[])
		ORDER BY snapshot_id, position
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to list snapshot assets: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var snapshotID uuid.UUID
		var asset domain.Asset
		var balanceStr string
		if err := rows.Scan(
			&snapshotID,
			&asset.ID,
			&asset.Name,
			&asset.Type,
			&balanceStr,
			&asset.Currency,
			&asset.IsIncluded,
		); err != nil {
			return fmt.Errorf("failed to scan snapshot asset: %w", err)
		}
		if asset.Balance, err = parseDecimal("balance", balanceStr); err != nil {
			return err
		}
		i := index[snapshotID]
		snapshots[i].Assets = append(snapshots[i].Assets, asset)
	}
	return rows.Err()
}

func (r *snapshotRepository) loadDebts(ctx context.Context, ids []string, snapshots []domain.Snapshot, index map[uuid.UUID]int) error {
	query := `
		SELECT snapshot_id, debt_id, name, debt_type, amount, currency
		FROM snapshot_debts
		WHERE snapshot_id = ANY($1::uuid[])
		ORDER BY snapshot_id, position
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to list snapshot debts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var snapshotID uuid.UUID
		var debt domain.Debt
		var amountStr string
		if err := rows.Scan(
			&snapshotID,
			&debt.ID,
			&debt.Name,
			&debt.Type,
			&amountStr,
			&debt.Currency,
		); err != nil {
			return fmt.Errorf("failed to scan snapshot debt: %w", err)
		}
		if debt.Amount, err = parseDecimal("amount", amountStr); err != nil {
			return err
		}
		i := index[snapshotID]
		snapshots[i].Debts = append(snapshots[i].Debts, debt)
	}
	return rows.Err()
}

func nullableBound(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
