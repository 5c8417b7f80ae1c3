package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/simaogato/assetboard-backend/internal/domain"
)

const assetColumns = `id, name, asset_type, subtype, balance, currency, is_included, description, created_at, updated_at`

// assetRepository implements domain.AssetRepository
type assetRepository struct {
	db *DB
}

// NewAssetRepository creates a new asset repository
func NewAssetRepository(db *DB) domain.AssetRepository {
	return &assetRepository{db: db}
}

func scanAsset(row rowScanner) (*domain.Asset, error) {
	var asset domain.Asset
	var subtype sql.NullString
	var balanceStr string

	err := row.Scan(
		&asset.ID,
		&asset.Name,
		&asset.Type,
		&subtype,
		&balanceStr,
		&asset.Currency,
		&asset.IsIncluded,
		&asset.Description,
		&asset.CreatedAt,
		&asset.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	// Parse subtype (nullable)
	if subtype.Valid {
		st := domain.AccountSubtype(subtype.String)
		asset.Subtype = &st
	}

	// Parse balance (DECIMAL)
	if asset.Balance, err = parseDecimal("balance", balanceStr); err != nil {
		return nil, err
	}

	return &asset, nil
}

// GetByID retrieves an asset by its ID
func (r *assetRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE id = $1`

	asset, err := scanAsset(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("asset", id)
		}
		return nil, fmt.Errorf("failed to get asset by ID: %w", err)
	}
	return asset, nil
}

// Create creates a new asset
func (r *assetRepository) Create(ctx context.Context, asset *domain.Asset) error {
	query := `
		INSERT INTO assets (id, name, asset_type, subtype, balance, currency, is_included, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	var subtype *string
	if asset.Subtype != nil {
		s := string(*asset.Subtype)
		subtype = &s
	}

	_, err := r.db.ExecContext(ctx, query,
		asset.ID,
		asset.Name,
		string(asset.Type),
		nullableString(subtype),
		asset.Balance.String(),
		string(asset.Currency),
		asset.IsIncluded,
		asset.Description,
	)
	if err != nil {
		return fmt.Errorf("failed to create asset: %w", err)
	}

	return nil
}

// List retrieves all assets
func (r *assetRepository) List(ctx context.Context) ([]domain.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets ORDER BY created_at, name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	defer rows.Close()

	var assets []domain.Asset
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan asset: %w", err)
		}
		assets = append(assets, *asset)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assets: %w", err)
	}

	return assets, nil
}
