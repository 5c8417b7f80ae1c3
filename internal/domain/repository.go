package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AssetRepository defines the interface for asset persistence operations
type AssetRepository interface {
	// GetByID retrieves an asset by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*Asset, error)

	// Create creates a new asset
	Create(ctx context.Context, asset *Asset) error

	// List retrieves all assets, included or not.
	// Filtering by IsIncluded is the aggregator's job.
	List(ctx context.Context) ([]Asset, error)
}

// DebtRepository defines the interface for debt persistence operations
type DebtRepository interface {
	// Create creates a new debt
	Create(ctx context.Context, debt *Debt) error

	// List retrieves all debts
	List(ctx context.Context) ([]Debt, error)
}

// LendRecordRepository defines the interface for lend record persistence operations
type LendRecordRepository interface {
	// Create creates a new lend record
	Create(ctx context.Context, record *LendRecord) error

	// List retrieves all lend records
	List(ctx context.Context) ([]LendRecord, error)
}

// AccountRepository defines the interface for account persistence operations
type AccountRepository interface {
	// GetByID retrieves an account by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)

	// Create creates a new account
	Create(ctx context.Context, account *Account) error
}

// CategoryRepository defines the interface for category persistence operations
type CategoryRepository interface {
	// GetByID retrieves a category by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*Category, error)

	// Create creates a new category
	Create(ctx context.Context, category *Category) error

	// List retrieves all categories as a flat list
	List(ctx context.Context) ([]Category, error)
}

// TransactionRepository defines the interface for transaction persistence operations
type TransactionRepository interface {
	// Create stores a transaction of either variant and applies deltas to
	// the account balances as one unit. If any delta names an unknown
	// account the error wraps ErrNotFound and nothing is written.
	Create(ctx context.Context, tx Transaction, deltas []BalanceDelta) error

	// List retrieves a page of transactions, newest first
	List(ctx context.Context, limit, offset int) ([]Transaction, error)

	// Count returns the total number of transactions
	Count(ctx context.Context) (int, error)
}

// SnapshotRepository defines the interface for snapshot history persistence operations
type SnapshotRepository interface {
	// Add stores a snapshot with all of its asset and debt rows
	Add(ctx context.Context, snapshot *Snapshot) error

	// ListBetween retrieves snapshots with from <= date <= to, ordered by date ascending
	ListBetween(ctx context.Context, from, to time.Time) ([]Snapshot, error)
}

// ExchangeRateRepository defines the interface for exchange rate persistence operations
type ExchangeRateRepository interface {
	// Upsert inserts or replaces the rate for rate.From -> rate.To
	Upsert(ctx context.Context, rate *ExchangeRate) error

	// List retrieves all maintained rates
	List(ctx context.Context) ([]ExchangeRate, error)
}
