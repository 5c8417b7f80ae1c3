// Package memory keeps every repository in process memory. It backs local
// runs without a database and the adapter tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/simaogato/assetboard-backend/internal/domain"
)

var (
	_ domain.AssetRepository        = (*AssetRepository)(nil)
	_ domain.DebtRepository         = (*DebtRepository)(nil)
	_ domain.LendRecordRepository   = (*LendRecordRepository)(nil)
	_ domain.AccountRepository      = (*AccountRepository)(nil)
	_ domain.CategoryRepository     = (*CategoryRepository)(nil)
	_ domain.TransactionRepository  = (*TransactionRepository)(nil)
	_ domain.SnapshotRepository     = (*SnapshotRepository)(nil)
	_ domain.ExchangeRateRepository = (*ExchangeRateRepository)(nil)
)

func notFound(entity string, id any) error {
	return fmt.Errorf("%s %v: %w", entity, id, domain.ErrNotFound)
}

// Store groups the in-memory repositories
type Store struct {
	Assets        *AssetRepository
	Debts         *DebtRepository
	LendRecords   *LendRecordRepository
	Accounts      *AccountRepository
	Categories    *CategoryRepository
	Transactions  *TransactionRepository
	Snapshots     *SnapshotRepository
	ExchangeRates *ExchangeRateRepository
}

// NewStore creates an empty Store
func NewStore() *Store {
	accounts := &AccountRepository{items: make(map[uuid.UUID]domain.Account)}
	return &Store{
		Assets:        &AssetRepository{items: make(map[uuid.UUID]domain.Asset)},
		Debts:         &DebtRepository{},
		LendRecords:   &LendRecordRepository{},
		Accounts:      accounts,
		Categories:    &CategoryRepository{items: make(map[uuid.UUID]domain.Category)},
		Transactions:  &TransactionRepository{accounts: accounts},
		Snapshots:     &SnapshotRepository{},
		ExchangeRates: &ExchangeRateRepository{items: make(map[[2]domain.Currency]domain.ExchangeRate)},
	}
}

// AssetRepository implements domain.AssetRepository
type AssetRepository struct {
	mu    sync.RWMutex
	items map[uuid.UUID]domain.Asset
	order []uuid.UUID
}

func (r *AssetRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Asset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	asset, ok := r.items[id]
	if !ok {
		return nil, notFound("asset", id)
	}
	return &asset, nil
}

func (r *AssetRepository) Create(_ context.Context, asset *domain.Asset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.items[asset.ID]; exists {
		return fmt.Errorf("asset %s already exists", asset.ID)
	}
	r.items[asset.ID] = *asset
	r.order = append(r.order, asset.ID)
	return nil
}

func (r *AssetRepository) List(_ context.Context) ([]domain.Asset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	assets := make([]domain.Asset, 0, len(r.order))
	for _, id := range r.order {
		assets = append(assets, r.items[id])
	}
	return assets, nil
}

// DebtRepository implements domain.DebtRepository
type DebtRepository struct {
	mu    sync.RWMutex
	items []domain.Debt
}

func (r *DebtRepository) Create(_ context.Context, debt *domain.Debt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, *debt)
	return nil
}

func (r *DebtRepository) List(_ context.Context) ([]domain.Debt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.Debt(nil), r.items...), nil
}

// LendRecordRepository implements domain.LendRecordRepository
type LendRecordRepository struct {
	mu    sync.RWMutex
	items []domain.LendRecord
}

func (r *LendRecordRepository) Create(_ context.Context, record *domain.LendRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, *record)
	return nil
}

func (r *LendRecordRepository) List(_ context.Context) ([]domain.LendRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.LendRecord(nil), r.items...), nil
}

// AccountRepository implements domain.AccountRepository
type AccountRepository struct {
	mu    sync.RWMutex
	items map[uuid.UUID]domain.Account
}

func (r *AccountRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	account, ok := r.items[id]
	if !ok {
		return nil, notFound("account", id)
	}
	return &account, nil
}

func (r *AccountRepository) Create(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.items[account.ID]; exists {
		return fmt.Errorf("account %s already exists", account.ID)
	}
	r.items[account.ID] = *account
	return nil
}

// applyLocked checks every account named in deltas before touching any
// balance. The caller holds r.mu.
func (r *AccountRepository) applyLocked(deltas []domain.BalanceDelta) error {
	for _, delta := range deltas {
		if _, ok := r.items[delta.AccountID]; !ok {
			return notFound("account", delta.AccountID)
		}
	}
	for _, delta := range deltas {
		account := r.items[delta.AccountID]
		account.Balance = account.Balance.Add(delta.Amount)
		r.items[delta.AccountID] = account
	}
	return nil
}

// CategoryRepository implements domain.CategoryRepository
type CategoryRepository struct {
	mu    sync.RWMutex
	items map[uuid.UUID]domain.Category
	order []uuid.UUID
}

func (r *CategoryRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	category, ok := r.items[id]
	if !ok {
		return nil, notFound("category", id)
	}
	return &category, nil
}

func (r *CategoryRepository) Create(_ context.Context, category *domain.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.items[category.ID]; exists {
		return fmt.Errorf("category %s already exists", category.ID)
	}
	r.items[category.ID] = *category
	r.order = append(r.order, category.ID)
	return nil
}

func (r *CategoryRepository) List(_ context.Context) ([]domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	categories := make([]domain.Category, 0, len(r.order))
	for _, id := range r.order {
		categories = append(categories, r.items[id])
	}
	return categories, nil
}

// TransactionRepository implements domain.TransactionRepository.
// Balance deltas go to the shared accounts repository; locks are taken
// transactions first, then accounts.
type TransactionRepository struct {
	mu       sync.RWMutex
	items    []domain.Transaction
	accounts *AccountRepository
}

func (r *TransactionRepository) Create(_ context.Context, tx domain.Transaction, deltas []domain.BalanceDelta) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(deltas) > 0 {
		if r.accounts == nil {
			return fmt.Errorf("transaction %s moves balances but no accounts are attached", tx.Base().ID)
		}
		r.accounts.mu.Lock()
		defer r.accounts.mu.Unlock()
		if err := r.accounts.applyLocked(deltas); err != nil {
			return err
		}
	}

	r.items = append(r.items, cloneTransaction(tx))
	return nil
}

// List returns transactions newest first by date, then by insertion
func (r *TransactionRepository) List(_ context.Context, limit, offset int) ([]domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sorted := make([]domain.Transaction, len(r.items))
	for i, tx := range r.items {
		sorted[len(r.items)-1-i] = tx
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Base().Date.After(sorted[j].Base().Date)
	})

	if offset >= len(sorted) {
		return []domain.Transaction{}, nil
	}
	end := min(offset+limit, len(sorted))
	page := make([]domain.Transaction, 0, end-offset)
	for _, tx := range sorted[offset:end] {
		page = append(page, cloneTransaction(tx))
	}
	return page, nil
}

func (r *TransactionRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items), nil
}

func cloneTransaction(tx domain.Transaction) domain.Transaction {
	return domain.MatchTransaction(tx,
		func(entry *domain.EntryTransaction) domain.Transaction {
			c := *entry
			return &c
		},
		func(transfer *domain.TransferTransaction) domain.Transaction {
			c := *transfer
			return &c
		},
	)
}

// SnapshotRepository implements domain.SnapshotRepository
type SnapshotRepository struct {
	mu    sync.RWMutex
	items []domain.Snapshot
}

func (r *SnapshotRepository) Add(_ context.Context, snapshot *domain.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := *snapshot
	s.Assets = append([]domain.Asset(nil), snapshot.Assets...)
	s.Debts = append([]domain.Debt(nil), snapshot.Debts...)
	r.items = append(r.items, s)
	return nil
}

func (r *SnapshotRepository) ListBetween(_ context.Context, from, to time.Time) ([]domain.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshots := make([]domain.Snapshot, 0, len(r.items))
	for _, s := range r.items {
		if !from.IsZero() && s.Date.Before(from) {
			continue
		}
		if !to.IsZero() && s.Date.After(to) {
			continue
		}
		snapshots = append(snapshots, s)
	}
	sort.SliceStable(snapshots, func(i, j int) bool {
		return snapshots[i].Date.Before(snapshots[j].Date)
	})
	return snapshots, nil
}

// ExchangeRateRepository implements domain.ExchangeRateRepository
type ExchangeRateRepository struct {
	mu    sync.RWMutex
	items map[[2]domain.Currency]domain.ExchangeRate
}

func (r *ExchangeRateRepository) Upsert(_ context.Context, rate *domain.ExchangeRate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[[2]domain.Currency{rate.From, rate.To}] = *rate
	return nil
}

func (r *ExchangeRateRepository) List(_ context.Context) ([]domain.ExchangeRate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rates := make([]domain.ExchangeRate, 0, len(r.items))
	for _, rate := range r.items {
		rates = append(rates, rate)
	}
	sort.Slice(rates, func(i, j int) bool {
		if rates[i].From != rates[j].From {
			return rates[i].From < rates[j].From
		}
		return rates[i].To < rates[j].To
	})
	return rates, nil
}
