package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/simaogato/assetboard-backend/internal/domain"
	"github.com/simaogato/assetboard-backend/internal/logging"
)

// Page is one slice of the transaction history
type Page struct {
	Transactions []domain.Transaction
	Total        int
}

// LedgerService handles transaction recording operations
type LedgerService struct {
	TransactionRepo domain.TransactionRepository
	AccountRepo     domain.AccountRepository
	CategoryRepo    domain.CategoryRepository

	logger *slog.Logger
	now    func() time.Time
}

// NewLedgerService creates a new LedgerService instance
func NewLedgerService(
	transactionRepo domain.TransactionRepository,
	accountRepo domain.AccountRepository,
	categoryRepo domain.CategoryRepository,
	logger *slog.Logger,
) *LedgerService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LedgerService{
		TransactionRepo: transactionRepo,
		AccountRepo:     accountRepo,
		CategoryRepo:    categoryRepo,
		logger:          logging.WithComponent(logger, "ledger"),
		now:             time.Now,
	}
}

// RecordTransaction validates a transaction and persists it together with the account balance moves.
// Logic:
//  1. Validate the variant (a transfer between one account is rejected here)
//  2. Entry: category must exist with a matching type, subcategory must be its child
//  3. Every referenced account must exist
//  4. Assign the ID and timestamps
//  5. Save the transaction and its balance deltas in one TransactionRepo.Create
func (s *LedgerService) RecordTransaction(ctx context.Context, tx domain.Transaction) (domain.Transaction, error) {
	if tx == nil {
		return nil, errors.New("transaction is required")
	}
	if err := tx.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidTransaction, err)
	}

	err := domain.MatchTransaction(tx,
		func(entry *domain.EntryTransaction) error { return s.checkEntry(ctx, entry) },
		func(transfer *domain.TransferTransaction) error { return s.checkTransfer(ctx, transfer) },
	)
	if err != nil {
		return nil, err
	}

	base := tx.Base()
	now := s.now()
	if base.ID == uuid.Nil {
		base.ID = uuid.New()
	}
	base.CreatedAt = now
	base.UpdatedAt = now

	if err := s.TransactionRepo.Create(ctx, tx, domain.BalanceDeltas(tx)); err != nil {
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}

	s.logger.InfoContext(ctx, "transaction recorded",
		slog.String("transaction_id", base.ID.String()),
		slog.String("type", string(tx.TransactionType())),
		slog.String("amount", base.Amount.String()),
	)
	return tx, nil
}

func (s *LedgerService) checkEntry(ctx context.Context, entry *domain.EntryTransaction) error {
	tree, err := s.CategoryTree(ctx)
	if err != nil {
		return err
	}

	category, ok := tree.Get(entry.CategoryID)
	if !ok {
		return fmt.Errorf("category %s: %w", entry.CategoryID, domain.ErrNotFound)
	}
	if string(category.Type) != string(entry.Kind) {
		return &domain.ValidationError{
			Field:   "category",
			Message: fmt.Sprintf("%s transaction cannot use %s category %q", entry.Kind, category.Type, category.Name),
		}
	}

	if entry.SubcategoryID != nil {
		sub, ok := tree.Get(*entry.SubcategoryID)
		if !ok {
			return fmt.Errorf("subcategory %s: %w", *entry.SubcategoryID, domain.ErrNotFound)
		}
		if sub.ParentID == nil || *sub.ParentID != category.ID {
			return &domain.ValidationError{
				Field:   "subcategory",
				Message: fmt.Sprintf("%q is not a subcategory of %q", sub.Name, category.Name),
			}
		}
	}

	if entry.AccountID != nil {
		if _, err := s.AccountRepo.GetByID(ctx, *entry.AccountID); err != nil {
			return err
		}
	}
	return nil
}

func (s *LedgerService) checkTransfer(ctx context.Context, transfer *domain.TransferTransaction) error {
	for _, id := range []uuid.UUID{transfer.FromAccountID, transfer.ToAccountID} {
		if _, err := s.AccountRepo.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// CategoryTree loads every category and resolves the hierarchy
func (s *LedgerService) CategoryTree(ctx context.Context) (*domain.CategoryTree, error) {
	categories, err := s.CategoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return domain.NewCategoryTree(categories)
}

// ListTransactions returns a page of the history, newest first
func (s *LedgerService) ListTransactions(ctx context.Context, limit, offset int) (*Page, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	transactions, err := s.TransactionRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	total, err := s.TransactionRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count transactions: %w", err)
	}
	return &Page{Transactions: transactions, Total: total}, nil
}
