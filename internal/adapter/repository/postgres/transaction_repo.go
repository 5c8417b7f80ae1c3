package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/simaogato/assetboard-backend/internal/domain"
)

// transactionRepository implements domain.TransactionRepository.
// Both variants share the transactions table; tx_type selects the columns in use.
type transactionRepository struct {
	db *DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *DB) domain.TransactionRepository {
	return &transactionRepository{db: db}
}

// Create inserts a transaction of either variant and applies its balance
// deltas inside one database transaction
func (r *transactionRepository) Create(ctx context.Context, tx domain.Transaction, deltas []domain.BalanceDelta) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	if err := insertTransaction(ctx, dbTx, tx); err != nil {
		return err
	}

	for _, delta := range deltas {
		if err := adjustBalance(ctx, dbTx, delta.AccountID, delta.Amount); err != nil {
			return fmt.Errorf("failed to apply balance delta: %w", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func insertTransaction(ctx context.Context, db execer, tx domain.Transaction) error {
	query := `
		INSERT INTO transactions (
			id, tx_type, amount, note, date,
			category_id, subcategory_id, account_id,
			from_account_id, to_account_id, transfer_fee,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	base := tx.Base()
	var categoryID, subcategoryID, accountID, fromID, toID, fee any

	switch v := tx.(type) {
	case *domain.EntryTransaction:
		categoryID = v.CategoryID
		subcategoryID = nullableUUID(v.SubcategoryID)
		accountID = nullableUUID(v.AccountID)
	case *domain.TransferTransaction:
		fromID = v.FromAccountID
		toID = v.ToAccountID
		fee = nullableDecimal(v.TransferFee)
	}

	_, err := db.ExecContext(ctx, query,
		base.ID,
		string(tx.TransactionType()),
		base.Amount.String(),
		base.Note,
		base.Date,
		categoryID,
		subcategoryID,
		accountID,
		fromID,
		toID,
		fee,
		base.CreatedAt,
		base.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	return nil
}

// List retrieves a page of transactions, newest first
func (r *transactionRepository) List(ctx context.Context, limit, offset int) ([]domain.Transaction, error) {
	query := `
		SELECT id, tx_type, amount, note, date,
			category_id, subcategory_id, account_id,
			from_account_id, to_account_id, transfer_fee,
			created_at, updated_at
		FROM transactions
		ORDER BY date DESC, created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []domain.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return transactions, nil
}

// Count returns the total number of transactions
func (r *transactionRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}

func scanTransaction(row rowScanner) (domain.Transaction, error) {
	var base domain.TransactionBase
	var txType domain.TransactionType
	var amountStr string
	var categoryID, subcategoryID, accountID, fromID, toID sql.NullString
	var fee decimal.NullDecimal

	if err := row.Scan(
		&base.ID,
		&txType,
		&amountStr,
		&base.Note,
		&base.Date,
		&categoryID,
		&subcategoryID,
		&accountID,
		&fromID,
		&toID,
		&fee,
		&base.CreatedAt,
		&base.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("failed to scan transaction: %w", err)
	}

	amount, err := parseDecimal("amount", amountStr)
	if err != nil {
		return nil, err
	}
	base.Amount = amount

	if txType == domain.TransactionTypeTransfer {
		from, err := uuidPtr(fromID, "from_account_id")
		if err != nil {
			return nil, err
		}
		to, err := uuidPtr(toID, "to_account_id")
		if err != nil {
			return nil, err
		}
		if from == nil || to == nil {
			return nil, fmt.Errorf("transfer %s is missing an account", base.ID)
		}
		return &domain.TransferTransaction{
			TransactionBase: base,
			FromAccountID:   *from,
			ToAccountID:     *to,
			TransferFee:     decimalPtr(fee),
		}, nil
	}

	category, err := uuidPtr(categoryID, "category_id")
	if err != nil {
		return nil, err
	}
	subcategory, err := uuidPtr(subcategoryID, "subcategory_id")
	if err != nil {
		return nil, err
	}
	account, err := uuidPtr(accountID, "account_id")
	if err != nil {
		return nil, err
	}

	entry := &domain.EntryTransaction{
		TransactionBase: base,
		Kind:            txType,
		SubcategoryID:   subcategory,
		AccountID:       account,
	}
	if category != nil {
		entry.CategoryID = *category
	}
	return entry, nil
}
