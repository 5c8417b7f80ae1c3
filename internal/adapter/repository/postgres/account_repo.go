package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/assetboard-backend/internal/domain"
)

// accountRepository implements domain.AccountRepository
type accountRepository struct {
	db *DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *DB) domain.AccountRepository {
	return &accountRepository{db: db}
}

// GetByID retrieves an account by its ID
func (r *accountRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	query := `
		SELECT id, name, account_type, balance, currency, icon, color
		FROM accounts
		WHERE id = $1
	`

	var account domain.Account
	var balanceStr string

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&account.ID,
		&account.Name,
		&account.Type,
		&balanceStr,
		&account.Currency,
		&account.Icon,
		&account.Color,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("account", id)
		}
		return nil, fmt.Errorf("failed to get account by ID: %w", err)
	}

	if account.Balance, err = parseDecimal("balance", balanceStr); err != nil {
		return nil, err
	}

	return &account, nil
}

// Create creates a new account
func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	query := `
		INSERT INTO accounts (id, name, account_type, balance, currency, icon, color)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		account.ID,
		account.Name,
		string(account.Type),
		account.Balance.String(),
		string(account.Currency),
		account.Icon,
		account.Color,
	)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// execer is satisfied by both *sql.DB and *sql.Tx
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// adjustBalance adds delta to the stored balance in a single statement
func adjustBalance(ctx context.Context, db execer, id uuid.UUID, delta decimal.Decimal) error {
	query := `UPDATE accounts SET balance = balance + $2 WHERE id = $1`

	result, err := db.ExecContext(ctx, query, id, delta.String())
	if err != nil {
		return fmt.Errorf("failed to adjust account balance: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return notFound("account", id)
	}

	return nil
}
