package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/simaogato/assetboard-backend/internal/domain"
)

// debtRepository implements domain.DebtRepository
type debtRepository struct {
	db *DB
}

// NewDebtRepository creates a new debt repository
func NewDebtRepository(db *DB) domain.DebtRepository {
	return &debtRepository{db: db}
}

// Create creates a new debt
func (r *debtRepository) Create(ctx context.Context, debt *domain.Debt) error {
	query := `
		INSERT INTO debts (id, name, debt_type, amount, currency, interest_rate, due_date, creditor, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		debt.ID,
		debt.Name,
		string(debt.Type),
		debt.Amount.String(),
		string(debt.Currency),
		nullableDecimal(debt.InterestRate),
		nullableTime(debt.DueDate),
		debt.Creditor,
		debt.Description,
	)
	if err != nil {
		return fmt.Errorf("failed to create debt: %w", err)
	}

	return nil
}

// List retrieves all debts
func (r *debtRepository) List(ctx context.Context) ([]domain.Debt, error) {
	query := `
		SELECT id, name, debt_type, amount, currency, interest_rate, due_date, creditor, description, created_at, updated_at
		FROM debts
		ORDER BY created_at, name
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list debts: %w", err)
	}
	defer rows.Close()

	var debts []domain.Debt
	for rows.Next() {
		var debt domain.Debt
		var amountStr string
		var interest decimal.NullDecimal
		var dueDate sql.NullTime

		if err := rows.Scan(
			&debt.ID,
			&debt.Name,
			&debt.Type,
			&amountStr,
			&debt.Currency,
			&interest,
			&dueDate,
			&debt.Creditor,
			&debt.Description,
			&debt.CreatedAt,
			&debt.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan debt: %w", err)
		}

		if debt.Amount, err = parseDecimal("amount", amountStr); err != nil {
			return nil, err
		}
		debt.InterestRate = decimalPtr(interest)
		debt.DueDate = timePtr(dueDate)

		debts = append(debts, debt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating debts: %w", err)
	}

	return debts, nil
}

// lendRecordRepository implements domain.LendRecordRepository
type lendRecordRepository struct {
	db *DB
}

// NewLendRecordRepository creates a new lend record repository
func NewLendRecordRepository(db *DB) domain.LendRecordRepository {
	return &lendRecordRepository{db: db}
}

// Create creates a new lend record
func (r *lendRecordRepository) Create(ctx context.Context, record *domain.LendRecord) error {
	query := `
		INSERT INTO lend_records (id, name, amount, currency, borrower, interest_rate, due_date, actual_return_date, status, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.Name,
		record.Amount.String(),
		string(record.Currency),
		record.Borrower,
		nullableDecimal(record.InterestRate),
		nullableTime(record.DueDate),
		nullableTime(record.ActualReturnDate),
		string(record.Status),
		record.Description,
	)
	if err != nil {
		return fmt.Errorf("failed to create lend record: %w", err)
	}

	return nil
}

// List retrieves all lend records
func (r *lendRecordRepository) List(ctx context.Context) ([]domain.LendRecord, error) {
	query := `
		SELECT id, name, amount, currency, borrower, interest_rate, due_date, actual_return_date, status, description, created_at, updated_at
		FROM lend_records
		ORDER BY created_at, name
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list lend records: %w", err)
	}
	defer rows.Close()

	var records []domain.LendRecord
	for rows.Next() {
		var record domain.LendRecord
		var amountStr string
		var interest decimal.NullDecimal
		var dueDate, returnedAt sql.NullTime

		if err := rows.Scan(
			&record.ID,
			&record.Name,
			&amountStr,
			&record.Currency,
			&record.Borrower,
			&interest,
			&dueDate,
			&returnedAt,
			&record.Status,
			&record.Description,
			&record.CreatedAt,
			&record.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan lend record: %w", err)
		}

		if record.Amount, err = parseDecimal("amount", amountStr); err != nil {
			return nil, err
		}
		record.InterestRate = decimalPtr(interest)
		record.DueDate = timePtr(dueDate)
		record.ActualReturnDate = timePtr(returnedAt)

		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating lend records: %w", err)
	}

	return records, nil
}
